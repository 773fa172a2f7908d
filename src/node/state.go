package node

import (
	"sync"
	"sync/atomic"
)

// State captures the lifecycle of a node: Created, Gossiping, or Shutdown
type State uint32

const (
	//Created is the state of a node that has not been started
	Created State = iota
	//Gossiping is the state of a running node
	Gossiping
	//Shutdown is shutdown
	Shutdown
)

// String ...
func (s State) String() string {
	switch s {
	case Created:
		return "Created"
	case Gossiping:
		return "Gossiping"
	case Shutdown:
		return "Shutdown"
	default:
		return "Unknown"
	}
}

// RumorPhase is the state of the rumor monger: Idle or Rumoring
type RumorPhase int

const (
	//Idle means no rumor is waiting for an acknowledgement
	Idle RumorPhase = iota
	//Rumoring means a rumor is outstanding and its timer is armed
	Rumoring
)

// String ...
func (p RumorPhase) String() string {
	switch p {
	case Idle:
		return "Idle"
	case Rumoring:
		return "Rumoring"
	default:
		return "Unknown"
	}
}

type state struct {
	state State
	wg    sync.WaitGroup
}

func (b *state) getState() State {
	stateAddr := (*uint32)(&b.state)
	return State(atomic.LoadUint32(stateAddr))
}

func (b *state) setState(s State) {
	stateAddr := (*uint32)(&b.state)
	atomic.StoreUint32(stateAddr, uint32(s))
}

// Start a goroutine and add it to waitgroup
func (b *state) goFunc(f func()) {
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		f()
	}()
}

func (b *state) waitRoutines() {
	b.wg.Wait()
}

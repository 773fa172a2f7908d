package msglog

import (
	"sort"
	"strconv"

	cm "github.com/mosaicnetworks/peerchat/src/common"
)

// InmemStore implements the Store interface with in-memory logs. Messages are
// kept for the lifetime of the process; nothing is ever evicted.
//
// InmemStore is not safe for concurrent use. It is owned by the node's reactor
// goroutine.
type InmemStore struct {
	logs map[string][]*Message //origin => log
	len  int
}

// NewInmemStore ...
func NewInmemStore() *InmemStore {
	return &InmemStore{
		logs: make(map[string][]*Message),
	}
}

// Append implements the Store interface.
func (s *InmemStore) Append(msg *Message) error {
	log := s.logs[msg.Origin]

	switch {
	case msg.SeqNum < len(log):
		return cm.NewStoreErr("MessageLog", cm.TooLate, msg.Key())
	case msg.SeqNum > len(log):
		return cm.NewStoreErr("MessageLog", cm.SkippedIndex, msg.Key())
	}

	s.logs[msg.Origin] = append(log, msg)
	s.len++

	return nil
}

// Count implements the Store interface.
func (s *InmemStore) Count(origin string) int {
	return len(s.logs[origin])
}

// At implements the Store interface.
func (s *InmemStore) At(origin string, seqNum int) (*Message, error) {
	log, ok := s.logs[origin]
	if !ok {
		return nil, cm.NewStoreErr("MessageLog", cm.KeyNotFound, origin)
	}
	if seqNum < 0 || seqNum >= len(log) {
		return nil, cm.NewStoreErr("MessageLog", cm.PassedIndex, origin+":"+strconv.Itoa(seqNum))
	}
	return log[seqNum], nil
}

// AddOrigin implements the Store interface.
func (s *InmemStore) AddOrigin(origin string) {
	if _, ok := s.logs[origin]; !ok {
		s.logs[origin] = []*Message{}
	}
}

// KnownOrigins implements the Store interface.
func (s *InmemStore) KnownOrigins() []string {
	res := make([]string, 0, len(s.logs))
	for o := range s.logs {
		res = append(res, o)
	}
	sort.Strings(res)
	return res
}

// Status implements the Store interface.
func (s *InmemStore) Status() StatusVector {
	res := make(StatusVector, len(s.logs))
	for o, log := range s.logs {
		res[o] = len(log)
	}
	return res
}

// Len implements the Store interface.
func (s *InmemStore) Len() int {
	return s.len
}

// Messages implements the Store interface.
func (s *InmemStore) Messages(origin string) []*Message {
	log := s.logs[origin]
	res := make([]*Message, len(log))
	copy(res, log)
	return res
}

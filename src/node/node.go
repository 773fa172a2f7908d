package node

import (
	"errors"
	"math/rand"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/mosaicnetworks/peerchat/src/msglog"
	"github.com/mosaicnetworks/peerchat/src/net"
	"github.com/mosaicnetworks/peerchat/src/peers"
	"github.com/mosaicnetworks/peerchat/src/proxy"
	"github.com/sirupsen/logrus"
)

// ErrShutdown is returned by requests made to a node that has been shut down.
var ErrShutdown = errors.New("node: shutdown")

//Node defines a peerchat node
type Node struct {
	state

	conf   *Config
	logger *logrus.Entry

	core *Core

	trans net.Transport
	netCh <-chan net.Datagram

	proxy    proxy.AppProxy
	submitCh chan string

	promiseCh chan *SubmitPromise
	queryCh   chan func()

	sigintCh     chan os.Signal
	shutdownCh   chan struct{}
	shutdownLock sync.Mutex

	start         time.Time
	rumorsIn      int
	statusesIn    int
	processErrors int
}

//NewNode is a factory method that returns a Node instance. neighbors is the
//fixed overlay of the node.
func NewNode(conf *Config,
	origin string,
	neighbors *peers.PeerSet,
	store msglog.Store,
	trans net.Transport,
	proxy proxy.AppProxy,
) *Node {
	//Prepare sigintCh to relay SIGINT and SIGTERM system calls
	sigintCh := make(chan os.Signal, 1)
	signal.Notify(sigintCh, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	logger := conf.Logger.WithField("this_origin", origin)

	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))

	node := Node{
		conf:   conf,
		logger: logger,
		core: NewCore(origin,
			store,
			trans,
			NewRandomPeerSelector(neighbors, trans.LocalAddr(), rnd),
			proxy.Deliver,
			conf,
			rnd,
			conf.Logger.WithField("prefix", "core")),
		trans:      trans,
		netCh:      trans.Consumer(),
		proxy:      proxy,
		submitCh:   proxy.SubmitCh(),
		promiseCh:  make(chan *SubmitPromise),
		queryCh:    make(chan func()),
		sigintCh:   sigintCh,
		shutdownCh: make(chan struct{}),
	}

	return &node
}

//Init starts listening on the transport
func (n *Node) Init() error {
	n.logger.WithFields(logrus.Fields{
		"local_addr": n.trans.LocalAddr(),
		"neighbors":  n.core.peerSelector.Peers().NetAddrs(),
	}).Debug("Init")

	n.trans.Listen()

	return nil
}

//RunAsync calls Run as a separate thread
func (n *Node) RunAsync() {
	n.logger.Debug("runasync")
	n.start = time.Now()
	n.setState(Gossiping)
	n.goFunc(n.run)
}

//Run invokes the main loop of the node, and returns when the node is shut
//down
func (n *Node) Run() {
	n.start = time.Now()
	n.setState(Gossiping)
	n.goFunc(n.run)
	n.waitRoutines()
}

// run is the reactor. It handles one event at a time, so the store and the
// rumor state are never accessed concurrently.
func (n *Node) run() {
	n.logger.WithField("state", n.getState().String()).Debug("Run loop")

	//The anti-entropy ticker runs for the whole life of the node, even when
	//there is nothing new to say.
	ticker := time.NewTicker(n.conf.AntiEntropyInterval)
	defer ticker.Stop()

	for {
		select {
		case d := <-n.netCh:
			n.processDatagram(d)
		case text := <-n.submitCh:
			if _, err := n.core.SubmitText(text); err != nil {
				n.logger.WithError(err).Error("Submitting text")
			}
		case p := <-n.promiseCh:
			msg, err := n.core.SubmitText(p.Text)
			p.Respond(msg, err)
		case <-n.core.RumorTimer():
			n.core.RetransmitRumor()
		case <-ticker.C:
			if err := n.core.AntiEntropy(); err != nil {
				n.logger.WithError(err).Debug("AntiEntropy")
			}
		case q := <-n.queryCh:
			q()
		case <-n.sigintCh:
			n.logger.Debug("Reacting to SIGINT")
			n.stop()
			return
		case <-n.shutdownCh:
			return
		}
	}
}

func (n *Node) processDatagram(d net.Datagram) {
	var err error

	if !n.core.peerSelector.Peers().Contains(d.From) {
		n.logger.WithField("from", d.From).Debug("Packet from outside the overlay")
	}

	switch {
	case d.Packet.Rumor != nil:
		n.rumorsIn++
		err = n.core.ProcessRumor(d.From, d.Packet.Rumor)
	case d.Packet.Status != nil:
		n.statusesIn++
		err = n.core.ProcessStatus(d.From, d.Packet.Status)
	}

	if err != nil {
		n.processErrors++
		n.logger.WithError(err).WithField("from", d.From).Error("Processing packet")
	}
}

//Shutdown stops the reactor, closes the transport, and waits for the main loop
//to return
func (n *Node) Shutdown() {
	if n.getState() == Gossiping {
		n.logStats()
	}
	n.stop()
	n.waitRoutines()
}

func (n *Node) stop() {
	n.shutdownLock.Lock()
	defer n.shutdownLock.Unlock()

	if n.getState() == Shutdown {
		return
	}

	n.logger.Debug("Shutdown")

	n.setState(Shutdown)
	close(n.shutdownCh)
	signal.Stop(n.sigintCh)

	if err := n.trans.Close(); err != nil {
		n.logger.WithError(err).Error("Closing transport")
	}
}

// query runs f on the reactor goroutine. Before the node runs, nothing else
// touches the core, so f is called directly.
func (n *Node) query(f func()) error {
	switch n.getState() {
	case Created:
		f()
		return nil
	case Shutdown:
		return ErrShutdown
	}

	done := make(chan struct{})
	select {
	case n.queryCh <- func() { f(); close(done) }:
	case <-n.shutdownCh:
		return ErrShutdown
	}
	<-done

	return nil
}

//SubmitText submits local text through the reactor and returns the resulting
//message
func (n *Node) SubmitText(text string) (*msglog.Message, error) {
	if n.getState() != Gossiping {
		return nil, ErrShutdown
	}

	promise := NewSubmitPromise(text)

	select {
	case n.promiseCh <- promise:
	case <-n.shutdownCh:
		return nil, ErrShutdown
	}

	resp := <-promise.RespCh

	return resp.Message, resp.Err
}

//GetStatus returns the current status vector
func (n *Node) GetStatus() (msglog.StatusVector, error) {
	var res msglog.StatusVector
	err := n.query(func() {
		res = n.core.Status()
	})
	return res, err
}

//GetMessages returns every known message, by origin
func (n *Node) GetMessages() (map[string][]*msglog.Message, error) {
	var res map[string][]*msglog.Message
	err := n.query(func() {
		res = n.core.Messages()
	})
	return res, err
}

//GetStats returns information about the node.
func (n *Node) GetStats() (map[string]string, error) {
	var s map[string]string

	err := n.query(func() {
		timeElapsed := time.Since(n.start)
		if n.start.IsZero() {
			timeElapsed = 0
		}

		target := ""
		attempts := 0
		if r := n.core.Rumor(); r != nil {
			target = r.Target.NetAddr
			attempts = r.Attempts
		}

		s = map[string]string{
			"origin":          n.core.Origin(),
			"local_addr":      n.trans.LocalAddr(),
			"num_peers":       strconv.Itoa(n.core.peerSelector.Peers().Len()),
			"known_origins":   strconv.Itoa(len(n.core.store.KnownOrigins())),
			"known_messages":  strconv.Itoa(n.core.store.Len()),
			"rumor_phase":     n.core.Phase().String(),
			"rumor_target":    target,
			"rumor_attempts":  strconv.Itoa(attempts),
			"rumors_started":  strconv.Itoa(n.core.rumorsSent),
			"retransmissions": strconv.Itoa(n.core.retransmissions),
			"abandoned":       strconv.Itoa(n.core.abandoned),
			"pushes":          strconv.Itoa(n.core.pushes),
			"pulls":           strconv.Itoa(n.core.pulls),
			"rumors_in":       strconv.Itoa(n.rumorsIn),
			"statuses_in":     strconv.Itoa(n.statusesIn),
			"process_errors":  strconv.Itoa(n.processErrors),
			"time_elapsed":    strconv.FormatFloat(timeElapsed.Seconds(), 'f', 2, 64),
			"state":           n.getState().String(),
		}
	})

	return s, err
}

func (n *Node) logStats() {
	stats, err := n.GetStats()
	if err != nil {
		return
	}

	fields := logrus.Fields{}
	for k, v := range stats {
		fields[k] = v
	}
	n.logger.WithFields(fields).Debug("Stats")
}

//Origin returns the origin of the local node
func (n *Node) Origin() string {
	return n.core.Origin()
}

//LocalAddr returns the address the node listens on
func (n *Node) LocalAddr() string {
	return n.trans.LocalAddr()
}

//GetPeers returns the neighbours of the node
func (n *Node) GetPeers() []*peers.Peer {
	return n.core.peerSelector.Peers().Peers
}

//GetState returns the lifecycle state of the node
func (n *Node) GetState() State {
	return n.getState()
}

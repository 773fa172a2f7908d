package node

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/mosaicnetworks/peerchat/src/common"
	"github.com/mosaicnetworks/peerchat/src/msglog"
	"github.com/mosaicnetworks/peerchat/src/net"
	"github.com/mosaicnetworks/peerchat/src/peers"
	"github.com/mosaicnetworks/peerchat/src/telemetry"
	"github.com/sirupsen/logrus"
)

// Sender is the part of the transport used by Core. Sends are fire-and-forget.
type Sender interface {
	Send(target string, packet *net.GossipPacket) error
}

// DeliverFunc hands a message to the application.
type DeliverFunc func(text, origin string) error

// RumorState is the message currently being rumored, the neighbour it was last
// sent to, and its retransmission timer.
type RumorState struct {
	Message  *msglog.Message
	Target   *peers.Peer
	Attempts int
	timer    *RumorTimer
}

//Core is the protocol engine of a node. It implements rumor mongering and
//anti-entropy on top of the message log.
//
//Core is not safe for concurrent use. All its methods are meant to be called
//from the node's reactor goroutine, which is the only owner of the store and
//of the rumor state.
type Core struct {
	// origin is the identity under which local messages are numbered.
	origin string

	// store is the sole source of truth of what this node knows.
	store msglog.Store

	sender       Sender
	peerSelector PeerSelector
	deliver      DeliverFunc

	// rumor is nil when the monger is Idle.
	rumor *RumorState

	rumorTimeout        time.Duration
	rumorRetries        int
	continueProbability float64

	timerFactory timerFactory
	rnd          *rand.Rand

	// counters reported by the node stats
	rumorsSent      int
	retransmissions int
	abandoned       int
	pushes          int
	pulls           int

	logger *logrus.Entry
}

//NewCore is a factory method that returns a new Core object
func NewCore(
	origin string,
	store msglog.Store,
	sender Sender,
	peerSelector PeerSelector,
	deliver DeliverFunc,
	conf *Config,
	rnd *rand.Rand,
	logger *logrus.Entry) *Core {

	if logger == nil {
		log := logrus.New()
		log.Level = logrus.DebugLevel
		logger = logrus.NewEntry(log)
	}

	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	core := &Core{
		origin:              origin,
		store:               store,
		sender:              sender,
		peerSelector:        peerSelector,
		deliver:             deliver,
		rumorTimeout:        conf.RumorTimeout,
		rumorRetries:        conf.RumorRetries,
		continueProbability: conf.ContinueProbability,
		timerFactory:        defaultTimerFactory,
		rnd:                 rnd,
		logger:              logger.WithField("this_origin", origin),
	}

	return core
}

// Origin returns the identity of the local node.
func (c *Core) Origin() string {
	return c.origin
}

// Phase returns Rumoring if a rumor is waiting for an acknowledgement.
func (c *Core) Phase() RumorPhase {
	if c.rumor == nil {
		return Idle
	}
	return Rumoring
}

// Rumor returns the outstanding rumor, or nil when Idle.
func (c *Core) Rumor() *RumorState {
	return c.rumor
}

// RumorTimer returns the channel of the retransmission timer of the
// outstanding rumor. It is nil when Idle.
func (c *Core) RumorTimer() <-chan time.Time {
	if c.rumor == nil {
		return nil
	}
	return c.rumor.timer.C()
}

/*******************************************************************************
RumorMonger
*******************************************************************************/

// SubmitText records a new local message under the next sequence number of
// the local origin, echoes it to the application, and starts rumoring it.
func (c *Core) SubmitText(text string) (*msglog.Message, error) {
	msg := msglog.NewMessage(c.origin, c.store.Count(c.origin), text)

	if err := c.store.Append(msg); err != nil {
		return nil, fmt.Errorf("appending local message: %w", err)
	}
	telemetry.KnownMessages.Set(float64(c.store.Len()))

	c.logger.WithFields(logrus.Fields{
		"seq_num": msg.SeqNum,
	}).Info("New local message")

	if err := c.deliver(msg.Text, msg.Origin); err != nil {
		c.logger.WithError(err).Error("Delivering local message")
	}

	c.startRumor(msg)

	return msg, nil
}

// ProcessRumor handles a rumor received from a peer. The message is appended
// if it is exactly the next one expected from its origin, in which case it is
// delivered and rumored further. Either way, the sender gets our status back.
func (c *Core) ProcessRumor(from string, rumor *net.RumorMessage) error {
	msg := msglog.NewMessage(rumor.Origin, rumor.SeqNum, rumor.ChatText)

	logger := c.logger.WithFields(logrus.Fields{
		"from":    from,
		"origin":  msg.Origin,
		"seq_num": msg.SeqNum,
	})

	c.store.AddOrigin(msg.Origin)

	err := c.store.Append(msg)
	switch {
	case err == nil:
		telemetry.RumorsAccepted.Inc()
		telemetry.KnownMessages.Set(float64(c.store.Len()))

		logger.Info("Accepted rumor")

		if err := c.deliver(msg.Text, msg.Origin); err != nil {
			logger.WithError(err).Error("Delivering message")
		}

		c.startRumor(msg)
	case common.IsStore(err, common.TooLate):
		telemetry.RumorsDropped.WithLabelValues("stale").Inc()
		logger.Debug("Dropped known rumor")
	case common.IsStore(err, common.SkippedIndex):
		telemetry.RumorsDropped.WithLabelValues("premature").Inc()
		logger.WithField("expected", c.store.Count(msg.Origin)).Debug("Dropped premature rumor")
	default:
		return err
	}

	return c.sendStatus(from)
}

// RetransmitRumor is called when the retransmission timer of the outstanding
// rumor expires. The rumor is resent to a freshly chosen random neighbour, or
// abandoned if it has used all its retries.
func (c *Core) RetransmitRumor() {
	if c.rumor == nil {
		return
	}

	c.rumor.timer.Fired()

	if c.rumorRetries > 0 && c.rumor.Attempts >= c.rumorRetries {
		telemetry.RumorsAbandoned.Inc()
		c.abandoned++

		c.logger.WithFields(logrus.Fields{
			"origin":   c.rumor.Message.Origin,
			"seq_num":  c.rumor.Message.SeqNum,
			"attempts": c.rumor.Attempts,
		}).Debug("Abandoning rumor")

		c.rumor = nil
		return
	}

	target := c.peerSelector.Next()
	if target == nil {
		c.rumor = nil
		return
	}

	telemetry.Retransmissions.Inc()
	c.retransmissions++

	c.rumor.Attempts++
	c.rumor.Target = target

	c.logger.WithFields(logrus.Fields{
		"origin":   c.rumor.Message.Origin,
		"seq_num":  c.rumor.Message.SeqNum,
		"target":   target.NetAddr,
		"attempts": c.rumor.Attempts,
	}).Debug("Retransmitting rumor")

	c.sendRumor(target.NetAddr, c.rumor.Message)
	c.rumor.timer.Arm()
}

// startRumor replaces the outstanding rumor, if any, with msg and sends it to
// a random neighbour. Without neighbours the monger stays Idle.
func (c *Core) startRumor(msg *msglog.Message) {
	if c.rumor != nil {
		c.rumor.timer.Cancel()
		c.rumor = nil
	}

	target := c.peerSelector.Next()
	if target == nil {
		c.logger.Debug("No neighbour to rumor to")
		return
	}

	timer := NewRumorTimer(c.timerFactory, c.rumorTimeout)

	c.rumor = &RumorState{
		Message: msg,
		Target:  target,
		timer:   timer,
	}

	c.rumorsSent++

	c.sendRumor(target.NetAddr, msg)
	timer.Arm()
}

/*******************************************************************************
StatusReconciler
*******************************************************************************/

// ProcessStatus handles a status vector received from a peer. A status that
// reports the outstanding rumor as known acknowledges it. Then the vector is
// compared with the local store, origin by origin in lexical order, and the
// first difference is acted upon: pull with our own status if we are behind or
// if the origin is new to us, push the next missing message if we are ahead.
// Nothing is sent when both sides agree on every origin of the vector.
func (c *Core) ProcessStatus(from string, status *net.StatusPacket) error {
	want := msglog.StatusVector(status.Want)

	c.logger.WithFields(logrus.Fields{
		"from": from,
		"want": want,
	}).Debug("ProcessStatus")

	c.acknowledge(want)

	return c.reconcile(from, want)
}

// AntiEntropy sends the local status to a random neighbour.
func (c *Core) AntiEntropy() error {
	peer := c.peerSelector.Next()
	if peer == nil {
		return nil
	}
	return c.sendStatus(peer.NetAddr)
}

func (c *Core) acknowledge(want msglog.StatusVector) {
	if c.rumor == nil {
		return
	}

	msg := c.rumor.Message
	if !want.Acknowledges(msg.Origin, msg.SeqNum) {
		return
	}

	c.logger.WithFields(logrus.Fields{
		"origin":  msg.Origin,
		"seq_num": msg.SeqNum,
	}).Debug("Rumor acknowledged")

	c.rumor.timer.Cancel()
	c.rumor = nil

	//flip a coin to keep spreading the same rumor
	if c.continueProbability > 0 && c.rnd.Float64() < c.continueProbability {
		c.logger.Debug("Resuming rumor")
		c.startRumor(msg)
	}
}

func (c *Core) reconcile(from string, want msglog.StatusVector) error {
	local := c.store.Status()

	for _, origin := range want.Origins() {
		remote := want[origin]

		count, ok := local[origin]
		if !ok {
			telemetry.StatusActions.WithLabelValues("new_origin").Inc()
			c.store.AddOrigin(origin)
			c.pulls++
			return c.sendStatus(from)
		}

		switch {
		case count < remote:
			telemetry.StatusActions.WithLabelValues("pull").Inc()
			c.pulls++
			return c.sendStatus(from)
		case count > remote:
			msg, err := c.store.At(origin, remote)
			if err != nil {
				return err
			}
			telemetry.StatusActions.WithLabelValues("push").Inc()
			c.pushes++
			c.sendRumor(from, msg)
			return nil
		}
	}

	telemetry.StatusActions.WithLabelValues("in_sync").Inc()

	return nil
}

/*******************************************************************************
Sending
*******************************************************************************/

func (c *Core) sendRumor(target string, msg *msglog.Message) {
	packet := &net.GossipPacket{
		Rumor: &net.RumorMessage{
			ChatText: msg.Text,
			Origin:   msg.Origin,
			SeqNum:   msg.SeqNum,
		},
	}

	if err := c.sender.Send(target, packet); err != nil {
		c.logger.WithError(err).WithField("target", target).Error("Sending rumor")
	}
}

func (c *Core) sendStatus(target string) error {
	packet := &net.GossipPacket{
		Status: &net.StatusPacket{
			Want: c.store.Status(),
		},
	}

	if err := c.sender.Send(target, packet); err != nil {
		c.logger.WithError(err).WithField("target", target).Error("Sending status")
		return err
	}

	return nil
}

/*******************************************************************************
Queries
*******************************************************************************/

// Status returns a snapshot of the local status vector.
func (c *Core) Status() msglog.StatusVector {
	return c.store.Status()
}

// Messages returns every known message, by origin, in sequence order.
func (c *Core) Messages() map[string][]*msglog.Message {
	res := make(map[string][]*msglog.Message)
	for _, origin := range c.store.KnownOrigins() {
		res[origin] = c.store.Messages(origin)
	}
	return res
}

package peerchat

import (
	"fmt"

	"github.com/mosaicnetworks/peerchat/src/config"
	"github.com/mosaicnetworks/peerchat/src/msglog"
	"github.com/mosaicnetworks/peerchat/src/net"
	"github.com/mosaicnetworks/peerchat/src/node"
	"github.com/mosaicnetworks/peerchat/src/peers"
	"github.com/mosaicnetworks/peerchat/src/service"
	"github.com/sirupsen/logrus"
)

// Peerchat is a struct containing the key objects of a peerchat node
type Peerchat struct {
	Config    *config.Config
	Node      *node.Node
	Transport net.Transport
	Store     msglog.Store
	Peers     *peers.PeerSet
	Service   *service.Service
	Origin    string
	logger    *logrus.Entry
}

// NewPeerchat is a factory method to produce a Peerchat instance.
func NewPeerchat(c *config.Config) *Peerchat {
	engine := &Peerchat{
		Config: c,
		logger: c.Logger(),
	}

	return engine
}

// Init initialises the engine: it binds the first free port of the candidate
// range, derives the overlay, and creates the node and the service. It fails
// if the gossip settings are invalid or no candidate port can be bound.
func (p *Peerchat) Init() error {
	if p.Config.Proxy == nil {
		return fmt.Errorf("peerchat: no application proxy")
	}

	if err := p.Config.Validate(); err != nil {
		return err
	}

	if err := p.initTransport(); err != nil {
		return err
	}

	p.initStore()

	if err := p.initNode(); err != nil {
		return err
	}

	p.initService()

	return nil
}

func (p *Peerchat) initTransport() error {
	portRange, err := p.Config.PortRange()
	if err != nil {
		return err
	}

	codec, err := net.NewCodec(p.Config.WireFormat)
	if err != nil {
		return err
	}

	trans, err := net.NewUDPTransport(
		p.Config.BindHost,
		portRange,
		codec,
		p.logger.WithField("prefix", "transport"),
	)
	if err != nil {
		return err
	}

	p.Transport = trans
	p.Peers = trans.Neighbors()
	p.Origin = p.Config.OriginOrDefault(trans.Port())

	return nil
}

func (p *Peerchat) initStore() {
	p.Store = msglog.NewInmemStore()
	p.logger.Debug("created new in-mem store")
}

func (p *Peerchat) initNode() error {
	p.logger.WithFields(logrus.Fields{
		"origin":    p.Origin,
		"neighbors": p.Peers.NetAddrs(),
	}).Debug("PEERS")

	nodeConf := node.NewConfig(
		p.Config.RumorTimeout,
		p.Config.AntiEntropyInterval,
		p.Config.RumorRetries,
		p.Config.ContinueProbability,
		p.logger.Logger,
	)

	p.Node = node.NewNode(
		nodeConf,
		p.Origin,
		p.Peers,
		p.Store,
		p.Transport,
		p.Config.Proxy,
	)

	if err := p.Node.Init(); err != nil {
		return fmt.Errorf("failed to initialize node: %w", err)
	}

	return nil
}

func (p *Peerchat) initService() {
	if p.Config.ServiceAddr != "" {
		p.Service = service.NewService(p.Config.ServiceAddr, p.Node, p.logger.WithField("prefix", "service"))
	}
}

// Run starts the service, if any, and runs the node until it is shut down.
func (p *Peerchat) Run() {
	if p.Service != nil {
		go p.Service.Serve()
		defer p.Service.Close()
	}

	p.Node.Run()
}

// Shutdown stops the node and closes the socket.
func (p *Peerchat) Shutdown() {
	if p.Node != nil {
		p.Node.Shutdown()
	} else if p.Transport != nil {
		p.Transport.Close()
	}
}

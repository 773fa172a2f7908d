package net

import (
	"crypto/rand"
	"fmt"
	mrand "math/rand"
	"sync"
	"time"

	"github.com/mosaicnetworks/peerchat/src/telemetry"
)

// NewInmemAddr returns a new in-memory addr with
// a randomly generate UUID as the ID.
func NewInmemAddr() string {
	return generateUUID()
}

// generateUUID is used to generate a random UUID.
func generateUUID() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Errorf("failed to read random bytes: %v", err))
	}

	return fmt.Sprintf("%08x-%04x-%04x-%04x-%12x",
		buf[0:4],
		buf[4:6],
		buf[6:8],
		buf[8:10],
		buf[10:16])
}

// InmemTransport Implements the Transport interface, to allow peerchat to be
// tested in-memory without going over a network. Packets still go through the
// codec, and can be dropped at random to simulate an unreliable network.
type InmemTransport struct {
	sync.RWMutex
	consumerCh chan Datagram
	localAddr  string
	peers      map[string]*InmemTransport
	codec      *Codec
	loss       float64
	rnd        *mrand.Rand
}

// NewInmemTransport is used to initialize a new transport
// and generates a random local address if none is specified
func NewInmemTransport(addr string) (string, *InmemTransport) {
	if addr == "" {
		addr = NewInmemAddr()
	}
	codec, _ := NewCodec(FormatJSON)
	trans := &InmemTransport{
		consumerCh: make(chan Datagram, 64),
		localAddr:  addr,
		peers:      make(map[string]*InmemTransport),
		codec:      codec,
		rnd:        mrand.New(mrand.NewSource(time.Now().UnixNano())),
	}
	return addr, trans
}

// SetLoss sets the probability, between 0 and 1, that a packet sent from this
// transport is silently dropped.
func (i *InmemTransport) SetLoss(loss float64) {
	i.Lock()
	defer i.Unlock()
	i.loss = loss
}

// Consumer implements the Transport interface.
func (i *InmemTransport) Consumer() <-chan Datagram {
	return i.consumerCh
}

// LocalAddr implements the Transport interface.
func (i *InmemTransport) LocalAddr() string {
	return i.localAddr
}

// Send implements the Transport interface. Like a UDP socket, it never blocks:
// packets are dropped when the receiving buffer is full.
func (i *InmemTransport) Send(target string, packet *GossipPacket) error {
	i.Lock()
	peer, ok := i.peers[target]
	dropped := i.loss > 0 && i.rnd.Float64() < i.loss
	i.Unlock()

	if !ok {
		return fmt.Errorf("%w: %v", ErrUnknownPeer, target)
	}

	data, err := i.codec.Encode(packet)
	if err != nil {
		return err
	}

	telemetry.PacketsSent.WithLabelValues(packet.Kind()).Inc()

	if dropped {
		return nil
	}

	decoded, err := peer.codec.Decode(data)
	if err != nil {
		telemetry.DecodeErrors.Inc()
		return nil
	}

	select {
	case peer.consumerCh <- Datagram{From: i.localAddr, Packet: decoded}:
		telemetry.PacketsReceived.WithLabelValues(decoded.Kind()).Inc()
	default:
	}

	return nil
}

// Connect is used to connect this transport to another transport for
// a given peer name. This allows for local routing.
func (i *InmemTransport) Connect(peer string, t Transport) {
	trans := t.(*InmemTransport)
	i.Lock()
	defer i.Unlock()
	i.peers[peer] = trans
}

// Disconnect is used to remove the ability to route to a given peer.
func (i *InmemTransport) Disconnect(peer string) {
	i.Lock()
	defer i.Unlock()
	delete(i.peers, peer)
}

// DisconnectAll is used to remove all routes to peers.
func (i *InmemTransport) DisconnectAll() {
	i.Lock()
	defer i.Unlock()
	i.peers = make(map[string]*InmemTransport)
}

// Close is used to permanently disable the transport
func (i *InmemTransport) Close() error {
	i.DisconnectAll()
	return nil
}

// Listen is an empty function as there is no need to defer
// initialisation of the InMem service
func (i *InmemTransport) Listen() {
}

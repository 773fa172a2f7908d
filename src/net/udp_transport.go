package net

import (
	"fmt"
	"math"
	"net"
	"strconv"
	"sync"

	"github.com/mosaicnetworks/peerchat/src/peers"
	"github.com/mosaicnetworks/peerchat/src/telemetry"
	"github.com/sirupsen/logrus"
)

const (
	// largest payload a UDP datagram can carry
	maxDatagramSize = math.MaxUint16
)

// UDPTransport implements the Transport interface over a single UDP socket,
// bound to the first free port of a peers.PortRange.
type UDPTransport struct {
	logger *logrus.Entry

	conn      *net.UDPConn
	host      string
	port      int
	portRange peers.PortRange
	codec     *Codec

	addrCache     map[string]*net.UDPAddr
	addrCacheLock sync.Mutex

	consumeCh chan Datagram

	shutdown     bool
	shutdownCh   chan struct{}
	shutdownLock sync.Mutex
}

// NewUDPTransport tries the ports of portRange in order and binds the first
// one that is free. It returns an error wrapping ErrNoPortAvailable if none of
// them can be bound.
func NewUDPTransport(
	host string,
	portRange peers.PortRange,
	codec *Codec,
	logger *logrus.Entry,
) (*UDPTransport, error) {

	if logger == nil {
		log := logrus.New()
		log.Level = logrus.DebugLevel
		logger = logrus.NewEntry(log)
	}

	ip := net.ParseIP(host)
	if ip == nil {
		resolved, err := net.ResolveIPAddr("ip4", host)
		if err != nil {
			return nil, fmt.Errorf("transport: cannot resolve bind host %q: %w", host, err)
		}
		ip = resolved.IP
	}

	var conn *net.UDPConn
	var port int
	for _, p := range portRange.Candidates() {
		c, err := net.ListenUDP("udp4", &net.UDPAddr{IP: ip, Port: p})
		if err != nil {
			logger.WithError(err).WithField("port", p).Debug("Cannot bind candidate port")
			continue
		}
		conn, port = c, p
		break
	}

	if conn == nil {
		return nil, fmt.Errorf("%w: %s on %s", ErrNoPortAvailable, portRange, host)
	}

	logger.WithFields(logrus.Fields{
		"port":  port,
		"range": portRange.String(),
	}).Info("Bound UDP port")

	return &UDPTransport{
		logger:     logger,
		conn:       conn,
		host:       host,
		port:       port,
		portRange:  portRange,
		codec:      codec,
		addrCache:  make(map[string]*net.UDPAddr),
		consumeCh:  make(chan Datagram, 64),
		shutdownCh: make(chan struct{}),
	}, nil
}

// Port returns the bound port.
func (u *UDPTransport) Port() int {
	return u.port
}

// Neighbors returns the peers adjacent to the bound port in the overlay.
func (u *UDPTransport) Neighbors() *peers.PeerSet {
	return u.portRange.NeighborSet(u.host, u.port)
}

// Consumer implements the Transport interface.
func (u *UDPTransport) Consumer() <-chan Datagram {
	return u.consumeCh
}

// LocalAddr implements the Transport interface.
func (u *UDPTransport) LocalAddr() string {
	return net.JoinHostPort(u.host, strconv.Itoa(u.port))
}

// Listen starts reading datagrams in the background.
func (u *UDPTransport) Listen() {
	go u.listen()
}

func (u *UDPTransport) listen() {
	buf := make([]byte, maxDatagramSize)

	for {
		n, from, err := u.conn.ReadFromUDP(buf)
		if err != nil {
			if u.IsShutdown() {
				return
			}
			u.logger.WithError(err).Error("Reading UDP socket")
			continue
		}

		packet, err := u.codec.Decode(buf[:n])
		if err != nil {
			telemetry.DecodeErrors.Inc()
			u.logger.WithError(err).WithFields(logrus.Fields{
				"from": from.String(),
				"size": n,
			}).Debug("Discarding datagram")
			continue
		}

		telemetry.PacketsReceived.WithLabelValues(packet.Kind()).Inc()

		select {
		case u.consumeCh <- Datagram{From: from.String(), Packet: packet}:
		case <-u.shutdownCh:
			return
		}
	}
}

// Send implements the Transport interface.
func (u *UDPTransport) Send(target string, packet *GossipPacket) error {
	if u.IsShutdown() {
		return ErrTransportShutdown
	}

	addr, err := u.resolve(target)
	if err != nil {
		return err
	}

	data, err := u.codec.Encode(packet)
	if err != nil {
		return err
	}

	if _, err := u.conn.WriteToUDP(data, addr); err != nil {
		return fmt.Errorf("transport: writing to %s: %w", target, err)
	}

	telemetry.PacketsSent.WithLabelValues(packet.Kind()).Inc()

	return nil
}

func (u *UDPTransport) resolve(target string) (*net.UDPAddr, error) {
	u.addrCacheLock.Lock()
	defer u.addrCacheLock.Unlock()

	if addr, ok := u.addrCache[target]; ok {
		return addr, nil
	}

	addr, err := net.ResolveUDPAddr("udp4", target)
	if err != nil {
		return nil, fmt.Errorf("transport: resolving %s: %w", target, err)
	}
	u.addrCache[target] = addr

	return addr, nil
}

// IsShutdown is used to check if the transport is shutdown.
func (u *UDPTransport) IsShutdown() bool {
	select {
	case <-u.shutdownCh:
		return true
	default:
		return false
	}
}

// Close is used to stop the transport.
func (u *UDPTransport) Close() error {
	u.shutdownLock.Lock()
	defer u.shutdownLock.Unlock()

	if !u.shutdown {
		close(u.shutdownCh)
		u.shutdown = true
		return u.conn.Close()
	}
	return nil
}

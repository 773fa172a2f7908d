package net

// Transport provides an interface for datagram transports to allow a node to
// communicate with its neighbours.
type Transport interface {

	// Starts the transport listening
	Listen()

	// Consumer returns a channel that can be used to consume decoded
	// datagrams. Undecodable datagrams never show up here.
	Consumer() <-chan Datagram

	// LocalAddr is used to return our local address
	LocalAddr() string

	// Send writes packet to target. It never waits for an answer; a nil error
	// does not mean the packet was delivered.
	Send(target string, packet *GossipPacket) error

	// Close permanently closes a transport, stopping
	// any associated goroutines and freeing other resources.
	Close() error
}

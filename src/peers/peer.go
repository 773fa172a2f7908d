package peers

import (
	"net"
	"strconv"
)

// Peer is a neighbour reachable at NetAddr.
type Peer struct {
	NetAddr string
}

// NewPeer ...
func NewPeer(netAddr string) *Peer {
	return &Peer{
		NetAddr: netAddr,
	}
}

// NewPeerFromHostPort returns the peer listening on host:port.
func NewPeerFromHostPort(host string, port int) *Peer {
	return NewPeer(net.JoinHostPort(host, strconv.Itoa(port)))
}

func (p *Peer) String() string {
	return p.NetAddr
}

// ExcludePeer is used to exclude a single peer from a list of peers.
func ExcludePeer(peers []*Peer, peer string) (int, []*Peer) {
	index := -1
	otherPeers := make([]*Peer, 0, len(peers))
	for i, p := range peers {
		if p.NetAddr != peer {
			otherPeers = append(otherPeers, p)
		} else {
			index = i
		}
	}
	return index, otherPeers
}

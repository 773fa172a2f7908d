package node

import (
	"math/rand"

	"github.com/mosaicnetworks/peerchat/src/peers"
)

//PeerSelector defines and interface for Peer Selectors
type PeerSelector interface {
	Peers() *peers.PeerSet
	Next() *peers.Peer
}

//+++++++++++++++++++++++++++++++++++++++
//RANDOM

//RandomPeerSelector picks neighbours uniformly at random, with replacement:
//two consecutive calls to Next can return the same peer.
type RandomPeerSelector struct {
	peers           *peers.PeerSet
	selfAddr        string
	selectablePeers []*peers.Peer
	rnd             *rand.Rand
}

//NewRandomPeerSelector is a factory method that returns a new instance of
//RandomPeerSelector. selfAddr is never selected.
func NewRandomPeerSelector(peerSet *peers.PeerSet, selfAddr string, rnd *rand.Rand) *RandomPeerSelector {
	_, selectablePeers := peers.ExcludePeer(peerSet.Peers, selfAddr)
	return &RandomPeerSelector{
		peers:           peerSet,
		selfAddr:        selfAddr,
		selectablePeers: selectablePeers,
		rnd:             rnd,
	}
}

//Peers returns a set of peers
func (ps *RandomPeerSelector) Peers() *peers.PeerSet {
	return ps.peers
}

//Next returns the next randomly selected peer, or nil if there is none.
func (ps *RandomPeerSelector) Next() *peers.Peer {
	if len(ps.selectablePeers) == 0 {
		return nil
	}
	return ps.selectablePeers[ps.rnd.Intn(len(ps.selectablePeers))]
}

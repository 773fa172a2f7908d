package peers

// PeerSet is the fixed set of neighbours of a node.
type PeerSet struct {
	Peers     []*Peer          `json:"peers"`
	ByNetAddr map[string]*Peer `json:"-"`
}

// NewPeerSet creates a new PeerSet from a list of Peers.
func NewPeerSet(peers []*Peer) *PeerSet {
	peerSet := &PeerSet{
		ByNetAddr: make(map[string]*Peer),
	}

	for _, peer := range peers {
		peerSet.ByNetAddr[peer.NetAddr] = peer
	}

	peerSet.Peers = peers

	return peerSet
}

// NetAddrs returns the addresses of the peers, in the order of the set.
func (peerSet *PeerSet) NetAddrs() []string {
	res := make([]string, 0, len(peerSet.Peers))
	for _, p := range peerSet.Peers {
		res = append(res, p.NetAddr)
	}
	return res
}

// Contains returns true if a peer with that address is in the set.
func (peerSet *PeerSet) Contains(netAddr string) bool {
	_, ok := peerSet.ByNetAddr[netAddr]
	return ok
}

// Len returns the number of Peers in the PeerSet
func (peerSet *PeerSet) Len() int {
	return len(peerSet.ByNetAddr)
}

package peers

import "fmt"

const (
	// FirstDynamicPort is the lowest port of the per-user ranges.
	FirstDynamicPort = 32768
	// DefaultRangeSize is the number of candidate ports of a user.
	DefaultRangeSize = 4
	// userSlots is the number of distinct user ranges.
	userSlots = 4096
)

// PortRange is the closed range [Min, Max] of candidate ports of a user.
type PortRange struct {
	Min int
	Max int
}

// NewPortRange computes the default range of the user with ID uid:
// [32768 + (uid mod 4096)*4, base+3].
func NewPortRange(uid int) PortRange {
	if uid < 0 {
		uid = -uid
	}
	base := FirstDynamicPort + (uid%userSlots)*DefaultRangeSize
	return PortRange{Min: base, Max: base + DefaultRangeSize - 1}
}

// NewPortRangeFromBase returns a range of size ports starting at base.
func NewPortRangeFromBase(base, size int) (PortRange, error) {
	if size < 1 {
		return PortRange{}, fmt.Errorf("port range: size must be positive, got %d", size)
	}
	if base < 1 || base+size-1 > 65535 {
		return PortRange{}, fmt.Errorf("port range: [%d, %d] is not a valid port range", base, base+size-1)
	}
	return PortRange{Min: base, Max: base + size - 1}, nil
}

// Candidates returns the ports of the range in bind order.
func (r PortRange) Candidates() []int {
	res := make([]int, 0, r.Max-r.Min+1)
	for p := r.Min; p <= r.Max; p++ {
		res = append(res, p)
	}
	return res
}

// Contains ...
func (r PortRange) Contains(port int) bool {
	return port >= r.Min && port <= r.Max
}

// Neighbors returns the ports adjacent to port in the overlay. A port at
// either end of the range has one neighbour, an interior port has two. A range
// of a single port has no neighbour at all.
func (r PortRange) Neighbors(port int) []int {
	if !r.Contains(port) || r.Min == r.Max {
		return nil
	}
	switch port {
	case r.Min:
		return []int{port + 1}
	case r.Max:
		return []int{port - 1}
	default:
		return []int{port - 1, port + 1}
	}
}

// NeighborSet returns the PeerSet of the neighbours of port on host.
func (r PortRange) NeighborSet(host string, port int) *PeerSet {
	res := []*Peer{}
	for _, p := range r.Neighbors(port) {
		res = append(res, NewPeerFromHostPort(host, p))
	}
	return NewPeerSet(res)
}

func (r PortRange) String() string {
	return fmt.Sprintf("%d-%d", r.Min, r.Max)
}

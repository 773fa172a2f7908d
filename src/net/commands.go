package net

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mosaicnetworks/peerchat/src/telemetry"
)

// RumorMessage carries a single chat message, numbered SeqNum within the
// stream of Origin.
type RumorMessage struct {
	ChatText string
	Origin   string
	SeqNum   int
}

// StatusPacket advertises how many contiguous messages the sender holds for
// every origin it knows.
type StatusPacket struct {
	Want map[string]int
}

// GossipPacket is the decoded body of a datagram. Exactly one field is set.
type GossipPacket struct {
	Rumor  *RumorMessage
	Status *StatusPacket
}

// Kind returns the telemetry label of the packet.
func (p *GossipPacket) Kind() string {
	if p.Status != nil {
		return telemetry.KindStatus
	}
	return telemetry.KindRumor
}

func (p *GossipPacket) String() string {
	switch {
	case p.Rumor != nil:
		return fmt.Sprintf("RUMOR origin %s seq %d", p.Rumor.Origin, p.Rumor.SeqNum)
	case p.Status != nil:
		origins := make([]string, 0, len(p.Status.Want))
		for o := range p.Status.Want {
			origins = append(origins, o)
		}
		sort.Strings(origins)
		parts := make([]string, 0, len(origins))
		for _, o := range origins {
			parts = append(parts, fmt.Sprintf("%s=%d", o, p.Status.Want[o]))
		}
		return "STATUS " + strings.Join(parts, " ")
	default:
		return "EMPTY"
	}
}

// Datagram is a packet received from the network, along with the address of
// its sender.
type Datagram struct {
	From   string
	Packet *GossipPacket
}

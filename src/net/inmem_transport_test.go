package net

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, trans Transport) Datagram {
	t.Helper()
	select {
	case d := <-trans.Consumer():
		return d
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for a datagram")
	}
	return Datagram{}
}

func TestInmemTransport(t *testing.T) {
	addr1, trans1 := NewInmemTransport("")
	addr2, trans2 := NewInmemTransport("")
	trans1.Connect(addr2, trans2)
	trans2.Connect(addr1, trans1)

	rumor := &GossipPacket{Rumor: &RumorMessage{ChatText: "hello", Origin: "A", SeqNum: 0}}
	require.NoError(t, trans1.Send(addr2, rumor))

	d := receive(t, trans2)
	assert.Equal(t, addr1, d.From)
	assert.Equal(t, rumor, d.Packet)

	status := &GossipPacket{Status: &StatusPacket{Want: map[string]int{"A": 1}}}
	require.NoError(t, trans2.Send(d.From, status))
	assert.Equal(t, status, receive(t, trans1).Packet)

	trans1.Disconnect(addr2)
	err := trans1.Send(addr2, rumor)
	assert.True(t, errors.Is(err, ErrUnknownPeer))
}

func TestInmemTransportLoss(t *testing.T) {
	addr1, trans1 := NewInmemTransport("")
	addr2, trans2 := NewInmemTransport("")
	trans1.Connect(addr2, trans2)

	trans1.SetLoss(1)
	for i := 0; i < 10; i++ {
		require.NoError(t, trans1.Send(addr2, &GossipPacket{Status: &StatusPacket{}}))
	}
	select {
	case d := <-trans2.Consumer():
		t.Fatalf("packet should have been dropped, got %v", d.Packet)
	default:
	}

	trans1.SetLoss(0)
	require.NoError(t, trans1.Send(addr2, &GossipPacket{Status: &StatusPacket{}}))
	assert.Equal(t, addr1, receive(t, trans2).From)
}

func TestInmemTransportNeverBlocks(t *testing.T) {
	_, trans1 := NewInmemTransport("")
	addr2, trans2 := NewInmemTransport("")
	trans1.Connect(addr2, trans2)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			trans1.Send(addr2, &GossipPacket{Status: &StatusPacket{}})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Send blocked on a full consumer")
	}
}

package node

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/mosaicnetworks/peerchat/src/msglog"
	"github.com/mosaicnetworks/peerchat/src/net"
	"github.com/mosaicnetworks/peerchat/src/peers"
	"github.com/mosaicnetworks/peerchat/src/proxy/inmem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chatApp struct {
	sync.Mutex
	delivered []delivery
}

func (a *chatApp) DeliverHandler(text string, origin string) error {
	a.Lock()
	defer a.Unlock()
	a.delivered = append(a.delivered, delivery{text, origin})
	return nil
}

func (a *chatApp) Delivered() []delivery {
	a.Lock()
	defer a.Unlock()
	res := make([]delivery, len(a.delivered))
	copy(res, a.delivered)
	return res
}

type testNode struct {
	*Node
	proxy *inmem.InmemProxy
	app   *chatApp
}

// initNodes creates a chain of n nodes over in-memory transports, the same
// shape as the overlay of a port range.
func initNodes(t *testing.T, n int, loss float64) []*testNode {
	addrs := make([]string, n)
	transports := make([]*net.InmemTransport, n)
	for i := 0; i < n; i++ {
		addrs[i], transports[i] = net.NewInmemTransport(fmt.Sprintf("node%d", i))
		transports[i].SetLoss(loss)
	}

	nodes := make([]*testNode, n)
	for i := 0; i < n; i++ {
		pirs := []*peers.Peer{}
		for _, j := range []int{i - 1, i + 1} {
			if j < 0 || j >= n {
				continue
			}
			transports[i].Connect(addrs[j], transports[j])
			pirs = append(pirs, peers.NewPeer(addrs[j]))
		}

		app := &chatApp{}
		proxy := inmem.NewInmemProxy(app, nil)

		node := NewNode(TestConfig(t),
			fmt.Sprintf("origin%d", i),
			peers.NewPeerSet(pirs),
			msglog.NewInmemStore(),
			transports[i],
			proxy)

		require.NoError(t, node.Init())

		nodes[i] = &testNode{Node: node, proxy: proxy, app: app}
	}

	return nodes
}

func runNodes(nodes []*testNode) {
	for _, n := range nodes {
		n.RunAsync()
	}
}

func shutdownNodes(nodes []*testNode) {
	for _, n := range nodes {
		n.Shutdown()
	}
}

func waitConverged(t *testing.T, nodes []*testNode, expected msglog.StatusVector, timeout time.Duration) {
	deadline := time.After(timeout)
	for {
		done := true
		for _, n := range nodes {
			status, err := n.GetStatus()
			require.NoError(t, err)
			if !assert.ObjectsAreEqual(expected, status) {
				done = false
				break
			}
		}
		if done {
			return
		}

		select {
		case <-deadline:
			for _, n := range nodes {
				status, _ := n.GetStatus()
				t.Logf("%s: %v", n.Origin(), status)
			}
			t.Fatal("timed out waiting for convergence")
		case <-time.After(20 * time.Millisecond):
		}
	}
}

func TestGossip(t *testing.T) {
	nodes := initNodes(t, 4, 0.2)
	defer shutdownNodes(nodes)
	runNodes(nodes)

	for round := 0; round < 3; round++ {
		for i, n := range nodes {
			n.proxy.SubmitText(fmt.Sprintf("round %d from %d", round, i))
		}
	}

	expected := msglog.StatusVector{"origin0": 3, "origin1": 3, "origin2": 3, "origin3": 3}
	waitConverged(t, nodes, expected, 10*time.Second)

	ref, err := nodes[0].GetMessages()
	require.NoError(t, err)

	for _, n := range nodes {
		messages, err := n.GetMessages()
		require.NoError(t, err)
		assert.Equal(t, ref, messages)

		//every message is delivered exactly once, in order within its origin
		delivered := n.app.Delivered()
		assert.Len(t, delivered, 12)
		next := map[string]int{}
		for _, d := range delivered {
			var round, from int
			_, err := fmt.Sscanf(d.text, "round %d from %d", &round, &from)
			require.NoError(t, err)
			assert.Equal(t, fmt.Sprintf("origin%d", from), d.origin)
			assert.Equal(t, next[d.origin], round)
			next[d.origin]++
		}
	}
}

func TestLateJoiner(t *testing.T) {
	nodes := initNodes(t, 3, 0)
	defer shutdownNodes(nodes)

	//the last node only starts after the others have talked
	runNodes(nodes[:2])

	_, err := nodes[0].SubmitText("first")
	require.NoError(t, err)
	_, err = nodes[1].SubmitText("second")
	require.NoError(t, err)

	waitConverged(t, nodes[:2], msglog.StatusVector{"origin0": 1, "origin1": 1}, 5*time.Second)

	runNodes(nodes[2:])

	waitConverged(t, nodes, msglog.StatusVector{"origin0": 1, "origin1": 1}, 5*time.Second)
	assert.ElementsMatch(t,
		[]delivery{{"first", "origin0"}, {"second", "origin1"}},
		nodes[2].app.Delivered())
}

func TestSubmitTextAndStats(t *testing.T) {
	nodes := initNodes(t, 2, 0)
	defer shutdownNodes(nodes)

	//queries work before the node runs
	status, err := nodes[0].GetStatus()
	require.NoError(t, err)
	assert.Empty(t, status)

	runNodes(nodes)

	for i := 0; i < 3; i++ {
		msg, err := nodes[0].SubmitText(fmt.Sprintf("text %d", i))
		require.NoError(t, err)
		assert.Equal(t, i, msg.SeqNum)
		assert.Equal(t, "origin0", msg.Origin)
	}

	assert.Equal(t,
		[]delivery{{"text 0", "origin0"}, {"text 1", "origin0"}, {"text 2", "origin0"}},
		nodes[0].app.Delivered())

	stats, err := nodes[0].GetStats()
	require.NoError(t, err)
	assert.Equal(t, "origin0", stats["origin"])
	assert.Equal(t, "node0", stats["local_addr"])
	assert.Equal(t, "1", stats["num_peers"])
	assert.Equal(t, "3", stats["known_messages"])
	assert.Equal(t, "3", stats["rumors_started"])
	assert.Equal(t, Gossiping.String(), stats["state"])
	assert.Equal(t, []string{"node1"}, peers.NewPeerSet(nodes[0].GetPeers()).NetAddrs())
}

func TestShutdown(t *testing.T) {
	nodes := initNodes(t, 2, 0)
	runNodes(nodes)

	nodes[0].Shutdown()
	assert.Equal(t, Shutdown, nodes[0].GetState())

	_, err := nodes[0].SubmitText("too late")
	assert.Equal(t, ErrShutdown, err)
	_, err = nodes[0].GetStatus()
	assert.Equal(t, ErrShutdown, err)

	//shutting down twice is harmless
	nodes[0].Shutdown()

	//the other node keeps running alone
	_, err = nodes[1].SubmitText("still here")
	require.NoError(t, err)
	nodes[1].Shutdown()
}

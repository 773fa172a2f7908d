package inmem

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/mosaicnetworks/peerchat/src/common"
	"github.com/mosaicnetworks/peerchat/src/proxy"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type delivery struct {
	text   string
	origin string
}

type TestProxy struct {
	*InmemProxy
	sync.Mutex
	delivered []delivery
	logger    *logrus.Entry
}

func (p *TestProxy) DeliverHandler(text string, origin string) error {
	p.logger.Debug("Deliver")

	p.Lock()
	defer p.Unlock()
	p.delivered = append(p.delivered, delivery{text, origin})

	return nil
}

func NewTestProxy(t *testing.T) *TestProxy {
	logger := common.NewTestEntry(t, logrus.DebugLevel)

	proxy := &TestProxy{
		logger: logger,
	}

	proxy.InmemProxy = NewInmemProxy(proxy, logger)

	return proxy
}

func TestInmemProxyAppSide(t *testing.T) {
	proxy := NewTestProxy(t)

	submitCh := proxy.SubmitCh()

	received := make(chan string, 1)
	go func() {
		select {
		case text := <-submitCh:
			received <- text
		case <-time.After(time.Second):
			received <- ""
		}
	}()

	proxy.SubmitText("the test text")

	assert.Equal(t, "the test text", <-received)
}

func TestInmemProxyNodeSide(t *testing.T) {
	proxy := NewTestProxy(t)

	require.NoError(t, proxy.Deliver("hello", "A"))
	require.NoError(t, proxy.Deliver("hi", "B"))

	assert.Equal(t, []delivery{{"hello", "A"}, {"hi", "B"}}, proxy.delivered)
}

func TestInmemProxyHandlerFunc(t *testing.T) {
	boom := errors.New("boom")

	p := NewInmemProxy(proxy.DeliverHandlerFunc(func(text, origin string) error {
		return boom
	}), nil)

	assert.Equal(t, boom, p.Deliver("x", "y"))
}

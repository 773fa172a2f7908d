package mobile

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/mosaicnetworks/peerchat/src/node"
	"github.com/mosaicnetworks/peerchat/src/peerchat"
	"github.com/mosaicnetworks/peerchat/src/proxy/inmem"
	"github.com/sirupsen/logrus"
)

// Node is a peerchat node driven by a mobile application.
type Node struct {
	engine           *peerchat.Peerchat
	node             *node.Node
	exceptionHandler ExceptionHandler
	logger           *logrus.Entry
}

// New initializes Node struct. An empty origin defaults to hostname:port.
func New(origin string,
	deliveryHandler DeliveryHandler,
	exceptionHandler ExceptionHandler,
	config *MobileConfig) *Node {

	peerchatConfig := config.toPeerchatConfig()
	peerchatConfig.Origin = origin

	logger := peerchatConfig.Logger()

	logger.WithFields(logrus.Fields{
		"origin": origin,
		"config": fmt.Sprintf("%v", config),
	}).Debug("New Mobile Node")

	//mobileApp implements the ProxyHandler interface, and we use it to
	//instantiate an InmemProxy
	mobileApp := newMobileApp(deliveryHandler, exceptionHandler, logger)
	peerchatConfig.Proxy = inmem.NewInmemProxy(mobileApp, logger)

	engine := peerchat.NewPeerchat(peerchatConfig)

	if err := engine.Init(); err != nil {
		exceptionHandler.OnException(fmt.Sprintf("Cannot initialize engine: %s", err))
		return nil
	}

	return &Node{
		engine:           engine,
		node:             engine.Node,
		exceptionHandler: exceptionHandler,
		logger:           logger,
	}
}

// Run starts gossiping. With async it returns immediately, otherwise it blocks
// until the node is shut down.
func (n *Node) Run(async bool) {
	if async {
		n.node.RunAsync()
	} else {
		n.engine.Run()
	}
}

// Shutdown stops the node and closes its socket.
func (n *Node) Shutdown() {
	n.engine.Shutdown()
}

// SubmitText numbers the text under the local origin and rumors it. Failures
// are reported to the ExceptionHandler.
func (n *Node) SubmitText(text string) {
	if _, err := n.node.SubmitText(text); err != nil {
		n.exceptionHandler.OnException(fmt.Sprintf("Cannot submit text: %s", err))
	}
}

// Origin returns the identity of the local messages.
func (n *Node) Origin() string {
	return n.node.Origin()
}

// LocalAddr returns the host:port the node listens on.
func (n *Node) LocalAddr() string {
	return n.node.LocalAddr()
}

// GetPeers returns the neighbours of the node as a JSON array.
func (n *Node) GetPeers() string {
	return n.toJSON(n.node.GetPeers())
}

// GetStatus returns the status vector as a JSON object of origin to count.
func (n *Node) GetStatus() string {
	status, err := n.node.GetStatus()
	if err != nil {
		return ""
	}
	return n.toJSON(status)
}

func (n *Node) toJSON(v interface{}) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	if err := enc.Encode(v); err != nil {
		n.logger.WithError(err).Debug("Encoding to JSON")
		return ""
	}

	return buf.String()
}

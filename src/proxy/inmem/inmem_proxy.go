package inmem

import (
	"github.com/mosaicnetworks/peerchat/src/proxy"
	"github.com/sirupsen/logrus"
)

//InmemProxy implements the AppProxy interface natively
type InmemProxy struct {
	handler  proxy.ProxyHandler
	submitCh chan string
	logger   *logrus.Entry
}

// NewInmemProxy instantiates an InmemProxy from a handler.
// If no logger, a new one is created
func NewInmemProxy(handler proxy.ProxyHandler,
	logger *logrus.Entry) *InmemProxy {

	if logger == nil {
		log := logrus.New()
		log.Level = logrus.DebugLevel
		logger = logrus.NewEntry(log)
	}

	return &InmemProxy{
		handler:  handler,
		submitCh: make(chan string),
		logger:   logger,
	}
}

/*******************************************************************************
* SubmitText                                                                   *
*******************************************************************************/

//SubmitText is called by the App to submit local text to peerchat. It blocks
//until the node picks it up.
func (p *InmemProxy) SubmitText(text string) {
	p.submitCh <- text
}

/*******************************************************************************
* Implement AppProxy Interface                                                 *
*******************************************************************************/

//SubmitCh returns the channel of local text
func (p *InmemProxy) SubmitCh() chan string {
	return p.submitCh
}

//Deliver calls the DeliverHandler
func (p *InmemProxy) Deliver(text string, origin string) error {
	err := p.handler.DeliverHandler(text, origin)

	p.logger.WithFields(logrus.Fields{
		"origin": origin,
		"err":    err,
	}).Debug("InmemProxy.Deliver")

	return err
}

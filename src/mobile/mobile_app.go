package mobile

import (
	"github.com/sirupsen/logrus"
)

/*
This type is not exported
*/

// mobileApp implements the ProxyHandler interface.
type mobileApp struct {
	deliveryHandler  DeliveryHandler
	exceptionHandler ExceptionHandler
	logger           *logrus.Entry
}

func newMobileApp(deliveryHandler DeliveryHandler,
	exceptionHandler ExceptionHandler,
	logger *logrus.Entry) *mobileApp {
	mobileApp := &mobileApp{
		deliveryHandler:  deliveryHandler,
		exceptionHandler: exceptionHandler,
		logger:           logger,
	}
	return mobileApp
}

// DeliverHandler implements the ProxyHandler interface. It passes the message
// on to the mobile application.
func (m *mobileApp) DeliverHandler(text string, origin string) error {
	m.logger.WithField("origin", origin).Debug("mobileApp.DeliverHandler")
	m.deliveryHandler.OnDeliver(text, origin)
	return nil
}

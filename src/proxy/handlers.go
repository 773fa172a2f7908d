package proxy

// ProxyHandler encapsulates callbacks to be called by the InmemProxy. This is
// the true contact surface between peerchat and the application.
type ProxyHandler interface {
	// DeliverHandler is called when a message is to be displayed, with the
	// origin it was numbered under.
	DeliverHandler(text string, origin string) error
}

// DeliverHandlerFunc is an adapter to use an ordinary function as a
// ProxyHandler.
type DeliverHandlerFunc func(text string, origin string) error

// DeliverHandler calls f(text, origin).
func (f DeliverHandlerFunc) DeliverHandler(text string, origin string) error {
	return f(text, origin)
}

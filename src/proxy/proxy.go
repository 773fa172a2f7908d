package proxy

// AppProxy is the interface between a peerchat node and the application that
// produces and displays chat text.
type AppProxy interface {
	// SubmitCh is the channel from which the node reads text submitted by the
	// local user.
	SubmitCh() chan string

	// Deliver is called by the node, from its reactor goroutine, once for every
	// locally submitted text and once for every newly accepted remote message.
	// It must not block.
	Deliver(text string, origin string) error
}

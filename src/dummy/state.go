package dummy

import (
	"fmt"
	"io"
	"sync"

	"github.com/sirupsen/logrus"
)

// Line is a chat message as displayed by the dummy application.
type Line struct {
	Text   string
	Origin string
}

// State represents the state of our dummy application: the transcript of the
// conversation. It implements the ProxyHandler interface for use with an
// InmemProxy. Every delivered message is appended to the transcript and
// printed to the output as "[origin]: text". Messages of the local origin are
// printed as "[me]: text".
type State struct {
	sync.Mutex

	origin     string
	transcript []Line
	out        io.Writer
	logger     *logrus.Entry
}

// NewState creates a new dummy state writing to out.
func NewState(out io.Writer, logger *logrus.Entry) *State {
	state := &State{
		transcript: []Line{},
		out:        out,
		logger:     logger,
	}

	logger.Info("Init Dummy State")

	return state
}

// SetOrigin sets the origin shown as "me".
func (a *State) SetOrigin(origin string) {
	a.Lock()
	defer a.Unlock()
	a.origin = origin
}

// DeliverHandler implements the ProxyHandler interface. It is called from the
// node's reactor, once per message, in the order of each origin's log.
func (a *State) DeliverHandler(text string, origin string) error {
	a.Lock()
	defer a.Unlock()

	a.transcript = append(a.transcript, Line{Text: text, Origin: origin})

	name := origin
	if origin == a.origin {
		name = "me"
	}

	a.logger.WithField("origin", origin).Debug("Deliver")

	_, err := fmt.Fprintf(a.out, "[%s]: %s\n", name, text)
	return err
}

// GetTranscript returns every delivered message, in delivery order.
func (a *State) GetTranscript() []Line {
	a.Lock()
	defer a.Unlock()

	res := make([]Line, len(a.transcript))
	copy(res, a.transcript)
	return res
}

package dummy

import (
	"bufio"
	"io"
	"strings"

	"github.com/mosaicnetworks/peerchat/src/proxy/inmem"
	"github.com/sirupsen/logrus"
)

// InmemDummyClient is an in-memory implementation of the dummy app: a
// terminal chat. It actually implements the AppProxy interface, and can be
// passed in the peerchat constructor directly
type InmemDummyClient struct {
	*inmem.InmemProxy
	state  *State
	logger *logrus.Entry
}

//NewInmemDummyClient instantiates an InmemDummyClient printing the
//conversation to out
func NewInmemDummyClient(out io.Writer, logger *logrus.Entry) *InmemDummyClient {
	state := NewState(out, logger)

	proxy := inmem.NewInmemProxy(state, logger)

	client := &InmemDummyClient{
		InmemProxy: proxy,
		state:      state,
		logger:     logger,
	}

	return client
}

//SetOrigin tells the client which origin is the local user
func (c *InmemDummyClient) SetOrigin(origin string) {
	c.state.SetOrigin(origin)
}

//ReadInput submits every non-blank line of in to the node. It returns when in
//is exhausted.
func (c *InmemDummyClient) ReadInput(in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		c.SubmitText(line)
	}
	return scanner.Err()
}

//GetTranscript returns the state's list of delivered messages
func (c *InmemDummyClient) GetTranscript() []Line {
	return c.state.GetTranscript()
}

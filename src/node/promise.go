package node

import (
	"github.com/mosaicnetworks/peerchat/src/msglog"
)

// SubmitPromise carries a local text into the reactor and the resulting
// message, or error, back to the caller.
type SubmitPromise struct {
	Text   string
	RespCh chan SubmitResponse
}

// SubmitResponse ...
type SubmitResponse struct {
	Message *msglog.Message
	Err     error
}

// NewSubmitPromise ...
func NewSubmitPromise(text string) *SubmitPromise {
	return &SubmitPromise{
		Text: text,
		//buffered so the reactor never blocks on a caller that went away
		RespCh: make(chan SubmitResponse, 1),
	}
}

// Respond ...
func (p *SubmitPromise) Respond(msg *msglog.Message, err error) {
	p.RespCh <- SubmitResponse{Message: msg, Err: err}
}

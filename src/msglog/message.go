package msglog

import "fmt"

// Message is a single chat message. It is immutable once created.
type Message struct {
	Origin string
	SeqNum int
	Text   string
}

// NewMessage ...
func NewMessage(origin string, seqNum int, text string) *Message {
	return &Message{
		Origin: origin,
		SeqNum: seqNum,
		Text:   text,
	}
}

// Key identifies a message across all origins.
func (m *Message) Key() string {
	return fmt.Sprintf("%s:%d", m.Origin, m.SeqNum)
}

func (m *Message) String() string {
	return fmt.Sprintf("[%s|%d] %s", m.Origin, m.SeqNum, m.Text)
}

package msglog

// Store is an interface for message stores.
type Store interface {
	// Append adds msg at the end of the log of msg.Origin. It only succeeds if
	// msg.SeqNum is the next expected sequence number for that origin.
	// Otherwise it returns a StoreErr of type TooLate (already known) or
	// SkippedIndex (premature) and leaves the store untouched.
	Append(msg *Message) error
	// Count returns the number of messages known from origin, which is also
	// the next sequence number expected from it. It is 0 for unknown origins.
	Count(origin string) int
	// At returns the message of origin with the given sequence number.
	At(origin string, seqNum int) (*Message, error)
	// AddOrigin registers origin with an empty log if it is not known yet.
	AddOrigin(origin string)
	// KnownOrigins returns every known origin, in lexical order.
	KnownOrigins() []string
	// Status returns a snapshot of the store as a StatusVector.
	Status() StatusVector
	// Len returns the total number of messages in the store.
	Len() int
	// Messages returns a copy of the log of origin, in sequence order.
	Messages(origin string) []*Message
}

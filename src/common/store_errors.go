package common

import "fmt"

// StoreErrType classifies StoreErr.
type StoreErrType uint32

const (
	// KeyNotFound is returned when an origin has never been seen.
	KeyNotFound StoreErrType = iota
	// PassedIndex is returned when reading past the end of a log.
	PassedIndex
	// TooLate is returned when appending a message that is already known.
	TooLate
	// SkippedIndex is returned when appending a message that would leave a
	// gap in the log.
	SkippedIndex
)

// StoreErr is the error type returned by message stores.
type StoreErr struct {
	dataType string
	errType  StoreErrType
	key      string
}

// NewStoreErr ...
func NewStoreErr(dataType string, errType StoreErrType, key string) StoreErr {
	return StoreErr{
		dataType: dataType,
		errType:  errType,
		key:      key,
	}
}

// Error ...
func (e StoreErr) Error() string {
	m := ""
	switch e.errType {
	case KeyNotFound:
		m = "Not Found"
	case PassedIndex:
		m = "Passed Index"
	case TooLate:
		m = "Too Late"
	case SkippedIndex:
		m = "Skipped Index"
	}

	return fmt.Sprintf("%s, %s, %s", e.dataType, e.key, m)
}

// IsStore checks that an error is of type StoreErr and that its code matches
// the provided StoreErr code.
func IsStore(err error, t StoreErrType) bool {
	storeErr, ok := err.(StoreErr)
	return ok && storeErr.errType == t
}

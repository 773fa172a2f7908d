package msglog

import "sort"

// StatusVector maps an origin to the number of contiguous messages known from
// it. It is built from a Store at a point in time and never mutated after.
type StatusVector map[string]int

// Origins returns the origins of the vector in lexical order.
func (sv StatusVector) Origins() []string {
	origins := make([]string, 0, len(sv))
	for o := range sv {
		origins = append(origins, o)
	}
	sort.Strings(origins)
	return origins
}

// Acknowledges returns true if the vector reports message seqNum of origin as
// already known.
func (sv StatusVector) Acknowledges(origin string, seqNum int) bool {
	count, ok := sv[origin]
	return ok && count > seqNum
}

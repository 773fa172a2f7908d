// Package msglog implements the per-origin message history of a peer.
//
// Every peer originates its own stream of chat messages, numbered 0, 1, 2, ...
// The Store keeps, for each origin it has heard of, an append-only log of
// those messages with the invariant that log[i].SeqNum == i. A message can only
// be appended if it is exactly the next one expected for its origin, so the
// log never contains gaps or duplicates. Messages that arrive too early are
// refused and recovered later through anti-entropy.
//
// StatusVector
//
// A StatusVector is a snapshot of the store mapping each known origin to the
// number of messages held for it. It is what peers exchange to find out who is
// missing what. Origins are always enumerated in lexical order so that
// reconciliation does not depend on map iteration order.
package msglog

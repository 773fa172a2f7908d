// Package node implements the reactive component of a peerchat node.
//
// This is the part of peerchat that controls the gossip routines and owns the
// message log. A Node runs a single reactor goroutine which handles, one at a
// time, datagrams from the transport, text submitted by the application, the
// retransmission timer of the outstanding rumor, and the anti-entropy ticker.
// Handlers run to completion, so neither the store nor the rumor state need
// locks.
//
// Rumor Mongering
//
// When a node learns a new message, either because the application submitted
// it or because a neighbour sent it as the next expected message of its
// origin, the node starts rumoring it: it sends the message to a neighbour
// chosen at random and arms a retransmission timer. If no status acknowledging
// the message arrives before the timer expires, the message is resent to
// another random neighbour, possibly the same one. An acknowledging status
// cancels the timer and the node goes back to Idle, or, with a configurable
// probability, keeps rumoring the same message to a new neighbour. At most one
// rumor is outstanding; starting a new one replaces the previous one.
//
// Every received rumor is answered with the status vector of the receiver,
// whether the message was accepted or not. This is how the sender learns that
// its rumor arrived, and how it finds out what the receiver is missing.
//
// Anti-Entropy
//
// Independently of rumors, a node periodically sends its status vector to a
// random neighbour. The vector maps every known origin to the number of
// contiguous messages known from it. Upon receiving a vector, a node walks its
// origins in lexical order and acts on the first difference only: it replies
// with its own vector when the origin is new to it or when it is behind, and
// it pushes the single next message the peer is missing when it is ahead.
// Repeated exchanges close the gap one message at a time, so all the nodes of
// a connected overlay eventually hold the same logs, in spite of packet loss.
package node

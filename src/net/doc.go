// Package net implements the datagram transports and the wire codec used by
// peerchat nodes.
//
// Peers exchange exactly two kinds of payloads, each sent as the whole body of
// a single datagram:
//
//  Rumor:  {ChatText: string, Origin: string, SeqNum: integer}
//  Status: {Want: {origin: count, ...}}
//
// A Rumor carries one chat message. A Status carries the sender's status
// vector. Payloads are encoded with the ugorji codec, as JSON by default, or
// as msgpack. There is no envelope: the decoder tells the two shapes apart by
// the fields present. Anything that is neither is reported as
// ErrMalformedPacket and must be discarded without touching any state.
//
// Sends are fire-and-forget. There are two implementations of the Transport
// interface:
//
// - UDP: binds the first free port of a peers.PortRange on a local host
//
// - Inmem: in-memory transport, with optional packet loss, used for testing
package net

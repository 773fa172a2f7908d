package net

import "errors"

var (
	// ErrTransportShutdown is returned when operations on a transport are
	// invoked after it's been terminated.
	ErrTransportShutdown = errors.New("transport: shutdown")

	// ErrNoPortAvailable is returned when none of the candidate ports could be
	// bound.
	ErrNoPortAvailable = errors.New("transport: no port available in range")

	// ErrUnknownPeer is returned by in-memory transports when the target is
	// not connected.
	ErrUnknownPeer = errors.New("transport: unknown peer")

	// ErrMalformedPacket is returned when a payload is neither a Rumor nor a
	// Status.
	ErrMalformedPacket = errors.New("codec: malformed packet")

	// ErrUnknownFormat is returned for wire formats other than json and
	// msgpack.
	ErrUnknownFormat = errors.New("codec: unknown wire format")
)

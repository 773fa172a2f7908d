package net

import (
	"bytes"
	"fmt"
	"math"

	"github.com/ugorji/go/codec"
)

// Wire formats
const (
	FormatJSON    = "json"
	FormatMsgpack = "msgpack"
)

// Codec encodes and decodes GossipPackets to and from datagram payloads.
type Codec struct {
	format string
	handle codec.Handle
}

// NewCodec returns a Codec for the given wire format.
func NewCodec(format string) (*Codec, error) {
	var h codec.Handle

	switch format {
	case FormatJSON, "":
		format = FormatJSON
		h = new(codec.JsonHandle)
	case FormatMsgpack:
		mh := new(codec.MsgpackHandle)
		mh.WriteExt = true
		mh.RawToString = true
		h = mh
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	return &Codec{format: format, handle: h}, nil
}

// Format returns the name of the wire format.
func (c *Codec) Format() string {
	return c.format
}

// Encode returns the payload of packet. Only the shape that is set is
// written, without any envelope.
func (c *Codec) Encode(packet *GossipPacket) ([]byte, error) {
	var body interface{}

	switch {
	case packet.Rumor != nil:
		body = packet.Rumor
	case packet.Status != nil:
		want := packet.Status.Want
		if want == nil {
			want = map[string]int{}
		}
		body = &StatusPacket{Want: want}
	default:
		return nil, fmt.Errorf("%w: empty packet", ErrMalformedPacket)
	}

	var b []byte
	enc := codec.NewEncoderBytes(&b, c.handle)
	if err := enc.Encode(body); err != nil {
		return nil, err
	}

	return b, nil
}

// Decode parses a payload. Anything that is not a well-formed Rumor or Status
// yields an error wrapping ErrMalformedPacket.
func (c *Codec) Decode(data []byte) (*GossipPacket, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrMalformedPacket)
	}

	var fields map[string]interface{}
	if err := c.decodeAll(data, &fields); err != nil {
		return nil, err
	}

	_, hasWant := fields["Want"]
	_, hasOrigin := fields["Origin"]
	seqNum, hasSeqNum := fields["SeqNum"]

	switch {
	case hasWant:
		status := new(StatusPacket)
		if err := c.decodeAll(data, status); err != nil {
			return nil, err
		}
		if status.Want == nil {
			status.Want = map[string]int{}
		}
		for o, count := range status.Want {
			if count < 0 {
				return nil, fmt.Errorf("%w: negative count %d for %q", ErrMalformedPacket, count, o)
			}
		}
		return &GossipPacket{Status: status}, nil
	case hasOrigin && hasSeqNum:
		if !isInteger(seqNum) {
			return nil, fmt.Errorf("%w: sequence number %v is not an integer", ErrMalformedPacket, seqNum)
		}
		rumor := new(RumorMessage)
		if err := c.decodeAll(data, rumor); err != nil {
			return nil, err
		}
		if rumor.Origin == "" {
			return nil, fmt.Errorf("%w: rumor without origin", ErrMalformedPacket)
		}
		if rumor.SeqNum < 0 {
			return nil, fmt.Errorf("%w: negative sequence number %d", ErrMalformedPacket, rumor.SeqNum)
		}
		return &GossipPacket{Rumor: rumor}, nil
	default:
		return nil, fmt.Errorf("%w: neither rumor nor status", ErrMalformedPacket)
	}
}

// decodeAll decodes data into v and fails if anything but whitespace follows
// the first value.
func (c *Codec) decodeAll(data []byte, v interface{}) error {
	dec := codec.NewDecoderBytes(data, c.handle)
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedPacket, err)
	}

	rest := data[dec.NumBytesRead():]
	if c.format == FormatJSON {
		rest = bytes.TrimSpace(rest)
	}
	if len(rest) > 0 {
		return fmt.Errorf("%w: %d trailing bytes", ErrMalformedPacket, len(rest))
	}

	return nil
}

// isInteger reports whether a generically decoded value is a whole number.
// Strings and nulls are not, even when the typed decoder would coerce them.
func isInteger(v interface{}) bool {
	switch n := v.(type) {
	case int64, uint64, int, uint, int32, uint32, int16, uint16, int8, uint8:
		return true
	case float64:
		return n == math.Trunc(n) && !math.IsInf(n, 0)
	case float32:
		return float64(n) == math.Trunc(float64(n))
	default:
		return false
	}
}

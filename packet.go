package sonyproto

import (
	"encoding/binary"
	"fmt"
)

const (
	kindAck      byte = 0x01
	kindCommand1 byte = 0x0C
	kindCommand2 byte = 0x0E
)

// Packet is a decoded protocol message: a one-bit-wrapping sequence
// number plus one of the three content variants.
type Packet struct {
	Seqnum  byte
	Content PacketContent
}

// PacketContent is the tagged union Ack | Command1 | Command2. Only
// the three types below implement it.
type PacketContent interface {
	packetKind() byte
	encodeBody() ([]byte, error)
}

// Ack is the empty acknowledgement sent in reply to any received
// Command1/Command2.
type Ack struct{}

func (Ack) packetKind() byte            { return kindAck }
func (Ack) encodeBody() ([]byte, error) { return nil, nil }

// Command1 carries a catalogued, decodable payload.
type Command1 struct {
	Payload Payload1
}

func (Command1) packetKind() byte { return kindCommand1 }
func (c Command1) encodeBody() ([]byte, error) {
	return encodePayload1(c.Payload)
}

// Command2 is the reserved variant: the envelope is parsed but the
// body is never decoded, only preserved verbatim.
type Command2 struct {
	Body []byte
}

func (Command2) packetKind() byte { return kindCommand2 }
func (c Command2) encodeBody() ([]byte, error) {
	return c.Body, nil
}

// WriteInto appends the framed, escaped wire encoding of p to dst and
// returns the extended slice. The layout is header, kind, seqnum,
// 4-byte big-endian body length, body, checksum, trailer; every byte
// between header and trailer goes through escapeInterior (frame.go).
func (p *Packet) WriteInto(dst []byte) ([]byte, error) {
	body, err := p.Content.encodeBody()
	if err != nil {
		return dst, err
	}

	pre := make([]byte, 0, 7+len(body))
	pre = append(pre, sentinelHeader, p.Content.packetKind(), p.Seqnum)
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(body)))
	pre = append(pre, lenBuf[:]...)
	pre = append(pre, body...)
	pre = append(pre, checksumOf(pre[1:]))

	dst = append(dst, pre[0])
	dst = append(dst, escapeInterior(pre[1:])...)
	dst = append(dst, sentinelTrailer)
	return dst, nil
}

// ParsePacket decodes a single complete, de-escaped frame (header
// through trailer inclusive) produced by the session's frame
// extraction. Checksum is not validated on receive; the reference
// implementation trusts it (see DESIGN.md).
func ParsePacket(frame []byte) (Packet, *Error) {
	if len(frame) < 9 {
		return Packet{}, errMissingBytes()
	}

	kind := frame[1]
	seqnum := frame[2]
	length := binary.BigEndian.Uint32(frame[3:7])
	if uint32(len(frame)) < 9+length {
		return Packet{}, errMissingBytes()
	}
	body := frame[7 : 7+length]

	switch kind {
	case kindAck:
		return Packet{Seqnum: seqnum, Content: Ack{}}, nil

	case kindCommand1:
		payload, err := decodePayload1(body)
		if err != nil {
			return Packet{}, err.WithSeqnum(seqnum)
		}
		return Packet{Seqnum: seqnum, Content: Command1{Payload: payload}}, nil

	case kindCommand2:
		raw := make([]byte, len(body))
		copy(raw, body)
		return Packet{Seqnum: seqnum, Content: Command2{Body: raw}}, nil

	default:
		return Packet{}, errUnknownPacket(fmt.Sprintf("%#02x", kind)).WithSeqnum(seqnum)
	}
}

// checksumOf is the wrapping byte-sum mod 256 over kind..body.
func checksumOf(b []byte) byte {
	var sum byte
	for _, c := range b {
		sum += c
	}
	return sum
}

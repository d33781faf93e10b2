package sonyproto

import (
	"encoding/binary"
	"time"
)

// DefaultRetryInterval is how long Poll waits before retransmitting an
// unacknowledged send.
const DefaultRetryInterval = time.Second

// State is the result of one Poll tick: either there is nothing to do
// yet (WaitingPacket), a decoded packet arrived (ReceivedPacket), or
// bytes must be written to the transport (SendPacket).
type State interface{ isState() }

// WaitingPacket means nothing is ready; Deadline, if set, is when the
// caller should poll again (a pending retransmit).
type WaitingPacket struct{ Deadline *time.Time }

// ReceivedPacket carries a decoded inbound packet. An Ack this session
// was waiting for has already cleared pendingSend by the time this is
// returned; any other content has already queued its own ack.
type ReceivedPacket struct{ Packet Packet }

// SendPacket carries framed, escaped bytes the caller must write to
// the transport.
type SendPacket struct{ Bytes []byte }

func (WaitingPacket) isState()  {}
func (ReceivedPacket) isState() {}
func (SendPacket) isState()     {}

type pendingSend struct {
	seqnum   byte
	content  PacketContent
	lastSent time.Time
}

// Session is the sans-I/O stop-and-wait ARQ state machine: it owns no
// socket and spawns no goroutine. A caller feeds it inbound bytes via
// Ingest, submits outbound payloads via QueueSend, and drives it with
// periodic Poll calls, writing out any SendPacket bytes and feeding
// back whatever the transport reads into Ingest.
//
// Session is not safe for concurrent use; a caller driving it from
// multiple goroutines must serialize access itself (Device does this
// by touching its Session only from the goroutine running Run).
type Session struct {
	readBuf       frameBuffer
	escapePending bool

	pendingSend    *pendingSend
	pendingAck     *byte
	pendingInbound *Packet
	lastAckSeqnum  byte
	nextSeqnum     byte

	RetryInterval time.Duration
}

// NewSession returns a Session with no outstanding send and the
// default retry interval.
func NewSession() *Session {
	return &Session{RetryInterval: DefaultRetryInterval}
}

// Ingest de-escapes and appends b to the read buffer, tracking
// escape-pair state across calls so a split escape sequence at a read
// boundary resumes correctly. It returns the number of source bytes
// consumed, which is always len(b): bytes that would overflow the
// buffer are dropped silently rather than refused.
func (s *Session) Ingest(b []byte) int {
	consumed := 0
	for _, c := range b {
		consumed++
		if s.escapePending {
			s.escapePending = false
			s.readBuf.push(c | 0b0001_0000)
			continue
		}
		if c == sentinelEscape {
			s.escapePending = true
			continue
		}
		s.readBuf.push(c)
	}
	return consumed
}

// QueueSend submits content for transmission. It fails with
// PacketPending if a send is already outstanding; at most one send is
// ever in flight, matching the stop-and-wait discipline.
func (s *Session) QueueSend(content PacketContent) error {
	if s.pendingSend != nil {
		return errPacketPending()
	}
	s.pendingSend = &pendingSend{seqnum: s.nextSeqnum, content: content}
	return nil
}

// Poll advances the state machine by one tick. Call it repeatedly
// from an external loop, writing any returned SendPacket bytes to the
// transport and feeding transport reads back into Ingest.
//
// A non-ack frame is not delivered as ReceivedPacket on the same tick
// it is extracted: it is stashed in pendingInbound and this tick
// instead emits the auto-ack SendPacket, matching the order pinned by
// scenario S2 (the ack precedes delivery of the packet it acks). The
// stashed packet drains as ReceivedPacket on the next Poll call, ahead
// of any other work.
func (s *Session) Poll(now time.Time) State {
	if s.pendingInbound != nil {
		pkt := *s.pendingInbound
		s.pendingInbound = nil
		return ReceivedPacket{Packet: pkt}
	}

	if frame, ok := s.tryExtractFrame(); ok {
		if received, ok := s.handleFrame(frame); ok {
			return received
		}
		// non-ack frame: pendingAck was just set by handleFrame, fall
		// through so it goes out this same tick.
	}

	if s.pendingAck != nil {
		// an ack's seqnum is 1 XOR the seqnum of the packet it acks,
		// per sec:4.4's sequence number policy.
		ackSeqnum := *s.pendingAck ^ 1
		s.pendingAck = nil
		bytes, _ := (&Packet{Seqnum: ackSeqnum, Content: Ack{}}).WriteInto(nil)
		return SendPacket{Bytes: bytes}
	}

	if s.pendingSend != nil {
		if s.pendingSend.lastSent.IsZero() || now.Sub(s.pendingSend.lastSent) >= s.RetryInterval {
			s.pendingSend.lastSent = now
			bytes, _ := (&Packet{Seqnum: s.pendingSend.seqnum, Content: s.pendingSend.content}).WriteInto(nil)
			return SendPacket{Bytes: bytes}
		}
		deadline := s.pendingSend.lastSent.Add(s.RetryInterval)
		return WaitingPacket{Deadline: &deadline}
	}

	return WaitingPacket{}
}

// handleFrame parses one extracted frame. Ack content is delivered
// immediately (there is nothing further to send for it), so it
// returns (ReceivedPacket, true). A non-ack packet, or a parse error,
// has nothing to deliver this tick: it queues pendingAck/pendingInbound
// (or nothing, on error with no seqnum) and returns (_, false) so the
// caller falls through to its own pendingAck handling.
func (s *Session) handleFrame(frame []byte) (ReceivedPacket, bool) {
	pkt, err := ParsePacket(frame)
	if err != nil {
		if err.Seqnum != nil {
			s.pendingAck = err.Seqnum
		}
		return ReceivedPacket{}, false
	}

	switch pkt.Content.(type) {
	case Ack:
		if s.pendingSend != nil && pkt.Seqnum == s.pendingSend.seqnum^1 {
			s.pendingSend = nil
			s.lastAckSeqnum = pkt.Seqnum
			s.nextSeqnum ^= 1
		}
		return ReceivedPacket{Packet: pkt}, true
	default:
		s.pendingAck = &pkt.Seqnum
		s.pendingInbound = &pkt
		return ReceivedPacket{}, false
	}
}

// tryExtractFrame locates and removes one complete frame from the
// read buffer, using the declared length field to compute the exact
// frame size rather than scanning for a trailer byte: after
// de-escaping, a legitimate body byte can itself equal the trailer
// sentinel, so a length-directed cut is the only way to avoid cutting
// a frame short (see DESIGN.md).
func (s *Session) tryExtractFrame() ([]byte, bool) {
	for {
		data := s.readBuf.bytes()
		if len(data) == 0 {
			return nil, false
		}
		if data[0] != sentinelHeader {
			s.readBuf.consume(1)
			continue
		}
		if len(data) < 7 {
			return nil, false
		}
		length := binary.BigEndian.Uint32(data[3:7])
		total := 9 + int(length)
		if total > bufferCapacity {
			s.readBuf.consume(1)
			continue
		}
		if len(data) < total {
			return nil, false
		}
		if data[total-1] != sentinelTrailer {
			s.readBuf.consume(1)
			continue
		}
		frame := append([]byte(nil), data[:total]...)
		s.readBuf.consume(total)
		return frame, true
	}
}

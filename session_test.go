package sonyproto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_IngestThenAutoAck(t *testing.T) {
	s := NewSession()

	pkt := &Packet{Seqnum: 0, Content: Command1{Payload: Payload1{Kind: KindInitRequest}}}
	wire, err := pkt.WriteInto(nil)
	require.NoError(t, err)
	s.Ingest(wire)

	// scenario S2's ordering: the auto-ack goes out on the tick the
	// frame is extracted; the decoded packet is only delivered as
	// ReceivedPacket on the following tick.
	first := s.Poll(time.Now())
	sent, ok := first.(SendPacket)
	require.True(t, ok, "expected SendPacket (auto-ack), got %T", first)

	ackPkt, perr := ParsePacket(sent.Bytes)
	require.Nil(t, perr)
	assert.Equal(t, byte(1), ackPkt.Seqnum) // 1 XOR 0
	assert.IsType(t, Ack{}, ackPkt.Content)

	next := s.Poll(time.Now())
	received, ok := next.(ReceivedPacket)
	require.True(t, ok, "expected ReceivedPacket, got %T", next)
	assert.Equal(t, KindInitRequest, received.Packet.Content.(Command1).Payload.Kind)
}

func TestSession_QueueSendThenMatchingAckClearsPending(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.QueueSend(Command1{Payload: Payload1{Kind: KindInitRequest}}))

	state := s.Poll(time.Now())
	sent, ok := state.(SendPacket)
	require.True(t, ok)

	outgoing, perr := ParsePacket(sent.Bytes)
	require.Nil(t, perr)

	ack := &Packet{Seqnum: outgoing.Seqnum ^ 1, Content: Ack{}}
	wire, err := ack.WriteInto(nil)
	require.NoError(t, err)
	s.Ingest(wire)

	received := s.Poll(time.Now())
	_, ok = received.(ReceivedPacket)
	require.True(t, ok)

	assert.Nil(t, s.pendingSend)

	// a second send is now accepted; the discipline only blocks one
	// outstanding send at a time.
	assert.NoError(t, s.QueueSend(Ack{}))
}

func TestSession_QueueSendWhilePendingReturnsError(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.QueueSend(Command1{Payload: Payload1{Kind: KindInitRequest}}))

	err := s.QueueSend(Command1{Payload: Payload1{Kind: KindInitRequest}})
	require.Error(t, err)
	perr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, KindPacketPending, perr.Kind)
}

func TestSession_RetransmitsAfterInterval(t *testing.T) {
	s := NewSession()
	s.RetryInterval = 10 * time.Millisecond
	require.NoError(t, s.QueueSend(Command1{Payload: Payload1{Kind: KindInitRequest}}))

	start := time.Now()
	first := s.Poll(start)
	_, ok := first.(SendPacket)
	require.True(t, ok)

	waiting := s.Poll(start)
	w, ok := waiting.(WaitingPacket)
	require.True(t, ok)
	require.NotNil(t, w.Deadline)

	again := s.Poll(start.Add(20 * time.Millisecond))
	_, ok = again.(SendPacket)
	require.True(t, ok, "expected retransmit after RetryInterval elapsed")
}

func TestSession_UnknownPacketQueuesAckFromSeqnum(t *testing.T) {
	s := NewSession()
	frame := []byte{0x3E, 0xFF, 0x05, 0x00, 0x00, 0x00, 0x00, 0x04, 0x3C}
	s.Ingest(frame)

	// an undecodable body still carries a seqnum (sec:4.2), so it is
	// still auto-acked on the same tick as any other non-ack frame.
	state := s.Poll(time.Now())
	sent, ok := state.(SendPacket)
	require.True(t, ok, "expected SendPacket (auto-ack), got %T", state)
	assert.Nil(t, s.pendingAck)

	ackPkt, perr := ParsePacket(sent.Bytes)
	require.Nil(t, perr)
	assert.Equal(t, byte(4), ackPkt.Seqnum) // 1 XOR 5
	assert.IsType(t, Ack{}, ackPkt.Content)
}

package sonyproto

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"
)

type sendRequest struct {
	content PacketContent
	reply   chan sendResult
}

type sendResult struct {
	packet Packet
	err    error
}

// Device is the client-facing facade over a Session and a transport.
// It serializes Send calls (at most one outstanding, matching the
// session's stop-and-wait discipline) and fans out every decoded
// inbound packet that is not an ack to subscribers registered via
// Packets.
//
// Device owns the only goroutine that touches its Session; start it
// with Run before calling Send.
type Device struct {
	session *Session
	port    io.ReadWriter

	sendCh chan sendRequest
	subs   []chan Packet
}

// NewDevice wraps port (an already-open RFCOMM channel, or anything
// else that reads and writes bytes) in a Device facade.
func NewDevice(port io.ReadWriter) *Device {
	return &Device{
		session: NewSession(),
		port:    port,
		sendCh:  make(chan sendRequest),
	}
}

// Packets returns a channel of decoded inbound non-ack packets
// (unsolicited notifies and replies). Acks, whether or not they match
// an in-flight Send, are not delivered here. A slow reader may miss
// packets; no history is retained.
func (d *Device) Packets() <-chan Packet {
	ch := make(chan Packet, 16)
	d.subs = append(d.subs, ch)
	return ch
}

func (d *Device) broadcast(p Packet) {
	for _, ch := range d.subs {
		select {
		case ch <- p:
		default:
			log.Printf("sonyproto: subscriber channel full, dropping packet seq=%d", p.Seqnum)
		}
	}
}

// Send submits content, waits for its ack, and returns the ack
// packet. Only one Send may be outstanding at a time; a second call
// made while one is outstanding fails with a PacketPending error.
func (d *Device) Send(ctx context.Context, content PacketContent) (Packet, error) {
	req := sendRequest{content: content, reply: make(chan sendResult, 1)}
	select {
	case d.sendCh <- req:
	case <-ctx.Done():
		return Packet{}, ctx.Err()
	}
	select {
	case res := <-req.reply:
		return res.packet, res.err
	case <-ctx.Done():
		return Packet{}, ctx.Err()
	}
}

// Bootstrap runs the fixed priming sequence the original implementation
// issues when a device is first attached: query the active ANC mode,
// then the battery level for each of the single/dual/case readings.
// It adds no new session semantics; it is an ordinary sequence of Send
// calls that a caller's own discovery layer invokes once a connection
// is confirmed.
func (d *Device) Bootstrap(ctx context.Context) error {
	steps := []PacketContent{
		Command1{Payload: Payload1{Kind: KindAmbientSoundControlGet}},
		Command1{Payload: Payload1{Kind: KindBatteryLevelRequest, BatteryReq: BatterySingle}},
		Command1{Payload: Payload1{Kind: KindBatteryLevelRequest, BatteryReq: BatteryDual}},
		Command1{Payload: Payload1{Kind: KindBatteryLevelRequest, BatteryReq: BatteryCase}},
	}
	for _, step := range steps {
		if _, err := d.Send(ctx, step); err != nil {
			return fmt.Errorf("sonyproto: bootstrap: %w", err)
		}
	}
	return nil
}

// Run drives the session against the transport until ctx is done or
// the transport errors. It is the poll-loop the core's sans-I/O design
// says it does not own; callers outside the core run it, typically in
// its own goroutine.
func (d *Device) Run(ctx context.Context) error {
	inbound := make(chan []byte, 4)
	readErr := make(chan error, 1)
	go d.readLoop(ctx, inbound, readErr)

	var waiting *sendRequest

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-readErr:
			return fmt.Errorf("sonyproto: transport read: %w", err)
		case chunk := <-inbound:
			d.session.Ingest(chunk)
		case req := <-d.sendCh:
			if waiting != nil {
				req.reply <- sendResult{err: errPacketPending()}
				continue
			}
			r := req
			if err := d.session.QueueSend(r.content); err != nil {
				r.reply <- sendResult{err: err}
				continue
			}
			waiting = &r
		default:
		}

		switch st := d.session.Poll(time.Now()).(type) {
		case SendPacket:
			if _, err := d.port.Write(st.Bytes); err != nil {
				err = fmt.Errorf("sonyproto: transport write: %w", err)
				if waiting != nil {
					waiting.reply <- sendResult{err: err}
					waiting = nil
				}
				return err
			}

		case ReceivedPacket:
			_, isAck := st.Packet.Content.(Ack)
			if isAck && waiting != nil && d.session.pendingSend == nil {
				// pendingSend only clears when the session itself matched
				// this ack's seqnum to the outstanding send.
				waiting.reply <- sendResult{packet: st.Packet}
				waiting = nil
			} else if !isAck {
				d.broadcast(st.Packet)
			}

		case WaitingPacket:
			switch {
			case st.Deadline == nil:
				time.Sleep(5 * time.Millisecond)
			default:
				if wait := time.Until(*st.Deadline); wait > 0 && wait < 5*time.Millisecond {
					time.Sleep(wait)
				} else {
					time.Sleep(5 * time.Millisecond)
				}
			}
		}
	}
}

func (d *Device) readLoop(ctx context.Context, inbound chan<- []byte, readErr chan<- error) {
	buf := make([]byte, 512)
	for {
		n, err := d.port.Read(buf)
		if n > 0 {
			chunk := append([]byte(nil), buf[:n]...)
			select {
			case inbound <- chunk:
			case <-ctx.Done():
				return
			}
		}
		if err != nil {
			select {
			case readErr <- err:
			case <-ctx.Done():
			}
			return
		}
	}
}

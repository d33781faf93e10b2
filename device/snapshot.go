// Package device is non-core bookkeeping over the packets
// sonyproto.Device already decodes: a per-address snapshot of the
// last known ANC mode and battery readings, restored from the
// original implementation's UiDevice/UiDeviceBattery (see
// original_source/src/device_stream.rs) after the distilled spec
// dropped it. It adds no protocol behavior, only memory of the most
// recent reading.
package device

import "sonyproto"

// Snapshot is the most recently observed state for one paired device.
type Snapshot struct {
	Address string

	HasAnc bool
	Anc    sonyproto.AncPayload

	HasBattery bool
	Battery    sonyproto.BatteryState
}

// NewSnapshot returns an empty snapshot for the given Bluetooth
// address.
func NewSnapshot(address string) *Snapshot {
	return &Snapshot{Address: address}
}

// Observe updates the snapshot from one decoded packet. Packets that
// carry no ANC or battery reading are ignored.
func (s *Snapshot) Observe(pkt sonyproto.Packet) {
	c1, ok := pkt.Content.(sonyproto.Command1)
	if !ok {
		return
	}

	switch c1.Payload.Kind {
	case sonyproto.KindAmbientSoundControlRet, sonyproto.KindAmbientSoundControlNotify:
		s.HasAnc = true
		s.Anc = c1.Payload.Anc

	case sonyproto.KindBatteryLevelReply, sonyproto.KindBatteryLevelNotify:
		s.HasBattery = true
		s.Battery = c1.Payload.Battery
	}
}

// Watch observes every packet from packets until it closes, keeping
// snapshot current. Typical use is one goroutine per device, reading
// from sonyproto.Device.Packets().
func Watch(snapshot *Snapshot, packets <-chan sonyproto.Packet) {
	for pkt := range packets {
		snapshot.Observe(pkt)
	}
}

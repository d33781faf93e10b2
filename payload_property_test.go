package sonyproto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestAncPayload_RoundTripProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		p := AncPayload{
			Mode:         AncMode(rapid.IntRange(0, 3).Draw(t, "mode")),
			FocusOnVoice: rapid.Bool().Draw(t, "focus"),
			AmbientLevel: byte(rapid.IntRange(0, 255).Draw(t, "level")),
		}
		// On/Wind always report level 0x01 on the wire (spec sec:4.3);
		// pin the input to what a round trip can actually reproduce.
		if p.Mode == AncModeNoiseCancelling || p.Mode == AncModeWind {
			p.AmbientLevel = 0x01
		}

		encoded := encodeAnc(p)
		got, err := decodeAnc(encoded)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		assert.Equal(t, p, got)
	})
}

func TestBatteryState_RoundTripProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		isDual := rapid.Bool().Draw(t, "dual")

		var want BatteryState
		if isDual {
			left := byte(rapid.IntRange(1, 255).Draw(t, "left"))
			right := byte(rapid.IntRange(1, 255).Draw(t, "right"))
			want = BatteryState{
				Type: BatteryDual, LeftLevel: left, LeftCharging: rapid.Bool().Draw(t, "leftCharging"),
				RightLevel: right, RightCharging: rapid.Bool().Draw(t, "rightCharging"),
			}
		} else {
			bt := BatteryType(rapid.SampledFrom([]int{int(BatterySingle), int(BatteryCase)}).Draw(t, "type"))
			want = BatteryState{Type: bt, Level: byte(rapid.IntRange(0, 255).Draw(t, "level")), IsCharging: rapid.Bool().Draw(t, "charging")}
		}

		encoded := encodeBatteryState(want)
		got, err := decodeBatteryState(encoded)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		assert.Equal(t, want, got)
	})
}

package sonyproto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatteryStateRoundTrip_SingleAndCase(t *testing.T) {
	cases := []BatteryState{
		{Type: BatterySingle, Level: 80, IsCharging: true},
		{Type: BatterySingle, Level: 0, IsCharging: false},
		{Type: BatteryCase, Level: 45, IsCharging: false},
	}

	for _, want := range cases {
		encoded := encodeBatteryState(want)
		assert.Len(t, encoded, 3)

		got, err := decodeBatteryState(encoded)
		require.Nil(t, err)
		assert.Equal(t, want, got)
	}
}

func TestBatteryStateRoundTrip_Dual(t *testing.T) {
	want := BatteryState{Type: BatteryDual, LeftLevel: 70, LeftCharging: true, RightLevel: 60, RightCharging: false}

	encoded := encodeBatteryState(want)
	assert.Len(t, encoded, 5)

	got, err := decodeBatteryState(encoded)
	require.Nil(t, err)
	assert.Equal(t, want, got)
}

// TestBatteryStateDualCollapse exercises the rule from spec.md sec:4.3:
// a Dual reading where one side reports level 0 collapses to Single of
// the other side.
func TestBatteryStateDualCollapse(t *testing.T) {
	// right level is 0: collapses to Single(left).
	body := encodeBatteryState(BatteryState{
		Type: BatteryDual, LeftLevel: 0x50, LeftCharging: true, RightLevel: 0, RightCharging: false,
	})
	got, err := decodeBatteryState(body)
	require.Nil(t, err)
	assert.Equal(t, BatteryState{Type: BatterySingle, Level: 0x50, IsCharging: true}, got)

	// left level is 0: collapses to Single(right).
	body = encodeBatteryState(BatteryState{
		Type: BatteryDual, LeftLevel: 0, LeftCharging: false, RightLevel: 0x40, RightCharging: true,
	})
	got, err = decodeBatteryState(body)
	require.Nil(t, err)
	assert.Equal(t, BatteryState{Type: BatterySingle, Level: 0x40, IsCharging: true}, got)
}

func TestParseBatteryType_Invalid(t *testing.T) {
	_, err := parseBatteryType(0x09)
	require.NotNil(t, err)
	assert.Equal(t, KindInvalidValueForEnum, err.Kind)
}

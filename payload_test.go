package sonyproto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodePayload1_UnknownCode(t *testing.T) {
	_, err := decodePayload1([]byte{0xFE})
	require.NotNil(t, err)
	assert.Equal(t, KindUnknownPayloadType, err.Kind)
	assert.Equal(t, byte(0xFE), err.Value)
}

func TestDecodePayload1_NotImplementedPreservesRaw(t *testing.T) {
	body := []byte{0x22, 0x01, 0x02}
	_, err := decodePayload1(body)
	require.NotNil(t, err)
	assert.Equal(t, KindNotImplemented, err.Kind)
	assert.Equal(t, "PowerOff", err.Name)
	assert.Equal(t, []byte{0x01, 0x02}, err.Raw)
}

func TestEncodePayload1_NotImplemented(t *testing.T) {
	_, err := encodePayload1(Payload1{Kind: KindPowerOff})
	require.Error(t, err)
}

func TestDecodePayload1_MissingBytes(t *testing.T) {
	_, err := decodePayload1(nil)
	require.NotNil(t, err)
	assert.Equal(t, KindMissingBytes, err.Kind)
}

func TestDecodePayload1_BatteryLevelRequest(t *testing.T) {
	got, err := decodePayload1([]byte{0x10, byte(BatteryCase)})
	require.Nil(t, err)
	assert.Equal(t, KindBatteryLevelRequest, got.Kind)
	assert.Equal(t, BatteryCase, got.BatteryReq)
}

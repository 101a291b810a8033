package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func forceFrameMap() *CANMap {
	fd := &FrameDef{
		ID: 0x311, Name: "GRIPPER_CMD", DLC: 4, Direction: "tx",
		Signals: []SignalDef{
			{Name: "wrist_joint", StartBit: 0, BitLength: 16, Signed: true,
				Factor: 0.01, Min: -100, Max: 100, Unit: "N"},
			{Name: "left_finger_joint", StartBit: 16, BitLength: 16, Signed: true,
				Factor: 0.01, Min: -100, Max: 100, Default: 1.5, Unit: "N"},
		},
	}
	return &CANMap{
		ByID:   map[uint32]*FrameDef{fd.ID: fd},
		ByName: map[string]*FrameDef{fd.Name: fd},
	}
}

func TestEncodeDecodeSignedForce(t *testing.T) {
	m := forceFrameMap()

	frame, err := m.EncodeCANFrame("GRIPPER_CMD", map[string]float64{
		"wrist_joint":       -7.25,
		"left_finger_joint": 9.99,
	})
	require.NoError(t, err)
	assert.Equal(t, uint32(0x311), uint32(frame.ID))
	assert.Equal(t, uint8(4), frame.Length)

	vals, err := m.DecodeFrame(0x311, frame.Data[:frame.Length])
	require.NoError(t, err)
	assert.InDelta(t, -7.25, vals["wrist_joint"], 0.005)
	assert.InDelta(t, 9.99, vals["left_finger_joint"], 0.005)
}

func TestEncodeClampsToSignalRange(t *testing.T) {
	m := forceFrameMap()

	payload, _, err := m.EncodePayload("GRIPPER_CMD", map[string]float64{
		"wrist_joint":       1e6,
		"left_finger_joint": -1e6,
	})
	require.NoError(t, err)

	vals, err := m.DecodeFrame(0x311, payload)
	require.NoError(t, err)
	assert.InDelta(t, 100.0, vals["wrist_joint"], 0.005)
	assert.InDelta(t, -100.0, vals["left_finger_joint"], 0.005)
}

func TestEncodeFillsMissingSignalsWithDefaults(t *testing.T) {
	m := forceFrameMap()

	payload, _, err := m.EncodePayload("GRIPPER_CMD", map[string]float64{
		"wrist_joint": 2.0,
	})
	require.NoError(t, err)

	vals, err := m.DecodeFrame(0x311, payload)
	require.NoError(t, err)
	assert.InDelta(t, 1.5, vals["left_finger_joint"], 0.005)
}

func TestDecodeRejectsShortPayload(t *testing.T) {
	m := forceFrameMap()
	_, err := m.DecodeFrame(0x311, []byte{0x01, 0x02})
	assert.Error(t, err)
}

func TestEncodeUnknownFrame(t *testing.T) {
	m := forceFrameMap()
	_, _, err := m.EncodePayload("NO_SUCH_FRAME", nil)
	assert.Error(t, err)
}

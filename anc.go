package sonyproto

// AncMode is the active noise-control mode reported or requested by
// AmbientSoundControlGet/Ret/Set/Notify.
type AncMode byte

const (
	AncModeOff AncMode = iota
	AncModeAmbientSound
	AncModeNoiseCancelling
	AncModeWind
)

func (m AncMode) String() string {
	switch m {
	case AncModeOff:
		return "off"
	case AncModeAmbientSound:
		return "ambient-sound"
	case AncModeNoiseCancelling:
		return "noise-cancelling"
	case AncModeWind:
		return "wind-noise-reduction"
	default:
		return "unknown"
	}
}

// AncPayload is the fully-decoded body of an AmbientSoundControl
// Ret/Set/Notify: the active mode, whether "focus on voice" is
// applied while in ambient-sound mode, and the ambient-sound level.
type AncPayload struct {
	Mode         AncMode
	FocusOnVoice bool
	AmbientLevel byte
}

// encodeAnc writes the 7-byte body described in spec.md sec:4.3. b1
// collapses every non-Off mode to 0x11 and b3 carries the actual mode
// selector, so decode must dispatch on b2/b3 rather than treat b1 as
// the mode byte.
func encodeAnc(p AncPayload) []byte {
	buf := make([]byte, 7)
	buf[0] = 0x02
	if p.Mode == AncModeOff {
		buf[1] = 0x00
	} else {
		buf[1] = 0x11
	}
	buf[2] = 0x02
	switch p.Mode {
	case AncModeOff, AncModeAmbientSound:
		buf[3] = 0x00
	case AncModeNoiseCancelling:
		buf[3] = 0x02
	case AncModeWind:
		buf[3] = 0x01
	}
	buf[4] = 0x01
	buf[5] = boolByte(p.FocusOnVoice)
	switch p.Mode {
	case AncModeOff, AncModeAmbientSound:
		buf[6] = p.AmbientLevel
	default:
		buf[6] = 0x01
	}
	return buf
}

func decodeAnc(b []byte) (AncPayload, *Error) {
	if len(b) < 7 {
		return AncPayload{}, errMissingBytes()
	}

	var mode AncMode
	switch b[1] {
	case 0x00:
		mode = AncModeOff
	case 0x01, 0x11:
		switch b[2] {
		case 0x00:
			switch b[3] {
			case 0x00:
				mode = AncModeAmbientSound
			case 0x01:
				mode = AncModeNoiseCancelling
			default:
				return AncPayload{}, errInvalidValueForEnum("anc mode", b[3])
			}
		case 0x02:
			switch b[3] {
			case 0x00:
				mode = AncModeAmbientSound
			case 0x01:
				mode = AncModeWind
			case 0x02:
				mode = AncModeNoiseCancelling
			default:
				return AncPayload{}, errInvalidValueForEnum("anc mode", b[3])
			}
		default:
			return AncPayload{}, errInvalidValueForEnum("anc mode", b[2])
		}
	default:
		return AncPayload{}, errInvalidValueForEnum("anc mode", b[1])
	}

	return AncPayload{
		Mode:         mode,
		FocusOnVoice: b[5] == 0x01,
		AmbientLevel: b[6],
	}, nil
}

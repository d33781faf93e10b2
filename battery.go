package sonyproto

// BatteryType tags which battery layout a device reports: a single
// earbud/headphone battery, independent left/right earbuds, or the
// charging case.
type BatteryType byte

const (
	BatterySingle BatteryType = 0
	BatteryDual   BatteryType = 1
	BatteryCase   BatteryType = 2
)

func (t BatteryType) String() string {
	switch t {
	case BatterySingle:
		return "single"
	case BatteryDual:
		return "dual"
	case BatteryCase:
		return "case"
	default:
		return "unknown"
	}
}

func parseBatteryType(v byte) (BatteryType, *Error) {
	switch BatteryType(v) {
	case BatterySingle, BatteryDual, BatteryCase:
		return BatteryType(v), nil
	default:
		return 0, errInvalidValueForEnum("battery type", v)
	}
}

// BatteryState is the decoded body of a BatteryLevelReply/Notify.
//
// A Dual reading where one side reports level 0 collapses to Single
// of the other side: devices report an absent earbud (out of the
// case, or not paired) as level zero rather than omitting the field.
type BatteryState struct {
	Type BatteryType

	// Valid when Type is Single or Case.
	Level      byte
	IsCharging bool

	// Valid when Type is Dual.
	LeftLevel     byte
	LeftCharging  bool
	RightLevel    byte
	RightCharging bool
}

// encodeBatteryState writes the b0=type; b1,b2 (Single/Case) or
// b1..b4 (Dual) layout from spec.md sec:4.3.
func encodeBatteryState(s BatteryState) []byte {
	switch s.Type {
	case BatteryDual:
		return []byte{
			byte(s.Type),
			s.LeftLevel, boolByte(s.LeftCharging),
			s.RightLevel, boolByte(s.RightCharging),
		}
	default: // Single, Case
		return []byte{byte(s.Type), s.Level, boolByte(s.IsCharging)}
	}
}

func decodeBatteryState(b []byte) (BatteryState, *Error) {
	if len(b) < 1 {
		return BatteryState{}, errMissingBytes()
	}
	bt, err := parseBatteryType(b[0])
	if err != nil {
		return BatteryState{}, err
	}

	switch bt {
	case BatterySingle, BatteryCase:
		if len(b) < 3 {
			return BatteryState{}, errMissingBytes()
		}
		return BatteryState{Type: bt, Level: b[1], IsCharging: b[2] == 1}, nil

	case BatteryDual:
		if len(b) < 5 {
			return BatteryState{}, errMissingBytes()
		}
		leftLevel, leftCharging := b[1], b[2] == 1
		rightLevel, rightCharging := b[3], b[4] == 1

		if leftLevel == 0 {
			return BatteryState{Type: BatterySingle, Level: rightLevel, IsCharging: rightCharging}, nil
		}
		if rightLevel == 0 {
			return BatteryState{Type: BatterySingle, Level: leftLevel, IsCharging: leftCharging}, nil
		}
		return BatteryState{
			Type:          BatteryDual,
			LeftLevel:     leftLevel,
			LeftCharging:  leftCharging,
			RightLevel:    rightLevel,
			RightCharging: rightCharging,
		}, nil

	default:
		return BatteryState{}, errInvalidValueForEnum("battery type", b[0])
	}
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

package sonyproto

// Payload1Kind tags the catalogue entry a Command1 body decoded to.
// Flattened into a single tagged struct rather than ~50 Go types
// implementing an interface, since only a handful of kinds carry a
// structured body and the rest are envelope-only passthroughs.
type Payload1Kind int

const (
	KindInitRequest Payload1Kind = iota
	KindInitReply
	KindFwVersionRequest
	KindFwVersionReply
	KindInit2Request
	KindInit2Reply
	KindBatteryLevelRequest
	KindBatteryLevelReply
	KindBatteryLevelNotify
	KindAudioCodecRequest
	KindAudioCodecReply
	KindAudioCodecNotify
	KindPowerOff
	KindSoundPositionGet
	KindSoundPositionRet
	KindSoundPositionSet
	KindSoundPositionNotify
	KindEqualizerGet
	KindEqualizerRet
	KindEqualizerSet
	KindEqualizerNotify
	KindAmbientSoundControlGet
	KindAmbientSoundControlRet
	KindAmbientSoundControlSet
	KindAmbientSoundControlNotify
	KindVolumeGet
	KindVolumeRet
	KindVolumeSet
	KindVolumeNotify
	KindNoiseCancellingOptimizerStart
	KindNoiseCancellingOptimizerStatus
	KindNoiseCancellingOptimizerStateGet
	KindNoiseCancellingOptimizerStateRet
	KindNoiseCancellingOptimizerStateNotify
	KindTouchSensorGet
	KindTouchSensorRet
	KindTouchSensorSet
	KindTouchSensorNotify
	KindAudioUpsamplingGet
	KindAudioUpsamplingRet
	KindAudioUpsamplingSet
	KindAudioUpsamplingNotify
	KindAutomaticPowerOffGet
	KindAutomaticPowerOffRet
	KindAutomaticPowerOffSet
	KindAutomaticPowerOffNotify
	KindSpeakToChatConfigGet
	KindSpeakToChatConfigRet
	KindSpeakToChatConfigSet
	KindSpeakToChatConfigNotify
	KindJsonGet
	KindJsonRet
	KindSomethingGet
	KindSomethingRet
)

// Payload1 is the decoded body of a Command1 packet. Only the fields
// relevant to Kind are populated. decodePayload1 never fills Raw: for
// kinds whose decode is not implemented it returns a NotImplemented
// Error, and that Error's Raw field carries the body bytes.
type Payload1 struct {
	Kind Payload1Kind

	InitReplyID [3]byte
	BatteryReq  BatteryType
	Battery     BatteryState
	Anc         AncPayload
	Raw         []byte
}

type catalogueEntry struct {
	kind Payload1Kind
	name string
}

// catalogue lists every recognized Command1 code. Entries for kinds
// without a dedicated case in decodePayload1/encodePayload1 decode
// only the envelope and surface NotImplemented.
var catalogue = map[byte]catalogueEntry{
	0x00: {KindInitRequest, "InitRequest"},
	0x01: {KindInitReply, "InitReply"},
	0x04: {KindFwVersionRequest, "FwVersionRequest"},
	0x05: {KindFwVersionReply, "FwVersionReply"},
	0x06: {KindInit2Request, "Init2Request"},
	0x07: {KindInit2Reply, "Init2Reply"},
	0x10: {KindBatteryLevelRequest, "BatteryLevelRequest"},
	0x11: {KindBatteryLevelReply, "BatteryLevelReply"},
	0x13: {KindBatteryLevelNotify, "BatteryLevelNotify"},
	0x18: {KindAudioCodecRequest, "AudioCodecRequest"},
	0x19: {KindAudioCodecReply, "AudioCodecReply"},
	0x1B: {KindAudioCodecNotify, "AudioCodecNotify"},
	0x22: {KindPowerOff, "PowerOff"},
	0x46: {KindSoundPositionGet, "SoundPositionGet"},
	0x47: {KindSoundPositionRet, "SoundPositionRet"},
	0x48: {KindSoundPositionSet, "SoundPositionSet"},
	0x49: {KindSoundPositionNotify, "SoundPositionNotify"},
	0x56: {KindEqualizerGet, "EqualizerGet"},
	0x57: {KindEqualizerRet, "EqualizerRet"},
	0x58: {KindEqualizerSet, "EqualizerSet"},
	0x59: {KindEqualizerNotify, "EqualizerNotify"},
	0x66: {KindAmbientSoundControlGet, "AmbientSoundControlGet"},
	0x67: {KindAmbientSoundControlRet, "AmbientSoundControlRet"},
	0x68: {KindAmbientSoundControlSet, "AmbientSoundControlSet"},
	0x69: {KindAmbientSoundControlNotify, "AmbientSoundControlNotify"},
	0x84: {KindNoiseCancellingOptimizerStart, "NoiseCancellingOptimizerStart"},
	0x85: {KindNoiseCancellingOptimizerStatus, "NoiseCancellingOptimizerStatus"},
	0x86: {KindNoiseCancellingOptimizerStateGet, "NoiseCancellingOptimizerStateGet"},
	0x87: {KindNoiseCancellingOptimizerStateRet, "NoiseCancellingOptimizerStateRet"},
	0x89: {KindNoiseCancellingOptimizerStateNotify, "NoiseCancellingOptimizerStateNotify"},
	0x90: {KindSomethingGet, "SomethingGet"},
	0x91: {KindSomethingRet, "SomethingRet"},
	0xA6: {KindVolumeGet, "VolumeGet"},
	0xA7: {KindVolumeRet, "VolumeRet"},
	0xA8: {KindVolumeSet, "VolumeSet"},
	0xA9: {KindVolumeNotify, "VolumeNotify"},
	0xC4: {KindJsonGet, "JsonGet"},
	0xC9: {KindJsonRet, "JsonRet"},
	0xD6: {KindTouchSensorGet, "TouchSensorGet"},
	0xD7: {KindTouchSensorRet, "TouchSensorRet"},
	0xD8: {KindTouchSensorSet, "TouchSensorSet"},
	0xD9: {KindTouchSensorNotify, "TouchSensorNotify"},
	0xE6: {KindAudioUpsamplingGet, "AudioUpsamplingGet"},
	0xE7: {KindAudioUpsamplingRet, "AudioUpsamplingRet"},
	0xE8: {KindAudioUpsamplingSet, "AudioUpsamplingSet"},
	0xE9: {KindAudioUpsamplingNotify, "AudioUpsamplingNotify"},
	0xF6: {KindAutomaticPowerOffGet, "AutomaticPowerOffGet"},
	0xF7: {KindAutomaticPowerOffRet, "AutomaticPowerOffRet"},
	0xF8: {KindAutomaticPowerOffSet, "AutomaticPowerOffSet"},
	0xF9: {KindAutomaticPowerOffNotify, "AutomaticPowerOffNotify"},
	0xFA: {KindSpeakToChatConfigGet, "SpeakToChatConfigGet"},
	0xFB: {KindSpeakToChatConfigRet, "SpeakToChatConfigRet"},
	0xFC: {KindSpeakToChatConfigSet, "SpeakToChatConfigSet"},
	0xFD: {KindSpeakToChatConfigNotify, "SpeakToChatConfigNotify"},
}

var codeForKind = func() map[Payload1Kind]byte {
	m := make(map[Payload1Kind]byte, len(catalogue))
	for code, e := range catalogue {
		m[e.kind] = code
	}
	return m
}()

// decodePayload1 dispatches on the leading command-code byte. Kinds
// with a structured body are fully decoded; everything else in the
// catalogue decodes the envelope only and returns NotImplemented with
// the body preserved in Raw.
func decodePayload1(body []byte) (Payload1, *Error) {
	if len(body) < 1 {
		return Payload1{}, errMissingBytes()
	}
	code := body[0]
	rest := body[1:]

	entry, known := catalogue[code]
	if !known {
		return Payload1{}, errUnknownPayloadType(code)
	}

	switch entry.kind {
	case KindInitRequest:
		return Payload1{Kind: KindInitRequest}, nil

	case KindInitReply:
		if len(rest) < 3 {
			return Payload1{}, errMissingBytes()
		}
		var id [3]byte
		copy(id[:], rest[:3])
		return Payload1{Kind: KindInitReply, InitReplyID: id}, nil

	case KindBatteryLevelRequest:
		if len(rest) < 1 {
			return Payload1{}, errMissingBytes()
		}
		bt, err := parseBatteryType(rest[0])
		if err != nil {
			return Payload1{}, err
		}
		return Payload1{Kind: KindBatteryLevelRequest, BatteryReq: bt}, nil

	case KindBatteryLevelReply, KindBatteryLevelNotify:
		bs, err := decodeBatteryState(rest)
		if err != nil {
			return Payload1{}, err
		}
		return Payload1{Kind: entry.kind, Battery: bs}, nil

	case KindAmbientSoundControlGet:
		return Payload1{Kind: KindAmbientSoundControlGet}, nil

	case KindAmbientSoundControlRet, KindAmbientSoundControlSet, KindAmbientSoundControlNotify:
		anc, err := decodeAnc(rest)
		if err != nil {
			return Payload1{}, err
		}
		return Payload1{Kind: entry.kind, Anc: anc}, nil

	default:
		return Payload1{}, errNotImplemented(entry.name).WithRaw(append([]byte(nil), rest...))
	}
}

// encodePayload1 is the encode half of decodePayload1.
func encodePayload1(p Payload1) ([]byte, error) {
	code, ok := codeForKind[p.Kind]
	if !ok {
		return nil, errInvalidValueForEnum("payload kind", 0xFF)
	}

	switch p.Kind {
	case KindInitRequest:
		return []byte{code, 0x00}, nil

	case KindInitReply:
		return []byte{code, p.InitReplyID[0], p.InitReplyID[1], p.InitReplyID[2]}, nil

	case KindBatteryLevelRequest:
		return []byte{code, byte(p.BatteryReq)}, nil

	case KindBatteryLevelReply, KindBatteryLevelNotify:
		body := append([]byte{code}, encodeBatteryState(p.Battery)...)
		return body, nil

	case KindAmbientSoundControlGet:
		return []byte{code, 0x02}, nil

	case KindAmbientSoundControlRet, KindAmbientSoundControlSet, KindAmbientSoundControlNotify:
		body := append([]byte{code}, encodeAnc(p.Anc)...)
		return body, nil

	default:
		name := "payload kind"
		if e, ok := catalogue[code]; ok {
			name = e.name
		}
		return nil, errNotImplemented(name)
	}
}

package proto

import "encoding/binary"

// ErrorPayload encodes a generic error payload.
//
// Layout (little-endian):
//   - u16: code
//   - u16: ref kind (the message kind that failed)
//   - bytes: optional detail (sender-defined)
func ErrorPayload(code ErrCode, ref Kind, detail []byte) []byte {
	buf := make([]byte, 4+len(detail))
	binary.LittleEndian.PutUint16(buf[0:2], uint16(code))
	binary.LittleEndian.PutUint16(buf[2:4], uint16(ref))
	copy(buf[4:], detail)
	return buf
}

// DecodeErrorPayload decodes an ErrorPayload.
func DecodeErrorPayload(payload []byte) (code ErrCode, ref Kind, detail []byte, ok bool) {
	if len(payload) < 4 {
		return 0, 0, nil, false
	}
	code = ErrCode(binary.LittleEndian.Uint16(payload[0:2]))
	ref = Kind(binary.LittleEndian.Uint16(payload[2:4]))
	return code, ref, payload[4:], true
}

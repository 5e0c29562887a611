package proto

import "unicode/utf8"

// EvalResultPayload encodes a MsgEvalResult payload: the evaluated expression and its
// formatted result, separated by a NUL byte. The expression is truncated so the whole
// payload fits in max bytes, cut on a rune boundary.
func EvalResultPayload(expr, result string, max int) []byte {
	room := max - len(result) - 1
	if room < 0 {
		room = 0
	}
	if len(expr) > room {
		for room > 0 && !utf8.RuneStart(expr[room]) {
			room--
		}
		expr = expr[:room]
	}
	buf := make([]byte, 0, len(expr)+1+len(result))
	buf = append(buf, expr...)
	buf = append(buf, 0)
	buf = append(buf, result...)
	return buf
}

// DecodeEvalResultPayload decodes an EvalResultPayload.
func DecodeEvalResultPayload(payload []byte) (expr, result string, ok bool) {
	for i, b := range payload {
		if b == 0 {
			return string(payload[:i]), string(payload[i+1:]), true
		}
	}
	return "", "", false
}

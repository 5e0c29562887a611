package logger

import (
	"fmt"

	"sparkcalc/hal"
	"sparkcalc/sparkos/kernel"
	"sparkcalc/sparkos/proto"
)

// Service drains its endpoint and writes every log, evaluation and error message to the
// HAL logger as one line. It returns once the endpoint is closed.
type Service struct {
	log hal.Logger
	ep  kernel.Capability
}

func New(log hal.Logger, ep kernel.Capability) *Service {
	return &Service{log: log, ep: ep}
}

func (s *Service) Run(ctx *kernel.Context) {
	for {
		msg, ok := ctx.Recv(s.ep)
		if !ok {
			return
		}
		if s.log == nil {
			continue
		}
		if line, ok := formatLine(&msg); ok {
			s.log.WriteLineString(line)
		}
	}
}

func formatLine(msg *kernel.Message) (string, bool) {
	payload := msg.Payload()
	switch proto.Kind(msg.Kind) {
	case proto.MsgLogLine:
		return string(payload), true
	case proto.MsgEvalResult:
		expr, res, ok := proto.DecodeEvalResultPayload(payload)
		if !ok {
			return "", false
		}
		return fmt.Sprintf("calc: %s = %s", expr, res), true
	case proto.MsgError:
		code, ref, detail, ok := proto.DecodeErrorPayload(payload)
		if !ok {
			return "", false
		}
		return fmt.Sprintf("error: code=%s ref=%s %s", code, ref, detail), true
	default:
		return "", false
	}
}

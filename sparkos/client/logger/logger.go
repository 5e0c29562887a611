package logger

import (
	"sparkcalc/sparkos/kernel"
	"sparkcalc/sparkos/proto"
)

// Log sends a log line to the logger service.
//
// The call is best-effort: it may drop on queue full.
func Log(ctx *kernel.Context, logCap kernel.Capability, line string) kernel.SendResult {
	if ctx == nil {
		return kernel.SendErrInvalidFromCap
	}
	return send(ctx, logCap, proto.MsgLogLine, proto.LogLinePayload(line, kernel.MaxMessageBytes))
}

// LogEval reports a successful evaluation.
func LogEval(ctx *kernel.Context, logCap kernel.Capability, expr, result string) kernel.SendResult {
	if ctx == nil {
		return kernel.SendErrInvalidFromCap
	}
	return send(ctx, logCap, proto.MsgEvalResult, proto.EvalResultPayload(expr, result, kernel.MaxMessageBytes))
}

// LogError reports a failure. detail is cut to fit one message.
func LogError(ctx *kernel.Context, logCap kernel.Capability, code proto.ErrCode, ref proto.Kind, detail string) kernel.SendResult {
	if ctx == nil {
		return kernel.SendErrInvalidFromCap
	}
	d := proto.LogLinePayload(detail, kernel.MaxMessageBytes-4)
	return send(ctx, logCap, proto.MsgError, proto.ErrorPayload(code, ref, d))
}

func send(ctx *kernel.Context, logCap kernel.Capability, kind proto.Kind, payload []byte) kernel.SendResult {
	return ctx.SendToCapResult(logCap, uint16(kind), payload, kernel.Capability{})
}

package logger

import (
	"strings"
	"testing"

	"sparkcalc/sparkos/kernel"
	"sparkcalc/sparkos/proto"
)

func TestLogHelpers(t *testing.T) {
	k := kernel.New()
	ep := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	ctx := k.HostContext()

	if res := Log(nil, ep, "x"); res != kernel.SendErrInvalidFromCap {
		t.Fatalf("Log(nil ctx)=%s", res)
	}
	if res := Log(ctx, ep, strings.Repeat("a", 300)); res != kernel.SendOK {
		t.Fatalf("Log=%s", res)
	}
	if res := LogEval(ctx, ep, "2π", "6.2831853072"); res != kernel.SendOK {
		t.Fatalf("LogEval=%s", res)
	}
	if res := LogError(ctx, ep, proto.ErrSyntax, proto.MsgKey, strings.Repeat("b", 300)); res != kernel.SendOK {
		t.Fatalf("LogError=%s", res)
	}

	msg, _ := ctx.Recv(ep)
	if proto.Kind(msg.Kind) != proto.MsgLogLine || int(msg.Len) != kernel.MaxMessageBytes {
		t.Fatalf("log line kind=%d len=%d", msg.Kind, msg.Len)
	}
	msg, _ = ctx.Recv(ep)
	expr, res, ok := proto.DecodeEvalResultPayload(msg.Payload())
	if !ok || expr != "2π" || res != "6.2831853072" {
		t.Fatalf("eval payload=%q,%q,%v", expr, res, ok)
	}
	msg, _ = ctx.Recv(ep)
	code, ref, detail, ok := proto.DecodeErrorPayload(msg.Payload())
	if !ok || code != proto.ErrSyntax || ref != proto.MsgKey || len(detail) != kernel.MaxMessageBytes-4 {
		t.Fatalf("error payload=%s,%s,%d,%v", code, ref, len(detail), ok)
	}
}

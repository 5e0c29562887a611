package kernel

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestMessagePayloadClampsLen(t *testing.T) {
	var msg Message
	msg.Len = MaxMessageBytes + 10
	if got := len(msg.Payload()); got != MaxMessageBytes {
		t.Fatalf("expected payload length %d, got %d", MaxMessageBytes, got)
	}
}

func TestCapabilityRights(t *testing.T) {
	k := New()
	cap := k.NewEndpoint(RightSend | RightRecv)
	if !cap.Valid() {
		t.Fatal("expected valid capability")
	}
	ctx := &Context{k: k}

	if res := ctx.SendToCapResult(cap.Restrict(RightRecv), 1, nil, Capability{}); res != SendErrToNoSendRight {
		t.Fatalf("expected SendErrToNoSendRight, got %s", res)
	}
	if _, ok := ctx.RecvChan(cap.Restrict(RightSend)); ok {
		t.Fatal("expected RecvChan to refuse a send-only capability")
	}
	if res := ctx.SendCapResult(Capability{}, cap, 1, nil, Capability{}); res != SendErrInvalidFromCap {
		t.Fatalf("expected SendErrInvalidFromCap, got %s", res)
	}
	if r := cap.Restrict(0); r.Valid() {
		t.Fatal("expected empty restriction to be invalid")
	}
}

func TestSendRecvAndQueueFull(t *testing.T) {
	k := New()
	ep := k.NewEndpoint(RightSend | RightRecv)
	ctx := &Context{k: k}
	to := ep.Restrict(RightSend)

	for i := 0; i < mailboxSlots; i++ {
		if res := ctx.SendToCapResult(to, 7, []byte{byte(i)}, Capability{}); res != SendOK {
			t.Fatalf("expected SendOK filling queue, got %s", res)
		}
	}
	if res := ctx.SendToCapResult(to, 7, []byte("x"), Capability{}); res != SendErrQueueFull {
		t.Fatalf("expected SendErrQueueFull, got %s", res)
	}
	if res := ctx.SendToCapResult(to, 7, make([]byte, MaxMessageBytes+1), Capability{}); res != SendErrPayloadTooLarge {
		t.Fatalf("expected SendErrPayloadTooLarge, got %s", res)
	}

	msg, ok := ctx.TryRecv(ep.Restrict(RightRecv))
	if !ok || msg.Kind != 7 || string(msg.Payload()) != "\x00" {
		t.Fatalf("TryRecv=%+v,%v", msg.Payload(), ok)
	}
}

func TestCloseEndpointDrainsThenFails(t *testing.T) {
	k := New()
	ep := k.NewEndpoint(RightSend | RightRecv)
	ctx := &Context{k: k}

	if res := ctx.SendToCapResult(ep, 1, []byte("a"), Capability{}); res != SendOK {
		t.Fatalf("send: %s", res)
	}
	k.CloseEndpoint(ep)

	if res := ctx.SendToCapResult(ep, 1, []byte("b"), Capability{}); res != SendErrNoEndpoint {
		t.Fatalf("expected SendErrNoEndpoint after close, got %s", res)
	}
	if msg, ok := ctx.Recv(ep); !ok || string(msg.Payload()) != "a" {
		t.Fatalf("expected queued message to drain, got %q,%v", msg.Payload(), ok)
	}
	if _, ok := ctx.Recv(ep); ok {
		t.Fatal("expected Recv to fail after drain")
	}
	if _, ok := ctx.TryRecv(ep); ok {
		t.Fatal("expected TryRecv to fail after drain")
	}
}

type echoTask struct {
	in  Capability
	out Capability
}

func (e *echoTask) Run(ctx *Context) {
	for {
		msg, ok := ctx.Recv(e.in)
		if !ok {
			return
		}
		ctx.SendToCapResult(e.out, msg.Kind+1, msg.Payload(), Capability{})
	}
}

func TestTaskRunsAndShutsDown(t *testing.T) {
	k := New()
	in := k.NewEndpoint(RightSend | RightRecv)
	out := k.NewEndpoint(RightSend | RightRecv)
	id, err := k.AddTask(&echoTask{in: in.Restrict(RightRecv), out: out.Restrict(RightSend)})
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}

	ctx := &Context{k: k}
	ctx.SendToCapResult(in, 1, []byte("hi"), Capability{})
	ch, _ := ctx.RecvChan(out)
	select {
	case msg := <-ch:
		if msg.Kind != 2 || string(msg.Payload()) != "hi" {
			t.Fatalf("echo=%d %q", msg.Kind, msg.Payload())
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for echo")
	}

	k.CloseEndpoint(in)
	k.WaitTask(id)
	k.Shutdown()
}

type panicTask struct{}

func (panicTask) Run(*Context) { panic("boom") }

func TestTaskPanicIsRecovered(t *testing.T) {
	var got atomic.Value
	SetPanicHandler(func(info PanicInfo) { got.Store(info) })
	defer SetPanicHandler(nil)

	k := New()
	id, _ := k.AddTask(panicTask{})
	k.WaitTask(id)

	if !InPanicMode() {
		t.Fatal("expected panic mode")
	}
	info, ok := got.Load().(PanicInfo)
	if !ok || info.Value != "boom" || len(info.Stack) == 0 {
		t.Fatalf("panic info=%+v", got.Load())
	}
}

func TestWaitTickAndRetry(t *testing.T) {
	k := New()
	ep := k.NewEndpoint(RightSend | RightRecv)
	ctx := &Context{k: k}

	for i := 0; i < mailboxSlots; i++ {
		ctx.SendToCapResult(ep, 1, nil, Capability{})
	}
	if res := ctx.SendToCapRetry(ep, 1, nil, Capability{}, 0); res != SendErrQueueFull {
		t.Fatalf("expected SendErrQueueFull without retries, got %s", res)
	}

	resultCh := make(chan SendResult, 1)
	go func() {
		resultCh <- ctx.SendToCapRetry(ep, 1, nil, Capability{}, 50)
	}()
	ctx.Recv(ep)
	go func() {
		for i := uint64(1); i <= 100; i++ {
			k.TickTo(i)
			time.Sleep(time.Millisecond)
		}
	}()

	select {
	case res := <-resultCh:
		if res != SendOK {
			t.Fatalf("expected SendOK after drain, got %s", res)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for send retry")
	}

	if now, ok := ctx.WaitTick(0); !ok || now == 0 {
		t.Fatalf("WaitTick(0)=%d,%v", now, ok)
	}
	k.Shutdown()
	if _, ok := ctx.WaitTick(1 << 40); ok {
		t.Fatal("expected WaitTick to fail after shutdown")
	}
}

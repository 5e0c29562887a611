package kernel

import (
	"fmt"
	"sync"
)

const (
	maxTasks     = 32
	maxEndpoints = 32
	mailboxSlots = 32
)

type TaskID uint8

// Rights define which operations are allowed for a capability.
type Rights uint8

const (
	RightSend Rights = 1 << iota
	RightRecv
)

// Endpoint identifies an IPC destination.
type Endpoint uint8

// Capability grants access to an IPC endpoint.
//
// It is opaque by construction (no exported fields) and may be transferred via IPC.
type Capability struct {
	ep     Endpoint
	rights Rights
}

func (c Capability) valid() bool {
	return c.rights != 0
}

func (c Capability) Valid() bool { return c.valid() }

func (c Capability) canSend() bool { return c.rights&RightSend != 0 }
func (c Capability) canRecv() bool { return c.rights&RightRecv != 0 }

// Restrict returns a capability with a reduced set of rights.
func (c Capability) Restrict(rights Rights) Capability {
	if !c.valid() {
		return Capability{}
	}
	r := c.rights & rights
	if r == 0 {
		return Capability{}
	}
	return Capability{ep: c.ep, rights: r}
}

// Message is a fixed-size IPC envelope.
type Message struct {
	From Endpoint
	To   Endpoint
	Kind uint16
	Len  uint16
	Data [MaxMessageBytes]byte
	Cap  Capability
}

// Payload returns the valid part of Data.
func (m *Message) Payload() []byte {
	n := int(m.Len)
	if n > MaxMessageBytes {
		n = MaxMessageBytes
	}
	return m.Data[:n]
}

// MaxMessageBytes is the maximum payload size for IPC messages.
const MaxMessageBytes = 128

// SendResult describes the outcome of a send attempt.
type SendResult uint8

const (
	SendOK SendResult = iota
	SendErrInvalidFromCap
	SendErrInvalidToCap
	SendErrFromNoSendRight
	SendErrToNoSendRight
	SendErrNoEndpoint
	SendErrPayloadTooLarge
	SendErrQueueFull
)

func (r SendResult) String() string {
	switch r {
	case SendOK:
		return "ok"
	case SendErrInvalidFromCap:
		return "invalid from capability"
	case SendErrInvalidToCap:
		return "invalid to capability"
	case SendErrFromNoSendRight:
		return "from capability has no send right"
	case SendErrToNoSendRight:
		return "to capability has no send right"
	case SendErrNoEndpoint:
		return "no such endpoint"
	case SendErrPayloadTooLarge:
		return "payload too large"
	case SendErrQueueFull:
		return "queue full"
	default:
		return "unknown"
	}
}

// Task is a unit of execution. Run is started on its own goroutine and returns when the
// task has nothing left to do, typically once its endpoint is closed.
type Task interface {
	Run(*Context)
}

type endpointState struct {
	ch     chan Message
	closed bool
}

// Kernel routes messages between task endpoints and distributes the tick.
type Kernel struct {
	mu        sync.Mutex
	endpoints []endpointState
	taskCount TaskID
	done      [maxTasks]chan struct{}
	wg        sync.WaitGroup

	tickMu   sync.Mutex
	tickCond *sync.Cond
	tick     uint64
	stopped  bool
}

// New creates a kernel instance.
func New() *Kernel {
	k := &Kernel{}
	k.tickCond = sync.NewCond(&k.tickMu)
	return k
}

// NewEndpoint allocates a new endpoint and returns a capability for it.
func (k *Kernel) NewEndpoint(rights Rights) Capability {
	k.mu.Lock()
	defer k.mu.Unlock()
	if len(k.endpoints) >= maxEndpoints || rights == 0 {
		return Capability{}
	}
	ep := Endpoint(len(k.endpoints))
	k.endpoints = append(k.endpoints, endpointState{ch: make(chan Message, mailboxSlots)})
	return Capability{ep: ep, rights: rights}
}

// AddTask starts t on a new goroutine and returns its ID. A panic inside the task is
// recovered and reported through the panic handler.
func (k *Kernel) AddTask(t Task) (TaskID, error) {
	k.mu.Lock()
	if k.taskCount >= maxTasks {
		k.mu.Unlock()
		return 0, fmt.Errorf("kernel: task table full (%d)", maxTasks)
	}
	id := k.taskCount
	k.taskCount++
	done := make(chan struct{})
	k.done[id] = done
	k.mu.Unlock()

	k.wg.Add(1)
	go func() {
		defer k.wg.Done()
		defer close(done)
		defer func() {
			if r := recover(); r != nil {
				triggerPanic(PanicInfo{TaskID: id, Value: r})
			}
		}()
		t.Run(&Context{k: k, taskID: id})
	}()
	return id, nil
}

// WaitTask blocks until the task returns from Run.
func (k *Kernel) WaitTask(id TaskID) {
	k.mu.Lock()
	var done chan struct{}
	if id < k.taskCount {
		done = k.done[id]
	}
	k.mu.Unlock()
	if done != nil {
		<-done
	}
}

// CloseEndpoint closes the endpoint behind c. Receivers drain what is queued and then see
// the endpoint as closed; later sends fail with SendErrNoEndpoint.
func (k *Kernel) CloseEndpoint(c Capability) {
	if !c.valid() {
		return
	}
	k.mu.Lock()
	defer k.mu.Unlock()
	k.closeLocked(c.ep)
}

func (k *Kernel) closeLocked(ep Endpoint) {
	if int(ep) >= len(k.endpoints) || k.endpoints[ep].closed {
		return
	}
	k.endpoints[ep].closed = true
	close(k.endpoints[ep].ch)
}

// Shutdown closes every endpoint, releases tick waiters and waits for all tasks to return.
func (k *Kernel) Shutdown() {
	k.mu.Lock()
	for ep := range k.endpoints {
		k.closeLocked(Endpoint(ep))
	}
	k.mu.Unlock()

	k.tickMu.Lock()
	k.stopped = true
	k.tickCond.Broadcast()
	k.tickMu.Unlock()

	k.wg.Wait()
}

// TickTo advances the kernel tick. Values not above the current tick are ignored.
func (k *Kernel) TickTo(seq uint64) {
	k.tickMu.Lock()
	defer k.tickMu.Unlock()
	if seq <= k.tick {
		return
	}
	k.tick = seq
	k.tickCond.Broadcast()
}

func (k *Kernel) nowTick() uint64 {
	k.tickMu.Lock()
	defer k.tickMu.Unlock()
	return k.tick
}

func (k *Kernel) waitTick(after uint64) (uint64, bool) {
	k.tickMu.Lock()
	defer k.tickMu.Unlock()
	for k.tick <= after && !k.stopped {
		k.tickCond.Wait()
	}
	return k.tick, k.tick > after
}

func (k *Kernel) send(from Endpoint, to Endpoint, kind uint16, payload []byte, xfer Capability) SendResult {
	if len(payload) > MaxMessageBytes {
		return SendErrPayloadTooLarge
	}

	var msg Message
	msg.From = from
	msg.To = to
	msg.Kind = kind
	msg.Len = uint16(len(payload))
	copy(msg.Data[:], payload)
	msg.Cap = xfer

	k.mu.Lock()
	defer k.mu.Unlock()
	if int(to) >= len(k.endpoints) || k.endpoints[to].closed {
		return SendErrNoEndpoint
	}
	select {
	case k.endpoints[to].ch <- msg:
		return SendOK
	default:
		return SendErrQueueFull
	}
}

func (k *Kernel) recvChan(ep Endpoint) chan Message {
	k.mu.Lock()
	defer k.mu.Unlock()
	if int(ep) >= len(k.endpoints) {
		return nil
	}
	return k.endpoints[ep].ch
}

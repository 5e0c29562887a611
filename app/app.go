package app

import (
	"errors"
	"fmt"

	"sparkcalc/hal"
	"sparkcalc/internal/buildinfo"
	"sparkcalc/sparkos/calc"
	logclient "sparkcalc/sparkos/client/logger"
	"sparkcalc/sparkos/kernel"
	"sparkcalc/sparkos/services/keyboard"
	"sparkcalc/sparkos/services/logger"
	"sparkcalc/sparkos/tasks/scicalc"
)

// ErrPanic is returned by Step once a task has panicked.
var ErrPanic = errors.New("spark: task panic")

type Config struct {
	Radians      bool
	HistoryLimit int
	CacheSize    int
}

// App is one running calculator: kernel, logger service, keyboard service and the
// calculator task.
type App struct {
	k    *kernel.Kernel
	task *scicalc.Task

	calcEP kernel.Capability
	kbdID  kernel.TaskID
	calcID kernel.TaskID

	stopTicks chan struct{}
}

// New starts the system on h.
func New(h hal.HAL, cfg Config) (*App, error) {
	if h == nil {
		return nil, errors.New("spark: nil hal")
	}
	installPanicHandler(h)

	opts := []calc.SessionOption{
		calc.WithHistoryLimit(cfg.HistoryLimit),
		calc.WithEvaluator(calc.NewEvaluator(nil, calc.WithCacheSize(cacheSize(cfg.CacheSize)))),
	}
	if cfg.Radians {
		opts = append(opts, calc.WithAngleMode(calc.Radians))
	}
	sess, err := calc.NewSession(calc.DefaultRegistry(), opts...)
	if err != nil {
		return nil, fmt.Errorf("spark: %w", err)
	}

	k := kernel.New()
	logEP := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	calcEP := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	if !logEP.Valid() || !calcEP.Valid() {
		return nil, errors.New("spark: endpoint table full")
	}

	a := &App{k: k, calcEP: calcEP, stopTicks: make(chan struct{})}
	a.task = scicalc.New(h.Display(), calcEP.Restrict(kernel.RightRecv), logEP.Restrict(kernel.RightSend), sess)

	if _, err := k.AddTask(logger.New(h.Logger(), logEP.Restrict(kernel.RightRecv))); err != nil {
		return nil, err
	}
	if a.calcID, err = k.AddTask(a.task); err != nil {
		return nil, err
	}
	if a.kbdID, err = k.AddTask(keyboard.New(h.Input(), calcEP.Restrict(kernel.RightSend), logEP.Restrict(kernel.RightSend))); err != nil {
		return nil, err
	}

	if ht := h.Time(); ht != nil {
		if ch := ht.Ticks(); ch != nil {
			go a.pumpTicks(ch)
		}
	}

	logclient.Log(k.HostContext(), logEP.Restrict(kernel.RightSend),
		fmt.Sprintf("spark calc %s: %s, history %d", buildinfo.Short(), sess.Mode().Angle, historyLimit(cfg.HistoryLimit)))
	return a, nil
}

func cacheSize(n int) int {
	if n == 0 {
		return calc.DefaultCacheSize
	}
	return n
}

func historyLimit(n int) int {
	if n <= 0 {
		return calc.DefaultHistoryLimit
	}
	return n
}

func (a *App) pumpTicks(ch <-chan uint64) {
	for {
		select {
		case <-a.stopTicks:
			return
		case seq := <-ch:
			a.k.TickTo(seq)
		}
	}
}

// Step is called once per host frame.
func (a *App) Step() error {
	if kernel.InPanicMode() {
		return ErrPanic
	}
	return nil
}

// Snapshot returns what the calculator currently shows.
func (a *App) Snapshot() scicalc.Snapshot { return a.task.Snapshot() }

// Screen renders the current state as text.
func (a *App) Screen() string { return a.task.Snapshot().String() }

// Close stops every task. The HAL keyboard must already be closed, which the host runners
// do when they return; keys still in flight are handled first.
func (a *App) Close() {
	a.k.WaitTask(a.kbdID)
	a.k.CloseEndpoint(a.calcEP)
	a.k.WaitTask(a.calcID)
	close(a.stopTicks)
	a.k.Shutdown()
}

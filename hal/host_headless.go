//go:build !tinygo

package hal

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"
)

// HeadlessConfig controls the no-window host runner.
type HeadlessConfig struct {
	Enabled    bool
	Hz         int
	Ticks      uint64
	StepBudget int

	// Keys are fed to the keyboard one per tick, before the app steps.
	Keys []KeyEvent

	// Log receives logger output. Nil means stdout.
	Log io.Writer
}

// RunHeadless runs the OS without opening a window. The keyboard is closed when it returns.
func RunHeadless(ctx context.Context, newApp func(HAL) func() error, cfg HeadlessConfig) error {
	if cfg.Hz <= 0 {
		cfg.Hz = 60
	}
	if cfg.StepBudget <= 0 {
		cfg.StepBudget = 1
	}
	d := time.Second / time.Duration(cfg.Hz)
	if d <= 0 {
		return fmt.Errorf("invalid headless hz: %d", cfg.Hz)
	}

	w := cfg.Log
	if w == nil {
		w = os.Stdout
	}
	h := newHost(w)
	step := newApp(h)
	defer h.kbd.close()

	t := time.NewTicker(d)
	defer t.Stop()

	keys := cfg.Keys
	var tick uint64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			if len(keys) > 0 && h.kbd.inject(keys[0]) {
				keys = keys[1:]
			}
			h.t.step(1)
			for i := 0; i < cfg.StepBudget && step != nil; i++ {
				if err := step(); err != nil {
					return err
				}
			}
			tick++
			if cfg.Ticks > 0 && tick >= cfg.Ticks {
				return nil
			}
		}
	}
}

//go:build !tinygo

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"sparkcalc/app"
	"sparkcalc/hal"
	"sparkcalc/internal/buildinfo"
)

func main() {
	var cfg hal.HeadlessConfig
	var appCfg app.Config
	var typed string
	var version bool
	flag.BoolVar(&cfg.Enabled, "headless", false, "Run without a window.")
	flag.IntVar(&cfg.Hz, "hz", 60, "Tick rate in headless mode.")
	flag.Uint64Var(&cfg.Ticks, "ticks", 0, "Stop after N ticks in headless mode (0 = run forever).")
	flag.StringVar(&typed, "type", "", "Text typed one key per tick in headless mode, e.g. \"3+4=\".")
	flag.BoolVar(&appCfg.Radians, "rad", false, "Start in radians.")
	flag.IntVar(&appCfg.HistoryLimit, "history", 0, "History tape length (0 = default).")
	flag.IntVar(&appCfg.CacheSize, "cache", 0, "Parsed expression cache size (0 = default, <0 = off).")
	flag.BoolVar(&version, "version", false, "Print the build version and exit.")
	flag.Parse()

	if version {
		fmt.Println(buildinfo.String())
		return
	}

	var a *app.App
	newApp := func(h hal.HAL) func() error {
		var err error
		a, err = app.New(h, appCfg)
		if err != nil {
			return func() error { return err }
		}
		return a.Step
	}

	if cfg.Enabled {
		cfg.Keys = typedKeys(typed)
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		err := hal.RunHeadless(ctx, newApp, cfg)
		if a != nil {
			a.Close()
			fmt.Print(a.Screen())
		}
		if err != nil && !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	err := hal.RunWindow(newApp)
	if a != nil {
		a.Close()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// typedKeys turns text into key presses; newlines press Enter.
func typedKeys(s string) []hal.KeyEvent {
	var out []hal.KeyEvent
	for _, r := range s {
		if r == '\n' {
			out = append(out, hal.KeyEvent{Code: hal.KeyEnter, Press: true})
			continue
		}
		out = append(out, hal.KeyEvent{Press: true, Rune: r})
	}
	return out
}

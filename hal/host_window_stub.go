//go:build !tinygo && !cgo

package hal

import "errors"

// RunWindow needs the ebiten window, which is only built with cgo. Use -headless instead.
func RunWindow(_ func(HAL) func() error) error {
	return errors.New("hal: the calculator window needs cgo (CGO_ENABLED=1); run with -headless otherwise")
}

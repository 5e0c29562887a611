// Command keyscript replays a recorded keystroke script through a calculator session and
// prints every evaluation, then the final display, label and tape.
//
//	keyscript -in session.keys
//	echo '3 + 4 = × Ans =' | keyscript -in -
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"sparkcalc/sparkos/calc"

	"github.com/spf13/afero"
)

type options struct {
	radians bool
	history int
	trace   bool
}

func main() {
	var (
		inPath  = flag.String("in", "", "Key script path, or - for stdin.")
		radians = flag.Bool("rad", false, "Start in radians.")
		history = flag.Int("history", 0, "History tape length (0 = default).")
		trace   = flag.Bool("trace", false, "Print the display after every key.")
	)
	flag.Parse()

	if *inPath == "" {
		fatalf("usage: keyscript -in script.keys [-rad] [-history 20] [-trace]")
	}
	opts := options{radians: *radians, history: *history, trace: *trace}
	if err := run(afero.NewOsFs(), os.Stdin, *inPath, os.Stdout, opts); err != nil {
		fatalf("keyscript: %v", err)
	}
}

func fatalf(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(2)
}

func readScript(fs afero.Fs, stdin io.Reader, path string) (string, error) {
	if path == "-" {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(b), nil
	}
	b, err := afero.ReadFile(fs, path)
	if err != nil {
		return "", fmt.Errorf("read %q: %w", path, err)
	}
	return string(b), nil
}

func run(fs afero.Fs, stdin io.Reader, path string, out io.Writer, opts options) error {
	src, err := readScript(fs, stdin, path)
	if err != nil {
		return err
	}
	events, err := calc.ParseScript(src)
	if err != nil {
		return err
	}

	sessOpts := []calc.SessionOption{calc.WithHistoryLimit(opts.history)}
	if opts.radians {
		sessOpts = append(sessOpts, calc.WithAngleMode(calc.Radians))
	}
	sess, err := calc.NewSession(nil, sessOpts...)
	if err != nil {
		return err
	}

	for _, ev := range events {
		raw := sess.Display()
		err := sess.Apply(ev)
		switch {
		case ev.Kind == calc.EventEvaluate && err == nil:
			fmt.Fprintf(out, "%s = %s\n", raw, sess.Display())
		case ev.Kind == calc.EventEvaluate:
			fmt.Fprintf(out, "%s = %s (%v)\n", raw, calc.ErrorLabel, errKind(err))
		case err != nil:
			fmt.Fprintf(out, "%s: %v\n", ev, err)
		}
		if opts.trace {
			fmt.Fprintf(out, "  %-12s %s\n", ev, sess.Display())
		}
	}

	m := sess.Mode()
	fmt.Fprintf(out, "mode: %s inv=%t hyp=%t\n", m.Angle, m.Inverse, m.Hyperbolic)
	fmt.Fprintf(out, "label: %s\n", sess.Label())
	fmt.Fprintf(out, "display: %s\n", sess.Display())
	for i, e := range sess.History() {
		fmt.Fprintf(out, "tape[%d]: %s = %s\n", i, e.Expression, e.Result)
	}
	return nil
}

// errKind reduces err to its calc sentinel when it has one.
func errKind(err error) error {
	for _, target := range []error{calc.ErrParse, calc.ErrUnknownName, calc.ErrArity, calc.ErrDomain} {
		if errors.Is(err, target) {
			return target
		}
	}
	return err
}

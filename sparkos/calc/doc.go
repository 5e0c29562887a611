// Package calc implements the keypad scientific calculator engine: the function registry,
// modifier-key resolution, input buffer, normalizer, parser/evaluator, result formatter and
// history tape.
//
// The package has no display or I/O dependencies. A Session is owned by one caller and must be
// driven from a single goroutine; the Registry and Evaluator may be shared.
package calc

// Package progress renders a carriage-return console progress bar
// around iteration over a finite slice.
package progress

import (
	"fmt"
	"io"
	"iter"
	"os"
	"strings"
)

const defaultWidth = 50

type options struct {
	prefix string
	width  int
	out    io.Writer
}

// Option configures the progress bar.
type Option func(*options)

// WithPrefix sets text written before the bar on every update.
func WithPrefix(prefix string) Option {
	return func(o *options) { o.prefix = prefix }
}

// WithWidth sets the bar width in characters (default 50).
func WithWidth(width int) Option {
	return func(o *options) {
		if width > 0 {
			o.width = width
		}
	}
}

// WithWriter sets the output stream (default os.Stdout).
func WithWriter(w io.Writer) Option {
	return func(o *options) { o.out = w }
}

// Bar wraps items in a lazy pass-through sequence that yields them in
// order while drawing a textual progress bar on the configured writer.
// The bar is drawn once before the first item and once after each item,
// overwriting itself with a carriage return, and a newline is written
// when the sequence is exhausted. A zero-length input draws a complete
// bar immediately rather than dividing by zero.
func Bar[T any](items []T, opts ...Option) iter.Seq[T] {
	o := options{width: defaultWidth, out: os.Stdout}
	for _, opt := range opts {
		opt(&o)
	}

	return func(yield func(T) bool) {
		total := len(items)
		show := func(done int) {
			filled := o.width
			percent := 100
			if total > 0 {
				filled = o.width * done / total
				percent = 100 * done / total
			}
			fmt.Fprintf(o.out, "%s[%s%s] %d%%\r",
				o.prefix,
				strings.Repeat("#", filled),
				strings.Repeat(".", o.width-filled),
				percent)
		}

		show(0)
		for i, item := range items {
			if !yield(item) {
				return
			}
			show(i + 1)
		}
		fmt.Fprintln(o.out)
	}
}

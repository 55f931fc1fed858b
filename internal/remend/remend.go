// Package remend repairs markdown produced by language models so that it
// renders while still streaming. LaTeX math delimiters are rewritten to
// $$ and a $$ block cut off mid-stream is closed.
//
// Every function is pure and safe for concurrent use. Process may be
// called again on each longer prefix of a stream.
package remend

// Options controls Process.
type Options struct {
	// NormalizeMath enables delimiter normalization and block repair.
	NormalizeMath bool
}

// Option mutates Options.
type Option func(*Options)

// DefaultOptions returns the options Process uses when none are given.
func DefaultOptions() Options {
	return Options{NormalizeMath: true}
}

// WithNormalizeMath turns math normalization on or off.
func WithNormalizeMath(on bool) Option {
	return func(o *Options) {
		o.NormalizeMath = on
	}
}

// Process runs the enabled passes over text. Repair only looks for $$,
// so it is skipped along with normalization.
func Process(text string, opts ...Option) string {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if !o.NormalizeMath {
		return text
	}
	return HandleIncompleteBlockKatex(NormalizeMathDelimiters(text))
}

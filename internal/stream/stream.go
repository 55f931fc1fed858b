// Package stream emulates a slow byte stream over a document so partially
// received markdown can be exercised the way a model response arrives.
package stream

import (
	"strings"
	"time"
	"unicode/utf8"
)

// bitsPerByte assumes 8N1 framing.
const bitsPerByte = 10

// Emitter reveals src at a fixed byte rate starting from a clock.
type Emitter struct {
	src            string
	bytesPerSecond float64
	start          time.Time
	last           int
}

// New returns an Emitter for src at baudrate bits per second, starting now.
// A baudrate of zero or less reveals everything immediately.
func New(src string, baudrate int) *Emitter {
	e := &Emitter{src: src, start: time.Now()}
	if baudrate > 0 {
		e.bytesPerSecond = float64(baudrate) / bitsPerByte
	}
	return e
}

// BytesPerSecond is the effective rate; zero means unthrottled.
func (e *Emitter) BytesPerSecond() float64 { return e.bytesPerSecond }

// Source returns the whole document.
func (e *Emitter) Source() string { return e.src }

// Restart moves the clock to now.
func (e *Emitter) Restart(now time.Time) {
	e.start = now
	e.last = 0
}

// Reset replaces the document. When src extends the old one the stream
// continues from where it was; if the old document was fully shown, the
// clock is moved so the appended text streams in from now.
func (e *Emitter) Reset(src string, now time.Time) {
	extends := strings.HasPrefix(src, e.src)
	shown := e.last >= len(e.src)
	old := len(e.src)
	e.src = src
	if !extends {
		e.Restart(now)
		return
	}
	if shown && e.bytesPerSecond > 0 {
		elapsed := time.Duration(float64(old) / e.bytesPerSecond * float64(time.Second))
		e.start = now.Add(-elapsed)
	}
}

// Prefix returns the part of the document visible at now and whether the
// whole document is visible. Grew is true when more bytes are visible
// than on the previous call.
func (e *Emitter) Prefix(now time.Time) (prefix string, done, grew bool) {
	if e.bytesPerSecond <= 0 {
		grew = e.last < len(e.src)
		e.last = len(e.src)
		return e.src, true, grew
	}

	allowed := int(now.Sub(e.start).Seconds() * e.bytesPerSecond)
	if allowed > len(e.src) {
		allowed = len(e.src)
	}
	if allowed < 0 {
		allowed = 0
	}

	prefix = CutRunes(e.src, allowed)
	grew = len(prefix) > e.last
	e.last = len(prefix)
	return prefix, len(prefix) == len(e.src), grew
}

// CutRunes returns the longest prefix of s that fits in budget bytes
// without splitting a UTF-8 sequence.
func CutRunes(s string, budget int) string {
	if budget >= len(s) {
		return s
	}
	written := 0
	for _, r := range s {
		n := utf8.RuneLen(r)
		if n < 0 {
			n = 1
		}
		if written+n > budget {
			break
		}
		written += n
	}
	return s[:written]
}

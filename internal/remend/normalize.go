package remend

import "strings"

const fence = "```"

// normalizer walks src once, left to right. Each step consumes one token
// and returns the next cursor position; nothing already written is revisited.
type normalizer struct {
	src      string
	out      strings.Builder
	inFence  bool
	inInline bool
}

// NormalizeMathDelimiters rewrites the LaTeX delimiters \( \) \[ \] to $$
// everywhere outside fenced and inline code. An escaped backslash (\\) is
// kept as-is so it cannot pair with a following bracket.
func NormalizeMathDelimiters(text string) string {
	n := normalizer{src: text}
	n.out.Grow(len(text))
	for i := 0; i < len(text); {
		i = n.step(i)
	}
	return n.out.String()
}

func (n *normalizer) step(i int) int {
	if strings.HasPrefix(n.src[i:], fence) {
		n.inFence = !n.inFence
		return n.copy(i, len(fence))
	}

	c := n.src[i]
	if !n.inFence && c == '`' {
		n.inInline = !n.inInline
		return n.copy(i, 1)
	}
	if n.inFence || n.inInline {
		return n.copy(i, 1)
	}

	if c == '\\' && i+1 < len(n.src) {
		next := n.src[i+1]
		if next == '\\' {
			return n.copy(i, 2)
		}
		if isMathDelimiter(next) {
			n.out.WriteString("$$")
			return i + 2
		}
	}
	return n.copy(i, 1)
}

func (n *normalizer) copy(i, width int) int {
	n.out.WriteString(n.src[i : i+width])
	return i + width
}

func isMathDelimiter(c byte) bool {
	switch c {
	case '(', ')', '[', ']':
		return true
	}
	return false
}

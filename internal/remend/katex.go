package remend

import "strings"

// HandleIncompleteBlockKatex closes a $$ block left open by a truncated
// stream. Text with an even number of $$ outside inline code is returned
// unchanged.
func HandleIncompleteBlockKatex(text string) string {
	if CountDollarPairs(text)%2 == 0 {
		return text
	}
	return addClosingKatex(text)
}

// CountDollarPairs counts non-overlapping $$ tokens outside inline code.
// Backticks that belong to a ``` run never toggle inline code.
func CountDollarPairs(text string) int {
	pairs := 0
	inInline := false
	for i := 0; i < len(text)-1; i++ {
		if text[i] == '`' && !isTripleBacktick(text, i) {
			inInline = !inInline
		}
		if !inInline && text[i] == '$' && text[i+1] == '$' {
			pairs++
			i++
		}
	}
	return pairs
}

// isTripleBacktick reports whether a ``` window ends at, is centred on, or
// starts at index i.
func isTripleBacktick(text string, i int) bool {
	return (i >= 2 && text[i-2:i+1] == fence) ||
		(i >= 1 && i+2 <= len(text) && text[i-1:i+2] == fence) ||
		(i+3 <= len(text) && text[i:i+3] == fence)
}

func addClosingKatex(text string) string {
	first := strings.Index(text, "$$")
	newlineAfterStart := first != -1 && strings.Contains(text[first:], "\n")
	if newlineAfterStart && !strings.HasSuffix(text, "\n") {
		return text + "\n$$"
	}
	return text + "$$"
}

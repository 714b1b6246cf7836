package scanner

import (
	"fmt"
	"strings"
)

// Excerpt renders the source lines around tok with a caret under the token,
// for use as diagnostic detail:
//
//	  3	structure P {
//	  4	  uint_17 x,
//	   	  ^~~~~~~
func Excerpt(source string, line, column, width, contextSize int) string {
	if source == "" || line <= 0 {
		return ""
	}
	lines := strings.Split(source, "\n")
	if line > len(lines) {
		return ""
	}
	begin := max(0, line-1-contextSize)
	end := min(len(lines), line+contextSize)

	var b strings.Builder
	for i := begin; i < end; i++ {
		fmt.Fprintf(&b, "%3d\t%s\n", i+1, lines[i])
		if i == line-1 {
			pad := []rune(lines[i])
			marker := make([]rune, 0, column)
			for j := 0; j < column-1 && j < len(pad); j++ {
				// Keep tabs so the caret lines up with the source
				if pad[j] == '\t' {
					marker = append(marker, '\t')
				} else {
					marker = append(marker, ' ')
				}
			}
			fmt.Fprintf(&b, "   \t%s^%s\n", string(marker), strings.Repeat("~", max(0, width-1)))
		}
	}
	return b.String()
}

// ExcerptToken is Excerpt for a scanned token
func ExcerptToken(source string, tok Token, contextSize int) string {
	width := len(tok.Text)
	if tok.Type == STRING {
		width = len(fmt.Sprintf("%q", tok.Text))
	}
	if tok.Type == UNDEFINED || width == 0 {
		width = 1
	}
	return Excerpt(source, tok.Line, tok.Column, width, contextSize)
}

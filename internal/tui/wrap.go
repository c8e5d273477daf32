// Package tui provides the Bubble Tea study session interface.
package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// wrapText word-wraps text to the given display width. Words wider than
// the width are left on their own line rather than split.
func wrapText(text string, width int) string {
	if width <= 0 {
		return text
	}
	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		line := ""
		lineWidth := 0
		for _, word := range words {
			w := runewidth.StringWidth(word)
			switch {
			case line == "":
				line = word
				lineWidth = w
			case lineWidth+1+w <= width:
				line += " " + word
				lineWidth += 1 + w
			default:
				lines = append(lines, line)
				line = word
				lineWidth = w
			}
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

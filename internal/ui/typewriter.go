package ui

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/pterm/pterm"
)

const typewriterDelay = 4 * time.Millisecond

// PrintTypewriter types out the qualification reasoning paragraph by
// paragraph, wrapped to the terminal width.
func PrintTypewriter(text string) {
	paragraphs := reasoningParagraphs(text)
	if len(paragraphs) == 0 {
		return
	}

	pterm.Println(pterm.FgMagenta.Sprint("Reasoning"))
	width := pterm.GetTerminalWidth() - 2
	if width < 40 {
		width = 80
	}
	for _, p := range paragraphs {
		for _, ch := range wrap(p, width) {
			fmt.Print(string(ch))
			time.Sleep(typewriterDelay)
		}
		fmt.Println()
		fmt.Println()
	}
}

var (
	reBold       = regexp.MustCompile(`\*\*(.+?)\*\*`)
	reItalic     = regexp.MustCompile(`\*(.+?)\*`)
	reInlineCode = regexp.MustCompile("`([^`]+)`")
	reHeading    = regexp.MustCompile(`(?m)^#{1,3}\s+`)
	reLink       = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	reBullet     = regexp.MustCompile(`(?m)^\s*[-*]\s+`)
	reBlankLines = regexp.MustCompile(`\n\s*\n`)
)

func stripMarkdown(text string) string {
	text = reLink.ReplaceAllString(text, "$1")
	text = reBullet.ReplaceAllString(text, "• ")
	text = reBold.ReplaceAllString(text, "$1")
	text = reItalic.ReplaceAllString(text, "$1")
	text = reInlineCode.ReplaceAllString(text, "$1")
	text = reHeading.ReplaceAllString(text, "")
	return text
}

func reasoningParagraphs(text string) []string {
	var out []string
	for _, p := range reBlankLines.Split(stripMarkdown(text), -1) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// wrap breaks each line of p at word boundaries so no line exceeds width
// runes, unless a single word is longer.
func wrap(p string, width int) string {
	var b strings.Builder
	for i, line := range strings.Split(p, "\n") {
		if i > 0 {
			b.WriteByte('\n')
		}
		col := 0
		for _, word := range strings.Fields(line) {
			n := len([]rune(word))
			if col > 0 && col+1+n > width {
				b.WriteByte('\n')
				col = 0
			} else if col > 0 {
				b.WriteByte(' ')
				col++
			}
			b.WriteString(word)
			col += n
		}
	}
	return b.String()
}

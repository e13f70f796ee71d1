package xtui

import "github.com/muesli/reflow/wordwrap"

// WrapText breaks text into lines no wider than width, breaking on word
// boundaries. A single word longer than width is not split: it stays whole
// on its own line, which is then wider than width. It is the text-flow
// primitive layout
// containers use to turn a component's raw string content into
// fixed-width lines before handing them to Flex/Dock/Wrap sizing.
func WrapText(text string, width int) []string {
	if width <= 0 {
		return nil
	}
	wrapped := wordwrap.String(text, width)
	return splitLines(wrapped)
}

// WrapTextItems is the Wrap layout algorithm's text-bearing-component path:
// each string in texts is broken into lines of at most maxItemWidth (except
// over-long words) via WrapText, sized into a WrapItem (width = its widest wrapped line, height =
// its line count), and positioned left-to-right top-to-bottom within rect by
// WrapItems (§4.5). It returns each item's placement alongside its wrapped
// lines, ready to hand to a component's Output.
func WrapTextItems(texts []string, maxItemWidth int, rect Rect) ([]Rect, [][]string) {
	wrapped := make([][]string, len(texts))
	items := make([]WrapItem, len(texts))
	for i, text := range texts {
		lines := WrapText(text, maxItemWidth)
		wrapped[i] = lines
		w := 0
		for _, l := range lines {
			if lw := len([]rune(l)); lw > w {
				w = lw
			}
		}
		items[i] = WrapItem{Width: w, Height: len(lines)}
	}
	return WrapItems(items, rect), wrapped
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	lines = append(lines, s[start:])
	return lines
}

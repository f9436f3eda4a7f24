// Package docmodel models a raw documentation comment as a closed set of
// block variants and provides the single formatting function over them.
//
// The closed tag set replaces dispatch on concrete block shapes: every
// consumer switches on Kind exactly once, and anything unrecognized flows
// through the Unknown case unchanged.
package docmodel

import (
	"strings"
)

// BlockKind tags one documentation block variant.
type BlockKind int

const (
	KindParagraph BlockKind = iota
	KindHeading
	KindCode
	KindAdmonition
	KindContainer
	KindUnknown
)

// Block is one block of a documentation comment.
type Block struct {
	Kind  BlockKind
	Text  string   // Paragraph, heading, admonition, or unknown text
	Lines []string // Code block lines, verbatim
	Level int      // Heading level
	Label string   // Admonition label (Note, Warning, ...)
}

var admonitionLabels = map[string]string{
	"note:":       "Note",
	"warning:":    "Warning",
	"deprecated:": "Deprecated",
}

// ParseBlocks splits a raw documentation comment into blocks.
//
// Classification is line-based: `#` prefixes open headings, indented or
// fenced runs become code blocks, a leading admonition word (Note:,
// Warning:, Deprecated:) marks an admonition, `>` quoted runs become
// containers, and everything else is paragraph text.
func ParseBlocks(doc string) []Block {
	var blocks []Block
	lines := strings.Split(strings.TrimRight(doc, "\n"), "\n")

	var para []string
	flush := func() {
		if len(para) == 0 {
			return
		}
		text := strings.Join(para, " ")
		para = nil

		lower := strings.ToLower(text)
		for prefix, label := range admonitionLabels {
			if strings.HasPrefix(lower, prefix) {
				blocks = append(blocks, Block{
					Kind:  KindAdmonition,
					Label: label,
					Text:  strings.TrimSpace(text[len(prefix):]),
				})
				return
			}
		}
		blocks = append(blocks, Block{Kind: KindParagraph, Text: text})
	}

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		trimmed := strings.TrimSpace(line)

		switch {
		case trimmed == "":
			flush()

		case strings.HasPrefix(trimmed, "#"):
			flush()
			level := 0
			for level < len(trimmed) && trimmed[level] == '#' {
				level++
			}
			blocks = append(blocks, Block{
				Kind:  KindHeading,
				Level: level,
				Text:  strings.TrimSpace(trimmed[level:]),
			})

		case strings.HasPrefix(trimmed, "```"):
			flush()
			var code []string
			for i++; i < len(lines); i++ {
				if strings.HasPrefix(strings.TrimSpace(lines[i]), "```") {
					break
				}
				code = append(code, lines[i])
			}
			blocks = append(blocks, Block{Kind: KindCode, Lines: code})

		case strings.HasPrefix(line, "\t") || strings.HasPrefix(line, "    "):
			flush()
			var code []string
			for ; i < len(lines); i++ {
				l := lines[i]
				if strings.TrimSpace(l) != "" && !strings.HasPrefix(l, "\t") && !strings.HasPrefix(l, "    ") {
					i--
					break
				}
				code = append(code, strings.TrimPrefix(strings.TrimPrefix(l, "\t"), "    "))
			}
			// Trailing blanks belong to the surrounding prose, not the code.
			for len(code) > 0 && strings.TrimSpace(code[len(code)-1]) == "" {
				code = code[:len(code)-1]
			}
			blocks = append(blocks, Block{Kind: KindCode, Lines: code})

		case strings.HasPrefix(trimmed, ">"):
			flush()
			var quoted []string
			for ; i < len(lines); i++ {
				t := strings.TrimSpace(lines[i])
				if !strings.HasPrefix(t, ">") {
					i--
					break
				}
				quoted = append(quoted, strings.TrimSpace(strings.TrimPrefix(t, ">")))
			}
			blocks = append(blocks, Block{Kind: KindContainer, Text: strings.Join(quoted, " ")})

		default:
			para = append(para, trimmed)
		}
	}
	flush()
	return blocks
}

// Format renders one block as Markdown. linkText rewrites prose text
// (cross-reference linking); code blocks are never rewritten.
func Format(b Block, linkText func(string) string) string {
	if linkText == nil {
		linkText = func(s string) string { return s }
	}
	switch b.Kind {
	case KindParagraph:
		return linkText(b.Text) + "\n"
	case KindHeading:
		// Headings inside symbol docs start below the page title.
		level := b.Level + 2
		if level > 6 {
			level = 6
		}
		return strings.Repeat("#", level) + " " + b.Text + "\n"
	case KindCode:
		return "```go\n" + strings.Join(b.Lines, "\n") + "\n```\n"
	case KindAdmonition:
		return "> **" + b.Label + ":** " + linkText(b.Text) + "\n"
	case KindContainer:
		return "> " + linkText(b.Text) + "\n"
	default:
		// KindUnknown and any future tag pass through untouched.
		return b.Text + "\n"
	}
}

// FormatAll renders all blocks, blank-line separated.
func FormatAll(blocks []Block, linkText func(string) string) string {
	parts := make([]string, 0, len(blocks))
	for _, b := range blocks {
		parts = append(parts, Format(b, linkText))
	}
	return strings.Join(parts, "\n")
}

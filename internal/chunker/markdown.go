package chunker

import "strings"

// Markdown chunker parameters.
const (
	MaxHeaderSectionLines = 120
	MaxMarkdownLineChars  = 700

	// MinMarkdownSectionLines is the fewest lines a section must hold,
	// counting the blank line itself, for a blank line to close it. A
	// blank line that opens a section (such as the second of two
	// consecutive blank lines) therefore never becomes a one-line
	// section of its own.
	MinMarkdownSectionLines = 2
)

// Markdown starts a new section at every line beginning with '#' (after
// optional leading whitespace), caps any section at MaxHeaderSectionLines,
// closes a section early at a blank line once it holds at least
// MinMarkdownSectionLines lines (the blank line included), and applies the same blob/long-line
// isolation as Simple.
func Markdown(text string) []Fragment {
	lines := splitLines(text)
	var frags []Fragment
	sectionStart := 0
	count := 0

	flush := func(endLine int) {
		if count == 0 {
			return
		}
		frags = append(frags, Fragment{
			StartLine:      sectionStart + 1,
			EndLine:        endLine,
			FragmentType:   "markdown_section",
			ChunkAlgorithm: "markdown",
		})
		count = 0
	}

	for i, line := range lines {
		lineNum := i + 1
		if len(line) >= MaxMarkdownLineChars || isBlobLike(line) {
			flush(lineNum - 1)
			frags = append(frags, Fragment{
				StartLine:      lineNum,
				EndLine:        lineNum,
				FragmentType:   "markdown_section",
				ChunkAlgorithm: "markdown",
			})
			sectionStart = lineNum
			continue
		}
		isHeader := strings.HasPrefix(strings.TrimLeft(line, " \t"), "#")
		if isHeader && count > 0 {
			flush(lineNum - 1)
			sectionStart = lineNum - 1
		}
		if count == 0 {
			sectionStart = lineNum - 1
		}
		count++
		if count >= MaxHeaderSectionLines || (count >= MinMarkdownSectionLines && strings.TrimSpace(line) == "") {
			flush(lineNum)
			sectionStart = lineNum
		}
	}
	flush(len(lines))
	return frags
}

package chunker

import "strings"

// Simple chunker parameters.
const (
	SoftMaxLines = 120
	MinLines     = 40
	MaxLineChars = 700
)

// Simple is the generic line-budget chunker. It walks lines with a running
// counter, hard-isolating any blob-like or overlong line into its own
// single-line fragment, and otherwise closing a fragment once the soft
// line cap is hit or, past the minimum, a blank line is reached.
func Simple(text string) []Fragment {
	lines := splitLines(text)
	var frags []Fragment
	pendingStart := 0
	count := 0

	flush := func(endLine int) {
		if count == 0 {
			return
		}
		frags = append(frags, Fragment{
			StartLine:      pendingStart + 1,
			EndLine:        endLine,
			FragmentType:   "document",
			ChunkAlgorithm: "simple",
		})
		count = 0
	}

	for i, line := range lines {
		lineNum := i + 1
		if len(line) >= MaxLineChars || isBlobLike(line) {
			flush(lineNum - 1)
			frags = append(frags, Fragment{
				StartLine:      lineNum,
				EndLine:        lineNum,
				FragmentType:   "document",
				ChunkAlgorithm: "simple",
			})
			pendingStart = lineNum
			continue
		}
		if count == 0 {
			pendingStart = lineNum - 1
		}
		count++
		if count >= SoftMaxLines || (count >= MinLines && strings.TrimSpace(line) == "") {
			flush(lineNum)
			pendingStart = lineNum
		}
	}
	flush(len(lines))
	return frags
}

// splitLines splits text into lines without the trailing newline,
// tolerating a missing final newline.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(text, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

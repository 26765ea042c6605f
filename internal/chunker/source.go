package chunker

import "strings"

// Source treats any top-level line beginning with one of keywords as the
// start of a routine block. The block continues until a line with
// indentation <= that of the opening line (and non-empty) or EOF. The
// prelude before each block, and the block itself, are split into
// windows of SoftMaxLines.
func Source(text string, keywords []string, tag string) []Fragment {
	lines := splitLines(text)
	var frags []Fragment

	preludeEnd := 0
	for preludeEnd < len(lines) && !startsRoutine(lines[preludeEnd], keywords) {
		preludeEnd++
	}
	frags = append(frags, windows(1, preludeEnd, tag)...)

	i := preludeEnd
	for i < len(lines) {
		if !startsRoutine(lines[i], keywords) {
			start := i
			for i < len(lines) && !startsRoutine(lines[i], keywords) {
				i++
			}
			frags = append(frags, windows(start+1, i, tag)...)
			continue
		}
		openIndent := indentOf(lines[i])
		start := i
		i++
		for i < len(lines) {
			line := lines[i]
			if strings.TrimSpace(line) != "" && indentOf(line) <= openIndent {
				break
			}
			i++
		}
		frags = append(frags, windows(start+1, i, tag)...)
	}
	return frags
}

func startsRoutine(line string, keywords []string) bool {
	trimmed := strings.TrimLeft(line, " \t")
	if indentOf(line) != 0 {
		return false
	}
	for _, kw := range keywords {
		if strings.HasPrefix(trimmed, kw) {
			rest := trimmed[len(kw):]
			if rest == "" || rest[0] == ' ' || rest[0] == '(' || rest[0] == '*' {
				return true
			}
		}
	}
	return false
}

func indentOf(line string) int {
	n := 0
	for _, c := range line {
		if c == ' ' {
			n++
		} else if c == '\t' {
			n += 4
		} else {
			break
		}
	}
	return n
}

// windows splits the 1-based inclusive range [start,end] into fragments of
// at most SoftMaxLines lines each. Returns nil when the range is empty.
func windows(start, end int, tag string) []Fragment {
	if end < start {
		return nil
	}
	var frags []Fragment
	for s := start; s <= end; s += SoftMaxLines {
		e := s + SoftMaxLines - 1
		if e > end {
			e = end
		}
		frags = append(frags, Fragment{
			StartLine:      s,
			EndLine:        e,
			FragmentType:   tag + "_block",
			ChunkAlgorithm: tag,
		})
	}
	return frags
}

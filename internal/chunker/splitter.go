package chunker

import (
	"fmt"
	"strings"

	"github.com/corvine/flatindex/pkg/model"
)

// SplitForRetry halves a fragment's content so the embedding stage can
// retry each half after an input-too-long response. A multi-line fragment
// splits at the line midpoint; a single-line fragment splits at the
// character midpoint. Returns model.ErrInvalidArgument when content is too
// short to split.
func SplitForRetry(startLine, endLine int, content string) (firstLine, firstEnd int, firstText string, secondStart, secondEnd int, secondText string, err error) {
	if len(content) <= 1 {
		return 0, 0, "", 0, 0, "", fmt.Errorf("%w: fragment too short to split", model.ErrInvalidArgument)
	}
	if endLine > startLine {
		lines := strings.Split(content, "\n")
		mid := len(lines) / 2
		if mid == 0 {
			mid = 1
		}
		firstText = strings.Join(lines[:mid], "\n")
		secondText = strings.Join(lines[mid:], "\n")
		firstLine = startLine
		firstEnd = startLine + mid - 1
		secondStart = firstEnd + 1
		secondEnd = endLine
		return firstLine, firstEnd, firstText, secondStart, secondEnd, secondText, nil
	}
	mid := len(content) / 2
	firstText = content[:mid]
	secondText = content[mid:]
	return startLine, startLine, firstText, startLine, startLine, secondText, nil
}

package chunker

import "strings"

// BlobLineMinChars and BlobBase64RunChars gate the base64-run heuristic:
// a line shorter than BlobLineMinChars is never isolated on run length
// alone, only on an explicit marker.
const (
	BlobLineMinChars   = 256
	BlobBase64RunChars = 192
)

var blobMarkers = []string{
	"certificate-authority-data:",
	"client-certificate-data:",
	"client-key-data:",
	"-----begin ",
	"-----end ",
	"ssh-rsa ",
	"ssh-ed25519 ",
}

// isBlobLike reports whether line likely holds an encoded binary or
// secret payload and should be isolated into its own fragment rather than
// embedded alongside its neighbors.
func isBlobLike(line string) bool {
	lower := strings.ToLower(line)
	for _, marker := range blobMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	if len(line) >= BlobLineMinChars && longestBase64Run(line) >= BlobBase64RunChars {
		return true
	}
	return false
}

func isBase64Char(c byte) bool {
	switch {
	case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9', c == '+', c == '/', c == '=':
		return true
	default:
		return false
	}
}

func longestBase64Run(s string) int {
	best, cur := 0, 0
	for i := 0; i < len(s); i++ {
		if isBase64Char(s[i]) {
			cur++
			if cur > best {
				best = cur
			}
		} else {
			cur = 0
		}
	}
	return best
}

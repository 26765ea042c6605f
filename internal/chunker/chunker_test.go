package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMarkdownBlobIsolation(t *testing.T) {
	text := "# kube config\nclient-key-data: " + strings.Repeat("A", 600) + "\nother: value\n"
	frags := Markdown(text)
	found := false
	for _, f := range frags {
		if f.StartLine == 2 && f.EndLine == 2 {
			require.Equal(t, "markdown", f.ChunkAlgorithm)
			found = true
		}
	}
	require.True(t, found, "expected isolated blob fragment at line 2")
}

func TestMarkdownHeaderSplit(t *testing.T) {
	var b strings.Builder
	b.WriteString("# Daily\n")
	for i := 1; i <= 11; i++ {
		b.WriteString("item\n")
	}
	b.WriteString("\nafter boundary\n")
	frags := Markdown(b.String())
	found := false
	for _, f := range frags {
		if f.EndLine == 13 {
			found = true
		}
	}
	require.True(t, found, "expected a fragment ending at line 13")
}

func TestSimpleLongLineIsolation(t *testing.T) {
	text := "short line\n" + strings.Repeat("x", 800) + "\nanother short line\n"
	frags := Simple(text)
	found := false
	for _, f := range frags {
		if f.StartLine == 2 && f.EndLine == 2 {
			found = true
		}
	}
	require.True(t, found, "expected the overlong line isolated at line 2")
}

func TestSimpleCoversEveryLine(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 50; i++ {
		b.WriteString("line of text\n")
	}
	frags := Simple(b.String())
	covered := map[int]bool{}
	for _, f := range frags {
		for ln := f.StartLine; ln <= f.EndLine; ln++ {
			require.False(t, covered[ln], "line %d covered twice", ln)
			covered[ln] = true
		}
	}
	for ln := 1; ln <= 50; ln++ {
		require.True(t, covered[ln], "line %d not covered", ln)
	}
}

func TestDispatchByExtension(t *testing.T) {
	require.Equal(t, "markdown", Chunk("readme.md", "# hi\ntext\n")[0].ChunkAlgorithm)
	require.Equal(t, "simple", Chunk("data.txt", "just text\n")[0].ChunkAlgorithm)
}

func TestSourceChunkerGo(t *testing.T) {
	text := "package main\n\nfunc main() {\n\tprintln(\"hi\")\n}\n"
	frags := Source(text, []string{"func"}, "go")
	require.NotEmpty(t, frags)
	last := frags[len(frags)-1]
	require.Equal(t, "go", last.ChunkAlgorithm)
}

func TestSplitForRetryMultiLine(t *testing.T) {
	fl, fe, ft, ss, se, st, err := SplitForRetry(1, 4, "a\nb\nc\nd")
	require.NoError(t, err)
	require.Equal(t, 1, fl)
	require.Equal(t, 2, fe)
	require.Equal(t, "a\nb", ft)
	require.Equal(t, 3, ss)
	require.Equal(t, 4, se)
	require.Equal(t, "c\nd", st)
}

func TestSplitForRetryTooShort(t *testing.T) {
	_, _, _, _, _, _, err := SplitForRetry(1, 1, "x")
	require.Error(t, err)
}

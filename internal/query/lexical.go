package query

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"os/exec"
	"sort"
	"strings"

	"github.com/corvine/flatindex/pkg/model"
)

// LexicalHit is one ripgrep match resolved against an index.
type LexicalHit struct {
	File        *model.File
	LineNumber  int
	LineContent string
	MatchStart  int
	MatchEnd    int
}

type rgMessage struct {
	Type string `json:"type"`
	Data struct {
		Path struct {
			Text string `json:"text"`
		} `json:"path"`
		Lines struct {
			Text string `json:"text"`
		} `json:"lines"`
		LineNumber int `json:"line_number"`
		Submatches []struct {
			Start int `json:"start"`
			End   int `json:"end"`
		} `json:"submatches"`
	} `json:"data"`
}

// LexicalSearch invokes `rg --json --line-number --column [--ignore-case]
// <pattern> <root>` rooted at idx.Path, parses its NDJSON output, and
// resolves each match's file against idx (exact path, falling back to a
// suffix match). A non-zero exit or any subprocess error yields an empty
// result, never an error.
// Malformed JSON lines are skipped silently.
func LexicalSearch(ctx context.Context, idx *model.Index, pattern string, caseSensitive bool, maxResults int) []LexicalHit {
	args := []string{"--json", "--line-number", "--column"}
	if !caseSensitive {
		args = append(args, "--ignore-case")
	}
	args = append(args, pattern, idx.Path)

	cmd := exec.CommandContext(ctx, "rg", args...)
	out, err := cmd.Output()
	if err != nil {
		return nil
	}

	var hits []LexicalHit
	scanner := bufio.NewScanner(bytes.NewReader(out))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		if len(hits) >= maxResults && maxResults > 0 {
			break
		}
		var msg rgMessage
		if jerr := json.Unmarshal(scanner.Bytes(), &msg); jerr != nil {
			continue
		}
		if msg.Type != "match" {
			continue
		}
		file := resolveFile(idx, msg.Data.Path.Text)
		if file == nil {
			continue
		}
		for _, sm := range msg.Data.Submatches {
			if maxResults > 0 && len(hits) >= maxResults {
				break
			}
			hits = append(hits, LexicalHit{
				File:        file,
				LineNumber:  msg.Data.LineNumber,
				LineContent: strings.TrimRight(msg.Data.Lines.Text, "\n"),
				MatchStart:  sm.Start,
				MatchEnd:    sm.End - 1,
			})
		}
	}
	return hits
}

func resolveFile(idx *model.Index, path string) *model.File {
	if f, ok := idx.Files[path]; ok {
		return f
	}
	for p, f := range idx.Files {
		if strings.HasSuffix(p, path) || strings.HasSuffix(path, p) {
			return f
		}
	}
	return nil
}

// LexicalSearchMulti runs LexicalSearch over every index and merges
// results using (filename, lineNumber) as the sort key.
func LexicalSearchMulti(ctx context.Context, indexes []*model.Index, pattern string, caseSensitive bool, maxResults int) []LexicalHit {
	var all []LexicalHit
	for _, idx := range indexes {
		all = append(all, LexicalSearch(ctx, idx, pattern, caseSensitive, maxResults)...)
	}
	sortByFilenameAndLine(all)
	if maxResults > 0 && len(all) > maxResults {
		all = all[:maxResults]
	}
	return all
}

func sortByFilenameAndLine(hits []LexicalHit) {
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].File.Filename != hits[j].File.Filename {
			return hits[i].File.Filename < hits[j].File.Filename
		}
		return hits[i].LineNumber < hits[j].LineNumber
	})
}

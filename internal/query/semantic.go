package query

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/corvine/flatindex/internal/similarity"
	"github.com/corvine/flatindex/pkg/model"
)

// SemanticHit is one ranked semantic search result.
type SemanticHit struct {
	Fragment   model.Fragment
	File       *model.File
	Similarity float64
}

type candidate struct {
	fragment model.Fragment
	file     *model.File
}

// SemanticSearch iterates every file in idx,
// skipping files whose extension is not in allowedExtensions (when
// non-empty) and fragments whose model/task do not match exactly, rank by
// cosine similarity against queryEmbedding, and truncate to maxResults.
func SemanticSearch(idx *model.Index, queryEmbedding []float32, modelName string, task model.Task, allowedExtensions []string, maxResults int) ([]SemanticHit, error) {
	var candidates []candidate
	for _, path := range idx.SortedPaths() {
		file := idx.Files[path]
		if len(allowedExtensions) > 0 && !extAllowed(path, allowedExtensions) {
			continue
		}
		for _, frag := range file.Fragments {
			if frag.Model != modelName || frag.Task != task {
				continue
			}
			candidates = append(candidates, candidate{fragment: frag, file: file})
		}
	}

	ranked, err := similarity.Rank(candidates, func(c candidate) (float64, error) {
		return similarity.Cosine(c.fragment.Embedding, queryEmbedding)
	})
	if err != nil {
		return nil, fmt.Errorf("semantic search: %w", err)
	}
	ranked = similarity.Truncate(ranked, maxResults)

	hits := make([]SemanticHit, len(ranked))
	for i, r := range ranked {
		hits[i] = SemanticHit{Fragment: r.Item.fragment, File: r.Item.file, Similarity: r.Score}
	}
	return hits, nil
}

func extAllowed(path string, allowed []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, a := range allowed {
		if strings.ToLower(a) == ext {
			return true
		}
	}
	return false
}

// SemanticSearchMulti runs SemanticSearch over every index, using
// maxResults as a per-index cap, concatenates the results, re-sorts
// globally by similarity, and truncates to the overall maxResults
// ("multi-index search").
func SemanticSearchMulti(indexes []*model.Index, queryEmbedding []float32, modelName string, task model.Task, allowedExtensions []string, maxResults int) ([]SemanticHit, error) {
	var all []SemanticHit
	for _, idx := range indexes {
		hits, err := SemanticSearch(idx, queryEmbedding, modelName, task, allowedExtensions, maxResults)
		if err != nil {
			return nil, err
		}
		all = append(all, hits...)
	}
	ranked, err := similarity.Rank(all, func(h SemanticHit) (float64, error) { return h.Similarity, nil })
	if err != nil {
		return nil, err
	}
	ranked = similarity.Truncate(ranked, maxResults)
	out := make([]SemanticHit, len(ranked))
	for i, r := range ranked {
		out[i] = r.Item
	}
	return out, nil
}

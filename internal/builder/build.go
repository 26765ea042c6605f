package builder

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/corvine/flatindex/internal/chunker"
	"github.com/corvine/flatindex/pkg/model"
)

// maxSplitRetryDepth bounds how many times an input-too-long fragment is
// halved and retried before its sub-fragments are given up on.
const maxSplitRetryDepth = 2

// Embedder is the subset of internal/embedder.Client the builder depends
// on, kept as an interface so tests can supply a fake.
type Embedder interface {
	EmbedBatch(ctx context.Context, texts []string, modelName string, task model.Task) ([][]float32, error)
}

// Config parameterizes a full build.
type Config struct {
	Root                string
	Kind                model.Kind
	RepoName            string
	Whitelist           []string
	BlacklistExtensions []string
	BlacklistFilenames  []string
	EmbeddingModel      string

	// TaskAware models expose a task dimension: both RetrievalDocument
	// and RetrievalQuery embeddings are attached to each fragment (dual
	// indexing). Non-task-aware models get a single
	// SemanticSimilarity embedding per fragment.
	TaskAware bool

	// Concurrency bounds how many files are processed in parallel.
	// <= 0 defaults to runtime.GOMAXPROCS.
	Concurrency int

	Embedder Embedder
}

func (c Config) tasks() []model.Task {
	if c.TaskAware {
		return []model.Task{model.RetrievalDocument, model.RetrievalQuery}
	}
	return []model.Task{model.SemanticSimilarity}
}

// Build performs a full index build: discover, filter, chunk, embed, and
// assemble.
func Build(ctx context.Context, cfg Config) (*model.Index, error) {
	paths, err := Discover(cfg.Root, cfg.Whitelist, cfg.BlacklistExtensions, cfg.BlacklistFilenames)
	if err != nil {
		return nil, fmt.Errorf("%w: discover %s: %v", model.ErrIO, cfg.Root, err)
	}

	idx := newIndex(cfg)

	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = runtime.GOMAXPROCS(0)
	}
	sem := make(chan struct{}, concurrency)
	g, gctx := errgroup.WithContext(ctx)

	type result struct {
		file *model.File
	}
	results := make(chan result, len(paths))

	for _, p := range paths {
		p := p
		g.Go(func() error {
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-gctx.Done():
				return gctx.Err()
			}
			file, err := BuildFile(gctx, cfg, p)
			if err != nil {
				// an unreadable file surfaces as IoError and
				// aborts only that file, not the whole build: log
				// and move on rather than returning err, which
				// would cancel gctx and abort every other
				// in-flight file too.
				log.Printf("builder: skipping %s: %v", p, err)
				return nil
			}
			results <- result{file: file}
			return nil
		})
	}

	done := make(chan error, 1)
	go func() { done <- g.Wait(); close(results) }()

	for r := range results {
		idx.Files[r.file.Path] = r.file
	}
	if err := <-done; err != nil {
		return nil, err
	}

	if cfg.Kind == model.KindGitRepo {
		idx.LatestCommitHash = gitCommitHash(cfg.Root)
		idx.IsDirty = gitIsDirty(cfg.Root)
	}
	return idx, nil
}

func newIndex(cfg Config) *model.Index {
	if cfg.Kind == model.KindGitRepo {
		name := cfg.RepoName
		if name == "" {
			name = filepath.Base(cfg.Root)
		}
		return model.NewGitRepoIndex(cfg.Root, name)
	}
	return model.NewFolderIndex(cfg.Root)
}

// BuildFile reads, chunks, and embeds a single file, returning its
// model.File record. Used by both Build and the incremental updater.
func BuildFile(ctx context.Context, cfg Config, path string) (*model.File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", model.ErrIO, path, err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: stat %s: %v", model.ErrIO, path, err)
	}

	hash := sha256.Sum256(data)
	file := &model.File{
		Path:         path,
		Filename:     filepath.Base(path),
		Hash:         hash,
		CreationTime: float64(info.ModTime().Unix()),
		LastModified: float64(info.ModTime().Unix()),
	}

	lines := strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")
	chunks := chunker.Chunk(path, string(data))

	for _, ch := range chunks {
		text := sliceLines(lines, ch.StartLine, ch.EndLine)
		if strings.TrimSpace(text) == "" {
			continue
		}
		for _, task := range cfg.tasks() {
			frags, err := embedFragment(ctx, cfg, task, ch.StartLine, ch.EndLine, text, ch.FragmentType, ch.ChunkAlgorithm, 0)
			if err != nil {
				return nil, err
			}
			file.Fragments = append(file.Fragments, frags...)
		}
	}

	if len(file.Fragments) == 0 {
		frag, _ := model.NewFragment(1, 1, "", "document", "simple")
		file.Fragments = append(file.Fragments, frag)
	}
	return file, nil
}

// embedFragment builds a Fragment over [startLine,endLine] and embeds it.
// An "input too long" response splits the fragment via
// chunker.SplitForRetry and retries each half, recursing up to
// maxSplitRetryDepth; once that depth is exhausted, or the split itself
// fails, the affected sub-fragment is dropped. Any other embedding
// backend error drops just this fragment, leaving the rest of the file
// intact.
func embedFragment(ctx context.Context, cfg Config, task model.Task, startLine, endLine int, text, fragmentType, chunkAlgorithm string, depth int) ([]model.Fragment, error) {
	frag, err := model.NewFragment(startLine, endLine, text, fragmentType, chunkAlgorithm)
	if err != nil {
		return nil, err
	}
	frag.Model = cfg.EmbeddingModel
	frag.Task = task

	if cfg.Embedder == nil {
		return []model.Fragment{frag}, nil
	}

	vecs, err := cfg.Embedder.EmbedBatch(ctx, []string{text}, cfg.EmbeddingModel, task)
	if err == nil {
		frag.Embedding = vecs[0]
		return []model.Fragment{frag}, nil
	}

	if errors.Is(err, model.ErrInputTooLong) && depth < maxSplitRetryDepth {
		firstLine, firstEnd, firstText, secondStart, secondEnd, secondText, splitErr := chunker.SplitForRetry(startLine, endLine, text)
		if splitErr == nil {
			var out []model.Fragment
			first, err := embedFragment(ctx, cfg, task, firstLine, firstEnd, firstText, fragmentType, chunkAlgorithm, depth+1)
			if err != nil {
				return nil, err
			}
			out = append(out, first...)
			second, err := embedFragment(ctx, cfg, task, secondStart, secondEnd, secondText, fragmentType, chunkAlgorithm, depth+1)
			if err != nil {
				return nil, err
			}
			out = append(out, second...)
			return out, nil
		}
	}

	// generic backend failure, or a too-long fragment that could not be
	// split further: drop this fragment rather than failing the file.
	return nil, nil
}

func sliceLines(lines []string, start, end int) string {
	if start < 1 {
		start = 1
	}
	if end > len(lines) {
		end = len(lines)
	}
	if start > end || start > len(lines) {
		return ""
	}
	return strings.Join(lines[start-1:end], "\n")
}

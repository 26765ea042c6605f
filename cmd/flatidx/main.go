package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/corvine/flatindex/internal/audit"
	"github.com/corvine/flatindex/internal/builder"
	"github.com/corvine/flatindex/internal/codec"
	"github.com/corvine/flatindex/internal/config"
	"github.com/corvine/flatindex/internal/embedder"
	"github.com/corvine/flatindex/internal/httpapi"
	"github.com/corvine/flatindex/internal/lockset"
	"github.com/corvine/flatindex/internal/mcpserver"
	"github.com/corvine/flatindex/internal/query"
	"github.com/corvine/flatindex/internal/updater"
	"github.com/corvine/flatindex/internal/watch"
	"github.com/corvine/flatindex/pkg/model"
)

const appDir = "flatidx"

var version = "dev"

func main() {
	log.SetOutput(os.Stderr)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	dir, err := config.Dir(appDir)
	if err != nil {
		log.Fatalf("flatidx: %v", err)
	}
	cfg, err := config.Load(dir)
	if err != nil {
		log.Fatalf("flatidx: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		log.Printf("flatidx: received signal %v, shutting down", sig)
		cancel()
	}()

	var runErr error
	switch os.Args[1] {
	case "--version":
		fmt.Printf("flatidx %s\n", version)
		return
	case "index-all":
		runErr = cmdIndexAll(ctx, dir, cfg)
	case "watch":
		runErr = cmdWatch(ctx, dir, cfg, os.Args[2:])
	case "semantic-search":
		runErr = cmdSemanticSearch(ctx, dir, cfg, os.Args[2:])
	case "lexical-search":
		runErr = cmdLexicalSearch(ctx, dir, os.Args[2:])
	case "show-indexes":
		runErr = cmdShowIndexes(dir)
	case "serve-http":
		runErr = cmdServeHTTP(ctx, dir, cfg, os.Args[2:])
	case "serve-mcp":
		runErr = cmdServeMCP(ctx, dir, cfg)
	default:
		usage()
		os.Exit(1)
	}

	if runErr != nil {
		log.Printf("flatidx: %v", runErr)
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: flatidx <command> [args]

commands:
  index-all                      build or update every configured target
  watch                          run index-all on a timer forever
  semantic-search <query>        rank fragments by embedding similarity
  lexical-search <pattern>       search files via ripgrep
  show-indexes                   list loaded indexes and their sizes
  serve-http                     serve the HTTP/JSON search surface
  serve-mcp                      serve the MCP search surface over stdio`)
}

func sanitizeName(s string) string {
	s = strings.ReplaceAll(s, "/", "_")
	return strings.ReplaceAll(s, "\\", "_")
}

func folderIndexPath(dir, folder string) string {
	return filepath.Join(dir, "folders", sanitizeName(folder)+".flat")
}

func repoIndexPath(dir, repo string) string {
	return filepath.Join(dir, "repos", filepath.Base(repo)+".flat")
}

// buildTargets turns the persisted Configuration into one watch.Target per
// configured folder and git repo, each carrying the builder.Config needed
// to (re)build it.
func buildTargets(dir string, cfg model.Configuration) ([]watch.Target, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: apiKey is required to build or query embeddings", model.ErrConfig)
	}
	maxInFlight := cfg.MaxInFlight
	if maxInFlight <= 0 {
		maxInFlight = embedder.DefaultMaxInFlight
	}
	emb, err := embedder.Shared(cfg.APIBaseURL, cfg.APIKey, maxInFlight)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Join(dir, "folders"), 0o755); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrIO, err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "repos"), 0o755); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrIO, err)
	}

	var targets []watch.Target
	for _, folder := range cfg.Folders {
		targets = append(targets, watch.Target{
			IndexPath: folderIndexPath(dir, folder),
			Config: builder.Config{
				Root:                folder,
				Kind:                model.KindFolder,
				Whitelist:           cfg.WhitelistExtensions,
				BlacklistExtensions: cfg.BlacklistExtensions,
				BlacklistFilenames:  cfg.BlacklistFilenames,
				EmbeddingModel:      cfg.EmbeddingModel,
				TaskAware:           cfg.TaskAware,
				Embedder:            emb,
			},
		})
	}
	for _, repo := range cfg.GitRepos {
		targets = append(targets, watch.Target{
			IndexPath: repoIndexPath(dir, repo),
			Config: builder.Config{
				Root:                repo,
				Kind:                model.KindGitRepo,
				RepoName:            filepath.Base(repo),
				Whitelist:           cfg.WhitelistExtensions,
				BlacklistExtensions: cfg.BlacklistExtensions,
				BlacklistFilenames:  cfg.BlacklistFilenames,
				EmbeddingModel:      cfg.EmbeddingModel,
				TaskAware:           cfg.TaskAware,
				Embedder:            emb,
			},
		})
	}
	return targets, nil
}

func cmdIndexAll(ctx context.Context, dir string, cfg model.Configuration) error {
	targets, err := buildTargets(dir, cfg)
	if err != nil {
		return err
	}
	locks := &lockset.Set{}
	for _, t := range targets {
		idx, changed, err := updater.Update(ctx, t.IndexPath, t.Config, locks)
		if err != nil {
			log.Printf("index-all: %s: %v", t.Config.Root, err)
			continue
		}
		fragments := 0
		for _, f := range idx.Files {
			fragments += len(f.Fragments)
		}
		fmt.Printf("%s: %d files, %d fragments, changed=%v\n", t.Config.Root, len(idx.Files), fragments, changed)
	}
	return nil
}

func cmdWatch(ctx context.Context, dir string, cfg model.Configuration, args []string) error {
	fs := flag.NewFlagSet("watch", flag.ContinueOnError)
	interval := fs.Int("interval", 30, "seconds between re-index passes")
	fast := fs.Bool("fast", true, "enable the fsnotify-based fast path in addition to the ticker")
	if err := fs.Parse(args); err != nil {
		return err
	}

	targets, err := buildTargets(dir, cfg)
	if err != nil {
		return err
	}
	locks := &lockset.Set{}
	if *fast {
		go watch.WatchFast(ctx, targets, locks)
	}
	watch.Run(ctx, *interval, targets, locks)
	return nil
}

func loadAllIndexes(dir string) []*model.Index {
	var indexes []*model.Index
	for _, sub := range []string{"folders", "repos"} {
		entries, err := os.ReadDir(filepath.Join(dir, sub))
		if err != nil {
			continue
		}
		for _, e := range entries {
			if e.IsDir() || !strings.HasSuffix(e.Name(), ".flat") {
				continue
			}
			path := filepath.Join(dir, sub, e.Name())
			idx, err := codec.Read(path)
			if err != nil {
				log.Printf("show-indexes: %s: %v", path, err)
				continue
			}
			indexes = append(indexes, idx)
		}
	}
	return indexes
}

func cmdShowIndexes(dir string) error {
	indexes := loadAllIndexes(dir)
	if len(indexes) == 0 {
		fmt.Println("no indexes found")
		return nil
	}
	for _, idx := range indexes {
		fragments := 0
		for _, f := range idx.Files {
			fragments += len(f.Fragments)
		}
		name := idx.Path
		if idx.Kind == model.KindGitRepo {
			name = idx.Name
		}
		fmt.Printf("%s [%s] %d files, %d fragments", name, idx.Kind, len(idx.Files), fragments)
		if idx.Kind == model.KindGitRepo {
			fmt.Printf(", commit=%s, dirty=%v", idx.LatestCommitHash, idx.IsDirty)
		}
		fmt.Println()
	}
	return nil
}

func cmdSemanticSearch(ctx context.Context, dir string, cfg model.Configuration, args []string) error {
	fs := flag.NewFlagSet("semantic-search", flag.ContinueOnError)
	maxResults := fs.Int("max", 10, "maximum number of results")
	modelName := fs.String("model", cfg.EmbeddingModel, "embedding model")
	ext := fs.String("ext", "", "comma-separated extension filter, e.g. .go,.py")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return fmt.Errorf("%w: semantic-search requires a query argument", model.ErrInvalidArgument)
	}
	queryText := strings.Join(fs.Args(), " ")

	maxInFlight := cfg.MaxInFlight
	if maxInFlight <= 0 {
		maxInFlight = embedder.DefaultMaxInFlight
	}
	emb, err := embedder.Shared(cfg.APIBaseURL, cfg.APIKey, maxInFlight)
	if err != nil {
		return err
	}
	task := model.QueryTask(cfg.TaskAware)
	vec, err := emb.Embed(ctx, queryText, *modelName, task)
	if err != nil {
		fmt.Printf("semantic-search: %v\n", err)
		return nil
	}

	var extensions []string
	if *ext != "" {
		extensions = strings.Split(*ext, ",")
	}
	indexes := loadAllIndexes(dir)
	hits, err := query.SemanticSearchMulti(indexes, vec, *modelName, task, extensions, *maxResults)
	if err != nil {
		return err
	}
	if len(hits) == 0 {
		fmt.Println("0 hits")
		return nil
	}
	for _, h := range hits {
		fmt.Printf("%.4f %s:%d-%d\n", h.Similarity, h.File.Path, h.Fragment.StartLine, h.Fragment.EndLine)
	}
	return nil
}

func cmdLexicalSearch(ctx context.Context, dir string, args []string) error {
	fs := flag.NewFlagSet("lexical-search", flag.ContinueOnError)
	maxResults := fs.Int("max", 10, "maximum number of results")
	caseSensitive := fs.Bool("case-sensitive", true, "match case exactly")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return fmt.Errorf("%w: lexical-search requires a pattern argument", model.ErrInvalidArgument)
	}
	pattern := strings.Join(fs.Args(), " ")

	indexes := loadAllIndexes(dir)
	hits := query.LexicalSearchMulti(ctx, indexes, pattern, *caseSensitive, *maxResults)
	if len(hits) == 0 {
		fmt.Println("0 hits")
		return nil
	}
	for _, h := range hits {
		fmt.Printf("%s:%d: %s\n", h.File.Path, h.LineNumber, h.LineContent)
	}
	return nil
}

func cmdServeHTTP(ctx context.Context, dir string, cfg model.Configuration, args []string) error {
	fs := flag.NewFlagSet("serve-http", flag.ContinueOnError)
	addr := fs.String("addr", ":8080", "listen address")
	if err := fs.Parse(args); err != nil {
		return err
	}

	maxInFlight := cfg.MaxInFlight
	if maxInFlight <= 0 {
		maxInFlight = embedder.DefaultMaxInFlight
	}
	emb, err := embedder.Shared(cfg.APIBaseURL, cfg.APIKey, maxInFlight)
	if err != nil {
		return err
	}
	auditLog := audit.Open(filepath.Join(dir, "audit.db"))
	defer func() { _ = auditLog.Close() }()

	srv := &httpapi.Server{
		APIKey:         cfg.APIKey,
		EmbeddingModel: cfg.EmbeddingModel,
		TaskAware:      cfg.TaskAware,
		Embedder:       emb,
		Indexes:        func() []*model.Index { return loadAllIndexes(dir) },
		Audit:          auditLog,
	}
	httpServer := &http.Server{Addr: *addr, Handler: srv.Handler()}

	errChan := make(chan error, 1)
	go func() {
		log.Printf("serve-http: listening on %s", *addr)
		errChan <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	case err := <-errChan:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	}
}

func cmdServeMCP(ctx context.Context, dir string, cfg model.Configuration) error {
	maxInFlight := cfg.MaxInFlight
	if maxInFlight <= 0 {
		maxInFlight = embedder.DefaultMaxInFlight
	}
	emb, err := embedder.Shared(cfg.APIBaseURL, cfg.APIKey, maxInFlight)
	if err != nil {
		return err
	}
	auditLog := audit.Open(filepath.Join(dir, "audit.db"))
	defer func() { _ = auditLog.Close() }()

	srv := mcpserver.New(cfg.EmbeddingModel, cfg.TaskAware, emb, func() []*model.Index { return loadAllIndexes(dir) }, auditLog)

	errChan := make(chan error, 1)
	go func() {
		log.Println("serve-mcp: ready, listening on stdio")
		errChan <- srv.Serve(ctx)
	}()

	select {
	case <-ctx.Done():
		return nil
	case err := <-errChan:
		return err
	}
}

package updater

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"os"

	"github.com/corvine/flatindex/internal/builder"
	"github.com/corvine/flatindex/internal/codec"
	"github.com/corvine/flatindex/internal/lockset"
	"github.com/corvine/flatindex/pkg/model"
)

// ErrBusy is returned when another update is already in flight for the
// same index path, using the in-process update lock.
var ErrBusy = errors.New("updater: update already in progress for this index")

// Update loads the index at indexPath, diffs it against the current
// filesystem state under cfg.Root, and rewrites indexPath only when
// something changed. Returns the resulting index and whether it differs
// from what was on disk before the call.
func Update(ctx context.Context, indexPath string, cfg builder.Config, locks *lockset.Set) (*model.Index, bool, error) {
	if locks != nil {
		if !locks.TryAcquire(indexPath) {
			return nil, false, ErrBusy
		}
		defer locks.Release(indexPath)
	}

	existing, fresh, err := loadOrNil(indexPath)
	if err != nil {
		return nil, false, err
	}
	if fresh || existing.Kind != cfg.Kind {
		idx, err := builder.Build(ctx, cfg)
		if err != nil {
			return nil, false, err
		}
		if err := codec.Write(indexPath, idx); err != nil {
			return nil, false, err
		}
		return idx, true, nil
	}

	changed, err := applyDiff(ctx, existing, cfg)
	if err != nil {
		return nil, false, err
	}

	if cfg.Kind == model.KindGitRepo {
		changed = refreshGitMetadata(existing, cfg.Root) || changed
	}

	if !changed {
		return existing, false, nil
	}
	if err := codec.Write(indexPath, existing); err != nil {
		return nil, false, err
	}
	return existing, true, nil
}

// loadOrNil loads indexPath via the codec. Any failure — missing file,
// version mismatch (the codec has already deleted the file), or a
// corrupt payload — is treated as "no index exists", signaled by
// fresh=true.
func loadOrNil(indexPath string) (idx *model.Index, fresh bool, err error) {
	if _, statErr := os.Stat(indexPath); statErr != nil {
		return nil, true, nil
	}
	idx, err = codec.Read(indexPath)
	if err != nil {
		return nil, true, nil
	}
	return idx, false, nil
}

func applyDiff(ctx context.Context, idx *model.Index, cfg builder.Config) (bool, error) {
	currentPaths, err := builder.Discover(cfg.Root, cfg.Whitelist, cfg.BlacklistExtensions, cfg.BlacklistFilenames)
	if err != nil {
		return false, fmt.Errorf("%w: discover %s: %v", model.ErrIO, cfg.Root, err)
	}
	current := make(map[string]bool, len(currentPaths))
	for _, p := range currentPaths {
		current[p] = true
	}

	changed := false

	for existingPath := range idx.Files {
		if !current[existingPath] {
			delete(idx.Files, existingPath)
			changed = true
		}
	}

	for _, p := range currentPaths {
		stored, ok := idx.Files[p]
		if !ok {
			file, err := builder.BuildFile(ctx, cfg, p)
			if err != nil {
				// a single file's failure must not poison
				// the whole index; skip it and continue.
				continue
			}
			idx.Files[p] = file
			changed = true
			continue
		}
		if needsReindexing(stored, p) {
			file, err := builder.BuildFile(ctx, cfg, p)
			if err != nil {
				continue
			}
			idx.Files[p] = file
			changed = true
		}
	}
	return changed, nil
}

// needsReindexing: mtime is only ever used to *confirm* a reindex is
// needed, never to conclude one isn't. A newer mtime short-circuits to
// true without touching the file's contents; an unchanged or older
// mtime still falls through to a SHA-256 comparison, since content can
// change without the mtime advancing (equal-second writes, mtime
// preserved by the writer, clock skew).
func needsReindexing(stored *model.File, path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return true
	}
	currentMtime := float64(info.ModTime().Unix())
	if currentMtime > stored.LastModified {
		return true
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return true
	}
	return sha256.Sum256(data) != stored.Hash
}

func refreshGitMetadata(idx *model.Index, root string) bool {
	hash := builder.GitCommitHash(root)
	dirty := builder.GitIsDirty(root)
	changed := hash != idx.LatestCommitHash || dirty != idx.IsDirty
	idx.LatestCommitHash = hash
	idx.IsDirty = dirty
	return changed
}

package model

import "sort"

// Kind discriminates the two Index variants. Implementers should match on
// Kind rather than reach for inheritance: the payload fields that matter
// (Name, LatestCommitHash, IsDirty) are only meaningful for KindGitRepo.
type Kind int

const (
	KindFolder Kind = iota
	KindGitRepo
)

func (k Kind) String() string {
	if k == KindGitRepo {
		return "git-repo"
	}
	return "folder"
}

// Index is a tagged union over the folder-index and git-repo-index
// variants. Files is keyed by absolute path. Name, LatestCommitHash, and
// IsDirty are only populated when Kind == KindGitRepo; the repo index is
// not tied to a specific commit, LatestCommitHash is advisory metadata
// refreshed on every update.
type Index struct {
	Kind             Kind
	Path             string
	Files            map[string]*File
	Name             string
	LatestCommitHash string
	IsDirty          bool
}

// NewFolderIndex builds an empty folder-kind Index rooted at path.
func NewFolderIndex(path string) *Index {
	return &Index{Kind: KindFolder, Path: path, Files: map[string]*File{}}
}

// NewGitRepoIndex builds an empty git-repo-kind Index rooted at path, with
// name defaulted from the repo's basename by the caller.
func NewGitRepoIndex(path, name string) *Index {
	return &Index{Kind: KindGitRepo, Path: path, Files: map[string]*File{}, Name: name, LatestCommitHash: "unknown"}
}

// SortedPaths returns the Files keys sorted ascending, the order the codec
// must serialize entries in for deterministic output.
func (idx *Index) SortedPaths() []string {
	paths := make([]string, 0, len(idx.Files))
	for p := range idx.Files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

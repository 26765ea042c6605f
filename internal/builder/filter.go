package builder

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ShouldInclude: the lowercase extension
// must not be in blacklistExt; the basename must not match any pattern in
// blacklistNames (each pattern holds exactly one '*' wildcard); when
// whitelist is non-empty the extension must be present in it.
func ShouldInclude(path string, whitelist, blacklistExt, blacklistNames []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, b := range blacklistExt {
		if strings.ToLower(b) == ext {
			return false
		}
	}
	base := filepath.Base(path)
	for _, pattern := range blacklistNames {
		if matchesPattern(base, pattern) {
			return false
		}
	}
	if len(whitelist) > 0 {
		found := false
		for _, w := range whitelist {
			if strings.ToLower(w) == ext {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// matchesPattern matches name against pattern, which contains exactly one
// '*' wildcard standing for any run of characters (including empty).
func matchesPattern(name, pattern string) bool {
	star := strings.IndexByte(pattern, '*')
	if star < 0 {
		return name == pattern
	}
	prefix, suffix := pattern[:star], pattern[star+1:]
	return len(name) >= len(prefix)+len(suffix) &&
		strings.HasPrefix(name, prefix) &&
		strings.HasSuffix(name, suffix)
}

// Discover walks root recursively, returning every path for which
// ShouldInclude returns true, sorted ascending.
func Discover(root string, whitelist, blacklistExt, blacklistNames []string) ([]string, error) {
	var paths []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if info.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		if ShouldInclude(path, whitelist, blacklistExt, blacklistNames) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}

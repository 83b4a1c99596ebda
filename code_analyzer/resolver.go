package code_analyzer

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultExtensionPriority is the probe order used when the configuration
// does not override it. The order is significant: when sibling variants of a
// module coexist (b.ts next to b.js), the first extension in this list wins.
var DefaultExtensionPriority = []string{".ts", ".tsx", ".js", ".jsx", ".mjs", ".cjs"}

// ResolutionConfig drives specifier resolution.
type ResolutionConfig struct {
	// BaseDir is the absolute directory alias replacement templates resolve against.
	BaseDir string

	// AliasTable maps a wildcard pattern with a single '*' to an ordered list
	// of replacement templates, e.g. "@app/*" -> ["src/*"].
	AliasTable map[string][]string

	// ExtensionPriority is the ordered extension probe list. Empty means
	// DefaultExtensionPriority.
	ExtensionPriority []string
}

func (c *ResolutionConfig) extensions() []string {
	if len(c.ExtensionPriority) == 0 {
		return DefaultExtensionPriority
	}
	return c.ExtensionPriority
}

// Resolver maps raw import specifiers to absolute file paths on disk.
type Resolver struct {
	config ResolutionConfig

	// aliasPatterns holds the alias table keys in a fixed order so repeated
	// resolutions are deterministic.
	aliasPatterns []string
}

// NewResolver creates a Resolver for the given configuration.
func NewResolver(config ResolutionConfig) *Resolver {
	patterns := make([]string, 0, len(config.AliasTable))
	for pattern := range config.AliasTable {
		patterns = append(patterns, pattern)
	}
	sort.Strings(patterns)

	return &Resolver{config: config, aliasPatterns: patterns}
}

// Resolve maps one specifier, imported from importingFile, to an absolute
// file path. The second return value is false when the specifier is external
// or otherwise unresolved; that is the expected case for bare package names,
// not an error.
func (r *Resolver) Resolve(specifier string, importingFile string) (string, bool) {
	if specifier == "" {
		return "", false
	}

	if isRelative(specifier) || filepath.IsAbs(specifier) {
		base := filepath.Clean(specifier)
		if !filepath.IsAbs(specifier) {
			base = filepath.Join(filepath.Dir(importingFile), specifier)
		}
		return r.resolveCandidate(base)
	}

	return r.resolveAlias(specifier)
}

// resolveAlias expands the first alias pattern matching the specifier and
// tries each replacement template in listed order. Alias lookup is disabled
// inside the expansion, so alias tables cannot recurse.
func (r *Resolver) resolveAlias(specifier string) (string, bool) {
	for _, pattern := range r.aliasPatterns {
		captured, ok := matchWildcard(pattern, specifier)
		if !ok {
			continue
		}

		for _, template := range r.config.AliasTable[pattern] {
			expanded := strings.Replace(template, "*", captured, 1)
			base := expanded
			if !filepath.IsAbs(base) {
				base = filepath.Join(r.config.BaseDir, expanded)
			}
			if resolved, ok := r.resolveCandidate(base); ok {
				return resolved, true
			}
		}

		// One non-recursive attempt per matching pattern; a miss means the
		// specifier stays external.
		return "", false
	}

	return "", false
}

// resolveCandidate applies the filesystem probe sequence to one candidate
// base path: exact file, then index files inside a directory, then extension
// suffixes.
func (r *Resolver) resolveCandidate(base string) (string, bool) {
	if info, err := os.Stat(base); err == nil {
		if !info.IsDir() {
			return base, true
		}
		for _, ext := range r.config.extensions() {
			index := filepath.Join(base, "index"+ext)
			if isFile(index) {
				return index, true
			}
		}
	}

	for _, ext := range r.config.extensions() {
		if strings.HasSuffix(base, ext) {
			continue
		}
		candidate := base + ext
		if isFile(candidate) {
			return candidate, true
		}
	}

	return "", false
}

// matchWildcard matches a specifier against a pattern containing exactly one
// '*' and returns the captured segment chain.
func matchWildcard(pattern string, specifier string) (string, bool) {
	star := strings.Index(pattern, "*")
	if star < 0 {
		return "", pattern == specifier
	}

	prefix := pattern[:star]
	suffix := pattern[star+1:]

	if !strings.HasPrefix(specifier, prefix) || !strings.HasSuffix(specifier, suffix) {
		return "", false
	}
	if len(specifier) < len(prefix)+len(suffix) {
		return "", false
	}

	return specifier[len(prefix) : len(specifier)-len(suffix)], true
}

func isRelative(specifier string) bool {
	return strings.HasPrefix(specifier, "./") || strings.HasPrefix(specifier, "../")
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

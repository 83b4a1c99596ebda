package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// ignoreCacheEntry holds cached ignore patterns with metadata
type ignoreCacheEntry struct {
	patterns []string
	modTime  time.Time
}

// Global cache for ignore patterns
var (
	ignoreCache = make(map[string]*ignoreCacheEntry)
	cacheMutex  sync.RWMutex
)

// GetIgnorePatterns reads and returns the patterns from the .depscope-ignore
// file in the project root. If the file does not exist, it returns an empty
// pattern list. Parsed patterns are cached per file modification time.
func GetIgnorePatterns(rootDir string) ([]string, error) {
	ignorePath := filepath.Join(rootDir, ".depscope-ignore")

	fileInfo, err := os.Stat(ignorePath)
	if os.IsNotExist(err) {
		return []string{}, nil
	} else if err != nil {
		return nil, fmt.Errorf("error checking .depscope-ignore: %w", err)
	}

	cacheMutex.RLock()
	if cached, exists := ignoreCache[ignorePath]; exists {
		if fileInfo.ModTime().Equal(cached.modTime) {
			cacheMutex.RUnlock()
			return cached.patterns, nil
		}
	}
	cacheMutex.RUnlock()

	patterns, err := readIgnoreFile(ignorePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read .depscope-ignore: %w", err)
	}

	cacheMutex.Lock()
	ignoreCache[ignorePath] = &ignoreCacheEntry{
		patterns: patterns,
		modTime:  fileInfo.ModTime(),
	}
	cacheMutex.Unlock()

	return patterns, nil
}

// IsDefaultIgnored reports whether a relative path falls under the built-in
// ignore rules. These cover VCS metadata, build output and vendored trees
// that never contribute graph nodes.
func IsDefaultIgnored(path string) bool {
	ignorePatterns := []string{
		".git",
		".svn",
		".hg",
		".idea",
		".vscode",
		".cache",
		".depscope",
		"node_modules",
		"bower_components",
		"dist",
		"build",
		"out",
		"coverage",
		"*.min.js",
		"*.min.css",
		"*.map",
		"*.d.ts",
	}

	parts := strings.Split(path, "/")

	for _, part := range parts {
		part = strings.ToLower(part)
		for _, pattern := range ignorePatterns {
			if strings.HasPrefix(pattern, "*") {
				suffix := strings.TrimPrefix(pattern, "*")
				if strings.HasSuffix(part, suffix) {
					return true
				}
			} else if part == pattern {
				return true
			}
		}
	}
	return false
}

// readIgnoreFile reads the ignore file and returns the list of patterns.
func readIgnoreFile(ignorePath string) ([]string, error) {
	content, err := os.ReadFile(ignorePath)
	if err != nil {
		return nil, err
	}
	lines := strings.Split(string(content), "\n")
	var patterns []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "#") {
			patterns = append(patterns, line)
		}
	}
	return patterns, nil
}

// IsIgnored checks if a relative file path matches any ignore pattern.
func IsIgnored(path string, patterns []string) bool {
	for _, pattern := range patterns {
		match, _ := filepath.Match(pattern, path)
		if match {
			return true
		}
		// Handle patterns like "dir/" that ignore entire directories
		if strings.HasSuffix(pattern, "/") && strings.HasPrefix(path, pattern) {
			return true
		}
	}
	return false
}

// ClearIgnoreCache clears all cached ignore patterns
func ClearIgnoreCache() {
	cacheMutex.Lock()
	defer cacheMutex.Unlock()
	ignoreCache = make(map[string]*ignoreCacheEntry)
}

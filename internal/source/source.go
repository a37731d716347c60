// Package source resolves deck sources. A source is either a local directory
// or a git repository URL; either way it yields the question/answer pairs
// parsed from every markdown deck file found inside.
package source

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/conorfennell/apkgen/internal/domain"
	"github.com/conorfennell/apkgen/internal/gitsource"
	"github.com/conorfennell/apkgen/internal/parser"
)

// IsGitURL reports whether a source string names a git repository rather
// than a local directory.
func IsGitURL(path string) bool {
	return strings.HasSuffix(path, ".git") ||
		strings.HasPrefix(path, "git@") ||
		strings.HasPrefix(path, "https://") ||
		strings.HasPrefix(path, "http://")
}

// Load resolves src to a local directory (syncing git sources into reposDir
// first) and parses every .md file under it, in walk order. Parse failures
// for individual files are joined into the returned error; pairs from the
// files that did parse are still returned, so the caller decides whether a
// partial read is acceptable.
func Load(src, reposDir string) ([]domain.Pair, error) {
	dir := src
	if IsGitURL(src) {
		local, err := LocalPath(reposDir, src)
		if err != nil {
			return nil, err
		}
		if err := gitsource.Sync(src, local); err != nil {
			return nil, err
		}
		dir = local
	}

	var pairs []domain.Pair
	var parseErrs []error
	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(strings.ToLower(d.Name()), ".md") {
			filePairs, parseErr := parser.ParseFile(path)
			if parseErr != nil {
				parseErrs = append(parseErrs, fmt.Errorf("parsing %s: %w", path, parseErr))
			}
			pairs = append(pairs, filePairs...)
		}
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("walking %s: %w", dir, walkErr)
	}

	return pairs, errors.Join(parseErrs...)
}

// LocalPath maps a git URL onto a checkout directory under baseDir, keyed by
// host and repository path so distinct repos never share a checkout.
func LocalPath(baseDir, repoURL string) (string, error) {
	parsedURL, err := url.Parse(repoURL)
	if err != nil || (parsedURL.Scheme != "https" && parsedURL.Scheme != "http") {
		// scp-like syntax: git@host:user/repo.git
		if strings.Contains(repoURL, "@") {
			parts := strings.Split(repoURL, ":")
			if len(parts) == 2 {
				hostAndUser := strings.Split(parts[0], "@")
				if len(hostAndUser) == 2 {
					host := hostAndUser[1]
					repoPath := strings.TrimSuffix(parts[1], ".git")
					return filepath.Join(baseDir, host, repoPath), nil
				}
			}
		}
		return "", fmt.Errorf("could not parse git URL: %s", repoURL)
	}

	sanitizedPath := strings.TrimSuffix(parsedURL.Path, ".git")
	return filepath.Join(baseDir, parsedURL.Host, sanitizedPath), nil
}

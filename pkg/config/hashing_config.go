// Copyright 2025 The Sigstore Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config holds the library-side configuration for hashing files.
package config

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/hashicorp/go-multierror"

	hashengines "github.com/sigstore/blockdigest/pkg/hashing/engines"
	hashio "github.com/sigstore/blockdigest/pkg/hashing/engines/io"
	"github.com/sigstore/blockdigest/pkg/hashing/engines/memory"
)

// Defaults applied by NewHashingConfig.
const (
	DefaultAlgorithm      = memory.SHA1
	DefaultImplementation = "auto"
	DefaultChunkSize      = hashio.DefaultChunkSize
)

// Stdin is the path that stands for standard input.
const Stdin = "-"

// HashingConfig determines which files to hash and how to hash them.
type HashingConfig struct {
	// Registered engine name (e.g. "sha1", "whirlpool")
	algorithm string

	// Implementation for algorithms that ship several ("auto" picks one)
	implementation string

	// Read size in bytes (0 = read whole files at once)
	chunkSize int

	// Number of files hashed concurrently
	jobs int

	// Whether directories are walked
	recursive bool

	// Whether symlinks found while walking are followed
	allowSymlinks bool

	// Paths skipped while walking
	ignoredPaths []string

	// Whether git metadata is skipped while walking
	ignoreGitPaths bool
}

var gitRelatedPaths = []string{
	".git",
	".gitignore",
	".gitattributes",
	".github",
	".gitmodules",
}

// NewHashingConfig creates a configuration with defaults.
func NewHashingConfig() *HashingConfig {
	return &HashingConfig{
		algorithm:      DefaultAlgorithm,
		implementation: DefaultImplementation,
		chunkSize:      DefaultChunkSize,
		jobs:           runtime.NumCPU(),
		ignoredPaths:   []string{},
	}
}

// SetAlgorithm selects the engine and, for block algorithms, its
// implementation. An empty implementation means "auto".
func (c *HashingConfig) SetAlgorithm(algorithm, implementation string) *HashingConfig {
	c.algorithm = algorithm
	if implementation == "" {
		implementation = DefaultImplementation
	}
	c.implementation = implementation
	return c
}

// SetChunkSize sets the read size for files.
func (c *HashingConfig) SetChunkSize(size int) *HashingConfig {
	c.chunkSize = size
	return c
}

// SetJobs sets how many files may be hashed at once.
func (c *HashingConfig) SetJobs(jobs int) *HashingConfig {
	c.jobs = jobs
	return c
}

// SetRecursive sets whether directory arguments are walked.
func (c *HashingConfig) SetRecursive(recursive bool) *HashingConfig {
	c.recursive = recursive
	return c
}

// SetAllowSymlinks sets whether symlinks met while walking are followed.
func (c *HashingConfig) SetAllowSymlinks(allow bool) *HashingConfig {
	c.allowSymlinks = allow
	return c
}

// SetIgnoredPaths replaces the ignore list. Relative entries are matched
// against paths relative to the directory being walked. If ignoreGitPaths
// is true, common git metadata is ignored as well.
func (c *HashingConfig) SetIgnoredPaths(paths []string, ignoreGitPaths bool) *HashingConfig {
	c.ignoredPaths = append([]string(nil), paths...)
	c.ignoreGitPaths = ignoreGitPaths
	if ignoreGitPaths {
		c.ignoredPaths = append(c.ignoredPaths, gitRelatedPaths...)
	}
	return c
}

// AddIgnoredPaths adds paths to the ignore list, anchoring relative ones
// at root.
func (c *HashingConfig) AddIgnoredPaths(root string, paths []string) *HashingConfig {
	for _, p := range paths {
		if !filepath.IsAbs(p) {
			p = filepath.Join(root, p)
		}
		c.ignoredPaths = append(c.ignoredPaths, p)
	}
	return c
}

// Algorithm returns the configured engine name.
func (c *HashingConfig) Algorithm() string { return c.algorithm }

// Implementation returns the configured implementation.
func (c *HashingConfig) Implementation() string { return c.implementation }

// ChunkSize returns the read size.
func (c *HashingConfig) ChunkSize() int { return c.chunkSize }

// Jobs returns the concurrency limit.
func (c *HashingConfig) Jobs() int { return c.jobs }

// IgnoredPaths returns a copy of the ignore list.
func (c *HashingConfig) IgnoredPaths() []string {
	return append([]string(nil), c.ignoredPaths...)
}

// Validate reports every problem with the configuration at once.
func (c *HashingConfig) Validate() error {
	var result *multierror.Error

	if !hashengines.IsSupported(c.algorithm) {
		result = multierror.Append(result, fmt.Errorf("unsupported hash algorithm: %s (supported: %v)",
			c.algorithm, hashengines.SupportedAlgorithms()))
	} else if c.implementation != DefaultImplementation {
		if _, err := memory.New(c.algorithm, c.implementation); err != nil {
			result = multierror.Append(result, err)
		}
	}
	if c.chunkSize < 0 {
		result = multierror.Append(result, fmt.Errorf("chunk size must be non-negative, got %d", c.chunkSize))
	}
	if c.jobs <= 0 {
		result = multierror.Append(result, fmt.Errorf("jobs must be positive, got %d", c.jobs))
	}

	return result.ErrorOrNil()
}

// NewEngine builds a fresh engine for the configured algorithm.
func (c *HashingConfig) NewEngine() (hashengines.StreamingHashEngine, error) {
	return memory.New(c.algorithm, c.implementation)
}

// NewFileHasher builds a file hasher with its own engine.
func (c *HashingConfig) NewFileHasher(path string) (*hashio.FileHasher, error) {
	engine, err := c.NewEngine()
	if err != nil {
		return nil, err
	}
	return hashio.NewFileHasher(path, engine, c.chunkSize, "")
}

// CollectFiles expands paths into the list of files to hash, preserving
// argument order. Stdin and plain files are kept as given; directories
// are walked in lexical order when recursion is on and rejected otherwise.
// Ignore rules and the symlink policy apply only to walked entries.
// Stdin may be named at most once.
func (c *HashingConfig) CollectFiles(paths []string) ([]string, error) {
	var (
		files []string
		stdin bool
	)
	for _, p := range paths {
		if p == Stdin {
			if stdin {
				return nil, fmt.Errorf("%s: standard input given more than once", Stdin)
			}
			stdin = true
			files = append(files, p)
			continue
		}

		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}
		if !c.recursive {
			return nil, fmt.Errorf("%s: is a directory", p)
		}

		walked, err := c.walkDirectory(p)
		if err != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", p, err)
		}
		files = append(files, walked...)
	}
	return files, nil
}

func (c *HashingConfig) walkDirectory(root string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}

		if c.shouldIgnorePath(path, root) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			return nil
		}

		if d.Type()&fs.ModeSymlink != 0 {
			if !c.allowSymlinks {
				return nil
			}
			targetInfo, err := os.Stat(path)
			if err != nil {
				return fmt.Errorf("failed to stat symlink target %s: %w", path, err)
			}
			if targetInfo.IsDir() {
				return nil
			}
		} else if !d.Type().IsRegular() {
			return nil
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return files, nil
}

func (c *HashingConfig) shouldIgnorePath(path, root string) bool {
	relPath, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}

	for _, ignoredPath := range c.ignoredPaths {
		compareWith := relPath
		if filepath.IsAbs(ignoredPath) {
			if compareWith, err = filepath.Abs(path); err != nil {
				continue
			}
		}
		ignoredPath = filepath.Clean(ignoredPath)

		if compareWith == ignoredPath || strings.HasPrefix(compareWith, ignoredPath+string(filepath.Separator)) {
			return true
		}
	}

	return false
}

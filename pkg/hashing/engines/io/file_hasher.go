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

package io

import (
	"context"
	"fmt"
	"os"

	"github.com/sigstore/blockdigest/pkg/hashing/digests"
	hashengines "github.com/sigstore/blockdigest/pkg/hashing/engines"
	"github.com/sigstore/blockdigest/pkg/tracing"
)

var _ hashengines.HashEngine = (*FileHasher)(nil)

// FileHasher hashes a whole file by streaming it through a
// StreamingHashEngine. The file is read once and never held in memory
// unless chunkSize is zero.
//
// A FileHasher owns its engine and must not be used concurrently.
type FileHasher struct {
	filePath           string
	contentHasher      hashengines.StreamingHashEngine
	chunkSize          int
	digestNameOverride string
}

// NewFileHasher constructs a FileHasher.
//
//   - filePath: path to the file to hash
//   - contentHasher: the engine used to hash the file contents
//   - chunkSize: bytes per read; 0 reads the whole file at once
//   - digestNameOverride: if non-empty, replaces the engine's name in
//     the returned digests
func NewFileHasher(
	filePath string,
	contentHasher hashengines.StreamingHashEngine,
	chunkSize int,
	digestNameOverride string,
) (*FileHasher, error) {
	if chunkSize < 0 {
		return nil, fmt.Errorf("chunk size must be non-negative, got %d", chunkSize)
	}

	if filePath == "" {
		return nil, fmt.Errorf("file path must be non-empty")
	}

	if contentHasher == nil {
		return nil, fmt.Errorf("content hasher must not be nil")
	}

	return &FileHasher{
		filePath:           filePath,
		contentHasher:      contentHasher,
		chunkSize:          chunkSize,
		digestNameOverride: digestNameOverride,
	}, nil
}

// SetFile changes the file hashed by the next Compute call.
func (h *FileHasher) SetFile(filePath string) error {
	if filePath == "" {
		return fmt.Errorf("file path must be non-empty")
	}
	h.filePath = filePath
	return nil
}

// Path returns the file that will be hashed.
func (h *FileHasher) Path() string {
	return h.filePath
}

// DigestName returns either the override or the engine's name.
func (h *FileHasher) DigestName() string {
	if h.digestNameOverride != "" {
		return h.digestNameOverride
	}
	return h.contentHasher.DigestName()
}

// DigestSize is delegated to the engine.
func (h *FileHasher) DigestSize() int {
	return h.contentHasher.DigestSize()
}

// Compute hashes the file with a background context.
func (h *FileHasher) Compute() (digests.Digest, error) {
	return h.ComputeContext(context.Background())
}

// ComputeContext hashes the file, giving up between chunks once ctx is
// done.
func (h *FileHasher) ComputeContext(ctx context.Context) (digests.Digest, error) {
	var out digests.Digest
	attrs := map[string]any{
		"file.path":        h.filePath,
		"hash.algorithm":   h.DigestName(),
		"hash.chunk_bytes": h.chunkSize,
	}
	err := tracing.Run(ctx, "blockdigest.hash_file", attrs, func(ctx context.Context) error {
		f, err := os.Open(h.filePath)
		if err != nil {
			return fmt.Errorf("open file %q: %w", h.filePath, err)
		}
		defer f.Close()

		d, err := HashReader(ctx, f, h.contentHasher, h.chunkSize)
		if err != nil {
			return fmt.Errorf("hash file %q: %w", h.filePath, err)
		}
		out = digests.NewDigest(h.DigestName(), d.Value())
		return nil
	})
	return out, err
}

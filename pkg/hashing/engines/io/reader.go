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

// Package io feeds readers and files into hash engines.
package io

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sigstore/blockdigest/pkg/hashing/digests"
	hashengines "github.com/sigstore/blockdigest/pkg/hashing/engines"
)

// DefaultChunkSize is the read size used when callers have no preference.
const DefaultChunkSize = 8192

// HashReader resets engine and streams r into it, chunkSize bytes at a
// time. A chunkSize of zero reads r in one go. The context is checked
// before every read so a long stream can be abandoned.
func HashReader(ctx context.Context, r io.Reader, engine hashengines.StreamingHashEngine, chunkSize int) (digests.Digest, error) {
	if chunkSize < 0 {
		return digests.Digest{}, fmt.Errorf("chunk size must be non-negative, got %d", chunkSize)
	}
	if engine == nil {
		return digests.Digest{}, fmt.Errorf("hash engine must not be nil")
	}

	engine.Reset(nil)

	if chunkSize == 0 {
		if err := ctx.Err(); err != nil {
			return digests.Digest{}, err
		}
		data, err := io.ReadAll(r)
		if err != nil {
			return digests.Digest{}, fmt.Errorf("read: %w", err)
		}
		engine.Update(data)
		return engine.Compute()
	}

	buf := make([]byte, chunkSize)
	for {
		if err := ctx.Err(); err != nil {
			return digests.Digest{}, err
		}
		n, err := r.Read(buf)
		if n > 0 {
			engine.Update(buf[:n])
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return digests.Digest{}, fmt.Errorf("read: %w", err)
		}
	}

	return engine.Compute()
}

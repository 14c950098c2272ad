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

// Package hashengines defines the engine abstraction shared by the in-memory
// and I/O hashers, along with a process-wide registry of named engines.
package hashengines

import (
	"github.com/sigstore/blockdigest/pkg/hashing/digests"
)

// HashEngine computes a digest over the data it has been fed.
type HashEngine interface {
	// Compute returns the digest of everything fed so far. It does not end
	// the stream: more data may follow and Compute may be called again.
	Compute() (digests.Digest, error)

	// DigestName returns the canonical algorithm name recorded in the
	// digests returned by Compute. Engines that differ only in how they
	// compute the same function share a name.
	DigestName() string

	// DigestSize returns the size in bytes of digests produced by this engine.
	DigestSize() int
}

// Streaming is implemented by engines that accept data incrementally.
type Streaming interface {
	// Update appends bytes to the data being hashed.
	Update(data []byte)

	// Reset clears the hash state and seeds it with data, which may be nil.
	Reset(data []byte)
}

// StreamingHashEngine combines HashEngine and Streaming.
type StreamingHashEngine interface {
	HashEngine
	Streaming
}

// Blocked is implemented by engines that process input in fixed-size
// blocks.
type Blocked interface {
	BlockSize() int
}

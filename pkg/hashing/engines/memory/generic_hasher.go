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

// Package memory provides hash engines that operate on in-memory data.
package memory

import (
	"hash"

	"github.com/sigstore/blockdigest/pkg/hashing/digests"
	hashengines "github.com/sigstore/blockdigest/pkg/hashing/engines"
)

var (
	_ hashengines.StreamingHashEngine = (*GenericHashEngine)(nil)
	_ hashengines.Blocked             = (*GenericHashEngine)(nil)
)

// HashFactoryFunc creates a new hash.Hash instance.
type HashFactoryFunc func() (hash.Hash, error)

// GenericHashEngine adapts any hash.Hash to the StreamingHashEngine
// interface. The block algorithms of this module and the standard library
// hashes are all served by it.
type GenericHashEngine struct {
	name string
	h    hash.Hash
}

// NewGenericHashEngine creates an engine named name around a fresh hash
// from factory. If initialData is non-empty it is hashed immediately.
func NewGenericHashEngine(name string, factory HashFactoryFunc, initialData []byte) (*GenericHashEngine, error) {
	h, err := factory()
	if err != nil {
		return nil, err
	}

	engine := &GenericHashEngine{name: name, h: h}
	engine.Update(initialData)
	return engine, nil
}

// Update appends additional bytes to the data to be hashed.
func (e *GenericHashEngine) Update(data []byte) {
	if len(data) > 0 {
		// hash.Hash.Write never returns an error.
		_, _ = e.h.Write(data)
	}
}

// Write implements io.Writer so the engine can be the target of io.Copy.
func (e *GenericHashEngine) Write(p []byte) (int, error) {
	e.Update(p)
	return len(p), nil
}

// Reset clears the hash state and seeds it with data.
func (e *GenericHashEngine) Reset(data []byte) {
	e.h.Reset()
	e.Update(data)
}

// Compute returns the digest of the data written so far.
func (e *GenericHashEngine) Compute() (digests.Digest, error) {
	return digests.NewDigest(e.name, e.h.Sum(nil)), nil
}

// DigestName returns the canonical name of the hash algorithm.
func (e *GenericHashEngine) DigestName() string {
	return e.name
}

// DigestSize returns the size, in bytes, of digests produced by this engine.
func (e *GenericHashEngine) DigestSize() int {
	return e.h.Size()
}

// BlockSize returns the block size of the underlying hash.
func (e *GenericHashEngine) BlockSize() int {
	return e.h.BlockSize()
}

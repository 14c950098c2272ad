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

package memory

import (
	"crypto/sha256"
	"fmt"
	"hash"

	"golang.org/x/crypto/blake2b"

	hashengines "github.com/sigstore/blockdigest/pkg/hashing/engines"
	"github.com/sigstore/blockdigest/pkg/hashing/sha1"
	"github.com/sigstore/blockdigest/pkg/hashing/whirlpool"
)

// Registered engine names.
const (
	SHA1               = "sha1"
	SHA1Generic        = "sha1-generic"
	Whirlpool          = "whirlpool"
	WhirlpoolReference = "whirlpool-reference"
	SHA256             = "sha256"
	BLAKE2b            = "blake2b"
)

func init() {
	hashengines.MustRegister(SHA1, func() (hashengines.StreamingHashEngine, error) {
		return NewSHA1Engine(sha1.Auto, nil)
	})
	hashengines.MustRegister(SHA1Generic, func() (hashengines.StreamingHashEngine, error) {
		return NewSHA1Engine(sha1.Generic, nil)
	})
	hashengines.MustRegister(Whirlpool, func() (hashengines.StreamingHashEngine, error) {
		return NewWhirlpoolEngine(whirlpool.Auto, nil)
	})
	hashengines.MustRegister(WhirlpoolReference, func() (hashengines.StreamingHashEngine, error) {
		return NewWhirlpoolEngine(whirlpool.Reference, nil)
	})
	hashengines.MustRegister(SHA256, func() (hashengines.StreamingHashEngine, error) {
		return NewSHA256Engine(nil)
	})
	hashengines.MustRegister(BLAKE2b, func() (hashengines.StreamingHashEngine, error) {
		return NewBLAKE2(nil)
	})
}

// NewSHA1Engine creates a SHA-1 engine backed by the given implementation.
func NewSHA1Engine(impl sha1.Implementation, initialData []byte) (*GenericHashEngine, error) {
	return NewGenericHashEngine(sha1.Name, func() (hash.Hash, error) {
		return sha1.NewWith(impl)
	}, initialData)
}

// NewWhirlpoolEngine creates a Whirlpool engine backed by the given
// implementation.
func NewWhirlpoolEngine(impl whirlpool.Implementation, initialData []byte) (*GenericHashEngine, error) {
	return NewGenericHashEngine(whirlpool.Name, func() (hash.Hash, error) {
		return whirlpool.NewWith(impl)
	}, initialData)
}

// NewSHA256Engine creates a SHA-256 engine from crypto/sha256.
func NewSHA256Engine(initialData []byte) (*GenericHashEngine, error) {
	return NewGenericHashEngine(SHA256, func() (hash.Hash, error) {
		return sha256.New(), nil
	}, initialData)
}

// NewBLAKE2 creates an unkeyed BLAKE2b-512 engine.
func NewBLAKE2(initialData []byte) (*GenericHashEngine, error) {
	return NewGenericHashEngine(BLAKE2b, func() (hash.Hash, error) {
		return blake2b.New512(nil)
	}, initialData)
}

// New creates an engine for algorithm using the named implementation. An
// empty or "auto" implementation defers to the registry; any other value
// is only meaningful for the algorithms that ship several.
func New(algorithm, impl string) (hashengines.StreamingHashEngine, error) {
	if impl == "" || impl == "auto" {
		return hashengines.Create(algorithm)
	}

	switch algorithm {
	case SHA1:
		return NewSHA1Engine(sha1.Implementation(impl), nil)
	case Whirlpool:
		return NewWhirlpoolEngine(whirlpool.Implementation(impl), nil)
	default:
		return nil, fmt.Errorf("hash algorithm %q has no implementation %q", algorithm, impl)
	}
}

// Implementations returns the selectable implementations of algorithm,
// or nil if it has only one.
func Implementations(algorithm string) []string {
	var out []string
	switch algorithm {
	case SHA1:
		for _, impl := range sha1.Implementations() {
			out = append(out, string(impl))
		}
	case Whirlpool:
		for _, impl := range whirlpool.Implementations() {
			out = append(out, string(impl))
		}
	}
	return out
}

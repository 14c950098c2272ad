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

// Package digests provides a value type for computed hash digests.
//
// A Digest pairs an algorithm name with the raw digest bytes. Its fields
// are unexported and the byte slice is copied on the way in and out, so a
// Digest can be shared freely between goroutines.
package digests

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// ErrMalformed is returned by Parse for strings not of the form
// "algorithm:hex".
var ErrMalformed = errors.New("malformed digest")

// Digest represents a computed hash digest.
type Digest struct {
	algorithm string
	value     []byte
}

// NewDigest creates a Digest for the given algorithm. The value slice is
// copied.
func NewDigest(algorithm string, value []byte) Digest {
	return Digest{
		algorithm: algorithm,
		value:     bytes.Clone(value),
	}
}

// Parse reads a digest in the "algorithm:hex" form produced by String.
// The hex part is case-insensitive and must not be empty.
func Parse(s string) (Digest, error) {
	alg, hexValue, ok := strings.Cut(s, ":")
	if !ok || alg == "" || hexValue == "" {
		return Digest{}, fmt.Errorf("%w: %q", ErrMalformed, s)
	}
	value, err := hex.DecodeString(hexValue)
	if err != nil {
		return Digest{}, fmt.Errorf("%w: %q: %v", ErrMalformed, s, err)
	}
	return Digest{algorithm: strings.ToLower(alg), value: value}, nil
}

// Algorithm returns the name of the hash algorithm used to compute this
// digest.
func (d Digest) Algorithm() string {
	return d.algorithm
}

// Value returns a copy of the raw digest bytes.
func (d Digest) Value() []byte {
	return bytes.Clone(d.value)
}

// Hex returns the lowercase hexadecimal encoding of the digest value.
func (d Digest) Hex() string {
	return hex.EncodeToString(d.value)
}

// Size returns the length in bytes of the digest value.
func (d Digest) Size() int {
	return len(d.value)
}

// IsZero reports whether d carries no value.
func (d Digest) IsZero() bool {
	return d.algorithm == "" && len(d.value) == 0
}

// String returns the digest as "algorithm:hexvalue".
func (d Digest) String() string {
	return fmt.Sprintf("%s:%s", d.algorithm, d.Hex())
}

// Equal reports whether both digests name the same algorithm and carry
// identical values.
func (d Digest) Equal(other Digest) bool {
	return d.algorithm == other.algorithm && bytes.Equal(d.value, other.value)
}

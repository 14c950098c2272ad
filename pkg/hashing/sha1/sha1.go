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

// Package sha1 implements the SHA-1 hash algorithm on top of the shared
// blockhash engine.
//
// Two compression functions with identical behavior are available: the
// generic one expands each block into the full 80-word message schedule,
// the fast one keeps a rolling 16-word window and splits the rounds by
// boolean function. The implementation is chosen when an engine is built.
//
// SHA-1 is cryptographically broken and should only be used for
// compatibility with existing formats.
package sha1

import (
	"encoding/binary"
	"fmt"

	"github.com/sigstore/blockdigest/pkg/hashing/blockhash"
)

const (
	// Size is the size of a SHA-1 digest in bytes.
	Size = 20

	// BlockSize is the SHA-1 block size in bytes.
	BlockSize = 64

	// Name is the canonical algorithm name.
	Name = "sha1"

	lengthSize = 8
)

// State is the SHA-1 chaining value.
type State [5]uint32

var iv = State{0x67452301, 0xefcdab89, 0x98badcfe, 0x10325476, 0xc3d2e1f0}

// Implementation selects a compression function.
type Implementation string

const (
	// Auto picks the fastest available implementation.
	Auto Implementation = "auto"
	// Generic uses the explicit 80-word message schedule.
	Generic Implementation = "generic"
	// Fast uses a rolling 16-word schedule.
	Fast Implementation = "fast"
)

// Implementations lists the concrete implementations, excluding Auto.
func Implementations() []Implementation {
	return []Implementation{Generic, Fast}
}

// Digest is a streaming SHA-1 computation.
type Digest = blockhash.Engine[State]

type algorithm struct {
	compress func(s *State, p []byte)
}

var _ blockhash.Algorithm[State] = algorithm{}

func (algorithm) Name() string     { return Name }
func (algorithm) Size() int        { return Size }
func (algorithm) BlockSize() int   { return BlockSize }
func (algorithm) LengthSize() int  { return lengthSize }
func (algorithm) MaxBytes() uint64 { return 1<<61 - 1 }
func (algorithm) Init(s *State)    { *s = iv }

func (a algorithm) Compress(s *State, blocks []byte) {
	a.compress(s, blocks)
}

func (algorithm) Output(s *State, out []byte) {
	for i, v := range s {
		binary.BigEndian.PutUint32(out[4*i:], v)
	}
}

func (algorithm) AppendState(b []byte, s *State) []byte {
	for _, v := range s {
		b = binary.BigEndian.AppendUint32(b, v)
	}
	return b
}

func (algorithm) ReadState(s *State, b []byte) ([]byte, error) {
	if len(b) < 4*len(s) {
		return nil, fmt.Errorf("sha1 state needs %d bytes, have %d", 4*len(s), len(b))
	}
	for i := range s {
		s[i] = binary.BigEndian.Uint32(b[4*i:])
	}
	return b[4*len(s):], nil
}

// Algorithm returns the blockhash.Algorithm for the given implementation.
func Algorithm(impl Implementation) (blockhash.Algorithm[State], error) {
	switch impl {
	case Auto, "":
		return algorithm{compress: blockFast}, nil
	case Generic:
		return algorithm{compress: blockGeneric}, nil
	case Fast:
		return algorithm{compress: blockFast}, nil
	default:
		return nil, fmt.Errorf("unknown sha1 implementation %q", impl)
	}
}

// New returns a SHA-1 Digest using the automatically selected implementation.
func New() *Digest {
	return blockhash.New[State](algorithm{compress: blockFast})
}

// NewWith returns a SHA-1 Digest using the given implementation.
func NewWith(impl Implementation) (*Digest, error) {
	alg, err := Algorithm(impl)
	if err != nil {
		return nil, err
	}
	return blockhash.New(alg), nil
}

// Sum returns the SHA-1 digest of data.
func Sum(data []byte) [Size]byte {
	d := New()
	_, _ = d.Write(data)

	var out [Size]byte
	copy(out[:], d.Finalize())
	return out
}

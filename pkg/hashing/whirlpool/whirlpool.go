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

// Package whirlpool implements the Whirlpool hash function (ISO/IEC
// 10118-3) on top of the shared blockhash engine.
//
// The compression function is a Miyaguchi–Preneel construction around a
// dedicated 512-bit block cipher whose key schedule reuses the round
// function. Two implementations are provided: a table-driven one that
// folds the round layers into eight 2 KiB lookup tables, and a byte-wise
// reference one that applies each layer separately.
package whirlpool

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/klauspost/cpuid/v2"

	"github.com/sigstore/blockdigest/pkg/hashing/blockhash"
)

const (
	// Size is the size of a Whirlpool digest in bytes.
	Size = 64

	// BlockSize is the Whirlpool block size in bytes.
	BlockSize = 64

	// Name is the canonical algorithm name.
	Name = "whirlpool"

	// lengthSize is the width of the 256-bit message length field.
	lengthSize = 32

	tableBytes = 8 * 256 * 8
)

// State is the Whirlpool chaining value: row i of the 8×8 byte matrix is
// the big-endian word State[i].
type State [8]uint64

// Implementation selects a compression function.
type Implementation string

const (
	// Auto picks an implementation suited to the host CPU.
	Auto Implementation = "auto"
	// Reference applies the round layers byte by byte.
	Reference Implementation = "reference"
	// Table uses the precomputed lookup tables.
	Table Implementation = "table"
)

// Implementations lists the concrete implementations, excluding Auto.
func Implementations() []Implementation {
	return []Implementation{Reference, Table}
}

// Digest is a streaming Whirlpool computation.
type Digest = blockhash.Engine[State]

var (
	autoOnce sync.Once
	autoImpl Implementation
)

// Resolve maps Auto to the implementation chosen for this process. The
// table-driven implementation is used unless the CPU reports an L1 data
// cache too small to hold the lookup tables. The decision is made once.
func Resolve(impl Implementation) Implementation {
	if impl != Auto && impl != "" {
		return impl
	}
	autoOnce.Do(func() {
		autoImpl = Table
		if l1d := cpuid.CPU.Cache.L1D; l1d > 0 && l1d < tableBytes {
			autoImpl = Reference
		}
	})
	return autoImpl
}

type algorithm struct {
	compress func(s *State, p []byte)
}

var _ blockhash.Algorithm[State] = algorithm{}

func (algorithm) Name() string     { return Name }
func (algorithm) Size() int        { return Size }
func (algorithm) BlockSize() int   { return BlockSize }
func (algorithm) LengthSize() int  { return lengthSize }
func (algorithm) MaxBytes() uint64 { return ^uint64(0) }
func (algorithm) Init(s *State)    { *s = State{} }

func (a algorithm) Compress(s *State, blocks []byte) {
	a.compress(s, blocks)
}

func (algorithm) Output(s *State, out []byte) {
	for i, v := range s {
		binary.BigEndian.PutUint64(out[8*i:], v)
	}
}

func (algorithm) AppendState(b []byte, s *State) []byte {
	for _, v := range s {
		b = binary.BigEndian.AppendUint64(b, v)
	}
	return b
}

func (algorithm) ReadState(s *State, b []byte) ([]byte, error) {
	if len(b) < 8*len(s) {
		return nil, fmt.Errorf("whirlpool state needs %d bytes, have %d", 8*len(s), len(b))
	}
	for i := range s {
		s[i] = binary.BigEndian.Uint64(b[8*i:])
	}
	return b[8*len(s):], nil
}

// Algorithm returns the blockhash.Algorithm for the given implementation.
func Algorithm(impl Implementation) (blockhash.Algorithm[State], error) {
	switch Resolve(impl) {
	case Table:
		return algorithm{compress: blockTable}, nil
	case Reference:
		return algorithm{compress: blockReference}, nil
	default:
		return nil, fmt.Errorf("unknown whirlpool implementation %q", impl)
	}
}

// New returns a Whirlpool Digest using the automatically selected
// implementation.
func New() *Digest {
	alg, _ := Algorithm(Auto)
	return blockhash.New(alg)
}

// NewWith returns a Whirlpool Digest using the given implementation.
func NewWith(impl Implementation) (*Digest, error) {
	alg, err := Algorithm(impl)
	if err != nil {
		return nil, err
	}
	return blockhash.New(alg), nil
}

// Sum returns the Whirlpool digest of data.
func Sum(data []byte) [Size]byte {
	d := New()
	_, _ = d.Write(data)

	var out [Size]byte
	copy(out[:], d.Finalize())
	return out
}

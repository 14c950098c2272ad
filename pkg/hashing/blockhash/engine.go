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

// Package blockhash provides the streaming engine shared by block-oriented
// (Merkle-Damgard) hash functions.
//
// An Engine owns the running state of one hash computation. It splits the
// incoming byte stream into blocks with a Buffer, hands every complete
// block to the compression function of its Algorithm, and on Finalize
// appends the standard padding (0x80, zero fill, big-endian bit length)
// through the same path before serializing the state.
//
// The compression function is a strategy: an Algorithm is chosen when the
// Engine is constructed and stays fixed for its lifetime, including across
// Reset. Portable and accelerated implementations of the same hash are
// simply different Algorithm values with identical input/output behavior.
package blockhash

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash"
)

var (
	// ErrFinalized is the panic value raised when an Engine is written to
	// or finalized again after Finalize without an intervening Reset.
	ErrFinalized = errors.New("blockhash: engine used after finalize")

	// ErrTooLong is the panic value raised when the total input would
	// exceed what the algorithm's length field can represent.
	ErrTooLong = errors.New("blockhash: input exceeds maximum message length")

	// ErrInvalidState is returned by UnmarshalBinary for malformed or
	// mismatched state.
	ErrInvalidState = errors.New("blockhash: invalid hash state")
)

// Algorithm describes one block hash function operating on a running
// state of type S. S must be a value type (an array or a struct of
// arrays) so that copying it copies the whole state.
type Algorithm[S any] interface {
	// Name is the canonical algorithm name. It is identical for every
	// implementation of the same hash, so saved states are portable
	// between them.
	Name() string
	// Size is the digest length in bytes.
	Size() int
	// BlockSize is the compression function input length in bytes.
	BlockSize() int
	// LengthSize is the width in bytes of the trailing bit-length field.
	LengthSize() int
	// MaxBytes is the largest total input, in bytes, the length field
	// can describe.
	MaxBytes() uint64

	// Init sets s to the initial chaining value.
	Init(s *S)
	// Compress folds blocks, a multiple of BlockSize bytes, into s.
	Compress(s *S, blocks []byte)
	// Output serializes s into out, which has Size bytes.
	Output(s *S, out []byte)

	// AppendState appends the binary form of s to b.
	AppendState(b []byte, s *S) []byte
	// ReadState decodes a state written by AppendState from the front of
	// b and returns the remaining bytes.
	ReadState(s *S, b []byte) ([]byte, error)
}

// Engine is a streaming hash computation over an Algorithm.
//
// It implements hash.Hash. Finalize is terminal: after it, Write and
// Finalize panic with ErrFinalized until Reset is called. Sum finalizes a
// copy and leaves the Engine accepting writes.
//
// An Engine must not be used from several goroutines at once.
type Engine[S any] struct {
	alg       Algorithm[S]
	state     S
	buf       Buffer
	length    uint64
	finalized bool
}

var _ hash.Hash = (*Engine[struct{}])(nil)

// New returns an Engine in the accumulating state.
func New[S any](alg Algorithm[S]) *Engine[S] {
	e := &Engine[S]{
		alg: alg,
		buf: NewBuffer(alg.BlockSize()),
	}
	alg.Init(&e.state)
	return e
}

// Name returns the algorithm name.
func (e *Engine[S]) Name() string { return e.alg.Name() }

// Size returns the digest length in bytes.
func (e *Engine[S]) Size() int { return e.alg.Size() }

// BlockSize returns the block length in bytes.
func (e *Engine[S]) BlockSize() int { return e.alg.BlockSize() }

// Len returns the number of bytes written since the last Reset.
func (e *Engine[S]) Len() uint64 { return e.length }

// Finalized reports whether Finalize has been called since the last Reset.
func (e *Engine[S]) Finalized() bool { return e.finalized }

// Write feeds p into the hash. It never returns an error.
func (e *Engine[S]) Write(p []byte) (int, error) {
	if e.finalized {
		panic(ErrFinalized)
	}
	if uint64(len(p)) > e.alg.MaxBytes()-e.length {
		panic(ErrTooLong)
	}
	e.length += uint64(len(p))
	e.buf.Consume(p, e.compress)
	return len(p), nil
}

// Finalize pads the stream, processes the final block(s) and returns the
// digest. The Engine must be Reset before it can be used again.
func (e *Engine[S]) Finalize() []byte {
	if e.finalized {
		panic(ErrFinalized)
	}
	e.finalized = true

	e.buf.Pad(BigEndianLength(e.alg.LengthSize(), e.length), e.compress)

	out := make([]byte, e.alg.Size())
	e.alg.Output(&e.state, out)
	return out
}

// Sum appends the digest of the data written so far to b. The Engine
// itself is not finalized.
func (e *Engine[S]) Sum(b []byte) []byte {
	return append(b, e.Clone().Finalize()...)
}

// Reset discards all input and restores the initial state.
func (e *Engine[S]) Reset() {
	e.alg.Init(&e.state)
	e.buf.Reset()
	e.length = 0
	e.finalized = false
}

// Clone returns an independent Engine in the same state.
func (e *Engine[S]) Clone() *Engine[S] {
	c := *e
	c.buf = e.buf.clone()
	return &c
}

func (e *Engine[S]) compress(blocks []byte) {
	e.alg.Compress(&e.state, blocks)
}

const magic = "bd\x01"

// MarshalBinary saves the state of an accumulating Engine.
func (e *Engine[S]) MarshalBinary() ([]byte, error) {
	if e.finalized {
		return nil, fmt.Errorf("%w: engine is finalized", ErrInvalidState)
	}

	name := e.alg.Name()
	b := make([]byte, 0, len(magic)+1+len(name)+e.alg.Size()+e.alg.BlockSize()+8)
	b = append(b, magic...)
	b = append(b, byte(len(name)))
	b = append(b, name...)
	b = e.alg.AppendState(b, &e.state)
	b = append(b, e.buf.Pending()...)
	b = append(b, make([]byte, e.alg.BlockSize()-e.buf.Len())...)
	b = binary.BigEndian.AppendUint64(b, e.length)
	return b, nil
}

// UnmarshalBinary restores a state saved by MarshalBinary. The state must
// come from an Engine of the same algorithm.
func (e *Engine[S]) UnmarshalBinary(b []byte) error {
	if len(b) < len(magic)+1 || string(b[:len(magic)]) != magic {
		return fmt.Errorf("%w: bad header", ErrInvalidState)
	}
	b = b[len(magic):]

	n := int(b[0])
	b = b[1:]
	if len(b) < n {
		return fmt.Errorf("%w: truncated name", ErrInvalidState)
	}
	if name := string(b[:n]); name != e.alg.Name() {
		return fmt.Errorf("%w: state is for %q, engine is %q", ErrInvalidState, name, e.alg.Name())
	}
	b = b[n:]

	var state S
	b, err := e.alg.ReadState(&state, b)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidState, err)
	}

	blockSize := e.alg.BlockSize()
	if len(b) != blockSize+8 {
		return fmt.Errorf("%w: unexpected length %d", ErrInvalidState, len(b))
	}
	length := binary.BigEndian.Uint64(b[blockSize:])
	if length > e.alg.MaxBytes() {
		return fmt.Errorf("%w: length %d out of range", ErrInvalidState, length)
	}

	e.state = state
	e.buf.restore(b[:length%uint64(blockSize)])
	e.length = length
	e.finalized = false
	return nil
}

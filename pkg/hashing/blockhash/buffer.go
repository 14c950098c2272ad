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

package blockhash

// BlockFunc receives one or more complete blocks. len(blocks) is always a
// non-zero multiple of the block size of the Buffer that invokes it.
type BlockFunc func(blocks []byte)

// Buffer accumulates a byte stream into fixed-size blocks.
//
// Bytes that do not yet form a complete block are kept in the pending
// area; at every observable point 0 <= Len() < BlockSize(). Memory use is
// bounded by one block regardless of how much data flows through.
type Buffer struct {
	block []byte
	n     int
}

// NewBuffer returns an empty Buffer for blocks of blockSize bytes.
func NewBuffer(blockSize int) Buffer {
	if blockSize <= 0 {
		panic("blockhash: block size must be positive")
	}
	return Buffer{block: make([]byte, blockSize)}
}

// BlockSize returns the size of the blocks handed to BlockFunc.
func (b *Buffer) BlockSize() int {
	return len(b.block)
}

// Len returns the number of pending bytes.
func (b *Buffer) Len() int {
	return b.n
}

// Pending returns the bytes received but not yet part of a complete block.
// The slice aliases the Buffer and is only valid until the next call.
func (b *Buffer) Pending() []byte {
	return b.block[:b.n]
}

// Reset discards any pending bytes.
func (b *Buffer) Reset() {
	clear(b.block)
	b.n = 0
}

// Consume appends p to the stream. Every block completed by p is passed to
// fn exactly once, in stream order. Runs of blocks that are already
// aligned inside p are handed over without copying.
func (b *Buffer) Consume(p []byte, fn BlockFunc) {
	size := len(b.block)

	if b.n > 0 {
		c := copy(b.block[b.n:], p)
		b.n += c
		p = p[c:]
		if b.n < size {
			return
		}
		fn(b.block)
		b.n = 0
	}

	if len(p) >= size {
		full := len(p) - len(p)%size
		fn(p[:full])
		p = p[full:]
	}

	b.n = copy(b.block, p)
}

func (b *Buffer) clone() Buffer {
	c := Buffer{block: make([]byte, len(b.block)), n: b.n}
	copy(c.block, b.block)
	return c
}

// restore sets the pending area to p, which must be shorter than a block.
func (b *Buffer) restore(p []byte) {
	clear(b.block)
	b.n = copy(b.block, p)
}

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

// marker is the first padding byte: a single one bit followed by zeros.
const marker = 0x80

var zeroPad [128]byte

// Pad terminates the stream: it consumes the 0x80 marker, then zero bytes
// until exactly len(lengthField) bytes remain in the current block, then
// lengthField itself. Afterwards the stream ends on a block boundary; one
// or two additional blocks have been passed to fn.
//
// lengthField must be shorter than a block.
func (b *Buffer) Pad(lengthField []byte, fn BlockFunc) {
	size := len(b.block)
	if len(lengthField) >= size {
		panic("blockhash: length field does not fit in a block")
	}

	b.Consume([]byte{marker}, fn)

	zeros := (size - len(lengthField) - b.n) % size
	if zeros < 0 {
		zeros += size
	}
	for zeros > 0 {
		c := min(zeros, len(zeroPad))
		b.Consume(zeroPad[:c], fn)
		zeros -= c
	}

	b.Consume(lengthField, fn)
}

// BigEndianLength encodes the bit length of a message of n bytes as a
// width-byte big-endian integer. The bit count is computed with 128 bits
// of precision, so fields of 16 bytes or more never truncate; narrower
// fields keep the low-order bytes.
func BigEndianLength(width int, n uint64) []byte {
	hi, lo := n>>61, n<<3

	out := make([]byte, width)
	for i := 0; i < width; i++ {
		shift := 8 * i
		var v byte
		switch {
		case shift < 64:
			v = byte(lo >> shift)
		case shift < 128:
			v = byte(hi >> (shift - 64))
		}
		out[width-1-i] = v
	}
	return out
}

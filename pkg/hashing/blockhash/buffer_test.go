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

import (
	"bytes"
	"testing"
)

func sequence(n int) []byte {
	p := make([]byte, n)
	for i := range p {
		p[i] = byte(i*7 + 3)
	}
	return p
}

// recorder collects everything a Buffer hands to its BlockFunc.
type recorder struct {
	t         *testing.T
	blockSize int
	calls     int
	data      []byte
}

func (r *recorder) fn(blocks []byte) {
	r.t.Helper()
	if len(blocks) == 0 || len(blocks)%r.blockSize != 0 {
		r.t.Fatalf("BlockFunc got %d bytes, want a non-zero multiple of %d", len(blocks), r.blockSize)
	}
	r.calls++
	r.data = append(r.data, blocks...)
}

func TestNewBufferPanicsOnBadSize(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("NewBuffer(0) should panic")
		}
	}()
	NewBuffer(0)
}

func TestBufferConsume(t *testing.T) {
	const size = 16

	tests := []struct {
		name   string
		chunks []int
	}{
		{"empty", nil},
		{"short", []int{5}},
		{"exact block", []int{16}},
		{"block plus one", []int{17}},
		{"many blocks", []int{16 * 9}},
		{"bytewise", []int{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1}},
		{"straddling", []int{3, 20, 7, 2, 40, 0, 15}},
		{"fill then aligned run", []int{10, 6, 48, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			total := 0
			for _, c := range tt.chunks {
				total += c
			}
			input := sequence(total)

			rec := &recorder{t: t, blockSize: size}
			b := NewBuffer(size)
			off := 0
			for _, c := range tt.chunks {
				b.Consume(input[off:off+c], rec.fn)
				off += c
				if b.Len() < 0 || b.Len() >= size {
					t.Fatalf("Len() = %d after consume, want [0, %d)", b.Len(), size)
				}
			}

			full := total - total%size
			if !bytes.Equal(rec.data, input[:full]) {
				t.Errorf("blocks = %x, want %x", rec.data, input[:full])
			}
			if !bytes.Equal(b.Pending(), input[full:]) {
				t.Errorf("Pending() = %x, want %x", b.Pending(), input[full:])
			}
		})
	}
}

func TestBufferReset(t *testing.T) {
	rec := &recorder{t: t, blockSize: 8}
	b := NewBuffer(8)
	b.Consume([]byte("abc"), rec.fn)
	b.Reset()

	if b.Len() != 0 {
		t.Fatalf("Len() after Reset() = %d, want 0", b.Len())
	}
	b.Consume([]byte("12345678"), rec.fn)
	if string(rec.data) != "12345678" {
		t.Errorf("blocks after Reset() = %q, want %q", rec.data, "12345678")
	}
}

func TestBufferPad(t *testing.T) {
	const size = 64

	for _, width := range []int{8, 32} {
		for n := 0; n <= 3*size; n++ {
			msg := sequence(n)
			field := BigEndianLength(width, uint64(n))

			rec := &recorder{t: t, blockSize: size}
			b := NewBuffer(size)
			b.Consume(msg, rec.fn)
			before := len(rec.data)
			b.Pad(field, rec.fn)

			if b.Len() != 0 {
				t.Fatalf("width %d, n %d: Len() after Pad() = %d, want 0", width, n, b.Len())
			}
			if len(rec.data)%size != 0 {
				t.Fatalf("width %d, n %d: stream length %d not block aligned", width, n, len(rec.data))
			}

			wantBlocks := 1
			if n%size+1+width > size {
				wantBlocks = 2
			}
			if got := (len(rec.data) - before) / size; got != wantBlocks {
				t.Errorf("width %d, n %d: Pad() emitted %d blocks, want %d", width, n, got, wantBlocks)
			}

			out := rec.data
			if !bytes.Equal(out[:n], msg) {
				t.Fatalf("width %d, n %d: message bytes altered", width, n)
			}
			if out[n] != 0x80 {
				t.Errorf("width %d, n %d: marker = %#x, want 0x80", width, n, out[n])
			}
			for i := n + 1; i < len(out)-width; i++ {
				if out[i] != 0 {
					t.Fatalf("width %d, n %d: padding byte %d = %#x, want 0", width, n, i, out[i])
				}
			}
			if !bytes.Equal(out[len(out)-width:], field) {
				t.Errorf("width %d, n %d: length field = %x, want %x", width, n, out[len(out)-width:], field)
			}
		}
	}
}

func TestBufferPadRejectsWideField(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Pad() with a block-sized length field should panic")
		}
	}()
	b := NewBuffer(8)
	b.Pad(make([]byte, 8), func([]byte) {})
}

func TestBigEndianLength(t *testing.T) {
	tests := []struct {
		name  string
		width int
		n     uint64
		want  []byte
	}{
		{"zero", 8, 0, []byte{0, 0, 0, 0, 0, 0, 0, 0}},
		{"abc", 8, 3, []byte{0, 0, 0, 0, 0, 0, 0, 0x18}},
		{"one block", 8, 64, []byte{0, 0, 0, 0, 0, 0, 0x02, 0x00}},
		{"narrow truncates", 2, 0x1234, []byte{0x91, 0xa0}},
		{"64-bit wrap", 8, 1 << 61, []byte{0, 0, 0, 0, 0, 0, 0, 0}},
		{
			"wide keeps high bits", 16, 1<<61 | 1,
			[]byte{0, 0, 0, 0, 0, 0, 0, 0x01, 0, 0, 0, 0, 0, 0, 0, 0x08},
		},
		{
			"max counter", 9, ^uint64(0),
			[]byte{0x07, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xf8},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BigEndianLength(tt.width, tt.n); !bytes.Equal(got, tt.want) {
				t.Errorf("BigEndianLength(%d, %d) = %x, want %x", tt.width, tt.n, got, tt.want)
			}
		})
	}

	wide := BigEndianLength(32, 3)
	if len(wide) != 32 || wide[31] != 0x18 || !bytes.Equal(wide[:31], make([]byte, 31)) {
		t.Errorf("BigEndianLength(32, 3) = %x", wide)
	}
}

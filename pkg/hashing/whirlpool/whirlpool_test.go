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

package whirlpool

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"math/rand"
	"testing"
)

func sequence(n int) []byte {
	p := make([]byte, n)
	for i := range p {
		p[i] = byte(i*7 + 3)
	}
	return p
}

func allDigests(t *testing.T) map[Implementation]*Digest {
	t.Helper()
	out := make(map[Implementation]*Digest)
	for _, impl := range append(Implementations(), Auto) {
		d, err := NewWith(impl)
		if err != nil {
			t.Fatalf("NewWith(%q) error = %v", impl, err)
		}
		out[impl] = d
	}
	return out
}

func TestKnownAnswers(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			"empty", "",
			"19fa61d75522a4669b44e39c1d2e1726c530232130d407f89afee0964997f7a73e83be698b288febcf88e3e03c4f0757ea8964e59b63d93708b138cc42a66eb3",
		},
		{
			"a", "a",
			"8aca2602792aec6f11a67206531fb7d7f0dff59413145e6973c45001d0087b42d11bc645413aeff63a42391a39145a591a92200d560195e53b478584fdae231a",
		},
		{
			"abc", "abc",
			"4e2448a4c6f486bb16b6562c73b4020bf3043e3a731bce721ae1b303d97e6d4c7181eebdb6c57e277d0e34957114cbd6c797fc9d95d8b582d225292076d4eef5",
		},
		{
			"message digest", "message digest",
			"378c84a4126e2dc6e56dcc7458377aac838d00032230f53ce1f5700c0ffb4d3b8421557659ef55c106b4b52ac5a4aaa692ed920052838f3362e86dbd37a8903e",
		},
		{
			"alphabet", "abcdefghijklmnopqrstuvwxyz",
			"f1d754662636ffe92c82ebb9212a484a8d38631ead4238f5442ee13b8054e41b08bf2a9251c30b6a0b8aae86177ab4a6f68f673e7207865d5d9819a3dba4eb3b",
		},
		{
			"digits", "12345678901234567890123456789012345678901234567890123456789012345678901234567890",
			"466ef18babb0154d25b9d38a6414f5c08784372bccb204d6549c4afadb6014294d5bd8df2a6c44e538cd047b2681a51a2c60481e88c5a20b2c2a80cf3a9a083b",
		},
		{
			"quick brown fox", "The quick brown fox jumps over the lazy dog",
			"b97de512e91e3828b40d2b0fdce9ceb3c4a71f9bea8d88e75c4fa854df36725fd2b52eb6544edcacd6f8beddfea403cb55ae31f03ad62a5ef54e42ee82c3fb35",
		},
	}

	for _, tt := range tests {
		for impl, d := range allDigests(t) {
			t.Run(fmt.Sprintf("%s/%s", tt.name, impl), func(t *testing.T) {
				_, _ = d.Write([]byte(tt.input))
				if got := hex.EncodeToString(d.Finalize()); got != tt.want {
					t.Errorf("Finalize() = %s, want %s", got, tt.want)
				}
			})
		}
	}
}

func TestBoundaryLengths(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{1, "6549c27ec59ddfba2097adcb33a6ca777dbc4adf581c8fc0db9616f67b5aedef6082f3c3f396ed1948c82358354cf89f14898aa76cc63d489e9395462ae6f8c7"},
		{31, "f5955a69d2a91178a080e82c01e926f7a1af95896a33a6a65604875447eea4cc5c45c03edf7fd72f4a75483f7b2161f1383878b4545494fe5fc4b2470aa800ec"},
		{32, "c7faf637a891dcc975d06d72ac3b11af5a31a894fe338ba86dbf0b29667e9737155c58b51bbd826b811f9614b200d014eb02f82ea37a4877a0d7571e65f38455"},
		{33, "1c4c823d2dddb10b55434f78e90367f1b4ab009368a80aa9a4f0bfc6bd50397dfa0ef38639579d233ef1328ebde8a9ec0f4bbfc4555e753bfbfad921aef94ff1"},
		{63, "ec4cfc4d8df48186253eb657efdf65c9bc39f46d95de48f3c516e68fe1f3606ddf0d92f8063611d7317439cff16f396292a083c1f69e22a2c80c252d5fe9e494"},
		{64, "015fa29ae06ddf8283a0ceb0694dc2b3fde2389255339480ca0e89b71423f9d88d32beb038fa9e5cf554627d26a8104fdac59c8b04a04f227f3c02d0e660116c"},
		{65, "b54e396db3adc9e3c01742aaa514e936f4fd5fffaf5838c0dbe187d410840367654d7837842f77577b3995379f3ccadd72267ebbb40695f4662f6bcb4a074dc3"},
		{127, "c44f844635da9e342aeab35c69d5e8036f77fea7873ce3524f5d421b3ed04c4d73f96dec03290ef36d2db3d3fe46b71929e13fe005bf2cbbf1f9c67b2578ab2c"},
		{128, "720e2f27aff619be8a491699b1cd3e617df4a91d63ed2ad0bea7b754ac667b16554f71fb2b780ce9ee7e621051508bd099bdf3c1af878ad84a758afc3148f2c2"},
		{129, "daeb21a04e51f6c36535b71d76acc075e7e7acacf5aa0ffecf3e4648b65f02cf584fb0b7fa50e0e5e2b3b7d4ac487d3b2aeac8a87a686b14207f7657eba0a765"},
	}

	for _, tt := range tests {
		for impl, d := range allDigests(t) {
			t.Run(fmt.Sprintf("len-%d/%s", tt.n, impl), func(t *testing.T) {
				_, _ = d.Write(sequence(tt.n))
				if got := hex.EncodeToString(d.Finalize()); got != tt.want {
					t.Errorf("Finalize() = %s, want %s", got, tt.want)
				}
			})
		}
	}
}

func TestMillionA(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping long input in short mode")
	}
	const want = "0c99005beb57eff50a7cf005560ddf5d29057fd86b20bfd62deca0f1ccea4af51fc15490eddc47af32bb2b66c34ff9ad8c6008ad677f77126953b226e4ed8b01"

	d, err := NewWith(Table)
	if err != nil {
		t.Fatalf("NewWith(table) error = %v", err)
	}
	chunk := bytes.Repeat([]byte("a"), 1000)
	for i := 0; i < 1000; i++ {
		_, _ = d.Write(chunk)
	}
	if got := hex.EncodeToString(d.Finalize()); got != want {
		t.Errorf("Finalize() = %s, want %s", got, want)
	}
}

// TestLengthField builds the single padded block for "abc" by hand: the
// marker directly after the message and the 256-bit bit count (24) in the
// last 32 bytes.
func TestLengthField(t *testing.T) {
	block := make([]byte, BlockSize)
	copy(block, "abc")
	block[3] = 0x80
	block[BlockSize-1] = 24

	for _, compress := range []func(*State, []byte){blockTable, blockReference} {
		var s State
		compress(&s, block)

		var got [Size]byte
		algorithm{}.Output(&s, got[:])
		if want := Sum([]byte("abc")); got != want {
			t.Errorf("hand-padded digest = %x, want %x", got, want)
		}
	}
}

func TestTables(t *testing.T) {
	if tables[0][0] != 0x18186018c07830d8 {
		t.Errorf("tables[0][0] = %#x, want 0x18186018c07830d8", tables[0][0])
	}
	if tables[1][0] != 0xd818186018c07830 {
		t.Errorf("tables[1][0] = %#x, want 0xd818186018c07830", tables[1][0])
	}
	if rc[1] != 0x1823c6e887b8014f {
		t.Errorf("rc[1] = %#x, want 0x1823c6e887b8014f", rc[1])
	}

	var seen [256]bool
	for _, v := range sbox {
		if seen[v] {
			t.Fatalf("sbox value %#x repeated", v)
		}
		seen[v] = true
	}
}

func TestGFMul(t *testing.T) {
	tests := []struct {
		a, b, want byte
	}{
		{0x18, 1, 0x18},
		{0x18, 4, 0x60},
		{0x18, 9, 0xd8},
		{0x80, 2, 0x1d},
		{0xff, 0, 0},
	}
	for _, tt := range tests {
		if got := gfMul(tt.a, tt.b); got != tt.want {
			t.Errorf("gfMul(%#x, %#x) = %#x, want %#x", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestImplementationsAgree(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	blocks := make([]byte, 4*BlockSize)

	var st, sr State
	for i := 0; i < 25; i++ {
		rng.Read(blocks)
		blockTable(&st, blocks)
		blockReference(&sr, blocks)
		if st != sr {
			t.Fatalf("iteration %d: table = %x, reference = %x", i, st, sr)
		}
	}
}

func TestChunkingInvariance(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	input := make([]byte, 3000)
	rng.Read(input)
	want := Sum(input)

	for _, chunk := range []int{1, 13, 31, 32, 33, 64, 65, 1000} {
		d := New()
		for off := 0; off < len(input); off += chunk {
			_, _ = d.Write(input[off:min(off+chunk, len(input))])
		}
		if got := d.Finalize(); !bytes.Equal(got, want[:]) {
			t.Errorf("chunk %d: Finalize() = %x, want %x", chunk, got, want)
		}
	}
}

func TestMarshalAcrossImplementations(t *testing.T) {
	input := sequence(200)
	want := Sum(input)

	r, err := NewWith(Reference)
	if err != nil {
		t.Fatalf("NewWith(reference) error = %v", err)
	}
	_, _ = r.Write(input[:99])
	saved, err := r.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary() error = %v", err)
	}

	tb, err := NewWith(Table)
	if err != nil {
		t.Fatalf("NewWith(table) error = %v", err)
	}
	if err := tb.UnmarshalBinary(saved); err != nil {
		t.Fatalf("UnmarshalBinary() error = %v", err)
	}
	_, _ = tb.Write(input[99:])
	if got := tb.Finalize(); !bytes.Equal(got, want[:]) {
		t.Errorf("restored digest = %x, want %x", got, want)
	}
}

func TestResolve(t *testing.T) {
	got := Resolve(Auto)
	if got != Table && got != Reference {
		t.Fatalf("Resolve(auto) = %q", got)
	}
	if again := Resolve(""); again != got {
		t.Errorf("Resolve changed its decision: %q then %q", got, again)
	}
	if Resolve(Reference) != Reference {
		t.Error("Resolve(reference) should be the identity")
	}
	if _, err := NewWith("simd"); err == nil {
		t.Error("NewWith(simd) should fail")
	}
}

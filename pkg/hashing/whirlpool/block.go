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

import "encoding/binary"

// rho applies one unkeyed round (SubBytes, ShiftColumns, MixRows) to src
// using the combined lookup tables.
func rho(dst, src *State) {
	for i := 0; i < 8; i++ {
		dst[i] = tables[0][byte(src[i]>>56)] ^
			tables[1][byte(src[(i-1)&7]>>48)] ^
			tables[2][byte(src[(i-2)&7]>>40)] ^
			tables[3][byte(src[(i-3)&7]>>32)] ^
			tables[4][byte(src[(i-4)&7]>>24)] ^
			tables[5][byte(src[(i-5)&7]>>16)] ^
			tables[6][byte(src[(i-6)&7]>>8)] ^
			tables[7][byte(src[(i-7)&7])]
	}
}

// blockTable is the table-driven compression function.
func blockTable(s *State, p []byte) {
	var m, k, st, l State

	for len(p) >= BlockSize {
		for i := range m {
			m[i] = binary.BigEndian.Uint64(p[8*i:])
			k[i] = s[i]
			st[i] = m[i] ^ k[i]
		}

		for r := 1; r <= rounds; r++ {
			rho(&l, &k)
			l[0] ^= rc[r]
			k = l

			rho(&l, &st)
			for i := range st {
				st[i] = l[i] ^ k[i]
			}
		}

		for i := range s {
			s[i] ^= st[i] ^ m[i]
		}

		p = p[BlockSize:]
	}
}

// matrix is the state viewed as 8 rows of 8 bytes.
type matrix [8][8]byte

func (a *matrix) load(s *State) {
	for i := range a {
		binary.BigEndian.PutUint64(a[i][:], s[i])
	}
}

func (a *matrix) store(s *State) {
	for i := range a {
		s[i] = binary.BigEndian.Uint64(a[i][:])
	}
}

// round applies SubBytes, ShiftColumns, MixRows and AddRoundKey in place.
func (a *matrix) round(key *matrix) {
	var t matrix
	for i := 0; i < 8; i++ {
		for j := 0; j < 8; j++ {
			t[i][j] = sbox[a[(i-j)&7][j]]
		}
	}

	for i := 0; i < 8; i++ {
		for j := 0; j < 8; j++ {
			var v byte
			for n := 0; n < 8; n++ {
				v ^= gfMul(t[i][n], mds[(j-n)&7])
			}
			a[i][j] = v ^ key[i][j]
		}
	}
}

// blockReference is the byte-oriented compression function, a direct
// rendering of the round layers.
func blockReference(s *State, p []byte) {
	var h, m, k, st, c matrix

	for len(p) >= BlockSize {
		h.load(s)
		for i := range m {
			copy(m[i][:], p[8*i:8*i+8])
			for j := range m[i] {
				k[i][j] = h[i][j]
				st[i][j] = m[i][j] ^ k[i][j]
			}
		}

		for r := 1; r <= rounds; r++ {
			copy(c[0][:], sbox[8*(r-1):8*r])
			k.round(&c)
			st.round(&k)
		}

		for i := range h {
			for j := range h[i] {
				h[i][j] ^= st[i][j] ^ m[i][j]
			}
		}
		h.store(s)

		p = p[BlockSize:]
	}
}

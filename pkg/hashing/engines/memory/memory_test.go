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
	"testing"

	"github.com/sigstore/blockdigest/pkg/hashing/digests"
	hashengines "github.com/sigstore/blockdigest/pkg/hashing/engines"
)

const (
	abcSHA1      = "a9993e364706816aba3e25717850c26c9cd0d89d"
	abcWhirlpool = "4e2448a4c6f486bb16b6562c73b4020bf3043e3a731bce721ae1b303d97e6d4c7181eebdb6c57e277d0e34957114cbd6c797fc9d95d8b582d225292076d4eef5"
	abcSHA256    = "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	abcBLAKE2b   = "ba80a53f981c4d0d6a2797b69f12f6e94c212f14685ac4b74b12bb6fdbffa2d17d87c5392aab792dc252d5de4533cc9518d38aa8dbf1925ab92386edd4009923"
)

func TestRegisteredEngines(t *testing.T) {
	tests := []struct {
		algorithm string
		wantName  string
		wantSize  int
		wantBlock int
		want      string
	}{
		{SHA1, "sha1", 20, 64, abcSHA1},
		{SHA1Generic, "sha1", 20, 64, abcSHA1},
		{Whirlpool, "whirlpool", 64, 64, abcWhirlpool},
		{WhirlpoolReference, "whirlpool", 64, 64, abcWhirlpool},
		{SHA256, "sha256", 32, 64, abcSHA256},
		{BLAKE2b, "blake2b", 64, 128, abcBLAKE2b},
	}

	for _, tt := range tests {
		t.Run(tt.algorithm, func(t *testing.T) {
			engine, err := hashengines.Create(tt.algorithm)
			if err != nil {
				t.Fatalf("Create() error = %v", err)
			}
			engine.Update([]byte("ab"))
			engine.Update([]byte("c"))

			d, err := engine.Compute()
			if err != nil {
				t.Fatalf("Compute() error = %v", err)
			}
			if d.Hex() != tt.want {
				t.Errorf("Compute() = %s, want %s", d.Hex(), tt.want)
			}
			if d.Algorithm() != tt.wantName || engine.DigestName() != tt.wantName {
				t.Errorf("name = %s/%s, want %s", d.Algorithm(), engine.DigestName(), tt.wantName)
			}
			if engine.DigestSize() != tt.wantSize || d.Size() != tt.wantSize {
				t.Errorf("DigestSize() = %d, want %d", engine.DigestSize(), tt.wantSize)
			}
			blocked, ok := engine.(hashengines.Blocked)
			if !ok || blocked.BlockSize() != tt.wantBlock {
				t.Errorf("BlockSize() mismatch, want %d", tt.wantBlock)
			}
		})
	}
}

func TestInitialDataConstructor(t *testing.T) {
	e, err := NewSHA256Engine([]byte("abcd"))
	if err != nil {
		t.Fatalf("NewSHA256Engine() error = %v", err)
	}
	d, err := e.Compute()
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	if want := "88d4266fd4e6338d13b845fcf289579d209c897823b9217da3e161936f031589"; d.Hex() != want {
		t.Errorf("Compute() = %s, want %s", d.Hex(), want)
	}
}

func TestComputeDoesNotEndStream(t *testing.T) {
	e, err := NewWhirlpoolEngine("", []byte("a"))
	if err != nil {
		t.Fatalf("NewWhirlpoolEngine() error = %v", err)
	}
	if _, err := e.Compute(); err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	e.Update([]byte("bc"))

	d, err := e.Compute()
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	if d.Hex() != abcWhirlpool {
		t.Errorf("Compute() = %s, want %s", d.Hex(), abcWhirlpool)
	}
}

func TestResetAndRecompute(t *testing.T) {
	for _, name := range []string{SHA1, Whirlpool, BLAKE2b} {
		t.Run(name, func(t *testing.T) {
			e, err := hashengines.Create(name)
			if err != nil {
				t.Fatalf("Create() error = %v", err)
			}
			e.Update([]byte("junk"))
			first, _ := e.Compute()

			e.Reset([]byte("ju"))
			e.Update([]byte("nk"))
			second, _ := e.Compute()

			if !first.Equal(second) {
				t.Errorf("Compute() after Reset() = %s, want %s", second, first)
			}
		})
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		algorithm string
		impl      string
		want      string
		wantErr   bool
	}{
		{SHA1, "", abcSHA1, false},
		{SHA1, "auto", abcSHA1, false},
		{SHA1, "generic", abcSHA1, false},
		{SHA1, "fast", abcSHA1, false},
		{Whirlpool, "reference", abcWhirlpool, false},
		{Whirlpool, "table", abcWhirlpool, false},
		{SHA256, "auto", abcSHA256, false},
		{SHA1, "table", "", true},
		{SHA256, "fast", "", true},
		{"md5", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.algorithm+"/"+tt.impl, func(t *testing.T) {
			e, err := New(tt.algorithm, tt.impl)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			e.Update([]byte("abc"))
			d, _ := e.Compute()
			if d.Hex() != tt.want {
				t.Errorf("Compute() = %s, want %s", d.Hex(), tt.want)
			}
		})
	}
}

func TestImplementations(t *testing.T) {
	if got := Implementations(SHA1); len(got) != 2 {
		t.Errorf("Implementations(sha1) = %v", got)
	}
	if got := Implementations(Whirlpool); len(got) != 2 {
		t.Errorf("Implementations(whirlpool) = %v", got)
	}
	if got := Implementations(SHA256); got != nil {
		t.Errorf("Implementations(sha256) = %v, want nil", got)
	}
}

func TestComputeRootDigest(t *testing.T) {
	abc, err := digests.Parse("sha1:" + abcSHA1)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	hello, err := digests.Parse("sha1:2aae6c35c94fcfb415dbe95f408b9ce91ee846ed")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	root, err := ComputeRootDigest(SHA1, []digests.Digest{abc, hello})
	if err != nil {
		t.Fatalf("ComputeRootDigest() error = %v", err)
	}
	if want := "sha1:119a9ba9475f4ac4f34303eacdd815928f85d37e"; root.String() != want {
		t.Errorf("ComputeRootDigest() = %s, want %s", root, want)
	}

	swapped, err := ComputeRootDigest(SHA1, []digests.Digest{hello, abc})
	if err != nil {
		t.Fatalf("ComputeRootDigest() error = %v", err)
	}
	if swapped.Equal(root) {
		t.Error("root digest should depend on order")
	}

	if _, err := ComputeRootDigest("md5", nil); err == nil {
		t.Error("ComputeRootDigest(md5) should fail")
	}
}

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

package hashengines_test

import (
	"slices"
	"sync"
	"testing"

	hashengines "github.com/sigstore/blockdigest/pkg/hashing/engines"
	"github.com/sigstore/blockdigest/pkg/hashing/engines/memory"
)

func testFactory() (hashengines.StreamingHashEngine, error) {
	return memory.NewSHA1Engine("", nil)
}

func TestCreate(t *testing.T) {
	tests := []struct {
		name      string
		algorithm string
		wantErr   bool
	}{
		{"sha1", "sha1", false},
		{"sha1 generic", "sha1-generic", false},
		{"whirlpool", "whirlpool", false},
		{"whirlpool reference", "whirlpool-reference", false},
		{"sha256", "sha256", false},
		{"blake2b", "blake2b", false},
		{"unsupported", "md5", true},
		{"case sensitive", "SHA1", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, err := hashengines.Create(tt.algorithm)
			if (err != nil) != tt.wantErr {
				t.Errorf("Create() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && engine == nil {
				t.Error("Create() returned nil engine without error")
			}
		})
	}
}

func TestRegister(t *testing.T) {
	tests := []struct {
		name      string
		algorithm string
		factory   hashengines.HashEngineFactory
		wantErr   bool
	}{
		{"valid registration", "test-algo", testFactory, false},
		{"empty algorithm", "", testFactory, true},
		{"nil factory", "test-nil", nil, true},
		{"duplicate of builtin", "sha1", testFactory, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := hashengines.Register(tt.algorithm, tt.factory)
			if (err != nil) != tt.wantErr {
				t.Errorf("Register() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil {
				_ = hashengines.Unregister(tt.algorithm)
			}
		})
	}
}

func TestMustRegisterPanicsOnDuplicate(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("MustRegister() should panic on duplicate registration")
		}
	}()

	hashengines.MustRegister("whirlpool", testFactory)
}

func TestSupportedAlgorithms(t *testing.T) {
	algorithms := hashengines.SupportedAlgorithms()

	for _, want := range []string{"blake2b", "sha1", "sha1-generic", "sha256", "whirlpool", "whirlpool-reference"} {
		if !slices.Contains(algorithms, want) {
			t.Errorf("SupportedAlgorithms() missing %s", want)
		}
	}
	if !slices.IsSorted(algorithms) {
		t.Errorf("SupportedAlgorithms() = %v, not sorted", algorithms)
	}
}

func TestIsSupported(t *testing.T) {
	tests := []struct {
		algorithm string
		want      bool
	}{
		{"sha1", true},
		{"whirlpool", true},
		{"md5", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := hashengines.IsSupported(tt.algorithm); got != tt.want {
			t.Errorf("IsSupported(%q) = %v, want %v", tt.algorithm, got, tt.want)
		}
	}
}

func TestUnregister(t *testing.T) {
	if err := hashengines.Register("unregister-test", testFactory); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if !hashengines.IsSupported("unregister-test") {
		t.Error("algorithm should be registered")
	}

	if err := hashengines.Unregister("unregister-test"); err != nil {
		t.Errorf("Unregister() error = %v", err)
	}
	if hashengines.IsSupported("unregister-test") {
		t.Error("algorithm should not be registered after Unregister()")
	}

	if err := hashengines.Unregister("unregister-test"); err == nil {
		t.Error("Unregister() should fail for a missing algorithm")
	}
}

func TestConcurrentAccess(t *testing.T) {
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			_ = hashengines.SupportedAlgorithms()
			_ = hashengines.IsSupported("sha1")
			_, _ = hashengines.Create("whirlpool")
		}
	}()

	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			_ = hashengines.Register("concurrent-test", testFactory)
			_ = hashengines.Unregister("concurrent-test")
		}
	}()

	wg.Wait()
}

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

package options

import (
	"runtime"

	"github.com/spf13/cobra"

	"github.com/sigstore/blockdigest/pkg/config"
)

// AlgorithmFlags select the hash engine.
type AlgorithmFlags struct {
	// Algorithm is the registered engine name.
	Algorithm string
	// Implementation picks among several implementations of one algorithm.
	Implementation string
	// ChunkSize is the read size in bytes.
	ChunkSize int
}

// AddFlags adds the algorithm flags to cmd.
func (o *AlgorithmFlags) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.Algorithm, "algorithm", "a", config.DefaultAlgorithm,
		"hash algorithm (see the list command)")
	cmd.Flags().StringVar(&o.Implementation, "impl", config.DefaultImplementation,
		"implementation for algorithms that ship several (auto, generic, fast, reference, table)")
	cmd.Flags().IntVar(&o.ChunkSize, "chunk-size", config.DefaultChunkSize,
		"bytes read per chunk, 0 reads whole files")
}

// WalkFlags control how arguments are expanded into files.
type WalkFlags struct {
	// Recursive walks directory arguments.
	Recursive bool
	// IgnorePaths lists paths skipped while walking.
	IgnorePaths []string
	// IgnoreGitPaths skips git metadata while walking.
	IgnoreGitPaths bool
	// AllowSymlinks follows symbolic links met while walking.
	AllowSymlinks bool
}

// AddFlags adds the walk flags to cmd.
func (o *WalkFlags) AddFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&o.Recursive, "recursive", "r", false, "hash files in directories recursively")
	cmd.Flags().StringSliceVar(&o.IgnorePaths, "ignore-paths", nil, "paths to skip while walking directories")
	cmd.Flags().BoolVar(&o.IgnoreGitPaths, "ignore-git-paths", true, "skip git-related files while walking directories")
	cmd.Flags().BoolVar(&o.AllowSymlinks, "allow-symlinks", false, "follow symlinks while walking directories")
}

// SumOptions are the flags of the sum command.
type SumOptions struct {
	AlgorithmFlags
	WalkFlags

	// Jobs is the number of files hashed concurrently.
	Jobs int
	// Root also prints a digest over all file digests.
	Root bool
}

// AddFlags adds the sum flags to cmd.
func (o *SumOptions) AddFlags(cmd *cobra.Command) {
	AddAllFlags(cmd, &o.AlgorithmFlags, &o.WalkFlags)
	cmd.Flags().IntVarP(&o.Jobs, "jobs", "j", runtime.NumCPU(), "number of files hashed concurrently")
	cmd.Flags().BoolVar(&o.Root, "root", false, "also print the digest of all file digests")
}

// ToHashingConfig converts the flags to a validated hashing configuration.
func (o *SumOptions) ToHashingConfig() (*config.HashingConfig, error) {
	cfg := config.NewHashingConfig().
		SetAlgorithm(o.Algorithm, o.Implementation).
		SetChunkSize(o.ChunkSize).
		SetJobs(o.Jobs).
		SetRecursive(o.Recursive).
		SetAllowSymlinks(o.AllowSymlinks).
		SetIgnoredPaths(o.IgnorePaths, o.IgnoreGitPaths)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// CheckOptions are the flags of the check command.
type CheckOptions struct {
	AlgorithmFlags

	// Quiet suppresses the OK lines.
	Quiet bool
}

// AddFlags adds the check flags to cmd.
func (o *CheckOptions) AddFlags(cmd *cobra.Command) {
	o.AlgorithmFlags.AddFlags(cmd)
	cmd.Flags().BoolVarP(&o.Quiet, "quiet", "q", false, "only report failures")
}

// ToHashingConfig converts the flags to a validated hashing configuration.
func (o *CheckOptions) ToHashingConfig() (*config.HashingConfig, error) {
	cfg := config.NewHashingConfig().
		SetAlgorithm(o.Algorithm, o.Implementation).
		SetChunkSize(o.ChunkSize)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// BenchOptions are the flags of the bench command.
type BenchOptions struct {
	// Size is the buffer size, in humanized form such as "8MiB".
	Size string
	// Compare also benchmarks the sha256 and blake2b reference engines.
	Compare bool
}

// AddFlags adds the bench flags to cmd.
func (o *BenchOptions) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.Size, "size", "16MiB", "amount of data hashed per implementation")
	cmd.Flags().BoolVar(&o.Compare, "compare", false, "also run the sha256 and blake2b engines")
}

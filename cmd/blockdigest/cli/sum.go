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

package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/sigstore/blockdigest/cmd/blockdigest/cli/options"
	"github.com/sigstore/blockdigest/pkg/config"
	"github.com/sigstore/blockdigest/pkg/hashing/digests"
	hashio "github.com/sigstore/blockdigest/pkg/hashing/engines/io"
	"github.com/sigstore/blockdigest/pkg/hashing/engines/memory"
	"github.com/sigstore/blockdigest/pkg/logging"
	"github.com/sigstore/blockdigest/pkg/tracing"
)

// Sum returns the sum command.
func Sum(ro *options.RootOptions) *cobra.Command {
	o := &options.SumOptions{}

	long := `Print the digest of each PATH.

With no PATH, or when PATH is -, standard input is read; - may appear only
once. Directories are
walked with --recursive; --ignore-paths, --ignore-git-paths and
--allow-symlinks control the walk. Files are hashed concurrently, each with
its own engine, and printed in argument order.`

	cmd := &cobra.Command{
		Use:   "sum [flags] [PATH...]",
		Short: "Print digests of files.",
		Long:  long,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.ToHashingConfig()
			if err != nil {
				return err
			}
			ctx, cancel := ro.Context(cmd.Context())
			defer cancel()

			req := sumRequest{
				paths:  args,
				root:   o.Root,
				stdin:  cmd.InOrStdin(),
				out:    cmd.OutOrStdout(),
				logger: ro.NewLogger(),
			}
			attrs := map[string]any{
				"blockdigest.algorithm": cfg.Algorithm(),
				"blockdigest.impl":      cfg.Implementation(),
				"blockdigest.jobs":      cfg.Jobs(),
			}
			return tracing.Run(ctx, "Sum", attrs, func(ctx context.Context) error {
				return runSum(ctx, cfg, req)
			})
		},
	}

	o.AddFlags(cmd)
	return cmd
}

type sumRequest struct {
	paths  []string
	root   bool
	stdin  io.Reader
	out    io.Writer
	logger logging.Logger
}

type fileResult struct {
	path   string
	digest digests.Digest
	err    error
}

func runSum(ctx context.Context, cfg *config.HashingConfig, req sumRequest) error {
	paths := req.paths
	if len(paths) == 0 {
		paths = []string{config.Stdin}
	}

	files, err := cfg.CollectFiles(paths)
	if err != nil {
		return err
	}
	req.logger.Debug("hashing %d files with %s (%s), %d jobs", len(files), cfg.Algorithm(), cfg.Implementation(), cfg.Jobs())

	var (
		failures *multierror.Error
		all      []digests.Digest
	)
	for _, r := range hashAll(ctx, cfg, files, req.stdin) {
		if r.err != nil {
			req.logger.Error("%s: %v", r.path, r.err)
			failures = multierror.Append(failures, r.err)
			continue
		}
		all = append(all, r.digest)
		if _, err := fmt.Fprintf(req.out, "%s  %s\n", r.digest.Hex(), r.path); err != nil {
			return err
		}
	}

	if err := failures.ErrorOrNil(); err != nil {
		return &ExitError{Code: 1, Err: err}
	}

	if req.root {
		root, err := memory.ComputeRootDigest(cfg.Algorithm(), all)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(req.out, "# root %s\n", root); err != nil {
			return err
		}
	}
	return nil
}

// hashAll hashes every path with at most cfg.Jobs() running at once. The
// results keep the order of paths; a failure on one path does not stop
// the others.
func hashAll(ctx context.Context, cfg *config.HashingConfig, paths []string, stdin io.Reader) []fileResult {
	results := make([]fileResult, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Jobs())
	for i, path := range paths {
		results[i].path = path
		g.Go(func() error {
			results[i].digest, results[i].err = hashOne(ctx, cfg, path, stdin)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func hashOne(ctx context.Context, cfg *config.HashingConfig, path string, stdin io.Reader) (digests.Digest, error) {
	if path != config.Stdin {
		h, err := cfg.NewFileHasher(path)
		if err != nil {
			return digests.Digest{}, err
		}
		return h.ComputeContext(ctx)
	}

	if stdin == nil {
		return digests.Digest{}, fmt.Errorf("standard input is not available")
	}
	engine, err := cfg.NewEngine()
	if err != nil {
		return digests.Digest{}, err
	}
	return hashio.HashReader(ctx, stdin, engine, cfg.ChunkSize())
}

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
	"bufio"
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"

	"github.com/sigstore/blockdigest/cmd/blockdigest/cli/options"
	"github.com/sigstore/blockdigest/pkg/config"
	"github.com/sigstore/blockdigest/pkg/hashing/digests"
	"github.com/sigstore/blockdigest/pkg/logging"
	"github.com/sigstore/blockdigest/pkg/tracing"
)

// Check returns the check command.
func Check(ro *options.RootOptions) *cobra.Command {
	o := &options.CheckOptions{}

	long := `Verify the files named in a listing produced by the sum command.

Each line of FILE has the form "<hex>  <path>" or "<algorithm>:<hex>  <path>";
a named algorithm must match --algorithm. Blank lines and lines
starting with # are skipped. FILE may be - for standard input. Every
mismatch is reported and the command fails if any file does not match.`

	cmd := &cobra.Command{
		Use:   "check [flags] FILE",
		Short: "Verify digests listed in a file.",
		Long:  long,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.ToHashingConfig()
			if err != nil {
				return err
			}
			ctx, cancel := ro.Context(cmd.Context())
			defer cancel()

			var listing io.Reader = cmd.InOrStdin()
			if args[0] != config.Stdin {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				listing = f
			}

			attrs := map[string]any{
				"blockdigest.algorithm": cfg.Algorithm(),
				"blockdigest.listing":   args[0],
			}
			return tracing.Run(ctx, "Check", attrs, func(ctx context.Context) error {
				return runCheck(ctx, cfg, listing, cmd.OutOrStdout(), o.Quiet, ro.NewLogger())
			})
		},
	}

	o.AddFlags(cmd)
	return cmd
}

type listingEntry struct {
	line int
	want []byte
	path string
}

// parseListing reads "<hex>  <path>" lines. A '*' in place of the second
// space (binary mode in sha1sum) is accepted, and the digest may carry an
// "algorithm:" prefix, which must name algorithm.
func parseListing(r io.Reader, algorithm string, size int) ([]listingEntry, error) {
	var (
		entries []listingEntry
		errs    *multierror.Error
	)

	sc := bufio.NewScanner(r)
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimRight(sc.Text(), "\r")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		hexDigest, path, ok := strings.Cut(line, " ")
		if !ok || len(path) < 2 || (path[0] != ' ' && path[0] != '*') {
			errs = multierror.Append(errs, fmt.Errorf("line %d: improperly formatted", n))
			continue
		}
		path = path[1:]

		want, err := decodeListed(hexDigest, algorithm)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("line %d: %w", n, err))
			continue
		}
		if len(want) != size {
			errs = multierror.Append(errs, fmt.Errorf("line %d: expected %d-byte hex digest", n, size))
			continue
		}
		entries = append(entries, listingEntry{line: n, want: want, path: path})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return entries, errs.ErrorOrNil()
}

func decodeListed(field, algorithm string) ([]byte, error) {
	if !strings.Contains(field, ":") {
		return hex.DecodeString(field)
	}
	d, err := digests.Parse(field)
	if err != nil {
		return nil, err
	}
	if d.Algorithm() != algorithm {
		return nil, fmt.Errorf("digest is %s, checking with %s", d.Algorithm(), algorithm)
	}
	return d.Value(), nil
}

func runCheck(ctx context.Context, cfg *config.HashingConfig, listing io.Reader, out io.Writer, quiet bool, logger logging.Logger) error {
	engine, err := cfg.NewEngine()
	if err != nil {
		return err
	}

	entries, parseErr := parseListing(listing, cfg.Algorithm(), engine.DigestSize())
	var failures *multierror.Error
	if parseErr != nil {
		logger.Warn("%v", parseErr)
		failures = multierror.Append(failures, parseErr)
	}
	if len(entries) == 0 {
		return &ExitError{Code: 1, Err: fmt.Errorf("no properly formatted digest lines found")}
	}

	paths := make([]string, len(entries))
	for i, e := range entries {
		paths[i] = e.path
	}

	mismatches := 0
	for i, r := range hashAll(ctx, cfg, paths, nil) {
		e := entries[i]
		switch {
		case r.err != nil:
			fmt.Fprintf(out, "%s: FAILED open or read\n", e.path)
			failures = multierror.Append(failures, r.err)
		case !r.digest.Equal(digests.NewDigest(r.digest.Algorithm(), e.want)):
			mismatches++
			fmt.Fprintf(out, "%s: FAILED\n", e.path)
			failures = multierror.Append(failures, fmt.Errorf("%s: digest mismatch (line %d)", e.path, e.line))
		case !quiet:
			fmt.Fprintf(out, "%s: OK\n", e.path)
		}
	}

	if mismatches > 0 {
		logger.Warn("%d of %d computed checksums did NOT match", mismatches, len(entries))
	}
	if err := failures.ErrorOrNil(); err != nil {
		return &ExitError{Code: 1, Err: err}
	}
	return nil
}

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

// Package cli implements the blockdigest command tree.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"sigs.k8s.io/release-utils/version"

	"github.com/sigstore/blockdigest/cmd/blockdigest/cli/options"
)

// New builds the root command.
func New() *cobra.Command {
	ro := &options.RootOptions{}
	var out *os.File
	closeOutput := func() error {
		if out == nil {
			return nil
		}
		err := out.Close()
		out = nil
		return err
	}

	cmd := &cobra.Command{
		Use:   "blockdigest",
		Short: "Compute and check SHA-1 and Whirlpool digests.",
		Long: `Compute and check SHA-1 and Whirlpool digests.

Output lines have the form "<hex>  <path>", the same layout as sha1sum, so
listings can be verified later with the check command.`,
		DisableAutoGenTag: true,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := ro.ApplyEnv(cmd.Flags()); err != nil {
				return err
			}
			if err := ro.Validate(); err != nil {
				return err
			}

			if ro.OutputFile != "" {
				var err error
				out, err = os.Create(ro.OutputFile)
				if err != nil {
					return fmt.Errorf("error creating output file %s: %w", ro.OutputFile, err)
				}
				cmd.SetOut(out)
			}
			return nil
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return closeOutput()
		},
	}
	ro.AddFlags(cmd)

	cmd.AddCommand(Sum(ro))
	cmd.AddCommand(Check(ro))
	cmd.AddCommand(List())
	cmd.AddCommand(Bench(ro))
	cmd.AddCommand(version.WithFont("starwars"))

	// Post-run hooks are skipped when RunE fails.
	for _, sub := range cmd.Commands() {
		if run := sub.RunE; run != nil {
			sub.RunE = func(c *cobra.Command, args []string) error {
				err := run(c, args)
				if cerr := closeOutput(); err == nil {
					err = cerr
				}
				return err
			}
		}
	}
	return cmd
}

// ExitError carries the process exit code of a failed command.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string { return e.Err.Error() }

func (e *ExitError) Unwrap() error { return e.Err }

// ExitCode returns the exit code.
func (e *ExitError) ExitCode() int { return e.Code }

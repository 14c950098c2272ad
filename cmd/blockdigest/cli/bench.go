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
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/klauspost/cpuid/v2"
	"github.com/spf13/cobra"

	"github.com/sigstore/blockdigest/cmd/blockdigest/cli/options"
	"github.com/sigstore/blockdigest/pkg/hashing/engines/memory"
	"github.com/sigstore/blockdigest/pkg/hashing/whirlpool"
)

// Bench returns the bench command.
func Bench(ro *options.RootOptions) *cobra.Command {
	o := &options.BenchOptions{}

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Measure the throughput of every implementation.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := ro.Context(cmd.Context())
			defer cancel()
			return runBench(ctx, o, cmd.OutOrStdout())
		},
	}

	o.AddFlags(cmd)
	return cmd
}

type benchCase struct {
	algorithm string
	impl      string
}

func benchCases(compare bool) []benchCase {
	var cases []benchCase
	for _, alg := range []string{memory.SHA1, memory.Whirlpool} {
		for _, impl := range memory.Implementations(alg) {
			cases = append(cases, benchCase{alg, impl})
		}
	}
	if compare {
		cases = append(cases, benchCase{memory.SHA256, "auto"}, benchCase{memory.BLAKE2b, "auto"})
	}
	return cases
}

func runBench(ctx context.Context, o *options.BenchOptions, out io.Writer) error {
	size, err := humanize.ParseBytes(o.Size)
	if err != nil {
		return fmt.Errorf("invalid --size: %w", err)
	}
	data := make([]byte, size)
	for i := range data {
		data[i] = byte(i*7 + 3)
	}

	l1d := "unknown"
	if cpuid.CPU.Cache.L1D > 0 {
		l1d = humanize.IBytes(uint64(cpuid.CPU.Cache.L1D))
	}
	fmt.Fprintf(out, "cpu: %s (%d cores, L1d %s)\n", cpuid.CPU.BrandName, cpuid.CPU.PhysicalCores, l1d)
	fmt.Fprintf(out, "whirlpool auto: %s\n", whirlpool.Resolve(whirlpool.Auto))
	fmt.Fprintf(out, "data: %s\n\n", humanize.IBytes(size))

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ALGORITHM\tIMPL\tTIME\tTHROUGHPUT\tDIGEST")
	for _, c := range benchCases(o.Compare) {
		if err := ctx.Err(); err != nil {
			return err
		}

		engine, err := memory.New(c.algorithm, c.impl)
		if err != nil {
			return err
		}

		start := time.Now()
		engine.Update(data)
		d, err := engine.Compute()
		elapsed := time.Since(start)
		if err != nil {
			return err
		}

		rate := "-"
		if elapsed > 0 {
			rate = humanize.Bytes(uint64(float64(size)/elapsed.Seconds())) + "/s"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.16s\n", c.algorithm, c.impl, elapsed.Round(time.Microsecond), rate, d.Hex())
	}
	return tw.Flush()
}

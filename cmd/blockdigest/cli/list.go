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
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	hashengines "github.com/sigstore/blockdigest/pkg/hashing/engines"
	"github.com/sigstore/blockdigest/pkg/hashing/engines/memory"
)

// List returns the list command.
func List() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the supported hash algorithms.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd.OutOrStdout())
		},
	}
}

func runList(out io.Writer) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ALGORITHM\tDIGEST\tBLOCK\tIMPLEMENTATIONS")

	for _, name := range hashengines.SupportedAlgorithms() {
		engine, err := hashengines.Create(name)
		if err != nil {
			return err
		}

		block := "-"
		if b, ok := engine.(hashengines.Blocked); ok {
			block = fmt.Sprintf("%d", b.BlockSize())
		}
		impls := "-"
		if list := memory.Implementations(name); len(list) > 0 {
			impls = strings.Join(list, ", ")
		}

		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", name, engine.DigestSize(), block, impls)
	}
	return tw.Flush()
}

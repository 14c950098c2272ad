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

// Package options holds the flag groups of the blockdigest commands.
package options

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/sigstore/blockdigest/pkg/logging"
)

// EnvPrefix is the prefix of environment variables that configure the CLI.
const EnvPrefix = "BLOCKDIGEST"

// FlagAdder is implemented by every flag group.
type FlagAdder interface {
	AddFlags(cmd *cobra.Command)
}

// AddAllFlags registers several flag groups on cmd.
func AddAllFlags(cmd *cobra.Command, flagGroups ...FlagAdder) {
	for _, fg := range flagGroups {
		fg.AddFlags(cmd)
	}
}

// RootOptions are the flags shared by every command.
type RootOptions struct {
	// OutputFile redirects command output to a file instead of stdout.
	OutputFile string
	// LogLevel sets the minimum log level (debug, info, warn, error, silent).
	LogLevel string
	// LogFormat sets the log output format (text, json).
	LogFormat string
	// Timeout bounds the run time of a command. Zero disables it.
	Timeout time.Duration
}

var _ FlagAdder = (*RootOptions)(nil)

// ValidLogLevels lists the accepted --log-level values.
var ValidLogLevels = []string{"debug", "info", "warn", "error", "silent"}

// ValidLogFormats lists the accepted --log-format values.
var ValidLogFormats = []string{"text", "json"}

// AddFlags adds the root-level persistent flags to cmd.
func (o *RootOptions) AddFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&o.OutputFile, "output-file", "",
		"write command output to a file instead of stdout")
	_ = cmd.MarkPersistentFlagFilename("output-file")

	cmd.PersistentFlags().StringVar(&o.LogLevel, "log-level", "info",
		fmt.Sprintf("minimum log level %v (env %s_LOG_LEVEL)", ValidLogLevels, EnvPrefix))

	cmd.PersistentFlags().StringVar(&o.LogFormat, "log-format", "text",
		fmt.Sprintf("log output format %v (env %s_LOG_FORMAT)", ValidLogFormats, EnvPrefix))

	cmd.PersistentFlags().DurationVarP(&o.Timeout, "timeout", "t", 0,
		"timeout for commands, 0 for none")
}

// ApplyEnv fills flags the user did not set from the environment.
func (o *RootOptions) ApplyEnv(flags *pflag.FlagSet) error {
	for name, env := range map[string]string{
		"log-level":  EnvPrefix + "_LOG_LEVEL",
		"log-format": EnvPrefix + "_LOG_FORMAT",
	} {
		v, ok := os.LookupEnv(env)
		if !ok || flags.Changed(name) {
			continue
		}
		if err := flags.Set(name, v); err != nil {
			return fmt.Errorf("invalid %s: %w", env, err)
		}
	}
	return nil
}

// Validate checks the logging flags.
func (o *RootOptions) Validate() error {
	if _, err := logging.ParseLogLevel(o.LogLevel); err != nil {
		return err
	}
	if _, err := logging.ParseLogFormat(o.LogFormat); err != nil {
		return err
	}
	return nil
}

// GetLogLevel returns the parsed log level, info if it is invalid.
func (o *RootOptions) GetLogLevel() logging.LogLevel {
	level, _ := logging.ParseLogLevel(o.LogLevel)
	return level
}

// GetLogFormat returns the parsed log format, text if it is invalid.
func (o *RootOptions) GetLogFormat() logging.LogFormat {
	format, _ := logging.ParseLogFormat(o.LogFormat)
	return format
}

// NewLogger builds the logger described by the flags. Logs go to
// standard error so they never mix with digests on stdout.
func (o *RootOptions) NewLogger() logging.Logger {
	opts := logging.DefaultOptions()
	opts.Level = o.GetLogLevel()
	opts.Format = o.GetLogFormat()
	opts.ShowLevel = true
	return logging.New(opts)
}

// Context derives the command context, applying the timeout.
func (o *RootOptions) Context(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	if o.Timeout <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, o.Timeout)
}

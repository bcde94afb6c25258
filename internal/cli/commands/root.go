// Copyright 2025 Ramfs Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package commands

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var logLevel string

// SetVersion sets the version info for --version flag
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = getVersionString()
}

func getVersionString() string {
	if version == "dev" {
		return fmt.Sprintf("%s (commit: %s)", version, commit)
	}
	return fmt.Sprintf("%s (%s)", version, date)
}

var rootCmd = &cobra.Command{
	Use:   "ramfs",
	Short: "In-memory filesystem with POSIX-like semantics",
	Long: `An in-memory filesystem built over growable byte buffers, with a
scriptable shell and an NFS export. Nothing persists across restarts.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		level, err := log.ParseLevel(logLevel)
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", logLevel, err)
		}
		log.SetLevel(level)
		return nil
	},
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SetVersionTemplate("ramfs version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warning",
		"log level (trace, debug, info, warning, error)")
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

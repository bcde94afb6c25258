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
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gofrs/flock"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"ramfs/internal/ramfs"
	"ramfs/internal/seed"
	"ramfs/internal/server"
)

var (
	serveAddr        string
	serveConfigPath  string
	serveSeedDir     string
	serveNoGitignore bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Export a fresh in-memory filesystem over NFS",
	Long: `Creates an in-memory filesystem, optionally seeds it from a host
directory, and exports it over NFSv3. The tree is released on shutdown;
nothing persists.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default "+DefaultAddr+")")
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "YAML config file")
	serveCmd.Flags().StringVar(&serveSeedDir, "seed", "", "host directory to copy into the filesystem")
	serveCmd.Flags().BoolVar(&serveNoGitignore, "no-gitignore", false, "do not apply the seed tree's .gitignore")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := LoadServeConfig(serveConfigPath)
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.Addr = serveAddr
	}
	if serveSeedDir != "" {
		cfg.Seed = serveSeedDir
	}
	gitignore := cfg.GitignoreEnabled() && !serveNoGitignore

	// One exporting server per machine; a second invocation fails fast
	// instead of fighting over the address.
	lock := flock.New(filepath.Join(os.TempDir(), "ramfs-serve.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquiring serve lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("another ramfs server is already running")
	}
	defer lock.Unlock()

	fs := ramfs.New()
	defer fs.Release()

	if cfg.Seed != "" {
		stats, err := seed.Seed(fs, cfg.Seed, seed.Options{Gitignore: gitignore})
		if err != nil {
			return fmt.Errorf("seeding from %s: %w", cfg.Seed, err)
		}
		fmt.Printf("Seeded %d directories, %d files (%d bytes) from %s\n",
			stats.Dirs, stats.Files, stats.Bytes, cfg.Seed)
	}

	srv := server.NewNFSServer(fs)
	if err := srv.Listen(cfg.Addr); err != nil {
		return err
	}

	fmt.Printf("Filesystem %s exported on %s\n", fs.ID(), srv.Addr())

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Infof("received %s, shutting down", sig)
		srv.Shutdown()
		<-errCh
		return nil
	case err := <-errCh:
		return err
	}
}

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

// Package integration exercises the assembled stack: the in-memory
// filesystem behind the serializing guard, the billy adapter, and the NFS
// server on a real TCP listener. Unit-level behavior lives next to each
// package; these tests only cover what emerges from wiring the layers
// together.
package integration

import (
	"os"
	"path/filepath"
	"testing"

	"ramfs/internal/ramfs"
	"ramfs/internal/server"
)

// startServer brings up an NFS server for a fresh filesystem on an
// ephemeral port and tears everything down with the test.
func startServer(t *testing.T) (*server.NFSServer, *ramfs.FS) {
	t.Helper()

	fs := ramfs.New()
	srv := server.NewNFSServer(fs)
	if err := srv.Listen("127.0.0.1:0"); err != nil {
		fs.Release()
		t.Fatalf("listen: %v", err)
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Serve()
	}()

	t.Cleanup(func() {
		srv.Shutdown()
		<-serveErr
		fs.Release()
	})
	return srv, fs
}

// writeFile creates a file under dir, making parent directories as needed.
func writeFile(dir, name, content string) error {
	path := filepath.Join(dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0o644)
}

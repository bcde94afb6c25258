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

package integration

import (
	"fmt"
	"sort"
	"sync"
	"testing"

	. "github.com/onsi/gomega"

	"ramfs/internal/ramfs"
	"ramfs/internal/seed"
	"ramfs/internal/server"
)

// TestAdapterStack drives the same filesystem view NFS clients get: the
// billy adapter over the serializing guard.
func TestAdapterStack(t *testing.T) {
	t.Parallel()

	t.Run("builds and reads back a tree", func(t *testing.T) {
		t.Parallel()
		g := NewWithT(t)

		fs := ramfs.New()
		defer fs.Release()
		adapter := server.NewBillyAdapter(server.NewSerialized(fs))

		g.Expect(adapter.MkdirAll("project/src", 0o755)).To(Succeed())

		f, err := adapter.Create("project/src/main.txt")
		g.Expect(err).NotTo(HaveOccurred())
		_, err = f.Write([]byte("package main"))
		g.Expect(err).NotTo(HaveOccurred())
		g.Expect(f.Close()).To(Succeed())

		f, err = adapter.Open("project/src/main.txt")
		g.Expect(err).NotTo(HaveOccurred())
		defer f.Close()

		p := make([]byte, 64)
		n, err := f.Read(p)
		g.Expect(err).NotTo(HaveOccurred())
		g.Expect(string(p[:n])).To(Equal("package main"))

		infos, err := adapter.ReadDir("project/src")
		g.Expect(err).NotTo(HaveOccurred())
		g.Expect(infos).To(HaveLen(1))
		g.Expect(infos[0].Name()).To(Equal("main.txt"))
		g.Expect(infos[0].Size()).To(Equal(int64(len("package main"))))
	})

	t.Run("concurrent clients see a consistent tree", func(t *testing.T) {
		t.Parallel()
		g := NewWithT(t)

		fs := ramfs.New()
		defer fs.Release()
		adapter := server.NewBillyAdapter(server.NewSerialized(fs))

		const clients = 6
		var wg sync.WaitGroup
		errs := make(chan error, clients)
		for c := 0; c < clients; c++ {
			wg.Add(1)
			go func(c int) {
				defer wg.Done()
				name := fmt.Sprintf("client%d.txt", c)
				f, err := adapter.Create(name)
				if err != nil {
					errs <- err
					return
				}
				if _, err := f.Write([]byte(name)); err != nil {
					errs <- err
				}
				if err := f.Close(); err != nil {
					errs <- err
				}
			}(c)
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			g.Expect(err).NotTo(HaveOccurred())
		}

		infos, err := adapter.ReadDir("/")
		g.Expect(err).NotTo(HaveOccurred())
		g.Expect(infos).To(HaveLen(clients))

		names := make([]string, 0, clients)
		for _, info := range infos {
			names = append(names, info.Name())
		}
		sort.Strings(names)
		for c := 0; c < clients; c++ {
			g.Expect(names[c]).To(Equal(fmt.Sprintf("client%d.txt", c)))
		}
	})

	t.Run("seeded tree is visible through the adapter", func(t *testing.T) {
		t.Parallel()
		g := NewWithT(t)

		src := t.TempDir()
		g.Expect(writeFile(src, "README.md", "docs")).To(Succeed())
		g.Expect(writeFile(src, "pkg/lib.txt", "library")).To(Succeed())

		fs := ramfs.New()
		defer fs.Release()

		stats, err := seed.Seed(fs, src, seed.Options{})
		g.Expect(err).NotTo(HaveOccurred())
		g.Expect(stats.Files).To(Equal(2))

		adapter := server.NewBillyAdapter(server.NewSerialized(fs))
		f, err := adapter.Open("pkg/lib.txt")
		g.Expect(err).NotTo(HaveOccurred())
		defer f.Close()

		p := make([]byte, 32)
		n, err := f.Read(p)
		g.Expect(err).NotTo(HaveOccurred())
		g.Expect(string(p[:n])).To(Equal("library"))
	})
}

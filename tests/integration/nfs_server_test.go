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
	"net"
	"testing"
	"time"

	. "github.com/onsi/gomega"
)

func TestNFSServerLifecycle(t *testing.T) {
	t.Parallel()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	t.Run("accepts connections on an ephemeral port", func(t *testing.T) {
		t.Parallel()
		g := NewWithT(t)

		srv, fs := startServer(t)
		g.Expect(srv.Addr()).NotTo(BeNil())
		g.Expect(fs.ID()).NotTo(BeZero())

		conn, err := net.DialTimeout("tcp", srv.Addr().String(), 5*time.Second)
		g.Expect(err).NotTo(HaveOccurred())
		conn.Close()
	})

	t.Run("shutdown releases the port", func(t *testing.T) {
		t.Parallel()
		g := NewWithT(t)

		srv, _ := startServer(t)
		addr := srv.Addr().String()
		srv.Shutdown()

		g.Eventually(func() error {
			l, err := net.Listen("tcp", addr)
			if err != nil {
				return err
			}
			l.Close()
			return nil
		}, 10*time.Second, 100*time.Millisecond).Should(Succeed())
	})

	t.Run("two servers coexist on distinct ports", func(t *testing.T) {
		t.Parallel()
		g := NewWithT(t)

		a, afs := startServer(t)
		b, bfs := startServer(t)

		g.Expect(a.Addr().String()).NotTo(Equal(b.Addr().String()))
		g.Expect(afs.ID()).NotTo(Equal(bfs.ID()))
	})
}

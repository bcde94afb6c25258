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
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"ramfs/internal/common"
	"ramfs/internal/ramfs"
	"ramfs/internal/seed"
	"ramfs/internal/vfs"
)

var shellSeedDir string

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Run an interactive shell against a fresh in-memory filesystem",
	Long: `Starts an in-memory filesystem and reads commands from stdin.
Type "help" for the command list. The tree is released on exit.`,
	RunE: runShell,
}

func init() {
	shellCmd.Flags().StringVar(&shellSeedDir, "seed", "", "host directory to copy into the filesystem")
	rootCmd.AddCommand(shellCmd)
}

func runShell(cmd *cobra.Command, args []string) error {
	fs := ramfs.New()
	defer fs.Release()

	if shellSeedDir != "" {
		if _, err := seed.Seed(fs, shellSeedDir, seed.Options{Gitignore: true}); err != nil {
			return err
		}
	}

	sh := &shell{fs: fs, out: os.Stdout}
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Fprint(sh.out, "ramfs> ")
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "exit" || line == "quit" {
			break
		}
		if line != "" {
			if err := sh.run(line); err != nil {
				fmt.Fprintf(sh.out, "error: %v\n", err)
			}
		}
		fmt.Fprint(sh.out, "ramfs> ")
	}
	fmt.Fprintln(sh.out)
	return scanner.Err()
}

type shell struct {
	fs  vfs.FileSystem
	out io.Writer
}

func (s *shell) run(line string) error {
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "help":
		fmt.Fprint(s.out, `commands:
  ls [path]          list a directory
  stat <path>        print the status record
  cat <path>         print file content
  write <path> ...   create/truncate a file with the given text
  append <path> ...  append text to a file
  mkdir <path>       create a directory
  rmdir <path>       remove an empty directory
  rm <path>          remove a file (unsupported by this filesystem)
  mv <a> <b>         rename (unsupported by this filesystem)
  exit               quit
`)
		return nil
	case "ls":
		path := "/"
		if len(args) > 0 {
			path = common.AbsPath(args[0])
		}
		return s.ls(path)
	case "stat":
		if len(args) != 1 {
			return fmt.Errorf("usage: stat <path>")
		}
		return s.stat(common.AbsPath(args[0]))
	case "cat":
		if len(args) != 1 {
			return fmt.Errorf("usage: cat <path>")
		}
		return s.cat(common.AbsPath(args[0]))
	case "write", "append":
		if len(args) < 1 {
			return fmt.Errorf("usage: %s <path> <text>", cmd)
		}
		text := strings.Join(args[1:], " ")
		return s.write(common.AbsPath(args[0]), text, cmd == "append")
	case "mkdir":
		if len(args) != 1 {
			return fmt.Errorf("usage: mkdir <path>")
		}
		return s.fs.Mkdir(common.AbsPath(args[0]), 0o755)
	case "rmdir":
		if len(args) != 1 {
			return fmt.Errorf("usage: rmdir <path>")
		}
		return s.fs.Rmdir(common.AbsPath(args[0]))
	case "rm":
		if len(args) != 1 {
			return fmt.Errorf("usage: rm <path>")
		}
		return s.fs.Unlink(common.AbsPath(args[0]))
	case "mv":
		if len(args) != 2 {
			return fmt.Errorf("usage: mv <a> <b>")
		}
		return s.fs.Rename(common.AbsPath(args[0]), common.AbsPath(args[1]))
	default:
		return fmt.Errorf("unknown command %q (try help)", cmd)
	}
}

func (s *shell) ls(path string) error {
	h, err := s.fs.Open(path, os.O_RDONLY|vfs.ODirectory, 0)
	if err != nil {
		return err
	}
	defer s.fs.Close(h)

	for {
		ents, err := s.fs.Getdents(h, 64)
		if err != nil {
			return err
		}
		if len(ents) == 0 {
			return nil
		}
		for _, ent := range ents {
			marker := ""
			if ent.IsDir() {
				marker = "/"
			}
			fmt.Fprintf(s.out, "%s%s\n", ent.Name, marker)
		}
	}
}

func (s *shell) stat(path string) error {
	st, err := s.fs.Stat(path)
	if err != nil {
		return err
	}
	kind := "file"
	if st.IsDir() {
		kind = "directory"
	}
	fmt.Fprintf(s.out, "%s: %s mode=%o nlink=%d size=%d blocks=%d ino=%d\n",
		path, kind, st.Permissions(), st.Nlink, st.Size, st.Blocks, st.Ino)
	return nil
}

func (s *shell) cat(path string) error {
	h, err := s.fs.Open(path, os.O_RDONLY, 0)
	if err != nil {
		return err
	}
	defer s.fs.Close(h)

	buf := make([]byte, 4096)
	for {
		n, err := s.fs.Read(h, buf)
		if err != nil {
			return err
		}
		if n == 0 {
			return nil
		}
		s.out.Write(buf[:n])
	}
}

func (s *shell) write(path, text string, appendMode bool) error {
	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if appendMode {
		flags = os.O_CREATE | os.O_WRONLY | os.O_APPEND
	}
	h, err := s.fs.Open(path, flags, 0o644)
	if err != nil {
		return err
	}
	defer s.fs.Close(h)

	n, err := s.fs.Write(h, []byte(text))
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "wrote %d bytes\n", n)
	return nil
}

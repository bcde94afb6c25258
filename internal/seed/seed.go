// Package seed populates a filesystem from a host directory tree through
// the public operation surface: directories via Mkdir, file content via
// Create and Write. It is repository glue for demos and serving, not an
// image-ingestion format.
package seed

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	ignore "github.com/sabhiram/go-gitignore"
	log "github.com/sirupsen/logrus"

	"ramfs/internal/common"
	"ramfs/internal/vfs"
)

// Options controls what gets copied in.
type Options struct {
	// Gitignore applies the source tree's root .gitignore, if present.
	Gitignore bool
}

// Stats reports what Seed copied.
type Stats struct {
	Dirs  int
	Files int
	Bytes int64
}

// Seed copies the tree rooted at sourceDir into the root of target.
// Symlinks and other irregular files are skipped; the filesystem cannot
// represent them.
func Seed(target vfs.FileSystem, sourceDir string, opts Options) (*Stats, error) {
	var matcher *ignore.GitIgnore
	if opts.Gitignore {
		gi := filepath.Join(sourceDir, ".gitignore")
		if _, err := os.Stat(gi); err == nil {
			m, err := ignore.CompileIgnoreFile(gi)
			if err != nil {
				return nil, fmt.Errorf("compiling %s: %w", gi, err)
			}
			matcher = m
		}
	}

	stats := &Stats{}
	err := filepath.WalkDir(sourceDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(sourceDir, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}

		if matcher != nil && matcher.MatchesPath(rel) {
			log.Debugf("[SEED] ignoring %q", rel)
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		dest := common.AbsPath(filepath.ToSlash(rel))
		switch {
		case d.IsDir():
			if err := target.Mkdir(dest, 0o755); err != nil {
				return fmt.Errorf("mkdir %s: %w", dest, err)
			}
			stats.Dirs++

		case d.Type().IsRegular():
			n, err := seedFile(target, path, dest)
			if err != nil {
				return err
			}
			stats.Files++
			stats.Bytes += n

		default:
			log.Debugf("[SEED] skipping irregular file %q", rel)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Debugf("[SEED] seeded %d dirs, %d files, %d bytes from %q",
		stats.Dirs, stats.Files, stats.Bytes, sourceDir)
	return stats, nil
}

func seedFile(target vfs.FileSystem, hostPath, dest string) (int64, error) {
	content, err := os.ReadFile(hostPath)
	if err != nil {
		return 0, err
	}

	h, err := target.Create(dest, 0o644)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", dest, err)
	}
	defer target.Close(h)

	n, err := target.Write(h, content)
	if err != nil {
		return 0, fmt.Errorf("write %s: %w", dest, err)
	}
	return int64(n), nil
}

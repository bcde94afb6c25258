package server

import (
	"sync"

	"ramfs/internal/vfs"
)

// Serialized wraps a FileSystem with a mutex, playing the role the
// surrounding kernel has in the modeled system: the filesystem core holds
// no locks of its own, so every access from a potentially concurrent caller
// (the NFS server, the billy adapter) goes through here.
type Serialized struct {
	mu sync.Mutex
	fs vfs.FileSystem
}

// NewSerialized wraps fs for concurrent callers.
func NewSerialized(fs vfs.FileSystem) *Serialized {
	return &Serialized{fs: fs}
}

func (s *Serialized) Open(path string, flags int, mode uint32) (vfs.Handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fs.Open(path, flags, mode)
}

func (s *Serialized) Create(path string, mode uint32) (vfs.Handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fs.Create(path, mode)
}

func (s *Serialized) Read(h vfs.Handle, p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fs.Read(h, p)
}

func (s *Serialized) Write(h vfs.Handle, p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fs.Write(h, p)
}

func (s *Serialized) Readv(h vfs.Handle, segs [][]byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fs.Readv(h, segs)
}

func (s *Serialized) Writev(h vfs.Handle, segs [][]byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fs.Writev(h, segs)
}

func (s *Serialized) Seek(h vfs.Handle, offset int64, whence int) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fs.Seek(h, offset, whence)
}

func (s *Serialized) Close(h vfs.Handle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fs.Close(h)
}

func (s *Serialized) Stat(path string) (*vfs.Stat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fs.Stat(path)
}

func (s *Serialized) Fstat(h vfs.Handle) (*vfs.Stat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fs.Fstat(h)
}

func (s *Serialized) Mkdir(path string, mode uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fs.Mkdir(path, mode)
}

func (s *Serialized) Rmdir(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fs.Rmdir(path)
}

func (s *Serialized) Getdents(h vfs.Handle, maxRecords int) ([]vfs.Dirent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fs.Getdents(h, maxRecords)
}

func (s *Serialized) Link(oldpath, newpath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fs.Link(oldpath, newpath)
}

func (s *Serialized) Unlink(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fs.Unlink(path)
}

func (s *Serialized) Rename(oldpath, newpath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fs.Rename(oldpath, newpath)
}

func (s *Serialized) Truncate(path string, length int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fs.Truncate(path, length)
}

func (s *Serialized) Ftruncate(h vfs.Handle, length int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fs.Ftruncate(h, length)
}

func (s *Serialized) Release() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fs.Release()
}

var _ vfs.FileSystem = (*Serialized)(nil)

package server

import (
	"io"
	"os"
	gopath "path"
	"time"

	billy "github.com/go-git/go-billy/v5"
	nfsfile "github.com/willscott/go-nfs/file"

	"ramfs/internal/common"
	"ramfs/internal/vfs"
)

// getdentsBatch is how many entry records ReadDir pulls per Getdents call.
const getdentsBatch = 128

// BillyAdapter adapts a vfs.FileSystem to the billy filesystem interface so
// it can be exported over NFS. The adapter surfaces the capability gaps of
// the underlying filesystem as-is: rename, file removal and truncation fail
// with EINVAL, and random forward access is limited by the seek rule (the
// cursor can only move backward), so clients see a sequential-access view.
type BillyAdapter struct {
	fs vfs.FileSystem
}

// NewBillyAdapter creates a billy adapter for fs. The filesystem must
// already be safe for concurrent callers (see NewSerialized).
func NewBillyAdapter(fs vfs.FileSystem) *BillyAdapter {
	return &BillyAdapter{fs: fs}
}

func (b *BillyAdapter) Create(filename string) (billy.File, error) {
	return b.OpenFile(filename, os.O_CREATE|os.O_RDWR|os.O_TRUNC, 0o644)
}

func (b *BillyAdapter) Open(filename string) (billy.File, error) {
	return b.OpenFile(filename, os.O_RDONLY, 0)
}

func (b *BillyAdapter) OpenFile(filename string, flag int, perm os.FileMode) (billy.File, error) {
	h, err := b.fs.Open(common.AbsPath(filename), flag, uint32(perm))
	if err != nil {
		return nil, err
	}
	return &BillyFile{fs: b.fs, handle: h, name: filename}, nil
}

func (b *BillyAdapter) Stat(filename string) (os.FileInfo, error) {
	st, err := b.fs.Stat(common.AbsPath(filename))
	if err != nil {
		return nil, err
	}
	return &BillyFileInfo{name: gopath.Base(common.AbsPath(filename)), stat: st}, nil
}

// Lstat is identical to Stat; the filesystem has no symlinks.
func (b *BillyAdapter) Lstat(filename string) (os.FileInfo, error) {
	return b.Stat(filename)
}

func (b *BillyAdapter) Rename(oldpath, newpath string) error {
	return b.fs.Rename(common.AbsPath(oldpath), common.AbsPath(newpath))
}

// Remove removes empty directories via Rmdir. File removal is a capability
// gap of the filesystem and surfaces its EINVAL.
func (b *BillyAdapter) Remove(filename string) error {
	abs := common.AbsPath(filename)
	st, err := b.fs.Stat(abs)
	if err != nil {
		return err
	}
	if st.IsDir() {
		return b.fs.Rmdir(abs)
	}
	return b.fs.Unlink(abs)
}

func (b *BillyAdapter) Join(elem ...string) string {
	return gopath.Join(elem...)
}

func (b *BillyAdapter) TempFile(dir, prefix string) (billy.File, error) {
	return nil, os.ErrInvalid
}

func (b *BillyAdapter) ReadDir(dirname string) ([]os.FileInfo, error) {
	abs := common.AbsPath(dirname)
	h, err := b.fs.Open(abs, os.O_RDONLY|vfs.ODirectory, 0)
	if err != nil {
		return nil, err
	}
	defer b.fs.Close(h)

	var infos []os.FileInfo
	for {
		ents, err := b.fs.Getdents(h, getdentsBatch)
		if err != nil {
			return nil, err
		}
		if len(ents) == 0 {
			break
		}
		for _, ent := range ents {
			if ent.Name == "." || ent.Name == ".." {
				continue
			}
			st, err := b.fs.Stat(common.Join(abs, ent.Name))
			if err != nil {
				return nil, err
			}
			infos = append(infos, &BillyFileInfo{name: ent.Name, stat: st})
		}
	}
	return infos, nil
}

func (b *BillyAdapter) MkdirAll(filename string, perm os.FileMode) error {
	current := "/"
	for _, component := range common.Components(filename) {
		current = common.Join(current, component)
		if err := b.fs.Mkdir(current, uint32(perm)); err != nil && err != vfs.EEXIST {
			return err
		}
	}
	return nil
}

func (b *BillyAdapter) Symlink(target, link string) error {
	return vfs.EINVAL
}

func (b *BillyAdapter) Readlink(link string) (string, error) {
	return "", vfs.EINVAL
}

func (b *BillyAdapter) Chroot(path string) (billy.Filesystem, error) {
	return nil, os.ErrInvalid
}

func (b *BillyAdapter) Root() string {
	return "/"
}

// Capabilities deliberately omits billy.TruncateCapability: truncation is
// one of the filesystem's unsupported operations.
func (b *BillyAdapter) Capabilities() billy.Capability {
	return billy.WriteCapability | billy.ReadCapability |
		billy.ReadAndWriteCapability | billy.SeekCapability
}

// BillyFile is an open file backed by a filesystem handle. The handle's own
// cursor is the file position, so reads and writes through the billy
// interface advance the same offset Seek operates on.
type BillyFile struct {
	fs     vfs.FileSystem
	handle vfs.Handle
	name   string
}

func (f *BillyFile) Name() string {
	return f.name
}

func (f *BillyFile) Write(p []byte) (int, error) {
	return f.fs.Write(f.handle, p)
}

func (f *BillyFile) Read(p []byte) (int, error) {
	return f.fs.Read(f.handle, p)
}

func (f *BillyFile) ReadAt(p []byte, off int64) (int, error) {
	if _, err := f.fs.Seek(f.handle, off, io.SeekStart); err != nil {
		return 0, err
	}
	return f.fs.Read(f.handle, p)
}

func (f *BillyFile) Seek(offset int64, whence int) (int64, error) {
	return f.fs.Seek(f.handle, offset, whence)
}

func (f *BillyFile) Close() error {
	return f.fs.Close(f.handle)
}

func (f *BillyFile) Lock() error   { return nil }
func (f *BillyFile) Unlock() error { return nil }

func (f *BillyFile) Truncate(size int64) error {
	return f.fs.Ftruncate(f.handle, size)
}

// BillyFileInfo presents a status record as os.FileInfo.
type BillyFileInfo struct {
	name string
	stat *vfs.Stat
}

func (fi *BillyFileInfo) Name() string {
	return fi.name
}

func (fi *BillyFileInfo) Size() int64 {
	return fi.stat.Size
}

func (fi *BillyFileInfo) Mode() os.FileMode {
	mode := os.FileMode(fi.stat.Permissions())
	if fi.stat.IsDir() {
		mode |= os.ModeDir
	}
	return mode
}

// ModTime is always the zero time; the filesystem does not track
// timestamps.
func (fi *BillyFileInfo) ModTime() time.Time {
	return time.Time{}
}

func (fi *BillyFileInfo) IsDir() bool {
	return fi.stat.IsDir()
}

// Sys returns the go-nfs FileInfo; the NFS handler only recognizes this
// type when synthesizing fattr3 responses.
func (fi *BillyFileInfo) Sys() interface{} {
	return &nfsfile.FileInfo{
		Nlink:  uint32(fi.stat.Nlink),
		UID:    fi.stat.UID,
		GID:    fi.stat.GID,
		Fileid: fi.stat.Ino,
	}
}

var (
	_ billy.Filesystem = (*BillyAdapter)(nil)
	_ billy.Capable    = (*BillyAdapter)(nil)
	_ billy.File       = (*BillyFile)(nil)
)

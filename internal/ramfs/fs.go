// Package ramfs implements an in-memory filesystem with POSIX-like
// semantics over dynamically growable byte buffers. There is no backing
// device: regular files are byte buffers and directories are packed tables
// of fixed-size entry records.
//
// The filesystem performs no locking and no blocking; every operation
// completes synchronously or fails immediately with an error code. Callers
// are responsible for serializing access to an FS and everything reachable
// from it (see server.Serialized).
package ramfs

import (
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"ramfs/internal/vfs"
)

// RootIno is the arena index of the root directory. The root is its own
// parent: its "." and ".." records both reference RootIno.
const RootIno uint64 = 1

// BlockSize is the fixed block size reported by Stat.
const BlockSize = 512

const accessMask = os.O_RDONLY | os.O_WRONLY | os.O_RDWR

// FS is an in-memory filesystem. Inodes live in an append-only arena
// addressed by stable indices; directory entries reference children by
// index, so no entry ever owns the inode it names. The zero index is
// reserved as invalid.
type FS struct {
	id       uuid.UUID
	inodes   []*inode
	handles  *handleTable
	bufLimit int // per-inode buffer cap in bytes; 0 means unlimited
	released bool
}

// New creates a filesystem containing only the root directory.
func New() *FS {
	fs, err := NewWithBufferLimit(0)
	if err != nil {
		// Root creation cannot fail without a buffer limit.
		panic(fmt.Sprintf("ramfs: root creation failed: %v", err))
	}
	return fs
}

// NewWithBufferLimit creates a filesystem whose inode buffers are capped at
// limit bytes each. Growth past the limit fails with ENOMEM. A limit of 0
// means unlimited.
func NewWithBufferLimit(limit int) (*FS, error) {
	fs := &FS{
		id:       uuid.New(),
		inodes:   make([]*inode, 1), // slot 0 reserved as invalid
		handles:  newHandleTable(),
		bufLimit: limit,
	}

	root, err := fs.newInode(0, "/", vfs.ModeDir|0o777)
	if err != nil {
		return nil, err
	}
	if root != RootIno {
		panic("ramfs: root allocated at unexpected arena index")
	}

	log.Debugf("[RAMFS] new filesystem id=%s limit=%d", fs.id, limit)
	return fs, nil
}

// ID returns the filesystem instance identity.
func (fs *FS) ID() uuid.UUID {
	return fs.id
}

// Open opens path and returns a handle bound to its inode.
//
// For an existing path: O_CREATE|O_EXCL fails with EEXIST, ODirectory on a
// non-directory fails with ENOTDIR, O_TRUNC clears the content, and
// O_APPEND starts the handle at end-of-file. For a missing path, O_CREATE
// creates a regular file under the parent directory named by the path;
// otherwise the open fails with ENOENT.
func (fs *FS) Open(path string, flags int, mode uint32) (vfs.Handle, error) {
	log.Debugf("[RAMFS] Open: path=%q flags=%#x mode=%o", path, flags, mode)
	if fs.released {
		return 0, vfs.EINVAL
	}

	ino, err := fs.resolve(path)
	switch {
	case err == nil:
		node := fs.inode(ino)
		if flags&os.O_CREATE != 0 && flags&os.O_EXCL != 0 {
			return 0, vfs.EEXIST
		}
		if flags&vfs.ODirectory != 0 && !node.isDir() {
			return 0, vfs.ENOTDIR
		}
		if flags&os.O_TRUNC != 0 {
			node.buf.Clear()
		}

	case err == vfs.ENOENT:
		if flags&os.O_CREATE == 0 {
			return 0, vfs.ENOENT
		}
		dirname, basename, serr := splitPath(path)
		if serr != nil {
			return 0, serr
		}
		parent, perr := fs.resolve(dirname)
		if perr != nil {
			return 0, perr
		}
		ino, err = fs.newInode(parent, basename, vfs.ModeReg|mode)
		if err != nil {
			return 0, err
		}

	default:
		return 0, err
	}

	node := fs.inode(ino)
	h := fs.handles.allocate(ino, flags&accessMask)
	if flags&os.O_APPEND != 0 {
		fs.handles.get(h).offset = node.size()
	}
	node.nopens++
	return h, nil
}

// Create is Open with O_CREATE|O_WRONLY|O_TRUNC.
func (fs *FS) Create(path string, mode uint32) (vfs.Handle, error) {
	return fs.Open(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
}

// Read copies up to len(p) bytes from the handle's current position,
// advancing it by the amount transferred. Reads past end of content are
// clamped; a short or zero count is not an error.
func (fs *FS) Read(h vfs.Handle, p []byte) (int, error) {
	if fs.released {
		return 0, vfs.EINVAL
	}
	f := fs.handles.get(h)
	if f == nil {
		return 0, vfs.EINVAL
	}
	node := fs.mustInode(f.ino)

	if len(p) == 0 {
		return 0, nil
	}
	if f.offset > node.size() {
		return 0, vfs.EINVAL
	}

	remaining := node.size() - f.offset
	if remaining == 0 {
		return 0, nil // end of file
	}
	n := min(len(p), remaining)
	copy(p, node.buf.Data()[f.offset:f.offset+n])
	f.offset += n
	return n, nil
}

// Write copies all of p at the handle's current position, growing the
// content first when the write extends past its end. Writes never transfer
// fewer bytes than requested once growth succeeds.
func (fs *FS) Write(h vfs.Handle, p []byte) (int, error) {
	if fs.released {
		return 0, vfs.EINVAL
	}
	f := fs.handles.get(h)
	if f == nil {
		return 0, vfs.EINVAL
	}
	node := fs.mustInode(f.ino)

	if len(p) == 0 {
		return 0, nil
	}
	if f.offset > node.size() {
		return 0, vfs.EINVAL
	}

	newOffset := f.offset + len(p)
	if newOffset > node.size() {
		if err := node.buf.Resize(newOffset); err != nil {
			return 0, vfs.ENOMEM
		}
	}
	copy(node.buf.Data()[f.offset:], p)
	f.offset = newOffset
	return len(p), nil
}

// Readv reads into each segment in order, stopping early without error as
// soon as a segment transfers fewer bytes than requested. It returns the
// cumulative count.
func (fs *FS) Readv(h vfs.Handle, segs [][]byte) (int, error) {
	total := 0
	for _, seg := range segs {
		n, err := fs.Read(h, seg)
		if err != nil {
			return total, err
		}
		total += n
		if n < len(seg) {
			break
		}
	}
	return total, nil
}

// Writev writes each segment in order, stopping early without error as
// soon as a segment transfers fewer bytes than requested. It returns the
// cumulative count.
func (fs *FS) Writev(h vfs.Handle, segs [][]byte) (int, error) {
	total := 0
	for _, seg := range segs {
		n, err := fs.Write(h, seg)
		if err != nil {
			return total, err
		}
		total += n
		if n < len(seg) {
			break
		}
	}
	return total, nil
}

// Seek moves the handle's cursor. The new offset must not be negative and
// must not exceed the handle's current offset; seeking forward past the
// present cursor (including seek-past-end to create a hole) is not
// supported by the modeled filesystem.
func (fs *FS) Seek(h vfs.Handle, offset int64, whence int) (int64, error) {
	if fs.released {
		return 0, vfs.EINVAL
	}
	f := fs.handles.get(h)
	if f == nil {
		return 0, vfs.EINVAL
	}
	node := fs.mustInode(f.ino)

	var newOffset int64
	switch whence {
	case io.SeekStart:
		newOffset = offset
	case io.SeekCurrent:
		newOffset = int64(f.offset) + offset
	case io.SeekEnd:
		newOffset = int64(node.size()) + offset
	default:
		return 0, vfs.EINVAL
	}

	if newOffset < 0 || newOffset > int64(f.offset) {
		return 0, vfs.EINVAL
	}
	f.offset = int(newOffset)
	return newOffset, nil
}

// Close invalidates the handle and decrements the inode's open count.
func (fs *FS) Close(h vfs.Handle) error {
	if fs.released {
		return vfs.EINVAL
	}
	f := fs.handles.get(h)
	if f == nil {
		return vfs.EINVAL
	}
	node := fs.mustInode(f.ino)
	if node.nopens <= 0 {
		panic("ramfs: close on inode with zero open count")
	}
	node.nopens--
	fs.handles.release(h)
	return nil
}

// Stat resolves path and synthesizes its status record.
func (fs *FS) Stat(path string) (*vfs.Stat, error) {
	if fs.released {
		return nil, vfs.EINVAL
	}
	ino, err := fs.resolve(path)
	if err != nil {
		return nil, err
	}
	return fs.statInode(ino), nil
}

// Fstat synthesizes the status record for an open handle.
func (fs *FS) Fstat(h vfs.Handle) (*vfs.Stat, error) {
	if fs.released {
		return nil, vfs.EINVAL
	}
	f := fs.handles.get(h)
	if f == nil {
		return nil, vfs.EINVAL
	}
	return fs.statInode(f.ino), nil
}

func (fs *FS) statInode(ino uint64) *vfs.Stat {
	node := fs.mustInode(ino)
	size := int64(node.size())
	return &vfs.Stat{
		Ino:     ino,
		Mode:    node.mode,
		Nlink:   node.nlink,
		Size:    size,
		Blksize: BlockSize,
		Blocks:  (size + BlockSize - 1) / BlockSize,
	}
}

// Mkdir creates a directory under path's parent, which must itself be a
// directory and must not already contain an entry with that name.
func (fs *FS) Mkdir(path string, mode uint32) error {
	log.Debugf("[RAMFS] Mkdir: path=%q mode=%o", path, mode)
	if fs.released {
		return vfs.EINVAL
	}

	dirname, basename, err := splitPath(path)
	if err != nil {
		return err
	}
	parentIno, err := fs.resolve(dirname)
	if err != nil {
		return err
	}
	parent := fs.inode(parentIno)
	if !parent.isDir() {
		return vfs.ENOTDIR
	}
	if _, ok := findChild(parent, basename); ok {
		return vfs.EEXIST
	}

	_, err = fs.newInode(parentIno, basename, vfs.ModeDir|mode)
	return err
}

// Rmdir removes an empty directory: its entry record is removed from the
// parent's table, its link count drops, and when only the self-reference
// remained the inode is freed immediately. The free is unconditional on the
// open count; handles still open against the removed directory dangle and
// panic on use.
func (fs *FS) Rmdir(path string) error {
	log.Debugf("[RAMFS] Rmdir: path=%q", path)
	if fs.released {
		return vfs.EINVAL
	}

	childIno, err := fs.resolve(path)
	if err != nil {
		return err
	}
	child := fs.inode(childIno)
	if !child.isDir() {
		return vfs.ENOTDIR
	}
	// Empty means exactly the "." and ".." records remain.
	if child.size() > 2*DirentSize {
		return vfs.ENOTEMPTY
	}

	dirname, basename, err := splitPath(path)
	if err != nil {
		return err
	}
	parentIno, err := fs.resolve(dirname)
	if err != nil {
		return err
	}
	parent := fs.inode(parentIno)

	// Resolution proved the entry exists; failure to find or remove it
	// here is a broken invariant, not a user error.
	data := parent.buf.Data()
	found := false
	for i := 0; i < len(data)/DirentSize; i++ {
		ent := unmarshalDirent(data[i*DirentSize:])
		if ent.Name == basename {
			if rerr := parent.buf.Remove(i*DirentSize, DirentSize); rerr != nil {
				panic(fmt.Sprintf("ramfs: removing resolved entry %q: %v", basename, rerr))
			}
			found = true
			break
		}
	}
	if !found {
		panic(fmt.Sprintf("ramfs: resolved entry %q missing from parent directory", basename))
	}

	// When the self "." reference is the only one left, free the inode.
	child.nlink--
	if child.nlink == 0 {
		fs.freeInode(childIno)
	}
	return nil
}

// Getdents reads up to maxRecords whole entry records from the handle's
// current position, advancing it. A zero read ends the directory; a
// non-zero partial record means the directory buffer is corrupt and panics.
func (fs *FS) Getdents(h vfs.Handle, maxRecords int) ([]vfs.Dirent, error) {
	if fs.released {
		return nil, vfs.EINVAL
	}
	if fs.handles.get(h) == nil {
		return nil, vfs.EINVAL
	}

	var ents []vfs.Dirent
	for i := 0; i < maxRecords; i++ {
		var rec [DirentSize]byte
		n, err := fs.Read(h, rec[:])
		if err != nil {
			return ents, err
		}
		if n == 0 {
			break // end of directory
		}
		if n != DirentSize {
			panic(fmt.Sprintf("ramfs: directory read returned partial record (%d bytes)", n))
		}
		ents = append(ents, unmarshalDirent(rec[:]))
	}
	return ents, nil
}

// Hard-link creation, unlink, rename and truncation are genuine capability
// gaps of the modeled filesystem and always fail with EINVAL.

func (fs *FS) Link(oldpath, newpath string) error { return vfs.EINVAL }

func (fs *FS) Unlink(path string) error { return vfs.EINVAL }

func (fs *FS) Rename(oldpath, newpath string) error { return vfs.EINVAL }

func (fs *FS) Truncate(path string, length int64) error { return vfs.EINVAL }

func (fs *FS) Ftruncate(h vfs.Handle, length int64) error { return vfs.EINVAL }

// Release recursively frees every inode reachable from the root and marks
// the filesystem invalid; all subsequent operations fail with EINVAL.
func (fs *FS) Release() error {
	if fs.released {
		return vfs.EINVAL
	}
	log.Debugf("[RAMFS] Release: id=%s inodes=%d", fs.id, len(fs.inodes)-1)
	fs.releaseTree(RootIno, vfs.DTDir)
	fs.released = true
	return nil
}

// mustInode returns the live inode for ino, panicking if the slot was
// freed. A freed slot here means a handle outlived its inode (for example
// after Rmdir), which the filesystem treats as a fatal invariant violation
// rather than silent reuse.
func (fs *FS) mustInode(ino uint64) *inode {
	node := fs.inode(ino)
	if node == nil {
		panic(fmt.Sprintf("ramfs: handle references freed inode %d", ino))
	}
	return node
}

var _ vfs.FileSystem = (*FS)(nil)

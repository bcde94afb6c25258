package vfs

// Handle identifies an open file or directory within a FileSystem.
// Handle values are never reused within the lifetime of a filesystem.
type Handle uint64

// File type bits stored in the upper part of an inode mode, mirroring the
// POSIX S_IFMT encoding.
const (
	ModeMask uint32 = 0o170000
	ModeDir  uint32 = 0o040000
	ModeReg  uint32 = 0o100000
)

// ODirectory requires the opened path to be a directory. The remaining open
// flags (O_CREATE, O_EXCL, O_TRUNC, O_APPEND and the access modes) come from
// package os.
const ODirectory = 0o200000

// Directory entry type tags, matching the Linux d_type values.
const (
	DTReg uint8 = 8
	DTDir uint8 = 4
)

// Dirent is one directory entry record as returned by Getdents. The wire
// layout inside a directory buffer is fixed-size and 8-byte aligned; Reclen
// always reports that fixed size.
type Dirent struct {
	Ino    uint64 // inode identity of the named child
	Off    uint64 // byte offset of this record within its directory at insertion time
	Reclen uint16 // fixed record length in bytes
	Type   uint8  // DTReg or DTDir
	Name   string // bounded, unique within the directory
}

// IsDir reports whether the entry names a directory.
func (d *Dirent) IsDir() bool {
	return d.Type == DTDir
}

// Stat is the synthesized status record for an inode. Timestamps are not
// tracked by the filesystem and always report zero.
type Stat struct {
	Dev     uint64 // always 0
	Ino     uint64 // stable inode identity
	Mode    uint32 // type bits | permission bits
	Nlink   int    // directory-entry references
	UID     uint32 // always 0
	GID     uint32 // always 0
	Size    int64  // current content length in bytes
	Blksize int64
	Blocks  int64 // Size rounded up to Blksize, divided by Blksize
	Atime   int64 // unsupported, 0
	Mtime   int64 // unsupported, 0
	Ctime   int64 // unsupported, 0
}

// IsDir reports whether the record describes a directory.
func (s *Stat) IsDir() bool {
	return s.Mode&ModeMask == ModeDir
}

// Permissions returns the permission bits of the mode.
func (s *Stat) Permissions() uint32 {
	return s.Mode & 0o777
}

// FileSystem is the capability set shared by filesystem implementations.
// Implementations are not required to be safe for concurrent use; callers
// serialize access (see server.Serialized).
type FileSystem interface {
	// Open opens path, optionally creating it, and returns a handle bound
	// to the inode with the offset at zero (or at end-of-file for O_APPEND).
	Open(path string, flags int, mode uint32) (Handle, error)
	// Create is Open with O_CREATE|O_WRONLY|O_TRUNC.
	Create(path string, mode uint32) (Handle, error)

	Read(h Handle, p []byte) (int, error)
	Write(h Handle, p []byte) (int, error)
	Readv(h Handle, segs [][]byte) (int, error)
	Writev(h Handle, segs [][]byte) (int, error)
	Seek(h Handle, offset int64, whence int) (int64, error)
	Close(h Handle) error

	Stat(path string) (*Stat, error)
	Fstat(h Handle) (*Stat, error)

	Mkdir(path string, mode uint32) error
	Rmdir(path string) error
	// Getdents reads up to maxRecords whole directory entry records from
	// the handle's current position, advancing it.
	Getdents(h Handle, maxRecords int) ([]Dirent, error)

	// Capability gaps of the modeled filesystem; these always fail with
	// an invalid-argument error.
	Link(oldpath, newpath string) error
	Unlink(path string) error
	Rename(oldpath, newpath string) error
	Truncate(path string, length int64) error
	Ftruncate(h Handle, length int64) error

	// Release tears down the entire tree. The filesystem is unusable
	// afterwards.
	Release() error
}

package ramfs

import (
	"ramfs/internal/buf"
	"ramfs/internal/vfs"
)

// inode is the filesystem's only node type. The buffer holds raw bytes for
// regular files and a packed sequence of entry records for directories; a
// directory's first two records are always "." and "..".
//
// nlink counts directory-entry references recorded in any directory table:
// a directory's own "." entry counts toward itself, while ".." entries and
// named entries count toward the directory they live under. A regular file
// therefore carries nlink 0 and a directory nlink 1; everything else
// accumulates on the parent.
type inode struct {
	mode   uint32 // type bits | permission bits, immutable after creation
	nlink  int
	nopens int // advisory open-handle count; does not block removal
	buf    buf.Buf
}

func (in *inode) isDir() bool {
	return in.mode&vfs.ModeMask == vfs.ModeDir
}

func (in *inode) size() int {
	return in.buf.Len()
}

// dirents decodes the directory's packed record sequence.
func (in *inode) dirents() []vfs.Dirent {
	data := in.buf.Data()
	n := len(data) / DirentSize
	ents := make([]vfs.Dirent, 0, n)
	for i := 0; i < n; i++ {
		ents = append(ents, unmarshalDirent(data[i*DirentSize:]))
	}
	return ents
}

// alloc reserves the next arena slot. Slots are append-only so inode
// identities stay stable for the filesystem's lifetime; freed slots become
// nil and are never reused.
func (fs *FS) alloc(node *inode) uint64 {
	fs.inodes = append(fs.inodes, node)
	return uint64(len(fs.inodes) - 1)
}

// inode returns the arena slot for ino, or nil if it was never allocated or
// has been freed.
func (fs *FS) inode(ino uint64) *inode {
	if ino == 0 || ino >= uint64(len(fs.inodes)) {
		return nil
	}
	return fs.inodes[ino]
}

func (fs *FS) freeInode(ino uint64) {
	if node := fs.inode(ino); node != nil {
		node.buf.Release()
		fs.inodes[ino] = nil
	}
}

// addEntry appends a named record to dir's entry table. Off and Reclen are
// filled in here; Off records the insertion offset within the buffer.
func (fs *FS) addEntry(dir *inode, ent vfs.Dirent) error {
	ent.Off = uint64(dir.buf.Len())
	ent.Reclen = DirentSize
	var rec [DirentSize]byte
	marshalDirent(rec[:], &ent)
	if err := dir.buf.Append(rec[:]); err != nil {
		return vfs.ENOMEM
	}
	return nil
}

// newInode allocates an inode under parentIno. A parentIno of 0 creates the
// root, which is its own parent. Directories atomically receive their "."
// and ".." records before anything else; non-root inodes are then recorded
// in the parent's table under name. On any failure the new inode is freed,
// leaving no dangling nodes.
func (fs *FS) newInode(parentIno uint64, name string, mode uint32) (uint64, error) {
	if name == "" {
		return 0, vfs.EINVAL
	}
	if len(name) > NameMax {
		return 0, vfs.ENAMETOOLONG
	}

	node := &inode{mode: mode}
	node.buf.SetLimit(fs.bufLimit)
	ino := fs.alloc(node)

	// The root directory is its own parent.
	if parentIno == 0 {
		parentIno = ino
	}
	parent := fs.inode(parentIno)

	if node.isDir() {
		if err := fs.addEntry(node, vfs.Dirent{Ino: ino, Type: vfs.DTDir, Name: "."}); err != nil {
			fs.freeInode(ino)
			return 0, err
		}
		node.nlink++

		if err := fs.addEntry(node, vfs.Dirent{Ino: parentIno, Type: vfs.DTDir, Name: ".."}); err != nil {
			fs.freeInode(ino)
			return 0, err
		}
		parent.nlink++
	}

	if parentIno != ino {
		typ := vfs.DTReg
		if node.isDir() {
			typ = vfs.DTDir
		}
		if err := fs.addEntry(parent, vfs.Dirent{Ino: ino, Type: typ, Name: name}); err != nil {
			fs.freeInode(ino)
			return 0, err
		}
		parent.nlink++
	}

	return ino, nil
}

// findChild scans dir's entry records for name.
func findChild(dir *inode, name string) (uint64, bool) {
	data := dir.buf.Data()
	n := len(data) / DirentSize
	for i := 0; i < n; i++ {
		ent := unmarshalDirent(data[i*DirentSize:])
		if ent.Name == name {
			return ent.Ino, true
		}
	}
	return 0, false
}

// releaseTree frees ino and, for directories, every reachable child first.
// The "." and ".." records are skipped so the walk neither recurses forever
// nor frees an inode twice. Used only at filesystem teardown; performs no
// unlink accounting.
func (fs *FS) releaseTree(ino uint64, typ uint8) {
	node := fs.inode(ino)
	if node == nil {
		return
	}

	if typ == vfs.DTDir {
		for _, ent := range node.dirents() {
			if ent.Name == "." || ent.Name == ".." {
				continue
			}
			if ent.Ino != ino {
				fs.releaseTree(ent.Ino, ent.Type)
			}
		}
	}

	fs.freeInode(ino)
}

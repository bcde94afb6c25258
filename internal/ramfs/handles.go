package ramfs

import "ramfs/internal/vfs"

// openFile binds an open handle to an inode: the arena index, a byte
// cursor, and the access mode recorded at open time. Access bits are
// recorded but not enforced, matching the modeled filesystem.
type openFile struct {
	ino    uint64
	offset int
	access int // flags & (O_RDONLY | O_WRONLY | O_RDWR)
}

// handleTable maps handle values to open files. Handle values start at 1
// and are never reused. The table is not locked; the filesystem's caller
// serializes all access.
type handleTable struct {
	files map[vfs.Handle]*openFile
	next  vfs.Handle
}

func newHandleTable() *handleTable {
	return &handleTable{
		files: make(map[vfs.Handle]*openFile),
		next:  1,
	}
}

func (t *handleTable) allocate(ino uint64, access int) vfs.Handle {
	h := t.next
	t.next++
	t.files[h] = &openFile{ino: ino, access: access}
	return h
}

// get returns the open file for h, or nil for closed or never-issued
// handles.
func (t *handleTable) get(h vfs.Handle) *openFile {
	return t.files[h]
}

func (t *handleTable) release(h vfs.Handle) {
	delete(t.files, h)
}

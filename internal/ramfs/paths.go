package ramfs

import (
	"strings"

	"ramfs/internal/vfs"
)

// PathMax bounds the length of any path handled by the filesystem.
const PathMax = 4096

// splitPath splits an absolute path into its directory part and final
// component. The root path "/" splits to ("/", "/"). Paths that are
// relative, empty, too long, or end in '/' are rejected.
func splitPath(path string) (dirname, basename string, err error) {
	if len(path) >= PathMax {
		return "", "", vfs.EINVAL
	}
	if path == "" || path[0] != '/' {
		return "", "", vfs.EINVAL
	}
	if path == "/" {
		return "/", "/", nil
	}

	slash := strings.LastIndexByte(path, '/')
	if slash == len(path)-1 {
		return "", "", vfs.EINVAL
	}

	if slash == 0 {
		dirname = "/"
	} else {
		dirname = path[:slash]
	}
	return dirname, path[slash+1:], nil
}

// resolve walks the inode graph from the root, matching each '/'-separated
// component against the current directory's entry records. The root is an
// implicit first component.
//
// Intermediate components are not verified to be directories before
// descending; traversing through a regular file is undefined behavior
// inherited from the modeled filesystem (it scans the file's raw bytes as
// if they were entry records).
func (fs *FS) resolve(path string) (uint64, error) {
	if path == "" || path[0] != '/' {
		return 0, vfs.EINVAL
	}
	if len(path) >= PathMax {
		return 0, vfs.ENAMETOOLONG
	}

	current := uint64(RootIno)
	for _, component := range strings.Split(path, "/") {
		if component == "" {
			continue
		}
		node := fs.inode(current)
		if node == nil {
			return 0, vfs.ENOENT
		}
		child, ok := findChild(node, component)
		if !ok {
			return 0, vfs.ENOENT
		}
		current = child
	}
	return current, nil
}

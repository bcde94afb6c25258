package ramfs

import (
	"bytes"
	"encoding/binary"

	"ramfs/internal/vfs"
)

// NameMax is the longest directory entry name, excluding the NUL terminator.
const NameMax = 255

// DirentSize is the fixed size of one packed directory entry record:
// ino (8) + off (8) + reclen (2) + type (1) + name (256, NUL-terminated),
// padded from 275 to the next 8-byte boundary. Directory buffers hold only
// whole records, so a directory's size is always a multiple of DirentSize.
const DirentSize = 280

const (
	direntInoOff    = 0
	direntOffOff    = 8
	direntReclenOff = 16
	direntTypeOff   = 18
	direntNameOff   = 19
	direntNameCap   = NameMax + 1
)

// marshalDirent packs d into dst, which must be at least DirentSize bytes.
// The name must already be validated against NameMax.
func marshalDirent(dst []byte, d *vfs.Dirent) {
	clear(dst[:DirentSize])
	binary.LittleEndian.PutUint64(dst[direntInoOff:], d.Ino)
	binary.LittleEndian.PutUint64(dst[direntOffOff:], d.Off)
	binary.LittleEndian.PutUint16(dst[direntReclenOff:], d.Reclen)
	dst[direntTypeOff] = d.Type
	copy(dst[direntNameOff:direntNameOff+NameMax], d.Name)
}

// unmarshalDirent decodes one packed record from src.
func unmarshalDirent(src []byte) vfs.Dirent {
	name := src[direntNameOff : direntNameOff+direntNameCap]
	if i := bytes.IndexByte(name, 0); i >= 0 {
		name = name[:i]
	}
	return vfs.Dirent{
		Ino:    binary.LittleEndian.Uint64(src[direntInoOff:]),
		Off:    binary.LittleEndian.Uint64(src[direntOffOff:]),
		Reclen: binary.LittleEndian.Uint16(src[direntReclenOff:]),
		Type:   src[direntTypeOff],
		Name:   string(name),
	}
}

package ramfs

import (
	"encoding/binary"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"ramfs/internal/vfs"
)

func TestDirentLayout(t *testing.T) {
	t.Parallel()

	ent := vfs.Dirent{Ino: 7, Off: 560, Reclen: DirentSize, Type: vfs.DTDir, Name: "subdir"}
	var rec [DirentSize]byte
	marshalDirent(rec[:], &ent)

	assert.Equal(t, uint64(7), binary.LittleEndian.Uint64(rec[0:]))
	assert.Equal(t, uint64(560), binary.LittleEndian.Uint64(rec[8:]))
	assert.Equal(t, uint16(DirentSize), binary.LittleEndian.Uint16(rec[16:]))
	assert.Equal(t, vfs.DTDir, rec[18])
	assert.Equal(t, "subdir", string(rec[19:25]))
	assert.Zero(t, rec[25], "name is NUL-terminated")

	got := unmarshalDirent(rec[:])
	assert.Equal(t, ent, got)
}

func TestDirentNameBounds(t *testing.T) {
	t.Parallel()

	t.Run("name at the maximum length survives a roundtrip", func(t *testing.T) {
		t.Parallel()
		name := strings.Repeat("n", NameMax)
		var rec [DirentSize]byte
		marshalDirent(rec[:], &vfs.Dirent{Ino: 1, Type: vfs.DTReg, Name: name})

		got := unmarshalDirent(rec[:])
		assert.Equal(t, name, got.Name)
		assert.Zero(t, rec[direntNameOff+NameMax], "terminator byte stays NUL")
	})

	t.Run("stale bytes past a short name are cleared", func(t *testing.T) {
		t.Parallel()
		var rec [DirentSize]byte
		marshalDirent(rec[:], &vfs.Dirent{Ino: 1, Type: vfs.DTReg, Name: strings.Repeat("x", 32)})
		marshalDirent(rec[:], &vfs.Dirent{Ino: 2, Type: vfs.DTReg, Name: "y"})

		got := unmarshalDirent(rec[:])
		assert.Equal(t, "y", got.Name)
	})
}

func TestDirentSizeAlignment(t *testing.T) {
	t.Parallel()
	assert.Zero(t, DirentSize%8, "records are 8-byte aligned")
	assert.GreaterOrEqual(t, DirentSize, direntNameOff+direntNameCap)
}

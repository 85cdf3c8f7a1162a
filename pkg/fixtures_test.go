package pkg_test

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"
)

// TIFF tag ids used by the EXIF fixtures.
const (
	tagMake              uint16 = 0x010F
	tagModel             uint16 = 0x0110
	tagDateTime          uint16 = 0x0132
	tagExifIFDPointer    uint16 = 0x8769
	tagDateTimeOriginal  uint16 = 0x9003
	tagDateTimeDigitized uint16 = 0x9004
)

type tiffField struct {
	tag   uint16
	value string
}

// buildTIFF assembles a minimal little-endian TIFF stream carrying the given
// ASCII fields in IFD0 and, when exifFields is non-empty, in an Exif sub-IFD
// reached through the 0x8769 pointer. goexif decodes raw TIFF containers
// directly, so the fixtures need no JPEG wrapping.
func buildTIFF(ifd0, exifFields []tiffField) []byte {
	byTag := func(fields []tiffField) {
		sort.Slice(fields, func(i, j int) bool { return fields[i].tag < fields[j].tag })
	}
	byTag(ifd0)
	byTag(exifFields)

	le := binary.LittleEndian

	ifd0Entries := len(ifd0)
	if len(exifFields) > 0 {
		ifd0Entries++ // the sub-IFD pointer
	}
	ifd0Size := 2 + 12*ifd0Entries + 4
	exifSize := 0
	if len(exifFields) > 0 {
		exifSize = 2 + 12*len(exifFields) + 4
	}
	exifOffset := uint32(8 + ifd0Size)
	dataStart := uint32(8 + ifd0Size + exifSize)

	buf := new(bytes.Buffer)
	data := new(bytes.Buffer)

	asciiEntry := func(f tiffField) {
		binary.Write(buf, le, f.tag)
		binary.Write(buf, le, uint16(2)) // ASCII
		size := len(f.value) + 1         // NUL included
		binary.Write(buf, le, uint32(size))
		if size <= 4 {
			// Values up to four bytes live inline in the offset field.
			inline := make([]byte, 4)
			copy(inline, f.value)
			buf.Write(inline)
			return
		}
		binary.Write(buf, le, dataStart+uint32(data.Len()))
		data.WriteString(f.value)
		data.WriteByte(0)
	}

	// Header.
	buf.WriteString("II")
	binary.Write(buf, le, uint16(42))
	binary.Write(buf, le, uint32(8))

	// IFD0.
	binary.Write(buf, le, uint16(ifd0Entries))
	for _, f := range ifd0 {
		asciiEntry(f)
	}
	if len(exifFields) > 0 {
		binary.Write(buf, le, tagExifIFDPointer)
		binary.Write(buf, le, uint16(4)) // LONG
		binary.Write(buf, le, uint32(1))
		binary.Write(buf, le, exifOffset)
	}
	binary.Write(buf, le, uint32(0)) // no next IFD

	// Exif sub-IFD.
	if len(exifFields) > 0 {
		binary.Write(buf, le, uint16(len(exifFields)))
		for _, f := range exifFields {
			asciiEntry(f)
		}
		binary.Write(buf, le, uint32(0))
	}

	buf.Write(data.Bytes())
	return buf.Bytes()
}

// writeExifFile writes a TIFF fixture under dir and returns its path.
func writeExifFile(t *testing.T, dir, name string, ifd0, exifFields []tiffField) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buildTIFF(ifd0, exifFields), 0644); err != nil {
		t.Fatalf("Failed to write EXIF fixture %s: %v", path, err)
	}
	return path
}

// buildMP4 assembles a minimal ISO BMFF stream (ftyp + moov/mvhd) whose mvhd
// creation time is the given value in Apple-epoch seconds.
func buildMP4(creation uint32) []byte {
	be := binary.BigEndian
	buf := new(bytes.Buffer)

	// ftyp
	binary.Write(buf, be, uint32(20))
	buf.WriteString("ftyp")
	buf.WriteString("isom")
	binary.Write(buf, be, uint32(0x200))
	buf.WriteString("isom")

	// moov containing a version-0 mvhd
	binary.Write(buf, be, uint32(116))
	buf.WriteString("moov")
	binary.Write(buf, be, uint32(108))
	buf.WriteString("mvhd")
	buf.Write([]byte{0, 0, 0, 0})               // version + flags
	binary.Write(buf, be, creation)             // creation time
	binary.Write(buf, be, creation)             // modification time
	binary.Write(buf, be, uint32(1000))         // timescale
	binary.Write(buf, be, uint32(0))            // duration
	binary.Write(buf, be, uint32(0x00010000))   // rate
	binary.Write(buf, be, uint16(0x0100))       // volume
	binary.Write(buf, be, uint16(0))            // reserved
	binary.Write(buf, be, [2]uint32{})          // reserved
	for _, v := range [9]uint32{0x00010000, 0, 0, 0, 0x00010000, 0, 0, 0, 0x40000000} {
		binary.Write(buf, be, v) // unity matrix
	}
	binary.Write(buf, be, [6]uint32{}) // pre-defined
	binary.Write(buf, be, uint32(1))   // next track id

	return buf.Bytes()
}

// appleEpoch converts a UTC instant to Apple-epoch (1904-01-01) seconds.
func appleEpoch(t time.Time) uint32 {
	return uint32(t.Unix() + 2082844800)
}

// writeMP4File writes an MP4 fixture under dir and returns its path.
func writeMP4File(t *testing.T, dir, name string, creation uint32) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buildMP4(creation), 0644); err != nil {
		t.Fatalf("Failed to write MP4 fixture %s: %v", path, err)
	}
	return path
}

// writeFileWithModTime creates a plain file with a fixed modification time.
func writeFileWithModTime(t *testing.T, dir, name string, content []byte, modTime time.Time) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("Failed to write test file %s: %v", path, err)
	}
	if err := os.Chtimes(path, modTime, modTime); err != nil {
		t.Fatalf("Failed to change mod time for %s: %v", path, err)
	}
	return path
}

package worldmeta

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

func writeString(buf *bytes.Buffer, s string) {
	var lenBuf [2]byte
	binary.BigEndian.PutUint16(lenBuf[:], uint16(len(s)))
	buf.Write(lenBuf[:])
	buf.WriteString(s)
}

// buildLevelDat hand-encodes:
// { "Data": { "LevelName": "Test World", "Version": {"Name": "1.21"},
//             "DataPacks": { "Enabled": ["vanilla", "file/my_pack", "file/old_pack.zip", "file/my_pack"] } } }
func buildLevelDat(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer

	buf.WriteByte(10) // root compound
	writeString(&buf, "")

	buf.WriteByte(10) // Data compound
	writeString(&buf, "Data")

	buf.WriteByte(8) // LevelName string
	writeString(&buf, "LevelName")
	writeString(&buf, "Test World")

	buf.WriteByte(10) // Version compound
	writeString(&buf, "Version")
	buf.WriteByte(8)
	writeString(&buf, "Name")
	writeString(&buf, "1.21")
	buf.WriteByte(0) // end Version

	buf.WriteByte(10) // DataPacks compound
	writeString(&buf, "DataPacks")
	buf.WriteByte(9) // Enabled list
	writeString(&buf, "Enabled")
	buf.WriteByte(8) // list element type: string
	entries := []string{"vanilla", "file/my_pack", "file/old_pack.zip", "file/my_pack"}
	var countBuf [4]byte
	binary.BigEndian.PutUint32(countBuf[:], uint32(len(entries)))
	buf.Write(countBuf[:])
	for _, e := range entries {
		writeString(&buf, e)
	}
	buf.WriteByte(0) // end DataPacks

	buf.WriteByte(0) // end Data
	buf.WriteByte(0) // end root

	return buf.Bytes()
}

func gzipBytes(t *testing.T, raw []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	if _, err := gw.Write(raw); err != nil {
		t.Fatal(err)
	}
	if err := gw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestReadWorldWithGzippedLevelDat(t *testing.T) {
	worldDir := t.TempDir()
	cacheDir := t.TempDir()

	raw := buildLevelDat(t)
	if err := os.WriteFile(filepath.Join(worldDir, "level.dat"), gzipBytes(t, raw), 0644); err != nil {
		t.Fatal(err)
	}

	world, err := Read(worldDir, cacheDir, "/cached")
	if err != nil {
		t.Fatal(err)
	}
	if world.Name != "Test World" {
		t.Errorf("got name %q", world.Name)
	}
	if world.Version != "1.21" {
		t.Errorf("got version %q", world.Version)
	}
	if len(world.EnabledDatapacks) != 1 || world.EnabledDatapacks[0] != "my_pack" {
		t.Fatalf("got %v", world.EnabledDatapacks)
	}
	if len(world.ZippedDatapacks) != 1 || world.ZippedDatapacks[0] != "old_pack" {
		t.Fatalf("got %v", world.ZippedDatapacks)
	}
}

func TestReadWorldUncompressedLevelDat(t *testing.T) {
	worldDir := t.TempDir()
	cacheDir := t.TempDir()

	raw := buildLevelDat(t)
	if err := os.WriteFile(filepath.Join(worldDir, "level.dat"), raw, 0644); err != nil {
		t.Fatal(err)
	}

	world, err := Read(worldDir, cacheDir, "/cached")
	if err != nil {
		t.Fatal(err)
	}
	if world.Name != "Test World" {
		t.Errorf("got name %q", world.Name)
	}
}

func TestCacheWorldIcon(t *testing.T) {
	worldDir := t.TempDir()
	cacheDir := t.TempDir()

	raw := buildLevelDat(t)
	if err := os.WriteFile(filepath.Join(worldDir, "level.dat"), raw, 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(worldDir, "icon.png"), []byte("fake-png"), 0644); err != nil {
		t.Fatal(err)
	}

	world, err := Read(worldDir, cacheDir, "/cached")
	if err != nil {
		t.Fatal(err)
	}
	if world.IconPath == nil || *world.IconPath != "/cached/world/icon.png" {
		t.Fatalf("got icon path %v", world.IconPath)
	}
	cached, err := os.ReadFile(filepath.Join(cacheDir, "world", "icon.png"))
	if err != nil {
		t.Fatal(err)
	}
	if string(cached) != "fake-png" {
		t.Errorf("got %q", cached)
	}
}

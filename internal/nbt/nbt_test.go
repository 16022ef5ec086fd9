package nbt

import (
	"bytes"
	"encoding/binary"
	"testing"
)

// buildTestNBT hand-encodes a minimal root compound:
// { "Data": { "LevelName": "My World" } }
func buildTestNBT(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer

	writeString := func(s string) {
		var lenBuf [2]byte
		binary.BigEndian.PutUint16(lenBuf[:], uint16(len(s)))
		buf.Write(lenBuf[:])
		buf.WriteString(s)
	}

	buf.WriteByte(byte(tagCompound))
	writeString("") // root name

	// "Data" compound
	buf.WriteByte(byte(tagCompound))
	writeString("Data")

	// "LevelName" string
	buf.WriteByte(byte(tagString))
	writeString("LevelName")
	writeString("My World")

	buf.WriteByte(byte(tagEnd)) // end Data

	buf.WriteByte(byte(tagEnd)) // end root

	return buf.Bytes()
}

func TestReadNestedCompoundAndString(t *testing.T) {
	root, err := Read(bytes.NewReader(buildTestNBT(t)))
	if err != nil {
		t.Fatal(err)
	}

	data, ok := root.GetCompound("Data")
	if !ok {
		t.Fatal("expected Data compound")
	}

	name, ok := data.GetString("LevelName")
	if !ok || name != "My World" {
		t.Errorf("got %q, %v", name, ok)
	}
}

// Package nbt reads just enough of Mojang's binary NBT format to pull
// LevelName/Version/DataPacks out of a level.dat: a primitive utility in
// the same sense archive/zip and compress/gzip are, grounded on the crab_nbt
// reads in original_source/src-tauri/src/load/world.rs. It is read-only and
// only supports the handful of tag types level.dat actually uses.
package nbt

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

type tagType byte

const (
	tagEnd tagType = 0
	tagByte tagType = 1
	tagShort tagType = 2
	tagInt tagType = 3
	tagLong tagType = 4
	tagFloat tagType = 5
	tagDouble tagType = 6
	tagByteArray tagType = 7
	tagString tagType = 8
	tagList tagType = 9
	tagCompound tagType = 10
	tagIntArray tagType = 11
	tagLongArray tagType = 12
)

// Compound is a decoded NBT compound tag: name -> value. Values are one of
// string, int64, float64, Compound, []interface{} (a list), []int32,
// []int64, or []byte depending on the source tag's type.
type Compound map[string]interface{}

// Read decodes NBT from an io.Reader that has already been
// gzip-decompressed if necessary; it returns the unnamed root compound's
// contents.
func Read(r io.Reader) (Compound, error) {
	br := &byteReader{r: r}

	rootType, err := br.readByte()
	if err != nil {
		return nil, fmt.Errorf("read root tag type: %w", err)
	}
	if tagType(rootType) != tagCompound {
		return nil, fmt.Errorf("unexpected root tag type %d, want compound", rootType)
	}
	if _, err := br.readString(); err != nil {
		return nil, fmt.Errorf("read root tag name: %w", err)
	}
	return readCompoundBody(br)
}

func readCompoundBody(br *byteReader) (Compound, error) {
	out := Compound{}
	for {
		t, err := br.readByte()
		if err != nil {
			return nil, err
		}
		if tagType(t) == tagEnd {
			return out, nil
		}
		name, err := br.readString()
		if err != nil {
			return nil, err
		}
		value, err := readPayload(br, tagType(t))
		if err != nil {
			return nil, fmt.Errorf("tag %q: %w", name, err)
		}
		out[name] = value
	}
}

func readPayload(br *byteReader, t tagType) (interface{}, error) {
	switch t {
	case tagByte:
		b, err := br.readByte()
		return int64(int8(b)), err
	case tagShort:
		v, err := br.readUint16()
		return int64(int16(v)), err
	case tagInt:
		v, err := br.readUint32()
		return int64(int32(v)), err
	case tagLong:
		v, err := br.readUint64()
		return int64(v), err
	case tagFloat:
		v, err := br.readUint32()
		return float64(math.Float32frombits(v)), err
	case tagDouble:
		v, err := br.readUint64()
		return math.Float64frombits(v), err
	case tagByteArray:
		n, err := br.readInt32()
		if err != nil {
			return nil, err
		}
		buf := make([]byte, n)
		if _, err := io.ReadFull(br.r, buf); err != nil {
			return nil, err
		}
		return buf, nil
	case tagString:
		return br.readString()
	case tagList:
		elemType, err := br.readByte()
		if err != nil {
			return nil, err
		}
		n, err := br.readInt32()
		if err != nil {
			return nil, err
		}
		list := make([]interface{}, 0, max0(n))
		for i := int32(0); i < n; i++ {
			v, err := readPayload(br, tagType(elemType))
			if err != nil {
				return nil, err
			}
			list = append(list, v)
		}
		return list, nil
	case tagCompound:
		return readCompoundBody(br)
	case tagIntArray:
		n, err := br.readInt32()
		if err != nil {
			return nil, err
		}
		out := make([]int32, n)
		for i := range out {
			v, err := br.readUint32()
			if err != nil {
				return nil, err
			}
			out[i] = int32(v)
		}
		return out, nil
	case tagLongArray:
		n, err := br.readInt32()
		if err != nil {
			return nil, err
		}
		out := make([]int64, n)
		for i := range out {
			v, err := br.readUint64()
			if err != nil {
				return nil, err
			}
			out[i] = int64(v)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported tag type %d", t)
	}
}

func max0(n int32) int32 {
	if n < 0 {
		return 0
	}
	return n
}

// GetCompound reads a named compound value from c.
func (c Compound) GetCompound(key string) (Compound, bool) {
	v, ok := c[key]
	if !ok {
		return nil, false
	}
	comp, ok := v.(Compound)
	return comp, ok
}

// GetString reads a named string value from c.
func (c Compound) GetString(key string) (string, bool) {
	v, ok := c[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// GetList reads a named list value from c.
func (c Compound) GetList(key string) ([]interface{}, bool) {
	v, ok := c[key]
	if !ok {
		return nil, false
	}
	list, ok := v.([]interface{})
	return list, ok
}

type byteReader struct {
	r io.Reader
}

func (b *byteReader) readByte() (byte, error) {
	var buf [1]byte
	if _, err := io.ReadFull(b.r, buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

func (b *byteReader) readUint16() (uint16, error) {
	var buf [2]byte
	if _, err := io.ReadFull(b.r, buf[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(buf[:]), nil
}

func (b *byteReader) readUint32() (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(b.r, buf[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(buf[:]), nil
}

func (b *byteReader) readInt32() (int32, error) {
	v, err := b.readUint32()
	return int32(v), err
}

func (b *byteReader) readUint64() (uint64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(b.r, buf[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(buf[:]), nil
}

func (b *byteReader) readString() (string, error) {
	n, err := b.readUint16()
	if err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(b.r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

package filestore

import (
	"encoding/binary"
	"fmt"
	"io"

	"relDB/internal/index"
	"relDB/internal/schema"
	"relDB/internal/types"
)

const (
	fileMagic = "RELDB1" // 6 bytes magic
)

// header is everything in a table image before the rows.
type header struct {
	def  schema.Definition
	kind index.Kind
}

func writeString16(w io.Writer, s string) error {
	b := []byte(s)
	if len(b) > 0xFFFF {
		return fmt.Errorf("name too long: %s", s)
	}
	if err := binary.Write(w, binary.LittleEndian, uint16(len(b))); err != nil {
		return err
	}
	_, err := w.Write(b)
	return err
}

func readString16(r io.Reader) (string, error) {
	var l uint16
	if err := binary.Read(r, binary.LittleEndian, &l); err != nil {
		return "", err
	}
	buf := make([]byte, l)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

// writeHeader writes the table name, schema, key and index kind.
func writeHeader(w io.Writer, h header) error {
	def := h.def
	if len(def.Attributes) > 0xFFFF {
		return fmt.Errorf("filestore: too many columns: %d", len(def.Attributes))
	}
	if _, err := w.Write([]byte(fileMagic)); err != nil {
		return err
	}
	if err := writeString16(w, def.Name); err != nil {
		return err
	}

	if err := binary.Write(w, binary.LittleEndian, uint16(len(def.Attributes))); err != nil {
		return err
	}
	for i, a := range def.Attributes {
		if err := writeString16(w, a); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, uint8(def.Domains[i])); err != nil {
			return err
		}
	}

	if err := binary.Write(w, binary.LittleEndian, uint16(len(def.Key))); err != nil {
		return err
	}
	for _, k := range def.Key {
		if err := writeString16(w, k); err != nil {
			return err
		}
	}

	return binary.Write(w, binary.LittleEndian, uint8(h.kind))
}

// readHeader reads the header and leaves r at the start of the first row.
func readHeader(r io.Reader) (header, error) {
	var h header

	magicBuf := make([]byte, len(fileMagic))
	if _, err := io.ReadFull(r, magicBuf); err != nil {
		return h, err
	}
	if string(magicBuf) != fileMagic {
		return h, fmt.Errorf("filestore: invalid file magic, not a relDB table file")
	}

	name, err := readString16(r)
	if err != nil {
		return h, err
	}
	h.def.Name = name

	var numCols uint16
	if err := binary.Read(r, binary.LittleEndian, &numCols); err != nil {
		return h, err
	}
	h.def.Attributes = make([]string, numCols)
	h.def.Domains = make([]types.DataType, numCols)
	for i := 0; i < int(numCols); i++ {
		if h.def.Attributes[i], err = readString16(r); err != nil {
			return h, err
		}
		var t uint8
		if err := binary.Read(r, binary.LittleEndian, &t); err != nil {
			return h, err
		}
		h.def.Domains[i] = types.DataType(t)
	}

	var numKey uint16
	if err := binary.Read(r, binary.LittleEndian, &numKey); err != nil {
		return h, err
	}
	h.def.Key = make([]string, numKey)
	for i := range h.def.Key {
		if h.def.Key[i], err = readString16(r); err != nil {
			return h, err
		}
	}

	var kind uint8
	if err := binary.Read(r, binary.LittleEndian, &kind); err != nil {
		return h, err
	}
	h.kind = index.Kind(kind)

	return h, nil
}

// writeRow encodes a row as a sequence of typed values.
func writeRow(w io.Writer, row types.Tuple) error {
	for _, v := range row {
		// type first
		if err := binary.Write(w, binary.LittleEndian, uint8(v.Type)); err != nil {
			return err
		}

		switch {
		case v.Type.IsInteger():
			if err := binary.Write(w, binary.LittleEndian, v.I64); err != nil {
				return err
			}
		case v.Type.IsFloat():
			if err := binary.Write(w, binary.LittleEndian, v.F64); err != nil {
				return err
			}
		case v.Type == types.TypeChar:
			if err := binary.Write(w, binary.LittleEndian, v.C); err != nil {
				return err
			}
		case v.Type == types.TypeString:
			b := []byte(v.S)
			if uint64(len(b)) > 0xFFFFFFFF {
				return fmt.Errorf("string too long")
			}
			if err := binary.Write(w, binary.LittleEndian, uint32(len(b))); err != nil {
				return err
			}
			if _, err := w.Write(b); err != nil {
				return err
			}
		case v.Type == types.TypeNull:
			// nothing else to write
		default:
			return fmt.Errorf("writeRow: unsupported value type %v", v.Type)
		}
	}

	return nil
}

// readRow decodes a row with the given number of columns.
// Returns io.EOF when there is no more data.
func readRow(r io.Reader, numCols int) (types.Tuple, error) {
	row := make(types.Tuple, numCols)

	for i := 0; i < numCols; i++ {
		var t uint8
		if err := binary.Read(r, binary.LittleEndian, &t); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				// EOF at the first column ends the table; mid-row is corruption.
				if i == 0 {
					return nil, io.EOF
				}
				return nil, fmt.Errorf("readRow: truncated row")
			}
			return nil, err
		}
		vt := types.DataType(t)

		switch {
		case vt.IsInteger():
			var v int64
			if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
				return nil, err
			}
			row[i] = types.Value{Type: vt, I64: v}

		case vt.IsFloat():
			var v float64
			if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
				return nil, err
			}
			row[i] = types.Value{Type: vt, F64: v}

		case vt == types.TypeChar:
			var v int32
			if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
				return nil, err
			}
			row[i] = types.Char(v)

		case vt == types.TypeString:
			var l uint32
			if err := binary.Read(r, binary.LittleEndian, &l); err != nil {
				return nil, err
			}
			buf := make([]byte, l)
			if _, err := io.ReadFull(r, buf); err != nil {
				return nil, err
			}
			row[i] = types.Str(string(buf))

		case vt == types.TypeNull:
			row[i] = types.Null()

		default:
			return nil, fmt.Errorf("readRow: unsupported value type %v", vt)
		}
	}

	return row, nil
}

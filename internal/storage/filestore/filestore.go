package filestore

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"relDB/internal/errs"
	"relDB/internal/logger"
	"relDB/internal/schema"
	"relDB/internal/storage"
	"relDB/internal/table"
)

const fileExt = ".dbf"

var log = logger.NewLogger()

// FileStore keeps one file per saved table in a directory.
//
// Layout:
//
//	[header][rows...]
//
// Header:
//
//	magic:     6 bytes "RELDB1"
//	name:      uint16 length + bytes
//	numCols:   uint16
//	per column:
//	  nameLen: uint16
//	  name:    nameLen bytes (UTF-8)
//	  domain:  uint8 (matches types.DataType)
//	numKey:    uint16
//	per key attribute: uint16 length + bytes
//	index:     uint8 (matches index.Kind)
//
// Rows, in tuple sequence order:
//
//	For each column:
//	  type: uint8 (types.DataType, allows NULL vs non-NULL)
//	  payload (depends on type):
//	    Int8..Int64:     int64 (little endian)
//	    Float32/Float64: float64 (little endian)
//	    Char:            int32
//	    Utf8String:      uint32 length + bytes
//	    Null:            no payload
type FileStore struct {
	dir string
}

var _ storage.TableStore = (*FileStore)(nil)

// New creates a FileStore rooted at dir, creating the directory if needed.
func New(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("filestore: create dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) tablePath(name string) string {
	return filepath.Join(s.dir, name+fileExt)
}

func validName(name string) error {
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return fmt.Errorf("filestore: invalid table name %q", name)
	}
	return nil
}

// Save writes the whole image of t to <dir>/<name>.dbf, replacing any
// earlier image. The file is written aside and renamed into place.
func (s *FileStore) Save(t *table.Table) error {
	if err := validName(t.Name()); err != nil {
		return err
	}
	path := s.tablePath(t.Name())

	f, err := os.CreateTemp(s.dir, t.Name()+".*.tmp")
	if err != nil {
		return fmt.Errorf("filestore: create temp file: %w", err)
	}
	tmp := f.Name()
	cleanup := func() {
		_ = f.Close()
		_ = os.Remove(tmp)
	}

	w := bufio.NewWriter(f)
	if err := writeHeader(w, header{def: t.Schema().Definition(), kind: t.IndexKind()}); err != nil {
		cleanup()
		return fmt.Errorf("filestore: write header: %w", err)
	}
	for i, row := range t.Tuples() {
		if err := writeRow(w, row); err != nil {
			cleanup()
			return fmt.Errorf("filestore: write row %d: %w", i, err)
		}
	}
	if err := w.Flush(); err != nil {
		cleanup()
		return fmt.Errorf("filestore: flush: %w", err)
	}
	if err := f.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("filestore: sync: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("filestore: close: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("filestore: rename: %w", err)
	}

	log.Debug().Str("table", t.Name()).Int("rows", t.Len()).Str("path", path).Msg("saved table")
	return nil
}

// Load restores the table saved under name. The index is rebuilt by
// replaying the inserts in order, which reproduces the saved index
// exactly, including last-writer-wins entries.
func (s *FileStore) Load(name string, opts ...table.Option) (*table.Table, error) {
	if err := validName(name); err != nil {
		return nil, err
	}
	f, err := os.Open(s.tablePath(name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("filestore: %w: %s", errs.ErrTableNotFound, name)
		}
		return nil, fmt.Errorf("filestore: open table: %w", err)
	}
	defer f.Close()

	r := bufio.NewReader(f)
	h, err := readHeader(r)
	if err != nil {
		return nil, fmt.Errorf("filestore: read header: %w", err)
	}
	sc, err := schema.New(h.def)
	if err != nil {
		return nil, fmt.Errorf("filestore: %w", err)
	}
	t, err := table.New(sc, append([]table.Option{table.WithIndex(h.kind)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("filestore: %w", err)
	}

	for {
		row, err := readRow(r, sc.Arity())
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("filestore: read row: %w", err)
		}
		if _, err := t.Insert(row); err != nil {
			return nil, fmt.Errorf("filestore: %w", err)
		}
	}

	log.Debug().Str("table", name).Int("rows", t.Len()).Msg("loaded table")
	return t, nil
}

// List returns the names of all saved tables.
func (s *FileStore) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("filestore: list tables: %w", err)
	}

	var tables []string
	for _, ent := range entries {
		name := ent.Name()
		if !ent.IsDir() && strings.HasSuffix(name, fileExt) {
			tables = append(tables, strings.TrimSuffix(name, fileExt))
		}
	}
	sort.Strings(tables)
	return tables, nil
}

// Remove deletes the image saved under name.
func (s *FileStore) Remove(name string) error {
	if err := validName(name); err != nil {
		return err
	}
	if err := os.Remove(s.tablePath(name)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("filestore: %w: %s", errs.ErrTableNotFound, name)
		}
		return fmt.Errorf("filestore: remove: %w", err)
	}
	return nil
}

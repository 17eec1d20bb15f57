// Package parquetstore exports tables as parquet files, one optional column
// per attribute.
package parquetstore

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/xitongsys/parquet-go/writer"

	"relDB/internal/logger"
	"relDB/internal/table"
	"relDB/internal/types"
	"relDB/internal/utils"
)

var log = logger.NewLogger()

type jsonSchema struct {
	Tag    string
	Fields []*jsonSchema `json:",omitempty"`
}

// columnName makes an attribute name safe inside a parquet tag.
func columnName(attr string) string {
	return strings.NewReplacer(",", "_", "=", "_", " ", "_").Replace(attr)
}

func columnTag(name string, d types.DataType) (string, error) {
	var typ string
	switch d {
	case types.TypeInt64:
		typ = "type=INT64"
	case types.TypeInt32:
		typ = "type=INT32"
	case types.TypeInt16:
		typ = "type=INT32, convertedtype=INT_16"
	case types.TypeInt8:
		typ = "type=INT32, convertedtype=INT_8"
	case types.TypeFloat64:
		typ = "type=DOUBLE"
	case types.TypeFloat32:
		typ = "type=FLOAT"
	case types.TypeChar, types.TypeString:
		typ = "type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN"
	default:
		return "", fmt.Errorf("parquetstore: no parquet type for %s", d)
	}
	return typ + ", name=" + name + ", repetitiontype=OPTIONAL", nil
}

// SchemaString returns the parquet JSON schema for t.
func SchemaString(t *table.Table) (string, error) {
	root := jsonSchema{Tag: "name=parquet_go_root, repetitiontype=REQUIRED"}
	for i, a := range t.Attributes() {
		tag, err := columnTag(columnName(a), t.Schema().Domain(i))
		if err != nil {
			return "", err
		}
		root.Fields = append(root.Fields, &jsonSchema{Tag: tag})
	}
	b, err := json.Marshal(root)
	if err != nil {
		return "", fmt.Errorf("error in json.Marshal: %w", err)
	}
	return string(b), nil
}

func rowJSON(names []string, tup types.Tuple) (string, error) {
	m := make(map[string]any, len(tup))
	for i, v := range tup {
		val := v.Interface()
		// JSON has no NaN or infinities; they are written as null.
		if v.Type.IsFloat() && (math.IsNaN(v.F64) || math.IsInf(v.F64, 0)) {
			val = nil
		}
		m[names[i]] = val
	}
	b, err := json.Marshal(m)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Export writes every tuple of t to <dir>/<name>_<ksuid>.parquet and
// returns the file path.
func Export(t *table.Table, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("parquetstore: create dir: %w", err)
	}
	parquetSchema, err := SchemaString(t)
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, fmt.Sprintf("%s.parquet", utils.GenKSortedID(t.Name()+"_")))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("parquetstore: create file: %w", err)
	}
	fail := func(err error) (string, error) {
		_ = f.Close()
		_ = os.Remove(path)
		return "", err
	}

	pw, err := writer.NewJSONWriterFromWriter(parquetSchema, f, 4)
	if err != nil {
		return fail(fmt.Errorf("error in NewJSONWriterFromWriter: %w", err))
	}

	names := make([]string, 0, len(t.Attributes()))
	for _, a := range t.Attributes() {
		names = append(names, columnName(a))
	}
	for i, tup := range t.Tuples() {
		row, err := rowJSON(names, tup)
		if err != nil {
			return fail(fmt.Errorf("error in json.Marshal of row %d: %w", i, err))
		}
		if err := pw.Write(row); err != nil {
			return fail(fmt.Errorf("error in pw.Write for row %+v: %w", row, err))
		}
	}
	if err := pw.WriteStop(); err != nil {
		return fail(fmt.Errorf("error in pw.WriteStop: %w", err))
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("parquetstore: close: %w", err)
	}

	log.Debug().Str("table", t.Name()).Int("rows", t.Len()).Str("path", path).Msg("exported table")
	return path, nil
}

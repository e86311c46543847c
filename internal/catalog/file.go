package catalog

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/parquet-go/parquet-go"

	"moviebot/internal/domain"
)

// FileSource reads the catalog from a local CSV or Parquet file, chosen by extension.
type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource { return &FileSource{path: path} }

// Name identifies the source in logs.
func (s *FileSource) Name() string { return "file:" + s.path }

func (s *FileSource) Movies(ctx context.Context) ([]domain.Movie, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(s.path)) {
	case ".parquet", ".pq":
		return readParquet(s.path)
	default:
		return readCSV(s.path)
	}
}

// readParquet reads rows generically by column name so that any casing or
// physical type goes through the same Normalize path as CSV and SQL rows.
func readParquet(path string) ([]domain.Movie, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		return nil, fmt.Errorf("open parquet %s: %w", path, err)
	}

	columns := pf.Schema().Columns()
	names := make([]string, len(columns))
	for i, col := range columns {
		names[i] = col[0]
	}

	var recs []Record
	buf := make([]parquet.Row, 256)
	for _, rg := range pf.RowGroups() {
		rows := parquet.NewRowGroupReader(rg)
		for {
			n, readErr := rows.ReadRows(buf)
			for _, row := range buf[:n] {
				rec := make(Record, len(names))
				for _, v := range row {
					if c := v.Column(); c >= 0 && c < len(names) {
						rec[names[c]] = parquetValue(v)
					}
				}
				recs = append(recs, rec)
			}
			if readErr != nil {
				if errors.Is(readErr, io.EOF) {
					break
				}
				return nil, fmt.Errorf("read parquet %s: %w", path, readErr)
			}
		}
	}
	return NormalizeAll(recs), nil
}

func parquetValue(v parquet.Value) any {
	if v.IsNull() {
		return nil
	}
	switch v.Kind() {
	case parquet.ByteArray, parquet.FixedLenByteArray:
		return string(v.ByteArray())
	case parquet.Int32:
		return int64(v.Int32())
	case parquet.Int64:
		return v.Int64()
	case parquet.Float:
		return float64(v.Float())
	case parquet.Double:
		return v.Double()
	case parquet.Boolean:
		return v.Boolean()
	}
	return nil
}

func readCSV(path string) ([]domain.Movie, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("csv %s has no header", path)
		}
		return nil, fmt.Errorf("read csv header %s: %w", path, err)
	}
	var recs []Record
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv %s: %w", path, err)
		}
		rec := make(Record, len(header))
		for i, col := range header {
			if i < len(row) {
				rec[col] = row[i]
			}
		}
		recs = append(recs, rec)
	}
	return NormalizeAll(recs), nil
}

package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"

	// Database drivers for the remote catalog.
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"moviebot/internal/domain"
)

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// SQLSource reads the catalog table from a relational database.
type SQLSource struct {
	db    *sql.DB
	table string
	limit int
}

// SQLConfig configures a SQLSource.
type SQLConfig struct {
	Driver string
	URL    string
	Table  string
	Limit  int
}

// OpenSQL opens the database described by cfg. The connection is lazy; errors
// surface on the first query.
func OpenSQL(cfg SQLConfig) (*SQLSource, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("database url not configured: %w", domain.ErrCatalogLoad)
	}
	db, err := sql.Open(cfg.Driver, cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Driver, err)
	}
	return NewSQLSource(db, cfg.Table, cfg.Limit)
}

// NewSQLSource wraps an existing database handle.
func NewSQLSource(db *sql.DB, table string, limit int) (*SQLSource, error) {
	if !identRe.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	return &SQLSource{db: db, table: table, limit: limit}, nil
}

// Name identifies the source in logs.
func (s *SQLSource) Name() string { return "sql:" + s.table }

// Movies runs SELECT * FROM <table> [LIMIT n] and normalizes every row.
func (s *SQLSource) Movies(ctx context.Context) ([]domain.Movie, error) {
	query := "SELECT * FROM " + s.table
	if s.limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", s.limit)
	}
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", s.table, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	var recs []Record
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan %s: %w", s.table, err)
		}
		rec := make(Record, len(cols))
		for i, c := range cols {
			rec[c] = vals[i]
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return NormalizeAll(recs), nil
}

// Close releases the database handle.
func (s *SQLSource) Close() error { return s.db.Close() }

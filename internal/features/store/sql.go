package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go-datasync/internal/config"
	"go-datasync/internal/features/normalize"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
)

// SQLBackend writes straight to a relational store over database/sql.
// Supported dialects: postgres and mysql.
type SQLBackend struct {
	db      *sql.DB
	dialect string
}

func NewSQLBackend(cfg *config.Config) (*SQLBackend, error) {
	db, err := sql.Open(cfg.StoreBackend, cfg.StoreDSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open store connection: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	return &SQLBackend{db: db, dialect: cfg.StoreBackend}, nil
}

func (b *SQLBackend) UpsertChunk(ctx context.Context, table string, rows []normalize.TypedRow, conflictColumn string) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	columns := columnsOf(rows[0])

	var sb strings.Builder
	args := make([]interface{}, 0, len(rows)*len(columns))

	sb.WriteString("INSERT INTO " + b.quote(table) + " (")
	for i, col := range columns {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(b.quote(col))
	}
	sb.WriteString(") VALUES ")

	for r, row := range rows {
		if r > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("(")
		for c, col := range columns {
			if c > 0 {
				sb.WriteString(", ")
			}
			args = append(args, row[col])
			sb.WriteString(b.placeholder(len(args)))
		}
		sb.WriteString(")")
	}

	switch b.dialect {
	case "postgres":
		sb.WriteString(" ON CONFLICT (" + b.quote(conflictColumn) + ") DO UPDATE SET ")
		first := true
		for _, col := range columns {
			if col == conflictColumn {
				continue
			}
			if !first {
				sb.WriteString(", ")
			}
			sb.WriteString(b.quote(col) + " = EXCLUDED." + b.quote(col))
			first = false
		}
	default:
		// MySQL resolves the conflict through the table's unique index
		// over conflictColumn.
		sb.WriteString(" ON DUPLICATE KEY UPDATE ")
		first := true
		for _, col := range columns {
			if col == conflictColumn {
				continue
			}
			if !first {
				sb.WriteString(", ")
			}
			sb.WriteString(b.quote(col) + " = VALUES(" + b.quote(col) + ")")
			first = false
		}
	}

	res, err := b.db.ExecContext(ctx, sb.String(), args...)
	if err != nil {
		return 0, err
	}
	affected, _ := res.RowsAffected()
	return int(affected), nil
}

func (b *SQLBackend) CountRows(ctx context.Context, table string) (int64, error) {
	var count int64
	err := b.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+b.quote(table)).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (b *SQLBackend) Probe(ctx context.Context, table string) (bool, error) {
	rows, err := b.db.QueryContext(ctx, "SELECT 1 FROM "+b.quote(table)+" LIMIT 1")
	if err != nil {
		if isUndefinedTable(err) {
			return false, nil
		}
		return false, err
	}
	defer rows.Close()
	return true, rows.Err()
}

func (b *SQLBackend) DeleteAll(ctx context.Context, table string) error {
	_, err := b.db.ExecContext(ctx, "DELETE FROM "+b.quote(table))
	return err
}

// Close releases the underlying connection pool.
func (b *SQLBackend) Close() error {
	return b.db.Close()
}

func (b *SQLBackend) quote(ident string) string {
	if b.dialect == "mysql" {
		return "`" + ident + "`"
	}
	return `"` + ident + `"`
}

func (b *SQLBackend) placeholder(n int) string {
	if b.dialect == "mysql" {
		return "?"
	}
	return fmt.Sprintf("$%d", n)
}

func columnsOf(row normalize.TypedRow) []string {
	columns := make([]string, 0, len(row))
	for col := range row {
		columns = append(columns, col)
	}
	sort.Strings(columns)
	return columns
}

func isUndefinedTable(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "42P01"
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1146
	}
	return false
}

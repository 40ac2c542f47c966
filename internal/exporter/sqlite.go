package exporter

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/agilsonaraujoo/ProjetoCD-acidentes/internal/errors"
	"github.com/agilsonaraujoo/ProjetoCD-acidentes/pkg/contracts/domain"
)

// SQLiteTable is the table holding the cleaned dataset
const SQLiteTable = "acidentes"

// SQLiteExporter copies a Dataset into a SQLite database for ad-hoc queries
type SQLiteExporter struct {
	logger *slog.Logger
}

// NewSQLiteExporter creates an exporter
func NewSQLiteExporter(logger *slog.Logger) *SQLiteExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SQLiteExporter{logger: logger}
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func sqlType(kind domain.ColumnKind) string {
	if kind == domain.KindNumber {
		return "REAL"
	}
	return "TEXT"
}

// Export replaces the acidentes table in the database at path with ds
func (e *SQLiteExporter) Export(ctx context.Context, path string, ds *domain.Dataset) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.NewStorageError("failed to create database directory", err).WithContext("path", path)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return errors.NewStorageError("failed to open database", err).WithContext("path", path)
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return errors.NewStorageError("failed to begin transaction", err).WithContext("path", path)
	}
	defer tx.Rollback()

	columns := ds.Columns()
	defs := make([]string, len(columns))
	names := make([]string, len(columns))
	marks := make([]string, len(columns))
	for i, col := range columns {
		names[i] = quoteIdent(col.Name)
		defs[i] = names[i] + " " + sqlType(snapshotKind(col))
		marks[i] = "?"
	}

	table := quoteIdent(SQLiteTable)
	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+table); err != nil {
		return errors.NewStorageError("failed to drop table", err).WithContext("path", path)
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("CREATE TABLE %s (%s)", table, strings.Join(defs, ", "))); err != nil {
		return errors.NewStorageError("failed to create table", err).WithContext("path", path)
	}

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(names, ", "), strings.Join(marks, ", ")))
	if err != nil {
		return errors.NewStorageError("failed to prepare insert", err).WithContext("path", path)
	}
	defer stmt.Close()

	args := make([]interface{}, len(columns))
	for i := 0; i < ds.Len(); i++ {
		for j, col := range columns {
			switch {
			case col.IsAbsent(i):
				args[j] = nil
			case snapshotKind(col) == domain.KindNumber:
				args[j] = col.Num[i]
			default:
				args[j] = col.String(i)
			}
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return errors.NewStorageError(fmt.Sprintf("failed to insert row %d", i), err).WithContext("path", path)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.NewStorageError("failed to commit export", err).WithContext("path", path)
	}

	e.logger.InfoContext(ctx, "SQLite export written",
		slog.String("path", path),
		slog.String("table", SQLiteTable),
		slog.Int("rows", ds.Len()))
	return nil
}

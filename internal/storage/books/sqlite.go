package books

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"
	"github.com/georgysavva/scany/v2/sqlscan"
	_ "modernc.org/sqlite"

	"bookshelf/internal/types"
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS books (
	id INTEGER PRIMARY KEY,
	title TEXT NOT NULL,
	author TEXT,
	genre TEXT,
	description TEXT,
	image_url TEXT,
	date_added TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	status TEXT DEFAULT 'To Read'
)`

// OpenSQLite opens the database file at path, creating it when absent.
// Timestamps are written in SQLite's own format so that they sort as text.
func OpenSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", "file:"+path+"?_time_format=sqlite&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	return db, nil
}

func NewSQLiteRepository(db *sql.DB, l *slog.Logger) Repository {
	return &sqliteRepo{db: db, g: goqu.Dialect("sqlite3"), l: l}
}

type sqliteRepo struct {
	db *sql.DB
	g  goqu.DialectWrapper
	l  *slog.Logger
}

func (s *sqliteRepo) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteSchema)
	if err != nil {
		return fmt.Errorf("creating books table: %w", err)
	}

	return nil
}

func (s *sqliteRepo) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *sqliteRepo) Insert(ctx context.Context, md *types.Metadata) (int64, error) {
	sql, params, err := s.g.Insert(table).
		Prepared(true).
		Rows(fromMetadata(md)).
		ToSQL()
	if err != nil {
		return 0, err
	}

	res, err := s.db.ExecContext(ctx, sql, params...)
	if err != nil {
		return 0, err
	}

	return res.LastInsertId()
}

func (s *sqliteRepo) GetAll(ctx context.Context) ([]*types.Book, error) {
	sql, params, err := s.g.From(table).
		Prepared(true).
		Select(columns...).
		Order(newestFirst...).
		ToSQL()
	if err != nil {
		return nil, err
	}

	var rows []bookRow

	err = sqlscan.Select(ctx, s.db, &rows, sql, params...)
	if err != nil {
		return nil, err
	}

	ret := make([]*types.Book, 0, len(rows))
	for _, row := range rows {
		ret = append(ret, row.intoCommon(ctx, s.l))
	}

	return ret, nil
}

func (s *sqliteRepo) GetById(ctx context.Context, id int64) (*types.Book, error) {
	sql, params, err := s.g.From(table).
		Prepared(true).
		Select(columns...).
		Where(goqu.C("id").Eq(id)).
		ToSQL()
	if err != nil {
		return nil, err
	}

	var row bookRow

	err = sqlscan.Get(ctx, s.db, &row, sql, params...)
	if err != nil {
		if sqlscan.NotFound(err) {
			err = nil
		}
		return nil, err
	}

	return row.intoCommon(ctx, s.l), nil
}

func (s *sqliteRepo) UpdateStatus(ctx context.Context, id int64, status string) error {
	sql, params, err := s.g.Update(table).
		Prepared(true).
		Set(goqu.Record{"status": status}).
		Where(goqu.C("id").Eq(id)).
		ToSQL()
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, sql, params...)
	return err
}

func (s *sqliteRepo) Delete(ctx context.Context, id int64) error {
	sql, params, err := s.g.Delete(table).
		Prepared(true).
		Where(goqu.C("id").Eq(id)).
		ToSQL()
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, sql, params...)
	return err
}

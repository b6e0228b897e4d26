package books

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bookshelf/internal/types"
)

const pgxSchema = `CREATE TABLE IF NOT EXISTS books (
	id BIGSERIAL PRIMARY KEY,
	title TEXT NOT NULL,
	author TEXT,
	genre TEXT,
	description TEXT,
	image_url TEXT,
	date_added TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP,
	status TEXT DEFAULT 'To Read'
)`

func NewPGXRepository(pg *pgxpool.Pool, l *slog.Logger) Repository {
	return &pgxRepo{pg: pg, g: goqu.Dialect("postgres"), l: l}
}

type pgxRepo struct {
	pg *pgxpool.Pool
	g  goqu.DialectWrapper
	l  *slog.Logger
}

func (p *pgxRepo) EnsureSchema(ctx context.Context) error {
	_, err := p.pg.Exec(ctx, pgxSchema)
	if err != nil {
		return fmt.Errorf("creating books table: %w", err)
	}

	return nil
}

func (p *pgxRepo) Ping(ctx context.Context) error {
	return p.pg.Ping(ctx)
}

func (p *pgxRepo) Insert(ctx context.Context, md *types.Metadata) (int64, error) {
	sql, params, err := p.g.Insert(table).
		Prepared(true).
		Rows(fromMetadata(md)).
		Returning("id").
		ToSQL()
	if err != nil {
		return 0, err
	}

	var id int64

	err = p.pg.QueryRow(ctx, sql, params...).Scan(&id)
	if err != nil {
		return 0, err
	}

	return id, nil
}

func (p *pgxRepo) GetAll(ctx context.Context) ([]*types.Book, error) {
	sql, params, err := p.g.From(table).
		Prepared(true).
		Select(columns...).
		Order(newestFirst...).
		ToSQL()
	if err != nil {
		return nil, err
	}

	var rows []bookRow

	err = pgxscan.Select(ctx, p.pg, &rows, sql, params...)
	if err != nil {
		return nil, err
	}

	ret := make([]*types.Book, 0, len(rows))
	for _, row := range rows {
		ret = append(ret, row.intoCommon(ctx, p.l))
	}

	return ret, nil
}

func (p *pgxRepo) GetById(ctx context.Context, id int64) (*types.Book, error) {
	sql, params, err := p.g.From(table).
		Prepared(true).
		Select(columns...).
		Where(goqu.C("id").Eq(id)).
		ToSQL()
	if err != nil {
		return nil, err
	}

	var row bookRow

	err = pgxscan.Get(ctx, p.pg, &row, sql, params...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = nil
		}
		return nil, err
	}

	return row.intoCommon(ctx, p.l), nil
}

func (p *pgxRepo) UpdateStatus(ctx context.Context, id int64, status string) error {
	sql, params, err := p.g.Update(table).
		Prepared(true).
		Set(goqu.Record{"status": status}).
		Where(goqu.C("id").Eq(id)).
		ToSQL()
	if err != nil {
		return err
	}

	_, err = p.pg.Exec(ctx, sql, params...)
	return err
}

func (p *pgxRepo) Delete(ctx context.Context, id int64) error {
	sql, params, err := p.g.Delete(table).
		Prepared(true).
		Where(goqu.C("id").Eq(id)).
		ToSQL()
	if err != nil {
		return err
	}

	_, err = p.pg.Exec(ctx, sql, params...)
	return err
}

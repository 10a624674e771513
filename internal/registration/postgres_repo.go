package registration

import (
	"context"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const attemptsTable = "registration_attempts"

// DB is the subset of *pgxpool.Pool the repository needs.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type PostgresRepo struct {
	db DB
	g  goqu.DialectWrapper
}

func NewPostgresRepo(db DB) *PostgresRepo {
	return &PostgresRepo{db: db, g: goqu.Dialect("postgres")}
}

type attemptRow struct {
	ID         string    `db:"id"`
	ISBN       string    `db:"isbn"`
	Title      string    `db:"title"`
	Status     string    `db:"status"`
	Error      string    `db:"error"`
	RequestID  string    `db:"request_id"`
	StartedAt  time.Time `db:"started_at"`
	FinishedAt time.Time `db:"finished_at"`
}

func (r attemptRow) intoAttempt() Attempt {
	return Attempt{
		ID:         r.ID,
		ISBN:       r.ISBN,
		Title:      r.Title,
		Status:     Status(r.Status),
		Error:      r.Error,
		RequestID:  r.RequestID,
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
	}
}

var attemptColumns = []interface{}{
	goqu.L("id::text").As("id"),
	"isbn", "title", "status", "error", "request_id", "started_at", "finished_at",
}

func (r *PostgresRepo) insertSQL(a *Attempt) (string, []interface{}, error) {
	return r.g.Insert(attemptsTable).
		Prepared(true).
		Rows(goqu.Record{
			"id":          a.ID,
			"isbn":        a.ISBN,
			"title":       a.Title,
			"status":      string(a.Status),
			"error":       a.Error,
			"request_id":  a.RequestID,
			"started_at":  a.StartedAt,
			"finished_at": a.FinishedAt,
		}).
		ToSQL()
}

func (r *PostgresRepo) listSQL(f Filter) (string, []interface{}, error) {
	ds := r.g.From(attemptsTable).
		Prepared(true).
		Select(attemptColumns...).
		Order(goqu.C("started_at").Desc(), goqu.C("id").Desc()).
		Limit(uint(f.Limit))
	if f.ISBN != "" {
		ds = ds.Where(goqu.C("isbn").Eq(f.ISBN))
	}
	return ds.ToSQL()
}

func (r *PostgresRepo) getSQL(id string) (string, []interface{}, error) {
	return r.g.From(attemptsTable).
		Prepared(true).
		Select(attemptColumns...).
		Where(goqu.C("id").Eq(id)).
		ToSQL()
}

func (r *PostgresRepo) Save(ctx context.Context, a *Attempt) error {
	sql, params, err := r.insertSQL(a)
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.db.Exec(ctx, sql, params...); err != nil {
		return fmt.Errorf("insert attempt %s: %w", a.ID, err)
	}
	return nil
}

func (r *PostgresRepo) List(ctx context.Context, f Filter) ([]Attempt, error) {
	sql, params, err := r.listSQL(f.normalized())
	if err != nil {
		return nil, fmt.Errorf("build list: %w", err)
	}

	var rows []attemptRow
	if err := pgxscan.Select(ctx, r.db, &rows, sql, params...); err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}

	out := make([]Attempt, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.intoAttempt())
	}
	return out, nil
}

func (r *PostgresRepo) Get(ctx context.Context, id string) (*Attempt, error) {
	sql, params, err := r.getSQL(id)
	if err != nil {
		return nil, fmt.Errorf("build get: %w", err)
	}

	var row attemptRow
	if err := pgxscan.Get(ctx, r.db, &row, sql, params...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, ErrAttemptNotFound
		}
		return nil, fmt.Errorf("get attempt %s: %w", id, err)
	}
	a := row.intoAttempt()
	return &a, nil
}

package publisher

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"

	"libraryapi/internal/apperror"
	"libraryapi/internal/entity"
	"libraryapi/internal/platform/postgres"
)

const selectBooksByPublisher = `
	SELECT id, title, published_date, COALESCE(genre, ''), publisher_id
	FROM books
	WHERE publisher_id = ANY($1)
	ORDER BY id`

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.timeout)
}

func (r *PostgresRepo) GetByID(ctx context.Context, id int64) (entity.Publisher, bool, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var p entity.Publisher
	err := r.db.QueryRow(ctx, `SELECT id, name FROM publishers WHERE id = $1`, id).Scan(&p.ID, &p.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return entity.Publisher{}, false, nil
	}
	if err != nil {
		return entity.Publisher{}, false, errors.Wrapf(err, "select publisher %d", id)
	}

	books, err := r.booksByPublisher(ctx, map[int64]string{p.ID: p.Name})
	if err != nil {
		return entity.Publisher{}, false, err
	}
	p.Books = books[p.ID]
	return p, true, nil
}

func (r *PostgresRepo) List(ctx context.Context) ([]entity.Publisher, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.Query(ctx, `SELECT id, name FROM publishers ORDER BY id`)
	if err != nil {
		return nil, errors.Wrap(err, "select publishers")
	}
	publishers, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.Publisher, error) {
		var p entity.Publisher
		err := row.Scan(&p.ID, &p.Name)
		return p, err
	})
	if err != nil {
		return nil, errors.Wrap(err, "scan publishers")
	}
	if len(publishers) == 0 {
		return []entity.Publisher{}, nil
	}

	names := make(map[int64]string, len(publishers))
	for _, p := range publishers {
		names[p.ID] = p.Name
	}
	books, err := r.booksByPublisher(ctx, names)
	if err != nil {
		return nil, err
	}
	for i := range publishers {
		publishers[i].Books = books[publishers[i].ID]
	}
	return publishers, nil
}

// booksByPublisher follows books.publisher_id for every publisher in names,
// which also supplies the summary each book carries back.
func (r *PostgresRepo) booksByPublisher(ctx context.Context, names map[int64]string) (map[int64][]entity.BookRef, error) {
	ids := make([]int64, 0, len(names))
	for id := range names {
		ids = append(ids, id)
	}

	rows, err := r.db.Query(ctx, selectBooksByPublisher, ids)
	if err != nil {
		return nil, errors.Wrap(err, "select books by publisher")
	}
	defer rows.Close()

	out := make(map[int64][]entity.BookRef, len(names))
	for rows.Next() {
		var (
			ref         entity.BookRef
			published   pgtype.Date
			publisherID int64
		)
		if err := rows.Scan(&ref.ID, &ref.Title, &published, &ref.Genre, &publisherID); err != nil {
			return nil, errors.Wrap(err, "scan book of publisher")
		}
		ref.PublishedDate = postgres.FormatDate(published)
		ref.Publisher = &entity.PublisherRef{ID: publisherID, Name: names[publisherID]}
		out[publisherID] = append(out[publisherID], ref)
	}
	return out, errors.Wrap(rows.Err(), "iterate books of publisher")
}

func (r *PostgresRepo) Create(ctx context.Context, p *entity.Publisher) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, `INSERT INTO publishers (name) VALUES ($1) RETURNING id`, p.Name).Scan(&p.ID); err != nil {
			return errors.Wrap(err, "insert publisher")
		}
		return assignBooks(ctx, tx, p.ID, p.BookIDs())
	})
}

func (r *PostgresRepo) Update(ctx context.Context, p *entity.Publisher) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `UPDATE publishers SET name = $1 WHERE id = $2`, p.Name, p.ID)
		if err != nil {
			return errors.Wrapf(err, "update publisher %d", p.ID)
		}
		if tag.RowsAffected() == 0 {
			return apperror.Missing(entityName, p.ID)
		}
		return assignBooks(ctx, tx, p.ID, p.BookIDs())
	})
}

// Delete detaches every book from the publisher before removing the row, so
// books survive with no publisher.
func (r *PostgresRepo) Delete(ctx context.Context, id int64) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `UPDATE books SET publisher_id = NULL WHERE publisher_id = $1`, id); err != nil {
			return errors.Wrapf(err, "detach books of publisher %d", id)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM publishers WHERE id = $1`, id); err != nil {
			return errors.Wrapf(err, "delete publisher %d", id)
		}
		return nil
	})
}

// assignBooks makes bookIDs the exact set of books of the publisher. A nil
// slice leaves assignments untouched.
func assignBooks(ctx context.Context, tx pgx.Tx, publisherID int64, bookIDs []int64) error {
	if bookIDs == nil {
		return nil
	}
	ids := entity.UniqueIDs(bookIDs)

	_, err := tx.Exec(ctx,
		`UPDATE books SET publisher_id = NULL WHERE publisher_id = $1 AND NOT (id = ANY($2))`,
		publisherID, ids,
	)
	if err != nil {
		return errors.Wrapf(err, "detach books of publisher %d", publisherID)
	}
	if len(ids) == 0 {
		return nil
	}

	tag, err := tx.Exec(ctx, `UPDATE books SET publisher_id = $1 WHERE id = ANY($2)`, publisherID, ids)
	if err != nil {
		return errors.Wrapf(err, "attach books to publisher %d", publisherID)
	}
	if tag.RowsAffected() != int64(len(ids)) {
		return apperror.Dangling("book", ids)
	}
	return nil
}

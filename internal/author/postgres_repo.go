package author

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

const selectAuthors = `
	SELECT id, COALESCE(name, ''), COALESCE(surname, ''), COALESCE(country, '')
	FROM authors`

const selectBooksByAuthor = `
	SELECT ba.author_id, b.id, b.title, b.published_date, COALESCE(b.genre, ''), p.id, p.name
	FROM book_author ba
	JOIN books b ON b.id = ba.book_id
	LEFT JOIN publishers p ON p.id = b.publisher_id
	WHERE ba.author_id = ANY($1)
	ORDER BY ba.author_id, b.id`

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

func (r *PostgresRepo) GetByID(ctx context.Context, id int64, withBooks bool) (entity.Author, bool, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var a entity.Author
	err := r.db.QueryRow(ctx, selectAuthors+` WHERE id = $1`, id).
		Scan(&a.ID, &a.Name, &a.Surname, &a.Country)
	if errors.Is(err, pgx.ErrNoRows) {
		return entity.Author{}, false, nil
	}
	if err != nil {
		return entity.Author{}, false, errors.Wrapf(err, "select author %d", id)
	}

	if withBooks {
		books, err := r.booksByAuthor(ctx, []int64{id})
		if err != nil {
			return entity.Author{}, false, err
		}
		a.Books = books[id]
	}
	return a, true, nil
}

func (r *PostgresRepo) List(ctx context.Context, withBooks bool) ([]entity.Author, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.Query(ctx, selectAuthors+` ORDER BY id`)
	if err != nil {
		return nil, errors.Wrap(err, "select authors")
	}
	defer rows.Close()

	authors := []entity.Author{}
	for rows.Next() {
		var a entity.Author
		if err := rows.Scan(&a.ID, &a.Name, &a.Surname, &a.Country); err != nil {
			return nil, errors.Wrap(err, "scan author")
		}
		authors = append(authors, a)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate authors")
	}

	if !withBooks || len(authors) == 0 {
		return authors, nil
	}

	ids := make([]int64, len(authors))
	for i, a := range authors {
		ids[i] = a.ID
	}
	books, err := r.booksByAuthor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range authors {
		authors[i].Books = books[authors[i].ID]
	}
	return authors, nil
}

// booksByAuthor hydrates the book sets of all given authors in one query.
func (r *PostgresRepo) booksByAuthor(ctx context.Context, authorIDs []int64) (map[int64][]entity.BookRef, error) {
	rows, err := r.db.Query(ctx, selectBooksByAuthor, authorIDs)
	if err != nil {
		return nil, errors.Wrap(err, "select books by author")
	}
	defer rows.Close()

	out := make(map[int64][]entity.BookRef, len(authorIDs))
	for rows.Next() {
		var (
			authorID  int64
			ref       entity.BookRef
			published pgtype.Date
			pubID     *int64
			pubName   *string
		)
		if err := rows.Scan(&authorID, &ref.ID, &ref.Title, &published, &ref.Genre, &pubID, &pubName); err != nil {
			return nil, errors.Wrap(err, "scan book of author")
		}
		ref.PublishedDate = postgres.FormatDate(published)
		if pubID != nil {
			ref.Publisher = &entity.PublisherRef{ID: *pubID, Name: deref(pubName)}
		}
		out[authorID] = append(out[authorID], ref)
	}
	return out, errors.Wrap(rows.Err(), "iterate books of author")
}

func (r *PostgresRepo) Create(ctx context.Context, a *entity.Author) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`INSERT INTO authors (name, surname, country) VALUES ($1, $2, $3) RETURNING id`,
			a.Name, a.Surname, a.Country,
		).Scan(&a.ID)
		if err != nil {
			return errors.Wrap(err, "insert author")
		}
		return replaceBooks(ctx, tx, a.ID, a.BookIDs())
	})
}

// Update overwrites the scalar fields and replaces the book set wholesale in
// one transaction.
func (r *PostgresRepo) Update(ctx context.Context, a *entity.Author) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE authors SET name = $1, surname = $2, country = $3 WHERE id = $4`,
			a.Name, a.Surname, a.Country, a.ID,
		)
		if err != nil {
			return errors.Wrapf(err, "update author %d", a.ID)
		}
		if tag.RowsAffected() == 0 {
			return apperror.Missing(entityName, a.ID)
		}
		return replaceBooks(ctx, tx, a.ID, a.BookIDs())
	})
}

func (r *PostgresRepo) Delete(ctx context.Context, id int64) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM book_author WHERE author_id = $1`, id); err != nil {
			return errors.Wrapf(err, "delete book links of author %d", id)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM authors WHERE id = $1`, id); err != nil {
			return errors.Wrapf(err, "delete author %d", id)
		}
		return nil
	})
}

func replaceBooks(ctx context.Context, tx pgx.Tx, authorID int64, bookIDs []int64) error {
	if _, err := tx.Exec(ctx, `DELETE FROM book_author WHERE author_id = $1`, authorID); err != nil {
		return errors.Wrapf(err, "delete book links of author %d", authorID)
	}

	ids := entity.UniqueIDs(bookIDs)
	if len(ids) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, bookID := range ids {
		batch.Queue(`INSERT INTO book_author (book_id, author_id) VALUES ($1, $2)`, bookID, authorID)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return errors.Wrapf(err, "insert book links of author %d", authorID)
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

package book

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

const selectBooks = `
	SELECT b.id, b.title, b.published_date, COALESCE(b.genre, ''), p.id, p.name
	FROM books b
	LEFT JOIN publishers p ON p.id = b.publisher_id`

const selectAuthorsByBook = `
	SELECT ba.book_id, a.id, COALESCE(a.name, ''), COALESCE(a.surname, ''), COALESCE(a.country, '')
	FROM book_author ba
	JOIN authors a ON a.id = ba.author_id
	WHERE ba.book_id = ANY($1)
	ORDER BY ba.book_id, a.id`

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

func scanBook(row pgx.Row) (entity.Book, error) {
	var (
		b         entity.Book
		published pgtype.Date
		pubID     *int64
		pubName   *string
	)
	if err := row.Scan(&b.ID, &b.Title, &published, &b.Genre, &pubID, &pubName); err != nil {
		return entity.Book{}, err
	}
	b.PublishedDate = postgres.FormatDate(published)
	if pubID != nil {
		b.Publisher = &entity.PublisherRef{ID: *pubID}
		if pubName != nil {
			b.Publisher.Name = *pubName
		}
	}
	return b, nil
}

func (r *PostgresRepo) GetByID(ctx context.Context, id int64) (entity.Book, bool, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	b, err := scanBook(r.db.QueryRow(ctx, selectBooks+` WHERE b.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return entity.Book{}, false, nil
	}
	if err != nil {
		return entity.Book{}, false, errors.Wrapf(err, "select book %d", id)
	}

	authors, err := r.authorsByBook(ctx, []int64{id})
	if err != nil {
		return entity.Book{}, false, err
	}
	b.Authors = authors[id]
	return b, true, nil
}

func (r *PostgresRepo) List(ctx context.Context) ([]entity.Book, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.Query(ctx, selectBooks+` ORDER BY b.id`)
	if err != nil {
		return nil, errors.Wrap(err, "select books")
	}
	defer rows.Close()

	books := []entity.Book{}
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan book")
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate books")
	}
	if len(books) == 0 {
		return books, nil
	}

	ids := make([]int64, len(books))
	for i, b := range books {
		ids[i] = b.ID
	}
	authors, err := r.authorsByBook(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range books {
		books[i].Authors = authors[books[i].ID]
	}
	return books, nil
}

func (r *PostgresRepo) authorsByBook(ctx context.Context, bookIDs []int64) (map[int64][]entity.AuthorRef, error) {
	rows, err := r.db.Query(ctx, selectAuthorsByBook, bookIDs)
	if err != nil {
		return nil, errors.Wrap(err, "select authors by book")
	}
	defer rows.Close()

	out := make(map[int64][]entity.AuthorRef, len(bookIDs))
	for rows.Next() {
		var (
			bookID int64
			ref    entity.AuthorRef
		)
		if err := rows.Scan(&bookID, &ref.ID, &ref.Name, &ref.Surname, &ref.Country); err != nil {
			return nil, errors.Wrap(err, "scan author of book")
		}
		out[bookID] = append(out[bookID], ref)
	}
	return out, errors.Wrap(rows.Err(), "iterate authors of book")
}

func (r *PostgresRepo) Create(ctx context.Context, b *entity.Book) error {
	published, err := postgres.ParseDate(b.PublishedDate)
	if err != nil {
		return err
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`INSERT INTO books (title, published_date, genre, publisher_id) VALUES ($1, $2, $3, $4) RETURNING id`,
			b.Title, published, b.Genre, b.PublisherID(),
		).Scan(&b.ID)
		if err != nil {
			return errors.Wrap(err, "insert book")
		}
		return replaceAuthors(ctx, tx, b.ID, b.AuthorIDs())
	})
}

// Update overwrites the scalar fields and publisher reference, then replaces
// the author set wholesale in the same transaction.
func (r *PostgresRepo) Update(ctx context.Context, b *entity.Book) error {
	published, err := postgres.ParseDate(b.PublishedDate)
	if err != nil {
		return err
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE books SET title = $1, published_date = $2, genre = $3, publisher_id = $4 WHERE id = $5`,
			b.Title, published, b.Genre, b.PublisherID(), b.ID,
		)
		if err != nil {
			return errors.Wrapf(err, "update book %d", b.ID)
		}
		if tag.RowsAffected() == 0 {
			return apperror.Missing(entityName, b.ID)
		}
		return replaceAuthors(ctx, tx, b.ID, b.AuthorIDs())
	})
}

func (r *PostgresRepo) Delete(ctx context.Context, id int64) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM book_author WHERE book_id = $1`, id); err != nil {
			return errors.Wrapf(err, "delete author links of book %d", id)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM books WHERE id = $1`, id); err != nil {
			return errors.Wrapf(err, "delete book %d", id)
		}
		return nil
	})
}

func replaceAuthors(ctx context.Context, tx pgx.Tx, bookID int64, authorIDs []int64) error {
	if _, err := tx.Exec(ctx, `DELETE FROM book_author WHERE book_id = $1`, bookID); err != nil {
		return errors.Wrapf(err, "delete author links of book %d", bookID)
	}

	ids := entity.UniqueIDs(authorIDs)
	if len(ids) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, authorID := range ids {
		batch.Queue(`INSERT INTO book_author (book_id, author_id) VALUES ($1, $2)`, bookID, authorID)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return errors.Wrapf(err, "insert author links of book %d", bookID)
	}
	return nil
}

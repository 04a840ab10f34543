package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const bookColumns = `id, title, author, isbn, status, category, published_year, location, created_at`

func scanBook(row pgx.Row) (Book, error) {
	var i Book
	err := row.Scan(
		&i.ID,
		&i.Title,
		&i.Author,
		&i.Isbn,
		&i.Status,
		&i.Category,
		&i.PublishedYear,
		&i.Location,
		&i.CreatedAt,
	)
	return i, err
}

func collectBooks(rows pgx.Rows) ([]Book, error) {
	defer rows.Close()
	items := []Book{}
	for rows.Next() {
		i, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const listBooks = `SELECT ` + bookColumns + ` FROM books ORDER BY title`

func (q *Queries) ListBooks(ctx context.Context) ([]Book, error) {
	rows, err := q.db.Query(ctx, listBooks)
	if err != nil {
		return nil, err
	}
	return collectBooks(rows)
}

const getBook = `SELECT ` + bookColumns + ` FROM books WHERE id = $1`

func (q *Queries) GetBook(ctx context.Context, id pgtype.UUID) (Book, error) {
	return scanBook(q.db.QueryRow(ctx, getBook, id))
}

// SearchBooks matches pattern with ILIKE against title or author. The caller
// supplies the wildcards.
const searchBooks = `SELECT ` + bookColumns + ` FROM books
WHERE title ILIKE $1 OR author ILIKE $1
ORDER BY title`

func (q *Queries) SearchBooks(ctx context.Context, pattern string) ([]Book, error) {
	rows, err := q.db.Query(ctx, searchBooks, pattern)
	if err != nil {
		return nil, err
	}
	return collectBooks(rows)
}

const listBooksByStatus = `SELECT ` + bookColumns + ` FROM books WHERE status = $1 ORDER BY title`

func (q *Queries) ListBooksByStatus(ctx context.Context, status BookStatus) ([]Book, error) {
	rows, err := q.db.Query(ctx, listBooksByStatus, status)
	if err != nil {
		return nil, err
	}
	return collectBooks(rows)
}

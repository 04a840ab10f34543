// Package book is the read-only library catalog.
package book

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/Hossain-Anas/UniVerse/internal/db"
)

var ErrIDRequired = errors.New("book id is required")

type Queries interface {
	ListBooks(ctx context.Context) ([]db.Book, error)
	GetBook(ctx context.Context, id pgtype.UUID) (db.Book, error)
	SearchBooks(ctx context.Context, pattern string) ([]db.Book, error)
	ListBooksByStatus(ctx context.Context, status db.BookStatus) ([]db.Book, error)
}

type Service struct {
	q Queries
}

func NewService(q Queries) *Service {
	return &Service{q: q}
}

func (s *Service) List(ctx context.Context) ([]db.Book, error) {
	books, err := s.q.ListBooks(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve books: %w", err)
	}
	return books, nil
}

// Get returns nil without an error when no book has the id.
func (s *Service) Get(ctx context.Context, id string) (*db.Book, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrIDRequired
	}
	parsed, err := db.ParseUUID(id)
	if err != nil {
		return nil, nil
	}
	b, err := s.q.GetBook(ctx, parsed)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to retrieve book: %w", err)
	}
	return &b, nil
}

// Search matches query as a case-insensitive substring of title or author.
// A blank query lists the whole catalog.
func (s *Service) Search(ctx context.Context, query string) ([]db.Book, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.List(ctx)
	}
	books, err := s.q.SearchBooks(ctx, "%"+escapeLike(query)+"%")
	if err != nil {
		return nil, fmt.Errorf("failed to search books: %w", err)
	}
	return books, nil
}

func (s *Service) Available(ctx context.Context) ([]db.Book, error) {
	books, err := s.q.ListBooksByStatus(ctx, db.BookStatusAvailable)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve available books: %w", err)
	}
	return books, nil
}

// Status is empty when the book does not exist.
func (s *Service) Status(ctx context.Context, id string) (db.BookStatus, error) {
	b, err := s.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrIDRequired) {
			return "", err
		}
		return "", fmt.Errorf("failed to retrieve book availability: %w", err)
	}
	if b == nil {
		return "", nil
	}
	return b.Status, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(value string) string {
	return likeEscaper.Replace(value)
}

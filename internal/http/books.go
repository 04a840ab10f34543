package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Hossain-Anas/UniVerse/internal/book"
	"github.com/Hossain-Anas/UniVerse/internal/zlog"
)

func (s *Server) handleListBooks(w http.ResponseWriter, r *http.Request) {
	items, err := s.books.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		zlog.Error("list books failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to fetch books")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"books": mapBooks(items)})
}

func (s *Server) handleAvailableBooks(w http.ResponseWriter, r *http.Request) {
	items, err := s.books.Available(r.Context())
	if err != nil {
		zlog.Error("list available books failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to fetch available books")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"books": mapBooks(items)})
}

func (s *Server) handleGetBook(w http.ResponseWriter, r *http.Request) {
	b, err := s.books.Get(r.Context(), chi.URLParam(r, "bookId"))
	if err != nil {
		if errors.Is(err, book.ErrIDRequired) {
			writeError(w, http.StatusBadRequest, "Book ID is required")
			return
		}
		zlog.Error("get book failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to fetch book")
		return
	}
	if b == nil {
		writeError(w, http.StatusNotFound, "Book not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"book": mapBook(*b)})
}

func (s *Server) handleBookStatus(w http.ResponseWriter, r *http.Request) {
	status, err := s.books.Status(r.Context(), chi.URLParam(r, "bookId"))
	if err != nil {
		zlog.Error("book availability failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to fetch book availability")
		return
	}
	if status == "" {
		writeError(w, http.StatusNotFound, "Book not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": string(status)})
}

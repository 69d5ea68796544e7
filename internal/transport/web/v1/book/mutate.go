package book

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/Hedi-Ayari/book-review-service/internal/domain"
	"github.com/Hedi-Ayari/book-review-service/internal/listcache"
	"github.com/Hedi-Ayari/book-review-service/internal/transport/web/logx"
	"github.com/Hedi-Ayari/book-review-service/internal/transport/web/mw"
	v1 "github.com/Hedi-Ayari/book-review-service/internal/transport/web/v1"
)

type createRequest struct {
	Title      string `json:"title"`
	Author     string `json:"author"`
	Genre      string `json:"genre"`
	CoverImage string `json:"coverImage"`
}

type bookResponse struct {
	Message string      `json:"message"`
	Book    domain.Book `json:"book"`
}

// Create godoc
// @Summary     Create book
// @Description Создание книги; после записи сметает кеш списков.
// @Tags        books
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body createRequest true "title, author, genre, coverImage"
// @Success     201 {object} bookResponse
// @Failure     400 {object} v1.ErrorEnvelope
// @Failure     401 {object} v1.ErrorEnvelope
// @Failure     500 {object} v1.ErrorEnvelope
// @Router      /api/books [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "book.create"
	reqID := mw.RequestIDFromCtx(r.Context())

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logx.Error(h.Log, reqID, op, "bad json", err)
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}
	if req.Title == "" || req.Author == "" || req.Genre == "" || req.CoverImage == "" {
		logx.Error(h.Log, reqID, op, "missing required fields", domain.ErrBadParams)
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}

	created, err := h.Books.CreateBook(r.Context(), domain.Book{
		Title:      req.Title,
		Author:     req.Author,
		Genre:      req.Genre,
		CoverImage: req.CoverImage,
	})
	if err != nil {
		logx.Error(h.Log, reqID, op, "insert failed", err)
		v1.WriteDomainError(w, r, domain.ErrUnexpected)
		return
	}

	// свип строго после подтверждённой записи и до ответа
	h.Cache.Sweep(r.Context(), listcache.ScopeBooks)

	logx.Info(h.Log, reqID, op, "ok", "book_id", created.ID)
	v1.WriteJSON(w, r, http.StatusCreated, bookResponse{Message: "Book created successfully", Book: created})
}

// Update godoc
// @Summary     Update book
// @Description Частичное обновление; после записи сметает кеш списков.
// @Tags        books
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string        true "book id"
// @Param       request body createRequest true "fields to update"
// @Success     200 {object} bookResponse
// @Failure     400 {object} v1.ErrorEnvelope
// @Failure     404 {object} v1.ErrorEnvelope
// @Router      /api/books/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	const op = "book.update"
	reqID := mw.RequestIDFromCtx(r.Context())

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}

	var req struct {
		Title      *string `json:"title"`
		Author     *string `json:"author"`
		Genre      *string `json:"genre"`
		CoverImage *string `json:"coverImage"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logx.Error(h.Log, reqID, op, "bad json", err)
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}

	patch := domain.BookPatch{Title: req.Title, Author: req.Author, Genre: req.Genre, CoverImage: req.CoverImage}
	updated, err := h.Books.UpdateBook(r.Context(), id, patch)
	if err != nil {
		logx.Error(h.Log, reqID, op, "update failed", err, "book_id", id)
		v1.WriteDomainError(w, r, err)
		return
	}

	// обновление меняет видимые поля закешированных страниц
	h.Cache.Sweep(r.Context(), listcache.ScopeBooks)

	logx.Info(h.Log, reqID, op, "ok", "book_id", updated.ID)
	v1.WriteJSON(w, r, http.StatusOK, bookResponse{Message: "Book updated successfully", Book: updated})
}

// Delete godoc
// @Summary     Delete book
// @Description Мягкое удаление: книга исчезает из списков; кеш сметается.
// @Tags        books
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "book id"
// @Success     200 {object} bookResponse
// @Failure     404 {object} v1.ErrorEnvelope
// @Router      /api/books/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	const op = "book.delete"
	reqID := mw.RequestIDFromCtx(r.Context())

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}

	deleted, err := h.Books.SoftDeleteBook(r.Context(), id)
	if err != nil {
		logx.Error(h.Log, reqID, op, "soft delete failed", err, "book_id", id)
		v1.WriteDomainError(w, r, err)
		return
	}

	// мягкое удаление меняет состав списков
	h.Cache.Sweep(r.Context(), listcache.ScopeBooks)

	logx.Info(h.Log, reqID, op, "ok", "book_id", deleted.ID)
	v1.WriteJSON(w, r, http.StatusOK, bookResponse{Message: "Book marked as deleted successfully", Book: deleted})
}

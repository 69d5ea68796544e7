package book

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/Hedi-Ayari/book-review-service/internal/domain"
	"github.com/Hedi-Ayari/book-review-service/internal/transport/web/logx"
	"github.com/Hedi-Ayari/book-review-service/internal/transport/web/mw"
	v1 "github.com/Hedi-Ayari/book-review-service/internal/transport/web/v1"
)

type bookDetails struct {
	Book     domain.Book    `json:"book"`
	Metadata map[string]any `json:"metadata"`
}

// GetOne godoc
// @Summary     Book details
// @Description Книга + метаданные из Google Books; недоступность справочника не ломает ответ.
// @Tags        books
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "book id"
// @Success     200 {object} bookDetails
// @Failure     404 {object} v1.ErrorEnvelope
// @Router      /api/books/one/{id} [get]
func (h *Handler) GetOne(w http.ResponseWriter, r *http.Request) {
	const op = "book.getone"
	reqID := mw.RequestIDFromCtx(r.Context())

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}

	b, err := h.Books.BookByID(r.Context(), id)
	if err != nil {
		logx.Error(h.Log, reqID, op, "fetch failed", err, "book_id", id)
		v1.WriteDomainError(w, r, err)
		return
	}

	// справочник stateless и необязателен: при сбое отдаём пустой блоб
	meta, err := h.Meta.VolumeInfo(r.Context(), b.Title)
	if err != nil {
		logx.Error(h.Log, reqID, op, "metadata lookup failed", err, "book_id", id)
		meta = map[string]any{}
	}

	logx.Info(h.Log, reqID, op, "ok", "book_id", b.ID)
	v1.WriteJSON(w, r, http.StatusOK, bookDetails{Book: b, Metadata: meta})
}

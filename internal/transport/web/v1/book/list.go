package book

import (
	"net/http"

	"github.com/Hedi-Ayari/book-review-service/internal/domain"
	"github.com/Hedi-Ayari/book-review-service/internal/listcache"
	"github.com/Hedi-Ayari/book-review-service/internal/transport/web/logx"
	"github.com/Hedi-Ayari/book-review-service/internal/transport/web/mw"
	v1 "github.com/Hedi-Ayari/book-review-service/internal/transport/web/v1"
)

// List godoc
// @Summary     List books
// @Description Постраничный список книг; страницы кешируются на час.
// @Tags        books
// @Produce     json
// @Param       page  query int false "page number" default(1)
// @Param       limit query int false "books per page" default(10)
// @Success     200 {object} listcache.Envelope
// @Failure     500 {object} v1.ErrorEnvelope
// @Router      /api/books/listAll [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	const op = "book.list"
	reqID := mw.RequestIDFromCtx(r.Context())

	page, limit := listcache.ParsePage(r.URL.Query().Get("page"), r.URL.Query().Get("limit"))

	// кеш: попадание отдаёт сохранённые байты как есть, БД не трогаем
	if body, hit := h.Cache.Lookup(r.Context(), listcache.ScopeBooks, page, limit); hit {
		logx.Info(h.Log, reqID, op, "cache hit", "page", page, "limit", limit)
		v1.WriteRaw(w, r, http.StatusOK, body)
		return
	}
	logx.Info(h.Log, reqID, op, "cache miss", "page", page, "limit", limit)

	books, err := h.Books.BooksList(r.Context(), domain.Page{Page: page, Limit: limit})
	if err != nil {
		logx.Error(h.Log, reqID, op, "list query failed", err)
		v1.WriteDomainError(w, r, domain.ErrUnexpected)
		return
	}
	total, err := h.Books.CountBooks(r.Context())
	if err != nil {
		logx.Error(h.Log, reqID, op, "count failed", err)
		v1.WriteDomainError(w, r, domain.ErrUnexpected)
		return
	}

	env := listcache.NewEnvelope(books, total, page, limit)
	body, err := h.Cache.Store(r.Context(), listcache.ScopeBooks, page, limit, env)
	if err != nil {
		logx.Error(h.Log, reqID, op, "marshal envelope failed", err)
		v1.WriteDomainError(w, r, domain.ErrUnexpected)
		return
	}
	v1.WriteRaw(w, r, http.StatusOK, body)
}

// Search godoc
// @Summary     Search books
// @Description Поиск по подстрокам title/author/genre; не кешируется.
// @Tags        books
// @Produce     json
// @Param       title  query string false "title substring"
// @Param       author query string false "author substring"
// @Param       genre  query string false "genre substring"
// @Param       page   query int    false "page number" default(1)
// @Param       limit  query int    false "books per page" default(10)
// @Success     200 {object} listcache.Envelope
// @Failure     500 {object} v1.ErrorEnvelope
// @Router      /api/books/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	const op = "book.search"
	reqID := mw.RequestIDFromCtx(r.Context())

	q := r.URL.Query()
	page, limit := listcache.ParsePage(q.Get("page"), q.Get("limit"))
	f := domain.BookFilter{
		Title:  q.Get("title"),
		Author: q.Get("author"),
		Genre:  q.Get("genre"),
	}

	books, err := h.Books.SearchBooks(r.Context(), f, domain.Page{Page: page, Limit: limit})
	if err != nil {
		logx.Error(h.Log, reqID, op, "search query failed", err)
		v1.WriteDomainError(w, r, domain.ErrUnexpected)
		return
	}
	// count по тому же фильтру, что и выборка
	total, err := h.Books.CountSearch(r.Context(), f)
	if err != nil {
		logx.Error(h.Log, reqID, op, "count failed", err)
		v1.WriteDomainError(w, r, domain.ErrUnexpected)
		return
	}

	logx.Info(h.Log, reqID, op, "ok", "total", total, "page", page)
	v1.WriteJSON(w, r, http.StatusOK, listcache.NewEnvelope(books, total, page, limit))
}

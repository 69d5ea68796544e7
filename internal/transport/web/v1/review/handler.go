package review

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/google/uuid"

	"github.com/Hedi-Ayari/book-review-service/internal/domain"
	"github.com/Hedi-Ayari/book-review-service/internal/listcache"
	"github.com/Hedi-Ayari/book-review-service/internal/transport/web/logx"
	"github.com/Hedi-Ayari/book-review-service/internal/transport/web/mw"
	v1 "github.com/Hedi-Ayari/book-review-service/internal/transport/web/v1"
)

type Handler struct {
	Log     *log.Logger
	Books   domain.BooksRepo
	Reviews domain.ReviewsRepo
}

type createRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

type reviewResponse struct {
	Message string        `json:"message"`
	Review  domain.Review `json:"review"`
}

// редактировать/удалять отзыв может автор или админ
func canModify(u domain.User, rv domain.Review) bool {
	return u.ID == rv.UserID || u.Role == domain.RoleAdmin
}

// Create godoc
// @Summary     Create review
// @Tags        reviews
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       bookId  path string        true "book id"
// @Param       request body createRequest true "rating 1..5, comment"
// @Success     201 {object} reviewResponse
// @Failure     400 {object} v1.ErrorEnvelope
// @Failure     404 {object} v1.ErrorEnvelope
// @Router      /api/reviews/{bookId} [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "review.create"
	reqID := mw.RequestIDFromCtx(r.Context())

	me, ok := mw.UserFromCtx(r.Context())
	if !ok {
		v1.WriteDomainError(w, r, domain.ErrUnauth)
		return
	}
	bookID, err := uuid.Parse(r.PathValue("bookId"))
	if err != nil {
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logx.Error(h.Log, reqID, op, "bad json", err)
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}
	if req.Rating < 1 || req.Rating > 5 || req.Comment == "" {
		logx.Error(h.Log, reqID, op, "rating and comment are required", domain.ErrBadParams)
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}

	// книга должна существовать и быть неудалённой
	if _, err := h.Books.BookByID(r.Context(), bookID); err != nil {
		logx.Error(h.Log, reqID, op, "book lookup failed", err, "book_id", bookID)
		v1.WriteDomainError(w, r, err)
		return
	}

	created, err := h.Reviews.CreateReview(r.Context(), domain.Review{
		BookID:  bookID,
		UserID:  me.ID,
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		logx.Error(h.Log, reqID, op, "insert failed", err)
		v1.WriteDomainError(w, r, domain.ErrUnexpected)
		return
	}

	logx.Info(h.Log, reqID, op, "ok", "review_id", created.ID, "book_id", bookID)
	v1.WriteJSON(w, r, http.StatusCreated, reviewResponse{Message: "Review created successfully.", Review: created})
}

// ListByBook godoc
// @Summary     List reviews for a book
// @Tags        reviews
// @Produce     json
// @Security    BearerAuth
// @Param       bookId path  string true  "book id"
// @Param       page   query int    false "page number" default(1)
// @Param       limit  query int    false "reviews per page" default(10)
// @Success     200 {object} listcache.Envelope
// @Failure     500 {object} v1.ErrorEnvelope
// @Router      /api/reviews/{bookId} [get]
func (h *Handler) ListByBook(w http.ResponseWriter, r *http.Request) {
	const op = "review.list"
	reqID := mw.RequestIDFromCtx(r.Context())

	bookID, err := uuid.Parse(r.PathValue("bookId"))
	if err != nil {
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}
	page, limit := listcache.ParsePage(r.URL.Query().Get("page"), r.URL.Query().Get("limit"))

	reviews, err := h.Reviews.ReviewsByBook(r.Context(), bookID, domain.Page{Page: page, Limit: limit})
	if err != nil {
		logx.Error(h.Log, reqID, op, "list query failed", err, "book_id", bookID)
		v1.WriteDomainError(w, r, domain.ErrUnexpected)
		return
	}
	total, err := h.Reviews.CountReviews(r.Context(), bookID)
	if err != nil {
		logx.Error(h.Log, reqID, op, "count failed", err, "book_id", bookID)
		v1.WriteDomainError(w, r, domain.ErrUnexpected)
		return
	}

	v1.WriteJSON(w, r, http.StatusOK, listcache.NewEnvelope(reviews, total, page, limit))
}

// Update godoc
// @Summary     Update review
// @Description Меняет rating и/или comment; доступно автору отзыва и админу.
// @Tags        reviews
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string true "review id"
// @Param       request body createRequest true "rating and/or comment"
// @Success     200 {object} reviewResponse
// @Failure     403 {object} v1.ErrorEnvelope
// @Failure     404 {object} v1.ErrorEnvelope
// @Router      /api/reviews/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	const op = "review.update"
	reqID := mw.RequestIDFromCtx(r.Context())

	me, ok := mw.UserFromCtx(r.Context())
	if !ok {
		v1.WriteDomainError(w, r, domain.ErrUnauth)
		return
	}
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}

	var req struct {
		Rating  *int    `json:"rating"`
		Comment *string `json:"comment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logx.Error(h.Log, reqID, op, "bad json", err)
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}
	if req.Rating != nil && (*req.Rating < 1 || *req.Rating > 5) {
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}

	rv, err := h.Reviews.ReviewByID(r.Context(), id)
	if err != nil {
		logx.Error(h.Log, reqID, op, "fetch failed", err, "review_id", id)
		v1.WriteDomainError(w, r, err)
		return
	}
	if !canModify(me, rv) {
		logx.Error(h.Log, reqID, op, "permission denied", domain.ErrForbidden, "review_id", id, "user_id", me.ID)
		v1.WriteDomainError(w, r, domain.ErrForbidden)
		return
	}

	updated, err := h.Reviews.UpdateReview(r.Context(), id, req.Rating, req.Comment)
	if err != nil {
		logx.Error(h.Log, reqID, op, "update failed", err, "review_id", id)
		v1.WriteDomainError(w, r, err)
		return
	}

	logx.Info(h.Log, reqID, op, "ok", "review_id", id)
	v1.WriteJSON(w, r, http.StatusOK, reviewResponse{Message: "Review updated successfully.", Review: updated})
}

// Delete godoc
// @Summary     Delete review
// @Description Мягкое удаление; доступно автору отзыва и админу.
// @Tags        reviews
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "review id"
// @Success     200 {object} map[string]string
// @Failure     403 {object} v1.ErrorEnvelope
// @Failure     404 {object} v1.ErrorEnvelope
// @Router      /api/reviews/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	const op = "review.delete"
	reqID := mw.RequestIDFromCtx(r.Context())

	me, ok := mw.UserFromCtx(r.Context())
	if !ok {
		v1.WriteDomainError(w, r, domain.ErrUnauth)
		return
	}
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}

	rv, err := h.Reviews.ReviewByID(r.Context(), id)
	if err != nil {
		logx.Error(h.Log, reqID, op, "fetch failed", err, "review_id", id)
		v1.WriteDomainError(w, r, err)
		return
	}
	if !canModify(me, rv) {
		logx.Error(h.Log, reqID, op, "permission denied", domain.ErrForbidden, "review_id", id, "user_id", me.ID)
		v1.WriteDomainError(w, r, domain.ErrForbidden)
		return
	}

	if err := h.Reviews.SoftDeleteReview(r.Context(), id); err != nil {
		logx.Error(h.Log, reqID, op, "soft delete failed", err, "review_id", id)
		v1.WriteDomainError(w, r, err)
		return
	}

	logx.Info(h.Log, reqID, op, "ok", "review_id", id)
	v1.WriteJSON(w, r, http.StatusOK, map[string]string{"message": "Review deleted successfully."})
}

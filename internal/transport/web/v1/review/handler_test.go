package review

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hedi-Ayari/book-review-service/internal/domain"
	"github.com/Hedi-Ayari/book-review-service/internal/transport/web/mw"
)

// Пользователь кладётся в контекст запроса middleware-ом, поэтому хендлеры
// тестируем через mw.RequireRole с фейковым менеджером токенов.
type fakeTokens struct {
	byToken map[string]domain.TokenClaims
}

func (f *fakeTokens) Issue(context.Context, domain.User) (domain.Token, domain.TokenClaims, error) {
	return "", domain.TokenClaims{}, errors.New("not implemented")
}

func (f *fakeTokens) Parse(_ context.Context, raw domain.Token) (domain.TokenClaims, error) {
	cl, ok := f.byToken[string(raw)]
	if !ok {
		return domain.TokenClaims{}, errors.New("invalid token")
	}
	return cl, nil
}

type fakeBooks struct {
	known map[domain.BookID]bool
}

func (f *fakeBooks) CreateBook(context.Context, domain.Book) (domain.Book, error) {
	return domain.Book{}, errors.New("not implemented")
}

func (f *fakeBooks) BookByID(_ context.Context, id domain.BookID) (domain.Book, error) {
	if f.known[id] {
		return domain.Book{ID: id, Title: "Known"}, nil
	}
	return domain.Book{}, domain.ErrNotFound
}

func (f *fakeBooks) UpdateBook(context.Context, domain.BookID, domain.BookPatch) (domain.Book, error) {
	return domain.Book{}, errors.New("not implemented")
}

func (f *fakeBooks) SoftDeleteBook(context.Context, domain.BookID) (domain.Book, error) {
	return domain.Book{}, errors.New("not implemented")
}

func (f *fakeBooks) BooksList(context.Context, domain.Page) ([]domain.Book, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeBooks) CountBooks(context.Context) (int, error) { return 0, errors.New("not implemented") }

func (f *fakeBooks) SearchBooks(context.Context, domain.BookFilter, domain.Page) ([]domain.Book, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeBooks) CountSearch(context.Context, domain.BookFilter) (int, error) {
	return 0, errors.New("not implemented")
}

type fakeReviews struct {
	reviews map[domain.ReviewID]domain.Review
}

func newFakeReviews() *fakeReviews {
	return &fakeReviews{reviews: map[domain.ReviewID]domain.Review{}}
}

func (f *fakeReviews) CreateReview(_ context.Context, rv domain.Review) (domain.Review, error) {
	rv.ID = uuid.New()
	f.reviews[rv.ID] = rv
	return rv, nil
}

func (f *fakeReviews) ReviewByID(_ context.Context, id domain.ReviewID) (domain.Review, error) {
	rv, ok := f.reviews[id]
	if !ok || rv.Deleted {
		return domain.Review{}, domain.ErrNotFound
	}
	return rv, nil
}

func (f *fakeReviews) UpdateReview(_ context.Context, id domain.ReviewID, rating *int, comment *string) (domain.Review, error) {
	rv, ok := f.reviews[id]
	if !ok || rv.Deleted {
		return domain.Review{}, domain.ErrNotFound
	}
	if rating != nil {
		rv.Rating = *rating
	}
	if comment != nil {
		rv.Comment = *comment
	}
	f.reviews[id] = rv
	return rv, nil
}

func (f *fakeReviews) SoftDeleteReview(_ context.Context, id domain.ReviewID) error {
	rv, ok := f.reviews[id]
	if !ok || rv.Deleted {
		return domain.ErrNotFound
	}
	rv.Deleted = true
	f.reviews[id] = rv
	return nil
}

func (f *fakeReviews) ReviewsByBook(_ context.Context, bookID domain.BookID, _ domain.Page) ([]domain.Review, error) {
	var out []domain.Review
	for _, rv := range f.reviews {
		if rv.BookID == bookID && !rv.Deleted {
			out = append(out, rv)
		}
	}
	return out, nil
}

func (f *fakeReviews) CountReviews(_ context.Context, bookID domain.BookID) (int, error) {
	rvs, _ := f.ReviewsByBook(context.Background(), bookID, domain.Page{})
	return len(rvs), nil
}

type reviewFixture struct {
	h       *Handler
	books   *fakeBooks
	reviews *fakeReviews
	tokens  *fakeTokens

	bookID  domain.BookID
	ownerID domain.UserID
}

func newFixture() *reviewFixture {
	bookID := uuid.New()
	ownerID := uuid.New()
	tokens := &fakeTokens{byToken: map[string]domain.TokenClaims{
		"owner-token": {UserID: ownerID, Username: "owner", Role: domain.RoleUser},
		"other-token": {UserID: uuid.New(), Username: "other", Role: domain.RoleUser},
		"admin-token": {UserID: uuid.New(), Username: "root", Role: domain.RoleAdmin},
	}}
	return &reviewFixture{
		h: &Handler{
			Log:     log.New(io.Discard, "", 0),
			Books:   &fakeBooks{known: map[domain.BookID]bool{bookID: true}},
			Reviews: newFakeReviews(),
		},
		tokens:  tokens,
		bookID:  bookID,
		ownerID: ownerID,
	}
}

// do гоняет запрос через RequireRole, как это делает роутер
func (fx *reviewFixture) do(hf http.HandlerFunc, method, target, token string, body string, pathVals map[string]string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = bytes.NewBufferString(body)
	}
	r := httptest.NewRequest(method, target, rd)
	r.Header.Set("Authorization", "Bearer "+token)
	for k, v := range pathVals {
		r.SetPathValue(k, v)
	}
	w := httptest.NewRecorder()
	mw.RequireRole(mw.AuthDeps{Tokens: fx.tokens}, hf, domain.RoleUser, domain.RoleAdmin).ServeHTTP(w, r)
	return w
}

func (fx *reviewFixture) createReview(t *testing.T) domain.Review {
	t.Helper()
	w := fx.do(fx.h.Create, http.MethodPost, "/api/reviews/"+fx.bookID.String(), "owner-token",
		`{"rating":4,"comment":"good read"}`, map[string]string{"bookId": fx.bookID.String()})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Review domain.Review `json:"review"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Review
}

func TestCreateReview(t *testing.T) {
	fx := newFixture()
	rv := fx.createReview(t)
	assert.Equal(t, fx.bookID, rv.BookID)
	assert.Equal(t, fx.ownerID, rv.UserID)
	assert.Equal(t, 4, rv.Rating)
}

func TestCreateReviewValidation(t *testing.T) {
	fx := newFixture()

	tests := []struct {
		name string
		body string
	}{
		{"rating zero", `{"rating":0,"comment":"x"}`},
		{"rating too big", `{"rating":6,"comment":"x"}`},
		{"empty comment", `{"rating":3,"comment":""}`},
		{"broken json", `{`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := fx.do(fx.h.Create, http.MethodPost, "/api/reviews/"+fx.bookID.String(), "owner-token",
				tt.body, map[string]string{"bookId": fx.bookID.String()})
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestCreateReviewUnknownBook(t *testing.T) {
	fx := newFixture()
	ghost := uuid.NewString()
	w := fx.do(fx.h.Create, http.MethodPost, "/api/reviews/"+ghost, "owner-token",
		`{"rating":4,"comment":"good"}`, map[string]string{"bookId": ghost})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateReviewOwnership(t *testing.T) {
	fx := newFixture()
	rv := fx.createReview(t)
	body := `{"rating":5}`
	vals := map[string]string{"id": rv.ID.String()}

	// чужой пользователь — 403
	w := fx.do(fx.h.Update, http.MethodPut, "/api/reviews/"+rv.ID.String(), "other-token", body, vals)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// автор — 200
	w = fx.do(fx.h.Update, http.MethodPut, "/api/reviews/"+rv.ID.String(), "owner-token", body, vals)
	require.Equal(t, http.StatusOK, w.Code)
	got, err := fx.h.Reviews.ReviewByID(context.Background(), rv.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Rating)
	assert.Equal(t, "good read", got.Comment, "comment untouched by partial update")
}

func TestDeleteReviewAdminOverride(t *testing.T) {
	fx := newFixture()
	rv := fx.createReview(t)
	vals := map[string]string{"id": rv.ID.String()}

	w := fx.do(fx.h.Delete, http.MethodDelete, "/api/reviews/"+rv.ID.String(), "other-token", "", vals)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// админ может удалить чужой отзыв
	w = fx.do(fx.h.Delete, http.MethodDelete, "/api/reviews/"+rv.ID.String(), "admin-token", "", vals)
	require.Equal(t, http.StatusOK, w.Code)

	_, err := fx.h.Reviews.ReviewByID(context.Background(), rv.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListReviewsEnvelope(t *testing.T) {
	fx := newFixture()
	fx.createReview(t)
	fx.createReview(t)

	w := fx.do(fx.h.ListByBook, http.MethodGet, "/api/reviews/"+fx.bookID.String()+"?page=1&limit=10",
		"owner-token", "", map[string]string{"bookId": fx.bookID.String()})
	require.Equal(t, http.StatusOK, w.Code)

	var env struct {
		Items       []domain.Review `json:"items"`
		Total       int             `json:"total"`
		Pages       int             `json:"pages"`
		CurrentPage int             `json:"currentPage"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Len(t, env.Items, 2)
	assert.Equal(t, 2, env.Total)
	assert.Equal(t, 1, env.Pages)
	assert.Equal(t, 1, env.CurrentPage)
}

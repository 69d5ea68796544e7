package book

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"path"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hedi-Ayari/book-review-service/internal/domain"
	"github.com/Hedi-Ayari/book-review-service/internal/listcache"
)

// fakeBooks — BooksRepo в памяти со счётчиками обращений
type fakeBooks struct {
	books      []domain.Book
	listCalls  int
	countCalls int
}

func (f *fakeBooks) CreateBook(_ context.Context, b domain.Book) (domain.Book, error) {
	b.ID = uuid.New()
	f.books = append(f.books, b)
	return b, nil
}

func (f *fakeBooks) BookByID(_ context.Context, id domain.BookID) (domain.Book, error) {
	for _, b := range f.books {
		if b.ID == id && !b.Deleted {
			return b, nil
		}
	}
	return domain.Book{}, domain.ErrNotFound
}

func (f *fakeBooks) UpdateBook(_ context.Context, id domain.BookID, patch domain.BookPatch) (domain.Book, error) {
	for i, b := range f.books {
		if b.ID == id {
			if patch.Title != nil {
				f.books[i].Title = *patch.Title
			}
			if patch.Author != nil {
				f.books[i].Author = *patch.Author
			}
			return f.books[i], nil
		}
	}
	return domain.Book{}, domain.ErrNotFound
}

func (f *fakeBooks) SoftDeleteBook(_ context.Context, id domain.BookID) (domain.Book, error) {
	for i, b := range f.books {
		if b.ID == id && !b.Deleted {
			f.books[i].Deleted = true
			return f.books[i], nil
		}
	}
	return domain.Book{}, domain.ErrNotFound
}

func (f *fakeBooks) alive() []domain.Book {
	out := make([]domain.Book, 0, len(f.books))
	for _, b := range f.books {
		if !b.Deleted {
			out = append(out, b)
		}
	}
	return out
}

func (f *fakeBooks) BooksList(_ context.Context, p domain.Page) ([]domain.Book, error) {
	f.listCalls++
	alive := f.alive()
	lo := p.Skip()
	if lo >= len(alive) {
		return []domain.Book{}, nil
	}
	hi := min(lo+p.Limit, len(alive))
	return alive[lo:hi], nil
}

func (f *fakeBooks) CountBooks(_ context.Context) (int, error) {
	f.countCalls++
	return len(f.alive()), nil
}

func (f *fakeBooks) SearchBooks(_ context.Context, _ domain.BookFilter, p domain.Page) ([]domain.Book, error) {
	return f.BooksList(context.Background(), p)
}

func (f *fakeBooks) CountSearch(_ context.Context, _ domain.BookFilter) (int, error) {
	return f.CountBooks(context.Background())
}

// fakeKV — kv в памяти; fail переводит все операции в ошибку
type fakeKV struct {
	data map[string][]byte
	fail bool
}

func newFakeKV() *fakeKV { return &fakeKV{data: map[string][]byte{}} }

func (f *fakeKV) Get(_ context.Context, key string) ([]byte, error) {
	if f.fail {
		return nil, errors.New("kv down")
	}
	b, ok := f.data[key]
	if !ok {
		return nil, nil
	}
	return b, nil
}

func (f *fakeKV) Set(_ context.Context, key string, val []byte, _ int) error {
	if f.fail {
		return errors.New("kv down")
	}
	f.data[key] = val
	return nil
}

func (f *fakeKV) Del(_ context.Context, keys ...string) error {
	if f.fail {
		return errors.New("kv down")
	}
	for _, k := range keys {
		delete(f.data, k)
	}
	return nil
}

func (f *fakeKV) Keys(_ context.Context, pattern string) ([]string, error) {
	if f.fail {
		return nil, errors.New("kv down")
	}
	var out []string
	for k := range f.data {
		if ok, _ := path.Match(pattern, k); ok {
			out = append(out, k)
		}
	}
	return out, nil
}

func newTestHandler(repo *fakeBooks, kv listcache.KV) *Handler {
	logger := log.New(io.Discard, "", 0)
	return &Handler{
		Log:   logger,
		Books: repo,
		Cache: listcache.New(logger, kv, listcache.DefaultTTLSeconds),
	}
}

func seedBooks(n int) *fakeBooks {
	f := &fakeBooks{}
	for i := 0; i < n; i++ {
		f.books = append(f.books, domain.Book{
			ID:     uuid.New(),
			Title:  fmt.Sprintf("Book %d", i),
			Author: "Author",
			Genre:  "Genre",
		})
	}
	return f
}

func doList(t *testing.T, h *Handler, query string) (*httptest.ResponseRecorder, listcache.Envelope) {
	t.Helper()
	r := httptest.NewRequest(http.MethodGet, "/api/books/listAll"+query, nil)
	w := httptest.NewRecorder()
	h.List(w, r)

	var env listcache.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w, env
}

func TestListMissThenHit(t *testing.T) {
	repo := seedBooks(25)
	h := newTestHandler(repo, newFakeKV())

	w1, env1 := doList(t, h, "?page=1&limit=10")
	require.Equal(t, http.StatusOK, w1.Code)
	assert.Equal(t, 25, env1.Total)
	assert.Equal(t, 3, env1.Pages)
	assert.Equal(t, 1, env1.CurrentPage)
	assert.Equal(t, 1, repo.listCalls)

	// повтор того же запроса — попадание, БД не трогаем, байты те же
	w2, _ := doList(t, h, "?page=1&limit=10")
	require.Equal(t, http.StatusOK, w2.Code)
	assert.Equal(t, 1, repo.listCalls, "cache hit must not query the repo")
	assert.Equal(t, w1.Body.Bytes(), w2.Body.Bytes())
}

func TestListDefaultsOnGarbageParams(t *testing.T) {
	repo := seedBooks(3)
	h := newTestHandler(repo, newFakeKV())

	_, env := doList(t, h, "?page=abc&limit=-5")
	assert.Equal(t, 1, env.CurrentPage)
	assert.Equal(t, 3, env.Total)
	assert.Equal(t, 1, env.Pages)
}

func TestCreateSweepsListings(t *testing.T) {
	repo := seedBooks(25)
	kv := newFakeKV()
	h := newTestHandler(repo, kv)

	// прогреваем пару страниц
	doList(t, h, "?page=1&limit=10")
	doList(t, h, "?page=2&limit=10")
	require.Len(t, kv.data, 2)

	body := bytes.NewBufferString(`{"title":"New","author":"A","genre":"G","coverImage":"http://x/c.png"}`)
	r := httptest.NewRequest(http.MethodPost, "/api/books", body)
	w := httptest.NewRecorder()
	h.Create(w, r)
	require.Equal(t, http.StatusCreated, w.Code)

	// свип убрал все страницы скоупа
	assert.Empty(t, kv.data)

	// следующий листинг — промах и свежий total
	calls := repo.listCalls
	_, env := doList(t, h, "?page=1&limit=10")
	assert.Equal(t, 26, env.Total)
	assert.Equal(t, calls+1, repo.listCalls, "post-sweep read must go to the repo")
}

func TestCreateRejectsMissingFields(t *testing.T) {
	repo := seedBooks(1)
	kv := newFakeKV()
	h := newTestHandler(repo, kv)
	doList(t, h, "")
	require.Len(t, kv.data, 1)

	body := bytes.NewBufferString(`{"title":"Only title"}`)
	r := httptest.NewRequest(http.MethodPost, "/api/books", body)
	w := httptest.NewRecorder()
	h.Create(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Len(t, repo.books, 1, "nothing inserted")
	assert.Len(t, kv.data, 1, "failed create must not sweep")
}

func TestListSurvivesCacheOutage(t *testing.T) {
	repo := seedBooks(5)
	kv := newFakeKV()
	kv.fail = true
	h := newTestHandler(repo, kv)

	w, env := doList(t, h, "?page=1&limit=10")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 5, env.Total)

	// каждый запрос ходит в БД, пока kv лежит
	doList(t, h, "?page=1&limit=10")
	assert.Equal(t, 2, repo.listCalls)
}

func TestListWithoutCache(t *testing.T) {
	repo := seedBooks(5)
	h := newTestHandler(repo, nil)

	w, env := doList(t, h, "?page=1&limit=10")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 5, env.Total)
}

func TestDeleteSweepsAndShrinksList(t *testing.T) {
	repo := seedBooks(11)
	kv := newFakeKV()
	h := newTestHandler(repo, kv)

	doList(t, h, "?page=1&limit=10")
	require.Len(t, kv.data, 1)

	r := httptest.NewRequest(http.MethodDelete, "/api/books/"+repo.books[0].ID.String(), nil)
	r.SetPathValue("id", repo.books[0].ID.String())
	w := httptest.NewRecorder()
	h.Delete(w, r)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, kv.data)

	_, env := doList(t, h, "?page=1&limit=10")
	assert.Equal(t, 10, env.Total)
	assert.Equal(t, 1, env.Pages)
}

func TestUpdateUnknownBookIs404(t *testing.T) {
	h := newTestHandler(seedBooks(1), newFakeKV())

	id := uuid.NewString()
	r := httptest.NewRequest(http.MethodPut, "/api/books/"+id, bytes.NewBufferString(`{"title":"t"}`))
	r.SetPathValue("id", id)
	w := httptest.NewRecorder()
	h.Update(w, r)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

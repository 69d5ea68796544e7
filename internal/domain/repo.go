package domain

import "context"

// Пагинация списков: skip = (page-1)*limit
type Page struct {
	Page  int
	Limit int
}

func (p Page) Skip() int { return (p.Page - 1) * p.Limit }

// Поиск книг: регистронезависимые подстроки; пустое поле — не фильтруем
type BookFilter struct {
	Title  string
	Author string
	Genre  string
}

// Частичное обновление книги: nil-поля не трогаем
type BookPatch struct {
	Title      *string
	Author     *string
	Genre      *string
	CoverImage *string
}

type UsersRepo interface {
	Close()
	Ping(context.Context) error
	CreateUser(ctx context.Context, username string, passHash []byte) (User, error)
	UserByUsername(ctx context.Context, username string) (User, error)
}

type BooksRepo interface {
	CreateBook(ctx context.Context, b Book) (Book, error)
	// Только неудалённые
	BookByID(ctx context.Context, id BookID) (Book, error)
	UpdateBook(ctx context.Context, id BookID, patch BookPatch) (Book, error)
	SoftDeleteBook(ctx context.Context, id BookID) (Book, error)

	// Список: deleted=false, created_at DESC, skip/limit
	BooksList(ctx context.Context, p Page) ([]Book, error)
	CountBooks(ctx context.Context) (int, error)

	// Поиск: тот же фильтр для выборки и для count
	SearchBooks(ctx context.Context, f BookFilter, p Page) ([]Book, error)
	CountSearch(ctx context.Context, f BookFilter) (int, error)
}

type ReviewsRepo interface {
	CreateReview(ctx context.Context, rv Review) (Review, error)
	ReviewByID(ctx context.Context, id ReviewID) (Review, error)
	UpdateReview(ctx context.Context, id ReviewID, rating *int, comment *string) (Review, error)
	SoftDeleteReview(ctx context.Context, id ReviewID) error
	ReviewsByBook(ctx context.Context, bookID BookID, p Page) ([]Review, error)
	CountReviews(ctx context.Context, bookID BookID) (int, error)
}

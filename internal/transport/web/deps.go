package web

import (
	"context"

	"github.com/Hedi-Ayari/book-review-service/internal/domain"
)

type Repos struct {
	Users   domain.UsersRepo
	Books   domain.BooksRepo
	Reviews domain.ReviewsRepo
}

type AuthDeps struct {
	Hasher domain.PasswordHasher
	Tokens domain.TokenManager
}

// MetadataClient — внешний справочник метаданных книг
type MetadataClient interface {
	VolumeInfo(ctx context.Context, title string) (map[string]any, error)
}

// Pinger — для readiness-проверок БД и кеша
type Pinger interface {
	Ping(context.Context) error
}

package book

import (
	"context"
	"log"

	"github.com/Hedi-Ayari/book-review-service/internal/domain"
	"github.com/Hedi-Ayari/book-review-service/internal/listcache"
)

// MetadataClient — внешний справочник метаданных (Google Books)
type MetadataClient interface {
	VolumeInfo(ctx context.Context, title string) (map[string]any, error)
}

type Handler struct {
	Log   *log.Logger
	Books domain.BooksRepo
	Cache *listcache.Cache
	Meta  MetadataClient
}

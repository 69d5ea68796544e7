package web

import (
	"log"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/Hedi-Ayari/book-review-service/internal/docs"
	"github.com/Hedi-Ayari/book-review-service/internal/domain"
	"github.com/Hedi-Ayari/book-review-service/internal/transport/web/mw"
	"github.com/Hedi-Ayari/book-review-service/internal/transport/web/v1/book"
	"github.com/Hedi-Ayari/book-review-service/internal/transport/web/v1/health"
	"github.com/Hedi-Ayari/book-review-service/internal/transport/web/v1/review"
	"github.com/Hedi-Ayari/book-review-service/internal/transport/web/v1/user"
)

func newRouter(hh *health.Handler, bh *book.Handler, rh *review.Handler, uh *user.Handler,
	tokens domain.TokenManager, logger *log.Logger) http.Handler {

	auth := mw.AuthDeps{Tokens: tokens}
	anyRole := func(h http.HandlerFunc) http.Handler {
		return mw.RequireRole(auth, h, domain.RoleUser, domain.RoleAdmin)
	}
	adminOnly := func(h http.HandlerFunc) http.Handler {
		return mw.RequireRole(auth, h, domain.RoleAdmin)
	}

	mux := http.NewServeMux()

	// health
	mux.HandleFunc("GET /api/healthz", hh.Liveness)
	mux.HandleFunc("GET /api/readyz", hh.Readiness)

	// users
	mux.HandleFunc("POST /api/users/register", uh.Register)
	mux.HandleFunc("POST /api/users/login", uh.Login)

	// books: листинг и поиск публичные, мутации по ролям
	mux.HandleFunc("GET /api/books/listAll", bh.List)
	mux.HandleFunc("GET /api/books/search", bh.Search)
	mux.Handle("GET /api/books/one/{id}", anyRole(bh.GetOne))
	mux.Handle("POST /api/books", anyRole(bh.Create))
	mux.Handle("PUT /api/books/{id}", adminOnly(bh.Update))
	mux.Handle("DELETE /api/books/{id}", adminOnly(bh.Delete))

	// reviews
	mux.Handle("POST /api/reviews/{bookId}", anyRole(rh.Create))
	mux.Handle("GET /api/reviews/{bookId}", anyRole(rh.ListByBook))
	mux.Handle("PUT /api/reviews/{id}", anyRole(rh.Update))
	mux.Handle("DELETE /api/reviews/{id}", anyRole(rh.Delete))

	// swagger
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	// 🔗 middleware
	return mw.WithRequestID(mw.Logging(logger)(mux))
}

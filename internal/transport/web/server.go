package web

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/Hedi-Ayari/book-review-service/internal/config"
	"github.com/Hedi-Ayari/book-review-service/internal/listcache"
	"github.com/Hedi-Ayari/book-review-service/internal/transport/web/v1/book"
	"github.com/Hedi-Ayari/book-review-service/internal/transport/web/v1/health"
	"github.com/Hedi-Ayari/book-review-service/internal/transport/web/v1/review"
	"github.com/Hedi-Ayari/book-review-service/internal/transport/web/v1/user"
)

type Server struct {
	log    *log.Logger
	server *http.Server
	cfg    *config.Config
}

func New(logger *log.Logger, cfg *config.Config, repos Repos, auth AuthDeps,
	cache *listcache.Cache, cachePing Pinger, meta MetadataClient) *Server {

	healthLog := log.New(logger.Writer(), logger.Prefix()+"[health] ", logger.Flags())
	bookLog := log.New(logger.Writer(), logger.Prefix()+"[book] ", logger.Flags())
	reviewLog := log.New(logger.Writer(), logger.Prefix()+"[review] ", logger.Flags())
	userLog := log.New(logger.Writer(), logger.Prefix()+"[user] ", logger.Flags())

	healthHandler := &health.Handler{Log: healthLog, DB: repos.Users, Cache: cachePing}
	bookHandler := &book.Handler{Log: bookLog, Books: repos.Books, Cache: cache, Meta: meta}
	reviewHandler := &review.Handler{Log: reviewLog, Books: repos.Books, Reviews: repos.Reviews}
	userHandler := &user.Handler{Log: userLog, Users: repos.Users, Hasher: auth.Hasher, Tokens: auth.Tokens}

	srv := &http.Server{
		Addr:              cfg.AppPort,
		Handler:           newRouter(healthHandler, bookHandler, reviewHandler, userHandler, auth.Tokens, logger),
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		MaxHeaderBytes:    1 << 20,
		ReadHeaderTimeout: 2 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return &Server{server: srv, cfg: cfg, log: logger}
}

func (ws *Server) Run() {
	ws.log.Printf("started on %s", ws.server.Addr)
	if err := ws.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		ws.log.Fatalf("error: %v", err)
	}
}

func (ws *Server) Close(ctx context.Context) {
	if err := ws.server.Shutdown(ctx); err != nil {
		ws.log.Printf("forced to shutdown: %v", err)
	}
	ws.log.Println("exited gracefully")
}

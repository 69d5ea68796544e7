package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/Hedi-Ayari/book-review-service/internal/auth/password"
	"github.com/Hedi-Ayari/book-review-service/internal/auth/token"
	"github.com/Hedi-Ayari/book-review-service/internal/config"
	redisx "github.com/Hedi-Ayari/book-review-service/internal/infra/cache/redis"
	"github.com/Hedi-Ayari/book-review-service/internal/infra/database/postgres"
	"github.com/Hedi-Ayari/book-review-service/internal/infra/metadata/googlebooks"
	"github.com/Hedi-Ayari/book-review-service/internal/listcache"
	"github.com/Hedi-Ayari/book-review-service/internal/transport/web"
)

type App struct {
	config *config.Config
	server *web.Server
	log    *log.Logger
	cache  *redisx.Cache // nil, если REDIS_ADDR не задан
	repo   *postgres.PGRepo
}

func Build(ctx context.Context) (*App, error) {
	base := log.New(os.Stdout, "[app] ", log.LstdFlags)

	serverLog := log.New(base.Writer(), base.Prefix()+"[server] ", base.Flags())
	pgLog := log.New(base.Writer(), base.Prefix()+"[postgres] ", base.Flags())
	redisLog := log.New(base.Writer(), base.Prefix()+"[redis] ", base.Flags())
	cacheLog := log.New(base.Writer(), base.Prefix()+"[listcache] ", base.Flags())
	metaLog := log.New(base.Writer(), base.Prefix()+"[googlebooks] ", base.Flags())

	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed load config: %w", err)
	}
	base.Printf("\n  configuration: %s-------------------", cfg)

	base.Println("init PostgreSQL")
	pgRepo, err := postgres.NewPGRepo(ctx, pgLog, cfg.GetDSN(), cfg.DBScheme)
	if err != nil {
		return nil, fmt.Errorf("failed init postgres: %w", err)
	}
	base.Println("PostgreSQL is initialized")

	// Redis опционален: без него листинги всегда идут напрямую в БД.
	// Недоступность на старте не фатальна — клиент переподключится сам.
	var rc *redisx.Cache
	var kv listcache.KV
	var cachePing web.Pinger
	if cfg.RedisAddr != "" {
		base.Println("init Redis")
		rc = redisx.New(redisx.Config{
			Addr:     cfg.RedisAddr,
			DB:       cfg.RedisDB,
			Password: cfg.RedisPassword,
		}, redisLog)
		if err := rc.Ping(ctx); err != nil {
			base.Printf("redis unavailable, degrading to direct DB reads: %v", err)
		} else {
			base.Println("Redis is initialized")
		}
		kv = rc
		cachePing = rc
	} else {
		base.Println("REDIS_ADDR is empty, running without cache")
	}
	listCache := listcache.New(cacheLog, kv, cfg.CacheListTTL)

	// Auth primitives
	hasher := password.NewDefault()
	tm := token.New(cfg.AuthJWTSecret, cfg.AuthIssuer, cfg.AuthTokenTTL)

	meta := googlebooks.New(metaLog, cfg.GoogleBooksURL)

	base.Println("init Server")
	repos := web.Repos{Users: pgRepo, Books: pgRepo, Reviews: pgRepo}
	auth := web.AuthDeps{Hasher: hasher, Tokens: tm}
	server := web.New(serverLog, cfg, repos, auth, listCache, cachePing, meta)
	base.Println("Server is initialized")

	base.Println("build ended")
	return &App{
		config: cfg,
		server: server,
		log:    base,
		cache:  rc,
		repo:   pgRepo,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	a.log.Println("start application...")
	go a.server.Run()
	<-ctx.Done()
	a.log.Println("stop application...")

	// сначала дослуживаем запросы, потом отпускаем БД и кеш
	stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	a.server.Close(stopCtx)
	a.repo.Close()
	if a.cache != nil {
		a.cache.Close()
	}

	return nil
}

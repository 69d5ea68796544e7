package health

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/Hedi-Ayari/book-review-service/internal/domain"
	"github.com/Hedi-Ayari/book-review-service/internal/transport/web/logx"
	"github.com/Hedi-Ayari/book-review-service/internal/transport/web/mw"
	v1 "github.com/Hedi-Ayari/book-review-service/internal/transport/web/v1"
)

type Pinger interface {
	Ping(context.Context) error
}

type Handler struct {
	Log   *log.Logger
	DB    Pinger
	Cache Pinger // может быть nil, если кеш не сконфигурирован
}

// Liveness godoc
// @Summary      Liveness probe
// @Description  Проверка, жив ли сервис (не зависит от БД/кеша)
// @Tags         health
// @Produce      json
// @Success      200 {object} map[string]string
// @Router       /api/healthz [get]
func (h *Handler) Liveness(w http.ResponseWriter, r *http.Request) {
	const op = "health.liveness"
	reqID := mw.RequestIDFromCtx(r.Context())

	logx.Info(h.Log, reqID, op, "ok")
	v1.WriteJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// Readiness godoc
// @Summary      Readiness probe
// @Description  Пинг БД обязателен; кеш best-effort — его недоступность готовности не мешает.
// @Tags         health
// @Produce      json
// @Success      200 {object} map[string]string
// @Failure      500 {object} v1.ErrorEnvelope
// @Router       /api/readyz [get]
func (h *Handler) Readiness(w http.ResponseWriter, r *http.Request) {
	const op = "health.readiness"
	reqID := mw.RequestIDFromCtx(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.DB.Ping(ctx); err != nil {
		logx.Error(h.Log, reqID, op, "db ping failed", err)
		v1.WriteDomainError(w, r, domain.ErrUnexpected)
		return
	}

	cache := "disabled"
	if h.Cache != nil {
		cache = "ok"
		if err := h.Cache.Ping(ctx); err != nil {
			// сервис работоспособен и без кеша, листинги пойдут напрямую в БД
			logx.Error(h.Log, reqID, op, "cache ping failed", err)
			cache = "down"
		}
	}

	logx.Info(h.Log, reqID, op, "ok", "cache", cache)
	v1.WriteJSON(w, r, http.StatusOK, map[string]string{"status": "ok", "cache": cache})
}

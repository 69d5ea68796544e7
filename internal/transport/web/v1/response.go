package v1

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Hedi-Ayari/book-review-service/internal/domain"
	"github.com/Hedi-Ayari/book-review-service/internal/transport/web/mw"
)

// ErrorEnvelope — конверт ошибки: {"error":{"code":...,"text":"..."}}
type APIError struct {
	Code int    `json:"code"`
	Text string `json:"text"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// MapDomainError решает HTTP-статус + error.code/text
func MapDomainError(err error) (int, ErrorEnvelope) {
	switch {
	case errors.Is(err, domain.ErrBadParams):
		return http.StatusBadRequest, fail(domain.ErrCodeBadParams, "bad params")
	case errors.Is(err, domain.ErrUnauth):
		return http.StatusUnauthorized, fail(domain.ErrCodeUnauth, "unauthorized")
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, fail(domain.ErrCodeForbidden, "forbidden")
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, fail(domain.ErrCodeNotFound, "not found")
	case errors.Is(err, domain.ErrMethodNotAllowed):
		return http.StatusMethodNotAllowed, fail(domain.ErrCodeMethodNotAllowed, "method not allowed")
	default:
		// таймауты/отмены/сбои БД — как 500
		return http.StatusInternalServerError, fail(domain.ErrCodeUnexpected, "unexpected")
	}
}

func fail(code int, text string) ErrorEnvelope {
	return ErrorEnvelope{Error: APIError{Code: code, Text: text}}
}

// WriteJSON пишет произвольный payload; для HEAD — без тела
func WriteJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Request-ID", mw.RequestIDFromCtx(r.Context()))
	w.WriteHeader(status)
	if r.Method == http.MethodHead {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

// WriteRaw отдаёт уже сериализованный JSON (например, байты из кеша) как есть
func WriteRaw(w http.ResponseWriter, r *http.Request, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Request-ID", mw.RequestIDFromCtx(r.Context()))
	w.WriteHeader(status)
	if r.Method == http.MethodHead {
		return
	}
	_, _ = w.Write(body)
}

func WriteDomainError(w http.ResponseWriter, r *http.Request, err error) {
	status, env := MapDomainError(err)
	WriteJSON(w, r, status, env)
}

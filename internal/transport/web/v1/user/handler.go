package user

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/Hedi-Ayari/book-review-service/internal/domain"
	"github.com/Hedi-Ayari/book-review-service/internal/transport/web/logx"
	"github.com/Hedi-Ayari/book-review-service/internal/transport/web/mw"
	v1 "github.com/Hedi-Ayari/book-review-service/internal/transport/web/v1"
)

type Handler struct {
	Log    *log.Logger
	Users  domain.UsersRepo
	Hasher domain.PasswordHasher
	Tokens domain.TokenManager
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Message string    `json:"message"`
	Token   string    `json:"token"`
	User    userBrief `json:"user"`
}

type userBrief struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Register godoc
// @Summary     Register new user
// @Description Роль всегда user; admin назначается вручную в БД.
// @Tags        users
// @Accept      json
// @Produce     json
// @Param       request body credentialsRequest true "username, password"
// @Success     201 {object} map[string]string
// @Failure     400 {object} v1.ErrorEnvelope
// @Router      /api/users/register [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	const op = "user.register"
	reqID := mw.RequestIDFromCtx(r.Context())

	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logx.Error(h.Log, reqID, op, "bad json", err)
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}
	if !domain.ValidUsername(req.Username) || !domain.ValidPassword(req.Password) {
		logx.Error(h.Log, reqID, op, "validation failed", domain.ErrBadParams, "username", req.Username)
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}

	hash, err := h.Hasher.Hash(req.Password)
	if err != nil {
		logx.Error(h.Log, reqID, op, "hash failed", err)
		v1.WriteDomainError(w, r, domain.ErrUnexpected)
		return
	}

	u, err := h.Users.CreateUser(r.Context(), req.Username, []byte(hash))
	if err != nil {
		// занятый username приходит из репозитория как ErrBadParams (400),
		// всё остальное (недоступная БД и т.п.) — 500
		logx.Error(h.Log, reqID, op, "create user failed", err, "username", req.Username)
		v1.WriteDomainError(w, r, err)
		return
	}

	logx.Info(h.Log, reqID, op, "ok", "user_id", u.ID, "username", u.Username)
	v1.WriteJSON(w, r, http.StatusCreated, map[string]string{"message": "User registered successfully"})
}

// Login godoc
// @Summary     Authenticate user
// @Description Возвращает JWT с ролью при валидных username и password.
// @Tags        users
// @Accept      json
// @Produce     json
// @Param       request body credentialsRequest true "username, password"
// @Success     200 {object} loginResponse
// @Failure     400 {object} v1.ErrorEnvelope
// @Router      /api/users/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	const op = "user.login"
	reqID := mw.RequestIDFromCtx(r.Context())

	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logx.Error(h.Log, reqID, op, "bad json", err)
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}
	if req.Username == "" || req.Password == "" {
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}

	u, err := h.Users.UserByUsername(r.Context(), req.Username)
	if err != nil {
		logx.Error(h.Log, reqID, op, "user lookup failed", err, "username", req.Username)
		if errors.Is(err, domain.ErrNotFound) {
			// не раскрываем, что именно не так: та же ошибка, что и при неверном пароле
			v1.WriteDomainError(w, r, domain.ErrBadParams)
			return
		}
		// сбой хранилища — не вина клиента
		v1.WriteDomainError(w, r, domain.ErrUnexpected)
		return
	}

	ok, err := h.Hasher.Verify(req.Password, string(u.PassHash))
	if err != nil {
		// битый хеш в БД — внутренняя проблема, не неверный пароль
		logx.Error(h.Log, reqID, op, "password verify failed", err, "username", req.Username)
		v1.WriteDomainError(w, r, domain.ErrUnexpected)
		return
	}
	if !ok {
		logx.Error(h.Log, reqID, op, "password mismatch", domain.ErrBadParams, "username", req.Username)
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}

	token, _, err := h.Tokens.Issue(r.Context(), u)
	if err != nil {
		logx.Error(h.Log, reqID, op, "issue token failed", err, "user_id", u.ID)
		v1.WriteDomainError(w, r, domain.ErrUnexpected)
		return
	}

	logx.Info(h.Log, reqID, op, "ok", "user_id", u.ID, "username", u.Username)
	v1.WriteJSON(w, r, http.StatusOK, loginResponse{
		Message: "Login successful",
		Token:   token,
		User:    userBrief{ID: u.ID.String(), Username: u.Username, Role: u.Role},
	})
}

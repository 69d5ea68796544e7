// Package password — argon2id-хеширование паролей пользователей.
// Закодированная строка ($argon2id$v=19$m=...) хранится в users.pass_hash;
// параметры зашиты в сам хеш, поэтому их смену старые записи переживают.
package password

import (
	"errors"

	"github.com/alexedwards/argon2id"

	"github.com/Hedi-Ayari/book-review-service/internal/domain"
)

type Hasher struct {
	params *argon2id.Params
}

var _ domain.PasswordHasher = (*Hasher)(nil)

// NewDefault — параметры argon2id по умолчанию; их хватает для регистрации/логина
func NewDefault() *Hasher {
	return &Hasher{params: argon2id.DefaultParams}
}

func New(p *argon2id.Params) *Hasher { return &Hasher{params: p} }

func (h *Hasher) Hash(plain string) (string, error) {
	if h == nil || h.params == nil {
		return "", errors.New("argon2id params not set")
	}
	return argon2id.CreateHash(plain, h.params)
}

// Verify читает параметры из encodedHash, а не из h.params
func (h *Hasher) Verify(plain, encodedHash string) (bool, error) {
	return argon2id.ComparePasswordAndHash(plain, encodedHash)
}

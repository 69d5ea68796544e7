package domain

import (
	"time"

	"github.com/google/uuid"
)

// Базовые идентификаторы
type UserID = uuid.UUID
type BookID = uuid.UUID
type ReviewID = uuid.UUID

// Роли пользователей. Регистрация всегда создаёт user; admin назначается вручную в БД.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Пользователь
type User struct {
	ID        UserID    `json:"id"`
	Username  string    `json:"username"`
	PassHash  []byte    `json:"-"` // никогда не отдаём наружу
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// Книга каталога. Deleted — мягкое удаление: запись остаётся в БД,
// но исчезает из всех списков и выборок.
type Book struct {
	ID         BookID    `json:"id"`
	Title      string    `json:"title"`
	Author     string    `json:"author"`
	Genre      string    `json:"genre"`
	CoverImage string    `json:"coverImage"` // URL обложки, бинарники не храним
	Deleted    bool      `json:"-"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Отзыв на книгу
type Review struct {
	ID        ReviewID  `json:"id"`
	BookID    BookID    `json:"bookId"`
	UserID    UserID    `json:"userId"`
	Rating    int       `json:"rating"` // 1..5
	Comment   string    `json:"comment"`
	Deleted   bool      `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

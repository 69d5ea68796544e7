package postgres

import (
	"context"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Hedi-Ayari/book-review-service/internal/domain"
)

// 23505 = unique_violation (занятый username)
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (r *PGRepo) CreateUser(ctx context.Context, username string, passHash []byte) (domain.User, error) {
	q := r.qb().Insert(r.tbl("users")).
		Columns("username", "pass_hash").
		Values(username, passHash).
		Suffix("RETURNING id, username, pass_hash, role, created_at")

	sqlStr, args, _ := q.ToSql()
	r.logSQL("CreateUser", sqlStr, args)

	start := time.Now()
	row := r.pool.QueryRow(ctx, sqlStr, args...)
	var u domain.User
	if err := row.Scan(&u.ID, &u.Username, &u.PassHash, &u.Role, &u.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return domain.User{}, domain.ErrBadParams
		}
		r.logger.Printf("CreateUser scan error after %s: %v", time.Since(start), err)
		return domain.User{}, err
	}
	r.logger.Printf("CreateUser ok in %s id=%s username=%s", time.Since(start), u.ID, u.Username)
	return u, nil
}

func (r *PGRepo) UserByUsername(ctx context.Context, username string) (domain.User, error) {
	q := r.qb().Select("id", "username", "pass_hash", "role", "created_at").
		From(r.tbl("users")).
		Where(sq.Eq{"username": username})

	sqlStr, args, _ := q.ToSql()
	r.logSQL("UserByUsername", sqlStr, args)

	row := r.pool.QueryRow(ctx, sqlStr, args...)
	var u domain.User
	if err := row.Scan(&u.ID, &u.Username, &u.PassHash, &u.Role, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, domain.ErrNotFound
		}
		r.logger.Printf("UserByUsername scan error: %v", err)
		return domain.User{}, err
	}
	return u, nil
}

package postgres

import (
	"context"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/Hedi-Ayari/book-review-service/internal/domain"
)

const reviewCols = "id, book_id, user_id, rating, comment, deleted, created_at, updated_at"

var reviewColList = []string{"id", "book_id", "user_id", "rating", "comment", "deleted", "created_at", "updated_at"}

func scanReview(row pgx.Row) (domain.Review, error) {
	var rv domain.Review
	err := row.Scan(&rv.ID, &rv.BookID, &rv.UserID, &rv.Rating, &rv.Comment, &rv.Deleted, &rv.CreatedAt, &rv.UpdatedAt)
	return rv, err
}

func (r *PGRepo) CreateReview(ctx context.Context, rv domain.Review) (domain.Review, error) {
	q := r.qb().Insert(r.tbl("reviews")).
		Columns("book_id", "user_id", "rating", "comment").
		Values(rv.BookID, rv.UserID, rv.Rating, rv.Comment).
		Suffix("RETURNING " + reviewCols)

	sqlStr, args, _ := q.ToSql()
	r.logSQL("CreateReview", sqlStr, args)

	start := time.Now()
	out, err := scanReview(r.pool.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		r.logger.Printf("CreateReview scan error after %s: %v", time.Since(start), err)
		return domain.Review{}, err
	}
	r.logger.Printf("CreateReview ok in %s id=%s book=%s", time.Since(start), out.ID, out.BookID)
	return out, nil
}

func (r *PGRepo) ReviewByID(ctx context.Context, id domain.ReviewID) (domain.Review, error) {
	q := r.qb().Select(reviewColList...).
		From(r.tbl("reviews")).
		Where(sq.And{sq.Eq{"id": id}, sq.Eq{"deleted": false}})

	sqlStr, args, _ := q.ToSql()
	r.logSQL("ReviewByID", sqlStr, args)

	out, err := scanReview(r.pool.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Review{}, domain.ErrNotFound
		}
		r.logger.Printf("ReviewByID scan error: %v", err)
		return domain.Review{}, err
	}
	return out, nil
}

func (r *PGRepo) UpdateReview(ctx context.Context, id domain.ReviewID, rating *int, comment *string) (domain.Review, error) {
	q := r.qb().Update(r.tbl("reviews")).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.And{sq.Eq{"id": id}, sq.Eq{"deleted": false}}).
		Suffix("RETURNING " + reviewCols)
	if rating != nil {
		q = q.Set("rating", *rating)
	}
	if comment != nil {
		q = q.Set("comment", *comment)
	}

	sqlStr, args, _ := q.ToSql()
	r.logSQL("UpdateReview", sqlStr, args)

	out, err := scanReview(r.pool.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Review{}, domain.ErrNotFound
		}
		r.logger.Printf("UpdateReview scan error: %v", err)
		return domain.Review{}, err
	}
	return out, nil
}

func (r *PGRepo) SoftDeleteReview(ctx context.Context, id domain.ReviewID) error {
	q := r.qb().Update(r.tbl("reviews")).
		Set("deleted", true).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id})

	sqlStr, args, _ := q.ToSql()
	r.logSQL("SoftDeleteReview", sqlStr, args)

	tag, err := r.pool.Exec(ctx, sqlStr, args...)
	if err != nil {
		r.logger.Printf("SoftDeleteReview exec error: %v", err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PGRepo) ReviewsByBook(ctx context.Context, bookID domain.BookID, p domain.Page) ([]domain.Review, error) {
	q := r.qb().Select(reviewColList...).
		From(r.tbl("reviews")).
		Where(sq.And{sq.Eq{"book_id": bookID}, sq.Eq{"deleted": false}}).
		OrderBy("created_at DESC").
		Offset(uint64(p.Skip())).
		Limit(uint64(p.Limit))

	sqlStr, args, _ := q.ToSql()
	r.logSQL("ReviewsByBook", sqlStr, args)

	rows, err := r.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		r.logger.Printf("ReviewsByBook query error: %v", err)
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Review, 0, p.Limit)
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PGRepo) CountReviews(ctx context.Context, bookID domain.BookID) (int, error) {
	q := r.qb().Select("count(*)").
		From(r.tbl("reviews")).
		Where(sq.And{sq.Eq{"book_id": bookID}, sq.Eq{"deleted": false}})

	sqlStr, args, _ := q.ToSql()
	r.logSQL("CountReviews", sqlStr, args)

	var n int
	if err := r.pool.QueryRow(ctx, sqlStr, args...).Scan(&n); err != nil {
		r.logger.Printf("CountReviews scan error: %v", err)
		return 0, err
	}
	return n, nil
}

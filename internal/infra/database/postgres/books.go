package postgres

import (
	"context"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/Hedi-Ayari/book-review-service/internal/domain"
)

const bookCols = "id, title, author, genre, cover_image, deleted, created_at, updated_at"

var bookColList = []string{"id", "title", "author", "genre", "cover_image", "deleted", "created_at", "updated_at"}

func scanBook(row pgx.Row) (domain.Book, error) {
	var b domain.Book
	err := row.Scan(&b.ID, &b.Title, &b.Author, &b.Genre, &b.CoverImage, &b.Deleted, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}

func (r *PGRepo) CreateBook(ctx context.Context, b domain.Book) (domain.Book, error) {
	q := r.qb().Insert(r.tbl("books")).
		Columns("title", "author", "genre", "cover_image").
		Values(b.Title, b.Author, b.Genre, b.CoverImage).
		Suffix("RETURNING " + bookCols)

	sqlStr, args, _ := q.ToSql()
	r.logSQL("CreateBook", sqlStr, args)

	start := time.Now()
	out, err := scanBook(r.pool.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		r.logger.Printf("CreateBook scan error after %s: %v", time.Since(start), err)
		return domain.Book{}, err
	}
	r.logger.Printf("CreateBook ok in %s id=%s title=%q", time.Since(start), out.ID, out.Title)
	return out, nil
}

func (r *PGRepo) BookByID(ctx context.Context, id domain.BookID) (domain.Book, error) {
	q := r.qb().Select(bookColList...).
		From(r.tbl("books")).
		Where(sq.And{sq.Eq{"id": id}, sq.Eq{"deleted": false}})

	sqlStr, args, _ := q.ToSql()
	r.logSQL("BookByID", sqlStr, args)

	out, err := scanBook(r.pool.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Book{}, domain.ErrNotFound
		}
		r.logger.Printf("BookByID scan error: %v", err)
		return domain.Book{}, err
	}
	return out, nil
}

func (r *PGRepo) UpdateBook(ctx context.Context, id domain.BookID, patch domain.BookPatch) (domain.Book, error) {
	q := r.qb().Update(r.tbl("books")).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + bookCols)
	if patch.Title != nil {
		q = q.Set("title", *patch.Title)
	}
	if patch.Author != nil {
		q = q.Set("author", *patch.Author)
	}
	if patch.Genre != nil {
		q = q.Set("genre", *patch.Genre)
	}
	if patch.CoverImage != nil {
		q = q.Set("cover_image", *patch.CoverImage)
	}

	sqlStr, args, _ := q.ToSql()
	r.logSQL("UpdateBook", sqlStr, args)

	start := time.Now()
	out, err := scanBook(r.pool.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Book{}, domain.ErrNotFound
		}
		r.logger.Printf("UpdateBook scan error after %s: %v", time.Since(start), err)
		return domain.Book{}, err
	}
	r.logger.Printf("UpdateBook ok in %s id=%s", time.Since(start), out.ID)
	return out, nil
}

func (r *PGRepo) SoftDeleteBook(ctx context.Context, id domain.BookID) (domain.Book, error) {
	q := r.qb().Update(r.tbl("books")).
		Set("deleted", true).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + bookCols)

	sqlStr, args, _ := q.ToSql()
	r.logSQL("SoftDeleteBook", sqlStr, args)

	start := time.Now()
	out, err := scanBook(r.pool.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Book{}, domain.ErrNotFound
		}
		r.logger.Printf("SoftDeleteBook scan error after %s: %v", time.Since(start), err)
		return domain.Book{}, err
	}
	r.logger.Printf("SoftDeleteBook ok in %s id=%s", time.Since(start), out.ID)
	return out, nil
}

func (r *PGRepo) BooksList(ctx context.Context, p domain.Page) ([]domain.Book, error) {
	q := r.qb().Select(bookColList...).
		From(r.tbl("books")).
		Where(sq.Eq{"deleted": false}).
		OrderBy("created_at DESC").
		Offset(uint64(p.Skip())).
		Limit(uint64(p.Limit))

	sqlStr, args, _ := q.ToSql()
	r.logSQL("BooksList", sqlStr, args)

	start := time.Now()
	rows, err := r.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		r.logger.Printf("BooksList query error after %s: %v", time.Since(start), err)
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Book, 0, p.Limit)
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	r.logger.Printf("BooksList ok in %s rows=%d", time.Since(start), len(out))
	return out, nil
}

func (r *PGRepo) CountBooks(ctx context.Context) (int, error) {
	q := r.qb().Select("count(*)").
		From(r.tbl("books")).
		Where(sq.Eq{"deleted": false})

	sqlStr, args, _ := q.ToSql()
	r.logSQL("CountBooks", sqlStr, args)

	var n int
	if err := r.pool.QueryRow(ctx, sqlStr, args...).Scan(&n); err != nil {
		r.logger.Printf("CountBooks scan error: %v", err)
		return 0, err
	}
	return n, nil
}

// searchWhere — общий фильтр выборки и count, чтобы pages считались
// по тем же условиям, что и сама страница
func searchWhere(f domain.BookFilter) sq.And {
	where := sq.And{sq.Eq{"deleted": false}}
	if f.Title != "" {
		where = append(where, sq.ILike{"title": "%" + f.Title + "%"})
	}
	if f.Author != "" {
		where = append(where, sq.ILike{"author": "%" + f.Author + "%"})
	}
	if f.Genre != "" {
		where = append(where, sq.ILike{"genre": "%" + f.Genre + "%"})
	}
	return where
}

func (r *PGRepo) SearchBooks(ctx context.Context, f domain.BookFilter, p domain.Page) ([]domain.Book, error) {
	q := r.qb().Select(bookColList...).
		From(r.tbl("books")).
		Where(searchWhere(f)).
		OrderBy("created_at DESC").
		Offset(uint64(p.Skip())).
		Limit(uint64(p.Limit))

	sqlStr, args, _ := q.ToSql()
	r.logSQL("SearchBooks", sqlStr, args)

	rows, err := r.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		r.logger.Printf("SearchBooks query error: %v", err)
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Book, 0, p.Limit)
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PGRepo) CountSearch(ctx context.Context, f domain.BookFilter) (int, error) {
	q := r.qb().Select("count(*)").
		From(r.tbl("books")).
		Where(searchWhere(f))

	sqlStr, args, _ := q.ToSql()
	r.logSQL("CountSearch", sqlStr, args)

	var n int
	if err := r.pool.QueryRow(ctx, sqlStr, args...).Scan(&n); err != nil {
		r.logger.Printf("CountSearch scan error: %v", err)
		return 0, err
	}
	return n, nil
}

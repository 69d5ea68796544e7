// Package listcache — кеш постраничных списков поверх k/v стора (cache-aside).
// Чтение списка сначала смотрит в кеш, при промахе идёт в БД и кладёт
// результат с TTL; любая мутация каталога сметает все страницы скоупа.
// Кеш best-effort: его недоступность никогда не ломает запрос.
//
// Строгой read-after-write согласованности нет: чтение, попавшее в окно
// между записью мутации в БД и её свипом, может переналить страницу старым
// результатом. Такой конверт живёт до следующей мутации или до TTL.
package listcache

import (
	"fmt"
	"strconv"
)

const (
	// Скоуп списка книг — единственный кешируемый список
	ScopeBooks = "books"

	DefaultTTLSeconds = 3600
	DefaultPage       = 1
	DefaultLimit      = 10
)

// Key строит ключ страницы: <scope>:page:<page>:limit:<limit>.
// Детерминирован, разные (page, limit) дают разные ключи.
func Key(scope string, page, limit int) string {
	return fmt.Sprintf("%s:page:%d:limit:%d", scope, page, limit)
}

// Pattern — шаблон для перечисления всех страниц скоупа
func Pattern(scope string) string {
	return scope + ":page:*:limit:*"
}

// ParsePage разбирает page/limit из query-параметров.
// Отсутствие, мусор и значения <1 сводятся к дефолтам 1/10 —
// отрицательный skip или нулевой limit до БД не доходят.
func ParsePage(pageStr, limitStr string) (page, limit int) {
	page, limit = DefaultPage, DefaultLimit
	if n, err := strconv.Atoi(pageStr); err == nil && n >= 1 {
		page = n
	}
	if n, err := strconv.Atoi(limitStr); err == nil && n >= 1 {
		limit = n
	}
	return page, limit
}

// PageCount = ceil(total/limit); total=0 даёт 0 страниц
func PageCount(total, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

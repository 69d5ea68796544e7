package listcache

import (
	"context"
	"encoding/json"
	"log"
)

// KV — минимум, который нужен от кеш-стора. Get: (nil, nil) == промах.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, val []byte, ttlSeconds int) error
	Del(ctx context.Context, keys ...string) error
	Keys(ctx context.Context, pattern string) ([]string, error)
}

// Конверт страницы списка. Сериализованный вид — это и тело ответа,
// и значение в кеше, поэтому попадание отдаёт байты как есть.
type Envelope struct {
	Items       any `json:"items"`
	Total       int `json:"total"`
	Pages       int `json:"pages"`
	CurrentPage int `json:"currentPage"`
}

func NewEnvelope(items any, total, page, limit int) Envelope {
	return Envelope{
		Items:       items,
		Total:       total,
		Pages:       PageCount(total, limit),
		CurrentPage: page,
	}
}

// Cache — кеш страниц списков. kv может быть nil: тогда все операции
// вырождаются в no-op и чтения идут напрямую в БД.
type Cache struct {
	log *log.Logger
	kv  KV
	ttl int // секунд
}

func New(logger *log.Logger, kv KV, ttlSeconds int) *Cache {
	if ttlSeconds <= 0 {
		ttlSeconds = DefaultTTLSeconds
	}
	return &Cache{log: logger, kv: kv, ttl: ttlSeconds}
}

// Lookup возвращает сырые байты конверта и признак попадания.
// Недоступный кеш, ошибка, отсутствие ключа и битое значение — всё промах:
// путь "идём в БД" один и тот же.
func (c *Cache) Lookup(ctx context.Context, scope string, page, limit int) ([]byte, bool) {
	if c == nil || c.kv == nil {
		return nil, false
	}
	key := Key(scope, page, limit)
	b, err := c.kv.Get(ctx, key)
	if err != nil {
		c.log.Printf("lookup %q: %v", key, err)
		return nil, false
	}
	if b == nil {
		return nil, false
	}
	if !json.Valid(b) {
		c.log.Printf("lookup %q: corrupt entry, treat as miss", key)
		return nil, false
	}
	return b, true
}

// Store сериализует конверт и кладёт его с TTL. Ошибку записи глотаем:
// чтение уже выполнено из БД и должно вернуться клиенту в любом случае.
// Возвращает сериализованный конверт — его и пишем в ответ.
func (c *Cache) Store(ctx context.Context, scope string, page, limit int, env Envelope) ([]byte, error) {
	buf, err := json.Marshal(env)
	if err != nil {
		return nil, err
	}
	if c == nil || c.kv == nil {
		return buf, nil
	}
	key := Key(scope, page, limit)
	if err := c.kv.Set(ctx, key, buf, c.ttl); err != nil {
		c.log.Printf("store %q: %v", key, err)
	}
	return buf, nil
}

// Sweep удаляет все закешированные страницы скоупа. Вызывается синхронно
// после подтверждённой записи в БД и до ответа на мутацию — это и ограничивает
// staleness окном "коммит мутации .. конец свипа".
// Ключи удаляются по одному, без транзакции: читатель параллельно со свипом
// может увидеть либо свежий промах, либо ещё не выметенную страницу.
// Ошибки не ретраим и наружу не отдаём — мутация важнее когерентности,
// остатки доживут максимум до TTL.
func (c *Cache) Sweep(ctx context.Context, scope string) {
	if c == nil || c.kv == nil {
		return
	}
	pattern := Pattern(scope)
	keys, err := c.kv.Keys(ctx, pattern)
	if err != nil {
		c.log.Printf("sweep %q: keys: %v", pattern, err)
		return
	}
	deleted := 0
	for _, k := range keys {
		if err := c.kv.Del(ctx, k); err != nil {
			c.log.Printf("sweep %q: del %q: %v", pattern, k, err)
			continue
		}
		deleted++
	}
	c.log.Printf("sweep %q: deleted %d/%d keys", pattern, deleted, len(keys))
}

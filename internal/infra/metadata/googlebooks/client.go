// Package googlebooks — клиент метаданных Google Books.
// Ответ трактуем как произвольный JSON-блоб: схему наружного API не фиксируем.
package googlebooks

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"
)

const defaultBaseURL = "https://www.googleapis.com/books/v1"

type Client struct {
	logger *log.Logger
	base   string
	hc     *http.Client
}

func New(logger *log.Logger, baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		logger: logger,
		base:   baseURL,
		hc:     &http.Client{Timeout: 5 * time.Second},
	}
}

// VolumeInfo ищет том по названию и возвращает volumeInfo первого результата.
// Пустой результат — не ошибка: отдаём пустой блоб.
func (c *Client) VolumeInfo(ctx context.Context, title string) (map[string]any, error) {
	u := fmt.Sprintf("%s/volumes?q=%s", c.base, url.QueryEscape("isbn:"+title))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		c.logger.Printf("volumes lookup failed after %s: %v", time.Since(start), err)
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Printf("volumes lookup: status %d", resp.StatusCode)
		return nil, fmt.Errorf("google books: status %d", resp.StatusCode)
	}

	var body struct {
		Items []struct {
			VolumeInfo map[string]any `json:"volumeInfo"`
		} `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode volumes response: %w", err)
	}

	c.logger.Printf("volumes lookup ok in %s items=%d", time.Since(start), len(body.Items))
	if len(body.Items) == 0 || body.Items[0].VolumeInfo == nil {
		return map[string]any{}, nil
	}
	return body.Items[0].VolumeInfo, nil
}

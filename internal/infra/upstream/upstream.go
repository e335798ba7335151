// Package upstream — общий GET+JSON для адаптеров публичных API.
package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const DefaultUserAgent = "cryptoboard/upstream"

// ErrStatus — апстрим ответил не 2xx.
var ErrStatus = errors.New("upstream status")

type StatusError struct {
	Code int
}

func (e *StatusError) Error() string { return fmt.Sprintf("http %d", e.Code) }

func (e *StatusError) Is(target error) bool { return target == ErrStatus }

type Client struct {
	http      *http.Client
	userAgent string
}

// New: hc == nil — свой клиент с таймаутом 8s, как у остальных репозиториев.
// Реальный бюджет запроса задаёт ctx вызывающего.
func New(hc *http.Client, userAgent string) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: 8 * time.Second}
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &Client{http: hc, userAgent: userAgent}
}

// GetJSON делает один GET и декодирует тело в target.
// Тело ответа с ошибкой не читаем и наружу не отдаём.
func (c *Client) GetJSON(ctx context.Context, url string, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_, _ = io.Copy(io.Discard, io.LimitReader(res.Body, 64<<10))
		_ = res.Body.Close()
	}()
	if res.StatusCode/100 != 2 {
		return &StatusError{Code: res.StatusCode}
	}
	if err := json.NewDecoder(res.Body).Decode(target); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}

package retry

import (
	"context"
	"math/rand/v2"
	"time"
)

// WithRetry выполняет op не более attempts раз с простым экспоненциальным бэкоффом
// и джиттером до половины задержки. attempts <= 1 — ровно одна попытка, без пауз.
// Отмена ctx прерывает ожидание и возвращает ошибку последней попытки.
func WithRetry(ctx context.Context, attempts int, sleep time.Duration, op func(ctx context.Context) error) error {
	if attempts < 1 {
		attempts = 1
	}
	var err error
	backoff := sleep
	for i := 0; i < attempts; i++ {
		if err = op(ctx); err == nil {
			return nil
		}
		if i == attempts-1 {
			break
		}
		t := time.NewTimer(jitter(backoff))
		select {
		case <-ctx.Done():
			t.Stop()
			return err
		case <-t.C:
		}
		if backoff < 5*time.Second {
			backoff *= 2
		}
	}
	return err
}

func jitter(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	return d + rand.N(d/2+1)
}

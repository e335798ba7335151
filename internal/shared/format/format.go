package format

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var ErrNotDecimal = errors.New("not a finite decimal")

// maxMagnitude: |x| < 10^maxMagnitude, иначе в float64 у потребителя будет Inf.
const maxMagnitude = 308

// Decimal проверяет, что строка — конечное десятичное число, и возвращает её
// без пробелов. Исходный текст не переформатируется: точность апстрима сохраняем.
func Decimal(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("%w: empty", ErrNotDecimal)
	}
	// decimal понимает экспоненту ("1e-7"), NaN/Inf не пропускает
	d, err := decimal.NewFromString(s)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrNotDecimal, s)
	}
	if !d.IsZero() && d.NumDigits()+int(d.Exponent()) > maxMagnitude {
		return "", fmt.Errorf("%w: %q out of range", ErrNotDecimal, s)
	}
	return s, nil
}

// IsDecimal — то же, что Decimal, для проверок в тестах и валидации выдачи.
func IsDecimal(s string) bool {
	_, err := Decimal(s)
	return err == nil
}

// OptionalDecimal: пусто, "0" или мусор — значит значения нет (nil).
func OptionalDecimal(s string) *string {
	v, err := Decimal(s)
	if err != nil {
		return nil
	}
	if d, _ := decimal.NewFromString(v); d.IsZero() {
		return nil
	}
	return &v
}

// Price печатает синтетическую цену: не больше 8 знаков после точки, без хвостовых нулей.
func Price(v float64) string {
	return decimal.NewFromFloat(v).Round(8).String()
}

// ISOMillis — формат поля date у точек истории (как Date.toISOString).
func ISOMillis(ms int64) string {
	return time.UnixMilli(ms).UTC().Format("2006-01-02T15:04:05.000Z07:00")
}

package domain

import (
	"errors"
	"fmt"
	"time"
)

// Interval — метка периода графика, которую присылает клиент.
type Interval string

const (
	Interval1H Interval = "1H"
	Interval1D Interval = "1D"
	Interval1W Interval = "1W"
	Interval1M Interval = "1M"
	Interval1Y Interval = "1Y"

	DefaultInterval = Interval1D
)

// CandleWidth — ширина свечи. Каждый адаптер сам переводит её в свой словарь.
type CandleWidth string

const (
	Width1m CandleWidth = "1m"
	Width1h CandleWidth = "1h"
	Width4h CandleWidth = "4h"
	Width1d CandleWidth = "1d"
	Width1w CandleWidth = "1w"
)

var ErrUnknownInterval = errors.New("unknown interval")

// Candles — параметры запроса свечей для одного периода.
type Candles struct {
	Width CandleWidth
	Step  time.Duration
	Count int
}

var candleTable = map[Interval]Candles{
	Interval1H: {Width: Width1m, Step: time.Minute, Count: 60},
	Interval1D: {Width: Width1h, Step: time.Hour, Count: 24},
	Interval1W: {Width: Width4h, Step: 4 * time.Hour, Count: 42},
	Interval1M: {Width: Width1d, Step: 24 * time.Hour, Count: 30},
	Interval1Y: {Width: Width1w, Step: 7 * 24 * time.Hour, Count: 52},
}

// Intervals возвращает все поддерживаемые метки в порядке возрастания периода.
func Intervals() []Interval {
	return []Interval{Interval1H, Interval1D, Interval1W, Interval1M, Interval1Y}
}

// ParseInterval: пустая строка — период по умолчанию, регистр значим (1M — месяц).
func ParseInterval(s string) (Interval, error) {
	if s == "" {
		return DefaultInterval, nil
	}
	iv := Interval(s)
	if _, ok := candleTable[iv]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownInterval, s)
	}
	return iv, nil
}

// Candles отдаёт строку таблицы; для неизвестной метки — параметры периода по умолчанию.
func (iv Interval) Candles() Candles {
	if c, ok := candleTable[iv]; ok {
		return c
	}
	return candleTable[DefaultInterval]
}

func (iv Interval) Valid() bool {
	_, ok := candleTable[iv]
	return ok
}

func (w CandleWidth) Duration() time.Duration {
	for _, c := range candleTable {
		if c.Width == w {
			return c.Step
		}
	}
	return 0
}

package httpapi

import "cryptoboard/internal/domain"

type CoinsResponse struct {
	Coins []domain.Coin `json:"coins"`
}

type HistoryResponse struct {
	History []domain.CoinHistory `json:"history"`
}

type HealthResponse struct {
	Status    string            `json:"status"`
	Providers map[string]string `json:"providers,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// Параметры запросов: валидируются validator'ом до обращения к данным.

type coinsQuery struct {
	IDs []string `validate:"required,min=1"`
}

type historyQuery struct {
	ID       string `validate:"required"`
	Interval string
}

type marketsQuery struct {
	Limit int `validate:"min=0"`
}

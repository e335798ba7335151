package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"cryptoboard/internal/app/webserver"
	"cryptoboard/internal/config"
	"cryptoboard/internal/domain"
	"cryptoboard/internal/infra/logging"
	"cryptoboard/internal/transport/cli"
)

// Консольный просмотр: топ монет, карточка и история. Те же провайдеры и fallback, что у web.
func main() {
	top := flag.Int("top", 10, "сколько монет рейтинга показать")
	coin := flag.String("coin", "", "id монеты; пусто — выбрать интерактивно")
	interval := flag.String("interval", "", "период истории: 1H, 1D, 1W, 1M, 1Y")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		logrus.Debug("No .env file found")
	}
	cfg, err := config.Load("")
	if err != nil {
		logrus.Fatal("Failed to load config: ", err)
	}
	// в консоли лог только о сбоях
	log, err := logging.New("warn", "text", os.Stderr)
	if err != nil {
		logrus.Fatal(err)
	}
	app, err := webserver.New(cfg, log, nil)
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pr := cli.NewCLIPresenter(os.Stdout)
	coins := app.Market.ListCoins(ctx, *top)
	pr.ShowCoins(coins)

	params := cli.InputParams{CoinID: *coin}
	if params.CoinID == "" {
		params = cli.GetInteractiveParams(os.Stdin, os.Stdout, coins)
	} else {
		iv, err := domain.ParseInterval(*interval)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		params.Interval = iv
	}

	c, ok := app.Market.GetCoinByID(ctx, params.CoinID)
	if !ok {
		pr.Warnf("Монета %q не найдена\n", params.CoinID)
		os.Exit(1)
	}
	pr.ShowCoinSummary(c)
	pr.ShowHistory(params.Interval, app.Market.GetHistory(ctx, c.ID, params.Interval))
}

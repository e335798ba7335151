package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"cryptoboard/internal/app/webserver"
	"cryptoboard/internal/config"
	"cryptoboard/internal/infra/logging"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Warn("No .env file found")
	}

	cfg, err := config.Load("")
	if err != nil {
		logrus.Fatal("Failed to load config: ", err)
	}

	log, err := logging.New(cfg.App.LogLevel, cfg.App.LogFormat, os.Stderr)
	if err != nil {
		logrus.Fatal("Failed to init logger: ", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	app, err := webserver.New(cfg, log, reg)
	if err != nil {
		log.Fatal("Failed to build app: ", err)
	}

	go func() {
		if err := app.HTTP.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorf("http server stopped: %v", err)
		}
	}()

	// gRPC — только health и reflection: статусы провайдеров для оркестратора
	var gs *grpc.Server
	if cfg.API.GRPCAddr != "" {
		lis, err := net.Listen("tcp", cfg.API.GRPCAddr)
		if err != nil {
			log.Fatalf("grpc listen %s: %v", cfg.API.GRPCAddr, err)
		}
		gs = grpc.NewServer()
		healthpb.RegisterHealthServer(gs, app.Health.Server())
		reflection.Register(gs)
		go func() {
			log.Infof("gRPC health listening on %s", cfg.API.GRPCAddr)
			if err := gs.Serve(lis); err != nil {
				log.Errorf("grpc server stopped: %v", err)
			}
		}()
	}

	log.WithFields(logrus.Fields{
		"env":      cfg.App.Environment,
		"listing":  cfg.Upstream.Listing.Provider,
		"candles":  cfg.Upstream.Candles.Provider,
		"attempts": cfg.Upstream.Attempts,
	}).Info("cryptoboard started")

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info("shutting down...")
	app.Health.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if gs != nil {
		gs.GracefulStop()
	}
	if err := app.HTTP.Shutdown(ctx); err != nil {
		log.Errorf("shutdown error: %v", err)
	} else {
		log.Info("server stopped gracefully")
	}
}

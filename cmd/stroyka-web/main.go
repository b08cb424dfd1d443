package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"stroyka/internal/cmr"
	"stroyka/internal/config"
	mainServer "stroyka/internal/server"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	defer cancel()

	l, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("error on create logger: %v", err)
	}
	logger := l.Sugar()
	defer logger.Sync()

	cnfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("failed to parse config, %v", err)
	}
	logger.Debugw("config loaded", "address", cnfg.Address, "upstream", cnfg.CMRAPIURL, "templates", cnfg.TemplatesDir)

	upstream := cmr.NewAPIManager(&http.Client{}, cnfg.CMRAPIURL, logger)
	if err := mainServer.Run(cnfg, upstream, logger, ctx); err != nil {
		logger.Fatalf("server error: %v", err)
	}
}

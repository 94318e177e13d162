package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	cli "github.com/spf13/pflag"

	"github.com/lmittmann/tint"
	log "log/slog"

	"conch/internal/backend"
	"conch/internal/config"
	"conch/internal/gateway"
	"conch/internal/persona"
	"conch/internal/proxy"
)

var logLevelMap = map[string]log.Level{
	"debug": log.LevelDebug,
	"info":  log.LevelInfo,
	"warn":  log.LevelWarn,
	"error": log.LevelError,
}

func main() {
	envFile := cli.StringP("env", "e", ".env", "Env file path")
	addr := cli.StringP("addr", "a", ":8092", "Listen address")
	logLevel := cli.StringP("log", "l", "info", "Log level")
	cli.Parse()

	log.SetDefault(log.New(tint.NewHandler(os.Stdout, &tint.Options{
		Level: logLevelMap[*logLevel],
	})))

	godotenv.Load(*envFile)
	cfg := config.Load()
	char := persona.Conch()

	var httpClient *http.Client
	if cfg.SocksProxy != "" {
		var err error
		httpClient, err = proxy.NewSocksClient(cfg.SocksProxy, 0)
		if err != nil {
			log.Error("Failed to dial socks proxy", "proxy", cfg.SocksProxy, "err", err)
			os.Exit(1)
		}
	}

	dispatcher := backend.NewDispatcher(cfg, char.SystemPrompt, httpClient, log.Default())
	gw := gateway.New(dispatcher, char, log.Default())

	log.Info("Gateway listening", "addr", *addr, "backend", dispatcher.Effective())

	if err := gateway.Serve(context.Background(), *addr, gw); err != nil {
		log.Error("Gateway stopped", "err", err)
		os.Exit(1)
	}
}

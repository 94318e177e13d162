package main

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/joho/godotenv"
	cli "github.com/spf13/pflag"

	"github.com/lmittmann/tint"
	log "log/slog"

	"conch/internal/backend"
	"conch/internal/config"
	"conch/internal/persona"
	"conch/internal/proxy"
	"conch/internal/tts"
)

var logLevelMap = map[string]log.Level{
	"debug": log.LevelDebug,
	"info":  log.LevelInfo,
	"warn":  log.LevelWarn,
	"error": log.LevelError,
}

func main() {
	envFile := cli.StringP("env", "e", ".env", "Env file path")
	logLevel := cli.StringP("log", "l", "warn", "Log level")
	cli.Parse()

	log.SetDefault(log.New(tint.NewHandler(os.Stderr, &tint.Options{
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
	voice := tts.New(cfg.TTS, log.Default())

	ctx := context.Background()

	fmt.Printf("=== %s ===\n\n", strings.ToUpper(char.Name))
	say(ctx, voice, char.Welcome)
	fmt.Println("(Type 'exit' to leave)")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("You: ")
		if !scanner.Scan() {
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if isExit(input) {
			break
		}

		reply := dispatcher.GenerateResponse(ctx, input)
		say(ctx, voice, reply)
	}

	fmt.Println()
	say(ctx, voice, char.Goodbye)
}

func say(ctx context.Context, voice *tts.Client, text string) {
	fmt.Printf("\n%s\n\n", text)
	if err := voice.Speak(ctx, text); err != nil {
		log.Warn("Voice unavailable", "err", err)
	}
}

func isExit(input string) bool {
	switch strings.ToLower(input) {
	case "exit", "quit", "bye", "goodbye":
		return true
	}
	return false
}

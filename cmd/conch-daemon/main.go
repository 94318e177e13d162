package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	cli "github.com/spf13/pflag"

	"github.com/lmittmann/tint"
	log "log/slog"

	"conch/internal/audio"
	"conch/internal/backend"
	"conch/internal/config"
	"conch/internal/ipc"
	"conch/internal/persona"
	"conch/internal/proxy"
	"conch/internal/tts"
	"conch/pkg/audioconv"
	"conch/pkg/stt"
)

var logLevelMap = map[string]log.Level{
	"debug": log.LevelDebug,
	"info":  log.LevelInfo,
	"warn":  log.LevelWarn,
	"error": log.LevelError,
}

type daemon struct {
	rec        *audio.Recorder
	whisper    *stt.Transcriber
	dispatcher *backend.Dispatcher
	voice      *tts.Client
	ducker     *audio.Ducker
	language   string
}

func main() {
	envFile := cli.StringP("env", "e", ".env", "Env file path")
	logLevel := cli.StringP("log", "l", "info", "Log level")
	cli.Parse()

	log.SetDefault(log.New(tint.NewHandler(os.Stdout, &tint.Options{
		Level: logLevelMap[*logLevel],
	})))

	log.Info("Booting up")

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

	rec := audio.NewRecorder()
	if err := rec.Init(); err != nil {
		log.Error("Failed to init audio", "err", err)
		os.Exit(1)
	}
	defer rec.Close()

	log.Debug("Loaded recorder")

	whisper, err := stt.NewTranscriber(cfg.STT.ModelPath)
	if err != nil {
		log.Error("Failed to init whisper", "model", cfg.STT.ModelPath, "err", err)
		os.Exit(1)
	}
	defer whisper.Close()

	log.Debug("Loaded whisper")

	d := &daemon{
		rec:        rec,
		whisper:    whisper,
		dispatcher: backend.NewDispatcher(cfg, char.SystemPrompt, httpClient, log.Default()),
		voice:      tts.New(cfg.TTS, log.Default()),
		ducker:     audio.NewDucker([]string{"conch"}, 15),
		language:   cfg.STT.Language,
	}

	log.Info("Boot up - successful", "backend", d.dispatcher.Effective())

	if err := ipc.StartServer(func(msg ipc.ControlMessage) {
		switch msg.Cmd {
		case ipc.CmdListen:
			d.handleListen()
		case ipc.CmdSay:
			d.speak(context.Background(), msg.Arg)
		case ipc.CmdAskFile:
			d.handleAskFile(msg.Arg)
		default:
			log.Warn("Unknown command", "cmd", msg.Cmd)
		}
	}); err != nil {
		log.Error("Failed ipc server", "err", err)
		os.Exit(1)
	}

	select {}
}

func (d *daemon) handleListen() {
	log.Info("Starting listening")

	pcm, err := d.rec.Record(10 * time.Second)
	if err != nil {
		log.Error("Failed to record", "err", err)
		return
	}

	log.Info("Recorded", "samples", len(pcm))
	d.answerPCM(pcm)
}

func (d *daemon) handleAskFile(path string) {
	log.Info("Answering audio file", "path", path)

	// Cap at one minute of audio, long files are never a single question.
	pcm, err := audioconv.DecodeFile(path, 16000*60)
	if err != nil {
		log.Error("Failed to decode audio file", "path", path, "err", err)
		return
	}

	d.answerPCM(pcm)
}

func (d *daemon) answerPCM(pcm []float32) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	res, err := d.whisper.TranscribePCM(ctx, pcm, stt.Options{Language: d.language})
	if err != nil {
		log.Error("Failed to transcribe", "err", err)
		return
	}

	log.Info("Transcribed", "text", res.Text, "lang", res.Language)

	reply := d.dispatcher.GenerateResponse(ctx, res.Text)
	log.Info("Reply ready", "text", reply)

	d.speak(ctx, reply)
}

func (d *daemon) speak(ctx context.Context, text string) {
	if !d.voice.Enabled() || text == "" {
		return
	}

	if err := d.ducker.Duck(ctx, 0.3); err != nil {
		log.Warn("Failed to duck other streams", "err", err)
	}
	defer func() {
		if err := d.ducker.Restore(context.Background()); err != nil {
			log.Warn("Failed to restore other streams", "err", err)
		}
	}()

	if err := d.voice.Speak(ctx, text); err != nil {
		log.Error("Failed to voice out", "err", err)
	}
}

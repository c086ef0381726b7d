package main

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	cli "github.com/spf13/pflag"

	"github.com/lmittmann/tint"
	log "log/slog"

	"forma/internal/nlu"
	"forma/internal/proxy"
	"forma/internal/scene"
	"forma/pkg/audioconv"
	"forma/pkg/stt"
)

var logLevelMap = map[string]log.Level{
	"debug": log.LevelDebug,
	"info":  log.LevelInfo,
	"warn":  log.LevelWarn,
	"error": log.LevelError,
}

func main() {
	envFile := cli.StringP("env", "e", ".env", "Env file path")
	hostURL := cli.StringP("host", "u", "", "Host bridge websocket url (empty = local-only)")
	proxyAddr := cli.StringP("proxy", "p", "", "Socks proxy address (empty = direct)")
	logLevel := cli.StringP("log", "l", "warn", "Log level")
	backend := cli.StringP("backend", "b", "offline", "Interpreter backend: openai|ollama|offline")
	audioFile := cli.StringP("file", "f", "", "Transcribe a recording and run it as one command")
	modelPath := cli.StringP("model", "m", "third_party/whisper.cpp/models/ggml-base.en.bin", "Whisper model path (for --file)")
	sttLang := cli.String("lang", "auto", "Transcription language")
	cli.Parse()

	log.SetDefault(log.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level: logLevelMap[*logLevel],
	})))

	godotenv.Load(*envFile)

	var httpClient *http.Client
	if *proxyAddr != "" {
		var err error
		httpClient, err = proxy.NewSocksClient(*proxyAddr)
		if err != nil {
			log.Error("Failed to dial socks proxy", "proxy", *proxyAddr, "err", err)
			os.Exit(1)
		}
	}

	bridge, err := scene.Dial(*hostURL)
	if err != nil {
		log.Error("Failed to reach host bridge", "url", *hostURL, "err", err)
		os.Exit(1)
	}

	interp, err := nlu.NewBackend(*backend, httpClient, bridge.Registry())
	if err != nil {
		log.Error("Failed to build interpreter", "backend", *backend, "err", err)
		os.Exit(1)
	}

	proc := &processor{
		interp:   interp,
		fallback: nlu.NewFallback(bridge.Registry()),
		bridge:   bridge,
	}

	if *audioFile != "" {
		if err := proc.runFile(*audioFile, *modelPath, *sttLang); err != nil {
			log.Error("Failed to process recording", "file", *audioFile, "err", err)
			os.Exit(1)
		}
		return
	}

	proc.repl()
}

type processor struct {
	interp   nlu.Interpreter
	fallback *nlu.Fallback
	bridge   *scene.Bridge
}

// runFile transcribes one recording and executes it as a single command.
func (p *processor) runFile(path, modelPath, lang string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	pcm, err := audioconv.ConvertFileToPCM16k(ctx, path, audioconv.Options{})
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}

	whisper, err := stt.NewTranscriber(modelPath)
	if err != nil {
		return err
	}
	defer whisper.Close()

	res, err := whisper.TranscribePCM(ctx, pcm, stt.Options{Language: lang})
	if err != nil {
		return fmt.Errorf("transcribe: %w", err)
	}
	if res.Text == "" {
		fmt.Println("Could not understand the command.")
		return nil
	}

	fmt.Println(">", res.Text)
	fmt.Println(p.run(res.Text))
	return nil
}

func (p *processor) repl() {
	fmt.Println("forma — type a command, :plan <steps>, :objects, or :quit")

	sc := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !sc.Scan() {
			break
		}
		line := strings.TrimSpace(sc.Text())

		switch {
		case line == "":
			continue

		case line == ":quit", line == ":q":
			return

		case line == ":objects":
			names := p.bridge.Registry().Names()
			if len(names) == 0 {
				fmt.Println("(scene is empty)")
				continue
			}
			fmt.Println(strings.Join(names, ", "))

		case strings.HasPrefix(line, ":plan "):
			fmt.Println(p.plan(strings.TrimPrefix(line, ":plan ")))

		default:
			fmt.Println(p.run(line))
		}
	}
}

func (p *processor) run(text string) string {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	cmd, err := p.interp.Interpret(ctx, text)
	if err != nil {
		log.Error("Interpreter failed, using fallback", "backend", p.interp.Name(), "err", err)
		cmd, _ = p.fallback.Interpret(ctx, text)
	}

	reply, err := p.bridge.Apply(cmd)
	if err != nil {
		log.Error("Failed to dispatch", "err", err)
		return "The scene host is not responding."
	}
	return reply
}

func (p *processor) plan(text string) string {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	cmds, err := p.interp.Plan(ctx, text)
	if err != nil {
		log.Error("Planner failed, using fallback", "backend", p.interp.Name(), "err", err)
		cmds, _ = p.fallback.Plan(ctx, text)
	}

	reply, err := p.bridge.ApplyAll(cmds)
	if err != nil {
		log.Error("Failed to dispatch plan", "err", err)
		return "The scene host is not responding."
	}
	return reply
}

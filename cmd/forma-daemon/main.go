package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/joho/godotenv"
	cli "github.com/spf13/pflag"

	"github.com/lmittmann/tint"
	log "log/slog"

	"forma/internal/audio"
	"forma/internal/ipc"
	"forma/internal/nlu"
	"forma/internal/notify"
	"forma/internal/proxy"
	"forma/internal/scene"
	"forma/internal/tts"
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
	logLevel := cli.StringP("log", "l", "info", "Log level")
	modelPath := cli.StringP("model", "m", "third_party/whisper.cpp/models/ggml-base.en.bin", "Whisper model path")
	backend := cli.StringP("backend", "b", "openai", "Interpreter backend: openai|ollama|offline")
	voiceLang := cli.String("voice", "en", "espeak voice language")
	sttLang := cli.String("lang", "auto", "Transcription language")
	beepPath := cli.String("beep", "beep.mp3", "Attention chime asset")
	socketPath := cli.String("socket", ipc.DefaultSocketPath, "Control socket path")
	cli.Parse()

	log.SetDefault(log.New(tint.NewHandler(os.Stdout, &tint.Options{
		Level: logLevelMap[*logLevel],
	})))

	log.Info("Booting up")

	godotenv.Load(*envFile)

	var httpClient *http.Client
	if *proxyAddr != "" {
		var err error
		httpClient, err = proxy.NewSocksClient(*proxyAddr)
		if err != nil {
			log.Error("Failed to dial socks proxy", "proxy", *proxyAddr, "err", err)
			os.Exit(1)
		}
		log.Debug("Loaded proxy")
	}

	rec := audio.NewRecorder()
	if err := rec.Init(); err != nil {
		log.Error("Failed to init audio", "err", err)
		os.Exit(1)
	}
	defer rec.Close()

	log.Debug("Loaded recorder")

	whisper, err := stt.NewTranscriber(*modelPath)
	if err != nil {
		log.Error("Failed to init whisper", "err", err)
		os.Exit(1)
	}
	defer whisper.Close()

	log.Debug("Loaded whisper")

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

	log.Debug("Loaded interpreter", "backend", interp.Name())

	asst := &assistant{
		rec:      rec,
		whisper:  whisper,
		interp:   interp,
		fallback: nlu.NewFallback(bridge.Registry()),
		bridge:   bridge,
		voice:    tts.NewVoice(*voiceLang),
		ducker:   audio.NewDucker([]string{"forma"}, 20),
		ptt:      audio.NewPTT(),
		sttLang:  *sttLang,
		beepPath: *beepPath,
	}

	log.Info("Boot up - successful")

	if err := ipc.StartServer(*socketPath, asst.handleControl); err != nil {
		log.Error("Failed ipc server", "err", err)
		os.Exit(1)
	}

	select {}
}

type assistant struct {
	rec      *audio.Recorder
	whisper  *stt.Transcriber
	interp   nlu.Interpreter
	fallback *nlu.Fallback
	bridge   *scene.Bridge
	voice    *tts.Voice
	ducker   *audio.Ducker
	ptt      *audio.PTT

	sttLang  string
	beepPath string

	busy sync.Mutex
}

func (a *assistant) handleControl(msg ipc.ControlMessage) ipc.ControlReply {
	switch msg.Cmd {
	case "trigger":
		go a.handleTrigger()
		return ipc.ControlReply{Ok: true, Reply: "listening"}

	case "ptt":
		if stop := a.ptt.Start(); stop != nil {
			go a.handlePushToTalk(stop)
			return ipc.ControlReply{Ok: true, Reply: "recording"}
		}
		a.ptt.Stop()
		return ipc.ControlReply{Ok: true, Reply: "stopped"}

	case "text":
		reply := a.handleUtterance(msg.Text, false)
		return ipc.ControlReply{Ok: true, Reply: reply}

	case "plan":
		reply := a.handlePlan(msg.Text)
		return ipc.ControlReply{Ok: true, Reply: reply}

	case "status":
		objects := a.bridge.Registry().Names()
		return ipc.ControlReply{
			Ok:    true,
			Reply: fmt.Sprintf("backend=%s objects=%d", a.interp.Name(), len(objects)),
		}

	default:
		log.Warn("Unknown command", "cmd", msg.Cmd)
		return ipc.ControlReply{Ok: false, Reply: "unknown command"}
	}
}

// handleTrigger is one full voice interaction. Failures are spoken and
// logged, never fatal.
func (a *assistant) handleTrigger() {
	if !a.busy.TryLock() {
		log.Warn("Trigger ignored, interaction in flight")
		return
	}
	defer a.busy.Unlock()

	notify.Beep(a.beepPath)
	notify.Desktop("Listening...")

	log.Info("Starting listening")

	duckCtx, duckCancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := a.ducker.DuckOthers(duckCtx, 0.3, 200*time.Millisecond); err != nil {
		log.Warn("Failed to duck", "err", err)
	}
	duckCancel()

	pcm, err := a.rec.RecordAuto()

	unduckCtx, unduckCancel := context.WithTimeout(context.Background(), 5*time.Second)
	if uerr := a.ducker.UnduckOthers(unduckCtx, 200*time.Millisecond); uerr != nil {
		log.Warn("Failed to unduck", "err", uerr)
	}
	unduckCancel()

	if err != nil {
		log.Error("Failed to record", "err", err)
		a.say("I didn't catch that.")
		return
	}

	a.handleAudio(pcm)
}

// handlePushToTalk records until the next ptt command (or the recorder's
// deadline), then runs the same pipeline as a trigger.
func (a *assistant) handlePushToTalk(stop <-chan struct{}) {
	defer a.ptt.Stop()

	if !a.busy.TryLock() {
		log.Warn("Push-to-talk ignored, interaction in flight")
		return
	}
	defer a.busy.Unlock()

	notify.Beep(a.beepPath)
	notify.Desktop("Recording...")

	log.Info("Push-to-talk recording")

	duckCtx, duckCancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := a.ducker.DuckOthers(duckCtx, 0.3, 200*time.Millisecond); err != nil {
		log.Warn("Failed to duck", "err", err)
	}
	duckCancel()

	pcm, err := a.rec.RecordUntil(stop, 0)

	unduckCtx, unduckCancel := context.WithTimeout(context.Background(), 5*time.Second)
	if uerr := a.ducker.UnduckOthers(unduckCtx, 200*time.Millisecond); uerr != nil {
		log.Warn("Failed to unduck", "err", uerr)
	}
	unduckCancel()

	if err != nil {
		log.Error("Failed to record", "err", err)
		a.say("I didn't catch that.")
		return
	}

	a.handleAudio(pcm)
}

// handleAudio transcribes captured PCM and dispatches the utterance.
func (a *assistant) handleAudio(pcm []float32) {
	log.Info("Recorded", "samples", len(pcm))

	if len(pcm) == 0 {
		a.say("I didn't hear anything.")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	res, err := a.whisper.TranscribePCM(ctx, pcm, stt.Options{
		Language: a.sttLang,
	})
	if err != nil {
		log.Error("Failed to transcribe", "err", err)
		a.say("Could not understand the command.")
		return
	}

	log.Info("Transcribed", "text", res.Text, "lang", res.Language)

	if res.Text == "" {
		a.say("Could not understand the command.")
		return
	}

	reply := a.handleUtterance(res.Text, true)
	a.say(reply)
}

// handleUtterance runs interpretation and dispatch for one command.
func (a *assistant) handleUtterance(text string, spoken bool) string {
	if text == "" {
		return scene.NotRecognized
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	cmd, err := a.interp.Interpret(ctx, text)
	if err != nil {
		log.Error("Interpreter failed, using fallback", "backend", a.interp.Name(), "err", err)
		cmd, _ = a.fallback.Interpret(ctx, text)
	}

	log.Info("──────── FORMA ────────")
	log.Info("action: ", "action", cmd.Action)
	log.Info("query:  ", "query", cmd.Query)
	log.Info("───────────────────────")

	reply, err := a.bridge.Apply(cmd)
	if err != nil {
		log.Error("Failed to dispatch", "err", err)
		return "The scene host is not responding."
	}

	log.Info("Dispatched", "reply", reply, "spoken", spoken)
	return reply
}

func (a *assistant) handlePlan(text string) string {
	if text == "" {
		return scene.NotRecognized
	}

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	cmds, err := a.interp.Plan(ctx, text)
	if err != nil {
		log.Error("Planner failed, using fallback", "backend", a.interp.Name(), "err", err)
		cmds, _ = a.fallback.Plan(ctx, text)
	}

	log.Info("Planned", "steps", len(cmds))

	reply, err := a.bridge.ApplyAll(cmds)
	if err != nil {
		log.Error("Failed to dispatch plan", "err", err)
		return "The scene host is not responding."
	}
	return reply
}

func (a *assistant) say(text string) {
	if err := a.voice.Speak(text); err != nil {
		log.Error("Failed to voice out", "err", err)
	}
}

package notify

import (
	"os"
	"os/exec"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"

	log "log/slog"
)

// Beep plays the attention chime before the microphone opens. Missing
// asset or speaker trouble is logged, never fatal.
func Beep(path string) {
	if path == "" {
		path = "beep.mp3"
	}

	f, err := os.Open(path)
	if err != nil {
		log.Warn("No beep asset", "path", path, "err", err)
		return
	}
	defer f.Close()

	streamer, format, err := mp3.Decode(f)
	if err != nil {
		log.Warn("Failed to decode beep", "err", err)
		return
	}
	defer streamer.Close()

	if err := speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/10)); err != nil {
		log.Warn("Failed to init speaker", "err", err)
		return
	}

	done := make(chan bool)
	speaker.Play(beep.Seq(streamer, beep.Callback(func() {
		done <- true
	})))
	<-done
}

// Desktop posts a transient desktop notification, best-effort.
func Desktop(text string) {
	cmd := exec.Command("notify-send", "-a", "forma", "-t", "3000", "forma", text)
	if err := cmd.Run(); err != nil {
		log.Debug("notify-send unavailable", "err", err)
	}
}

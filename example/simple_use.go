package main

import (
	"fmt"
	"time"

	"github.com/leandrodaf/chordtap/internal/app"
	"github.com/leandrodaf/chordtap/internal/chord"
	"github.com/leandrodaf/chordtap/internal/logger"
	"github.com/leandrodaf/chordtap/internal/player"
	"github.com/leandrodaf/chordtap/internal/tempo"
	"github.com/leandrodaf/chordtap/sdk/contracts"
	"github.com/leandrodaf/chordtap/sdk/midi"
)

func main() {
	log := logger.NewZapLogger()

	out, device, err := midi.Open("log",
		contracts.WithLogger(log),
		contracts.WithLogLevel(contracts.InfoLevel),
	)
	if err != nil {
		log.Error("Failed to open MIDI output", log.Field().Error("error", err))
		return
	}
	defer out.Close()
	fmt.Println("Playing on:", device.Name)

	metro := tempo.NewMetronome(tempo.NewTimer(time.Now))
	metro.SetBPM(90)
	p := player.New(out, log, metro)

	for _, symbol := range []string{"C", "Am7", "Dm7/F", "G7sus4", "G7", "C"} {
		c, err := chord.Parse(symbol)
		if err != nil {
			log.Error("Skipping chord", log.Field().Error("error", err))
			continue
		}
		c.Broken = 0.25
		p.Play(c)

		deadline := time.Now().Add(metro.BeatsToDuration(2))
		for time.Now().Before(deadline) {
			p.Flush()
			time.Sleep(app.DefaultTick)
		}
	}
	p.KillAll()
}

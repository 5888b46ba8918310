// Package audio plays the alert cue: the user's custom tone or a reminder's
// voice note when one is set, otherwise a synthesized beep. When no audio
// device can be opened it degrades to the terminal bell so an alert is
// never fully silent.
package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

// Global audio context singleton. oto contexts cannot be closed and
// reopened, so the first format to play wins the device configuration.
var (
	globalCtx     *oto.Context
	globalCtxOnce sync.Once
	ctxReady      bool
)

// pcmFormat describes signed 16-bit little-endian PCM data.
type pcmFormat struct {
	SampleRate int
	Channels   int
}

// Player controls one looping playback.
type Player struct {
	stopChan chan struct{}
	player   *oto.Player

	mu      sync.Mutex
	stopped bool
}

func initContext(format pcmFormat) {
	globalCtxOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   format.SampleRate,
			ChannelCount: format.Channels,
			Format:       oto.FormatSignedInt16LE,
		}

		ctx, readyChan, err := oto.NewContext(op)
		if err != nil {
			log.Printf("Failed to initialize audio context: %v", err)
			return
		}

		// Wait for the hardware audio devices to be ready
		<-readyChan

		globalCtx = ctx
		ctxReady = true
	})
}

// Play starts the alert cue and returns a Player to stop it. tonePath is
// the WAV file to loop; when empty or unreadable the generated beep is used
// instead. Returns nil after falling back to the terminal bell.
func Play(tonePath string) *Player {
	format, pcm := loadTone(tonePath)

	initContext(format)
	if !ctxReady || globalCtx == nil {
		bell()
		return nil
	}

	p := &Player{stopChan: make(chan struct{})}
	go p.playLoop(pcm)
	return p
}

func loadTone(tonePath string) (pcmFormat, []byte) {
	if tonePath == "" {
		return beepPCM()
	}

	data, err := os.ReadFile(tonePath)
	if err != nil {
		log.Printf("Failed to read tone %s: %v", tonePath, err)
		return beepPCM()
	}

	format, pcm, err := parseWAV(data)
	if err != nil {
		log.Printf("Failed to parse tone %s: %v", tonePath, err)
		return beepPCM()
	}
	return format, pcm
}

func (p *Player) playLoop(pcm []byte) {
	// Loop the cue until stopped.
	for {
		p.player = globalCtx.NewPlayer(bytes.NewReader(pcm))
		p.player.Play()

		for p.player.IsPlaying() {
			select {
			case <-p.stopChan:
				p.player.Pause()
				p.player.Close()
				return
			case <-time.After(10 * time.Millisecond):
			}
		}

		if err := p.player.Close(); err != nil {
			log.Printf("Failed to close audio player: %v", err)
		}

		select {
		case <-p.stopChan:
			return
		default:
		}
	}
}

// Stop ends playback. Safe to call more than once and on a nil Player.
func (p *Player) Stop() {
	if p == nil {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.stopped {
		p.stopped = true
		close(p.stopChan)
		if p.player != nil {
			p.player.Pause()
		}
	}
}

// bell is the last-resort cue when no audio subsystem is available.
func bell() {
	fmt.Print("\a")
}

const (
	beepSampleRate = 44100
	beepFrequency  = 880.0
)

// beepPCM synthesizes the default cue: 600ms of an 880Hz sine followed by
// 400ms of silence, mono 16-bit. The playback loop repeats it.
func beepPCM() (pcmFormat, []byte) {
	toneSamples := beepSampleRate * 600 / 1000
	restSamples := beepSampleRate * 400 / 1000

	buf := make([]byte, 0, (toneSamples+restSamples)*2)
	for i := 0; i < toneSamples; i++ {
		v := math.Sin(2 * math.Pi * beepFrequency * float64(i) / beepSampleRate)

		// Short attack/release ramps avoid clicks at the loop edges.
		ramp := toneSamples / 20
		if i < ramp {
			v *= float64(i) / float64(ramp)
		}
		if rem := toneSamples - i; rem < ramp {
			v *= float64(rem) / float64(ramp)
		}

		sample := int16(v * 0.6 * math.MaxInt16)
		buf = binary.LittleEndian.AppendUint16(buf, uint16(sample))
	}
	for i := 0; i < restSamples; i++ {
		buf = binary.LittleEndian.AppendUint16(buf, 0)
	}

	return pcmFormat{SampleRate: beepSampleRate, Channels: 1}, buf
}

// parseWAV extracts the format and raw PCM data from a RIFF WAVE file.
func parseWAV(data []byte) (pcmFormat, []byte, error) {
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return pcmFormat{}, nil, fmt.Errorf("not a RIFF WAVE file")
	}

	reader := bytes.NewReader(data[12:])
	format := pcmFormat{}
	haveFormat := false

	for {
		var chunkID [4]byte
		if _, err := io.ReadFull(reader, chunkID[:]); err != nil {
			if err == io.EOF {
				break
			}
			return pcmFormat{}, nil, fmt.Errorf("failed to read chunk header: %w", err)
		}

		var chunkSize uint32
		if err := binary.Read(reader, binary.LittleEndian, &chunkSize); err != nil {
			return pcmFormat{}, nil, fmt.Errorf("failed to read chunk size: %w", err)
		}

		switch string(chunkID[:]) {
		case "fmt ":
			var fields struct {
				AudioFormat   uint16
				NumChannels   uint16
				SampleRate    uint32
				ByteRate      uint32
				BlockAlign    uint16
				BitsPerSample uint16
			}
			if err := binary.Read(reader, binary.LittleEndian, &fields); err != nil {
				return pcmFormat{}, nil, fmt.Errorf("failed to read format chunk: %w", err)
			}
			if fields.BitsPerSample != 16 {
				return pcmFormat{}, nil, fmt.Errorf("unsupported bit depth %d, want 16", fields.BitsPerSample)
			}
			format.SampleRate = int(fields.SampleRate)
			format.Channels = int(fields.NumChannels)
			haveFormat = true

			if extra := int64(chunkSize) - 16; extra > 0 {
				reader.Seek(extra, io.SeekCurrent)
			}

		case "data":
			if !haveFormat {
				return pcmFormat{}, nil, fmt.Errorf("data chunk before format chunk")
			}
			pcm := make([]byte, chunkSize)
			if _, err := io.ReadFull(reader, pcm); err != nil {
				return pcmFormat{}, nil, fmt.Errorf("truncated data chunk: %w", err)
			}
			return format, pcm, nil

		default:
			if _, err := reader.Seek(int64(chunkSize), io.SeekCurrent); err != nil {
				return pcmFormat{}, nil, fmt.Errorf("failed to skip chunk %q: %w", string(chunkID[:]), err)
			}
		}
	}

	return pcmFormat{}, nil, fmt.Errorf("no data chunk found")
}

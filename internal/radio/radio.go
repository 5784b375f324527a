// internal/radio/radio.go

// Package radio keeps the state of the internet-radio widget. Playback
// itself happens in the browser's audio element; the widget only records
// what the visitor asked for.
package radio

import (
	"sync"

	"folio/internal/config"
	"folio/internal/logging"

	"github.com/rs/zerolog"
)

// State is a snapshot of the widget.
type State struct {
	Station config.Station
	Index   int
	Count   int
	Playing bool
	Muted   bool
	Volume  float64
}

// Enabled reports whether there is anything to play.
func (s State) Enabled() bool { return s.Count > 0 }

// VolumePercent is the volume as an integer percentage.
func (s State) VolumePercent() int { return int(s.Volume*100 + 0.5) }

// Widget rotates through a fixed list of stations.
type Widget struct {
	log      zerolog.Logger
	stations []config.Station

	mu      sync.Mutex
	index   int
	playing bool
	muted   bool
	volume  float64
}

// New returns a paused widget on the first station.
func New(cfg config.RadioConfig, logger zerolog.Logger) *Widget {
	return &Widget{
		log:      logging.For(logger, "radio"),
		stations: append([]config.Station(nil), cfg.Stations...),
		volume:   clamp(cfg.Volume),
	}
}

// State returns the current snapshot.
func (w *Widget) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stateLocked()
}

func (w *Widget) stateLocked() State {
	st := State{
		Index:   w.index,
		Count:   len(w.stations),
		Playing: w.playing,
		Muted:   w.muted,
		Volume:  w.volume,
	}
	if len(w.stations) > 0 {
		st.Station = w.stations[w.index]
	}
	return st
}

// Next moves to the following station, wrapping around.
func (w *Widget) Next() State { return w.step(1) }

// Prev moves to the previous station, wrapping around.
func (w *Widget) Prev() State { return w.step(-1) }

func (w *Widget) step(delta int) State {
	w.mu.Lock()
	defer w.mu.Unlock()
	if n := len(w.stations); n > 0 {
		w.index = ((w.index+delta)%n + n) % n
	}
	return w.stateLocked()
}

// Play starts playback. Without stations it does nothing.
func (w *Widget) Play() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.playing = len(w.stations) > 0
	return w.stateLocked()
}

// Pause stops playback.
func (w *Widget) Pause() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.playing = false
	return w.stateLocked()
}

// Toggle flips between playing and paused.
func (w *Widget) Toggle() State {
	w.mu.Lock()
	playing := w.playing
	w.mu.Unlock()
	if playing {
		return w.Pause()
	}
	return w.Play()
}

// SetVolume sets the volume, clamped to [0, 1].
func (w *Widget) SetVolume(v float64) State {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.volume = clamp(v)
	return w.stateLocked()
}

// ToggleMute flips the muted flag.
func (w *Widget) ToggleMute() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.muted = !w.muted
	return w.stateLocked()
}

// PlaybackFailed reverts the playing state after the browser could not
// start the stream. The failure is not shown to the visitor.
func (w *Widget) PlaybackFailed(reason string) State {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.playing = false
	st := w.stateLocked()
	w.log.Debug().Str("station", st.Station.Name).Str("reason", reason).Msg("playback failed")
	return st
}

func clamp(v float64) float64 {
	switch {
	case v != v, v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

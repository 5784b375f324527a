package radio

import (
	"math"
	"testing"

	"folio/internal/config"

	"github.com/rs/zerolog"
)

func newWidget(names ...string) *Widget {
	var stations []config.Station
	for _, n := range names {
		stations = append(stations, config.Station{Name: n, URL: "https://radio.example/" + n})
	}
	return New(config.RadioConfig{Stations: stations, Volume: 0.5}, zerolog.Nop())
}

func TestRotation(t *testing.T) {
	w := newWidget("a", "b", "c")
	if got := w.Next().Station.Name; got != "b" {
		t.Fatalf("Next = %q", got)
	}
	w.Next()
	if got := w.Next().Station.Name; got != "a" {
		t.Fatalf("wrap forward = %q", got)
	}
	if got := w.Prev().Station.Name; got != "c" {
		t.Fatalf("wrap backward = %q", got)
	}
}

func TestPlayPauseAndFailure(t *testing.T) {
	w := newWidget("a")
	if !w.Play().Playing {
		t.Fatal("Play did not start")
	}
	if w.PlaybackFailed("NotAllowedError").Playing {
		t.Fatal("failure must revert playing")
	}
	if !w.Toggle().Playing || w.Toggle().Playing {
		t.Fatal("Toggle did not flip")
	}
}

func TestNoStations(t *testing.T) {
	w := newWidget()
	st := w.Play()
	if st.Playing || st.Enabled() {
		t.Fatalf("state = %+v", st)
	}
	if w.Next().Index != 0 {
		t.Fatal("Next without stations moved")
	}
}

func TestVolumeAndMute(t *testing.T) {
	w := newWidget("a")
	if got := w.SetVolume(1.7).Volume; got != 1 {
		t.Fatalf("volume = %v", got)
	}
	if got := w.SetVolume(-1).Volume; got != 0 {
		t.Fatalf("volume = %v", got)
	}
	if got := w.SetVolume(math.NaN()).Volume; got != 0 {
		t.Fatalf("NaN volume = %v", got)
	}
	if got := w.SetVolume(0.25).VolumePercent(); got != 25 {
		t.Fatalf("percent = %d", got)
	}
	if !w.ToggleMute().Muted || w.ToggleMute().Muted {
		t.Fatal("mute toggle broken")
	}
}

package audio

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
	"go.uber.org/zap"

	"github.com/gajop/pinkskins/engine/core"
)

// SampleRate of every clip, loaded or synthesized
const SampleRate = 44100

// SoundID identifies a sound effect; it is also the WAV file stem
type SoundID string

const (
	SndShoot           SoundID = "shoot"
	SndShipHit         SoundID = "ship_hit"
	SndShipDestroyed   SoundID = "ship_destroyed"
	SndPlanetStruck    SoundID = "planet_struck"
	SndMeteorDestroyed SoundID = "meteor_destroyed"
	SndWarning         SoundID = "overpopulation_warning"
	SndOverpopulation  SoundID = "overpopulation"
	SndEveryoneDead    SoundID = "everyone_dead"
	SndVictory         SoundID = "victory"
)

// AllSounds lists every clip the game plays
var AllSounds = []SoundID{
	SndShoot, SndShipHit, SndShipDestroyed, SndPlanetStruck, SndMeteorDestroyed,
	SndWarning, SndOverpopulation, SndEveryoneDead, SndVictory,
}

// eventSounds maps simulation events to clips
var eventSounds = map[core.EventType]SoundID{
	core.EvtProjectileFired:       SndShoot,
	core.EvtShipHit:               SndShipHit,
	core.EvtShipDestroyed:         SndShipDestroyed,
	core.EvtPlanetStruck:          SndPlanetStruck,
	core.EvtMeteorDestroyed:       SndMeteorDestroyed,
	core.EvtOverpopulationWarning: SndWarning,
	core.EvtOverpopulation:        SndOverpopulation,
	core.EvtEveryoneDead:          SndEveryoneDead,
	core.EvtVictory:               SndVictory,
}

// AudioManager plays sound effects through Ebitengine's audio package.
// Playback is fire-and-forget: a clip that fails to play is skipped.
type AudioManager struct {
	MasterVolume float64
	SFXVolume    float64
	Muted        bool

	ctx    *audio.Context
	clips  map[SoundID][]byte
	logger *zap.Logger
}

func NewAudioManager(logger *zap.Logger) *AudioManager {
	ctx := audio.CurrentContext()
	if ctx == nil {
		ctx = audio.NewContext(SampleRate)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AudioManager{
		MasterVolume: 1.0,
		SFXVolume:    0.8,
		ctx:          ctx,
		clips:        make(map[SoundID][]byte),
		logger:       logger,
	}
}

// LoadDir decodes <dir>/<id>.wav for every sound. A missing or broken
// file fails the whole load; the game cannot start without its assets.
func (am *AudioManager) LoadDir(dir string) error {
	for _, id := range AllSounds {
		path := filepath.Join(dir, string(id)+".wav")
		pcm, err := decodeWAV(path)
		if err != nil {
			return fmt.Errorf("sound %s: %w: %w", id, core.ErrResourceUnavailable, err)
		}
		am.clips[id] = pcm
	}
	am.logger.Info("sounds loaded", zap.String("dir", dir), zap.Int("count", len(am.clips)))
	return nil
}

func decodeWAV(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s missing", path)
		}
		return nil, err
	}
	defer f.Close()
	stream, err := wav.DecodeWithSampleRate(SampleRate, f)
	if err != nil {
		return nil, err
	}
	return io.ReadAll(stream)
}

// Synthesize fills every clip with a generated tone, for running without
// a sound directory
func (am *AudioManager) Synthesize() {
	noise := rand.New(rand.NewPCG(7, 11))
	for id, tn := range synthSpecs {
		am.clips[id] = tn.render(noise)
	}
}

// Play starts a clip and returns immediately
func (am *AudioManager) Play(id SoundID) {
	if am.Muted {
		return
	}
	pcm, ok := am.clips[id]
	if !ok {
		return
	}
	p := am.ctx.NewPlayerFromBytes(pcm)
	p.SetVolume(am.SFXVolume * am.MasterVolume)
	p.Play()
}

// Bind plays the matching clip for each simulation event on the bus
func (am *AudioManager) Bind(bus *core.EventBus) {
	for evt, id := range eventSounds {
		bus.On(evt, func(core.Event) { am.Play(id) })
	}
}

// SetVolume sets master volume (0-1)
func (am *AudioManager) SetVolume(v float64) {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	am.MasterVolume = v
}

// tone describes a generated clip: a frequency sweep with optional noise
// under a linear fade-out
type tone struct {
	from, to float64 // Hz
	seconds  float64
	noise    float64 // 0 = pure tone, 1 = pure noise
}

var synthSpecs = map[SoundID]tone{
	SndShoot:           {from: 880, to: 440, seconds: 0.08},
	SndShipHit:         {from: 220, to: 110, seconds: 0.15, noise: 0.4},
	SndShipDestroyed:   {from: 160, to: 40, seconds: 0.9, noise: 0.7},
	SndPlanetStruck:    {from: 120, to: 60, seconds: 0.4, noise: 0.6},
	SndMeteorDestroyed: {from: 300, to: 150, seconds: 0.12, noise: 0.8},
	SndWarning:         {from: 660, to: 660, seconds: 0.35},
	SndOverpopulation:  {from: 440, to: 220, seconds: 1.0},
	SndEveryoneDead:    {from: 330, to: 80, seconds: 1.2, noise: 0.2},
	SndVictory:         {from: 440, to: 1320, seconds: 1.0},
}

// render produces 16-bit little-endian stereo PCM
func (t tone) render(noise *rand.Rand) []byte {
	n := int(t.seconds * SampleRate)
	buf := make([]byte, 0, n*4)
	phase := 0.0
	for i := 0; i < n; i++ {
		p := float64(i) / float64(n)
		freq := t.from + (t.to-t.from)*p
		phase += 2 * math.Pi * freq / SampleRate
		v := math.Sin(phase)*(1-t.noise) + (noise.Float64()*2-1)*t.noise
		s := int16(v * (1 - p) * 0.5 * math.MaxInt16)
		lo, hi := byte(s), byte(s>>8)
		buf = append(buf, lo, hi, lo, hi)
	}
	return buf
}

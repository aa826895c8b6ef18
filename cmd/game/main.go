package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"github.com/gajop/pinkskins/engine/audio"
	"github.com/gajop/pinkskins/engine/config"
	"github.com/gajop/pinkskins/engine/core"
	"github.com/gajop/pinkskins/engine/input"
	"github.com/gajop/pinkskins/engine/render"
	"github.com/gajop/pinkskins/engine/replay"
	"github.com/gajop/pinkskins/engine/sim"
	"github.com/gajop/pinkskins/engine/ui"
)

type options struct {
	configPath string
	seed       int64
	soundsDir  string
	recordPath string
	replayPath string
	headless   bool
	ticks      uint64
	debug      bool
	width      int
	height     int
}

func parseFlags() options {
	var o options
	flag.StringVar(&o.configPath, "config", "", "YAML tuning file; defaults are used when empty")
	flag.Int64Var(&o.seed, "seed", 1, "random seed")
	flag.StringVar(&o.soundsDir, "sounds", "", "directory of WAV effects; tones are synthesized when empty")
	flag.StringVar(&o.recordPath, "record", "", "write the session's intents to this file")
	flag.StringVar(&o.replayPath, "replay", "", "play back intents from this file instead of live input")
	flag.BoolVar(&o.headless, "headless", false, "run without a window")
	flag.Uint64Var(&o.ticks, "ticks", 0, "headless: stop after this many ticks (0 = until the round ends)")
	flag.BoolVar(&o.debug, "debug", false, "development logging")
	flag.IntVar(&o.width, "width", 960, "window width")
	flag.IntVar(&o.height, "height", 720, "window height")
	flag.Parse()
	return o
}

// Game implements ebiten.Game
type Game struct {
	sim      *sim.Simulation
	loop     *core.GameLoop
	input    *input.InputState
	renderer *render.Renderer
	hud      *ui.HUD
	audio    *audio.AudioManager
	logger   *zap.Logger

	driver *driver
}

// driver feeds intents into the simulation one tick at a time, from live
// input or a replay, and records them when asked. The tick counter spans
// restarts so a recording covers the whole session.
type driver struct {
	sim      *sim.Simulation
	rec      *replay.Recorder
	playback *replay.Replay
	step     uint64
	pending  core.Intents
	err      error
}

func (d *driver) tick() {
	if d.err != nil {
		return
	}
	in := d.pending
	if d.playback != nil {
		in = d.playback.IntentsAt(d.step)
	}
	if d.rec != nil {
		if err := d.rec.Record(d.step, in); err != nil {
			d.err = err
			return
		}
	}
	d.sim.Tick(in)
	d.step++
	// A restart press applies to one tick only
	d.pending.Restart = false
}

func NewGame(s *sim.Simulation, d *driver, am *audio.AudioManager, t *config.Tuning, o options, logger *zap.Logger) *Game {
	g := &Game{
		sim:      s,
		input:    input.NewInputState(),
		renderer: render.NewRenderer(o.width, o.height),
		hud:      ui.NewHUD(o.width, o.height, t),
		audio:    am,
		logger:   logger,
		driver:   d,
	}
	g.loop = core.NewGameLoop(t.TickRate, d.tick)
	g.hud.Bind(s.EventBus())
	if am != nil {
		am.Bind(s.EventBus())
	}
	return g
}

func (g *Game) Update() error {
	g.input.Update()
	if g.input.ConsumeMute() && g.audio != nil {
		g.audio.Muted = !g.audio.Muted
		g.hud.Muted = g.audio.Muted
	}

	restart := g.driver.pending.Restart
	g.driver.pending = g.input.Intents(g.renderer.Camera)
	g.driver.pending.Restart = g.driver.pending.Restart || restart
	g.input.ConsumeRestart()

	steps, _ := g.loop.Update()
	g.sim.EventBus().Dispatch()
	if g.driver.err != nil {
		return fmt.Errorf("record tick %d: %w", g.driver.step, g.driver.err)
	}
	if steps > 1 {
		g.logger.Debug("catch-up", zap.Int("steps", steps))
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.renderer.Draw(screen, g.sim.World())
	g.hud.Draw(screen, g.sim.State(), g.sim.World().Elapsed())
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.renderer.Camera.Resize(outsideWidth, outsideHeight)
	g.hud.Resize(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}

// runHeadless drives the fixed-step loop directly, one tick per advance,
// until the round ends or the tick budget runs out
func runHeadless(s *sim.Simulation, d *driver, ticks uint64, logger *zap.Logger) error {
	t := s.World().TickRate
	loop := core.NewGameLoop(t, d.tick)
	for ticks == 0 || d.step < ticks {
		loop.Advance(1 / t)
		s.EventBus().Dispatch()
		if d.err != nil {
			return fmt.Errorf("record tick %d: %w", d.step, d.err)
		}
		if st := s.State(); st.Outcome.Terminal() && (d.playback == nil || d.step > d.playback.LastTick()) {
			break
		}
	}
	st := s.State()
	logger.Info("headless run finished",
		zap.Uint64("ticks", d.step),
		zap.Stringer("outcome", st.Outcome),
		zap.Float64("population", st.Population),
		zap.Float64("health", st.Health),
		zap.Float64("progress", st.Progress),
		zap.Int("entities", s.World().EntityCount()),
	)
	return nil
}

func newLogger(debug bool, runID string) (*zap.Logger, error) {
	var (
		l   *zap.Logger
		err error
	)
	if debug {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}
	return l.With(zap.String("run", runID)), nil
}

func run(o options) error {
	runID := uuid.NewString()
	logger, err := newLogger(o.debug, runID)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer logger.Sync()

	tuning, err := config.Load(o.configPath)
	if err != nil {
		return err
	}

	d := &driver{}
	seed := o.seed
	if o.replayPath != "" {
		rp, err := replay.Load(o.replayPath)
		if err != nil {
			return err
		}
		if rp.Header.TickRate != tuning.TickRate {
			return fmt.Errorf("replay recorded at %v ticks/s, tuning runs at %v", rp.Header.TickRate, tuning.TickRate)
		}
		seed = rp.Header.Seed
		d.playback = rp
		logger.Info("replaying", zap.String("file", o.replayPath), zap.String("recorded_run", rp.Header.RunID))
	}

	s := sim.New(tuning, sim.WithSeed(seed), sim.WithLogger(logger))
	d.sim = s

	if o.recordPath != "" {
		rec, err := replay.CreateRecorder(o.recordPath, replay.Header{Seed: seed, TickRate: tuning.TickRate, RunID: runID})
		if err != nil {
			return err
		}
		d.rec = rec
		defer func() {
			if err := rec.Close(); err != nil {
				logger.Error("close replay", zap.Error(err))
				return
			}
			logger.Info("replay saved", zap.String("file", o.recordPath), zap.Int("frames", rec.Frames()))
		}()
	}

	if o.headless {
		return runHeadless(s, d, o.ticks, logger)
	}

	am := audio.NewAudioManager(logger)
	if o.soundsDir != "" {
		if err := am.LoadDir(o.soundsDir); err != nil {
			return err
		}
	} else {
		am.Synthesize()
	}

	ebiten.SetWindowSize(o.width, o.height)
	ebiten.SetWindowTitle("Pink Skins")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetVsyncEnabled(true)
	ebiten.SetTPS(ebiten.SyncWithFPS)

	game := NewGame(s, d, am, tuning, o, logger)
	if err := ebiten.RunGame(game); err != nil {
		return fmt.Errorf("run game: %w", err)
	}
	return nil
}

func main() {
	if err := run(parseFlags()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, core.ErrResourceUnavailable) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

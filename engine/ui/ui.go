package ui

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/gajop/pinkskins/engine/config"
	"github.com/gajop/pinkskins/engine/core"
)

var (
	panelColor  = color.RGBA{15, 15, 30, 230}
	borderColor = color.RGBA{90, 90, 140, 255}
	barBack     = color.RGBA{40, 40, 40, 200}
	healthColor = color.RGBA{0, 200, 0, 255}
	popColor    = color.RGBA{80, 160, 255, 255}
	popHigh     = color.RGBA{255, 170, 40, 255}
	goalColor   = color.RGBA{220, 220, 120, 255}
	winColor    = color.RGBA{60, 200, 90, 255}
	loseColor   = color.RGBA{220, 60, 60, 255}
)

// RoundStats counts what happened in the current round
type RoundStats struct {
	ShotsFired       int
	MeteorsDestroyed int
	PlanetStrikes    int
	HullHits         int
}

// HUD draws the status bars and the end-of-round panel
type HUD struct {
	ScreenW, ScreenH int
	TopBarHeight     int

	Tuning *config.Tuning
	Stats  RoundStats
	Muted  bool
}

func NewHUD(sw, sh int, t *config.Tuning) *HUD {
	return &HUD{
		ScreenW:      sw,
		ScreenH:      sh,
		TopBarHeight: 30,
		Tuning:       t,
	}
}

// Bind keeps the round stats current from the event bus
func (h *HUD) Bind(bus *core.EventBus) {
	bus.On(core.EvtProjectileFired, func(core.Event) { h.Stats.ShotsFired++ })
	bus.On(core.EvtMeteorDestroyed, func(core.Event) { h.Stats.MeteorsDestroyed++ })
	bus.On(core.EvtPlanetStruck, func(core.Event) { h.Stats.PlanetStrikes++ })
	bus.On(core.EvtShipHit, func(core.Event) { h.Stats.HullHits++ })
	bus.On(core.EvtRestart, func(core.Event) { h.Stats = RoundStats{} })
}

// Resize follows the window size
func (h *HUD) Resize(sw, sh int) {
	h.ScreenW, h.ScreenH = sw, sh
}

// Draw renders the entire HUD
func (h *HUD) Draw(screen *ebiten.Image, st core.GameState, elapsed float64) {
	h.drawTopBar(screen, st, elapsed)
	if st.Outcome.Terminal() {
		h.drawGameOver(screen, st, elapsed)
	}
}

func (h *HUD) drawTopBar(screen *ebiten.Image, st core.GameState, elapsed float64) {
	t := h.Tuning
	vector.DrawFilledRect(screen, 0, 0, float32(h.ScreenW), float32(h.TopBarHeight), color.RGBA{0, 0, 0, 180}, false)

	segment := float32(h.ScreenW) / 3
	pop := popColor
	if st.Population > t.WarningThreshold {
		pop = popHigh
	}
	h.drawBar(screen, 0, segment, "Hull", st.Health/t.ShipHealth, healthColor)
	h.drawBar(screen, segment, segment, fmt.Sprintf("Pop %.0f", st.Population), st.Population/t.OverPopulationLimit, pop)
	h.drawBar(screen, 2*segment, segment, fmt.Sprintf("%.0fs", elapsed), st.Progress, goalColor)

	if h.Muted {
		ebitenutil.DebugPrintAt(screen, "[M] muted", 10, h.TopBarHeight+4)
	}
}

// drawBar draws a labelled fill bar inside one top bar segment
func (h *HUD) drawBar(screen *ebiten.Image, x, w float32, label string, ratio float64, clr color.RGBA) {
	ratio = max(0, min(1, ratio))
	bx, by := x+70, float32(10)
	bw, bh := w-90, float32(10)
	ebitenutil.DebugPrintAt(screen, label, int(x)+8, 8)
	vector.DrawFilledRect(screen, bx, by, bw, bh, barBack, false)
	vector.DrawFilledRect(screen, bx, by, bw*float32(ratio), bh, clr, false)
	vector.StrokeRect(screen, bx, by, bw, bh, 1, borderColor, false)
}

func (h *HUD) drawGameOver(screen *ebiten.Image, st core.GameState, elapsed float64) {
	cx, cy := h.ScreenW/2, h.ScreenH/2
	panelW, panelH := 360, 220
	px := float32(cx - panelW/2)
	py := float32(cy - panelH/2)
	vector.DrawFilledRect(screen, px, py, float32(panelW), float32(panelH), panelColor, false)
	vector.StrokeRect(screen, px, py, float32(panelW), float32(panelH), 2, borderColor, false)

	title, clr := Headline(st.Outcome)
	tx := cx - len(title)*3
	ty := int(py) + 24
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			ebitenutil.DebugPrintAt(screen, title, tx+dx, ty+dy)
		}
	}
	vector.DrawFilledRect(screen, float32(cx-60), float32(ty+18), 120, 3, clr, false)

	lines := []string{
		fmt.Sprintf("Time survived:     %.1fs", elapsed),
		fmt.Sprintf("Population:        %.0f", st.Population),
		fmt.Sprintf("Meteors destroyed: %d", h.Stats.MeteorsDestroyed),
		fmt.Sprintf("Shots fired:       %d", h.Stats.ShotsFired),
		fmt.Sprintf("Planet strikes:    %d", h.Stats.PlanetStrikes),
		"",
		"Press R or Enter to play again",
	}
	for i, line := range lines {
		ebitenutil.DebugPrintAt(screen, line, cx-len(line)*3, ty+36+i*18)
	}
}

// Headline is the banner text and accent color for a finished round
func Headline(o core.Outcome) (string, color.RGBA) {
	switch o {
	case core.OutcomeVictory:
		return "VICTORY", winColor
	case core.OutcomeShipDestroyed:
		return "SHIP DESTROYED", loseColor
	case core.OutcomeEveryoneDead:
		return "EVERYONE IS DEAD", loseColor
	case core.OutcomeOverPopulation:
		return "OVERPOPULATION", loseColor
	}
	return "", color.RGBA{}
}

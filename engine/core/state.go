package core

// Outcome is the terminal result of a round
type Outcome uint8

const (
	OutcomeNone Outcome = iota
	OutcomeShipDestroyed
	OutcomeEveryoneDead
	OutcomeOverPopulation
	OutcomeVictory
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNone:
		return "playing"
	case OutcomeShipDestroyed:
		return "ship destroyed"
	case OutcomeEveryoneDead:
		return "everyone dead"
	case OutcomeOverPopulation:
		return "overpopulation"
	case OutcomeVictory:
		return "victory"
	}
	return "unknown"
}

// Terminal reports whether the round is over
func (o Outcome) Terminal() bool { return o != OutcomeNone }

// GameState is the aggregate progress of a round
type GameState struct {
	Population float64 // clamped >= 0
	Health     float64 // craft health, clamped >= 0
	Progress   float64 // victory progress in [0,1]
	Outcome    Outcome

	// Overpopulation warning bookkeeping
	Warned          bool // a warning has fired this round
	LastWarningTick uint64
}

// NewGameState returns a state at the start of a round
func NewGameState(population, health float64) *GameState {
	return &GameState{
		Population: population,
		Health:     health,
	}
}

// Reset puts the state back to the start of a round
func (s *GameState) Reset(population, health float64) {
	*s = *NewGameState(population, health)
}

// ApplyShipDamage lowers craft health, clamped at zero
func (s *GameState) ApplyShipDamage(dmg float64) {
	s.Health -= dmg
	if s.Health < 0 {
		s.Health = 0
	}
}

// ApplyPopulationDamage lowers population, clamped at zero
func (s *GameState) ApplyPopulationDamage(dmg float64) {
	s.Population -= dmg
	if s.Population < 0 {
		s.Population = 0
	}
}

// Clamp keeps counters in range
func (s *GameState) Clamp() {
	if s.Population < 0 {
		s.Population = 0
	}
	if s.Health < 0 {
		s.Health = 0
	}
	if s.Progress < 0 {
		s.Progress = 0
	}
	if s.Progress > 1 {
		s.Progress = 1
	}
}

// Finish sets the outcome. Only the first terminal outcome sticks;
// returns false if the round was already over.
func (s *GameState) Finish(o Outcome) bool {
	if s.Outcome.Terminal() || !o.Terminal() {
		return false
	}
	s.Outcome = o
	return true
}

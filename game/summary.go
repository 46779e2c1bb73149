package game

// PlayerSummary is the read model of the player
type PlayerSummary struct {
	Unit      string         `json:"unit"`
	Position  Vec2           `json:"position"`
	HP        float64        `json:"hp"`
	MaxHP     float64        `json:"max_hp"`
	Dead      bool           `json:"dead"`
	Magic     float64        `json:"magic"`
	MaxMagic  float64        `json:"max_magic"`
	Missiles  int            `json:"missiles"`
	Level     int            `json:"level"`
	Inventory map[string]int `json:"inventory"`
}

// NationSummary is the read model of a nation
type NationSummary struct {
	Name           string  `json:"name"`
	Faction        string  `json:"faction"`
	Position       Vec2    `json:"position"`
	HP             float64 `json:"hp"`
	MaxHP          float64 `json:"max_hp"`
	Level          int     `json:"level"`
	Units          int     `json:"units"`
	RocketProgress float64 `json:"rocket_progress"`
}

// Summary is a JSON-friendly view of a game after a tick
type Summary struct {
	State         string          `json:"state"`
	Elapsed       float64         `json:"elapsed"`
	Wave          int             `json:"wave"`
	WaveCountdown float64         `json:"wave_countdown"`
	Zombies       int             `json:"zombies"`
	Allies        int             `json:"allies"`
	EnemyUnits    int             `json:"enemy_units"`
	Projectiles   int             `json:"projectiles"`
	Resources     int             `json:"resources"`
	Player        *PlayerSummary  `json:"player,omitempty"`
	Nations       []NationSummary `json:"nations"`
	Notifications []Notification  `json:"notifications"`
	Stats         Stats           `json:"stats"`
}

// Summary builds the read model of the current game
func (s *Simulation) Summary() Summary {
	w := s.world
	sum := Summary{
		State:         s.state.String(),
		Elapsed:       s.elapsed,
		Wave:          s.spawner.Wave,
		WaveCountdown: s.spawner.Countdown,
		Allies:        w.LiveAllies(),
		Projectiles:   len(w.Projectiles),
		Resources:     len(w.Resources),
		Nations:       make([]NationSummary, 0, len(w.Nations)),
		Notifications: s.Notifications(),
		Stats:         s.stats,
	}
	for _, z := range w.Zombies {
		if z.Alive() {
			sum.Zombies++
		}
	}
	for _, n := range w.Nations {
		if !n.IsHome() {
			sum.EnemyUnits += n.LiveUnits()
		}
		sum.Nations = append(sum.Nations, NationSummary{
			Name:           n.Name,
			Faction:        n.Faction.String(),
			Position:       n.Pos,
			HP:             n.HP,
			MaxHP:          n.MaxHP,
			Level:          n.Level,
			Units:          n.LiveUnits(),
			RocketProgress: n.RocketProgress,
		})
	}
	if p := w.Player; p != nil {
		inv := make(map[string]int, ResourceKindCount)
		for k := ResourceKind(0); k < ResourceKindCount; k++ {
			inv[k.String()] = p.Inventory[k]
		}
		sum.Player = &PlayerSummary{
			Unit:      p.UnitType.String(),
			Position:  p.Pos,
			HP:        p.HP,
			MaxHP:     p.MaxHP,
			Dead:      p.Dead,
			Magic:     p.Magic,
			MaxMagic:  p.MaxMagic,
			Missiles:  p.Missiles,
			Level:     p.Level,
			Inventory: inv,
		}
	}
	return sum
}

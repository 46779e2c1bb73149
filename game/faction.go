package game

import (
	"fmt"
	"image/color"
)

// Faction represents which side an entity belongs to
type Faction int

const (
	FactionNeutral Faction = iota
	FactionPlayer
	FactionZombie
	// FactionRival is the first rival nation; rival i uses FactionRival + i
	FactionRival
)

// RivalFaction returns the faction of the i-th rival nation
func RivalFaction(i int) Faction {
	return FactionRival + Faction(i)
}

// IsRival reports whether f belongs to a rival nation
func (f Faction) IsRival() bool {
	return f >= FactionRival
}

func (f Faction) String() string {
	switch {
	case f == FactionNeutral:
		return "neutral"
	case f == FactionPlayer:
		return "player"
	case f == FactionZombie:
		return "zombie"
	default:
		return fmt.Sprintf("rival-%d", int(f-FactionRival)+1)
	}
}

// Hostile reports whether entities of factions a and b fight each other.
// Neutral pickups are never hostile; zombies are hostile to everything else.
func Hostile(a, b Faction) bool {
	if a == FactionNeutral || b == FactionNeutral {
		return false
	}
	return a != b
}

// FactionConfig holds presentation data for a faction
type FactionConfig struct {
	Faction Faction
	Name    string
	Color   color.RGBA
}

var rivalPalette = []FactionConfig{
	{Name: "Crimson Empire", Color: color.RGBA{255, 0, 0, 255}},
	{Name: "Amber Federation", Color: color.RGBA{255, 136, 0, 255}},
	{Name: "Violet Kingdom", Color: color.RGBA{255, 0, 255, 255}},
	{Name: "Blue Moon Republic", Color: color.RGBA{136, 0, 255, 255}},
	{Name: "Frost Tribe", Color: color.RGBA{0, 255, 255, 255}},
	{Name: "Golden League", Color: color.RGBA{255, 255, 0, 255}},
	{Name: "Bloodfang Legion", Color: color.RGBA{255, 68, 68, 255}},
	{Name: "Flame Clan", Color: color.RGBA{255, 136, 68, 255}},
	{Name: "Shadow Order", Color: color.RGBA{255, 68, 255, 255}},
	{Name: "Icebound Pact", Color: color.RGBA{136, 68, 255, 255}},
}

// GetFactionConfig returns presentation data for a faction
func GetFactionConfig(f Faction) FactionConfig {
	switch {
	case f == FactionPlayer:
		return FactionConfig{Faction: f, Name: "Home Base", Color: color.RGBA{0, 255, 0, 255}}
	case f == FactionZombie:
		return FactionConfig{Faction: f, Name: "Horde", Color: color.RGBA{120, 160, 90, 255}}
	case f.IsRival():
		cfg := rivalPalette[int(f-FactionRival)%len(rivalPalette)]
		cfg.Faction = f
		return cfg
	default:
		return FactionConfig{Faction: f, Name: "Neutral", Color: color.RGBA{200, 200, 200, 255}}
	}
}

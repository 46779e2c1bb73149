package game

// World owns every entity collection and the id index used to resolve weak references
type World struct {
	Config Config

	Player      *Player
	Allies      []*AlliedUnit
	Nations     []*Nation
	Zombies     []*Zombie
	Projectiles []*Projectile
	Effects     []*MagicEffect
	Particles   []*Particle
	Resources   []*ResourceItem

	grid   *Grid
	index  map[EntityID]Actor
	nextID EntityID
}

// NewWorld creates an empty world
func NewWorld(config Config) *World {
	return &World{
		Config:      config,
		Allies:      make([]*AlliedUnit, 0, config.AllyCap),
		Zombies:     make([]*Zombie, 0, 64),
		Projectiles: make([]*Projectile, 0, 256),
		Particles:   make([]*Particle, 0, config.MaxParticles),
		grid:        NewGrid(config),
		index:       make(map[EntityID]Actor),
	}
}

// register assigns a fresh id and indexes the entity
func (w *World) register(a Actor) {
	w.nextID++
	e := a.Base()
	e.ID = w.nextID
	w.index[e.ID] = a
}

// SetPlayer installs the player
func (w *World) SetPlayer(p *Player) {
	if w.Player != nil {
		delete(w.index, w.Player.ID)
	}
	w.register(p)
	w.Player = p
}

// AddAlly adds a crafted unit
func (w *World) AddAlly(u *AlliedUnit) {
	w.register(u)
	w.Allies = append(w.Allies, u)
}

// AddNation adds a base
func (w *World) AddNation(n *Nation) {
	w.register(n)
	w.Nations = append(w.Nations, n)
}

// AddEnemyUnit adds a unit owned by n
func (w *World) AddEnemyUnit(n *Nation, u *EnemyUnit) {
	w.register(u)
	u.Home = n.ID
	u.Faction = n.Faction
	n.Units = append(n.Units, u)
}

// AddZombie adds a zombie
func (w *World) AddZombie(z *Zombie) {
	w.register(z)
	w.Zombies = append(w.Zombies, z)
}

// AddProjectile adds a projectile
func (w *World) AddProjectile(p *Projectile) {
	w.register(p)
	w.Projectiles = append(w.Projectiles, p)
}

// AddEffect adds a magic effect
func (w *World) AddEffect(m *MagicEffect) {
	w.register(m)
	w.Effects = append(w.Effects, m)
}

// AddParticle adds a particle. Particles are not indexed.
func (w *World) AddParticle(p *Particle) {
	w.nextID++
	p.ID = w.nextID
	w.Particles = append(w.Particles, p)
}

// AddResource adds a pickup
func (w *World) AddResource(r *ResourceItem) {
	w.register(r)
	w.Resources = append(w.Resources, r)
}

// Lookup resolves an id; it returns nil for unknown or removed entities
func (w *World) Lookup(id EntityID) Actor {
	if id == InvalidEntityID {
		return nil
	}
	return w.index[id]
}

// LiveTarget resolves a weak reference. Dead and missing entities resolve to nil.
func (w *World) LiveTarget(id EntityID) *Entity {
	a := w.Lookup(id)
	if a == nil {
		return nil
	}
	e := a.Base()
	if !e.Alive() {
		return nil
	}
	return e
}

// HomeNation returns the player's nation, or nil
func (w *World) HomeNation() *Nation {
	for _, n := range w.Nations {
		if n.IsHome() {
			return n
		}
	}
	return nil
}

// NationByID returns the nation with the given id, or nil
func (w *World) NationByID(id EntityID) *Nation {
	n, _ := w.Lookup(id).(*Nation)
	return n
}

// HostileNations returns every nation hostile to faction, dead or alive
func (w *World) HostileNations(faction Faction) []*Nation {
	var nations []*Nation
	for _, n := range w.Nations {
		if Hostile(faction, n.Faction) {
			nations = append(nations, n)
		}
	}
	return nations
}

// LiveHostileNations counts hostile nations that still have HP
func (w *World) LiveHostileNations() int {
	count := 0
	for _, n := range w.HostileNations(FactionPlayer) {
		if n.HP > 0 {
			count++
		}
	}
	return count
}

// EnemyUnits returns every unit of every nation in nation order
func (w *World) EnemyUnits() []*EnemyUnit {
	var units []*EnemyUnit
	for _, n := range w.Nations {
		units = append(units, n.Units...)
	}
	return units
}

// LiveAllies counts allies still alive
func (w *World) LiveAllies() int {
	count := 0
	for _, a := range w.Allies {
		if a.Alive() {
			count++
		}
	}
	return count
}

// ClearNationUnits kills and removes every unit owned by n
func (w *World) ClearNationUnits(n *Nation) {
	for _, u := range n.Units {
		u.Kill()
		delete(w.index, u.ID)
	}
	n.Units = n.Units[:0]
}

// InBounds reports whether p lies on the map
func (w *World) InBounds(p Vec2) bool {
	return p.X >= 0 && p.X <= w.Config.MapWidth && p.Y >= 0 && p.Y <= w.Config.MapHeight
}

// ClampToMap keeps p at least margin away from the map edges
func (w *World) ClampToMap(p Vec2, margin float64) Vec2 {
	return Vec2{
		X: max(margin, min(w.Config.MapWidth-margin, p.X)),
		Y: max(margin, min(w.Config.MapHeight-margin, p.Y)),
	}
}

// rebuildGrid inserts every live collidable actor into the broadphase grid
func (w *World) rebuildGrid() *Grid {
	w.grid.Clear()
	for _, z := range w.Zombies {
		if z.Alive() {
			w.grid.Insert(z)
		}
	}
	for _, n := range w.Nations {
		for _, u := range n.Units {
			if u.Alive() {
				w.grid.Insert(u)
			}
		}
	}
	if w.Player != nil && w.Player.Alive() {
		w.grid.Insert(w.Player)
	}
	for _, a := range w.Allies {
		if a.Alive() {
			w.grid.Insert(a)
		}
	}
	for _, n := range w.Nations {
		if n.Alive() {
			w.grid.Insert(n)
		}
	}
	return w.grid
}

// Cleanup removes finished entities. Dead zombies stay until their fade runs out;
// dead nations are kept for scoring and the minimap.
func (w *World) Cleanup() {
	w.Allies = removeDead(w, w.Allies, func(a *AlliedUnit) bool { return !a.Alive() })
	for _, n := range w.Nations {
		n.Units = removeDead(w, n.Units, func(u *EnemyUnit) bool { return !u.Alive() })
	}
	w.Zombies = removeDead(w, w.Zombies, func(z *Zombie) bool { return z.Dead && z.FadeLeft <= 0 })
	w.Projectiles = removeDead(w, w.Projectiles, func(p *Projectile) bool { return p.Dead })
	w.Effects = removeDead(w, w.Effects, func(m *MagicEffect) bool { return m.LifeLeft <= 0 })
	w.Resources = removeDead(w, w.Resources, func(r *ResourceItem) bool { return r.Dead })

	kept := w.Particles[:0]
	for _, p := range w.Particles {
		if p.LifeLeft > 0 {
			kept = append(kept, p)
		}
	}
	clear(w.Particles[len(kept):])
	w.Particles = kept
}

// removeDead filters s in place and unindexes what it drops
func removeDead[T Actor](w *World, s []T, gone func(T) bool) []T {
	kept := s[:0]
	for _, a := range s {
		if gone(a) {
			delete(w.index, a.Base().ID)
			continue
		}
		kept = append(kept, a)
	}
	clear(s[len(kept):])
	return kept
}

package game

// Cell is a spatial partition cell
type Cell struct {
	// Entities whose center lies in this cell
	Entities []Actor
}

// AddEntity adds an entity to this cell
func (c *Cell) AddEntity(a Actor) {
	c.Entities = append(c.Entities, a)
}

// Clear removes all entities from the cell but keeps capacity
func (c *Cell) Clear() {
	for i := range c.Entities {
		c.Entities[i] = nil
	}
	c.Entities = c.Entities[:0]
}

// Grid is a uniform broadphase grid, rebuilt before each collision pass
type Grid struct {
	cells    [][]*Cell
	cellSize float64
	countX   int
	countY   int

	// maxRadius is the largest radius inserted since the last Clear
	maxRadius float64
}

// NewGrid creates a grid covering the map with preallocated cells
func NewGrid(config Config) *Grid {
	countX := config.GridCountX()
	countY := config.GridCountY()
	cells := make([][]*Cell, countX)
	for x := 0; x < countX; x++ {
		cells[x] = make([]*Cell, countY)
		for y := 0; y < countY; y++ {
			cells[x][y] = &Cell{Entities: make([]Actor, 0, 16)}
		}
	}
	return &Grid{
		cells:    cells,
		cellSize: config.GridCellSize,
		countX:   countX,
		countY:   countY,
	}
}

// WorldToCell converts world coordinates to cell coordinates, clamped to the grid
func (g *Grid) WorldToCell(p Vec2) (int, int) {
	cellX := int(p.X / g.cellSize)
	cellY := int(p.Y / g.cellSize)
	cellX = max(0, min(cellX, g.countX-1))
	cellY = max(0, min(cellY, g.countY-1))
	return cellX, cellY
}

// GetCell returns the cell at the given cell coordinates
func (g *Grid) GetCell(cellX, cellY int) *Cell {
	if cellX < 0 || cellX >= g.countX || cellY < 0 || cellY >= g.countY {
		return nil
	}
	return g.cells[cellX][cellY]
}

// Clear empties every cell
func (g *Grid) Clear() {
	for x := range g.cells {
		for _, c := range g.cells[x] {
			c.Clear()
		}
	}
	g.maxRadius = 0
}

// Insert places an entity in the cell containing its center
func (g *Grid) Insert(a Actor) {
	e := a.Base()
	cell := g.GetCell(g.WorldToCell(e.Pos))
	if cell == nil {
		return
	}
	cell.AddEntity(a)
	g.maxRadius = max(g.maxRadius, e.Radius)
}

// Query returns every inserted entity whose circle overlaps the circle at p
func (g *Grid) Query(p Vec2, radius float64) []Actor {
	reach := radius + g.maxRadius
	minX, minY := g.WorldToCell(Vec2{p.X - reach, p.Y - reach})
	maxX, maxY := g.WorldToCell(Vec2{p.X + reach, p.Y + reach})

	var found []Actor
	for cellX := minX; cellX <= maxX; cellX++ {
		for cellY := minY; cellY <= maxY; cellY++ {
			for _, a := range g.cells[cellX][cellY].Entities {
				e := a.Base()
				r := radius + e.Radius
				if e.Pos.DistSq(p) < r*r {
					found = append(found, a)
				}
			}
		}
	}
	return found
}

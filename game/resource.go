package game

import (
	"fmt"
	"sort"
	"strings"
)

// ResourceKind identifies one of the six collectable resources
type ResourceKind int

const (
	ResourceMetal ResourceKind = iota // structural metal (steel bars)
	ResourceBinder                    // binder compound (cement)
	ResourceElectronics               // electronic components (chips)
	ResourceCrystal                   // rare zombie crystal
	ResourceFuel
	ResourceAmmo
	ResourceKindCount
)

var resourceNames = [ResourceKindCount]string{
	ResourceMetal:       "metal",
	ResourceBinder:      "binder",
	ResourceElectronics: "electronics",
	ResourceCrystal:     "crystal",
	ResourceFuel:        "fuel",
	ResourceAmmo:        "ammo",
}

func (k ResourceKind) String() string {
	if k < 0 || k >= ResourceKindCount {
		return fmt.Sprintf("resource(%d)", int(k))
	}
	return resourceNames[k]
}

// Inventory holds a quantity per resource kind
type Inventory [ResourceKindCount]int

// Cost maps resource kinds to a required quantity
type Cost map[ResourceKind]int

// Missing returns how much of each kind the inventory lacks to pay c
func (inv Inventory) Missing(c Cost) Cost {
	missing := Cost{}
	for kind, amount := range c {
		if have := inv[kind]; have < amount {
			missing[kind] = amount - have
		}
	}
	return missing
}

// CanAfford reports whether the inventory covers every entry of c
func (inv Inventory) CanAfford(c Cost) bool {
	return len(inv.Missing(c)) == 0
}

// Deduct removes c from the inventory. It deducts nothing and returns false when any
// entry is short.
func (inv *Inventory) Deduct(c Cost) bool {
	if !inv.CanAfford(c) {
		return false
	}
	for kind, amount := range c {
		inv[kind] -= amount
	}
	return true
}

// String renders c in a stable order, e.g. "metal x15 electronics x8"
func (c Cost) String() string {
	kinds := make([]int, 0, len(c))
	for k := range c {
		kinds = append(kinds, int(k))
	}
	sort.Ints(kinds)
	parts := make([]string, 0, len(kinds))
	for _, k := range kinds {
		parts = append(parts, fmt.Sprintf("%s x%d", ResourceKind(k), c[ResourceKind(k)]))
	}
	return strings.Join(parts, " ")
}

package model

import (
	"fmt"
	"math"
)

// Extent is an axis-aligned size or position with integer lengths along X, Y
// and Z. It is used for item sizes, bin sizes and placement corners alike.
type Extent struct {
	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z"`
}

// Volume returns X*Y*Z.
func (e Extent) Volume() int {
	return e.X * e.Y * e.Z
}

// Add returns the componentwise sum of e and other.
func (e Extent) Add(other Extent) Extent {
	return Extent{X: e.X + other.X, Y: e.Y + other.Y, Z: e.Z + other.Z}
}

// FitsIn reports whether e fits inside bin without rotation.
func (e Extent) FitsIn(bin Extent) bool {
	return e.X <= bin.X && e.Y <= bin.Y && e.Z <= bin.Z
}

// FitsInAnyOrientation reports whether some axis permutation of e fits inside bin.
func (e Extent) FitsInAnyOrientation(bin Extent) bool {
	for o := Orientation(1); o <= 6; o++ {
		if e.Orient(o).FitsIn(bin) {
			return true
		}
	}
	return false
}

func (e Extent) String() string {
	return fmt.Sprintf("%dx%dx%d", e.X, e.Y, e.Z)
}

// Orientation selects one of the six axis permutations of an extent.
// The mapping is fixed; the optimizer learns around whichever permutation a
// gene value selects, so all that matters is that it stays stable.
type Orientation int

// Orient returns e with its axes permuted according to o:
// 1=(X,Y,Z) 2=(X,Z,Y) 3=(Y,X,Z) 4=(Y,Z,X) 5=(Z,X,Y) 6=(Z,Y,X).
func (e Extent) Orient(o Orientation) Extent {
	switch o {
	case 2:
		return Extent{X: e.X, Y: e.Z, Z: e.Y}
	case 3:
		return Extent{X: e.Y, Y: e.X, Z: e.Z}
	case 4:
		return Extent{X: e.Y, Y: e.Z, Z: e.X}
	case 5:
		return Extent{X: e.Z, Y: e.X, Z: e.Y}
	case 6:
		return Extent{X: e.Z, Y: e.Y, Z: e.X}
	default:
		return e
	}
}

// OrientationFromGene maps an orientation gene to an Orientation via
// ceil(6*gene). Genes nominally live in [0,1); boundary values are clamped so
// the result is always in {1..6}: gene <= 0 yields 1 and gene >= 1 yields 6.
func OrientationFromGene(gene float64) Orientation {
	o := Orientation(math.Ceil(6 * gene))
	if o < 1 {
		return 1
	}
	if o > 6 {
		return 6
	}
	return o
}

// Placement records one item placed inside a bin.
type Placement struct {
	Item int    `json:"item"` // slot index into the expanded item list
	Size Extent `json:"size"` // oriented size as placed
	At   Extent `json:"at"`   // minimum corner within the bin
}

// FarCorner returns the placement's maximum corner (At + Size).
func (p Placement) FarCorner() Extent {
	return p.At.Add(p.Size)
}

// BinResult is the final contents of one bin after an evaluation.
type BinResult struct {
	Load       int         `json:"load"` // sum of placed item volumes
	Placements []Placement `json:"placements"`
}

// PackingResult is the full outcome of evaluating one solution vector.
type PackingResult struct {
	Fitness  float64     `json:"fitness"`
	UsedBins int         `json:"used_bins"`
	BinSize  Extent      `json:"bin_size"`
	Bins     []BinResult `json:"bins"`
}

// Loads returns the per-bin loads in bin order.
func (r PackingResult) Loads() []int {
	loads := make([]int, len(r.Bins))
	for i, b := range r.Bins {
		loads[i] = b.Load
	}
	return loads
}

// LeastLoad returns the smallest per-bin load, or 0 when no bins were used.
func (r PackingResult) LeastLoad() int {
	if len(r.Bins) == 0 {
		return 0
	}
	least := r.Bins[0].Load
	for _, b := range r.Bins[1:] {
		if b.Load < least {
			least = b.Load
		}
	}
	return least
}

// FillFraction returns bin i's load relative to the bin volume.
func (r PackingResult) FillFraction(i int) float64 {
	bv := r.BinSize.Volume()
	if bv == 0 {
		return 0
	}
	return float64(r.Bins[i].Load) / float64(bv)
}

// ViolationKind classifies a geometric inconsistency in a packing result.
type ViolationKind string

const (
	ViolationOutOfBounds  ViolationKind = "out_of_bounds"
	ViolationOverlap      ViolationKind = "overlap"
	ViolationLoadMismatch ViolationKind = "load_mismatch"
)

// PackingViolation reports one inconsistency found while auditing a packing
// result. First is always the offending placement; Second is set only for
// overlaps, and the load fields only for load mismatches.
type PackingViolation struct {
	Kind     ViolationKind
	Bin      int
	First    Placement
	Second   Placement
	WantLoad int
	GotLoad  int
}

// SolverConfig holds the search parameters for the genetic driver.
type SolverConfig struct {
	PopulationSize int     `json:"population_size"`
	Generations    int     `json:"generations"`
	MutationRate   float64 `json:"mutation_rate"`   // per-operator mutation probability
	TournamentSize int     `json:"tournament_size"` // candidates per tournament
	EliteCount     int     `json:"elite_count"`     // chromosomes copied unchanged
	Seed           int64   `json:"seed"`            // RNG seed; runs are reproducible per seed
	Workers        int     `json:"workers"`         // parallel evaluators, min 1
}

func DefaultSolverConfig() SolverConfig {
	return SolverConfig{
		PopulationSize: 100,
		Generations:    200,
		MutationRate:   0.10,
		TournamentSize: 3,
		EliteCount:     2,
		Seed:           42,
		Workers:        1,
	}
}

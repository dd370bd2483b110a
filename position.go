package warps

import (
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/go-gl/mathgl/mgl64"
)

// PositionValidator turns a candidate position into a position an entity may be
// placed at. It returns false if no such position exists.
type PositionValidator interface {
	Validate(pos mgl64.Vec3, w World) (mgl64.Vec3, bool)
}

// validate runs v against w, in one batch if w supports it.
func validate(v PositionValidator, pos mgl64.Vec3, w World) (result mgl64.Vec3, ok bool) {
	bw, batched := w.(BatchWorld)
	if !batched {
		return v.Validate(pos, w)
	}
	bw.Batch(func(w World) {
		result, ok = v.Validate(pos, w)
	})
	return result, ok
}

// ChainedValidation runs validators in order, feeding each result into the next.
// The first validator that finds no position ends the chain.
type ChainedValidation []PositionValidator

// Validate implements PositionValidator.
func (c ChainedValidation) Validate(pos mgl64.Vec3, w World) (mgl64.Vec3, bool) {
	for _, v := range c {
		var ok bool
		if pos, ok = v.Validate(pos, w); !ok {
			return pos, false
		}
	}
	return pos, true
}

// NewValidation builds the validation chain for the given safety settings:
// legacy height correction, followed by the cubic safety search when enabled.
func NewValidation(s SafetySettings) ChainedValidation {
	chain := ChainedValidation{LegacyHeightCorrection{}}
	if s.Enabled {
		chain = append(chain, CubicSafetySearch{Radius: s.SearchRadius})
	}
	return chain
}

// LegacyHeightCorrection lifts positions stored inside blocks lower than a full
// cell, such as slabs, by one cell. Old warp data rounded the height down.
type LegacyHeightCorrection struct{}

// Validate implements PositionValidator. It never rejects a position.
func (LegacyHeightCorrection) Validate(pos mgl64.Vec3, w World) (mgl64.Vec3, bool) {
	if h := w.Height(cube.PosFromVec3(pos)); h > 0 && h < 1 {
		pos[1]++
	}
	return pos, true
}

// CubicSafetySearch looks for the nearest safe cell around the candidate.
//
// The candidate is returned unchanged if it is safe. Otherwise the surfaces of
// cubes with half edge 1..Radius are scanned, each one layer by layer in the order
// 0, +1, -1, +2, -2, ... relative to the candidate's height. Inner layers are
// scanned along their outline; the top and bottom layer are scanned completely,
// ring by ring from the centre. Every outline is walked -x edge, -z edge,
// +x edge, +z edge. The first safe cell wins, which makes the result reproducible.
type CubicSafetySearch struct {
	Radius int
}

// Validate implements PositionValidator.
func (s CubicSafetySearch) Validate(pos mgl64.Vec3, w World) (mgl64.Vec3, bool) {
	origin := cube.PosFromVec3(pos)
	if isSafe(origin, w) {
		return pos, true
	}
	for r := 1; r <= s.Radius; r++ {
		if found, ok := searchShell(origin, r, w); ok {
			// Keep the candidate's offset inside its cell.
			return found.Vec3().Add(pos.Sub(origin.Vec3())), true
		}
	}
	return pos, false
}

// isSafe reports whether an entity two cells tall may stand in p.
func isSafe(p cube.Pos, w World) bool {
	return w.Occupiable(p) &&
		w.Occupiable(p.Side(cube.FaceUp)) &&
		w.Standable(p.Side(cube.FaceDown))
}

// searchShell scans the surface of the cube with half edge r around c.
func searchShell(c cube.Pos, r int, w World) (cube.Pos, bool) {
	dy := 0
	for i := 0; i < 2*r+1; i++ {
		if i%2 == 1 {
			dy += i
		} else {
			dy -= i
		}
		y := c.Y() + dy

		if dy == r || dy == -r {
			for ring := 0; ring <= r; ring++ {
				if p, ok := searchOutline(c.X(), y, c.Z(), ring, w); ok {
					return p, true
				}
			}
			continue
		}
		if p, ok := searchOutline(c.X(), y, c.Z(), r, w); ok {
			return p, true
		}
	}
	return cube.Pos{}, false
}

// searchOutline scans the outline of the square with half edge r around (cx, cz)
// at height y. Every cell is visited exactly once.
func searchOutline(cx, y, cz, r int, w World) (cube.Pos, bool) {
	if r == 0 {
		p := cube.Pos{cx, y, cz}
		return p, isSafe(p, w)
	}

	// -x edge
	for z := cz - r; z <= cz+r; z++ {
		if p := (cube.Pos{cx - r, y, z}); isSafe(p, w) {
			return p, true
		}
	}
	// -z edge
	for x := cx - r + 1; x <= cx+r; x++ {
		if p := (cube.Pos{x, y, cz - r}); isSafe(p, w) {
			return p, true
		}
	}
	// +x edge
	for z := cz - r + 1; z <= cz+r; z++ {
		if p := (cube.Pos{cx + r, y, z}); isSafe(p, w) {
			return p, true
		}
	}
	// +z edge
	for x := cx - r + 1; x < cx+r; x++ {
		if p := (cube.Pos{x, y, cz + r}); isSafe(p, w) {
			return p, true
		}
	}
	return cube.Pos{}, false
}

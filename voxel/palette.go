package voxel

import (
	"github.com/fabricengine/fabric/primitives"
	"github.com/go-gl/mathgl/mgl32"
)

// MaxPaletteSize is the sentinel overflow index returned by Insert once the
// palette is full (spec.md §4.2/§3: kMaxPaletteSize = 65535).
const MaxPaletteSize = 65535

const defaultEpsilon = 1.0 / 255.0

// EssencePalette maps continuous RGBA essence colors to 16-bit indices,
// generalized from the teacher's BrickAtlasMap/AllocateAtlasSlot bookkeeping
// in xbrickmap.go (which allocates opaque GPU-atlas slots per brick) into a
// content-addressed, deduplicating color table.
type EssencePalette struct {
	entries []mgl32.Vec4
	epsilon float32
}

func NewEssencePalette() *EssencePalette {
	return &EssencePalette{epsilon: defaultEpsilon}
}

// SetEpsilon changes the dedup tolerance; existing entries are left intact.
func (p *EssencePalette) SetEpsilon(eps float32) {
	p.epsilon = eps
}

// Clear empties the palette.
func (p *EssencePalette) Clear() {
	p.entries = p.entries[:0]
}

func (p *EssencePalette) Len() int { return len(p.entries) }

// Insert finds an existing entry within epsilon² L2 distance and returns its
// index, or appends a new entry. Returns MaxPaletteSize if the table is full.
func (p *EssencePalette) Insert(color mgl32.Vec4) uint16 {
	epsSq := p.epsilon * p.epsilon
	for i, e := range p.entries {
		d := e.Sub(color)
		distSq := d.X()*d.X() + d.Y()*d.Y() + d.Z()*d.Z() + d.W()*d.W()
		if distSq <= epsSq {
			return uint16(i)
		}
	}
	if len(p.entries) >= MaxPaletteSize {
		return MaxPaletteSize
	}
	p.entries = append(p.entries, color)
	return uint16(len(p.entries) - 1)
}

// Lookup returns the color at idx, or a zero color and primitives.Internal
// if idx is out of range (spec.md §4.2), using the shared
// primitives.ErrorCode taxonomy rather than a package-local one.
func (p *EssencePalette) Lookup(idx uint16) (mgl32.Vec4, primitives.ErrorCode) {
	if int(idx) >= len(p.entries) {
		return mgl32.Vec4{}, primitives.Internal
	}
	return p.entries[idx], primitives.Ok
}

package mesh

import "github.com/fabricengine/fabric/voxel"

// direction is one of the six face-sweep axes the greedy mesher walks.
type direction struct {
	axis   int    // 0=x,1=y,2=z: the axis swept layer by layer
	normal [3]int // outward face normal for this direction
}

var directions = [6]direction{
	{axis: 0, normal: [3]int{-1, 0, 0}},
	{axis: 0, normal: [3]int{1, 0, 0}},
	{axis: 1, normal: [3]int{0, -1, 0}},
	{axis: 1, normal: [3]int{0, 1, 0}},
	{axis: 2, normal: [3]int{0, 0, -1}},
	{axis: 2, normal: [3]int{0, 0, 1}},
}

type maskCell struct {
	present bool
	palette uint16
}

// greedyMesh sweeps the six face directions over one chunk's density field,
// sampling a one-voxel apron into neighbor chunks so faces at the chunk
// boundary are correctly culled, and greedily merges runs of identical
// exposed faces into quads, per spec.md §4.4.
func greedyMesh(density voxel.DensityField, essence voxel.EssenceField, palette *voxel.EssencePalette, coord voxel.ChunkCoord, threshold float32) ChunkMeshData {
	base := [3]int{coord.X * voxel.ChunkSize, coord.Y * voxel.ChunkSize, coord.Z * voxel.ChunkSize}

	var out ChunkMeshData
	for _, dir := range directions {
		meshDirection(density, essence, palette, base, dir, threshold, &out)
	}
	out.Palette = paletteSnapshot(palette)
	return out
}

func paletteSnapshot(p *voxel.EssencePalette) []voxelColor {
	out := make([]voxelColor, 0, p.Len())
	for i := 0; i < p.Len(); i++ {
		c, _ := p.Lookup(uint16(i))
		out = append(out, voxelColor{c.X(), c.Y(), c.Z(), c.W()})
	}
	return out
}

func densityAt(density voxel.DensityField, base [3]int, axis int, layer, u, v int) float32 {
	pos := layerCoord(base, axis, layer, u, v)
	return density.Get(pos[0], pos[1], pos[2])
}

func layerCoord(base [3]int, axis, layer, u, v int) [3]int {
	var local [3]int
	local[axis] = layer
	other := [2]int{}
	idx := 0
	for i := 0; i < 3; i++ {
		if i == axis {
			continue
		}
		if idx == 0 {
			other[0] = i
		} else {
			other[1] = i
		}
		idx++
	}
	local[other[0]] = u
	local[other[1]] = v
	return [3]int{base[0] + local[0], base[1] + local[1], base[2] + local[2]}
}

func meshDirection(density voxel.DensityField, essence voxel.EssenceField, palette *voxel.EssencePalette, base [3]int, dir direction, threshold float32, out *ChunkMeshData) {
	const N = voxel.ChunkSize
	mask := make([]maskCell, N*N)

	for layer := 0; layer < N; layer++ {
		for i := range mask {
			mask[i] = maskCell{}
		}

		for v := 0; v < N; v++ {
			for u := 0; u < N; u++ {
				self := densityAt(density, base, dir.axis, layer, u, v)
				neighborLayer := layer
				if dir.normal[dir.axis] > 0 {
					neighborLayer = layer + 1
				} else {
					neighborLayer = layer - 1
				}
				var neighborDensity float32
				if dir.normal[dir.axis] > 0 {
					neighborDensity = densityAt(density, base, dir.axis, neighborLayer, u, v)
				} else {
					neighborDensity = densityAt(density, base, dir.axis, neighborLayer, u, v)
				}

				var ownerDensity float32
				var exposed bool
				if dir.normal[dir.axis] > 0 {
					ownerDensity = self
					exposed = ownerDensity >= threshold && neighborDensity < threshold
				} else {
					ownerDensity = self
					exposed = ownerDensity >= threshold && neighborDensity < threshold
				}

				if exposed {
					pos := layerCoord(base, dir.axis, layer, u, v)
					color := essence.Get(pos[0], pos[1], pos[2])
					idx := palette.Insert(color)
					mask[v*N+u] = maskCell{present: true, palette: idx}
				}
			}
		}

		emitQuadsForLayer(mask, N, dir, layer, base, out)
	}
}

// emitQuadsForLayer greedily unions rectangular runs of identical mask
// values in deterministic (v, then u) scan order.
func emitQuadsForLayer(mask []maskCell, n int, dir direction, layer int, base [3]int, out *ChunkMeshData) {
	visited := make([]bool, n*n)

	for v := 0; v < n; v++ {
		for u := 0; u < n; u++ {
			idx := v*n + u
			if visited[idx] || !mask[idx].present {
				continue
			}
			cell := mask[idx]

			width := 1
			for u+width < n {
				nIdx := v*n + u + width
				if visited[nIdx] || mask[nIdx] != cell {
					break
				}
				width++
			}

			height := 1
		heightLoop:
			for v+height < n {
				for du := 0; du < width; du++ {
					nIdx := (v+height)*n + u + du
					if visited[nIdx] || mask[nIdx] != cell {
						break heightLoop
					}
				}
				height++
			}

			for dv := 0; dv < height; dv++ {
				for du := 0; du < width; du++ {
					visited[(v+dv)*n+u+du] = true
				}
			}

			emitQuad(base, dir, layer, u, v, width, height, cell.palette, out)
		}
	}
}

func emitQuad(base [3]int, dir direction, layer, u, v, width, height int, palette uint16, out *ChunkMeshData) {
	faceLayer := layer
	if dir.normal[dir.axis] > 0 {
		faceLayer = layer + 1
	}

	corners := [4][2]int{{u, v}, {u + width, v}, {u + width, v + height}, {u, v + height}}
	var positions [4][3]float32
	for i, c := range corners {
		p := layerCoord(base, dir.axis, faceLayer, c[0], c[1])
		positions[i] = [3]float32{float32(p[0]), float32(p[1]), float32(p[2])}
	}

	normal := [3]float32{float32(dir.normal[0]), float32(dir.normal[1]), float32(dir.normal[2])}

	start := uint32(len(out.Vertices))
	for _, p := range positions {
		out.Vertices = append(out.Vertices, Vertex{Position: p, Normal: normal, PaletteIndex: palette})
	}

	if dir.normal[dir.axis] > 0 {
		out.Indices = append(out.Indices, start, start+1, start+2, start, start+2, start+3)
	} else {
		out.Indices = append(out.Indices, start, start+2, start+1, start, start+3, start+2)
	}
}

package Mesh

import "math"

// samePoint2D 只比较平面坐标，高程不参与去重
func samePoint2D(a, b RingPoint) bool {
	return math.Abs(a[0]-b[0]) < CoordEpsilon && math.Abs(a[1]-b[1]) < CoordEpsilon
}

// BuildRing 将一个三角面的三个投影点拼成闭合环 [v0 v1 v2 v0]
// includeElevation时附带原始高程作为第三个坐标
// 相邻重复点去重后不足3个有效点的环视为退化，返回nil
func BuildRing(verts [3]Vertex3D, proj *Projector, includeElevation bool) Ring {
	ring := make(Ring, 0, 4)
	for _, v := range verts {
		x, y := proj.Project(v)
		if includeElevation {
			ring = append(ring, RingPoint{x, y, v.Z})
		} else {
			ring = append(ring, RingPoint{x, y})
		}
	}
	closing := make(RingPoint, len(ring[0]))
	copy(closing, ring[0])
	ring = append(ring, closing)

	return CloseRing(ring)
}

// CloseRing 去掉相邻重复点并保证闭合
// 有效点（不含闭合点）少于3个时返回nil
func CloseRing(ring Ring) Ring {
	if len(ring) == 0 {
		return nil
	}
	out := Ring{ring[0]}
	for _, p := range ring[1:] {
		if !samePoint2D(p, out[len(out)-1]) {
			out = append(out, p)
		}
	}
	// 尾点若在去重中被吃掉则重新补上闭合点
	if !samePoint2D(out[0], out[len(out)-1]) {
		closing := make(RingPoint, len(out[0]))
		copy(closing, out[0])
		out = append(out, closing)
	} else if len(out) > 1 {
		// 首尾重合时尾点统一为首点副本，保持精确闭合
		closing := make(RingPoint, len(out[0]))
		copy(closing, out[0])
		out[len(out)-1] = closing
	}
	if len(out)-1 < 3 {
		return nil
	}
	return out
}

package Mesh

import "math"

// 坐标比较容差
const CoordEpsilon = 1e-9

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func (v Vertex3D) finite() bool {
	return isFinite(v.X) && isFinite(v.Y) && isFinite(v.Z)
}

// samePoint 判断两个顶点的各坐标是否在容差内重合
func samePoint(a, b Vertex3D) bool {
	return math.Abs(a.X-b.X) < CoordEpsilon &&
		math.Abs(a.Y-b.Y) < CoordEpsilon &&
		math.Abs(a.Z-b.Z) < CoordEpsilon
}

// ValidateTriangle 校验单个三角面并取出三个顶点
// 索引越界、坐标非法、三点全部重合的三角面返回false，直接跳过不报错
func (m *MeshData) ValidateTriangle(t Triangle) ([3]Vertex3D, bool) {
	var verts [3]Vertex3D
	n := len(m.Vertices)
	if t.A < 0 || t.A >= n || t.B < 0 || t.B >= n || t.C < 0 || t.C >= n {
		return verts, false
	}
	verts[0] = m.Vertices[t.A]
	verts[1] = m.Vertices[t.B]
	verts[2] = m.Vertices[t.C]
	for _, v := range verts {
		if !v.finite() {
			return verts, false
		}
	}
	// 三点两两重合为退化三角形
	if samePoint(verts[0], verts[1]) && samePoint(verts[1], verts[2]) && samePoint(verts[0], verts[2]) {
		return verts, false
	}
	return verts, true
}

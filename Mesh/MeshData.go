package Mesh

// Vertex3D 表示网格中的一个三维顶点
type Vertex3D struct {
	X, Y, Z float64
}

// Triangle 表示一个三角面，A B C为顶点表中的索引
type Triangle struct {
	A, B, C int
}

// MeshData 三角网格：顶点表 + 三角面表
// 单次转换内只属于一个构件，构建后不再修改
type MeshData struct {
	Vertices  []Vertex3D
	Triangles []Triangle
}

// RingPoint 投影后的环坐标，长度为2或3（含高程）
type RingPoint []float64

// Ring 闭合环，首点与尾点相同
type Ring []RingPoint

// FromIndexBuffer 将平铺的索引缓冲按连续三元组转换为三角面表
// 长度不是3的倍数的缓冲视为无效，整体丢弃
func FromIndexBuffer(indices []int) []Triangle {
	if len(indices) == 0 || len(indices)%3 != 0 {
		return nil
	}
	triangles := make([]Triangle, 0, len(indices)/3)
	for i := 0; i+2 < len(indices); i += 3 {
		triangles = append(triangles, Triangle{A: indices[i], B: indices[i+1], C: indices[i+2]})
	}
	return triangles
}

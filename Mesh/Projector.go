package Mesh

import "math"

// 投影方式
const (
	ProjectionAxisDrop = "axisdrop"
	ProjectionPCA      = "pca"
)

// 幂迭代次数，对3x3协方差矩阵足够收敛
const powerIterations = 100

// Projector 将网格顶点投影到二维平面
// 同一个网格的所有三角面共用一个投影框架
type Projector struct {
	usePlane bool
	centroid Vertex3D
	axisU    Vertex3D
	axisV    Vertex3D
}

// NewProjector 根据投影方式构建投影器
// axisdrop直接丢弃Z坐标，pca将顶点投影到最佳拟合平面
func NewProjector(mode string, m *MeshData) *Projector {
	if mode != ProjectionPCA || len(m.Vertices) == 0 {
		return &Projector{}
	}

	// 坐标非法的顶点不参与平面拟合，其三角面由校验层单独丢弃
	finite := make([]Vertex3D, 0, len(m.Vertices))
	for _, v := range m.Vertices {
		if v.finite() {
			finite = append(finite, v)
		}
	}
	if len(finite) == 0 {
		return &Projector{}
	}

	centroid := centroidOf(finite)
	cov := covarianceMatrix(finite, centroid)

	// 第一特征向量：对协方差矩阵做幂迭代
	u, ok := powerIteration(cov)
	if !ok {
		// 协方差退化（顶点全部重合），退回到直接投影
		return &Projector{}
	}

	// 第二特征向量：降阶后再做幂迭代
	lambda := rayleighQuotient(cov, u)
	deflated := deflate(cov, u, lambda)
	v, ok := powerIteration(deflated)
	if !ok {
		return &Projector{}
	}
	// 消除数值误差带来的非正交分量
	v = normalize(subtract(v, scale(u, dot(v, u))))

	return &Projector{
		usePlane: true,
		centroid: centroid,
		axisU:    canonicalSign(u),
		axisV:    canonicalSign(v),
	}
}

// Project 将一个三维顶点映射为二维坐标
func (p *Projector) Project(v Vertex3D) (float64, float64) {
	if !p.usePlane {
		return v.X, v.Y
	}
	cx := v.X - p.centroid.X
	cy := v.Y - p.centroid.Y
	cz := v.Z - p.centroid.Z
	x := cx*p.axisU.X + cy*p.axisU.Y + cz*p.axisU.Z
	y := cx*p.axisV.X + cy*p.axisV.Y + cz*p.axisV.Z
	return x, y
}

// UsesPlane 返回投影器是否采用了拟合平面
func (p *Projector) UsesPlane() bool {
	return p.usePlane
}

func centroidOf(points []Vertex3D) Vertex3D {
	var c Vertex3D
	for _, p := range points {
		c.X += p.X
		c.Y += p.Y
		c.Z += p.Z
	}
	n := float64(len(points))
	c.X /= n
	c.Y /= n
	c.Z /= n
	return c
}

// covarianceMatrix 计算去中心化顶点的3x3协方差矩阵
func covarianceMatrix(points []Vertex3D, centroid Vertex3D) [3][3]float64 {
	var cov [3][3]float64
	for _, p := range points {
		d := [3]float64{p.X - centroid.X, p.Y - centroid.Y, p.Z - centroid.Z}
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				cov[i][j] += d[i] * d[j]
			}
		}
	}
	n := float64(len(points))
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			cov[i][j] /= n
		}
	}
	return cov
}

func matVec(m [3][3]float64, v Vertex3D) Vertex3D {
	return Vertex3D{
		X: m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z,
		Y: m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z,
		Z: m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z,
	}
}

func dot(a, b Vertex3D) float64 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z
}

func subtract(a, b Vertex3D) Vertex3D {
	return Vertex3D{X: a.X - b.X, Y: a.Y - b.Y, Z: a.Z - b.Z}
}

func scale(v Vertex3D, s float64) Vertex3D {
	return Vertex3D{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

func norm(v Vertex3D) float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

func normalize(v Vertex3D) Vertex3D {
	l := norm(v)
	if l < 1e-12 {
		return v
	}
	return scale(v, 1/l)
}

// powerIteration 幂迭代求矩阵的主特征向量
// 起始向量与主方向正交时会塌缩，换基向量重试
func powerIteration(m [3][3]float64) (Vertex3D, bool) {
	seeds := []Vertex3D{
		{X: 1, Y: 1, Z: 1},
		{X: 1, Y: 0, Z: 0},
		{X: 0, Y: 1, Z: 0},
		{X: 0, Y: 0, Z: 1},
	}
	for _, seed := range seeds {
		v := normalize(seed)
		ok := true
		for i := 0; i < powerIterations; i++ {
			next := matVec(m, v)
			l := norm(next)
			if l < 1e-12 {
				ok = false
				break
			}
			v = scale(next, 1/l)
		}
		if ok {
			return v, true
		}
	}
	return Vertex3D{}, false
}

// rayleighQuotient 单位向量v对应的特征值估计
func rayleighQuotient(m [3][3]float64, v Vertex3D) float64 {
	return dot(v, matVec(m, v))
}

// deflate 从矩阵中减去主特征方向的分量 m - lambda*u*uT
func deflate(m [3][3]float64, u Vertex3D, lambda float64) [3][3]float64 {
	c := [3]float64{u.X, u.Y, u.Z}
	var out [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = m[i][j] - lambda*c[i]*c[j]
		}
	}
	return out
}

// canonicalSign 特征向量符号不唯一，统一翻转为最大分量为正
// 保证同一份数据多次转换输出一致
func canonicalSign(v Vertex3D) Vertex3D {
	ax, ay, az := math.Abs(v.X), math.Abs(v.Y), math.Abs(v.Z)
	var dominant float64
	switch {
	case ax >= ay && ax >= az:
		dominant = v.X
	case ay >= az:
		dominant = v.Y
	default:
		dominant = v.Z
	}
	if dominant < 0 {
		return scale(v, -1)
	}
	return v
}

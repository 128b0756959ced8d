package Transformer

import (
	"math"

	"github.com/GrainArc/MeshMap/Mesh"
)

// 网格单位到地理坐标的默认比例
const DefaultScale = 1e-5

// 坐标范围归一化策略
const (
	RangeWrap  = "wrap"
	RangeClamp = "clamp"
)

// WrapLon 将任意经度折算到[-180,180)
func WrapLon(lon float64) float64 {
	return math.Mod(math.Mod(lon, 360)+540, 360) - 180
}

// WrapLat 将任意纬度折算到[-90,90)
func WrapLat(lat float64) float64 {
	return math.Mod(math.Mod(lat, 180)+270, 180) - 90
}

// ClampLon 将经度截断到[-180,180]
func ClampLon(lon float64) float64 {
	return math.Max(-180, math.Min(180, lon))
}

// ClampLat 将纬度截断到[-90,90]
func ClampLat(lat float64) float64 {
	return math.Max(-90, math.Min(90, lat))
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// NormalizePoint 对单个投影点做比例缩放和范围归一化
// 高程维原样透传不参与缩放。返回false表示结果非法，该点应被丢弃
func NormalizePoint(pt Mesh.RingPoint, scale float64, policy string) (Mesh.RingPoint, bool) {
	if len(pt) < 2 {
		return nil, false
	}
	lon := pt[0] * scale
	lat := pt[1] * scale
	switch policy {
	case RangeClamp:
		lon = ClampLon(lon)
		lat = ClampLat(lat)
	default:
		lon = WrapLon(lon)
		lat = WrapLat(lat)
	}
	if !isFinite(lon) || !isFinite(lat) {
		return nil, false
	}
	out := Mesh.RingPoint{lon, lat}
	if len(pt) > 2 {
		out = append(out, pt[2])
	}
	return out, true
}

// NormalizeRing 逐点归一化，丢点后不足3个有效点的环整体丢弃
func NormalizeRing(ring Mesh.Ring, scale float64, policy string) Mesh.Ring {
	out := make(Mesh.Ring, 0, len(ring))
	for _, pt := range ring {
		p, ok := NormalizePoint(pt, scale, policy)
		if !ok {
			continue
		}
		out = append(out, p)
	}
	return Mesh.CloseRing(out)
}

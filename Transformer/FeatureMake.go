package Transformer

import "github.com/GrainArc/MeshMap/Mesh"

// GeoGeometry GeoJSON几何对象，坐标按原始嵌套数组保留
type GeoGeometry struct {
	Type        string      `json:"type"`
	Coordinates interface{} `json:"coordinates"`
}

// GeoFeature 单个GeoJSON要素
type GeoFeature struct {
	Type       string                 `json:"type"`
	ID         string                 `json:"id"`
	Properties map[string]interface{} `json:"properties"`
	Geometry   GeoGeometry            `json:"geometry"`
}

// GeoDocument FeatureCollection文档
// 保留高程的输出走这套结构，orb的几何类型只支持二维坐标
type GeoDocument struct {
	Type       string       `json:"type"`
	Features   []GeoFeature `json:"features"`
	Error      string       `json:"error,omitempty"`
	StackTrace string       `json:"stackTrace,omitempty"`
}

func ringCoords(ring Mesh.Ring) [][]float64 {
	out := make([][]float64, 0, len(ring))
	for _, pt := range ring {
		out = append(out, []float64(pt))
	}
	return out
}

// AssembleDocument 组装保留原始坐标维度的FeatureCollection文档
// 要素几何的选择规则与AssembleCollection一致
func AssembleDocument(elements []ElementGeometry) *GeoDocument {
	doc := &GeoDocument{
		Type:     "FeatureCollection",
		Features: []GeoFeature{},
	}
	for _, eg := range elements {
		if len(eg.Rings) == 0 {
			continue
		}
		var geometry GeoGeometry
		if len(eg.Rings) == 1 {
			// Polygon坐标为单个环数组
			geometry = GeoGeometry{
				Type:        "Polygon",
				Coordinates: [][][]float64{ringCoords(eg.Rings[0])},
			}
		} else {
			// MultiPolygon中每个环单独包装为一个单环多边形
			coords := make([][][][]float64, 0, len(eg.Rings))
			for _, r := range eg.Rings {
				coords = append(coords, [][][]float64{ringCoords(r)})
			}
			geometry = GeoGeometry{
				Type:        "MultiPolygon",
				Coordinates: coords,
			}
		}
		doc.Features = append(doc.Features, GeoFeature{
			Type:       "Feature",
			ID:         eg.GUID,
			Properties: map[string]interface{}{"type": eg.TypeLabel},
			Geometry:   geometry,
		})
	}
	return doc
}

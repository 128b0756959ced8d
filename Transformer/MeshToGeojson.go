package Transformer

import (
	"fmt"
	"runtime/debug"

	"github.com/GrainArc/MeshMap/Mesh"
	"github.com/GrainArc/MeshMap/methods"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/sirupsen/logrus"
)

// ConvertOptions 网格转GeoJSON的转换参数
type ConvertOptions struct {
	Projection       string  // axisdrop 或 pca
	RangePolicy      string  // wrap 或 clamp
	Scale            float64 // 平面坐标缩放比例
	IncludeElevation bool    // 输出坐标是否保留高程
}

// WithDefaults 补齐未填写的转换参数
func (o ConvertOptions) WithDefaults() ConvertOptions {
	if o.Projection == "" {
		o.Projection = Mesh.ProjectionAxisDrop
	}
	if o.RangePolicy == "" {
		o.RangePolicy = RangeWrap
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	return o
}

// ConvertStats 转换过程的诊断计数
type ConvertStats struct {
	Elements         int `json:"elements"`
	Features         int `json:"features"`
	SkippedTriangles int `json:"skippedTriangles"`
	FailedElements   int `json:"failedElements"`
}

// ElementGeometry 单个构件的全部有效环
type ElementGeometry struct {
	GUID      string
	TypeLabel string
	Rings     []Mesh.Ring
}

// ConvertResult 单次转换的输出
// 二维输出时Collection有效，保留高程时Document有效
type ConvertResult struct {
	Collection *geojson.FeatureCollection
	Document   *GeoDocument
	Stats      ConvertStats
}

// Body 返回用于序列化的文档对象
func (r *ConvertResult) Body() interface{} {
	if r.Document != nil {
		return r.Document
	}
	return r.Collection
}

// ConvertModel 遍历模型中的全部构件并组装FeatureCollection
// 单个构件的失败只记录日志并按零环处理，不中断整体转换
func ConvertModel(source methods.ModelSource, opts ConvertOptions, log *logrus.Entry) (*ConvertResult, error) {
	opts = opts.WithDefaults()

	elements, err := source.ListElements()
	if err != nil {
		return nil, fmt.Errorf("模型构件枚举失败: %v", err)
	}

	result := &ConvertResult{}
	var collected []ElementGeometry
	for _, el := range elements {
		result.Stats.Elements++
		rings, err := convertOneElement(source, el.GUID, opts, &result.Stats)
		if err != nil {
			result.Stats.FailedElements++
			log.WithError(err).WithField("element", el.GUID).Warn("构件转换失败，跳过")
			continue
		}
		if len(rings) == 0 {
			continue
		}
		collected = append(collected, ElementGeometry{GUID: el.GUID, TypeLabel: el.TypeLabel, Rings: rings})
	}

	result.Stats.Features = len(collected)
	assemble(result, collected, opts)
	return result, nil
}

// ConvertSingle 单构件模式，GUID不存在视为致命错误
func ConvertSingle(source methods.ModelSource, guid string, opts ConvertOptions, log *logrus.Entry) (*ConvertResult, error) {
	opts = opts.WithDefaults()

	elements, err := source.ListElements()
	if err != nil {
		return nil, fmt.Errorf("模型构件枚举失败: %v", err)
	}

	var target *methods.ModelElement
	for i := range elements {
		if elements[i].GUID == guid {
			target = &elements[i]
			break
		}
	}
	if target == nil {
		return nil, fmt.Errorf("element not found: %s", guid)
	}

	result := &ConvertResult{}
	result.Stats.Elements = 1
	rings, err := convertOneElement(source, target.GUID, opts, &result.Stats)
	if err != nil {
		result.Stats.FailedElements++
		log.WithError(err).WithField("element", guid).Warn("构件转换失败")
	}

	var collected []ElementGeometry
	if len(rings) > 0 {
		collected = append(collected, ElementGeometry{GUID: target.GUID, TypeLabel: target.TypeLabel, Rings: rings})
	}
	result.Stats.Features = len(collected)
	assemble(result, collected, opts)
	return result, nil
}

// convertOneElement 跑完单个构件的校验-投影-成环-归一化流水线
// 几何引擎的panic在此收敛为普通错误
func convertOneElement(source methods.ModelSource, guid string, opts ConvertOptions, stats *ConvertStats) (rings []Mesh.Ring, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("geometry source panic: %v", r)
		}
	}()

	meshes, err := source.GetMesh(guid)
	if err != nil {
		return nil, err
	}

	for _, m := range meshes {
		if m == nil || len(m.Vertices) == 0 {
			continue
		}
		// 投影框架按网格计算一次，全部三角面共用
		proj := Mesh.NewProjector(opts.Projection, m)
		for _, t := range m.Triangles {
			verts, ok := m.ValidateTriangle(t)
			if !ok {
				stats.SkippedTriangles++
				continue
			}
			ring := Mesh.BuildRing(verts, proj, opts.IncludeElevation)
			if ring == nil {
				stats.SkippedTriangles++
				continue
			}
			ring = NormalizeRing(ring, opts.Scale, opts.RangePolicy)
			if ring == nil {
				stats.SkippedTriangles++
				continue
			}
			rings = append(rings, ring)
		}
	}
	return rings, nil
}

func assemble(result *ConvertResult, collected []ElementGeometry, opts ConvertOptions) {
	if opts.IncludeElevation {
		result.Document = AssembleDocument(collected)
	} else {
		result.Collection = AssembleCollection(collected)
	}
}

func ringToOrb(ring Mesh.Ring) orb.Ring {
	out := make(orb.Ring, 0, len(ring))
	for _, pt := range ring {
		out = append(out, orb.Point{pt[0], pt[1]})
	}
	return out
}

// AssembleCollection 将各构件几何组装为orb FeatureCollection
// 单环出Polygon，多环出MultiPolygon，零环的构件不产出要素
func AssembleCollection(elements []ElementGeometry) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, eg := range elements {
		if len(eg.Rings) == 0 {
			continue
		}
		var geom orb.Geometry
		if len(eg.Rings) == 1 {
			geom = orb.Polygon{ringToOrb(eg.Rings[0])}
		} else {
			mp := make(orb.MultiPolygon, 0, len(eg.Rings))
			for _, r := range eg.Rings {
				mp = append(mp, orb.Polygon{ringToOrb(r)})
			}
			geom = mp
		}
		feature := geojson.NewFeature(geom)
		feature.ID = eg.GUID
		feature.Properties["type"] = eg.TypeLabel
		fc.Append(feature)
	}
	return fc
}

func (r *ConvertStats) String() string {
	return fmt.Sprintf("elements=%d features=%d skipped=%d failed=%d",
		r.Elements, r.Features, r.SkippedTriangles, r.FailedElements)
}

// ErrorDocument 致命错误时输出的错误文档
// error与stackTrace为诊断用非标准扩展字段
func ErrorDocument(err error) *GeoDocument {
	return &GeoDocument{
		Type:       "FeatureCollection",
		Features:   []GeoFeature{},
		Error:      err.Error(),
		StackTrace: string(debug.Stack()),
	}
}

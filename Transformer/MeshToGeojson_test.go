package Transformer

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"testing"

	"github.com/GrainArc/MeshMap/Mesh"
	"github.com/GrainArc/MeshMap/methods"
	"github.com/paulmach/orb"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubSource 测试用几何引擎
type stubSource struct {
	elements []methods.ModelElement
	meshes   map[string][]*Mesh.MeshData
	errFor   map[string]error
	panicFor map[string]bool
	listErr  error
}

func (s *stubSource) ListElements() ([]methods.ModelElement, error) {
	return s.elements, s.listErr
}

func (s *stubSource) GetMesh(guid string) ([]*Mesh.MeshData, error) {
	if s.panicFor[guid] {
		panic("engine blew up")
	}
	if err := s.errFor[guid]; err != nil {
		return nil, err
	}
	return s.meshes[guid], nil
}

func testLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func singleTriangleMesh() *Mesh.MeshData {
	return &Mesh.MeshData{
		Vertices: []Mesh.Vertex3D{
			{X: 0, Y: 0, Z: 0},
			{X: 10, Y: 0, Z: 0},
			{X: 0, Y: 10, Z: 0},
		},
		Triangles: []Mesh.Triangle{{A: 0, B: 1, C: 2}},
	}
}

func TestConvertModelSingleTriangle(t *testing.T) {
	source := &stubSource{
		elements: []methods.ModelElement{{GUID: "wall-1", TypeLabel: "Wall"}},
		meshes:   map[string][]*Mesh.MeshData{"wall-1": {singleTriangleMesh()}},
	}
	opts := ConvertOptions{
		Projection:  Mesh.ProjectionAxisDrop,
		RangePolicy: RangeClamp,
		Scale:       1e-5,
	}
	result, err := ConvertModel(source, opts, testLogger())
	require.NoError(t, err)
	require.NotNil(t, result.Collection)
	require.Len(t, result.Collection.Features, 1)

	feature := result.Collection.Features[0]
	assert.Equal(t, "wall-1", feature.ID)
	assert.Equal(t, "Wall", feature.Properties["type"])

	polygon, ok := feature.Geometry.(orb.Polygon)
	require.True(t, ok, "单环构件应输出Polygon")
	require.Len(t, polygon, 1)
	ring := polygon[0]
	require.Len(t, ring, 4)
	want := []orb.Point{{0, 0}, {1e-4, 0}, {0, 1e-4}, {0, 0}}
	for i, pt := range want {
		assert.InDelta(t, pt[0], ring[i][0], 1e-12)
		assert.InDelta(t, pt[1], ring[i][1], 1e-12)
	}
	assert.Equal(t, ring[0], ring[3])
	assert.Equal(t, 1, result.Stats.Features)
}

func TestConvertModelNaNVertexYieldsNoFeature(t *testing.T) {
	m := singleTriangleMesh()
	m.Vertices[0].X = math.NaN()
	source := &stubSource{
		elements: []methods.ModelElement{{GUID: "e1", TypeLabel: "Wall"}},
		meshes:   map[string][]*Mesh.MeshData{"e1": {m}},
	}
	result, err := ConvertModel(source, ConvertOptions{}, testLogger())
	require.NoError(t, err)
	assert.Empty(t, result.Collection.Features)
	assert.Equal(t, 1, result.Stats.SkippedTriangles)
}

func TestConvertModelPCAWithNaNVertexKeepsValidTriangle(t *testing.T) {
	// 网格里混入一个NaN顶点，只有引用它的三角面被丢弃
	m := singleTriangleMesh()
	m.Vertices = append(m.Vertices, Mesh.Vertex3D{X: math.NaN(), Y: 0, Z: 0})
	m.Triangles = append(m.Triangles, Mesh.Triangle{A: 0, B: 1, C: 3})
	source := &stubSource{
		elements: []methods.ModelElement{{GUID: "wall-1", TypeLabel: "Wall"}},
		meshes:   map[string][]*Mesh.MeshData{"wall-1": {m}},
	}
	opts := ConvertOptions{Projection: Mesh.ProjectionPCA, RangePolicy: RangeClamp}
	result, err := ConvertModel(source, opts, testLogger())
	require.NoError(t, err)
	require.Len(t, result.Collection.Features, 1)
	assert.Equal(t, "wall-1", result.Collection.Features[0].ID)
	assert.Equal(t, 1, result.Stats.SkippedTriangles)
}

func TestConvertModelTwoTrianglesMultiPolygon(t *testing.T) {
	m := &Mesh.MeshData{
		Vertices: []Mesh.Vertex3D{
			{X: 0, Y: 0, Z: 0},
			{X: 10, Y: 0, Z: 0},
			{X: 0, Y: 10, Z: 0},
			{X: 100, Y: 100, Z: 0},
			{X: 110, Y: 100, Z: 0},
			{X: 100, Y: 110, Z: 0},
		},
		Triangles: []Mesh.Triangle{{A: 0, B: 1, C: 2}, {A: 3, B: 4, C: 5}},
	}
	source := &stubSource{
		elements: []methods.ModelElement{{GUID: "roof-1", TypeLabel: "Roof"}},
		meshes:   map[string][]*Mesh.MeshData{"roof-1": {m}},
	}
	result, err := ConvertModel(source, ConvertOptions{RangePolicy: RangeClamp}, testLogger())
	require.NoError(t, err)
	require.Len(t, result.Collection.Features, 1)

	mp, ok := result.Collection.Features[0].Geometry.(orb.MultiPolygon)
	require.True(t, ok, "多环构件应输出MultiPolygon")
	require.Len(t, mp, 2)
	// 每个环单独包装为一个单环多边形
	assert.Len(t, mp[0], 1)
	assert.Len(t, mp[1], 1)
}

func TestConvertModelElementFailureSkipped(t *testing.T) {
	source := &stubSource{
		elements: []methods.ModelElement{
			{GUID: "bad", TypeLabel: "Wall"},
			{GUID: "good", TypeLabel: "Wall"},
		},
		meshes: map[string][]*Mesh.MeshData{"good": {singleTriangleMesh()}},
		errFor: map[string]error{"bad": fmt.Errorf("engine failure")},
	}
	result, err := ConvertModel(source, ConvertOptions{}, testLogger())
	require.NoError(t, err)
	require.Len(t, result.Collection.Features, 1)
	assert.Equal(t, "good", result.Collection.Features[0].ID)
	assert.Equal(t, 1, result.Stats.FailedElements)
}

func TestConvertModelEnginePanicRecovered(t *testing.T) {
	source := &stubSource{
		elements: []methods.ModelElement{
			{GUID: "boom", TypeLabel: "Wall"},
			{GUID: "good", TypeLabel: "Wall"},
		},
		meshes:   map[string][]*Mesh.MeshData{"good": {singleTriangleMesh()}},
		panicFor: map[string]bool{"boom": true},
	}
	result, err := ConvertModel(source, ConvertOptions{}, testLogger())
	require.NoError(t, err)
	require.Len(t, result.Collection.Features, 1)
	assert.Equal(t, 1, result.Stats.FailedElements)
}

func TestConvertSingleMissingElement(t *testing.T) {
	source := &stubSource{
		elements: []methods.ModelElement{{GUID: "exists", TypeLabel: "Wall"}},
		meshes:   map[string][]*Mesh.MeshData{"exists": {singleTriangleMesh()}},
	}
	_, err := ConvertSingle(source, "missing", ConvertOptions{}, testLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing")

	doc := ErrorDocument(err)
	assert.Equal(t, "FeatureCollection", doc.Type)
	assert.Empty(t, doc.Features)
	assert.Contains(t, doc.Error, "missing")
	assert.NotEmpty(t, doc.StackTrace)

	// 错误文档序列化后带error与stackTrace扩展字段
	data, merr := json.Marshal(doc)
	require.NoError(t, merr)
	assert.Contains(t, string(data), `"error"`)
	assert.Contains(t, string(data), `"stackTrace"`)
}

func TestConvertSingleFound(t *testing.T) {
	source := &stubSource{
		elements: []methods.ModelElement{
			{GUID: "a", TypeLabel: "Wall"},
			{GUID: "b", TypeLabel: "Roof"},
		},
		meshes: map[string][]*Mesh.MeshData{
			"a": {singleTriangleMesh()},
			"b": {singleTriangleMesh()},
		},
	}
	result, err := ConvertSingle(source, "b", ConvertOptions{}, testLogger())
	require.NoError(t, err)
	require.Len(t, result.Collection.Features, 1)
	assert.Equal(t, "b", result.Collection.Features[0].ID)
	assert.Equal(t, "Roof", result.Collection.Features[0].Properties["type"])
}

func TestConvertModelWithElevationDocument(t *testing.T) {
	m := &Mesh.MeshData{
		Vertices: []Mesh.Vertex3D{
			{X: 0, Y: 0, Z: 5},
			{X: 10, Y: 0, Z: 5},
			{X: 0, Y: 10, Z: 5},
		},
		Triangles: []Mesh.Triangle{{A: 0, B: 1, C: 2}},
	}
	source := &stubSource{
		elements: []methods.ModelElement{{GUID: "e1", TypeLabel: "Roof"}},
		meshes:   map[string][]*Mesh.MeshData{"e1": {m}},
	}
	opts := ConvertOptions{RangePolicy: RangeClamp, IncludeElevation: true}
	result, err := ConvertModel(source, opts, testLogger())
	require.NoError(t, err)
	require.Nil(t, result.Collection)
	require.NotNil(t, result.Document)
	require.Len(t, result.Document.Features, 1)

	feature := result.Document.Features[0]
	assert.Equal(t, "Polygon", feature.Geometry.Type)
	coords, ok := feature.Geometry.Coordinates.([][][]float64)
	require.True(t, ok)
	require.Len(t, coords, 1)
	require.Len(t, coords[0], 4)
	for _, pt := range coords[0] {
		require.Len(t, pt, 3)
		// 高程原样透传
		assert.Equal(t, 5.0, pt[2])
	}
}

func TestConvertModelListError(t *testing.T) {
	source := &stubSource{listErr: fmt.Errorf("model cannot be opened")}
	_, err := ConvertModel(source, ConvertOptions{}, testLogger())
	require.Error(t, err)
}

func TestConvertModelFlatIndexBuffer(t *testing.T) {
	m := &Mesh.MeshData{
		Vertices: []Mesh.Vertex3D{
			{X: 0, Y: 0, Z: 0},
			{X: 10, Y: 0, Z: 0},
			{X: 0, Y: 10, Z: 0},
		},
		Triangles: Mesh.FromIndexBuffer([]int{0, 1, 2}),
	}
	source := &stubSource{
		elements: []methods.ModelElement{{GUID: "e1", TypeLabel: "Wall"}},
		meshes:   map[string][]*Mesh.MeshData{"e1": {m}},
	}
	result, err := ConvertModel(source, ConvertOptions{}, testLogger())
	require.NoError(t, err)
	assert.Len(t, result.Collection.Features, 1)
}

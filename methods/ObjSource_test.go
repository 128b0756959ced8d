package methods

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleObj = `# sample building
o Roof_01
v 0 0 10
v 10 0 10
v 10 10 10
v 0 10 10
f 1 2 3 4
o Wall_01
v 0 0 0
v 10 0 0
f 1/1/1 2/2/2 6/6/6 5/5/5
`

func writeTempObj(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.obj")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestObjSourceElements(t *testing.T) {
	src, err := NewObjSource(writeTempObj(t, sampleObj))
	require.NoError(t, err)

	elements, err := src.ListElements()
	require.NoError(t, err)
	require.Len(t, elements, 2)
	assert.Equal(t, "Roof_01", elements[0].GUID)
	assert.Equal(t, "Roof", elements[0].TypeLabel)
	assert.Equal(t, "Wall_01", elements[1].GUID)
	assert.Equal(t, "Wall", elements[1].TypeLabel)
}

func TestObjSourceFanTriangulation(t *testing.T) {
	src, err := NewObjSource(writeTempObj(t, sampleObj))
	require.NoError(t, err)

	meshes, err := src.GetMesh("Roof_01")
	require.NoError(t, err)
	require.Len(t, meshes, 1)
	m := meshes[0]
	// 四边形面扇形剖分为2个三角面
	assert.Len(t, m.Triangles, 2)
	assert.Len(t, m.Vertices, 4)
	assert.Equal(t, 10.0, m.Vertices[0].Z)
}

func TestObjSourceSlashIndices(t *testing.T) {
	src, err := NewObjSource(writeTempObj(t, sampleObj))
	require.NoError(t, err)

	meshes, err := src.GetMesh("Wall_01")
	require.NoError(t, err)
	require.Len(t, meshes, 1)
	// v/vt/vn 只取顶点索引
	assert.Len(t, meshes[0].Triangles, 2)
}

func TestObjSourceUnknownElement(t *testing.T) {
	src, err := NewObjSource(writeTempObj(t, sampleObj))
	require.NoError(t, err)

	meshes, err := src.GetMesh("nope")
	require.NoError(t, err)
	assert.Nil(t, meshes)
}

func TestObjSourceNegativeIndices(t *testing.T) {
	content := `o Slab
v 0 0 0
v 1 0 0
v 0 1 0
f -3 -2 -1
`
	src, err := NewObjSource(writeTempObj(t, content))
	require.NoError(t, err)
	meshes, err := src.GetMesh("Slab")
	require.NoError(t, err)
	require.Len(t, meshes, 1)
	require.Len(t, meshes[0].Triangles, 1)
	tri := meshes[0].Triangles[0]
	assert.Equal(t, 0, tri.A)
	assert.Equal(t, 1, tri.B)
	assert.Equal(t, 2, tri.C)
}

func TestObjSourceEmptyModel(t *testing.T) {
	_, err := NewObjSource(writeTempObj(t, "v 0 0 0\nv 1 1 1\n"))
	assert.Error(t, err)
}

func TestObjSourceMissingFile(t *testing.T) {
	_, err := NewObjSource(filepath.Join(t.TempDir(), "absent.obj"))
	assert.Error(t, err)
}

func TestOpenModelSourceUnsupported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.ifc")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
	_, err := OpenModelSource(path)
	assert.Error(t, err)
}

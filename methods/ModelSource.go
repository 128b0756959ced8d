package methods

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/GrainArc/MeshMap/Mesh"
)

// ModelElement 模型中的一个可转换构件
type ModelElement struct {
	GUID      string
	TypeLabel string
}

// ModelSource 几何引擎接口：枚举构件并给出三角网格
type ModelSource interface {
	// ListElements 按稳定顺序枚举带几何的构件
	ListElements() ([]ModelElement, error)
	// GetMesh 返回构件的三角网格，nil表示该构件无几何表达
	GetMesh(guid string) ([]*Mesh.MeshData, error)
}

// OpenModelSource 根据文件后缀选择模型读取器
// 文件打不开或格式不支持属于致命错误，由调用方中止本次转换
func OpenModelSource(path string) (ModelSource, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".obj":
		return NewObjSource(path)
	case ".stl":
		return NewStlSource(path)
	default:
		return nil, fmt.Errorf("不支持的模型格式: %s", filepath.Ext(path))
	}
}

package methods

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/GrainArc/MeshMap/Mesh"
	"github.com/google/uuid"
)

// stlRecord 二进制STL的50字节三角面记录
type stlRecord struct {
	Normal [3]float32
	Vertex [3][3]float32
	Attr   uint16
}

// StlSource 读取二进制STL模型，整个文件视为一个构件
type StlSource struct {
	element ModelElement
	mesh    *Mesh.MeshData
}

// NewStlSource 打开并解析二进制STL文件
func NewStlSource(path string) (*StlSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("无法打开模型文件: %v", err)
	}
	// 80字节头 + 4字节三角面数
	if len(data) < 84 {
		return nil, fmt.Errorf("STL文件过短: %d字节", len(data))
	}
	if bytes.HasPrefix(bytes.TrimSpace(data[:6]), []byte("solid")) && !looksBinary(data) {
		return nil, fmt.Errorf("不支持ASCII格式的STL文件")
	}

	reader := bytes.NewReader(data[80:])
	var count uint32
	if err := binary.Read(reader, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("STL文件头解析失败: %v", err)
	}

	m := &Mesh.MeshData{}
	var indices []int
	for i := uint32(0); i < count; i++ {
		var rec stlRecord
		if err := binary.Read(reader, binary.LittleEndian, &rec); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				// 截断的尾部三角面丢弃，已读出的部分仍然有效
				break
			}
			return nil, fmt.Errorf("STL三角面解析失败: %v", err)
		}
		for _, v := range rec.Vertex {
			indices = append(indices, len(m.Vertices))
			m.Vertices = append(m.Vertices, Mesh.Vertex3D{
				X: float64(v[0]),
				Y: float64(v[1]),
				Z: float64(v[2]),
			})
		}
	}
	// STL的顶点流本身就是平铺索引缓冲
	m.Triangles = Mesh.FromIndexBuffer(indices)
	if len(m.Triangles) == 0 {
		return nil, fmt.Errorf("模型中没有任何三角面")
	}

	return &StlSource{
		element: ModelElement{GUID: uuid.New().String(), TypeLabel: "Solid"},
		mesh:    m,
	}, nil
}

// looksBinary 按记录长度推断是否为二进制STL
// 个别二进制文件的头部也以solid开头，不能只看前缀
func looksBinary(data []byte) bool {
	count := binary.LittleEndian.Uint32(data[80:84])
	return len(data) == 84+int(count)*50
}

// ListElements 整个STL文件只有一个构件
func (s *StlSource) ListElements() ([]ModelElement, error) {
	return []ModelElement{s.element}, nil
}

// GetMesh 返回构件的网格
func (s *StlSource) GetMesh(guid string) ([]*Mesh.MeshData, error) {
	if guid != s.element.GUID {
		return nil, nil
	}
	return []*Mesh.MeshData{s.mesh}, nil
}

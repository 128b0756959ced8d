package methods

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/GrainArc/MeshMap/Mesh"
	"github.com/google/uuid"
)

// ObjSource 读取Wavefront OBJ模型
// 每个 o/g 对象视为一个构件，无名称的对象分配uuid
type ObjSource struct {
	order  []ModelElement
	meshes map[string][]*Mesh.MeshData
}

// objObject 解析过程中的单个对象，面索引基于全局顶点表
type objObject struct {
	name  string
	faces [][]int
}

// NewObjSource 打开并解析OBJ文件
func NewObjSource(path string) (*ObjSource, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("无法打开模型文件: %v", err)
	}
	defer file.Close()

	var vertices []Mesh.Vertex3D
	var objects []*objObject
	current := &objObject{}

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "o", "g":
			if len(current.faces) > 0 {
				objects = append(objects, current)
			}
			name := ""
			if len(fields) > 1 {
				name = strings.Join(fields[1:], " ")
			}
			current = &objObject{name: name}
		case "v":
			if len(fields) < 4 {
				continue
			}
			x, errX := strconv.ParseFloat(fields[1], 64)
			y, errY := strconv.ParseFloat(fields[2], 64)
			z, errZ := strconv.ParseFloat(fields[3], 64)
			if errX != nil || errY != nil || errZ != nil {
				continue
			}
			vertices = append(vertices, Mesh.Vertex3D{X: x, Y: y, Z: z})
		case "f":
			idx := parseFaceIndices(fields[1:], len(vertices))
			if len(idx) >= 3 {
				current.faces = append(current.faces, idx)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("模型文件读取失败: %v", err)
	}
	if len(current.faces) > 0 {
		objects = append(objects, current)
	}
	if len(objects) == 0 {
		return nil, fmt.Errorf("模型中没有任何带几何的对象")
	}

	src := &ObjSource{meshes: make(map[string][]*Mesh.MeshData)}
	for _, obj := range objects {
		guid := obj.name
		if guid == "" {
			guid = uuid.New().String()
		}
		// 同名对象合并到同一个构件
		if _, exists := src.meshes[guid]; !exists {
			src.order = append(src.order, ModelElement{GUID: guid, TypeLabel: typeLabelOf(obj.name)})
		}
		src.meshes[guid] = append(src.meshes[guid], buildObjMesh(vertices, obj.faces))
	}
	return src, nil
}

// parseFaceIndices 解析面记录的顶点索引
// OBJ索引从1开始，负数为相对索引，v/vt/vn只取顶点部分
func parseFaceIndices(tokens []string, vertexCount int) []int {
	var idx []int
	for _, token := range tokens {
		part := strings.SplitN(token, "/", 2)[0]
		v, err := strconv.Atoi(part)
		if err != nil {
			return nil
		}
		if v < 0 {
			v = vertexCount + v
		} else {
			v = v - 1
		}
		idx = append(idx, v)
	}
	return idx
}

// buildObjMesh 将对象的面重映射到紧凑顶点表，多边形面做扇形剖分
func buildObjMesh(vertices []Mesh.Vertex3D, faces [][]int) *Mesh.MeshData {
	m := &Mesh.MeshData{}
	remap := make(map[int]int)

	local := func(global int) int {
		if id, ok := remap[global]; ok {
			return id
		}
		// 越界索引标记为-1，由校验层丢弃对应三角面
		id := -1
		if global >= 0 && global < len(vertices) {
			id = len(m.Vertices)
			m.Vertices = append(m.Vertices, vertices[global])
		}
		remap[global] = id
		return id
	}

	for _, face := range faces {
		for i := 1; i+1 < len(face); i++ {
			a := local(face[0])
			b := local(face[i])
			c := local(face[i+1])
			m.Triangles = append(m.Triangles, Mesh.Triangle{A: a, B: b, C: c})
		}
	}
	return m
}

// typeLabelOf 按对象名推断构件类型
func typeLabelOf(name string) string {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "roof"):
		return "Roof"
	case strings.Contains(lower, "wall"):
		return "Wall"
	case strings.Contains(lower, "ground"), strings.Contains(lower, "floor"):
		return "Ground"
	default:
		return "Building"
	}
}

// ListElements 按文件中出现顺序枚举构件
func (s *ObjSource) ListElements() ([]ModelElement, error) {
	out := make([]ModelElement, len(s.order))
	copy(out, s.order)
	return out, nil
}

// GetMesh 返回构件的网格，不存在的构件返回nil
func (s *ObjSource) GetMesh(guid string) ([]*Mesh.MeshData, error) {
	return s.meshes[guid], nil
}

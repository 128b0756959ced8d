package views

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/GrainArc/MeshMap/Transformer"
	"github.com/GrainArc/MeshMap/config"
	"github.com/GrainArc/MeshMap/methods"
	"github.com/GrainArc/MeshMap/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/paulmach/orb/geojson"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("module", "views")

type MeshController struct{}

// optionsFromForm 从表单解析转换参数，缺省取配置文件的默认值
func optionsFromForm(c *gin.Context) Transformer.ConvertOptions {
	opts := Transformer.ConvertOptions{
		Projection:       c.DefaultPostForm("projection", config.Projection),
		RangePolicy:      c.DefaultPostForm("rangepolicy", config.RangePolicy),
		Scale:            config.Scale,
		IncludeElevation: config.IncludeElevation,
	}
	if v := c.PostForm("scale"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			opts.Scale = f
		}
	}
	if v := c.PostForm("includeelevation"); v != "" {
		opts.IncludeElevation = v == "true" || v == "1"
	}
	return opts
}

// ConvertModel 上传模型文件并整体转换为GeoJSON
// 表单带element字段时只转换指定构件
func (mc *MeshController) ConvertModel(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "缺少模型文件"})
		return
	}

	bsm := uuid.New().String()
	dir := filepath.Join(config.Download, bsm)
	os.MkdirAll(dir, os.ModePerm)
	path := filepath.Join(dir, filepath.Base(file.Filename))
	if err := c.SaveUploadedFile(file, path); err != nil {
		c.JSON(http.StatusInternalServerError, Transformer.ErrorDocument(err))
		return
	}

	mc.runConvert(c, path, c.PostForm("element"), optionsFromForm(c))
}

// ElementData 按服务器本地路径转换单个构件的请求体
type ElementData struct {
	Path             string
	Element          string
	Projection       string
	RangePolicy      string
	Scale            float64
	IncludeElevation *bool
}

// ConvertElement 转换服务器上已有模型文件中的单个构件
// 构件GUID不存在属于致命错误，整体返回错误文档
func (mc *MeshController) ConvertElement(c *gin.Context) {
	var jsonData ElementData
	c.BindJSON(&jsonData)
	if jsonData.Path == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "缺少模型文件路径"})
		return
	}

	opts := Transformer.ConvertOptions{
		Projection:       jsonData.Projection,
		RangePolicy:      jsonData.RangePolicy,
		Scale:            jsonData.Scale,
		IncludeElevation: config.IncludeElevation,
	}
	if opts.Projection == "" {
		opts.Projection = config.Projection
	}
	if opts.RangePolicy == "" {
		opts.RangePolicy = config.RangePolicy
	}
	if opts.Scale == 0 {
		opts.Scale = config.Scale
	}
	if jsonData.IncludeElevation != nil {
		opts.IncludeElevation = *jsonData.IncludeElevation
	}

	mc.runConvert(c, jsonData.Path, jsonData.Element, opts)
}

func (mc *MeshController) runConvert(c *gin.Context, path string, element string, opts Transformer.ConvertOptions) {
	start := time.Now()
	logger := log.WithField("file", filepath.Base(path))

	source, err := methods.OpenModelSource(path)
	if err != nil {
		mc.finish(c, path, element, opts, nil, err, start)
		return
	}

	var result *Transformer.ConvertResult
	if element != "" {
		result, err = Transformer.ConvertSingle(source, element, opts, logger)
	} else {
		result, err = Transformer.ConvertModel(source, opts, logger)
	}
	mc.finish(c, path, element, opts, result, err, start)
}

// finish 写转换记录并输出结果或错误文档
func (mc *MeshController) finish(c *gin.Context, path string, element string, opts Transformer.ConvertOptions, result *Transformer.ConvertResult, err error, start time.Time) {
	optJSON, _ := json.Marshal(opts)
	record := models.ConversionRecord{
		FileName:    filepath.Base(path),
		ElementGUID: element,
		Options:     string(optJSON),
		Duration:    time.Since(start).Seconds(),
		Date:        time.Now().Format("2006-01-02 15:04:05"),
	}

	if err != nil {
		record.Status = "error"
		record.Message = err.Error()
		saveRecord(&record)
		log.WithError(err).Error("模型转换失败")
		c.JSON(http.StatusInternalServerError, Transformer.ErrorDocument(err))
		return
	}

	record.Status = "ok"
	record.Elements = result.Stats.Elements
	record.Features = result.Stats.Features
	record.SkippedTriangles = result.Stats.SkippedTriangles
	record.FailedElements = result.Stats.FailedElements
	saveRecord(&record)
	c.JSON(http.StatusOK, result.Body())
}

func saveRecord(record *models.ConversionRecord) {
	if models.DB == nil {
		return
	}
	if err := models.DB.Create(record).Error; err != nil {
		log.WithError(err).Warn("转换记录写入失败")
	}
}

// ConvertRecord 查询最近的转换记录
func (mc *MeshController) ConvertRecord(c *gin.Context) {
	var records []models.ConversionRecord
	db := models.DB
	if db == nil {
		c.JSON(http.StatusOK, records)
		return
	}
	db.Order("id desc").Limit(100).Find(&records)
	c.JSON(http.StatusOK, records)
}

// ShpOutData 导出shp的请求体
type ShpOutData struct {
	Filename string
	Geojson  geojson.FeatureCollection
}

// OutShp 将FeatureCollection导出为shp压缩包
func (mc *MeshController) OutShp(c *gin.Context) {
	var jsonData ShpOutData
	c.BindJSON(&jsonData)
	if len(jsonData.Geojson.Features) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "空的FeatureCollection"})
		return
	}

	name := jsonData.Filename
	if name == "" {
		name = "footprint"
	}
	bsm := uuid.New().String()
	outDir := filepath.Join(config.Download, bsm)
	os.MkdirAll(outDir, os.ModePerm)

	if err := Transformer.ConvertGeoJSONToSHP(&jsonData.Geojson, filepath.Join(outDir, name+".shp")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if err := methods.ZipFolder(outDir, name); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.FileAttachment(filepath.Join(outDir, name+".zip"), name+".zip")
}

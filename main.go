package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/GrainArc/MeshMap/Transformer"
	"github.com/GrainArc/MeshMap/config"
	"github.com/GrainArc/MeshMap/methods"
	"github.com/GrainArc/MeshMap/models"
	"github.com/GrainArc/MeshMap/routers"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	input := flag.String("input", "", "模型文件路径，指定后以命令行模式运行")
	element := flag.String("element", "", "只转换指定GUID的构件")
	output := flag.String("o", "", "GeoJSON输出文件，缺省输出到标准输出")
	flag.Parse()

	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if *input != "" {
		runConvert(*input, *element, *output)
		return
	}

	if err := models.InitDB(); err != nil {
		logrus.WithError(err).Fatal("数据库初始化失败")
	}
	r := gin.Default()
	routers.MeshRouters(r)
	r.Run(config.MainRouter)
}

// runConvert 命令行模式：单次转换，致命错误输出错误文档并以非零码退出
func runConvert(input string, element string, output string) {
	opts := Transformer.ConvertOptions{
		Projection:       config.Projection,
		RangePolicy:      config.RangePolicy,
		Scale:            config.Scale,
		IncludeElevation: config.IncludeElevation,
	}
	logger := logrus.WithField("file", input)

	body, err := convert(input, element, opts, logger)
	if err != nil {
		logger.WithError(err).Error("模型转换失败")
		emit(Transformer.ErrorDocument(err), output)
		os.Exit(1)
	}
	emit(body, output)
}

func convert(input string, element string, opts Transformer.ConvertOptions, logger *logrus.Entry) (interface{}, error) {
	source, err := methods.OpenModelSource(input)
	if err != nil {
		return nil, err
	}

	var result *Transformer.ConvertResult
	if element != "" {
		result, err = Transformer.ConvertSingle(source, element, opts, logger)
	} else {
		result, err = Transformer.ConvertModel(source, opts, logger)
	}
	if err != nil {
		return nil, err
	}
	logger.Info(result.Stats.String())
	return result.Body(), nil
}

func emit(body interface{}, output string) {
	data, err := json.Marshal(body)
	if err != nil {
		logrus.WithError(err).Error("结果序列化失败")
		os.Exit(1)
	}
	if output == "" {
		fmt.Println(string(data))
		return
	}
	if err := os.WriteFile(output, data, 0644); err != nil {
		logrus.WithError(err).Error("结果写入失败")
		os.Exit(1)
	}
}

package config

import (
	"encoding/xml"
	"fmt"
	"os"
)

var MainRouter string
var Download string
var Dbname string
var Projection string
var RangePolicy string
var Scale float64
var IncludeElevation bool
var MainConfig Config

type Config struct {
	XMLName          xml.Name `xml:"config"`
	MainRouter       string   `xml:"MainRouter"`
	Dbname           string   `xml:"dbname"`
	Download         string   `xml:"download"`
	Projection       string   `xml:"projection"`
	RangePolicy      string   `xml:"rangepolicy"`
	Scale            float64  `xml:"scale"`
	IncludeElevation bool     `xml:"includeelevation"`
}

func init() {

	xmlFile, err := os.Open("config.xml")
	if err != nil {
		fmt.Println("Error  opening  file:", err)
		applyDefaults()
		return
	}
	defer xmlFile.Close()

	xmlDecoder := xml.NewDecoder(xmlFile)
	err = xmlDecoder.Decode(&MainConfig)
	if err != nil {
		fmt.Println("Error  decoding  XML:", err)
		applyDefaults()
		return
	}
	MainRouter = MainConfig.MainRouter
	Download = MainConfig.Download
	Dbname = MainConfig.Dbname
	Projection = MainConfig.Projection
	RangePolicy = MainConfig.RangePolicy
	Scale = MainConfig.Scale
	IncludeElevation = MainConfig.IncludeElevation
	applyDefaults()
}

// applyDefaults 补齐配置文件缺失的项
func applyDefaults() {
	if MainRouter == "" {
		MainRouter = "0.0.0.0:8426"
	}
	if Download == "" {
		Download = "./Download"
	}
	if Dbname == "" {
		Dbname = "meshmap.db"
	}
	if Projection == "" {
		Projection = "axisdrop"
	}
	if RangePolicy == "" {
		RangePolicy = "wrap"
	}
	if Scale == 0 {
		Scale = 1e-5
	}
}

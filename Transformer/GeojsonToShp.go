package Transformer

import (
	"fmt"

	"gitee.com/LJ_COOL/go-shp"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

func ringToShpPoints(ring orb.Ring) []shp.Point {
	var points []shp.Point
	for _, pt := range ring {
		points = append(points, shp.Point{X: pt[0], Y: pt[1]})
	}
	return points
}

func writeShpAttributes(w *shp.Writer, row int, id string, typeLabel string) {
	if err := w.WriteAttribute(row, 0, id); err != nil {
		fmt.Println(err.Error())
	}
	if err := w.WriteAttribute(row, 1, typeLabel); err != nil {
		fmt.Println(err.Error())
	}
}

// ConvertGeoJSONToSHP 将FeatureCollection中的面要素导出为shp
// 本系统只产出Polygon和MultiPolygon，其他几何类型直接忽略
func ConvertGeoJSONToSHP(GeoData *geojson.FeatureCollection, shpfileFilePath string) error {
	shpFile, err := shp.Create(shpfileFilePath, shp.POLYGON)
	if err != nil {
		return fmt.Errorf("无法创建shp文件: %v", err)
	}
	defer shpFile.Close()

	fields := []shp.Field{
		shp.StringField([]byte("GUID"), 64),
		shp.StringField([]byte("TYPE"), 120),
	}
	shpFile.SetFields(fields)

	n := 0
	for _, feature := range GeoData.Features {
		if feature.Geometry == nil {
			continue
		}
		id := fmt.Sprintf("%v", feature.ID)
		typeLabel := fmt.Sprintf("%v", feature.Properties["type"])

		switch geom := feature.Geometry.(type) {
		case orb.Polygon:
			var PL [][]shp.Point
			for _, ring := range geom {
				PL = append(PL, ringToShpPoints(ring))
			}
			shpFile.Write(shp.NewPolyLine(PL))
			writeShpAttributes(shpFile, n, id, typeLabel)
			n += 1
		case orb.MultiPolygon:
			for _, poly := range geom {
				var PL [][]shp.Point
				for _, ring := range poly {
					PL = append(PL, ringToShpPoints(ring))
				}
				shpFile.Write(shp.NewPolyLine(PL))
				writeShpAttributes(shpFile, n, id, typeLabel)
				n += 1
			}
		}
	}
	return nil
}

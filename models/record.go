package models

// ConversionRecord 一次模型转换的留痕记录
type ConversionRecord struct {
	ID               int64  `gorm:"primary_key;autoIncrement"`
	FileName         string `gorm:"type:varchar(255)"`
	ElementGUID      string `gorm:"type:varchar(255)"` // 单构件模式时记录目标GUID
	Elements         int
	Features         int
	SkippedTriangles int
	FailedElements   int
	Options          string `gorm:"type:varchar(255)"` // 转换参数的JSON快照
	Status           string `gorm:"type:varchar(32)"`  // ok 或 error
	Message          string
	Duration         float64 // 秒
	Date             string  `gorm:"type:varchar(255)"`
}

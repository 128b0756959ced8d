package models

import (
	"log"
	"os"
	"path/filepath"

	"github.com/GrainArc/MeshMap/config"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

var DB *gorm.DB

// InitDB 初始化SQLite数据库并迁移表结构
func InitDB() error {
	// 确保目录存在
	if err := os.MkdirAll(config.Download, os.ModePerm); err != nil {
		log.Printf("创建存储目录失败: %v", err)
		return err
	}

	dbPath := filepath.Join(config.Download, config.Dbname)
	log.Printf("数据库路径: %s", dbPath)

	var err error
	DB, err = gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		log.Printf("连接数据库失败: %v", err)
		return err
	}

	DB.NamingStrategy = schema.NamingStrategy{
		SingularTable: true,
	}

	// 自动迁移，创建表结构
	if err := DB.AutoMigrate(&ConversionRecord{}); err != nil {
		log.Printf("数据库迁移失败: %v", err)
		return err
	}

	log.Println("数据库初始化成功")
	return nil
}

// GetDB 获取数据库实例
func GetDB() *gorm.DB {
	return DB
}

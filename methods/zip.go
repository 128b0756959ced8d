package methods

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
)

// ZipFolder 将目录打包为目录内的name.zip
func ZipFolder(folderPath string, name string) error {
	zipPath := filepath.Join(folderPath, name+".zip")
	zipFile, err := os.Create(zipPath)
	if err != nil {
		return err
	}
	defer zipFile.Close()
	zipWriter := zip.NewWriter(zipFile)
	defer zipWriter.Close()
	return filepath.Walk(folderPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		// 跳过zip文件本身与目录项
		if zipPath == path || info.IsDir() {
			return nil
		}
		relPath, err := filepath.Rel(folderPath, path)
		if err != nil {
			return err
		}
		zipFileHeader, err := zipWriter.Create(relPath)
		if err != nil {
			return err
		}
		file, err := os.Open(path)
		if err != nil {
			return err
		}
		defer file.Close()
		_, err = io.Copy(zipFileHeader, file)
		if err != nil {
			return err
		}
		return nil
	})
}

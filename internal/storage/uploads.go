package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Extensiones de imagen aceptadas en las subidas.
var allowedImageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".bmp":  true,
	".tiff": true,
}

// IsAllowedImage valida la extension del archivo subido.
func IsAllowedImage(filename string) bool {
	return allowedImageExtensions[strings.ToLower(filepath.Ext(filename))]
}

// UploadStore guarda subidas temporales bajo un directorio y las limpia despues.
// Toda subida debe eliminarse tanto en el camino de exito como en el de error.
type UploadStore struct {
	dir    string
	logger *zap.Logger
}

func NewUploadStore(dir string, logger *zap.Logger) (*UploadStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir %s: %w", dir, err)
	}
	return &UploadStore{dir: dir, logger: logger}, nil
}

// Save copia el archivo subido a un nombre aleatorio dentro del directorio y
// devuelve la ruta. El nombre original del cliente nunca se usa como ruta.
func (s *UploadStore) Save(fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	path := filepath.Join(s.dir, uuid.NewString()+strings.ToLower(filepath.Ext(fh.Filename)))
	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("write upload file: %w", err)
	}
	return path, nil
}

// Remove borra la subida temporal; una falla solo se registra, no se propaga.
func (s *UploadStore) Remove(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		if s.logger != nil {
			s.logger.Warn("failed to cleanup upload", zap.String("path", path), zap.Error(err))
		}
	}
}

package handler

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// allowed avatar extensions
var imageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// saveAvatar stores an uploaded image under dir with a random filename and
// returns the stored filename. Only the filename is persisted on the user
// row; serving the file is the static route's job.
func saveAvatar(c *gin.Context, file *multipart.FileHeader, dir string, maxSizeMB int64) (string, error) {
	if maxSizeMB <= 0 {
		maxSizeMB = 5
	}
	if file.Size > maxSizeMB*1024*1024 {
		return "", fmt.Errorf("image larger than %dMB", maxSizeMB)
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !imageExts[ext] {
		return "", fmt.Errorf("unsupported image type %q", ext)
	}

	name := uuid.New().String() + ext
	if err := c.SaveUploadedFile(file, filepath.Join(dir, name)); err != nil {
		return "", fmt.Errorf("save image: %w", err)
	}
	return name, nil
}

package utils

import (
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

const thumbWidth = 480

// SaveRecipeImage stores an uploaded image under dir and writes a resized
// thumbnail next to it. Returns the public path of the full image.
func SaveRecipeImage(file multipart.File, header *multipart.FileHeader, dir string) (string, error) {
	img, err := imaging.Decode(file)
	if err != nil {
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext != ".png" && ext != ".gif" {
		ext = ".jpg"
	}
	name := uuid.NewString() + ext

	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return "", err
	}
	if err := imaging.Save(img, filepath.Join(dir, name)); err != nil {
		return "", err
	}

	thumb := imaging.Resize(img, thumbWidth, 0, imaging.Lanczos)
	if err := imaging.Save(thumb, filepath.Join(dir, "thumb_"+name)); err != nil {
		return "", err
	}

	return "/static/uploads/" + name, nil
}

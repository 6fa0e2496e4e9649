package imageio

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"path/filepath"
	"strings"

	"github.com/up-zero/gotool/imageutil"

	"iseg-kit/internal/domain/entity"
)

const jpegQuality = 95

// LoadImage читает изображение с диска
func LoadImage(path string) (image.Image, error) {
	img, err := imageutil.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image %s: %w", path, err)
	}
	return img, nil
}

// LoadMask читает маску аннотации; пиксели ярче 127 считаются объектом.
func LoadMask(path string) (entity.Mask, error) {
	img, err := LoadImage(path)
	if err != nil {
		return entity.Mask{}, err
	}
	return entity.MaskFromImage(img), nil
}

// LoadLabel читает карту меток: 0 — фон, void сохраняется как есть,
// остальные значения считаются объектом. Бинарная маска 0/255 сначала
// приводится к 0/1, поэтому её объект не совпадает с void.
func LoadLabel(path string, void uint8) (entity.Mask, error) {
	img, err := LoadImage(path)
	if err != nil {
		return entity.Mask{}, err
	}

	b := img.Bounds()
	m := entity.NewMask(b.Dx(), b.Dy())
	binary := true
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			v := color.GrayModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.Gray).Y
			if v != 0 && v != 255 {
				binary = false
			}
			m.Set(y, x, v)
		}
	}

	for i, v := range m.Pix {
		switch {
		case v == 0:
		case binary:
			m.Pix[i] = 1
		case v != void:
			m.Pix[i] = 1
		}
	}
	return m, nil
}

// SaveImage сохраняет изображение; формат выбирается по расширению
func SaveImage(path string, img image.Image) error {
	if err := imageutil.Save(path, img, jpegQuality); err != nil {
		return fmt.Errorf("save image %s: %w", path, err)
	}
	return nil
}

// FileStem возвращает имя файла без каталога и без всего после первой точки.
func FileStem(path string) string {
	name := filepath.Base(filepath.ToSlash(path))
	if i := strings.IndexByte(name, '.'); i >= 0 {
		return name[:i]
	}
	return name
}

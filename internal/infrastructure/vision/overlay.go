package vision

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"iseg-kit/internal/domain/entity"
)

const (
	clickMargin = 3 // клики ближе к краю не рисуются
	clickRadius = 5 // радиус диска клика

	// DefaultMultiplier насыщенность подсветки маски
	DefaultMultiplier = 0.6
)

// ClickColor цвет отметки клика
type ClickColor int

const (
	ClickRed  ClickColor = iota // (max, min, min)
	ClickBlue                   // (min, min, max)
)

// GuidanceMode выбирает, какие пиксели карты подсвечивать
type GuidanceMode int

const (
	GuidanceNone       GuidanceMode = iota // mask == 1
	GuidanceUnsignedDT                     // mask == 0
	GuidanceSignedDT                       // mask < 0
)

// ToRGBA копирует изображение в новый *image.RGBA с началом в (0,0)
func ToRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// ClickPoints возвращает точки кликов, закодированные картой.
// Для гауссовой карты с разными значениями это максимумы, иначе нули.
func ClickPoints(clickMap entity.FloatMap, gaussian bool) []image.Point {
	target := 0.0
	if gaussian && distinctMoreThanOne(clickMap.Pix) {
		target = clickMap.Max()
	}

	var pts []image.Point
	for y := 0; y < clickMap.Height; y++ {
		for x := 0; x < clickMap.Width; x++ {
			if clickMap.At(y, x) == target {
				pts = append(pts, image.Pt(x, y))
			}
		}
	}
	return pts
}

func distinctMoreThanOne(pix []float64) bool {
	for _, v := range pix {
		if v != pix[0] {
			return true
		}
	}
	return false
}

// DrawClicks рисует диски радиуса 5 в точках (X — столбец, Y — строка).
// Точки ближе трёх пикселей к краю пропускаются.
func DrawClicks(img *image.RGBA, points []image.Point, c ClickColor) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	lo, hi := intensityRange(img)
	paint := color.RGBA{R: lo, G: lo, B: hi, A: 255}
	if c == ClickRed {
		paint = color.RGBA{R: hi, G: lo, B: lo, A: 255}
	}

	for _, p := range points {
		if p.Y <= clickMargin || p.Y >= h-clickMargin || p.X <= clickMargin || p.X >= w-clickMargin {
			continue
		}
		for dy := -clickRadius; dy <= clickRadius; dy++ {
			for dx := -clickRadius; dx <= clickRadius; dx++ {
				if dx*dx+dy*dy >= clickRadius*clickRadius {
					continue
				}
				x, y := p.X+dx, p.Y+dy
				if x < 0 || y < 0 || x >= w || y >= h {
					continue
				}
				img.SetRGBA(b.Min.X+x, b.Min.Y+y, paint)
			}
		}
	}
}

// intensityRange возвращает минимум и максимум по каналам R, G, B
func intensityRange(img *image.RGBA) (lo, hi uint8) {
	lo, hi = 255, 0
	for i := 0; i+4 <= len(img.Pix); i += 4 {
		for _, v := range img.Pix[i : i+3] {
			lo = min(lo, v)
			hi = max(hi, v)
		}
	}
	if lo > hi {
		return 0, 0
	}
	return lo, hi
}

// VisualiseClicks рисует клики из карт поверх копий изображений пакета.
func VisualiseClicks(images []image.Image, clickMaps []entity.FloatMap, c ClickColor, gaussian bool) ([]*image.RGBA, error) {
	if len(images) != len(clickMaps) {
		return nil, fmt.Errorf("%w: %d images, %d click maps", entity.ErrShapeMismatch, len(images), len(clickMaps))
	}

	out := make([]*image.RGBA, len(images))
	for i, img := range images {
		b := img.Bounds()
		if b.Dx() != clickMaps[i].Width || b.Dy() != clickMaps[i].Height {
			return nil, fmt.Errorf("%w: image %d is %dx%d, click map %dx%d", entity.ErrShapeMismatch,
				i, b.Dx(), b.Dy(), clickMaps[i].Width, clickMaps[i].Height)
		}
		rgba := ToRGBA(img)
		DrawClicks(rgba, ClickPoints(clickMaps[i], gaussian), c)
		out[i] = rgba
	}
	return out, nil
}

// MaskedImage подсвечивает выбранные пиксели зелёным оттенком в HSV:
// тон заменяется на зелёный, насыщенность на multiplier, яркость сохраняется.
// Прозрачные пиксели не меняются.
func MaskedImage(img image.Image, mask entity.FloatMap, multiplier float64, mode GuidanceMode) (*image.RGBA, error) {
	b := img.Bounds()
	if b.Dx() != mask.Width || b.Dy() != mask.Height {
		return nil, fmt.Errorf("%w: image %dx%d, mask %dx%d", entity.ErrShapeMismatch, b.Dx(), b.Dy(), mask.Width, mask.Height)
	}

	out := ToRGBA(img)
	for y := 0; y < mask.Height; y++ {
		for x := 0; x < mask.Width; x++ {
			if !selected(mask.At(y, x), mode) {
				continue
			}
			px := out.RGBAAt(x, y)
			c, ok := colorful.MakeColor(px)
			if !ok {
				continue
			}
			_, _, v := c.Hsv()
			r, g, bl := colorful.Hsv(120, multiplier, v).Clamped().RGB255()
			out.SetRGBA(x, y, color.RGBA{R: premul(r, px.A), G: premul(g, px.A), B: premul(bl, px.A), A: px.A})
		}
	}
	return out, nil
}

// premul переводит канал обратно в premultiplied-вид *image.RGBA
func premul(c, a uint8) uint8 {
	return uint8(uint32(c) * uint32(a) / 255)
}

func selected(v float64, mode GuidanceMode) bool {
	switch mode {
	case GuidanceUnsignedDT:
		return v == 0
	case GuidanceSignedDT:
		return v < 0
	default:
		return math.Abs(v-1) < 1e-9
	}
}

// Caption пишет строку шрифтом basicfont, (x, y) — базовая линия.
func Caption(img draw.Image, text string, x, y int, c color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(text)
}

package entity

import (
	"errors"
	"image"
	"image/color"
	"math"
)

var (
	ErrShapeMismatch = errors.New("shape mismatch")
	ErrEmptyMask     = errors.New("empty mask")
)

// Mask хранит маску построчно (row-major), значение пикселя — метка класса.
type Mask struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewMask создаёт пустую маску заданного размера
func NewMask(width, height int) Mask {
	return Mask{Width: width, Height: height, Pix: make([]uint8, width*height)}
}

// MaskFromImage бинаризует изображение: яркость >= 128 становится 1, остальное 0.
func MaskFromImage(img image.Image) Mask {
	b := img.Bounds()
	m := NewMask(b.Dx(), b.Dy())
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			g := color.GrayModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.Gray)
			if g.Y >= 128 {
				m.Pix[y*m.Width+x] = 1
			}
		}
	}
	return m
}

func (m Mask) Empty() bool {
	return m.Width == 0 || m.Height == 0
}

func (m Mask) In(row, col int) bool {
	return row >= 0 && row < m.Height && col >= 0 && col < m.Width
}

func (m Mask) At(row, col int) uint8 {
	return m.Pix[row*m.Width+col]
}

func (m Mask) Set(row, col int, v uint8) {
	m.Pix[row*m.Width+col] = v
}

// Count возвращает количество пикселей со значением 1
func (m Mask) Count() int {
	n := 0
	for _, v := range m.Pix {
		if v == 1 {
			n++
		}
	}
	return n
}

func (m Mask) SameShape(o Mask) bool {
	return m.Width == o.Width && m.Height == o.Height
}

func (m Mask) Equal(o Mask) bool {
	if !m.SameShape(o) {
		return false
	}
	for i := range m.Pix {
		if m.Pix[i] != o.Pix[i] {
			return false
		}
	}
	return true
}

func (m Mask) Clone() Mask {
	c := Mask{Width: m.Width, Height: m.Height, Pix: make([]uint8, len(m.Pix))}
	copy(c.Pix, m.Pix)
	return c
}

// IoU считает пересечение над объединением для пикселей со значением 1.
// Две пустые маски дают 1.
func (m Mask) IoU(o Mask) (float64, error) {
	if !m.SameShape(o) {
		return 0, ErrShapeMismatch
	}
	var inter, union int
	for i := range m.Pix {
		a, b := m.Pix[i] == 1, o.Pix[i] == 1
		if a && b {
			inter++
		}
		if a || b {
			union++
		}
	}
	if union == 0 {
		return 1, nil
	}
	return float64(inter) / float64(union), nil
}

// ToGray рисует маску как 0/255
func (m Mask) ToGray() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, m.Width, m.Height))
	for i, v := range m.Pix {
		if v != 0 {
			img.Pix[i] = 255
		}
	}
	return img
}

// ToFloat переводит маску в FloatMap без изменения значений
func (m Mask) ToFloat() FloatMap {
	f := NewFloatMap(m.Width, m.Height)
	for i, v := range m.Pix {
		f.Pix[i] = float64(v)
	}
	return f
}

// FloatMap — карта расстояний или кликов.
type FloatMap struct {
	Width  int
	Height int
	Pix    []float64
}

func NewFloatMap(width, height int) FloatMap {
	return FloatMap{Width: width, Height: height, Pix: make([]float64, width*height)}
}

func (f FloatMap) At(row, col int) float64 {
	return f.Pix[row*f.Width+col]
}

func (f FloatMap) Set(row, col int, v float64) {
	f.Pix[row*f.Width+col] = v
}

// Max возвращает максимум карты, для пустой карты 0
func (f FloatMap) Max() float64 {
	if len(f.Pix) == 0 {
		return 0
	}
	best := math.Inf(-1)
	for _, v := range f.Pix {
		if v > best {
			best = v
		}
	}
	return best
}

// LabelMap — результат разметки связных компонент. 0 — фон, метки 1..N.
type LabelMap struct {
	Width  int
	Height int
	Pix    []int32
	N      int
}

func (l LabelMap) At(row, col int) int32 {
	return l.Pix[row*l.Width+col]
}

// Sizes возвращает площади компонент, индекс — номер метки (sizes[0] — фон).
func (l LabelMap) Sizes() []int {
	sizes := make([]int, l.N+1)
	for _, v := range l.Pix {
		if int(v) < len(sizes) {
			sizes[v]++
		}
	}
	return sizes
}

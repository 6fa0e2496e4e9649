package entity

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidRLE = errors.New("invalid rle")

// RLE — run-length кодирование бинарной маски в формате COCO.
// Пиксели обходятся по столбцам, первая серия всегда нулевая.
type RLE struct {
	Size   [2]int `yaml:"size" json:"size"` // высота, ширина
	Counts []int  `yaml:"counts" json:"counts"`
}

// EncodeMask кодирует бинарную маску. Все ненулевые пиксели считаются единицами.
func EncodeMask(m Mask) (RLE, error) {
	if m.Empty() {
		return RLE{}, ErrEmptyMask
	}

	counts := make([]int, 0, 16)
	var prev uint8
	run := 0
	for col := 0; col < m.Width; col++ {
		for row := 0; row < m.Height; row++ {
			v := uint8(0)
			if m.At(row, col) != 0 {
				v = 1
			}
			if v != prev {
				counts = append(counts, run)
				run = 0
				prev = v
			}
			run++
		}
	}
	counts = append(counts, run)

	return RLE{Size: [2]int{m.Height, m.Width}, Counts: counts}, nil
}

// DecodeMask восстанавливает маску из RLE.
// Если сумма серий меньше h*w, хвост остаётся нулевым.
func DecodeMask(r RLE) (Mask, error) {
	h, w := r.Size[0], r.Size[1]
	if h <= 0 || w <= 0 {
		return Mask{}, fmt.Errorf("%w: size %dx%d", ErrInvalidRLE, h, w)
	}

	m := NewMask(w, h)
	total := h * w
	n := 0
	var val uint8
	for i, c := range r.Counts {
		if c < 0 {
			return Mask{}, fmt.Errorf("%w: negative count at %d", ErrInvalidRLE, i)
		}
		if n+c > total {
			return Mask{}, fmt.Errorf("%w: counts exceed %d pixels", ErrInvalidRLE, total)
		}
		if val == 1 {
			for k := n; k < n+c; k++ {
				// k — индекс в порядке столбцов
				m.Pix[(k%h)*w+k/h] = 1
			}
		}
		n += c
		val ^= 1
	}

	return m, nil
}

// Area — число единичных пикселей
func (r RLE) Area() int {
	area := 0
	for i := 1; i < len(r.Counts); i += 2 {
		area += r.Counts[i]
	}
	return area
}

// String возвращает сжатую строку counts, совместимую с pycocotools.
func (r RLE) String() string {
	var sb strings.Builder
	for i, c := range r.Counts {
		x := c
		if i > 2 {
			x -= r.Counts[i-2]
		}
		for more := true; more; {
			ch := x & 0x1f
			x >>= 5
			if ch&0x10 != 0 {
				more = x != -1
			} else {
				more = x != 0
			}
			if more {
				ch |= 0x20
			}
			sb.WriteByte(byte(ch + 48))
		}
	}
	return sb.String()
}

// ParseRLEString разбирает сжатую строку counts.
func ParseRLEString(height, width int, s string) (RLE, error) {
	counts := make([]int, 0, len(s))
	p := 0
	for p < len(s) {
		x, k := 0, 0
		for more := true; more; {
			if p >= len(s) {
				return RLE{}, fmt.Errorf("%w: truncated counts string", ErrInvalidRLE)
			}
			c := int(s[p]) - 48
			if c < 0 || c > 63 {
				return RLE{}, fmt.Errorf("%w: bad symbol %q", ErrInvalidRLE, s[p])
			}
			x |= (c & 0x1f) << (5 * k)
			more = c&0x20 != 0
			p++
			k++
			if !more && c&0x10 != 0 {
				x |= -1 << (5 * k)
			}
		}
		if len(counts) > 2 {
			x += counts[len(counts)-2]
		}
		counts = append(counts, x)
	}

	return RLE{Size: [2]int{height, width}, Counts: counts}, nil
}

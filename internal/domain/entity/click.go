package entity

import "fmt"

// ClickKind тип клика: по объекту или по фону
type ClickKind int

const (
	Negative ClickKind = iota // клик по фону, убирает лишнее
	Positive                  // клик по объекту, добавляет пропущенное
)

func (k ClickKind) String() string {
	if k == Positive {
		return "positive"
	}
	return "negative"
}

// Click координаты клика в пикселях (строка, столбец)
type Click struct {
	Row  int       `yaml:"row" json:"row"`
	Col  int       `yaml:"col" json:"col"`
	Kind ClickKind `yaml:"kind" json:"kind"`
}

func (c Click) String() string {
	return fmt.Sprintf("%s(%d,%d)", c.Kind, c.Row, c.Col)
}

// UniqueClicks убирает повторы, сохраняя порядок первых вхождений
func UniqueClicks(clicks []Click) []Click {
	res := make([]Click, 0, len(clicks))
	seen := make(map[Click]struct{}, len(clicks))
	for _, c := range clicks {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		res = append(res, c)
	}
	return res
}

// ClicksOfKind возвращает клики заданного типа
func ClicksOfKind(clicks []Click, kind ClickKind) []Click {
	var res []Click
	for _, c := range clicks {
		if c.Kind == kind {
			res = append(res, c)
		}
	}
	return res
}

func (k ClickKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *ClickKind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "positive":
		*k = Positive
	case "negative":
		*k = Negative
	default:
		return fmt.Errorf("unknown click kind %q", string(b))
	}
	return nil
}

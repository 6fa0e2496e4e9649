package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"iseg-kit/internal/domain/entity"
	"iseg-kit/internal/domain/port"
)

type annotationFile struct {
	Annotations []entity.Annotation `yaml:"annotations"`
}

// YAMLAnnotationStore хранит разметки в одном YAML-файле.
type YAMLAnnotationStore struct {
	path string

	mu    sync.RWMutex
	items []entity.Annotation
}

// NewYAMLAnnotationStore открывает файл; отсутствующий файл означает пустое хранилище.
func NewYAMLAnnotationStore(path string) (*YAMLAnnotationStore, error) {
	s := &YAMLAnnotationStore{path: path}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read annotations: %w", err)
	}

	var f annotationFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse annotations %s: %w", path, err)
	}
	s.items = f.Annotations
	return s, nil
}

// Put назначает ID, если его нет, и сохраняет файл целиком.
func (s *YAMLAnnotationStore) Put(ctx context.Context, a entity.Annotation) (entity.Annotation, error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]entity.Annotation, 0, len(s.items)+1)
	replaced := false
	for _, it := range s.items {
		if it.ID == a.ID {
			it = a
			replaced = true
		}
		items = append(items, it)
	}
	if !replaced {
		items = append(items, a)
	}

	if err := s.write(items); err != nil {
		return entity.Annotation{}, err
	}
	s.items = items
	return a, nil
}

// Get возвращает разметку по ID или entity.ErrNoAnnotation
func (s *YAMLAnnotationStore) Get(ctx context.Context, id string) (entity.Annotation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, it := range s.items {
		if it.ID == id {
			return it, nil
		}
	}
	return entity.Annotation{}, entity.ErrNoAnnotation
}

// List возвращает копию всех разметок в порядке добавления
func (s *YAMLAnnotationStore) List(ctx context.Context) ([]entity.Annotation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]entity.Annotation, len(s.items))
	copy(out, s.items)
	return out, nil
}

// write пишет во временный файл и переименовывает его поверх основного.
func (s *YAMLAnnotationStore) write(items []entity.Annotation) error {
	data, err := yaml.Marshal(annotationFile{Annotations: items})
	if err != nil {
		return fmt.Errorf("encode annotations: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".annotations-*.yaml")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write annotations: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}

var _ port.AnnotationStore = (*YAMLAnnotationStore)(nil)

// Package adapters はシェルの画面記述ファイルを読み込みます。
package adapters

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"fib_dashboard/internal/feature/shell/domain"
	"fib_dashboard/internal/feature/shell/domain/entity"
)

// DecodeScreen は1画面分のYAMLを読み込み、最低限の整合性を確認します。
func DecodeScreen(r io.Reader) (entity.Screen, error) {
	var s entity.Screen
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return entity.Screen{}, fmt.Errorf("empty document: %w", domain.ErrInvalidScreen)
		}
		return entity.Screen{}, fmt.Errorf("%w: %v", domain.ErrInvalidScreen, err)
	}
	if s.Name == "" {
		return entity.Screen{}, fmt.Errorf("missing name: %w", domain.ErrInvalidScreen)
	}
	if s.Title == "" {
		s.Title = s.Name
	}
	for i, w := range s.Widgets {
		switch w.Kind {
		case entity.Label, entity.TextField, entity.Password, entity.Button:
		default:
			return entity.Screen{}, fmt.Errorf("widget %d kind %q: %w", i, w.Kind, domain.ErrInvalidScreen)
		}
		if w.Target != "" && w.Kind != entity.Button {
			return entity.Screen{}, fmt.Errorf("widget %d: only buttons navigate: %w", i, domain.ErrInvalidScreen)
		}
	}
	return s, nil
}

// LoadScreens は dir/<name>.yaml を names の順に読み込みます。
// ファイル内の name がファイル名と一致しない場合はエラーです。
func LoadScreens(dir string, names []string) ([]entity.Screen, error) {
	screens := make([]entity.Screen, 0, len(names))
	for _, name := range names {
		path := filepath.Join(dir, name+".yaml")
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read screen %s: %w", name, err)
		}
		s, err := DecodeScreen(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if s.Name != name {
			return nil, fmt.Errorf("%s: name %q does not match file: %w", path, s.Name, domain.ErrInvalidScreen)
		}
		screens = append(screens, s)
	}
	return screens, nil
}

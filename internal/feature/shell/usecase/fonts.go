// Package usecase はナビゲーションシェルの状態（フォント・画面遷移）を管理します。
package usecase

import (
	"fmt"
	"log/slog"
	"os"
	"sort"
	"sync"
)

// FontRegistry は名前付きフォントの登録簿です。
type FontRegistry struct {
	mu    sync.RWMutex
	fonts map[string]string
}

// NewFontRegistry は空の FontRegistry を生成します。
func NewFontRegistry() *FontRegistry {
	return &FontRegistry{fonts: map[string]string{}}
}

// Register はフォントファイルを name で登録します。
// ファイルが存在しない・読めない場合はエラーです。同じ名前の再登録は後勝ちです。
func (r *FontRegistry) Register(name, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("font %s: %w", name, err)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("font %s: %w", name, err)
	}
	if info.IsDir() {
		return fmt.Errorf("font %s: %s is a directory", name, path)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if prev, ok := r.fonts[name]; ok && prev != path {
		slog.Debug("font overridden", "name", name, "previous", prev, "path", path)
	}
	r.fonts[name] = path
	return nil
}

// Path は登録済みフォントのファイルパスを返します。
func (r *FontRegistry) Path(name string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.fonts[name]
	return p, ok
}

// Names は登録済みのフォント名を名前順で返します。
func (r *FontRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.fonts))
	for n := range r.fonts {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

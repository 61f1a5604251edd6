package usecase

import (
	"fmt"

	"fib_dashboard/internal/feature/shell/domain"
	"fib_dashboard/internal/feature/shell/domain/entity"
)

// Navigator は画面の集合と現在の画面を保持します。状態は「現在の画面」のみです。
type Navigator struct {
	screens map[string]entity.Screen
	order   []string
	current string
}

// NewNavigator は空の Navigator を生成します。
func NewNavigator() *Navigator {
	return &Navigator{screens: map[string]entity.Screen{}}
}

// Add は画面を追加します。最初に追加した画面が現在の画面になります。
func (n *Navigator) Add(s entity.Screen) error {
	if _, ok := n.screens[s.Name]; ok {
		return fmt.Errorf("%s: %w", s.Name, domain.ErrDuplicateScreen)
	}
	n.screens[s.Name] = s
	n.order = append(n.order, s.Name)
	if n.current == "" {
		n.current = s.Name
	}
	return nil
}

// Show は name の画面へ切り替えます。
func (n *Navigator) Show(name string) (entity.Screen, error) {
	s, ok := n.screens[name]
	if !ok {
		return entity.Screen{}, fmt.Errorf("%s: %w", name, domain.ErrUnknownScreen)
	}
	n.current = name
	return s, nil
}

// Current は現在の画面を返します。画面が1つもなければ false です。
func (n *Navigator) Current() (entity.Screen, bool) {
	s, ok := n.screens[n.current]
	return s, ok
}

// Names は追加順に画面名を返します。
func (n *Navigator) Names() []string {
	out := make([]string, len(n.order))
	copy(out, n.order)
	return out
}

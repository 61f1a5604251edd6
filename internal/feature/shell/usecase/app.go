package usecase

import (
	"fmt"

	"fib_dashboard/internal/feature/shell/domain"
	"fib_dashboard/internal/feature/shell/domain/entity"
)

// App はシェル全体の状態です。画面の構築時に明示的に渡されます。
type App struct {
	Window    entity.Window
	Fonts     *FontRegistry
	Navigator *Navigator
}

// NewApp は window と fonts から App を生成します。画面は AddScreens で追加します。
func NewApp(window entity.Window, fonts *FontRegistry) *App {
	if window.Width <= 0 || window.Height <= 0 {
		window = entity.DefaultWindow
	}
	if fonts == nil {
		fonts = NewFontRegistry()
	}
	return &App{Window: window, Fonts: fonts, Navigator: NewNavigator()}
}

// BuildScreen は記述を app に対して検証し、表示可能な画面にします。
// 部品が参照するフォントは登録済みでなければなりません。
func BuildScreen(app *App, desc entity.Screen) (entity.Screen, error) {
	s := entity.Screen{Name: desc.Name, Title: desc.Title}
	s.Widgets = make([]entity.Widget, len(desc.Widgets))
	copy(s.Widgets, desc.Widgets)
	for _, w := range s.Widgets {
		if w.Font == "" {
			continue
		}
		if _, ok := app.Fonts.Path(w.Font); !ok {
			return entity.Screen{}, fmt.Errorf("screen %s widget %q font %s: %w", desc.Name, w.Text, w.Font, domain.ErrFontNotFound)
		}
	}
	return s, nil
}

// AddScreens は記述を順に構築し、ボタンの遷移先がすべて存在することを確認してから Navigator へ追加します。
// エラーの場合は1画面も追加しません。
func (a *App) AddScreens(descs ...entity.Screen) error {
	built := make([]entity.Screen, 0, len(descs))
	names := map[string]struct{}{}
	for _, name := range a.Navigator.Names() {
		names[name] = struct{}{}
	}
	for _, d := range descs {
		s, err := BuildScreen(a, d)
		if err != nil {
			return err
		}
		if _, ok := names[s.Name]; ok {
			return fmt.Errorf("%s: %w", s.Name, domain.ErrDuplicateScreen)
		}
		names[s.Name] = struct{}{}
		built = append(built, s)
	}
	for _, s := range built {
		for _, w := range s.Widgets {
			if w.Target == "" {
				continue
			}
			if _, ok := names[w.Target]; !ok {
				return fmt.Errorf("screen %s button %q -> %s: %w", s.Name, w.Text, w.Target, domain.ErrUnknownScreen)
			}
		}
	}
	for _, s := range built {
		if err := a.Navigator.Add(s); err != nil {
			return err
		}
	}
	return nil
}

// Press は現在の画面のボタンを押し、遷移先へ切り替えます。
// 遷移先のないボタンは画面を変えずにそのまま現在の画面を返します。
func (a *App) Press(text string) (entity.Screen, error) {
	cur, ok := a.Navigator.Current()
	if !ok {
		return entity.Screen{}, domain.ErrUnknownScreen
	}
	for _, w := range cur.Widgets {
		if w.Kind != entity.Button || !equalFold(w.Text, text) {
			continue
		}
		if w.Target == "" {
			return cur, nil
		}
		return a.Navigator.Show(w.Target)
	}
	return entity.Screen{}, fmt.Errorf("button %q on %s: %w", text, cur.Name, domain.ErrUnknownScreen)
}

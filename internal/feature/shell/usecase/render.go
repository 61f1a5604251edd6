package usecase

import (
	"fmt"
	"strings"

	"fib_dashboard/internal/feature/shell/domain/entity"
)

// Render は画面をテキストで描画します。1行目がタイトル、以降が部品1つにつき1行です。
func Render(s entity.Screen) string {
	var b strings.Builder
	fmt.Fprintf(&b, "== %s ==\n", s.Title)
	for _, w := range s.Widgets {
		switch w.Kind {
		case entity.Label:
			fmt.Fprintf(&b, "  %s\n", w.Text)
		case entity.TextField:
			fmt.Fprintf(&b, "  %s: [__________]\n", w.Text)
		case entity.Password:
			fmt.Fprintf(&b, "  %s: [**********]\n", w.Text)
		case entity.Button:
			if w.Target != "" {
				fmt.Fprintf(&b, "  [ %s ] -> %s\n", w.Text, w.Target)
			} else {
				fmt.Fprintf(&b, "  [ %s ]\n", w.Text)
			}
		}
	}
	return b.String()
}

func equalFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

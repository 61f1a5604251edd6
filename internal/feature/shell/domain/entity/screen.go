// Package entity defines the screens and window of the navigation shell.
package entity

// WidgetKind は画面部品の種類です。
type WidgetKind string

const (
	Label     WidgetKind = "label"
	TextField WidgetKind = "textfield"
	Password  WidgetKind = "password"
	Button    WidgetKind = "button"
)

// Widget は画面上の部品1つです。Target はボタンが遷移する画面名です。
type Widget struct {
	Kind   WidgetKind `yaml:"kind"`
	Text   string     `yaml:"text"`
	Font   string     `yaml:"font"`
	Target string     `yaml:"target"`
}

// Screen は宣言的に記述された1画面です。
type Screen struct {
	Name    string   `yaml:"name"`
	Title   string   `yaml:"title"`
	Widgets []Widget `yaml:"widgets"`
}

// Window はシェルのウィンドウサイズです。
type Window struct {
	Width  int
	Height int
}

// DefaultWindow はスマートフォン相当の既定サイズです。
var DefaultWindow = Window{Width: 310, Height: 558}

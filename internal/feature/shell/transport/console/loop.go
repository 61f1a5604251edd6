// Package console はシェルの行指向イベントループです。
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"fib_dashboard/internal/feature/shell/domain"
	"fib_dashboard/internal/feature/shell/usecase"
)

const help = `commands:
  show <screen>   switch to a screen
  press <button>  press a button on the current screen
  where           print the current screen
  screens         list screens
  fonts           list registered fonts
  quit            exit
`

// Loop は入力を1行ずつ読み、App の状態を更新して結果を out に書き出します。
type Loop struct {
	app *usecase.App
	in  io.Reader
	out io.Writer
}

// NewLoop は Loop を生成します。
func NewLoop(app *usecase.App, in io.Reader, out io.Writer) *Loop {
	return &Loop{app: app, in: in, out: out}
}

// Run は quit・入力の終端・ctx のキャンセルまで処理を続けます。
// 起動時に現在の画面を描画します。
func (l *Loop) Run(ctx context.Context) error {
	if cur, ok := l.app.Navigator.Current(); ok {
		fmt.Fprint(l.out, usecase.Render(cur))
	}

	sc := bufio.NewScanner(l.in)
	for {
		fmt.Fprint(l.out, "> ")
		if !sc.Scan() {
			break
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		quit, err := l.handle(sc.Text())
		if err != nil {
			fmt.Fprintf(l.out, "error: %v\n", err)
		}
		if quit {
			return nil
		}
	}
	if err := sc.Err(); err != nil {
		return err
	}
	return ctx.Err()
}

func (l *Loop) handle(line string) (bool, error) {
	cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(cmd) {
	case "":
		return false, nil
	case "quit", "exit":
		return true, nil
	case "help":
		fmt.Fprint(l.out, help)
	case "where":
		cur, ok := l.app.Navigator.Current()
		if !ok {
			return false, domain.ErrUnknownScreen
		}
		fmt.Fprintln(l.out, cur.Name)
	case "screens":
		fmt.Fprintln(l.out, strings.Join(l.app.Navigator.Names(), " "))
	case "fonts":
		fmt.Fprintln(l.out, strings.Join(l.app.Fonts.Names(), " "))
	case "show":
		s, err := l.app.Navigator.Show(arg)
		if err != nil {
			return false, err
		}
		fmt.Fprint(l.out, usecase.Render(s))
	case "press":
		s, err := l.app.Press(arg)
		if err != nil {
			return false, err
		}
		fmt.Fprint(l.out, usecase.Render(s))
	default:
		return false, fmt.Errorf("%w: %q (try help)", domain.ErrUnknownCommand, cmd)
	}
	return false, nil
}

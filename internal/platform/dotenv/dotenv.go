// Package dotenv は .env ファイルから環境変数を読み込みます。
package dotenv

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/joho/godotenv"
)

var once sync.Once

// LoadOnce は Load を一度だけ実行します。
func LoadOnce() {
	once.Do(Load)
}

// Load は .env を読み込みます。既存の環境変数は DOTENV_OVERLOAD=1 でない限り上書きしません。
//
//   - NO_DOTENV=1: 読み込まない
//   - ENV_FILE: 指定ファイルのみを読み込む
//   - それ以外: カレントディレクトリから go.mod / .git のあるディレクトリまで遡って .env を探す
func Load() {
	if os.Getenv("NO_DOTENV") == "1" {
		return
	}

	overload := os.Getenv("DOTENV_OVERLOAD") == "1"
	load := func(paths ...string) {
		if overload {
			_ = godotenv.Overload(paths...)
		} else {
			_ = godotenv.Load(paths...)
		}
	}

	if envFile := os.Getenv("ENV_FILE"); envFile != "" {
		load(envFile)
		return
	}

	dir, err := os.Getwd()
	if err != nil {
		load(".env")
		return
	}
	for i := 0; i < 8; i++ {
		if fileExists(filepath.Join(dir, ".env")) {
			load(filepath.Join(dir, ".env"))
		}
		if fileExists(filepath.Join(dir, "go.mod")) || fileExists(filepath.Join(dir, ".git")) {
			return
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return
		}
		dir = parent
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

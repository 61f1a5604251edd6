// Package yahoo provides a client for the Yahoo Finance chart API.
package yahoo

import "time"

const (
	DefaultBaseURL   = "https://query1.finance.yahoo.com"
	DefaultSuffix    = ".NS"
	DefaultUserAgent = "Mozilla/5.0"
)

// Config holds configuration for the Yahoo Finance client.
type Config struct {
	BaseURL   string        // e.g. "https://query1.finance.yahoo.com"
	Suffix    string        // 取引所サフィックス。NSE は ".NS"
	UserAgent string        // UA なしだと 429 が返ることがある
	Timeout   time.Duration // HTTP request timeout
}

// withDefaults は空のフィールドに既定値を入れた Config を返します。
func (c Config) withDefaults() Config {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
	return c
}

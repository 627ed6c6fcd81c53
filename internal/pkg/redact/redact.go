// redact маскирует секреты перед записью в лог.
package redact

import (
	"net/url"
	"sort"
)

const mask = "***"

// URL убирает из адреса пароль и значения query-параметров:
// redis://:secret@host:6379/0 -> redis://:xxxxx@host:6379/0,
// https://x.io/p?token=abc -> https://x.io/p?token=***.
// Нераспознанная строка заменяется целиком.
func URL(raw string) string {
	if raw == "" {
		return ""
	}

	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" {
		return mask
	}

	if u.RawQuery != "" {
		q := u.Query()
		keys := make([]string, 0, len(q))
		for k := range q {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		// Маска не экранируется: собираем строку вручную.
		masked := ""
		for i, k := range keys {
			if i > 0 {
				masked += "&"
			}
			masked += url.QueryEscape(k) + "=" + mask
		}
		u.RawQuery = masked
	}

	u.Fragment = ""

	return u.Redacted()
}

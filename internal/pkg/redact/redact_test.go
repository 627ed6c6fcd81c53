package redact

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestURL_Table(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"plain", "https://example.com/a", "https://example.com/a"},
		{"password", "redis://:secret@localhost:6379/0", "redis://:xxxxx@localhost:6379/0"},
		{"user and password", "mongodb://lapa:pw@db:27017/lapa", "mongodb://lapa:xxxxx@db:27017/lapa"},
		{"user only", "mongodb://lapa@db:27017", "mongodb://lapa@db:27017"},
		{"query", "https://x.io/p?token=abc&a=1", "https://x.io/p?a=***&token=***"},
		{"fragment dropped", "https://x.io/p#sec", "https://x.io/p"},
		{"no scheme", "not a url", "***"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, URL(tt.in))
		})
	}
}

package preview

import (
	"strings"

	"github.com/pribylovaa/lapa-nations/internal/models"
)

// IsHelpful переводит текстовый вердикт в флаг.
// Пустой вердикт: полезно, если есть хоть какие-то метаданные.
func IsHelpful(decision string, md models.Metadata) bool {
	d := strings.ToLower(strings.TrimSpace(decision))
	if d == "" {
		return !md.IsEmpty()
	}

	return !strings.Contains(d, "not helpful")
}

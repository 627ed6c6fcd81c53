package preview

import (
	"context"

	"github.com/pribylovaa/lapa-nations/internal/models"
)

// Heuristic решает без модели: превью полезно, если есть заголовок или описание.
type Heuristic struct{}

func (Heuristic) Decide(_ context.Context, _ string, md models.Metadata) (string, error) {
	switch {
	case md.Title != "" || md.Description != "":
		return "Helpful: the page provides a title or description.", nil
	case md.ImageURL != "":
		return "Helpful: the page provides a preview image.", nil
	default:
		return "Not helpful: the page exposes no preview metadata.", nil
	}
}

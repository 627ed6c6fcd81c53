package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pribylovaa/lapa-nations/internal/models"
)

// globalCommentDoc — документ коллекции globalComments.
type globalCommentDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Author    string             `bson:"author"`
	Text      string             `bson:"text"`
	Timestamp time.Time          `bson:"timestamp"`
}

func (d globalCommentDoc) toModel() models.Comment {
	return models.Comment{
		ID:        d.ID.Hex(),
		Author:    d.Author,
		Text:      d.Text,
		Timestamp: d.Timestamp.UTC(),
	}
}

// CreateGlobalComment добавляет комментарий в глобальный поток.
func (m *Mongo) CreateGlobalComment(ctx context.Context, comment models.Comment) (*models.Comment, error) {
	const op = "storage/mongo/CreateGlobalComment"

	doc := globalCommentDoc{
		Author:    comment.Author,
		Text:      comment.Text,
		Timestamp: toMS(comment.Timestamp),
	}

	res, err := m.global.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("%s: insert: %w", op, err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("%s: inserted id type", op)
	}

	doc.ID = oid
	out := doc.toModel()

	return &out, nil
}

// ListGlobalComments возвращает последние limit комментариев (timestamp DESC, _id DESC).
func (m *Mongo) ListGlobalComments(ctx context.Context, limit int64) ([]models.Comment, error) {
	const op = "storage/mongo/ListGlobalComments"

	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}, {Key: "_id", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cur, err := m.global.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: find: %w", op, err)
	}
	defer cur.Close(ctx)

	var docs []globalCommentDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("%s: decode: %w", op, err)
	}

	out := make([]models.Comment, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toModel())
	}

	return out, nil
}

package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pribylovaa/lapa-nations/internal/models"
	"github.com/pribylovaa/lapa-nations/internal/storage"
)

// embeddedCountryDoc — денормализованная копия страны внутри новости.
type embeddedCountryDoc struct {
	ID               string    `bson:"id"`
	CountryName      string    `bson:"countryName"`
	OwnerName        string    `bson:"ownerName"`
	RegistrationDate time.Time `bson:"registrationDate"`
}

// commentDoc — комментарий, вложенный в news.comments.
type commentDoc struct {
	ID        string    `bson:"id"`
	Author    string    `bson:"author"`
	Text      string    `bson:"text"`
	Timestamp time.Time `bson:"timestamp"`
}

// newsDoc — документ коллекции news.
type newsDoc struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty"`
	Title         string              `bson:"title"`
	Description   string              `bson:"description"`
	ImageURL      string              `bson:"imageUrl,omitempty"`
	ImageHint     string              `bson:"imageHint,omitempty"`
	AuthorCountry embeddedCountryDoc  `bson:"authorCountry"`
	TaggedCountry *embeddedCountryDoc `bson:"taggedCountry,omitempty"`
	IsMapUpdate   bool                `bson:"isMapUpdate"`
	Timestamp     time.Time           `bson:"timestamp"`
	Likes         int64               `bson:"likes"`
	Comments      []commentDoc        `bson:"comments"`
	NewsType      string              `bson:"newsType"`
}

func embedCountry(c models.Country) embeddedCountryDoc {
	return embeddedCountryDoc{
		ID:               c.ID,
		CountryName:      c.CountryName,
		OwnerName:        c.OwnerName,
		RegistrationDate: toMS(c.RegistrationDate),
	}
}

func (d embeddedCountryDoc) toModel() models.Country {
	return models.Country{
		ID:               d.ID,
		CountryName:      d.CountryName,
		OwnerName:        d.OwnerName,
		RegistrationDate: d.RegistrationDate.UTC(),
	}
}

func toCommentDoc(c models.Comment) commentDoc {
	return commentDoc{ID: c.ID, Author: c.Author, Text: c.Text, Timestamp: toMS(c.Timestamp)}
}

func (d commentDoc) toModel() models.Comment {
	return models.Comment{ID: d.ID, Author: d.Author, Text: d.Text, Timestamp: d.Timestamp.UTC()}
}

func toNewsDoc(n models.News) newsDoc {
	doc := newsDoc{
		Title:         n.Title,
		Description:   n.Description,
		ImageURL:      n.ImageURL,
		ImageHint:     n.ImageHint,
		AuthorCountry: embedCountry(n.AuthorCountry),
		IsMapUpdate:   n.IsMapUpdate,
		Timestamp:     toMS(n.Timestamp),
		Likes:         n.Likes,
		Comments:      make([]commentDoc, 0, len(n.Comments)),
		NewsType:      string(n.NewsType),
	}

	if n.TaggedCountry != nil {
		tagged := embedCountry(*n.TaggedCountry)
		doc.TaggedCountry = &tagged
	}

	for _, c := range n.Comments {
		doc.Comments = append(doc.Comments, toCommentDoc(c))
	}

	return doc
}

func (d newsDoc) toModel() models.News {
	out := models.News{
		ID:            d.ID.Hex(),
		Title:         d.Title,
		Description:   d.Description,
		ImageURL:      d.ImageURL,
		ImageHint:     d.ImageHint,
		AuthorCountry: d.AuthorCountry.toModel(),
		IsMapUpdate:   d.IsMapUpdate,
		Timestamp:     d.Timestamp.UTC(),
		Likes:         d.Likes,
		Comments:      make([]models.Comment, 0, len(d.Comments)),
		NewsType:      models.NewsType(d.NewsType),
	}

	if d.TaggedCountry != nil {
		tagged := d.TaggedCountry.toModel()
		out.TaggedCountry = &tagged
	}

	for _, c := range d.Comments {
		out.Comments = append(out.Comments, c.toModel())
	}

	return out
}

// CreateNews вставляет новость; comments всегда хранится массивом (пустым на старте).
func (m *Mongo) CreateNews(ctx context.Context, news models.News) (*models.News, error) {
	const op = "storage/mongo/CreateNews"

	doc := toNewsDoc(news)

	res, err := m.news.InsertOne(ctx, doc)
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

// NewsByID возвращает новость по идентификатору.
func (m *Mongo) NewsByID(ctx context.Context, id string) (*models.News, error) {
	const op = "storage/mongo/NewsByID"

	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	var doc newsDoc
	if err := m.news.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc); err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := doc.toModel()
	return &out, nil
}

// ListNews возвращает ленту: timestamp DESC, _id DESC.
// ObjectID монотонно растёт внутри процесса, поэтому при равном timestamp
// первой идёт позже вставленная новость.
func (m *Mongo) ListNews(ctx context.Context, filter models.NewsFilter) ([]models.News, error) {
	const op = "storage/mongo/ListNews"

	q := bson.D{}
	if filter.Type != "" {
		q = append(q, bson.E{Key: "newsType", Value: string(filter.Type)})
	}

	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}, {Key: "_id", Value: -1}})

	cur, err := m.news.Find(ctx, q, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: find: %w", op, err)
	}
	defer cur.Close(ctx)

	var docs []newsDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("%s: decode: %w", op, err)
	}

	out := make([]models.News, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toModel())
	}

	return out, nil
}

// IncrementLikes выполняет $inc likes на стороне сервера и возвращает документ после изменения.
func (m *Mongo) IncrementLikes(ctx context.Context, id string) (*models.News, error) {
	const op = "storage/mongo/IncrementLikes"

	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.D{{Key: "$inc", Value: bson.D{{Key: "likes", Value: 1}}}}

	var doc newsDoc
	if err := m.news.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: oid}}, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := doc.toModel()
	return &out, nil
}

// PrependComment добавляет комментарий в начало массива ($push + $position: 0).
func (m *Mongo) PrependComment(ctx context.Context, newsID string, comment models.Comment) error {
	const op = "storage/mongo/PrependComment"

	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(newsID))
	if err != nil {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	update := bson.D{{Key: "$push", Value: bson.D{{Key: "comments", Value: bson.D{
		{Key: "$each", Value: bson.A{toCommentDoc(comment)}},
		{Key: "$position", Value: 0},
	}}}}}

	res, err := m.news.UpdateByID(ctx, oid, update)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if res.MatchedCount == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}

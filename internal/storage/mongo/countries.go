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

// countryDoc — документ коллекции countries.
// countryNameLower — служебное поле для поиска/уникальности без учёта регистра.
type countryDoc struct {
	ID               primitive.ObjectID `bson:"_id,omitempty"`
	CountryName      string             `bson:"countryName"`
	CountryNameLower string             `bson:"countryNameLower"`
	OwnerName        string             `bson:"ownerName"`
	RegistrationDate time.Time          `bson:"registrationDate"`
}

func (d countryDoc) toModel() models.Country {
	return models.Country{
		ID:               d.ID.Hex(),
		CountryName:      d.CountryName,
		OwnerName:        d.OwnerName,
		RegistrationDate: d.RegistrationDate.UTC(),
	}
}

// CreateCountry вставляет страну. При уникальном индексе дубликат даёт storage.ErrConflict.
func (m *Mongo) CreateCountry(ctx context.Context, country models.Country) (*models.Country, error) {
	const op = "storage/mongo/CreateCountry"

	doc := countryDoc{
		CountryName:      country.CountryName,
		CountryNameLower: strings.ToLower(country.CountryName),
		OwnerName:        country.OwnerName,
		RegistrationDate: toMS(country.RegistrationDate),
	}

	res, err := m.countries.InsertOne(ctx, doc)
	if err != nil {
		if mongodriver.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrConflict)
		}

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

// CountryByID возвращает страну. Некорректный id трактуется как «нет такой записи».
func (m *Mongo) CountryByID(ctx context.Context, id string) (*models.Country, error) {
	const op = "storage/mongo/CountryByID"

	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return m.findCountry(ctx, op, bson.D{{Key: "_id", Value: oid}})
}

// CountryByName ищет страну по имени без учёта регистра.
func (m *Mongo) CountryByName(ctx context.Context, name string) (*models.Country, error) {
	const op = "storage/mongo/CountryByName"

	key := strings.ToLower(strings.TrimSpace(name))

	return m.findCountry(ctx, op, bson.D{{Key: "countryNameLower", Value: key}})
}

func (m *Mongo) findCountry(ctx context.Context, op string, filter bson.D) (*models.Country, error) {
	var doc countryDoc
	if err := m.countries.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := doc.toModel()
	return &out, nil
}

// ListCountries возвращает все страны по возрастанию даты регистрации.
func (m *Mongo) ListCountries(ctx context.Context) ([]models.Country, error) {
	const op = "storage/mongo/ListCountries"

	opts := options.Find().SetSort(bson.D{{Key: "registrationDate", Value: 1}, {Key: "_id", Value: 1}})

	cur, err := m.countries.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: find: %w", op, err)
	}
	defer cur.Close(ctx)

	var docs []countryDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("%s: decode: %w", op, err)
	}

	out := make([]models.Country, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toModel())
	}

	return out, nil
}

// UpdateOwnerName меняет ownerName канонической записи.
func (m *Mongo) UpdateOwnerName(ctx context.Context, id, ownerName string) error {
	const op = "storage/mongo/UpdateOwnerName"

	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	res, err := m.countries.UpdateByID(ctx, oid, bson.D{
		{Key: "$set", Value: bson.D{{Key: "ownerName", Value: ownerName}}},
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if res.MatchedCount == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}

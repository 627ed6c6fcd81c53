// mongo — реализация storage.Storage поверх MongoDB.
// mongo.go — подключение, коллекции и индексы;
// countries.go, news.go, comments.go — операции над коллекциями
// countries, news и globalComments соответственно.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/pribylovaa/lapa-nations/internal/config"
	"github.com/pribylovaa/lapa-nations/internal/storage"
)

const (
	countriesCollection      = "countries"
	newsCollection           = "news"
	globalCommentsCollection = "globalComments"
	defaultDBName            = "lapa"

	nameIndexPlain  = "country_name_lower"
	nameIndexUnique = "country_name_lower_unique"

	codeNamespaceNotFound = 26
	codeIndexNotFound     = 27
)

// Mongo — тонкий адаптер для подключения и коллекций MongoDB.
type Mongo struct {
	cfg       *config.Config
	client    *mongodriver.Client
	db        *mongodriver.Database
	countries *mongodriver.Collection
	news      *mongodriver.Collection
	global    *mongodriver.Collection
}

var _ storage.Storage = (*Mongo)(nil)

// New подключается к MongoDB, проверяет соединение, подготавливает коллекции и индексы.
func New(ctx context.Context, cfg *config.Config) (*Mongo, error) {
	if cfg == nil {
		return nil, fmt.Errorf("mongo: nil config")
	}

	if cfg.DB.URL == "" {
		return nil, fmt.Errorf("mongo: empty cfg.DB.URL")
	}

	cli, err := mongodriver.Connect(ctx, options.Client().ApplyURI(cfg.DB.URL))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := cli.Ping(ctx, readpref.Primary()); err != nil {
		_ = cli.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := cli.Database(databaseFromURI(cfg.DB.URL))

	m := &Mongo{
		cfg:       cfg,
		client:    cli,
		db:        db,
		countries: db.Collection(countriesCollection),
		news:      db.Collection(newsCollection),
		global:    db.Collection(globalCommentsCollection),
	}

	if err := m.ensureIndexes(ctx); err != nil {
		_ = m.Close(ctx)
		return nil, err
	}

	return m, nil
}

// Close закрывает соединение с MongoDB.
func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// Ping проверяет доступность primary (используется /healthz).
func (m *Mongo) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, readpref.Primary())
}

// ensureIndexes создаёт индексы:
//   - countries: countryNameLower (уникальный при identity.enforce_unique_names), registrationDate;
//     при смене identity.enforce_unique_names вариант индекса с прежними опциями удаляется;
//   - news: timestamp+_id (desc) для ленты, newsType+timestamp для вкладок;
//   - globalComments: timestamp+_id (desc).
func (m *Mongo) ensureIndexes(ctx context.Context) error {
	nameIdx := mongodriver.IndexModel{
		Keys:    bson.D{{Key: "countryNameLower", Value: 1}},
		Options: options.Index().SetName(nameIndexPlain),
	}
	staleNameIdx := nameIndexUnique
	if m.cfg.Identity.EnforceUniqueNames {
		nameIdx.Options = options.Index().SetName(nameIndexUnique).SetUnique(true)
		staleNameIdx = nameIndexPlain
	}

	if err := dropIndexIfExists(ctx, m.countries, staleNameIdx); err != nil {
		return fmt.Errorf("mongo drop index %s: %w", staleNameIdx, err)
	}

	indexes := map[*mongodriver.Collection][]mongodriver.IndexModel{
		m.countries: {
			nameIdx,
			{
				Keys:    bson.D{{Key: "registrationDate", Value: 1}, {Key: "_id", Value: 1}},
				Options: options.Index().SetName("registration_date_asc"),
			},
		},
		m.news: {
			{
				Keys:    bson.D{{Key: "timestamp", Value: -1}, {Key: "_id", Value: -1}},
				Options: options.Index().SetName("timestamp_desc"),
			},
			{
				Keys:    bson.D{{Key: "newsType", Value: 1}, {Key: "timestamp", Value: -1}, {Key: "_id", Value: -1}},
				Options: options.Index().SetName("type_timestamp_desc"),
			},
		},
		m.global: {
			{
				Keys:    bson.D{{Key: "timestamp", Value: -1}, {Key: "_id", Value: -1}},
				Options: options.Index().SetName("timestamp_desc"),
			},
		},
	}

	for coll, models := range indexes {
		if _, err := coll.Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("mongo ensure indexes (%s): %w", coll.Name(), err)
		}
	}

	return nil
}

// dropIndexIfExists удаляет индекс name; отсутствие коллекции или индекса не ошибка.
func dropIndexIfExists(ctx context.Context, coll *mongodriver.Collection, name string) error {
	_, err := coll.Indexes().DropOne(ctx, name)

	var cmdErr mongodriver.CommandError
	if errors.As(err, &cmdErr) && (cmdErr.Code == codeNamespaceNotFound || cmdErr.Code == codeIndexNotFound) {
		return nil
	}

	return err
}

// databaseFromURI извлекает имя базы данных из URI-пути mongodb.
// Если оно отсутствует, возвращает значение по умолчанию.
func databaseFromURI(uri string) string {
	u, err := url.Parse(uri)
	if err == nil {
		if name := strings.Trim(u.Path, "/"); name != "" {
			return name
		}
	}

	return defaultDBName
}

// toMS приводит время к UTC с точностью MongoDB DateTime (миллисекунды).
func toMS(t time.Time) time.Time { return t.UTC().Truncate(time.Millisecond) }

package store

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/mindmap/pkg/catmap"
	apperrors "github.com/matzehuels/mindmap/pkg/errors"
)

// Collection is the MongoDB collection holding generations.
const Collection = "generations"

// DefaultDatabase is used when the connection URI names no database.
const DefaultDatabase = "mindmap"

// generationDoc is the stored form of a Generation. The category map is kept
// as JSON text so its key order survives.
type generationDoc struct {
	ID        string    `bson:"_id"`
	Central   string    `bson:"central"`
	Model     string    `bson:"model,omitempty"`
	Prompt    string    `bson:"prompt,omitempty"`
	Map       string    `bson:"map,omitempty"`
	CreatedAt time.Time `bson:"created_at"`
}

// MongoStore keeps generations in MongoDB.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
	now    func() time.Time
}

// NewMongoStore connects to uri and ensures the lookup index exists.
// database defaults to DefaultDatabase.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	if database == "" {
		database = DefaultDatabase
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeNetwork, err, "connect to mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, apperrors.Wrap(apperrors.ErrCodeNetwork, err, "ping mongodb")
	}

	coll := client.Database(database).Collection(Collection)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "central", Value: 1}, {Key: "created_at", Value: -1}},
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("create index: %w", err)
	}
	return &MongoStore{client: client, coll: coll, now: time.Now}, nil
}

// SavePrompt inserts a new generation document.
func (s *MongoStore) SavePrompt(ctx context.Context, g *Generation) (string, error) {
	stamp(g, s.now)
	_, err := s.coll.InsertOne(ctx, generationDoc{
		ID:        g.ID,
		Central:   g.Central,
		Model:     g.Model,
		Prompt:    g.Prompt,
		CreatedAt: g.CreatedAt,
	})
	if err != nil {
		return "", fmt.Errorf("save prompt: %w", err)
	}
	return s.location(g.ID), nil
}

// SaveMap sets the map of g's document, creating the document when the
// prompt was never saved.
func (s *MongoStore) SaveMap(ctx context.Context, g *Generation) (string, error) {
	if g.Map == nil {
		return "", apperrors.New(apperrors.ErrCodeInvalidInput, "no category map to save for %q", g.Central)
	}
	data, err := g.Map.MarshalJSON()
	if err != nil {
		return "", err
	}
	stamp(g, s.now)

	update := bson.M{
		"$set": bson.M{
			"central": g.Central,
			"model":   g.Model,
			"map":     string(data),
		},
		"$setOnInsert": bson.M{"created_at": g.CreatedAt},
	}
	if _, err := s.coll.UpdateByID(ctx, g.ID, update, options.Update().SetUpsert(true)); err != nil {
		return "", fmt.Errorf("save map: %w", err)
	}
	return s.location(g.ID), nil
}

// LoadMap returns the map of the newest generation for central.
func (s *MongoStore) LoadMap(ctx context.Context, central string) (*catmap.Map, error) {
	filter := bson.M{"central": central, "map": bson.M{"$exists": true}}
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})

	var doc generationDoc
	err := s.coll.FindOne(ctx, filter, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperrors.New(apperrors.ErrCodeNotFound, "no saved map for %q", central)
	}
	if err != nil {
		return nil, fmt.Errorf("load map: %w", err)
	}
	return catmap.Parse([]byte(doc.Map))
}

// List returns the distinct central labels with a saved map.
func (s *MongoStore) List(ctx context.Context) ([]string, error) {
	values, err := s.coll.Distinct(ctx, "central", bson.M{"map": bson.M{"$exists": true}})
	if err != nil {
		return nil, fmt.Errorf("list maps: %w", err)
	}
	names := make([]string, 0, len(values))
	for _, v := range values {
		if name, ok := v.(string); ok {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names, nil
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func (s *MongoStore) location(id string) string {
	return "mongodb:" + Collection + "/" + id
}

var _ Store = (*MongoStore)(nil)

package source

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/timelane/pkg/cache"
	"github.com/matzehuels/timelane/pkg/errors"
	"github.com/matzehuels/timelane/pkg/item"
	"github.com/matzehuels/timelane/pkg/itemio"
)

// MongoConfig locates an item collection.
type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`

	// Filter selects documents, as extended JSON. Empty means all.
	Filter string `toml:"filter"`

	Timeout time.Duration `toml:"timeout"`
}

// finder is the part of a collection Mongo reads.
type finder interface {
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (*mongo.Cursor, error)
}

// Mongo loads items from a MongoDB collection. Documents carry the item
// fields under the same names as item files, with BSON dates for start
// and end:
//
//	{_id, label, start, end, parent, grandparent, color, url, meta}
type Mongo struct {
	cfg    MongoConfig
	client *mongo.Client
	coll   finder
}

// NewMongo connects to the server in cfg. Call Close when done.
func NewMongo(ctx context.Context, cfg MongoConfig) (*Mongo, error) {
	if cfg.Database == "" || cfg.Collection == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "mongo source needs a database and a collection")
	}
	if err := errors.ValidateURL(cfg.URI, "mongodb", "mongodb+srv"); err != nil {
		return nil, err
	}
	cfg.Timeout = timeoutOrDefault(cfg.Timeout)
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI).SetConnectTimeout(cfg.Timeout))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "connect to mongo")
	}
	return &Mongo{
		cfg:    cfg,
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

func newMongo(cfg MongoConfig, coll finder) *Mongo {
	cfg.Timeout = timeoutOrDefault(cfg.Timeout)
	return &Mongo{cfg: cfg, coll: coll}
}

func timeoutOrDefault(d time.Duration) time.Duration {
	if d <= 0 {
		return 10 * time.Second
	}
	return d
}

// mongoItem is the document form of an item.
type mongoItem struct {
	ID          bson.RawValue     `bson:"_id"`
	Label       string            `bson:"label"`
	Start       time.Time         `bson:"start"`
	End         time.Time         `bson:"end"`
	Parent      string            `bson:"parent"`
	Grandparent string            `bson:"grandparent"`
	Color       string            `bson:"color"`
	URL         string            `bson:"url"`
	Meta        map[string]string `bson:"meta"`
}

func (d mongoItem) toItem() *item.Item {
	return &item.Item{
		ID:          documentID(d.ID),
		Label:       d.Label,
		Start:       d.Start.UTC(),
		End:         d.End.UTC(),
		Parent:      d.Parent,
		Grandparent: d.Grandparent,
		Color:       d.Color,
		URL:         d.URL,
		Meta:        d.Meta,
	}
}

func documentID(v bson.RawValue) string {
	if oid, ok := v.ObjectIDOK(); ok {
		return oid.Hex()
	}
	if s, ok := v.StringValueOK(); ok {
		return s
	}
	if v.Type == 0 {
		return ""
	}
	return v.String()
}

// Load implements Source. Network failures are retried with backoff.
func (m *Mongo) Load(ctx context.Context) ([]*item.Item, error) {
	filter := bson.D{}
	if m.cfg.Filter != "" {
		if err := bson.UnmarshalExtJSON([]byte(m.cfg.Filter), false, &filter); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "mongo filter")
		}
	}
	opts := options.Find().SetSort(bson.D{{Key: "grandparent", Value: 1}, {Key: "parent", Value: 1}, {Key: "start", Value: 1}})

	var docs []mongoItem
	err := cache.RetryWithBackoff(ctx, func() error {
		ctx, cancel := context.WithTimeout(ctx, m.cfg.Timeout)
		defer cancel()
		cur, err := m.coll.Find(ctx, filter, opts)
		if err != nil {
			return retryableMongo(err)
		}
		docs = docs[:0]
		return retryableMongo(cur.All(ctx, &docs))
	})
	if err != nil {
		if errors.GetCode(err) != "" {
			return nil, err
		}
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "load %s", m.Ref())
	}

	items := make([]*item.Item, len(docs))
	for i, d := range docs {
		items[i] = d.toItem()
	}
	return itemio.Normalize(items)
}

func retryableMongo(err error) error {
	if err == nil {
		return nil
	}
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) {
		return cache.Retryable(err)
	}
	return err
}

// Kind implements Source.
func (m *Mongo) Kind() string { return "mongo" }

// Ref implements Source.
func (m *Mongo) Ref() string {
	return fmt.Sprintf("%s.%s?%s", m.cfg.Database, m.cfg.Collection, m.cfg.Filter)
}

// Close disconnects the client.
func (m *Mongo) Close(ctx context.Context) error {
	if m.client == nil {
		return nil
	}
	return m.client.Disconnect(ctx)
}

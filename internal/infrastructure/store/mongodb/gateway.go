package mongodb

import (
	"context"

	"aibuilder/internal/infrastructure/metrics"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Gateway wraps the database handle for diagnostics. Handlers talk to
// it instead of the driver so a deployment can swap in a restricted
// implementation.
type Gateway struct {
	db *mongo.Database
}

func NewGateway(db *mongo.Database) *Gateway {
	return &Gateway{db: db}
}

func (g *Gateway) Name() string {
	return g.db.Name()
}

func (g *Gateway) Ping(ctx context.Context) error {
	metrics.IncDBOp("ping")
	return g.db.Client().Ping(ctx, nil)
}

// ListCollections returns up to limit collection names.
func (g *Gateway) ListCollections(ctx context.Context, limit int) ([]string, error) {
	metrics.IncDBOp("list")
	names, err := g.db.ListCollectionNames(ctx, bson.D{})
	if err != nil {
		metrics.IncError("mongo_gateway", "list_collections_error")
		return nil, err
	}
	if limit > 0 && len(names) > limit {
		names = names[:limit]
	}
	return names, nil
}

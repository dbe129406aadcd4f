package mongodb

import (
	"context"
	"fmt"
	"time"

	"aibuilder/internal/domain/entity"
	"aibuilder/internal/domain/repository"
	"aibuilder/internal/infrastructure/metrics"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type MongoGenerationRepo struct {
	col *mongo.Collection
}

func NewMongoGenerationRepo(db *mongo.Database) repository.GenerationRepository {
	col := db.Collection("generation")

	_, _ = col.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys: bson.D{bson.E{Key: "status", Value: 1}},
	})

	return &MongoGenerationRepo{
		col: col,
	}
}

func (r *MongoGenerationRepo) Create(ctx context.Context, gen *entity.Generation) (string, error) {
	metrics.IncDBOp("insert")

	gen.CreatedAt = time.Now()
	res, err := r.col.InsertOne(ctx, gen)
	if err != nil {
		metrics.IncError("mongo_generation_repo", "create_error")
		return "", err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		return oid.Hex(), nil
	}
	return fmt.Sprintf("%v", res.InsertedID), nil
}

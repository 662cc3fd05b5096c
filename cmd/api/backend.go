package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"storefront/internal/config"
	"storefront/internal/storage"
)

// openBackend builds the cart storage selected by STORAGE_BACKEND. The
// returned func releases any client it opened.
func openBackend(ctx context.Context, cfg config.Config, pool *pgxpool.Pool) (storage.Storage, func(), error) {
	noop := func() {}
	switch cfg.StorageBackend {
	case config.BackendMemory:
		return storage.NewMemory(), noop, nil
	case config.BackendFile:
		st, err := storage.NewFile(cfg.StorageDir)
		if err != nil {
			return nil, noop, err
		}
		return st, noop, nil
	case config.BackendPostgres:
		if pool == nil {
			return nil, noop, errors.New("postgres backend requires DB_DSN")
		}
		return storage.NewPostgres(pool), noop, nil
	case config.BackendDynamo:
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, noop, fmt.Errorf("load aws config: %w", err)
		}
		client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
			if cfg.DynamoEndpoint != "" {
				o.BaseEndpoint = aws.String(cfg.DynamoEndpoint)
			}
		})
		return storage.NewDynamo(client, cfg.DynamoTable), noop, nil
	case config.BackendMongo:
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			return nil, noop, fmt.Errorf("connect mongo: %w", err)
		}
		coll := client.Database(cfg.MongoDatabase).Collection(cfg.MongoCollection)
		return storage.NewMongo(coll), func() { _ = client.Disconnect(context.Background()) }, nil
	default:
		return nil, noop, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}

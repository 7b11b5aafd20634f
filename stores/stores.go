package stores

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/GoncharovAlexandr/onshp/auth"
	"github.com/GoncharovAlexandr/onshp/models"
)

// SessionStore maps opaque tokens to sessions with a fixed TTL. Get returns
// apperr.ErrUnauthorized for tokens that are unknown or expired.
type SessionStore interface {
	Get(ctx context.Context, token string) (auth.Session, error)
	// Put writes the session and (re)arms its TTL.
	Put(ctx context.Context, s auth.Session) error
	// FindByAccount scans all live sessions for one owned by the account.
	// Linear in the number of live sessions; only login calls it.
	FindByAccount(ctx context.Context, role auth.Role, accountID uint) (auth.Session, bool, error)
	Delete(ctx context.Context, token string) error
}

// CartStore owns the single cart representation. Get returns an empty cart,
// not an error, when the customer has none yet.
type CartStore interface {
	Get(ctx context.Context, customerID uint) (models.Cart, error)
	Put(ctx context.Context, cart models.Cart) error
	Clear(ctx context.Context, customerID uint) error
}

// ProfileStore returns apperr.ErrNotFound when no profile document exists.
type ProfileStore interface {
	Get(ctx context.Context, customerID uint) (models.UserProfile, error)
	Upsert(ctx context.Context, profile models.UserProfile) error
}

// ProductDocStore mirrors product descriptions. Get returns a zero document
// for products that never had one; Delete is independent of the relational
// delete (no cross-store transaction).
type ProductDocStore interface {
	Get(ctx context.Context, productID uint) (models.ProductDoc, error)
	Upsert(ctx context.Context, doc models.ProductDoc) error
	Delete(ctx context.Context, productID uint) error
}

type PromotionStore interface {
	List(ctx context.Context) ([]models.Promotion, error)
	Get(ctx context.Context, id string) (models.Promotion, error)
	ByProduct(ctx context.Context, productID uint) ([]models.Promotion, error)
	Create(ctx context.Context, promo models.Promotion) (models.Promotion, error)
	Delete(ctx context.Context, id string) error
}

// PopularityStore is a monotonically incrementing per-product counter used
// only for ranking. No decay, no time windowing.
type PopularityStore interface {
	Bump(ctx context.Context, productID uint) error
	Top(ctx context.Context, n int64) ([]uint, error)
}

// Cache is a raw TTL set/get over JSON values. GetJSON reports a miss with
// (false, nil).
type Cache interface {
	GetJSON(ctx context.Context, key string, dest any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
}

type Config struct {
	DatabaseURL string
	MongoURL    string
	MongoDB     string
	RedisAddr   string
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// ConfigFromEnv reads store endpoints with local-development defaults.
func ConfigFromEnv() Config {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		databaseURL = fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			getenv("DB_HOST", "localhost"),
			getenv("DB_USER", "postgres"),
			getenv("DB_PASSWORD", "postgres"),
			getenv("DB_NAME", "shop"),
			getenv("DB_PORT", "5432"),
		)
	}
	return Config{
		DatabaseURL: databaseURL,
		MongoURL:    getenv("MONGO_URL", "mongodb://localhost:27017"),
		MongoDB:     getenv("MONGO_DB_NAME", "db"),
		RedisAddr:   getenv("REDIS_ADDR", "localhost:6379"),
	}
}

// Clients bundles every datastore handle. It is constructed once at process
// start and injected into handlers; nothing reads store handles from globals.
type Clients struct {
	DB          *gorm.DB
	Sessions    SessionStore
	Carts       CartStore
	Profiles    ProfileStore
	ProductDocs ProductDocStore
	Promotions  PromotionStore
	Popularity  PopularityStore
	Cache       Cache

	mongoClient *mongo.Client
	redisClient *redis.Client
}

func Open(ctx context.Context, cfg Config) (*Clients, error) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	log.Println("✅ Connected to Postgres")

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURL))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := mongoClient.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	log.Println("✅ Connected to MongoDB")

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	log.Println("✅ Connected to Redis")

	docs := mongoClient.Database(cfg.MongoDB)
	return &Clients{
		DB:          db,
		Sessions:    &redisSessions{rdb: rdb},
		Carts:       &mongoCarts{col: docs.Collection("carts")},
		Profiles:    &mongoProfiles{col: docs.Collection("user_profiles")},
		ProductDocs: &mongoProductDocs{col: docs.Collection("products")},
		Promotions:  &mongoPromotions{col: docs.Collection("promotions")},
		Popularity:  &redisPopularity{rdb: rdb},
		Cache:       &redisCache{rdb: rdb},
		mongoClient: mongoClient,
		redisClient: rdb,
	}, nil
}

func (c *Clients) Close(ctx context.Context) error {
	var firstErr error
	if sqlDB, err := c.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if err := c.mongoClient.Disconnect(ctx); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := c.redisClient.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

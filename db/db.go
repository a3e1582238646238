package db

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	UserCollection    *mongo.Collection
	ProductCollection *mongo.Collection
	CartCollection    *mongo.Collection
	OrderCollection   *mongo.Collection
	Client            *mongo.Client
)

// CartTTL is how long an idle cart document survives before Mongo expires it.
const CartTTL = 30 * 24 * time.Hour

// Initialize MongoDB connection
func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}

	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	var err error
	Client, err = mongo.Connect(context.TODO(), options.Client().ApplyURI(uri))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	UserCollection = Client.Database("shopdb").Collection("users")
	ProductCollection = Client.Database("shopdb").Collection("products")
	CartCollection = Client.Database("shopdb").Collection("carts")
	OrderCollection = Client.Database("shopdb").Collection("orders")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := EnsureIndexes(ctx); err != nil {
		log.Printf("Index creation failed: %v", err)
	}
}

// EnsureIndexes creates the indexes the app relies on: the cart expiry TTL,
// the unique order number, and the unique username.
func EnsureIndexes(ctx context.Context) error {
	_, err := CartCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.M{"createdAt": 1},
		Options: options.Index().
			SetExpireAfterSeconds(int32(CartTTL / time.Second)).
			SetName("ttl_createdAt"),
	})
	if err != nil {
		return err
	}

	_, err = OrderCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.M{"orderNumber": 1},
		Options: options.Index().SetUnique(true).SetName("unique_orderNumber"),
	})
	if err != nil {
		return err
	}

	_, err = UserCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.M{"username": 1},
		Options: options.Index().SetUnique(true).SetName("unique_username"),
	})
	return err
}

package db

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	UserCollection      *mongo.Collection
	RecipeCollection    *mongo.Collection
	InventoryCollection *mongo.Collection
	MealPlanCollection  *mongo.Collection

	Client *mongo.Client
)

// Connect dials MongoDB, pings it and binds the collection handles.
// Called once from main; test packages never import a live connection.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	opts := options.Client().ApplyURI(uri).SetServerAPIOptions(serverAPI)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}

	if err := client.Database("admin").RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err(); err != nil {
		return nil, err
	}

	Client = client
	database := client.Database("plateful")
	UserCollection = database.Collection("users")
	RecipeCollection = database.Collection("recipes")
	InventoryCollection = database.Collection("inventory")
	MealPlanCollection = database.Collection("mealplans")

	return client, nil
}

func OptionsFindLatest(limit int64) *options.FindOptions {
	opts := options.Find()
	opts.SetSort(map[string]interface{}{"createdAt": -1})
	opts.SetLimit(limit)
	return opts
}

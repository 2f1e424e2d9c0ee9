package store

import (
	"context"
	"time"

	"plateful/db"
	"plateful/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type InventoryStore struct {
	coll *mongo.Collection
}

func Inventory() *InventoryStore {
	return &InventoryStore{coll: db.InventoryCollection}
}

func NewInventoryStore(coll *mongo.Collection) *InventoryStore {
	return &InventoryStore{coll: coll}
}

func (s *InventoryStore) ItemsForUser(ctx context.Context, userID string) ([]models.InventoryItem, error) {
	cursor, err := s.coll.Find(ctx, bson.M{"userId": userID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var items []models.InventoryItem
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *InventoryStore) Insert(ctx context.Context, item *models.InventoryItem) error {
	now := time.Now()
	item.CreatedAt = now
	item.UpdatedAt = now
	result, err := s.coll.InsertOne(ctx, item)
	if err != nil {
		return err
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		item.ID = oid
	}
	return nil
}

func (s *InventoryStore) Update(ctx context.Context, id string, fields bson.M) (*models.InventoryItem, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	fields["updatedAt"] = time.Now()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.InventoryItem
	err = s.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": fields}, opts).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *InventoryStore) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	result, err := s.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

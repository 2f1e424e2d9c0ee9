package store

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"plateful/db"
	"plateful/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound covers both missing documents and malformed ids: a client
// holding a bad id gets the same answer as one holding a stale id.
var ErrNotFound = errors.New("store: not found")

type RecipeStore struct {
	coll *mongo.Collection
}

func Recipes() *RecipeStore {
	return &RecipeStore{coll: db.RecipeCollection}
}

func NewRecipeStore(coll *mongo.Collection) *RecipeStore {
	return &RecipeStore{coll: coll}
}

// parseID rejects ephemeral "ai_" ids and malformed hex up front.
func parseID(id string) (primitive.ObjectID, error) {
	if strings.HasPrefix(id, "ai_") {
		return primitive.NilObjectID, ErrNotFound
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, ErrNotFound
	}
	return oid, nil
}

func (s *RecipeStore) FindByID(ctx context.Context, id string) (*models.Recipe, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	var recipe models.Recipe
	err = s.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&recipe)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &recipe, nil
}

type RecipeFilter struct {
	Title       string
	Ingredient  string
	MinCalories *float64
	MaxCalories *float64
}

func (s *RecipeStore) Find(ctx context.Context, filter RecipeFilter) ([]models.Recipe, error) {
	query := bson.M{}
	if filter.Title != "" {
		query["title"] = bson.M{"$regex": regexp.QuoteMeta(filter.Title), "$options": "i"}
	}
	if filter.Ingredient != "" {
		query["ingredients.name"] = bson.M{"$regex": regexp.QuoteMeta(filter.Ingredient), "$options": "i"}
	}
	if filter.MinCalories != nil || filter.MaxCalories != nil {
		calories := bson.M{}
		if filter.MinCalories != nil {
			calories["$gte"] = *filter.MinCalories
		}
		if filter.MaxCalories != nil {
			calories["$lte"] = *filter.MaxCalories
		}
		query["nutrition.calories"] = calories
	}
	return s.findAll(ctx, query, nil)
}

// FindByTitleSubstring returns recipes whose title contains the given
// text, case-insensitively.
func (s *RecipeStore) FindByTitleSubstring(ctx context.Context, title string) ([]models.Recipe, error) {
	query := bson.M{"title": bson.M{"$regex": regexp.QuoteMeta(title), "$options": "i"}}
	return s.findAll(ctx, query, nil)
}

// FindByHexIDs batch-fetches recipes keyed by their hex id. Malformed
// ids are skipped, missing ones simply absent from the map.
func (s *RecipeStore) FindByHexIDs(ctx context.Context, ids []string) (map[string]models.Recipe, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			oids = append(oids, oid)
		}
	}
	out := make(map[string]models.Recipe, len(oids))
	if len(oids) == 0 {
		return out, nil
	}
	recipes, err := s.findAll(ctx, bson.M{"_id": bson.M{"$in": oids}}, nil)
	if err != nil {
		return nil, err
	}
	for _, r := range recipes {
		out[r.ID.Hex()] = r
	}
	return out, nil
}

// FindByIngredientNames returns recipes containing any of the given
// ingredient names, matched exactly.
func (s *RecipeStore) FindByIngredientNames(ctx context.Context, names []string) ([]models.Recipe, error) {
	if len(names) == 0 {
		return []models.Recipe{}, nil
	}
	return s.findAll(ctx, bson.M{"ingredients.name": bson.M{"$in": names}}, nil)
}

func (s *RecipeStore) FindAll(ctx context.Context, limit int64) ([]models.Recipe, error) {
	var opts *options.FindOptions
	if limit > 0 {
		opts = options.Find().SetLimit(limit)
	}
	return s.findAll(ctx, bson.M{}, opts)
}

// Sample returns up to n random recipes.
func (s *RecipeStore) Sample(ctx context.Context, n int) ([]models.Recipe, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$sample", Value: bson.M{"size": n}}},
	}
	cursor, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var recipes []models.Recipe
	if err := cursor.All(ctx, &recipes); err != nil {
		return nil, err
	}
	return recipes, nil
}

func (s *RecipeStore) Insert(ctx context.Context, recipe *models.Recipe) error {
	now := time.Now()
	recipe.CreatedAt = now
	recipe.UpdatedAt = now
	result, err := s.coll.InsertOne(ctx, recipe)
	if err != nil {
		return err
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		recipe.ID = oid
	}
	return nil
}

// Update merges the given fields into the document and returns the
// updated recipe.
func (s *RecipeStore) Update(ctx context.Context, id string, fields bson.M) (*models.Recipe, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	fields["updatedAt"] = time.Now()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Recipe
	err = s.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": fields}, opts).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *RecipeStore) Delete(ctx context.Context, id string) error {
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

func (s *RecipeStore) findAll(ctx context.Context, query bson.M, opts *options.FindOptions) ([]models.Recipe, error) {
	var cursor *mongo.Cursor
	var err error
	if opts != nil {
		cursor, err = s.coll.Find(ctx, query, opts)
	} else {
		cursor, err = s.coll.Find(ctx, query)
	}
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var recipes []models.Recipe
	if err := cursor.All(ctx, &recipes); err != nil {
		return nil, err
	}
	return recipes, nil
}

package home

import (
	"context"
	"net/http"
	"strings"

	"plateful/db"
	"plateful/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// GetHomeContent serves the dashboard sections under /home/:apiRoute
func GetHomeContent(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	apiRoute := strings.ToLower(ps.ByName("apiRoute"))

	var (
		data interface{}
		err  error
	)

	switch apiRoute {
	case "trending":
		data, err = getTrendingRecipes()
	case "categories":
		data, err = getCategories()
	case "seasonal-tips":
		data, err = getSeasonalTips()
	default:
		utils.RespondWithError(w, http.StatusNotFound, "Invalid API route")
		return
	}

	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch data: "+err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, data)
}

// getTrendingRecipes returns the most liked recipes
func getTrendingRecipes() ([]bson.M, error) {
	ctx := context.TODO()
	pipeline := mongo.Pipeline{
		{{Key: "$addFields", Value: bson.M{"likeCount": bson.M{"$size": bson.M{"$ifNull": []any{"$likes", []any{}}}}}}},
		{{Key: "$sort", Value: bson.M{"likeCount": -1}}},
		{{Key: "$limit", Value: 10}},
	}
	cursor, err := db.RecipeCollection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var recipes []bson.M
	if err := cursor.All(ctx, &recipes); err != nil {
		return nil, err
	}
	if recipes == nil {
		recipes = []bson.M{}
	}
	return recipes, nil
}

func getCategories() ([]string, error) {
	return []string{
		"Breakfast",
		"Lunch",
		"Dinner",
		"Desserts",
		"Vegan",
		"Quick & Easy",
	}, nil
}

func getSeasonalTips() ([]string, error) {
	return []string{
		"Tomatoes are at their best in late summer",
		"Batch-cook grains on Sunday for faster weeknight dinners",
		"Freeze overripe bananas for smoothies and banana bread",
	}, nil
}

package social

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"plateful/db"
	"plateful/models"
	"plateful/mq"
	"plateful/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func findUser(ctx context.Context, id string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, mongo.ErrNoDocuments
	}
	var user models.User
	if err := db.UserCollection.FindOne(ctx, bson.M{"_id": oid}).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Follow adds the symmetric follower/following edge. Each array update is
// an atomic $addToSet, but the pair is not transactional: a failure
// between the two writes can leave the edge half-applied.
func Follow(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var body struct {
		CurrentUserID string `json:"currentUserId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	targetID := ps.ByName("id")
	if body.CurrentUserID == targetID {
		utils.RespondWithError(w, http.StatusBadRequest, "You cannot follow yourself")
		return
	}

	ctx := context.TODO()
	currentUser, err := findUser(ctx, body.CurrentUserID)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "User not found")
		return
	}
	targetUser, err := findUser(ctx, targetID)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "User not found")
		return
	}
	if contains(currentUser.Following, targetID) {
		utils.RespondWithError(w, http.StatusBadRequest, "Already following")
		return
	}

	if _, err := db.UserCollection.UpdateOne(ctx,
		bson.M{"_id": currentUser.ID},
		bson.M{"$addToSet": bson.M{"following": targetID}}); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error following user")
		return
	}
	if _, err := db.UserCollection.UpdateOne(ctx,
		bson.M{"_id": targetUser.ID},
		bson.M{"$addToSet": bson.M{"followers": body.CurrentUserID}}); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error following user")
		return
	}

	mq.Emit("user-followed", mq.Index{EntityType: "user", Method: "POST", EntityId: targetID, ItemId: body.CurrentUserID})
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "User followed"})
}

func Unfollow(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var body struct {
		CurrentUserID string `json:"currentUserId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	targetID := ps.ByName("id")

	ctx := context.TODO()
	currentUser, err := findUser(ctx, body.CurrentUserID)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "User not found")
		return
	}
	targetUser, err := findUser(ctx, targetID)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "User not found")
		return
	}
	if !contains(currentUser.Following, targetID) {
		utils.RespondWithError(w, http.StatusBadRequest, "Not following this user")
		return
	}

	if _, err := db.UserCollection.UpdateOne(ctx,
		bson.M{"_id": currentUser.ID},
		bson.M{"$pull": bson.M{"following": targetID}}); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error unfollowing user")
		return
	}
	if _, err := db.UserCollection.UpdateOne(ctx,
		bson.M{"_id": targetUser.ID},
		bson.M{"$pull": bson.M{"followers": body.CurrentUserID}}); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error unfollowing user")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "User unfollowed"})
}

// LikeRecipe toggles the caller's like and reports the new count.
func LikeRecipe(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var body struct {
		UserID string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	oid, err := primitive.ObjectIDFromHex(ps.ByName("recipeId"))
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Recipe not found")
		return
	}

	ctx := context.TODO()
	var recipe models.Recipe
	if err := db.RecipeCollection.FindOne(ctx, bson.M{"_id": oid}).Decode(&recipe); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Recipe not found")
		return
	}

	if contains(recipe.Likes, body.UserID) {
		if _, err := db.RecipeCollection.UpdateOne(ctx,
			bson.M{"_id": oid},
			bson.M{"$pull": bson.M{"likes": body.UserID}}); err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, "Server Error")
			return
		}
		utils.RespondWithJSON(w, http.StatusOK, utils.M{
			"msg": "Recipe unliked", "likes": len(recipe.Likes) - 1, "isLiked": false,
		})
		return
	}

	if _, err := db.RecipeCollection.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$addToSet": bson.M{"likes": body.UserID}}); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Server Error")
		return
	}
	mq.Emit("recipe-liked", mq.Index{EntityType: "recipe", Method: "POST", EntityId: recipe.ID.Hex(), ItemId: body.UserID})
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"msg": "Recipe liked", "likes": len(recipe.Likes) + 1, "isLiked": true,
	})
}

// SaveRecipe toggles a recipe in the caller's saved list.
func SaveRecipe(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var body struct {
		UserID string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	recipeID := ps.ByName("recipeId")

	ctx := context.TODO()
	user, err := findUser(ctx, body.UserID)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "User not found")
		return
	}

	if contains(user.SavedRecipes, recipeID) {
		if _, err := db.UserCollection.UpdateOne(ctx,
			bson.M{"_id": user.ID},
			bson.M{"$pull": bson.M{"savedRecipes": recipeID}}); err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, "Error saving recipe")
			return
		}
		utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Recipe unsaved", "isSaved": false})
		return
	}

	if _, err := db.UserCollection.UpdateOne(ctx,
		bson.M{"_id": user.ID},
		bson.M{"$addToSet": bson.M{"savedRecipes": recipeID}}); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error saving recipe")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Recipe saved", "isSaved": true})
}

// CommentRecipe appends a comment and returns it populated with the
// commenter's public profile fields.
func CommentRecipe(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var body struct {
		UserID string `json:"userId"`
		Text   string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Text == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Comment text required")
		return
	}

	oid, err := primitive.ObjectIDFromHex(ps.ByName("recipeId"))
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Recipe not found")
		return
	}

	ctx := context.TODO()
	comment := models.Comment{User: body.UserID, Text: body.Text, Date: time.Now()}
	result, err := db.RecipeCollection.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$push": bson.M{"comments": comment}})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error adding comment")
		return
	}
	if result.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Recipe not found")
		return
	}

	populated := utils.M{"user": utils.M{"_id": body.UserID}, "text": comment.Text, "date": comment.Date}
	if user, err := findUser(ctx, body.UserID); err == nil {
		populated["user"] = utils.M{
			"_id":            body.UserID,
			"username":       user.Username,
			"profilePicture": user.ProfilePicture,
		}
	}
	utils.RespondWithJSON(w, http.StatusOK, populated)
}

// Feed returns a random selection of recipes with the author joined in,
// sensitive author fields stripped.
func Feed(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := context.TODO()
	pipeline := mongo.Pipeline{
		{{Key: "$sample", Value: bson.M{"size": 20}}},
		{{Key: "$lookup", Value: bson.M{
			"from": "users",
			"let": bson.M{"uid": bson.M{"$convert": bson.M{
				"input": "$createdBy", "to": "objectId", "onError": nil, "onNull": nil,
			}}},
			"pipeline": []bson.M{
				{"$match": bson.M{"$expr": bson.M{"$eq": []any{"$_id", "$$uid"}}}},
				{"$project": bson.M{"password": 0, "email": 0}},
			},
			"as": "author",
		}}},
		{{Key: "$unwind", Value: bson.M{"path": "$author", "preserveNullAndEmptyArrays": true}}},
	}

	cursor, err := db.RecipeCollection.Aggregate(ctx, pipeline)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error fetching feed")
		return
	}
	defer cursor.Close(ctx)

	var feed []bson.M
	if err := cursor.All(ctx, &feed); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error fetching feed")
		return
	}
	if feed == nil {
		feed = []bson.M{}
	}
	utils.RespondWithJSON(w, http.StatusOK, feed)
}

// Profile returns a user (password excluded) together with their posts.
func Profile(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx := context.TODO()
	user, err := findUser(ctx, ps.ByName("id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "User not found")
		return
	}

	cursor, err := db.RecipeCollection.Find(ctx, bson.M{"createdBy": ps.ByName("id")}, db.OptionsFindLatest(0))
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error fetching profile")
		return
	}
	defer cursor.Close(ctx)

	var posts []models.Recipe
	if err := cursor.All(ctx, &posts); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error fetching profile")
		return
	}
	if posts == nil {
		posts = []models.Recipe{}
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"user": user, "posts": posts})
}

// SuggestUsers lists users the caller does not follow yet.
func SuggestUsers(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx := context.TODO()
	currentUser, err := findUser(ctx, ps.ByName("userId"))
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "User not found")
		return
	}

	excluded := append([]string{}, currentUser.Following...)
	excluded = append(excluded, currentUser.ID.Hex())
	excludedOIDs := make([]primitive.ObjectID, 0, len(excluded))
	for _, id := range excluded {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			excludedOIDs = append(excludedOIDs, oid)
		}
	}

	opts := options.Find().
		SetLimit(5).
		SetProjection(bson.M{"username": 1, "email": 1})
	cursor, err := db.UserCollection.Find(ctx, bson.M{"_id": bson.M{"$nin": excludedOIDs}}, opts)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error fetching suggestions")
		return
	}
	defer cursor.Close(ctx)

	var suggested []bson.M
	if err := cursor.All(ctx, &suggested); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error fetching suggestions")
		return
	}
	if suggested == nil {
		suggested = []bson.M{}
	}
	utils.RespondWithJSON(w, http.StatusOK, suggested)
}

package recipes

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"plateful/db"
	"plateful/models"
	"plateful/mq"
	"plateful/store"
	"plateful/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Get all recipes with filters
func GetRecipes(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	filter := store.RecipeFilter{
		Title:      r.URL.Query().Get("title"),
		Ingredient: r.URL.Query().Get("ingredient"),
	}
	if v := r.URL.Query().Get("minCalories"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			filter.MinCalories = &parsed
		}
	}
	if v := r.URL.Query().Get("maxCalories"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			filter.MaxCalories = &parsed
		}
	}

	recipes, err := store.Recipes().Find(r.Context(), filter)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error fetching recipes")
		return
	}
	if recipes == nil {
		recipes = []models.Recipe{}
	}
	utils.RespondWithJSON(w, http.StatusOK, recipes)
}

// Get one recipe. Ephemeral AI ids and malformed ids both read as 404.
func GetRecipe(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	if strings.HasPrefix(id, "ai_") {
		utils.RespondWithError(w, http.StatusNotFound, "AI Recipe expired or not found")
		return
	}

	recipe, err := store.Recipes().FindByID(r.Context(), id)
	if err == store.ErrNotFound {
		utils.RespondWithError(w, http.StatusNotFound, "Recipe not found")
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error fetching recipe")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, withAuthor(*recipe, lookupAuthor(r.Context(), recipe.CreatedBy)))
}

// recipeWithAuthor shadows the createdBy id with a small author
// sub-document, matching what the feed lookup produces.
type recipeWithAuthor struct {
	models.Recipe
	CreatedBy interface{} `json:"createdBy,omitempty"`
}

func withAuthor(recipe models.Recipe, author *models.User) recipeWithAuthor {
	out := recipeWithAuthor{Recipe: recipe}
	switch {
	case author != nil:
		out.CreatedBy = utils.M{
			"_id":            recipe.CreatedBy,
			"username":       author.Username,
			"profilePicture": author.ProfilePicture,
		}
	case recipe.CreatedBy != "":
		out.CreatedBy = recipe.CreatedBy
	}
	return out
}

func lookupAuthor(ctx context.Context, id string) *models.User {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil
	}
	var user models.User
	if err := db.UserCollection.FindOne(ctx, bson.M{"_id": oid}).Decode(&user); err != nil {
		return nil
	}
	return &user
}

func CreateRecipe(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var recipe models.Recipe
	if err := json.NewDecoder(r.Body).Decode(&recipe); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if recipe.Title == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Title is required")
		return
	}
	if userID := utils.GetUserIDFromRequest(r); userID != "" {
		recipe.CreatedBy = userID
	}

	if err := store.Recipes().Insert(r.Context(), &recipe); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error creating recipe")
		return
	}

	mq.Emit("recipe-created", mq.Index{EntityType: "recipe", Method: "POST", EntityId: recipe.ID.Hex()})
	utils.RespondWithJSON(w, http.StatusCreated, recipe)
}

// allowed merge-update fields; anything else in the body is dropped
var updatableFields = map[string]bool{
	"title":       true,
	"description": true,
	"ingredients": true,
	"steps":       true,
	"nutrition":   true,
	"imageUrl":    true,
}

func UpdateRecipe(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	fields := bson.M{}
	for key, value := range body {
		if updatableFields[key] {
			fields[key] = value
		}
	}
	if len(fields) == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "No updatable fields provided")
		return
	}

	updated, err := store.Recipes().Update(r.Context(), ps.ByName("id"), fields)
	if err == store.ErrNotFound {
		utils.RespondWithError(w, http.StatusNotFound, "Recipe not found")
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error updating recipe")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, updated)
}

func DeleteRecipe(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	err := store.Recipes().Delete(r.Context(), id)
	if err == store.ErrNotFound {
		utils.RespondWithError(w, http.StatusNotFound, "Recipe not found")
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error deleting recipe")
		return
	}

	mq.Emit("recipe-deleted", mq.Index{EntityType: "recipe", Method: "DELETE", EntityId: id})
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Recipe deleted successfully"})
}

// RateRecipe upserts the caller's rating: one entry per user.
func RateRecipe(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var body struct {
		UserID string  `json:"userId"`
		Rating float64 `json:"rating"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if body.UserID == "" {
		body.UserID = utils.GetUserIDFromRequest(r)
	}

	oid, err := primitive.ObjectIDFromHex(ps.ByName("id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Recipe not found")
		return
	}

	ctx := context.TODO()
	result, err := db.RecipeCollection.UpdateOne(ctx,
		bson.M{"_id": oid, "ratings.user": body.UserID},
		bson.M{"$set": bson.M{"ratings.$.rating": body.Rating}},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error rating recipe")
		return
	}
	if result.MatchedCount == 0 {
		pushResult, err := db.RecipeCollection.UpdateOne(ctx,
			bson.M{"_id": oid},
			bson.M{"$push": bson.M{"ratings": models.Rating{User: body.UserID, Rating: body.Rating}}},
		)
		if err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, "Error rating recipe")
			return
		}
		if pushResult.MatchedCount == 0 {
			utils.RespondWithError(w, http.StatusNotFound, "Recipe not found")
			return
		}
	}

	recipe, err := store.Recipes().FindByID(ctx, ps.ByName("id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error rating recipe")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, recipe)
}

// UploadRecipeImage attaches an uploaded photo (plus thumbnail) to a recipe.
func UploadRecipeImage(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Failed to parse form")
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Missing image file")
		return
	}
	defer file.Close()

	path, err := utils.SaveRecipeImage(file, header, "./static/uploads")
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error saving image")
		return
	}

	updated, err := store.Recipes().Update(r.Context(), ps.ByName("id"), bson.M{"imageUrl": path})
	if err == store.ErrNotFound {
		utils.RespondWithError(w, http.StatusNotFound, "Recipe not found")
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error updating recipe")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, updated)
}

package ai

import (
	"context"
	"errors"
	"strings"
	"testing"

	"plateful/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type fakeGen struct {
	text           string
	err            error
	gotIngredients []string
	gotDemo        bool
}

func (f *fakeGen) Suggest(_ context.Context, ingredients []string, demoMode bool, _ map[string]any) (string, error) {
	f.gotIngredients = ingredients
	f.gotDemo = demoMode
	return f.text, f.err
}

type fakeRecipes struct {
	recipes []models.Recipe
}

func (f *fakeRecipes) FindByTitleSubstring(_ context.Context, title string) ([]models.Recipe, error) {
	var out []models.Recipe
	for _, r := range f.recipes {
		if strings.Contains(strings.ToLower(r.Title), strings.ToLower(title)) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRecipes) FindAll(_ context.Context, limit int64) ([]models.Recipe, error) {
	if limit > 0 && int64(len(f.recipes)) > limit {
		return f.recipes[:limit], nil
	}
	return f.recipes, nil
}

func (f *fakeRecipes) Sample(_ context.Context, n int) ([]models.Recipe, error) {
	if len(f.recipes) > n {
		return f.recipes[:n], nil
	}
	return f.recipes, nil
}

type fakeInventory struct {
	items map[string][]models.InventoryItem
}

func (f *fakeInventory) ItemsForUser(_ context.Context, userID string) ([]models.InventoryItem, error) {
	return f.items[userID], nil
}

func newTestOrchestrator(gen *fakeGen, recipes *fakeRecipes, inv *fakeInventory) *Orchestrator {
	if recipes == nil {
		recipes = &fakeRecipes{}
	}
	if inv == nil {
		inv = &fakeInventory{}
	}
	return NewOrchestrator(recipes, inv, gen, zap.NewNop())
}

func storedRecipe(title string, ingredients ...string) models.Recipe {
	r := models.Recipe{
		ID:    primitive.NewObjectID(),
		Title: title,
	}
	for _, name := range ingredients {
		r.Ingredients = append(r.Ingredients, models.Ingredient{Name: name, Quantity: "1"})
	}
	return r
}

func TestRecommendSynthesizesGhostForUnmatchedSuggestion(t *testing.T) {
	gen := &fakeGen{text: `[{"title":"Milk Pancakes","ingredients":[{"name":"Milk","quantity":"1 cup"}],"steps":["Whisk","Fry"]}]`}
	inv := &fakeInventory{items: map[string][]models.InventoryItem{
		"u1": {{Item: "Eggs"}, {Item: "Milk"}},
	}}
	orch := newTestOrchestrator(gen, nil, inv)

	results, err := orch.Recommend(context.Background(), RecommendRequest{UserID: "u1"})
	require.NoError(t, err)
	require.Len(t, results, 1)

	got := results[0]
	assert.Equal(t, "Milk Pancakes", got.Title)
	assert.True(t, got.IsAISuggestion)
	assert.True(t, strings.HasPrefix(got.ID, "ai_"), "ghost id must carry the ai_ prefix, got %q", got.ID)
	assert.Equal(t, []string{"Whisk", "Fry"}, got.Steps)
	assert.Equal(t, []string{"Eggs", "Milk"}, gen.gotIngredients)
	assert.False(t, gen.gotDemo)
}

func TestDemoModeTriggersOnlyWhenPantryEmpty(t *testing.T) {
	gen := &fakeGen{text: `[]`}
	orch := newTestOrchestrator(gen, nil, nil)

	_, err := orch.Recommend(context.Background(), RecommendRequest{UserID: "nobody", Ingredients: []string{}})
	require.NoError(t, err)
	assert.True(t, gen.gotDemo)
	assert.Equal(t, []string{"Eggs", "Milk", "Flour", "Tomato", "Onion"}, gen.gotIngredients)

	gen2 := &fakeGen{text: `[]`}
	orch2 := newTestOrchestrator(gen2, nil, nil)
	_, err = orch2.Recommend(context.Background(), RecommendRequest{Ingredients: []string{"Tofu"}})
	require.NoError(t, err)
	assert.False(t, gen2.gotDemo)
	assert.Equal(t, []string{"Tofu"}, gen2.gotIngredients)
}

func TestReconciliationReturnsStoredRecipeNotGhost(t *testing.T) {
	stored := storedRecipe("Grandma's Milk Pancakes", "Milk", "Flour")
	stored.Likes = []string{"u2", "u3"}
	stored.Comments = []models.Comment{{User: "u2", Text: "so good"}}

	gen := &fakeGen{text: `[{"title":"Milk Pancakes"}]`}
	recipes := &fakeRecipes{recipes: []models.Recipe{stored}}
	orch := newTestOrchestrator(gen, recipes, nil)

	results, err := orch.Recommend(context.Background(), RecommendRequest{Ingredients: []string{"Milk"}})
	require.NoError(t, err)
	require.Len(t, results, 1)

	got := results[0]
	assert.Equal(t, stored.ID.Hex(), got.ID)
	assert.False(t, got.IsAISuggestion)
	assert.Equal(t, stored.Likes, got.Likes)
	assert.Len(t, got.Comments, 1)
}

func TestMatchedRecipesPrecedeGhosts(t *testing.T) {
	stored := storedRecipe("Classic Tomato Soup", "Tomato")
	gen := &fakeGen{text: `[{"title":"Onion Tart"},{"title":"Tomato Soup"}]`}
	recipes := &fakeRecipes{recipes: []models.Recipe{stored}}
	orch := newTestOrchestrator(gen, recipes, nil)

	results, err := orch.Recommend(context.Background(), RecommendRequest{Ingredients: []string{"Tomato", "Onion"}})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, stored.ID.Hex(), results[0].ID)
	assert.True(t, results[1].IsAISuggestion)
	assert.Equal(t, "Onion Tart", results[1].Title)
}

func TestGhostDefaultsForSparseSuggestion(t *testing.T) {
	gen := &fakeGen{text: `[{"title":"Mystery Dish","matchType":"Partial"}]`}
	orch := newTestOrchestrator(gen, nil, nil)

	results, err := orch.Recommend(context.Background(), RecommendRequest{Ingredients: []string{"Rice", "Beans"}})
	require.NoError(t, err)
	require.Len(t, results, 1)

	got := results[0]
	assert.Equal(t, "AI Suggested Recipe", got.Description)
	assert.Equal(t, []models.Ingredient{
		{Name: "Rice", Quantity: "As needed"},
		{Name: "Beans", Quantity: "As needed"},
	}, got.Ingredients)
	assert.Equal(t, []string{"Mix ingredients and cook until done"}, got.Steps)
	assert.Zero(t, got.Nutrition.Calories)
	assert.Equal(t, "30m", got.CookTime)
	assert.Equal(t, "Partial", got.MatchType)
}

func TestUnparseableResponseYieldsEmptyResult(t *testing.T) {
	for _, raw := range []string{
		"Sure! Here are some recipes you could try.",
		`{"title":"not an array"}`,
		"",
	} {
		gen := &fakeGen{text: raw}
		orch := newTestOrchestrator(gen, nil, nil)

		results, err := orch.Recommend(context.Background(), RecommendRequest{Ingredients: []string{"Eggs"}})
		require.NoError(t, err, "raw=%q", raw)
		assert.Empty(t, results)
		assert.NotNil(t, results)
	}
}

func TestFallbackMatchesIngredientsCaseInsensitively(t *testing.T) {
	stored := storedRecipe("Bruschetta", "Tomato", "Bread")
	gen := &fakeGen{err: errors.New("quota exceeded")}
	recipes := &fakeRecipes{recipes: []models.Recipe{stored}}
	orch := newTestOrchestrator(gen, recipes, nil)

	results, err := orch.Recommend(context.Background(), RecommendRequest{Ingredients: []string{"tomato"}})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Bruschetta", results[0].Title)
	assert.False(t, results[0].IsAISuggestion)
}

func TestFallbackCappedAtFive(t *testing.T) {
	var all []models.Recipe
	for i := 0; i < 8; i++ {
		all = append(all, storedRecipe("Egg Dish", "Eggs"))
	}
	gen := &fakeGen{err: errors.New("unreachable")}
	orch := newTestOrchestrator(gen, &fakeRecipes{recipes: all}, nil)

	results, err := orch.Recommend(context.Background(), RecommendRequest{Ingredients: []string{"eggs"}})
	require.NoError(t, err)
	assert.Len(t, results, 5)
}

func TestFallbackSkipsNonOverlappingRecipes(t *testing.T) {
	gen := &fakeGen{err: errors.New("down")}
	recipes := &fakeRecipes{recipes: []models.Recipe{storedRecipe("Chocolate Cake", "Cocoa", "Sugar")}}
	orch := newTestOrchestrator(gen, recipes, nil)

	results, err := orch.Recommend(context.Background(), RecommendRequest{Ingredients: []string{"Chicken"}})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestGhostIDFormat(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := GhostID()
		assert.True(t, strings.HasPrefix(id, "ai_"))
		assert.False(t, seen[id], "ghost ids must not repeat")
		seen[id] = true
	}
}

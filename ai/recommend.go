// Package ai implements the "what can I cook?" recommendation flow:
// resolve the pantry, ask the generation model for suggestions, reconcile
// them against stored recipes and fall back to local ingredient matching
// when the model is unreachable.
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"plateful/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SuggestionClient produces the raw suggestion text for a pantry. The
// Gemini client satisfies this; tests substitute fakes.
type SuggestionClient interface {
	Suggest(ctx context.Context, ingredients []string, demoMode bool, preferences map[string]any) (string, error)
}

type RecipeFinder interface {
	FindByTitleSubstring(ctx context.Context, title string) ([]models.Recipe, error)
	FindAll(ctx context.Context, limit int64) ([]models.Recipe, error)
	Sample(ctx context.Context, n int) ([]models.Recipe, error)
}

type InventoryFinder interface {
	ItemsForUser(ctx context.Context, userID string) ([]models.InventoryItem, error)
}

// Suggestion is one recipe as returned by the model. All fields are
// optional; defaults are applied during ghost synthesis.
type Suggestion struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	MatchType   string              `json:"matchType"`
	Ingredients []models.Ingredient `json:"ingredients"`
	Steps       []string            `json:"steps"`
	Nutrition   *models.Nutrition   `json:"nutrition"`
	CookTime    string              `json:"cookTime"`
}

type RecommendRequest struct {
	UserID      string         `json:"userId"`
	Ingredients []string       `json:"ingredients"`
	Preferences map[string]any `json:"preferences"`
}

// Pantry staples assumed when a user has nothing on record, so the
// feature still demos with an empty inventory.
var demoIngredients = []string{"Eggs", "Milk", "Flour", "Tomato", "Onion"}

const fallbackLimit = 5

type Orchestrator struct {
	Recipes   RecipeFinder
	Inventory InventoryFinder
	Gen       SuggestionClient
	Logger    *zap.Logger
}

func NewOrchestrator(recipes RecipeFinder, inventory InventoryFinder, gen SuggestionClient, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{Recipes: recipes, Inventory: inventory, Gen: gen, Logger: logger.Named("recommend")}
}

// Recommend resolves the available-ingredient set, asks the model for
// recipes and reconciles them against the stored collection. It never
// writes to the store.
func (o *Orchestrator) Recommend(ctx context.Context, req RecommendRequest) ([]models.RecipeView, error) {
	available := req.Ingredients
	if len(available) == 0 && req.UserID != "" {
		items, err := o.Inventory.ItemsForUser(ctx, req.UserID)
		if err != nil {
			return nil, err
		}
		for _, item := range items {
			available = append(available, item.Item)
		}
	}

	demoMode := false
	if len(available) == 0 {
		o.Logger.Info("pantry empty, using demo ingredients")
		available = demoIngredients
		demoMode = true
	}

	if len(available) == 0 {
		recipes, err := o.Recipes.Sample(ctx, fallbackLimit)
		if err != nil {
			return nil, err
		}
		return recipeViews(recipes), nil
	}

	raw, err := o.Gen.Suggest(ctx, available, demoMode, req.Preferences)
	if err != nil {
		o.Logger.Warn("generation failed, using local matching", zap.Error(err))
		return o.fallback(ctx, available)
	}

	var suggestions []Suggestion
	if err := json.Unmarshal([]byte(raw), &suggestions); err != nil {
		o.Logger.Error("unparseable generation response", zap.String("raw", raw))
		suggestions = nil
	}

	return o.reconcile(ctx, suggestions, available)
}

// reconcile matches suggested titles against stored recipes. Stored
// matches come back verbatim with their social data; unmatched
// suggestions become transient ghost records.
func (o *Orchestrator) reconcile(ctx context.Context, suggestions []Suggestion, available []string) ([]models.RecipeView, error) {
	var matched []models.Recipe
	seen := map[string]bool{}
	for _, s := range suggestions {
		if s.Title == "" {
			continue
		}
		recipes, err := o.Recipes.FindByTitleSubstring(ctx, s.Title)
		if err != nil {
			return nil, err
		}
		for _, r := range recipes {
			if !seen[r.ID.Hex()] {
				seen[r.ID.Hex()] = true
				matched = append(matched, r)
			}
		}
	}

	matchedTitles := make([]string, len(matched))
	for i, r := range matched {
		matchedTitles[i] = strings.ToLower(r.Title)
	}

	results := recipeViews(matched)
	for _, s := range suggestions {
		if s.Title == "" {
			continue
		}
		title := strings.ToLower(s.Title)
		covered := false
		for _, mt := range matchedTitles {
			if strings.Contains(mt, title) {
				covered = true
				break
			}
		}
		if !covered {
			results = append(results, ghost(s, available))
		}
	}
	return results, nil
}

// fallback scans stored recipes for ingredient overlap with the pantry,
// in either substring direction, capped at fallbackLimit.
func (o *Orchestrator) fallback(ctx context.Context, available []string) ([]models.RecipeView, error) {
	recipes, err := o.Recipes.FindAll(ctx, 0)
	if err != nil {
		return nil, err
	}

	results := []models.RecipeView{}
	for _, r := range recipes {
		if overlaps(r, available) {
			results = append(results, recipeView(r))
			if len(results) == fallbackLimit {
				break
			}
		}
	}
	return results, nil
}

func overlaps(r models.Recipe, available []string) bool {
	for _, ing := range r.Ingredients {
		name := strings.ToLower(ing.Name)
		if name == "" {
			continue
		}
		for _, a := range available {
			have := strings.ToLower(a)
			if strings.Contains(have, name) || strings.Contains(name, have) {
				return true
			}
		}
	}
	return false
}

// ghost builds a transient recipe record from a suggestion, filling any
// field the model omitted with the documented defaults.
func ghost(s Suggestion, available []string) models.RecipeView {
	ingredients := s.Ingredients
	if len(ingredients) == 0 {
		for _, name := range available {
			ingredients = append(ingredients, models.Ingredient{Name: name, Quantity: "As needed"})
		}
	}
	steps := s.Steps
	if len(steps) == 0 {
		steps = []string{"Mix ingredients and cook until done"}
	}
	nutrition := models.Nutrition{}
	if s.Nutrition != nil {
		nutrition = *s.Nutrition
	}
	description := s.Description
	if description == "" {
		description = "AI Suggested Recipe"
	}
	cookTime := s.CookTime
	if cookTime == "" {
		cookTime = "30m"
	}

	return models.RecipeView{
		ID:             GhostID(),
		Title:          s.Title,
		Description:    description,
		Ingredients:    ingredients,
		Steps:          steps,
		Nutrition:      nutrition,
		CookTime:       cookTime,
		IsAISuggestion: true,
		MatchType:      s.MatchType,
	}
}

// GhostID returns an ephemeral identifier. The "ai_" prefix marks the
// record as never persisted; lookups on such ids are not-found.
func GhostID() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return fmt.Sprintf("ai_%d%s", time.Now().UnixMilli(), suffix)
}

func recipeView(r models.Recipe) models.RecipeView {
	return models.RecipeView{
		ID:          r.ID.Hex(),
		Title:       r.Title,
		Description: r.Description,
		Ingredients: r.Ingredients,
		Steps:       r.Steps,
		Nutrition:   r.Nutrition,
		Likes:       r.Likes,
		Comments:    r.Comments,
		Ratings:     r.Ratings,
		ImageURL:    r.ImageURL,
		CreatedBy:   r.CreatedBy,
	}
}

func recipeViews(recipes []models.Recipe) []models.RecipeView {
	views := []models.RecipeView{}
	for _, r := range recipes {
		views = append(views, recipeView(r))
	}
	return views
}

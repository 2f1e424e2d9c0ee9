package mealplanner

import (
	"testing"
	"time"

	"plateful/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func planRecipe(title string) models.Recipe {
	return models.Recipe{
		ID:          primitive.NewObjectID(),
		Title:       title,
		Description: title + " description",
		Ingredients: []models.Ingredient{{Name: "Eggs", Quantity: "2"}},
	}
}

func TestCollectRecipeIDs(t *testing.T) {
	omelette := primitive.NewObjectID().Hex()
	soup := primitive.NewObjectID().Hex()

	week := models.WeekPlan{
		Monday:  models.DayPlan{Breakfast: omelette, Dinner: soup},
		Tuesday: models.DayPlan{Breakfast: omelette},
	}

	ids := collectRecipeIDs(week)
	assert.ElementsMatch(t, []string{omelette, soup}, ids, "ids should be deduplicated across slots")
}

func TestCollectRecipeIDsEmptyWeek(t *testing.T) {
	assert.Empty(t, collectRecipeIDs(models.WeekPlan{}))
}

func TestBuildPlanViewExpandsSlots(t *testing.T) {
	omelette := planRecipe("Omelette")
	soup := planRecipe("Tomato Soup")

	plan := models.MealPlan{
		ID:            primitive.NewObjectID(),
		Owner:         "u1",
		WeekStartDate: time.Now(),
		Plan: models.WeekPlan{
			Monday: models.DayPlan{Breakfast: omelette.ID.Hex(), Dinner: soup.ID.Hex()},
			Friday: models.DayPlan{Lunch: omelette.ID.Hex()},
		},
	}
	recipes := map[string]models.Recipe{
		omelette.ID.Hex(): omelette,
		soup.ID.Hex():     soup,
	}

	view := buildPlanView(plan, recipes)

	require.NotNil(t, view.Plan.Monday.Breakfast)
	assert.Equal(t, "Omelette", view.Plan.Monday.Breakfast.Title)
	assert.Equal(t, "Omelette description", view.Plan.Monday.Breakfast.Description)
	require.NotNil(t, view.Plan.Monday.Dinner)
	assert.Equal(t, "Tomato Soup", view.Plan.Monday.Dinner.Title)
	require.NotNil(t, view.Plan.Friday.Lunch)
	assert.Equal(t, "Omelette", view.Plan.Friday.Lunch.Title)

	assert.Nil(t, view.Plan.Monday.Lunch)
	assert.Nil(t, view.Plan.Sunday.Dinner)
	assert.Equal(t, plan.ID, view.ID)
	assert.Equal(t, "u1", view.Owner)
}

func TestBuildPlanViewMissingRecipe(t *testing.T) {
	plan := models.MealPlan{
		Plan: models.WeekPlan{
			Wednesday: models.DayPlan{Breakfast: primitive.NewObjectID().Hex()},
		},
	}

	view := buildPlanView(plan, map[string]models.Recipe{})
	assert.Nil(t, view.Plan.Wednesday.Breakfast, "deleted recipes leave the slot empty")
}

package mealplanner

import (
	"context"
	"time"

	"plateful/models"
	"plateful/store"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlannedDay mirrors models.DayPlan with each slot expanded into the
// referenced recipe document. A nil slot is unassigned or points at a
// recipe that no longer exists.
type PlannedDay struct {
	Breakfast *models.Recipe `json:"breakfast,omitempty"`
	Lunch     *models.Recipe `json:"lunch,omitempty"`
	Dinner    *models.Recipe `json:"dinner,omitempty"`
}

type PlannedWeek struct {
	Monday    PlannedDay `json:"monday"`
	Tuesday   PlannedDay `json:"tuesday"`
	Wednesday PlannedDay `json:"wednesday"`
	Thursday  PlannedDay `json:"thursday"`
	Friday    PlannedDay `json:"friday"`
	Saturday  PlannedDay `json:"saturday"`
	Sunday    PlannedDay `json:"sunday"`
}

// PlanView is the read shape of a meal plan: same document, but the
// week grid carries full recipe documents instead of id strings.
type PlanView struct {
	ID            primitive.ObjectID `json:"_id"`
	Owner         string             `json:"owner"`
	Collaborators []string           `json:"collaborators"`
	WeekStartDate time.Time          `json:"weekStartDate"`
	Plan          PlannedWeek        `json:"plan"`
	CreatedAt     time.Time          `json:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt"`
}

func collectRecipeIDs(week models.WeekPlan) []string {
	seen := map[string]bool{}
	var ids []string
	for _, day := range []models.DayPlan{
		week.Monday, week.Tuesday, week.Wednesday, week.Thursday,
		week.Friday, week.Saturday, week.Sunday,
	} {
		for _, slot := range []string{day.Breakfast, day.Lunch, day.Dinner} {
			if slot != "" && !seen[slot] {
				seen[slot] = true
				ids = append(ids, slot)
			}
		}
	}
	return ids
}

func buildPlanView(plan models.MealPlan, recipes map[string]models.Recipe) PlanView {
	slot := func(id string) *models.Recipe {
		if r, ok := recipes[id]; ok {
			return &r
		}
		return nil
	}
	day := func(d models.DayPlan) PlannedDay {
		return PlannedDay{
			Breakfast: slot(d.Breakfast),
			Lunch:     slot(d.Lunch),
			Dinner:    slot(d.Dinner),
		}
	}
	return PlanView{
		ID:            plan.ID,
		Owner:         plan.Owner,
		Collaborators: plan.Collaborators,
		WeekStartDate: plan.WeekStartDate,
		Plan: PlannedWeek{
			Monday:    day(plan.Plan.Monday),
			Tuesday:   day(plan.Plan.Tuesday),
			Wednesday: day(plan.Plan.Wednesday),
			Thursday:  day(plan.Plan.Thursday),
			Friday:    day(plan.Plan.Friday),
			Saturday:  day(plan.Plan.Saturday),
			Sunday:    day(plan.Plan.Sunday),
		},
		CreatedAt: plan.CreatedAt,
		UpdatedAt: plan.UpdatedAt,
	}
}

func populatePlan(ctx context.Context, plan models.MealPlan) (PlanView, error) {
	ids := collectRecipeIDs(plan.Plan)
	recipes := map[string]models.Recipe{}
	if len(ids) > 0 {
		var err error
		recipes, err = store.Recipes().FindByHexIDs(ctx, ids)
		if err != nil {
			return PlanView{}, err
		}
	}
	return buildPlanView(plan, recipes), nil
}

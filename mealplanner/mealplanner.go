package mealplanner

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"plateful/db"
	"plateful/models"
	"plateful/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func memberFilter(userID string) bson.M {
	return bson.M{"$or": []bson.M{
		{"owner": userID},
		{"collaborators": userID},
	}}
}

// GetAllForUser lists every plan the user owns or collaborates on.
func GetAllForUser(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx := context.TODO()
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := db.MealPlanCollection.Find(ctx, memberFilter(ps.ByName("userId")), opts)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error fetching meal plans")
		return
	}
	defer cursor.Close(ctx)

	var plans []models.MealPlan
	if err := cursor.All(ctx, &plans); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error fetching meal plans")
		return
	}
	views := make([]PlanView, 0, len(plans))
	for _, plan := range plans {
		view, err := populatePlan(ctx, plan)
		if err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, "Error fetching meal plans")
			return
		}
		views = append(views, view)
	}
	utils.RespondWithJSON(w, http.StatusOK, views)
}

func GetPlan(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	oid, err := primitive.ObjectIDFromHex(ps.ByName("planId"))
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Plan not found")
		return
	}
	ctx := context.TODO()
	var plan models.MealPlan
	if err := db.MealPlanCollection.FindOne(ctx, bson.M{"_id": oid}).Decode(&plan); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Plan not found")
		return
	}
	view, err := populatePlan(ctx, plan)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error fetching meal plan")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, view)
}

// GetCurrent returns the newest plan for a user, or a message when none
// exists (kept for backward compatibility with the original route).
func GetCurrent(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx := context.TODO()
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	var plan models.MealPlan
	err := db.MealPlanCollection.FindOne(ctx, memberFilter(ps.ByName("userId")), opts).Decode(&plan)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "No plan found"})
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error fetching meal plan")
		return
	}
	view, err := populatePlan(ctx, plan)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error fetching meal plan")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, view)
}

// SavePlan creates a plan, or replaces the week grid of an existing one
// when planId is given. The whole document is written per save.
func SavePlan(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var body struct {
		UserID        string           `json:"userId"`
		WeekStartDate *time.Time       `json:"weekStartDate"`
		Plan          *models.WeekPlan `json:"plan"`
		PlanID        string           `json:"planId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx := context.TODO()
	now := time.Now()

	if body.PlanID != "" {
		oid, err := primitive.ObjectIDFromHex(body.PlanID)
		if err != nil {
			utils.RespondWithError(w, http.StatusNotFound, "Plan not found")
			return
		}

		fields := bson.M{"updatedAt": now}
		if body.WeekStartDate != nil {
			fields["weekStartDate"] = *body.WeekStartDate
		}
		if body.Plan != nil {
			fields["plan"] = *body.Plan
		}

		opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
		var updated models.MealPlan
		err = db.MealPlanCollection.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": fields}, opts).Decode(&updated)
		if err == mongo.ErrNoDocuments {
			utils.RespondWithError(w, http.StatusNotFound, "Plan not found")
			return
		}
		if err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, "Error saving meal plan")
			return
		}

		broadcastPlanUpdate(body.PlanID, utils.M{"type": "plan-updated", "plan": updated})
		utils.RespondWithJSON(w, http.StatusOK, updated)
		return
	}

	weekStart := now
	if body.WeekStartDate != nil {
		weekStart = *body.WeekStartDate
	}
	plan := models.MealPlan{
		Owner:         body.UserID,
		WeekStartDate: weekStart,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if body.Plan != nil {
		plan.Plan = *body.Plan
	}

	result, err := db.MealPlanCollection.InsertOne(ctx, plan)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error saving meal plan")
		return
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		plan.ID = oid
	}
	utils.RespondWithJSON(w, http.StatusOK, plan)
}

// DeletePlan removes a plan; only the owner may do this.
func DeletePlan(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var body struct {
		UserID string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	oid, err := primitive.ObjectIDFromHex(ps.ByName("id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Meal plan not found")
		return
	}

	ctx := context.TODO()
	var plan models.MealPlan
	if err := db.MealPlanCollection.FindOne(ctx, bson.M{"_id": oid}).Decode(&plan); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Meal plan not found")
		return
	}
	if plan.Owner != body.UserID {
		utils.RespondWithError(w, http.StatusForbidden, "Only the owner can delete this meal plan")
		return
	}

	if _, err := db.MealPlanCollection.DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error deleting meal plan")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Meal plan deleted successfully"})
}

// Invite adds a collaborator to a plan.
func Invite(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var body struct {
		UserIDToInvite string `json:"userIdToInvite"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx := context.TODO()
	inviteOID, err := primitive.ObjectIDFromHex(body.UserIDToInvite)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "User not found")
		return
	}
	if err := db.UserCollection.FindOne(ctx, bson.M{"_id": inviteOID}).Err(); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "User not found")
		return
	}

	planOID, err := primitive.ObjectIDFromHex(ps.ByName("id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Plan not found")
		return
	}
	var plan models.MealPlan
	if err := db.MealPlanCollection.FindOne(ctx, bson.M{"_id": planOID}).Decode(&plan); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Plan not found")
		return
	}
	for _, c := range plan.Collaborators {
		if c == body.UserIDToInvite {
			utils.RespondWithError(w, http.StatusBadRequest, "Already a collaborator")
			return
		}
	}

	if _, err := db.MealPlanCollection.UpdateOne(ctx,
		bson.M{"_id": planOID},
		bson.M{"$addToSet": bson.M{"collaborators": body.UserIDToInvite}}); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error adding collaborator")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Collaborator added"})
}

package ai

import (
	"context"
	"encoding/json"
	"net/http"

	"plateful/rdx"
	"plateful/store"
	"plateful/utils"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

func (o *Orchestrator) HandleRecommend(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req RecommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	results, err := o.Recommend(r.Context(), req)
	if err != nil {
		o.Logger.Error("recommendation failed", zap.Error(err))
		utils.RespondWithError(w, http.StatusInternalServerError, "Error generating recommendations")
		return
	}

	if payload, err := json.Marshal(results); err == nil {
		if err := rdx.CacheSuggestions(r.Context(), req.UserID, payload); err != nil {
			o.Logger.Warn("suggestion cache write failed", zap.Error(err))
		}
	}

	utils.RespondWithJSON(w, http.StatusOK, results)
}

// HandleLastSuggestions replays the cached batch from the most recent
// recommendation request for a user.
func (o *Orchestrator) HandleLastSuggestions(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		userID = utils.GetUserIDFromRequest(r)
	}
	if userID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "User ID required")
		return
	}

	payload, err := rdx.LastSuggestions(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error reading suggestion cache")
		return
	}
	if payload == nil {
		payload = []byte("[]")
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(payload)
}

// HandleLegacyRecommendations is the pre-AI element-match endpoint: plain
// ingredient-name membership against the store.
func HandleLegacyRecommendations(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var body struct {
		UserPreferences      map[string]any `json:"userPreferences"`
		AvailableIngredients []string       `json:"availableIngredients"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	recipes, err := store.Recipes().FindByIngredientNames(context.TODO(), body.AvailableIngredients)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error generating recommendations")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, recipes)
}

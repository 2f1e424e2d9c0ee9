package inventory

import (
	"encoding/json"
	"net/http"

	"plateful/models"
	"plateful/store"
	"plateful/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

func AddItem(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var item models.InventoryItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if item.UserID == "" {
		item.UserID = utils.GetUserIDFromRequest(r)
	}
	if item.UserID == "" || item.Item == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "userId and item are required")
		return
	}
	if item.Quantity == "" {
		item.Quantity = "1 unit"
	}

	if err := store.Inventory().Insert(r.Context(), &item); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error adding item to inventory")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, item)
}

func GetInventory(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		userID = utils.GetUserIDFromRequest(r)
	}
	if userID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "User ID required")
		return
	}
	respondWithItems(w, r, userID)
}

// Legacy path-parameter variant.
func GetInventoryForUser(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	respondWithItems(w, r, ps.ByName("userId"))
}

func respondWithItems(w http.ResponseWriter, r *http.Request, userID string) {
	items, err := store.Inventory().ItemsForUser(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error fetching inventory")
		return
	}
	if items == nil {
		items = []models.InventoryItem{}
	}
	utils.RespondWithJSON(w, http.StatusOK, items)
}

func UpdateItem(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	fields := bson.M{}
	for _, key := range []string{"item", "quantity", "expirationDate"} {
		if value, ok := body[key]; ok {
			fields[key] = value
		}
	}
	if len(fields) == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "No updatable fields provided")
		return
	}

	updated, err := store.Inventory().Update(r.Context(), ps.ByName("id"), fields)
	if err == store.ErrNotFound {
		utils.RespondWithError(w, http.StatusNotFound, "Item not found")
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error updating inventory item")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, updated)
}

func DeleteItem(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	err := store.Inventory().Delete(r.Context(), ps.ByName("id"))
	if err == store.ErrNotFound {
		utils.RespondWithError(w, http.StatusNotFound, "Item not found")
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error deleting inventory item")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Item deleted successfully"})
}

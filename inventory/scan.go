package inventory

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"plateful/models"
	"plateful/store"
	"plateful/utils"

	"github.com/julienschmidt/httprouter"
)

const offBaseURL = "https://world.openfoodfacts.org/api/v0/product"

var scanClient = &http.Client{Timeout: 10 * time.Second}

type offResponse struct {
	Status  int `json:"status"`
	Product struct {
		ProductName string `json:"product_name"`
		GenericName string `json:"generic_name"`
		Quantity    string `json:"quantity"`
		ImageURL    string `json:"image_url"`
	} `json:"product"`
}

// ScanItem looks a barcode up in Open Food Facts and, when a user id is
// supplied, drops the product straight into their pantry with a one-week
// default shelf life.
func ScanItem(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var body struct {
		Barcode string `json:"barcode"`
		UserID  string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Barcode == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Barcode required")
		return
	}

	resp, err := scanClient.Get(fmt.Sprintf("%s/%s.json", offBaseURL, body.Barcode))
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to process scan.")
		return
	}
	defer resp.Body.Close()

	var off offResponse
	if err := json.NewDecoder(resp.Body).Decode(&off); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to process scan.")
		return
	}
	if off.Status != 1 {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found in Open Food Facts database.")
		return
	}

	name := off.Product.ProductName
	if name == "" {
		name = off.Product.GenericName
	}
	if name == "" {
		name = "Unknown Product"
	}
	quantity := off.Product.Quantity
	if quantity == "" {
		quantity = "1 unit"
	}

	product := utils.M{
		"name":     name,
		"quantity": quantity,
		"image":    off.Product.ImageURL,
	}

	if body.UserID != "" {
		expiry := time.Now().Add(7 * 24 * time.Hour)
		item := models.InventoryItem{
			UserID:         body.UserID,
			Item:           name,
			Quantity:       quantity,
			ExpirationDate: &expiry,
		}
		if err := store.Inventory().Insert(r.Context(), &item); err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to process scan.")
			return
		}
		utils.RespondWithJSON(w, http.StatusOK, utils.M{
			"product":       product,
			"inventoryItem": item,
			"message":       "Item scanned and added to pantry.",
		})
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"product": product})
}

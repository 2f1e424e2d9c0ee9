package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"plateful/db"
	"plateful/models"
	"plateful/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

type credentials struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func Register(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var creds credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	creds.Email = strings.ToLower(strings.TrimSpace(creds.Email))
	if creds.Username == "" || creds.Email == "" || creds.Password == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "username, email and password are required")
		return
	}

	ctx := context.TODO()
	count, err := db.UserCollection.CountDocuments(ctx, bson.M{"email": creds.Email})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error registering user")
		return
	}
	if count > 0 {
		utils.RespondWithError(w, http.StatusConflict, "Email already registered")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(creds.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error registering user")
		return
	}

	now := time.Now()
	user := models.User{
		Username:  creds.Username,
		Email:     creds.Email,
		Password:  string(hashed),
		CreatedAt: now,
		UpdatedAt: now,
	}
	result, err := db.UserCollection.InsertOne(ctx, user)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error registering user")
		return
	}
	user.ID = result.InsertedID.(primitive.ObjectID)

	token, err := GenerateToken(user.ID.Hex(), user.Username)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error registering user")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"token": token, "user": user})
}

func Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var creds credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var user models.User
	err := db.UserCollection.FindOne(context.TODO(), bson.M{"email": strings.ToLower(creds.Email)}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error logging in")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(creds.Password)) != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := GenerateToken(user.ID.Hex(), user.Username)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error logging in")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"token": token, "user": user})
}

// RefreshToken reissues a token for the already-authenticated caller.
func RefreshToken(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	var user models.User
	if err := db.UserCollection.FindOne(context.TODO(), bson.M{"_id": oid}).Decode(&user); err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	token, err := GenerateToken(userID, user.Username)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error refreshing token")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"token": token})
}

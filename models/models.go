package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RecipeCollection struct {
	Name    string   `bson:"name" json:"name"`
	Recipes []string `bson:"recipes" json:"recipes"`
}

type User struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Username            string             `bson:"username" json:"username"`
	Email               string             `bson:"email" json:"email"`
	Password            string             `bson:"password" json:"-"`
	Preferences         map[string]any     `bson:"preferences,omitempty" json:"preferences,omitempty"`
	DietaryPreferences  []string           `bson:"dietaryPreferences,omitempty" json:"dietaryPreferences,omitempty"`
	DietaryRestrictions []string           `bson:"dietaryRestrictions,omitempty" json:"dietaryRestrictions,omitempty"`
	Favorites           []string           `bson:"favorites,omitempty" json:"favorites,omitempty"`
	SavedRecipes        []string           `bson:"savedRecipes,omitempty" json:"savedRecipes,omitempty"`
	Collections         []RecipeCollection `bson:"collections,omitempty" json:"collections,omitempty"`
	Followers           []string           `bson:"followers,omitempty" json:"followers,omitempty"`
	Following           []string           `bson:"following,omitempty" json:"following,omitempty"`
	Bio                 string             `bson:"bio,omitempty" json:"bio"`
	ProfilePicture      string             `bson:"profilePicture,omitempty" json:"profilePicture"`
	CreatedAt           time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt           time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type Ingredient struct {
	Name     string `bson:"name" json:"name"`
	Quantity string `bson:"quantity" json:"quantity"`
}

type Nutrition struct {
	Calories float64 `bson:"calories" json:"calories"`
	Protein  float64 `bson:"protein,omitempty" json:"protein,omitempty"`
	Carbs    float64 `bson:"carbs,omitempty" json:"carbs,omitempty"`
	Fat      float64 `bson:"fat,omitempty" json:"fat,omitempty"`
}

type Comment struct {
	User string    `bson:"user" json:"user"`
	Text string    `bson:"text" json:"text"`
	Date time.Time `bson:"date" json:"date"`
}

type Rating struct {
	User   string  `bson:"user" json:"user"`
	Rating float64 `bson:"rating" json:"rating"`
}

type Recipe struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description,omitempty" json:"description"`
	Ingredients []Ingredient       `bson:"ingredients" json:"ingredients"`
	Steps       []string           `bson:"steps" json:"steps"`
	Nutrition   Nutrition          `bson:"nutrition" json:"nutrition"`
	Likes       []string           `bson:"likes,omitempty" json:"likes"`
	Comments    []Comment          `bson:"comments,omitempty" json:"comments"`
	Ratings     []Rating           `bson:"ratings,omitempty" json:"ratings"`
	ImageURL    string             `bson:"imageUrl,omitempty" json:"imageUrl"`
	CreatedBy   string             `bson:"createdBy,omitempty" json:"createdBy"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type InventoryItem struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserID         string             `bson:"userId" json:"userId"`
	Item           string             `bson:"item" json:"item"`
	Quantity       string             `bson:"quantity" json:"quantity"`
	ExpirationDate *time.Time         `bson:"expirationDate,omitempty" json:"expirationDate,omitempty"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// DayPlan holds the three meal slots of a single day. Empty string means
// the slot is unassigned.
type DayPlan struct {
	Breakfast string `bson:"breakfast,omitempty" json:"breakfast,omitempty"`
	Lunch     string `bson:"lunch,omitempty" json:"lunch,omitempty"`
	Dinner    string `bson:"dinner,omitempty" json:"dinner,omitempty"`
}

type WeekPlan struct {
	Monday    DayPlan `bson:"monday,omitempty" json:"monday"`
	Tuesday   DayPlan `bson:"tuesday,omitempty" json:"tuesday"`
	Wednesday DayPlan `bson:"wednesday,omitempty" json:"wednesday"`
	Thursday  DayPlan `bson:"thursday,omitempty" json:"thursday"`
	Friday    DayPlan `bson:"friday,omitempty" json:"friday"`
	Saturday  DayPlan `bson:"saturday,omitempty" json:"saturday"`
	Sunday    DayPlan `bson:"sunday,omitempty" json:"sunday"`
}

type MealPlan struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Owner         string             `bson:"owner" json:"owner"`
	Collaborators []string           `bson:"collaborators,omitempty" json:"collaborators"`
	WeekStartDate time.Time          `bson:"weekStartDate" json:"weekStartDate"`
	Plan          WeekPlan           `bson:"plan" json:"plan"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// RecipeView is what the recommendation endpoint returns: either a
// persisted recipe (real ObjectID hex, social fields populated) or a
// transient AI suggestion carrying an "ai_" prefixed id.
type RecipeView struct {
	ID             string       `json:"_id"`
	Title          string       `json:"title"`
	Description    string       `json:"description"`
	Ingredients    []Ingredient `json:"ingredients"`
	Steps          []string     `json:"steps"`
	Nutrition      Nutrition    `json:"nutrition"`
	CookTime       string       `json:"cookTime,omitempty"`
	Likes          []string     `json:"likes,omitempty"`
	Comments       []Comment    `json:"comments,omitempty"`
	Ratings        []Rating     `json:"ratings,omitempty"`
	ImageURL       string       `json:"imageUrl,omitempty"`
	CreatedBy      string       `json:"createdBy,omitempty"`
	IsAISuggestion bool         `json:"isAiSuggestion"`
	MatchType      string       `json:"matchType,omitempty"`
}

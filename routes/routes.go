package routes

import (
	"net/http"

	"plateful/ai"
	"plateful/auth"
	"plateful/home"
	"plateful/inventory"
	"plateful/mealplanner"
	"plateful/middleware"
	"plateful/ratelim"
	"plateful/recipes"
	"plateful/social"

	"github.com/julienschmidt/httprouter"
)

func AddStaticRoutes(router *httprouter.Router) {
	router.ServeFiles("/static/uploads/*filepath", http.Dir("static/uploads"))
}

func AddAuthRoutes(router *httprouter.Router) {
	router.POST("/api/auth/register", ratelim.RateLimit(auth.Register))
	router.POST("/api/auth/login", ratelim.RateLimit(auth.Login))
	router.POST("/api/auth/token/refresh", ratelim.RateLimit(middleware.Authenticate(auth.RefreshToken)))
}

func AddRecipeRoutes(router *httprouter.Router) {
	router.GET("/api/recipes", middleware.OptionalAuth(recipes.GetRecipes))
	router.GET("/api/recipes/:id", middleware.OptionalAuth(recipes.GetRecipe))
	router.POST("/api/recipes", middleware.Authenticate(recipes.CreateRecipe))
	router.PUT("/api/recipes/:id", middleware.Authenticate(recipes.UpdateRecipe))
	router.DELETE("/api/recipes/:id", middleware.Authenticate(recipes.DeleteRecipe))
	router.PATCH("/api/recipes/:id/rate", middleware.Authenticate(recipes.RateRecipe))
	router.POST("/api/recipes/:id/image", middleware.Authenticate(recipes.UploadRecipeImage))
}

func AddInventoryRoutes(router *httprouter.Router) {
	router.POST("/api/inventory", middleware.OptionalAuth(inventory.AddItem))
	router.GET("/api/inventory", middleware.OptionalAuth(inventory.GetInventory))
	router.GET("/api/inventory/:userId", inventory.GetInventoryForUser)
	router.POST("/api/inventory/scan", ratelim.RateLimit(inventory.ScanItem))
	router.PUT("/api/inventory/:id", inventory.UpdateItem)
	router.DELETE("/api/inventory/:id", inventory.DeleteItem)
}

func AddAIRoutes(router *httprouter.Router, orch *ai.Orchestrator) {
	router.POST("/api/ai/recommend", ratelim.RateLimit(middleware.OptionalAuth(orch.HandleRecommend)))
	router.GET("/api/ai/recommendations/last", middleware.OptionalAuth(orch.HandleLastSuggestions))
	router.POST("/api/ai/recommendations", ratelim.RateLimit(ai.HandleLegacyRecommendations))
}

func AddSocialRoutes(router *httprouter.Router) {
	router.POST("/api/social/follow/:id", ratelim.RateLimit(social.Follow))
	router.POST("/api/social/unfollow/:id", ratelim.RateLimit(social.Unfollow))
	router.POST("/api/social/like/:recipeId", social.LikeRecipe)
	router.POST("/api/social/save/:recipeId", social.SaveRecipe)
	router.POST("/api/social/comment/:recipeId", social.CommentRecipe)
	router.GET("/api/social/feed/:userId", social.Feed)
	router.GET("/api/social/profile/:id", social.Profile)
	router.GET("/api/social/suggestions/:userId", social.SuggestUsers)
}

func AddMealPlannerRoutes(router *httprouter.Router) {
	router.GET("/api/mealplanner/user/:userId/all", mealplanner.GetAllForUser)
	router.GET("/api/mealplanner/plan/:planId", mealplanner.GetPlan)
	router.GET("/api/mealplanner/current/:userId", mealplanner.GetCurrent)
	router.POST("/api/mealplanner", mealplanner.SavePlan)
	router.DELETE("/api/mealplanner/:id", mealplanner.DeletePlan)
	router.POST("/api/mealplanner/:id/invite", mealplanner.Invite)
	router.GET("/ws/mealplan/:planId", mealplanner.WatchPlan)
}

func AddHomeRoutes(router *httprouter.Router) {
	router.GET("/api/home/:apiRoute", middleware.OptionalAuth(home.GetHomeContent))
}

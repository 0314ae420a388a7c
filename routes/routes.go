package routes

import (
	"net/http"

	"recipepress/comments"
	"recipepress/media"
	"recipepress/middleware"
	"recipepress/ratelim"
	"recipepress/recipes"
	"recipepress/settings"
	"recipepress/terms"

	"github.com/julienschmidt/httprouter"
)

// Handlers bundles the per-package handlers built in main.
type Handlers struct {
	Recipes  *recipes.Handler
	Comments *comments.Handler
	Terms    *terms.Handler
	Settings *settings.Handler
	Media    *media.Handler
}

func AddStaticRoutes(router *httprouter.Router, uploadDir string) {
	router.ServeFiles("/static/uploads/*filepath", http.Dir(uploadDir))
}

func AddRecipeRoutes(router *httprouter.Router, h *recipes.Handler) {
	router.GET("/api/recipes/:id", h.GetRecipe)
	router.PUT("/api/recipes/:id/meta", middleware.RequireAdmin(h.UpdateMeta))
	router.GET("/api/recipes/:id/html", h.GetHTML)
	router.GET("/api/recipes/:id/html/:section", h.GetSection)
	router.GET("/api/recipes/:id/schema", h.GetSchema)
	router.GET("/api/recipes/:id/rating", h.GetRating)
	router.GET("/api/recipes/:id/print", h.PrintCard)
	router.GET("/recipes/:id", h.Page)
}

func AddCommentsRoutes(router *httprouter.Router, h *comments.Handler, rateLimiter *ratelim.RateLimiter) {
	router.POST("/api/recipes/:id/comments", rateLimiter.Limit(middleware.OptionalAuth(h.CreateComment)))
	router.GET("/api/recipes/:id/comments", middleware.OptionalAuth(h.GetComments))
	router.PUT("/api/comments/:commentid", middleware.Authenticate(h.UpdateComment))
	router.PUT("/api/comments/:commentid/approve", middleware.RequireAdmin(h.ApproveComment))
	router.DELETE("/api/comments/:commentid", middleware.Authenticate(h.DeleteComment))
}

func AddTermRoutes(router *httprouter.Router, h *terms.Handler) {
	router.GET("/api/terms/:taxonomy", h.ListTerms)
	router.GET("/api/terms/:taxonomy/:id", h.GetTerm)
	router.PUT("/api/terms/:taxonomy/:id", middleware.RequireAdmin(h.SaveTerm))
}

func AddSettingsRoutes(router *httprouter.Router, h *settings.Handler) {
	router.GET("/api/settings", middleware.RequireAdmin(h.GetSettings))
	router.PUT("/api/settings/:type", middleware.RequireAdmin(h.UpdateSetting))
}

func AddMediaRoutes(router *httprouter.Router, h *media.Handler, rateLimiter *ratelim.RateLimiter) {
	router.POST("/api/media", rateLimiter.Limit(middleware.RequireAdmin(h.Upload)))
}

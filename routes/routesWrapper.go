package routes

import (
	"recipepress/ratelim"

	"github.com/julienschmidt/httprouter"
)

func RoutesWrapper(router *httprouter.Router, h Handlers, uploadDir string, rateLimiter *ratelim.RateLimiter) {
	AddRecipeRoutes(router, h.Recipes)
	AddCommentsRoutes(router, h.Comments, rateLimiter)
	AddTermRoutes(router, h.Terms)
	AddSettingsRoutes(router, h.Settings)
	AddMediaRoutes(router, h.Media, rateLimiter)
	AddStaticRoutes(router, uploadDir)
}

package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/kfactor072/matchmaking-system/handlers"
	"github.com/kfactor072/matchmaking-system/middleware"
)

func SetupRoutes(
	router *chi.Mux,
	authHandler *handlers.AuthHandler,
	playerHandler *handlers.PlayerHandler,
	matchHandler *handlers.MatchHandler,
	webSocketHandler *handlers.WebSocketHandler,
	jwtSecret string,
) {
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	router.Post("/api/auth/login", authHandler.Login)

	router.Route("/api/players", func(r chi.Router) {
		r.Post("/", playerHandler.CreatePlayer)
		r.Get("/", playerHandler.ListPlayers)
		r.Get("/leaderboard", playerHandler.GetLeaderboard)
		r.Get("/username/{username}", playerHandler.GetPlayerByUsername)
		r.Get("/{id}", playerHandler.GetPlayerByID)
		r.Get("/{id}/stats", playerHandler.GetPlayerStats)
		r.Post("/{id}/avatar", playerHandler.UploadAvatar)

		// Удаление игрока — только для администратора.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate([]byte(jwtSecret)))
			r.Use(middleware.RequireAdmin)
			r.Delete("/{id}", playerHandler.DeletePlayer)
		})
	})

	router.Route("/api/matches", func(r chi.Router) {
		r.Post("/", matchHandler.RecordMatch)
		r.Get("/", matchHandler.ListMatches)
		r.Get("/{id}", matchHandler.GetMatchByID)
		r.Get("/player/{playerId}", matchHandler.ListMatchesForPlayer)
	})

	router.Get("/ws/feed", webSocketHandler.ServeFeed)
	router.Get("/ws/players/{id}", webSocketHandler.ServePlayer)
}

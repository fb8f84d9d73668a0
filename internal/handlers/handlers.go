package handlers

import (
	"Trades/internal/config"
	"Trades/internal/metrics"
	"Trades/internal/middleware"
	"Trades/internal/service"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Handler struct {
	Router chi.Router
	// Limiter nil, если ограничение частоты выключено
	Limiter *middleware.RateLimiter
}

// Services — зависимости хендлеров.
type Services struct {
	Users    *service.UserService
	Items    *service.ItemService
	Sessions *service.Sessions
	Ratings  *service.RatingAggregator
	Chat     *service.ChatService
	Trades   *service.TradeService
}

// NewHandler разводящий для хендлеров
func NewHandler(
	svc Services,
	logger *zap.SugaredLogger,
	config *config.Config,
) *Handler {
	r := chi.NewRouter()

	r.Use(metrics.InstrumentHandler)
	r.Use(middleware.WithGzip)
	r.Use(middleware.WithLogging)
	r.Use(middleware.WithAuth(config.AuthSecret))
	var limiter *middleware.RateLimiter
	if config.RateLimitRPS > 0 {
		limiter = middleware.NewRateLimiter(config.RateLimitRPS, config.RateLimitBurst)
		r.Use(limiter.Handler)
	}

	// Handlers
	userHandler := NewUserHandler(svc.Users, svc.Sessions, logger, config)
	deckHandler := NewDeckHandler(svc.Sessions, logger)
	itemHandler := NewItemHandler(svc.Items, svc.Ratings, logger)
	chatHandler := NewChatHandler(svc.Chat, svc.Sessions, logger)
	tradeHandler := NewTradeHandler(svc.Trades, logger)

	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	// User routes
	r.Post("/api/user/register", userHandler.Register)
	r.Post("/api/user/login", userHandler.Login)
	r.Post("/api/user/logout", userHandler.Logout)
	r.Get("/api/user/me", userHandler.Status)

	r.Group(func(r chi.Router) {
		r.Use(requireAuth)

		// Deck & matches
		r.Get("/api/deck", deckHandler.Deck)
		r.Post("/api/deck/swipe", deckHandler.Swipe)
		r.Get("/api/matches", deckHandler.Matches)
		r.Post("/api/matches/{itemID}", deckHandler.AddMatch)
		r.Delete("/api/matches/{itemID}", deckHandler.RemoveMatch)

		// Items & ratings
		r.Post("/api/items", itemHandler.Create)
		r.Get("/api/items/{itemID}", itemHandler.Get)
		r.Get("/api/items/{itemID}/rating", itemHandler.GetRating)
		r.Put("/api/items/{itemID}/rating", itemHandler.SetRating)

		// Conversations
		r.Get("/api/conversations", chatHandler.Conversations)
		r.Get("/api/conversations/{userID}/messages", chatHandler.Messages)
		r.Post("/api/conversations/{userID}/messages", chatHandler.Send)

		// Trades
		r.Post("/api/trades", tradeHandler.Propose)
		r.Post("/api/trades/{tradeID}/complete", tradeHandler.Complete)
	})

	return &Handler{Router: r, Limiter: limiter}
}

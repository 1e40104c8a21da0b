package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"roomhub/internal/pkg/auth/jwt"
	"roomhub/internal/pkg/limiter"
	"roomhub/internal/pkg/logx"
	"roomhub/internal/pkg/resp"
)

// Per-IP rate limits for the endpoints worth abusing: account creation,
// room creation, and websocket connects.
const (
	RegisterRate  = 0.05
	RegisterBurst = 3
	CreateRate    = 0.05
	CreateBurst   = 2
	ConnectRate   = 0.2
	ConnectBurst  = 5
)

// Router builds the application's HTTP routing table with CORS, request
// logging, identity extraction, and the per-route rate limiters.
func Router(deps *AppDeps) http.Handler {
	registerLimiter := limiter.NewIPRateLimiter(rate.Limit(RegisterRate), RegisterBurst)
	createLimiter := limiter.NewIPRateLimiter(rate.Limit(CreateRate), CreateBurst)
	connectLimiter := limiter.NewIPRateLimiter(rate.Limit(ConnectRate), ConnectBurst)

	r := chi.NewRouter()

	allowedOrigins := make(map[string]struct{})
	for _, origin := range deps.Config.AllowedOrigins {
		allowedOrigins[origin] = struct{}{}
	}

	wsUpgrader := websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			if deps.Config.IsDevelopment() {
				return true
			}

			origin := r.Header.Get("Origin")
			if _, ok := allowedOrigins[origin]; ok {
				return true
			}

			logx.Warn("websocket connection rejected: origin not allowed", "origin", origin)
			return false
		},
	}

	corsAllowedOrigins := []string{}
	if deps.Config.IsDevelopment() {
		corsAllowedOrigins = []string{"*"}
	} else if len(deps.Config.AllowedOrigins) > 0 {
		corsAllowedOrigins = deps.Config.AllowedOrigins
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   corsAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	})
	r.Use(c.Handler)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logx.RequestLogger())
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		resp.RespondSuccess(w, r, map[string]string{
			"status":  "ok",
			"service": "RoomHub Server",
		})
	})

	r.Route("/api", func(api chi.Router) {
		api.Use(jwt.IdentityExtractor(deps.Config.JWTSecret))

		api.Route("/auth", func(auth chi.Router) {
			auth.With(registerLimiter.Middleware).Post("/register", HandleRegister(deps))
			auth.Post("/login", HandleLogin(deps))
			auth.Post("/change-password", HandleChangePassword(deps))
		})

		api.Route("/user", func(user chi.Router) {
			user.Get("/profile", HandleGetUserProfile(deps))
			user.Post("/profile", HandleUpdateUserProfile(deps))
			user.Post("/avatar/presign", HandlePresignAvatarURL(deps))
		})

		api.Route("/rooms", func(rooms chi.Router) {
			rooms.Get("/", HandleListRooms(deps))
			rooms.With(createLimiter.Middleware).Post("/", HandleCreateRoom(deps))
			rooms.Get("/{roomID}", HandleGetRoom(deps))
			rooms.Put("/{roomID}", HandleUpdateRoom(deps))
			rooms.Delete("/{roomID}", HandleDeleteRoom(deps))
			rooms.Post("/{roomID}/messages", HandleCreateMessage(deps))
		})

		api.Delete("/messages/{messageID}", HandleDeleteMessage(deps))

		api.Get("/topics", HandleListTopics(deps))
	})

	r.Get("/ws/rooms/{roomID}", HandleWebSocket(wsUpgrader, connectLimiter, deps))

	return r
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"slotboard/internal/domain/user"
	"slotboard/internal/handler/api"
	"slotboard/internal/handler/middleware"
	"slotboard/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

func NewRouter(engine *gin.Engine, cfg config.Config, slotHandler *api.SlotHandler, dayConfigHandler *api.DayConfigHandler, streamHandler *api.StreamHandler, authMiddleware *middleware.AuthMiddleware) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, slotHandler, dayConfigHandler, streamHandler, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(nil, cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, slotHandler *api.SlotHandler, dayConfigHandler *api.DayConfigHandler, streamHandler *api.StreamHandler, authMiddleware *middleware.AuthMiddleware) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	apiGroup.Use(authMiddleware.RequireAuth())
	{
		stream := apiGroup.Group("/stream")
		{
			addRoutes(stream, []route{
				{Method: http.MethodGet, Path: "/day/:resourceID/:day", Handler: streamHandler.StreamDay},
				{Method: http.MethodGet, Path: "/drops/:resourceID", Handler: streamHandler.StreamDrops},
			})
		}

		slots := apiGroup.Group("/slots")
		slots.Use(authMiddleware.RequireRoleAtLeast(user.RoleMember))
		{
			addRoutes(slots, []route{
				{Method: http.MethodPost, Path: "/:slotID/hold", Handler: slotHandler.HoldSlot},
				{Method: http.MethodPost, Path: "/:slotID/release", Handler: slotHandler.ReleaseHold},
				{Method: http.MethodPost, Path: "/:slotID/book", Handler: slotHandler.BookSlot},
			})
		}

		resources := apiGroup.Group("/resources")
		{
			addRoutes(resources, []route{
				{Method: http.MethodGet, Path: "/:resourceID/days/:day/slots", Handler: slotHandler.GetDaySlots},
				{Method: http.MethodGet, Path: "/:resourceID/days/:day/ranges", Handler: slotHandler.GetDayRanges},
			})
		}

		dayConfig := apiGroup.Group("/day-config")
		dayConfig.Use(authMiddleware.RequireRoleAtLeast(user.RoleCoordinator))
		{
			addRoutes(dayConfig, []route{
				{Method: http.MethodPost, Path: "", Handler: dayConfigHandler.CreateDayRange},
				{Method: http.MethodDelete, Path: "", Handler: dayConfigHandler.DeleteDayRange},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}

package router

import (
	"net/http"

	"polls/internal/cache"
	"polls/internal/config"
	"polls/internal/handlers"
	"polls/internal/middleware"
	"polls/internal/services"
	"polls/web"

	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// New assembles the engine: middleware, sessions, templates and routes.
func New(cfg config.Config, gdb *gorm.DB, pageCache cache.Cache) (*gin.Engine, error) {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), gzip.Gzip(gzip.DefaultCompression))

	// Sessions carry the flash message shown after voting
	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   3600,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions("polls_session", store))

	renderer, err := LoadTemplates(web.Templates)
	if err != nil {
		return nil, err
	}
	r.HTMLRender = renderer

	pollHandler := handlers.NewPollHandler(services.NewPollService(gdb), pageCache, cfg.CacheTTL, cfg.PageSize)
	RegisterRoutes(r, pollHandler)
	return r, nil
}

func RegisterRoutes(r *gin.Engine, pollHandler *handlers.PollHandler) {
	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/polls/")
	})
	r.GET("/health/", handlers.Health)

	polls := r.Group("/polls")
	{
		polls.GET("/", pollHandler.Index)               // question list
		polls.GET("/:id/", pollHandler.Detail)          // question with voting form
		polls.GET("/:id/results/", pollHandler.Results) // tallies
		polls.POST("/:id/vote/", pollHandler.Vote)      // cast a vote
	}

	r.NoRoute(handlers.NotFound)
}

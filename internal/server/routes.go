package server

import (
	"io/fs"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tiXor-code/kanban-board/internal/config"
	"github.com/tiXor-code/kanban-board/internal/db"
	"github.com/tiXor-code/kanban-board/internal/notify"
)

// api carries the dependencies shared by every handler.
type api struct {
	db        *db.Lazy
	cfg       *config.Config
	notifier  notify.Notifier
	now       func() time.Time
	streamInt time.Duration
	heartbeat time.Duration
}

// registerRoutes sets up all routes on the gin router.
func registerRoutes(router *gin.Engine, a *api) {
	// Embedded static assets (served from assets/ subdir of the embed.FS).
	staticFS, _ := fs.Sub(assetsFS, "assets")
	router.StaticFS("/static", http.FS(staticFS))

	// Pages.
	router.GET("/", handlePage("board", "Board"))
	router.GET("/sprints", handlePage("sprints", "Sprints"))
	router.GET("/council", handlePage("council", "Council"))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api")

	apiGroup.GET("/columns", a.listColumns)
	apiGroup.POST("/columns", a.createColumn)
	apiGroup.PUT("/columns/:id", a.updateColumn)
	apiGroup.DELETE("/columns/:id", a.deleteColumn)

	apiGroup.GET("/cards", a.listCards)
	apiGroup.POST("/cards", a.createCard)
	apiGroup.POST("/cards/move", a.moveCard)
	apiGroup.GET("/cards/:id", a.getCard)
	apiGroup.PUT("/cards/:id", a.updateCard)
	apiGroup.DELETE("/cards/:id", a.deleteCard)
	apiGroup.GET("/cards/:id/dependencies", a.listDeps)
	apiGroup.POST("/cards/:id/dependencies", a.addDep)
	apiGroup.DELETE("/cards/:id/dependencies", a.removeDep)
	apiGroup.GET("/cards/:id/comments", a.listComments)
	apiGroup.POST("/cards/:id/comments", a.addComment)

	apiGroup.GET("/sprints", a.listSprints)
	apiGroup.POST("/sprints", a.createSprint)
	apiGroup.PUT("/sprints/:id", a.updateSprint)
	apiGroup.POST("/sprints/:id/activate", a.activateSprint)

	apiGroup.GET("/epics", a.listEpics)
	apiGroup.POST("/epics", a.createEpic)
	apiGroup.PUT("/epics/:id", a.updateEpic)
	apiGroup.DELETE("/epics/:id", a.deleteEpic)

	apiGroup.GET("/board", a.getBoard)
	apiGroup.GET("/board/stats", a.boardStats)

	apiGroup.GET("/council/events", a.councilEvents)
	apiGroup.GET("/council/mock", a.councilMock)
	apiGroup.GET("/council/stats", a.councilStats)
	apiGroup.GET("/council/stream", a.councilStream)
}

func handlePage(page, title string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.HTML(http.StatusOK, "layout.html", gin.H{
			"page":  page,
			"title": title,
		})
	}
}

// Package server serves the board's REST API, its embedded pages and the
// council event stream.
package server

import (
	"context"
	"fmt"
	"html/template"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tiXor-code/kanban-board/internal/config"
	"github.com/tiXor-code/kanban-board/internal/db"
	"github.com/tiXor-code/kanban-board/internal/notify"
	"github.com/tiXor-code/kanban-board/internal/sprint"
)

// StartOpts holds configuration for the HTTP server.
type StartOpts struct {
	DB       *db.Lazy
	Config   *config.Config
	Notifier notify.Notifier
	Port     int // overrides Config.Server.Port when set
	Out      io.Writer
}

// Start launches the HTTP server and the sprint rollover scheduler. It
// blocks until ctx is cancelled, then shuts both down gracefully.
func Start(ctx context.Context, opts StartOpts) error {
	if opts.DB == nil {
		return fmt.Errorf("server: db is required")
	}
	if opts.Config == nil {
		opts.Config = config.Default()
	}
	port := opts.Port
	if port <= 0 {
		port = opts.Config.Server.Port
	}
	if port <= 0 {
		port = 8080
	}

	gin.SetMode(gin.ReleaseMode)
	router, err := NewRouter(RouterOpts{
		DB:       opts.DB,
		Config:   opts.Config,
		Notifier: opts.Notifier,
		LogOut:   opts.Out,
	})
	if err != nil {
		return err
	}

	if schedule := opts.Config.Sprints.RolloverSchedule; schedule != "" {
		sched, err := sprint.NewScheduler(opts.DB.Get, schedule)
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
		sched.Start()
		defer func() { <-sched.Stop().Done() }()
		log.Printf("server: sprint rollover scheduled (%s), next run %s", schedule, sched.Next().Format(time.RFC3339))
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown on context cancellation.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	if opts.Out != nil {
		fmt.Fprintf(opts.Out, "Kanban board running at http://localhost:%d\n", port)
	}

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server: %w", err)
	}
	return nil
}

// RouterOpts holds the dependencies of the router.
type RouterOpts struct {
	DB       *db.Lazy
	Config   *config.Config
	Notifier notify.Notifier
	LogOut   io.Writer // request log destination; nil disables it

	// Council stream timing; zero values use the defaults.
	StreamInterval    time.Duration
	HeartbeatInterval time.Duration
	// Now is the clock used for board stats; defaults to time.Now.
	Now func() time.Time
}

// NewRouter builds the gin engine with every route registered.
func NewRouter(opts RouterOpts) (*gin.Engine, error) {
	if opts.Config == nil {
		opts.Config = config.Default()
	}
	if opts.StreamInterval <= 0 {
		opts.StreamInterval = 2 * time.Second
	}
	if opts.HeartbeatInterval <= 0 {
		opts.HeartbeatInterval = 15 * time.Second
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	router := gin.New()
	router.Use(gin.Recovery())
	if opts.LogOut != nil {
		router.Use(gin.LoggerWithWriter(opts.LogOut, "/healthz", "/api/council/events"))
	}

	tmpl, err := parseTemplates()
	if err != nil {
		return nil, fmt.Errorf("server: %w", err)
	}
	router.SetHTMLTemplate(tmpl)

	a := &api{
		db:        opts.DB,
		cfg:       opts.Config,
		notifier:  opts.Notifier,
		now:       opts.Now,
		streamInt: opts.StreamInterval,
		heartbeat: opts.HeartbeatInterval,
	}
	registerRoutes(router, a)
	return router, nil
}

// parseTemplates loads the embedded HTML templates.
func parseTemplates() (*template.Template, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return tmpl, nil
}

package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tiXor-code/kanban-board/internal/board"
	"github.com/tiXor-code/kanban-board/internal/epic"
	"github.com/tiXor-code/kanban-board/internal/models"
	"github.com/tiXor-code/kanban-board/internal/sprint"
)

func (a *api) listSprints(c *gin.Context) {
	gormDB, ok := a.conn(c)
	if !ok {
		return
	}
	sprints, err := sprint.List(gormDB)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sprints)
}

func (a *api) createSprint(c *gin.Context) {
	var opts sprint.CreateOpts
	if !bindJSON(c, &opts) {
		return
	}
	gormDB, ok := a.conn(c)
	if !ok {
		return
	}
	s, err := sprint.Create(gormDB, opts)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, s)
}

func (a *api) updateSprint(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var opts sprint.UpdateOpts
	if !bindJSON(c, &opts) {
		return
	}
	gormDB, ok := a.conn(c)
	if !ok {
		return
	}
	s, err := sprint.Update(gormDB, id, opts)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func (a *api) activateSprint(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	gormDB, ok := a.conn(c)
	if !ok {
		return
	}
	s, err := sprint.Activate(gormDB, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func (a *api) listEpics(c *gin.Context) {
	gormDB, ok := a.conn(c)
	if !ok {
		return
	}
	epics, err := epic.List(gormDB)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, epics)
}

func (a *api) createEpic(c *gin.Context) {
	var opts epic.CreateOpts
	if !bindJSON(c, &opts) {
		return
	}
	gormDB, ok := a.conn(c)
	if !ok {
		return
	}
	e, err := epic.Create(gormDB, opts)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, e)
}

func (a *api) updateEpic(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var opts epic.UpdateOpts
	if !bindJSON(c, &opts) {
		return
	}
	gormDB, ok := a.conn(c)
	if !ok {
		return
	}
	e, err := epic.Update(gormDB, id, opts)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

func (a *api) deleteEpic(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	gormDB, ok := a.conn(c)
	if !ok {
		return
	}
	if err := epic.Delete(gormDB, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (a *api) getBoard(c *gin.Context) {
	gormDB, ok := a.conn(c)
	if !ok {
		return
	}
	b, err := board.Load(gormDB)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (a *api) boardStats(c *gin.Context) {
	gormDB, ok := a.conn(c)
	if !ok {
		return
	}
	stats, err := board.ComputeStats(gormDB, a.now().Format(models.DateLayout))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

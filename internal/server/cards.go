package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tiXor-code/kanban-board/internal/card"
	"github.com/tiXor-code/kanban-board/internal/column"
	"github.com/tiXor-code/kanban-board/internal/notify"
	"gorm.io/gorm"
)

func (a *api) listColumns(c *gin.Context) {
	gormDB, ok := a.conn(c)
	if !ok {
		return
	}
	cols, err := column.List(gormDB)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cols)
}

func (a *api) createColumn(c *gin.Context) {
	var opts column.CreateOpts
	if !bindJSON(c, &opts) {
		return
	}
	gormDB, ok := a.conn(c)
	if !ok {
		return
	}
	col, err := column.Create(gormDB, opts)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, col)
}

func (a *api) updateColumn(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var opts column.UpdateOpts
	if !bindJSON(c, &opts) {
		return
	}
	gormDB, ok := a.conn(c)
	if !ok {
		return
	}
	col, err := column.Update(gormDB, id, opts)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, col)
}

func (a *api) deleteColumn(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	gormDB, ok := a.conn(c)
	if !ok {
		return
	}
	if err := column.Delete(gormDB, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (a *api) listCards(c *gin.Context) {
	var filters card.ListFilters
	var ok bool
	if filters.ColumnID, ok = queryID(c, "column_id"); !ok {
		return
	}
	if filters.SprintID, ok = queryID(c, "sprint_id"); !ok {
		return
	}
	if filters.EpicID, ok = queryID(c, "epic_id"); !ok {
		return
	}
	gormDB, ok := a.conn(c)
	if !ok {
		return
	}
	cards, err := card.List(gormDB, filters)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cards)
}

func (a *api) createCard(c *gin.Context) {
	var opts card.CreateOpts
	if !bindJSON(c, &opts) {
		return
	}
	gormDB, ok := a.conn(c)
	if !ok {
		return
	}
	created, err := card.Create(gormDB, opts)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (a *api) getCard(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	gormDB, ok := a.conn(c)
	if !ok {
		return
	}
	got, err := card.Get(gormDB, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, got)
}

func (a *api) updateCard(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var opts card.UpdateOpts
	if !bindJSON(c, &opts) {
		return
	}
	gormDB, ok := a.conn(c)
	if !ok {
		return
	}
	updated, err := card.Update(gormDB, id, opts)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (a *api) deleteCard(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	gormDB, ok := a.conn(c)
	if !ok {
		return
	}
	if err := card.Delete(gormDB, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (a *api) moveCard(c *gin.Context) {
	var opts card.MoveOpts
	if !bindJSON(c, &opts) {
		return
	}
	gormDB, ok := a.conn(c)
	if !ok {
		return
	}
	res, err := card.Move(gormDB, opts)
	if err != nil {
		respondError(c, err)
		return
	}
	a.notifyMove(gormDB, res)
	c.JSON(http.StatusOK, res)
}

func (a *api) notifyMove(gormDB *gorm.DB, res *card.MoveResult) {
	if a.notifier == nil {
		return
	}
	to, err := column.Get(gormDB, res.Card.ColumnID)
	if err != nil {
		return
	}
	from := to
	if res.FromColumnID != to.ID {
		if from, err = column.Get(gormDB, res.FromColumnID); err != nil {
			return
		}
	}
	notify.Dispatch(a.notifier, notify.CardMoved(res.Card, from.Title, to.Title))
}

type depRequest struct {
	DependsOnID uint `json:"depends_on_id"`
}

func (a *api) listDeps(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	gormDB, ok := a.conn(c)
	if !ok {
		return
	}
	deps, err := card.ListDeps(gormDB, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, deps)
}

func (a *api) addDep(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req depRequest
	if !bindJSON(c, &req) {
		return
	}
	gormDB, ok := a.conn(c)
	if !ok {
		return
	}
	if err := card.AddDep(gormDB, id, req.DependsOnID); err != nil {
		respondError(c, err)
		return
	}
	deps, err := card.ListDeps(gormDB, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, deps)
}

func (a *api) removeDep(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	dependsOn, ok := queryID(c, "depends_on_id")
	if !ok {
		return
	}
	if dependsOn == 0 {
		badRequest(c, "depends_on_id is required")
		return
	}
	gormDB, ok := a.conn(c)
	if !ok {
		return
	}
	if err := card.RemoveDep(gormDB, id, dependsOn); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (a *api) listComments(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	gormDB, ok := a.conn(c)
	if !ok {
		return
	}
	comments, err := card.ListComments(gormDB, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}

func (a *api) addComment(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var opts card.CommentOpts
	if !bindJSON(c, &opts) {
		return
	}
	gormDB, ok := a.conn(c)
	if !ok {
		return
	}
	cm, err := card.AddComment(gormDB, id, opts)
	if err != nil {
		respondError(c, err)
		return
	}
	if a.notifier != nil {
		if target, err := card.Get(gormDB, id); err == nil {
			notify.Dispatch(a.notifier, notify.CommentAdded(*target, *cm))
		}
	}
	c.JSON(http.StatusCreated, cm)
}

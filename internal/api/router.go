package api

import (
	"errors"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"scramble-service/internal/board"
	"scramble-service/internal/service"
	"scramble-service/internal/ws"
	"scramble-service/pkg/apperror"
	"scramble-service/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	services *service.Container
}

var playerIDPattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

func RegisterRoutes(r *gin.Engine, services *service.Container) {
	handler := &Handler{services: services}
	wsHandler := ws.NewHandler(services)

	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{"message": "pong"})
	})

	r.GET("/look/:pid", handler.Look)
	r.GET("/flip/:pid/:coord", handler.Flip)
	r.GET("/replace/:pid/:from/:to", handler.Replace)
	r.GET("/watch/:pid", handler.Watch)
	r.GET("/reset", handler.Reset)

	r.GET("/admin/stats", handler.Stats)
	r.GET("/ws/board/:pid", wsHandler.HandleBoardWS)
}

func (h *Handler) Look(c *gin.Context) {
	playerID := c.Param("pid")
	if !playerIDPattern.MatchString(playerID) {
		response.Error(c, http.StatusBadRequest, apperror.ErrInvalidPlayerID.Error())
		return
	}
	c.String(http.StatusOK, board.Look(h.services.Board(), playerID))
}

func (h *Handler) Flip(c *gin.Context) {
	playerID := c.Param("pid")
	if !playerIDPattern.MatchString(playerID) {
		response.Error(c, http.StatusBadRequest, apperror.ErrInvalidPlayerID.Error())
		return
	}

	row, col, err := parseCoord(c.Param("coord"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	h.services.Metrics.IncrFlip(c.Request.Context())
	snap, err := board.Flip(h.services.Board(), playerID, row, col)
	if err != nil {
		response.Error(c, http.StatusConflict, err.Error())
		return
	}
	c.String(http.StatusOK, snap)
}

func (h *Handler) Replace(c *gin.Context) {
	playerID := c.Param("pid")
	if !playerIDPattern.MatchString(playerID) {
		response.Error(c, http.StatusBadRequest, apperror.ErrInvalidPlayerID.Error())
		return
	}

	from, to := c.Param("from"), c.Param("to")
	snap, err := board.Map(h.services.Board(), playerID, func(label string) (string, error) {
		if label == from {
			return to, nil
		}
		return label, nil
	})
	if err != nil {
		response.Error(c, http.StatusConflict, err.Error())
		return
	}
	c.String(http.StatusOK, snap)
}

func (h *Handler) Watch(c *gin.Context) {
	playerID := c.Param("pid")
	if !playerIDPattern.MatchString(playerID) {
		response.Error(c, http.StatusBadRequest, apperror.ErrInvalidPlayerID.Error())
		return
	}
	c.String(http.StatusOK, board.Watch(h.services.Board(), playerID))
}

func (h *Handler) Reset(c *gin.Context) {
	filename := c.Query("filename")
	if filename == "" {
		response.Error(c, http.StatusBadRequest, "filename is required")
		return
	}
	if err := h.services.LoadBoardFile(c.Request.Context(), filename); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}
	response.Success(c, gin.H{"status": "reset"})
}

func (h *Handler) Stats(c *gin.Context) {
	snapshot, err := h.services.Metrics.Stats(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, err.Error())
		return
	}
	leaderboard, err := h.services.History.Leaderboard(c.Request.Context(), 20)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, err.Error())
		return
	}
	response.Success(c, gin.H{
		"counters":    snapshot,
		"leaderboard": leaderboard,
	})
}

// parseCoord splits the ":r,:c" route segment, e.g. "2,3".
func parseCoord(raw string) (row, col int, err error) {
	parts := strings.SplitN(raw, ",", 2)
	if len(parts) != 2 {
		return 0, 0, errInvalidCoord
	}
	row, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, errInvalidCoord
	}
	col, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, errInvalidCoord
	}
	return row, col, nil
}

var errInvalidCoord = errors.New(`coordinate must be "row,col"`)

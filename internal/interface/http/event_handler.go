package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/eventplanner/internal/application"
	"github.com/oksasatya/eventplanner/internal/interface/middleware"
	"github.com/oksasatya/eventplanner/pkg/response"
)

type EventHandler struct {
	Svc    *application.EventService
	Logger *logrus.Logger
}

func NewEventHandler(svc *application.EventService, logger *logrus.Logger) *EventHandler {
	return &EventHandler{Svc: svc, Logger: logger}
}

type createEventRequest struct {
	Name        string `json:"nameEvent" binding:"required"`
	Date        string `json:"fecha" binding:"required,eventdate"`
	Time        string `json:"hora" binding:"required,eventtime"`
	Location    string `json:"ubicacion" binding:"required"`
	Description string `json:"descripcion" binding:"required"`
}

// updateEventRequest accepts any subset of the fields.
type updateEventRequest struct {
	Name        string `json:"nameEvent"`
	Date        string `json:"fecha" binding:"omitempty,eventdate"`
	Time        string `json:"hora" binding:"omitempty,eventtime"`
	Location    string `json:"ubicacion"`
	Description string `json:"descripcion"`
}

func (h *EventHandler) Create(c *gin.Context) {
	var req createEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	ev, err := h.Svc.Create(c.Request.Context(), middleware.UserID(c), application.EventInput(req))
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, ev, "event created", nil)
}

func (h *EventHandler) List(c *gin.Context) {
	events, err := h.Svc.ListByOwner(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, events, "ok", gin.H{"count": len(events)})
}

func (h *EventHandler) Get(c *gin.Context) {
	ev, err := h.Svc.Get(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, ev, "ok", nil)
}

func (h *EventHandler) Update(c *gin.Context) {
	var req updateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	ev, err := h.Svc.Update(c.Request.Context(), middleware.UserID(c), c.Param("id"), application.EventInput(req))
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, ev, "event updated", nil)
}

func (h *EventHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.Svc.Delete(c.Request.Context(), middleware.UserID(c), id); err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"id": id}, "event deleted", nil)
}

func (h *EventHandler) Search(c *gin.Context) {
	size := 0
	if s := c.Query("size"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{"size": "must be a positive integer"})
			return
		}
		size = n
	}
	events, err := h.Svc.Search(c.Request.Context(), middleware.UserID(c), c.Query("q"), size)
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, events, "ok", gin.H{"count": len(events)})
}

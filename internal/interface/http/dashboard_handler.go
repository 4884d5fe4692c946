package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/weather-dashboard/internal/domain/dashboard"
	"github.com/yanqian/weather-dashboard/internal/domain/preferences"
	"github.com/yanqian/weather-dashboard/internal/domain/units"
)

const (
	eventBuffer       = 64
	keepAliveInterval = 20 * time.Second
)

// DashboardHandler exposes dashboard sessions over HTTP.
type DashboardHandler struct {
	registry *dashboard.Registry
	logger   *slog.Logger
}

// NewDashboardHandler constructs the dashboard session handler.
func NewDashboardHandler(registry *dashboard.Registry, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{
		registry: registry,
		logger:   logger.With("component", "http.dashboard"),
	}
}

type createSessionRequest struct {
	Profile string `json:"profile"`
}

type sessionResponse struct {
	ID      string         `json:"id"`
	Profile string         `json:"profile"`
	View    dashboard.View `json:"view"`
}

type searchRequest struct {
	City string `json:"city" binding:"required"`
}

type locateRequest struct {
	Lat *float64 `json:"lat" binding:"required"`
	Lon *float64 `json:"lon" binding:"required"`
}

type dayRequest struct {
	Index *int `json:"index" binding:"required"`
}

type unitsRequest struct {
	System      string `json:"system"`
	Temperature string `json:"temperature"`
	Speed       string `json:"speed"`
}

type themeRequest struct {
	Theme string `json:"theme" binding:"required"`
}

type tabRequest struct {
	Tab string `json:"tab" binding:"required"`
}

type favoriteRequest struct {
	City string `json:"city"`
}

// CreateSession opens a dashboard session, optionally bound to a preference profile.
func (h *DashboardHandler) CreateSession(c *gin.Context) {
	var req createSessionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			abortWithBindError(c, err)
			return
		}
	}
	session, err := h.registry.Create(c.Request.Context(), req.Profile)
	if err != nil {
		abortWithAppError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sessionResponse{ID: session.ID, Profile: session.Profile, View: session.Dashboard.View()})
}

// GetSession returns the current view of a session.
func (h *DashboardHandler) GetSession(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, sessionResponse{ID: session.ID, Profile: session.Profile, View: session.Dashboard.View()})
}

func (h *DashboardHandler) DeleteSession(c *gin.Context) {
	if err := h.registry.Delete(c.Param("id")); err != nil {
		abortWithAppError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Search loads a city into the session.
func (h *DashboardHandler) Search(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithBindError(c, err)
		return
	}
	h.respond(c, session, func() (dashboard.View, error) {
		return session.Dashboard.Search(c.Request.Context(), req.City)
	})
}

// Locate loads the city found at the given coordinates.
func (h *DashboardHandler) Locate(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	var req locateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithBindError(c, err)
		return
	}
	h.respond(c, session, func() (dashboard.View, error) {
		return session.Dashboard.Locate(c.Request.Context(), *req.Lat, *req.Lon)
	})
}

// SelectDay moves the day selection. Out of range indexes leave the view unchanged.
func (h *DashboardHandler) SelectDay(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	var req dayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithBindError(c, err)
		return
	}
	view, changed := session.Dashboard.SelectDay(*req.Index)
	c.Header("X-Day-Changed", fmt.Sprint(changed))
	c.JSON(http.StatusOK, sessionResponse{ID: session.ID, Profile: session.Profile, View: view})
}

// SetUnits switches units. system sets both; temperature and speed set one each.
func (h *DashboardHandler) SetUnits(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	var req unitsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithBindError(c, err)
		return
	}
	if req.System == "" && req.Temperature == "" && req.Speed == "" {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "one of system, temperature or speed is required", nil))
		return
	}
	h.respond(c, session, func() (dashboard.View, error) {
		ctx := c.Request.Context()
		var view dashboard.View
		if req.System != "" {
			system, err := units.Parse(req.System)
			if err != nil {
				return nil, err
			}
			if view, err = session.Dashboard.SetUnits(ctx, system); err != nil {
				return nil, err
			}
		}
		if req.Temperature != "" {
			system, err := units.Parse(req.Temperature)
			if err != nil {
				return nil, err
			}
			if view, err = session.Dashboard.SetTemperatureUnit(ctx, system); err != nil {
				return nil, err
			}
		}
		if req.Speed != "" {
			system, err := units.Parse(req.Speed)
			if err != nil {
				return nil, err
			}
			if view, err = session.Dashboard.SetSpeedUnit(ctx, system); err != nil {
				return nil, err
			}
		}
		return view, nil
	})
}

func (h *DashboardHandler) SetTheme(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	var req themeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithBindError(c, err)
		return
	}
	h.respond(c, session, func() (dashboard.View, error) {
		theme, err := preferences.ParseTheme(req.Theme)
		if err != nil {
			return nil, err
		}
		return session.Dashboard.SetTheme(c.Request.Context(), theme)
	})
}

func (h *DashboardHandler) SetTab(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	var req tabRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithBindError(c, err)
		return
	}
	h.respond(c, session, func() (dashboard.View, error) {
		return session.Dashboard.SetTab(c.Request.Context(), req.Tab)
	})
}

// AddFavorite saves a city, or the loaded city when none is given.
func (h *DashboardHandler) AddFavorite(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	var req favoriteRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			abortWithBindError(c, err)
			return
		}
	}
	h.respond(c, session, func() (dashboard.View, error) {
		return session.Dashboard.AddFavorite(c.Request.Context(), req.City)
	})
}

func (h *DashboardHandler) RemoveFavorite(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	h.respond(c, session, func() (dashboard.View, error) {
		return session.Dashboard.RemoveFavorite(c.Request.Context(), c.Param("city"))
	})
}

// Events streams region updates using Server-Sent Events. The first frame is the
// full last-rendered view; each later frame is one region update.
func (h *DashboardHandler) Events(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, "stream_unsupported", "streaming not supported", nil))
		return
	}
	updates, cancel := session.Broadcaster.Subscribe(eventBuffer)
	defer cancel()

	// streams outlive the server write timeout
	_ = http.NewResponseController(c.Writer).SetWriteDeadline(time.Time{})

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Status(http.StatusOK)

	if err := writeEvent(c.Writer, "snapshot", session.Recorder.Snapshot()); err != nil {
		h.logger.Error("write snapshot failed", "session", session.ID, "error", err)
		return
	}
	flusher.Flush()

	keepAlive := time.NewTicker(keepAliveInterval)
	defer keepAlive.Stop()
	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-keepAlive.C:
			_, _ = c.Writer.Write([]byte(": keep-alive\n\n"))
			flusher.Flush()
		case update, open := <-updates:
			if !open {
				_ = writeEvent(c.Writer, "closed", gin.H{"session": session.ID})
				flusher.Flush()
				return
			}
			if err := writeEvent(c.Writer, "update", update); err != nil {
				h.logger.Error("write update failed", "session", session.ID, "region", update.Region, "error", err)
				continue
			}
			flusher.Flush()
		}
	}
}

func writeEvent(w gin.ResponseWriter, name string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, data); err != nil {
		return err
	}
	return nil
}

func (h *DashboardHandler) session(c *gin.Context) (*dashboard.Session, bool) {
	session, err := h.registry.Get(c.Param("id"))
	if err != nil {
		abortWithAppError(c, err)
		return nil, false
	}
	return session, true
}

func (h *DashboardHandler) respond(c *gin.Context, session *dashboard.Session, fn func() (dashboard.View, error)) {
	view, err := fn()
	if err != nil {
		abortWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionResponse{ID: session.ID, Profile: session.Profile, View: view})
}

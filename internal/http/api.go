package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"weather-backend/internal/domain"
	"weather-backend/internal/repository"
	"weather-backend/internal/service"
	"weather-backend/internal/weather"
)

// Handler wires HTTP routes to domain services.
type Handler struct {
	auth      service.AuthService
	reminders service.ReminderService
	weather   weather.Service
	logger    *logrus.Logger
}

func NewHandler(auth service.AuthService, reminders service.ReminderService, weatherSvc weather.Service, logger *logrus.Logger) *Handler {
	return &Handler{
		auth:      auth,
		reminders: reminders,
		weather:   weatherSvc,
		logger:    logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(corsMiddleware())

	api := router.Group("/api")
	{
		api.GET("/health", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, gin.H{"ok": "ok"})
		})

		auth := api.Group("/auth")
		{
			auth.POST("/register", h.register)
			auth.POST("/login", h.login)
			auth.GET("/me", h.requireAuth(), h.me)
		}

		weatherGroup := api.Group("/weather", h.requireAuth())
		{
			weatherGroup.GET("/current", h.currentWeather)
			weatherGroup.GET("/forecast", h.forecast)
			weatherGroup.GET("/location", h.locationName)
		}

		reminders := api.Group("/reminders", h.requireAuth())
		{
			reminders.POST("", h.createReminder)
			reminders.GET("", h.listReminders)
			reminders.GET("/:id", h.getReminder)
			reminders.PUT("/:id", h.updateReminder)
			reminders.DELETE("/:id", h.deleteReminder)
		}
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

type registerRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.auth.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, userToResponse(user))
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":    result.Token,
		"username": result.User.Username,
	})
}

func (h *Handler) me(c *gin.Context) {
	c.JSON(http.StatusOK, userToResponse(currentUser(c)))
}

func (h *Handler) currentWeather(c *gin.Context) {
	if city := c.Query("city"); city != "" {
		conditions, err := h.weather.CurrentByCity(c.Request.Context(), city)
		if err != nil {
			h.writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, conditions)
		return
	}

	lat, lon, ok := parseCoords(c)
	if !ok {
		return
	}
	conditions, err := h.weather.CurrentByCoords(c.Request.Context(), lat, lon)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, conditions)
}

func (h *Handler) forecast(c *gin.Context) {
	if city := c.Query("city"); city != "" {
		forecast, err := h.weather.ForecastByCity(c.Request.Context(), city)
		if err != nil {
			h.writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, forecast)
		return
	}

	lat, lon, ok := parseCoords(c)
	if !ok {
		return
	}
	forecast, err := h.weather.ForecastByCoords(c.Request.Context(), lat, lon)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, forecast)
}

func (h *Handler) locationName(c *gin.Context) {
	lat, lon, ok := parseCoords(c)
	if !ok {
		return
	}
	place, err := h.weather.LocationName(c.Request.Context(), lat, lon)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, place)
}

type reminderRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	RemindOn    string `json:"remind_on" binding:"required"`
	Completed   bool   `json:"completed"`
}

func (h *Handler) createReminder(c *gin.Context) {
	var req reminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reminder, err := h.reminders.Create(c.Request.Context(), currentUser(c).ID, req.Title, req.Description, req.RemindOn, req.Completed)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, reminderToResponse(*reminder))
}

func (h *Handler) listReminders(c *gin.Context) {
	reminders, err := h.reminders.List(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	resp := make([]ReminderResponse, len(reminders))
	for i := range reminders {
		resp[i] = reminderToResponse(reminders[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) getReminder(c *gin.Context) {
	id, ok := reminderID(c)
	if !ok {
		return
	}

	reminder, err := h.reminders.Get(c.Request.Context(), id, currentUser(c).ID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, reminderToResponse(*reminder))
}

func (h *Handler) updateReminder(c *gin.Context) {
	id, ok := reminderID(c)
	if !ok {
		return
	}

	var req reminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reminder, err := h.reminders.Update(c.Request.Context(), id, currentUser(c).ID, req.Title, req.Description, req.RemindOn, req.Completed)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, reminderToResponse(*reminder))
}

func (h *Handler) deleteReminder(c *gin.Context) {
	id, ok := reminderID(c)
	if !ok {
		return
	}

	if err := h.reminders.Delete(c.Request.Context(), id, currentUser(c).ID); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

// writeError maps service errors onto HTTP statuses. Authentication failures
// use a single generic body so callers cannot probe account existence.
func (h *Handler) writeError(c *gin.Context, err error) {
	var validationErr *service.ValidationError
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Message, "field": validationErr.Field})
	case errors.Is(err, service.ErrUserAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": "user already exists"})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
	case errors.Is(err, service.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, weather.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, weather.ErrProviderUnavailable):
		c.JSON(http.StatusBadGateway, gin.H{"error": "weather provider unavailable"})
	default:
		if h.logger != nil {
			h.logger.Errorf("request failed: %v", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func reminderID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid reminder id"})
		return 0, false
	}
	return id, true
}

func parseCoords(c *gin.Context) (float64, float64, bool) {
	lat, latErr := strconv.ParseFloat(c.Query("lat"), 64)
	lon, lonErr := strconv.ParseFloat(c.Query("lon"), 64)
	if latErr != nil || lonErr != nil || lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "city or valid lat/lon query parameters are required"})
		return 0, 0, false
	}
	return lat, lon, true
}

type UserResponse struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

type ReminderResponse struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	RemindOn    string `json:"remind_on"`
	Completed   bool   `json:"completed"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

func userToResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
	}
}

func reminderToResponse(reminder domain.Reminder) ReminderResponse {
	return ReminderResponse{
		ID:          reminder.ID,
		Title:       reminder.Title,
		Description: reminder.Description,
		RemindOn:    reminder.RemindOn,
		Completed:   reminder.Completed,
		CreatedAt:   reminder.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   reminder.UpdatedAt.Format(time.RFC3339),
	}
}

package http

import (
	"net/http"

	"contact_relay/internal/entities"
	"contact_relay/internal/interfaces"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const (
	serviceName    = "Contact Telegram Notification Relay"
	serviceVersion = "1.0.0"
	maxRequestSize = 1 << 20
)

type Handler struct {
	notifier interfaces.Notifier
	log      zerolog.Logger
}

func NewHandler(notifier interfaces.Notifier, log zerolog.Logger) *Handler {
	return &Handler{notifier: notifier, log: log}
}

// SetupRoutes wires the inbound surface used by the website backend.
// metrics may be nil.
func SetupRoutes(r *gin.Engine, notifier interfaces.Notifier, middleware *Middleware, metrics http.Handler, log zerolog.Logger) {
	h := NewHandler(notifier, log)

	// Client IPs come from the socket, so X-Forwarded-For cannot mint new rate limit keys.
	_ = r.SetTrustedProxies(nil)

	r.Use(RequestID())
	r.Use(RequestLogger(log))
	r.Use(gin.Recovery())
	r.Use(SecurityHeaders())
	r.Use(RequestSizeLimiter(maxRequestSize))

	r.GET("/", h.Root)
	r.GET("/health", h.Health)
	if metrics != nil {
		r.GET("/metrics", gin.WrapH(metrics))
	}

	api := r.Group("/api")
	api.Use(middleware.RateLimitPerClient())
	api.Use(middleware.AuthRequired())
	{
		api.POST("/send-notification", h.SendNotification)
		api.POST("/send-reminder", h.SendReminder)
	}
}

func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "running",
		"service": serviceName,
		"version": serviceVersion,
	})
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// SendNotification forwards a new contact to the chat. 500 means the chat
// did not accept the message.
func (h *Handler) SendNotification(c *gin.Context) {
	var n entities.ContactNotification
	if err := c.ShouldBindJSON(&n); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": "Invalid request: " + err.Error()})
		return
	}
	if err := NormalizeContact(&n); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": err.Error()})
		return
	}

	h.log.Info().Str("name", n.Name).Str("request_id", c.GetString(requestIDKey)).Msg("notification requested")

	if err := h.notifier.SendNewContact(c.Request.Context(), n); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": "Failed to send notification"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Notification sent successfully",
	})
}

func (h *Handler) SendReminder(c *gin.Context) {
	var req entities.ReminderNote
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": "Invalid request: " + err.Error()})
		return
	}
	if err := NormalizeReminder(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": err.Error()})
		return
	}

	if err := h.notifier.SendReminder(c.Request.Context(), req.Name, req.Phone, req.Note); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": "Failed to send reminder"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Reminder sent successfully",
	})
}

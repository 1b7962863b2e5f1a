package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/arnavshah/seat-lottery-go/pkg/auth"
	"github.com/arnavshah/seat-lottery-go/pkg/classroom"
	"github.com/arnavshah/seat-lottery-go/pkg/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Handler contains dependencies for the route handlers
type Handler struct {
	DB        *gorm.DB
	Tokens    *auth.Tokens
	Classroom *classroom.Service
}

// Routes registers every endpoint on r
func (h *Handler) Routes(r *gin.Engine) {
	r.GET("/", h.Index)
	r.POST("/admin/login", h.Login)

	api := r.Group("/api")
	api.Use(h.AuthMiddleware())
	{
		api.GET("/students", h.ListStudents)
		api.POST("/students", h.AddStudent)
		api.POST("/students/generate", h.GenerateStudents)
		api.POST("/students/sort", h.SortStudents)
		api.GET("/students/export", h.ExportStudents)
		api.PUT("/students/:id", h.RenameStudent)
		api.DELETE("/students/:id", h.RemoveStudent)
		api.DELETE("/students", h.ClearStudents)

		api.GET("/layout", h.GetLayout)
		api.POST("/layout", h.CreateLayout)
		api.DELETE("/layout", h.ClearLayout)
		api.GET("/layout/export", h.ExportLayout)
		api.POST("/layout/activate-all", h.ActivateAll)
		api.POST("/layout/deactivate-all", h.DeactivateAll)
		api.POST("/layout/seats/:row/:col/toggle", h.ToggleSeat)
		api.PUT("/layout/seats/:row/:col", h.SetSeat)

		api.POST("/lottery", h.RunLottery)
		api.POST("/lottery/validate", h.ValidateLottery)
		api.GET("/assignments/current", h.CurrentAssignment)
		api.GET("/assignments/current/check", h.CheckAssignment)
		api.GET("/assignments/current/text", h.ExportAssignment)
		api.GET("/assignments/current/visual", h.VisualizeAssignment)
		api.GET("/history", h.ListHistory)
		api.POST("/history/:id/load", h.LoadHistory)

		api.GET("/statistics", h.GetStatistics)
		api.DELETE("/data", h.ClearData)
	}
}

// Index is the service banner
func (h *Handler) Index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Classroom Seat Lottery API",
		"version": "1.0.0",
	})
}

// AuthMiddleware verifies the JWT token for api routes
func (h *Handler) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("Authorization")
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		token = strings.TrimPrefix(token, "Bearer ")

		claims, err := h.Tokens.VerifyToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		c.Set("username", claims.Username)
		c.Next()
	}
}

// Login handles admin login
func (h *Handler) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := auth.Authenticate(h.DB, req.Username, req.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}
	if err != nil {
		log.Printf("login: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not check credentials"})
		return
	}

	token, err := h.Tokens.CreateToken(user.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"access_token": token, "token_type": "bearer"})
}

// ClearData removes the roster, the layout, the current assignment and the history
func (h *Handler) ClearData(c *gin.Context) {
	if err := h.Classroom.Reset(); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// statusOf maps an error code to the HTTP status returned for it
func statusOf(err error) int {
	code := models.CodeOf(err)
	switch {
	case code == models.CodeNotFound:
		return http.StatusNotFound
	case code == models.CodeInvalidStudents, code == models.CodeInvalidSeats:
		return http.StatusUnprocessableEntity
	}

	switch models.CategoryOf(err) {
	case models.CategoryValidation:
		return http.StatusBadRequest
	case models.CategoryPrecondition:
		return http.StatusConflict
	case models.CategoryPersistence:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	status := statusOf(err)
	code := models.CodeOf(err)
	if code == "" {
		log.Printf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}

	if status >= http.StatusInternalServerError {
		log.Printf("%s %s: %v", c.Request.Method, c.FullPath(), err)
	}
	c.JSON(status, gin.H{"error": messageOf(err), "code": code})
}

// messageOf returns the client-facing message of a core error, without the wrapped cause
func messageOf(err error) string {
	var e *models.Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

func respondText(c *gin.Context, text string) {
	c.String(http.StatusOK, text)
}

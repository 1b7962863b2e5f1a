package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetStatistics returns the roster, layout and assignment statistics in one response
func (h *Handler) GetStatistics(c *gin.Context) {
	_, rosterStats := h.Classroom.Students()
	_, layoutStats := h.Classroom.Layout()
	history, err := h.Classroom.History()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"students":   rosterStats,
		"layout":     layoutStats,
		"assignment": h.Classroom.Statistics(),
		"history":    gin.H{"count": len(history)},
	})
}

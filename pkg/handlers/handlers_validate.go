package handlers

import (
	"net/http"

	"github.com/arnavshah/seat-lottery-go/pkg/models"
	"github.com/gin-gonic/gin"
)

// ValidateLottery reports whether a lottery could run with the current roster and layout
func (h *Handler) ValidateLottery(c *gin.Context) {
	students, _ := h.Classroom.Students()
	_, layoutStats := h.Classroom.Layout()
	stats := gin.H{
		"student_count": len(students),
		"seat_count":    layoutStats.ActiveSeats,
	}

	if err := h.Classroom.CanRun(); err != nil {
		c.JSON(http.StatusOK, gin.H{
			"valid": false,
			"error": messageOf(err),
			"code":  models.CodeOf(err),
			"stats": stats,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"valid": true,
		"stats": stats,
	})
}

// CheckAssignment looks for inconsistencies in the current assignment
func (h *Handler) CheckAssignment(c *gin.Context) {
	c.JSON(http.StatusOK, h.Classroom.Check())
}

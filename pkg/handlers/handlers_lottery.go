package handlers

import (
	"net/http"

	"github.com/arnavshah/seat-lottery-go/pkg/lottery"
	"github.com/gin-gonic/gin"
)

// RunLottery draws a new seat assignment
func (h *Handler) RunLottery(c *gin.Context) {
	a, err := h.Classroom.RunLottery()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"assignment": a,
		"statistics": lottery.Statistics(a),
	})
}

func (h *Handler) CurrentAssignment(c *gin.Context) {
	a := h.Classroom.Current()
	if a == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no lottery has been run yet", "code": "not_found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"assignment": a,
		"statistics": lottery.Statistics(a),
		"report":     lottery.Check(a),
	})
}

func (h *Handler) ExportAssignment(c *gin.Context) {
	respondText(c, h.Classroom.ExportAssignment())
}

func (h *Handler) VisualizeAssignment(c *gin.Context) {
	respondText(c, h.Classroom.Visualize())
}

func (h *Handler) ListHistory(c *gin.Context) {
	history, err := h.Classroom.History()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": history, "count": len(history)})
}

// LoadHistory restores a past assignment together with its roster and layout.
// The body must carry {"confirm": true}.
func (h *Handler) LoadHistory(c *gin.Context) {
	var req struct {
		Confirm bool `json:"confirm"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	a, err := h.Classroom.LoadFromHistory(c.Param("id"), req.Confirm)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"assignment": a})
}

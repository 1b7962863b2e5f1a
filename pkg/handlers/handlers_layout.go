package handlers

import (
	"net/http"
	"strconv"

	"github.com/arnavshah/seat-lottery-go/pkg/models"
	"github.com/gin-gonic/gin"
)

// Seat positions in paths are zero based, like the row and col fields of a seat.

func (h *Handler) GetLayout(c *gin.Context) {
	layout, stats := h.Classroom.Layout()
	c.JSON(http.StatusOK, gin.H{"layout": layout, "statistics": stats})
}

func (h *Handler) CreateLayout(c *gin.Context) {
	var req struct {
		Rows int `json:"rows"`
		Cols int `json:"cols"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Classroom.CreateLayout(req.Rows, req.Cols); err != nil {
		respondError(c, err)
		return
	}
	layout, stats := h.Classroom.Layout()
	c.JSON(http.StatusCreated, gin.H{"layout": layout, "statistics": stats})
}

func (h *Handler) ClearLayout(c *gin.Context) {
	if err := h.Classroom.ClearLayout(); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func seatParams(c *gin.Context) (int, int, error) {
	row, err := strconv.Atoi(c.Param("row"))
	if err != nil {
		return 0, 0, models.ErrInvalidPosition
	}
	col, err := strconv.Atoi(c.Param("col"))
	if err != nil {
		return 0, 0, models.ErrInvalidPosition
	}
	return row, col, nil
}

func (h *Handler) ToggleSeat(c *gin.Context) {
	row, col, err := seatParams(c)
	if err != nil {
		respondError(c, err)
		return
	}
	seat, err := h.Classroom.ToggleSeat(row, col)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, seat)
}

func (h *Handler) SetSeat(c *gin.Context) {
	row, col, err := seatParams(c)
	if err != nil {
		respondError(c, err)
		return
	}
	var req struct {
		Active *bool `json:"active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	seat, err := h.Classroom.SetSeatActive(row, col, *req.Active)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, seat)
}

func (h *Handler) ActivateAll(c *gin.Context) {
	if err := h.Classroom.ActivateAllSeats(); err != nil {
		respondError(c, err)
		return
	}
	h.GetLayout(c)
}

func (h *Handler) DeactivateAll(c *gin.Context) {
	if err := h.Classroom.DeactivateAllSeats(); err != nil {
		respondError(c, err)
		return
	}
	h.GetLayout(c)
}

func (h *Handler) ExportLayout(c *gin.Context) {
	respondText(c, h.Classroom.ExportLayout())
}

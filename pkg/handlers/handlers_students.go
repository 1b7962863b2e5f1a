package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListStudents(c *gin.Context) {
	students, stats := h.Classroom.Students()
	c.JSON(http.StatusOK, gin.H{"students": students, "statistics": stats})
}

func (h *Handler) AddStudent(c *gin.Context) {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	student, err := h.Classroom.AddStudent(req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, student)
}

// GenerateStudents appends count number-based students ("1번", "2번", ...)
func (h *Handler) GenerateStudents(c *gin.Context) {
	var req struct {
		Count int `json:"count"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	students, err := h.Classroom.GenerateStudents(req.Count)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"students": students})
}

func (h *Handler) RenameStudent(c *gin.Context) {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	student, err := h.Classroom.RenameStudent(c.Param("id"), req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, student)
}

func (h *Handler) RemoveStudent(c *gin.Context) {
	if err := h.Classroom.RemoveStudent(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) ClearStudents(c *gin.Context) {
	if err := h.Classroom.ClearStudents(); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SortStudents orders the roster by name or puts numbered students first
func (h *Handler) SortStudents(c *gin.Context) {
	var req struct {
		By         string `json:"by" binding:"required,oneof=name number"`
		Descending bool   `json:"descending"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var err error
	if req.By == "number" {
		err = h.Classroom.SortStudentsNumberFirst()
	} else {
		err = h.Classroom.SortStudentsByName(!req.Descending)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	h.ListStudents(c)
}

func (h *Handler) ExportStudents(c *gin.Context) {
	respondText(c, h.Classroom.ExportStudents())
}

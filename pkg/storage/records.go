package storage

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/arnavshah/seat-lottery-go/pkg/models"
	"github.com/go-playground/validator/v10"
)

// Stored documents are decoded into pointer-field records first so that a missing field can
// be told apart from a zero value. Anything that fails to decode or validate is discarded.

type studentRecord struct {
	ID            *string `json:"id" validate:"required"`
	Name          *string `json:"name" validate:"required,notblank"`
	IsNumberBased *bool   `json:"isNumberBased" validate:"required"`
}

type seatRecord struct {
	Row      *int           `json:"row" validate:"required,min=0"`
	Col      *int           `json:"col" validate:"required,min=0"`
	IsActive *bool          `json:"isActive" validate:"required"`
	Student  *studentRecord `json:"student"`
}

type positionRecord struct {
	Row *int `json:"row" validate:"required,min=0"`
	Col *int `json:"col" validate:"required,min=0"`
}

type pairingRecord struct {
	StudentID    *string         `json:"studentId" validate:"required"`
	StudentName  string          `json:"studentName"`
	SeatPosition *positionRecord `json:"seatPosition" validate:"required"`
}

type assignmentRecord struct {
	ID          *string         `json:"id" validate:"required"`
	Timestamp   *string         `json:"timestamp" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	Students    []studentRecord `json:"students"`
	SeatLayout  [][]seatRecord  `json:"seatLayout"`
	Assignments []pairingRecord `json:"assignments"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

func (r studentRecord) model() models.Student {
	return models.Student{ID: *r.ID, Name: *r.Name, IsNumberBased: *r.IsNumberBased}
}

func validStudents(records []studentRecord) bool {
	if records == nil {
		return false
	}
	for _, r := range records {
		if validate.Struct(r) != nil {
			return false
		}
	}
	return true
}

func toStudents(records []studentRecord) []models.Student {
	out := make([]models.Student, len(records))
	for i, r := range records {
		out[i] = r.model()
	}
	return out
}

// validLayout also requires every seat to carry its own grid coordinates and no inactive seat
// to hold an occupant
func validLayout(layout [][]seatRecord) bool {
	if len(layout) == 0 {
		return false
	}
	for r, row := range layout {
		if row == nil {
			return false
		}
		for c, seat := range row {
			if validate.Struct(seat) != nil {
				return false
			}
			if *seat.Row != r || *seat.Col != c {
				return false
			}
			if !*seat.IsActive && seat.Student != nil {
				return false
			}
		}
	}
	return true
}

func toLayout(layout [][]seatRecord) [][]models.Seat {
	out := make([][]models.Seat, len(layout))
	for r, row := range layout {
		out[r] = make([]models.Seat, len(row))
		for c, rec := range row {
			seat := models.Seat{Row: *rec.Row, Col: *rec.Col, IsActive: *rec.IsActive}
			if rec.Student != nil {
				st := rec.Student.model()
				seat.Student = &st
			}
			out[r][c] = seat
		}
	}
	return out
}

func (r assignmentRecord) valid() bool {
	if validate.Struct(r) != nil || !validStudents(r.Students) || !validLayout(r.SeatLayout) || r.Assignments == nil {
		return false
	}
	for _, p := range r.Assignments {
		if validate.Struct(p) != nil {
			return false
		}
	}
	return true
}

func (r assignmentRecord) model() (*models.Assignment, error) {
	ts, err := time.Parse(time.RFC3339, *r.Timestamp)
	if err != nil {
		return nil, err
	}
	pairings := make([]models.Pairing, len(r.Assignments))
	for i, p := range r.Assignments {
		pairings[i] = models.Pairing{
			StudentID:    *p.StudentID,
			StudentName:  p.StudentName,
			SeatPosition: models.Position{Row: *p.SeatPosition.Row, Col: *p.SeatPosition.Col},
		}
	}
	return &models.Assignment{
		ID:          *r.ID,
		Timestamp:   ts,
		Students:    toStudents(r.Students),
		SeatLayout:  toLayout(r.SeatLayout),
		Assignments: pairings,
	}, nil
}

// decodeStudents returns ok=false when raw is not a valid student list
func decodeStudents(raw []byte) ([]models.Student, bool) {
	var records []studentRecord
	if err := json.Unmarshal(raw, &records); err != nil || !validStudents(records) {
		return nil, false
	}
	return toStudents(records), true
}

func decodeLayout(raw []byte) ([][]models.Seat, bool) {
	var records [][]seatRecord
	if err := json.Unmarshal(raw, &records); err != nil || !validLayout(records) {
		return nil, false
	}
	return toLayout(records), true
}

func decodeAssignment(raw json.RawMessage) (*models.Assignment, bool) {
	var record assignmentRecord
	if err := json.Unmarshal(raw, &record); err != nil || !record.valid() {
		return nil, false
	}
	a, err := record.model()
	if err != nil {
		return nil, false
	}
	return a, true
}

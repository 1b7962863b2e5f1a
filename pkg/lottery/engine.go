package lottery

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"github.com/arnavshah/seat-lottery-go/internal/shuffle"
	"github.com/arnavshah/seat-lottery-go/pkg/models"
	"github.com/google/uuid"
)

// Engine pairs students with active seats at random. It keeps no state besides its random
// source, so one engine can serve every caller.
type Engine struct {
	src   *shuffle.Source
	now   func() time.Time
	newID func() string
}

// NewEngine creates an engine seeded from the clock
func NewEngine() *Engine {
	return &Engine{
		src:   shuffle.NewSource(),
		now:   time.Now,
		newID: newAssignmentID,
	}
}

// NewEngineWithSource creates an engine driven by src, for reproducible runs
func NewEngineWithSource(src rand.Source) *Engine {
	e := NewEngine()
	e.src = shuffle.NewSeededSource(src)
	return e
}

func newAssignmentID() string {
	return "assignment_" + uuid.NewString()
}

// ValidateStudents checks that there is at least one student and that every student has an
// id and a name. Duplicate ids are rejected as well.
func (e *Engine) ValidateStudents(students []models.Student) error {
	if len(students) == 0 {
		return models.ErrNoStudents
	}
	seen := make(map[string]bool, len(students))
	for _, s := range students {
		if strings.TrimSpace(s.ID) == "" || strings.TrimSpace(s.Name) == "" || seen[s.ID] {
			return models.ErrInvalidStudents
		}
		seen[s.ID] = true
	}
	return nil
}

// ValidateSeats checks that there is at least one seat and that every seat is active and
// appears only once.
func (e *Engine) ValidateSeats(seats []models.Seat) error {
	if len(seats) == 0 {
		return models.ErrNoSeats
	}
	seen := make(map[models.Position]bool, len(seats))
	for _, s := range seats {
		pos := s.Position()
		if !s.IsActive || s.Row < 0 || s.Col < 0 || seen[pos] {
			return models.ErrInvalidSeats
		}
		seen[pos] = true
	}
	return nil
}

// ValidatePossibility runs the student and seat checks and then the capacity check
func (e *Engine) ValidatePossibility(students []models.Student, seats []models.Seat) error {
	if err := e.ValidateStudents(students); err != nil {
		return err
	}
	if err := e.ValidateSeats(seats); err != nil {
		return err
	}
	if len(seats) < len(students) {
		return models.ErrInsufficientSeats
	}
	return nil
}

// Assign shuffles copies of students and seats independently and zips them. Seats past the
// number of students stay unassigned.
func (e *Engine) Assign(students []models.Student, seats []models.Seat) ([]models.Pairing, error) {
	if err := e.ValidatePossibility(students, seats); err != nil {
		return nil, err
	}

	var pairings []models.Pairing
	err := guard("pairing", func() error {
		shuffledStudents := shuffle.Copy(e.src, students)
		shuffledSeats := shuffle.Copy(e.src, seats)

		pairings = make([]models.Pairing, len(shuffledStudents))
		for k, student := range shuffledStudents {
			pairings[k] = models.Pairing{
				StudentID:    student.ID,
				StudentName:  student.Name,
				SeatPosition: shuffledSeats[k].Position(),
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pairings, nil
}

// Perform runs a complete lottery over a seat layout: it collects the active seats in
// row-major order, pairs them with students and freezes the result into an Assignment.
func (e *Engine) Perform(students []models.Student, layout [][]models.Seat) (*models.Assignment, error) {
	var active []models.Seat
	for r, row := range layout {
		for c, seat := range row {
			if seat.IsActive {
				seat.Row, seat.Col = r, c
				active = append(active, seat)
			}
		}
	}

	pairings, err := e.Assign(students, active)
	if err != nil {
		return nil, err
	}

	var snapshot [][]models.Seat
	err = guard("materialize", func() error {
		var merr error
		snapshot, merr = materialize(students, layout, pairings)
		return merr
	})
	if err != nil {
		return nil, err
	}

	return &models.Assignment{
		ID:          e.newID(),
		Timestamp:   e.now().UTC().Truncate(time.Millisecond),
		Students:    models.CloneStudents(students),
		SeatLayout:  snapshot,
		Assignments: pairings,
	}, nil
}

// materialize copies every seat of layout, empty, and seats the paired students. Seats are
// addressed by their place in layout.
func materialize(students []models.Student, layout [][]models.Seat, pairings []models.Pairing) ([][]models.Seat, error) {
	byID := make(map[string]models.Student, len(students))
	for _, s := range students {
		byID[s.ID] = s
	}

	out := make([][]models.Seat, len(layout))
	index := make(map[models.Position]*models.Seat)
	for r, row := range layout {
		out[r] = make([]models.Seat, len(row))
		for c, seat := range row {
			out[r][c] = models.Seat{Row: r, Col: c, IsActive: seat.IsActive}
			index[models.Position{Row: r, Col: c}] = &out[r][c]
		}
	}

	for _, p := range pairings {
		seat, ok := index[p.SeatPosition]
		if !ok {
			return nil, fmt.Errorf("seat (%d,%d) is not part of the layout", p.SeatPosition.Row, p.SeatPosition.Col)
		}
		student, ok := byID[p.StudentID]
		if !ok {
			return nil, fmt.Errorf("student %s is not part of the roster", p.StudentID)
		}
		if err := seat.AssignStudent(student); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// guard runs fn and collapses any error or panic into ErrAssignmentFailed. The cause is
// logged but never returned.
func guard(step string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("lottery: %s panicked: %v", step, r)
			err = models.ErrAssignmentFailed
		}
	}()
	if ferr := fn(); ferr != nil {
		log.Printf("lottery: %s failed: %v", step, ferr)
		return models.ErrAssignmentFailed
	}
	return nil
}

package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/arnavshah/seat-lottery-go/pkg/models"
)

const (
	KeyStudents          = "classroom_lottery_students"
	KeySeatLayout        = "classroom_lottery_seat_layout"
	KeyCurrentAssignment = "classroom_lottery_assignments"
	KeyAssignmentHistory = "classroom_lottery_assignment_history"

	// HistoryLimit is the number of past assignments kept, oldest dropped first
	HistoryLimit = 10
)

// Repository maps the domain records onto the four namespaces of a Store
type Repository struct {
	store Store
}

// NewRepository creates a repository on top of store
func NewRepository(store Store) *Repository {
	return &Repository{store: store}
}

func (r *Repository) save(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return r.store.Save(key, raw)
}

// SaveStudents stores the roster
func (r *Repository) SaveStudents(students []models.Student) error {
	if students == nil {
		students = []models.Student{}
	}
	return r.save(KeyStudents, students)
}

// LoadStudents returns the stored roster. A malformed document is discarded.
func (r *Repository) LoadStudents() ([]models.Student, error) {
	raw, ok, err := r.store.Load(KeyStudents)
	if err != nil || !ok {
		return []models.Student{}, err
	}
	students, valid := decodeStudents(raw)
	if !valid {
		log.Printf("storage: discarding invalid student data")
		return []models.Student{}, nil
	}
	return students, nil
}

// SaveLayout stores the seat layout
func (r *Repository) SaveLayout(layout [][]models.Seat) error {
	return r.save(KeySeatLayout, layout)
}

// LoadLayout returns the stored layout, or nil when there is none or it is malformed
func (r *Repository) LoadLayout() ([][]models.Seat, error) {
	raw, ok, err := r.store.Load(KeySeatLayout)
	if err != nil || !ok {
		return nil, err
	}
	layout, valid := decodeLayout(raw)
	if !valid {
		log.Printf("storage: discarding invalid seat layout data")
		return nil, nil
	}
	return layout, nil
}

// ClearLayout removes the stored layout
func (r *Repository) ClearLayout() error {
	return r.store.Remove(KeySeatLayout)
}

// SaveAssignment stores a as the current assignment and appends it to the history. When the
// history cannot be written the previous current assignment is put back.
func (r *Repository) SaveAssignment(a *models.Assignment) error {
	if a == nil {
		return errors.New("nil assignment")
	}

	history, err := r.History()
	if err != nil {
		return err
	}
	prev, hadPrev, err := r.store.Load(KeyCurrentAssignment)
	if err != nil {
		return err
	}

	if err := r.save(KeyCurrentAssignment, a); err != nil {
		return err
	}

	history = append(history, *a)
	if len(history) > HistoryLimit {
		history = history[len(history)-HistoryLimit:]
	}
	if err := r.save(KeyAssignmentHistory, history); err != nil {
		var rerr error
		if hadPrev {
			rerr = r.store.Save(KeyCurrentAssignment, prev)
		} else {
			rerr = r.store.Remove(KeyCurrentAssignment)
		}
		if rerr != nil {
			log.Printf("storage: could not restore current assignment: %v", rerr)
		}
		return err
	}
	return nil
}

// SetCurrentAssignment replaces the current assignment without touching the history
func (r *Repository) SetCurrentAssignment(a *models.Assignment) error {
	return r.save(KeyCurrentAssignment, a)
}

// LoadCurrentAssignment returns the current assignment, or nil when there is none
func (r *Repository) LoadCurrentAssignment() (*models.Assignment, error) {
	raw, ok, err := r.store.Load(KeyCurrentAssignment)
	if err != nil || !ok {
		return nil, err
	}
	a, valid := decodeAssignment(raw)
	if !valid {
		log.Printf("storage: discarding invalid assignment data")
		return nil, nil
	}
	return a, nil
}

// History returns the stored assignments, oldest first. Invalid entries are skipped.
func (r *Repository) History() ([]models.Assignment, error) {
	raw, ok, err := r.store.Load(KeyAssignmentHistory)
	if err != nil || !ok {
		return []models.Assignment{}, err
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		log.Printf("storage: discarding invalid assignment history")
		return []models.Assignment{}, nil
	}

	history := make([]models.Assignment, 0, len(entries))
	for _, entry := range entries {
		if a, valid := decodeAssignment(entry); valid {
			history = append(history, *a)
		}
	}
	if dropped := len(entries) - len(history); dropped > 0 {
		log.Printf("storage: skipped %d invalid history entries", dropped)
	}
	return history, nil
}

// FindInHistory returns the historical assignment with the given id
func (r *Repository) FindInHistory(id string) (*models.Assignment, error) {
	history, err := r.History()
	if err != nil {
		return nil, err
	}
	for i := range history {
		if history[i].ID == id {
			return &history[i], nil
		}
	}
	return nil, models.ErrNotFound
}

// ClearAll removes every namespace
func (r *Repository) ClearAll() error {
	for _, key := range []string{KeyStudents, KeySeatLayout, KeyCurrentAssignment, KeyAssignmentHistory} {
		if err := r.store.Remove(key); err != nil {
			return err
		}
	}
	return nil
}

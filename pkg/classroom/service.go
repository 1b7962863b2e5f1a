package classroom

import (
	"log"
	"sync"

	"github.com/arnavshah/seat-lottery-go/pkg/lottery"
	"github.com/arnavshah/seat-lottery-go/pkg/models"
	"github.com/arnavshah/seat-lottery-go/pkg/roster"
	"github.com/arnavshah/seat-lottery-go/pkg/seating"
	"github.com/arnavshah/seat-lottery-go/pkg/storage"
)

// Service owns the roster, the seat grid and the current assignment of one classroom.
// All methods are safe for concurrent use; they run one at a time.
//
// The live grid only holds occupants after a historical assignment has been loaded, and then
// only students of that assignment. Roster edits and new draws keep it that way.
type Service struct {
	mu      sync.Mutex
	repo    *storage.Repository
	engine  *lottery.Engine
	roster  *roster.Roster
	grid    *seating.Grid
	current *models.Assignment
}

// New restores the classroom state from repo
func New(repo *storage.Repository, engine *lottery.Engine) (*Service, error) {
	s := &Service{repo: repo, engine: engine}
	if err := s.reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// reload replaces the in-memory state with what the repository holds
func (s *Service) reload() error {
	students, err := s.repo.LoadStudents()
	if err != nil {
		return models.NewPersistenceError(err)
	}
	layout, err := s.repo.LoadLayout()
	if err != nil {
		return models.NewPersistenceError(err)
	}
	current, err := s.repo.LoadCurrentAssignment()
	if err != nil {
		return models.NewPersistenceError(err)
	}

	s.roster = roster.New(s.repo, students)
	s.grid = seating.New(s.repo, layout)
	s.current = current
	return nil
}

// Students

func (s *Service) Students() ([]models.Student, roster.Stats) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.roster.Students(), s.roster.Statistics()
}

func (s *Service) AddStudent(name string) (models.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.roster.Add(name)
}

func (s *Service) GenerateStudents(count int) ([]models.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.roster.GenerateByNumber(count)
}

// RenameStudent also renames the student on the seat they occupy
func (s *Service) RenameStudent(id, name string) (models.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, _ := s.roster.Student(id)
	student, err := s.roster.Rename(id, name)
	if err != nil {
		return models.Student{}, err
	}
	if _, err := s.grid.SyncOccupants(s.roster.Students()); err != nil {
		if _, rerr := s.roster.Rename(id, old.Name); rerr != nil {
			log.Printf("classroom: could not undo rename of %s: %v", id, rerr)
		}
		return models.Student{}, err
	}
	return student, nil
}

// RemoveStudent also frees the seat the student occupies
func (s *Service) RemoveStudent(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.roster.Student(id); !ok {
		return models.ErrNotFound
	}
	remaining := make([]models.Student, 0, s.roster.Count())
	for _, st := range s.roster.Students() {
		if st.ID != id {
			remaining = append(remaining, st)
		}
	}
	return s.withSeatsFor(remaining, func() error {
		return s.roster.Remove(id)
	})
}

// ClearStudents also empties every seat
func (s *Service) ClearStudents() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.withSeatsFor(nil, s.roster.ClearAll)
}

// withSeatsFor empties the seats of students missing from remaining, then runs edit. The
// seats are put back when edit fails.
func (s *Service) withSeatsFor(remaining []models.Student, edit func() error) error {
	prevLayout := s.grid.Layout()
	changed, err := s.grid.SyncOccupants(remaining)
	if err != nil {
		return err
	}
	if err := edit(); err != nil {
		if changed {
			s.restoreLayout(prevLayout)
		}
		return err
	}
	return nil
}

func (s *Service) SortStudentsByName(ascending bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.roster.SortByName(ascending)
}

func (s *Service) SortStudentsNumberFirst() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.roster.SortNumberFirst()
}

func (s *Service) ExportStudents() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.roster.ExportText()
}

// Layout

// Layout returns an empty layout when none has been created
func (s *Service) Layout() ([][]models.Seat, seating.Stats) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grid.Layout(), s.grid.Statistics()
}

func (s *Service) CreateLayout(rows, cols int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grid.CreateLayout(rows, cols)
}

func (s *Service) ClearLayout() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grid.Clear()
}

func (s *Service) ToggleSeat(row, col int) (models.Seat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grid.Toggle(row, col)
}

func (s *Service) SetSeatActive(row, col int, active bool) (models.Seat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grid.SetActive(row, col, active)
}

func (s *Service) ActivateAllSeats() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grid.ActivateAll()
}

func (s *Service) DeactivateAllSeats() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grid.DeactivateAll()
}

func (s *Service) ExportLayout() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grid.ExportText()
}

// Lottery

// RunLottery draws a new assignment from the current roster and layout, stores it as the
// current assignment and appends it to the history
func (s *Service) RunLottery() (*models.Assignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.grid.HasLayout() {
		return nil, models.ErrNoLayout
	}
	a, err := s.engine.Perform(s.roster.Students(), s.grid.Layout())
	if err != nil {
		return nil, err
	}

	// occupants of a previously loaded assignment leave the live grid
	prevLayout := s.grid.Layout()
	changed, err := s.grid.SyncOccupants(nil)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SaveAssignment(a); err != nil {
		if changed {
			s.restoreLayout(prevLayout)
		}
		return nil, models.NewPersistenceError(err)
	}
	s.current = a
	log.Printf("lottery: %s seated %d students", a.ID, len(a.Assignments))
	return a.Clone(), nil
}

// CanRun reports why a lottery could not run right now, or nil when it could
func (s *Service) CanRun() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.grid.HasLayout() {
		return models.ErrNoLayout
	}
	return s.engine.ValidatePossibility(s.roster.Students(), s.grid.AvailableSeats())
}

// Current returns the current assignment, or nil when no lottery has run
func (s *Service) Current() *models.Assignment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Clone()
}

// History returns the stored assignments, oldest first
func (s *Service) History() ([]models.Assignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	history, err := s.repo.History()
	if err != nil {
		return nil, models.NewPersistenceError(err)
	}
	return history, nil
}

// LoadFromHistory replaces the roster and the layout with the snapshots of a historical
// assignment and makes it current. The caller must confirm, since unsaved edits are lost.
func (s *Service) LoadFromHistory(id string, confirm bool) (*models.Assignment, error) {
	if !confirm {
		return nil, models.ErrConfirmationRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a, err := s.repo.FindInHistory(id)
	if err != nil {
		if models.CodeOf(err) == models.CodeNotFound {
			return nil, err
		}
		return nil, models.NewPersistenceError(err)
	}

	prevStudents := s.roster.Students()
	prevLayout := s.grid.Layout()
	if err := s.roster.Replace(a.Students); err != nil {
		return nil, err
	}
	if err := s.grid.Replace(a.SeatLayout); err != nil {
		s.restoreRoster(prevStudents)
		return nil, err
	}
	if err := s.repo.SetCurrentAssignment(a); err != nil {
		s.restoreRoster(prevStudents)
		s.restoreLayout(prevLayout)
		return nil, models.NewPersistenceError(err)
	}
	s.current = a
	return a.Clone(), nil
}

func (s *Service) restoreRoster(students []models.Student) {
	if err := s.roster.Replace(students); err != nil {
		log.Printf("classroom: could not restore roster: %v", err)
	}
}

// restoreLayout puts back a layout taken with Grid.Layout, clearing the grid when it was empty
func (s *Service) restoreLayout(layout [][]models.Seat) {
	if len(layout) == 0 && !s.grid.HasLayout() {
		return
	}
	var err error
	if len(layout) == 0 {
		err = s.grid.Clear()
	} else {
		err = s.grid.Replace(layout)
	}
	if err != nil {
		log.Printf("classroom: could not restore layout: %v", err)
	}
}

func (s *Service) Statistics() models.Statistics {
	s.mu.Lock()
	defer s.mu.Unlock()
	return lottery.Statistics(s.current)
}

func (s *Service) Check() lottery.Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	return lottery.Check(s.current)
}

func (s *Service) Visualize() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return lottery.Visualize(s.current)
}

func (s *Service) ExportAssignment() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return lottery.ExportText(s.current)
}

// Reset removes every stored namespace and starts over with an empty classroom. When the
// store fails part way, the in-memory state is reloaded from what is left in the store.
func (s *Service) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.repo.ClearAll(); err != nil {
		if rerr := s.reload(); rerr != nil {
			log.Printf("classroom: could not reload after failed reset: %v", rerr)
		}
		return models.NewPersistenceError(err)
	}
	s.roster = roster.New(s.repo, nil)
	s.grid = seating.New(s.repo, nil)
	s.current = nil
	return nil
}

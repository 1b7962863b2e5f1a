package roster

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/arnavshah/seat-lottery-go/pkg/models"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

const (
	// MaxGenerate is the largest batch GenerateByNumber accepts
	MaxGenerate = 100
	// probeSlack is how far past count the generator looks for a free number
	probeSlack = 50

	idPrefix     = "student_"
	numberSuffix = "번"
)

// StudentStore persists the full roster after every mutation
type StudentStore interface {
	SaveStudents(students []models.Student) error
}

// Roster holds the ordered list of students. It is not safe for concurrent use;
// callers serialize access.
type Roster struct {
	store    StudentStore
	students []models.Student
	nextID   int
}

// Stats counts students by how they were created
type Stats struct {
	Total       int  `json:"total"`
	NumberBased int  `json:"numberBased"`
	NameBased   int  `json:"nameBased"`
	Empty       bool `json:"isEmpty"`
}

// New creates a roster seeded with previously stored students
func New(store StudentStore, initial []models.Student) *Roster {
	r := &Roster{store: store, students: models.CloneStudents(initial)}
	r.resetNextID()
	return r
}

// NumberedName returns the generated name for n, e.g. "3번"
func NumberedName(n int) string {
	return strconv.Itoa(n) + numberSuffix
}

// resetNextID continues numbering after the highest existing student_<n> id
func (r *Roster) resetNextID() {
	max := 0
	for _, s := range r.students {
		n, err := strconv.Atoi(strings.TrimPrefix(s.ID, idPrefix))
		if err == nil && n > max {
			max = n
		}
	}
	r.nextID = max + 1
}

func (r *Roster) generateID() string {
	id := fmt.Sprintf("%s%d", idPrefix, r.nextID)
	r.nextID++
	return id
}

// validateName trims name and checks it against every student except excludeID
func (r *Roster) validateName(name, excludeID string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", models.ErrEmptyName
	}
	if r.nameTaken(trimmed, excludeID) {
		return "", models.ErrDuplicateName
	}
	return trimmed, nil
}

func (r *Roster) nameTaken(name, excludeID string) bool {
	for _, s := range r.students {
		if s.Name == name && s.ID != excludeID {
			return true
		}
	}
	return false
}

func (r *Roster) indexOf(id string) int {
	for i, s := range r.students {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// commit persists the current state, restoring the previous one when the store fails
func (r *Roster) commit(prevStudents []models.Student, prevNextID int) error {
	if err := r.store.SaveStudents(models.CloneStudents(r.students)); err != nil {
		r.students = prevStudents
		r.nextID = prevNextID
		return models.NewPersistenceError(err)
	}
	return nil
}

func (r *Roster) snapshot() ([]models.Student, int) {
	return models.CloneStudents(r.students), r.nextID
}

// Add appends a manually named student
func (r *Roster) Add(name string) (models.Student, error) {
	trimmed, err := r.validateName(name, "")
	if err != nil {
		return models.Student{}, err
	}

	prev, prevID := r.snapshot()
	student := models.Student{ID: r.generateID(), Name: trimmed}
	r.students = append(r.students, student)
	if err := r.commit(prev, prevID); err != nil {
		return models.Student{}, err
	}
	return student, nil
}

// GenerateByNumber appends count students named "1번".."N번". A name that is already taken is
// replaced by the next free number, probing at most up to count+50.
func (r *Roster) GenerateByNumber(count int) ([]models.Student, error) {
	if count <= 0 || count > MaxGenerate {
		return nil, models.ErrInvalidCount
	}

	prev, prevID := r.snapshot()
	created := make([]models.Student, 0, count)
	for i := 1; i <= count; i++ {
		n := i
		for r.nameTaken(NumberedName(n), "") && n <= count+probeSlack {
			n++
		}
		if n > count+probeSlack {
			r.students = prev
			r.nextID = prevID
			return nil, models.ErrGenerationCollision
		}

		student := models.Student{ID: r.generateID(), Name: NumberedName(n), IsNumberBased: true}
		r.students = append(r.students, student)
		created = append(created, student)
	}

	if err := r.commit(prev, prevID); err != nil {
		return nil, err
	}
	return created, nil
}

// Remove deletes the student with the given id
func (r *Roster) Remove(id string) error {
	idx := r.indexOf(id)
	if idx < 0 {
		return models.ErrNotFound
	}

	prev, prevID := r.snapshot()
	r.students = append(r.students[:idx:idx], r.students[idx+1:]...)
	return r.commit(prev, prevID)
}

// Rename changes the name of a student. The student's own name does not count as a duplicate.
func (r *Roster) Rename(id, newName string) (models.Student, error) {
	idx := r.indexOf(id)
	if idx < 0 {
		return models.Student{}, models.ErrNotFound
	}
	trimmed, err := r.validateName(newName, id)
	if err != nil {
		return models.Student{}, err
	}

	prev, prevID := r.snapshot()
	r.students[idx].Name = trimmed
	if err := r.commit(prev, prevID); err != nil {
		return models.Student{}, err
	}
	return r.students[idx], nil
}

// ClearAll removes every student and restarts id numbering
func (r *Roster) ClearAll() error {
	prev, prevID := r.snapshot()
	r.students = []models.Student{}
	r.nextID = 1
	return r.commit(prev, prevID)
}

// Replace swaps the whole roster, e.g. when restoring a historical assignment
func (r *Roster) Replace(students []models.Student) error {
	prev, prevID := r.snapshot()
	r.students = models.CloneStudents(students)
	if r.students == nil {
		r.students = []models.Student{}
	}
	r.resetNextID()
	return r.commit(prev, prevID)
}

// SortByName orders students by name, ignoring case, using Korean collation rules
func (r *Roster) SortByName(ascending bool) error {
	prev, prevID := r.snapshot()
	c := collate.New(language.Korean, collate.IgnoreCase)
	sort.SliceStable(r.students, func(i, j int) bool {
		cmp := c.CompareString(r.students[i].Name, r.students[j].Name)
		if ascending {
			return cmp < 0
		}
		return cmp > 0
	})
	return r.commit(prev, prevID)
}

// SortNumberFirst puts number-based students first, ordered by their number, followed by
// name-based students in collation order.
func (r *Roster) SortNumberFirst() error {
	prev, prevID := r.snapshot()
	c := collate.New(language.Korean)
	sort.SliceStable(r.students, func(i, j int) bool {
		a, b := r.students[i], r.students[j]
		if a.IsNumberBased != b.IsNumberBased {
			return a.IsNumberBased
		}
		if a.IsNumberBased {
			na, okA := numberOf(a.Name)
			nb, okB := numberOf(b.Name)
			switch {
			case okA && okB && na != nb:
				return na < nb
			case okA != okB:
				return okA
			}
		}
		return c.CompareString(a.Name, b.Name) < 0
	})
	return r.commit(prev, prevID)
}

// numberOf parses the leading digits of a generated name
func numberOf(name string) (int, bool) {
	end := 0
	for end < len(name) && name[end] >= '0' && name[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(name[:end])
	return n, err == nil
}

// Students returns a copy of the roster in display order
func (r *Roster) Students() []models.Student {
	out := models.CloneStudents(r.students)
	if out == nil {
		out = []models.Student{}
	}
	return out
}

// Student looks up a student by id
func (r *Roster) Student(id string) (models.Student, bool) {
	idx := r.indexOf(id)
	if idx < 0 {
		return models.Student{}, false
	}
	return r.students[idx], true
}

// Count returns the number of students
func (r *Roster) Count() int {
	return len(r.students)
}

// Statistics counts number-based and name-based students
func (r *Roster) Statistics() Stats {
	numbered := 0
	for _, s := range r.students {
		if s.IsNumberBased {
			numbered++
		}
	}
	return Stats{
		Total:       len(r.students),
		NumberBased: numbered,
		NameBased:   len(r.students) - numbered,
		Empty:       len(r.students) == 0,
	}
}

// ExportText renders the roster as a plain text list
func (r *Roster) ExportText() string {
	if len(r.students) == 0 {
		return "No students registered.\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Students (%d total)\n", len(r.students))
	b.WriteString(strings.Repeat("=", 30) + "\n\n")
	for i, s := range r.students {
		kind := "[name]"
		if s.IsNumberBased {
			kind = "[number]"
		}
		fmt.Fprintf(&b, "%d. %s %s\n", i+1, s.Name, kind)
	}

	stats := r.Statistics()
	b.WriteString("\n" + strings.Repeat("-", 20) + "\n")
	fmt.Fprintf(&b, "Entered by name: %d\n", stats.NameBased)
	fmt.Fprintf(&b, "Generated by number: %d\n", stats.NumberBased)
	return b.String()
}

package lottery

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/arnavshah/seat-lottery-go/pkg/models"
)

func grid(rows, cols int) [][]models.Seat {
	layout := make([][]models.Seat, rows)
	for r := range layout {
		layout[r] = make([]models.Seat, cols)
		for c := range layout[r] {
			layout[r][c] = models.Seat{Row: r, Col: c, IsActive: true}
		}
	}
	return layout
}

func students(names ...string) []models.Student {
	out := make([]models.Student, len(names))
	for i, n := range names {
		out[i] = models.Student{ID: fmt.Sprintf("student_%d", i+1), Name: n}
	}
	return out
}

func numbered(n int) []models.Student {
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("%d번", i+1)
	}
	return students(names...)
}

func TestPerformScenarioA(t *testing.T) {
	e := NewEngineWithSource(rand.NewSource(7))
	a, err := e.Perform(students("Kim", "Lee", "Park"), grid(2, 2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(a.Assignments) != 3 {
		t.Errorf("Expected 3 assignments, got %d", len(a.Assignments))
	}
	stats := Statistics(a)
	if stats.AssignmentRate != 100 || stats.TotalSeats != 4 || stats.UnassignedSeats != 1 {
		t.Errorf("Unexpected statistics %+v", stats)
	}
	if !strings.HasPrefix(a.ID, "assignment_") {
		t.Errorf("Unexpected id %s", a.ID)
	}
	if report := Check(a); !report.Valid {
		t.Errorf("Expected valid assignment, got %v", report.Issues)
	}
}

func TestPerformScenarioB(t *testing.T) {
	e := NewEngine()
	a, err := e.Perform(numbered(5), grid(2, 2))
	if !errors.Is(err, models.ErrInsufficientSeats) {
		t.Errorf("Expected ErrInsufficientSeats, got %v", err)
	}
	if a != nil {
		t.Errorf("Expected no assignment, got %+v", a)
	}
}

func TestPairingValidity(t *testing.T) {
	e := NewEngineWithSource(rand.NewSource(99))
	r := rand.New(rand.NewSource(3))

	for trial := 0; trial < 300; trial++ {
		rows, cols := 1+r.Intn(6), 1+r.Intn(6)
		layout := grid(rows, cols)
		active := rows * cols
		toggles := r.Intn(rows * cols)
		for i := 0; i < toggles; i++ {
			seat := &layout[r.Intn(rows)][r.Intn(cols)]
			if seat.IsActive {
				seat.SetActive(false)
				active--
			}
		}
		n := 1 + r.Intn(rows*cols)
		roster := numbered(n)

		a, err := e.Perform(roster, layout)
		if active < n || active == 0 {
			if err == nil {
				t.Fatalf("Expected failure for %d students on %d seats", n, active)
			}
			continue
		}
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(a.Assignments) != n {
			t.Fatalf("Expected %d assignments, got %d", n, len(a.Assignments))
		}
		ids := make(map[string]bool)
		for _, p := range a.Assignments {
			ids[p.StudentID] = true
			seat := a.SeatLayout[p.SeatPosition.Row][p.SeatPosition.Col]
			if !seat.IsActive || seat.Student == nil || seat.Student.ID != p.StudentID {
				t.Fatalf("Seat %v does not hold %s: %+v", p.SeatPosition, p.StudentID, seat)
			}
		}
		if len(ids) != n {
			t.Fatalf("Expected every student exactly once, got %d distinct", len(ids))
		}
		if report := Check(a); !report.Valid {
			t.Fatalf("Consistency check failed: %v", report.Issues)
		}
		if Statistics(a).AssignedSeats+Statistics(a).UnassignedSeats != active {
			t.Fatalf("Seat counts do not add up")
		}
	}
}

func TestCapacityRejection(t *testing.T) {
	e := NewEngine()
	for seats := 1; seats < 6; seats++ {
		_, err := e.Assign(numbered(seats+1), grid(1, seats)[0])
		if !errors.Is(err, models.ErrInsufficientSeats) {
			t.Errorf("Expected ErrInsufficientSeats for %d seats, got %v", seats, err)
		}
	}
}

func TestValidationErrors(t *testing.T) {
	e := NewEngine()
	seats := grid(1, 3)[0]

	cases := []struct {
		name     string
		students []models.Student
		seats    []models.Seat
		want     error
	}{
		{"no students", nil, seats, models.ErrNoStudents},
		{"blank name", []models.Student{{ID: "s1", Name: "  "}}, seats, models.ErrInvalidStudents},
		{"blank id", []models.Student{{ID: "", Name: "Kim"}}, seats, models.ErrInvalidStudents},
		{"duplicate id", []models.Student{{ID: "s1", Name: "Kim"}, {ID: "s1", Name: "Lee"}}, seats, models.ErrInvalidStudents},
		{"no seats", students("Kim"), nil, models.ErrNoSeats},
		{"inactive seat", students("Kim"), []models.Seat{{Row: 0, Col: 0, IsActive: false}}, models.ErrInvalidSeats},
		{"duplicate seat", students("Kim"), []models.Seat{{IsActive: true}, {IsActive: true}}, models.ErrInvalidSeats},
	}
	for _, tc := range cases {
		if _, err := e.Assign(tc.students, tc.seats); !errors.Is(err, tc.want) {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestAssignDoesNotMutateInputs(t *testing.T) {
	e := NewEngineWithSource(rand.NewSource(5))
	roster := numbered(6)
	seats := grid(2, 3)
	origRoster := models.CloneStudents(roster)
	origSeats := models.CloneLayout(seats)

	a, err := e.Perform(roster, seats)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(roster, origRoster) || !reflect.DeepEqual(seats, origSeats) {
		t.Errorf("Expected inputs to be left untouched")
	}
	if !reflect.DeepEqual(a.Students, origRoster) {
		t.Errorf("Expected the snapshot to keep roster order")
	}
}

func TestPerformPreservesInactiveSeats(t *testing.T) {
	e := NewEngine()
	layout := grid(2, 2)
	layout[0][1].SetActive(false)

	a, err := e.Perform(students("Kim", "Lee", "Park"), layout)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.SeatLayout[0][1].IsActive || a.SeatLayout[0][1].Student != nil {
		t.Errorf("Expected inactive seat to stay inactive and empty")
	}
	if Statistics(a).UnassignedSeats != 0 {
		t.Errorf("Expected every active seat to be used")
	}
}

func TestPerformIgnoresPreviousOccupants(t *testing.T) {
	e := NewEngine()
	layout := grid(1, 3)
	ghost := models.Student{ID: "ghost", Name: "Ghost"}
	layout[0][2].Student = &ghost

	a, err := e.Perform(students("Kim"), layout)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, seat := range a.SeatLayout[0] {
		if seat.Student != nil && seat.Student.ID == "ghost" {
			t.Errorf("Expected stale occupant to be dropped")
		}
	}
}

func TestPairingUniformity(t *testing.T) {
	e := NewEngineWithSource(rand.NewSource(11))
	roster := students("Kim", "Lee")
	seats := grid(1, 3)[0]
	const trials = 30000
	counts := make(map[models.Position]int)

	for i := 0; i < trials; i++ {
		pairings, err := e.Assign(roster, seats)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, p := range pairings {
			if p.StudentID == "student_1" {
				counts[p.SeatPosition]++
			}
		}
	}

	for c := 0; c < 3; c++ {
		ratio := float64(counts[models.Position{Col: c}]) / trials
		if math.Abs(ratio-1.0/3) > 0.02 {
			t.Errorf("Seat %d received student_1 with ratio %.3f, expected ~0.333", c, ratio)
		}
	}
}

func TestInternalFailureIsOpaque(t *testing.T) {
	err := guard("materialize", func() error {
		_, err := materialize(students("Kim"), grid(1, 1), []models.Pairing{{StudentID: "student_1", SeatPosition: models.Position{Row: 5, Col: 5}}})
		return err
	})
	if !errors.Is(err, models.ErrAssignmentFailed) || errors.Unwrap(err) != nil {
		t.Errorf("Expected bare ErrAssignmentFailed, got %v", err)
	}

	err = guard("pairing", func() error {
		var layout [][]models.Seat
		_ = layout[3]
		return nil
	})
	if !errors.Is(err, models.ErrAssignmentFailed) {
		t.Errorf("Expected panic to become ErrAssignmentFailed, got %v", err)
	}
}

func TestCheckFlagsIssues(t *testing.T) {
	layout := grid(1, 2)
	layout[0][1].SetActive(false)
	a := &models.Assignment{
		Students:   students("Kim", "Lee"),
		SeatLayout: layout,
		Assignments: []models.Pairing{
			{StudentID: "student_1", SeatPosition: models.Position{Row: 0, Col: 0}},
			{StudentID: "student_2", SeatPosition: models.Position{Row: 0, Col: 0}},
			{StudentID: "student_2", SeatPosition: models.Position{Row: 0, Col: 1}},
			{StudentID: "student_1", SeatPosition: models.Position{Row: 4, Col: 0}},
		},
	}

	report := Check(a)
	if report.Valid {
		t.Fatalf("Expected issues to be found")
	}
	joined := strings.Join(report.Issues, "\n")
	for _, want := range []string{"seat (1, 1) is assigned more than once", "student Lee is assigned more than once",
		"inactive seat (1, 2)", "seat (5, 1) is outside the layout"} {
		if !strings.Contains(joined, want) {
			t.Errorf("Expected issue %q in:\n%s", want, joined)
		}
	}
}

func TestVisualize(t *testing.T) {
	kim := models.Student{ID: "s1", Name: "Kimberly"}
	ji := models.Student{ID: "s2", Name: "지민"}
	a := &models.Assignment{
		Students: []models.Student{kim, ji},
		SeatLayout: [][]models.Seat{
			{{Row: 0, Col: 0, IsActive: true, Student: &kim}, {Row: 0, Col: 1, IsActive: false}},
			{{Row: 1, Col: 0, IsActive: true}, {Row: 1, Col: 1, IsActive: true, Student: &ji}},
		},
	}

	want := "Seat assignment\n" +
		strings.Repeat("=", 40) + "\n\n" +
		"     1   2 \n" +
		" 1  Ki  ×  \n" +
		" 2  ○   지민 \n" +
		"\nLegend: ○ = empty seat, × = inactive, name = assigned student\n"
	if got := Visualize(a); got != want {
		t.Errorf("Unexpected visualization:\n%q\nwant:\n%q", got, want)
	}
}

func TestExportText(t *testing.T) {
	a := &models.Assignment{
		Timestamp:   time.Date(2026, 3, 2, 8, 30, 0, 0, time.UTC),
		Students:    students("Kim"),
		SeatLayout:  grid(1, 2),
		Assignments: []models.Pairing{{StudentID: "student_1", SeatPosition: models.Position{Row: 0, Col: 1}}},
	}

	text := ExportText(a)
	for _, want := range []string{"1. Kim → row 1, col 2", "Total students: 1", "Assignment rate: 100%"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in:\n%s", want, text)
		}
	}
	if Statistics(nil) != (models.Statistics{}) {
		t.Errorf("Expected zero statistics for nil assignment")
	}
}

func TestPerformAddressesSeatsByPlace(t *testing.T) {
	e := NewEngine()
	layout := [][]models.Seat{{{Row: 7, Col: 9, IsActive: true}}}

	a, err := e.Perform(students("Kim"), layout)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := a.Assignments[0].SeatPosition; got != (models.Position{Row: 0, Col: 0}) {
		t.Errorf("Expected seat (0,0), got %+v", got)
	}
	if seat := a.SeatLayout[0][0]; seat.Row != 0 || seat.Col != 0 || seat.Student == nil {
		t.Errorf("Unexpected snapshot seat %+v", seat)
	}
	if report := Check(a); !report.Valid {
		t.Errorf("Expected a consistent assignment, got %v", report.Issues)
	}
}

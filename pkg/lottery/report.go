package lottery

import (
	"fmt"
	"math"
	"strings"

	"github.com/arnavshah/seat-lottery-go/pkg/models"
	"github.com/rivo/uniseg"
)

// Report is the outcome of a consistency check
type Report struct {
	Valid  bool     `json:"valid"`
	Issues []string `json:"issues"`
}

// Statistics summarizes an assignment. A nil assignment yields zero values.
func Statistics(a *models.Assignment) models.Statistics {
	if a == nil {
		return models.Statistics{}
	}

	totalSeats := a.ActiveSeatCount()
	assigned := len(a.Assignments)
	rate := 0
	if len(a.Students) > 0 {
		rate = int(math.Round(float64(assigned) / float64(len(a.Students)) * 100))
	}
	return models.Statistics{
		TotalStudents:      len(a.Students),
		AssignedStudents:   assigned,
		UnassignedStudents: len(a.Students) - assigned,
		TotalSeats:         totalSeats,
		AssignedSeats:      assigned,
		UnassignedSeats:    totalSeats - assigned,
		AssignmentRate:     rate,
	}
}

// Check looks for seats assigned twice, students assigned twice and assignments that point at
// inactive or missing seats. Positions in messages are one based.
func Check(a *models.Assignment) Report {
	if a == nil {
		return Report{Valid: false, Issues: []string{"no assignment result"}}
	}

	issues := []string{}
	positions := make(map[models.Position]bool)
	students := make(map[string]bool)
	for _, p := range a.Assignments {
		pos := p.SeatPosition
		if positions[pos] {
			issues = append(issues, fmt.Sprintf("seat (%d, %d) is assigned more than once", pos.Row+1, pos.Col+1))
		}
		positions[pos] = true

		if students[p.StudentID] {
			issues = append(issues, fmt.Sprintf("student %s is assigned more than once", displayName(a, p)))
		}
		students[p.StudentID] = true
	}

	for _, p := range a.Assignments {
		pos := p.SeatPosition
		if pos.Row < 0 || pos.Row >= len(a.SeatLayout) || pos.Col < 0 || pos.Col >= len(a.SeatLayout[pos.Row]) {
			issues = append(issues, fmt.Sprintf("seat (%d, %d) is outside the layout", pos.Row+1, pos.Col+1))
			continue
		}
		if !a.SeatLayout[pos.Row][pos.Col].IsActive {
			issues = append(issues, fmt.Sprintf("inactive seat (%d, %d) has an assignment", pos.Row+1, pos.Col+1))
		}
	}

	return Report{Valid: len(issues) == 0, Issues: issues}
}

func displayName(a *models.Assignment, p models.Pairing) string {
	if p.StudentName != "" {
		return p.StudentName
	}
	if s, ok := a.Student(p.StudentID); ok {
		return s.Name
	}
	return p.StudentID
}

// truncate keeps the first n grapheme clusters of s
func truncate(s string, n int) string {
	var b strings.Builder
	g := uniseg.NewGraphemes(s)
	for i := 0; i < n && g.Next(); i++ {
		b.WriteString(g.Str())
	}
	return b.String()
}

func graphemeCount(s string) int {
	count := 0
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		count++
	}
	return count
}

func padStart(s string, width int) string {
	if n := graphemeCount(s); n < width {
		return strings.Repeat(" ", width-n) + s
	}
	return s
}

// Visualize draws the frozen layout as a grid of 3 character cells: × for inactive seats,
// ○ for empty ones and the first two characters of the occupant's name otherwise.
func Visualize(a *models.Assignment) string {
	if a == nil {
		return "No assignment result.\n"
	}

	var b strings.Builder
	b.WriteString("Seat assignment\n")
	b.WriteString(strings.Repeat("=", 40) + "\n\n")

	cols := 0
	if len(a.SeatLayout) > 0 {
		cols = len(a.SeatLayout[0])
	}
	b.WriteString("   ")
	for c := 0; c < cols; c++ {
		b.WriteString(padStart(fmt.Sprint(c+1), 3) + " ")
	}
	b.WriteString("\n")

	for r, row := range a.SeatLayout {
		b.WriteString(padStart(fmt.Sprint(r+1), 2) + " ")
		for _, seat := range row {
			switch {
			case !seat.IsActive:
				b.WriteString(" × ")
			case seat.Student != nil:
				b.WriteString(padStart(truncate(seat.Student.Name, 2), 3))
			default:
				b.WriteString(" ○ ")
			}
			b.WriteString(" ")
		}
		b.WriteString("\n")
	}

	b.WriteString("\nLegend: ○ = empty seat, × = inactive, name = assigned student\n")
	return b.String()
}

// ExportText lists every pairing as "name → row R, col C" followed by the statistics
func ExportText(a *models.Assignment) string {
	if a == nil {
		return "No assignment result.\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Seat assignment result (%s)\n", a.Timestamp.Local().Format("2006-01-02 15:04:05"))
	b.WriteString(strings.Repeat("=", 50) + "\n\n")
	for i, p := range a.Assignments {
		name := "unknown"
		if s, ok := a.Student(p.StudentID); ok {
			name = s.Name
		}
		fmt.Fprintf(&b, "%d. %s → row %d, col %d\n", i+1, name, p.SeatPosition.Row+1, p.SeatPosition.Col+1)
	}

	stats := Statistics(a)
	b.WriteString("\n" + strings.Repeat("-", 30) + "\n")
	fmt.Fprintf(&b, "Total students: %d\n", stats.TotalStudents)
	fmt.Fprintf(&b, "Assigned seats: %d\n", stats.AssignedSeats)
	fmt.Fprintf(&b, "Assignment rate: %d%%\n", stats.AssignmentRate)
	return b.String()
}

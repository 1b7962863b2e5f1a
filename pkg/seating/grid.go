package seating

import (
	"fmt"
	"math"
	"strings"

	"github.com/arnavshah/seat-lottery-go/pkg/models"
)

// MaxDimension bounds both rows and columns of a layout
const MaxDimension = 20

// LayoutStore persists the seat layout after every mutation
type LayoutStore interface {
	SaveLayout(layout [][]models.Seat) error
	ClearLayout() error
}

// Grid is the live, fixed size matrix of seats. It is not safe for concurrent use.
type Grid struct {
	store LayoutStore
	seats [][]models.Seat
	rows  int
	cols  int
}

// Dimensions describes the size of the grid
type Dimensions struct {
	Rows  int `json:"rows"`
	Cols  int `json:"cols"`
	Total int `json:"total"`
}

// Stats summarizes seat activation and occupancy
type Stats struct {
	TotalSeats     int `json:"totalSeats"`
	ActiveSeats    int `json:"activeSeats"`
	InactiveSeats  int `json:"inactiveSeats"`
	OccupiedSeats  int `json:"occupiedSeats"`
	EmptySeats     int `json:"emptySeats"`
	ActivationRate int `json:"activationRate"`
	OccupancyRate  int `json:"occupancyRate"`
}

// New creates a grid from a previously stored layout. A malformed layout is ignored.
func New(store LayoutStore, initial [][]models.Seat) *Grid {
	g := &Grid{store: store}
	if rows, cols, ok := shapeOf(initial); ok {
		g.seats = normalize(initial)
		g.rows, g.cols = rows, cols
	}
	return g
}

// normalize copies layout, sets every seat's coordinates from its place in the grid and
// empties inactive seats
func normalize(layout [][]models.Seat) [][]models.Seat {
	seats := models.CloneLayout(layout)
	for r := range seats {
		for c := range seats[r] {
			seats[r][c].Row, seats[r][c].Col = r, c
			if !seats[r][c].IsActive {
				seats[r][c].Student = nil
			}
		}
	}
	return seats
}

// shapeOf checks that a layout is a non-empty rectangle within bounds
func shapeOf(layout [][]models.Seat) (int, int, bool) {
	if len(layout) == 0 || len(layout) > MaxDimension || len(layout[0]) == 0 || len(layout[0]) > MaxDimension {
		return 0, 0, false
	}
	cols := len(layout[0])
	for _, row := range layout {
		if len(row) != cols {
			return 0, 0, false
		}
	}
	return len(layout), cols, true
}

func validDimensions(rows, cols int) bool {
	return rows >= 1 && cols >= 1 && rows <= MaxDimension && cols <= MaxDimension
}

func (g *Grid) validPosition(row, col int) bool {
	return row >= 0 && col >= 0 && row < g.rows && col < g.cols
}

type state struct {
	seats      [][]models.Seat
	rows, cols int
}

func (g *Grid) snapshot() state {
	return state{seats: models.CloneLayout(g.seats), rows: g.rows, cols: g.cols}
}

func (g *Grid) restore(s state) {
	g.seats, g.rows, g.cols = s.seats, s.rows, s.cols
}

// commit persists the layout, restoring prev when the store fails
func (g *Grid) commit(prev state) error {
	if err := g.store.SaveLayout(models.CloneLayout(g.seats)); err != nil {
		g.restore(prev)
		return models.NewPersistenceError(err)
	}
	return nil
}

// HasLayout reports whether a layout has been created
func (g *Grid) HasLayout() bool {
	return len(g.seats) > 0 && g.rows > 0 && g.cols > 0
}

// CreateLayout replaces the grid with rows x cols active, empty seats
func (g *Grid) CreateLayout(rows, cols int) error {
	if !validDimensions(rows, cols) {
		return models.ErrInvalidDimensions
	}

	prev := g.snapshot()
	seats := make([][]models.Seat, rows)
	for r := 0; r < rows; r++ {
		seats[r] = make([]models.Seat, cols)
		for c := 0; c < cols; c++ {
			seats[r][c] = models.Seat{Row: r, Col: c, IsActive: true}
		}
	}
	g.seats, g.rows, g.cols = seats, rows, cols
	return g.commit(prev)
}

// Replace installs a complete layout, e.g. the frozen layout of a historical assignment
func (g *Grid) Replace(layout [][]models.Seat) error {
	rows, cols, ok := shapeOf(layout)
	if !ok {
		return models.ErrInvalidDimensions
	}

	prev := g.snapshot()
	g.seats, g.rows, g.cols = normalize(layout), rows, cols
	return g.commit(prev)
}

// Toggle flips the active flag of a seat
func (g *Grid) Toggle(row, col int) (models.Seat, error) {
	if !g.HasLayout() {
		return models.Seat{}, models.ErrNoLayout
	}
	if !g.validPosition(row, col) {
		return models.Seat{}, models.ErrInvalidPosition
	}
	return g.SetActive(row, col, !g.seats[row][col].IsActive)
}

// SetActive sets the active flag of a seat. Deactivation clears the occupant.
func (g *Grid) SetActive(row, col int, active bool) (models.Seat, error) {
	if !g.HasLayout() {
		return models.Seat{}, models.ErrNoLayout
	}
	if !g.validPosition(row, col) {
		return models.Seat{}, models.ErrInvalidPosition
	}

	prev := g.snapshot()
	g.seats[row][col].SetActive(active)
	if err := g.commit(prev); err != nil {
		return models.Seat{}, err
	}
	return g.seats[row][col].Clone(), nil
}

// ActivateAll turns every seat on
func (g *Grid) ActivateAll() error {
	return g.setAll(true)
}

// DeactivateAll turns every seat off and clears all occupants
func (g *Grid) DeactivateAll() error {
	return g.setAll(false)
}

func (g *Grid) setAll(active bool) error {
	if !g.HasLayout() {
		return models.ErrNoLayout
	}

	prev := g.snapshot()
	for r := range g.seats {
		for c := range g.seats[r] {
			g.seats[r][c].SetActive(active)
		}
	}
	return g.commit(prev)
}

// Clear drops the layout and its stored record
func (g *Grid) Clear() error {
	if err := g.store.ClearLayout(); err != nil {
		return models.NewPersistenceError(err)
	}
	g.seats, g.rows, g.cols = nil, 0, 0
	return nil
}

// SyncOccupants empties every seat whose occupant is not in students and refreshes the names
// of the others. The layout is saved only when a seat changed, which is reported.
func (g *Grid) SyncOccupants(students []models.Student) (bool, error) {
	if !g.HasLayout() {
		return false, nil
	}
	byID := make(map[string]models.Student, len(students))
	for _, s := range students {
		byID[s.ID] = s
	}

	prev := g.snapshot()
	changed := false
	for r := range g.seats {
		for c := range g.seats[r] {
			seat := &g.seats[r][c]
			if seat.Student == nil {
				continue
			}
			st, ok := byID[seat.Student.ID]
			switch {
			case !ok:
				seat.RemoveStudent()
				changed = true
			case st != *seat.Student:
				seat.Student = &st
				changed = true
			}
		}
	}
	if !changed {
		return false, nil
	}
	if err := g.commit(prev); err != nil {
		return false, err
	}
	return true, nil
}

// AvailableSeats returns copies of the active seats in row-major order
func (g *Grid) AvailableSeats() []models.Seat {
	out := []models.Seat{}
	for _, row := range g.seats {
		for _, seat := range row {
			if seat.IsActive {
				out = append(out, seat.Clone())
			}
		}
	}
	return out
}

// AvailableCount counts active seats
func (g *Grid) AvailableCount() int {
	count := 0
	for _, row := range g.seats {
		for _, seat := range row {
			if seat.IsActive {
				count++
			}
		}
	}
	return count
}

// ValidateAgainst checks that the grid can seat studentCount students and returns the
// number of available seats.
func (g *Grid) ValidateAgainst(studentCount int) (int, error) {
	if !g.HasLayout() {
		return 0, models.ErrNoLayout
	}
	available := g.AvailableCount()
	if available < studentCount {
		return available, models.ErrInsufficientSeats
	}
	return available, nil
}

// Layout returns a deep copy of the seat matrix
func (g *Grid) Layout() [][]models.Seat {
	if !g.HasLayout() {
		return [][]models.Seat{}
	}
	return models.CloneLayout(g.seats)
}

// Seat returns a copy of the seat at (row, col)
func (g *Grid) Seat(row, col int) (models.Seat, bool) {
	if !g.HasLayout() || !g.validPosition(row, col) {
		return models.Seat{}, false
	}
	return g.seats[row][col].Clone(), true
}

// Dimensions returns the grid size
func (g *Grid) Dimensions() Dimensions {
	return Dimensions{Rows: g.rows, Cols: g.cols, Total: g.rows * g.cols}
}

func percent(part, whole int) int {
	if whole == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(whole) * 100))
}

// Statistics reports activation and occupancy of the grid
func (g *Grid) Statistics() Stats {
	if !g.HasLayout() {
		return Stats{}
	}

	total := g.rows * g.cols
	active := g.AvailableCount()
	occupied := 0
	for _, row := range g.seats {
		for _, seat := range row {
			if seat.IsActive && !seat.IsEmpty() {
				occupied++
			}
		}
	}
	return Stats{
		TotalSeats:     total,
		ActiveSeats:    active,
		InactiveSeats:  total - active,
		OccupiedSeats:  occupied,
		EmptySeats:     active - occupied,
		ActivationRate: percent(active, total),
		OccupancyRate:  percent(occupied, active),
	}
}

// ExportText renders the layout with one symbol per seat
func (g *Grid) ExportText() string {
	if !g.HasLayout() {
		return "Seat layout has not been created.\n"
	}

	stats := g.Statistics()
	var b strings.Builder
	fmt.Fprintf(&b, "Seat layout (%d rows x %d cols)\n", g.rows, g.cols)
	b.WriteString(strings.Repeat("=", 40) + "\n\n")
	for r, row := range g.seats {
		fmt.Fprintf(&b, "Row %d: ", r+1)
		for _, seat := range row {
			switch {
			case !seat.IsActive:
				b.WriteString("× ")
			case seat.IsEmpty():
				b.WriteString("○ ")
			default:
				b.WriteString("● ")
			}
		}
		b.WriteString("\n")
	}

	b.WriteString("\nLegend: ○ = active empty seat, ● = occupied seat, × = inactive seat\n\n")
	b.WriteString(strings.Repeat("-", 30) + "\n")
	fmt.Fprintf(&b, "Total seats: %d\n", stats.TotalSeats)
	fmt.Fprintf(&b, "Active seats: %d\n", stats.ActiveSeats)
	fmt.Fprintf(&b, "Inactive seats: %d\n", stats.InactiveSeats)
	fmt.Fprintf(&b, "Activation rate: %d%%\n", stats.ActivationRate)
	return b.String()
}

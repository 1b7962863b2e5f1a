package models

import "time"

// Student represents a participant of the seat lottery
type Student struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	IsNumberBased bool   `json:"isNumberBased"`
}

// Seat represents a single cell of the classroom grid
type Seat struct {
	Row      int      `json:"row"`
	Col      int      `json:"col"`
	IsActive bool     `json:"isActive"`
	Student  *Student `json:"student"`
}

// SetActive switches the seat on or off. Turning a seat off always clears its occupant.
func (s *Seat) SetActive(active bool) {
	s.IsActive = active
	if !active {
		s.Student = nil
	}
}

// AssignStudent seats a student. Inactive seats cannot receive an occupant.
func (s *Seat) AssignStudent(student Student) error {
	if !s.IsActive {
		return ErrInactiveSeat
	}
	s.Student = &student
	return nil
}

// RemoveStudent empties the seat
func (s *Seat) RemoveStudent() {
	s.Student = nil
}

// IsEmpty reports whether nobody sits on the seat
func (s Seat) IsEmpty() bool {
	return s.Student == nil
}

// Position returns the grid coordinates of the seat
func (s Seat) Position() Position {
	return Position{Row: s.Row, Col: s.Col}
}

// Clone returns a copy that shares no memory with s
func (s Seat) Clone() Seat {
	if s.Student != nil {
		st := *s.Student
		s.Student = &st
	}
	return s
}

// CloneLayout deep-copies a two dimensional seat layout
func CloneLayout(layout [][]Seat) [][]Seat {
	if layout == nil {
		return nil
	}
	out := make([][]Seat, len(layout))
	for r, row := range layout {
		out[r] = make([]Seat, len(row))
		for c, seat := range row {
			out[r][c] = seat.Clone()
		}
	}
	return out
}

// CloneStudents copies a student slice
func CloneStudents(students []Student) []Student {
	if students == nil {
		return nil
	}
	return append([]Student{}, students...)
}

// Position identifies a seat in the grid, zero based
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Pairing represents a student-seat match produced by a lottery run
type Pairing struct {
	StudentID    string   `json:"studentId"`
	StudentName  string   `json:"studentName,omitempty"`
	SeatPosition Position `json:"seatPosition"`
}

// Assignment is the frozen result of one lottery run. It is never modified after creation;
// readers that hand it out use Clone.
type Assignment struct {
	ID          string    `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	Students    []Student `json:"students"`
	SeatLayout  [][]Seat  `json:"seatLayout"`
	Assignments []Pairing `json:"assignments"`
}

// Clone returns a deep copy of the assignment
func (a *Assignment) Clone() *Assignment {
	if a == nil {
		return nil
	}
	return &Assignment{
		ID:          a.ID,
		Timestamp:   a.Timestamp,
		Students:    CloneStudents(a.Students),
		SeatLayout:  CloneLayout(a.SeatLayout),
		Assignments: append([]Pairing{}, a.Assignments...),
	}
}

// SeatOf returns the seat position assigned to a student
func (a *Assignment) SeatOf(studentID string) (Position, bool) {
	for _, p := range a.Assignments {
		if p.StudentID == studentID {
			return p.SeatPosition, true
		}
	}
	return Position{}, false
}

// StudentAt returns the id of the student seated at (row, col)
func (a *Assignment) StudentAt(row, col int) (string, bool) {
	for _, p := range a.Assignments {
		if p.SeatPosition.Row == row && p.SeatPosition.Col == col {
			return p.StudentID, true
		}
	}
	return "", false
}

// Student looks up a student of the snapshot by id
func (a *Assignment) Student(id string) (Student, bool) {
	for _, s := range a.Students {
		if s.ID == id {
			return s, true
		}
	}
	return Student{}, false
}

// ActiveSeatCount counts the active seats of the frozen layout
func (a *Assignment) ActiveSeatCount() int {
	count := 0
	for _, row := range a.SeatLayout {
		for _, seat := range row {
			if seat.IsActive {
				count++
			}
		}
	}
	return count
}

// Statistics summarizes an assignment
type Statistics struct {
	TotalStudents      int `json:"totalStudents"`
	AssignedStudents   int `json:"assignedStudents"`
	UnassignedStudents int `json:"unassignedStudents"`
	TotalSeats         int `json:"totalSeats"`
	AssignedSeats      int `json:"assignedSeats"`
	UnassignedSeats    int `json:"unassignedSeats"`
	AssignmentRate     int `json:"assignmentRate"`
}

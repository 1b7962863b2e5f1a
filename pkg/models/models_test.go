package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestSeatDeactivateClearsOccupant(t *testing.T) {
	seat := Seat{Row: 0, Col: 1, IsActive: true}
	if err := seat.AssignStudent(Student{ID: "student_1", Name: "Kim"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	seat.SetActive(false)
	if seat.Student != nil {
		t.Errorf("Expected occupant to be cleared, got %+v", seat.Student)
	}

	if err := seat.AssignStudent(Student{ID: "student_2", Name: "Lee"}); !errors.Is(err, ErrInactiveSeat) {
		t.Errorf("Expected ErrInactiveSeat, got %v", err)
	}
}

func TestSeatCloneDoesNotShareStudent(t *testing.T) {
	seat := Seat{IsActive: true, Student: &Student{ID: "student_1", Name: "Kim"}}
	clone := seat.Clone()
	clone.Student.Name = "Changed"

	if seat.Student.Name != "Kim" {
		t.Errorf("Expected original occupant untouched, got %s", seat.Student.Name)
	}
}

func TestAssignmentJSONShape(t *testing.T) {
	ts := time.Date(2026, 3, 2, 8, 30, 0, 123000000, time.UTC)
	kim := Student{ID: "student_1", Name: "Kim"}
	a := &Assignment{
		ID:        "assignment_x",
		Timestamp: ts,
		Students:  []Student{kim, {ID: "student_2", Name: "1번", IsNumberBased: true}},
		SeatLayout: [][]Seat{
			{{Row: 0, Col: 0, IsActive: true, Student: &kim}, {Row: 0, Col: 1, IsActive: false}},
		},
		Assignments: []Pairing{{StudentID: "student_1", SeatPosition: Position{Row: 0, Col: 0}}},
	}

	raw, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	for _, key := range []string{`"isNumberBased":true`, `"seatLayout"`, `"studentId":"student_1"`,
		`"seatPosition":{"row":0,"col":0}`, `"student":null`, `"timestamp":"2026-03-02T08:30:00.123Z"`} {
		if !strings.Contains(string(raw), key) {
			t.Errorf("Expected %s in %s", key, raw)
		}
	}

	var back Assignment
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Timestamp.Equal(ts) {
		t.Errorf("Expected timestamp %v, got %v", ts, back.Timestamp)
	}
	back.Timestamp = a.Timestamp
	if !reflect.DeepEqual(a, &back) {
		t.Errorf("Expected round trip to be lossless:\n%+v\n%+v", a, &back)
	}
}

func TestAssignmentLookups(t *testing.T) {
	a := &Assignment{
		Students:    []Student{{ID: "s1", Name: "Kim"}},
		Assignments: []Pairing{{StudentID: "s1", SeatPosition: Position{Row: 1, Col: 2}}},
	}

	if pos, ok := a.SeatOf("s1"); !ok || pos != (Position{Row: 1, Col: 2}) {
		t.Errorf("Expected s1 at (1,2), got %v %v", pos, ok)
	}
	if id, ok := a.StudentAt(1, 2); !ok || id != "s1" {
		t.Errorf("Expected s1 at (1,2), got %q", id)
	}
	if _, ok := a.StudentAt(0, 0); ok {
		t.Errorf("Expected empty seat at (0,0)")
	}
}

func TestErrorCategories(t *testing.T) {
	wrapped := fmt.Errorf("roster: %w", ErrDuplicateName)
	if !errors.Is(wrapped, ErrDuplicateName) {
		t.Errorf("Expected errors.Is to match by code")
	}
	if CategoryOf(wrapped) != CategoryValidation {
		t.Errorf("Expected validation category, got %s", CategoryOf(wrapped))
	}

	cause := errors.New("disk full")
	perr := NewPersistenceError(cause)
	if !errors.Is(perr, ErrPersistenceFailed) || !errors.Is(perr, cause) {
		t.Errorf("Expected persistence error to match both code and cause")
	}
	if CategoryOf(errors.New("boom")) != CategoryInternal {
		t.Errorf("Expected unknown errors to be internal")
	}
}

package main

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/arnavshah/seat-lottery-go/pkg/classroom"
	"github.com/arnavshah/seat-lottery-go/pkg/lottery"
	"github.com/arnavshah/seat-lottery-go/pkg/models"
	"github.com/arnavshah/seat-lottery-go/pkg/storage"
)

func TestRunCommands(t *testing.T) {
	svc, err := classroom.New(storage.NewRepository(storage.NewMemoryStore()), lottery.NewEngineWithSource(rand.NewSource(1)))
	if err != nil {
		t.Fatal(err)
	}

	steps := [][]string{
		{"generate", "3"},
		{"add", "Kim", "Mina"},
		{"sort", "number"},
		{"layout", "2", "3"},
		{"toggle", "1", "1"},
		{"draw"},
		{"history"},
	}
	for _, step := range steps {
		if err := run(svc, step[0], step[1:]); err != nil {
			t.Fatalf("%v: %v", step, err)
		}
	}

	if students, _ := svc.Students(); len(students) != 4 || students[3].Name != "Kim Mina" {
		t.Errorf("students = %+v", students)
	}
	layout, _ := svc.Layout()
	if layout[0][0].IsActive {
		t.Error("toggle is 1-based: seat 1,1 should be off")
	}
	current := svc.Current()
	if current == nil || len(current.Assignments) != 4 {
		t.Fatalf("current = %+v", current)
	}

	if err := run(svc, "restore", []string{current.ID}); !errors.Is(err, models.ErrConfirmationRequired) {
		t.Errorf("restore without --confirm: %v", err)
	}
	if err := run(svc, "restore", []string{current.ID, "--confirm"}); err != nil {
		t.Errorf("restore: %v", err)
	}
	if err := run(svc, "reset", nil); err == nil {
		t.Error("reset without --confirm succeeded")
	}
	if err := run(svc, "reset", []string{"--confirm"}); err != nil {
		t.Errorf("reset: %v", err)
	}
}

func TestRunRejectsBadArguments(t *testing.T) {
	svc, _ := classroom.New(storage.NewRepository(storage.NewMemoryStore()), lottery.NewEngine())
	for _, args := range [][]string{{"generate"}, {"generate", "x"}, {"sort", "age"}, {"dance"}, {"layout", "2"}} {
		if err := run(svc, args[0], args[1:]); err == nil {
			t.Errorf("%v: expected an error", args)
		}
	}
	if err := run(svc, "generate", []string{"0"}); !errors.Is(err, models.ErrInvalidCount) {
		t.Errorf("generate 0: %v", err)
	}
}

package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/arnavshah/seat-lottery-go/pkg/classroom"
	"github.com/arnavshah/seat-lottery-go/pkg/config"
	"github.com/arnavshah/seat-lottery-go/pkg/database"
	"github.com/arnavshah/seat-lottery-go/pkg/lottery"
	"github.com/arnavshah/seat-lottery-go/pkg/storage"
	"github.com/joho/godotenv"
)

const usage = `Usage: lottery <command> [args]

  students                 list the roster
  add <name>               add a student
  generate <n>             add n numbered students
  remove <id>              remove a student
  rename <id> <name>       rename a student
  clear-students           remove every student
  sort name|number         reorder the roster
  layout <rows> <cols>     create a new seat layout
  toggle <row> <col>       switch a seat on or off (1-based)
  show                     print the seat layout
  draw                     run the lottery
  history                  list past lottery results
  restore <id> --confirm   restore a past result with its roster and layout
  reset --confirm          delete all stored data`

func main() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../.env")

	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}

	cfg := config.Load()
	db, err := database.Open(cfg)
	if err != nil {
		fmt.Printf("Error: could not open database: %v\n", err)
		os.Exit(1)
	}
	store, err := storage.Open(cfg, db)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	svc, err := classroom.New(storage.NewRepository(store), lottery.NewEngine())
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	if err := run(svc, os.Args[1], os.Args[2:]); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func run(svc *classroom.Service, cmd string, args []string) error {
	switch cmd {
	case "students":
		fmt.Print(svc.ExportStudents())
	case "add":
		if len(args) < 1 {
			return errUsage
		}
		st, err := svc.AddStudent(strings.Join(args, " "))
		if err != nil {
			return err
		}
		fmt.Printf("Added %s (%s)\n", st.Name, st.ID)
	case "generate":
		n, err := intArg(args, 0)
		if err != nil {
			return err
		}
		created, err := svc.GenerateStudents(n)
		if err != nil {
			return err
		}
		fmt.Printf("Added %d students\n", len(created))
	case "remove":
		if len(args) != 1 {
			return errUsage
		}
		return svc.RemoveStudent(args[0])
	case "rename":
		if len(args) < 2 {
			return errUsage
		}
		st, err := svc.RenameStudent(args[0], strings.Join(args[1:], " "))
		if err != nil {
			return err
		}
		fmt.Printf("Renamed %s to %s\n", st.ID, st.Name)
	case "clear-students":
		return svc.ClearStudents()
	case "sort":
		if len(args) != 1 {
			return errUsage
		}
		switch args[0] {
		case "name":
			return svc.SortStudentsByName(true)
		case "number":
			return svc.SortStudentsNumberFirst()
		default:
			return errUsage
		}
	case "layout":
		rows, err := intArg(args, 0)
		if err != nil {
			return err
		}
		cols, err := intArg(args, 1)
		if err != nil {
			return err
		}
		if err := svc.CreateLayout(rows, cols); err != nil {
			return err
		}
		fmt.Print(svc.ExportLayout())
	case "toggle":
		row, err := intArg(args, 0)
		if err != nil {
			return err
		}
		col, err := intArg(args, 1)
		if err != nil {
			return err
		}
		seat, err := svc.ToggleSeat(row-1, col-1)
		if err != nil {
			return err
		}
		fmt.Printf("Seat %d,%d active: %t\n", row, col, seat.IsActive)
	case "show":
		fmt.Print(svc.ExportLayout())
	case "draw":
		if _, err := svc.RunLottery(); err != nil {
			return err
		}
		fmt.Print(svc.Visualize())
		fmt.Println()
		fmt.Print(svc.ExportAssignment())
	case "history":
		history, err := svc.History()
		if err != nil {
			return err
		}
		if len(history) == 0 {
			fmt.Println("No lottery history.")
		}
		for i := len(history) - 1; i >= 0; i-- {
			a := history[i]
			fmt.Printf("%s  %s  %d students\n", a.ID, a.Timestamp.Local().Format("2006-01-02 15:04:05"), len(a.Assignments))
		}
	case "restore":
		if len(args) < 1 {
			return errUsage
		}
		confirm := len(args) > 1 && args[1] == "--confirm"
		if _, err := svc.LoadFromHistory(args[0], confirm); err != nil {
			return err
		}
		fmt.Print(svc.Visualize())
	case "reset":
		if len(args) != 1 || args[0] != "--confirm" {
			return fmt.Errorf("reset deletes every student, layout and result; run again with --confirm")
		}
		return svc.Reset()
	default:
		return errUsage
	}
	return nil
}

var errUsage = fmt.Errorf("invalid arguments\n\n%s", usage)

func intArg(args []string, i int) (int, error) {
	if len(args) <= i {
		return 0, errUsage
	}
	n, err := strconv.Atoi(args[i])
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", args[i])
	}
	return n, nil
}

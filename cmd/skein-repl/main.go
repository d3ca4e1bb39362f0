package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/phroun/skein"
)

// REPL holds the state of the interactive session
type REPL struct {
	seq     *skein.Sequence
	matrix  *skein.SparseMatrix
	stack   *skein.UndoRedoStackManager
	handler *skein.UndoHandler
	reader  *bufio.Reader
}

func main() {
	fmt.Println("Skein REPL - Sparse Matrix Undo/Redo Demo")
	fmt.Println("Type 'help' for available commands, 'quit' to exit")
	fmt.Println()

	seq := skein.NewSequence()
	stack := skein.NewUndoRedoStackManager()
	handler := skein.NewUndoHandler(stack, skein.HandlerOptions{})
	handler.AttachSequence(seq)

	repl := &REPL{
		seq:     seq,
		matrix:  skein.NewSparseMatrix(seq),
		stack:   stack,
		handler: handler,
		reader:  bufio.NewReader(os.Stdin),
	}

	for {
		fmt.Print("skein> ")
		input, err := repl.reader.ReadString('\n')
		if err != nil {
			fmt.Println("\nGoodbye!")
			break
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if !repl.handleCommand(input) {
			break
		}
	}

	handler.Close()
}

func (r *REPL) handleCommand(input string) bool {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return true
	}

	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "help":
		r.printHelp()

	case "quit", "exit":
		fmt.Println("Goodbye!")
		return false

	case "write":
		r.cmdWrite(args)

	case "read":
		r.cmdRead(args)

	case "tag":
		r.cmdTag(args)

	case "insrows":
		r.cmdRows(args, r.matrix.InsertRows)

	case "delrows":
		r.cmdRows(args, r.matrix.RemoveRows)

	case "inscols":
		r.cmdRows(args, r.matrix.InsertCols)

	case "delcols":
		r.cmdRows(args, r.matrix.RemoveCols)

	case "end":
		r.stack.CloseCurrentOperation()
		fmt.Println("Operation closed.")

	case "undo":
		r.report(r.stack.Undo())

	case "redo":
		r.report(r.stack.Redo())

	case "status":
		r.cmdStatus()

	case "layout":
		r.cmdLayout()

	default:
		fmt.Printf("Unknown command: %s. Type 'help' for available commands.\n", cmd)
	}

	return true
}

func (r *REPL) printHelp() {
	help := `
Available Commands:
-------------------

CELL OPERATIONS:
  write <row> <col> <v1> [v2 ...]  Write values starting at a cell
  read <row> <col>                 Read one cell (empty cells print <empty>)
  tag <row> <col> [value]          Write a tag (omit value to clear)

STRUCTURAL OPERATIONS:
  insrows <row> <n>       Insert n rows at the row boundary
  delrows <row> <n>       Remove n rows
  inscols <col> <n>       Insert n columns into every row
  delcols <col> <n>       Remove n columns from every row

UNDO/REDO:
  end                     Close the current undo operation
  undo                    Undo the most recent operation
  redo                    Redo the most recently undone operation

INSPECTION:
  status                  Show stack depths and row count
  layout                  Show the live segment layout

  help                    Show this help
  quit                    Exit the REPL
`
	fmt.Println(help)
}

func (r *REPL) report(err error) {
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Println("OK")
}

func (r *REPL) cmdWrite(args []string) {
	if len(args) < 3 {
		fmt.Println("Usage: write <row> <col> <v1> [v2 ...]")
		return
	}
	row, err1 := strconv.Atoi(args[0])
	col, err2 := strconv.Atoi(args[1])
	if err1 != nil || err2 != nil {
		fmt.Println("Row and column must be integers")
		return
	}
	values := make([]skein.Value, 0, len(args)-2)
	for _, v := range args[2:] {
		values = append(values, v)
	}
	r.report(r.matrix.Write(row, col, values, nil))
}

func (r *REPL) cmdRead(args []string) {
	if len(args) != 2 {
		fmt.Println("Usage: read <row> <col>")
		return
	}
	row, err1 := strconv.Atoi(args[0])
	col, err2 := strconv.Atoi(args[1])
	if err1 != nil || err2 != nil {
		fmt.Println("Row and column must be integers")
		return
	}
	v, err := r.matrix.Read(row, col)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	if v == nil {
		fmt.Println("<empty>")
		return
	}
	fmt.Printf("%v\n", v)
}

func (r *REPL) cmdTag(args []string) {
	if len(args) < 2 {
		fmt.Println("Usage: tag <row> <col> [value]")
		return
	}
	row, err1 := strconv.Atoi(args[0])
	col, err2 := strconv.Atoi(args[1])
	if err1 != nil || err2 != nil {
		fmt.Println("Row and column must be integers")
		return
	}
	var tag skein.Value
	if len(args) > 2 {
		tag = args[2]
	}
	r.report(r.matrix.WriteTag(row, col, tag))
}

func (r *REPL) cmdRows(args []string, op func(int, int) error) {
	if len(args) != 2 {
		fmt.Println("Usage: <command> <start> <n>")
		return
	}
	start, err1 := strconv.Atoi(args[0])
	n, err2 := strconv.Atoi(args[1])
	if err1 != nil || err2 != nil {
		fmt.Println("Arguments must be integers")
		return
	}
	r.report(op(start, n))
}

func (r *REPL) cmdStatus() {
	fmt.Printf("Rows:  %d\n", r.matrix.NumRows())
	fmt.Printf("Undo:  %d operation(s)\n", r.stack.UndoStackDepth())
	fmt.Printf("Redo:  %d operation(s)\n", r.stack.RedoStackDepth())
}

func (r *REPL) cmdLayout() {
	segs := r.seq.Segments()
	if len(segs) == 0 {
		fmt.Println("(empty sequence)")
		return
	}
	pos := 0
	for i, seg := range segs {
		switch seg := seg.(type) {
		case *skein.RunSegment:
			fmt.Printf("%3d: [%d..%d) run %v\n", i, pos, pos+seg.Length(), seg.Items())
		case *skein.PaddingSegment:
			fmt.Printf("%3d: [%d..%d) padding(%d)\n", i, pos, pos+seg.Length(), seg.Length())
		}
		pos += seg.Length()
	}
}

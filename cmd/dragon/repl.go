package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func newReplCmd() *cobra.Command {
	var initf string
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Enter commands interactively",
		Long: `repl reads commands line by line and executes them as if given on the
command line, e.g.

    dragon> regex "(a|b)*abb" --accept abb
    dragon> backpatch a < b || c < d

Quit with <ctrl>D or 'quit'.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rl, err := readline.New("dragon> ")
			if err != nil {
				return err
			}
			defer rl.Close()
			intp := &Intp{repl: rl}
			pterm.Info.Println("Welcome to dragon")
			pterm.Info.Println("Quit with <ctrl>D")
			intp.loadInitFile(initf)
			intp.REPL()
			return nil
		},
	}
	cmd.Flags().StringVar(&initf, "init", "", "file with commands to execute first")
	return cmd
}

// Intp is our interpreter object.
type Intp struct {
	repl *readline.Instance
}

func (intp *Intp) loadInitFile(filename string) {
	if filename == "" {
		return
	}
	f, err := os.Open(filename)
	if err != nil {
		tracer().Errorf("unable to open init file: %s", filename)
		return
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if _, err := intp.Eval(line); err != nil {
			tracer().Errorf("error in line %d: %v", lineno, err)
		}
	}
	if err := scanner.Err(); err != nil {
		tracer().Errorf("error while reading init file: %v", err)
	}
}

// REPL starts interactive mode.
func (intp *Intp) REPL() {
	for {
		line, err := intp.repl.Readline()
		if err != nil { // io.EOF or interrupt
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		quit, err := intp.Eval(line)
		if err != nil {
			pterm.Error.Println(err.Error())
			continue
		}
		if quit {
			break
		}
	}
	pterm.Println("Good bye!")
}

// Eval executes a command line. It returns true if the user asked to quit.
func (intp *Intp) Eval(line string) (bool, error) {
	args, err := splitArgs(line)
	if err != nil {
		return false, err
	}
	switch args[0] {
	case "quit", "exit":
		return true, nil
	case "repl":
		return false, fmt.Errorf("already in interactive mode")
	}
	root := newRootCmd()
	root.SetArgs(args)
	return false, root.Execute()
}

// splitArgs splits a line into arguments at white space. Single or double
// quotes group words into one argument.
func splitArgs(line string) ([]string, error) {
	var args []string
	var arg strings.Builder
	var quote rune
	inArg := false
	for _, r := range line {
		switch {
		case quote != 0 && r == quote:
			quote = 0
		case quote != 0:
			arg.WriteRune(r)
		case r == '"' || r == '\'':
			quote, inArg = r, true
		case r == ' ' || r == '\t':
			if inArg {
				args = append(args, arg.String())
				arg.Reset()
				inArg = false
			}
		default:
			arg.WriteRune(r)
			inArg = true
		}
	}
	if quote != 0 {
		return nil, fmt.Errorf("unterminated quote in %q", line)
	}
	if inArg {
		args = append(args, arg.String())
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("empty command")
	}
	return args, nil
}

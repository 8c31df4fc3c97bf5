package main

import (
	"fmt"
	"io/ioutil"
	"os"
	"strconv"
	"strings"
	"unicode"

	"github.com/npillmayer/dragon/grammar"
	"github.com/npillmayer/dragon/lr"
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// Tracing keys of the packages of this module.
var traceKeys = []string{
	"dragon.cli", "dragon.scanner", "dragon.grammar", "dragon.fa", "dragon.ll",
	"dragon.lr", "dragon.tac", "dragon.cfg", "dragon.dag", "dragon.backpatch", "dragon.sdd",
}

func newRootCmd() *cobra.Command {
	var tlevel string
	root := &cobra.Command{
		Use:   "dragon",
		Short: "Visualize the algorithms of a compiler front end",
		Long: `dragon runs textbook compiler algorithms and prints their results
together with the intermediate steps:
- regular expressions to NFA, DFA and minimal DFA
- FIRST/FOLLOW sets, LL(1) and LR parser tables, grammar transformations
- control flow graphs, DAGs of basic blocks and backpatching`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setTraceLevel(tlevel)
		},
	}
	root.PersistentFlags().StringVar(&tlevel, "trace", "Error", "Trace level [Debug|Info|Error]")
	root.AddCommand(
		newRegexCmd(),
		newFirstCmd(),
		newLL1Cmd(),
		newLRCmd(),
		newTransformCmd(),
		newCFGCmd(),
		newDAGCmd(),
		newBackpatchCmd(),
		newSDDCmd(),
		newReplCmd(),
	)
	return root
}

// Execute runs the command line front end with the arguments of the process.
func Execute() error {
	initDisplay()
	gtrace.SyntaxTracer = gologadapter.New()
	err := newRootCmd().Execute()
	if err != nil {
		pterm.Error.Println(err.Error())
	}
	return err
}

func setTraceLevel(l string) {
	level := tracing.TraceLevelFromString(l)
	for _, key := range traceKeys {
		tracing.Select(key).SetTraceLevel(level)
	}
	tracer().Debugf("trace level is %s", l)
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.Info.Prefix = pterm.Prefix{
		Text:  "  >>",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "  Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

// --- Input -----------------------------------------------------------------

// readInput returns the text denoted by command arguments: a file name, "-"
// for stdin, or the lines of the text as separate arguments.
func readInput(args []string) (string, error) {
	if len(args) == 1 {
		if args[0] == "-" {
			b, err := ioutil.ReadAll(os.Stdin)
			return string(b), err
		}
		if fi, err := os.Stat(args[0]); err == nil && !fi.IsDir() {
			b, err := ioutil.ReadFile(args[0])
			if err != nil {
				return "", fmt.Errorf("cannot read %s: %w", args[0], err)
			}
			return string(b), nil
		}
	}
	return strings.Join(args, "\n"), nil
}

func readGrammar(args []string) (*grammar.Grammar, error) {
	text, err := readInput(args)
	if err != nil {
		return nil, err
	}
	g := grammar.Parse(text)
	if len(g.Productions) == 0 {
		return nil, fmt.Errorf("no productions in grammar input")
	}
	if len(g.Skipped) > 0 {
		pterm.Warning.Println(fmt.Sprintf("skipped malformed lines %v", g.Skipped))
	}
	return g, nil
}

// wordsFor splits input at white space and maps every word to a terminal of g.
// Words which are not terminals themselves are classified as numbers (num,
// digit) or identifiers (id), if g has a terminal of this name.
func wordsFor(g *grammar.Grammar, input string) []lr.Token {
	tokens := lr.Words(input)
	for i := range tokens {
		w := tokens[i].Text
		if g.IsTerminal(w) {
			continue
		}
		if _, err := strconv.ParseFloat(w, 64); err == nil {
			for _, t := range []string{"num", "number", "digit"} {
				if g.IsTerminal(t) {
					tokens[i].Terminal = t
					break
				}
			}
		} else if unicode.IsLetter([]rune(w)[0]) && g.IsTerminal("id") {
			tokens[i].Terminal = "id"
		}
	}
	return tokens
}

func terminalsOf(tokens []lr.Token) []string {
	ts := make([]string, len(tokens))
	for i, t := range tokens {
		ts[i] = t.Terminal
	}
	return ts
}

// --- Output ----------------------------------------------------------------

func section(title string) {
	pterm.DefaultSection.Println(title)
}

func table(header []string, rows [][]string) {
	data := pterm.TableData{header}
	data = append(data, rows...)
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func list(lines []string) {
	for _, l := range lines {
		pterm.Println(l)
	}
}

func stepList(n int, line func(i int) string) {
	for i := 0; i < n; i++ {
		pterm.Println(fmt.Sprintf("%3d  %s", i+1, line(i)))
	}
}

func treeNode(text string, level int) pterm.LeveledListItem {
	return pterm.LeveledListItem{Level: level, Text: text}
}

func renderTree(ll pterm.LeveledList) {
	if len(ll) == 0 {
		return
	}
	pterm.DefaultTree.WithRoot(pterm.NewTreeFromLeveledList(ll)).Render()
}

func parseTree(n *lr.Node, ll pterm.LeveledList, level int) pterm.LeveledList {
	text := n.Symbol
	if n.IsLeaf() && n.Text != "" && n.Text != n.Symbol {
		text = fmt.Sprintf("%s %q", n.Symbol, n.Text)
	}
	ll = append(ll, treeNode(text, level))
	for _, ch := range n.Children {
		ll = parseTree(ch, ll, level+1)
	}
	return ll
}

func join(v interface{}) string {
	return strings.Trim(fmt.Sprintf("%v", v), "[]")
}

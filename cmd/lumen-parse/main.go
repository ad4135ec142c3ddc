package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/lumen-lang/lumen/internal/ast"
	"github.com/lumen-lang/lumen/internal/langver"
	"github.com/lumen-lang/lumen/internal/lexer"
	"github.com/lumen-lang/lumen/internal/parser"
)

// lumen-parse: parse Lumen sources and report diagnostics.
// Flags:
//
//	-expr     treat the input as a single expression.
//	-print    print the canonical form of what was parsed.
//	-tokens   dump the token stream instead of parsing.
//	-watch    stay running and re-parse files when they change.
//	-no-color disable colored diagnostics even on a terminal.
func main() {
	var (
		exprMode  bool
		printTree bool
		dumpToks  bool
		watch     bool
		noColor   bool
	)
	flag.BoolVar(&exprMode, "expr", false, "treat the input as a single expression")
	flag.BoolVar(&printTree, "print", false, "print the canonical form of what was parsed")
	flag.BoolVar(&dumpToks, "tokens", false, "dump the token stream instead of parsing")
	flag.BoolVar(&watch, "watch", false, "stay running and re-parse files when they change")
	flag.BoolVar(&noColor, "no-color", false, "disable colored diagnostics")
	flag.Parse()

	r := &runner{
		exprMode:  exprMode,
		printTree: printTree,
		dumpToks:  dumpToks,
		color:     !noColor && isTerminal(os.Stderr),
	}

	files := flag.Args()
	if len(files) == 0 {
		src, err := io.ReadAll(os.Stdin)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		if !r.run("<stdin>", string(src)) {
			os.Exit(1)
		}
		return
	}

	if watch {
		if err := r.watch(files); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	ok := true
	for _, file := range files {
		if !r.runFile(file) {
			ok = false
		}
	}
	if !ok {
		os.Exit(1)
	}
}

type runner struct {
	exprMode  bool
	printTree bool
	dumpToks  bool
	color     bool
}

func (r *runner) runFile(file string) bool {
	src, err := os.ReadFile(file)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return false
	}
	return r.run(file, string(src))
}

func (r *runner) run(file, src string) bool {
	if err := langver.Verify(src); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", file, err)
		return false
	}

	if r.dumpToks {
		for _, tok := range lexer.Tokenize(src) {
			fmt.Printf("%s\t%v\t%q\n", tok.Span, tok.Type, tok.Literal)
		}
		return true
	}

	var tree *ast.Tree
	var errs []*parser.ParseError
	if r.exprMode {
		tree, errs = parser.ParseExpression(lexer.Tokenize(src))
	} else {
		tree, errs = parser.ParseSource(file, src)
	}

	for _, e := range errs {
		r.report(e)
	}
	if r.printTree {
		if r.exprMode {
			fmt.Println(ast.ExprString(tree, tree.Root))
		} else {
			fmt.Print(ast.Print(tree))
		}
	}
	return len(errs) == 0
}

func (r *runner) report(e *parser.ParseError) {
	if r.color {
		fmt.Fprintf(os.Stderr, "\x1b[31m%s\x1b[0m\n", e.Error())
		return
	}
	fmt.Fprintln(os.Stderr, e.Error())
}

// watch re-parses the given files whenever they are written. Editors
// often replace files instead of writing them in place, so the parent
// directories are watched rather than the files themselves.
func (r *runner) watch(files []string) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	watched := make(map[string]bool, len(files))
	dirs := make(map[string]bool)
	for _, file := range files {
		abs, err := filepath.Abs(file)
		if err != nil {
			return err
		}
		watched[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := w.Add(dir); err != nil {
			return err
		}
	}

	for _, file := range files {
		r.runFile(file)
	}

	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			abs, err := filepath.Abs(ev.Name)
			if err != nil || !watched[abs] {
				continue
			}
			fmt.Fprintf(os.Stderr, "-- %s\n", ev.Name)
			r.runFile(ev.Name)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintln(os.Stderr, err)
		}
	}
}

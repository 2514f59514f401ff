package compiler

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"github.com/cockroachdb/errors"
	"github.com/fatih/color"
	"github.com/microsoft/typescript-go/shim/ast"
	shimscanner "github.com/microsoft/typescript-go/shim/scanner"

	"github.com/tsreflect/tsreflect/internal/diagnostic"
)

// Category mirrors tsgo's diagnostics.Category.
type Category int

const (
	CategoryWarning    Category = 0
	CategoryError      Category = 1
	CategorySuggestion Category = 2
	CategoryMessage    Category = 3
)

func (c Category) String() string {
	switch c {
	case CategoryError:
		return "error"
	case CategoryWarning:
		return "warning"
	case CategorySuggestion:
		return "suggestion"
	case CategoryMessage:
		return "message"
	}
	return "unknown"
}

func (c Category) severity() diagnostic.Severity {
	switch c {
	case CategoryError:
		return diagnostic.SeverityError
	case CategoryWarning:
		return diagnostic.SeverityWarning
	}
	return diagnostic.SeverityInfo
}

func (c Category) color() *color.Color {
	switch c {
	case CategoryError:
		return color.New(color.FgHiRed)
	case CategoryWarning:
		return color.New(color.FgHiYellow)
	case CategorySuggestion:
		return color.New(color.FgHiBlack)
	}
	return color.New(color.FgHiBlue)
}

var (
	fileColor   = color.New(color.FgHiCyan)
	posColor    = color.New(color.FgHiYellow)
	codeColor   = color.New(color.FgHiBlack)
	gutterColor = color.New(color.ReverseVideo)
)

func categoryOf(d *ast.Diagnostic) Category {
	return Category(ast.Diagnostic_Category(d))
}

// DiagnosticsOf extracts the compiler diagnostics carried by err, if any.
func DiagnosticsOf(err error) []*ast.Diagnostic {
	var de *DiagnosticsError
	if errors.As(err, &de) {
		return de.Diagnostics
	}
	return nil
}

// Report adds tsgo diagnostics to the collector under CategoryCompiler with
// 1-based positions.
func Report(c *diagnostic.Collector, diags []*ast.Diagnostic, cwd string) {
	for _, d := range diags {
		out := diagnostic.Diagnostic{
			Severity: categoryOf(d).severity(),
			Category: diagnostic.CategoryCompiler,
			Message:  fmt.Sprintf("TS%d: %s", d.Code(), d.String()),
		}
		if f := d.File(); f != nil {
			line, char := shimscanner.GetECMALineAndCharacterOfPosition(f, d.Pos())
			out.File = relativePath(f.FileName(), cwd)
			out.Line = line + 1
			out.Column = char + 1
		}
		c.Add(out)
	}
}

// WriteDiagnostics writes diagnostics in tsc style. With pretty set the
// output is colored and carries a code snippet with squiggles.
func WriteDiagnostics(w io.Writer, diags []*ast.Diagnostic, cwd string, pretty bool) {
	for _, d := range diags {
		if pretty {
			writePretty(w, d, cwd)
			fmt.Fprint(w, "\n")
		} else {
			writePlain(w, d, cwd)
		}
	}
	if pretty {
		writeErrorSummary(w, diags, cwd)
	}
}

// writePlain writes file(line,col): error TS2322: message
func writePlain(w io.Writer, d *ast.Diagnostic, cwd string) {
	if d.File() != nil {
		line, char := shimscanner.GetECMALineAndCharacterOfPosition(d.File(), d.Pos())
		fmt.Fprintf(w, "%s(%d,%d): ", relativePath(d.File().FileName(), cwd), line+1, char+1)
	}
	fmt.Fprintf(w, "%s TS%d: %s\n", categoryOf(d), d.Code(), d.String())
}

// writePretty writes file:line:col - error TS2322: message, then the snippet.
func writePretty(w io.Writer, d *ast.Diagnostic, cwd string) {
	cat := categoryOf(d)
	if d.File() != nil {
		line, char := shimscanner.GetECMALineAndCharacterOfPosition(d.File(), d.Pos())
		fmt.Fprintf(w, "%s:%s:%s - ",
			fileColor.Sprint(relativePath(d.File().FileName(), cwd)),
			posColor.Sprint(line+1),
			posColor.Sprint(char+1))
	}
	fmt.Fprintf(w, "%s %s %s", cat.color().Sprint(cat), codeColor.Sprintf("TS%d:", d.Code()), d.String())

	if d.File() != nil && d.Len() > 0 {
		fmt.Fprint(w, "\n")
		writeCodeSnippet(w, d.File(), d.Pos(), d.Len(), cat.color())
		fmt.Fprint(w, "\n")
	}
}

// writeCodeSnippet writes the source lines of a span with gutter line
// numbers and squiggles. Spans over five lines elide the middle.
func writeCodeSnippet(w io.Writer, file *ast.SourceFile, start, length int, squiggle *color.Color) {
	firstLine, firstLineChar := shimscanner.GetECMALineAndCharacterOfPosition(file, start)
	lastLine, lastLineChar := shimscanner.GetECMALineAndCharacterOfPosition(file, start+length)
	if length == 0 {
		lastLineChar++
	}

	text := file.Text()
	lastLineOfFile := shimscanner.GetECMALineOfPosition(file, len(text))

	elide := lastLine-firstLine >= 4
	gutterWidth := len(strconv.Itoa(lastLine + 1))
	if elide && gutterWidth < len("...") {
		gutterWidth = len("...")
	}

	for i := firstLine; i <= lastLine; i++ {
		if elide && firstLine+1 < i && i < lastLine-1 {
			fmt.Fprintf(w, "%s\n", gutterColor.Sprintf("%*s", gutterWidth, "..."))
			i = lastLine - 1
		}

		lineStart := shimscanner.GetECMAPositionOfLineAndCharacter(file, i, 0)
		lineEnd := len(text)
		if i < lastLineOfFile {
			lineEnd = shimscanner.GetECMAPositionOfLineAndCharacter(file, i+1, 0)
		}
		content := strings.TrimRightFunc(text[lineStart:lineEnd], unicode.IsSpace)
		content = strings.ReplaceAll(content, "\t", " ")

		fmt.Fprintf(w, "%s %s\n", gutterColor.Sprintf("%*d", gutterWidth, i+1), content)
		fmt.Fprintf(w, "%s ", gutterColor.Sprintf("%*s", gutterWidth, ""))

		switch i {
		case firstLine:
			end := lastLineChar
			if i != lastLine {
				end = len(content)
			}
			fmt.Fprint(w, strings.Repeat(" ", firstLineChar))
			fmt.Fprint(w, squiggle.Sprint(strings.Repeat("~", max(end-firstLineChar, 1))))
		case lastLine:
			if lastLineChar > 0 {
				fmt.Fprint(w, squiggle.Sprint(strings.Repeat("~", lastLineChar)))
			}
		default:
			fmt.Fprint(w, squiggle.Sprint(strings.Repeat("~", len(content))))
		}
	}
}

// writeErrorSummary writes tsc's "Found N errors" trailer. Only
// CategoryError diagnostics count.
func writeErrorSummary(w io.Writer, diags []*ast.Diagnostic, cwd string) {
	count := 0
	var first *ast.Diagnostic
	files := make(map[string]struct{})
	for _, d := range diags {
		if categoryOf(d) != CategoryError {
			continue
		}
		count++
		if first == nil {
			first = d
		}
		if d.File() != nil {
			files[d.File().FileName()] = struct{}{}
		}
	}
	if count == 0 {
		return
	}

	location := func() string {
		line := shimscanner.GetECMALineOfPosition(first.File(), first.Pos())
		return relativePath(first.File().FileName(), cwd) + codeColor.Sprintf(":%d", line+1)
	}

	fmt.Fprint(w, "\n")
	switch {
	case count == 1 && first.File() != nil:
		fmt.Fprintf(w, "Found 1 error in %s\n", location())
	case count == 1:
		fmt.Fprintln(w, "Found 1 error.")
	case len(files) <= 1 && first.File() != nil:
		fmt.Fprintf(w, "Found %d errors in the same file, starting at: %s\n", count, location())
	case len(files) <= 1:
		fmt.Fprintf(w, "Found %d errors.\n", count)
	default:
		fmt.Fprintf(w, "Found %d errors in %d files.\n", count, len(files))
	}
	fmt.Fprint(w, "\n")
}

// CountErrors returns the number of CategoryError diagnostics.
func CountErrors(diags []*ast.Diagnostic) int {
	n := 0
	for _, d := range diags {
		if categoryOf(d) == CategoryError {
			n++
		}
	}
	return n
}

func relativePath(absPath, cwd string) string {
	if cwd == "" {
		return absPath
	}
	rel, err := filepath.Rel(cwd, absPath)
	if err != nil {
		return absPath
	}
	return filepath.ToSlash(rel)
}

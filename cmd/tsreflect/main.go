package main

import (
	"fmt"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/tsreflect/tsreflect/internal/logger"
)

// version is overridden at release time with -ldflags "-X main.version=...".
var version = "0.0.1-dev"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)
	err := root.Execute()
	logger.Cleanup()
	if err == nil {
		return 0
	}
	printError(stderr, err)
	return 1
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:   "tsreflect",
		Short: "Convert a TypeScript program into documentation reflections",
		Long: `tsreflect type-checks one or more TypeScript projects with typescript-go
and writes every exported declaration, with its canonical type, as a JSON or
MessagePack document per project.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().String("config", "", "path to tsreflect.json|toml|yaml (default: searched upward from the working directory)")
	root.PersistentFlags().String("log-level", "", "log level (debug|info|warn|error)")
	root.PersistentFlags().Bool("log-json", false, "emit logs as JSON")
	root.PersistentFlags().Bool("no-color", false, "disable colored output")

	root.AddCommand(newConvertCmd())
	root.AddCommand(newWatchCmd())
	root.AddCommand(newVersionCmd())
	return root
}

// printError writes err and any hints attached along its chain.
func printError(w io.Writer, err error) {
	red := color.New(color.FgRed, color.Bold)
	fmt.Fprintf(w, "%s %v\n", red.Sprint("error:"), err)
	if hints := errors.FlattenHints(err); hints != "" {
		fmt.Fprintf(w, "  hint: %s\n", hints)
	}
}

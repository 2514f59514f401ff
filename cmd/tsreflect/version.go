package main

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/spf13/cobra"

	"github.com/tsreflect/tsreflect/internal/serialize"
)

type versionInfo struct {
	Tool          string `json:"tool"`
	Version       string `json:"version"`
	SchemaVersion int    `json:"schemaVersion"`
	GoVersion     string `json:"goVersion"`
	TypeScriptGo  string `json:"typescriptGo,omitzero"`
}

func currentVersion() versionInfo {
	info := versionInfo{
		Tool:          "tsreflect",
		Version:       version,
		SchemaVersion: serialize.SchemaVersion,
		GoVersion:     runtime.Version(),
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, dep := range bi.Deps {
			if dep.Path == "github.com/microsoft/typescript-go" {
				info.TypeScriptGo = dep.Version
			}
		}
	}
	return info
}

func newVersionCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := currentVersion()
			w := cmd.OutOrStdout()
			if asJSON {
				if err := json.MarshalWrite(w, info, jsontext.WithIndent("  ")); err != nil {
					return err
				}
				_, err := fmt.Fprintln(w)
				return err
			}
			fmt.Fprintf(w, "%s %s (document schema %d, %s)\n", info.Tool, info.Version, info.SchemaVersion, info.GoVersion)
			if info.TypeScriptGo != "" {
				fmt.Fprintf(w, "typescript-go %s\n", info.TypeScriptGo)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}

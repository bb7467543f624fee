package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/qentem-go/qentem/internal/config"
	"github.com/qentem-go/qentem/render"
	"github.com/qentem-go/qentem/template"
	"github.com/qentem-go/qentem/value"
)

func newLintCmd(configPath *string) *cobra.Command {
	var schemaFlag string

	cmd := &cobra.Command{
		Use:   "lint TEMPLATE DATA",
		Short: "Check a template's variable paths against a JSON data file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			if *configPath != "" {
				loaded, err := config.Load(*configPath)
				if err != nil {
					return err
				}
				cfg = loaded
			}
			if schemaFlag == "" {
				schemaFlag = cfg.SchemaPath
			}

			tplData, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read template: %w", err)
			}
			tpl, err := template.Parse(tplData)
			if err != nil {
				return fmt.Errorf("parse template: %w", err)
			}

			jsonData, err := os.ReadFile(args[1])
			if err != nil {
				return fmt.Errorf("read data: %w", err)
			}
			root := value.ParseJSON(jsonData)
			if root.IsUndefined() {
				return fmt.Errorf("data file %s is not valid JSON", args[1])
			}

			if schemaFlag != "" {
				schemaDoc, err := os.ReadFile(schemaFlag)
				if err != nil {
					return fmt.Errorf("read schema: %w", err)
				}
				if err := value.ValidateAgainstSchema(root, schemaDoc); err != nil {
					return err
				}
			}

			problems := 0
			for _, path := range collectVariablePaths(tpl.Nodes, nil) {
				if _, ok := value.Resolve(root, path); ok {
					continue
				}
				problems++
				if suggestion := render.SuggestPath(path, root); suggestion != "" {
					fmt.Fprintf(cmd.OutOrStdout(), "unresolved path %q (did you mean %q?)\n", path, suggestion)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "unresolved path %q\n", path)
				}
			}
			if problems > 0 {
				return fmt.Errorf("%d unresolved variable path(s)", problems)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&schemaFlag, "schema", "", "path to a JSON schema to validate the data file against")
	return cmd
}

// collectVariablePaths walks a parsed template's node tree collecting
// every {var:...}/{raw:...}/{svar:...} path and <loop> "set" attribute
// path that is not bound by an enclosing <loop>'s "value"/implicit "key"
// (those only resolve against the active loop item at render time, not
// against the root document, so flagging them would be a false positive).
// {math:...} expressions are not walked: their variable references live
// inside the compiled expr.Program rather than as plain Node fields, and
// lint's job is advisory, not exhaustive.
func collectVariablePaths(nodes []template.Node, bound map[string]bool) []string {
	var out []string
	isBound := func(path string) bool {
		head := path
		for i := 0; i < len(path); i++ {
			if path[i] == '[' {
				head = path[:i]
				break
			}
		}
		return bound[head]
	}
	for _, n := range nodes {
		switch t := n.(type) {
		case *template.Variable:
			if !isBound(t.Path) {
				out = append(out, t.Path)
			}
		case *template.RawVariable:
			if !isBound(t.Path) {
				out = append(out, t.Path)
			}
		case *template.SuperVariable:
			if !isBound(t.Path) {
				out = append(out, t.Path)
			}
			out = append(out, collectVariablePaths(t.Children, bound)...)
		case *template.InlineIf:
			out = append(out, collectVariablePaths(t.TrueNodes, bound)...)
			out = append(out, collectVariablePaths(t.FalseNodes, bound)...)
		case *template.Loop:
			if t.Set != "" && !isBound(t.Set) {
				out = append(out, t.Set)
			}
			inner := make(map[string]bool, len(bound)+2)
			for k := range bound {
				inner[k] = true
			}
			if t.Value != "" {
				inner[t.Value] = true
			}
			inner["key"] = true
			out = append(out, collectVariablePaths(t.Body, inner)...)
		case *template.If:
			for _, c := range t.Cases {
				out = append(out, collectVariablePaths(c.Body, bound)...)
			}
		}
	}
	return out
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/qentem-go/qentem/jsonenc"
	"github.com/qentem-go/qentem/value"
)

func newFmtJSONCmd() *cobra.Command {
	var precision int
	var stripComments bool

	cmd := &cobra.Command{
		Use:   "fmt-json FILE",
		Short: "Parse a JSON file and print it back as compact JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read file: %w", err)
			}
			if stripComments {
				data = jsonenc.StripComments(data)
			}

			v := value.ParseJSON(data)
			if v.IsUndefined() {
				return fmt.Errorf("%s is not valid JSON", args[0])
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), value.Stringify(v, precision))
			return err
		},
	}
	cmd.Flags().IntVar(&precision, "precision", 15, "significant digits for real numbers")
	cmd.Flags().BoolVar(&stripComments, "strip-comments", false, "strip // and /* */ comments before parsing")
	return cmd
}

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

func newRenderCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render TEMPLATE DATA",
		Short: "Render a template file against a JSON data file",
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

			renderCfg := render.Config{Precision: cfg.Precision, Format: cfg.Format()}
			return render.Render(tpl, root, renderCfg, cmd.OutOrStdout())
		},
	}
	return cmd
}

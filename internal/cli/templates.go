package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sec-js/attack-flow/internal/template"
	"github.com/sec-js/attack-flow/internal/theme"
)

func newTemplatesCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "Work with object templates",
	}
	cmd.AddCommand(newTemplatesValidateCommand(a))
	return cmd
}

func newTemplatesValidateCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [dir]",
		Short: "Validate the template files of a directory",
		Long: `Parses every template file, checks each property schema and the anchor
slots, and reports templates the configured theme has no design for.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := a.cfg.Templates.Dir
			if len(args) == 1 {
				dir = args[0]
			}
			w := cmd.OutOrStdout()

			reg, err := loadRegistry(dir)
			if err != nil {
				return err
			}
			counts := map[template.ObjectType]int{}
			for _, id := range reg.IDs() {
				t, _ := reg.Lookup(id)
				counts[t.Type]++
			}
			status(w, "%d template(s) in %s: %d block, %d anchor, %d group",
				len(reg.IDs()), dir, counts[template.TypeBlock], counts[template.TypeAnchor], counts[template.TypeGroup])

			if a.cfg.Theme.File == "" {
				return nil
			}
			tc, err := theme.ReadConfig(a.cfg.Theme.File)
			if err != nil {
				return err
			}
			missing := 0
			warn := color.New(color.FgYellow)
			for _, id := range reg.IDs() {
				t, _ := reg.Lookup(id)
				if _, ok := tc.Designs[id]; ok || t.Type == template.TypeGroup {
					continue
				}
				missing++
				warn.Fprintf(w, "warning: theme %s has no design for %s %s\n", tc.ID, t.Type, id)
			}
			if missing == 0 {
				status(w, "theme %s covers every template", tc.ID)
			}
			return nil
		},
	}
}

func loadRegistry(dir string) (*template.Registry, error) {
	templates, err := template.LoadTemplates(dir)
	if err != nil {
		return nil, fmt.Errorf("loading templates: %w", err)
	}
	if len(templates) == 0 {
		return nil, fmt.Errorf("no templates found in %s", dir)
	}
	return template.NewRegistry(templates)
}

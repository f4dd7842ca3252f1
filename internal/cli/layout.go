package cli

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sec-js/attack-flow/internal/model"
	"github.com/sec-js/attack-flow/internal/theme"
	"github.com/sec-js/attack-flow/internal/view"
)

// diagram is the input of the layout command.
type diagram struct {
	Canvas  string      `yaml:"canvas"`
	Objects []placement `yaml:"objects"`
}

type placement struct {
	Template   string         `yaml:"template"`
	X          float64        `yaml:"x"`
	Y          float64        `yaml:"y"`
	Properties map[string]any `yaml:"properties"`
}

func newLayoutCommand(a *app) *cobra.Command {
	var themeFile string
	cmd := &cobra.Command{
		Use:   "layout <diagram.yaml>",
		Short: "Lay out a diagram with a theme and print every bounding box",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if themeFile == "" {
				themeFile = a.cfg.Theme.File
			}
			if themeFile == "" {
				return fmt.Errorf("no theme: set theme.file or pass --theme")
			}

			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading diagram: %w", err)
			}
			var d diagram
			if err := yaml.Unmarshal(raw, &d); err != nil {
				return fmt.Errorf("parsing diagram %s: %w", args[0], err)
			}
			if d.Canvas == "" {
				return fmt.Errorf("diagram %s has no canvas template", args[0])
			}

			reg, err := loadRegistry(a.cfg.Templates.Dir)
			if err != nil {
				return err
			}
			tc, err := theme.ReadConfig(themeFile)
			if err != nil {
				return err
			}
			th, err := theme.Load(cmd.Context(), tc, theme.DefaultFontStore())
			if err != nil {
				return err
			}

			canvas, err := layout(&d, model.NewFactory(reg), view.NewBuilder(th, a.log))
			if err != nil {
				return err
			}
			return printBoxes(cmd, canvas)
		},
	}
	cmd.Flags().StringVar(&themeFile, "theme", "", "theme file (default theme.file)")
	return cmd
}

// layout builds the canvas group of d, places each object and computes the
// layout of the whole tree.
func layout(d *diagram, f *model.Factory, b *view.Builder) (*view.GroupView, error) {
	g, err := f.NewGroup(d.Canvas, nil)
	if err != nil {
		return nil, err
	}
	canvas, err := b.BuildGroup(g)
	if err != nil {
		return nil, err
	}
	for i, p := range d.Objects {
		obj, err := f.NewObject(p.Template, p.Properties)
		if err != nil {
			return nil, fmt.Errorf("object %d: %w", i, err)
		}
		v, err := b.Build(obj)
		if err != nil {
			return nil, fmt.Errorf("object %d: %w", i, err)
		}
		if err := canvas.InsertObject(v); err != nil {
			return nil, fmt.Errorf("object %d: %w", i, err)
		}
		v.MoveTo(p.X, p.Y)
	}
	canvas.CalculateLayout()
	return canvas, nil
}

func printBoxes(cmd *cobra.Command, root view.View) error {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "OBJECT\tINSTANCE\tBOX")
	view.Walk(root, func(v view.View) {
		depth := 0
		for p := v.Parent(); p != nil; p = p.Parent() {
			depth++
		}
		fmt.Fprintf(tw, "%s%s\t%s\t%s\n", strings.Repeat("  ", depth), v.ID(), v.Instance(), v.Face().BoundingBox())
	})
	return tw.Flush()
}

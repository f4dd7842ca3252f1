package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/sec-js/attack-flow/internal/attack"
)

func newCatalogCommand(a *app) *cobra.Command {
	var (
		out            string
		version        string
		combinations   string
		tacticField    string
		techniqueField string
	)
	cmd := &cobra.Command{
		Use:   "catalog [manifest-url...]",
		Short: "Build an ATT&CK catalog bundle from STIX manifests",
		Long: `Downloads the ATT&CK STIX manifests (attack.urls unless urls are given),
merges them into one catalog and writes it as a checksummed bundle.
Later manifests win when they describe the same STIX object.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			urls := args
			if len(urls) == 0 {
				urls = a.cfg.Attack.URLs
			}
			if out == "" {
				out = a.cfg.Attack.Output
			}
			if version == "" {
				version = gitVersion()
			}
			w := cmd.OutOrStdout()

			status(w, "fetching %d manifest(s)", len(urls))
			ctx, cancel := context.WithTimeout(cmd.Context(), a.cfg.Attack.Timeout)
			defer cancel()

			c, err := attack.NewImporter(&http.Client{}, a.log).Fetch(ctx, urls...)
			if err != nil {
				return fmt.Errorf("importing ATT&CK: %w", err)
			}
			for _, typ := range attack.Types {
				status(w, "  %-12s %d", typ, len(c[typ]))
			}

			b, err := attack.NewBundle(c, version, time.Now().UTC().Format(time.RFC3339))
			if err != nil {
				return err
			}
			data, err := json.MarshalIndent(b, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling bundle: %w", err)
			}
			if err := writeFile(out, data); err != nil {
				return err
			}
			status(w, "bundle written to %s (version: %s, size: %d bytes)", out, version, len(data))

			if combinations == "" {
				return nil
			}
			f, err := create(combinations)
			if err != nil {
				return err
			}
			defer f.Close()
			combos := c.ValueCombinations(tacticField, techniqueField)
			if err := attack.WriteCombinations(f, combos); err != nil {
				return fmt.Errorf("writing combinations: %w", err)
			}
			status(w, "%d value combination(s) written to %s", len(combos), combinations)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "output path for the bundle (default attack.output)")
	cmd.Flags().StringVar(&version, "version", "", "bundle version (default date and git commit)")
	cmd.Flags().StringVar(&combinations, "combinations", "", "also write tactic/technique value combinations to this YAML file")
	cmd.Flags().StringVar(&tacticField, "tactic-field", "tactic", "tuple field holding the tactic id")
	cmd.Flags().StringVar(&techniqueField, "technique-field", "technique", "tuple field holding the technique id")
	return cmd
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func create(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	return os.Create(path)
}

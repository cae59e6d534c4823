package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/alanrrz/catchment-cli/internal/enrich"
	"github.com/alanrrz/catchment-cli/internal/export"
	"github.com/alanrrz/catchment-cli/pkg/identity"
)

var (
	enrichIn         string
	enrichOut        string
	enrichAllMatches bool
)

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Look up identity data for each address row in a CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Enrich.APIKey == "" {
			return eris.New("enrich: api key not configured (enrich.api_key)")
		}

		in, err := os.Open(enrichIn)
		if err != nil {
			return eris.Wrapf(err, "open %s", enrichIn)
		}
		defer in.Close() //nolint:errcheck

		columns, rows, err := export.ReadInput(in)
		if err != nil {
			return err
		}

		client, err := newIdentityClient()
		if err != nil {
			return err
		}

		enricher := enrich.New(client, enrich.Options{
			Interval:   cfg.Enrich.Interval(),
			AllMatches: enrichAllMatches || cfg.Enrich.AllMatches,
			Delimiter:  cfg.Enrich.Delimiter,
		})

		results, err := enricher.Run(cmd.Context(), rows, enrich.Columns{
			Street: cfg.Enrich.StreetColumn,
			City:   cfg.Enrich.CityColumn,
			State:  cfg.Enrich.StateColumn,
			Zip:    cfg.Enrich.ZipColumn,
		})
		// Rows processed before a cancellation are still valid; write what
		// we have before surfacing the error.
		if len(results) > 0 {
			if writeErr := writeEnrichment(columns, results); writeErr != nil {
				return writeErr
			}
		}
		if err != nil {
			return err
		}

		counts := map[enrich.Status]int{}
		for _, r := range results {
			counts[r.Status]++
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d rows (%d success, %d not found, %d api errors, %d exceptions)\n",
			enrichOut, len(results),
			counts[enrich.StatusSuccess], counts[enrich.StatusNotFound],
			counts[enrich.StatusAPIError], counts[enrich.StatusException])
		return nil
	},
}

// newIdentityClient builds the lookup client, preferring the providers file
// when configured so operators can switch contracts without a rebuild.
func newIdentityClient() (identity.Client, error) {
	baseURL := cfg.Enrich.BaseURL
	adapterName := cfg.Enrich.Provider

	if cfg.Enrich.ProviderFile != "" {
		pf, err := enrich.LoadProviders(cfg.Enrich.ProviderFile)
		if err != nil {
			return nil, err
		}
		p, err := pf.Select(cfg.Enrich.Provider)
		if err != nil {
			return nil, err
		}
		baseURL = p.BaseURL
		adapterName = p.Adapter
	}

	if baseURL == "" {
		return nil, eris.New("enrich: base url not configured (enrich.base_url)")
	}

	adapter, err := identity.AdapterFor(adapterName)
	if err != nil {
		return nil, err
	}
	return identity.NewClient(baseURL, cfg.Enrich.APIKey, identity.WithAdapter(adapter)), nil
}

func writeEnrichment(columns []string, results []enrich.Row) error {
	file, err := os.Create(enrichOut)
	if err != nil {
		return eris.Wrapf(err, "create %s", enrichOut)
	}
	defer file.Close() //nolint:errcheck
	return export.WriteEnrichment(file, columns, results)
}

func init() {
	enrichCmd.Flags().StringVar(&enrichIn, "in", "", "input address CSV (required)")
	enrichCmd.Flags().StringVar(&enrichOut, "out", "enriched.csv", "output CSV path")
	enrichCmd.Flags().BoolVar(&enrichAllMatches, "all-matches", false, "join every match instead of taking the first")
	_ = enrichCmd.MarkFlagRequired("in")
	rootCmd.AddCommand(enrichCmd)
}

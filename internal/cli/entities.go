package cli

import (
	"fmt"
	"io"

	"github.com/ppiankov/piitier/internal/entities"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var entitiesCountry string

var entitiesCmd = &cobra.Command{
	Use:   "entities",
	Short: "List detectable entity types",
	Long: `List the entity catalog as YAML: global types, per-country types, the
custom recognizers, and the user-facing aliases that expand to detector types.

With --country, print only the resolved list for that country.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return listEntities(cmd.OutOrStdout(), entitiesCountry)
	},
}

func init() {
	rootCmd.AddCommand(entitiesCmd)
	entitiesCmd.Flags().StringVar(&entitiesCountry, "country", "", "print the resolved list for one country")
}

type catalog struct {
	Global    []string            `yaml:"global"`
	Countries map[string][]string `yaml:"countries"`
	Custom    []string            `yaml:"custom"`
	Aliases   map[string][]string `yaml:"aliases"`
}

func listEntities(w io.Writer, country string) error {
	var v any
	if country != "" {
		resolved, err := entities.Resolve(nil, country)
		if err != nil {
			return err
		}
		v = resolved
	} else {
		aliases := make(map[string][]string)
		for _, name := range entities.Aliases() {
			aliases[name] = entities.Expand([]string{name})
		}
		v = catalog{
			Global:    entities.Global,
			Countries: entities.Countries,
			Custom:    entities.Custom,
			Aliases:   aliases,
		}
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	return enc.Close()
}

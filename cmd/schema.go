package cmd

import (
	"encoding/json"
	"os"
	"reflect"

	"github.com/invopop/jsonschema"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/streamscout/streamscout/history"
	"github.com/streamscout/streamscout/media"
)

func init() {
	rootCmd.AddCommand(schemaCmd)
	schemaCmd.Flags().Bool("history", false, "Describe the history records instead of the search results")
}

func reflectSchema(records bool) *jsonschema.Schema {
	reflector := new(jsonschema.Reflector)
	reflector.Anonymous = true
	reflector.Namer = func(t reflect.Type) string {
		return t.Name()
	}

	if records {
		return reflector.Reflect([]*history.Record{})
	}
	return reflector.Reflect([]*media.Item{})
}

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of the --json output",
	Run: func(cmd *cobra.Command, args []string) {
		schema := reflectSchema(lo.Must(cmd.Flags().GetBool("history")))
		handleErr(json.NewEncoder(os.Stdout).Encode(schema))
	},
}

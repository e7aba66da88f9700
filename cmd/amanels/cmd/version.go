package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/amanels/internal/language"
	"github.com/Aman-CERP/amanels/pkg/version"
)

// versionJSON is the build plus the languages compiled in.
type versionJSON struct {
	version.BuildInfo
	Languages []string `json:"languages"`
}

func newVersionCmd() *cobra.Command {
	var jsonOutput, shortOutput bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the build and supported languages",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			if shortOutput {
				_, err := fmt.Fprintln(out, version.Short())
				return err
			}

			var langs []string
			for _, p := range language.Default().Profiles() {
				langs = append(langs, string(p.Language))
			}

			if jsonOutput {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(versionJSON{BuildInfo: version.GetInfo(), Languages: langs})
			}

			_, err := fmt.Fprintf(out, "%s\nlanguages: %s\n", version.String(), strings.Join(langs, ", "))
			return err
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print as JSON")
	cmd.Flags().BoolVar(&shortOutput, "short", false, "Print only the version number")
	return cmd
}

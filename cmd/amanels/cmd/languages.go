package cmd

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/amanels/internal/language"
	"github.com/Aman-CERP/amanels/internal/output"
)

type languageJSON struct {
	Name        string   `json:"name"`
	Display     string   `json:"display"`
	Aliases     []string `json:"aliases"`
	FileHints   []string `json:"file_hints"`
	Letters     int      `json:"letters"`
	RightToLeft bool     `json:"right_to_left"`
}

func newLanguagesCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "languages",
		Short: "List supported alphabets",
		Long: `List the alphabets a text can be normalized to, with the aliases accepted
by --language and the file name hints used when the language is auto.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			profiles := language.Default().Profiles()

			if jsonOutput {
				docs := make([]languageJSON, 0, len(profiles))
				for _, p := range profiles {
					docs = append(docs, languageJSON{
						Name:        string(p.Language),
						Display:     p.Name,
						Aliases:     p.Aliases,
						FileHints:   p.FileHints,
						Letters:     p.Letters,
						RightToLeft: p.Style.RightToLeft,
					})
				}
				return writeJSON(cmd, docs)
			}

			rows := make([][]string, 0, len(profiles))
			for _, p := range profiles {
				dir := "ltr"
				if p.Style.RightToLeft {
					dir = "rtl"
				}
				rows = append(rows, []string{
					string(p.Language),
					strconv.Itoa(p.Letters),
					dir,
					strings.Join(p.Aliases, ", "),
					strings.Join(p.FileHints, ", "),
				})
			}
			output.New(cmd.OutOrStdout()).Table([]string{"LANGUAGE", "LETTERS", "DIRECTION", "ALIASES", "FILE HINTS"}, rows)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

// cmd/advisor/advise.go
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"college-advisor/internal/admission"
)

func newAdviseCmd(opts *globalOptions) *cobra.Command {
	var queryFile string

	cmd := &cobra.Command{
		Use:   "advise [query-json]",
		Short: "Answer one query description",
		Long: `Normalize a query description, predict the rank from marks, classify the query
and list matching seats. The description is the JSON object the extraction
layer produces, given as an argument, through --file, or on stdin.`,
		Example: `  advisor advise '{"institute": "iit bombay", "program": "civil engineering", "marks": 280}'
  echo '{"program": "Computer Science", "marks": "175"}' | advisor advise`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := readPayload(cmd.InOrStdin(), args, queryFile)
			if err != nil {
				return err
			}

			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			log := opts.logger()
			tables, err := opts.loadTables(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}

			res, err := admission.NewAdvisor(tables, log).Advise(payload)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		},
	}

	cmd.Flags().StringVarP(&queryFile, "file", "f", "", "read the query description from a file")
	return cmd
}

func readPayload(stdin io.Reader, args []string, file string) ([]byte, error) {
	switch {
	case len(args) == 1 && args[0] != "-":
		return []byte(args[0]), nil
	case file != "":
		return os.ReadFile(file)
	default:
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		if len(data) == 0 {
			return nil, fmt.Errorf("no query description given")
		}
		return data, nil
	}
}

// cmd/advisor/tasks.go
package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"college-advisor/pkg/registry"
)

func newTasksCmd(_ *globalOptions) *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "List the service tasks served by the worker manager",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := registry.Load(path)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TASK TYPE\tINPUTS\tOUTPUTS\tERROR CODES")
			for _, a := range reg.Activities {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", a.TaskType,
					strings.Join(a.Inputs, ","), strings.Join(a.Outputs, ","), strings.Join(a.ErrorCodes, ","))
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&path, "registry", "configs/activity-registry.json", "activity registry file")
	return cmd
}

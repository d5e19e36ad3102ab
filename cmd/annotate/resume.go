package main

import (
	"github.com/spf13/cobra"
)

func resumeCmd() *cobra.Command {
	var flags processFlags

	cmd := &cobra.Command{
		Use:   "resume <input.csv>",
		Short: "Continue an interrupted annotation run",
		Long: `Continue an interrupted annotation run.

The starting offset is looked up in the local database: processing
resumes after the highest record index already saved for the input
file. Records whose earlier attempt failed are not reprocessed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProcess(args[0], flags, true)
		},
	}

	flags.register(cmd)

	return cmd
}

package main

import (
	"github.com/spf13/cobra"

	"placement-ats/internal/ats/rejection"
)

func newInterpretCmd() *cobra.Command {
	var text, jobTitle, skills string
	cmd := &cobra.Command{
		Use:   "interpret",
		Short: "Turn recruiter rejection feedback into motivation and next steps",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := rejection.New().Interpret(text, jobTitle, splitList(skills))
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().StringVarP(&text, "text", "t", "", "Rejection feedback text")
	cmd.Flags().StringVar(&jobTitle, "job-title", "", "Job title the student applied for")
	cmd.Flags().StringVar(&skills, "skills", "", "Comma-separated student skills")
	return cmd
}

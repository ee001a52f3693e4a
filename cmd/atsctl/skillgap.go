package main

import (
	"errors"

	"github.com/spf13/cobra"

	"placement-ats/internal/ats/skillgap"
)

type skillGapOutput struct {
	skillgap.Report
	ApplicationStatus skillgap.Status `json:"application_status"`
}

func newSkillGapCmd() *cobra.Command {
	var skills, jobSkills, role string
	cmd := &cobra.Command{
		Use:   "skill-gap",
		Short: "Compare student skills with a job's required skills",
		RunE: func(cmd *cobra.Command, _ []string) error {
			required := splitList(jobSkills)
			if len(required) == 0 {
				return errors.New("--job-skills must list at least one skill")
			}
			student := splitList(skills)
			return writeJSON(cmd.OutOrStdout(), skillGapOutput{
				Report:            skillgap.New().Analyze(student, required, role),
				ApplicationStatus: skillgap.ApplicationStatus(student, required),
			})
		},
	}
	cmd.Flags().StringVar(&skills, "skills", "", "Comma-separated student skills")
	cmd.Flags().StringVar(&jobSkills, "job-skills", "", "Comma-separated required job skills")
	cmd.Flags().StringVar(&role, "role", "", "Target role for the learning path, e.g. backend")
	return cmd
}

package main

import (
	"errors"

	"github.com/spf13/cobra"

	"placement-ats/internal/ats/resumefeedback"
	"placement-ats/internal/ats/skillgap"
)

func newResumeFeedbackCmd() *cobra.Command {
	var resumePath, description, requirements, skills, jobSkills string
	cmd := &cobra.Command{
		Use:   "resume-feedback",
		Short: "Suggest keywords and improvements that target a resume at a job posting",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if resumePath == "" {
				return errors.New("--resume is required")
			}
			resume, err := loadResume(cmd.Context(), resumePath)
			if err != nil {
				return err
			}

			var missing []string
			if required := splitList(jobSkills); len(required) > 0 {
				missing = skillgap.New().Analyze(splitList(skills), required, "").MissingSkills
			}
			return writeJSON(cmd.OutOrStdout(), resumefeedback.New().Generate(resume.RawText, description, requirements, missing))
		},
	}
	cmd.Flags().StringVarP(&resumePath, "resume", "r", "", "Resume file (.json, .pdf, .docx or .txt)")
	cmd.Flags().StringVar(&description, "description", "", "Job description text")
	cmd.Flags().StringVar(&requirements, "requirements", "", "Job requirements text")
	cmd.Flags().StringVar(&skills, "skills", "", "Comma-separated student skills")
	cmd.Flags().StringVar(&jobSkills, "job-skills", "", "Comma-separated required job skills")
	return cmd
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"placement-ats/internal/ats"
	"placement-ats/internal/evaluations"
	"placement-ats/internal/extract"
	"placement-ats/internal/resumeparse"
)

type scoreOptions struct {
	jobFile     string
	resumeFile  string
	weights     string
	threshold   float64
	candidateID string
}

type scoreOutput struct {
	ATSResult ats.ATSResult          `json:"ats_result"`
	Feedback  *ats.RejectionFeedback `json:"feedback"`
	Message   string                 `json:"message"`
}

func newScoreCmd() *cobra.Command {
	opts := &scoreOptions{}
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score a resume against a job requirement",
		Long:  "Score a resume (pdf, docx, txt or ResumeData json) against a JobRequirement json file and print the result with feedback.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runScore(cmd, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.jobFile, "job", "j", "", "Path to JobRequirement JSON (required)")
	cmd.Flags().StringVarP(&opts.resumeFile, "resume", "r", "", "Path to resume file: .pdf, .docx, .txt or ResumeData .json (required)")
	cmd.Flags().StringVar(&opts.weights, "weights", os.Getenv("ATS_WEIGHTS"), "Component weights, e.g. skill=0.4,keyword=0.25,experience=0.15,education=0.1,format=0.1")
	cmd.Flags().Float64Var(&opts.threshold, "threshold", ats.DefaultReasonThreshold, "Sub-score below which a dimension is reported as a rejection reason")
	cmd.Flags().StringVar(&opts.candidateID, "candidate-id", "cli", "Candidate id recorded on the result")
	_ = cmd.MarkFlagRequired("job")
	_ = cmd.MarkFlagRequired("resume")
	return cmd
}

func runScore(cmd *cobra.Command, opts *scoreOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	job, err := loadJob(opts.jobFile)
	if err != nil {
		return err
	}
	resume, err := loadResume(ctx, opts.resumeFile)
	if err != nil {
		return err
	}

	weights, err := ats.ParseWeights(opts.weights)
	if err != nil {
		return err
	}
	engine, err := ats.NewEngine(weights)
	if err != nil {
		return err
	}
	screener := ats.Screener{Engine: engine, Feedback: ats.NewFeedbackGenerator(opts.threshold)}

	result, feedback, err := screener.Screen(opts.candidateID, resume, job)
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), scoreOutput{
		ATSResult: result,
		Feedback:  feedback,
		Message:   evaluations.Message(result, job),
	})
}

func loadJob(path string) (ats.JobRequirement, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ats.JobRequirement{}, fmt.Errorf("read job file: %w", err)
	}
	var job ats.JobRequirement
	if err := json.Unmarshal(data, &job); err != nil {
		return ats.JobRequirement{}, fmt.Errorf("parse job file: %w", err)
	}
	if err := ats.ValidateJob(job); err != nil {
		return ats.JobRequirement{}, err
	}
	return job, nil
}

func loadResume(ctx context.Context, path string) (ats.ResumeData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ats.ResumeData{}, fmt.Errorf("read resume file: %w", err)
	}

	if strings.EqualFold(filepath.Ext(path), ".json") {
		var resume ats.ResumeData
		if err := json.Unmarshal(data, &resume); err != nil {
			return ats.ResumeData{}, fmt.Errorf("parse resume file: %w", err)
		}
		if err := ats.ValidateResume(resume); err != nil {
			return ats.ResumeData{}, err
		}
		return resume, nil
	}

	text, err := extract.ExtractTextFromBytes(ctx, data, "", filepath.Base(path))
	if err != nil {
		return ats.ResumeData{}, fmt.Errorf("extract resume text: %w", err)
	}
	return resumeparse.Parse(text), nil
}

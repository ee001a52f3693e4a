package ats

import (
	"errors"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateJob checks the field constraints of a JobRequirement.
func ValidateJob(job JobRequirement) error {
	if job.MinimumATSScore != nil {
		v := *job.MinimumATSScore
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return invalidInput("minimum_ats_score", "must be a finite number")
		}
	}
	if err := validate.Struct(job); err != nil {
		return fromValidator(err)
	}
	return nil
}

// ValidateResume checks the field constraints of a ResumeData.
func ValidateResume(resume ResumeData) error {
	for _, exp := range resume.Experience {
		if math.IsNaN(exp.Years) || math.IsInf(exp.Years, 0) {
			return invalidInput("experience.years", "must be a finite number")
		}
	}
	if err := validate.Struct(resume); err != nil {
		return fromValidator(err)
	}
	return nil
}

func fromValidator(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &InvalidInputError{Field: "input", Reason: err.Error()}
	}
	first := verrs[0]
	field := jsonFieldName(first.Namespace())
	switch first.Tag() {
	case "required":
		return invalidInput(field, "is required")
	case "min", "gte":
		return invalidInput(field, "must be >= %s", first.Param())
	case "max", "lte":
		return invalidInput(field, "must be <= %s", first.Param())
	default:
		return invalidInput(field, "failed %s validation", first.Tag())
	}
}

// jsonFieldName drops the struct type prefix, e.g. "JobRequirement.job_title" -> "job_title".
func jsonFieldName(namespace string) string {
	if idx := strings.Index(namespace, "."); idx >= 0 {
		return namespace[idx+1:]
	}
	return namespace
}

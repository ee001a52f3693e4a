package s3

import (
	"fmt"
	"testing"

	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

func TestApplyPrefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		prefix string
		key    string
		want   string
	}{
		{name: "no prefix", prefix: "", key: "resumes/ab/resume.pdf", want: "resumes/ab/resume.pdf"},
		{name: "simple prefix", prefix: "root", key: "resumes/ab/resume.pdf", want: "root/resumes/ab/resume.pdf"},
		{name: "prefix trailing slash", prefix: "root/", key: "resumes/ab/resume.pdf", want: "root/resumes/ab/resume.pdf"},
		{name: "prefix and key slashes", prefix: "/root/", key: "/resumes/ab/resume.pdf", want: "root/resumes/ab/resume.pdf"},
		{name: "nested prefix", prefix: "root/sub", key: "resumes/ab/resume.pdf", want: "root/sub/resumes/ab/resume.pdf"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := applyPrefix(tt.prefix, tt.key); got != tt.want {
				t.Fatalf("applyPrefix(%q, %q) = %q, want %q", tt.prefix, tt.key, got, tt.want)
			}
		})
	}
}

func TestIsNotFound(t *testing.T) {
	t.Parallel()

	if !isNotFound(fmt.Errorf("wrapped: %w", &s3types.NoSuchKey{})) {
		t.Fatalf("expected NoSuchKey to map to not found")
	}
	if !isNotFound(&smithy.GenericAPIError{Code: "NotFound"}) {
		t.Fatalf("expected NotFound api error to map to not found")
	}
	if isNotFound(&smithy.GenericAPIError{Code: "AccessDenied"}) {
		t.Fatalf("AccessDenied is not a missing object")
	}
}

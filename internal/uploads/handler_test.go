package uploads

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"placement-ats/internal/shared/telemetry"
)

type fakePresigner struct {
	err   error
	input *s3.PutObjectInput
}

func (f *fakePresigner) PresignPutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &v4.PresignedHTTPRequest{URL: "https://bucket.s3.amazonaws.com/" + aws.ToString(params.Key), Method: http.MethodPut}, nil
}

func setup(p presigner, prefix string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	newHandler(p, "bucket", prefix).RegisterRoutes(r.Group("/ats"))
	return r
}

func postJSON(r http.Handler, body any) *httptest.ResponseRecorder {
	data, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, "/ats/uploads/presign", bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestPresignReturnsStoreKey(t *testing.T) {
	p := &fakePresigner{}
	r := setup(p, "/tenant-a/")

	w := postJSON(r, map[string]any{
		"file_name":    "Priya Resume.pdf",
		"content_type": "application/pdf",
		"size_bytes":   2048,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp presignResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, strings.HasPrefix(resp.ResumeFileKey, "resumes/"))
	assert.True(t, strings.HasSuffix(resp.ResumeFileKey, "/Priya Resume.pdf"))
	assert.Equal(t, "tenant-a/"+resp.ResumeFileKey, aws.ToString(p.input.Key))
	assert.Equal(t, "application/pdf", aws.ToString(p.input.ContentType))
	assert.EqualValues(t, 900, resp.ExpiresInSeconds)
}

func TestPresignValidation(t *testing.T) {
	restore := telemetry.SetOutput(&bytes.Buffer{})
	defer restore()
	r := setup(&fakePresigner{}, "")

	tests := []struct {
		name  string
		body  map[string]any
		field string
	}{
		{name: "missing name", body: map[string]any{"content_type": "application/pdf", "size_bytes": 1}, field: "file_name"},
		{name: "bad type", body: map[string]any{"file_name": "a.exe", "content_type": "application/x-msdownload", "size_bytes": 1}, field: "content_type"},
		{name: "too large", body: map[string]any{"file_name": "a.pdf", "content_type": "application/pdf", "size_bytes": maxUploadBytes + 1}, field: "size_bytes"},
		{name: "traversal", body: map[string]any{"file_name": "../etc/passwd", "content_type": "text/plain", "size_bytes": 1}, field: "file_name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(r, tt.body)
			require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			var env struct {
				Error struct {
					Details []map[string]string `json:"details"`
				} `json:"error"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
			require.NotEmpty(t, env.Error.Details)
			assert.Equal(t, tt.field, env.Error.Details[0]["field"])
		})
	}
}

func TestPresignFailure(t *testing.T) {
	restore := telemetry.SetOutput(&bytes.Buffer{})
	defer restore()
	r := setup(&fakePresigner{err: errors.New("no credentials")}, "")

	w := postJSON(r, map[string]any{"file_name": "a.pdf", "content_type": "application/pdf", "size_bytes": 10})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestPresignSignedHeadersExcludeContentLength(t *testing.T) {
	cfg := aws.Config{
		Region:      "us-east-1",
		Credentials: aws.NewCredentialsCache(credentials.NewStaticCredentialsProvider("AKID", "SECRET", "")),
	}
	presigner := s3.NewPresignClient(s3.NewFromConfig(cfg))

	out, err := presigner.PresignPutObject(context.Background(), presignInput("bucket", "resumes/abc/resume.pdf", "application/pdf"))
	if err != nil {
		t.Fatalf("presign: %v", err)
	}

	parsed, err := url.Parse(out.URL)
	if err != nil {
		t.Fatalf("parse url: %v", err)
	}

	signed := parsed.Query().Get("X-Amz-SignedHeaders")
	if signed == "" {
		t.Fatalf("expected X-Amz-SignedHeaders")
	}
	if strings.Contains(signed, "content-length") {
		t.Fatalf("unexpected content-length in signed headers: %s", signed)
	}
	if !strings.Contains(signed, "host") {
		t.Fatalf("expected host in signed headers: %s", signed)
	}
}

package bootstrap

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"placement-ats/internal/ats"
	"placement-ats/internal/evaluations"
	"placement-ats/internal/shared/config"
	"placement-ats/internal/shared/telemetry"
)

func TestBuildDevFallsBackToMemory(t *testing.T) {
	restore := telemetry.SetOutput(&bytes.Buffer{})
	defer restore()

	app, err := Build(context.Background(), config.Config{
		Env:                "dev",
		ObjectStoreType:    "memory",
		QueueBackend:       "none",
		RateLimitPerMinute: 60,
	}, Options{})
	require.NoError(t, err)
	defer app.Close()

	assert.Nil(t, app.DB)
	assert.Nil(t, app.Queue)
	assert.False(t, app.Cache.Enabled())
	require.NotNil(t, app.Router)
	assert.IsType(t, &evaluations.MemoryRepo{}, app.Evaluations.Repo)
	assert.Equal(t, ats.DefaultWeights(), app.Screener.Engine.Weights())

	body, _ := json.Marshal(map[string]any{
		"job_requirement": map[string]any{"job_title": "Data Analyst", "required_skills": []string{"SQL"}},
		"resume_text":     "Asha Rao\nasha@example.com\nSkills: SQL, Excel\nEducation\nB.Sc Statistics",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/ats/evaluate-json", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	app.Router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestBuildRequiresDatabaseOutsideDev(t *testing.T) {
	_, err := Build(context.Background(), config.Config{Env: "production", ObjectStoreType: "memory"}, Options{})
	assert.ErrorContains(t, err, "DATABASE_URL")
}

func TestBuildRejectsInvalidWeights(t *testing.T) {
	_, err := Build(context.Background(), config.Config{
		Env:             "dev",
		ObjectStoreType: "memory",
		ATSWeights:      ats.Weights{Skill: 2},
	}, Options{})
	assert.ErrorContains(t, err, "ats weights")
}

func TestBuildS3RequiresBucket(t *testing.T) {
	_, err := Build(context.Background(), config.Config{Env: "dev", ObjectStoreType: "s3"}, Options{})
	assert.ErrorContains(t, err, "S3_BUCKET")
}

func TestBuildSkipsRouterForWorker(t *testing.T) {
	app, err := Build(context.Background(), config.Config{Env: "local", ObjectStoreType: "memory", QueueBackend: "sqs"}, Options{SkipQueue: true, SkipRouter: true})
	require.NoError(t, err)
	assert.Nil(t, app.Router)
	assert.Nil(t, app.Queue)
}

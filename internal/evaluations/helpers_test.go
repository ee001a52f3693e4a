package evaluations

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"placement-ats/internal/ats"
	"placement-ats/internal/queue"
)

const sampleResume = `Asha Rao
asha.rao@example.com | +91 98765 43210 | github.com/asharao

Skills
Go, Python, PostgreSQL, Docker, REST API, Git

Experience
Backend Developer, Nimbus Labs - 2 years

Education
B.Tech in Computer Science, NIT Trichy, 2019 - 2023

Projects
- Inventory Tracker: REST API in Go handling 1000+ requests/day
`

func floatPtr(v float64) *float64 { return &v }

func intPtr(v int) *int { return &v }

// passingJob accepts any resume.
func passingJob() ats.JobRequirement {
	return ats.JobRequirement{
		JobTitle:        "Backend Engineer",
		RequiredSkills:  []string{"Go", "PostgreSQL"},
		PreferredSkills: []string{"Docker"},
		EducationLevel:  "bachelor",
		JobDescription:  "Build REST API services in Go backed by PostgreSQL.",
		MinimumATSScore: floatPtr(0),
	}
}

// failingJob no resume can reach.
func failingJob() ats.JobRequirement {
	return ats.JobRequirement{
		JobTitle:          "ML Engineer",
		RequiredSkills:    []string{"TensorFlow", "PyTorch", "Kubernetes"},
		EducationLevel:    "doctorate",
		YearsOfExperience: intPtr(8),
		Keywords:          []string{"deep learning", "computer vision"},
		MinimumATSScore:   floatPtr(100),
	}
}

func newTestService() *Service {
	return &Service{
		Repo: NewMemoryRepo(),
		Screener: ats.Screener{
			Engine:   ats.NewDefaultEngine(),
			Feedback: ats.NewFeedbackGenerator(ats.DefaultReasonThreshold),
		},
	}
}

type fakeCache struct {
	mu   sync.Mutex
	data map[string][]byte
	gets int
	hits int
	err  error
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string][]byte{}}
}

func (f *fakeCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	if f.err != nil {
		return false, f.err
	}
	b, ok := f.data[key]
	if !ok {
		return false, nil
	}
	f.hits++
	return true, json.Unmarshal(b, out)
}

func (f *fakeCache) SetJSON(_ context.Context, key string, value any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.data[key] = b
	return nil
}

type fakeQueue struct {
	mu   sync.Mutex
	sent []queue.Message
	fail bool
}

func (f *fakeQueue) Send(_ context.Context, msg queue.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("broker unavailable")
	}
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeQueue) messages() []queue.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]queue.Message(nil), f.sent...)
}

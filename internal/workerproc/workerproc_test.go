package workerproc

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"placement-ats/internal/evaluations"
)

type recordingProcessor struct {
	ids        []string
	requestIDs []string
	err        error
}

func (p *recordingProcessor) ProcessEvaluation(ctx context.Context, id string) error {
	p.ids = append(p.ids, id)
	p.requestIDs = append(p.requestIDs, evaluations.RequestIDFromContext(ctx))
	return p.err
}

func TestParseMessage(t *testing.T) {
	_, meta, err := ParseMessage("  ")
	var empty ErrEmptyBody
	require.ErrorAs(t, err, &empty)
	assert.Equal(t, 2, meta.BodyLen)

	_, meta, err = ParseMessage("{oops")
	var decode ErrDecode
	require.ErrorAs(t, err, &decode)
	assert.Len(t, meta.BodySHA, 64)

	_, _, err = ParseMessage(`{"requestId":"r-1"}`)
	var missing ErrMissingEvaluationID
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "r-1", missing.RequestID)

	msg, _, err := ParseMessage(`{"evaluationId":"e-1","requestId":"r-1","version":1}`)
	require.NoError(t, err)
	assert.Equal(t, "e-1", msg.EvaluationID)
}

func TestHandleMessageCallsProcessor(t *testing.T) {
	p := &recordingProcessor{}
	body := `{"evaluationId":"e-1","requestId":"r-1","version":1}`

	require.NoError(t, HandleMessage(context.Background(), p, body))
	assert.Equal(t, []string{"e-1"}, p.ids)
	assert.Equal(t, []string{"r-1"}, p.requestIDs)

	msg, _, err := ParseMessage(body)
	require.NoError(t, err)
	msg.EvaluationID = "e-2"
	require.NoError(t, HandleMessage(WithParsedMessage(context.Background(), msg), p, body))
	assert.Equal(t, "e-2", p.ids[1], "parsed message in context wins")
}

func TestHandleMessageWrapsProcessError(t *testing.T) {
	boom := errors.New("db down")
	p := &recordingProcessor{err: boom}

	err := HandleMessage(context.Background(), p, `{"evaluationId":"e-1"}`)
	var procErr ErrProcess
	require.ErrorAs(t, err, &procErr)
	assert.Equal(t, "e-1", procErr.EvaluationID)
	assert.ErrorIs(t, err, boom)
	assert.False(t, Unrecoverable(err))

	p.err = fmt.Errorf("lookup: %w", evaluations.ErrNotFound)
	err = HandleMessage(context.Background(), p, `{"evaluationId":"e-1"}`)
	assert.True(t, Unrecoverable(err))
}

func TestHandleMessageRejectsBadInput(t *testing.T) {
	assert.Error(t, HandleMessage(context.Background(), nil, `{"evaluationId":"e-1"}`))

	err := HandleMessage(context.Background(), &recordingProcessor{}, "")
	assert.True(t, Unrecoverable(err))

	err = HandleMessage(context.Background(), &recordingProcessor{}, `{"version":1}`)
	assert.True(t, Unrecoverable(err))
	assert.False(t, Unrecoverable(nil))
}

package checker

import (
	"context"
	"errors"
	"testing"

	"github.com/Alias1177/CrashSignal/internal/commentary"
	"github.com/Alias1177/CrashSignal/internal/history"
	"github.com/Alias1177/CrashSignal/internal/signal"
	"github.com/Alias1177/CrashSignal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const qualifying = "2,2,2,2,2,2,2,2,2,2,2,2,2,1.4,1.3,1.2,1.1,1.0,0.9,0.8"

type fakeExplainer struct {
	calls   int
	verdict string
}

func (f *fakeExplainer) Explain(_ context.Context, _ []float64, verdictText string) models.Commentary {
	f.calls++
	f.verdict = verdictText
	return models.Commentary{Status: models.CommentaryGenerated, Text: "Looks calm."}
}

type fakeJournal struct {
	records []models.CheckRecord
	err     error
}

func (f *fakeJournal) RecordCheck(_ context.Context, rec models.CheckRecord) error {
	f.records = append(f.records, rec)
	return f.err
}

type fakeObserver struct {
	verdicts   []models.VerdictKind
	rejected   []string
	commentary []string
	durations  int
}

func (f *fakeObserver) RecordVerdict(_ string, kind models.VerdictKind) {
	f.verdicts = append(f.verdicts, kind)
}

func (f *fakeObserver) RecordRejected(_, reason string) {
	f.rejected = append(f.rejected, reason)
}

func (f *fakeObserver) RecordCommentary(status string) {
	f.commentary = append(f.commentary, status)
}

func (f *fakeObserver) RecordDuration(string, float64) {
	f.durations++
}

func TestCheckSignal(t *testing.T) {
	exp := &fakeExplainer{}
	journal := &fakeJournal{}
	obs := &fakeObserver{}
	svc := New(signal.Default(), exp, WithJournal(journal), WithObserver(obs))

	out, err := svc.Check(context.Background(), SourceWeb, qualifying)
	require.NoError(t, err)
	assert.True(t, out.Verdict.IsSignal)
	assert.Equal(t, 7, out.Verdict.LowStreak)
	assert.Equal(t, "Looks calm.", out.Commentary.Text)
	assert.True(t, out.CommentaryShown())
	assert.Empty(t, out.Notice)
	assert.NotEmpty(t, out.ID)

	assert.Equal(t, 1, exp.calls)
	assert.Equal(t, out.Verdict.Message, exp.verdict)

	require.Len(t, journal.records, 1)
	rec := journal.records[0]
	assert.Equal(t, out.ID, rec.ID)
	assert.Equal(t, 20, rec.Rounds)
	assert.Equal(t, models.VerdictSignal, rec.Verdict)
	assert.Equal(t, models.CommentaryGenerated, rec.CommentaryStatus)

	assert.Equal(t, []models.VerdictKind{models.VerdictSignal}, obs.verdicts)
	assert.Equal(t, 1, obs.durations)
}

func TestCheckHighVarianceStillComments(t *testing.T) {
	exp := &fakeExplainer{}
	svc := New(signal.Default(), exp)

	out, err := svc.Check(context.Background(), SourceCLI, "2,2,2,2,2,9.0,2,2,2,2,2,2,2,1.4,1.3,1.2,1.1,1.0,0.9,0.8")
	require.NoError(t, err)
	assert.False(t, out.Verdict.IsSignal)
	assert.Contains(t, out.Verdict.Message, "High Variance Detected")
	assert.Equal(t, 1, exp.calls)
}

func TestCheckShortHistorySkipsCommentary(t *testing.T) {
	exp := &fakeExplainer{}
	obs := &fakeObserver{}
	svc := New(signal.Default(), exp, WithObserver(obs))

	out, err := svc.Check(context.Background(), SourceTelegram, "1.1 1.2 1.3")
	require.NoError(t, err)
	assert.Equal(t, models.VerdictInsufficientData, out.Verdict.Kind)
	assert.False(t, out.CommentaryShown())
	assert.Equal(t, "Need at least 20 rounds for full AI analysis.", out.Notice)
	assert.Zero(t, exp.calls)
	assert.Equal(t, []string{models.CommentarySkipped}, obs.commentary)
}

func TestCheckRejectsInput(t *testing.T) {
	exp := &fakeExplainer{}
	journal := &fakeJournal{}
	obs := &fakeObserver{}
	svc := New(signal.Default(), exp, WithJournal(journal), WithObserver(obs))

	_, err := svc.Check(context.Background(), SourceAPI, "1.2, x, 3")
	var perr *history.ParseError
	assert.True(t, errors.As(err, &perr))

	_, err = svc.Check(context.Background(), SourceAPI, "  ")
	assert.ErrorIs(t, err, history.ErrEmptyInput)

	assert.Zero(t, exp.calls)
	assert.Empty(t, journal.records)
	assert.Equal(t, []string{"parse", "empty"}, obs.rejected)
}

func TestCheckJournalFailureDoesNotBlock(t *testing.T) {
	journal := &fakeJournal{err: errors.New("db down")}
	svc := New(signal.Default(), &fakeExplainer{}, WithJournal(journal))

	out, err := svc.Check(context.Background(), SourceWeb, qualifying)
	require.NoError(t, err)
	assert.True(t, out.Verdict.IsSignal)
}

func TestCheckWithUnavailableCommentary(t *testing.T) {
	client := commentary.NewClient(func() (commentary.Generator, error) {
		return nil, commentary.ErrMissingCredential
	})
	svc := New(signal.Default(), client)

	out, err := svc.Check(context.Background(), SourceCLI, qualifying)
	require.NoError(t, err)
	assert.True(t, out.Verdict.IsSignal)
	assert.Equal(t, commentary.UnavailableMessage, out.Commentary.Text)
	assert.Equal(t, models.CommentaryUnavailable, out.Commentary.Status)
}

func TestCheckParsedNaNTailIsNotASignal(t *testing.T) {
	svc := New(signal.Default(), &fakeExplainer{})

	out, err := svc.Check(context.Background(), SourceWeb, "2 2 2 2 2 2 2 2 2 2 2 2 2 nan nan nan nan nan nan nan")
	require.NoError(t, err)
	assert.False(t, out.Verdict.IsSignal)
	assert.Equal(t, 0, out.Verdict.LowStreak)
	assert.Contains(t, out.Verdict.Message, "Low Streak NOT Ready")
}

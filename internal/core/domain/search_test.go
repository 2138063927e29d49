package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPathOutcome_Ok(t *testing.T) {
	outcome := Ok([]SearchResult{{Content: "a"}})

	assert.False(t, outcome.IsDegraded())
	assert.Len(t, outcome.Results, 1)
}

func TestPathOutcome_OkEmptyIsNotDegraded(t *testing.T) {
	outcome := Ok(nil)

	assert.False(t, outcome.IsDegraded())
	assert.Empty(t, outcome.Results)
}

func TestPathOutcome_Degraded(t *testing.T) {
	reason := errors.New("connection refused")
	outcome := Degraded(reason)

	assert.True(t, outcome.IsDegraded())
	assert.Nil(t, outcome.Results)
	assert.ErrorIs(t, outcome.Reason, reason)
}

func TestPathOutcome_DegradedNilReason(t *testing.T) {
	outcome := Degraded(nil)

	assert.True(t, outcome.IsDegraded())
	assert.ErrorIs(t, outcome.Reason, ErrIndexUnavailable)
}

func TestKeywordMode_IsValid(t *testing.T) {
	assert.True(t, KeywordModeSequence.IsValid())
	assert.True(t, KeywordModeAllTerms.IsValid())
	assert.False(t, KeywordMode("fuzzy").IsValid())
	assert.False(t, KeywordMode("").IsValid())
}

func TestIngestStage_IsTerminal(t *testing.T) {
	assert.True(t, StageDone.IsTerminal())
	assert.True(t, StageSkipped.IsTerminal())
	assert.True(t, StageFailed.IsTerminal())
	assert.False(t, StageChunking.IsTerminal())
	assert.False(t, StageIndexing.IsTerminal())
}

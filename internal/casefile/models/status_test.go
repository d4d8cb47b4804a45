package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCaseStatusTransitions(t *testing.T) {
	cases := []struct {
		from    CaseStatus
		to      CaseStatus
		allowed bool
	}{
		{CaseStatusDraft, CaseStatusInProgress, true},
		{CaseStatusDraft, CaseStatusPendingReview, true},
		{CaseStatusDraft, CaseStatusAwaitingAction, false},
		{CaseStatusDraft, CaseStatusClosed, false},
		{CaseStatusInProgress, CaseStatusPendingReview, true},
		{CaseStatusInProgress, CaseStatusDraft, false},
		{CaseStatusInProgress, CaseStatusClosed, false},
		{CaseStatusPendingReview, CaseStatusPendingReview, true},
		{CaseStatusPendingReview, CaseStatusAwaitingAction, true},
		{CaseStatusPendingReview, CaseStatusClosed, false},
		{CaseStatusAwaitingAction, CaseStatusPendingReview, true},
		{CaseStatusAwaitingAction, CaseStatusClosed, true},
		{CaseStatusAwaitingAction, CaseStatusEscalated, true},
		{CaseStatusAwaitingAction, CaseStatusInProgress, false},
		{CaseStatusClosed, CaseStatusPendingReview, false},
		{CaseStatusClosed, CaseStatusEscalated, false},
		{CaseStatusEscalated, CaseStatusClosed, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestCaseStatusTerminal(t *testing.T) {
	assert.True(t, CaseStatusClosed.IsTerminal())
	assert.True(t, CaseStatusEscalated.IsTerminal())
	assert.False(t, CaseStatusDraft.IsTerminal())
	assert.False(t, CaseStatusInProgress.IsTerminal())
	assert.False(t, CaseStatusPendingReview.IsTerminal())
	assert.False(t, CaseStatusAwaitingAction.IsTerminal())
}

func TestCaseStatusValid(t *testing.T) {
	assert.True(t, CaseStatusDraft.Valid())
	assert.False(t, CaseStatus("archived").Valid())
}

package lifecycle

import (
	"net/http"
	"testing"

	"github.com/doccheck/marketplace/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransition_HappyPath(t *testing.T) {
	path := []models.JobStatus{
		models.JobDraft,
		models.JobQuoted,
		models.JobPendingPayment,
		models.JobPaid,
		models.JobAssigned,
		models.JobInReview,
		models.JobRevisionRequested,
		models.JobInReview,
		models.JobCompleted,
	}

	for i := 1; i < len(path); i++ {
		assert.NoError(t, Transition(path[i-1], path[i]), "%s -> %s", path[i-1], path[i])
	}
}

func TestTransition_Rejected(t *testing.T) {
	testCases := []struct {
		name string
		from models.JobStatus
		to   models.JobStatus
	}{
		{name: "draft cannot be paid", from: models.JobDraft, to: models.JobPaid},
		{name: "quoted cannot skip payment", from: models.JobQuoted, to: models.JobPaid},
		{name: "paid cannot go back to quoted", from: models.JobPaid, to: models.JobQuoted},
		{name: "assigned cannot complete", from: models.JobAssigned, to: models.JobCompleted},
		{name: "revision cannot complete", from: models.JobRevisionRequested, to: models.JobCompleted},
		{name: "unknown source", from: "archived", to: models.JobDraft},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := Transition(tc.from, tc.to)

			require.Error(t, err)
			var transitionErr *InvalidTransitionError
			require.ErrorAs(t, err, &transitionErr)
			assert.Equal(t, tc.from, transitionErr.From)
			assert.Equal(t, tc.to, transitionErr.To)
			assert.Equal(t, http.StatusConflict, transitionErr.GetHTTPCode())
		})
	}
}

func TestTransition_TerminalStatesAcceptNothing(t *testing.T) {
	for _, terminal := range []models.JobStatus{models.JobCompleted, models.JobCancelled} {
		assert.True(t, IsTerminal(terminal))
		for _, to := range models.AllJobStatuses {
			assert.Error(t, Transition(terminal, to), "%s -> %s", terminal, to)
		}
	}
}

func TestTransition_EveryStatusHasRules(t *testing.T) {
	for _, status := range models.AllJobStatuses {
		_, ok := transitions[status]
		assert.True(t, ok, "missing rules for %s", status)
	}
}

func TestAllowed_ReturnsCopy(t *testing.T) {
	next := Allowed(models.JobDraft)
	require.Len(t, next, 2)

	next[0] = models.JobCompleted
	assert.NoError(t, Transition(models.JobDraft, models.JobQuoted))
	assert.False(t, IsTerminal(models.JobDraft))
}

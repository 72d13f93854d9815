package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition_CommonTable(t *testing.T) {
	for _, requestType := range []RequestType{RentalRequest, ConstructionRequest, RenovationRequest} {
		assert.True(t, requestType.CanTransition(StatusPending, StatusAccepted))
		assert.True(t, requestType.CanTransition(StatusPending, StatusRejected))
		assert.True(t, requestType.CanTransition(StatusPending, StatusConfirmed))
		assert.True(t, requestType.CanTransition(StatusConfirmed, StatusAccepted))
		assert.True(t, requestType.CanTransition(StatusAccepted, StatusPaid))
		assert.True(t, requestType.CanTransition(StatusAccepted, StatusInProgress))
		assert.True(t, requestType.CanTransition(StatusPaid, StatusCompleted))
		assert.True(t, requestType.CanTransition(StatusInProgress, StatusCompleted))

		assert.False(t, requestType.CanTransition(StatusPending, StatusCompleted))
		assert.False(t, requestType.CanTransition(StatusPending, StatusPaid))
		assert.False(t, requestType.CanTransition(StatusAccepted, StatusPending))
	}
}

func TestCanTransition_CancelOnlyForBuySell(t *testing.T) {
	assert.True(t, BuySellRequest.CanTransition(StatusAccepted, StatusCancelled))

	assert.False(t, RentalRequest.CanTransition(StatusAccepted, StatusCancelled))
	assert.False(t, ConstructionRequest.CanTransition(StatusAccepted, StatusCancelled))
	assert.False(t, RenovationRequest.CanTransition(StatusAccepted, StatusCancelled))

	// Cancelled is only reachable from Accepted, even for buy/sell.
	assert.False(t, BuySellRequest.CanTransition(StatusPending, StatusCancelled))
	assert.False(t, BuySellRequest.CanTransition(StatusPaid, StatusCancelled))
}

func TestCanTransition_TerminalStatusesHaveNoExits(t *testing.T) {
	all := []RequestStatus{
		StatusPending, StatusAccepted, StatusRejected, StatusConfirmed,
		StatusPaid, StatusInProgress, StatusCompleted, StatusCancelled,
	}
	for _, requestType := range []RequestType{RentalRequest, BuySellRequest, ConstructionRequest, RenovationRequest} {
		for _, terminal := range []RequestStatus{StatusCompleted, StatusRejected, StatusCancelled} {
			for _, to := range all {
				assert.False(t, requestType.CanTransition(terminal, to),
					"%s should not leave %s for %s", requestType, terminal, to)
			}
		}
	}
}

func TestCanTransition_UnknownType(t *testing.T) {
	assert.False(t, RequestType("landscaping").CanTransition(StatusPending, StatusAccepted))
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusRejected.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())

	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusAccepted.IsTerminal())
	assert.False(t, StatusConfirmed.IsTerminal())
	assert.False(t, StatusPaid.IsTerminal())
	assert.False(t, StatusInProgress.IsTerminal())
}

func TestNoticeFor(t *testing.T) {
	assert.Equal(t, ToneSuccess, NoticeFor(StatusAccepted).Tone)
	assert.Equal(t, ToneError, NoticeFor(StatusRejected).Tone)
	assert.Equal(t, ToneInfo, NoticeFor(StatusInProgress).Tone)
	assert.NotEmpty(t, NoticeFor(StatusPaid).Fragment)
}

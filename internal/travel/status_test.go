package travel

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeStatus(t *testing.T) {
	require.Equal(t, StatusPending, NormalizeStatus(""))
	require.Equal(t, StatusPending, NormalizeStatus("  pending "))
	require.Equal(t, StatusCommandIssued, NormalizeStatus("APPROVED"))
	require.Equal(t, StatusSentForSignature, NormalizeStatus("sent"))
	require.Equal(t, StatusReturned, NormalizeStatus("returned-for-correction"))
	require.Equal(t, StatusUnknown, NormalizeStatus("SOMETHING_ELSE"))
}

func TestHappyPathTransitions(t *testing.T) {
	path := []Status{
		StatusPending, StatusCommandIssued, StatusDispatchIssued,
		StatusSentForSignature, StatusCompleted,
	}
	for i := 0; i < len(path)-1; i++ {
		require.True(t, path[i].CanTransition(path[i+1]), "%s -> %s", path[i], path[i+1])
	}
}

func TestNoSkippingStates(t *testing.T) {
	require.False(t, StatusPending.CanTransition(StatusDispatchIssued))
	require.False(t, StatusPending.CanTransition(StatusCompleted))
	require.False(t, StatusCommandIssued.CanTransition(StatusSentForSignature))
	require.False(t, StatusCompleted.CanTransition(StatusPending))
}

func TestReturnForCorrectionReachableEverywhere(t *testing.T) {
	for _, s := range []Status{
		StatusPending, StatusCommandIssued, StatusDispatchIssued,
		StatusSentForSignature, StatusCompleted, StatusUnknown,
	} {
		require.True(t, s.CanTransition(StatusReturned), "from %s", s)
	}
}

func TestReturnedResubmitsToPending(t *testing.T) {
	require.True(t, StatusReturned.CanTransition(StatusPending))
	require.False(t, StatusReturned.CanTransition(StatusCommandIssued))
}

func TestUnknownOnlyReturnable(t *testing.T) {
	require.False(t, StatusUnknown.CanTransition(StatusCommandIssued))
	require.False(t, StatusUnknown.CanTransition(StatusCompleted))
	require.True(t, StatusUnknown.CanTransition(StatusReturned))
}

func TestEditable(t *testing.T) {
	require.True(t, StatusPending.Editable())
	require.True(t, StatusReturned.Editable())
	require.False(t, StatusCommandIssued.Editable())
	require.False(t, StatusCompleted.Editable())
	require.False(t, StatusUnknown.Editable())
}

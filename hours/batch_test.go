package hours

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

// batchHandler scripts a per-attendee outcome for commitment/new.
func batchHandler(t *testing.T, outcomes map[int64]Code) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/innexgo_hours/commitment/new", r.URL.Path)

		var props CommitmentNewProps
		require.NoError(t, json.NewDecoder(r.Body).Decode(&props))

		code, ok := outcomes[props.AttendeeUserID]
		if !ok || code == CodeOK {
			_ = json.NewEncoder(w).Encode(Commitment{
				CommitmentID:   props.AttendeeUserID * 100,
				AttendeeUserID: props.AttendeeUserID,
				Session:        Session{SessionID: props.SessionID},
			})
			return
		}
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(string(code))
	}
}

func TestClient_CommitmentNewBatch(t *testing.T) {
	srv := httptest.NewServer(batchHandler(t, map[int64]Code{
		2: CodeCommitmentExistent,
		3: CodeCourseMembershipNonexistent,
	}))
	defer srv.Close()
	client := NewClient(Options{BaseURL: srv.URL})

	results, err := client.CommitmentNewBatch(context.Background(), 7, []int64{1, 2, 3, 4}, "key")
	require.NoError(t, err)
	require.Len(t, results, 4)

	require.Equal(t, CodeOK, results[0].Code)
	require.NotNil(t, results[0].Commitment)
	require.Equal(t, int64(1), results[0].Commitment.AttendeeUserID)

	// a duplicate is a skip, not a failure, and the batch continues
	require.Equal(t, CodeCommitmentExistent, results[1].Code)
	require.Nil(t, results[1].Commitment)

	// a per-item failure is recorded and the batch continues
	require.Equal(t, CodeCourseMembershipNonexistent, results[2].Code)

	require.Equal(t, CodeOK, results[3].Code)
}

func TestClient_CommitmentNewBatch_abortsOnAuthFailure(t *testing.T) {
	srv := httptest.NewServer(batchHandler(t, map[int64]Code{
		2: CodeAPIKeyUnauthorized,
	}))
	defer srv.Close()
	client := NewClient(Options{BaseURL: srv.URL})

	results, err := client.CommitmentNewBatch(context.Background(), 7, []int64{1, 2, 3}, "key")
	require.Error(t, err)
	require.Equal(t, CodeAPIKeyUnauthorized, CodeOf(err))
	// attendee 3 is never attempted; every remaining item would fail the same way
	require.Len(t, results, 2)
	require.Equal(t, CodeOK, results[0].Code)
	require.Equal(t, CodeAPIKeyUnauthorized, results[1].Code)
}

func TestClient_CommitmentNewBatch_cancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var props CommitmentNewProps
		_ = json.NewDecoder(r.Body).Decode(&props)
		cancel() // cancel after the first item lands
		_ = json.NewEncoder(w).Encode(Commitment{AttendeeUserID: props.AttendeeUserID})
	}))
	defer srv.Close()
	client := NewClient(Options{BaseURL: srv.URL})

	results, err := client.CommitmentNewBatch(ctx, 7, []int64{1, 2, 3}, "key")
	require.Error(t, err)
	require.Equal(t, CodeNetwork, CodeOf(err))
	require.Len(t, results, 1)
}

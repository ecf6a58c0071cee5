package hours

import "context"

// CommitmentBatchResult is the per-attendee outcome of a bulk commitment
// creation. Code is CodeOK when a commitment was created,
// CodeCommitmentExistent when the attendee was already committed (a skip,
// not a failure), or the failure code otherwise.
type CommitmentBatchResult struct {
	AttendeeUserID int64
	Commitment     *Commitment
	Code           Code
}

// CommitmentNewBatch commits every attendee to the session, sequentially.
// The partial-failure contract:
//
//   - COMMITMENT_EXISTENT is recorded as a skip and the batch continues;
//   - API_KEY_NONEXISTENT and API_KEY_UNAUTHORIZED abort the batch, since
//     every remaining item would fail the same way; the results so far are
//     returned alongside the error;
//   - any other per-item failure is recorded and the batch continues.
//
// A ctx cancellation also aborts, surfacing the in-flight item's NETWORK
// error.
func (c *Client) CommitmentNewBatch(ctx context.Context, sessionID int64, attendeeUserIDs []int64, apiKey string) ([]CommitmentBatchResult, error) {
	results := make([]CommitmentBatchResult, 0, len(attendeeUserIDs))
	for _, userID := range attendeeUserIDs {
		com, err := c.CommitmentNew(ctx, CommitmentNewProps{
			AttendeeUserID: userID,
			SessionID:      sessionID,
			APIKey:         apiKey,
		})
		code := CodeOf(err)
		res := CommitmentBatchResult{AttendeeUserID: userID, Code: code}
		if err == nil {
			res.Commitment = &com
		}
		results = append(results, res)

		switch code {
		case CodeAPIKeyNonexistent, CodeAPIKeyUnauthorized:
			return results, err
		}
		if err := ctx.Err(); err != nil {
			return results, newNetworkError(err)
		}
	}
	return results, nil
}

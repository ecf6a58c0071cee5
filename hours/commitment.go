package hours

import "context"

// Commitment is a specific user's obligation to attend a given session.
// Immutable; the attendance outcome lives in CommitmentResponse.
type Commitment struct {
	CommitmentID   int64   `json:"commitmentId"`
	CreationTime   int64   `json:"creationTime"`
	CreatorUserID  int64   `json:"creatorUserId"`
	AttendeeUserID int64   `json:"attendeeUserId"`
	Session        Session `json:"session"`
}

// CommitmentResponseKind is the attendance outcome of a commitment.
type CommitmentResponseKind string

const (
	CommitmentResponseKindPresent   CommitmentResponseKind = "PRESENT"
	CommitmentResponseKindTardy     CommitmentResponseKind = "TARDY"
	CommitmentResponseKindAbsent    CommitmentResponseKind = "ABSENT"
	CommitmentResponseKindCancelled CommitmentResponseKind = "CANCELLED"
)

// CommitmentResponse records attendance for a commitment. At most one per
// commitment; attendance cannot be taken before the session starts.
type CommitmentResponse struct {
	Commitment    Commitment             `json:"commitment"`
	CreationTime  int64                  `json:"creationTime"`
	CreatorUserID int64                  `json:"creatorUserId"`
	Kind          CommitmentResponseKind `json:"kind"`
}

type CommitmentNewProps struct {
	AttendeeUserID int64  `json:"attendeeUserId" validate:"required"`
	SessionID      int64  `json:"sessionId" validate:"required"`
	APIKey         string `json:"apiKey" validate:"required"`
}

type CommitmentViewProps struct {
	CommitmentID    []int64 `json:"commitmentId,omitempty"`
	MinCreationTime *int64  `json:"minCreationTime,omitempty"`
	MaxCreationTime *int64  `json:"maxCreationTime,omitempty"`
	CreatorUserID   []int64 `json:"creatorUserId,omitempty"`
	AttendeeUserID  []int64 `json:"attendeeUserId,omitempty"`
	SessionID       []int64 `json:"sessionId,omitempty"`
	CourseID        []int64 `json:"courseId,omitempty"`
	// Responded filters commitments by whether attendance was taken yet.
	Responded *bool  `json:"responded,omitempty"`
	Offset    *int64 `json:"offset,omitempty"`
	Count     *int64 `json:"count,omitempty"`
	APIKey    string `json:"apiKey" validate:"required"`
}

type CommitmentResponseNewProps struct {
	CommitmentID int64                  `json:"commitmentId" validate:"required"`
	Kind         CommitmentResponseKind `json:"kind" validate:"required,oneof=PRESENT TARDY ABSENT CANCELLED"`
	APIKey       string                 `json:"apiKey" validate:"required"`
}

type CommitmentResponseViewProps struct {
	CommitmentID    []int64                  `json:"commitmentId,omitempty"`
	MinCreationTime *int64                   `json:"minCreationTime,omitempty"`
	MaxCreationTime *int64                   `json:"maxCreationTime,omitempty"`
	CreatorUserID   []int64                  `json:"creatorUserId,omitempty"`
	AttendeeUserID  []int64                  `json:"attendeeUserId,omitempty"`
	SessionID       []int64                  `json:"sessionId,omitempty"`
	CourseID        []int64                  `json:"courseId,omitempty"`
	Kind            []CommitmentResponseKind `json:"kind,omitempty"`
	Offset          *int64                   `json:"offset,omitempty"`
	Count           *int64                   `json:"count,omitempty"`
	APIKey          string                   `json:"apiKey" validate:"required"`
}

// CommitmentNew commits an attendee to a session. Creating a commitment
// that already exists yields COMMITMENT_EXISTENT; bulk flows treat that as
// a skip (see CommitmentNewBatch).
func (c *Client) CommitmentNew(ctx context.Context, props CommitmentNewProps) (Commitment, error) {
	var com Commitment
	err := c.post(ctx, "commitment", opNew, props, &com)
	return com, err
}

func (c *Client) CommitmentView(ctx context.Context, props CommitmentViewProps) ([]Commitment, error) {
	var out []Commitment
	err := c.post(ctx, "commitment", opView, props, &out)
	return out, err
}

// CommitmentResponseNew takes attendance for a commitment.
func (c *Client) CommitmentResponseNew(ctx context.Context, props CommitmentResponseNewProps) (CommitmentResponse, error) {
	var resp CommitmentResponse
	err := c.post(ctx, "commitmentResponse", opNew, props, &resp)
	return resp, err
}

func (c *Client) CommitmentResponseView(ctx context.Context, props CommitmentResponseViewProps) ([]CommitmentResponse, error) {
	var out []CommitmentResponse
	err := c.post(ctx, "commitmentResponse", opView, props, &out)
	return out, err
}

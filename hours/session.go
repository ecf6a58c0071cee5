package hours

import "context"

// Session is the immutable identity record of a scheduled block tied to a
// course.
type Session struct {
	SessionID     int64  `json:"sessionId"`
	CreationTime  int64  `json:"creationTime"`
	CreatorUserID int64  `json:"creatorUserId"`
	Course        Course `json:"course"`
}

// SessionData is an append-only edit snapshot of a Session. Cancelling a
// session is a new snapshot with Active false.
type SessionData struct {
	SessionDataID int64   `json:"sessionDataId"`
	CreationTime  int64   `json:"creationTime"`
	CreatorUserID int64   `json:"creatorUserId"`
	Session       Session `json:"session"`
	Name          string  `json:"name"`
	StartTime     int64   `json:"startTime"`
	Duration      int64   `json:"duration"`
	LocationID    *int64  `json:"locationId,omitempty"`
	Active        bool    `json:"active"`
}

// SessionRequest is a student's proposal for a session, awaiting an
// instructor's response. Immutable; the outcome lives in
// SessionRequestResponse.
type SessionRequest struct {
	SessionRequestID int64  `json:"sessionRequestId"`
	CreationTime     int64  `json:"creationTime"`
	CreatorUserID    int64  `json:"creatorUserId"`
	Course           Course `json:"course"`
	AttendeeUserID   int64  `json:"attendeeUserId"`
	StartTime        int64  `json:"startTime"`
	Duration         int64  `json:"duration"`
	Message          string `json:"message"`
}

// SessionRequestResponse is the accept/reject outcome of a SessionRequest.
// At most one per request; acceptance links the Commitment it produced.
type SessionRequestResponse struct {
	SessionRequest SessionRequest `json:"sessionRequest"`
	CreationTime   int64          `json:"creationTime"`
	CreatorUserID  int64          `json:"creatorUserId"`
	Message        string         `json:"message"`
	Accepted       bool           `json:"accepted"`
	Commitment     *Commitment    `json:"commitment,omitempty"`
}

type SessionNewProps struct {
	CourseID   int64  `json:"courseId" validate:"required"`
	Name       string `json:"name" validate:"omitempty,entityname"`
	StartTime  int64  `json:"startTime" validate:"required"`
	Duration   int64  `json:"duration" validate:"required"`
	LocationID *int64 `json:"locationId,omitempty"`
	APIKey     string `json:"apiKey" validate:"required"`
}

type SessionDataNewProps struct {
	SessionID  int64  `json:"sessionId" validate:"required"`
	Name       string `json:"name" validate:"omitempty,entityname"`
	StartTime  int64  `json:"startTime" validate:"required"`
	Duration   int64  `json:"duration" validate:"required"`
	LocationID *int64 `json:"locationId,omitempty"`
	Active     bool   `json:"active"`
	APIKey     string `json:"apiKey" validate:"required"`
}

type SessionViewProps struct {
	SessionID       []int64 `json:"sessionId,omitempty"`
	MinCreationTime *int64  `json:"minCreationTime,omitempty"`
	MaxCreationTime *int64  `json:"maxCreationTime,omitempty"`
	CreatorUserID   []int64 `json:"creatorUserId,omitempty"`
	CourseID        []int64 `json:"courseId,omitempty"`
	Offset          *int64  `json:"offset,omitempty"`
	Count           *int64  `json:"count,omitempty"`
	APIKey          string  `json:"apiKey" validate:"required"`
}

type SessionDataViewProps struct {
	SessionDataID   []int64 `json:"sessionDataId,omitempty"`
	MinCreationTime *int64  `json:"minCreationTime,omitempty"`
	MaxCreationTime *int64  `json:"maxCreationTime,omitempty"`
	CreatorUserID   []int64 `json:"creatorUserId,omitempty"`
	SessionID       []int64 `json:"sessionId,omitempty"`
	CourseID        []int64 `json:"courseId,omitempty"`
	MinStartTime    *int64  `json:"minStartTime,omitempty"`
	MaxStartTime    *int64  `json:"maxStartTime,omitempty"`
	LocationID      []int64 `json:"locationId,omitempty"`
	PartialName     *string `json:"partialName,omitempty"`
	Active          *bool   `json:"active,omitempty"`
	OnlyRecent      bool    `json:"onlyRecent"`
	Offset          *int64  `json:"offset,omitempty"`
	Count           *int64  `json:"count,omitempty"`
	APIKey          string  `json:"apiKey" validate:"required"`
}

type SessionRequestNewProps struct {
	CourseID  int64  `json:"courseId" validate:"required"`
	StartTime int64  `json:"startTime" validate:"required"`
	Duration  int64  `json:"duration" validate:"required"`
	Message   string `json:"message"`
	APIKey    string `json:"apiKey" validate:"required"`
}

type SessionRequestViewProps struct {
	SessionRequestID []int64 `json:"sessionRequestId,omitempty"`
	MinCreationTime  *int64  `json:"minCreationTime,omitempty"`
	MaxCreationTime  *int64  `json:"maxCreationTime,omitempty"`
	CreatorUserID    []int64 `json:"creatorUserId,omitempty"`
	AttendeeUserID   []int64 `json:"attendeeUserId,omitempty"`
	CourseID         []int64 `json:"courseId,omitempty"`
	MinStartTime     *int64  `json:"minStartTime,omitempty"`
	MaxStartTime     *int64  `json:"maxStartTime,omitempty"`
	// Responded filters requests by whether a response exists yet.
	Responded *bool  `json:"responded,omitempty"`
	Offset    *int64 `json:"offset,omitempty"`
	Count     *int64 `json:"count,omitempty"`
	APIKey    string `json:"apiKey" validate:"required"`
}

type SessionRequestResponseNewProps struct {
	SessionRequestID int64  `json:"sessionRequestId" validate:"required"`
	Message          string `json:"message"`
	Accepted         bool   `json:"accepted"`
	// SessionID hosts the resulting commitment on acceptance.
	SessionID *int64 `json:"sessionId,omitempty"`
	APIKey    string `json:"apiKey" validate:"required"`
}

type SessionRequestResponseViewProps struct {
	SessionRequestID []int64 `json:"sessionRequestId,omitempty"`
	MinCreationTime  *int64  `json:"minCreationTime,omitempty"`
	MaxCreationTime  *int64  `json:"maxCreationTime,omitempty"`
	CreatorUserID    []int64 `json:"creatorUserId,omitempty"`
	AttendeeUserID   []int64 `json:"attendeeUserId,omitempty"`
	CourseID         []int64 `json:"courseId,omitempty"`
	Accepted         *bool   `json:"accepted,omitempty"`
	Offset           *int64  `json:"offset,omitempty"`
	Count            *int64  `json:"count,omitempty"`
	APIKey           string  `json:"apiKey" validate:"required"`
}

func (c *Client) SessionNew(ctx context.Context, props SessionNewProps) (SessionData, error) {
	var data SessionData
	err := c.post(ctx, "session", opNew, props, &data)
	return data, err
}

func (c *Client) SessionView(ctx context.Context, props SessionViewProps) ([]Session, error) {
	var out []Session
	err := c.post(ctx, "session", opView, props, &out)
	return out, err
}

func (c *Client) SessionDataNew(ctx context.Context, props SessionDataNewProps) (SessionData, error) {
	var data SessionData
	err := c.post(ctx, "sessionData", opNew, props, &data)
	return data, err
}

func (c *Client) SessionDataView(ctx context.Context, props SessionDataViewProps) ([]SessionData, error) {
	var out []SessionData
	err := c.post(ctx, "sessionData", opView, props, &out)
	return out, err
}

// SessionRequestNew proposes a session; the caller is the attendee.
func (c *Client) SessionRequestNew(ctx context.Context, props SessionRequestNewProps) (SessionRequest, error) {
	var req SessionRequest
	err := c.post(ctx, "sessionRequest", opNew, props, &req)
	return req, err
}

func (c *Client) SessionRequestView(ctx context.Context, props SessionRequestViewProps) ([]SessionRequest, error) {
	var out []SessionRequest
	err := c.post(ctx, "sessionRequest", opView, props, &out)
	return out, err
}

// SessionRequestResponseNew accepts or rejects a pending request. On
// acceptance the server creates the attendee's Commitment against the
// session named in props and returns it embedded in the response.
func (c *Client) SessionRequestResponseNew(ctx context.Context, props SessionRequestResponseNewProps) (SessionRequestResponse, error) {
	var resp SessionRequestResponse
	err := c.post(ctx, "sessionRequestResponse", opNew, props, &resp)
	return resp, err
}

func (c *Client) SessionRequestResponseView(ctx context.Context, props SessionRequestResponseViewProps) ([]SessionRequestResponse, error) {
	var out []SessionRequestResponse
	err := c.post(ctx, "sessionRequestResponse", opView, props, &out)
	return out, err
}

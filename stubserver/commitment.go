package stubserver

import "github.com/innexgo/hours-go/hours"

// commitmentNewLocked inserts a commitment; shared by CommitmentNew and
// session-request acceptance. Must be called with db.mu held for writing.
func (db *DB) commitmentNewLocked(key hours.APIKey, attendeeUserID int64, session hours.Session) (hours.Commitment, error) {
	for _, c := range db.commitments {
		if c.AttendeeUserID == attendeeUserID && c.Session.SessionID == session.SessionID {
			return hours.Commitment{}, fail(hours.CodeCommitmentExistent)
		}
	}
	com := hours.Commitment{
		CommitmentID:   db.nextID(),
		CreationTime:   nowMillis(),
		CreatorUserID:  key.CreatorUserID,
		AttendeeUserID: attendeeUserID,
		Session:        session,
	}
	db.commitments[com.CommitmentID] = com
	return com, nil
}

func (db *DB) CommitmentNew(props hours.CommitmentNewProps) (hours.Commitment, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	key, err := db.auth(props.APIKey)
	if err != nil {
		return hours.Commitment{}, err
	}
	session, ok := db.sessions[props.SessionID]
	if !ok {
		return hours.Commitment{}, fail(hours.CodeSessionNonexistent)
	}
	if data, ok := db.recentSessionData(session.SessionID); ok && !data.Active {
		return hours.Commitment{}, fail(hours.CodeSessionNonexistent)
	}
	// students may only commit themselves
	if props.AttendeeUserID != key.CreatorUserID && !db.canManageCourse(key.CreatorUserID, session.Course) {
		return hours.Commitment{}, fail(hours.CodeCommitmentCannotCreateForOthers)
	}
	if _, ok := db.membershipKind(props.AttendeeUserID, session.Course.CourseID); !ok {
		return hours.Commitment{}, fail(hours.CodeCourseMembershipNonexistent)
	}
	return db.commitmentNewLocked(key, props.AttendeeUserID, session)
}

func (db *DB) CommitmentView(props hours.CommitmentViewProps) ([]hours.Commitment, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if _, err := db.auth(props.APIKey); err != nil {
		return nil, err
	}
	var out []hours.Commitment
	for _, c := range db.commitments {
		if matchIn(props.CommitmentID, c.CommitmentID) &&
			matchRange(props.MinCreationTime, props.MaxCreationTime, c.CreationTime) &&
			matchIn(props.CreatorUserID, c.CreatorUserID) &&
			matchIn(props.AttendeeUserID, c.AttendeeUserID) &&
			matchIn(props.SessionID, c.Session.SessionID) &&
			matchIn(props.CourseID, c.Session.Course.CourseID) &&
			matchBool(props.Responded, db.hasCommitmentResponse(c.CommitmentID)) {
			out = append(out, c)
		}
	}
	sortByTime(out, func(c hours.Commitment) int64 { return c.CreationTime })
	return window(out, props.Offset, props.Count), nil
}

// hasCommitmentResponse must be called with db.mu held.
func (db *DB) hasCommitmentResponse(commitmentID int64) bool {
	for _, r := range db.commitmentResponses {
		if r.Commitment.CommitmentID == commitmentID {
			return true
		}
	}
	return false
}

// CommitmentResponseNew records attendance. Instructors/admins may record
// any kind once the session has started; attendees may only CANCEL their
// own commitment, and only before the session starts.
func (db *DB) CommitmentResponseNew(props hours.CommitmentResponseNewProps) (hours.CommitmentResponse, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	key, err := db.auth(props.APIKey)
	if err != nil {
		return hours.CommitmentResponse{}, err
	}
	com, ok := db.commitments[props.CommitmentID]
	if !ok {
		return hours.CommitmentResponse{}, fail(hours.CodeCommitmentNonexistent)
	}
	if db.hasCommitmentResponse(com.CommitmentID) {
		return hours.CommitmentResponse{}, fail(hours.CodeCommitmentResponseExistent)
	}

	startTime := int64(0)
	if data, ok := db.recentSessionData(com.Session.SessionID); ok {
		startTime = data.StartTime
	}
	now := nowMillis()

	if db.canManageCourse(key.CreatorUserID, com.Session.Course) {
		// attendance cannot be taken for a session that has not started
		if props.Kind != hours.CommitmentResponseKindCancelled && now < startTime {
			return hours.CommitmentResponse{}, fail(hours.CodeCannotAlterPast)
		}
	} else if key.CreatorUserID == com.AttendeeUserID {
		if props.Kind != hours.CommitmentResponseKindCancelled {
			return hours.CommitmentResponse{}, fail(hours.CodeCommitmentResponseCannotCreateForOthers)
		}
		if now >= startTime {
			return hours.CommitmentResponse{}, fail(hours.CodeCommitmentResponseUncancellable)
		}
	} else {
		return hours.CommitmentResponse{}, fail(hours.CodeCommitmentResponseCannotCreateForOthers)
	}

	resp := hours.CommitmentResponse{
		Commitment:    com,
		CreationTime:  now,
		CreatorUserID: key.CreatorUserID,
		Kind:          props.Kind,
	}
	db.commitmentResponses = append(db.commitmentResponses, resp)
	return resp, nil
}

func (db *DB) CommitmentResponseView(props hours.CommitmentResponseViewProps) ([]hours.CommitmentResponse, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if _, err := db.auth(props.APIKey); err != nil {
		return nil, err
	}
	var out []hours.CommitmentResponse
	for _, r := range db.commitmentResponses {
		if matchIn(props.CommitmentID, r.Commitment.CommitmentID) &&
			matchRange(props.MinCreationTime, props.MaxCreationTime, r.CreationTime) &&
			matchIn(props.CreatorUserID, r.CreatorUserID) &&
			matchIn(props.AttendeeUserID, r.Commitment.AttendeeUserID) &&
			matchIn(props.SessionID, r.Commitment.Session.SessionID) &&
			matchIn(props.CourseID, r.Commitment.Session.Course.CourseID) &&
			matchIn(props.Kind, r.Kind) {
			out = append(out, r)
		}
	}
	sortByTime(out, func(r hours.CommitmentResponse) int64 { return r.CreationTime })
	return window(out, props.Offset, props.Count), nil
}

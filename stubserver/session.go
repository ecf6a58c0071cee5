package stubserver

import "github.com/innexgo/hours-go/hours"

// checkSessionLocation validates an optional location reference: it must
// exist, be active, and belong to the course's school.
func (db *DB) checkSessionLocation(locationID *int64, course hours.Course) error {
	if locationID == nil {
		return nil
	}
	location, ok := db.locations[*locationID]
	if !ok {
		return fail(hours.CodeLocationNonexistent)
	}
	if location.School.SchoolID != course.School.SchoolID {
		return fail(hours.CodeLocationNonexistent)
	}
	if data, ok := db.recentLocationData(*locationID); ok && !data.Active {
		return fail(hours.CodeLocationArchived)
	}
	return nil
}

func (db *DB) SessionNew(props hours.SessionNewProps) (hours.SessionData, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	key, err := db.auth(props.APIKey)
	if err != nil {
		return hours.SessionData{}, err
	}
	course, err := db.checkCourseActive(props.CourseID)
	if err != nil {
		return hours.SessionData{}, err
	}
	if !db.canManageCourse(key.CreatorUserID, course) {
		return hours.SessionData{}, fail(hours.CodeAPIKeyUnauthorized)
	}
	if props.Duration <= 0 {
		return hours.SessionData{}, fail(hours.CodeNegativeDuration)
	}
	if err := db.checkSessionLocation(props.LocationID, course); err != nil {
		return hours.SessionData{}, err
	}

	now := nowMillis()
	session := hours.Session{
		SessionID:     db.nextID(),
		CreationTime:  now,
		CreatorUserID: key.CreatorUserID,
		Course:        course,
	}
	db.sessions[session.SessionID] = session

	data := hours.SessionData{
		SessionDataID: db.nextID(),
		CreationTime:  now,
		CreatorUserID: key.CreatorUserID,
		Session:       session,
		Name:          props.Name,
		StartTime:     props.StartTime,
		Duration:      props.Duration,
		LocationID:    props.LocationID,
		Active:        true,
	}
	db.sessionData = append(db.sessionData, data)
	return data, nil
}

func (db *DB) SessionDataNew(props hours.SessionDataNewProps) (hours.SessionData, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	key, err := db.auth(props.APIKey)
	if err != nil {
		return hours.SessionData{}, err
	}
	session, ok := db.sessions[props.SessionID]
	if !ok {
		return hours.SessionData{}, fail(hours.CodeSessionNonexistent)
	}
	if !db.canManageCourse(key.CreatorUserID, session.Course) {
		return hours.SessionData{}, fail(hours.CodeAPIKeyUnauthorized)
	}
	if props.Duration <= 0 {
		return hours.SessionData{}, fail(hours.CodeNegativeDuration)
	}
	if err := db.checkSessionLocation(props.LocationID, session.Course); err != nil {
		return hours.SessionData{}, err
	}

	data := hours.SessionData{
		SessionDataID: db.nextID(),
		CreationTime:  nowMillis(),
		CreatorUserID: key.CreatorUserID,
		Session:       session,
		Name:          props.Name,
		StartTime:     props.StartTime,
		Duration:      props.Duration,
		LocationID:    props.LocationID,
		Active:        props.Active,
	}
	db.sessionData = append(db.sessionData, data)
	return data, nil
}

func (db *DB) SessionView(props hours.SessionViewProps) ([]hours.Session, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if _, err := db.auth(props.APIKey); err != nil {
		return nil, err
	}
	var out []hours.Session
	for _, s := range db.sessions {
		if matchIn(props.SessionID, s.SessionID) &&
			matchRange(props.MinCreationTime, props.MaxCreationTime, s.CreationTime) &&
			matchIn(props.CreatorUserID, s.CreatorUserID) &&
			matchIn(props.CourseID, s.Course.CourseID) {
			out = append(out, s)
		}
	}
	sortByTime(out, func(s hours.Session) int64 { return s.CreationTime })
	return window(out, props.Offset, props.Count), nil
}

func (db *DB) SessionDataView(props hours.SessionDataViewProps) ([]hours.SessionData, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if _, err := db.auth(props.APIKey); err != nil {
		return nil, err
	}
	rows := db.sessionData
	if props.OnlyRecent {
		latest := make(map[int64]hours.SessionData)
		for _, d := range rows {
			if prev, ok := latest[d.Session.SessionID]; !ok || d.CreationTime > prev.CreationTime {
				latest[d.Session.SessionID] = d
			}
		}
		rows = make([]hours.SessionData, 0, len(latest))
		for _, d := range latest {
			rows = append(rows, d)
		}
	}
	var out []hours.SessionData
	for _, d := range rows {
		if matchIn(props.SessionDataID, d.SessionDataID) &&
			matchRange(props.MinCreationTime, props.MaxCreationTime, d.CreationTime) &&
			matchIn(props.CreatorUserID, d.CreatorUserID) &&
			matchIn(props.SessionID, d.Session.SessionID) &&
			matchIn(props.CourseID, d.Session.Course.CourseID) &&
			matchRange(props.MinStartTime, props.MaxStartTime, d.StartTime) &&
			matchLocation(props.LocationID, d.LocationID) &&
			matchPartial(props.PartialName, d.Name) &&
			matchBool(props.Active, d.Active) {
			out = append(out, d)
		}
	}
	sortByTime(out, func(d hours.SessionData) int64 { return d.CreationTime })
	return window(out, props.Offset, props.Count), nil
}

func matchLocation(filter []int64, v *int64) bool {
	if len(filter) == 0 {
		return true
	}
	if v == nil {
		return false
	}
	return matchIn(filter, *v)
}

// SessionRequestNew proposes a session; only current STUDENT members of the
// course may propose, and the caller is the attendee.
func (db *DB) SessionRequestNew(props hours.SessionRequestNewProps) (hours.SessionRequest, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	key, err := db.auth(props.APIKey)
	if err != nil {
		return hours.SessionRequest{}, err
	}
	course, err := db.checkCourseActive(props.CourseID)
	if err != nil {
		return hours.SessionRequest{}, err
	}
	if kind, ok := db.membershipKind(key.CreatorUserID, course.CourseID); !ok || kind != hours.CourseMembershipKindStudent {
		return hours.SessionRequest{}, fail(hours.CodeAPIKeyUnauthorized)
	}
	if props.Duration <= 0 {
		return hours.SessionRequest{}, fail(hours.CodeNegativeDuration)
	}

	req := hours.SessionRequest{
		SessionRequestID: db.nextID(),
		CreationTime:     nowMillis(),
		CreatorUserID:    key.CreatorUserID,
		Course:           course,
		AttendeeUserID:   key.CreatorUserID,
		StartTime:        props.StartTime,
		Duration:         props.Duration,
		Message:          props.Message,
	}
	db.sessionRequests[req.SessionRequestID] = req
	return req, nil
}

func (db *DB) SessionRequestView(props hours.SessionRequestViewProps) ([]hours.SessionRequest, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if _, err := db.auth(props.APIKey); err != nil {
		return nil, err
	}
	var out []hours.SessionRequest
	for _, r := range db.sessionRequests {
		if matchIn(props.SessionRequestID, r.SessionRequestID) &&
			matchRange(props.MinCreationTime, props.MaxCreationTime, r.CreationTime) &&
			matchIn(props.CreatorUserID, r.CreatorUserID) &&
			matchIn(props.AttendeeUserID, r.AttendeeUserID) &&
			matchIn(props.CourseID, r.Course.CourseID) &&
			matchRange(props.MinStartTime, props.MaxStartTime, r.StartTime) &&
			matchBool(props.Responded, db.hasRequestResponse(r.SessionRequestID)) {
			out = append(out, r)
		}
	}
	sortByTime(out, func(r hours.SessionRequest) int64 { return r.CreationTime })
	return window(out, props.Offset, props.Count), nil
}

// hasRequestResponse must be called with db.mu held.
func (db *DB) hasRequestResponse(sessionRequestID int64) bool {
	for _, r := range db.sessionRequestResponses {
		if r.SessionRequest.SessionRequestID == sessionRequestID {
			return true
		}
	}
	return false
}

// SessionRequestResponseNew settles a pending request. Accepting requires a
// host session in the request's course and produces the attendee's
// Commitment; the attendee may reject their own request, anything else
// needs instructor/admin rights.
func (db *DB) SessionRequestResponseNew(props hours.SessionRequestResponseNewProps) (hours.SessionRequestResponse, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	key, err := db.auth(props.APIKey)
	if err != nil {
		return hours.SessionRequestResponse{}, err
	}
	req, ok := db.sessionRequests[props.SessionRequestID]
	if !ok {
		return hours.SessionRequestResponse{}, fail(hours.CodeSessionRequestNonexistent)
	}
	if db.hasRequestResponse(req.SessionRequestID) {
		return hours.SessionRequestResponse{}, fail(hours.CodeSessionRequestResponseExistent)
	}

	manager := db.canManageCourse(key.CreatorUserID, req.Course)
	selfReject := !props.Accepted && key.CreatorUserID == req.AttendeeUserID
	if !manager && !selfReject {
		return hours.SessionRequestResponse{}, fail(hours.CodeAPIKeyUnauthorized)
	}

	resp := hours.SessionRequestResponse{
		SessionRequest: req,
		CreationTime:   nowMillis(),
		CreatorUserID:  key.CreatorUserID,
		Message:        props.Message,
		Accepted:       props.Accepted,
	}
	if props.Accepted {
		if props.SessionID == nil {
			return hours.SessionRequestResponse{}, fail(hours.CodeBadRequest)
		}
		session, ok := db.sessions[*props.SessionID]
		if !ok {
			return hours.SessionRequestResponse{}, fail(hours.CodeSessionNonexistent)
		}
		if session.Course.CourseID != req.Course.CourseID {
			return hours.SessionRequestResponse{}, fail(hours.CodeSessionNonexistent)
		}
		com, err := db.commitmentNewLocked(key, req.AttendeeUserID, session)
		if err != nil {
			return hours.SessionRequestResponse{}, err
		}
		resp.Commitment = &com
	}
	db.sessionRequestResponses = append(db.sessionRequestResponses, resp)
	return resp, nil
}

func (db *DB) SessionRequestResponseView(props hours.SessionRequestResponseViewProps) ([]hours.SessionRequestResponse, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if _, err := db.auth(props.APIKey); err != nil {
		return nil, err
	}
	var out []hours.SessionRequestResponse
	for _, r := range db.sessionRequestResponses {
		if matchIn(props.SessionRequestID, r.SessionRequest.SessionRequestID) &&
			matchRange(props.MinCreationTime, props.MaxCreationTime, r.CreationTime) &&
			matchIn(props.CreatorUserID, r.CreatorUserID) &&
			matchIn(props.AttendeeUserID, r.SessionRequest.AttendeeUserID) &&
			matchIn(props.CourseID, r.SessionRequest.Course.CourseID) &&
			matchBool(props.Accepted, r.Accepted) {
			out = append(out, r)
		}
	}
	sortByTime(out, func(r hours.SessionRequestResponse) int64 { return r.CreationTime })
	return window(out, props.Offset, props.Count), nil
}

package stubserver

import (
	"testing"
	"time"

	"github.com/innexgo/hours-go/hours"
)

var t0 = time.Date(2021, time.September, 1, 8, 0, 0, 0, time.UTC)

// freezeTime pins the store clock to at and returns a func to move it.
func freezeTime(t *testing.T, at time.Time) func(time.Time) {
	t.Helper()
	cur := at
	nowFunc = func() time.Time { return cur }
	t.Cleanup(func() { nowFunc = time.Now })
	return func(next time.Time) { cur = next }
}

func registerUser(db *DB, userID int64) hours.APIKey {
	return db.RegisterKey(hours.APIKey{
		CreatorUserID: userID,
		Duration:      (365 * 24 * time.Hour).Milliseconds(),
	})
}

func newSchool(t *testing.T, db *DB, key hours.APIKey, name string) hours.SchoolData {
	t.Helper()
	if _, err := db.SubscriptionNew(hours.SubscriptionNewProps{
		SubscriptionKind: hours.SubscriptionKindValid,
		APIKey:           key.Key,
	}); err != nil {
		t.Fatalf("SubscriptionNew() error = %v", err)
	}
	data, err := db.SchoolNew(hours.SchoolNewProps{Name: name, APIKey: key.Key})
	if err != nil {
		t.Fatalf("SchoolNew() error = %v", err)
	}
	return data
}

func newCourse(t *testing.T, db *DB, key hours.APIKey, schoolID int64, name string) hours.CourseData {
	t.Helper()
	data, err := db.CourseNew(hours.CourseNewProps{SchoolID: schoolID, Name: name, APIKey: key.Key})
	if err != nil {
		t.Fatalf("CourseNew() error = %v", err)
	}
	return data
}

func newSession(t *testing.T, db *DB, key hours.APIKey, courseID int64, start time.Time, dur time.Duration) hours.SessionData {
	t.Helper()
	data, err := db.SessionNew(hours.SessionNewProps{
		CourseID:  courseID,
		Name:      "period 1",
		StartTime: start.UnixMilli(),
		Duration:  dur.Milliseconds(),
		APIKey:    key.Key,
	})
	if err != nil {
		t.Fatalf("SessionNew() error = %v", err)
	}
	return data
}

// enrollStudent mints a STUDENT course key and redeems it as the student.
func enrollStudent(t *testing.T, db *DB, instructor hours.APIKey, courseID int64, student hours.APIKey) {
	t.Helper()
	now := nowFunc()
	keyData, err := db.CourseKeyNew(hours.CourseKeyNewProps{
		CourseID:             courseID,
		CourseMembershipKind: hours.CourseMembershipKindStudent,
		MaxUses:              1,
		StartTime:            now.UnixMilli(),
		EndTime:              now.Add(time.Hour).UnixMilli(),
		APIKey:               instructor.Key,
	})
	if err != nil {
		t.Fatalf("CourseKeyNew() error = %v", err)
	}
	if _, err := db.CourseMembershipNewKey(hours.CourseMembershipNewKeyProps{
		CourseKeyKey: keyData.CourseKey.CourseKeyKey,
		APIKey:       student.Key,
	}); err != nil {
		t.Fatalf("CourseMembershipNewKey() error = %v", err)
	}
}

func wantCode(t *testing.T, err error, code hours.Code) {
	t.Helper()
	if got := codeOf(err); got != code {
		t.Fatalf("error = %v (code %v), want code %v", err, got, code)
	}
}

func TestDB_auth(t *testing.T) {
	freezeTime(t, t0)
	db := NewDB()

	_, err := db.SchoolView(hours.SchoolViewProps{APIKey: "nope"})
	wantCode(t, err, hours.CodeAPIKeyNonexistent)

	stale := db.RegisterKey(hours.APIKey{
		CreationTime: t0.Add(-2 * time.Hour).UnixMilli(),
		Duration:     time.Hour.Milliseconds(),
	})
	_, err = db.SchoolView(hours.SchoolViewProps{APIKey: stale.Key})
	wantCode(t, err, hours.CodeAPIKeyUnauthorized)
}

func TestDB_view_negativePaging(t *testing.T) {
	freezeTime(t, t0)
	db := NewDB()
	key := registerUser(db, 1)
	newSchool(t, db, key, "Innexgo High")

	off := int64(-1)
	rows, err := db.SchoolView(hours.SchoolViewProps{Offset: &off, APIKey: key.Key})
	if err != nil {
		t.Fatalf("SchoolView() error = %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("negative offset returned %d rows, want 1", len(rows))
	}

	cnt := int64(-1)
	rows, err = db.SchoolView(hours.SchoolViewProps{Count: &cnt, APIKey: key.Key})
	if err != nil {
		t.Fatalf("SchoolView() error = %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("negative count returned %d rows, want 0", len(rows))
	}
}

func TestDB_SchoolNew_subscription(t *testing.T) {
	tick := freezeTime(t, t0)
	db := NewDB()
	key := registerUser(db, 1)

	_, err := db.SchoolNew(hours.SchoolNewProps{Name: "No Sub High", APIKey: key.Key})
	wantCode(t, err, hours.CodeSubscriptionNonexistent)

	newSchool(t, db, key, "First High")

	// the single-use entitlement is spent
	tick(t0.Add(time.Minute))
	_, err = db.SchoolNew(hours.SchoolNewProps{Name: "Second High", APIKey: key.Key})
	wantCode(t, err, hours.CodeSubscriptionLimited)

	// a cancelled subscription grants nothing
	tick(t0.Add(2 * time.Minute))
	if _, err := db.SubscriptionNew(hours.SubscriptionNewProps{
		SubscriptionKind: hours.SubscriptionKindCancel,
		APIKey:           key.Key,
	}); err != nil {
		t.Fatalf("SubscriptionNew() error = %v", err)
	}
	_, err = db.SchoolNew(hours.SchoolNewProps{Name: "Third High", APIKey: key.Key})
	wantCode(t, err, hours.CodeSubscriptionNonexistent)
}

func TestDB_SchoolDataView_onlyRecent(t *testing.T) {
	tick := freezeTime(t, t0)
	db := NewDB()
	key := registerUser(db, 1)

	school := newSchool(t, db, key, "Old Name").School

	tick(t0.Add(time.Hour))
	if _, err := db.SchoolDataNew(hours.SchoolDataNewProps{
		SchoolID: school.SchoolID,
		Name:     "New Name",
		Active:   true,
		APIKey:   key.Key,
	}); err != nil {
		t.Fatalf("SchoolDataNew() error = %v", err)
	}

	all, err := db.SchoolDataView(hours.SchoolDataViewProps{
		SchoolID: []int64{school.SchoolID},
		APIKey:   key.Key,
	})
	if err != nil {
		t.Fatalf("SchoolDataView() error = %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("full history has %d rows, want 2", len(all))
	}

	recent, err := db.SchoolDataView(hours.SchoolDataViewProps{
		SchoolID:   []int64{school.SchoolID},
		OnlyRecent: true,
		APIKey:     key.Key,
	})
	if err != nil {
		t.Fatalf("SchoolDataView() error = %v", err)
	}
	if len(recent) != 1 {
		t.Fatalf("onlyRecent has %d rows, want 1", len(recent))
	}
	if recent[0].Name != "New Name" {
		t.Errorf("onlyRecent picked %q, want the snapshot with max creation time", recent[0].Name)
	}

	// archiving is just one more snapshot
	tick(t0.Add(2 * time.Hour))
	if _, err := db.SchoolDataNew(hours.SchoolDataNewProps{
		SchoolID: school.SchoolID,
		Name:     "New Name",
		Active:   false,
		APIKey:   key.Key,
	}); err != nil {
		t.Fatalf("SchoolDataNew() error = %v", err)
	}
	active := true
	rows, err := db.SchoolDataView(hours.SchoolDataViewProps{
		SchoolID:   []int64{school.SchoolID},
		OnlyRecent: true,
		Active:     &active,
		APIKey:     key.Key,
	})
	if err != nil {
		t.Fatalf("SchoolDataView() error = %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("archived school still visible through onlyRecent+active, got %d rows", len(rows))
	}
}

func TestDB_schoolKeys(t *testing.T) {
	tick := freezeTime(t, t0)
	db := NewDB()
	admin := registerUser(db, 1)
	school := newSchool(t, db, admin, "Innexgo High").School

	_, err := db.SchoolKeyNew(hours.SchoolKeyNewProps{
		SchoolID:  school.SchoolID,
		MaxUses:   1,
		StartTime: t0.Add(time.Hour).UnixMilli(),
		EndTime:   t0.UnixMilli(),
		APIKey:    admin.Key,
	})
	wantCode(t, err, hours.CodeNegativeDuration)

	_, err = db.SchoolKeyNew(hours.SchoolKeyNewProps{
		SchoolID:  school.SchoolID,
		MaxUses:   0,
		StartTime: t0.UnixMilli(),
		EndTime:   t0.Add(time.Hour).UnixMilli(),
		APIKey:    admin.Key,
	})
	wantCode(t, err, hours.CodeBadRequest)

	keyData, err := db.SchoolKeyNew(hours.SchoolKeyNewProps{
		SchoolID:  school.SchoolID,
		MaxUses:   1,
		StartTime: t0.UnixMilli(),
		EndTime:   t0.Add(time.Hour).UnixMilli(),
		APIKey:    admin.Key,
	})
	if err != nil {
		t.Fatalf("SchoolKeyNew() error = %v", err)
	}
	invite := keyData.SchoolKey.SchoolKeyKey

	second := registerUser(db, 2)
	adm, err := db.AdminshipNewKey(hours.AdminshipNewKeyProps{SchoolKeyKey: invite, APIKey: second.Key})
	if err != nil {
		t.Fatalf("AdminshipNewKey() error = %v", err)
	}
	if adm.UserID != 2 || adm.AdminshipKind != hours.AdminshipKindAdmin {
		t.Errorf("redeemed adminship = %+v", adm)
	}
	if adm.SchoolKey == nil || adm.SchoolKey.SchoolKeyKey != invite {
		t.Error("redeemed adminship must carry its source key")
	}

	// max uses exhausted
	third := registerUser(db, 3)
	_, err = db.AdminshipNewKey(hours.AdminshipNewKeyProps{SchoolKeyKey: invite, APIKey: third.Key})
	wantCode(t, err, hours.CodeSchoolKeyUsed)

	// validity window passed
	openData, err := db.SchoolKeyNew(hours.SchoolKeyNewProps{
		SchoolID:  school.SchoolID,
		MaxUses:   10,
		StartTime: t0.UnixMilli(),
		EndTime:   t0.Add(time.Hour).UnixMilli(),
		APIKey:    admin.Key,
	})
	if err != nil {
		t.Fatalf("SchoolKeyNew() error = %v", err)
	}
	tick(t0.Add(time.Hour))
	_, err = db.AdminshipNewKey(hours.AdminshipNewKeyProps{
		SchoolKeyKey: openData.SchoolKey.SchoolKeyKey,
		APIKey:       third.Key,
	})
	wantCode(t, err, hours.CodeSchoolKeyExpired)

	// revoked key reads as nonexistent
	tick(t0.Add(30 * time.Minute))
	if _, err := db.SchoolKeyDataNew(hours.SchoolKeyDataNewProps{
		SchoolKeyKey: openData.SchoolKey.SchoolKeyKey,
		Active:       false,
		APIKey:       admin.Key,
	}); err != nil {
		t.Fatalf("SchoolKeyDataNew() error = %v", err)
	}
	_, err = db.AdminshipNewKey(hours.AdminshipNewKeyProps{
		SchoolKeyKey: openData.SchoolKey.SchoolKeyKey,
		APIKey:       third.Key,
	})
	wantCode(t, err, hours.CodeSchoolKeyNonexistent)
}

func TestDB_AdminshipNewCancel(t *testing.T) {
	freezeTime(t, t0)
	db := NewDB()
	admin := registerUser(db, 1)
	school := newSchool(t, db, admin, "Innexgo High").School

	// a school must always have at least one admin
	_, err := db.AdminshipNewCancel(hours.AdminshipNewCancelProps{
		UserID:   1,
		SchoolID: school.SchoolID,
		APIKey:   admin.Key,
	})
	wantCode(t, err, hours.CodeAdminshipCannotLeaveEmpty)

	keyData, err := db.SchoolKeyNew(hours.SchoolKeyNewProps{
		SchoolID:  school.SchoolID,
		MaxUses:   1,
		StartTime: t0.UnixMilli(),
		EndTime:   t0.Add(time.Hour).UnixMilli(),
		APIKey:    admin.Key,
	})
	if err != nil {
		t.Fatalf("SchoolKeyNew() error = %v", err)
	}
	second := registerUser(db, 2)
	if _, err := db.AdminshipNewKey(hours.AdminshipNewKeyProps{
		SchoolKeyKey: keyData.SchoolKey.SchoolKeyKey,
		APIKey:       second.Key,
	}); err != nil {
		t.Fatalf("AdminshipNewKey() error = %v", err)
	}

	adm, err := db.AdminshipNewCancel(hours.AdminshipNewCancelProps{
		UserID:   1,
		SchoolID: school.SchoolID,
		APIKey:   admin.Key,
	})
	if err != nil {
		t.Fatalf("AdminshipNewCancel() error = %v", err)
	}
	if adm.AdminshipKind != hours.AdminshipKindCancel {
		t.Errorf("kind = %v, want CANCEL", adm.AdminshipKind)
	}

	// the cancelled admin lost their powers
	_, err = db.SchoolDataNew(hours.SchoolDataNewProps{
		SchoolID: school.SchoolID,
		Name:     "Renamed",
		Active:   true,
		APIKey:   admin.Key,
	})
	wantCode(t, err, hours.CodeAPIKeyUnauthorized)
}

func TestDB_SessionNew(t *testing.T) {
	freezeTime(t, t0)
	db := NewDB()
	instructor := registerUser(db, 1)
	school := newSchool(t, db, instructor, "Innexgo High").School
	course := newCourse(t, db, instructor, school.SchoolID, "Math").Course

	_, err := db.SessionNew(hours.SessionNewProps{
		CourseID:  course.CourseID,
		StartTime: t0.UnixMilli(),
		Duration:  -time.Hour.Milliseconds(),
		APIKey:    instructor.Key,
	})
	wantCode(t, err, hours.CodeNegativeDuration)

	student := registerUser(db, 2)
	enrollStudent(t, db, instructor, course.CourseID, student)
	_, err = db.SessionNew(hours.SessionNewProps{
		CourseID:  course.CourseID,
		StartTime: t0.UnixMilli(),
		Duration:  time.Hour.Milliseconds(),
		APIKey:    student.Key,
	})
	wantCode(t, err, hours.CodeAPIKeyUnauthorized)
}

func TestDB_CommitmentNew(t *testing.T) {
	freezeTime(t, t0)
	db := NewDB()
	instructor := registerUser(db, 1)
	student := registerUser(db, 2)
	outsider := registerUser(db, 3)

	school := newSchool(t, db, instructor, "Innexgo High").School
	course := newCourse(t, db, instructor, school.SchoolID, "Math").Course
	enrollStudent(t, db, instructor, course.CourseID, student)
	session := newSession(t, db, instructor, course.CourseID, t0.Add(time.Hour), time.Hour).Session

	com, err := db.CommitmentNew(hours.CommitmentNewProps{
		AttendeeUserID: 2,
		SessionID:      session.SessionID,
		APIKey:         instructor.Key,
	})
	if err != nil {
		t.Fatalf("CommitmentNew() error = %v", err)
	}
	if com.AttendeeUserID != 2 {
		t.Errorf("attendee = %d, want 2", com.AttendeeUserID)
	}

	_, err = db.CommitmentNew(hours.CommitmentNewProps{
		AttendeeUserID: 2,
		SessionID:      session.SessionID,
		APIKey:         instructor.Key,
	})
	wantCode(t, err, hours.CodeCommitmentExistent)

	// students may only commit themselves
	_, err = db.CommitmentNew(hours.CommitmentNewProps{
		AttendeeUserID: 1,
		SessionID:      session.SessionID,
		APIKey:         student.Key,
	})
	wantCode(t, err, hours.CodeCommitmentCannotCreateForOthers)

	// non-members cannot be committed
	_, err = db.CommitmentNew(hours.CommitmentNewProps{
		AttendeeUserID: outsider.CreatorUserID,
		SessionID:      session.SessionID,
		APIKey:         instructor.Key,
	})
	wantCode(t, err, hours.CodeCourseMembershipNonexistent)
}

func TestDB_sessionRequests(t *testing.T) {
	freezeTime(t, t0)
	db := NewDB()
	instructor := registerUser(db, 1)
	student := registerUser(db, 2)

	school := newSchool(t, db, instructor, "Innexgo High").School
	course := newCourse(t, db, instructor, school.SchoolID, "Math").Course
	enrollStudent(t, db, instructor, course.CourseID, student)
	session := newSession(t, db, instructor, course.CourseID, t0.Add(time.Hour), time.Hour).Session

	// only enrolled students may propose
	_, err := db.SessionRequestNew(hours.SessionRequestNewProps{
		CourseID:  course.CourseID,
		StartTime: t0.Add(time.Hour).UnixMilli(),
		Duration:  time.Hour.Milliseconds(),
		APIKey:    instructor.Key,
	})
	wantCode(t, err, hours.CodeAPIKeyUnauthorized)

	req, err := db.SessionRequestNew(hours.SessionRequestNewProps{
		CourseID:  course.CourseID,
		StartTime: t0.Add(time.Hour).UnixMilli(),
		Duration:  time.Hour.Milliseconds(),
		Message:   "can I make this up?",
		APIKey:    student.Key,
	})
	if err != nil {
		t.Fatalf("SessionRequestNew() error = %v", err)
	}
	if req.AttendeeUserID != 2 {
		t.Errorf("attendee = %d, want the caller", req.AttendeeUserID)
	}

	// accepting needs a host session
	_, err = db.SessionRequestResponseNew(hours.SessionRequestResponseNewProps{
		SessionRequestID: req.SessionRequestID,
		Accepted:         true,
		APIKey:           instructor.Key,
	})
	wantCode(t, err, hours.CodeBadRequest)

	resp, err := db.SessionRequestResponseNew(hours.SessionRequestResponseNewProps{
		SessionRequestID: req.SessionRequestID,
		Accepted:         true,
		SessionID:        &session.SessionID,
		APIKey:           instructor.Key,
	})
	if err != nil {
		t.Fatalf("SessionRequestResponseNew() error = %v", err)
	}
	if resp.Commitment == nil || resp.Commitment.AttendeeUserID != 2 {
		t.Fatalf("acceptance must produce the attendee's commitment, got %+v", resp.Commitment)
	}

	// at most one response per request
	_, err = db.SessionRequestResponseNew(hours.SessionRequestResponseNewProps{
		SessionRequestID: req.SessionRequestID,
		Accepted:         false,
		APIKey:           instructor.Key,
	})
	wantCode(t, err, hours.CodeSessionRequestResponseExistent)

	// the responded filter now excludes the settled request
	responded := false
	rows, err := db.SessionRequestView(hours.SessionRequestViewProps{
		CourseID:  []int64{course.CourseID},
		Responded: &responded,
		APIKey:    instructor.Key,
	})
	if err != nil {
		t.Fatalf("SessionRequestView() error = %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("unresponded view has %d rows, want 0", len(rows))
	}
}

func TestDB_CommitmentResponseNew(t *testing.T) {
	tick := freezeTime(t, t0)
	db := NewDB()
	instructor := registerUser(db, 1)
	student := registerUser(db, 2)
	other := registerUser(db, 3)

	school := newSchool(t, db, instructor, "Innexgo High").School
	course := newCourse(t, db, instructor, school.SchoolID, "Math").Course
	enrollStudent(t, db, instructor, course.CourseID, student)
	enrollStudent(t, db, instructor, course.CourseID, other)

	start := t0.Add(time.Hour)
	session := newSession(t, db, instructor, course.CourseID, start, time.Hour).Session

	commit := func(userID int64) hours.Commitment {
		com, err := db.CommitmentNew(hours.CommitmentNewProps{
			AttendeeUserID: userID,
			SessionID:      session.SessionID,
			APIKey:         instructor.Key,
		})
		if err != nil {
			t.Fatalf("CommitmentNew() error = %v", err)
		}
		return com
	}
	com := commit(2)

	// attendance cannot be taken before the session starts
	_, err := db.CommitmentResponseNew(hours.CommitmentResponseNewProps{
		CommitmentID: com.CommitmentID,
		Kind:         hours.CommitmentResponseKindPresent,
		APIKey:       instructor.Key,
	})
	wantCode(t, err, hours.CodeCannotAlterPast)

	// attendees may only cancel, never grade themselves
	_, err = db.CommitmentResponseNew(hours.CommitmentResponseNewProps{
		CommitmentID: com.CommitmentID,
		Kind:         hours.CommitmentResponseKindPresent,
		APIKey:       student.Key,
	})
	wantCode(t, err, hours.CodeCommitmentResponseCannotCreateForOthers)

	resp, err := db.CommitmentResponseNew(hours.CommitmentResponseNewProps{
		CommitmentID: com.CommitmentID,
		Kind:         hours.CommitmentResponseKindCancelled,
		APIKey:       student.Key,
	})
	if err != nil {
		t.Fatalf("CommitmentResponseNew() error = %v", err)
	}
	if resp.Kind != hours.CommitmentResponseKindCancelled {
		t.Errorf("kind = %v, want CANCELLED", resp.Kind)
	}

	// at most one response per commitment
	_, err = db.CommitmentResponseNew(hours.CommitmentResponseNewProps{
		CommitmentID: com.CommitmentID,
		Kind:         hours.CommitmentResponseKindPresent,
		APIKey:       instructor.Key,
	})
	wantCode(t, err, hours.CodeCommitmentResponseExistent)

	// once the session starts, the attendee can no longer back out but
	// the instructor can take attendance
	otherCom := commit(3)
	tick(start.Add(time.Minute))

	_, err = db.CommitmentResponseNew(hours.CommitmentResponseNewProps{
		CommitmentID: otherCom.CommitmentID,
		Kind:         hours.CommitmentResponseKindCancelled,
		APIKey:       other.Key,
	})
	wantCode(t, err, hours.CodeCommitmentResponseUncancellable)

	if _, err := db.CommitmentResponseNew(hours.CommitmentResponseNewProps{
		CommitmentID: otherCom.CommitmentID,
		Kind:         hours.CommitmentResponseKindTardy,
		APIKey:       instructor.Key,
	}); err != nil {
		t.Fatalf("CommitmentResponseNew() error = %v", err)
	}
}

// Package stubserver is an in-memory implementation of the Hours wire
// contract, good enough for integration tests and local development. It
// owns the event-sourced data model: immutable identity records plus
// append-only data snapshots, with "current = max creation time" resolved
// inside the store queries.
package stubserver

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/innexgo/hours-go/hours"
)

// nowFunc is swapped out by tests that need a fixed clock.
var nowFunc = time.Now

type DB struct {
	mu      sync.RWMutex
	idCount int64

	apiKeys map[string]hours.APIKey

	schools       map[int64]hours.School
	schoolData    []hours.SchoolData
	schoolKeys    map[string]hours.SchoolKey
	schoolKeyData []hours.SchoolKeyData
	adminships    []hours.Adminship

	courses       map[int64]hours.Course
	courseData    []hours.CourseData
	courseKeys    map[string]hours.CourseKey
	courseKeyData []hours.CourseKeyData
	memberships   []hours.CourseMembership

	locations    map[int64]hours.Location
	locationData []hours.LocationData

	sessions                map[int64]hours.Session
	sessionData             []hours.SessionData
	sessionRequests         map[int64]hours.SessionRequest
	sessionRequestResponses []hours.SessionRequestResponse

	commitments         map[int64]hours.Commitment
	commitmentResponses []hours.CommitmentResponse

	subscriptions []hours.Subscription
}

func NewDB() *DB {
	return &DB{
		apiKeys:         make(map[string]hours.APIKey),
		schools:         make(map[int64]hours.School),
		schoolKeys:      make(map[string]hours.SchoolKey),
		courses:         make(map[int64]hours.Course),
		courseKeys:      make(map[string]hours.CourseKey),
		locations:       make(map[int64]hours.Location),
		sessions:        make(map[int64]hours.Session),
		sessionRequests: make(map[int64]hours.SessionRequest),
		commitments:     make(map[int64]hours.Commitment),
	}
}

// RegisterKey registers a capability token the stub will accept. Key
// issuance itself belongs to the external auth service, so tests and dev
// setups seed keys here; an empty Key gets a generated one.
func (db *DB) RegisterKey(key hours.APIKey) hours.APIKey {
	db.mu.Lock()
	defer db.mu.Unlock()

	if key.Key == "" {
		key.Key = uuid.NewString()
	}
	if key.CreationTime == 0 {
		key.CreationTime = nowMillis()
	}
	db.apiKeys[key.Key] = key
	return key
}

func nowMillis() int64 {
	return nowFunc().UnixMilli()
}

// nextID must be called with db.mu held.
func (db *DB) nextID() int64 {
	db.idCount++
	return db.idCount
}

// auth resolves the caller behind an apiKey. Must be called with db.mu held
// (read or write).
func (db *DB) auth(apiKey string) (hours.APIKey, error) {
	key, ok := db.apiKeys[apiKey]
	if !ok {
		return hours.APIKey{}, fail(hours.CodeAPIKeyNonexistent)
	}
	if !key.Valid(nowFunc()) {
		return hours.APIKey{}, fail(hours.CodeAPIKeyUnauthorized)
	}
	return key, nil
}

// Current-state helpers. Each resolves the latest snapshot / record per
// identity, mirroring an onlyRecent query. All must be called with db.mu
// held.

func (db *DB) recentSchoolData(schoolID int64) (hours.SchoolData, bool) {
	var best hours.SchoolData
	var found bool
	for _, d := range db.schoolData {
		if d.School.SchoolID != schoolID {
			continue
		}
		if !found || d.CreationTime > best.CreationTime {
			best, found = d, true
		}
	}
	return best, found
}

func (db *DB) recentCourseData(courseID int64) (hours.CourseData, bool) {
	var best hours.CourseData
	var found bool
	for _, d := range db.courseData {
		if d.Course.CourseID != courseID {
			continue
		}
		if !found || d.CreationTime > best.CreationTime {
			best, found = d, true
		}
	}
	return best, found
}

func (db *DB) recentLocationData(locationID int64) (hours.LocationData, bool) {
	var best hours.LocationData
	var found bool
	for _, d := range db.locationData {
		if d.Location.LocationID != locationID {
			continue
		}
		if !found || d.CreationTime > best.CreationTime {
			best, found = d, true
		}
	}
	return best, found
}

func (db *DB) recentSessionData(sessionID int64) (hours.SessionData, bool) {
	var best hours.SessionData
	var found bool
	for _, d := range db.sessionData {
		if d.Session.SessionID != sessionID {
			continue
		}
		if !found || d.CreationTime > best.CreationTime {
			best, found = d, true
		}
	}
	return best, found
}

func (db *DB) recentSchoolKeyData(key string) (hours.SchoolKeyData, bool) {
	var best hours.SchoolKeyData
	var found bool
	for _, d := range db.schoolKeyData {
		if d.SchoolKey.SchoolKeyKey != key {
			continue
		}
		if !found || d.CreationTime > best.CreationTime {
			best, found = d, true
		}
	}
	return best, found
}

func (db *DB) recentCourseKeyData(key string) (hours.CourseKeyData, bool) {
	var best hours.CourseKeyData
	var found bool
	for _, d := range db.courseKeyData {
		if d.CourseKey.CourseKeyKey != key {
			continue
		}
		if !found || d.CreationTime > best.CreationTime {
			best, found = d, true
		}
	}
	return best, found
}

// currentAdminship returns the most recent adminship record of the pair.
func (db *DB) currentAdminship(userID, schoolID int64) (hours.Adminship, bool) {
	var best hours.Adminship
	var found bool
	for _, a := range db.adminships {
		if a.UserID != userID || a.School.SchoolID != schoolID {
			continue
		}
		if !found || a.CreationTime > best.CreationTime {
			best, found = a, true
		}
	}
	return best, found
}

func (db *DB) isAdmin(userID, schoolID int64) bool {
	adm, ok := db.currentAdminship(userID, schoolID)
	return ok && adm.AdminshipKind == hours.AdminshipKindAdmin
}

// currentAdmins counts users whose most recent adminship of the school is
// ADMIN.
func (db *DB) currentAdmins(schoolID int64) []int64 {
	latest := make(map[int64]hours.Adminship)
	for _, a := range db.adminships {
		if a.School.SchoolID != schoolID {
			continue
		}
		if prev, ok := latest[a.UserID]; !ok || a.CreationTime > prev.CreationTime {
			latest[a.UserID] = a
		}
	}
	var admins []int64
	for userID, a := range latest {
		if a.AdminshipKind == hours.AdminshipKindAdmin {
			admins = append(admins, userID)
		}
	}
	return admins
}

// currentMembership returns the most recent membership record of the pair.
func (db *DB) currentMembership(userID, courseID int64) (hours.CourseMembership, bool) {
	var best hours.CourseMembership
	var found bool
	for _, m := range db.memberships {
		if m.UserID != userID || m.Course.CourseID != courseID {
			continue
		}
		if !found || m.CreationTime > best.CreationTime {
			best, found = m, true
		}
	}
	return best, found
}

func (db *DB) membershipKind(userID, courseID int64) (hours.CourseMembershipKind, bool) {
	mem, ok := db.currentMembership(userID, courseID)
	if !ok || mem.CourseMembershipKind == hours.CourseMembershipKindCancel {
		return "", false
	}
	return mem.CourseMembershipKind, true
}

// currentInstructors lists users whose most recent membership of the course
// is INSTRUCTOR.
func (db *DB) currentInstructors(courseID int64) []int64 {
	latest := make(map[int64]hours.CourseMembership)
	for _, m := range db.memberships {
		if m.Course.CourseID != courseID {
			continue
		}
		if prev, ok := latest[m.UserID]; !ok || m.CreationTime > prev.CreationTime {
			latest[m.UserID] = m
		}
	}
	var instructors []int64
	for userID, m := range latest {
		if m.CourseMembershipKind == hours.CourseMembershipKindInstructor {
			instructors = append(instructors, userID)
		}
	}
	return instructors
}

// canManageCourse reports whether the user is a current instructor of the
// course or an admin of its school.
func (db *DB) canManageCourse(userID int64, course hours.Course) bool {
	if kind, ok := db.membershipKind(userID, course.CourseID); ok && kind == hours.CourseMembershipKindInstructor {
		return true
	}
	return db.isAdmin(userID, course.School.SchoolID)
}

// schoolKeyUses counts adminships granted through the key.
func (db *DB) schoolKeyUses(key string) int64 {
	var uses int64
	for _, a := range db.adminships {
		if a.SchoolKey != nil && a.SchoolKey.SchoolKeyKey == key {
			uses++
		}
	}
	return uses
}

// courseKeyUses counts memberships granted through the key.
func (db *DB) courseKeyUses(key string) int64 {
	var uses int64
	for _, m := range db.memberships {
		if m.CourseKey != nil && m.CourseKey.CourseKeyKey == key {
			uses++
		}
	}
	return uses
}

// checkSchoolActive fails with SCHOOL_NONEXISTENT / SCHOOL_ARCHIVED.
func (db *DB) checkSchoolActive(schoolID int64) (hours.School, error) {
	school, ok := db.schools[schoolID]
	if !ok {
		return hours.School{}, fail(hours.CodeSchoolNonexistent)
	}
	if data, ok := db.recentSchoolData(schoolID); ok && !data.Active {
		return hours.School{}, fail(hours.CodeSchoolArchived)
	}
	return school, nil
}

// checkCourseActive fails with COURSE_NONEXISTENT / COURSE_ARCHIVED.
func (db *DB) checkCourseActive(courseID int64) (hours.Course, error) {
	course, ok := db.courses[courseID]
	if !ok {
		return hours.Course{}, fail(hours.CodeCourseNonexistent)
	}
	if data, ok := db.recentCourseData(courseID); ok && !data.Active {
		return hours.Course{}, fail(hours.CodeCourseArchived)
	}
	return course, nil
}

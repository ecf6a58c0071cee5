package hours

// Code is a stable, machine-readable error identifier returned by the Hours API.
// The set is closed on the server side; callers must still keep a default branch
// since new codes may appear on the wire before clients learn about them.
type Code string

const (
	CodeOK                  Code = "OK"
	CodeNotFound            Code = "NOT_FOUND"
	CodeBadRequest          Code = "BAD_REQUEST"
	CodeInternalServerError Code = "INTERNAL_SERVER_ERROR"
	CodeUnknown             Code = "UNKNOWN"

	// Network is synthesized client-side when the transport fails;
	// the server never returns it.
	CodeNetwork Code = "NETWORK"

	// Users & sessions
	CodeUserNonexistent    Code = "USER_NONEXISTENT"
	CodeAPIKeyNonexistent  Code = "API_KEY_NONEXISTENT"
	CodeAPIKeyUnauthorized Code = "API_KEY_UNAUTHORIZED"
	CodePasswordIncorrect  Code = "PASSWORD_INCORRECT"
	CodePasswordInsecure   Code = "PASSWORD_INSECURE"

	// Subscriptions
	CodeSubscriptionNonexistent Code = "SUBSCRIPTION_NONEXISTENT"
	CodeSubscriptionExpired     Code = "SUBSCRIPTION_EXPIRED"
	CodeSubscriptionLimited     Code = "SUBSCRIPTION_LIMITED"

	// Schools
	CodeSchoolNonexistent Code = "SCHOOL_NONEXISTENT"
	CodeSchoolArchived    Code = "SCHOOL_ARCHIVED"

	CodeSchoolKeyNonexistent Code = "SCHOOL_KEY_NONEXISTENT"
	CodeSchoolKeyExpired     Code = "SCHOOL_KEY_EXPIRED"
	CodeSchoolKeyUsed        Code = "SCHOOL_KEY_USED"

	CodeAdminshipCannotLeaveEmpty Code = "ADMINSHIP_CANNOT_LEAVE_EMPTY"

	// Courses
	CodeCourseNonexistent Code = "COURSE_NONEXISTENT"
	CodeCourseArchived    Code = "COURSE_ARCHIVED"

	CodeCourseKeyNonexistent Code = "COURSE_KEY_NONEXISTENT"
	CodeCourseKeyExpired     Code = "COURSE_KEY_EXPIRED"
	CodeCourseKeyUsed        Code = "COURSE_KEY_USED"

	CodeCourseMembershipNonexistent      Code = "COURSE_MEMBERSHIP_NONEXISTENT"
	CodeCourseMembershipCannotLeaveEmpty Code = "COURSE_MEMBERSHIP_CANNOT_LEAVE_EMPTY"

	// Locations
	CodeLocationNonexistent Code = "LOCATION_NONEXISTENT"
	CodeLocationArchived    Code = "LOCATION_ARCHIVED"

	// Sessions & scheduling
	CodeSessionNonexistent Code = "SESSION_NONEXISTENT"

	CodeSessionRequestNonexistent         Code = "SESSION_REQUEST_NONEXISTENT"
	CodeSessionRequestResponseExistent    Code = "SESSION_REQUEST_RESPONSE_EXISTENT"
	CodeSessionRequestResponseNonexistent Code = "SESSION_REQUEST_RESPONSE_NONEXISTENT"

	CodeCommitmentExistent              Code = "COMMITMENT_EXISTENT"
	CodeCommitmentNonexistent           Code = "COMMITMENT_NONEXISTENT"
	CodeCommitmentCannotCreateForOthers Code = "COMMITMENT_CANNOT_CREATE_FOR_OTHERS"

	CodeCommitmentResponseExistent              Code = "COMMITMENT_RESPONSE_EXISTENT"
	CodeCommitmentResponseNonexistent           Code = "COMMITMENT_RESPONSE_NONEXISTENT"
	CodeCommitmentResponseCannotCreateForOthers Code = "COMMITMENT_RESPONSE_CANNOT_CREATE_FOR_OTHERS"
	CodeCommitmentResponseUncancellable         Code = "COMMITMENT_RESPONSE_UNCANCELLABLE"

	// Generic domain rules
	CodeCannotAlterPast  Code = "CANNOT_ALTER_PAST"
	CodeNegativeDuration Code = "NEGATIVE_DURATION"

	// Email flows
	CodeEmailRatelimit   Code = "EMAIL_RATELIMIT"
	CodeEmailBlacklisted Code = "EMAIL_BLACKLISTED"
)

var knownCodes = map[Code]struct{}{
	CodeOK:                  {},
	CodeNotFound:            {},
	CodeBadRequest:          {},
	CodeInternalServerError: {},
	CodeUnknown:             {},
	CodeNetwork:             {},

	CodeUserNonexistent:    {},
	CodeAPIKeyNonexistent:  {},
	CodeAPIKeyUnauthorized: {},
	CodePasswordIncorrect:  {},
	CodePasswordInsecure:   {},

	CodeSubscriptionNonexistent: {},
	CodeSubscriptionExpired:     {},
	CodeSubscriptionLimited:     {},

	CodeSchoolNonexistent: {},
	CodeSchoolArchived:    {},

	CodeSchoolKeyNonexistent: {},
	CodeSchoolKeyExpired:     {},
	CodeSchoolKeyUsed:        {},

	CodeAdminshipCannotLeaveEmpty: {},

	CodeCourseNonexistent: {},
	CodeCourseArchived:    {},

	CodeCourseKeyNonexistent: {},
	CodeCourseKeyExpired:     {},
	CodeCourseKeyUsed:        {},

	CodeCourseMembershipNonexistent:      {},
	CodeCourseMembershipCannotLeaveEmpty: {},

	CodeLocationNonexistent: {},
	CodeLocationArchived:    {},

	CodeSessionNonexistent: {},

	CodeSessionRequestNonexistent:         {},
	CodeSessionRequestResponseExistent:    {},
	CodeSessionRequestResponseNonexistent: {},

	CodeCommitmentExistent:              {},
	CodeCommitmentNonexistent:           {},
	CodeCommitmentCannotCreateForOthers: {},

	CodeCommitmentResponseExistent:              {},
	CodeCommitmentResponseNonexistent:           {},
	CodeCommitmentResponseCannotCreateForOthers: {},
	CodeCommitmentResponseUncancellable:         {},

	CodeCannotAlterPast:  {},
	CodeNegativeDuration: {},

	CodeEmailRatelimit:   {},
	CodeEmailBlacklisted: {},
}

// Known reports whether the code belongs to the documented taxonomy.
// Unknown codes are preserved as-is so callers can still log and
// default-branch on them.
func (c Code) Known() bool {
	_, ok := knownCodes[c]
	return ok
}

func (c Code) String() string { return string(c) }

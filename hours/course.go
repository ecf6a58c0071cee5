package hours

import "context"

// Course is the immutable identity record of a course within a school.
type Course struct {
	CourseID      int64  `json:"courseId"`
	CreationTime  int64  `json:"creationTime"`
	CreatorUserID int64  `json:"creatorUserId"`
	School        School `json:"school"`
}

// CourseData is an append-only edit snapshot of a Course.
type CourseData struct {
	CourseDataID  int64  `json:"courseDataId"`
	CreationTime  int64  `json:"creationTime"`
	CreatorUserID int64  `json:"creatorUserId"`
	Course        Course `json:"course"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	Active        bool   `json:"active"`
}

// CourseMembershipKind tags a course membership record; CANCEL models
// leaving or removal while preserving history.
type CourseMembershipKind string

const (
	CourseMembershipKindInstructor CourseMembershipKind = "INSTRUCTOR"
	CourseMembershipKindStudent    CourseMembershipKind = "STUDENT"
	CourseMembershipKindCancel     CourseMembershipKind = "CANCEL"
)

// CourseMembership is a join record between a user and a Course. The current
// membership of a (user, course) pair is the most recent record.
type CourseMembership struct {
	CourseMembershipID   int64                `json:"courseMembershipId"`
	CreationTime         int64                `json:"creationTime"`
	CreatorUserID        int64                `json:"creatorUserId"`
	UserID               int64                `json:"userId"`
	Course               Course               `json:"course"`
	CourseMembershipKind CourseMembershipKind `json:"courseMembershipKind"`
	// CourseKey is set when the membership was granted by redeeming an
	// invite key.
	CourseKey *CourseKey `json:"courseKey,omitempty"`
}

// CourseKey is a limited-use invite token granting membership of a course
// with the kind it carries.
type CourseKey struct {
	CourseKeyKey         string               `json:"courseKeyKey"`
	CreationTime         int64                `json:"creationTime"`
	CreatorUserID        int64                `json:"creatorUserId"`
	Course               Course               `json:"course"`
	MaxUses              int64                `json:"maxUses"`
	CourseMembershipKind CourseMembershipKind `json:"courseMembershipKind"`
	StartTime            int64                `json:"startTime"`
	EndTime              int64                `json:"endTime"`
}

// CourseKeyData tracks revocation of a CourseKey.
type CourseKeyData struct {
	CourseKeyDataID int64     `json:"courseKeyDataId"`
	CreationTime    int64     `json:"creationTime"`
	CreatorUserID   int64     `json:"creatorUserId"`
	CourseKey       CourseKey `json:"courseKey"`
	Active          bool      `json:"active"`
}

type CourseNewProps struct {
	SchoolID    int64  `json:"schoolId" validate:"required"`
	Name        string `json:"name" validate:"required,entityname"`
	Description string `json:"description"`
	APIKey      string `json:"apiKey" validate:"required"`
}

type CourseDataNewProps struct {
	CourseID    int64  `json:"courseId" validate:"required"`
	Name        string `json:"name" validate:"required,entityname"`
	Description string `json:"description"`
	Active      bool   `json:"active"`
	APIKey      string `json:"apiKey" validate:"required"`
}

type CourseViewProps struct {
	CourseID        []int64 `json:"courseId,omitempty"`
	MinCreationTime *int64  `json:"minCreationTime,omitempty"`
	MaxCreationTime *int64  `json:"maxCreationTime,omitempty"`
	CreatorUserID   []int64 `json:"creatorUserId,omitempty"`
	SchoolID        []int64 `json:"schoolId,omitempty"`
	Offset          *int64  `json:"offset,omitempty"`
	Count           *int64  `json:"count,omitempty"`
	APIKey          string  `json:"apiKey" validate:"required"`
}

type CourseDataViewProps struct {
	CourseDataID    []int64 `json:"courseDataId,omitempty"`
	MinCreationTime *int64  `json:"minCreationTime,omitempty"`
	MaxCreationTime *int64  `json:"maxCreationTime,omitempty"`
	CreatorUserID   []int64 `json:"creatorUserId,omitempty"`
	CourseID        []int64 `json:"courseId,omitempty"`
	SchoolID        []int64 `json:"schoolId,omitempty"`
	PartialName     *string `json:"partialName,omitempty"`
	Active          *bool   `json:"active,omitempty"`
	OnlyRecent      bool    `json:"onlyRecent"`
	Offset          *int64  `json:"offset,omitempty"`
	Count           *int64  `json:"count,omitempty"`
	APIKey          string  `json:"apiKey" validate:"required"`
}

type CourseKeyNewProps struct {
	CourseID             int64                `json:"courseId" validate:"required"`
	CourseMembershipKind CourseMembershipKind `json:"courseMembershipKind" validate:"required,oneof=INSTRUCTOR STUDENT"`
	MaxUses              int64                `json:"maxUses" validate:"required,min=1"`
	StartTime            int64                `json:"startTime" validate:"required"`
	EndTime              int64                `json:"endTime" validate:"required"`
	APIKey               string               `json:"apiKey" validate:"required"`
}

type CourseKeyDataNewProps struct {
	CourseKeyKey string `json:"courseKeyKey" validate:"required"`
	Active       bool   `json:"active"`
	APIKey       string `json:"apiKey" validate:"required"`
}

type CourseKeyViewProps struct {
	CourseKeyKey    []string `json:"courseKeyKey,omitempty"`
	MinCreationTime *int64   `json:"minCreationTime,omitempty"`
	MaxCreationTime *int64   `json:"maxCreationTime,omitempty"`
	CreatorUserID   []int64  `json:"creatorUserId,omitempty"`
	CourseID        []int64  `json:"courseId,omitempty"`
	Offset          *int64   `json:"offset,omitempty"`
	Count           *int64   `json:"count,omitempty"`
	APIKey          string   `json:"apiKey" validate:"required"`
}

type CourseKeyDataViewProps struct {
	CourseKeyDataID []int64  `json:"courseKeyDataId,omitempty"`
	CourseKeyKey    []string `json:"courseKeyKey,omitempty"`
	MinCreationTime *int64   `json:"minCreationTime,omitempty"`
	MaxCreationTime *int64   `json:"maxCreationTime,omitempty"`
	CreatorUserID   []int64  `json:"creatorUserId,omitempty"`
	CourseID        []int64  `json:"courseId,omitempty"`
	Active          *bool    `json:"active,omitempty"`
	OnlyRecent      bool     `json:"onlyRecent"`
	Offset          *int64   `json:"offset,omitempty"`
	Count           *int64   `json:"count,omitempty"`
	APIKey          string   `json:"apiKey" validate:"required"`
}

type CourseMembershipNewKeyProps struct {
	CourseKeyKey string `json:"courseKeyKey" validate:"required"`
	APIKey       string `json:"apiKey" validate:"required"`
}

type CourseMembershipNewCancelProps struct {
	UserID   int64  `json:"userId" validate:"required"`
	CourseID int64  `json:"courseId" validate:"required"`
	APIKey   string `json:"apiKey" validate:"required"`
}

type CourseMembershipViewProps struct {
	CourseMembershipID   []int64                `json:"courseMembershipId,omitempty"`
	MinCreationTime      *int64                 `json:"minCreationTime,omitempty"`
	MaxCreationTime      *int64                 `json:"maxCreationTime,omitempty"`
	CreatorUserID        []int64                `json:"creatorUserId,omitempty"`
	UserID               []int64                `json:"userId,omitempty"`
	CourseID             []int64                `json:"courseId,omitempty"`
	CourseMembershipKind []CourseMembershipKind `json:"courseMembershipKind,omitempty"`
	OnlyRecent           bool                   `json:"onlyRecent"`
	Offset               *int64                 `json:"offset,omitempty"`
	Count                *int64                 `json:"count,omitempty"`
	APIKey               string                 `json:"apiKey" validate:"required"`
}

// CourseNew creates a course and its first data snapshot atomically; the
// caller becomes the course's first instructor.
func (c *Client) CourseNew(ctx context.Context, props CourseNewProps) (CourseData, error) {
	var data CourseData
	err := c.post(ctx, "course", opNew, props, &data)
	return data, err
}

func (c *Client) CourseView(ctx context.Context, props CourseViewProps) ([]Course, error) {
	var out []Course
	err := c.post(ctx, "course", opView, props, &out)
	return out, err
}

func (c *Client) CourseDataNew(ctx context.Context, props CourseDataNewProps) (CourseData, error) {
	var data CourseData
	err := c.post(ctx, "courseData", opNew, props, &data)
	return data, err
}

func (c *Client) CourseDataView(ctx context.Context, props CourseDataViewProps) ([]CourseData, error) {
	var out []CourseData
	err := c.post(ctx, "courseData", opView, props, &out)
	return out, err
}

func (c *Client) CourseKeyNew(ctx context.Context, props CourseKeyNewProps) (CourseKeyData, error) {
	var data CourseKeyData
	err := c.post(ctx, "courseKey", opNew, props, &data)
	return data, err
}

func (c *Client) CourseKeyView(ctx context.Context, props CourseKeyViewProps) ([]CourseKey, error) {
	var out []CourseKey
	err := c.post(ctx, "courseKey", opView, props, &out)
	return out, err
}

// CourseKeyDataNew revokes (Active=false) or re-activates an invite key.
func (c *Client) CourseKeyDataNew(ctx context.Context, props CourseKeyDataNewProps) (CourseKeyData, error) {
	var data CourseKeyData
	err := c.post(ctx, "courseKeyData", opNew, props, &data)
	return data, err
}

func (c *Client) CourseKeyDataView(ctx context.Context, props CourseKeyDataViewProps) ([]CourseKeyData, error) {
	var out []CourseKeyData
	err := c.post(ctx, "courseKeyData", opView, props, &out)
	return out, err
}

// CourseMembershipNewKey redeems a course invite key; the granted kind is
// the one the key carries.
func (c *Client) CourseMembershipNewKey(ctx context.Context, props CourseMembershipNewKeyProps) (CourseMembership, error) {
	var mem CourseMembership
	err := c.post(ctx, "courseMembershipKey", opNew, props, &mem)
	return mem, err
}

// CourseMembershipNewCancel records a CANCEL membership for the target user.
// The server rejects emptying a course of instructors.
func (c *Client) CourseMembershipNewCancel(ctx context.Context, props CourseMembershipNewCancelProps) (CourseMembership, error) {
	var mem CourseMembership
	err := c.post(ctx, "courseMembershipCancel", opNew, props, &mem)
	return mem, err
}

func (c *Client) CourseMembershipView(ctx context.Context, props CourseMembershipViewProps) ([]CourseMembership, error) {
	var out []CourseMembership
	err := c.post(ctx, "courseMembership", opView, props, &out)
	return out, err
}

package hours

import "context"

const (
	opNew  = "new"
	opView = "view"
)

// School is the immutable identity record of a school. Editable fields live
// in SchoolData snapshots; the creation call atomically produces the first
// snapshot, so every School has at least one SchoolData row.
type School struct {
	SchoolID      int64 `json:"schoolId"`
	CreationTime  int64 `json:"creationTime"`
	CreatorUserID int64 `json:"creatorUserId"`
}

// SchoolData is an append-only edit snapshot of a School. The current state
// is the snapshot with the maximum creation time; archival is a new snapshot
// with Active false, never a deletion.
type SchoolData struct {
	SchoolDataID  int64  `json:"schoolDataId"`
	CreationTime  int64  `json:"creationTime"`
	CreatorUserID int64  `json:"creatorUserId"`
	School        School `json:"school"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	Active        bool   `json:"active"`
}

// AdminshipKind tags an adminship record; CANCEL models removal while
// preserving history.
type AdminshipKind string

const (
	AdminshipKindAdmin  AdminshipKind = "ADMIN"
	AdminshipKindCancel AdminshipKind = "CANCEL"
)

// Adminship is a join record between a user and a School. The current
// adminship of a (user, school) pair is the most recent record.
type Adminship struct {
	AdminshipID   int64         `json:"adminshipId"`
	CreationTime  int64         `json:"creationTime"`
	CreatorUserID int64         `json:"creatorUserId"`
	UserID        int64         `json:"userId"`
	School        School        `json:"school"`
	AdminshipKind AdminshipKind `json:"adminshipKind"`
	// SchoolKey is set when the adminship was granted by redeeming an
	// invite key.
	SchoolKey *SchoolKey `json:"schoolKey,omitempty"`
}

// SchoolKey is a limited-use invite token granting adminship of a school.
// Its identity is the opaque key string itself.
type SchoolKey struct {
	SchoolKeyKey  string `json:"schoolKeyKey"`
	CreationTime  int64  `json:"creationTime"`
	CreatorUserID int64  `json:"creatorUserId"`
	School        School `json:"school"`
	MaxUses       int64  `json:"maxUses"`
	StartTime     int64  `json:"startTime"`
	EndTime       int64  `json:"endTime"`
}

// SchoolKeyData tracks revocation of a SchoolKey.
type SchoolKeyData struct {
	SchoolKeyDataID int64     `json:"schoolKeyDataId"`
	CreationTime    int64     `json:"creationTime"`
	CreatorUserID   int64     `json:"creatorUserId"`
	SchoolKey       SchoolKey `json:"schoolKey"`
	Active          bool      `json:"active"`
}

type SchoolNewProps struct {
	Name        string `json:"name" validate:"required,entityname"`
	Description string `json:"description"`
	APIKey      string `json:"apiKey" validate:"required"`
}

type SchoolDataNewProps struct {
	SchoolID    int64  `json:"schoolId" validate:"required"`
	Name        string `json:"name" validate:"required,entityname"`
	Description string `json:"description"`
	Active      bool   `json:"active"`
	APIKey      string `json:"apiKey" validate:"required"`
}

type SchoolViewProps struct {
	SchoolID        []int64 `json:"schoolId,omitempty"`
	MinCreationTime *int64  `json:"minCreationTime,omitempty"`
	MaxCreationTime *int64  `json:"maxCreationTime,omitempty"`
	CreatorUserID   []int64 `json:"creatorUserId,omitempty"`
	Offset          *int64  `json:"offset,omitempty"`
	Count           *int64  `json:"count,omitempty"`
	APIKey          string  `json:"apiKey" validate:"required"`
}

type SchoolDataViewProps struct {
	SchoolDataID    []int64 `json:"schoolDataId,omitempty"`
	MinCreationTime *int64  `json:"minCreationTime,omitempty"`
	MaxCreationTime *int64  `json:"maxCreationTime,omitempty"`
	CreatorUserID   []int64 `json:"creatorUserId,omitempty"`
	SchoolID        []int64 `json:"schoolId,omitempty"`
	PartialName     *string `json:"partialName,omitempty"`
	Active          *bool   `json:"active,omitempty"`
	OnlyRecent      bool    `json:"onlyRecent"`
	Offset          *int64  `json:"offset,omitempty"`
	Count           *int64  `json:"count,omitempty"`
	APIKey          string  `json:"apiKey" validate:"required"`
}

type SchoolKeyNewProps struct {
	SchoolID  int64  `json:"schoolId" validate:"required"`
	MaxUses   int64  `json:"maxUses" validate:"required,min=1"`
	StartTime int64  `json:"startTime" validate:"required"`
	EndTime   int64  `json:"endTime" validate:"required"`
	APIKey    string `json:"apiKey" validate:"required"`
}

type SchoolKeyDataNewProps struct {
	SchoolKeyKey string `json:"schoolKeyKey" validate:"required"`
	Active       bool   `json:"active"`
	APIKey       string `json:"apiKey" validate:"required"`
}

type SchoolKeyViewProps struct {
	SchoolKeyKey    []string `json:"schoolKeyKey,omitempty"`
	MinCreationTime *int64   `json:"minCreationTime,omitempty"`
	MaxCreationTime *int64   `json:"maxCreationTime,omitempty"`
	CreatorUserID   []int64  `json:"creatorUserId,omitempty"`
	SchoolID        []int64  `json:"schoolId,omitempty"`
	Offset          *int64   `json:"offset,omitempty"`
	Count           *int64   `json:"count,omitempty"`
	APIKey          string   `json:"apiKey" validate:"required"`
}

type SchoolKeyDataViewProps struct {
	SchoolKeyDataID []int64  `json:"schoolKeyDataId,omitempty"`
	SchoolKeyKey    []string `json:"schoolKeyKey,omitempty"`
	MinCreationTime *int64   `json:"minCreationTime,omitempty"`
	MaxCreationTime *int64   `json:"maxCreationTime,omitempty"`
	CreatorUserID   []int64  `json:"creatorUserId,omitempty"`
	SchoolID        []int64  `json:"schoolId,omitempty"`
	Active          *bool    `json:"active,omitempty"`
	OnlyRecent      bool     `json:"onlyRecent"`
	Offset          *int64   `json:"offset,omitempty"`
	Count           *int64   `json:"count,omitempty"`
	APIKey          string   `json:"apiKey" validate:"required"`
}

type AdminshipNewKeyProps struct {
	SchoolKeyKey string `json:"schoolKeyKey" validate:"required"`
	APIKey       string `json:"apiKey" validate:"required"`
}

type AdminshipNewCancelProps struct {
	UserID   int64  `json:"userId" validate:"required"`
	SchoolID int64  `json:"schoolId" validate:"required"`
	APIKey   string `json:"apiKey" validate:"required"`
}

type AdminshipViewProps struct {
	AdminshipID     []int64         `json:"adminshipId,omitempty"`
	MinCreationTime *int64          `json:"minCreationTime,omitempty"`
	MaxCreationTime *int64          `json:"maxCreationTime,omitempty"`
	CreatorUserID   []int64         `json:"creatorUserId,omitempty"`
	UserID          []int64         `json:"userId,omitempty"`
	SchoolID        []int64         `json:"schoolId,omitempty"`
	AdminshipKind   []AdminshipKind `json:"adminshipKind,omitempty"`
	OnlyRecent      bool            `json:"onlyRecent"`
	Offset          *int64          `json:"offset,omitempty"`
	Count           *int64          `json:"count,omitempty"`
	APIKey          string          `json:"apiKey" validate:"required"`
}

// SchoolNew creates a school and its first data snapshot atomically; the
// caller becomes the school's first admin.
func (c *Client) SchoolNew(ctx context.Context, props SchoolNewProps) (SchoolData, error) {
	var data SchoolData
	err := c.post(ctx, "school", opNew, props, &data)
	return data, err
}

func (c *Client) SchoolView(ctx context.Context, props SchoolViewProps) ([]School, error) {
	var out []School
	err := c.post(ctx, "school", opView, props, &out)
	return out, err
}

func (c *Client) SchoolDataNew(ctx context.Context, props SchoolDataNewProps) (SchoolData, error) {
	var data SchoolData
	err := c.post(ctx, "schoolData", opNew, props, &data)
	return data, err
}

func (c *Client) SchoolDataView(ctx context.Context, props SchoolDataViewProps) ([]SchoolData, error) {
	var out []SchoolData
	err := c.post(ctx, "schoolData", opView, props, &out)
	return out, err
}

func (c *Client) SchoolKeyNew(ctx context.Context, props SchoolKeyNewProps) (SchoolKeyData, error) {
	var data SchoolKeyData
	err := c.post(ctx, "schoolKey", opNew, props, &data)
	return data, err
}

func (c *Client) SchoolKeyView(ctx context.Context, props SchoolKeyViewProps) ([]SchoolKey, error) {
	var out []SchoolKey
	err := c.post(ctx, "schoolKey", opView, props, &out)
	return out, err
}

// SchoolKeyDataNew revokes (Active=false) or re-activates an invite key.
func (c *Client) SchoolKeyDataNew(ctx context.Context, props SchoolKeyDataNewProps) (SchoolKeyData, error) {
	var data SchoolKeyData
	err := c.post(ctx, "schoolKeyData", opNew, props, &data)
	return data, err
}

func (c *Client) SchoolKeyDataView(ctx context.Context, props SchoolKeyDataViewProps) ([]SchoolKeyData, error) {
	var out []SchoolKeyData
	err := c.post(ctx, "schoolKeyData", opView, props, &out)
	return out, err
}

// AdminshipNewKey redeems a school invite key, granting the caller adminship.
func (c *Client) AdminshipNewKey(ctx context.Context, props AdminshipNewKeyProps) (Adminship, error) {
	var adm Adminship
	err := c.post(ctx, "adminshipKey", opNew, props, &adm)
	return adm, err
}

// AdminshipNewCancel records a CANCEL adminship for the target user. The
// server rejects cancelling the last admin of a school.
func (c *Client) AdminshipNewCancel(ctx context.Context, props AdminshipNewCancelProps) (Adminship, error) {
	var adm Adminship
	err := c.post(ctx, "adminshipCancel", opNew, props, &adm)
	return adm, err
}

func (c *Client) AdminshipView(ctx context.Context, props AdminshipViewProps) ([]Adminship, error) {
	var out []Adminship
	err := c.post(ctx, "adminship", opView, props, &out)
	return out, err
}

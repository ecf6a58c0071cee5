package hours

import "context"

// Location is the immutable identity record of a physical location
// belonging to a school.
type Location struct {
	LocationID    int64  `json:"locationId"`
	CreationTime  int64  `json:"creationTime"`
	CreatorUserID int64  `json:"creatorUserId"`
	School        School `json:"school"`
}

// LocationData is an append-only edit snapshot of a Location.
type LocationData struct {
	LocationDataID int64    `json:"locationDataId"`
	CreationTime   int64    `json:"creationTime"`
	CreatorUserID  int64    `json:"creatorUserId"`
	Location       Location `json:"location"`
	Name           string   `json:"name"`
	Address        string   `json:"address"`
	Phone          string   `json:"phone"`
	Active         bool     `json:"active"`
}

type LocationNewProps struct {
	SchoolID int64  `json:"schoolId" validate:"required"`
	Name     string `json:"name" validate:"required,entityname"`
	Address  string `json:"address"`
	Phone    string `json:"phone"`
	APIKey   string `json:"apiKey" validate:"required"`
}

type LocationDataNewProps struct {
	LocationID int64  `json:"locationId" validate:"required"`
	Name       string `json:"name" validate:"required,entityname"`
	Address    string `json:"address"`
	Phone      string `json:"phone"`
	Active     bool   `json:"active"`
	APIKey     string `json:"apiKey" validate:"required"`
}

type LocationViewProps struct {
	LocationID      []int64 `json:"locationId,omitempty"`
	MinCreationTime *int64  `json:"minCreationTime,omitempty"`
	MaxCreationTime *int64  `json:"maxCreationTime,omitempty"`
	CreatorUserID   []int64 `json:"creatorUserId,omitempty"`
	SchoolID        []int64 `json:"schoolId,omitempty"`
	Offset          *int64  `json:"offset,omitempty"`
	Count           *int64  `json:"count,omitempty"`
	APIKey          string  `json:"apiKey" validate:"required"`
}

type LocationDataViewProps struct {
	LocationDataID  []int64 `json:"locationDataId,omitempty"`
	MinCreationTime *int64  `json:"minCreationTime,omitempty"`
	MaxCreationTime *int64  `json:"maxCreationTime,omitempty"`
	CreatorUserID   []int64 `json:"creatorUserId,omitempty"`
	LocationID      []int64 `json:"locationId,omitempty"`
	SchoolID        []int64 `json:"schoolId,omitempty"`
	PartialName     *string `json:"partialName,omitempty"`
	Active          *bool   `json:"active,omitempty"`
	OnlyRecent      bool    `json:"onlyRecent"`
	Offset          *int64  `json:"offset,omitempty"`
	Count           *int64  `json:"count,omitempty"`
	APIKey          string  `json:"apiKey" validate:"required"`
}

func (c *Client) LocationNew(ctx context.Context, props LocationNewProps) (LocationData, error) {
	var data LocationData
	err := c.post(ctx, "location", opNew, props, &data)
	return data, err
}

func (c *Client) LocationView(ctx context.Context, props LocationViewProps) ([]Location, error) {
	var out []Location
	err := c.post(ctx, "location", opView, props, &out)
	return out, err
}

func (c *Client) LocationDataNew(ctx context.Context, props LocationDataNewProps) (LocationData, error) {
	var data LocationData
	err := c.post(ctx, "locationData", opNew, props, &data)
	return data, err
}

func (c *Client) LocationDataView(ctx context.Context, props LocationDataViewProps) ([]LocationData, error) {
	var out []LocationData
	err := c.post(ctx, "locationData", opView, props, &out)
	return out, err
}

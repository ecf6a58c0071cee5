package stubserver

import "github.com/innexgo/hours-go/hours"

func (db *DB) LocationNew(props hours.LocationNewProps) (hours.LocationData, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	key, err := db.auth(props.APIKey)
	if err != nil {
		return hours.LocationData{}, err
	}
	school, err := db.checkSchoolActive(props.SchoolID)
	if err != nil {
		return hours.LocationData{}, err
	}
	if !db.isAdmin(key.CreatorUserID, school.SchoolID) {
		return hours.LocationData{}, fail(hours.CodeAPIKeyUnauthorized)
	}

	now := nowMillis()
	location := hours.Location{
		LocationID:    db.nextID(),
		CreationTime:  now,
		CreatorUserID: key.CreatorUserID,
		School:        school,
	}
	db.locations[location.LocationID] = location

	data := hours.LocationData{
		LocationDataID: db.nextID(),
		CreationTime:   now,
		CreatorUserID:  key.CreatorUserID,
		Location:       location,
		Name:           props.Name,
		Address:        props.Address,
		Phone:          props.Phone,
		Active:         true,
	}
	db.locationData = append(db.locationData, data)
	return data, nil
}

func (db *DB) LocationDataNew(props hours.LocationDataNewProps) (hours.LocationData, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	key, err := db.auth(props.APIKey)
	if err != nil {
		return hours.LocationData{}, err
	}
	location, ok := db.locations[props.LocationID]
	if !ok {
		return hours.LocationData{}, fail(hours.CodeLocationNonexistent)
	}
	if !db.isAdmin(key.CreatorUserID, location.School.SchoolID) {
		return hours.LocationData{}, fail(hours.CodeAPIKeyUnauthorized)
	}

	data := hours.LocationData{
		LocationDataID: db.nextID(),
		CreationTime:   nowMillis(),
		CreatorUserID:  key.CreatorUserID,
		Location:       location,
		Name:           props.Name,
		Address:        props.Address,
		Phone:          props.Phone,
		Active:         props.Active,
	}
	db.locationData = append(db.locationData, data)
	return data, nil
}

func (db *DB) LocationView(props hours.LocationViewProps) ([]hours.Location, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if _, err := db.auth(props.APIKey); err != nil {
		return nil, err
	}
	var out []hours.Location
	for _, l := range db.locations {
		if matchIn(props.LocationID, l.LocationID) &&
			matchRange(props.MinCreationTime, props.MaxCreationTime, l.CreationTime) &&
			matchIn(props.CreatorUserID, l.CreatorUserID) &&
			matchIn(props.SchoolID, l.School.SchoolID) {
			out = append(out, l)
		}
	}
	sortByTime(out, func(l hours.Location) int64 { return l.CreationTime })
	return window(out, props.Offset, props.Count), nil
}

func (db *DB) LocationDataView(props hours.LocationDataViewProps) ([]hours.LocationData, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if _, err := db.auth(props.APIKey); err != nil {
		return nil, err
	}
	rows := db.locationData
	if props.OnlyRecent {
		latest := make(map[int64]hours.LocationData)
		for _, d := range rows {
			if prev, ok := latest[d.Location.LocationID]; !ok || d.CreationTime > prev.CreationTime {
				latest[d.Location.LocationID] = d
			}
		}
		rows = make([]hours.LocationData, 0, len(latest))
		for _, d := range latest {
			rows = append(rows, d)
		}
	}
	var out []hours.LocationData
	for _, d := range rows {
		if matchIn(props.LocationDataID, d.LocationDataID) &&
			matchRange(props.MinCreationTime, props.MaxCreationTime, d.CreationTime) &&
			matchIn(props.CreatorUserID, d.CreatorUserID) &&
			matchIn(props.LocationID, d.Location.LocationID) &&
			matchIn(props.SchoolID, d.Location.School.SchoolID) &&
			matchPartial(props.PartialName, d.Name) &&
			matchBool(props.Active, d.Active) {
			out = append(out, d)
		}
	}
	sortByTime(out, func(d hours.LocationData) int64 { return d.CreationTime })
	return window(out, props.Offset, props.Count), nil
}

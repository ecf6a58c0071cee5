package stubserver

import (
	"github.com/google/uuid"

	"github.com/innexgo/hours-go/hours"
)

// SchoolNew creates a school, its first data snapshot and the creator's
// ADMIN adminship in one atomic step. Requires a current VALID subscription
// with remaining uses.
func (db *DB) SchoolNew(props hours.SchoolNewProps) (hours.SchoolData, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	key, err := db.auth(props.APIKey)
	if err != nil {
		return hours.SchoolData{}, err
	}
	if err := db.checkSubscription(key.CreatorUserID); err != nil {
		return hours.SchoolData{}, err
	}

	now := nowMillis()
	school := hours.School{
		SchoolID:      db.nextID(),
		CreationTime:  now,
		CreatorUserID: key.CreatorUserID,
	}
	db.schools[school.SchoolID] = school

	data := hours.SchoolData{
		SchoolDataID:  db.nextID(),
		CreationTime:  now,
		CreatorUserID: key.CreatorUserID,
		School:        school,
		Name:          props.Name,
		Description:   props.Description,
		Active:        true,
	}
	db.schoolData = append(db.schoolData, data)

	db.adminships = append(db.adminships, hours.Adminship{
		AdminshipID:   db.nextID(),
		CreationTime:  now,
		CreatorUserID: key.CreatorUserID,
		UserID:        key.CreatorUserID,
		School:        school,
		AdminshipKind: hours.AdminshipKindAdmin,
	})
	return data, nil
}

// checkSubscription enforces the school-creation entitlement: the caller's
// most recent subscription must be VALID and not exhausted. Must be called
// with db.mu held.
func (db *DB) checkSubscription(userID int64) error {
	var best *hours.Subscription
	for i, s := range db.subscriptions {
		if s.CreatorUserID != userID {
			continue
		}
		if best == nil || s.CreationTime > best.CreationTime {
			best = &db.subscriptions[i]
		}
	}
	if best == nil || best.SubscriptionKind != hours.SubscriptionKindValid {
		return fail(hours.CodeSubscriptionNonexistent)
	}
	var created int64
	for _, school := range db.schools {
		if school.CreatorUserID == userID && school.CreationTime >= best.CreationTime {
			created++
		}
	}
	if created >= best.MaxUses {
		return fail(hours.CodeSubscriptionLimited)
	}
	return nil
}

func (db *DB) SchoolDataNew(props hours.SchoolDataNewProps) (hours.SchoolData, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	key, err := db.auth(props.APIKey)
	if err != nil {
		return hours.SchoolData{}, err
	}
	school, ok := db.schools[props.SchoolID]
	if !ok {
		return hours.SchoolData{}, fail(hours.CodeSchoolNonexistent)
	}
	if !db.isAdmin(key.CreatorUserID, school.SchoolID) {
		return hours.SchoolData{}, fail(hours.CodeAPIKeyUnauthorized)
	}

	data := hours.SchoolData{
		SchoolDataID:  db.nextID(),
		CreationTime:  nowMillis(),
		CreatorUserID: key.CreatorUserID,
		School:        school,
		Name:          props.Name,
		Description:   props.Description,
		Active:        props.Active,
	}
	db.schoolData = append(db.schoolData, data)
	return data, nil
}

func (db *DB) SchoolView(props hours.SchoolViewProps) ([]hours.School, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if _, err := db.auth(props.APIKey); err != nil {
		return nil, err
	}
	var out []hours.School
	for _, s := range db.schools {
		if matchIn(props.SchoolID, s.SchoolID) &&
			matchRange(props.MinCreationTime, props.MaxCreationTime, s.CreationTime) &&
			matchIn(props.CreatorUserID, s.CreatorUserID) {
			out = append(out, s)
		}
	}
	sortByTime(out, func(s hours.School) int64 { return s.CreationTime })
	return window(out, props.Offset, props.Count), nil
}

func (db *DB) SchoolDataView(props hours.SchoolDataViewProps) ([]hours.SchoolData, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if _, err := db.auth(props.APIKey); err != nil {
		return nil, err
	}
	rows := db.schoolData
	if props.OnlyRecent {
		latest := make(map[int64]hours.SchoolData)
		for _, d := range rows {
			if prev, ok := latest[d.School.SchoolID]; !ok || d.CreationTime > prev.CreationTime {
				latest[d.School.SchoolID] = d
			}
		}
		rows = make([]hours.SchoolData, 0, len(latest))
		for _, d := range latest {
			rows = append(rows, d)
		}
	}
	var out []hours.SchoolData
	for _, d := range rows {
		if matchIn(props.SchoolDataID, d.SchoolDataID) &&
			matchRange(props.MinCreationTime, props.MaxCreationTime, d.CreationTime) &&
			matchIn(props.CreatorUserID, d.CreatorUserID) &&
			matchIn(props.SchoolID, d.School.SchoolID) &&
			matchPartial(props.PartialName, d.Name) &&
			matchBool(props.Active, d.Active) {
			out = append(out, d)
		}
	}
	sortByTime(out, func(d hours.SchoolData) int64 { return d.CreationTime })
	return window(out, props.Offset, props.Count), nil
}

func (db *DB) SchoolKeyNew(props hours.SchoolKeyNewProps) (hours.SchoolKeyData, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	key, err := db.auth(props.APIKey)
	if err != nil {
		return hours.SchoolKeyData{}, err
	}
	school, err := db.checkSchoolActive(props.SchoolID)
	if err != nil {
		return hours.SchoolKeyData{}, err
	}
	if !db.isAdmin(key.CreatorUserID, school.SchoolID) {
		return hours.SchoolKeyData{}, fail(hours.CodeAPIKeyUnauthorized)
	}
	if props.EndTime <= props.StartTime {
		return hours.SchoolKeyData{}, fail(hours.CodeNegativeDuration)
	}
	if props.MaxUses < 1 {
		return hours.SchoolKeyData{}, fail(hours.CodeBadRequest)
	}

	now := nowMillis()
	schoolKey := hours.SchoolKey{
		SchoolKeyKey:  uuid.NewString(),
		CreationTime:  now,
		CreatorUserID: key.CreatorUserID,
		School:        school,
		MaxUses:       props.MaxUses,
		StartTime:     props.StartTime,
		EndTime:       props.EndTime,
	}
	db.schoolKeys[schoolKey.SchoolKeyKey] = schoolKey

	data := hours.SchoolKeyData{
		SchoolKeyDataID: db.nextID(),
		CreationTime:    now,
		CreatorUserID:   key.CreatorUserID,
		SchoolKey:       schoolKey,
		Active:          true,
	}
	db.schoolKeyData = append(db.schoolKeyData, data)
	return data, nil
}

func (db *DB) SchoolKeyDataNew(props hours.SchoolKeyDataNewProps) (hours.SchoolKeyData, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	key, err := db.auth(props.APIKey)
	if err != nil {
		return hours.SchoolKeyData{}, err
	}
	schoolKey, ok := db.schoolKeys[props.SchoolKeyKey]
	if !ok {
		return hours.SchoolKeyData{}, fail(hours.CodeSchoolKeyNonexistent)
	}
	if !db.isAdmin(key.CreatorUserID, schoolKey.School.SchoolID) {
		return hours.SchoolKeyData{}, fail(hours.CodeAPIKeyUnauthorized)
	}

	data := hours.SchoolKeyData{
		SchoolKeyDataID: db.nextID(),
		CreationTime:    nowMillis(),
		CreatorUserID:   key.CreatorUserID,
		SchoolKey:       schoolKey,
		Active:          props.Active,
	}
	db.schoolKeyData = append(db.schoolKeyData, data)
	return data, nil
}

func (db *DB) SchoolKeyView(props hours.SchoolKeyViewProps) ([]hours.SchoolKey, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if _, err := db.auth(props.APIKey); err != nil {
		return nil, err
	}
	var out []hours.SchoolKey
	for _, k := range db.schoolKeys {
		if matchIn(props.SchoolKeyKey, k.SchoolKeyKey) &&
			matchRange(props.MinCreationTime, props.MaxCreationTime, k.CreationTime) &&
			matchIn(props.CreatorUserID, k.CreatorUserID) &&
			matchIn(props.SchoolID, k.School.SchoolID) {
			out = append(out, k)
		}
	}
	sortByTime(out, func(k hours.SchoolKey) int64 { return k.CreationTime })
	return window(out, props.Offset, props.Count), nil
}

func (db *DB) SchoolKeyDataView(props hours.SchoolKeyDataViewProps) ([]hours.SchoolKeyData, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if _, err := db.auth(props.APIKey); err != nil {
		return nil, err
	}
	rows := db.schoolKeyData
	if props.OnlyRecent {
		latest := make(map[string]hours.SchoolKeyData)
		for _, d := range rows {
			if prev, ok := latest[d.SchoolKey.SchoolKeyKey]; !ok || d.CreationTime > prev.CreationTime {
				latest[d.SchoolKey.SchoolKeyKey] = d
			}
		}
		rows = make([]hours.SchoolKeyData, 0, len(latest))
		for _, d := range latest {
			rows = append(rows, d)
		}
	}
	var out []hours.SchoolKeyData
	for _, d := range rows {
		if matchIn(props.SchoolKeyDataID, d.SchoolKeyDataID) &&
			matchIn(props.SchoolKeyKey, d.SchoolKey.SchoolKeyKey) &&
			matchRange(props.MinCreationTime, props.MaxCreationTime, d.CreationTime) &&
			matchIn(props.CreatorUserID, d.CreatorUserID) &&
			matchIn(props.SchoolID, d.SchoolKey.School.SchoolID) &&
			matchBool(props.Active, d.Active) {
			out = append(out, d)
		}
	}
	sortByTime(out, func(d hours.SchoolKeyData) int64 { return d.CreationTime })
	return window(out, props.Offset, props.Count), nil
}

// AdminshipNewKey redeems a school invite key for the caller.
func (db *DB) AdminshipNewKey(props hours.AdminshipNewKeyProps) (hours.Adminship, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	key, err := db.auth(props.APIKey)
	if err != nil {
		return hours.Adminship{}, err
	}
	schoolKey, ok := db.schoolKeys[props.SchoolKeyKey]
	if !ok {
		return hours.Adminship{}, fail(hours.CodeSchoolKeyNonexistent)
	}
	if data, ok := db.recentSchoolKeyData(schoolKey.SchoolKeyKey); ok && !data.Active {
		return hours.Adminship{}, fail(hours.CodeSchoolKeyNonexistent)
	}
	now := nowMillis()
	if now < schoolKey.StartTime || now >= schoolKey.EndTime {
		return hours.Adminship{}, fail(hours.CodeSchoolKeyExpired)
	}
	if db.schoolKeyUses(schoolKey.SchoolKeyKey) >= schoolKey.MaxUses {
		return hours.Adminship{}, fail(hours.CodeSchoolKeyUsed)
	}
	if _, err := db.checkSchoolActive(schoolKey.School.SchoolID); err != nil {
		return hours.Adminship{}, err
	}

	keyCopy := schoolKey
	adm := hours.Adminship{
		AdminshipID:   db.nextID(),
		CreationTime:  now,
		CreatorUserID: key.CreatorUserID,
		UserID:        key.CreatorUserID,
		School:        schoolKey.School,
		AdminshipKind: hours.AdminshipKindAdmin,
		SchoolKey:     &keyCopy,
	}
	db.adminships = append(db.adminships, adm)
	return adm, nil
}

// AdminshipNewCancel records a CANCEL adminship for the target user. A
// school must always have at least one admin.
func (db *DB) AdminshipNewCancel(props hours.AdminshipNewCancelProps) (hours.Adminship, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	key, err := db.auth(props.APIKey)
	if err != nil {
		return hours.Adminship{}, err
	}
	school, ok := db.schools[props.SchoolID]
	if !ok {
		return hours.Adminship{}, fail(hours.CodeSchoolNonexistent)
	}
	if !db.isAdmin(key.CreatorUserID, school.SchoolID) {
		return hours.Adminship{}, fail(hours.CodeAPIKeyUnauthorized)
	}
	if !db.isAdmin(props.UserID, school.SchoolID) {
		return hours.Adminship{}, fail(hours.CodeUserNonexistent)
	}
	if len(db.currentAdmins(school.SchoolID)) <= 1 {
		return hours.Adminship{}, fail(hours.CodeAdminshipCannotLeaveEmpty)
	}

	adm := hours.Adminship{
		AdminshipID:   db.nextID(),
		CreationTime:  nowMillis(),
		CreatorUserID: key.CreatorUserID,
		UserID:        props.UserID,
		School:        school,
		AdminshipKind: hours.AdminshipKindCancel,
	}
	db.adminships = append(db.adminships, adm)
	return adm, nil
}

func (db *DB) AdminshipView(props hours.AdminshipViewProps) ([]hours.Adminship, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if _, err := db.auth(props.APIKey); err != nil {
		return nil, err
	}
	rows := db.adminships
	if props.OnlyRecent {
		type pair struct{ userID, schoolID int64 }
		latest := make(map[pair]hours.Adminship)
		for _, a := range rows {
			p := pair{a.UserID, a.School.SchoolID}
			if prev, ok := latest[p]; !ok || a.CreationTime > prev.CreationTime {
				latest[p] = a
			}
		}
		rows = make([]hours.Adminship, 0, len(latest))
		for _, a := range latest {
			rows = append(rows, a)
		}
	}
	var out []hours.Adminship
	for _, a := range rows {
		if matchIn(props.AdminshipID, a.AdminshipID) &&
			matchRange(props.MinCreationTime, props.MaxCreationTime, a.CreationTime) &&
			matchIn(props.CreatorUserID, a.CreatorUserID) &&
			matchIn(props.UserID, a.UserID) &&
			matchIn(props.SchoolID, a.School.SchoolID) &&
			matchIn(props.AdminshipKind, a.AdminshipKind) {
			out = append(out, a)
		}
	}
	sortByTime(out, func(a hours.Adminship) int64 { return a.CreationTime })
	return window(out, props.Offset, props.Count), nil
}

package stubserver

import (
	"github.com/google/uuid"

	"github.com/innexgo/hours-go/hours"
)

// CourseNew creates a course, its first data snapshot and the creator's
// INSTRUCTOR membership in one atomic step.
func (db *DB) CourseNew(props hours.CourseNewProps) (hours.CourseData, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	key, err := db.auth(props.APIKey)
	if err != nil {
		return hours.CourseData{}, err
	}
	school, err := db.checkSchoolActive(props.SchoolID)
	if err != nil {
		return hours.CourseData{}, err
	}
	if !db.isAdmin(key.CreatorUserID, school.SchoolID) {
		return hours.CourseData{}, fail(hours.CodeAPIKeyUnauthorized)
	}

	now := nowMillis()
	course := hours.Course{
		CourseID:      db.nextID(),
		CreationTime:  now,
		CreatorUserID: key.CreatorUserID,
		School:        school,
	}
	db.courses[course.CourseID] = course

	data := hours.CourseData{
		CourseDataID:  db.nextID(),
		CreationTime:  now,
		CreatorUserID: key.CreatorUserID,
		Course:        course,
		Name:          props.Name,
		Description:   props.Description,
		Active:        true,
	}
	db.courseData = append(db.courseData, data)

	db.memberships = append(db.memberships, hours.CourseMembership{
		CourseMembershipID:   db.nextID(),
		CreationTime:         now,
		CreatorUserID:        key.CreatorUserID,
		UserID:               key.CreatorUserID,
		Course:               course,
		CourseMembershipKind: hours.CourseMembershipKindInstructor,
	})
	return data, nil
}

func (db *DB) CourseDataNew(props hours.CourseDataNewProps) (hours.CourseData, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	key, err := db.auth(props.APIKey)
	if err != nil {
		return hours.CourseData{}, err
	}
	course, ok := db.courses[props.CourseID]
	if !ok {
		return hours.CourseData{}, fail(hours.CodeCourseNonexistent)
	}
	if !db.canManageCourse(key.CreatorUserID, course) {
		return hours.CourseData{}, fail(hours.CodeAPIKeyUnauthorized)
	}

	data := hours.CourseData{
		CourseDataID:  db.nextID(),
		CreationTime:  nowMillis(),
		CreatorUserID: key.CreatorUserID,
		Course:        course,
		Name:          props.Name,
		Description:   props.Description,
		Active:        props.Active,
	}
	db.courseData = append(db.courseData, data)
	return data, nil
}

func (db *DB) CourseView(props hours.CourseViewProps) ([]hours.Course, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if _, err := db.auth(props.APIKey); err != nil {
		return nil, err
	}
	var out []hours.Course
	for _, c := range db.courses {
		if matchIn(props.CourseID, c.CourseID) &&
			matchRange(props.MinCreationTime, props.MaxCreationTime, c.CreationTime) &&
			matchIn(props.CreatorUserID, c.CreatorUserID) &&
			matchIn(props.SchoolID, c.School.SchoolID) {
			out = append(out, c)
		}
	}
	sortByTime(out, func(c hours.Course) int64 { return c.CreationTime })
	return window(out, props.Offset, props.Count), nil
}

func (db *DB) CourseDataView(props hours.CourseDataViewProps) ([]hours.CourseData, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if _, err := db.auth(props.APIKey); err != nil {
		return nil, err
	}
	rows := db.courseData
	if props.OnlyRecent {
		latest := make(map[int64]hours.CourseData)
		for _, d := range rows {
			if prev, ok := latest[d.Course.CourseID]; !ok || d.CreationTime > prev.CreationTime {
				latest[d.Course.CourseID] = d
			}
		}
		rows = make([]hours.CourseData, 0, len(latest))
		for _, d := range latest {
			rows = append(rows, d)
		}
	}
	var out []hours.CourseData
	for _, d := range rows {
		if matchIn(props.CourseDataID, d.CourseDataID) &&
			matchRange(props.MinCreationTime, props.MaxCreationTime, d.CreationTime) &&
			matchIn(props.CreatorUserID, d.CreatorUserID) &&
			matchIn(props.CourseID, d.Course.CourseID) &&
			matchIn(props.SchoolID, d.Course.School.SchoolID) &&
			matchPartial(props.PartialName, d.Name) &&
			matchBool(props.Active, d.Active) {
			out = append(out, d)
		}
	}
	sortByTime(out, func(d hours.CourseData) int64 { return d.CreationTime })
	return window(out, props.Offset, props.Count), nil
}

func (db *DB) CourseKeyNew(props hours.CourseKeyNewProps) (hours.CourseKeyData, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	key, err := db.auth(props.APIKey)
	if err != nil {
		return hours.CourseKeyData{}, err
	}
	course, err := db.checkCourseActive(props.CourseID)
	if err != nil {
		return hours.CourseKeyData{}, err
	}
	if !db.canManageCourse(key.CreatorUserID, course) {
		return hours.CourseKeyData{}, fail(hours.CodeAPIKeyUnauthorized)
	}
	if props.CourseMembershipKind == hours.CourseMembershipKindCancel {
		return hours.CourseKeyData{}, fail(hours.CodeBadRequest)
	}
	if props.EndTime <= props.StartTime {
		return hours.CourseKeyData{}, fail(hours.CodeNegativeDuration)
	}
	if props.MaxUses < 1 {
		return hours.CourseKeyData{}, fail(hours.CodeBadRequest)
	}

	now := nowMillis()
	courseKey := hours.CourseKey{
		CourseKeyKey:         uuid.NewString(),
		CreationTime:         now,
		CreatorUserID:        key.CreatorUserID,
		Course:               course,
		MaxUses:              props.MaxUses,
		CourseMembershipKind: props.CourseMembershipKind,
		StartTime:            props.StartTime,
		EndTime:              props.EndTime,
	}
	db.courseKeys[courseKey.CourseKeyKey] = courseKey

	data := hours.CourseKeyData{
		CourseKeyDataID: db.nextID(),
		CreationTime:    now,
		CreatorUserID:   key.CreatorUserID,
		CourseKey:       courseKey,
		Active:          true,
	}
	db.courseKeyData = append(db.courseKeyData, data)
	return data, nil
}

func (db *DB) CourseKeyDataNew(props hours.CourseKeyDataNewProps) (hours.CourseKeyData, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	key, err := db.auth(props.APIKey)
	if err != nil {
		return hours.CourseKeyData{}, err
	}
	courseKey, ok := db.courseKeys[props.CourseKeyKey]
	if !ok {
		return hours.CourseKeyData{}, fail(hours.CodeCourseKeyNonexistent)
	}
	if !db.canManageCourse(key.CreatorUserID, courseKey.Course) {
		return hours.CourseKeyData{}, fail(hours.CodeAPIKeyUnauthorized)
	}

	data := hours.CourseKeyData{
		CourseKeyDataID: db.nextID(),
		CreationTime:    nowMillis(),
		CreatorUserID:   key.CreatorUserID,
		CourseKey:       courseKey,
		Active:          props.Active,
	}
	db.courseKeyData = append(db.courseKeyData, data)
	return data, nil
}

func (db *DB) CourseKeyView(props hours.CourseKeyViewProps) ([]hours.CourseKey, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if _, err := db.auth(props.APIKey); err != nil {
		return nil, err
	}
	var out []hours.CourseKey
	for _, k := range db.courseKeys {
		if matchIn(props.CourseKeyKey, k.CourseKeyKey) &&
			matchRange(props.MinCreationTime, props.MaxCreationTime, k.CreationTime) &&
			matchIn(props.CreatorUserID, k.CreatorUserID) &&
			matchIn(props.CourseID, k.Course.CourseID) {
			out = append(out, k)
		}
	}
	sortByTime(out, func(k hours.CourseKey) int64 { return k.CreationTime })
	return window(out, props.Offset, props.Count), nil
}

func (db *DB) CourseKeyDataView(props hours.CourseKeyDataViewProps) ([]hours.CourseKeyData, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if _, err := db.auth(props.APIKey); err != nil {
		return nil, err
	}
	rows := db.courseKeyData
	if props.OnlyRecent {
		latest := make(map[string]hours.CourseKeyData)
		for _, d := range rows {
			if prev, ok := latest[d.CourseKey.CourseKeyKey]; !ok || d.CreationTime > prev.CreationTime {
				latest[d.CourseKey.CourseKeyKey] = d
			}
		}
		rows = make([]hours.CourseKeyData, 0, len(latest))
		for _, d := range latest {
			rows = append(rows, d)
		}
	}
	var out []hours.CourseKeyData
	for _, d := range rows {
		if matchIn(props.CourseKeyDataID, d.CourseKeyDataID) &&
			matchIn(props.CourseKeyKey, d.CourseKey.CourseKeyKey) &&
			matchRange(props.MinCreationTime, props.MaxCreationTime, d.CreationTime) &&
			matchIn(props.CreatorUserID, d.CreatorUserID) &&
			matchIn(props.CourseID, d.CourseKey.Course.CourseID) &&
			matchBool(props.Active, d.Active) {
			out = append(out, d)
		}
	}
	sortByTime(out, func(d hours.CourseKeyData) int64 { return d.CreationTime })
	return window(out, props.Offset, props.Count), nil
}

// CourseMembershipNewKey redeems a course invite key for the caller; the
// granted kind is the one the key carries.
func (db *DB) CourseMembershipNewKey(props hours.CourseMembershipNewKeyProps) (hours.CourseMembership, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	key, err := db.auth(props.APIKey)
	if err != nil {
		return hours.CourseMembership{}, err
	}
	courseKey, ok := db.courseKeys[props.CourseKeyKey]
	if !ok {
		return hours.CourseMembership{}, fail(hours.CodeCourseKeyNonexistent)
	}
	if data, ok := db.recentCourseKeyData(courseKey.CourseKeyKey); ok && !data.Active {
		return hours.CourseMembership{}, fail(hours.CodeCourseKeyNonexistent)
	}
	now := nowMillis()
	if now < courseKey.StartTime || now >= courseKey.EndTime {
		return hours.CourseMembership{}, fail(hours.CodeCourseKeyExpired)
	}
	if db.courseKeyUses(courseKey.CourseKeyKey) >= courseKey.MaxUses {
		return hours.CourseMembership{}, fail(hours.CodeCourseKeyUsed)
	}
	if _, err := db.checkCourseActive(courseKey.Course.CourseID); err != nil {
		return hours.CourseMembership{}, err
	}

	keyCopy := courseKey
	mem := hours.CourseMembership{
		CourseMembershipID:   db.nextID(),
		CreationTime:         now,
		CreatorUserID:        key.CreatorUserID,
		UserID:               key.CreatorUserID,
		Course:               courseKey.Course,
		CourseMembershipKind: courseKey.CourseMembershipKind,
		CourseKey:            &keyCopy,
	}
	db.memberships = append(db.memberships, mem)
	return mem, nil
}

// CourseMembershipNewCancel records a CANCEL membership: self-removal, or
// removal by an instructor/admin. A course may not lose its last
// instructor.
func (db *DB) CourseMembershipNewCancel(props hours.CourseMembershipNewCancelProps) (hours.CourseMembership, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	key, err := db.auth(props.APIKey)
	if err != nil {
		return hours.CourseMembership{}, err
	}
	course, ok := db.courses[props.CourseID]
	if !ok {
		return hours.CourseMembership{}, fail(hours.CodeCourseNonexistent)
	}
	if props.UserID != key.CreatorUserID && !db.canManageCourse(key.CreatorUserID, course) {
		return hours.CourseMembership{}, fail(hours.CodeAPIKeyUnauthorized)
	}
	kind, ok := db.membershipKind(props.UserID, course.CourseID)
	if !ok {
		return hours.CourseMembership{}, fail(hours.CodeCourseMembershipNonexistent)
	}
	if kind == hours.CourseMembershipKindInstructor && len(db.currentInstructors(course.CourseID)) <= 1 {
		return hours.CourseMembership{}, fail(hours.CodeCourseMembershipCannotLeaveEmpty)
	}

	mem := hours.CourseMembership{
		CourseMembershipID:   db.nextID(),
		CreationTime:         nowMillis(),
		CreatorUserID:        key.CreatorUserID,
		UserID:               props.UserID,
		Course:               course,
		CourseMembershipKind: hours.CourseMembershipKindCancel,
	}
	db.memberships = append(db.memberships, mem)
	return mem, nil
}

func (db *DB) CourseMembershipView(props hours.CourseMembershipViewProps) ([]hours.CourseMembership, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if _, err := db.auth(props.APIKey); err != nil {
		return nil, err
	}
	rows := db.memberships
	if props.OnlyRecent {
		type pair struct{ userID, courseID int64 }
		latest := make(map[pair]hours.CourseMembership)
		for _, m := range rows {
			p := pair{m.UserID, m.Course.CourseID}
			if prev, ok := latest[p]; !ok || m.CreationTime > prev.CreationTime {
				latest[p] = m
			}
		}
		rows = make([]hours.CourseMembership, 0, len(latest))
		for _, m := range latest {
			rows = append(rows, m)
		}
	}
	var out []hours.CourseMembership
	for _, m := range rows {
		if matchIn(props.CourseMembershipID, m.CourseMembershipID) &&
			matchRange(props.MinCreationTime, props.MaxCreationTime, m.CreationTime) &&
			matchIn(props.CreatorUserID, m.CreatorUserID) &&
			matchIn(props.UserID, m.UserID) &&
			matchIn(props.CourseID, m.Course.CourseID) &&
			matchIn(props.CourseMembershipKind, m.CourseMembershipKind) {
			out = append(out, m)
		}
	}
	sortByTime(out, func(m hours.CourseMembership) int64 { return m.CreationTime })
	return window(out, props.Offset, props.Count), nil
}

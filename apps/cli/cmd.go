package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/innexgo/hours-go/core"
	"github.com/innexgo/hours-go/hours"
	"github.com/innexgo/hours-go/storage/keystore"
)

var (
	readPasswordFunc = term.ReadPassword // mockable
	nowFunc          = time.Now          // mockable

	errHelp      = errors.New("help provided")
	errNoSession = errors.New("no active session; run `hours login` first")
)

type commandLine struct {
	client *hours.Client
	keys   *keystore.Store
	out    io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  login -user USER_ID [-duration DUR]     - store an API key (prompted)")
	fmt.Fprintln(cli.out, "  logout                                  - clear the stored session")
	fmt.Fprintln(cli.out, "  whoami                                  - show the stored session")
	fmt.Fprintln(cli.out, "  schools [-all]                          - list schools")
	fmt.Fprintln(cli.out, "  school-add -name NAME [-desc TEXT]      - create a school")
	fmt.Fprintln(cli.out, "  courses -school ID [-all]               - list a school's courses")
	fmt.Fprintln(cli.out, "  course-add -school ID -name NAME        - create a course")
	fmt.Fprintln(cli.out, "  sessions -course ID                     - list a course's sessions")
	fmt.Fprintln(cli.out, "  session-add -course ID -start T -duration DUR [-name NAME] [-location ID]")
	fmt.Fprintln(cli.out, "  enroll -session ID -students ID,ID,...  - bulk-commit students")
	fmt.Fprintln(cli.out, "  attend -commitment ID -kind KIND        - take attendance (PRESENT|TARDY|ABSENT|CANCELLED)")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	switch args[1] {
	case "login":
		return cli.login(args[2:])
	case "logout":
		return cli.keys.Clear()
	case "whoami":
		return cli.whoami()
	case "schools":
		return cli.schools(args[2:])
	case "school-add":
		return cli.schoolAdd(args[2:])
	case "courses":
		return cli.courses(args[2:])
	case "course-add":
		return cli.courseAdd(args[2:])
	case "sessions":
		return cli.sessions(args[2:])
	case "session-add":
		return cli.sessionAdd(args[2:])
	case "enroll":
		return cli.enroll(args[2:])
	case "attend":
		return cli.attend(args[2:])
	default:
		cli.printUsage()
		return errHelp
	}
}

// sessionKey loads the stored API key, enforcing the advisory client-side
// expiry check. The server re-checks on every request regardless.
func (cli *commandLine) sessionKey() (*hours.APIKey, error) {
	key := cli.keys.Load()
	if !key.Valid(nowFunc()) {
		return nil, errNoSession
	}
	return key, nil
}

func (cli *commandLine) login(args []string) error {
	cmd := flag.NewFlagSet("login", flag.ExitOnError)
	userID := cmd.Int64("user", 0, "The user id the key was issued for.")
	duration := cmd.Duration("duration", 24*time.Hour, "The key's remaining lifetime.")
	if err := cmd.Parse(args); err != nil {
		return err
	}
	if *userID == 0 {
		cmd.Usage()
		return errHelp
	}

	fmt.Fprint(cli.out, "Enter API key:")
	raw, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Fprintln(cli.out)
	if err != nil {
		return err
	}
	if len(raw) == 0 {
		cmd.Usage()
		return errHelp
	}

	key := &hours.APIKey{
		Key:           string(raw),
		CreationTime:  nowFunc().UnixMilli(),
		CreatorUserID: *userID,
		Duration:      duration.Milliseconds(),
	}

	// probe the key before storing it
	if _, err := cli.client.SchoolView(context.Background(), hours.SchoolViewProps{APIKey: key.Key}); err != nil {
		return err
	}
	if err := cli.keys.Save(key); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "logged in as user %d\n", key.CreatorUserID)
	return nil
}

func (cli *commandLine) whoami() error {
	key := cli.keys.Load()
	if key == nil {
		return errNoSession
	}
	expiry := time.UnixMilli(key.CreationTime + key.Duration)
	status := "valid"
	if !key.Valid(nowFunc()) {
		status = "expired"
	}
	fmt.Fprintf(cli.out, "user %d, key %s until %s\n", key.CreatorUserID, status, expiry.Format(time.RFC3339))
	return nil
}

func (cli *commandLine) schools(args []string) error {
	cmd := flag.NewFlagSet("schools", flag.ExitOnError)
	all := cmd.Bool("all", false, "Include archived schools.")
	if err := cmd.Parse(args); err != nil {
		return err
	}
	key, err := cli.sessionKey()
	if err != nil {
		return err
	}

	props := hours.SchoolDataViewProps{OnlyRecent: true, APIKey: key.Key}
	if !*all {
		active := true
		props.Active = &active
	}
	rows, err := cli.client.SchoolDataView(context.Background(), props)
	if err != nil {
		return err
	}
	for _, d := range rows {
		cli.printRow(d.School.SchoolID, d.Name, d.Description, d.Active)
	}
	return nil
}

func (cli *commandLine) schoolAdd(args []string) error {
	cmd := flag.NewFlagSet("school-add", flag.ExitOnError)
	name := cmd.String("name", "", "The school's name.")
	desc := cmd.String("desc", "", "The school's description.")
	if err := cmd.Parse(args); err != nil {
		return err
	}
	if *name = core.CleanString(*name); *name == "" {
		cmd.Usage()
		return errHelp
	}
	key, err := cli.sessionKey()
	if err != nil {
		return err
	}

	data, err := cli.client.SchoolNew(context.Background(), hours.SchoolNewProps{
		Name:        *name,
		Description: *desc,
		APIKey:      key.Key,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "created school %d (%s)\n", data.School.SchoolID, data.Name)
	return nil
}

func (cli *commandLine) courses(args []string) error {
	cmd := flag.NewFlagSet("courses", flag.ExitOnError)
	schoolID := cmd.Int64("school", 0, "The school to list courses of.")
	all := cmd.Bool("all", false, "Include archived courses.")
	if err := cmd.Parse(args); err != nil {
		return err
	}
	if *schoolID == 0 {
		cmd.Usage()
		return errHelp
	}
	key, err := cli.sessionKey()
	if err != nil {
		return err
	}

	props := hours.CourseDataViewProps{
		SchoolID:   []int64{*schoolID},
		OnlyRecent: true,
		APIKey:     key.Key,
	}
	if !*all {
		active := true
		props.Active = &active
	}
	rows, err := cli.client.CourseDataView(context.Background(), props)
	if err != nil {
		return err
	}
	for _, d := range rows {
		cli.printRow(d.Course.CourseID, d.Name, d.Description, d.Active)
	}
	return nil
}

func (cli *commandLine) courseAdd(args []string) error {
	cmd := flag.NewFlagSet("course-add", flag.ExitOnError)
	schoolID := cmd.Int64("school", 0, "The school to create the course in.")
	name := cmd.String("name", "", "The course's name.")
	desc := cmd.String("desc", "", "The course's description.")
	if err := cmd.Parse(args); err != nil {
		return err
	}
	if *name = core.CleanString(*name); *schoolID == 0 || *name == "" {
		cmd.Usage()
		return errHelp
	}
	key, err := cli.sessionKey()
	if err != nil {
		return err
	}

	data, err := cli.client.CourseNew(context.Background(), hours.CourseNewProps{
		SchoolID:    *schoolID,
		Name:        *name,
		Description: *desc,
		APIKey:      key.Key,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "created course %d (%s)\n", data.Course.CourseID, data.Name)
	return nil
}

func (cli *commandLine) sessions(args []string) error {
	cmd := flag.NewFlagSet("sessions", flag.ExitOnError)
	courseID := cmd.Int64("course", 0, "The course to list sessions of.")
	if err := cmd.Parse(args); err != nil {
		return err
	}
	if *courseID == 0 {
		cmd.Usage()
		return errHelp
	}
	key, err := cli.sessionKey()
	if err != nil {
		return err
	}

	active := true
	rows, err := cli.client.SessionDataView(context.Background(), hours.SessionDataViewProps{
		CourseID:   []int64{*courseID},
		Active:     &active,
		OnlyRecent: true,
		APIKey:     key.Key,
	})
	if err != nil {
		return err
	}
	for _, d := range rows {
		start := time.UnixMilli(d.StartTime).Format(time.RFC3339)
		fmt.Fprintf(cli.out, "%d\t%s\t%s\t%s\n", d.Session.SessionID, d.Name, start, time.Duration(d.Duration)*time.Millisecond)
	}
	return nil
}

func (cli *commandLine) sessionAdd(args []string) error {
	cmd := flag.NewFlagSet("session-add", flag.ExitOnError)
	courseID := cmd.Int64("course", 0, "The course to schedule in.")
	name := cmd.String("name", "", "The session's name.")
	start := cmd.String("start", "", "Start time, RFC3339 (e.g. 2021-09-01T15:00:00Z).")
	duration := cmd.Duration("duration", 0, "The session's length (e.g. 45m).")
	locationID := cmd.Int64("location", 0, "Optional location id.")
	if err := cmd.Parse(args); err != nil {
		return err
	}
	if *courseID == 0 || *start == "" || *duration <= 0 {
		cmd.Usage()
		return errHelp
	}
	startTime, err := time.Parse(time.RFC3339, *start)
	if err != nil {
		return fmt.Errorf("invalid -start: %w", err)
	}
	key, err := cli.sessionKey()
	if err != nil {
		return err
	}

	props := hours.SessionNewProps{
		CourseID:  *courseID,
		Name:      *name,
		StartTime: startTime.UnixMilli(),
		Duration:  duration.Milliseconds(),
		APIKey:    key.Key,
	}
	if *locationID != 0 {
		props.LocationID = locationID
	}
	data, err := cli.client.SessionNew(context.Background(), props)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "created session %d\n", data.Session.SessionID)
	return nil
}

func (cli *commandLine) enroll(args []string) error {
	cmd := flag.NewFlagSet("enroll", flag.ExitOnError)
	sessionID := cmd.Int64("session", 0, "The session to commit students to.")
	students := cmd.String("students", "", "Comma-separated student user ids.")
	if err := cmd.Parse(args); err != nil {
		return err
	}
	if *sessionID == 0 || *students == "" {
		cmd.Usage()
		return errHelp
	}
	attendees, err := parseIDList(*students)
	if err != nil {
		return err
	}
	key, err := cli.sessionKey()
	if err != nil {
		return err
	}

	results, batchErr := cli.client.CommitmentNewBatch(context.Background(), *sessionID, attendees, key.Key)
	var created, skipped, failed int
	for _, res := range results {
		switch res.Code {
		case hours.CodeOK:
			created++
		case hours.CodeCommitmentExistent:
			skipped++
		default:
			failed++
			fmt.Fprintf(cli.out, "student %d: %s\n", res.AttendeeUserID, res.Code)
		}
	}
	fmt.Fprintf(cli.out, "%d created, %d already committed, %d failed\n", created, skipped, failed)
	return batchErr
}

func (cli *commandLine) attend(args []string) error {
	cmd := flag.NewFlagSet("attend", flag.ExitOnError)
	commitmentID := cmd.Int64("commitment", 0, "The commitment to respond to.")
	kind := cmd.String("kind", "", "PRESENT, TARDY, ABSENT or CANCELLED.")
	if err := cmd.Parse(args); err != nil {
		return err
	}
	if *commitmentID == 0 || *kind == "" {
		cmd.Usage()
		return errHelp
	}
	key, err := cli.sessionKey()
	if err != nil {
		return err
	}

	resp, err := cli.client.CommitmentResponseNew(context.Background(), hours.CommitmentResponseNewProps{
		CommitmentID: *commitmentID,
		Kind:         hours.CommitmentResponseKind(strings.ToUpper(*kind)),
		APIKey:       key.Key,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "recorded %s for student %d\n", resp.Kind, resp.Commitment.AttendeeUserID)
	return nil
}

func (cli *commandLine) printRow(id int64, name, desc string, active bool) {
	status := ""
	if !active {
		status = "\t(archived)"
	}
	fmt.Fprintf(cli.out, "%d\t%s\t%s%s\n", id, name, desc, status)
}

func parseIDList(s string) ([]int64, error) {
	parts := strings.Split(s, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q", p)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

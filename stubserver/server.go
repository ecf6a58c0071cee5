package stubserver

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/innexgo/hours-go/core"
	"github.com/innexgo/hours-go/hours"
)

type (
	Options struct {
		Address        string
		DisableReqLogs bool
		DB             *DB
		Logger         core.Logger
	}

	Server interface {
		http.Handler
		Start()
		Stop(context.Context) error
	}

	server struct {
		opts *Options
		app  *echo.Echo
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	if opts.DB == nil {
		opts.DB = NewDB()
	}
	s := &server{
		opts: opts,
		app:  echo.New(),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	debug := core.Conf.GetBool("debug")

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(debug || core.Conf.GetBool("testMode")) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = s.httpErrorHandler
	s.app.Debug = debug
	s.app.HideBanner = true

	db := s.opts.DB
	g := s.app.Group("/innexgo_hours")

	g.POST("/school/new", handle(db.SchoolNew))
	g.POST("/school/view", handle(db.SchoolView))
	g.POST("/schoolData/new", handle(db.SchoolDataNew))
	g.POST("/schoolData/view", handle(db.SchoolDataView))
	g.POST("/schoolKey/new", handle(db.SchoolKeyNew))
	g.POST("/schoolKey/view", handle(db.SchoolKeyView))
	g.POST("/schoolKeyData/new", handle(db.SchoolKeyDataNew))
	g.POST("/schoolKeyData/view", handle(db.SchoolKeyDataView))
	g.POST("/adminshipKey/new", handle(db.AdminshipNewKey))
	g.POST("/adminshipCancel/new", handle(db.AdminshipNewCancel))
	g.POST("/adminship/view", handle(db.AdminshipView))

	g.POST("/course/new", handle(db.CourseNew))
	g.POST("/course/view", handle(db.CourseView))
	g.POST("/courseData/new", handle(db.CourseDataNew))
	g.POST("/courseData/view", handle(db.CourseDataView))
	g.POST("/courseKey/new", handle(db.CourseKeyNew))
	g.POST("/courseKey/view", handle(db.CourseKeyView))
	g.POST("/courseKeyData/new", handle(db.CourseKeyDataNew))
	g.POST("/courseKeyData/view", handle(db.CourseKeyDataView))
	g.POST("/courseMembershipKey/new", handle(db.CourseMembershipNewKey))
	g.POST("/courseMembershipCancel/new", handle(db.CourseMembershipNewCancel))
	g.POST("/courseMembership/view", handle(db.CourseMembershipView))

	g.POST("/location/new", handle(db.LocationNew))
	g.POST("/location/view", handle(db.LocationView))
	g.POST("/locationData/new", handle(db.LocationDataNew))
	g.POST("/locationData/view", handle(db.LocationDataView))

	g.POST("/session/new", handle(db.SessionNew))
	g.POST("/session/view", handle(db.SessionView))
	g.POST("/sessionData/new", handle(db.SessionDataNew))
	g.POST("/sessionData/view", handle(db.SessionDataView))
	g.POST("/sessionRequest/new", handle(db.SessionRequestNew))
	g.POST("/sessionRequest/view", handle(db.SessionRequestView))
	g.POST("/sessionRequestResponse/new", handle(db.SessionRequestResponseNew))
	g.POST("/sessionRequestResponse/view", handle(db.SessionRequestResponseView))

	g.POST("/commitment/new", handle(db.CommitmentNew))
	g.POST("/commitment/view", handle(db.CommitmentView))
	g.POST("/commitmentResponse/new", handle(db.CommitmentResponseNew))
	g.POST("/commitmentResponse/view", handle(db.CommitmentResponseView))

	g.POST("/subscription/new", handle(db.SubscriptionNew))
	g.POST("/subscription/view", handle(db.SubscriptionView))
}

// handle binds the op's props type from the JSON body and encodes its
// result, leaving failures to the HTTP error handler.
func handle[Props, Out any](op func(Props) (Out, error)) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		var props Props
		if err := ctx.Bind(&props); err != nil {
			return fail(hours.CodeBadRequest)
		}
		out, err := op(props)
		if err != nil {
			return err
		}
		if err := ctx.JSON(http.StatusOK, out); err != nil {
			// losing the ability to respond compromises the server
			return core.NewShutdownError(err.Error())
		}
		return nil
	}
}

// httpErrorHandler encodes failures per the wire contract: non-2xx status,
// JSON string body holding the taxonomy code.
func (s *server) httpErrorHandler(err error, ctx echo.Context) {
	if ctx.Response().Committed {
		return
	}
	if core.IsShutdown(err) {
		if s.opts.Logger != nil {
			s.opts.Logger.Error("integrity issue, shutting down", err)
		}
		go func() { _ = s.Stop(context.Background()) }()
		return
	}
	var code hours.Code
	var status int

	switch origErr := err.(type) {
	case codeError:
		code = origErr.code
		status = statusOf(code)
	case *echo.HTTPError:
		switch origErr.Code {
		case http.StatusNotFound, http.StatusMethodNotAllowed:
			code = hours.CodeNotFound
		default:
			code = hours.CodeBadRequest
		}
		status = statusOf(code)
	default:
		code = hours.CodeInternalServerError
		status = statusOf(code)
		if s.opts.Logger != nil {
			s.opts.Logger.Error("unhandled error", err)
		}
	}
	if err := ctx.JSON(status, string(code)); err != nil && s.opts.Logger != nil {
		s.opts.Logger.Error("writing error response", err)
	}
}

func (s *server) Start() {
	s.app.Logger.Fatal(s.app.Start(s.opts.Address))
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

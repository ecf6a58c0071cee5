package hours

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/innexgo/hours-go/core"
)

// apiPrefix is the resource namespace shared by every Hours deployment.
const apiPrefix = "/innexgo_hours/"

var errInvalidProps = errors.New("invalid request props")

type (
	Options struct {
		// BaseURL points the client at a deployment; defaults to the
		// configured serverURL. Build one Client per deployment.
		BaseURL    string
		HTTPClient *http.Client
		Validate   *validator.Validate
		Translator ut.Translator
	}

	// Client is the typed contract layer over the Hours remote API.
	// One method per remote operation; all methods send a POST with the
	// props struct as JSON body (the capability token rides in the
	// props' apiKey field) and normalize every failure into *Error.
	//
	// Props that fail local validation are rejected with a
	// *core.ValidationError before any network traffic.
	Client struct {
		baseURL    string
		http       *http.Client
		validate   *validator.Validate
		translator ut.Translator
	}
)

func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = core.Conf.GetString("serverURL")
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: core.Conf.GetDuration("requestTimeout")}
	}
	if opts.Validate == nil {
		opts.Validate, opts.Translator = core.NewValidator()
	}
	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		http:       opts.HTTPClient,
		validate:   opts.Validate,
		translator: opts.Translator,
	}
}

// post performs one remote operation: POST <base>/innexgo_hours/<resource>/<op>
// with props as JSON body. A 2xx response is decoded into out (skipped when out
// is nil); any other status is decoded into the taxonomy code carried by the
// body; a transport failure is mapped to CodeNetwork with the cause kept for
// Unwrap. It never panics.
func (c *Client) post(ctx context.Context, resource, op string, props, out interface{}) error {
	if err := c.checkProps(props); err != nil {
		return err
	}

	body, err := json.Marshal(props)
	if err != nil {
		return errors.Wrap(err, "encoding props")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+apiPrefix+resource+"/"+op, bytes.NewReader(body))
	if err != nil {
		return newNetworkError(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return newNetworkError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return newNetworkError(err)
	}

	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		if out == nil {
			return nil
		}
		if err := json.Unmarshal(data, out); err != nil {
			return newNetworkError(errors.Wrap(err, "decoding response"))
		}
		return nil
	}
	return newError(decodeCode(data))
}

func (c *Client) checkProps(props interface{}) error {
	if c.validate == nil || props == nil {
		return nil
	}
	err := c.validate.Struct(props)
	if err == nil {
		return nil
	}
	var vErrs validator.ValidationErrors
	if errors.As(err, &vErrs) {
		flds := make([]core.FieldError, 0, len(vErrs))
		for _, vErr := range vErrs {
			fldErr := vErr.Error()
			if c.translator != nil {
				fldErr = vErr.Translate(c.translator)
			}
			flds = append(flds, core.FieldError{Field: vErr.Field(), Error: fldErr})
		}
		return core.NewValidationError(errInvalidProps, flds...)
	}
	return errors.Wrap(err, "validating props")
}

// decodeCode extracts the error code from a non-2xx response body. The wire
// format is a JSON-encoded string, but a bare string body is tolerated; an
// empty or undecodable body falls back to CodeUnknown.
func decodeCode(body []byte) Code {
	var code string
	if err := json.Unmarshal(body, &code); err == nil && code != "" {
		return Code(code)
	}
	if s := strings.Trim(strings.TrimSpace(string(body)), `"`); s != "" {
		return Code(s)
	}
	return CodeUnknown
}

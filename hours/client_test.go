package hours

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/innexgo/hours-go/core"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Options{BaseURL: srv.URL})
}

func TestClient_post_success(t *testing.T) {
	var gotPath, gotMethod string
	var gotBody map[string]interface{}

	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		data := SchoolData{
			SchoolDataID:  2,
			CreationTime:  1000,
			CreatorUserID: 1,
			School:        School{SchoolID: 1, CreationTime: 1000, CreatorUserID: 1},
			Name:          "Innexgo High",
			Active:        true,
		}
		require.NoError(t, json.NewEncoder(w).Encode(data))
	})

	data, err := client.SchoolNew(context.Background(), SchoolNewProps{
		Name:        "Innexgo High",
		Description: "a school",
		APIKey:      "key",
	})
	require.NoError(t, err)
	require.Equal(t, http.MethodPost, gotMethod)
	require.Equal(t, "/innexgo_hours/school/new", gotPath)
	// the capability token rides flattened in the props
	require.Equal(t, "key", gotBody["apiKey"])
	require.Equal(t, "Innexgo High", gotBody["name"])
	require.Equal(t, int64(1), data.School.SchoolID)
	require.Equal(t, "Innexgo High", data.Name)
}

func TestClient_post_apiError(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode("API_KEY_UNAUTHORIZED")
	})

	_, err := client.SchoolDataNew(context.Background(), SchoolDataNewProps{
		SchoolID: 1,
		Name:     "Renamed",
		Active:   true,
		APIKey:   "expired-key",
	})
	require.Error(t, err)
	require.Equal(t, CodeAPIKeyUnauthorized, CodeOf(err))
	require.True(t, IsCode(err, CodeAPIKeyUnauthorized))
}

func TestClient_post_bareStringErrorBody(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("SCHOOL_NONEXISTENT"))
	})

	_, err := client.SchoolView(context.Background(), SchoolViewProps{APIKey: "key"})
	require.Equal(t, CodeSchoolNonexistent, CodeOf(err))
}

func TestClient_post_emptyErrorBody(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.SchoolView(context.Background(), SchoolViewProps{APIKey: "key"})
	require.Equal(t, CodeUnknown, CodeOf(err))
}

func TestClient_post_transportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // nothing listens anymore

	client := NewClient(Options{BaseURL: srv.URL})
	_, err := client.SchoolView(context.Background(), SchoolViewProps{APIKey: "key"})
	require.Error(t, err)
	require.Equal(t, CodeNetwork, CodeOf(err))

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	require.Error(t, apiErr.Unwrap()) // transport cause is kept
}

func TestClient_post_undecodablePayload(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	})

	_, err := client.SchoolView(context.Background(), SchoolViewProps{APIKey: "key"})
	require.Equal(t, CodeNetwork, CodeOf(err))
}

func TestClient_post_invalidProps(t *testing.T) {
	var hits int
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits++
	})

	// missing apiKey and name
	_, err := client.SchoolNew(context.Background(), SchoolNewProps{})
	require.Error(t, err)

	var vErr *core.ValidationError
	require.ErrorAs(t, err, &vErr)
	require.NotEmpty(t, vErr.Fields)
	require.Zero(t, hits, "invalid props must be rejected before any network traffic")
	require.Equal(t, CodeUnknown, CodeOf(err))
}

func TestClient_post_contextCancelled(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := client.SchoolView(ctx, SchoolViewProps{APIKey: "key"})
	require.Equal(t, CodeNetwork, CodeOf(err))
}

func Test_decodeCode(t *testing.T) {
	tests := []struct {
		name string
		body string
		want Code
	}{
		{"json string", `"API_KEY_NONEXISTENT"`, CodeAPIKeyNonexistent},
		{"bare string", "PASSWORD_INCORRECT", Code("PASSWORD_INCORRECT")},
		{"padded bare string", "  NOT_FOUND \n", CodeNotFound},
		{"empty", "", CodeUnknown},
		{"blank", "   ", CodeUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := decodeCode([]byte(tt.body)); got != tt.want {
				t.Errorf("decodeCode() = %v, want %v", got, tt.want)
			}
		})
	}
}

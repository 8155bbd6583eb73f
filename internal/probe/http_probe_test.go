package probe_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grillz/web/internal/domain"
	"github.com/grillz/web/internal/probe"
)

func newBackend(t *testing.T, status int, body string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Path != "/health" || r.Method != http.MethodGet {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestHTTPProbe_Success(t *testing.T) {
	srv, hits := newBackend(t, http.StatusOK, `{"status":"ok"}`)

	out := probe.NewHTTPProbe(srv.URL, 0).Check(context.Background())

	require.True(t, out.OK())
	assert.Equal(t, "{\n  \"status\": \"ok\"\n}", out.Text())
	assert.Equal(t, int32(1), hits.Load())
}

func TestHTTPProbe_MissingBaseURL(t *testing.T) {
	out := probe.NewHTTPProbe("", 0).Check(context.Background())

	require.False(t, out.OK())
	assert.Equal(t, domain.KindConfig, out.Err.Kind)
	assert.Equal(t, "NEXT_PUBLIC_API_BASE_URL is not set", out.Text())
}

func TestHTTPProbe_MissingBaseURL_NoNetworkCall(t *testing.T) {
	var called atomic.Bool
	client := &http.Client{Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
		called.Store(true)
		return nil, errors.New("should not be called")
	})}

	probe.NewHTTPProbe("", 0, probe.WithHTTPClient(client)).Check(context.Background())
	assert.False(t, called.Load())
}

func TestHTTPProbe_NonOKStatus(t *testing.T) {
	tests := []struct {
		status int
		want   string
	}{
		{http.StatusInternalServerError, "Request failed: 500"},
		{http.StatusNotFound, "Request failed: 404"},
		{http.StatusServiceUnavailable, "Request failed: 503"},
	}

	for _, tc := range tests {
		t.Run(tc.want, func(t *testing.T) {
			srv, _ := newBackend(t, tc.status, `{"status":"down"}`)
			out := probe.NewHTTPProbe(srv.URL, 0).Check(context.Background())

			require.False(t, out.OK())
			assert.Equal(t, domain.KindRequest, out.Err.Kind)
			assert.Equal(t, tc.status, out.Err.Status)
			assert.Equal(t, tc.want, out.Text())
		})
	}
}

func TestHTTPProbe_NoContentIsOKButNotJSON(t *testing.T) {
	srv, _ := newBackend(t, http.StatusNoContent, "")
	out := probe.NewHTTPProbe(srv.URL, 0).Check(context.Background())

	require.False(t, out.OK())
	assert.Equal(t, domain.KindParse, out.Err.Kind)
	assert.Equal(t, "unexpected end of JSON input", out.Text())
}

func TestHTTPProbe_InvalidJSON(t *testing.T) {
	srv, _ := newBackend(t, http.StatusOK, `<html>oops</html>`)
	out := probe.NewHTTPProbe(srv.URL, 0).Check(context.Background())

	require.False(t, out.OK())
	assert.Equal(t, domain.KindParse, out.Err.Kind)
	assert.NotEmpty(t, out.Text())
}

func TestHTTPProbe_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	out := probe.NewHTTPProbe(base, 0).Check(context.Background())

	require.False(t, out.OK())
	assert.Equal(t, domain.KindTransport, out.Err.Kind)
	assert.Equal(t, out.Err.Err.Error(), out.Text())
	assert.Contains(t, out.Text(), base+"/health")
}

func TestHTTPProbe_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer srv.Close()

	out := probe.NewHTTPProbe(srv.URL, 20*time.Millisecond).Check(context.Background())

	require.False(t, out.OK())
	assert.Equal(t, domain.KindTransport, out.Err.Kind)
}

func TestHTTPProbe_LimiterAndHooks(t *testing.T) {
	srv, _ := newBackend(t, http.StatusOK, `[1,2]`)

	var waited, started atomic.Int32
	var kind atomic.Value
	p := probe.NewHTTPProbe(srv.URL, 0,
		probe.WithLimiter(waiterFunc(func(context.Context) error { waited.Add(1); return nil })),
		probe.WithHooks(probe.Hooks{
			OnStart:   func() { started.Add(1) },
			OnSettled: func(k string, _ time.Duration) { kind.Store(k) },
		}),
	)

	out := p.Check(context.Background())
	require.True(t, out.OK())
	assert.Equal(t, int32(1), waited.Load())
	assert.Equal(t, int32(1), started.Load())
	assert.Equal(t, "ok", kind.Load())
}

func TestHTTPProbe_LimiterRefusal(t *testing.T) {
	srv, hits := newBackend(t, http.StatusOK, `{}`)
	p := probe.NewHTTPProbe(srv.URL, 0,
		probe.WithLimiter(waiterFunc(func(context.Context) error { return context.Canceled })))

	out := p.Check(context.Background())
	require.False(t, out.OK())
	assert.Equal(t, "context canceled", out.Text())
	assert.Zero(t, hits.Load())
}

func TestPrettyJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"object", `{"status":"ok"}`, "{\n  \"status\": \"ok\"\n}"},
		{"key order kept", `{"b":1,"a":2}`, "{\n  \"b\": 1,\n  \"a\": 2\n}"},
		{"nested", `{"a":{"b":[1]}}`, "{\n  \"a\": {\n    \"b\": [\n      1\n    ]\n  }\n}"},
		{"empty object", `{}`, "{}"},
		{"scalar", `"ok"`, `"ok"`},
		{"surrounding whitespace", "\n {\"x\":null} \n", "{\n  \"x\": null\n}"},
		{"escapes decoded", `{"s":"\u006fk"}`, "{\n  \"s\": \"ok\"\n}"},
		{"non-ascii unescaped", `"caf\u00e9"`, `"café"`},
		{"html kept literal", `"<a&b>"`, `"<a&b>"`},
		{"control characters", `"a\u0001\u000a\/"`, `"a\u0001\n/"`},
		{"trailing zeros dropped", `{"n":1.50}`, "{\n  \"n\": 1.5\n}"},
		{"exponent expanded", `{"n":1e2}`, "{\n  \"n\": 100\n}"},
		{"negative zero", `-0`, "0"},
		{"small fraction", `0.000001`, "0.000001"},
		{"tiny exponent", `1E-7`, "1e-7"},
		{"large exponent", `1e21`, "1e+21"},
		{"big integer rounds", `123456789012345678901234`, "1.2345678901234568e+23"},
		{"overflow becomes null", `[1e400]`, "[\n  null\n]"},
		{"duplicate key last wins", `{"a":1,"a":2}`, "{\n  \"a\": 2\n}"},
		{"duplicate key keeps position", `{"a":1,"b":0,"a":2}`, "{\n  \"a\": 2,\n  \"b\": 0\n}"},
		{"integer keys first", `{"b":1,"10":2,"2":3,"01":4}`, "{\n  \"2\": 3,\n  \"10\": 2,\n  \"b\": 1,\n  \"01\": 4\n}"},
		{"empty array", `{"a":[]}`, "{\n  \"a\": []\n}"},
		{"literals", `[true,false,null]`, "[\n  true,\n  false,\n  null\n]"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := probe.PrettyJSON([]byte(tc.in))
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestPrettyJSON_Invalid(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", ``, "unexpected end of JSON input"},
		{"truncated object", `{"a":`, "unexpected end of JSON input"},
		{"truncated array", `[1,2`, "unexpected end of JSON input"},
		{"trailing comma", `[1,]`, ""},
		{"missing colon", `{"a" 1}`, ""},
		{"trailing garbage", `{"a":1} x`, ""},
		{"second value", `{} {}`, ""},
		{"not json", `<html>`, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := probe.PrettyJSON([]byte(tc.in))
			require.Error(t, err)
			if tc.want != "" {
				assert.Equal(t, tc.want, err.Error())
			}
		})
	}
}

func TestHTTPProbe_BodyTooLarge(t *testing.T) {
	srv, _ := newBackend(t, http.StatusOK, `{"status":"`+strings.Repeat("x", 64)+`"}`)

	out := probe.NewHTTPProbe(srv.URL, 0, probe.WithMaxBodyBytes(32)).Check(context.Background())

	require.False(t, out.OK())
	assert.Equal(t, domain.KindParse, out.Err.Kind)
	assert.Equal(t, "response body exceeds 32 bytes", out.Text())
}

func TestHTTPProbe_BodyAtLimit(t *testing.T) {
	body := `{"status":"ok"}`
	srv, _ := newBackend(t, http.StatusOK, body)

	out := probe.NewHTTPProbe(srv.URL, 0, probe.WithMaxBodyBytes(int64(len(body)))).Check(context.Background())
	assert.True(t, out.OK())
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

type waiterFunc func(context.Context) error

func (f waiterFunc) Wait(ctx context.Context) error { return f(ctx) }

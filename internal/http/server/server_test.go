package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	rdb "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/dropDatabas3/signupform/internal/config"
	dto "github.com/dropDatabas3/signupform/internal/http/dto/signup"
	"github.com/dropDatabas3/signupform/internal/observability/logger"
)

const goodPassword = "Abcdef1!ghijkl"

type errorBody struct {
	Code   string `json:"code"`
	Detail string `json:"detail"`
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Signup.NoticeDelay = 40 * time.Millisecond
	cfg.Metrics.Enabled = true
	return cfg
}

func newTestServer(t *testing.T, cfg *config.Config, opts Options) *httptest.Server {
	t.Helper()
	app, err := Build(cfg, opts)
	require.NoError(t, err)
	srv := httptest.NewServer(app.Handler)
	t.Cleanup(func() {
		srv.Close()
		_ = app.Close()
	})
	return srv
}

func do(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, url, rdr)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestSignupFlow_OverHTTP(t *testing.T) {
	srv := newTestServer(t, testConfig(), Options{})

	resp := do(t, http.MethodPost, srv.URL+"/v1/signup/forms", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "no-store", resp.Header.Get("Cache-Control"))
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
	form := decode[dto.FormResponse](t, resp)
	require.NotEmpty(t, form.FormID)
	require.Len(t, form.Rules, 6)
	formURL := srv.URL + "/v1/signup/forms/" + form.FormID
	assert.Equal(t, "/v1/signup/forms/"+form.FormID, resp.Header.Get("Location"))

	// submit con gate cerrado: 409 y el form no cambia
	resp = do(t, http.MethodPatch, formURL, map[string]string{"email": "a@b.com", "password": "short1A!"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp = do(t, http.MethodPost, formURL+"/submit", nil)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	eb := decode[errorBody](t, resp)
	assert.Equal(t, "FORM_NOT_SUBMITTABLE", eb.Code)
	assert.Contains(t, eb.Detail, "length-range")

	resp = do(t, http.MethodPatch, formURL, map[string]string{"password": goodPassword, "confirm_password": goodPassword})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), goodPassword)
	var updated dto.FormResponse
	require.NoError(t, json.Unmarshal(raw, &updated))
	assert.True(t, updated.Submittable)
	assert.True(t, updated.PasswordMatch)
	assert.Equal(t, 14, updated.PasswordLength)

	resp = do(t, http.MethodPost, formURL+"/visibility", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, decode[dto.FormResponse](t, resp).PasswordVisible)

	resp = do(t, http.MethodPost, formURL+"/submit", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	sub := decode[dto.SubmitResponse](t, resp)
	assert.True(t, sub.Submitted)
	assert.Empty(t, sub.Form.Email)
	assert.False(t, sub.Form.PasswordVisible)
	assert.Equal(t, "shown", sub.Form.Notice.State)
	assert.Equal(t, "Submitted Successfully!", sub.Form.Notice.Message)

	assert.Eventually(t, func() bool {
		r := do(t, http.MethodGet, formURL, nil)
		return r.StatusCode == http.StatusOK && decode[dto.FormResponse](t, r).Notice.State == "idle"
	}, 2*time.Second, 10*time.Millisecond)

	resp = do(t, http.MethodDelete, formURL, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = do(t, http.MethodGet, formURL, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "FORM_NOT_FOUND", decode[errorBody](t, resp).Code)
}

func TestEvaluateAndRules(t *testing.T) {
	srv := newTestServer(t, testConfig(), Options{})

	resp := do(t, http.MethodGet, srv.URL+"/v1/signup/rules", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	rules := decode[dto.RulesResponse](t, resp)
	require.Len(t, rules.Rules, 6)
	assert.Equal(t, "One number", rules.Rules[0].Label)

	resp = do(t, http.MethodPost, srv.URL+"/v1/signup/evaluate", dto.EvaluateRequest{
		Email: "a@b.com", Password: goodPassword, ConfirmPassword: goodPassword,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	ev := decode[dto.EvaluateResponse](t, resp)
	assert.True(t, ev.Submittable)
}

func TestBadRequests(t *testing.T) {
	srv := newTestServer(t, testConfig(), Options{})
	form := decode[dto.FormResponse](t, do(t, http.MethodPost, srv.URL+"/v1/signup/forms", nil))
	formURL := srv.URL + "/v1/signup/forms/" + form.FormID

	// campo desconocido
	resp := do(t, http.MethodPatch, formURL, map[string]string{"passwd": "x"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_JSON", decode[errorBody](t, resp).Code)

	// sin cambios
	resp = do(t, http.MethodPatch, formURL, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// content-type incorrecto
	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/v1/signup/evaluate", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "text/plain")
	r2, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer r2.Body.Close()
	assert.Equal(t, http.StatusUnsupportedMediaType, r2.StatusCode)

	resp = do(t, http.MethodGet, srv.URL+"/v1/signup/forms/not-a-uuid", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = do(t, http.MethodGet, srv.URL+"/nope", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", decode[errorBody](t, resp).Code)

	resp = do(t, http.MethodPut, srv.URL+"/v1/signup/rules", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestRateLimit_Memory(t *testing.T) {
	cfg := testConfig()
	cfg.Rate.Enabled = true
	cfg.Rate.MaxRequests = 2
	srv := newTestServer(t, cfg, Options{})

	for i := 0; i < 2; i++ {
		resp := do(t, http.MethodGet, srv.URL+"/v1/signup/rules", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}
	resp := do(t, http.MethodGet, srv.URL+"/v1/signup/rules", nil)
	require.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("Retry-After"))

	// health no tiene rate limit
	resp = do(t, http.MethodGet, srv.URL+"/healthz", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, http.MethodGet, srv.URL+"/metrics", nil)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "http_rate_limited_total 1")
}

func TestRateLimit_SpoofedForwardedForDoesNotBypass(t *testing.T) {
	cfg := testConfig()
	cfg.Rate.Enabled = true
	cfg.Rate.MaxRequests = 2
	srv := newTestServer(t, cfg, Options{})

	var codes []int
	for i := 1; i <= 6; i++ {
		req, err := http.NewRequest(http.MethodGet, srv.URL+"/v1/signup/rules", nil)
		require.NoError(t, err)
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("10.0.0.%d", i))
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		codes = append(codes, resp.StatusCode)
	}
	assert.Equal(t, []int{200, 200, 429, 429, 429, 429}, codes)
}

func TestRateLimit_TrustedProxyForwardedFor(t *testing.T) {
	cfg := testConfig()
	cfg.Rate.Enabled = true
	cfg.Rate.MaxRequests = 1
	cfg.Rate.TrustedProxies = []string{"127.0.0.1", "::1"}
	srv := newTestServer(t, cfg, Options{})

	get := func(xff string) int {
		req, err := http.NewRequest(http.MethodGet, srv.URL+"/v1/signup/rules", nil)
		require.NoError(t, err)
		req.Header.Set("X-Forwarded-For", xff)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		return resp.StatusCode
	}
	// detrás de un proxy confiable cada cliente tiene su propia ventana
	assert.Equal(t, http.StatusOK, get("198.51.100.1"))
	assert.Equal(t, http.StatusOK, get("198.51.100.2"))
	assert.Equal(t, http.StatusTooManyRequests, get("198.51.100.1"))
}

func TestBuild_InvalidTrustedProxy(t *testing.T) {
	cfg := testConfig()
	cfg.Rate.TrustedProxies = []string{"nope"}
	_, err := Build(cfg, Options{})
	assert.Error(t, err)
}

func TestRateLimit_RedisAndReadiness(t *testing.T) {
	mr := miniredis.RunT(t)
	client := rdb.NewClient(&rdb.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	cfg := testConfig()
	cfg.Rate.Enabled = true
	cfg.Rate.MaxRequests = 1
	cfg.Cache.Kind = "redis"
	cfg.Cache.Redis.Addr = mr.Addr()
	srv := newTestServer(t, cfg, Options{Redis: client})

	resp := do(t, http.MethodGet, srv.URL+"/readyz", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, http.MethodGet, srv.URL+"/v1/signup/rules", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp = do(t, http.MethodGet, srv.URL+"/v1/signup/rules", nil)
	require.Equal(t, http.StatusTooManyRequests, resp.StatusCode)

	// con Redis caído: readiness falla y el rate limit deja pasar
	addr := mr.Addr()
	mr.Close()
	resp = do(t, http.MethodGet, srv.URL+"/readyz", nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.NotContains(t, string(body), addr)
	resp = do(t, http.MethodGet, srv.URL+"/v1/signup/rules", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t, testConfig(), Options{})
	do(t, http.MethodPost, srv.URL+"/v1/signup/forms", nil)

	resp := do(t, http.MethodGet, srv.URL+"/metrics", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	s := string(body)
	assert.Contains(t, s, `route="/v1/signup/forms"`)
	assert.Contains(t, s, "signup_sessions_active 1")
	assert.Equal(t, "no-store", resp.Header.Get("Cache-Control"))
}

func TestFormRoutes_LogsCarryFormID(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	restore := logger.Replace(zap.New(core))
	defer restore()

	srv := newTestServer(t, testConfig(), Options{})
	form := decode[dto.FormResponse](t, do(t, http.MethodPost, srv.URL+"/v1/signup/forms", nil))
	formURL := srv.URL + "/v1/signup/forms/" + form.FormID

	resp := do(t, http.MethodPatch, formURL, map[string]string{"password": "short1A!"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp = do(t, http.MethodPost, formURL+"/submit", nil)
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	for _, msg := range []string{"form updated", "submit rejected"} {
		entries := logs.FilterMessage(msg).All()
		require.Lenf(t, entries, 1, "message %q", msg)
		fields := entries[0].ContextMap()
		assert.Equal(t, form.FormID, fields["form_id"], msg)
		assert.NotEmpty(t, fields["request_id"], msg)
		assert.NotContains(t, fmt.Sprint(fields), "short1A!")
	}
}

func TestMetricsDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.Metrics.Enabled = false
	srv := newTestServer(t, cfg, Options{})
	resp := do(t, http.MethodGet, srv.URL+"/metrics", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

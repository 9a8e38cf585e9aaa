package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/program-scheduler/backend/internal/config"
	"github.com/sysu-ecnc-dev/program-scheduler/backend/internal/domain"
)

func newTestConfig() *config.Config {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.Server.MaxUploadSize = 1 << 20
	cfg.GA.Generations = 10
	cfg.GA.PopulationSize = 10
	cfg.GA.EliteCount = 2
	cfg.GA.DefaultCrossoverRate = 0.8
	cfg.GA.DefaultMutationRate = 0.02
	cfg.TimeSlot.StartHour = 6
	cfg.TimeSlot.EndHour = 24
	cfg.JWT.Expiration = 1
	return cfg
}

func newTestHandler(t *testing.T) *Handler {
	t.Helper()

	h, err := NewHandler(newTestConfig(), nil, nil, nil)
	require.NoError(t, err)
	h.RegisterRoutes()
	return h
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var res Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
	return res
}

func TestAuthRequiresCookie(t *testing.T) {
	h := newTestHandler(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/rating-tables/", strings.NewReader(`{}`))
	h.Mux.ServeHTTP(rec, req)

	res := decodeResponse(t, rec)
	assert.False(t, res.Success)
	assert.Equal(t, "用户未登录", res.Message)
}

func TestAuthRejectsInvalidToken(t *testing.T) {
	h := newTestHandler(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/rating-tables/import", nil)
	req.AddCookie(&http.Cookie{Name: tokenCookieName, Value: "not-a-jwt"})
	h.Mux.ServeHTTP(rec, req)

	res := decodeResponse(t, rec)
	assert.False(t, res.Success)
	assert.Equal(t, "无效的令牌", res.Message)
}

func TestRatingTableRejectsInvalidID(t *testing.T) {
	h := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.Mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/rating-tables/abc/", nil))

	res := decodeResponse(t, rec)
	assert.False(t, res.Success)
	assert.Equal(t, "评分表ID无效", res.Message)
}

func TestCreateRatingTableRejectsDuplicatedPrograms(t *testing.T) {
	h := newTestHandler(t)

	body := `{"name":"早间","programs":[{"name":"A","ratings":[1]},{"name":"A","ratings":[2]}]}`
	rec := httptest.NewRecorder()
	h.CreateRatingTable(rec, httptest.NewRequest(http.MethodPost, "/rating-tables/", strings.NewReader(body)))

	res := decodeResponse(t, rec)
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "评分表格式错误")
}

func TestCreateRatingTableValidatesBody(t *testing.T) {
	h := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.CreateRatingTable(rec, httptest.NewRequest(http.MethodPost, "/rating-tables/", strings.NewReader(`{"name":"早间","programs":[]}`)))

	res := decodeResponse(t, rec)
	assert.False(t, res.Success)
	assert.NotEmpty(t, res.Message)
}

func TestImportRatingTableRejectsMalformedCSV(t *testing.T) {
	h := newTestHandler(t)

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	require.NoError(t, mw.WriteField("name", "早间"))
	fw, err := mw.CreateFormFile("file", "ratings.csv")
	require.NoError(t, err)
	_, err = fw.Write([]byte("program,r0,r1\nA,3,1\nB,2,abc\n"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/rating-tables/import", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	h.ImportRatingTable(rec, req)

	res := decodeResponse(t, rec)
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "第 3 行第 3 列")
}

func TestGenerateSchedulingResultValidatesRates(t *testing.T) {
	h := newTestHandler(t)

	ctx := context.WithValue(context.Background(), MyInfoCtx, &domain.User{ID: 1})
	ctx = context.WithValue(ctx, RatingTableCtx, &domain.RatingTable{
		ID: 1,
		Programs: []domain.ProgramRating{
			{Name: "A", Ratings: []float64{1}},
			{Name: "B", Ratings: []float64{2}},
			{Name: "C", Ratings: []float64{3}},
		},
	})

	for _, body := range []string{
		`{"crossoverRate":0.99}`,
		`{"mutationRate":0.2}`,
		`{"mutationRate":0.001}`,
	} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/rating-tables/1/scheduling-results/generate", strings.NewReader(body)).WithContext(ctx)
		h.GenerateSchedulingResult(rec, req)

		res := decodeResponse(t, rec)
		assert.False(t, res.Success, body)
	}
}

func TestGenerateSchedulingResultRejectsEmptyTable(t *testing.T) {
	h := newTestHandler(t)

	ctx := context.WithValue(context.Background(), MyInfoCtx, &domain.User{ID: 1})
	ctx = context.WithValue(ctx, RatingTableCtx, &domain.RatingTable{ID: 1})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/rating-tables/1/scheduling-results/generate", nil).WithContext(ctx)
	h.GenerateSchedulingResult(rec, req)

	res := decodeResponse(t, rec)
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "没有任何节目")
}

func TestNewHandlerRejectsInvalidGAConfig(t *testing.T) {
	cases := map[string]func(cfg *config.Config){
		"elite exceeds population": func(cfg *config.Config) { cfg.GA.EliteCount = cfg.GA.PopulationSize + 1 },
		"empty population":         func(cfg *config.Config) { cfg.GA.PopulationSize = 0 },
		"negative generations":     func(cfg *config.Config) { cfg.GA.Generations = -1 },
		"crossover above bound":    func(cfg *config.Config) { cfg.GA.DefaultCrossoverRate = 0.99 },
		"mutation below bound":     func(cfg *config.Config) { cfg.GA.DefaultMutationRate = 0 },
		"empty time slot range":    func(cfg *config.Config) { cfg.TimeSlot.EndHour = cfg.TimeSlot.StartHour },
		"time slot past midnight":  func(cfg *config.Config) { cfg.TimeSlot.EndHour = 25 },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := newTestConfig()
			mutate(cfg)

			h, err := NewHandler(cfg, nil, nil, nil)
			assert.Nil(t, h)
			assert.Error(t, err)
		})
	}
}

func TestNewHandlerKeepsGAConfig(t *testing.T) {
	h := newTestHandler(t)

	p := h.SchedulerParameters()
	assert.Equal(t, int32(10), p.Generations)
	assert.Equal(t, int32(10), p.PopulationSize)
	assert.Equal(t, int32(2), p.EliteCount)
	assert.Equal(t, 0.8, p.CrossoverRate)
	assert.Equal(t, 0.02, p.MutationRate)
}

func TestGenerateSchedulingResultValidatesExplicitZeroRate(t *testing.T) {
	h := newTestHandler(t)

	ctx := context.WithValue(context.Background(), MyInfoCtx, &domain.User{ID: 1})
	ctx = context.WithValue(ctx, RatingTableCtx, &domain.RatingTable{ID: 1})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/rating-tables/1/scheduling-results/generate", strings.NewReader(`{"mutationRate":0}`)).WithContext(ctx)
	h.GenerateSchedulingResult(rec, req)

	res := decodeResponse(t, rec)
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "MutationRate")
}

func TestIssuedTokenCarriesOperator(t *testing.T) {
	h := newTestHandler(t)

	now := time.Now()
	token, expiration, err := h.issueToken(&domain.User{ID: 42, Username: "zhangsan"}, now)
	require.NoError(t, err)
	assert.WithinDuration(t, now.Add(time.Hour), expiration, time.Second)

	claims, err := h.parseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, "zhangsan", claims.Username)

	// 其他密钥签发的令牌无效
	other := newTestConfig()
	other.JWT.Secret = "another-secret"
	h2, err := NewHandler(other, nil, nil, nil)
	require.NoError(t, err)
	_, err = h2.parseToken(token)
	assert.Error(t, err)

	// 过期的令牌无效
	expired, _, err := h.issueToken(&domain.User{ID: 42, Username: "zhangsan"}, now.Add(-2*time.Hour))
	require.NoError(t, err)
	_, err = h.parseToken(expired)
	assert.Error(t, err)
}

func TestAuthAttachesClaims(t *testing.T) {
	h := newTestHandler(t)

	token, _, err := h.issueToken(&domain.User{ID: 7, Username: "lisi"}, time.Now())
	require.NoError(t, err)

	var got slog.Attr
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = operator(r)
		h.successResponse(w, r, "ok", nil)
	})

	req := httptest.NewRequest(http.MethodPost, "/rating-tables/", nil)
	req.AddCookie(&http.Cookie{Name: tokenCookieName, Value: token})
	rec := httptest.NewRecorder()
	h.auth(next).ServeHTTP(rec, req)

	res := decodeResponse(t, rec)
	require.True(t, res.Success)
	assert.Equal(t, "operator", got.Key)
	group := got.Value.Group()
	require.Len(t, group, 2)
	assert.Equal(t, "id", group[0].Key)
	assert.Equal(t, "7", group[0].Value.String())
	assert.Equal(t, "username", group[1].Key)
	assert.Equal(t, "lisi", group[1].Value.String())
}

func TestOperatorWithoutClaims(t *testing.T) {
	attr := operator(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "operator", attr.Key)
	assert.Empty(t, attr.Value.Group())
}

func TestLogoutExpiresCookie(t *testing.T) {
	h := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.Logout(rec, httptest.NewRequest(http.MethodPost, "/auth/logout", nil))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, tokenCookieName, cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.True(t, cookies[0].Expires.Before(time.Now()))
}

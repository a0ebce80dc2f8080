package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/YasirGaji/thegoldmetrics/internal/cron"
	"github.com/YasirGaji/thegoldmetrics/internal/model"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/assert/v2"
)

type fakeJobs struct {
	result model.JobResult
	ran    []string
	panics bool
}

func (f *fakeJobs) Run(ctx context.Context, name string) model.JobResult {
	f.ran = append(f.ran, name)
	if f.panics {
		panic("nil provider")
	}
	return f.result
}

type fakeDispatcher struct {
	report cron.DispatchReport
	calls  int
}

func (f *fakeDispatcher) Dispatch(ctx context.Context) cron.DispatchReport {
	f.calls++
	return f.report
}

func newCronRouter(secret string, jobs JobRunner, dispatcher JobDispatcher) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Recovery())
	h := NewCronHandler(jobs, dispatcher)
	g := r.Group("/cron", CronAuth(secret))
	g.GET("/dispatcher", h.Dispatch)
	g.GET("/record-price", h.RunJob(model.JobRecordPrice))
	g.GET("/daily-post", h.RunJob(model.JobDailyPost))
	return r
}

func TestCronAuth(t *testing.T) {
	tests := []struct {
		name   string
		secret string
		url    string
		header string
		want   int
	}{
		{"query key", "s3cret", "/cron/dispatcher?key=s3cret", "", http.StatusOK},
		{"bearer header", "s3cret", "/cron/dispatcher", "Bearer s3cret", http.StatusOK},
		{"wrong key", "s3cret", "/cron/dispatcher?key=guess", "", http.StatusUnauthorized},
		{"missing key", "s3cret", "/cron/dispatcher", "", http.StatusUnauthorized},
		{"bare header", "s3cret", "/cron/dispatcher", "s3cret", http.StatusUnauthorized},
		{"bare header with space", "s3cret", "/cron/dispatcher", "s3cret ", http.StatusUnauthorized},
		{"basic scheme", "s3cret", "/cron/dispatcher", "Basic s3cret", http.StatusUnauthorized},
		{"secret unset", "", "/cron/dispatcher?key=", "", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dispatcher := &fakeDispatcher{report: cron.DispatchReport{Success: true}}
			r := newCronRouter(tt.secret, &fakeJobs{}, dispatcher)

			w := httptest.NewRecorder()
			req := httptest.NewRequest("GET", tt.url, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Code)
			if tt.want != http.StatusOK {
				assert.Equal(t, 0, dispatcher.calls)
			}
		})
	}
}

func TestDispatchMultiStatus(t *testing.T) {
	dispatcher := &fakeDispatcher{report: cron.DispatchReport{
		Success:      false,
		JobsExecuted: 1,
		MultiStatus:  true,
		Results:      []model.JobOutcome{{Job: model.JobRecordPrice, Success: false, Message: "quota exhausted"}},
	}}
	r := newCronRouter("s3cret", &fakeJobs{}, dispatcher)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/cron/dispatcher?key=s3cret", nil))

	assert.Equal(t, http.StatusMultiStatus, w.Code)

	var res cron.DispatchReport
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, false, res.Success)
	assert.Equal(t, "quota exhausted", res.Results[0].Message)
}

func TestRunJobResponses(t *testing.T) {
	jobs := &fakeJobs{result: model.JobResult{Success: true, Message: "Price recorded: $4319.53 / £3412.43"}}
	r := newCronRouter("s3cret", jobs, &fakeDispatcher{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/cron/record-price?key=s3cret", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{model.JobRecordPrice}, jobs.ran)

	var res JobResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, true, res.Success)
	assert.Equal(t, "Price recorded: $4319.53 / £3412.43", res.Message)

	jobs.result = model.JobResult{Success: false, Message: "no price providers configured"}
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/cron/daily-post?key=s3cret", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, false, res.Success)
	assert.Equal(t, "no price providers configured", res.Error)
}

func TestRunJobPanicReturns500(t *testing.T) {
	r := newCronRouter("s3cret", &fakeJobs{panics: true}, &fakeDispatcher{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/cron/record-price?key=s3cret", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

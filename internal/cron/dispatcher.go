package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/YasirGaji/thegoldmetrics/internal/model"
)

// Lagos has not observed daylight saving since 1978, so a fixed offset is exact.
var Lagos = time.FixedZone("WAT", 60*60)

type Schedule struct {
	DailyPostHour    int
	RecordPriceHour  int
	IngestEveryHours int
}

func DefaultSchedule() Schedule {
	return Schedule{
		DailyPostHour:    14,
		RecordPriceHour:  21,
		IngestEveryHours: 4,
	}
}

// Due lists the jobs that fire at the given Lagos hour. Every predicate is
// checked independently so one hour may trigger several jobs.
func (s Schedule) Due(hour int, weekend bool) []string {
	if weekend {
		return nil
	}

	var due []string
	if hour == s.DailyPostHour {
		due = append(due, model.JobDailyPost)
	}
	if hour == s.RecordPriceHour {
		due = append(due, model.JobRecordPrice)
	}
	if s.IngestEveryHours > 0 && hour%s.IngestEveryHours == 0 {
		due = append(due, model.JobIngestNews)
	}
	return due
}

type Runner interface {
	Run(ctx context.Context, name string) model.JobResult
}

type DispatchReport struct {
	Success      bool               `json:"success"`
	TimeUTC      string             `json:"time_utc"`
	TimeLagos    string             `json:"time_lagos"`
	IsWeekend    bool               `json:"is_weekend"`
	JobsExecuted int                `json:"jobs_executed"`
	Results      []model.JobOutcome `json:"results"`
	MultiStatus  bool               `json:"multi_status"`
}

type Dispatcher struct {
	runner   Runner
	schedule Schedule
	now      func() time.Time
}

func NewDispatcher(runner Runner, schedule Schedule) *Dispatcher {
	return &Dispatcher{runner: runner, schedule: schedule, now: time.Now}
}

func (d *Dispatcher) Dispatch(ctx context.Context) DispatchReport {
	now := d.now()
	utc := now.UTC()
	local := now.In(Lagos)
	weekend := local.Weekday() == time.Saturday || local.Weekday() == time.Sunday

	report := DispatchReport{
		Success:   true,
		TimeUTC:   fmt.Sprintf("%d:00", utc.Hour()),
		TimeLagos: fmt.Sprintf("%d:00", local.Hour()),
		IsWeekend: weekend,
		Results:   []model.JobOutcome{},
	}

	for _, job := range d.schedule.Due(local.Hour(), weekend) {
		slog.Info("dispatcher triggering job", "job", job, "hour_lagos", local.Hour())
		result := d.safeRun(ctx, job)

		report.Results = append(report.Results, model.JobOutcome{
			Job:     job,
			Success: result.Success,
			Message: result.Message,
			Data:    result.Data,
		})

		if !result.Success {
			report.Success = false
			report.MultiStatus = true
		}
	}

	report.JobsExecuted = len(report.Results)
	slog.Info("dispatch complete", "jobs", report.JobsExecuted, "success", report.Success)
	return report
}

func (d *Dispatcher) safeRun(ctx context.Context, job string) (result model.JobResult) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("job panicked", "job", job, "panic", r)
			result = model.JobResult{Success: false, Message: fmt.Sprintf("job panicked: %v", r)}
		}
	}()
	return d.runner.Run(ctx, job)
}

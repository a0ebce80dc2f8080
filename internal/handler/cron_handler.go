package handler

import (
	"context"
	"net/http"

	"github.com/YasirGaji/thegoldmetrics/internal/cron"
	"github.com/YasirGaji/thegoldmetrics/internal/model"
	"github.com/gin-gonic/gin"
)

type JobRunner interface {
	Run(ctx context.Context, name string) model.JobResult
}

type JobDispatcher interface {
	Dispatch(ctx context.Context) cron.DispatchReport
}

type CronHandler struct {
	jobs       JobRunner
	dispatcher JobDispatcher
}

func NewCronHandler(jobs JobRunner, dispatcher JobDispatcher) *CronHandler {
	return &CronHandler{jobs: jobs, dispatcher: dispatcher}
}

// Dispatch answers 207 when at least one fired job failed.
func (h *CronHandler) Dispatch(c *gin.Context) {
	report := h.dispatcher.Dispatch(c.Request.Context())

	status := http.StatusOK
	if report.MultiStatus {
		status = http.StatusMultiStatus
	}
	c.JSON(status, report)
}

func (h *CronHandler) RunJob(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		result := h.jobs.Run(c.Request.Context(), name)
		if !result.Success {
			c.JSON(http.StatusInternalServerError, JobResponse{Success: false, Error: result.Message})
			return
		}

		c.JSON(http.StatusOK, JobResponse{Success: true, Message: result.Message, Data: result.Data})
	}
}

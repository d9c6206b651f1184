package handler

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"doctalkie/internal/pkg/logger"
)

// DependencyCheck checks one dependency.
type DependencyCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

type HealthHandler struct {
	appName   string
	env       string
	startedAt time.Time
	checks    []DependencyCheck
	log       *logrus.Entry
}

// dependencyStatus carries no error text; failures are only logged.
type dependencyStatus struct {
	OK bool `json:"ok"`
}

func NewHealthHandler(appName, env string, startedAt time.Time, checks ...DependencyCheck) *HealthHandler {
	return &HealthHandler{
		appName:   appName,
		env:       env,
		startedAt: startedAt,
		checks:    checks,
		log:       logger.New("health"),
	}
}

// Check runs every dependency check concurrently under a shared deadline.
func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	var (
		mu       sync.Mutex
		statuses = make(map[string]dependencyStatus, len(h.checks))
		allOK    = true
	)
	var g errgroup.Group
	for _, p := range h.checks {
		p := p
		g.Go(func() error {
			status := dependencyStatus{OK: true}
			if err := p.Check(ctx); err != nil {
				h.log.WithError(err).WithField("dependency", p.Name).Warn("health check failed")
				status = dependencyStatus{OK: false}
			}
			mu.Lock()
			statuses[p.Name] = status
			allOK = allOK && status.OK
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	statusCode := http.StatusOK
	if !allOK {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, gin.H{
		"app":          h.appName,
		"env":          h.env,
		"uptime_sec":   int(time.Since(h.startedAt).Seconds()),
		"dependencies": statuses,
	})
}

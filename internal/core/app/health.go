package app

import (
	"context"
	"fmt"
	"time"
)

type HealthStatus struct {
	Status     string            `json:"status"`
	Timestamp  time.Time         `json:"timestamp"`
	Components map[string]string `json:"components"`
}

type HealthService struct {
	app *App
}

func NewHealthService(app *App) *HealthService {
	return &HealthService{app: app}
}

func (s *HealthService) Check(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:     "up",
		Timestamp:  time.Now().UTC(),
		Components: make(map[string]string),
	}
	if err := ctx.Err(); err != nil {
		status.Status = "down"
		status.Components["context"] = err.Error()
		return status
	}

	// Check Graph
	if s.app.Graph == nil {
		status.Status = "degraded"
		status.Components["graph"] = "missing"
	} else {
		status.Components["graph"] = fmt.Sprintf("ok (%d nodes, %d edges)", s.app.Graph.NodeCount(), s.app.Graph.EdgeCount())
	}

	// Check Library
	if s.app.Library == nil {
		status.Status = "degraded"
		status.Components["library"] = "missing"
	} else {
		totals := s.app.Library.Totals()
		status.Components["library"] = fmt.Sprintf("ok (%d books, %d shelves, capacity %d)", totals.Books, totals.Shelves, totals.Capacity)
	}

	// Check reachability
	if len(s.app.unreachable) > 0 {
		status.Status = "degraded"
		status.Components["routes"] = fmt.Sprintf("unreachable shelves: %v", sortedCopy(s.app.unreachable))
	} else {
		status.Components["routes"] = "ok"
	}

	return status
}

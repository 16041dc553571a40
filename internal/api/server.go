// Package api exposes the deconfliction engine over HTTP: registering
// traffic missions, checking a primary mission for conflicts, and
// fetching the pinned text report for the last check. Grounded on the
// teacher pack's gin router/handler split (jengzang-records-backend-go's
// internal/api + internal/handler packages).
package api

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	gojson "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/aerodeck/deconflict/internal/audit"
	"github.com/aerodeck/deconflict/pkg/deconflict"
	"github.com/aerodeck/deconflict/pkg/log"
	"github.com/aerodeck/deconflict/pkg/mission"
)

const correlationIDKey = "correlation_id"

func newCorrelationID() string { return uuid.New().String() }

// Server wires the engine, audit store, and logger into a gin.Engine.
type Server struct {
	engine *deconflict.Engine
	audit  *audit.Store
	lg     *log.Logger

	lastReportMu sync.RWMutex
	lastReport   string
}

func (s *Server) setLastReport(r string) {
	s.lastReportMu.Lock()
	defer s.lastReportMu.Unlock()
	s.lastReport = r
}

func (s *Server) getLastReport() string {
	s.lastReportMu.RLock()
	defer s.lastReportMu.RUnlock()
	return s.lastReport
}

// New constructs a Server. audit and lg may be nil (nil-safe per
// pkg/log's pattern, audit simply skipped).
func New(engine *deconflict.Engine, store *audit.Store, lg *log.Logger) *Server {
	return &Server{engine: engine, audit: store, lg: lg}
}

// Router builds the gin.Engine with every route mounted.
func (s *Server) Router(jwtSecret string) *gin.Engine {
	r := gin.Default()
	r.Use(correlationID())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/v1", jwtAuth(jwtSecret))
	v1.POST("/missions", s.handleRegisterMission)
	v1.POST("/check", s.handleCheckMission)
	v1.GET("/report", s.handleLastReport)

	return r
}

func (s *Server) handleRegisterMission(c *gin.Context) {
	var dto mission.DTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	m, err := dto.ToMission()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.engine.RegisterMission(m); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"drone_id": m.DroneID})
}

func (s *Server) handleCheckMission(c *gin.Context) {
	corrID, _ := c.Get(correlationIDKey)

	var dto mission.DTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	primary, err := dto.ToMission()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	cleared, conflicts, metrics, err := s.engine.CheckMission(ctx, primary)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.lg.Info("check_mission completed", "correlation_id", corrID, "primary_drone", primary.DroneID,
		"cleared", cleared, "conflicts", len(conflicts), "total_ms", metrics.TotalMs)

	s.setLastReport(deconflict.GenerateReport(primary, cleared, conflicts, metrics, time.Now()))

	if s.audit != nil {
		severity := "SAFE"
		if len(conflicts) > 0 {
			severity = conflicts[0].Severity.String()
		}
		id, _ := corrID.(string)
		if err := s.audit.Insert(ctx, audit.Record{
			CorrelationID:   id,
			PrimaryDrone:    primary.DroneID,
			Cleared:         cleared,
			ConflictCount:   len(conflicts),
			HighestSeverity: severity,
			TotalMs:         metrics.TotalMs,
			CheckedAt:       time.Now(),
		}); err != nil {
			s.lg.Errorf("audit insert failed: %v", err)
		}
	}

	body, err := gojson.Marshal(newCheckResultDTO(cleared, conflicts, metrics))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}

func (s *Server) handleLastReport(c *gin.Context) {
	report := s.getLastReport()
	if report == "" {
		c.String(http.StatusNotFound, "no report available yet")
		return
	}
	c.String(http.StatusOK, report)
}

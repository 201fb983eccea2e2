// Package server exposes the metrics engine and stored runs over HTTP.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rustyeddy/tradestats/cost"
	"github.com/rustyeddy/tradestats/journal"
	"github.com/rustyeddy/tradestats/metrics"
	"github.com/rustyeddy/tradestats/report"
	"github.com/rustyeddy/tradestats/trade"
)

// RunStore is the read side of the run journal.
type RunStore interface {
	ListRuns(ctx context.Context, limit int) ([]journal.Run, error)
	GetRun(ctx context.Context, runID string) (journal.Run, error)
}

type Server struct {
	Version string

	logger *zap.Logger
	runs   RunStore
	router *gin.Engine
}

// New builds the router. runs may be nil, in which case the run routes
// answer 404.
func New(logger *zap.Logger, runs RunStore) *Server {
	s := &Server{
		Version: "dev",
		logger:  logger,
		runs:    runs,
	}

	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())
	s.setupRoutes(r)
	s.router = r
	return s
}

func (s *Server) setupRoutes(r *gin.Engine) {
	r.GET("/healthz", s.handleHealthCheck)

	api := r.Group("/api")
	{
		api.POST("/metrics", s.handleMetrics)
		api.GET("/runs", s.handleListRuns)
		api.GET("/runs/:id", s.handleGetRun)
	}
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("Starting HTTP server", zap.String("addr", addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

func (s *Server) handleHealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Unix(),
		"version":   s.Version,
	})
}

// MetricsRequest is the body of POST /api/metrics. Trades uses the trade
// export format: an array of trades, or an object keyed by mode with Mode
// selecting one.
type MetricsRequest struct {
	Trades       json.RawMessage `json:"trades"`
	Mode         string          `json:"mode"`
	CostPerTrade float64         `json:"cost_per_trade"`
	VIXMin       float64         `json:"vix_min"`
	VIXMax       float64         `json:"vix_max"`
}

func (s *Server) handleMetrics(c *gin.Context) {
	var req MetricsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.Trades) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "trades is required"})
		return
	}

	model := cost.Model{PerTrade: req.CostPerTrade}
	if err := model.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	trades, err := journal.LoadJSON(bytes.NewReader(req.Trades), req.Mode)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	trades = trade.FilterVIX(trades, trade.VIXRange{Min: req.VIXMin, Max: req.VIXMax})

	sum, err := metrics.Compute(trades)
	switch {
	case errors.Is(err, metrics.ErrNoTrades):
		c.JSON(http.StatusOK, report.Payload{Empty: true})
		return
	case errors.Is(err, metrics.ErrMalformedRecord):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case err != nil:
		s.logger.Error("Metrics request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, report.Payload{Summary: sum, Net: model.Apply(sum)})
}

// runView is the wire form of a stored run.
type runView struct {
	RunID        string         `json:"run_id"`
	Created      time.Time      `json:"created"`
	Dataset      string         `json:"dataset"`
	Mode         string         `json:"mode"`
	Source       string         `json:"source,omitempty"`
	CostPerTrade float64        `json:"cost_per_trade"`
	VIX          trade.VIXRange `json:"vix"`
	Trades       int            `json:"trades"`
	WinRate      float64        `json:"win_rate"`
	GrossPnl     float64        `json:"gross_pnl"`
	NetPnl       float64        `json:"net_pnl"`
	MaxDrawdown  float64        `json:"max_drawdown"`
	ProfitFactor float64        `json:"profit_factor"`
	Sharpe       float64        `json:"sharpe"`
	Calmar       float64        `json:"calmar"`
	Notes        []string       `json:"notes,omitempty"`

	Snapshot *journal.RunSnapshot `json:"snapshot,omitempty"`
}

func viewOf(r journal.Run) runView {
	return runView{
		RunID:        r.RunID,
		Created:      r.Created,
		Dataset:      r.Dataset,
		Mode:         r.Mode,
		Source:       r.Source,
		CostPerTrade: r.CostPerTrade,
		VIX:          r.VIX,
		Trades:       r.Trades,
		WinRate:      r.WinRate,
		GrossPnl:     r.GrossPnl,
		NetPnl:       r.NetPnl,
		MaxDrawdown:  r.MaxDrawdown,
		ProfitFactor: r.ProfitFactor,
		Sharpe:       r.Sharpe,
		Calmar:       r.Calmar,
		Notes:        r.Notes,
	}
}

func (s *Server) handleListRuns(c *gin.Context) {
	if s.runs == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no run journal configured"})
		return
	}

	limit := 50
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
			return
		}
		limit = n
	}

	runs, err := s.runs.ListRuns(c.Request.Context(), limit)
	if err != nil {
		s.logger.Error("List runs failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	out := make([]runView, 0, len(runs))
	for _, r := range runs {
		out = append(out, viewOf(r))
	}
	c.JSON(http.StatusOK, gin.H{"runs": out})
}

func (s *Server) handleGetRun(c *gin.Context) {
	if s.runs == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no run journal configured"})
		return
	}

	r, err := s.runs.GetRun(c.Request.Context(), c.Param("id"))
	if errors.Is(err, journal.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		s.logger.Error("Get run failed", zap.String("run_id", c.Param("id")), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	v := viewOf(r)
	if snap, err := r.Decode(); err != nil {
		s.logger.Warn("Run snapshot unreadable", zap.String("run_id", r.RunID), zap.Error(err))
	} else {
		v.Snapshot = &snap
	}
	c.JSON(http.StatusOK, v)
}

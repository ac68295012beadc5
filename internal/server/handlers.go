package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/operator-framework/subsetsum/pkg/subsetsum"
	"github.com/operator-framework/subsetsum/pkg/subsetsum/adapter"
	"github.com/operator-framework/subsetsum/pkg/subsetsum/solver"
)

// Handlers serves the solve API.
type Handlers struct {
	solver     *solver.Solver
	logger     *log.Logger
	scale      int64
	maxNumbers int
	algorithm  string
}

// HandleSolve handles POST /v1/solve.
func (h *Handlers) HandleSolve(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := h.logger.With("request_id", requestID, "handler", "HandleSolve")

	var req SolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_REQUEST",
		})
		return
	}
	if len(req.Numbers) > h.maxNumbers {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: fmt.Sprintf("at most %d numbers per request", h.maxNumbers),
			Code:  "TOO_MANY_NUMBERS",
		})
		return
	}
	if req.Algorithm == "" {
		req.Algorithm = h.algorithm
	}

	problem, err := adapter.Request{
		Numbers:   req.Numbers,
		Target:    req.Target,
		Tolerance: req.Tolerance,
		FindAll:   req.FindAll,
		Scale:     h.scale,
	}.Problem()
	if err != nil {
		logger.Warn("invalid problem", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: err.Error(),
			Code:  "INVALID_PROBLEM",
		})
		return
	}

	alg := subsetsum.ParseAlgorithm(req.Algorithm)
	start := time.Now()
	result, report, err := h.solver.Run(log.WithContext(c.Request.Context(), logger), problem, alg)
	if err != nil {
		logger.Error("solve failed", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: err.Error(),
			Code:  "SOLVE_FAILED",
		})
		return
	}

	resp := SolveResponse{
		RequestID: requestID,
		Algorithm: report.Selected.String(),
		Solutions: make([][]int, len(result)),
		Sums:      make([]float64, len(result)),
		Flat:      adapter.Flatten(result),
		ElapsedMs: time.Since(start).Milliseconds(),
	}
	for i, s := range result {
		resp.Solutions[i] = s
		resp.Sums[i] = adapter.FromFixed(s.Sum(problem.Numbers), h.scale)
	}

	logger.Info("solved", "size", len(problem.Numbers), "algorithm", resp.Algorithm, "solutions", len(result))
	c.JSON(http.StatusOK, resp)
}

// HandleHealth handles GET /v1/health.
func (h *Handlers) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok", Workers: h.solver.Workers()})
}

func getOrCreateRequestID(c *gin.Context) string {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Header("X-Request-ID", requestID)
	return requestID
}

func RegisterRoutes(rg *gin.RouterGroup, h *Handlers) {
	rg.POST("/solve", h.HandleSolve)
	rg.GET("/health", h.HandleHealth)
}

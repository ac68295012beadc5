package server

import (
	"github.com/operator-framework/subsetsum/pkg/subsetsum/adapter"
)

// SolveRequest is the body of POST /v1/solve. Values are decimals and
// are scaled to integers before solving.
type SolveRequest struct {
	Numbers   []float64 `json:"numbers" binding:"required"`
	Target    float64   `json:"target"`
	Tolerance float64   `json:"tolerance" binding:"gte=0"`
	FindAll   bool      `json:"find_all"`
	Algorithm string    `json:"algorithm"`
}

// SolveResponse carries the solutions both as index lists and in the
// flat rows/cols/data encoding.
type SolveResponse struct {
	RequestID string    `json:"request_id"`
	Algorithm string    `json:"algorithm"`
	Solutions [][]int   `json:"solutions"`
	Sums      []float64 `json:"sums"`
	adapter.Flat
	ElapsedMs int64 `json:"elapsed_ms"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Workers int    `json:"workers"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

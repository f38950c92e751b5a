package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gravitas-games/tetracoords/internal/logger"
	"github.com/gravitas-games/tetracoords/internal/network"
	"github.com/gravitas-games/tetracoords/pkg/tetracoord"
	"github.com/gravitas-games/tetracoords/pkg/tspace"
	"github.com/gravitas-games/tetracoords/pkg/vector2d"
)

// GridPayload lists every cell of a grid
type GridPayload struct {
	Levels int                `json:"levels"`
	Cells  []network.CellInfo `json:"cells"`
}

// writeJSON encodes v before sending the status, so an unencodable value
// (such as a non-finite coordinate) becomes a 500 with an error body.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		logger.Sugar.Warnf("Failed to encode response: %v", err)
		buf.Reset()
		json.NewEncoder(&buf).Encode(network.ErrorPayload{
			Code:    network.ErrCodeInternal,
			Message: "result cannot be encoded",
		})
		status = http.StatusInternalServerError
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		logger.Sugar.Warnf("Failed to write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, network.ErrorPayload{Code: code, Message: message})
}

// parseTcoord parses a digit string in the given order, falling back to
// def when order is empty
func parseTcoord(digits, order string, def tetracoord.DigitOrder) (tetracoord.Tetracoordinate, error) {
	o := def
	if order != "" {
		parsed, err := tetracoord.ParseDigitOrder(order)
		if err != nil {
			return tetracoord.Tetracoordinate{}, err
		}
		o = parsed
	}
	return tetracoord.FromDigitString(digits, tetracoord.WithOrder(o))
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleSpace describes the served space
func (s *Server) handleSpace(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, network.NewSpaceInfo(s.engine.Space()))
}

// handleLocate returns the cell under ?x=&y=
func (s *Server) handleLocate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	x, errX := strconv.ParseFloat(q.Get("x"), 64)
	y, errY := strconv.ParseFloat(q.Get("y"), 64)
	if errX != nil || errY != nil {
		writeError(w, http.StatusBadRequest, network.ErrCodeInvalidPoint, "x and y must be numbers")
		return
	}

	cell := s.engine.Space().CcoordToCell(vector2d.New(x, y))
	writeJSON(w, http.StatusOK, network.CellPayload{Cell: network.NewCellInfo(cell)})
}

// handleCell returns the cell of ?tcoord=&order=
func (s *Server) handleCell(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	t, err := parseTcoord(q.Get("tcoord"), q.Get("order"), s.engine.Space().Order())
	if err != nil {
		writeError(w, http.StatusBadRequest, network.ErrCodeInvalidTcoord, err.Error())
		return
	}

	cell := s.engine.Space().TcoordToCell(t)
	writeJSON(w, http.StatusOK, network.CellPayload{Cell: network.NewCellInfo(cell)})
}

// handleGrid returns every cell with ?levels= digits, default the plot depth
func (s *Server) handleGrid(w http.ResponseWriter, r *http.Request) {
	levels := s.config.Plot.Levels
	if v := r.URL.Query().Get("levels"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, network.ErrCodeInvalidMessage, fmt.Sprintf("invalid levels %q", v))
			return
		}
		levels = n
	}

	grid, err := tspace.NewGrid(s.engine.Space(), levels)
	if err != nil {
		writeError(w, http.StatusBadRequest, network.ErrCodeInvalidMessage, err.Error())
		return
	}

	cells := make([]network.CellInfo, grid.Len())
	for i, c := range grid.Cells() {
		cells[i] = network.NewCellInfo(c)
	}
	writeJSON(w, http.StatusOK, GridPayload{Levels: grid.Levels(), Cells: cells})
}

// Package server exposes the palace-gate scenario over HTTP for a browser
// presentation layer.
package server

import (
	"encoding/json"
	"errors"
	"io"
	"math/rand"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/palacegate/bellsim/palace"
	"github.com/palacegate/bellsim/sim"
)

// ContentTypeMsgpack is the media type negotiated through the Accept header.
const ContentTypeMsgpack = "application/msgpack"

// SeedFunc supplies the seed of a run when the request does not carry one.
// It is called concurrently.
type SeedFunc func() int64

// Handler serves the Bell circuit and runs it on demand.
type Handler struct {
	circuit   *sim.Circuit
	bell      sim.BellConfig
	simulator *sim.Simulator
	seeds     SeedFunc
	log       *logrus.Entry
}

// NewHandler creates a handler around a built Bell circuit. A nil seeds falls
// back to the process-wide math/rand source.
func NewHandler(
	circuit *sim.Circuit,
	bell sim.BellConfig,
	simulator *sim.Simulator,
	seeds SeedFunc,
	log *logrus.Entry,
) *Handler {
	if seeds == nil {
		seeds = rand.Int63
	}
	return &Handler{
		circuit:   circuit,
		bell:      bell,
		simulator: simulator,
		seeds:     seeds,
		log:       log.WithField("handler", "bell"),
	}
}

// RunRequest is the optional body of POST /api/bell/run.
type RunRequest struct {
	Seed *int64 `json:"seed,omitempty"`
}

// RunResponse describes one completed run.
type RunResponse struct {
	RunID        string         `json:"run_id" msgpack:"run_id"`
	Seed         int64          `json:"seed" msgpack:"seed"`
	Keys         []string       `json:"keys" msgpack:"keys"`
	Measurements map[string]int `json:"measurements" msgpack:"measurements"`
	Report       palace.Report  `json:"report" msgpack:"report"`
}

// CircuitResponse describes the circuit served by GET /api/bell/circuit.
type CircuitResponse struct {
	Title           string   `json:"title"`
	Scenario        string   `json:"scenario"`
	BellState       string   `json:"bell_state"`
	Qubits          []string `json:"qubits"`
	MeasurementKeys []string `json:"measurement_keys"`
	Diagram         string   `json:"diagram"`
	QASM            string   `json:"qasm"`
}

// HandleHealth handles GET /health
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HandleGetCircuit handles GET /api/bell/circuit
func (h *Handler) HandleGetCircuit(w http.ResponseWriter, r *http.Request) {
	qubits := make([]string, 0, 2)
	for _, q := range h.circuit.Qubits() {
		qubits = append(qubits, string(q))
	}
	h.writeJSON(w, http.StatusOK, CircuitResponse{
		Title:           palace.Title,
		Scenario:        palace.Scenario,
		BellState:       palace.BellState,
		Qubits:          qubits,
		MeasurementKeys: h.circuit.MeasurementKeys(),
		Diagram:         h.circuit.Diagram(),
		QASM:            h.circuit.QASM(),
	})
}

// HandleRun handles POST /api/bell/run
func (h *Handler) HandleRun(w http.ResponseWriter, r *http.Request) {
	var req RunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		h.log.WithError(err).Error("Failed to decode request body")
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	seed := h.seeds()
	if req.Seed != nil {
		seed = *req.Seed
	}

	res, err := h.simulator.Run(h.circuit, sim.NewRandomSource(seed))
	if err != nil {
		h.log.WithError(err).WithField("seed", seed).Error("Run failed")
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	outcome, err := sim.ReadBellOutcome(res, h.bell)
	if err != nil {
		h.log.WithError(err).WithField("run_id", res.RunID).Error("Reading outcome failed")
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	rec := res.Record()
	resp := RunResponse{
		RunID:        rec.RunID,
		Seed:         seed,
		Keys:         rec.Keys,
		Measurements: rec.Measurements,
		Report:       palace.Describe(outcome),
	}
	h.log.WithFields(logrus.Fields{"run_id": rec.RunID, "seed": seed}).Info("Run completed")

	if acceptsMsgpack(r) {
		h.writeMsgpack(w, http.StatusOK, resp)
		return
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func acceptsMsgpack(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), ContentTypeMsgpack)
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.WithError(err).Error("Failed to encode JSON response")
	}
}

func (h *Handler) writeMsgpack(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", ContentTypeMsgpack)
	w.WriteHeader(status)

	if err := msgpack.NewEncoder(w).Encode(data); err != nil {
		h.log.WithError(err).Error("Failed to encode msgpack response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, map[string]string{"error": msg})
}

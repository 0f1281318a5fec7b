// Package service exposes the HTTP API of the controller: loading the
// universe, playing fades, diagnostics, and graceful shutdown.
package service

import (
	"encoding/json"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vulcan-lighting/vulcan/src/common"
	"github.com/vulcan-lighting/vulcan/src/dmx"
	"github.com/vulcan-lighting/vulcan/src/gateway"
	"github.com/vulcan-lighting/vulcan/src/scheduler"
)

// maxBodyBytes bounds the size of accepted JSON bodies. A full universe
// load is well under this.
const maxBodyBytes = 1024 * 16

// Service ...
type Service struct {
	sync.Mutex

	bindAddress string
	gateway     *gateway.Gateway
	universe    *dmx.UniverseState
	sched       *scheduler.Scheduler
	shutdown    func()
	mux         *http.ServeMux
	logger      *logrus.Entry
}

// NewService creates the HTTP service. shutdown is invoked by the /close
// endpoint to stop the engine gracefully.
func NewService(
	bindAddress string,
	gw *gateway.Gateway,
	universe *dmx.UniverseState,
	sched *scheduler.Scheduler,
	shutdown func(),
	logger *logrus.Entry,
) *Service {
	service := Service{
		bindAddress: bindAddress,
		gateway:     gw,
		universe:    universe,
		sched:       sched,
		shutdown:    shutdown,
		mux:         http.NewServeMux(),
		logger:      logger,
	}

	service.registerHandlers()

	return &service
}

// registerHandlers registers the API handlers with the service's own
// ServeMux.
func (s *Service) registerHandlers() {
	s.logger.Debug("Registering Vulcan API handlers")
	s.mux.HandleFunc("/playFade", s.makeHandler(s.PlayFade))
	s.mux.HandleFunc("/loadUniverse", s.makeHandler(s.LoadUniverse))
	s.mux.HandleFunc("/close", s.makeHandler(s.Close))
	s.mux.HandleFunc("/universe", s.makeHandler(s.GetUniverse))
	s.mux.HandleFunc("/stats", s.makeHandler(s.GetStats))
}

func (s *Service) makeHandler(fn func(http.ResponseWriter, *http.Request)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.Lock()
		defer s.Unlock()

		// enable CORS
		w.Header().Set("Access-Control-Allow-Origin", "*")

		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

		fn(w, r)
	}
}

// Mux returns the service's ServeMux, for tests and for embedding the API
// into another server in the same process.
func (s *Service) Mux() *http.ServeMux {
	return s.mux
}

// Serve calls ListenAndServe. This is a blocking call.
func (s *Service) Serve() {
	s.logger.WithField("bind_address", s.bindAddress).Debug("Serving Vulcan API")

	err := http.ListenAndServe(s.bindAddress, s.mux)
	if err != nil {
		s.logger.Error(err)
	}
}

// fadeRequest mirrors the JSON body of /playFade. A null or absent
// duration means an instantaneous change.
type fadeRequest struct {
	Channel  int           `json:"channel"`
	Value    int           `json:"value"`
	Duration *durationSpec `json:"duration"`
}

// durationSpec carries a duration as whole seconds plus a sub-second
// fraction in nanoseconds.
type durationSpec struct {
	Secs  int64 `json:"secs"`
	Nanos int64 `json:"nanos"`
}

// PlayFade handles POST /playFade.
func (s *Service) PlayFade(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req fadeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.logger.WithError(err).Error("Parsing playFade request")
		writeReply(w, http.StatusBadRequest, failure(err.Error()))
		return
	}

	duration, err := req.Duration.toDuration()
	if err != nil {
		writeReply(w, http.StatusBadRequest, failure(err.Error()))
		return
	}

	if err := s.gateway.HandleFade(req.Channel, req.Value, duration); err != nil {
		writeReply(w, http.StatusBadRequest, failure(err.Error()))
		return
	}

	writeReply(w, http.StatusOK, success())
}

// LoadUniverse handles POST /loadUniverse. The body is a JSON array of
// exactly 512 values in wire order.
func (s *Service) LoadUniverse(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var raw []int
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		s.logger.WithError(err).Error("Parsing loadUniverse request")
		writeReply(w, http.StatusBadRequest, failure(err.Error()))
		return
	}

	values := make([]byte, len(raw))
	for i, v := range raw {
		if v < 0 || v > 255 {
			err := common.NewValidationErr("universe", v, common.OutOfRange)
			writeReply(w, http.StatusBadRequest, failure(err.Error()))
			return
		}
		values[i] = byte(v)
	}

	if err := s.gateway.HandleLoad(values); err != nil {
		writeReply(w, http.StatusBadRequest, failure(err.Error()))
		return
	}

	writeReply(w, http.StatusOK, success())
}

// Close handles POST /close: it acknowledges the request and stops the
// engine.
func (s *Service) Close(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeReply(w, http.StatusOK, success())

	go s.shutdown()
}

// GetUniverse handles GET /universe: the fully-evaluated channel values.
func (s *Service) GetUniverse(w http.ResponseWriter, r *http.Request) {
	values := s.universe.Snapshot()

	out := make([]int, len(values))
	for i, v := range values {
		out[i] = int(v)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}

// stats extends the scheduler's view with universe counters.
type stats struct {
	scheduler.Stats
	Version   uint64 `json:"version"`
	FadeCount int    `json:"fadeCount"`
}

// GetStats handles GET /stats.
func (s *Service) GetStats(w http.ResponseWriter, r *http.Request) {
	res := stats{
		Stats:     s.sched.GetStats(),
		Version:   s.universe.Version(),
		FadeCount: s.universe.FadeCount(),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}

// toDuration converts the JSON duration spec. A nil spec means an
// instantaneous change. Negative components are passed through so that
// the gateway rejects them with the proper field name.
func (d *durationSpec) toDuration() (time.Duration, error) {
	if d == nil {
		return 0, nil
	}
	if d.Secs > int64(maxDurationSecs) {
		return 0, common.NewValidationErr("duration", d.Secs, common.OutOfRange)
	}

	return time.Duration(d.Secs)*time.Second + time.Duration(d.Nanos), nil
}

// maxDurationSecs is the largest whole-second count representable as a
// time.Duration.
const maxDurationSecs = int64(math.MaxInt64) / int64(time.Second)

// WebReply is the envelope of every command response.
type WebReply struct {
	IsValid bool   `json:"isValid"`
	Message string `json:"message"`
}

func success() WebReply {
	return WebReply{
		IsValid: true,
		Message: "Request completed.",
	}
}

func failure(reason string) WebReply {
	return WebReply{
		IsValid: false,
		Message: reason,
	}
}

func writeReply(w http.ResponseWriter, status int, reply WebReply) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(reply)
}

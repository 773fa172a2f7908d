package service

import (
	"context"
	"encoding/json"
	"io/ioutil"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/mosaicnetworks/peerchat/src/node"
	"github.com/mosaicnetworks/peerchat/src/telemetry"
	"github.com/sirupsen/logrus"
)

// maxMessageSize bounds the body of POST /message
const maxMessageSize = 8192

// Service exposes a read-only view of a node over HTTP, plus an endpoint to
// submit local text and the Prometheus metrics.
type Service struct {
	sync.Mutex

	bindAddress string
	node        *node.Node
	mux         *http.ServeMux
	server      *http.Server
	logger      *logrus.Entry
}

// NewService ...
func NewService(bindAddress string, n *node.Node, logger *logrus.Entry) *Service {
	service := Service{
		bindAddress: bindAddress,
		node:        n,
		mux:         http.NewServeMux(),
		logger:      logger,
	}

	service.registerHandlers()

	return &service
}

// registerHandlers registers the API handlers with the mux of the service.
func (s *Service) registerHandlers() {
	s.logger.Debug("Registering peerchat API handlers")
	s.mux.HandleFunc("/stats", s.makeHandler(s.GetStats))
	s.mux.HandleFunc("/status", s.makeHandler(s.GetStatus))
	s.mux.HandleFunc("/messages", s.makeHandler(s.GetMessages))
	s.mux.HandleFunc("/peers", s.makeHandler(s.GetPeers))
	s.mux.HandleFunc("/message", s.makeHandler(s.PostMessage))
	s.mux.Handle("/metrics", telemetry.MetricsHandler())
}

func (s *Service) makeHandler(fn func(http.ResponseWriter, *http.Request)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.Lock()
		defer s.Unlock()

		// enable CORS
		w.Header().Set("Access-Control-Allow-Origin", "*")

		fn(w, r)
	}
}

// Handler returns the handler serving the API.
func (s *Service) Handler() http.Handler {
	return s.mux
}

// Serve calls ListenAndServe. This is a blocking call.
func (s *Service) Serve() {
	s.logger.WithField("bind_address", s.bindAddress).Debug("Serving peerchat API")

	s.server = &http.Server{
		Addr:    s.bindAddress,
		Handler: s.mux,
	}

	err := s.server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		s.logger.Error(err)
	}
}

// Close stops the server started by Serve, if any.
func (s *Service) Close() error {
	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	return s.server.Shutdown(ctx)
}

// GetStats ...
func (s *Service) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.node.GetStats()
	if err != nil {
		s.fail(w, err, "Retrieving stats")
		return
	}

	writeJSON(w, stats)
}

// GetStatus returns the status vector of the node.
func (s *Service) GetStatus(w http.ResponseWriter, r *http.Request) {
	status, err := s.node.GetStatus()
	if err != nil {
		s.fail(w, err, "Retrieving status")
		return
	}

	writeJSON(w, status)
}

// GetMessages returns the logs of every known origin.
func (s *Service) GetMessages(w http.ResponseWriter, r *http.Request) {
	messages, err := s.node.GetMessages()
	if err != nil {
		s.fail(w, err, "Retrieving messages")
		return
	}

	writeJSON(w, messages)
}

// GetPeers ...
func (s *Service) GetPeers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.node.GetPeers())
}

// PostMessage submits the body of the request as local text.
func (s *Service) PostMessage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := ioutil.ReadAll(http.MaxBytesReader(w, r.Body, maxMessageSize))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	text := strings.TrimRight(string(body), "\r\n")
	if text == "" {
		http.Error(w, "empty message", http.StatusBadRequest)
		return
	}

	msg, err := s.node.SubmitText(text)
	if err != nil {
		s.fail(w, err, "Submitting message")
		return
	}

	writeJSON(w, msg)
}

func (s *Service) fail(w http.ResponseWriter, err error, msg string) {
	s.logger.WithError(err).Error(msg)

	status := http.StatusInternalServerError
	if err == node.ErrShutdown {
		status = http.StatusServiceUnavailable
	}

	http.Error(w, err.Error(), status)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")

	json.NewEncoder(w).Encode(v)
}

package metrics

import (
	"context"
	"net/http"
	"runtime/debug"
	"runtime/pprof"
	"sort"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("prefix", "prometheus")

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var logCounterVec = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "log_entry_count",
	Help: "Log messages counter",
}, []string{"level", "prefix"})

// StatusChecker reports the state of every node component. A nil error means healthy.
type StatusChecker interface {
	Statuses() map[string]error
}

type Service struct {
	server     *http.Server
	checker    StatusChecker
	failStatus error
}

type rpcResponse struct {
	Error string      `json:"error"`
	Data  interface{} `json:"data"`
}

type serviceStatus struct {
	Name   string `json:"service"`
	Status bool   `json:"status"`
	Err    string `json:"error"`
}

// New creates monitoring service serving prometheus metrics, component health and goroutine dumps.
func New(addr string, checker StatusChecker) *Service {
	s := &Service{checker: checker}

	s.server = &http.Server{Addr: addr, Handler: s.Handler()}

	logrus.AddHook(s)

	return s
}

// Handler returns the service http routes.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(prometheus.DefaultGatherer, promhttp.HandlerOpts{
		MaxRequestsInFlight: 5,
		Timeout:             30 * time.Second,
	}))
	mux.HandleFunc("/health", s.healthHandler)
	mux.HandleFunc("/goroutines", s.goroutinesHandler)

	return mux
}

func (s *Service) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Fire counts log entries by level and prefix.
func (s *Service) Fire(entry *logrus.Entry) error {
	prefix := "common"
	if prefixData, exists := entry.Data["prefix"]; exists {
		var ok bool
		prefix, ok = prefixData.(string)
		if !ok {
			return errors.New("bad prefix given")
		}
	}

	logCounterVec.WithLabelValues(entry.Level.String(), prefix).Inc()
	return nil
}

func (s *Service) healthHandler(w http.ResponseWriter, _ *http.Request) {
	response := rpcResponse{}

	var hasError bool
	statuses := make([]serviceStatus, 0)
	for name, serviceErr := range s.checker.Statuses() {
		st := serviceStatus{
			Name:   name,
			Status: true,
		}
		if serviceErr != nil {
			st.Status = false
			st.Err = serviceErr.Error()
			hasError = true
		}
		statuses = append(statuses, st)
	}

	sort.Slice(statuses, func(i, j int) bool {
		return statuses[i].Name < statuses[j].Name
	})
	response.Data = statuses

	w.Header().Set("Content-Type", "application/json")
	if hasError {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Errorf("Error writing response: %s", err)
	}
}

func (s *Service) goroutinesHandler(w http.ResponseWriter, _ *http.Request) {
	stack := debug.Stack()
	if _, err := w.Write(stack); err != nil {
		log.WithError(err).Error("Failed to write goroutines stack")
	}
	if err := pprof.Lookup("goroutine").WriteTo(w, 2); err != nil {
		log.WithError(err).Error("Failed to write pprof goroutines")
	}
}

// Start the prometheus service.
func (s *Service) Start() {
	go func() {
		log.WithField("address", s.server.Addr).Info("Starting prometheus service")
		err := s.server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			log.Errorf("Could not listen to host:port :%s: %v", s.server.Addr, err)
			s.failStatus = err
		}
	}()
}

// Stop the service gracefully.
func (s *Service) Stop() error {
	log.Info("Stop metrics server")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// Status checks for any service failure conditions.
func (s *Service) Status() error {
	return s.failStatus
}

package monitoring

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/giongto35/movierec/pkg/config"
	"github.com/giongto35/movierec/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	m.SetActive(2)
	m.Frame()
	m.Frame()
	m.Drop()
	m.Failure("resolution")

	if v := testutil.ToFloat64(m.Active); v != 2 {
		t.Errorf("active %v", v)
	}
	if v := testutil.ToFloat64(m.Frames); v != 2 {
		t.Errorf("frames %v", v)
	}
	if v := testutil.ToFloat64(m.Failures.WithLabelValues("resolution")); v != 1 {
		t.Errorf("failures %v", v)
	}

	var none *Metrics
	none.Frame()
	none.SetActive(1)
}

func TestMetricsHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	m.Frame()

	mon := New(config.Monitoring{Port: 0, URLPrefix: "/rec", MetricEnabled: true, ProfilingEnabled: true}, reg, logger.Default())

	tests := []struct {
		path string
		code int
		body string
	}{
		{path: "/rec/metrics", code: http.StatusOK, body: "movierec_frames_written_total 1"},
		{path: "/rec/debug/pprof/", code: http.StatusOK},
		{path: "/metrics", code: http.StatusNotFound},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		mon.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
		if rec.Code != tt.code {
			t.Errorf("%v: code %v", tt.path, rec.Code)
		}
		body, _ := io.ReadAll(rec.Body)
		if tt.body != "" && !strings.Contains(string(body), tt.body) {
			t.Errorf("%v: no %v in\n%s", tt.path, tt.body, body)
		}
	}
}

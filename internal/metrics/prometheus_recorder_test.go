package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.ObserveDocumentDuration(5 * time.Millisecond)
	pr.ObserveProcessorDuration("caption", time.Millisecond)
	pr.IncDocumentOutcome(OutcomeRendered)
	pr.Captioned("figure", 1)
	pr.Captioned("figure", 2)
	pr.Captioned("table", 1)
	pr.Recovered("table", "missing_sibling")

	mfs, err := reg.Gather()
	require.NoError(t, err)

	counters := map[string]float64{}
	for _, mf := range mfs {
		for _, m := range mf.GetMetric() {
			if c := m.GetCounter(); c != nil {
				key := mf.GetName()
				for _, lp := range m.GetLabel() {
					key += "/" + lp.GetValue()
				}
				counters[key] = c.GetValue()
			}
		}
	}
	require.InDelta(t, 2, counters["mdcaption_captions_total/figure"], 0)
	require.InDelta(t, 1, counters["mdcaption_captions_total/table"], 0)
	require.InDelta(t, 1, counters["mdcaption_caption_candidates_skipped_total/table/missing_sibling"], 0)
	require.InDelta(t, 1, counters["mdcaption_documents_total/rendered"], 0)
}

func TestHTTPHandlerServesRegistry(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.Captioned("listing", 1)

	srv := httptest.NewServer(HTTPHandler(reg))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, string(body), `mdcaption_captions_total{kind="listing"} 1`)
}

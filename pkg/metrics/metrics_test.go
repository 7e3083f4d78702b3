package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordPageView(t *testing.T) {
	pageViewsTotal.Reset()

	RecordPageView("home")
	RecordPageView("home")
	RecordPageView("about")

	assert.Equal(t, 2.0, testutil.ToFloat64(pageViewsTotal.WithLabelValues("home")))
	assert.Equal(t, 1.0, testutil.ToFloat64(pageViewsTotal.WithLabelValues("about")))
}

func TestRecordCatalogLoad(t *testing.T) {
	catalogLoadsTotal.Reset()
	catalogLoadDuration.Reset()

	RecordCatalogLoad("stock", "success", 0.3)
	RecordCatalogLoad("stock", "error", 1.2)

	assert.Equal(t, 1.0, testutil.ToFloat64(catalogLoadsTotal.WithLabelValues("stock", "error")))
	assert.Equal(t, 1, testutil.CollectAndCount(catalogLoadDuration))
}

func TestHandler(t *testing.T) {
	inquiriesTotal.Reset()
	RecordInquiry("accepted")

	srv := httptest.NewServer(Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `signal_inquiries_total{status="accepted"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}

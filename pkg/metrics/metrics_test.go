package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordHTTPRequest(t *testing.T) {
	c := HTTPRequestsTotal.WithLabelValues("GET", "/films/:id", "200")
	before := testutil.ToFloat64(c)

	RecordHTTPRequest("GET", "/films/:id", http.StatusOK, 15*time.Millisecond)

	assert.Equal(t, before+1, testutil.ToFloat64(c))
}

func TestRecordFeedEvent(t *testing.T) {
	c := FeedEventsTotal.WithLabelValues("LIKE", "ADD")
	before := testutil.ToFloat64(c)

	RecordFeedEvent("LIKE", "ADD")
	RecordFeedEvent("LIKE", "ADD")

	assert.Equal(t, before+2, testutil.ToFloat64(c))
}

func TestHandler_ExposesRegisteredMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	RecordFeedEvent("FRIEND", "REMOVE")

	r := gin.New()
	r.GET("/metrics", Handler())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "filmgraph_feed_events_total")
}

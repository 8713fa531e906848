package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveChatOperation(t *testing.T) {
	before := testutil.ToFloat64(chatOperations.WithLabelValues("leave", OutcomeRejected))

	ObserveChatOperation("leave", OutcomeRejected)

	after := testutil.ToFloat64(chatOperations.WithLabelValues("leave", OutcomeRejected))
	assert.Equal(t, before+1, after)
}

func TestMiddlewareUsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware)
	r.Get("/rooms/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	counter := httpRequests.WithLabelValues("/rooms/{id}", http.MethodGet, "418")
	before := testutil.ToFloat64(counter)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/rooms/42", nil))

	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}

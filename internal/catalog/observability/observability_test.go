package observability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestFromContextDefaultsToNoop(t *testing.T) {
	t.Parallel()

	require.NotNil(t, FromContext(context.Background()))

	logger := zap.NewExample()
	require.Same(t, logger, FromContext(WithLogger(context.Background(), logger)))
}

func TestNewLoggerFallsBackOnInvalidLevel(t *testing.T) {
	t.Parallel()

	logger, err := NewLogger("chatty")
	require.NoError(t, err)
	require.True(t, logger.Core().Enabled(zapcore.InfoLevel))
	require.False(t, logger.Core().Enabled(zapcore.DebugLevel))

	logger, err = NewLogger("debug")
	require.NoError(t, err)
	require.True(t, logger.Core().Enabled(zapcore.DebugLevel))
}

func TestRequestLoggerRecordsRouteAndStatus(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(RequestLogger(zap.New(core)))
	router.Get("/products/{id}", func(w http.ResponseWriter, r *http.Request) {
		FromContext(r.Context()).Info("inside handler")
		w.WriteHeader(http.StatusTeapot)
	})

	req := httptest.NewRequest(http.MethodGet, "/products/42", nil)
	req.Header.Set("HX-Request", "true")
	req.Header.Set("HX-Target", "product-list")
	req.Header.Set("HX-Trigger", "catalog-more")
	router.ServeHTTP(httptest.NewRecorder(), req)

	require.Equal(t, 1, logs.FilterMessage("inside handler").Len())
	completed := logs.FilterMessage("request completed").All()
	require.Len(t, completed, 1)
	fields := completed[0].ContextMap()
	require.Equal(t, "/products/{id}", fields["route"])
	require.EqualValues(t, http.StatusTeapot, fields["status"])
	require.Equal(t, true, fields["htmx"])
	require.Equal(t, "product-list", fields["hx_target"])
	require.Equal(t, "catalog-more", fields["hx_trigger"])
	require.NotEmpty(t, fields["request_id"])
	require.Equal(t, zapcore.WarnLevel, completed[0].Level)
}

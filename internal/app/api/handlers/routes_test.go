package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fieldline/portal/internal/app/service/account"
	"github.com/fieldline/portal/internal/app/service/billing"
	"github.com/fieldline/portal/pkg/response"
)

func routeSet(r *gin.Engine) map[string]bool {
	set := map[string]bool{}
	for _, rt := range r.Routes() {
		set[rt.Method+" "+rt.Path] = true
	}
	return set
}

func TestRegisterBillingRoutes_RegistersEndpoints(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	log := zap.NewNop().Sugar()
	RegisterBillingRoutes(r.Group("/api/v1"), nil, log)
	RegisterCheckoutReturnRoute(r, nil, log)
	RegisterWebhookRoute(r, nil, log)

	routes := routeSet(r)
	require.True(t, routes["POST /api/v1/billing/checkout"])
	require.True(t, routes["POST /api/v1/billing/portal"])
	require.True(t, routes["GET /app/billing/checkout/return"])
	require.True(t, routes["POST /billing/webhook"])
}

func TestRegisterDirectoryRoutes_RegistersEndpoints(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	g := r.Group("/api/v1")
	RegisterDirectoryRoutes(g, nil, nil)
	RegisterIntakeRoutes(g, nil, nil)

	routes := routeSet(r)
	for _, want := range []string{
		"POST /api/v1/clients",
		"PUT /api/v1/clients/:id",
		"GET /api/v1/clients/:id",
		"POST /api/v1/clients/scan",
		"POST /api/v1/projects",
		"POST /api/v1/contacts",
		"POST /api/v1/intakes",
		"PUT /api/v1/intakes/:id/step",
		"POST /api/v1/intakes/:id/submit",
		"POST /api/v1/intakes/:id/finalize",
	} {
		require.True(t, routes[want], "missing route %s", want)
	}
}

func TestRegisterWorkspaceAndQueryProxyRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	g := r.Group("/api/v1")
	RegisterWorkspaceRoutes(g, nil)
	RegisterQueryProxyRoutes(g, nil, nil, zap.NewNop().Sugar())

	routes := routeSet(r)
	for _, want := range []string{
		"POST /api/v1/profile",
		"GET /api/v1/workspace",
		"POST /api/v1/workspace",
		"POST /api/v1/invites",
		"GET /api/v1/invites",
		"DELETE /api/v1/invites/:id",
		"POST /api/v1/invites/accept",
		"POST /api/v1/db/query",
	} {
		require.True(t, routes[want], "missing route %s", want)
	}
}

func TestApiCheckoutReturn_MissingSessionID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/app/billing/checkout/return", ApiCheckoutReturn(nil, zap.NewNop().Sugar()))

	req := httptest.NewRequest(http.MethodGet, "/app/billing/checkout/return", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "session_id")
}

func TestApiStartCheckout_BadBodyIsBadRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/v1/billing/checkout", ApiStartCheckout(nil))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/billing/checkout", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBillingError_StatusMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{billing.ErrUnknownPlan, http.StatusBadRequest},
		{billing.ErrUnauthenticated, http.StatusUnauthorized},
		{account.ErrProfileNotFound, http.StatusUnauthorized},
		{account.ErrNoMembership, http.StatusNotFound},
		{billing.ErrNoBillingCustomer, http.StatusNotFound},
		{errors.New("provider exploded"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		status, resp := billingError(tc.err)
		require.Equal(t, tc.status, status, "err %v", tc.err)
		require.NotEqual(t, response.APIResponseCodeOK, resp.Code)
	}
}

package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fieldline/portal/internal/app/api/middleware"
	"github.com/fieldline/portal/internal/app/service/account"
	"github.com/fieldline/portal/internal/app/service/billing"
	"github.com/fieldline/portal/pkg/logctx"
	"github.com/fieldline/portal/pkg/response"
	"go.uber.org/zap"
)

type checkoutReturnResp struct {
	Outcome    string `json:"outcome"`
	BillingURL string `json:"billing_url,omitempty"`
	PlanCode   string `json:"plan_code,omitempty"`
	// Support is set when the payment succeeded but reconciliation did not;
	// the UI renders a support contact path instead of a generic error.
	Support bool `json:"support,omitempty"`
}

// @Summary      Checkout return
// @Description  Handles the browser's return from the hosted checkout and reconciles the subscription.
// @Tags         Billing
// @Produce      json
// @Param        session_id query string true "Checkout session identifier"
// @Success      200  {object}  handlers.RespCheckoutReturn
// @Router       /app/billing/checkout/return [get]
func ApiCheckoutReturn(svc *billing.Service, log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.Query("session_id")
		if sessionID == "" {
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, "missing session_id"))
			return
		}

		res, err := svc.HandleCheckoutReturn(c.Request.Context(), middleware.UserID(c), sessionID)
		if err != nil {
			switch {
			case errors.Is(err, billing.ErrInvalidArgument):
				c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			case errors.Is(err, billing.ErrUnauthenticated):
				c.JSON(http.StatusUnauthorized, response.ErrorT[any](response.APIResponseCodeUnauthorized, "sign in to finish checkout"))
			default:
				// Payment already succeeded; this is a reconciliation
				// failure. Log the detail, point the user at support.
				logctx.FromGin(c, log).Errorw("checkout reconciliation failed",
					"session_id", sessionID, "err", err.Error())
				c.JSON(http.StatusOK, response.ErrorT[checkoutReturnResp](
					response.APIResponseCodeReconcileFailed,
					checkoutReturnResp{Support: true}))
			}
			return
		}

		if res.Outcome == billing.CheckoutOutcomeRedirect {
			c.Redirect(http.StatusSeeOther, res.RedirectURL)
			return
		}
		c.JSON(http.StatusOK, response.OKT(checkoutReturnResp{
			Outcome:    string(res.Outcome),
			BillingURL: res.BillingURL,
			PlanCode:   res.PlanCode,
		}))
	}
}

type startCheckoutReq struct {
	PlanCode string `json:"plan_code"`
}

type startCheckoutResp struct {
	SessionID   string `json:"session_id"`
	CheckoutURL string `json:"checkout_url"`
}

// @Summary      Start checkout
// @Description  Creates a hosted checkout session for a paid plan.
// @Tags         Billing
// @Accept       json
// @Produce      json
// @Param        request body handlers.StartCheckoutBody true "Plan selection"
// @Success      200  {object}  handlers.RespStartCheckout
// @Router       /api/v1/billing/checkout [post]
func ApiStartCheckout(svc *billing.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req startCheckoutReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		ref, err := svc.StartCheckout(c.Request.Context(), middleware.UserID(c), req.PlanCode, c.GetHeader("Origin"))
		if err != nil {
			c.JSON(billingError(err))
			return
		}
		c.JSON(http.StatusOK, response.OKT(startCheckoutResp{SessionID: ref.ID, CheckoutURL: ref.URL}))
	}
}

type portalSessionResp struct {
	URL string `json:"url"`
}

// @Summary      Billing portal session
// @Description  Returns a provider-hosted billing management URL for the caller's workspace.
// @Tags         Billing
// @Produce      json
// @Success      200  {object}  handlers.RespPortalSession
// @Router       /api/v1/billing/portal [post]
func ApiBillingPortal(svc *billing.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		url, err := svc.PortalSession(c.Request.Context(), middleware.UserID(c), c.GetHeader("Origin"))
		if err != nil {
			c.JSON(billingError(err))
			return
		}
		c.JSON(http.StatusOK, response.OKT(portalSessionResp{URL: url}))
	}
}

// @Summary      Payment provider webhook
// @Description  Receives signed provider events and reconciles subscription state.
// @Tags         Billing
// @Accept       json
// @Produce      json
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/billing/webhook [post]
func ApiBillingWebhook(svc *billing.Service, log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		payload, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, "unable to read body"))
			return
		}
		err = svc.HandleProviderEvent(c.Request.Context(), payload, c.GetHeader("Stripe-Signature"))
		if err != nil {
			if errors.Is(err, billing.ErrInvalidArgument) {
				c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, "invalid webhook"))
				return
			}
			// Non-2xx makes the provider redeliver, which is safe here.
			logctx.FromGin(c, log).Errorw("webhook processing failed", "err", err.Error())
			c.JSON(http.StatusInternalServerError, response.ErrorT[any](response.APIResponseCodeError, "unable to process event"))
			return
		}
		c.JSON(http.StatusOK, response.OKT[any](nil))
	}
}

// billingError maps billing/account sentinels onto an HTTP status and the API
// envelope without leaking upstream detail.
func billingError(err error) (int, *response.APIResponse[any]) {
	switch {
	case errors.Is(err, billing.ErrInvalidArgument), errors.Is(err, billing.ErrUnknownPlan):
		return http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error())
	case errors.Is(err, billing.ErrUnauthenticated), errors.Is(err, account.ErrProfileNotFound):
		return http.StatusUnauthorized, response.ErrorT[any](response.APIResponseCodeUnauthorized, "not signed in")
	case errors.Is(err, account.ErrNoMembership):
		return http.StatusNotFound, response.ErrorT[any](response.APIResponseCodeNotFound, "no workspace membership")
	case errors.Is(err, billing.ErrNoBillingCustomer):
		return http.StatusNotFound, response.ErrorT[any](response.APIResponseCodeNotFound, "no billing customer on record")
	default:
		return http.StatusInternalServerError, response.ErrorT[any](response.APIResponseCodeError, "unable to complete billing request")
	}
}

func RegisterBillingRoutes(r gin.IRouter, svc *billing.Service, log *zap.SugaredLogger) {
	r.POST("/billing/checkout", ApiStartCheckout(svc))
	r.POST("/billing/portal", ApiBillingPortal(svc))
}

// RegisterCheckoutReturnRoute lives outside the API group: the payment
// provider redirects the browser straight at it.
func RegisterCheckoutReturnRoute(r gin.IRouter, svc *billing.Service, log *zap.SugaredLogger) {
	r.GET("/app/billing/checkout/return", ApiCheckoutReturn(svc, log))
}

// RegisterWebhookRoute is unauthenticated; the provider signature is the
// authentication mechanism.
func RegisterWebhookRoute(r gin.IRouter, svc *billing.Service, log *zap.SugaredLogger) {
	r.POST("/billing/webhook", ApiBillingWebhook(svc, log))
}

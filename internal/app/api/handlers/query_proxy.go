package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fieldline/portal/internal/app/service/account"
	"github.com/fieldline/portal/internal/app/service/queryproxy"
	"github.com/fieldline/portal/pkg/logctx"
	"github.com/fieldline/portal/pkg/response"
)

// @Summary      Query proxy
// @Description  Executes a declarative table query scoped to the caller's workspace and forwards the datastore result verbatim.
// @Tags         Data
// @Accept       json
// @Produce      json
// @Param        request body queryproxy.Request true "Query descriptor"
// @Success      200  {object}  queryproxy.Result
// @Router       /api/v1/db/query [post]
func ApiQueryProxy(svc *queryproxy.Service, accounts *account.Service, log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req queryproxy.Request
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}

		accountID, ok := resolveAccountID(c, accounts)
		if !ok {
			return
		}

		res, err := svc.Execute(c.Request.Context(), accountID, &req)
		if err != nil {
			switch {
			case errors.Is(err, queryproxy.ErrUnsupportedMethod),
				errors.Is(err, queryproxy.ErrUnsupportedFilter),
				errors.Is(err, queryproxy.ErrUnsupportedResponse),
				errors.Is(err, queryproxy.ErrUnknownTable),
				errors.Is(err, queryproxy.ErrBadIdentifier):
				c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			default:
				logctx.FromGin(c, log).Errorw("query proxy failed", "table", req.Table, "method", req.Method, "err", err.Error())
				c.JSON(http.StatusInternalServerError, response.ErrorT[any](response.APIResponseCodeError, "unable to execute query"))
			}
			return
		}

		// The body mirrors the datastore result; the no-content sentinel is
		// substituted so clients always get a JSON body.
		status := res.Status
		if status == http.StatusNoContent {
			status = http.StatusOK
		}
		c.JSON(status, res)
	}
}

func RegisterQueryProxyRoutes(r gin.IRouter, svc *queryproxy.Service, accounts *account.Service, log *zap.SugaredLogger) {
	r.POST("/db/query", ApiQueryProxy(svc, accounts, log))
}

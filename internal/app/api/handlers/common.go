package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fieldline/portal/internal/app/api/middleware"
	"github.com/fieldline/portal/internal/app/service/account"
	"github.com/fieldline/portal/pkg/response"
)

// resolveAccountID maps the session profile to its workspace. On failure it
// writes the error envelope and reports false; handlers just return.
func resolveAccountID(c *gin.Context, accounts *account.Service) (string, bool) {
	accountID, err := accounts.ResolveAccountID(c.Request.Context(), middleware.UserID(c))
	if err == nil {
		return accountID, true
	}
	if errors.Is(err, account.ErrNoMembership) || errors.Is(err, account.ErrProfileNotFound) {
		c.JSON(http.StatusNotFound, response.ErrorT[any](response.APIResponseCodeNotFound, "no workspace membership"))
	} else {
		c.JSON(http.StatusInternalServerError, response.ErrorT[any](response.APIResponseCodeError, "unable to resolve workspace"))
	}
	return "", false
}

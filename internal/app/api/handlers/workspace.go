package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"github.com/fieldline/portal/internal/app/api/middleware"
	"github.com/fieldline/portal/internal/app/service/account"
	"github.com/fieldline/portal/internal/models"
	"github.com/fieldline/portal/pkg/response"
)

func accountError(err error) (int, *response.APIResponse[any]) {
	switch {
	case errors.Is(err, account.ErrProfileNotFound):
		return http.StatusUnauthorized, response.ErrorT[any](response.APIResponseCodeUnauthorized, "not signed in")
	case errors.Is(err, account.ErrNoMembership):
		return http.StatusNotFound, response.ErrorT[any](response.APIResponseCodeNotFound, "no workspace membership")
	case errors.Is(err, account.ErrAlreadyMember):
		return http.StatusConflict, response.ErrorT[any](response.APIResponseCodeBadRequest, "already a member of a workspace")
	case errors.Is(err, account.ErrInviteNotFound):
		return http.StatusNotFound, response.ErrorT[any](response.APIResponseCodeNotFound, "invite not found")
	case errors.Is(err, account.ErrInviteNotRedeemable):
		return http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, "invite is no longer redeemable")
	default:
		return http.StatusInternalServerError, response.ErrorT[any](response.APIResponseCodeError, "workspace operation failed")
	}
}

type ensureProfileReq struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

// @Summary      Ensure profile
// @Description  Creates the caller's profile row on first login; idempotent afterwards.
// @Tags         Workspace
// @Accept       json
// @Produce      json
// @Param        request body handlers.EnsureProfileBody true "Profile attributes"
// @Success      200  {object}  handlers.RespProfile
// @Router       /api/v1/profile [post]
func ApiEnsureProfile(svc *account.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ensureProfileReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		profile, err := svc.EnsureProfile(c.Request.Context(), middleware.UserID(c), req.Email, req.FullName)
		if err != nil {
			c.JSON(accountError(err))
			return
		}
		c.JSON(http.StatusOK, response.OKT(profile))
	}
}

// @Summary      Current workspace
// @Description  Returns the caller's account, membership role, and subscription state.
// @Tags         Workspace
// @Produce      json
// @Success      200  {object}  handlers.RespWorkspace
// @Router       /api/v1/workspace [get]
func ApiGetWorkspace(svc *account.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		ws, err := svc.GetWorkspace(c.Request.Context(), middleware.UserID(c))
		if err != nil {
			c.JSON(accountError(err))
			return
		}
		c.JSON(http.StatusOK, response.OKT(ws))
	}
}

type createWorkspaceReq struct {
	Name string `json:"name"`
}

// @Summary      Create workspace
// @Description  Creates an account and makes the caller its owner.
// @Tags         Workspace
// @Accept       json
// @Produce      json
// @Param        request body handlers.CreateWorkspaceBody true "Workspace name"
// @Success      200  {object}  handlers.RespAccount
// @Router       /api/v1/workspace [post]
func ApiCreateWorkspace(svc *account.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createWorkspaceReq
		if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, "workspace name is required"))
			return
		}
		acct, err := svc.CreateWorkspace(c.Request.Context(), middleware.UserID(c), req.Name)
		if err != nil {
			c.JSON(accountError(err))
			return
		}
		c.JSON(http.StatusOK, response.OKT(acct))
	}
}

type createInviteReq struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

// @Summary      Create invite
// @Tags         Workspace
// @Accept       json
// @Produce      json
// @Param        request body handlers.CreateInviteBody true "Invitee"
// @Success      200  {object}  handlers.RespInvite
// @Router       /api/v1/invites [post]
func ApiCreateInvite(svc *account.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		accountID, ok := resolveAccountID(c, svc)
		if !ok {
			return
		}
		var req createInviteReq
		if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" {
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, "invitee email is required"))
			return
		}
		invite, err := svc.CreateInvite(c.Request.Context(), accountID, req.Email, req.Role)
		if err != nil {
			c.JSON(accountError(err))
			return
		}
		c.JSON(http.StatusOK, response.OKT(invite))
	}
}

// InviteItem is the list view of an invite. The redemption token is never
// returned on listing.
type InviteItem struct {
	ID         string     `json:"id"`
	Email      string     `json:"email"`
	Role       string     `json:"role"`
	ExpiresAt  time.Time  `json:"expires_at"`
	AcceptedAt *time.Time `json:"accepted_at"`
	RevokedAt  *time.Time `json:"revoked_at"`
	CreatedAt  time.Time  `json:"created_at"`
}

// @Summary      List invites
// @Tags         Workspace
// @Produce      json
// @Success      200  {object}  handlers.RespInvites
// @Router       /api/v1/invites [get]
func ApiListInvites(svc *account.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		accountID, ok := resolveAccountID(c, svc)
		if !ok {
			return
		}
		invites, err := svc.ListInvites(c.Request.Context(), accountID)
		if err != nil {
			c.JSON(accountError(err))
			return
		}
		items := lo.Map(invites, func(in *models.Invite, _ int) InviteItem {
			return InviteItem{
				ID:         in.ID,
				Email:      in.Email,
				Role:       in.Role,
				ExpiresAt:  in.ExpiresAt,
				AcceptedAt: in.AcceptedAt,
				RevokedAt:  in.RevokedAt,
				CreatedAt:  in.CreatedAt,
			}
		})
		c.JSON(http.StatusOK, response.OKT(items))
	}
}

// @Summary      Revoke invite
// @Tags         Workspace
// @Produce      json
// @Param        id path string true "Invite ID"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/invites/{id} [delete]
func ApiRevokeInvite(svc *account.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		accountID, ok := resolveAccountID(c, svc)
		if !ok {
			return
		}
		if err := svc.RevokeInvite(c.Request.Context(), accountID, c.Param("id")); err != nil {
			c.JSON(accountError(err))
			return
		}
		c.JSON(http.StatusOK, response.OKT[any](nil))
	}
}

type acceptInviteReq struct {
	Token string `json:"token"`
}

// @Summary      Accept invite
// @Description  Redeems an invite token and joins the caller to the workspace.
// @Tags         Workspace
// @Accept       json
// @Produce      json
// @Param        request body handlers.AcceptInviteBody true "Invite token"
// @Success      200  {object}  handlers.RespMembership
// @Router       /api/v1/invites/accept [post]
func ApiAcceptInvite(svc *account.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req acceptInviteReq
		if err := c.ShouldBindJSON(&req); err != nil || req.Token == "" {
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, "invite token is required"))
			return
		}
		membership, err := svc.AcceptInvite(c.Request.Context(), req.Token, middleware.UserID(c))
		if err != nil {
			c.JSON(accountError(err))
			return
		}
		c.JSON(http.StatusOK, response.OKT(membership))
	}
}

func RegisterWorkspaceRoutes(r gin.IRouter, svc *account.Service) {
	r.POST("/profile", ApiEnsureProfile(svc))
	r.GET("/workspace", ApiGetWorkspace(svc))
	r.POST("/workspace", ApiCreateWorkspace(svc))
	r.POST("/invites", ApiCreateInvite(svc))
	r.GET("/invites", ApiListInvites(svc))
	r.DELETE("/invites/:id", ApiRevokeInvite(svc))
	r.POST("/invites/accept", ApiAcceptInvite(svc))
}

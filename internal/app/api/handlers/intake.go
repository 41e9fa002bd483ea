package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fieldline/portal/internal/app/api/middleware"
	"github.com/fieldline/portal/internal/app/service/account"
	"github.com/fieldline/portal/internal/app/service/directory"
	"github.com/fieldline/portal/pkg/response"
)

// @Summary      Start intake
// @Description  Opens a draft intake submission for the project wizard.
// @Tags         Intake
// @Produce      json
// @Success      200  {object}  handlers.RespIntake
// @Router       /api/v1/intakes [post]
func ApiStartIntake(svc *directory.Service, accounts *account.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		accountID, ok := resolveAccountID(c, accounts)
		if !ok {
			return
		}
		intake, err := svc.StartIntake(c.Request.Context(), accountID, middleware.UserID(c))
		if err != nil {
			c.JSON(directoryError(err))
			return
		}
		c.JSON(http.StatusOK, response.OKT(intake))
	}
}

type saveIntakeStepReq struct {
	Step    int            `json:"step"`
	Answers map[string]any `json:"answers"`
}

// @Summary      Save intake step
// @Description  Merges one wizard step's answers into the draft payload.
// @Tags         Intake
// @Accept       json
// @Produce      json
// @Param        id path string true "Intake ID"
// @Param        request body handlers.SaveIntakeStepBody true "Step answers"
// @Success      200  {object}  handlers.RespIntake
// @Router       /api/v1/intakes/{id}/step [put]
func ApiSaveIntakeStep(svc *directory.Service, accounts *account.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		accountID, ok := resolveAccountID(c, accounts)
		if !ok {
			return
		}
		var req saveIntakeStepReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		intake, err := svc.SaveIntakeStep(c.Request.Context(), accountID, c.Param("id"), req.Step, req.Answers)
		if err != nil {
			c.JSON(directoryError(err))
			return
		}
		c.JSON(http.StatusOK, response.OKT(intake))
	}
}

// @Summary      Submit intake
// @Description  Marks the draft as submitted for review.
// @Tags         Intake
// @Produce      json
// @Param        id path string true "Intake ID"
// @Success      200  {object}  handlers.RespIntake
// @Router       /api/v1/intakes/{id}/submit [post]
func ApiSubmitIntake(svc *directory.Service, accounts *account.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		accountID, ok := resolveAccountID(c, accounts)
		if !ok {
			return
		}
		intake, err := svc.SubmitIntake(c.Request.Context(), accountID, c.Param("id"))
		if err != nil {
			c.JSON(directoryError(err))
			return
		}
		c.JSON(http.StatusOK, response.OKT(intake))
	}
}

// @Summary      Finalize intake
// @Description  Converts a submitted intake into a project with its contacts.
// @Tags         Intake
// @Produce      json
// @Param        id path string true "Intake ID"
// @Success      200  {object}  handlers.RespProject
// @Router       /api/v1/intakes/{id}/finalize [post]
func ApiFinalizeIntake(svc *directory.Service, accounts *account.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		accountID, ok := resolveAccountID(c, accounts)
		if !ok {
			return
		}
		project, err := svc.FinalizeIntake(c.Request.Context(), accountID, c.Param("id"))
		if err != nil {
			c.JSON(directoryError(err))
			return
		}
		c.JSON(http.StatusOK, response.OKT(project))
	}
}

// @Summary      Get intake
// @Tags         Intake
// @Produce      json
// @Param        id path string true "Intake ID"
// @Success      200  {object}  handlers.RespIntake
// @Router       /api/v1/intakes/{id} [get]
func ApiGetIntake(svc *directory.Service, accounts *account.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		accountID, ok := resolveAccountID(c, accounts)
		if !ok {
			return
		}
		intake, err := svc.GetIntake(c.Request.Context(), accountID, c.Param("id"))
		if err != nil {
			c.JSON(directoryError(err))
			return
		}
		c.JSON(http.StatusOK, response.OKT(intake))
	}
}

func RegisterIntakeRoutes(r gin.IRouter, svc *directory.Service, accounts *account.Service) {
	r.POST("/intakes", ApiStartIntake(svc, accounts))
	r.GET("/intakes/:id", ApiGetIntake(svc, accounts))
	r.PUT("/intakes/:id/step", ApiSaveIntakeStep(svc, accounts))
	r.POST("/intakes/:id/submit", ApiSubmitIntake(svc, accounts))
	r.POST("/intakes/:id/finalize", ApiFinalizeIntake(svc, accounts))
}

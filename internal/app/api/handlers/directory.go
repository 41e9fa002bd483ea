package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fieldline/portal/internal/app/service/account"
	"github.com/fieldline/portal/internal/app/service/directory"
	"github.com/fieldline/portal/internal/models"
	"github.com/fieldline/portal/pkg/response"
)

func directoryError(err error) (int, *response.APIResponse[any]) {
	switch {
	case errors.Is(err, directory.ErrNotFound):
		return http.StatusNotFound, response.ErrorT[any](response.APIResponseCodeNotFound, "record not found")
	case errors.Is(err, directory.ErrIntakeFinalized):
		return http.StatusConflict, response.ErrorT[any](response.APIResponseCodeBadRequest, "intake already finalized")
	case errors.Is(err, directory.ErrIntakeIncomplete):
		return http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error())
	default:
		return http.StatusInternalServerError, response.ErrorT[any](response.APIResponseCodeError, "directory operation failed")
	}
}

// @Summary      Create client
// @Tags         Directory
// @Accept       json
// @Produce      json
// @Param        request body models.Client true "Client"
// @Success      200  {object}  handlers.RespClient
// @Router       /api/v1/clients [post]
func ApiCreateClient(svc *directory.Service, accounts *account.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		accountID, ok := resolveAccountID(c, accounts)
		if !ok {
			return
		}
		var body models.Client
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		created, err := svc.CreateClient(c.Request.Context(), accountID, &body)
		if err != nil {
			c.JSON(directoryError(err))
			return
		}
		c.JSON(http.StatusOK, response.OKT(created))
	}
}

// @Summary      Update client
// @Tags         Directory
// @Accept       json
// @Produce      json
// @Param        id path string true "Client ID"
// @Param        request body models.Client true "Client"
// @Success      200  {object}  handlers.RespClient
// @Router       /api/v1/clients/{id} [put]
func ApiUpdateClient(svc *directory.Service, accounts *account.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		accountID, ok := resolveAccountID(c, accounts)
		if !ok {
			return
		}
		var body models.Client
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		body.ID = c.Param("id")
		updated, err := svc.UpdateClient(c.Request.Context(), accountID, &body)
		if err != nil {
			c.JSON(directoryError(err))
			return
		}
		c.JSON(http.StatusOK, response.OKT(updated))
	}
}

// @Summary      Get client
// @Tags         Directory
// @Produce      json
// @Param        id path string true "Client ID"
// @Success      200  {object}  handlers.RespClient
// @Router       /api/v1/clients/{id} [get]
func ApiGetClient(svc *directory.Service, accounts *account.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		accountID, ok := resolveAccountID(c, accounts)
		if !ok {
			return
		}
		client, err := svc.GetClient(c.Request.Context(), accountID, c.Param("id"))
		if err != nil {
			c.JSON(directoryError(err))
			return
		}
		c.JSON(http.StatusOK, response.OKT(client))
	}
}

// @Summary      List clients
// @Description  Paginated, filterable client listing scoped to the workspace.
// @Tags         Directory
// @Accept       json
// @Produce      json
// @Param        request body directory.ScanRequest true "Scan request"
// @Success      200  {object}  handlers.RespScanClients
// @Router       /api/v1/clients/scan [post]
func ApiScanClients(svc *directory.Service, accounts *account.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		accountID, ok := resolveAccountID(c, accounts)
		if !ok {
			return
		}
		var req directory.ScanRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		res, err := svc.ScanClients(c.Request.Context(), accountID, &req)
		if err != nil {
			c.JSON(directoryError(err))
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      Create project
// @Tags         Directory
// @Accept       json
// @Produce      json
// @Param        request body models.Project true "Project"
// @Success      200  {object}  handlers.RespProject
// @Router       /api/v1/projects [post]
func ApiCreateProject(svc *directory.Service, accounts *account.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		accountID, ok := resolveAccountID(c, accounts)
		if !ok {
			return
		}
		var body models.Project
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		created, err := svc.CreateProject(c.Request.Context(), accountID, &body)
		if err != nil {
			c.JSON(directoryError(err))
			return
		}
		c.JSON(http.StatusOK, response.OKT(created))
	}
}

// @Summary      Update project
// @Tags         Directory
// @Accept       json
// @Produce      json
// @Param        id path string true "Project ID"
// @Param        request body models.Project true "Project"
// @Success      200  {object}  handlers.RespProject
// @Router       /api/v1/projects/{id} [put]
func ApiUpdateProject(svc *directory.Service, accounts *account.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		accountID, ok := resolveAccountID(c, accounts)
		if !ok {
			return
		}
		var body models.Project
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		body.ID = c.Param("id")
		updated, err := svc.UpdateProject(c.Request.Context(), accountID, &body)
		if err != nil {
			c.JSON(directoryError(err))
			return
		}
		c.JSON(http.StatusOK, response.OKT(updated))
	}
}

// @Summary      Get project
// @Tags         Directory
// @Produce      json
// @Param        id path string true "Project ID"
// @Success      200  {object}  handlers.RespProject
// @Router       /api/v1/projects/{id} [get]
func ApiGetProject(svc *directory.Service, accounts *account.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		accountID, ok := resolveAccountID(c, accounts)
		if !ok {
			return
		}
		project, err := svc.GetProject(c.Request.Context(), accountID, c.Param("id"))
		if err != nil {
			c.JSON(directoryError(err))
			return
		}
		c.JSON(http.StatusOK, response.OKT(project))
	}
}

// @Summary      List projects
// @Tags         Directory
// @Accept       json
// @Produce      json
// @Param        request body directory.ScanRequest true "Scan request"
// @Success      200  {object}  handlers.RespScanProjects
// @Router       /api/v1/projects/scan [post]
func ApiScanProjects(svc *directory.Service, accounts *account.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		accountID, ok := resolveAccountID(c, accounts)
		if !ok {
			return
		}
		var req directory.ScanRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		res, err := svc.ScanProjects(c.Request.Context(), accountID, &req)
		if err != nil {
			c.JSON(directoryError(err))
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      Create contact
// @Tags         Directory
// @Accept       json
// @Produce      json
// @Param        request body models.Contact true "Contact"
// @Success      200  {object}  handlers.RespContact
// @Router       /api/v1/contacts [post]
func ApiCreateContact(svc *directory.Service, accounts *account.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		accountID, ok := resolveAccountID(c, accounts)
		if !ok {
			return
		}
		var body models.Contact
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		created, err := svc.CreateContact(c.Request.Context(), accountID, &body)
		if err != nil {
			c.JSON(directoryError(err))
			return
		}
		c.JSON(http.StatusOK, response.OKT(created))
	}
}

// @Summary      Update contact
// @Tags         Directory
// @Accept       json
// @Produce      json
// @Param        id path string true "Contact ID"
// @Param        request body models.Contact true "Contact"
// @Success      200  {object}  handlers.RespContact
// @Router       /api/v1/contacts/{id} [put]
func ApiUpdateContact(svc *directory.Service, accounts *account.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		accountID, ok := resolveAccountID(c, accounts)
		if !ok {
			return
		}
		var body models.Contact
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		body.ID = c.Param("id")
		updated, err := svc.UpdateContact(c.Request.Context(), accountID, &body)
		if err != nil {
			c.JSON(directoryError(err))
			return
		}
		c.JSON(http.StatusOK, response.OKT(updated))
	}
}

// @Summary      Get contact
// @Tags         Directory
// @Produce      json
// @Param        id path string true "Contact ID"
// @Success      200  {object}  handlers.RespContact
// @Router       /api/v1/contacts/{id} [get]
func ApiGetContact(svc *directory.Service, accounts *account.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		accountID, ok := resolveAccountID(c, accounts)
		if !ok {
			return
		}
		contact, err := svc.GetContact(c.Request.Context(), accountID, c.Param("id"))
		if err != nil {
			c.JSON(directoryError(err))
			return
		}
		c.JSON(http.StatusOK, response.OKT(contact))
	}
}

// @Summary      List contacts
// @Tags         Directory
// @Accept       json
// @Produce      json
// @Param        request body directory.ScanRequest true "Scan request"
// @Success      200  {object}  handlers.RespScanContacts
// @Router       /api/v1/contacts/scan [post]
func ApiScanContacts(svc *directory.Service, accounts *account.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		accountID, ok := resolveAccountID(c, accounts)
		if !ok {
			return
		}
		var req directory.ScanRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		res, err := svc.ScanContacts(c.Request.Context(), accountID, &req)
		if err != nil {
			c.JSON(directoryError(err))
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

func RegisterDirectoryRoutes(r gin.IRouter, svc *directory.Service, accounts *account.Service) {
	r.POST("/clients", ApiCreateClient(svc, accounts))
	r.PUT("/clients/:id", ApiUpdateClient(svc, accounts))
	r.GET("/clients/:id", ApiGetClient(svc, accounts))
	r.POST("/clients/scan", ApiScanClients(svc, accounts))

	r.POST("/projects", ApiCreateProject(svc, accounts))
	r.PUT("/projects/:id", ApiUpdateProject(svc, accounts))
	r.GET("/projects/:id", ApiGetProject(svc, accounts))
	r.POST("/projects/scan", ApiScanProjects(svc, accounts))

	r.POST("/contacts", ApiCreateContact(svc, accounts))
	r.PUT("/contacts/:id", ApiUpdateContact(svc, accounts))
	r.GET("/contacts/:id", ApiGetContact(svc, accounts))
	r.POST("/contacts/scan", ApiScanContacts(svc, accounts))
}

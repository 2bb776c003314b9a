package server

import (
	"net/http"
	"strings"

	tenantdomain "github.com/Pexry/pexry2-sub001/internal/tenant/domain"
	"github.com/gin-gonic/gin"
)

type createTenantRequest struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
}

// @Summary      Create Tenant
// @Description  Open a shop owned by the caller
// @Tags         tenants
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body createTenantRequest true "Create Tenant Request"
// @Success      200  {object}  tenantdomain.Tenant
// @Router       /tenants [post]
func (s *Server) CreateTenant(c *gin.Context) {
	var req createTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.tenantSvc.Create(c.Request.Context(), tenantdomain.CreateRequest{
		Slug:        strings.TrimSpace(req.Slug),
		Name:        strings.TrimSpace(req.Name),
		OwnerUserID: sessionUserID(c),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Get Tenant
// @Description  Fetch a shop by its slug
// @Tags         tenants
// @Produce      json
// @Security     BearerAuth
// @Param        slug path string true "Tenant slug"
// @Success      200  {object}  tenantdomain.Tenant
// @Router       /tenants/{slug} [get]
func (s *Server) GetTenant(c *gin.Context) {
	resp, err := s.tenantSvc.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

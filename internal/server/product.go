package server

import (
	"net/http"
	"strings"

	productdomain "github.com/Pexry/pexry2-sub001/internal/product/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
)

type createProductRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	PriceCents  int64   `json:"price_cents"`
}

// @Summary      Create Product
// @Description  Add a product to a shop's catalog (owner only)
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        slug path string true "Tenant slug"
// @Param        request body createProductRequest true "Create Product Request"
// @Success      200  {object}  productdomain.Product
// @Router       /tenants/{slug}/products [post]
func (s *Server) CreateProduct(c *gin.Context) {
	tenant, err := s.tenantSvc.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.productSvc.Create(c.Request.Context(), productdomain.CreateRequest{
		TenantID:    tenant.ID,
		ActorUserID: sessionUserID(c),
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		PriceCents:  req.PriceCents,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      List Products
// @Description  List a shop's catalog
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        slug path string true "Tenant slug"
// @Param        include_archived query bool false "Include archived products"
// @Success      200  {array}  productdomain.Product
// @Router       /tenants/{slug}/products [get]
func (s *Server) ListProducts(c *gin.Context) {
	tenant, err := s.tenantSvc.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.productSvc.List(c.Request.Context(), productdomain.ListRequest{
		TenantID:        tenant.ID,
		IncludeArchived: c.Query("include_archived") == "true",
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Archive Product
// @Description  Remove a product from sale (owner only)
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Product ID"
// @Success      200  {object}  productdomain.Product
// @Router       /products/{id}/archive [post]
func (s *Server) ArchiveProduct(c *gin.Context) {
	id, err := snowflake.ParseString(c.Param("id"))
	if err != nil {
		AbortWithError(c, productdomain.ErrNotFound)
		return
	}

	resp, err := s.productSvc.Archive(c.Request.Context(), id, sessionUserID(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

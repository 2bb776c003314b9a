package server

import (
	"net/http"
	"strings"

	orderdomain "github.com/Pexry/pexry2-sub001/internal/order/domain"
	"github.com/gin-gonic/gin"
)

type checkoutRequest struct {
	TenantSlug string   `json:"tenant_slug"`
	ProductIDs []string `json:"product_ids"`
}

// @Summary      Checkout
// @Description  Create an order for a cart of products and open a payment invoice
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body checkoutRequest true "Checkout Request"
// @Success      200  {object}  orderdomain.CheckoutResult
// @Router       /checkout [post]
func (s *Server) Checkout(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.orderSvc.Checkout(c.Request.Context(), orderdomain.CheckoutRequest{
		UserID:     sessionUserID(c),
		TenantSlug: strings.TrimSpace(req.TenantSlug),
		ProductIDs: req.ProductIDs,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

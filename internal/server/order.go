package server

import (
	"net/http"

	orderdomain "github.com/Pexry/pexry2-sub001/internal/order/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
)

// @Summary      List Orders
// @Description  List the caller's purchases, or a tenant's sales with ?tenant_id=
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        tenant_id query string false "Tenant ID for the seller view"
// @Success      200  {array}  orderdomain.Order
// @Router       /orders [get]
func (s *Server) ListOrders(c *gin.Context) {
	userID := sessionUserID(c)

	var (
		orders []orderdomain.Order
		err    error
	)
	if raw := c.Query("tenant_id"); raw != "" {
		var tenantID snowflake.ID
		tenantID, err = snowflake.ParseString(raw)
		if err != nil {
			AbortWithError(c, invalidRequestError())
			return
		}
		orders, err = s.orderSvc.ListForTenant(c.Request.Context(), tenantID, userID)
	} else {
		orders, err = s.orderSvc.ListForBuyer(c.Request.Context(), userID)
	}
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": orders})
}

// @Summary      Get Order
// @Description  Fetch an order visible to its buyer or seller
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Order ID"
// @Success      200  {object}  orderdomain.Order
// @Router       /orders/{id} [get]
func (s *Server) GetOrder(c *gin.Context) {
	id, err := snowflake.ParseString(c.Param("id"))
	if err != nil {
		AbortWithError(c, orderdomain.ErrNotFound)
		return
	}

	resp, err := s.orderSvc.Get(c.Request.Context(), id, sessionUserID(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Deliver Order
// @Description  Mark a paid order as delivered (seller only)
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Order ID"
// @Success      200  {object}  orderdomain.Order
// @Router       /orders/{id}/deliver [post]
func (s *Server) DeliverOrder(c *gin.Context) {
	id, err := snowflake.ParseString(c.Param("id"))
	if err != nil {
		AbortWithError(c, orderdomain.ErrNotFound)
		return
	}

	resp, err := s.orderSvc.MarkDelivered(c.Request.Context(), id, sessionUserID(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

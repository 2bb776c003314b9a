package server

import (
	"net/http"
	"strings"

	disputedomain "github.com/Pexry/pexry2-sub001/internal/dispute/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
)

type openDisputeRequest struct {
	OrderID     string `json:"order_id"`
	Subject     string `json:"subject"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Priority    string `json:"priority"`
}

type disputeMessageRequest struct {
	Body string `json:"body"`
}

type disputeStatusRequest struct {
	Status string `json:"status"`
}

type assignDisputeRequest struct {
	AgentID string `json:"agent_id"`
}

// @Summary      Open Dispute
// @Description  Open a dispute against an order the caller bought or sold
// @Tags         disputes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body openDisputeRequest true "Open Dispute Request"
// @Success      200  {object}  disputedomain.Dispute
// @Router       /disputes [post]
func (s *Server) OpenDispute(c *gin.Context) {
	var req openDisputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	orderID, err := snowflake.ParseString(req.OrderID)
	if err != nil {
		AbortWithError(c, newValidationError("order_id", "invalid", "order_id must be a valid id"))
		return
	}

	resp, err := s.disputeSvc.Open(c.Request.Context(), disputedomain.OpenRequest{
		Actor:       disputedomain.Actor{UserID: sessionUserID(c)},
		OrderID:     orderID,
		Subject:     strings.TrimSpace(req.Subject),
		Description: strings.TrimSpace(req.Description),
		Category:    disputedomain.DisputeCategory(req.Category),
		Priority:    disputedomain.DisputePriority(req.Priority),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      List Disputes
// @Description  List disputes the caller participates in
// @Tags         disputes
// @Produce      json
// @Security     BearerAuth
// @Param        status query string false "Filter by status"
// @Success      200  {array}  disputedomain.Dispute
// @Router       /disputes [get]
func (s *Server) ListDisputes(c *gin.Context) {
	s.listDisputes(c, disputedomain.Actor{UserID: sessionUserID(c)})
}

// @Summary      Get Dispute
// @Description  Fetch a dispute the caller participates in
// @Tags         disputes
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Dispute ID"
// @Success      200  {object}  disputedomain.Dispute
// @Router       /disputes/{id} [get]
func (s *Server) GetDispute(c *gin.Context) {
	s.getDispute(c, disputedomain.Actor{UserID: sessionUserID(c)})
}

// @Summary      List Dispute Messages
// @Description  Read a dispute's message thread
// @Tags         disputes
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Dispute ID"
// @Success      200  {array}  disputedomain.DisputeMessage
// @Router       /disputes/{id}/messages [get]
func (s *Server) ListDisputeMessages(c *gin.Context) {
	actor := disputedomain.Actor{UserID: sessionUserID(c)}

	id, err := snowflake.ParseString(c.Param("id"))
	if err != nil {
		AbortWithError(c, disputedomain.ErrNotFound)
		return
	}

	resp, err := s.disputeSvc.ListMessages(c.Request.Context(), actor, id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Add Dispute Message
// @Description  Append a message to a dispute thread
// @Tags         disputes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Dispute ID"
// @Param        request body disputeMessageRequest true "Message"
// @Success      200  {object}  disputedomain.DisputeMessage
// @Router       /disputes/{id}/messages [post]
func (s *Server) AddDisputeMessage(c *gin.Context) {
	s.addDisputeMessage(c, disputedomain.Actor{UserID: sessionUserID(c)})
}

// @Summary      Update Dispute Status
// @Description  Move a dispute through its lifecycle; participants may only close
// @Tags         disputes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Dispute ID"
// @Param        request body disputeStatusRequest true "Target status"
// @Success      200  {object}  disputedomain.Dispute
// @Router       /disputes/{id}/status [post]
func (s *Server) UpdateDisputeStatus(c *gin.Context) {
	s.updateDisputeStatus(c, disputedomain.Actor{UserID: sessionUserID(c)})
}

// @Summary      List Disputes (agent)
// @Description  List all disputes, optionally filtered by status
// @Tags         agents
// @Produce      json
// @Security     BasicAuth
// @Param        status query string false "Filter by status"
// @Success      200  {array}  disputedomain.Dispute
// @Router       /agents/disputes [get]
func (s *Server) AgentListDisputes(c *gin.Context) {
	s.listDisputes(c, agentActor(c))
}

// @Summary      Get Dispute (agent)
// @Tags         agents
// @Produce      json
// @Security     BasicAuth
// @Param        id path string true "Dispute ID"
// @Success      200  {object}  disputedomain.Dispute
// @Router       /agents/disputes/{id} [get]
func (s *Server) AgentGetDispute(c *gin.Context) {
	s.getDispute(c, agentActor(c))
}

// @Summary      Add Dispute Message (agent)
// @Tags         agents
// @Accept       json
// @Produce      json
// @Security     BasicAuth
// @Param        id path string true "Dispute ID"
// @Param        request body disputeMessageRequest true "Message"
// @Success      200  {object}  disputedomain.DisputeMessage
// @Router       /agents/disputes/{id}/messages [post]
func (s *Server) AgentAddDisputeMessage(c *gin.Context) {
	s.addDisputeMessage(c, agentActor(c))
}

// @Summary      Update Dispute Status (agent)
// @Tags         agents
// @Accept       json
// @Produce      json
// @Security     BasicAuth
// @Param        id path string true "Dispute ID"
// @Param        request body disputeStatusRequest true "Target status"
// @Success      200  {object}  disputedomain.Dispute
// @Router       /agents/disputes/{id}/status [post]
func (s *Server) AgentUpdateDisputeStatus(c *gin.Context) {
	s.updateDisputeStatus(c, agentActor(c))
}

// @Summary      Assign Dispute
// @Description  Assign a dispute to a support agent
// @Tags         agents
// @Accept       json
// @Produce      json
// @Security     BasicAuth
// @Param        id path string true "Dispute ID"
// @Param        request body assignDisputeRequest true "Assignee"
// @Success      200  {object}  disputedomain.Dispute
// @Router       /agents/disputes/{id}/assign [post]
func (s *Server) AssignDispute(c *gin.Context) {
	id, err := snowflake.ParseString(c.Param("id"))
	if err != nil {
		AbortWithError(c, disputedomain.ErrNotFound)
		return
	}

	var req assignDisputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	agentID, err := snowflake.ParseString(req.AgentID)
	if err != nil {
		AbortWithError(c, newValidationError("agent_id", "invalid", "agent_id must be a valid id"))
		return
	}

	resp, err := s.disputeSvc.Assign(c.Request.Context(), agentActor(c), id, agentID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) listDisputes(c *gin.Context, actor disputedomain.Actor) {
	resp, err := s.disputeSvc.List(c.Request.Context(), disputedomain.ListRequest{
		Actor:  actor,
		Status: disputedomain.DisputeStatus(c.Query("status")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) getDispute(c *gin.Context, actor disputedomain.Actor) {
	id, err := snowflake.ParseString(c.Param("id"))
	if err != nil {
		AbortWithError(c, disputedomain.ErrNotFound)
		return
	}

	resp, err := s.disputeSvc.Get(c.Request.Context(), actor, id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) addDisputeMessage(c *gin.Context, actor disputedomain.Actor) {
	id, err := snowflake.ParseString(c.Param("id"))
	if err != nil {
		AbortWithError(c, disputedomain.ErrNotFound)
		return
	}

	var req disputeMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.disputeSvc.AddMessage(c.Request.Context(), actor, id, strings.TrimSpace(req.Body))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) updateDisputeStatus(c *gin.Context, actor disputedomain.Actor) {
	id, err := snowflake.ParseString(c.Param("id"))
	if err != nil {
		AbortWithError(c, disputedomain.ErrNotFound)
		return
	}

	var req disputeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.disputeSvc.UpdateStatus(c.Request.Context(), actor, id, disputedomain.DisputeStatus(req.Status))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

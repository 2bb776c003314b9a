package server

import (
	"net/http"
	"strings"

	agentdomain "github.com/Pexry/pexry2-sub001/internal/agent/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
)

type createAgentRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
	Password    string `json:"password"`
}

// @Summary      Create Agent
// @Description  Register a support agent or supervisor
// @Tags         agents
// @Accept       json
// @Produce      json
// @Security     BasicAuth
// @Param        request body createAgentRequest true "Create Agent Request"
// @Success      200  {object}  agentdomain.Agent
// @Router       /agents/staff [post]
func (s *Server) CreateAgent(c *gin.Context) {
	var req createAgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.agentSvc.Create(c.Request.Context(), agentdomain.CreateRequest{
		Email:       strings.TrimSpace(req.Email),
		DisplayName: strings.TrimSpace(req.DisplayName),
		Role:        agentdomain.AgentRole(req.Role),
		Password:    req.Password,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      List Agents
// @Tags         agents
// @Produce      json
// @Security     BasicAuth
// @Param        include_inactive query bool false "Include deactivated agents"
// @Success      200  {array}  agentdomain.Agent
// @Router       /agents/staff [get]
func (s *Server) ListAgents(c *gin.Context) {
	resp, err := s.agentSvc.List(c.Request.Context(), c.Query("include_inactive") == "true")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Deactivate Agent
// @Tags         agents
// @Produce      json
// @Security     BasicAuth
// @Param        id path string true "Agent ID"
// @Success      200  {object}  agentdomain.Agent
// @Router       /agents/staff/{id}/deactivate [post]
func (s *Server) DeactivateAgent(c *gin.Context) {
	id, err := snowflake.ParseString(c.Param("id"))
	if err != nil {
		AbortWithError(c, agentdomain.ErrNotFound)
		return
	}

	resp, err := s.agentSvc.Deactivate(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

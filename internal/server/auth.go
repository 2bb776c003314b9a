package server

import (
	"errors"
	"strings"
	"time"

	agentdomain "github.com/Pexry/pexry2-sub001/internal/agent/domain"
	authdomain "github.com/Pexry/pexry2-sub001/internal/auth/domain"
	disputedomain "github.com/Pexry/pexry2-sub001/internal/dispute/domain"
	obscontext "github.com/Pexry/pexry2-sub001/internal/observability/context"
	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const contextAgentKey = "agent"

// SessionRequired authenticates a user from an opaque bearer token in
// the sessions table.
func (s *Server) SessionRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		hash := authdomain.HashSessionToken(token)
		now := time.Now().UTC()

		var session authdomain.Session
		err := s.db.WithContext(c.Request.Context()).
			Where("token_hash = ? AND expires_at > ?", hash, now).
			First(&session).
			Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		if err != nil {
			AbortWithError(c, err)
			return
		}

		ctx := obscontext.WithUserID(c.Request.Context(), int64(session.UserID))
		ctx = obscontext.WithActor(ctx, "user", session.UserID.String())
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// AgentRequired authenticates support staff with HTTP basic
// credentials against the agents table.
func (s *Server) AgentRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		email, password, ok := c.Request.BasicAuth()
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		agent, err := s.agentSvc.Authenticate(c.Request.Context(), email, password)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.Set(contextAgentKey, agent)
		ctx := obscontext.WithActor(c.Request.Context(), "agent", agent.ID.String())
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// SupervisorRequired layers on AgentRequired.
func (s *Server) SupervisorRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		agent := agentFromContext(c)
		if agent == nil || agent.Role != agentdomain.RoleSupervisor {
			AbortWithError(c, ErrForbidden)
			return
		}
		c.Next()
	}
}

// WebhookRateLimit guards the unauthenticated callback endpoint with a
// fixed window per source IP.
func (s *Server) WebhookRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.webhookLimiter.Allow(c.ClientIP()) {
			c.AbortWithStatusJSON(429, gin.H{"error": gin.H{
				"code":    "rate_limited",
				"message": "too many requests",
			}})
			return
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if header == "" {
		return "", false
	}
	parts := strings.Fields(header)
	if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return parts[1], true
}

func agentFromContext(c *gin.Context) *agentdomain.Agent {
	value, ok := c.Get(contextAgentKey)
	if !ok {
		return nil
	}
	agent, ok := value.(*agentdomain.Agent)
	if !ok {
		return nil
	}
	return agent
}

// sessionUserID returns the authenticated user id set by
// SessionRequired.
func sessionUserID(c *gin.Context) snowflake.ID {
	return snowflake.ID(obscontext.UserIDFromGin(c))
}

// agentActor builds the dispute actor for the authenticated agent.
func agentActor(c *gin.Context) disputedomain.Actor {
	agent := agentFromContext(c)
	if agent == nil {
		return disputedomain.Actor{}
	}
	return disputedomain.Actor{UserID: agent.ID, Agent: true}
}

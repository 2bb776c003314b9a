package server

import (
	"net/http"
	"strings"

	walletdomain "github.com/Pexry/pexry2-sub001/internal/wallet/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
)

type requestWithdrawalRequest struct {
	AmountCents   int64  `json:"amount_cents"`
	WalletAddress string `json:"wallet_address"`
}

// @Summary      Wallet Balance
// @Description  The caller's earned balance, pending withdrawals, and spendable remainder
// @Tags         wallet
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  walletdomain.Balance
// @Router       /wallet/balance [get]
func (s *Server) GetWalletBalance(c *gin.Context) {
	resp, err := s.walletSvc.GetBalance(c.Request.Context(), sessionUserID(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      List Withdrawals
// @Description  The caller's withdrawal history
// @Tags         wallet
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  walletdomain.Withdrawal
// @Router       /wallet/withdrawals [get]
func (s *Server) ListWithdrawals(c *gin.Context) {
	resp, err := s.walletSvc.ListWithdrawals(c.Request.Context(), sessionUserID(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Request Withdrawal
// @Description  Reserve part of the available balance for payout
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body requestWithdrawalRequest true "Withdrawal Request"
// @Success      200  {object}  walletdomain.Withdrawal
// @Router       /wallet/withdrawals [post]
func (s *Server) RequestWithdrawal(c *gin.Context) {
	var req requestWithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.walletSvc.RequestWithdrawal(c.Request.Context(), walletdomain.WithdrawalRequest{
		UserID:        sessionUserID(c),
		AmountCents:   req.AmountCents,
		WalletAddress: strings.TrimSpace(req.WalletAddress),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      List Pending Withdrawals
// @Description  All pending withdrawal requests awaiting resolution
// @Tags         agents
// @Produce      json
// @Security     BasicAuth
// @Success      200  {array}  walletdomain.Withdrawal
// @Router       /agents/withdrawals [get]
func (s *Server) ListPendingWithdrawals(c *gin.Context) {
	resp, err := s.walletSvc.ListPendingWithdrawals(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Pay Withdrawal
// @Description  Mark a pending withdrawal as paid and debit the seller's wallet
// @Tags         agents
// @Produce      json
// @Security     BasicAuth
// @Param        id path string true "Withdrawal ID"
// @Success      200  {object}  walletdomain.Withdrawal
// @Router       /agents/withdrawals/{id}/pay [post]
func (s *Server) PayWithdrawal(c *gin.Context) {
	id, err := snowflake.ParseString(c.Param("id"))
	if err != nil {
		AbortWithError(c, walletdomain.ErrNotFound)
		return
	}

	resp, err := s.walletSvc.PayWithdrawal(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Reject Withdrawal
// @Description  Reject a pending withdrawal and release the reservation
// @Tags         agents
// @Produce      json
// @Security     BasicAuth
// @Param        id path string true "Withdrawal ID"
// @Success      200  {object}  walletdomain.Withdrawal
// @Router       /agents/withdrawals/{id}/reject [post]
func (s *Server) RejectWithdrawal(c *gin.Context) {
	id, err := snowflake.ParseString(c.Param("id"))
	if err != nil {
		AbortWithError(c, walletdomain.ErrNotFound)
		return
	}

	resp, err := s.walletSvc.RejectWithdrawal(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

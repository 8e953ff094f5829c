package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gotruck.backend/internal/interfaces/http/response"
	"gotruck.backend/internal/usecases"
	"gotruck.backend/pkg/utils"
)

// AdminHandler serves the back-office endpoints: signup approvals, premium
// proof review, and the withdrawal queue.
type AdminHandler struct {
	adminUsecase      *usecases.AdminUsecase
	withdrawalUsecase *usecases.WithdrawalUsecase
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(adminUsecase *usecases.AdminUsecase, withdrawalUsecase *usecases.WithdrawalUsecase) *AdminHandler {
	return &AdminHandler{
		adminUsecase:      adminUsecase,
		withdrawalUsecase: withdrawalUsecase,
	}
}

// PendingActors pages the signup approval queue
// GET /api/v1/admin/actors/pending
func (h *AdminHandler) PendingActors(c *gin.Context) {
	params := paginationFromQuery(c)

	actors, total, err := h.adminUsecase.ListPendingActors(c.Request.Context(), params.Limit, params.CalculateOffset())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"actors":     actors,
		"pagination": utils.CalculateMeta(total, params.Page, params.Limit),
	})
}

// ApproveActor approves a pending registration and pays the referral reward
// POST /api/v1/admin/actors/:id/approve
func (h *AdminHandler) ApproveActor(c *gin.Context) {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	actor, err := h.adminUsecase.ApproveActor(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message": "Actor approved",
		"actor":   actor,
	})
}

// ApprovePremiumProof marks a driver's payment proof approved and pays the
// one-time activation grant
// POST /api/v1/admin/actors/:id/premium
func (h *AdminHandler) ApprovePremiumProof(c *gin.Context) {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	entry, err := h.adminUsecase.ApprovePremiumProof(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message": "Premium activation granted",
		"entry":   entry,
	})
}

// PendingWithdrawals pages the withdrawal approval queue
// GET /api/v1/admin/withdrawals/pending
func (h *AdminHandler) PendingWithdrawals(c *gin.Context) {
	params := paginationFromQuery(c)

	entries, total, err := h.withdrawalUsecase.ListPending(c.Request.Context(), params.Limit, params.CalculateOffset())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"requests":   entries,
		"pagination": utils.CalculateMeta(total, params.Page, params.Limit),
	})
}

// ApproveWithdrawal settles a pending withdrawal request
// POST /api/v1/admin/withdrawals/:id/approve
func (h *AdminHandler) ApproveWithdrawal(c *gin.Context) {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	entry, err := h.withdrawalUsecase.Approve(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message": "Withdrawal approved",
		"request": entry,
	})
}

// RejectWithdrawal rejects a pending withdrawal request
// POST /api/v1/admin/withdrawals/:id/reject
func (h *AdminHandler) RejectWithdrawal(c *gin.Context) {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	entry, err := h.withdrawalUsecase.Reject(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message": "Withdrawal rejected",
		"request": entry,
	})
}

// WalletAccounts pages the cached wallet rows for the balance overview
// GET /api/v1/admin/wallets
func (h *AdminHandler) WalletAccounts(c *gin.Context) {
	params := paginationFromQuery(c)

	accounts, err := h.adminUsecase.ListWalletAccounts(c.Request.Context(), params.Limit, params.CalculateOffset())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"accounts": accounts})
}

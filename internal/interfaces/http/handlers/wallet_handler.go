package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gotruck.backend/internal/domain/entities"
	domainerrors "gotruck.backend/internal/domain/errors"
	"gotruck.backend/internal/interfaces/http/middleware"
	"gotruck.backend/internal/interfaces/http/response"
	"gotruck.backend/internal/usecases"
	"gotruck.backend/pkg/utils"
)

// WalletHandler serves the actor-facing wallet endpoints: balances, ledger
// history, and withdrawal requests.
type WalletHandler struct {
	ledgerUsecase     *usecases.LedgerUsecase
	withdrawalUsecase *usecases.WithdrawalUsecase
}

// NewWalletHandler creates a new wallet handler
func NewWalletHandler(ledgerUsecase *usecases.LedgerUsecase, withdrawalUsecase *usecases.WithdrawalUsecase) *WalletHandler {
	return &WalletHandler{
		ledgerUsecase:     ledgerUsecase,
		withdrawalUsecase: withdrawalUsecase,
	}
}

// Balances returns both wallets' derived balances
// GET /api/v1/wallet/balances
func (h *WalletHandler) Balances(c *gin.Context) {
	actorID, ok := middleware.GetActorID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("authentication required"))
		return
	}

	balances, err := h.ledgerUsecase.Balances(c.Request.Context(), actorID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"balances": balances})
}

// History pages the actor's ledger, newest first, optionally filtered by
// wallet kind
// GET /api/v1/wallet/history?wallet=reward&page=1&limit=20
func (h *WalletHandler) History(c *gin.Context) {
	actorID, ok := middleware.GetActorID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("authentication required"))
		return
	}

	wallet := entities.WalletKind(c.Query("wallet"))
	params := paginationFromQuery(c)

	entries, total, err := h.ledgerUsecase.History(c.Request.Context(), actorID, wallet, params.Limit, params.CalculateOffset())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"entries":    entries,
		"pagination": utils.CalculateMeta(total, params.Page, params.Limit),
	})
}

type withdrawalRequestInput struct {
	Wallet string `json:"wallet" binding:"required,oneof=reward diesel"`
	Amount int64  `json:"amount"`
}

// RequestWithdrawal submits a withdrawal request for admin review
// POST /api/v1/wallet/withdrawals
func (h *WalletHandler) RequestWithdrawal(c *gin.Context) {
	actorID, ok := middleware.GetActorID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("authentication required"))
		return
	}

	var input withdrawalRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	entry, err := h.withdrawalUsecase.Request(c.Request.Context(), usecases.RequestWithdrawalInput{
		ActorID: actorID,
		Wallet:  entities.WalletKind(input.Wallet),
		Amount:  input.Amount,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"message": "Withdrawal request submitted",
		"request": entry,
	})
}

// Withdrawal returns one of the actor's withdrawal requests
// GET /api/v1/wallet/withdrawals/:id
func (h *WalletHandler) Withdrawal(c *gin.Context) {
	actorID, ok := middleware.GetActorID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("authentication required"))
		return
	}

	id, err := parseUUIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	entry, err := h.ledgerUsecase.Entry(c.Request.Context(), id, &actorID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !entry.IsWithdrawalRequest() {
		response.Error(c, domainerrors.NotFound("withdrawal request not found"))
		return
	}

	response.Success(c, http.StatusOK, entry)
}

package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/paygate/approval-service/internal/api/metrics"
	"github.com/paygate/approval-service/internal/core/domain"
	"github.com/paygate/approval-service/internal/core/ports"
)

const headerIdempotencyKey = "Idempotency-Key"

// TransactionHandler handles HTTP requests for the approval workflow.
type TransactionHandler struct {
	service ports.TransactionService
}

func NewTransactionHandler(service ports.TransactionService) *TransactionHandler {
	return &TransactionHandler{service: service}
}

// Create handles POST /transaction/create.
//
// @Summary      Request a new transaction
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string                    false  "Replays the earlier result for a repeated key"
// @Param        body             body      createTransactionRequest  true   "Transaction amount"
// @Success      201              {object}  transactionResponse
// @Failure      400              {object}  errorResponse
// @Failure      401              {object}  errorResponse
// @Failure      500              {object}  errorResponse
// @Router       /transaction/create [post]
func (h *TransactionHandler) Create(c echo.Context) error {
	caller, err := callerIdentity(c)
	if err != nil {
		return err
	}

	var req createTransactionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	view, err := h.service.Create(c.Request().Context(), ports.CreateTransactionInput{
		Amount:         *req.Amount,
		OwnerID:        caller.UserID,
		IdempotencyKey: c.Request().Header.Get(headerIdempotencyKey),
	})
	if err != nil {
		return err
	}

	if !view.Replayed {
		metrics.TransactionsCreatedTotal.Inc()
	}
	return c.JSON(http.StatusCreated, toTransactionResponse(*view))
}

// Approve handles POST /transaction/approve.
//
// @Summary      Approve a pending transaction
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      resolveTransactionRequest  true  "Transaction id"
// @Success      200   {object}  transactionResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /transaction/approve [post]
func (h *TransactionHandler) Approve(c echo.Context) error {
	return h.resolve(c, domain.StatusDone)
}

// Reject handles POST /transaction/reject.
//
// @Summary      Reject a pending transaction
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      resolveTransactionRequest  true  "Transaction id"
// @Success      200   {object}  transactionResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /transaction/reject [post]
func (h *TransactionHandler) Reject(c echo.Context) error {
	return h.resolve(c, domain.StatusRejected)
}

func (h *TransactionHandler) resolve(c echo.Context, status domain.TransactionStatus) error {
	caller, err := callerIdentity(c)
	if err != nil {
		return err
	}

	var req resolveTransactionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	view, err := h.service.Resolve(c.Request().Context(), ports.ResolveTransactionInput{
		TransactionID: *req.ID,
		ActorID:       caller.UserID,
		Status:        status,
	})
	if err != nil {
		return err
	}

	metrics.TransactionsResolvedTotal.WithLabelValues(string(view.Status)).Inc()
	return c.JSON(http.StatusOK, toTransactionResponse(*view))
}

// List handles GET /transaction.
//
// @Summary      List transactions
// @Description  Administrators see every transaction; other callers only their own.
// @Tags         transactions
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Page size (default 10, max 100)"
// @Success      200    {object}  transactionPageResponse
// @Failure      400    {object}  errorResponse
// @Failure      401    {object}  errorResponse
// @Router       /transaction [get]
func (h *TransactionHandler) List(c echo.Context) error {
	caller, err := callerIdentity(c)
	if err != nil {
		return err
	}

	var q listTransactionsQuery
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &q); err != nil {
		return domain.NewValidationError("query", "page and limit must be integers")
	}

	page, err := h.service.List(c.Request().Context(), ports.ListTransactionsInput{
		CallerID:   caller.UserID,
		CallerRole: caller.Role,
		Page:       q.Page,
		Limit:      q.Limit,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toPageResponse(page))
}

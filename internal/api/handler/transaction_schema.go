package handler

// --- Request types ---

// amount is a pointer so a missing field is told apart from zero.
type createTransactionRequest struct {
	Amount *float64 `json:"amount" validate:"required"`
}

type resolveTransactionRequest struct {
	ID *int64 `json:"id" validate:"required"`
}

type listTransactionsQuery struct {
	Page  int `query:"page"`
	Limit int `query:"limit"`
}

// --- Response types ---

type userResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

type transactionResponse struct {
	ID         int64         `json:"id"`
	Amount     float64       `json:"amount"`
	Status     string        `json:"status"`
	Owner      *userResponse `json:"owner"`
	ApprovedBy *userResponse `json:"approvedBy"`
}

type transactionPageResponse struct {
	Data    []transactionResponse `json:"data"`
	Total   int64                 `json:"total"`
	HasNext bool                  `json:"hasNext"`
	HasPrev bool                  `json:"hasPrev"`
}

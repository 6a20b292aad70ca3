package handler

import (
	"github.com/paygate/approval-service/internal/core/domain"
	"github.com/paygate/approval-service/internal/core/ports"
)

func toUserResponse(u *domain.UserSummary) *userResponse {
	if u == nil {
		return nil
	}
	return &userResponse{
		ID:    u.ID,
		Email: u.Email,
		Name:  u.Name,
		Role:  string(u.Role),
	}
}

func toTransactionResponse(v ports.TransactionView) transactionResponse {
	return transactionResponse{
		ID:         v.ID,
		Amount:     v.Amount,
		Status:     string(v.Status),
		Owner:      toUserResponse(v.Owner),
		ApprovedBy: toUserResponse(v.ApprovedBy),
	}
}

func toPageResponse(p *domain.Page[ports.TransactionView]) transactionPageResponse {
	data := make([]transactionResponse, len(p.Data))
	for i, v := range p.Data {
		data[i] = toTransactionResponse(v)
	}
	return transactionPageResponse{
		Data:    data,
		Total:   p.Total,
		HasNext: p.HasNext,
		HasPrev: p.HasPrev,
	}
}

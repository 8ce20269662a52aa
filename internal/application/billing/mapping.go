package billing

import (
	"github.com/jhoicas/exhibition-api/internal/application/dto"
	"github.com/jhoicas/exhibition-api/internal/domain/entity"
)

func toCustomerResponse(c *entity.Customer, s BillingSummary) *dto.CustomerResponse {
	return &dto.CustomerResponse{
		ID:          c.ID,
		CustomerID:  c.CustomerID,
		Name:        c.Name,
		Email:       c.Email,
		Phone:       c.Phone,
		EmailSent:   c.EmailSent,
		BillCount:   s.Count,
		TotalAmount: s.Total.StringFixed(2),
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func toBillResponse(b *entity.Bill) *dto.BillResponse {
	return &dto.BillResponse{
		ID:          b.ID,
		CustomerRef: b.CustomerID,
		Amount:      b.Amount.StringFixed(2),
		Description: b.Description,
		CreatedAt:   b.CreatedAt,
		CreatedBy:   b.CreatedBy,
	}
}

func toBillWithCustomerResponse(b *entity.BillWithCustomer) *dto.BillResponse {
	out := toBillResponse(&b.Bill)
	out.CustomerID = b.CustomerCode
	out.CustomerName = b.CustomerName
	out.CustomerEmail = b.CustomerEmail
	return out
}

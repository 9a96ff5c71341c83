package wallet

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// Handler exposes wallet HTTP endpoints mapping 1:1 onto the service.
type Handler struct {
	service *Service
}

// NewHandler builds a wallet HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type createRequest struct {
	CustomerID string `json:"customer_id"`
	Currency   string `json:"currency"`
}

type mutationRequest struct {
	Currency string          `json:"currency"`
	Amount   decimal.Decimal `json:"amount"`
	Remark   string          `json:"remark"`
}

type accountResponse struct {
	CustomerID   string `json:"customer_id"`
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currency_code"`
}

type transactionResponse struct {
	ID           int64     `json:"id"`
	CustomerID   string    `json:"customer_id"`
	Amount       string    `json:"amount"`
	CurrencyCode string    `json:"currency_code"`
	Remarks      string    `json:"remarks,omitempty"`
	Type         string    `json:"type"`
	CreatedAt    time.Time `json:"created_at"`
}

type pageResponse struct {
	Items      []transactionResponse `json:"items"`
	Page       int                   `json:"page"`
	Size       int                   `json:"size"`
	TotalItems int64                 `json:"total_items"`
	TotalPages int                   `json:"total_pages"`
}

// Create provisions an account for a customer.
func (h *Handler) Create(c *fiber.Ctx) error {
	var req createRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	acct, err := h.service.CreateAccount(c.UserContext(), req.CustomerID, req.Currency)
	if err != nil {
		return fiber.NewError(statusFromError(err), err.Error())
	}
	return c.Status(http.StatusCreated).JSON(toAccountResponse(acct))
}

// Balance returns the current account snapshot.
func (h *Handler) Balance(c *fiber.Ctx) error {
	acct, err := h.service.Balance(c.UserContext(), c.Params("customerId"))
	if err != nil {
		return fiber.NewError(statusFromError(err), err.Error())
	}
	return c.Status(http.StatusOK).JSON(toAccountResponse(acct))
}

// Deposit credits the customer's account.
func (h *Handler) Deposit(c *fiber.Ctx) error {
	var req mutationRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	err := h.service.Deposit(c.UserContext(), c.Params("customerId"), req.Currency, req.Amount, req.Remark)
	if err != nil {
		return fiber.NewError(statusFromError(err), err.Error())
	}
	return c.SendStatus(http.StatusNoContent)
}

// Withdraw debits the customer's account.
func (h *Handler) Withdraw(c *fiber.Ctx) error {
	var req mutationRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	err := h.service.Withdraw(c.UserContext(), c.Params("customerId"), req.Currency, req.Amount, req.Remark)
	if err != nil {
		return fiber.NewError(statusFromError(err), err.Error())
	}
	return c.SendStatus(http.StatusNoContent)
}

// Transactions returns the customer's history. Without a size query parameter
// the full history is returned in one page.
func (h *Handler) Transactions(c *fiber.Ctx) error {
	req := PageRequest{
		Page: c.QueryInt("page", 0),
		Size: c.QueryInt("size", 0),
	}
	page, err := h.service.Transactions(c.UserContext(), c.Params("customerId"), req)
	if err != nil {
		return fiber.NewError(statusFromError(err), err.Error())
	}

	resp := pageResponse{
		Items:      make([]transactionResponse, 0, len(page.Items)),
		Page:       page.Page,
		Size:       page.Size,
		TotalItems: page.TotalItems,
		TotalPages: page.TotalPages,
	}
	for _, trx := range page.Items {
		resp.Items = append(resp.Items, transactionResponse{
			ID:           trx.ID,
			CustomerID:   trx.CustomerID,
			Amount:       trx.Amount.String(),
			CurrencyCode: trx.CurrencyCode,
			Remarks:      trx.Remarks,
			Type:         string(trx.Type),
			CreatedAt:    trx.CreatedAt,
		})
	}
	return c.Status(http.StatusOK).JSON(resp)
}

func toAccountResponse(acct Account) accountResponse {
	return accountResponse{
		CustomerID:   acct.CustomerID,
		Amount:       acct.Amount.String(),
		CurrencyCode: acct.CurrencyCode,
	}
}

func statusFromError(err error) int {
	switch {
	case errors.Is(err, ErrAccountNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrAccountExists), errors.Is(err, ErrVersionConflict):
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

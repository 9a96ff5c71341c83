package routes

import (
    "github.com/gofiber/fiber/v2"

    "github.com/moyo-pay/moyo_wallet/internal/wallet"
)

// RegisterWalletRoutes wires wallet endpoints. Mutating endpoints go through
// the per-customer rate limiter.
func RegisterWalletRoutes(r fiber.Router, h *wallet.Handler, rateLimiter fiber.Handler) {
    r.Post("/wallets", h.Create)
    r.Get("/wallets/:customerId/balance", h.Balance)
    r.Get("/wallets/:customerId/transactions", h.Transactions)
    r.Post("/wallets/:customerId/deposits", rateLimiter, h.Deposit)
    r.Post("/wallets/:customerId/withdrawals", rateLimiter, h.Withdraw)
}

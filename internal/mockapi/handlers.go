package mockapi

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/dzungnguyen14/aiowallet-app/internal/format"
	"github.com/dzungnguyen14/aiowallet-app/internal/money"
	"github.com/dzungnguyen14/aiowallet-app/internal/transactions"
)

type userPayload struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type authResponse struct {
	Token string      `json:"token"`
	User  userPayload `json:"user"`
}

func (s *Server) handleSignup(c *fiber.Ctx) error {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		FullName string `json:"fullName"`
	}
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if !format.ValidEmail(body.Email) {
		return fiber.NewError(fiber.StatusBadRequest, "invalid email")
	}
	if len(body.Password) < 8 {
		return fiber.NewError(fiber.StatusBadRequest, "password must be at least 8 characters")
	}

	id, err := s.Seed(body.Email, body.Password, body.FullName, decimal.Zero)
	if err != nil {
		return fiber.NewError(fiber.StatusConflict, "account already exists")
	}

	s.mu.Lock()
	acct := s.byID[id]
	s.mu.Unlock()

	token, err := s.issueToken(acct)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not create token")
	}
	return c.Status(fiber.StatusCreated).JSON(authResponse{
		Token: token,
		User:  userPayload{ID: acct.ID, Name: acct.Name, Email: acct.Email},
	})
}

func (s *Server) handleLogin(c *fiber.Ctx) error {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	s.mu.Lock()
	acct, ok := s.byEmail[strings.ToLower(body.Email)]
	s.mu.Unlock()
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword(acct.PasswordHash, []byte(body.Password)); err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
	}

	token, err := s.issueToken(acct)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not create token")
	}
	return c.JSON(authResponse{
		Token: token,
		User:  userPayload{ID: acct.ID, Name: acct.Name, Email: acct.Email},
	})
}

func (s *Server) handleBalance(c *fiber.Ctx) error {
	acct, ok := s.currentAccount(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}
	if c.Params("userID") != acct.ID {
		return fiber.NewError(fiber.StatusForbidden, "cannot read another user's balance")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return c.JSON(fiber.Map{
		"balance":  acct.Balance,
		"currency": acct.Currency,
	})
}

func (s *Server) handleSend(c *fiber.Ctx) error {
	acct, ok := s.currentAccount(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var body struct {
		RecipientID string          `json:"recipientId"`
		Amount      decimal.Decimal `json:"amount"`
		Description string          `json:"description"`
	}
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if err := money.ValidateAmount(body.Amount); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "amount must be positive")
	}
	if body.RecipientID == acct.ID {
		return fiber.NewError(fiber.StatusBadRequest, "cannot send to yourself")
	}

	amount := money.RoundCents(body.Amount)
	fee := money.Fee(amount)

	s.mu.Lock()
	defer s.mu.Unlock()

	total := amount.Add(fee)
	if acct.Balance.LessThan(total) {
		return fiber.NewError(fiber.StatusBadRequest, "insufficient funds")
	}
	acct.Balance = acct.Balance.Sub(total)

	now := time.Now().UTC()
	rec := transactions.Record{
		ID:          uuid.NewString(),
		Type:        transactions.TypeSend,
		Amount:      amount,
		Description: body.Description,
		CreatedAt:   now,
		Status:      transactions.StatusCompleted,
	}
	acct.Ledger = append([]transactions.Record{rec}, acct.Ledger...)

	if recipient, ok := s.byID[body.RecipientID]; ok {
		recipient.Balance = recipient.Balance.Add(amount)
		recipient.Ledger = append([]transactions.Record{{
			ID:          uuid.NewString(),
			Type:        transactions.TypeReceive,
			Amount:      amount,
			Description: body.Description,
			CreatedAt:   now,
			Status:      transactions.StatusCompleted,
		}}, recipient.Ledger...)
	}

	return c.JSON(fiber.Map{
		"newBalance":  acct.Balance,
		"transaction": rec,
	})
}

func (s *Server) handleTopUp(c *fiber.Ctx) error {
	acct, ok := s.currentAccount(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var body struct {
		Amount        decimal.Decimal `json:"amount"`
		PaymentMethod string          `json:"paymentMethod"`
	}
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if err := money.ValidateAmount(body.Amount); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "amount must be positive")
	}

	amount := money.RoundCents(body.Amount)

	s.mu.Lock()
	defer s.mu.Unlock()

	acct.Balance = acct.Balance.Add(amount)
	rec := transactions.Record{
		ID:          uuid.NewString(),
		Type:        transactions.TypeTopUp,
		Amount:      amount,
		Description: "Top up via " + body.PaymentMethod,
		CreatedAt:   time.Now().UTC(),
		Status:      transactions.StatusCompleted,
	}
	acct.Ledger = append([]transactions.Record{rec}, acct.Ledger...)

	return c.JSON(fiber.Map{
		"newBalance":  acct.Balance,
		"transaction": rec,
	})
}

func (s *Server) handleTransactions(c *fiber.Ctx) error {
	acct, ok := s.currentAccount(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)
	if page < 1 {
		return fiber.NewError(fiber.StatusBadRequest, "page must be >= 1")
	}
	if limit < 1 || limit > 200 {
		limit = 20
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	start := (page - 1) * limit
	end := start + limit
	if start > len(acct.Ledger) {
		start = len(acct.Ledger)
	}
	if end > len(acct.Ledger) {
		end = len(acct.Ledger)
	}

	items := acct.Ledger[start:end]
	if items == nil {
		items = []transactions.Record{}
	}

	return c.JSON(fiber.Map{
		"transactions": items,
		"hasMore":      end < len(acct.Ledger),
		"page":         page,
	})
}

// Package mockapi is an in-memory implementation of the wallet API wire
// contract. It exists to exercise the client core: cmd/mockapi runs it for
// local development and the integration tests drive it through app.Test.
package mockapi

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/dzungnguyen14/aiowallet-app/internal/transactions"
)

type account struct {
	ID           string
	Email        string
	Name         string
	PasswordHash []byte
	Balance      decimal.Decimal
	Currency     string
	Ledger       []transactions.Record // newest first
}

// Server holds all state in process memory; restarting it starts from a
// clean slate, which is the point for a development backend.
type Server struct {
	secret []byte

	mu      sync.Mutex
	byEmail map[string]*account
	byID    map[string]*account
}

func New(secret string) *Server {
	return &Server{
		secret:  []byte(secret),
		byEmail: make(map[string]*account),
		byID:    make(map[string]*account),
	}
}

// Seed creates an account directly, used for demo data and tests.
// Returns the new account's ID.
func (s *Server) Seed(email, password, name string, balance decimal.Decimal) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	acct := &account{
		ID:           uuid.NewString(),
		Email:        strings.ToLower(email),
		Name:         name,
		PasswordHash: hash,
		Balance:      balance,
		Currency:     "USD",
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byEmail[acct.Email]; exists {
		return "", errors.New("account already exists")
	}
	s.byEmail[acct.Email] = acct
	s.byID[acct.ID] = acct
	return acct.ID, nil
}

// App builds the Fiber application with all routes registered.
func (s *Server) App() *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			message := "internal server error"

			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				code = fiberErr.Code
				message = fiberErr.Message
			}

			return c.Status(code).JSON(fiber.Map{"error": message})
		},
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})

	authLimit := limiter.New(limiter.Config{
		Max:        20,
		Expiration: time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "too_many_requests"})
		},
	})

	app.Post("/api/auth/signup", authLimit, s.handleSignup)
	app.Post("/api/auth/login", authLimit, s.handleLogin)

	api := app.Group("/api", s.requireAuth)
	api.Get("/wallet/:userID/balance", s.handleBalance)
	api.Post("/wallet/send", s.handleSend)
	api.Post("/wallet/topup", s.handleTopUp)
	api.Get("/transactions", s.handleTransactions)

	return app
}

func (s *Server) issueToken(acct *account) (string, error) {
	claims := jwt.MapClaims{
		"user_id": acct.ID,
		"name":    acct.Name,
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// requireAuth validates the bearer token and stashes the user ID in
// request locals, mirroring how the production API gates its routes.
func (s *Server) requireAuth(c *fiber.Ctx) error {
	h := c.Get("Authorization")
	if h == "" || !strings.HasPrefix(h, "Bearer ") {
		return fiber.NewError(fiber.StatusUnauthorized, "missing auth token")
	}

	token, err := jwt.Parse(strings.TrimPrefix(h, "Bearer "), func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid claims")
	}
	uid, ok := claims["user_id"].(string)
	if !ok || uid == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "user_id missing")
	}

	c.Locals("user_id", uid)
	return c.Next()
}

func (s *Server) currentAccount(c *fiber.Ctx) (*account, bool) {
	uid, _ := c.Locals("user_id").(string)
	if uid == "" {
		return nil, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.byID[uid]
	return acct, ok
}

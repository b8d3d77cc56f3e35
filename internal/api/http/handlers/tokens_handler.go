package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/token-service/internal/api/dto"
	"github.com/spec-kit/token-service/internal/service"
)

// TokensHandler exposes the token lifecycle endpoints.
type TokensHandler struct {
	tokens *service.TokenService
}

// NewTokensHandler constructs handler.
func NewTokensHandler(tokens *service.TokenService) *TokensHandler {
	return &TokensHandler{tokens: tokens}
}

// Generate handles POST /token.
func (h *TokensHandler) Generate(c *fiber.Ctx) error {
	var req dto.GenerateTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Username == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "username and password required")
	}

	issued, err := h.tokens.Generate(c.UserContext(), req.Username, req.Password, c.Get(fiber.HeaderUserAgent))
	if err != nil {
		return err
	}

	return c.JSON(dto.TokenResponse{
		Token:           issued.Token,
		UserDisplayName: issued.DisplayName,
		TokenExpires:    issued.ExpiresAt.Unix(),
	})
}

// Validate handles POST /token/validate. A missing header is a rejection
// here, unlike in the bearer middleware: the caller explicitly asked for a
// verdict on a token it did not send.
func (h *TokensHandler) Validate(c *fiber.Ctx) error {
	if _, err := h.tokens.Validate(c.UserContext(), c.Get(fiber.HeaderAuthorization)); err != nil {
		return err
	}

	return c.JSON(dto.StatusResponse{
		Code: "valid_token",
		Data: dto.StatusData{Status: http.StatusOK},
	})
}

// Regenerate handles POST /token/regen.
func (h *TokensHandler) Regenerate(c *fiber.Ctx) error {
	issued, err := h.tokens.Regenerate(c.UserContext(), c.Get(fiber.HeaderAuthorization))
	if err != nil {
		return err
	}

	return c.JSON(dto.TokenResponse{
		Token:        issued.Token,
		TokenExpires: issued.ExpiresAt.Unix(),
	})
}

// Revoke handles POST /token/revoke.
func (h *TokensHandler) Revoke(c *fiber.Ctx) error {
	if err := h.tokens.Revoke(c.UserContext(), c.Get(fiber.HeaderAuthorization)); err != nil {
		return err
	}

	return c.JSON(dto.StatusResponse{
		Code: "token_revoked",
		Data: dto.StatusData{Status: http.StatusOK},
	})
}

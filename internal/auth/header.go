package auth

import (
	"strings"

	"github.com/spec-kit/token-service/pkg/util"
)

// BearerToken extracts the token from an Authorization header value. An
// absent header yields the no-auth-header sentinel, which middleware treats
// as "no assertion" rather than a rejection; anything not shaped like
// "Bearer <token>" is a malformed header.
func BearerToken(header string) (string, error) {
	if header == "" {
		return "", util.NewNoAuthHeader()
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", util.NewMalformedHeader()
	}
	return parts[1], nil
}

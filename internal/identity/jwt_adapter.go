package identity

import (
	"vendorhub/internal/platform/middleware"
)

// TokenServiceAdapter implements middleware.TokenVerifier on top of
// TokenService.
type TokenServiceAdapter struct {
	service *TokenService
}

func NewTokenServiceAdapter(service *TokenService) *TokenServiceAdapter {
	return &TokenServiceAdapter{service: service}
}

func (a *TokenServiceAdapter) Verify(tokenString string) (*middleware.TokenClaims, error) {
	claims, err := a.service.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	return &middleware.TokenClaims{
		UID:   claims.UID,
		Email: claims.Email,
	}, nil
}

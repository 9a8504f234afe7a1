package postgres

import (
	"github.com/vncsmyrnk/polls/internal/core/domain"
)

// NewRefreshTokenRepository stores refresh tokens by their hash only.
func NewRefreshTokenRepository() *Entity[domain.RefreshToken] {
	return &Entity[domain.RefreshToken]{table: refreshTokensTable, scan: scanRefreshToken}
}

func scanRefreshToken(row scanner) (*domain.RefreshToken, error) {
	var rt domain.RefreshToken
	err := row.Scan(&rt.ID, &rt.UserID, &rt.TokenHash, &rt.ExpiresAt, &rt.Revoked, &rt.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &rt, nil
}

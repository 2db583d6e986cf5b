package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dmitrijs2005/jobboard/internal/common"
	"github.com/dmitrijs2005/jobboard/internal/server/auth"
	"github.com/dmitrijs2005/jobboard/internal/server/models"
	"github.com/dmitrijs2005/jobboard/internal/server/repositories/repomanager"
)

// IdentityVerifier turns a bearer token into the caller's Identity.
type IdentityVerifier struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	jwtSecret   []byte
}

func NewIdentityVerifier(db *sql.DB, m repomanager.RepositoryManager, secret string) *IdentityVerifier {
	return &IdentityVerifier{db: db, repomanager: m, jwtSecret: []byte(secret)}
}

// Resolve verifies the token and loads its account. The returned role is the
// stored one, not the role claim inside the token.
func (v *IdentityVerifier) Resolve(ctx context.Context, token string) (*models.Identity, error) {
	claims, err := auth.ParseToken(token, v.jwtSecret)
	if err != nil {
		return nil, common.ErrInvalidCredential
	}

	user, err := v.repomanager.Users(v.db).GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnknownIdentity
		}
		return nil, mapContextErr(ctx, err)
	}

	return &models.Identity{ID: user.ID, Role: user.Role, Name: user.Name}, nil
}

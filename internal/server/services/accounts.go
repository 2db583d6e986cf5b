package services

import (
	"context"
	"database/sql"
	"errors"
	"net/mail"
	"strings"
	"time"
	"unicode"

	"github.com/dmitrijs2005/jobboard/internal/common"
	"github.com/dmitrijs2005/jobboard/internal/server/auth"
	"github.com/dmitrijs2005/jobboard/internal/server/config"
	"github.com/dmitrijs2005/jobboard/internal/server/models"
	"github.com/dmitrijs2005/jobboard/internal/server/repositories/repomanager"
	"golang.org/x/crypto/bcrypt"
)

// PasswordSpecials lists the symbols accepted as the special character of a
// password.
const PasswordSpecials = "@$!%*#?&"

// AccountService creates accounts and issues access tokens.
type AccountService struct {
	db                          *sql.DB
	repomanager                 repomanager.RepositoryManager
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
	hashCost                    int
	// dummyHash is compared against when the email is unknown so that both
	// login failures cost one bcrypt comparison.
	dummyHash []byte
}

// NewAccountService constructs an AccountService using repositories and server config.
func NewAccountService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *AccountService {
	return newAccountService(db, m, cfg, bcrypt.DefaultCost)
}

func newAccountService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, cost int) *AccountService {
	dummy, _ := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), cost)
	return &AccountService{
		db:                          db,
		repomanager:                 m,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
		hashCost:                    cost,
		dummyHash:                   dummy,
	}
}

// SignUp registers an applicant account.
func (s *AccountService) SignUp(ctx context.Context, name, email, password string) (*models.User, error) {
	return s.create(ctx, name, email, password, models.RoleApplicant)
}

// ProvisionCompany registers a company account. It is reachable from the
// operator CLI only.
func (s *AccountService) ProvisionCompany(ctx context.Context, name, email, password string) (*models.User, error) {
	return s.create(ctx, name, email, password, models.RoleCompany)
}

func (s *AccountService) create(ctx context.Context, name, email, password string, role models.Role) (*models.User, error) {
	name, email, err := validateAccount(name, email, password)
	if err != nil {
		return nil, err
	}

	repo := s.repomanager.Users(s.db)

	// Fast path; the unique index decides under concurrency.
	if _, err := repo.GetByEmail(ctx, email); err == nil {
		return nil, common.ErrDuplicateEmail
	} else if !errors.Is(err, common.ErrNotFound) {
		return nil, mapContextErr(ctx, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return nil, common.ErrInternal
	}

	user, err := repo.Create(ctx, &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	})
	if err != nil {
		if errors.Is(err, common.ErrConflict) {
			return nil, common.ErrDuplicateEmail
		}
		return nil, mapContextErr(ctx, err)
	}
	return user, nil
}

// Login checks the password and returns a signed access token. Unknown email
// and wrong password both yield common.ErrInvalidCredentials.
func (s *AccountService) Login(ctx context.Context, email, password string) (string, error) {
	email = NormalizeEmail(email)

	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
			return "", common.ErrInvalidCredentials
		}
		return "", mapContextErr(ctx, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", common.ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(user.ID, string(user.Role), s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return "", common.ErrInternal
	}
	return token, nil
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateAccount(name, email, password string) (string, string, error) {
	v := common.NewValidationError()

	name = strings.TrimSpace(name)
	if msg := validateName(name); msg != "" {
		v.Add(msg)
	}

	email = NormalizeEmail(email)
	if !validEmail(email) {
		v.Add("email is not a valid address")
	}

	if msg := validatePassword(password); msg != "" {
		v.Add(msg)
	}

	return name, email, v.OrNil()
}

func validateName(name string) string {
	if name == "" {
		return "name must not be empty"
	}
	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsSpace(r) {
			return "name must contain only alphabetic characters and spaces"
		}
	}
	return ""
}

func validEmail(email string) bool {
	if email == "" {
		return false
	}
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return false
	}
	// Reject display-name forms such as "Bob <bob@example.com>".
	return addr.Address == email && strings.Contains(email[strings.LastIndex(email, "@")+1:], ".")
}

func validatePassword(password string) string {
	var lower, upper, digit, special bool
	n := 0
	for _, r := range password {
		n++
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(PasswordSpecials, r):
			special = true
		}
	}

	switch {
	case n < 8:
		return "password must be at least 8 characters long"
	case !lower:
		return "password must contain a lowercase letter"
	case !upper:
		return "password must contain an uppercase letter"
	case !digit:
		return "password must contain a digit"
	case !special:
		return "password must contain a special character (" + PasswordSpecials + ")"
	}
	return ""
}

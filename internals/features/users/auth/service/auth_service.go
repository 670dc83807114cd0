package service

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"

	"eventhub_backend/internals/features/users/auth/dto"
	"eventhub_backend/internals/features/users/user/model"

	"eventhub_backend/internals/apperror"
	"eventhub_backend/internals/configs"
	"eventhub_backend/internals/constants"
	database "eventhub_backend/internals/databases"
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 30 * 24 * time.Hour
)

// UserStore is the persistence slice authentication needs.
type UserStore interface {
	Create(ctx context.Context, user *model.UserModel) error
	GetByID(ctx context.Context, userID uint) (*model.UserModel, error)
	GetByEmail(ctx context.Context, email string) (*model.UserModel, error)
	GetByUsername(ctx context.Context, username string) (*model.UserModel, error)
}

type AuthService struct {
	store UserStore
	now   func() time.Time
}

func NewAuthService(store UserStore) *AuthService {
	return &AuthService{store: store, now: time.Now}
}

/* =========================================================
 * Register / login / refresh
 * ========================================================= */

func (s *AuthService) Register(ctx context.Context, req dto.RegisterRequest) (*model.UserModel, *dto.TokenPair, error) {
	var governorate *string
	if req.Governorate != nil {
		g := strings.ToLower(strings.TrimSpace(*req.Governorate))
		if !constants.IsValidGovernorate(g) {
			return nil, nil, apperror.Validation(apperror.CodeInvalidData, "Validation failed",
				apperror.Detail{Field: "governorate", Code: "unknown_governorate"})
		}
		governorate = &g
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if existing, err := s.store.GetByEmail(ctx, email); err != nil {
		return nil, nil, apperror.Internal(err)
	} else if existing != nil {
		return nil, nil, apperror.Conflict(apperror.CodeEmailTaken, "Email is already registered")
	}
	if existing, err := s.store.GetByUsername(ctx, req.Username); err != nil {
		return nil, nil, apperror.Internal(err)
	} else if existing != nil {
		return nil, nil, apperror.Conflict(apperror.CodeUsernameTaken, "Username is already taken")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, apperror.Internal(err)
	}

	user := &model.UserModel{
		UserUsername:     req.Username,
		UserEmail:        email,
		UserPasswordHash: string(hash),
		UserName:         req.Name,
		UserGovernorate:  governorate,
	}
	if err := s.store.Create(ctx, user); err != nil {
		// Pre-checks race with concurrent registrations; the unique
		// constraints decide.
		if database.IsDuplicateKey(err) {
			if strings.Contains(err.Error(), "user_username") {
				return nil, nil, apperror.Conflict(apperror.CodeUsernameTaken, "Username is already taken")
			}
			return nil, nil, apperror.Conflict(apperror.CodeEmailTaken, "Email is already registered")
		}
		return nil, nil, apperror.Internal(err)
	}

	tokens, err := s.issueTokens(user.UserID)
	if err != nil {
		return nil, nil, err
	}
	return user, tokens, nil
}

func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (*model.UserModel, *dto.TokenPair, error) {
	user, err := s.store.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		return nil, nil, apperror.Internal(err)
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.UserPasswordHash), []byte(req.Password)) != nil {
		return nil, nil, apperror.Validation(apperror.CodeInvalidCredentials, "Invalid email or password")
	}

	tokens, err := s.issueTokens(user.UserID)
	if err != nil {
		return nil, nil, err
	}
	return user, tokens, nil
}

func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*dto.TokenPair, error) {
	userID, err := parseToken(refreshToken, configs.JWTRefreshSecret)
	if err != nil {
		return nil, apperror.Validation(apperror.CodeInvalidCredentials, "Invalid refresh token")
	}

	user, err := s.store.GetByID(ctx, userID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if user == nil {
		return nil, apperror.Validation(apperror.CodeInvalidCredentials, "Invalid refresh token")
	}

	return s.issueTokens(user.UserID)
}

/* =========================================================
 * Tokens
 * ========================================================= */

func (s *AuthService) issueTokens(userID uint) (*dto.TokenPair, error) {
	access, err := signToken(userID, configs.JWTSecret, s.now().Add(accessTokenTTL))
	if err != nil {
		return nil, apperror.Internal(err)
	}
	refresh, err := signToken(userID, configs.JWTRefreshSecret, s.now().Add(refreshTokenTTL))
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return &dto.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(accessTokenTTL.Seconds()),
	}, nil
}

func signToken(userID uint, secret string, expiresAt time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"exp":     expiresAt.Unix(),
	})
	return token.SignedString([]byte(secret))
}

func parseToken(raw, secret string) (uint, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return 0, jwt.ErrTokenInvalidClaims
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, jwt.ErrTokenInvalidClaims
	}
	id, ok := claims["user_id"].(float64)
	if !ok || id <= 0 {
		return 0, jwt.ErrTokenInvalidClaims
	}
	return uint(id), nil
}

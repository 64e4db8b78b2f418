package services

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/montanus-wecib/mps-backend/internal/apierr"
	"github.com/montanus-wecib/mps-backend/internal/logger"
	"github.com/montanus-wecib/mps-backend/internal/repos"
	"github.com/montanus-wecib/mps-backend/internal/requestdata"
	"github.com/montanus-wecib/mps-backend/internal/types"
	"github.com/montanus-wecib/mps-backend/internal/utils"
)

type AuthService interface {
	Register(ctx context.Context, username, password, email string) (*types.User, error)
	Login(ctx context.Context, username, password string) (string, *types.User, error)
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
}

type authService struct {
	db        *gorm.DB
	log       *logger.Logger
	userRepo  repos.UserRepo
	jwtSecret []byte
	tokenTTL  time.Duration
}

func NewAuthService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo, jwtSecret string, tokenTTL time.Duration) AuthService {
	serviceLog := log.With("service", "AuthService")
	return &authService{
		db:        db,
		log:       serviceLog,
		userRepo:  userRepo,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
	}
}

func (s *authService) Register(ctx context.Context, username, password, email string) (*types.User, error) {
	if username == "" || password == "" {
		return nil, apierr.BadRequest("username and password required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	var user *types.User
	if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := s.userRepo.UsernameExists(ctx, tx, username)
		if err != nil {
			return fmt.Errorf("checking username: %w", err)
		}
		if taken {
			return apierr.Conflict("username %q already registered", username)
		}

		created, err := s.userRepo.Create(ctx, tx, []*types.User{newUserDefaults(username, email, hash)})
		if err != nil {
			if utils.IsUniqueViolation(err) {
				return apierr.Conflict("username %q already registered", username)
			}
			return fmt.Errorf("creating account: %w", err)
		}
		user = created[0]
		return nil
	}); err != nil {
		s.log.Warn("Failed to register account", "username", username, "error", err)
		return nil, err
	}
	s.log.Info("Registered account", "username", username, "user_id", user.ID)
	return user, nil
}

// newUserDefaults seeds the session cache columns so the first bootstrap
// hands the client well-formed empty structures.
func newUserDefaults(username, email string, hash []byte) *types.User {
	return &types.User{
		ID:                   uuid.New(),
		Username:             username,
		Email:                email,
		PasswordHash:         hash,
		CompletedCurriculums: datatypes.JSON("[]"),
		ContentScores:        datatypes.JSON("{}"),
		CorrectAnswers:       datatypes.JSON("{}"),
		IncorrectAnswers:     datatypes.JSON("{}"),
		CurriculumScores:     datatypes.JSON("{}"),
		XP:                   datatypes.JSON("{}"),
		UpdatedAt:            time.Now().UTC().Truncate(time.Millisecond),
	}
}

func (s *authService) Login(ctx context.Context, username, password string) (string, *types.User, error) {
	if username == "" || password == "" {
		return "", nil, apierr.BadRequest("username and password required")
	}

	users, err := s.userRepo.GetByUsernames(ctx, nil, []string{username})
	if err != nil {
		s.log.Warn("Failed to load account for login", "username", username, "error", err)
		return "", nil, fmt.Errorf("fetching account: %w", err)
	}
	if len(users) == 0 {
		return "", nil, apierr.New(http.StatusUnauthorized, "unauthorized", fmt.Errorf("invalid credentials"))
	}
	user := users[0]

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return "", nil, apierr.New(http.StatusUnauthorized, "unauthorized", fmt.Errorf("invalid credentials"))
	}

	now := time.Now().UTC()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":      user.ID.String(),
		"username": user.Username,
		"iat":      now.Unix(),
		"exp":      now.Add(s.tokenTTL).Unix(),
	})
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", nil, fmt.Errorf("signing token: %w", err)
	}
	return signed, user, nil
}

func (s *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	if tokenString == "" {
		return nil, apierr.New(http.StatusUnauthorized, "unauthorized", fmt.Errorf("missing token"))
	}

	parsed, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, apierr.New(http.StatusUnauthorized, "unauthorized", fmt.Errorf("invalid token"))
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, apierr.New(http.StatusUnauthorized, "unauthorized", fmt.Errorf("invalid claims"))
	}
	subject, _ := claims["sub"].(string)
	userID, err := uuid.Parse(subject)
	if err != nil {
		return nil, apierr.New(http.StatusUnauthorized, "unauthorized", fmt.Errorf("invalid subject"))
	}
	username, _ := claims["username"].(string)

	return requestdata.WithRequestData(ctx, &requestdata.RequestData{
		TokenString: tokenString,
		UserID:      userID,
		Username:    username,
	}), nil
}

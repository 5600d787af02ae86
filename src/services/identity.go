package services

import (
	"errors"
	"log"
	"time"

	"bts/src/config"
	"bts/src/models"
	"bts/src/types"
	"bts/src/utils"

	"github.com/golang-jwt/jwt/v4"
)

type IdentityService struct {
	store  UserStore
	jwtKey []byte
}

func NewIdentityService(store UserStore, jwtKey []byte) *IdentityService {
	return &IdentityService{store: store, jwtKey: jwtKey}
}

func (s *IdentityService) Register(body types.RegisterRequestBody) (*models.User, error) {
	existing, err := s.store.UserByUsername(body.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUsernameTaken
	}
	hash, err := utils.HashPassword(body.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Username:     body.Username,
		PasswordHash: hash,
		FullName:     body.FullName,
		Email:        body.Email,
		Phone:        body.Phone,
		Role:         types.ROLE_USER,
	}
	if err := s.store.CreateUser(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies credentials and issues a signed token. A user still on a
// legacy hash is upgraded to bcrypt on the first successful login.
func (s *IdentityService) Login(body types.LoginRequestBody) (string, *models.User, error) {
	user, err := s.store.UserByUsername(body.Username)
	if err != nil {
		return "", nil, err
	}
	if user == nil {
		return "", nil, ErrInvalidCredentials
	}
	ok, legacy := utils.VerifyPassword(user.PasswordHash, body.Password)
	if !ok {
		return "", nil, ErrInvalidCredentials
	}
	if legacy {
		if hash, err := utils.HashPassword(body.Password); err == nil {
			user.PasswordHash = hash
			if err := s.store.SaveUser(user); err != nil {
				log.Printf("Could not upgrade password hash for [%s]: %s\n", user.Username, err.Error())
			}
		}
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *IdentityService) IssueToken(user *models.User) (string, error) {
	now := time.Now()
	claims := &types.Claims{
		Role: string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(config.TOKEN_TTL_DAYS * 24 * time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtKey)
}

// ParseToken validates a signed token against the key and returns its
// claims. The auth middleware and VerifyToken share this path.
func ParseToken(jwtKey []byte, tokenString string) (*types.Claims, error) {
	claims := &types.Claims{}
	tkn, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return jwtKey, nil
	})
	if err != nil {
		return nil, err
	}
	if !tkn.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

func (s *IdentityService) VerifyToken(tokenString string) (*types.Claims, error) {
	return ParseToken(s.jwtKey, tokenString)
}

func (s *IdentityService) ChangePassword(p types.Principal, body types.ChangePasswordRequestBody) error {
	user, err := s.store.UserByID(p.UserID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrNotFound
	}
	ok, _ := utils.VerifyPassword(user.PasswordHash, body.OldPassword)
	if !ok {
		return ErrPasswordMismatch
	}
	hash, err := utils.HashPassword(body.NewPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	return s.store.SaveUser(user)
}

func (s *IdentityService) Profile(p types.Principal) (*models.User, error) {
	user, err := s.store.UserByID(p.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}

func (s *IdentityService) UpdateProfile(p types.Principal, body types.UpdateProfileRequestBody) (*models.User, error) {
	user, err := s.store.UserByID(p.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	if body.FullName != "" {
		user.FullName = body.FullName
	}
	if body.Email != "" {
		user.Email = body.Email
	}
	if body.Phone != "" {
		user.Phone = body.Phone
	}
	if body.Gender != "" {
		user.Gender = body.Gender
	}
	if body.AvatarURL != "" {
		user.AvatarURL = body.AvatarURL
	}
	if body.AddressLine != "" {
		user.AddressLine = body.AddressLine
	}
	if body.ProvinceName != "" {
		user.ProvinceName = body.ProvinceName
	}
	if body.DistrictName != "" {
		user.DistrictName = body.DistrictName
	}
	if body.WardName != "" {
		user.WardName = body.WardName
	}
	if body.BirthDate != "" {
		if bd, err := time.Parse("2006-01-02", body.BirthDate); err == nil {
			user.BirthDate = &bd
		}
	}
	if err := s.store.SaveUser(user); err != nil {
		return nil, err
	}
	return user, nil
}

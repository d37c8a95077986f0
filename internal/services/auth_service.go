package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/prudhvinik1/tablesync/internal/utils"
)

var (
	ErrInvalidSecret = errors.New("invalid room secret")
	ErrInvalidToken  = errors.New("invalid token")
	ErrRoomMismatch  = errors.New("token issued for another room")
	ErrMissingUserID = errors.New("user id is required")
)

// AuthService admits connections to rooms. A connection proves itself with
// either a signed token or the room secret; with no secret configured rooms
// are open.
type AuthService struct {
	roomSecretHash string
	dmPasswordHash string
	jwtSecret      string
	jwtExpiry      time.Duration
	now            func() time.Time
}

type AuthRequest struct {
	RoomID string
	UID    string
	Secret string
	Token  string
}

type Identity struct {
	UID    string
	RoomID string
	Admin  bool
}

type TokenClaims struct {
	UID       string
	RoomID    string
	Admin     bool
	ExpiresAt time.Time
}

func NewAuthService(roomSecretHash, dmPasswordHash, jwtSecret string, jwtExpiry time.Duration) *AuthService {
	return &AuthService{
		roomSecretHash: roomSecretHash,
		dmPasswordHash: dmPasswordHash,
		jwtSecret:      jwtSecret,
		jwtExpiry:      jwtExpiry,
		now:            time.Now,
	}
}

// Authenticate resolves who is connecting to which room.
func (s *AuthService) Authenticate(req AuthRequest) (*Identity, error) {
	roomID := strings.TrimSpace(req.RoomID)

	if req.Token != "" {
		claims, err := s.VerifyToken(req.Token)
		if err != nil {
			return nil, err
		}
		if claims.RoomID != "" && claims.RoomID != roomID {
			return nil, ErrRoomMismatch
		}
		return &Identity{UID: claims.UID, RoomID: roomID, Admin: claims.Admin}, nil
	}

	uid := strings.TrimSpace(req.UID)
	if uid == "" {
		return nil, ErrMissingUserID
	}
	if !s.VerifyRoomSecret(req.Secret) {
		return nil, ErrInvalidSecret
	}
	return &Identity{UID: uid, RoomID: roomID}, nil
}

func (s *AuthService) VerifyRoomSecret(secret string) bool {
	if s.roomSecretHash == "" {
		return true
	}
	return utils.SecretMatches(s.roomSecretHash, secret)
}

// VerifyDMPassword fails closed when no DM password is configured.
func (s *AuthService) VerifyDMPassword(password string) bool {
	if s.dmPasswordHash == "" || password == "" {
		return false
	}
	return utils.SecretMatches(s.dmPasswordHash, password)
}

// IssueToken signs a room token for uid. An empty roomID yields a token
// valid for any room.
func (s *AuthService) IssueToken(uid, roomID string, admin bool) (string, time.Time, error) {
	if strings.TrimSpace(uid) == "" {
		return "", time.Time{}, ErrMissingUserID
	}
	now := s.now()
	expiresAt := now.Add(s.jwtExpiry)
	token, err := s.generateToken(uid, roomID, admin, now, expiresAt)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate token: %w", err)
	}
	return token, expiresAt, nil
}

func (s *AuthService) generateToken(uid, roomID string, admin bool, issuedAt, expiresAt time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub":   uid,
		"room":  roomID,
		"admin": admin,
		"exp":   expiresAt.Unix(),
		"iat":   issuedAt.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func (s *AuthService) VerifyToken(tokenString string) (*TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	}, jwt.WithTimeFunc(s.now))

	if err != nil {
		return nil, ErrInvalidToken
	}

	if !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	uid, ok := claims["sub"].(string)
	if !ok || uid == "" {
		return nil, ErrInvalidToken
	}
	roomID, _ := claims["room"].(string)
	admin, _ := claims["admin"].(bool)

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, ErrInvalidToken
	}

	return &TokenClaims{
		UID:       uid,
		RoomID:    roomID,
		Admin:     admin,
		ExpiresAt: exp.Time,
	}, nil
}

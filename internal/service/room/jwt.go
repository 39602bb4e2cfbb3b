package room

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/trackroom/server/internal/domain"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("invalid token")
)

type tokenClaims struct {
	MembershipId string   `json:"membership_id"`
	RoomId       string   `json:"room_id"`
	RoomCode     string   `json:"room_code"`
	Role         string   `json:"role"`
	Capabilities []string `json:"capabilities"`
	jwt.RegisteredClaims
}

// generateToken mints the stateless membership snapshot: identity, room
// binding, role and the capability names resolved from the mask at issuance
// time. Later capability grants do not show up until a token is reissued.
func (s service) generateToken(membership domain.Membership, roomCode string) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		MembershipId: membership.Id,
		RoomId:       membership.RoomId,
		RoomCode:     roomCode,
		Role:         string(membership.Role),
		Capabilities: domain.CapabilityNames(domain.FromMask(membership.Capabilities)),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   membership.UserId,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenExpiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString(s.secret)
}

func (s service) ParseToken(tokenString string) (domain.AuthenticatedMember, error) {
	var claims tokenClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.AuthenticatedMember{}, fmt.Errorf("%w: %w", ErrTokenExpired, err)
		}
		return domain.AuthenticatedMember{}, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}

	if !token.Valid {
		return domain.AuthenticatedMember{}, ErrTokenInvalid
	}

	capabilities := make([]domain.Capability, 0, len(claims.Capabilities))
	for _, name := range claims.Capabilities {
		if c, ok := domain.ParseCapability(name); ok {
			capabilities = append(capabilities, c)
		}
	}

	return domain.AuthenticatedMember{
		MembershipId: claims.MembershipId,
		UserId:       claims.Subject,
		RoomId:       claims.RoomId,
		RoomCode:     claims.RoomCode,
		Role:         domain.Role(claims.Role),
		Capabilities: capabilities,
	}, nil
}

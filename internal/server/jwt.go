package server

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/wrenlabs/slate/internal/common"
	"github.com/wrenlabs/slate/internal/models"
)

// signJWT creates a signed HMAC-SHA256 session token. The claim set carries
// the full account projection so authenticated requests can be served
// without a store read.
func signJWT(account *models.Account, config *common.AuthConfig) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":                 account.ID,
		"email":               account.Email,
		"username":            account.Username,
		"role":                account.Role,
		"isVerified":          account.IsVerified,
		"isAcceptingMessages": account.IsAcceptingMessages,
		"money":               account.Money,
		"presentMoney":        account.PresentMoney,
		"profit":              account.Profit,
		"transactions":        account.Transactions,
		"iss":                 "slate-server",
		"iat":                 now.Unix(),
		"exp":                 now.Add(config.GetTokenExpiry()).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.JWTSecret))
}

// validateJWT parses and validates a JWT token string using the given secret.
func validateJWT(tokenString string, secret []byte) (*jwt.Token, jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, nil, err
	}
	return token, claims, nil
}

// sessionFromClaims rehydrates the request-scoped session from token claims
// alone; renewal never touches the account store.
func sessionFromClaims(claims jwt.MapClaims) (*common.Session, error) {
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, fmt.Errorf("missing sub claim")
	}

	sess := &common.Session{AccountID: sub}
	sess.Email, _ = claims["email"].(string)
	sess.Username, _ = claims["username"].(string)
	sess.Role, _ = claims["role"].(string)
	sess.IsVerified, _ = claims["isVerified"].(bool)
	sess.IsAcceptingMessages, _ = claims["isAcceptingMessages"].(bool)
	sess.Money = floatClaim(claims, "money")
	sess.PresentMoney = floatClaim(claims, "presentMoney")
	sess.Profit = floatClaim(claims, "profit")

	// Transactions decode via JSON since MapClaims holds them as []interface{}
	if raw, ok := claims["transactions"]; ok && raw != nil {
		data, err := json.Marshal(raw)
		if err == nil {
			_ = json.Unmarshal(data, &sess.Transactions)
		}
	}

	return sess, nil
}

func floatClaim(claims jwt.MapClaims, key string) float64 {
	v, _ := claims[key].(float64)
	return v
}

// shouldRefreshToken reports whether the token is more than 50% through its
// lifetime and due for a sliding reissue.
func shouldRefreshToken(claims jwt.MapClaims) bool {
	iat, ok := claims["iat"].(float64)
	if !ok {
		return false
	}
	exp, ok := claims["exp"].(float64)
	if !ok {
		return false
	}

	now := float64(time.Now().Unix())
	tokenLifetime := exp - iat
	timeUntilExpiry := exp - now

	return timeUntilExpiry < tokenLifetime/2
}

// signSessionFromClaims reissues a token from an existing session without a
// store read, preserving the projection carried in the old token.
func signSessionFromClaims(sess *common.Session, config *common.AuthConfig) (string, error) {
	account := &models.Account{
		ID:                  sess.AccountID,
		Email:               sess.Email,
		Username:            sess.Username,
		Role:                sess.Role,
		IsVerified:          sess.IsVerified,
		IsAcceptingMessages: sess.IsAcceptingMessages,
		Money:               sess.Money,
		PresentMoney:        sess.PresentMoney,
		Profit:              sess.Profit,
		Transactions:        sess.Transactions,
	}
	return signJWT(account, config)
}

package middleware

import (
	"errors"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/Nixie-Tech-LLC/minbar/internal/model"
)

// MaxPasswordBytes is bcrypt's input limit. Arabic letters take two bytes
// each, so a password can pass a rune-counted length check and still exceed it.
const MaxPasswordBytes = 72

const currentUserKey = "minbar.currentUser"

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrPasswordTooLong    = errors.New("password must be at most 72 bytes")
)

// PasswordCost is the bcrypt work factor for new hashes.
var PasswordCost = bcrypt.DefaultCost

var (
	decoyOnce sync.Once
	decoyHash []byte
)

func HashPassword(plain string) (string, error) {
	if len(plain) > MaxPasswordBytes {
		return "", ErrPasswordTooLong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), PasswordCost)
	return string(hash), err
}

// CheckPassword reports whether plain matches hash. An empty hash, as for an
// unknown account, is compared against a decoy so the miss costs the same.
func CheckPassword(hash, plain string) bool {
	if hash == "" {
		decoyOnce.Do(func() {
			decoyHash, _ = bcrypt.GenerateFromPassword([]byte("minbar-decoy"), PasswordCost)
		})
		_ = bcrypt.CompareHashAndPassword(decoyHash, []byte(plain))
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

func setCurrentUser(c *gin.Context, u *model.User) {
	c.Set(currentUserKey, u)
}

// GetCurrentUser returns the admin JWTMiddleware resolved for this request.
func GetCurrentUser(c *gin.Context) (*model.User, bool) {
	u, exists := c.Get(currentUserKey)
	if !exists {
		return nil, false
	}
	user, ok := u.(*model.User)
	return user, ok && user != nil
}

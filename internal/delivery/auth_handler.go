package delivery

import (
	"net/http"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// AuthHandler issues admin tokens. There is a single back-office credential
// configured through the environment; customers never authenticate.
type AuthHandler struct {
	secret       []byte
	username     string
	passwordHash string
	tokenTTL     time.Duration
	log          *logrus.Logger
}

func NewAuthHandler(secret []byte, username, passwordHash string, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		secret:       secret,
		username:     username,
		passwordHash: passwordHash,
		tokenTTL:     24 * time.Hour,
		log:          logger,
	}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Username != h.username ||
		bcrypt.CompareHashAndPassword([]byte(h.passwordHash), []byte(req.Password)) != nil {
		h.log.Warnf("Failed admin login attempt for username %q", req.Username)
		respondError(c, http.StatusUnauthorized, "invalid credentials")
		return
	}

	claims := jwt.StandardClaims{
		Subject:   req.Username,
		ExpiresAt: time.Now().Add(h.tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(h.secret)
	if err != nil {
		h.log.Errorf("Failed to sign admin token: %v", err)
		respondError(c, http.StatusInternalServerError, "internal server error")
		return
	}

	h.log.Infof("Admin %s logged in", req.Username)
	c.JSON(http.StatusOK, gin.H{"token": signed})
}

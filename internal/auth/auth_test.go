package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-testing"

func TestGenerateServiceToken_Success(t *testing.T) {
	token, err := GenerateServiceToken(testSecret, time.Hour)

	require.NoError(t, err)
	assert.Equal(t, 3, len(strings.Split(token, ".")), "JWT should have 3 parts")

	claims, err := ValidateServiceToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, RoleServiceRole, claims.Role)
}

func TestGenerateServiceToken_MissingSecret(t *testing.T) {
	_, err := GenerateServiceToken("", time.Hour)
	assert.ErrorIs(t, err, ErrMissingSecret)
}

func TestValidateJWT_ExpiredToken(t *testing.T) {
	token, err := GenerateServiceToken(testSecret, -time.Hour)
	require.NoError(t, err)

	_, err = ValidateJWT(token, testSecret)
	assert.Error(t, err)
}

func TestValidateJWT_WrongSecret(t *testing.T) {
	token, err := GenerateServiceToken(testSecret, time.Hour)
	require.NoError(t, err)

	_, err = ValidateJWT(token, "other-secret")
	assert.Error(t, err)
}

func TestValidateServiceToken_AnonRole(t *testing.T) {
	claims := Claims{
		Role: "anon",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = ValidateServiceToken(token, testSecret)
	assert.ErrorIs(t, err, ErrForbiddenRole)
}

func TestVerifySignature(t *testing.T) {
	body := []byte(`{"table":"users"}`)
	sig := Sign(body, "whsec")

	assert.True(t, VerifySignature(body, sig, "whsec"))
	assert.True(t, VerifySignature(body, "sha256="+sig, "whsec"))
	assert.True(t, VerifySignature(body, strings.ToUpper(sig), "whsec"))

	assert.False(t, VerifySignature(body, sig, "other"))
	assert.False(t, VerifySignature([]byte(`{"table":"profiles"}`), sig, "whsec"))
	assert.False(t, VerifySignature(body, "", "whsec"))
	assert.False(t, VerifySignature(body, sig, ""))
	assert.False(t, VerifySignature(body, "zz-not-hex", "whsec"))
}

func TestServiceRoleMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.GET("/x", ServiceRoleMiddleware(testSecret), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	valid, err := GenerateServiceToken(testSecret, time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{name: "valid", header: "Bearer " + valid, want: http.StatusOK},
		{name: "missing", header: "", want: http.StatusUnauthorized},
		{name: "malformed", header: "Token " + valid, want: http.StatusUnauthorized},
		{name: "garbage", header: "Bearer abc.def.ghi", want: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/x", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestServiceRoleMiddleware_Disabled(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.GET("/x", ServiceRoleMiddleware(""), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

package http

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// registerThroughAPI drives the full two-step registration over HTTP and
// returns the user's TOTP secret.
func registerThroughAPI(t *testing.T, env *routerEnv, email, username, password string) string {
	t.Helper()

	rec := env.do(t, http.MethodPost, "/auth/register", gin.H{
		"username": username,
		"email":    email,
		"password": password,
		"temp":     true,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	reg, err := env.tempRegs.Get(context.Background(), email)
	require.NoError(t, err)

	code, err := totp.GenerateCode(reg.MFASecret, time.Now())
	require.NoError(t, err)

	rec = env.do(t, http.MethodPost, "/users/verify-register-mfa", gin.H{
		"email": email,
		"code":  code,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	return reg.MFASecret
}

func TestRegisterEndpoint(t *testing.T) {
	env := newRouterEnv(t)

	rec := env.do(t, http.MethodPost, "/auth/register", gin.H{
		"username": "ana",
		"email":    "ana@x.com",
		"password": "secreta123",
		"temp":     true,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "Configura MFA para completar el registro", body["message"])
	assert.Equal(t, "ana@x.com", body["email"])
	assert.Contains(t, body["qr"], "data:image/png;base64,")
}

func TestRegisterEndpoint_EmailTaken(t *testing.T) {
	env := newRouterEnv(t)
	registerThroughAPI(t, env, "ana@x.com", "ana", "secreta123")

	rec := env.do(t, http.MethodPost, "/auth/register", gin.H{
		"username": "otra",
		"email":    "ana@x.com",
		"password": "secreta123",
		"temp":     true,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "El correo ya está registrado", decodeBody(t, rec)["error"])
}

func TestVerifyRegisterMFA_UnknownEmail(t *testing.T) {
	env := newRouterEnv(t)

	rec := env.do(t, http.MethodPost, "/users/verify-register-mfa", gin.H{
		"email": "nadie@x.com",
		"code":  "123456",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Registro temporal no encontrado o expirado", decodeBody(t, rec)["error"])
}

func TestLoginAndVerifyMFA(t *testing.T) {
	env := newRouterEnv(t)
	secret := registerThroughAPI(t, env, "ana@x.com", "ana", "secreta123")

	rec := env.do(t, http.MethodPost, "/auth/login", gin.H{
		"email":    "ana@x.com",
		"password": "secreta123",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["mfaRequired"])
	assert.Equal(t, "ana", body["username"])

	code, err := totp.GenerateCode(secret, time.Now())
	require.NoError(t, err)

	rec = env.do(t, http.MethodPost, "/auth/verify-mfa", gin.H{
		"email": "ana@x.com",
		"code":  code,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeBody(t, rec)
	assert.Equal(t, "Autenticación MFA exitosa", body["message"])
	assert.NotEmpty(t, body["token"])
	assert.Equal(t, "cliente", body["role"])
}

func TestLogin_WrongPassword(t *testing.T) {
	env := newRouterEnv(t)
	registerThroughAPI(t, env, "ana@x.com", "ana", "secreta123")

	rec := env.do(t, http.MethodPost, "/auth/login", gin.H{
		"email":    "ana@x.com",
		"password": "equivocada",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Credenciales incorrectas", decodeBody(t, rec)["error"])
}

func TestVerifyMFA_WrongCode(t *testing.T) {
	env := newRouterEnv(t)
	registerThroughAPI(t, env, "ana@x.com", "ana", "secreta123")

	rec := env.do(t, http.MethodPost, "/auth/verify-mfa", gin.H{
		"email": "ana@x.com",
		"code":  "000000",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Código MFA incorrecto", decodeBody(t, rec)["error"])
}

func TestPasswordResetFlow(t *testing.T) {
	env := newRouterEnv(t)
	registerThroughAPI(t, env, "ana@x.com", "ana", "secreta123")

	rec := env.do(t, http.MethodPost, "/auth/password-reset-request", gin.H{
		"email": "ana@x.com",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Código de recuperación enviado al correo", decodeBody(t, rec)["message"])

	code := env.mailer.code("ana@x.com")
	require.NotEmpty(t, code)

	rec = env.do(t, http.MethodPost, "/auth/password-reset", gin.H{
		"email":       "ana@x.com",
		"code":        code,
		"newPassword": "renovada456",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Contraseña restablecida exitosamente", decodeBody(t, rec)["message"])

	rec = env.do(t, http.MethodPost, "/auth/login", gin.H{
		"email":    "ana@x.com",
		"password": "renovada456",
	})
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestPasswordResetRequest_UnknownUser(t *testing.T) {
	env := newRouterEnv(t)

	rec := env.do(t, http.MethodPost, "/auth/password-reset-request", gin.H{
		"email": "nadie@x.com",
	})
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Usuario no encontrado", decodeBody(t, rec)["error"])
}

func TestMFAQRRecoveryFlow(t *testing.T) {
	env := newRouterEnv(t)
	registerThroughAPI(t, env, "ana@x.com", "ana", "secreta123")

	rec := env.do(t, http.MethodPost, "/auth/request-mfa-qr-code", gin.H{
		"email": "ana@x.com",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Código temporal enviado al correo", decodeBody(t, rec)["message"])

	code := env.mailer.code("ana@x.com")
	require.NotEmpty(t, code)

	rec = env.do(t, http.MethodPost, "/auth/generate-mfa-qr", gin.H{
		"email":    "ana@x.com",
		"tempCode": code,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Código QR generado exitosamente", body["message"])
	assert.Contains(t, body["qr"], "data:image/png;base64,")

	// The temporary code is single use.
	rec = env.do(t, http.MethodPost, "/auth/generate-mfa-qr", gin.H{
		"email":    "ana@x.com",
		"tempCode": code,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Código temporal no encontrado", decodeBody(t, rec)["error"])
}

func TestHealthEndpoint(t *testing.T) {
	env := newRouterEnv(t)

	rec := env.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decodeBody(t, rec)["status"])
}

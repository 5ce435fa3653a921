package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hitoshi/shopmall/internal/model"
)

// --- モック定義 ---

type mockAuthService struct {
	signupFn         func(ctx context.Context, email, password, name string) (int64, error)
	loginFn          func(ctx context.Context, email, password string) (string, error)
	getLoginURLFn    func(state string) string
	handleCallbackFn func(ctx context.Context, code string) (string, error)
}

func (m *mockAuthService) Signup(ctx context.Context, email, password, name string) (int64, error) {
	if m.signupFn != nil {
		return m.signupFn(ctx, email, password, name)
	}
	return 1, nil
}

func (m *mockAuthService) Login(ctx context.Context, email, password string) (string, error) {
	if m.loginFn != nil {
		return m.loginFn(ctx, email, password)
	}
	return "", nil
}

func (m *mockAuthService) GetLoginURL(state string) string {
	if m.getLoginURLFn != nil {
		return m.getLoginURLFn(state)
	}
	return ""
}

func (m *mockAuthService) HandleCallback(ctx context.Context, code string) (string, error) {
	if m.handleCallbackFn != nil {
		return m.handleCallbackFn(ctx, code)
	}
	return "", nil
}

var _ AuthServiceInterface = (*mockAuthService)(nil)

func testAuthConfig() AuthHandlerConfig {
	return AuthHandlerConfig{
		FrontendURL:  "http://localhost:3000",
		CookieSecure: false,
	}
}

// --- テスト ---

func TestAuthHandler_Signup_Created(t *testing.T) {
	svc := &mockAuthService{
		signupFn: func(_ context.Context, email, password, name string) (int64, error) {
			if email != "taro@example.com" || password != "pass1234" || name != "山田太郎" {
				t.Errorf("unexpected signup args: %q %q %q", email, password, name)
			}
			return 10, nil
		},
	}
	h := NewAuthHandler(svc, testAuthConfig(), nil)

	body := `{"email":"taro@example.com","password":"pass1234","name":"山田太郎"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", strings.NewReader(body))
	w := httptest.NewRecorder()

	h.Signup(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("status = %d, want %d", w.Code, http.StatusCreated)
	}

	var resp struct {
		UserID  int64  `json:"userId"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if resp.UserID != 10 {
		t.Errorf("userId = %d, want 10", resp.UserID)
	}
	if resp.Message != "User created successfully" {
		t.Errorf("message = %q", resp.Message)
	}
}

func TestAuthHandler_Signup_InvalidBody(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{}, testAuthConfig(), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", strings.NewReader("{not json"))
	w := httptest.NewRecorder()

	h.Signup(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestAuthHandler_Signup_EmailTakenReturns409(t *testing.T) {
	svc := &mockAuthService{
		signupFn: func(_ context.Context, _, _, _ string) (int64, error) {
			return 0, model.NewEmailTakenError()
		},
	}
	h := NewAuthHandler(svc, testAuthConfig(), nil)

	body := `{"email":"taken@example.com","password":"pass","name":"太郎"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", strings.NewReader(body))
	w := httptest.NewRecorder()

	h.Signup(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("status = %d, want %d", w.Code, http.StatusConflict)
	}
}

func TestAuthHandler_Login_ReturnsToken(t *testing.T) {
	svc := &mockAuthService{
		loginFn: func(_ context.Context, _, _ string) (string, error) {
			return "issued-token", nil
		},
	}
	h := NewAuthHandler(svc, testAuthConfig(), nil)

	body := `{"email":"taro@example.com","password":"pass1234"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	w := httptest.NewRecorder()

	h.Login(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp map[string]string
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if resp["token"] != "issued-token" {
		t.Errorf("token = %q", resp["token"])
	}
}

func TestAuthHandler_Login_InvalidCredentialsReturns401(t *testing.T) {
	svc := &mockAuthService{
		loginFn: func(_ context.Context, _, _ string) (string, error) {
			return "", model.NewInvalidCredentialsError()
		},
	}
	h := NewAuthHandler(svc, testAuthConfig(), nil)

	body := `{"email":"taro@example.com","password":"wrong"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	w := httptest.NewRecorder()

	h.Login(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestAuthHandler_GoogleLogin_RedirectsWithStateCookie(t *testing.T) {
	svc := &mockAuthService{
		getLoginURLFn: func(state string) string {
			return "https://accounts.google.com/o/oauth2/auth?state=" + state
		},
	}
	h := NewAuthHandler(svc, testAuthConfig(), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/google", nil)
	w := httptest.NewRecorder()

	h.GoogleLogin(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusTemporaryRedirect {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusTemporaryRedirect)
	}

	location := resp.Header.Get("Location")
	if !strings.Contains(location, "accounts.google.com") {
		t.Errorf("Location = %q", location)
	}

	var stateCookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == oauthStateCookie {
			stateCookie = c
		}
	}
	if stateCookie == nil || stateCookie.Value == "" {
		t.Fatal("expected state cookie to be set")
	}
	if !stateCookie.HttpOnly {
		t.Error("state cookie must be HttpOnly")
	}
	// リダイレクト先のstateとCookieのstateが一致すること
	if !strings.Contains(location, "state="+stateCookie.Value) {
		t.Errorf("redirect state must match cookie: %q / %q", location, stateCookie.Value)
	}
}

func TestAuthHandler_GoogleCallback_Success(t *testing.T) {
	svc := &mockAuthService{
		handleCallbackFn: func(_ context.Context, code string) (string, error) {
			if code != "auth-code" {
				t.Errorf("code = %q", code)
			}
			return "issued-token", nil
		},
	}
	h := NewAuthHandler(svc, testAuthConfig(), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/google/callback?code=auth-code&state=state-value", nil)
	req.AddCookie(&http.Cookie{Name: oauthStateCookie, Value: "state-value"})
	w := httptest.NewRecorder()

	h.GoogleCallback(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusTemporaryRedirect {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusTemporaryRedirect)
	}

	location := resp.Header.Get("Location")
	if location != "http://localhost:3000/auth/callback?token=issued-token" {
		t.Errorf("Location = %q", location)
	}
}

func TestAuthHandler_GoogleCallback_StateMismatch(t *testing.T) {
	called := false
	svc := &mockAuthService{
		handleCallbackFn: func(_ context.Context, _ string) (string, error) {
			called = true
			return "", nil
		},
	}
	h := NewAuthHandler(svc, testAuthConfig(), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/google/callback?code=auth-code&state=attacker-state", nil)
	req.AddCookie(&http.Cookie{Name: oauthStateCookie, Value: "original-state"})
	w := httptest.NewRecorder()

	h.GoogleCallback(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusTemporaryRedirect {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusTemporaryRedirect)
	}
	if got := resp.Header.Get("Location"); !strings.Contains(got, "error=auth_failed") {
		t.Errorf("Location = %q, want login failure redirect", got)
	}
	// state不一致の時点でコールバック処理は呼ばれない
	if called {
		t.Error("HandleCallback must not be called on state mismatch")
	}
}

func TestAuthHandler_GoogleCallback_ServiceFailureRedirectsToLogin(t *testing.T) {
	svc := &mockAuthService{
		handleCallbackFn: func(_ context.Context, _ string) (string, error) {
			return "", model.NewInvalidCredentialsError()
		},
	}
	h := NewAuthHandler(svc, testAuthConfig(), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/google/callback?code=bad-code&state=state-value", nil)
	req.AddCookie(&http.Cookie{Name: oauthStateCookie, Value: "state-value"})
	w := httptest.NewRecorder()

	h.GoogleCallback(w, req)

	location := w.Result().Header.Get("Location")
	if !strings.Contains(location, "/auth/login?error=auth_failed") {
		t.Errorf("Location = %q", location)
	}
	// 失敗時のリダイレクトにトークンが含まれないこと
	if strings.Contains(location, "token=") {
		t.Error("failure redirect must not carry a token")
	}
}

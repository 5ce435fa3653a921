package token

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret-key"

// fixedClock は固定時刻を返すclockを生成する。
func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestIssueAndVerify_Roundtrip(t *testing.T) {
	issuer := NewIssuer(testSecret, time.Hour)

	tokenString, err := issuer.Issue(42)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if tokenString == "" {
		t.Fatal("expected non-empty token")
	}

	userID, err := issuer.Verify(tokenString)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if userID != 42 {
		t.Errorf("userID = %d, want 42", userID)
	}
}

func TestVerify_TokenDoesNotContainPlaintextSecret(t *testing.T) {
	issuer := NewIssuer(testSecret, time.Hour)

	tokenString, err := issuer.Issue(1)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	if strings.Contains(tokenString, testSecret) {
		t.Error("token must not contain the signing key")
	}
}

func TestVerify_ExpiredToken(t *testing.T) {
	issuedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	issuer := NewIssuer(testSecret, time.Hour)
	issuer.clock = fixedClock(issuedAt)

	tokenString, err := issuer.Issue(1)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	// 有効期限を過ぎた時点では検証が失敗する
	issuer.clock = fixedClock(issuedAt.Add(time.Hour + time.Minute))
	if _, err := issuer.Verify(tokenString); err == nil {
		t.Error("expected error for expired token")
	}
}

func TestVerify_JustBeforeExpiry(t *testing.T) {
	issuedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	issuer := NewIssuer(testSecret, time.Hour)
	issuer.clock = fixedClock(issuedAt)

	tokenString, err := issuer.Issue(7)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	// 有効期限直前は検証が成功する
	issuer.clock = fixedClock(issuedAt.Add(time.Hour - time.Second))
	userID, err := issuer.Verify(tokenString)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if userID != 7 {
		t.Errorf("userID = %d, want 7", userID)
	}
}

func TestVerify_WrongKey(t *testing.T) {
	issuer := NewIssuer(testSecret, time.Hour)
	other := NewIssuer("another-secret-key", time.Hour)

	tokenString, err := issuer.Issue(1)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	if _, err := other.Verify(tokenString); err == nil {
		t.Error("expected error for token signed with a different key")
	}
}

func TestVerify_MalformedToken(t *testing.T) {
	issuer := NewIssuer(testSecret, time.Hour)

	tests := []struct {
		name  string
		token string
	}{
		{"空文字列", ""},
		{"JWT形式でない", "not-a-jwt"},
		{"セグメント不足", "aaaa.bbbb"},
		{"改竄されたペイロード", func() string {
			s, _ := issuer.Issue(1)
			parts := strings.Split(s, ".")
			parts[1] = "dGFtcGVyZWQ"
			return strings.Join(parts, ".")
		}()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := issuer.Verify(tt.token); err == nil {
				t.Error("expected error for malformed token")
			}
		})
	}
}

func TestVerify_RejectsUnsignedToken(t *testing.T) {
	issuer := NewIssuer(testSecret, time.Hour)

	// alg=noneのトークンは署名方式の制限により拒否される
	claims := jwt.RegisteredClaims{
		Subject:   "1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("failed to build unsigned token: %v", err)
	}

	if _, err := issuer.Verify(unsigned); err == nil {
		t.Error("expected error for unsigned token")
	}
}

func TestVerify_RejectsTokenWithoutExpiry(t *testing.T) {
	issuer := NewIssuer(testSecret, time.Hour)

	// expクレームのないトークンは拒否される
	claims := jwt.RegisteredClaims{
		Subject: "1",
	}
	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("failed to build token: %v", err)
	}

	if _, err := issuer.Verify(tokenString); err == nil {
		t.Error("expected error for token without exp claim")
	}
}

func TestVerify_RejectsNonNumericSubject(t *testing.T) {
	issuer := NewIssuer(testSecret, time.Hour)

	claims := jwt.RegisteredClaims{
		Subject:   "not-a-number",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("failed to build token: %v", err)
	}

	if _, err := issuer.Verify(tokenString); err == nil {
		t.Error("expected error for non-numeric subject")
	}
}

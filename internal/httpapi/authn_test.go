package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"dtiestoque.org/internal/auth"
)

func TestExtractBearerToken(t *testing.T) {
	cases := []struct {
		header  string
		want    string
		wantErr bool
	}{
		{"Bearer abc.def", "abc.def", false},
		{"bearer   abc", "abc", false},
		{"", "", true},
		{"Basic dXNlcjpwdw==", "", true},
		{"Bearer ", "", true},
		{"Bear", "", true},
	}
	for _, tc := range cases {
		got, err := extractBearerToken(tc.header)
		if (err != nil) != tc.wantErr || got != tc.want {
			t.Fatalf("extractBearerToken(%q) = %q, %v", tc.header, got, err)
		}
	}
}

func TestIsProtectedPath(t *testing.T) {
	for path, want := range map[string]bool{
		"/api/equipamentos":                    true,
		"/api/equipamentos/12":                 true,
		"/api/equipamentosx":                   false,
		"/api/dashboard/counts":                false,
		"/api/dashboard/equipamentos/category": false,
		"/api/auth/login":                      false,
		"/healthz":                             false,
	} {
		if got := isProtectedPath(path); got != want {
			t.Fatalf("isProtectedPath(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestWithAuthAttachesClaims(t *testing.T) {
	issuer, err := auth.NewIssuer("test-secret")
	if err != nil {
		t.Fatal(err)
	}
	svc, err := auth.NewService(auth.NewMemoryUserStore(), issuer)
	if err != nil {
		t.Fatal(err)
	}
	token, _, err := issuer.Issue(auth.User{ID: 9, Name: "Ana", Permission: "admin"})
	if err != nil {
		t.Fatal(err)
	}

	a := &API{auth: svc}
	var seen *auth.Claims
	handler := a.withAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = auth.ClaimsFromContext(r.Context())
		if tok, _ := auth.TokenFromContext(r.Context()); tok != token {
			t.Errorf("token not propagated")
		}
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/equipamentos", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rr.Code)
	}
	if seen == nil || seen.UserID != 9 || seen.Permission != "admin" {
		t.Fatalf("unexpected claims: %+v", seen)
	}
}

func TestWithAuthRejectsForeignToken(t *testing.T) {
	mine, _ := auth.NewIssuer("mine")
	theirs, _ := auth.NewIssuer("theirs")
	svc, _ := auth.NewService(auth.NewMemoryUserStore(), mine)
	token, _, _ := theirs.Issue(auth.User{ID: 1})

	a := &API{auth: svc}
	handler := a.withAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodDelete, "/api/equipamentos/1", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
	if rr.Header().Get("WWW-Authenticate") == "" {
		t.Fatal("expected WWW-Authenticate header set")
	}
}

func TestWithAuthSkipsPreflight(t *testing.T) {
	issuer, _ := auth.NewIssuer("s")
	svc, _ := auth.NewService(auth.NewMemoryUserStore(), issuer)
	a := &API{auth: svc}
	handler := a.withAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodOptions, "/api/equipamentos", nil))
	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected preflight to pass, got %d", rr.Code)
	}
}

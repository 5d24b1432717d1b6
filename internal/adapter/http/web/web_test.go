package web_test

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/iho/boglefolio/internal/adapter/http/middleware"
	"github.com/iho/boglefolio/internal/adapter/http/web"
	"github.com/iho/boglefolio/internal/domain"
	"github.com/iho/boglefolio/internal/usecase"
	"github.com/iho/boglefolio/internal/usecase/mocks"
)

type webFixture struct {
	handler  *web.Handler
	userUC   *usecase.UserUseCase
	accounts *mocks.MockAccountRepository
	assets   *mocks.MockAssetRepository
	sessions *mocks.MockSessionStore
}

func newWebFixture(t *testing.T) *webFixture {
	t.Helper()

	userRepo := mocks.NewMockUserRepository()
	accountRepo := mocks.NewMockAccountRepository()
	assetRepo := mocks.NewMockAssetRepository()
	txnRepo := mocks.NewMockTransactionRepository()
	txManager := mocks.NewMockTransactionManager()
	idGen := mocks.NewMockIDGenerator()
	sessions := mocks.NewMockSessionStore()
	logger := zerolog.Nop()

	userUC := usecase.NewUserUseCase(userRepo, idGen)

	handler, err := web.NewHandler(web.Config{
		StatsUC:       usecase.NewStatsUseCase(userRepo, accountRepo, assetRepo, txnRepo),
		UserUC:        userUC,
		AccountUC:     usecase.NewAccountUseCase(accountRepo, idGen),
		AssetUC:       usecase.NewAssetUseCase(assetRepo, mocks.NewMockQuoteProvider(), mocks.NewMockCache(), 0, idGen, logger),
		TransactionUC: usecase.NewTransactionUseCase(txnRepo, accountRepo, assetRepo, idGen),
		ImportUC:      usecase.NewImportUseCase(txManager, accountRepo, assetRepo, txnRepo, idGen, logger),
		Sessions:      sessions,
		Logger:        logger,
	})
	if err != nil {
		t.Fatalf("failed to build web handler: %v", err)
	}

	return &webFixture{
		handler:  handler,
		userUC:   userUC,
		accounts: accountRepo,
		assets:   assetRepo,
		sessions: sessions,
	}
}

func TestLoginPage(t *testing.T) {
	f := newWebFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	rec := httptest.NewRecorder()

	f.handler.LoginPage(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	body := rec.Body.String()
	if !strings.Contains(body, `action="/login/form"`) {
		t.Errorf("expected login form in page, got %q", body)
	}
	// No identity provider configured, so no SSO link.
	if strings.Contains(body, "/login/sso") {
		t.Errorf("expected SSO link to be hidden, got %q", body)
	}
}

func TestLoginForm(t *testing.T) {
	f := newWebFixture(t)

	if _, err := f.userUC.CreateUser(context.Background(), usecase.CreateUserInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "correct horse battery",
	}); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	t.Run("valid credentials start a session", func(t *testing.T) {
		form := url.Values{"username": {"alice"}, "password": {"correct horse battery"}}
		req := httptest.NewRequest(http.MethodPost, "/login/form", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()

		f.handler.LoginForm(rec, req)

		if rec.Code != http.StatusSeeOther {
			t.Fatalf("expected 303, got %d", rec.Code)
		}
		if loc := rec.Header().Get("Location"); loc != "/" {
			t.Fatalf("expected redirect to /, got %q", loc)
		}

		var sessionCookie *http.Cookie
		for _, c := range rec.Result().Cookies() {
			if c.Name == middleware.SessionCookieName {
				sessionCookie = c
			}
		}
		if sessionCookie == nil || sessionCookie.Value == "" {
			t.Fatal("expected a session cookie to be set")
		}

		if _, err := f.sessions.Get(context.Background(), sessionCookie.Value); err != nil {
			t.Fatalf("expected session to resolve, got %v", err)
		}
	})

	t.Run("bad credentials redirect back", func(t *testing.T) {
		form := url.Values{"username": {"alice"}, "password": {"wrong"}}
		req := httptest.NewRequest(http.MethodPost, "/login/form", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()

		f.handler.LoginForm(rec, req)

		if rec.Code != http.StatusSeeOther {
			t.Fatalf("expected 303, got %d", rec.Code)
		}
		if loc := rec.Header().Get("Location"); !strings.HasPrefix(loc, "/login?error=") {
			t.Fatalf("expected redirect to login with error, got %q", loc)
		}
	})
}

func TestDashboard(t *testing.T) {
	f := newWebFixture(t)
	f.accounts.Create(context.Background(), &domain.Account{ID: "acc-1", Name: "brokerage"})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	f.handler.Dashboard(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "Accounts") {
		t.Errorf("expected dashboard content, got %q", rec.Body.String())
	}
}

func TestImportForm(t *testing.T) {
	f := newWebFixture(t)
	f.accounts.Create(context.Background(), &domain.Account{ID: "11111111-1111-4111-8111-111111111111", Name: "brokerage"})
	f.assets.Create(context.Background(), &domain.Asset{ID: "22222222-2222-4222-8222-222222222222", Symbol: "VTI"})

	csv := "account_id,asset_id,type,quantity,price,fee,date\n" +
		"11111111-1111-4111-8111-111111111111,22222222-2222-4222-8222-222222222222,buy,10,100,0,2024-01-15\n"

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "transactions.csv")
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	part.Write([]byte(csv))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/import", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()

	f.handler.ImportForm(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "Created: 1") {
		t.Errorf("expected import summary in page, got %q", rec.Body.String())
	}
}

func TestLogout(t *testing.T) {
	f := newWebFixture(t)

	token, err := f.sessions.Create(context.Background(), "user-1", 0)
	if err != nil {
		t.Fatalf("failed to create session: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/logout", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: token})
	rec := httptest.NewRecorder()

	f.handler.Logout(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Fatalf("expected redirect to /login, got %q", loc)
	}

	if _, err := f.sessions.Get(context.Background(), token); err == nil {
		t.Fatal("expected session to be deleted")
	}
}

// Package web serves the server-rendered HTML pages. Pages are read-only
// views plus small forms; all heavy lifting stays in the use cases shared
// with the JSON API.
package web

import (
	"crypto/rand"
	"embed"
	"encoding/hex"
	"html/template"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/boglefolio/internal/adapter/http/middleware"
	"github.com/iho/boglefolio/internal/infrastructure/auth"
	"github.com/iho/boglefolio/internal/usecase"
)

//go:embed templates/*.html
var templateFS embed.FS

// sessionTTL is the lifetime of a browser session.
const sessionTTL = 24 * time.Hour

// oidcStateCookie carries the CSRF state across the SSO round trip.
const oidcStateCookie = "boglefolio_oidc_state"

// Handler renders the HTML pages.
type Handler struct {
	statsUC       *usecase.StatsUseCase
	userUC        *usecase.UserUseCase
	accountUC     *usecase.AccountUseCase
	assetUC       *usecase.AssetUseCase
	transactionUC *usecase.TransactionUseCase
	importUC      *usecase.ImportUseCase
	sessions      usecase.SessionStore
	sso           *auth.OIDCAuthenticator
	templates     *template.Template
	logger        zerolog.Logger
}

// Config holds dependencies for the web handler. SSO may be nil when no
// identity provider is configured.
type Config struct {
	StatsUC       *usecase.StatsUseCase
	UserUC        *usecase.UserUseCase
	AccountUC     *usecase.AccountUseCase
	AssetUC       *usecase.AssetUseCase
	TransactionUC *usecase.TransactionUseCase
	ImportUC      *usecase.ImportUseCase
	Sessions      usecase.SessionStore
	SSO           *auth.OIDCAuthenticator
	Logger        zerolog.Logger
}

// NewHandler parses the embedded templates and creates a web Handler.
func NewHandler(cfg Config) (*Handler, error) {
	templates, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	return &Handler{
		statsUC:       cfg.StatsUC,
		userUC:        cfg.UserUC,
		accountUC:     cfg.AccountUC,
		assetUC:       cfg.AssetUC,
		transactionUC: cfg.TransactionUC,
		importUC:      cfg.ImportUC,
		sessions:      cfg.Sessions,
		sso:           cfg.SSO,
		templates:     templates,
		logger:        cfg.Logger,
	}, nil
}

// SSOEnabled reports whether an identity provider is configured.
func (h *Handler) SSOEnabled() bool {
	return h.sso != nil
}

func (h *Handler) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.ExecuteTemplate(w, name, data); err != nil {
		h.logger.Error().Err(err).Str("template", name).Msg("failed to render template")
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

// Dashboard renders the landing page with entity counts and recent activity.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.statsUC.Dashboard(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to load dashboard stats")
		http.Error(w, "internal server error", http.StatusInternalServerError)

		return
	}

	h.render(w, "dashboard.html", map[string]any{
		"Stats": stats,
	})
}

// LoginPage renders the login page.
func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, "login.html", map[string]any{
		"SSOEnabled": h.SSOEnabled(),
		"Error":      r.URL.Query().Get("error"),
	})
}

// LoginForm handles the credentials form post.
func (h *Handler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, "/login?error=invalid+form", http.StatusSeeOther)
		return
	}

	user, err := h.userUC.Authenticate(r.Context(), r.FormValue("username"), r.FormValue("password"))
	if err != nil {
		http.Redirect(w, r, "/login?error=invalid+credentials", http.StatusSeeOther)
		return
	}

	h.startSession(w, r, user.ID)
}

// RegisterPage renders the registration page.
func (h *Handler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, "register.html", map[string]any{
		"Error": r.URL.Query().Get("error"),
	})
}

// RegisterForm handles the registration form post and logs the new user in.
func (h *Handler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, "/register?error=invalid+form", http.StatusSeeOther)
		return
	}

	user, err := h.userUC.CreateUser(r.Context(), usecase.CreateUserInput{
		Username: r.FormValue("username"),
		Email:    r.FormValue("email"),
		Password: r.FormValue("password"),
	})
	if err != nil {
		http.Redirect(w, r, "/register?error="+template.URLQueryEscaper(err.Error()), http.StatusSeeOther)
		return
	}

	h.startSession(w, r, user.ID)
}

// SSORedirect sends the browser to the identity provider.
func (h *Handler) SSORedirect(w http.ResponseWriter, r *http.Request) {
	if h.sso == nil {
		http.Redirect(w, r, "/login?error=sso+not+configured", http.StatusSeeOther)
		return
	}

	state, err := randomToken()
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to generate sso state")
		http.Error(w, "internal server error", http.StatusInternalServerError)

		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     oidcStateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   int((5 * time.Minute).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.sso.AuthCodeURL(state), http.StatusSeeOther)
}

// SSOCallback completes the SSO flow: verifies state, exchanges the code,
// provisions the user on first login, and starts a session.
func (h *Handler) SSOCallback(w http.ResponseWriter, r *http.Request) {
	if h.sso == nil {
		http.Redirect(w, r, "/login?error=sso+not+configured", http.StatusSeeOther)
		return
	}

	stateCookie, err := r.Cookie(oidcStateCookie)
	if err != nil || stateCookie.Value == "" || stateCookie.Value != r.URL.Query().Get("state") {
		http.Redirect(w, r, "/login?error=state+mismatch", http.StatusSeeOther)
		return
	}

	identity, err := h.sso.Exchange(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		h.logger.Warn().Err(err).Msg("sso code exchange failed")
		http.Redirect(w, r, "/login?error=sso+failed", http.StatusSeeOther)

		return
	}

	user, err := h.userUC.FindOrCreateSSOUser(r.Context(), identity.PreferredUsername, identity.Email)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to provision sso user")
		http.Redirect(w, r, "/login?error=sso+failed", http.StatusSeeOther)

		return
	}

	h.startSession(w, r, user.ID)
}

// Logout clears the session and returns to the login page.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil && cookie.Value != "" {
		if err := h.sessions.Delete(r.Context(), cookie.Value); err != nil {
			h.logger.Warn().Err(err).Msg("failed to delete session")
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// Accounts renders the accounts page.
func (h *Handler) Accounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.accountUC.ListAccounts(r.Context(), usecase.ListAccountsInput{})
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list accounts")
		http.Error(w, "internal server error", http.StatusInternalServerError)

		return
	}

	h.render(w, "accounts.html", map[string]any{
		"Accounts": accounts,
	})
}

// Assets renders the assets page.
func (h *Handler) Assets(w http.ResponseWriter, r *http.Request) {
	assets, err := h.assetUC.ListAssets(r.Context(), usecase.ListAssetsInput{})
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list assets")
		http.Error(w, "internal server error", http.StatusInternalServerError)

		return
	}

	h.render(w, "assets.html", map[string]any{
		"Assets": assets,
	})
}

// Transactions renders the transactions page, newest first.
func (h *Handler) Transactions(w http.ResponseWriter, r *http.Request) {
	txns, err := h.transactionUC.ListTransactions(r.Context(), usecase.ListTransactionsInput{})
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list transactions")
		http.Error(w, "internal server error", http.StatusInternalServerError)

		return
	}

	h.render(w, "transactions.html", map[string]any{
		"Transactions": txns,
	})
}

// ImportPage renders the CSV upload page.
func (h *Handler) ImportPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, "import.html", map[string]any{})
}

// ImportForm handles the CSV upload form post and renders the summary.
func (h *Handler) ImportForm(w http.ResponseWriter, r *http.Request) {
	file, _, err := r.FormFile("file")
	if err != nil {
		h.render(w, "import.html", map[string]any{
			"Error": "select a CSV file to upload",
		})

		return
	}
	defer file.Close()

	result, err := h.importUC.ImportCSV(r.Context(), file)
	if err != nil && result == nil {
		h.logger.Error().Err(err).Msg("web import failed")
		http.Error(w, "internal server error", http.StatusInternalServerError)

		return
	}

	h.render(w, "import.html", map[string]any{
		"Result": result,
	})
}

func (h *Handler) startSession(w http.ResponseWriter, r *http.Request, userID string) {
	token, err := h.sessions.Create(r.Context(), userID, sessionTTL)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to create session")
		http.Error(w, "internal server error", http.StatusInternalServerError)

		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(sessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func randomToken() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}

	return hex.EncodeToString(buf), nil
}

package mockbank

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/go-playground/validator/v10"
	"github.com/unrolled/secure"

	"github.com/crestbank/crest-console/internal/api"
)

type claimsKey struct{}

// Server exposes the mock bank over the same REST surface as the real API.
type Server struct {
	logger   *slog.Logger
	store    *Store
	tokens   *TokenRegistry
	validate *validator.Validate
}

// NewServer wires the handler around a store and token registry.
func NewServer(logger *slog.Logger, store *Store, tokens *TokenRegistry) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		logger:   logger,
		store:    store,
		tokens:   tokens,
		validate: validator.New(),
	}
}

// Handler builds the router. All routes live under /api, matching the base
// URL the console is configured with.
func (s *Server) Handler() http.Handler {
	secureHeaders := secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
	})

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(httprate.Limit(300, time.Minute, httprate.WithKeyFuncs(httprate.KeyByIP)))
	r.Use(func(next http.Handler) http.Handler {
		return secureHeaders.Handler(next)
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/connexion", s.handleLogin)
		r.Post("/auth/inscription", s.handleRegister)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)

			r.With(s.requireRole(api.RoleClient)).Route("/client", func(r chi.Router) {
				r.Get("/mon-profil", s.handleProfile)
				r.Put("/mon-profil", s.handleUpdateProfile)
				r.Get("/mes-transactions", s.handleTransactions)
				r.Post("/virement", s.handleTransfer)
				r.Post("/recharger", s.handleRecharge)
			})

			r.Patch("/utilisateur/modifier-mdp", s.handleChangePassword)

			r.With(s.requireRole(api.RoleCashier)).Route("/guichet", func(r chi.Router) {
				r.Get("/recherche-compte", s.handleSearchAccount)
				r.Post("/depot", s.handleDeposit)
				r.Post("/retrait", s.handleWithdraw)
			})

			r.With(s.requireRole(api.RoleAdmin)).Route("/admin", func(r chi.Router) {
				r.Get("/comptes", s.handleListAccounts)
				r.Patch("/comptes/{accountNumber}/statut", s.handleAccountStatus)
				r.Get("/utilisateurs", s.handleListUsers)
				r.Get("/utilisateurs/search", s.handleSearchUsers)
				r.Post("/utilisateurs/caissier", s.handleCreateCashier)
			})
		})
	})
	return r
}

// ---- middleware ----

func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			writeMessage(w, http.StatusUnauthorized, "authorization header required")
			return
		}
		claims, err := s.tokens.Validate(r.Context(), parts[1])
		if err != nil {
			writeMessage(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}
		ctx := context.WithValue(r.Context(), claimsKey{}, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) requireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := claimsFrom(r.Context())
			for _, held := range claims.Roles {
				if held == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			writeMessage(w, http.StatusForbidden, "insufficient role")
		})
	}
}

func claimsFrom(ctx context.Context) *Claims {
	claims, _ := ctx.Value(claimsKey{}).(*Claims)
	return claims
}

// ---- auth ----

type loginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !s.decode(w, r, &req) {
		return
	}
	user, err := s.store.Authenticate(req.Identifier, req.Password)
	if err != nil {
		writeMessage(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	roles := []string{user.Role}
	token, err := s.tokens.Issue(r.Context(), user.Username, roles)
	if err != nil {
		s.logger.Error("issue token", slog.Any("error", err))
		writeMessage(w, http.StatusInternalServerError, "unable to issue token")
		return
	}
	writeJSON(w, http.StatusOK, api.LoginResponse{
		Token:    token,
		Username: user.Username,
		Roles:    roles,
	})
}

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Password string `json:"password" validate:"required,min=6"`
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required"`
	Surname  string `json:"surname" validate:"required"`
	Address  string `json:"address" validate:"required"`
	Phone    string `json:"phone" validate:"required"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !s.decode(w, r, &req) {
		return
	}
	err := s.store.RegisterClient(api.RegistrationRequest{
		Username: req.Username,
		Password: req.Password,
		Email:    req.Email,
		Name:     req.Name,
		Surname:  req.Surname,
		Address:  req.Address,
		Phone:    req.Phone,
	})
	if errors.Is(err, ErrDuplicateUser) {
		writeText(w, http.StatusConflict, "username or email already taken")
		return
	}
	if err != nil {
		writeText(w, http.StatusInternalServerError, "registration failed")
		return
	}
	writeText(w, http.StatusCreated, "registration successful, you can now sign in")
}

// ---- client ----

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	account, err := s.store.AccountForUser(claimsFrom(r.Context()).Username)
	if err != nil {
		writeMessage(w, http.StatusNotFound, "no account for this login")
		return
	}
	writeJSON(w, http.StatusOK, account)
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	transactions, err := s.store.TransactionsForUser(claimsFrom(r.Context()).Username)
	if err != nil {
		writeMessage(w, http.StatusNotFound, "no account for this login")
		return
	}
	writeJSON(w, http.StatusOK, transactions)
}

type transferRequest struct {
	SourceAccount      string  `json:"sourceAccount" validate:"required"`
	DestinationAccount string  `json:"destinationAccount" validate:"required"`
	Amount             float64 `json:"amount" validate:"required,gt=0"`
	Note               string  `json:"note"`
}

func (s *Server) handleTransfer(w http.ResponseWriter, r *http.Request) {
	var req transferRequest
	if !s.decode(w, r, &req) {
		return
	}
	err := s.store.Transfer(api.TransferRequest{
		SourceAccount:      req.SourceAccount,
		DestinationAccount: req.DestinationAccount,
		Amount:             req.Amount,
		Note:               req.Note,
	})
	if err != nil {
		writeText(w, statusForStoreError(err), err.Error())
		return
	}
	writeText(w, http.StatusOK, "transfer completed successfully")
}

type rechargeRequest struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
}

func (s *Server) handleRecharge(w http.ResponseWriter, r *http.Request) {
	var req rechargeRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := s.store.Recharge(claimsFrom(r.Context()).Username, req.Amount); err != nil {
		writeText(w, statusForStoreError(err), err.Error())
		return
	}
	writeText(w, http.StatusOK, "your account has been recharged")
}

type profileUpdateRequest struct {
	Name    string `json:"name" validate:"required"`
	Surname string `json:"surname" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"required"`
	Address string `json:"address" validate:"required"`
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req profileUpdateRequest
	if !s.decode(w, r, &req) {
		return
	}
	err := s.store.UpdateProfile(claimsFrom(r.Context()).Username, api.ProfileUpdateRequest{
		Name:    req.Name,
		Surname: req.Surname,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
	})
	if err != nil {
		writeMessage(w, statusForStoreError(err), err.Error())
		return
	}
	writeMessage(w, http.StatusOK, "profile updated successfully")
}

type passwordChangeRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	var req passwordChangeRequest
	if !s.decode(w, r, &req) {
		return
	}
	err := s.store.ChangePassword(claimsFrom(r.Context()).Username, req.OldPassword, req.NewPassword)
	if errors.Is(err, ErrWrongPassword) {
		writeText(w, http.StatusBadRequest, "old password does not match")
		return
	}
	if err != nil {
		writeText(w, statusForStoreError(err), err.Error())
		return
	}
	writeText(w, http.StatusOK, "password changed successfully")
}

// ---- teller ----

func (s *Server) handleSearchAccount(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("query"))
	if query == "" {
		writeMessage(w, http.StatusBadRequest, "query parameter required")
		return
	}
	account, err := s.store.SearchAccount(query)
	if err != nil {
		writeMessage(w, http.StatusNotFound, "no account matches this identifier")
		return
	}
	writeJSON(w, http.StatusOK, account)
}

type operationRequest struct {
	AccountNumber string  `json:"accountNumber" validate:"required"`
	Amount        float64 `json:"amount" validate:"required,gt=0"`
}

func (s *Server) handleDeposit(w http.ResponseWriter, r *http.Request) {
	var req operationRequest
	if !s.decode(w, r, &req) {
		return
	}
	balance, err := s.store.Deposit(req.AccountNumber, req.Amount)
	if err != nil {
		writeMessage(w, statusForStoreError(err), err.Error())
		return
	}
	writeMessage(w, http.StatusOK, "deposit recorded, new balance "+formatAmount(balance))
}

func (s *Server) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	var req operationRequest
	if !s.decode(w, r, &req) {
		return
	}
	balance, err := s.store.Withdraw(req.AccountNumber, req.Amount)
	if err != nil {
		writeMessage(w, statusForStoreError(err), err.Error())
		return
	}
	writeMessage(w, http.StatusOK, "withdrawal recorded, new balance "+formatAmount(balance))
}

// ---- admin ----

func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Accounts())
}

func (s *Server) handleAccountStatus(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "accountNumber")
	active, err := strconv.ParseBool(r.URL.Query().Get("actif"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "actif must be true or false")
		return
	}
	if err := s.store.SetAccountStatus(number, active); err != nil {
		writeMessage(w, statusForStoreError(err), err.Error())
		return
	}
	if active {
		writeMessage(w, http.StatusOK, "account activated")
		return
	}
	writeMessage(w, http.StatusOK, "account deactivated")
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Users())
}

func (s *Server) handleSearchUsers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.SearchUsers(r.URL.Query().Get("q")))
}

type createCashierRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

func (s *Server) handleCreateCashier(w http.ResponseWriter, r *http.Request) {
	var req createCashierRequest
	if !s.decode(w, r, &req) {
		return
	}
	err := s.store.CreateCashier(api.CreateCashierRequest{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if errors.Is(err, ErrDuplicateUser) {
		writeMessage(w, http.StatusConflict, "username already taken")
		return
	}
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "unable to create cashier")
		return
	}
	writeMessage(w, http.StatusCreated, "cashier created successfully")
}

// ---- plumbing ----

func (s *Server) decode(w http.ResponseWriter, r *http.Request, target any) bool {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		writeMessage(w, http.StatusBadRequest, "malformed request body")
		return false
	}
	if err := s.validate.Struct(target); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request: "+err.Error())
		return false
	}
	return true
}

func statusForStoreError(err error) int {
	switch {
	case errors.Is(err, ErrAccountNotFound), errors.Is(err, ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrAccountInactive):
		return http.StatusForbidden
	case errors.Is(err, ErrInsufficientFunds):
		return http.StatusConflict
	case errors.Is(err, ErrDuplicateUser):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, api.Message{Message: msg})
}

func writeText(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(msg))
}

func formatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', 2, 64)
}

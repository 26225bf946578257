package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"filmart-backend-go/internal/models"
	"filmart-backend-go/internal/store"
)

// AdminRef is the populated form of a createdBy/uploadedBy reference.
type AdminRef struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type RegisterInput struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"omitempty,oneof='Admin' 'Super Admin'"`
	Status   string `json:"status" validate:"omitempty,oneof=active inactive"`
}

type AdminPatch struct {
	Name   *string `json:"name"`
	Email  *string `json:"email"`
	Role   *string `json:"role"`
	Status *string `json:"status"`
}

// AuthResult is returned by register and login.
type AuthResult struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
	Token string `json:"token"`
}

type Accounts struct {
	Admins  *store.Collection[models.Admin]
	Tokens  TokenService
	Revoker Revoker
	Logger  *slog.Logger

	dummyHash string
}

func NewAccounts(admins *store.Collection[models.Admin], tokens TokenService, revoker Revoker, logger *slog.Logger) *Accounts {
	if revoker == nil {
		revoker = NewMemoryRevoker()
	}
	if logger == nil {
		logger = slog.Default()
	}
	dummy, _ := tokens.HashPassword("filmart-timing-equalizer")
	return &Accounts{Admins: admins, Tokens: tokens, Revoker: revoker, Logger: logger, dummyHash: dummy}
}

// Public returns a copy without the password hash.
func Public(admin *models.Admin) *models.Admin {
	if admin == nil {
		return nil
	}
	clean := *admin
	clean.Password = ""
	return &clean
}

func IsSuperAdmin(admin *models.Admin) bool {
	return admin != nil && admin.Role == models.RoleSuperAdmin
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (a *Accounts) translate(err error) error {
	if errors.Is(err, store.ErrConflict) {
		return ErrConflict("Admin already exists with this email")
	}
	return err
}

// Register creates an admin and signs a session for it. Super Admin accounts
// may only be requested by a Super Admin, or while no admin exists yet.
func (a *Accounts) Register(ctx context.Context, in RegisterInput, actor *models.Admin) (*models.Admin, AuthResult, error) {
	admin, err := a.create(ctx, in, actor)
	if err != nil {
		return nil, AuthResult{}, err
	}
	token, _, err := a.Tokens.CreateSessionToken(admin.ID)
	if err != nil {
		return nil, AuthResult{}, err
	}
	return admin, authResult(admin, token), nil
}

// Create is the Super Admin route for adding accounts.
func (a *Accounts) Create(ctx context.Context, in RegisterInput, actor *models.Admin) (*models.Admin, error) {
	if !IsSuperAdmin(actor) {
		return nil, ErrForbidden("Only a Super Admin can perform this action")
	}
	return a.create(ctx, in, actor)
}

func (a *Accounts) create(ctx context.Context, in RegisterInput, actor *models.Admin) (*models.Admin, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	if in.Role == "" {
		in.Role = models.RoleAdmin
	}
	if in.Status == "" {
		in.Status = models.StatusActive
	}
	if err := Validate(in); err != nil {
		return nil, err
	}
	if in.Role == models.RoleSuperAdmin && !IsSuperAdmin(actor) {
		n, err := a.Admins.Count(ctx, store.Query{})
		if err != nil {
			return nil, err
		}
		if n > 0 {
			return nil, ErrForbidden("Only a Super Admin can create Super Admin accounts")
		}
	}
	hash, err := a.Tokens.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	admin := &models.Admin{
		Name:     in.Name,
		Email:    in.Email,
		Password: hash,
		Role:     in.Role,
		Status:   in.Status,
	}
	if err := Validate(admin); err != nil {
		return nil, err
	}
	if err := a.Admins.Insert(ctx, admin); err != nil {
		return nil, a.translate(err)
	}
	a.Logger.InfoContext(ctx, "admin created", "adminId", admin.ID, "role", admin.Role)
	return Public(admin), nil
}

// Login answers unknown emails and wrong passwords with the same error and
// comparable timing.
func (a *Accounts) Login(ctx context.Context, email, password string) (*models.Admin, AuthResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, AuthResult{}, ErrBadRequest("Please provide email and password")
	}
	admin, err := a.Admins.FindOne(ctx, store.Query{}.And(store.Eq("email", email)))
	if err != nil {
		return nil, AuthResult{}, err
	}
	if admin == nil {
		a.Tokens.VerifyPassword(password, a.dummyHash)
		return nil, AuthResult{}, ErrUnauthorized("Invalid credentials")
	}
	if !a.Tokens.VerifyPassword(password, admin.Password) {
		return nil, AuthResult{}, ErrUnauthorized("Invalid credentials")
	}
	if admin.Status != models.StatusActive {
		return nil, AuthResult{}, ErrUnauthorized("Account is inactive")
	}
	now := time.Now().UTC().Truncate(time.Millisecond)
	admin.LastLogin = &now
	if _, err := a.Admins.Replace(ctx, admin); err != nil {
		return nil, AuthResult{}, err
	}
	token, _, err := a.Tokens.CreateSessionToken(admin.ID)
	if err != nil {
		return nil, AuthResult{}, err
	}
	return Public(admin), authResult(admin, token), nil
}

// Authenticate resolves a bearer token to an active admin.
func (a *Accounts) Authenticate(ctx context.Context, token string) (*models.Admin, Session, error) {
	if strings.TrimSpace(token) == "" {
		return nil, Session{}, ErrUnauthorized("Not authorized, no token")
	}
	session, err := a.Tokens.ParseSession(token)
	if err != nil {
		return nil, Session{}, err
	}
	revoked, err := a.Revoker.IsRevoked(ctx, session.TokenID)
	if err != nil {
		return nil, Session{}, err
	}
	if revoked {
		return nil, Session{}, ErrUnauthorized("Not authorized, token revoked")
	}
	admin, err := a.Admins.Get(ctx, session.AdminID)
	if err != nil {
		return nil, Session{}, err
	}
	if admin == nil {
		return nil, Session{}, ErrUnauthorized("Not authorized, admin not found")
	}
	if admin.Status != models.StatusActive {
		return nil, Session{}, ErrUnauthorized("Account is inactive")
	}
	return Public(admin), session, nil
}

func (a *Accounts) Logout(ctx context.Context, session Session) error {
	return a.Revoker.Revoke(ctx, session.TokenID, session.ExpiresAt)
}

func (a *Accounts) List(ctx context.Context) ([]models.Admin, error) {
	admins, err := a.Admins.Find(ctx, store.Query{}.OrderBy(store.Desc("createdAt")))
	if err != nil {
		return nil, err
	}
	for i := range admins {
		admins[i].Password = ""
	}
	return admins, nil
}

func (a *Accounts) Get(ctx context.Context, id string) (*models.Admin, error) {
	admin, err := a.Admins.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if admin == nil {
		return nil, ErrNotFound("Admin not found")
	}
	return Public(admin), nil
}

// Update never touches the password. Admins may rename themselves; every
// other change needs a Super Admin.
func (a *Accounts) Update(ctx context.Context, actor *models.Admin, id string, patch AdminPatch) (*models.Admin, error) {
	admin, err := a.Admins.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if admin == nil {
		return nil, ErrNotFound("Admin not found")
	}
	if !IsSuperAdmin(actor) {
		if actor == nil || actor.ID != admin.ID {
			return nil, ErrForbidden("Only a Super Admin can update other admins")
		}
		if patch.Role != nil || patch.Status != nil {
			return nil, ErrForbidden("Only a Super Admin can change roles or status")
		}
	}
	setString(&admin.Name, patch.Name)
	if patch.Email != nil {
		admin.Email = normalizeEmail(*patch.Email)
	}
	setString(&admin.Role, patch.Role)
	setString(&admin.Status, patch.Status)
	if err := Validate(admin); err != nil {
		return nil, err
	}
	ok, err := a.Admins.Replace(ctx, admin)
	if err != nil {
		return nil, a.translate(err)
	}
	if !ok {
		return nil, ErrNotFound("Admin not found")
	}
	return Public(admin), nil
}

func (a *Accounts) Delete(ctx context.Context, actor *models.Admin, id string) error {
	if !IsSuperAdmin(actor) {
		return ErrForbidden("Only a Super Admin can perform this action")
	}
	admin, err := a.Admins.Get(ctx, id)
	if err != nil {
		return err
	}
	if admin == nil {
		return ErrNotFound("Admin not found")
	}
	if admin.ID == actor.ID {
		return ErrForbidden("You cannot delete your own account")
	}
	if _, err := a.Admins.Delete(ctx, id); err != nil {
		return err
	}
	a.Logger.InfoContext(ctx, "admin deleted", "adminId", id, "by", actor.ID)
	return nil
}

// EnsureSuperAdmin creates the bootstrap account when no Super Admin exists.
func (a *Accounts) EnsureSuperAdmin(ctx context.Context, name, email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	n, err := a.Admins.Count(ctx, store.Query{}.And(store.Eq("role", models.RoleSuperAdmin)))
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	if name == "" {
		name = "Super Admin"
	}
	_, err = a.create(ctx, RegisterInput{Name: name, Email: email, Password: password, Role: models.RoleSuperAdmin},
		&models.Admin{Role: models.RoleSuperAdmin})
	return err
}

// Refs loads the name and email of each referenced admin once.
func (a *Accounts) Refs(ctx context.Context, ids ...string) (map[string]*AdminRef, error) {
	refs := map[string]*AdminRef{}
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, seen := refs[id]; seen {
			continue
		}
		admin, err := a.Admins.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if admin == nil {
			refs[id] = nil
			continue
		}
		refs[id] = &AdminRef{ID: admin.ID, Name: admin.Name, Email: admin.Email}
	}
	return refs, nil
}

func authResult(admin *models.Admin, token string) AuthResult {
	return AuthResult{ID: admin.ID, Name: admin.Name, Email: admin.Email, Role: admin.Role, Token: token}
}

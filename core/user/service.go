package user

import (
	"context"

	"github.com/pkg/errors"

	"github.com/smartcampusucv/web/core"
)

var (
	// errors
	ErrInvalidCredentials = errors.New("Credenciales incorrectas. Por favor intenta de nuevo.")
	ErrAccountExists      = errors.New("Ya existe una cuenta con este correo institucional.")
	ErrSessionExpired     = errors.New("session expired")
)

type (
	// LoginResult is what the backend answers to a successful login.
	// User is nil when the backend only returns a token.
	LoginResult struct {
		Token string
		User  *User
	}

	// Repository is the backend surface for users and authentication.
	// Calls that need a session read the bearer token from the context (core.TokenFromContext).
	Repository interface {
		Login(ctx context.Context, creds Credentials) (LoginResult, error)
		Register(ctx context.Context, nu NewUser) error
		Me(ctx context.Context) (User, error)
		UpdateUser(ctx context.Context, id int, up UpdateProfile) (User, error)
		QueryAllUsers(ctx context.Context) ([]User, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// SignIn posts the credentials and returns the resulting session.
// Invalid credentials yield ErrInvalidCredentials and an empty state.
func (svc *Service) SignIn(ctx context.Context, email, pwd string) (AuthState, error) {
	creds := Credentials{CorreoInstitucional: email, Contrasena: pwd}
	if err := creds.Validate(); err != nil {
		return AuthState{}, ErrInvalidCredentials
	}

	res, err := svc.repo.Login(ctx, creds)
	if err != nil {
		if core.IsUnauthorized(err) || core.IsNotFound(err) || isBadRequest(err) {
			return AuthState{}, ErrInvalidCredentials
		}
		return AuthState{}, errors.Wrap(err, "logging in")
	}
	if res.Token == "" {
		return AuthState{}, ErrInvalidCredentials
	}

	state := AuthState{Token: res.Token, User: res.User}
	if state.User == nil {
		usr, err := svc.repo.Me(core.ContextWithToken(ctx, res.Token))
		if err != nil {
			return AuthState{}, errors.Wrap(err, "fetching profile")
		}
		state.User = &usr
	}
	return state, nil
}

// SignUp registers a new account. It does not sign the user in.
// Local validation failures (e.g. a non-institutional email) never reach the backend.
func (svc *Service) SignUp(ctx context.Context, nu NewUser) error {
	if err := nu.Validate(); err != nil {
		return err
	}
	if err := svc.repo.Register(ctx, nu); err != nil {
		if core.IsConflict(err) {
			return core.NewValidationError(ErrAccountExists, core.FieldError{
				Field: "correoInstitucional",
				Error: ErrAccountExists.Error(),
			})
		}
		return errors.Wrap(err, "registering user")
	}
	return nil
}

// Restore rebuilds the session from a stored token: it fetches the profile and
// always returns with Loading false. A failed fetch yields an unauthenticated state
// and the caller is expected to forget the token.
func (svc *Service) Restore(ctx context.Context, token string) (AuthState, error) {
	if token == "" {
		return AuthState{}, nil
	}
	if TokenExpired(token) {
		return AuthState{}, ErrSessionExpired
	}
	usr, err := svc.repo.Me(core.ContextWithToken(ctx, token))
	if err != nil {
		return AuthState{}, errors.Wrap(err, "fetching profile")
	}
	return AuthState{Token: token, User: &usr}, nil
}

// RefreshUser re-fetches the signed-in user's profile.
func (svc *Service) RefreshUser(ctx context.Context) (User, error) {
	usr, err := svc.repo.Me(ctx)
	return usr, errors.Wrap(err, "fetching profile")
}

func (svc *Service) UpdateProfile(ctx context.Context, id int, up UpdateProfile) (User, error) {
	if err := up.Validate(); err != nil {
		return User{}, err
	}
	usr, err := svc.repo.UpdateUser(ctx, id, up)
	if err != nil {
		return User{}, errors.Wrap(err, "updating user")
	}
	return usr, nil
}

func (svc *Service) Query(ctx context.Context, filter QueryFilter) ([]User, error) {
	users, err := svc.repo.QueryAllUsers(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "querying users")
	}
	filter.Clean()
	matched := make([]User, 0, len(users))
	for _, usr := range users {
		if filter.Match(usr) {
			matched = append(matched, usr)
		}
	}
	return matched, nil
}

func isBadRequest(err error) bool {
	apiErr, ok := errors.Cause(err).(*core.APIError)
	return ok && apiErr.Status == 400
}

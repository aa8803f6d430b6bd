package restrepos

import (
	"context"
	"strconv"

	"github.com/smartcampusucv/web/core/user"
)

type userRepository struct {
	c *Client
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(c *Client) user.Repository {
	return &userRepository{c: c}
}

// loginResponse accepts both token field spellings the backend has used.
type loginResponse struct {
	AccessToken string     `json:"access_token"`
	Token       string     `json:"token"`
	User        *user.User `json:"user"`
	Usuario     *user.User `json:"usuario"`
}

func (repo *userRepository) Login(ctx context.Context, creds user.Credentials) (user.LoginResult, error) {
	var resp loginResponse
	if err := repo.c.post(ctx, "/auth/login", creds, &resp); err != nil {
		return user.LoginResult{}, err
	}
	res := user.LoginResult{Token: resp.AccessToken, User: resp.User}
	if res.Token == "" {
		res.Token = resp.Token
	}
	if res.User == nil {
		res.User = resp.Usuario
	}
	return res, nil
}

func (repo *userRepository) Register(ctx context.Context, nu user.NewUser) error {
	return repo.c.post(ctx, "/auth/register", nu, nil)
}

func (repo *userRepository) Me(ctx context.Context) (user.User, error) {
	var usr user.User
	err := repo.c.get(ctx, "/auth/me", &usr)
	return usr, err
}

func (repo *userRepository) UpdateUser(ctx context.Context, id int, up user.UpdateProfile) (user.User, error) {
	var usr user.User
	err := repo.c.patch(ctx, "/usuarios/"+strconv.Itoa(id), up, &usr)
	return usr, err
}

func (repo *userRepository) QueryAllUsers(ctx context.Context) ([]user.User, error) {
	users := make([]user.User, 0)
	err := repo.c.get(ctx, "/usuarios", &users)
	return users, err
}

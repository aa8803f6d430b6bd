package restrepos

import (
	"context"

	"github.com/smartcampusucv/web/core/chat"
)

type chatRepository struct {
	c *Client
}

var _ chat.Repository = (*chatRepository)(nil) // interface compliance check

func NewChatRepository(c *Client) chat.Repository {
	return &chatRepository{c: c}
}

func (repo *chatRepository) Ask(ctx context.Context, userID int, text string) (chat.Reply, error) {
	var reply chat.Reply
	body := struct {
		UsuarioID      int    `json:"usuarioId"`
		MensajeUsuario string `json:"mensajeUsuario"`
	}{userID, text}
	err := repo.c.post(ctx, "/chatbot", body, &reply)
	return reply, err
}

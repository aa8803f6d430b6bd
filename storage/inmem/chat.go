package inmemdb

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/smartcampusucv/web/core"
	"github.com/smartcampusucv/web/core/activity"
	"github.com/smartcampusucv/web/core/chat"
)

type chatRepository struct {
	db *DB
}

var _ chat.Repository = (*chatRepository)(nil) // interface compliance check

func NewChatRepository(db *DB) chat.Repository {
	return &chatRepository{db: db}
}

// Ask answers with upcoming activities, preferring those whose category or title matches
// the message or the user's interests.
func (repo *chatRepository) Ask(ctx context.Context, userID int, text string) (chat.Reply, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	me, err := repo.db.currentUser(ctx)
	if err != nil {
		return chat.Reply{}, err
	}
	if me.ID != userID {
		return chat.Reply{}, errForbidden
	}

	now := NowFunc()
	keywords := append(strings.Fields(strings.ToLower(text)), me.InterestList()...)
	upcoming := make([]activity.Activity, 0)
	for _, act := range repo.db.acts {
		if !act.HasStarted(now) {
			upcoming = append(upcoming, *act)
		}
	}
	sort.Slice(upcoming, func(i, j int) bool {
		si, sj := score(upcoming[i], keywords), score(upcoming[j], keywords)
		if si != sj {
			return si > sj
		}
		return upcoming[i].StartsAt().Before(upcoming[j].StartsAt())
	})

	var b strings.Builder
	if len(upcoming) == 0 {
		b.WriteString("Por ahora no hay actividades próximas. ¡Vuelve pronto!")
	} else {
		fmt.Fprintf(&b, "¡Claro, %s! Te recomiendo:\n", me.Nombre)
		for i, act := range upcoming {
			if i == 3 {
				break
			}
			fmt.Fprintf(&b, "• **%s** (%s), %s en %s\n", act.Titulo, act.CategoryName(), act.DateInput(), act.Lugar)
		}
		b.WriteString("\n*Puedes inscribirte desde la página de cada actividad.*")
	}

	return chat.Reply{ID: repo.db.nextPK(), RespuestaBot: b.String(), Fecha: now.UTC()}, nil
}

func score(act activity.Activity, keywords []string) int {
	n := 0
	for _, kw := range keywords {
		if len(kw) < 4 {
			continue
		}
		if core.ContainsFold(act.Categoria, kw) || core.ContainsFold(act.Titulo, kw) || core.ContainsFold(act.Descripcion, kw) {
			n++
		}
	}
	return n
}

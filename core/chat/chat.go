// Package chat keeps the assistant transcript of each signed-in user and relays messages to the campus chatbot.
package chat

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/smartcampusucv/web/core"
	"github.com/smartcampusucv/web/core/user"
)

var NowFunc = time.Now // mockable

const (
	ApologyText  = "⚠️ Lo siento, hubo un error al procesar tu mensaje. Por favor, inténtalo de nuevo."
	FallbackText = "Lo siento, no pude procesar tu mensaje."

	maxMessageLen = 1000

	// MaxMessages bounds a transcript: the welcome message plus the most recent exchanges.
	MaxMessages = 101
	// IdleTTL is how long the transcript of a user who stopped chatting is kept.
	IdleTTL = 24 * time.Hour

	sweepEvery = time.Minute
)

var (
	ErrEmptyMessage = errors.New("Escribe un mensaje")

	Suggestions = []string{
		"Recomiéndame actividades",
		"¿Qué actividades hay disponibles?",
		"Quiero inscribirme en una actividad",
		"Actividades de medio ambiente",
	}
)

type (
	// Message is one transcript entry: either the user's text or the bot's reply.
	Message struct {
		ID             string
		MensajeUsuario string
		RespuestaBot   string
		Fecha          time.Time
		IsUser         bool
	}

	// Reply is the chatbot answer.
	Reply struct {
		ID           int       `json:"id"`
		RespuestaBot string    `json:"respuestaBot"`
		Fecha        time.Time `json:"fecha"`
	}

	// Repository is the backend chatbot endpoint.
	Repository interface {
		Ask(ctx context.Context, userID int, text string) (Reply, error)
	}
)

func (m Message) Text() string {
	if m.IsUser {
		return m.MensajeUsuario
	}
	return m.RespuestaBot
}

// Welcome is the greeting that opens every transcript.
func Welcome(usr user.User) Message {
	return Message{
		ID: uuid.NewString(),
		RespuestaBot: fmt.Sprintf("¡Hola %s! 👋 Soy tu asistente de SmartCampus. Puedo ayudarte a:\n\n"+
			"• Obtener recomendaciones personalizadas de actividades\n"+
			"• Inscribirte automáticamente en actividades\n"+
			"• Responder tus preguntas sobre el campus\n\n"+
			"¿En qué puedo ayudarte hoy?", usr.Nombre),
		Fecha: NowFunc(),
	}
}

// Service holds one transcript per user ID in memory.
type Service struct {
	repo   Repository
	logger core.Logger

	mu          sync.Mutex
	transcripts map[int]*transcript
	lastSweep   time.Time
}

type transcript struct {
	msgs     []Message
	lastSeen time.Time
}

func NewService(repo Repository, logger core.Logger) *Service {
	return &Service{
		repo:        repo,
		logger:      logger,
		transcripts: make(map[int]*transcript),
	}
}

// Transcript returns a copy of usr's conversation, starting it with the welcome message if needed.
func (svc *Service) Transcript(usr user.User) []Message {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	tr := svc.startLocked(usr)
	out := make([]Message, len(tr.msgs))
	copy(out, tr.msgs)
	return out
}

// Send records text, asks the chatbot and records its reply. Backend failures are not
// returned: the apology text is recorded instead.
func (svc *Service) Send(ctx context.Context, usr user.User, text string) (Message, error) {
	text = core.CleanString(text)
	if text == "" {
		return Message{}, ErrEmptyMessage
	}
	if r := []rune(text); len(r) > maxMessageLen {
		text = string(r[:maxMessageLen])
	}

	svc.append(usr, Message{ID: uuid.NewString(), MensajeUsuario: text, Fecha: NowFunc(), IsUser: true})

	// no lock held while waiting on the backend
	bot := Message{ID: uuid.NewString(), Fecha: NowFunc()}
	reply, err := svc.repo.Ask(ctx, usr.ID, text)
	switch {
	case err != nil:
		if svc.logger != nil {
			svc.logger.Error("chatbot request failed", err, usr)
		}
		bot.RespuestaBot = ApologyText
	case strings.TrimSpace(reply.RespuestaBot) == "":
		bot.RespuestaBot = FallbackText
	default:
		bot.RespuestaBot = reply.RespuestaBot
		if !reply.Fecha.IsZero() {
			bot.Fecha = reply.Fecha
		}
	}
	svc.append(usr, bot)
	return bot, nil
}

// Forget drops usr's transcript; called on sign-out.
func (svc *Service) Forget(userID int) {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	delete(svc.transcripts, userID)
}

func (svc *Service) append(usr user.User, msg Message) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	tr := svc.startLocked(usr)
	tr.msgs = append(tr.msgs, msg)
	if extra := len(tr.msgs) - MaxMessages; extra > 0 {
		// keep the welcome message
		tr.msgs = append(tr.msgs[:1], tr.msgs[1+extra:]...)
	}
}

// startLocked returns usr's transcript, creating it with the welcome message, and marks it
// as used. Transcripts idle for longer than IdleTTL are dropped on the way.
func (svc *Service) startLocked(usr user.User) *transcript {
	now := NowFunc()
	if now.Sub(svc.lastSweep) >= sweepEvery {
		for id, tr := range svc.transcripts {
			if now.Sub(tr.lastSeen) > IdleTTL {
				delete(svc.transcripts, id)
			}
		}
		svc.lastSweep = now
	}

	tr, ok := svc.transcripts[usr.ID]
	if !ok {
		tr = &transcript{msgs: []Message{Welcome(usr)}}
		svc.transcripts[usr.ID] = tr
	}
	tr.lastSeen = now
	return tr
}

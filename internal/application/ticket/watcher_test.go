package ticket_test

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-bot/internal/application/ticket"
	"github.com/jhoicas/stock-bot/internal/domain"
	"github.com/jhoicas/stock-bot/internal/domain/entity"
	"github.com/jhoicas/stock-bot/pkg/logger"
)

const (
	categoryID = "600000000000000001"
	alertUser  = "600000000000000002"
	openerID   = "123456789012345678"
)

type sentDM struct {
	to      string
	payload entity.DisplayPayload
}

type fakeNotifier struct {
	users   map[string]entity.User
	sendErr error
	panics  bool
	sent    []sentDM
}

func (f *fakeNotifier) FetchUser(_ context.Context, id string) (entity.User, error) {
	if f.panics {
		panic("cliente roto")
	}
	u, ok := f.users[id]
	if !ok {
		return entity.User{}, fmt.Errorf("%w: %s", domain.ErrUserNotFound, id)
	}
	return u, nil
}

func (f *fakeNotifier) SendDirect(_ context.Context, to string, p entity.DisplayPayload) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, sentDM{to: to, payload: p})
	return nil
}

func newNotifier() *fakeNotifier {
	return &fakeNotifier{users: map[string]entity.User{
		alertUser: {ID: alertUser, Username: "owner"},
		openerID:  {ID: openerID, Username: "buyer"},
	}}
}

func ticketChannel(name string) entity.CreatedChannel {
	return entity.CreatedChannel{ID: "500000000000000001", Name: name, ParentID: categoryID}
}

func TestWatcher_OtraCategoriaSeIgnora(t *testing.T) {
	n := newNotifier()
	w := ticket.NewWatcher(entity.TicketWatchConfig{CategoryID: categoryID, AlertUserID: alertUser}, n, logger.Nop())

	ch := ticketChannel("general")
	ch.ParentID = "999"
	assert.Equal(t, ticket.OutcomeIgnored, w.OnChannelCreated(context.Background(), ch))
	assert.Empty(t, n.sent)
}

func TestWatcher_CategoriaNoConfiguradaIgnoraCanalesSinPadre(t *testing.T) {
	n := newNotifier()
	w := ticket.NewWatcher(entity.TicketWatchConfig{AlertUserID: alertUser}, n, logger.Nop())

	ch := ticketChannel("sin-categoria")
	ch.ParentID = ""
	assert.Equal(t, ticket.OutcomeIgnored, w.OnChannelCreated(context.Background(), ch))
}

func TestWatcher_SinDestinatarioSoloRegistra(t *testing.T) {
	var buf bytes.Buffer
	log := logger.FromZerolog(zerolog.New(&buf))
	n := newNotifier()
	w := ticket.NewWatcher(entity.TicketWatchConfig{CategoryID: categoryID}, n, log)

	out := w.OnChannelCreated(context.Background(), ticketChannel("ticket-123456789012345678"))
	assert.Equal(t, ticket.OutcomeNoRecipient, out)
	assert.Empty(t, n.sent)
	assert.Contains(t, buf.String(), "alert_user_id no configurado")
}

func TestWatcher_AlertaConAutorResuelto(t *testing.T) {
	n := newNotifier()
	w := ticket.NewWatcher(entity.TicketWatchConfig{CategoryID: categoryID, AlertUserID: alertUser}, n, logger.Nop())

	out := w.OnChannelCreated(context.Background(), ticketChannel("ticket-123456789012345678"))
	require.Equal(t, ticket.OutcomeAlerted, out)
	require.Len(t, n.sent, 1)

	dm := n.sent[0]
	assert.Equal(t, alertUser, dm.to)
	assert.Equal(t, "🎟️ New Ticket Opened", dm.payload.Title)
	assert.Equal(t, "A new ticket was created: <#500000000000000001>", dm.payload.Description)
	assert.Contains(t, dm.payload.Fields, entity.DisplayField{Name: "Opened By", Value: "buyer (123456789012345678)", Inline: true})
}

func TestWatcher_AutorNoResueltoMuestraIDCrudo(t *testing.T) {
	n := newNotifier()
	w := ticket.NewWatcher(entity.TicketWatchConfig{CategoryID: categoryID, AlertUserID: alertUser}, n, logger.Nop())

	out := w.OnChannelCreated(context.Background(), ticketChannel("ticket-98765432109876543"))
	require.Equal(t, ticket.OutcomeAlerted, out)
	assert.Contains(t, n.sent[0].payload.Fields, entity.DisplayField{Name: "Opened By", Value: "User ID 98765432109876543", Inline: true})
}

func TestWatcher_SinIDEnNombreNoAtribuye(t *testing.T) {
	n := newNotifier()
	w := ticket.NewWatcher(entity.TicketWatchConfig{CategoryID: categoryID, AlertUserID: alertUser}, n, logger.Nop())

	require.Equal(t, ticket.OutcomeAlerted, w.OnChannelCreated(context.Background(), ticketChannel("ticket-0042")))
	for _, f := range n.sent[0].payload.Fields {
		assert.NotEqual(t, "Opened By", f.Name)
	}
}

func TestWatcher_FallosNoSePropagan(t *testing.T) {
	cfg := entity.TicketWatchConfig{CategoryID: categoryID, AlertUserID: alertUser}

	n := newNotifier()
	n.sendErr = fmt.Errorf("%w: cannot send messages to this user", domain.ErrPlatformCall)
	assert.Equal(t, ticket.OutcomeFailed, ticket.NewWatcher(cfg, n, logger.Nop()).OnChannelCreated(context.Background(), ticketChannel("t")))

	n = newNotifier()
	delete(n.users, alertUser)
	assert.Equal(t, ticket.OutcomeFailed, ticket.NewWatcher(cfg, n, logger.Nop()).OnChannelCreated(context.Background(), ticketChannel("t")))

	n = newNotifier()
	n.panics = true
	assert.NotPanics(t, func() {
		out := ticket.NewWatcher(cfg, n, logger.Nop()).OnChannelCreated(context.Background(), ticketChannel("t"))
		assert.Equal(t, ticket.OutcomeFailed, out)
	})
}

func TestExtractUserID(t *testing.T) {
	assert.Equal(t, "123456789012345678", ticket.ExtractUserID("ticket-123456789012345678"))
	assert.Equal(t, "12345678901234567", ticket.ExtractUserID(" 12345678901234567-support "))
	assert.Equal(t, "", ticket.ExtractUserID("ticket-1234567890123456"), "16 dígitos no alcanzan")
	assert.Equal(t, "", ticket.ExtractUserID("ticket-abc"))
}

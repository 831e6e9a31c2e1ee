package discord_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-bot/internal/domain"
	"github.com/jhoicas/stock-bot/internal/domain/entity"
	"github.com/jhoicas/stock-bot/internal/infrastructure/discord"
	"github.com/jhoicas/stock-bot/pkg/logger"
)

const botID = "400000000000000001"

// fakeAPI implementa discord.API en memoria.
type fakeAPI struct {
	channels    map[string]*discordgo.Channel
	perms       int64
	history     []*discordgo.Message
	sent        []*discordgo.MessageEmbed
	sentTo      []string
	edited      []string
	editErr     error
	users       map[string]*discordgo.User
	guilds      map[string]bool
	overwrites  map[string]int
	responses   []*discordgo.InteractionResponse
	replyEdits  []string
	historySize int
}

func restError(status, code int) error {
	return &discordgo.RESTError{
		Response: &http.Response{StatusCode: status},
		Message:  &discordgo.APIErrorMessage{Code: code, Message: "fallo"},
	}
}

func (f *fakeAPI) Channel(id string, _ ...discordgo.RequestOption) (*discordgo.Channel, error) {
	if ch, ok := f.channels[id]; ok {
		return ch, nil
	}
	return nil, restError(http.StatusNotFound, discordgo.ErrCodeUnknownChannel)
}

func (f *fakeAPI) Guild(id string, _ ...discordgo.RequestOption) (*discordgo.Guild, error) {
	if f.guilds[id] {
		return &discordgo.Guild{ID: id}, nil
	}
	return nil, restError(http.StatusNotFound, discordgo.ErrCodeUnknownGuild)
}

func (f *fakeAPI) UserChannelPermissions(_, _ string, _ ...discordgo.RequestOption) (int64, error) {
	return f.perms, nil
}

func (f *fakeAPI) ChannelMessages(_ string, limit int, _, _, _ string, _ ...discordgo.RequestOption) ([]*discordgo.Message, error) {
	f.historySize = limit
	return f.history, nil
}

func (f *fakeAPI) ChannelMessageSendEmbed(channelID string, e *discordgo.MessageEmbed, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.sent = append(f.sent, e)
	f.sentTo = append(f.sentTo, channelID)
	return &discordgo.Message{ID: "nuevo"}, nil
}

func (f *fakeAPI) ChannelMessageEditEmbed(_, messageID string, _ *discordgo.MessageEmbed, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	if f.editErr != nil {
		return nil, f.editErr
	}
	f.edited = append(f.edited, messageID)
	return &discordgo.Message{ID: messageID}, nil
}

func (f *fakeAPI) User(id string, _ ...discordgo.RequestOption) (*discordgo.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, restError(http.StatusNotFound, discordgo.ErrCodeUnknownUser)
}

func (f *fakeAPI) UserChannelCreate(id string, _ ...discordgo.RequestOption) (*discordgo.Channel, error) {
	return &discordgo.Channel{ID: "dm-" + id, Type: discordgo.ChannelTypeDM}, nil
}

func (f *fakeAPI) ApplicationCommandBulkOverwrite(_ string, guildID string, cmds []*discordgo.ApplicationCommand, _ ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error) {
	if f.overwrites == nil {
		f.overwrites = map[string]int{}
	}
	f.overwrites[guildID] = len(cmds)
	return cmds, nil
}

func (f *fakeAPI) InteractionRespond(_ *discordgo.Interaction, resp *discordgo.InteractionResponse, _ ...discordgo.RequestOption) error {
	f.responses = append(f.responses, resp)
	return nil
}

func (f *fakeAPI) InteractionResponseEdit(_ *discordgo.Interaction, edit *discordgo.WebhookEdit, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.replyEdits = append(f.replyEdits, *edit.Content)
	return &discordgo.Message{}, nil
}

func newClient(api *fakeAPI) *discord.Client {
	return discord.NewClientFromAPI(api, botID, logger.Nop())
}

func TestResolveChannel(t *testing.T) {
	api := &fakeAPI{channels: map[string]*discordgo.Channel{
		"c1": {ID: "c1", GuildID: "g1"},
	}}
	c := newClient(api)

	id, err := c.ResolveChannel(context.Background(), entity.ChannelTarget{GuildID: "g1", ChannelID: "c1"})
	require.NoError(t, err)
	assert.Equal(t, "c1", id)

	_, err = c.ResolveChannel(context.Background(), entity.ChannelTarget{GuildID: "g1", ChannelID: "c2"})
	assert.ErrorIs(t, err, domain.ErrChannelNotFound)

	_, err = c.ResolveChannel(context.Background(), entity.ChannelTarget{GuildID: "g2", ChannelID: "c1"})
	assert.ErrorIs(t, err, domain.ErrChannelNotFound, "canal de otro servidor")

	_, err = c.ResolveChannel(context.Background(), entity.ChannelTarget{})
	assert.ErrorIs(t, err, domain.ErrChannelNotFound)
}

func TestResolveChannel_CacheAplicaElMismoFiltroDeServidor(t *testing.T) {
	state := discordgo.NewState()
	require.NoError(t, state.GuildAdd(&discordgo.Guild{
		ID:       "g1",
		Channels: []*discordgo.Channel{{ID: "c9", GuildID: "g1"}},
	}))
	// El canal solo existe en la caché: REST devolvería 404.
	c := newClient(&fakeAPI{}).WithState(state)

	id, err := c.ResolveChannel(context.Background(), entity.ChannelTarget{GuildID: "g1", ChannelID: "c9"})
	require.NoError(t, err)
	assert.Equal(t, "c9", id)

	_, err = c.ResolveChannel(context.Background(), entity.ChannelTarget{GuildID: "g2", ChannelID: "c9"})
	assert.ErrorIs(t, err, domain.ErrChannelNotFound)
}

func TestCanPostEmbeds_RequiereAmbosPermisos(t *testing.T) {
	api := &fakeAPI{perms: discordgo.PermissionSendMessages}
	ok, err := newClient(api).CanPostEmbeds(context.Background(), "c1")
	require.NoError(t, err)
	assert.False(t, ok)

	api.perms = discordgo.PermissionSendMessages | discordgo.PermissionEmbedLinks | discordgo.PermissionViewChannel
	ok, err = newClient(api).CanPostEmbeds(context.Background(), "c1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRecentMessages_ConvierteAutores(t *testing.T) {
	api := &fakeAPI{history: []*discordgo.Message{
		{ID: "m2", Author: &discordgo.User{ID: botID}},
		{ID: "m1"},
	}}
	msgs, err := newClient(api).RecentMessages(context.Background(), "c1", 100)
	require.NoError(t, err)
	assert.Equal(t, []entity.Message{{ID: "m2", AuthorID: botID}, {ID: "m1"}}, msgs)
	assert.Equal(t, 100, api.historySize)
}

func TestEditPayload_MensajeDesconocido(t *testing.T) {
	api := &fakeAPI{editErr: restError(http.StatusNotFound, discordgo.ErrCodeUnknownMessage)}
	err := newClient(api).EditPayload(context.Background(), "c1", "m1", entity.DisplayPayload{})
	assert.ErrorIs(t, err, domain.ErrMessageNotFound)
}

func TestEditPayload_OtrosErroresSonDePlataforma(t *testing.T) {
	api := &fakeAPI{editErr: errors.New("connection reset")}
	err := newClient(api).EditPayload(context.Background(), "c1", "m1", entity.DisplayPayload{})
	assert.ErrorIs(t, err, domain.ErrPlatformCall)

	api.editErr = restError(http.StatusForbidden, discordgo.ErrCodeMissingPermissions)
	err = newClient(api).EditPayload(context.Background(), "c1", "m1", entity.DisplayPayload{})
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)
}

func TestFetchUserYSendDirect(t *testing.T) {
	api := &fakeAPI{users: map[string]*discordgo.User{"u1": {ID: "u1", Username: "owner", Discriminator: "0"}}}
	c := newClient(api)

	u, err := c.FetchUser(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, entity.User{ID: "u1", Username: "owner"}, u)

	_, err = c.FetchUser(context.Background(), "u2")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	require.NoError(t, c.SendDirect(context.Background(), "u1", entity.DisplayPayload{Title: "alerta"}))
	assert.Equal(t, []string{"dm-u1"}, api.sentTo)
	assert.Equal(t, "alerta", api.sent[0].Title)
}

func TestGuildAvailableYRegisterCommands(t *testing.T) {
	api := &fakeAPI{guilds: map[string]bool{"g1": true}}
	c := newClient(api)

	assert.True(t, c.GuildAvailable(context.Background(), "g1"))
	assert.False(t, c.GuildAvailable(context.Background(), "g2"))

	require.NoError(t, c.RegisterCommands(context.Background(), "g1"))
	require.NoError(t, c.RegisterCommands(context.Background(), ""))
	assert.Equal(t, map[string]int{"g1": 6, "": 6}, api.overwrites)
}

func TestDeferYEditReply(t *testing.T) {
	api := &fakeAPI{}
	c := newClient(api)
	i := &discordgo.Interaction{ID: "i1"}

	require.NoError(t, c.DeferReply(context.Background(), i, true))
	require.Len(t, api.responses, 1)
	assert.Equal(t, discordgo.InteractionResponseDeferredChannelMessageWithSource, api.responses[0].Type)
	assert.Equal(t, discordgo.MessageFlagsEphemeral, api.responses[0].Data.Flags)

	require.NoError(t, c.EditReply(context.Background(), i, "listo"))
	assert.Equal(t, []string{"listo"}, api.replyEdits)
}

func TestToEmbed(t *testing.T) {
	ts := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	e := discord.ToEmbed(entity.DisplayPayload{
		Title:     "T",
		Color:     0x00AAFF,
		Timestamp: ts,
		Fields:    []entity.DisplayField{{Name: "a", Value: "b"}},
	})
	assert.Equal(t, "T", e.Title)
	assert.Equal(t, 0x00AAFF, e.Color)
	assert.Equal(t, "2026-10-15T12:00:00Z", e.Timestamp)
	require.Len(t, e.Fields, 1)
	assert.Equal(t, &discordgo.MessageEmbedField{Name: "a", Value: "b"}, e.Fields[0])

	assert.Empty(t, discord.ToEmbed(entity.DisplayPayload{}).Timestamp)
}

func TestCommands_Definidos(t *testing.T) {
	names := map[string]int{}
	for _, c := range discord.Commands() {
		names[c.Name] = len(c.Options)
	}
	assert.Equal(t, map[string]int{
		"addstock": 2, "removestock": 2, "restockmessage": 0,
		"liststock": 0, "getstatus": 1, "resetstock": 0,
	}, names)
}

package services

import (
	"strings"
	"testing"
	"time"

	"github.com/ayatori/workspace-chat-api/internal/constants"
	"github.com/ayatori/workspace-chat-api/internal/models"
	"github.com/ayatori/workspace-chat-api/internal/scheduler"
	"github.com/ayatori/workspace-chat-api/internal/store"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type messageTestEnv struct {
	svc       *MessageService
	st        *store.Store
	ownerID   uint64
	memberID  uint64
	channelID uint64
}

func newMessageTestEnv(t *testing.T) messageTestEnv {
	t.Helper()
	st := store.New()
	ownerID, err := st.CreateUser(&models.User{Email: "owner@example.com", NameFirst: "Olive", NameLast: "Owner", Handle: "oliveowner"})
	require.NoError(t, err)
	memberID, err := st.CreateUser(&models.User{Email: "member@example.com", NameFirst: "Mia", NameLast: "Member", Handle: "miamember"})
	require.NoError(t, err)

	channelID, err := st.CreateChannel("general", true, memberID)
	require.NoError(t, err)

	sched := scheduler.New(zap.NewNop())
	t.Cleanup(sched.Stop)

	return messageTestEnv{
		svc:       NewMessageService(st, sched, zap.NewNop()),
		st:        st,
		ownerID:   ownerID,
		memberID:  memberID,
		channelID: channelID,
	}
}

func TestMessageSend(t *testing.T) {
	env := newMessageTestEnv(t)

	messageID, err := env.svc.Send(env.memberID, env.channelID, "hello")
	require.NoError(t, err)

	message, err := env.st.GetMessage(messageID)
	require.NoError(t, err)
	require.Equal(t, "hello", message.Body)
	require.Equal(t, env.memberID, message.UserID)
	require.NotZero(t, message.TimeCreated)

	// Workspace owners still need membership to post
	_, err = env.svc.Send(env.ownerID, env.channelID, "hello")
	require.ErrorIs(t, err, ErrNotMember)

	_, err = env.svc.Send(env.memberID, env.channelID, strings.Repeat("x", 1001))
	require.ErrorIs(t, err, ErrMessageTooLong)

	// Exactly at the limit is fine, counting characters rather than bytes
	_, err = env.svc.Send(env.memberID, env.channelID, strings.Repeat("x", 1000))
	require.NoError(t, err)
	_, err = env.svc.Send(env.memberID, env.channelID, strings.Repeat("ü", 1000))
	require.NoError(t, err)
	_, err = env.svc.Send(env.memberID, env.channelID, strings.Repeat("ü", 1001))
	require.ErrorIs(t, err, ErrMessageTooLong)
}

func TestMessageSendLater(t *testing.T) {
	env := newMessageTestEnv(t)

	fireAt := time.Now().Unix() + 1
	messageID, err := env.svc.SendLater(env.memberID, env.channelID, "from the future", fireAt)
	require.NoError(t, err)

	// Not visible before the send time
	_, err = env.st.GetMessage(messageID)
	require.ErrorIs(t, err, store.ErrMessageNotFound)

	require.Eventually(t, func() bool {
		_, err := env.st.GetMessage(messageID)
		return err == nil
	}, 3*time.Second, 20*time.Millisecond)

	message, err := env.st.GetMessage(messageID)
	require.NoError(t, err)
	require.Equal(t, "from the future", message.Body)

	_, err = env.svc.SendLater(env.memberID, env.channelID, "too late", time.Now().Unix()-10)
	require.ErrorIs(t, err, ErrTimeInPast)
}

func TestMessageSendLater_IDReservedUpFront(t *testing.T) {
	env := newMessageTestEnv(t)

	deferredID, err := env.svc.SendLater(env.memberID, env.channelID, "later", time.Now().Unix()+1)
	require.NoError(t, err)
	immediateID, err := env.svc.Send(env.memberID, env.channelID, "now")
	require.NoError(t, err)
	require.Greater(t, immediateID, deferredID)
}

func TestMessageEdit(t *testing.T) {
	env := newMessageTestEnv(t)
	require.NoError(t, env.st.AddMember(env.channelID, env.ownerID))

	thirdID, err := env.st.CreateUser(&models.User{Email: "third@example.com", NameFirst: "Theo", NameLast: "Third", Handle: "theothird"})
	require.NoError(t, err)
	require.NoError(t, env.st.AddMember(env.channelID, thirdID))

	messageID, err := env.svc.Send(env.memberID, env.channelID, "original")
	require.NoError(t, err)

	// A plain member who is not the author cannot edit
	require.ErrorIs(t, env.svc.Edit(thirdID, messageID, "hijacked"), ErrNotAuthorized)

	// The author can
	require.NoError(t, env.svc.Edit(env.memberID, messageID, "edited"))
	message, err := env.st.GetMessage(messageID)
	require.NoError(t, err)
	require.Equal(t, "edited", message.Body)

	// A workspace owner can too
	require.NoError(t, env.svc.Edit(env.ownerID, messageID, "moderated"))

	// Editing to empty removes the message
	require.NoError(t, env.svc.Edit(env.memberID, messageID, ""))
	_, err = env.st.GetMessage(messageID)
	require.ErrorIs(t, err, store.ErrMessageNotFound)
	require.Len(t, env.st.RemovedMessages(), 1)
}

func TestMessageRemove_Permissions(t *testing.T) {
	env := newMessageTestEnv(t)

	thirdID, err := env.st.CreateUser(&models.User{Email: "third@example.com", NameFirst: "Theo", NameLast: "Third", Handle: "theothird"})
	require.NoError(t, err)
	require.NoError(t, env.st.AddMember(env.channelID, thirdID))

	messageID, err := env.svc.Send(thirdID, env.channelID, "hello")
	require.NoError(t, err)

	// The channel creator is a channel owner, so they may remove
	require.NoError(t, env.svc.Remove(env.memberID, messageID))
	require.ErrorIs(t, env.svc.Remove(env.memberID, messageID), ErrMessageNotFound)
}

func TestMessagePin(t *testing.T) {
	env := newMessageTestEnv(t)

	thirdID, err := env.st.CreateUser(&models.User{Email: "third@example.com", NameFirst: "Theo", NameLast: "Third", Handle: "theothird"})
	require.NoError(t, err)
	require.NoError(t, env.st.AddMember(env.channelID, thirdID))

	messageID, err := env.svc.Send(thirdID, env.channelID, "important")
	require.NoError(t, err)

	// Plain members cannot pin
	require.ErrorIs(t, env.svc.Pin(thirdID, messageID), ErrNotAuthorized)

	require.NoError(t, env.svc.Pin(env.memberID, messageID))
	require.ErrorIs(t, env.svc.Pin(env.memberID, messageID), ErrAlreadyPinned)
	require.NoError(t, env.svc.Unpin(env.memberID, messageID))
	require.ErrorIs(t, env.svc.Unpin(env.memberID, messageID), ErrNotPinned)
}

func TestMessageReact(t *testing.T) {
	env := newMessageTestEnv(t)

	messageID, err := env.svc.Send(env.memberID, env.channelID, "react to me")
	require.NoError(t, err)

	require.ErrorIs(t, env.svc.React(env.memberID, messageID, 99), ErrInvalidReact)
	require.ErrorIs(t, env.svc.React(env.ownerID, messageID, constants.ReactThumbsUp), ErrNotMember)

	require.NoError(t, env.svc.React(env.memberID, messageID, constants.ReactThumbsUp))
	require.ErrorIs(t, env.svc.React(env.memberID, messageID, constants.ReactThumbsUp), ErrAlreadyReacted)

	require.NoError(t, env.svc.Unreact(env.memberID, messageID, constants.ReactThumbsUp))
	require.ErrorIs(t, env.svc.Unreact(env.memberID, messageID, constants.ReactThumbsUp), ErrNotReacted)
}

func TestMessagePage(t *testing.T) {
	env := newMessageTestEnv(t)

	for i := 0; i < 3; i++ {
		_, err := env.svc.Send(env.memberID, env.channelID, "message")
		require.NoError(t, err)
	}

	messages, end, err := env.svc.Page(env.memberID, env.channelID, 0)
	require.NoError(t, err)
	require.Len(t, messages, 3)
	require.Equal(t, -1, end)

	_, _, err = env.svc.Page(env.ownerID, env.channelID, 0)
	require.ErrorIs(t, err, ErrNotMember)

	_, _, err = env.svc.Page(env.memberID, env.channelID, 4)
	require.ErrorIs(t, err, ErrInvalidPageStart)
}

func TestMessageSearch(t *testing.T) {
	env := newMessageTestEnv(t)

	_, err := env.svc.Send(env.memberID, env.channelID, "Needle in a haystack")
	require.NoError(t, err)
	_, err = env.svc.Send(env.memberID, env.channelID, "nothing here")
	require.NoError(t, err)

	results := env.svc.Search(env.memberID, "NEEDLE")
	require.Len(t, results, 1)

	// Search never crosses membership boundaries
	require.Empty(t, env.svc.Search(env.ownerID, "needle"))
}

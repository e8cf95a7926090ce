package services

import (
	"testing"
	"time"

	"github.com/ayatori/workspace-chat-api/internal/models"
	"github.com/ayatori/workspace-chat-api/internal/scheduler"
	"github.com/ayatori/workspace-chat-api/internal/store"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type standupTestEnv struct {
	svc       *StandupService
	st        *store.Store
	aliceID   uint64
	bobID     uint64
	channelID uint64
}

func newStandupTestEnv(t *testing.T) standupTestEnv {
	t.Helper()
	st := store.New()
	aliceID, err := st.CreateUser(&models.User{Email: "alice@example.com", NameFirst: "Alice", NameLast: "Archer", Handle: "alicearcher"})
	require.NoError(t, err)
	bobID, err := st.CreateUser(&models.User{Email: "bob@example.com", NameFirst: "Bob", NameLast: "Baker", Handle: "bobbaker"})
	require.NoError(t, err)

	channelID, err := st.CreateChannel("general", true, aliceID)
	require.NoError(t, err)
	require.NoError(t, st.AddMember(channelID, bobID))

	sched := scheduler.New(zap.NewNop())
	t.Cleanup(sched.Stop)

	return standupTestEnv{
		svc:       NewStandupService(st, sched, zap.NewNop()),
		st:        st,
		aliceID:   aliceID,
		bobID:     bobID,
		channelID: channelID,
	}
}

func latestMessage(t *testing.T, st *store.Store, channelID uint64) models.Message {
	t.Helper()
	messages, _, err := st.PageMessages(channelID, 0)
	require.NoError(t, err)
	require.NotEmpty(t, messages)
	return messages[0]
}

func TestStandupFlow(t *testing.T) {
	env := newStandupTestEnv(t)

	finish, err := env.svc.Start(env.aliceID, env.channelID, 1)
	require.NoError(t, err)
	require.InDelta(t, time.Now().Unix()+1, finish, 2)

	_, err = env.svc.Start(env.bobID, env.channelID, 1)
	require.ErrorIs(t, err, ErrStandupRunning)

	active, reported, err := env.svc.Active(env.channelID)
	require.NoError(t, err)
	require.True(t, active)
	require.Equal(t, finish, reported)

	require.NoError(t, env.svc.Send(env.aliceID, env.channelID, "shipped the thing"))
	require.NoError(t, env.svc.Send(env.bobID, env.channelID, "reviewed the thing"))

	require.Eventually(t, func() bool {
		active, _, err := env.svc.Active(env.channelID)
		return err == nil && !active
	}, 3*time.Second, 20*time.Millisecond)

	require.Eventually(t, func() bool {
		messages, _, err := env.st.PageMessages(env.channelID, 0)
		return err == nil && len(messages) == 1
	}, 3*time.Second, 20*time.Millisecond)

	digest := latestMessage(t, env.st, env.channelID)
	require.Equal(t, "alice: shipped the thing\nbob: reviewed the thing\n", digest.Body)
	require.Equal(t, env.aliceID, digest.UserID)

	// The window is closed; late contributions are rejected
	require.ErrorIs(t, env.svc.Send(env.bobID, env.channelID, "one more"), ErrNoStandup)
}

func TestStandupFlush_EmptyWindowStillPosts(t *testing.T) {
	env := newStandupTestEnv(t)

	_, err := env.svc.Start(env.aliceID, env.channelID, 1)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		messages, _, err := env.st.PageMessages(env.channelID, 0)
		return err == nil && len(messages) == 1
	}, 3*time.Second, 20*time.Millisecond)

	digest := latestMessage(t, env.st, env.channelID)
	require.Empty(t, digest.Body)
}

func TestStandupSend_Checks(t *testing.T) {
	env := newStandupTestEnv(t)

	outsiderID, err := env.st.CreateUser(&models.User{Email: "carol@example.com", NameFirst: "Carol", NameLast: "Cook", Handle: "carolcook"})
	require.NoError(t, err)

	require.ErrorIs(t, env.svc.Send(env.aliceID, env.channelID, "no window"), ErrNoStandup)
	require.ErrorIs(t, env.svc.Send(outsiderID, env.channelID, "not a member"), ErrNotMember)
	require.ErrorIs(t, env.svc.Send(env.aliceID, 999, "no channel"), ErrChannelNotFound)

	_, err = env.svc.Start(env.aliceID, 999, 10)
	require.ErrorIs(t, err, ErrChannelNotFound)
}

func TestStandupActive_IsAPlainStatusQuery(t *testing.T) {
	env := newStandupTestEnv(t)

	// Non-members may ask; only sending requires membership
	active, _, err := env.svc.Active(env.channelID)
	require.NoError(t, err)
	require.False(t, active)

	finish, err := env.svc.Start(env.aliceID, env.channelID, 60)
	require.NoError(t, err)

	active, reported, err := env.svc.Active(env.channelID)
	require.NoError(t, err)
	require.True(t, active)
	require.Equal(t, finish, reported)

	_, _, err = env.svc.Active(999)
	require.ErrorIs(t, err, ErrChannelNotFound)
}

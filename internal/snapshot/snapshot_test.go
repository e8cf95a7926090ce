package snapshot

import (
	"path/filepath"
	"testing"

	"github.com/ayatori/workspace-chat-api/internal/constants"
	"github.com/ayatori/workspace-chat-api/internal/models"
	"github.com/ayatori/workspace-chat-api/internal/store"
	"github.com/stretchr/testify/require"
)

func TestSaveAndLoadRoundTrip(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "snapshot.db")
	db, err := Open("sqlite", dbPath)
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	st := store.New()
	ownerID, err := st.CreateUser(&models.User{Email: "a@example.com", NameFirst: "Ada", NameLast: "Byron", Handle: "adabyron"})
	require.NoError(t, err)
	channelID, err := st.CreateChannel("general", false, ownerID)
	require.NoError(t, err)
	messageID, err := st.AppendMessage(&models.Message{ChannelID: channelID, UserID: ownerID, Body: "persisted", TimeCreated: 42})
	require.NoError(t, err)
	require.NoError(t, st.AddReact(messageID, ownerID, constants.ReactThumbsUp))
	doomedID, err := st.AppendMessage(&models.Message{ChannelID: channelID, UserID: ownerID, Body: "gone"})
	require.NoError(t, err)
	require.NoError(t, st.RemoveMessage(doomedID))
	require.NoError(t, st.OpenStandup(channelID, 5000))
	require.NoError(t, st.AppendStandupEntry(channelID, "ada", "wrote a program"))
	st.AddSession("token-1", ownerID)

	require.NoError(t, Save(db, st.State()))

	loaded, found, err := Load(db)
	require.NoError(t, err)
	require.True(t, found)

	restored := store.New()
	restored.Restore(loaded)

	user, err := restored.GetUser(ownerID)
	require.NoError(t, err)
	require.Equal(t, "a@example.com", user.Email)
	require.Equal(t, constants.PermissionOwner, user.PermissionID)

	channel, err := restored.GetChannel(channelID)
	require.NoError(t, err)
	require.False(t, channel.IsPublic)
	require.Len(t, channel.Members, 1)
	require.True(t, channel.Members[0].IsOwner)

	message, err := restored.GetMessage(messageID)
	require.NoError(t, err)
	require.Equal(t, "persisted", message.Body)
	require.Equal(t, int64(42), message.TimeCreated)
	require.True(t, message.Reacts[0].HasUser(ownerID))

	removed := restored.RemovedMessages()
	require.Len(t, removed, 1)
	require.Equal(t, "gone", removed[0].Body)

	active, finish, err := restored.StandupStatus(channelID)
	require.NoError(t, err)
	require.True(t, active)
	require.Equal(t, int64(5000), finish)
	entries, err := restored.CloseStandup(channelID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "ada", entries[0].Name)

	sessionUser, ok := restored.SessionUserID("token-1")
	require.True(t, ok)
	require.Equal(t, ownerID, sessionUser)

	nextID, err := restored.CreateUser(&models.User{Email: "b@example.com", Handle: "two"})
	require.NoError(t, err)
	require.Equal(t, uint64(2), nextID)
}

func TestSave_ReplacesPreviousSnapshot(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "snapshot.db")
	db, err := Open("sqlite", dbPath)
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	st := store.New()
	_, err = st.CreateUser(&models.User{Email: "a@example.com", Handle: "one"})
	require.NoError(t, err)
	require.NoError(t, Save(db, st.State()))

	_, err = st.CreateUser(&models.User{Email: "b@example.com", Handle: "two"})
	require.NoError(t, err)
	require.NoError(t, Save(db, st.State()))

	loaded, found, err := Load(db)
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, loaded.Users, 2)
}

func TestLoad_EmptyDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "snapshot.db")
	db, err := Open("sqlite", dbPath)
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	_, found, err := Load(db)
	require.NoError(t, err)
	require.False(t, found)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open("oracle", "dsn")
	require.Error(t, err)
}

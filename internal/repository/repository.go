package repository

import "github.com/ayatori/workspace-chat-api/internal/models"

// UserRepository defines the interface for user and session data access
type UserRepository interface {
	// CreateUser registers a user and returns its assigned id
	CreateUser(user *models.User) (uint64, error)

	// GetUser finds a user by id
	GetUser(id uint64) (*models.User, error)

	// FindUserByEmail finds a user by registered email
	FindUserByEmail(email string) (*models.User, error)

	// HandleTaken reports whether a handle is in use
	HandleTaken(handle string) bool

	// EmailTaken reports whether an email is registered
	EmailTaken(email string) bool

	// ListUsers returns all users in registration order
	ListUsers() []models.User

	// SetUserName updates a user's name everywhere it is cached
	SetUserName(userID uint64, nameFirst, nameLast string) error

	// SetUserEmail updates a user's email
	SetUserEmail(userID uint64, email string) error

	// SetUserHandle updates a user's handle
	SetUserHandle(userID uint64, handle string) error

	// SetPermission updates a user's global permission id
	SetPermission(userID uint64, permissionID int) error

	// SetResetCode attaches a password reset code to an email's owner
	SetResetCode(email, code string)

	// ConsumeResetCode redeems a reset code for a new password hash
	ConsumeResetCode(code, passwordHash string) error

	// RemoveUser removes a user and anonymizes their message history
	RemoveUser(userID uint64) error

	// AddSession records an active login token
	AddSession(token string, userID uint64)

	// RemoveSession invalidates a login token
	RemoveSession(token string) error

	// SessionUserID resolves an active token to a user id
	SessionUserID(token string) (uint64, bool)
}

// ChannelRepository defines the interface for channel membership data access
type ChannelRepository interface {
	// CreateChannel creates a channel owned by its creator
	CreateChannel(name string, isPublic bool, creatorID uint64) (uint64, error)

	// GetChannel finds a channel by id, members included
	GetChannel(id uint64) (*models.Channel, error)

	// ListChannels returns every channel in creation order
	ListChannels() []models.Channel

	// ListChannelsForUser returns the channels a user belongs to
	ListChannelsForUser(userID uint64) []models.Channel

	// AddMember adds a user to a channel
	AddMember(channelID, userID uint64) error

	// RemoveMember removes a user from members and owners
	RemoveMember(channelID, userID uint64) error

	// IsMember reports channel membership
	IsMember(channelID, userID uint64) (bool, error)

	// IsOwner reports channel ownership
	IsOwner(channelID, userID uint64) (bool, error)

	// PromoteOwner marks a user as channel owner
	PromoteOwner(channelID, userID uint64) error

	// DemoteOwner clears a user's channel ownership
	DemoteOwner(channelID, userID uint64) error
}

// MessageRepository defines the interface for message ledger data access
type MessageRepository interface {
	// ReserveMessageID allocates the next message id without a message
	ReserveMessageID() uint64

	// AppendMessage records a message, assigning an id when zero
	AppendMessage(message *models.Message) (uint64, error)

	// GetMessage finds a live message by id
	GetMessage(id uint64) (*models.Message, error)

	// PageMessages lists a channel's messages most recent first
	PageMessages(channelID uint64, start int) ([]models.Message, int, error)

	// EditMessage replaces a message body
	EditMessage(id uint64, body string) error

	// RemoveMessage moves a message to the tombstone log
	RemoveMessage(id uint64) error

	// SetPinned marks or unmarks a message as pinned
	SetPinned(id uint64, pinned bool) error

	// AddReact attaches a (user, react kind) pair
	AddReact(id, userID uint64, reactID int64) error

	// RemoveReact detaches a (user, react kind) pair
	RemoveReact(id, userID uint64, reactID int64) error

	// SearchMessages finds messages visible to a user matching a query
	SearchMessages(userID uint64, query string) []models.Message

	// IsMember reports channel membership, for authorization checks
	IsMember(channelID, userID uint64) (bool, error)

	// IsOwner reports channel ownership, for authorization checks
	IsOwner(channelID, userID uint64) (bool, error)

	// GetUser finds a user by id, for workspace-owner checks
	GetUser(id uint64) (*models.User, error)
}

// WorkspaceRepository defines the interface for whole-workspace operations
type WorkspaceRepository interface {
	// Reset drops all state and restarts id numbering from one
	Reset()
}

// StandupRepository defines the interface for standup window data access
type StandupRepository interface {
	// OpenStandup opens a channel's standup window
	OpenStandup(channelID uint64, finish int64) error

	// AppendStandupEntry buffers a contribution to an open window
	AppendStandupEntry(channelID uint64, name, text string) error

	// CloseStandup drains the buffer and closes the window
	CloseStandup(channelID uint64) ([]models.StandupEntry, error)

	// StandupStatus reports whether a window is open and when it closes
	StandupStatus(channelID uint64) (bool, int64, error)

	// GetUser finds a user by id, for display-name snapshots
	GetUser(id uint64) (*models.User, error)

	// IsMember reports channel membership
	IsMember(channelID, userID uint64) (bool, error)

	// AppendMessage records the flushed digest message
	AppendMessage(message *models.Message) (uint64, error)
}

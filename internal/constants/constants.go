package constants

// ContextKeyUserID is the gin context key under which the authenticated
// user's id is stored by the auth middleware.
const ContextKeyUserID = "user_id"

// ContextKeyToken is the gin context key under which the bearer token that
// authenticated the request is stored, so logout can revoke it.
const ContextKeyToken = "token"

// Global permission ids. The first registered user becomes a workspace
// owner; everyone after that is a plain member.
const (
	PermissionOwner  int = 1
	PermissionMember int = 2
)

// DeletedUserID is the reserved author id that removed users are anonymized
// to in message history. Real user ids start at 1.
const DeletedUserID uint64 = 0

// Validation limits, matching the public API contract.
const (
	MinPasswordLength = 6
	MinNameLength     = 1
	MaxNameLength     = 50
	MinHandleLength   = 2
	MaxHandleLength   = 20
	MinChannelNameLen = 1
	MaxChannelNameLen = 20
	MaxMessageLength  = 1000
	MessagesPerPage   = 50
)

// ReactThumbsUp is currently the only recognized react kind.
const ReactThumbsUp int64 = 1

// ValidReactID reports whether a react kind is recognized.
func ValidReactID(id int64) bool {
	return id == ReactThumbsUp
}

// ValidPermissionID reports whether a global permission id is recognized.
func ValidPermissionID(id int) bool {
	return id == PermissionOwner || id == PermissionMember
}

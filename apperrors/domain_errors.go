package apperrors

var (
	ErrMissingToken      = Unauthenticated("missing bearer token")
	ErrInvalidToken      = Unauthenticated("invalid or expired token")
	ErrIdeaNotFound      = NotFound("idea not found")
	ErrIdeaInactive      = InvalidState("idea is no longer active")
	ErrOwnIdeaSwipe      = InvalidState("cannot swipe on your own idea")
	ErrInvalidDirection  = InvalidRequest("direction must be left or right")
	ErrSelfRequest       = InvalidRequest("cannot request to collaborate on your own idea")
	ErrDuplicateRequest  = Conflict("request already exists for this idea")
	ErrRequestNotFound   = NotFound("request not found")
	ErrNotIdeaOwner      = Forbidden("only the idea owner can respond to this request")
	ErrAlreadyProcessed  = InvalidState("request already processed")
	ErrMatchNotFound     = NotFound("match not found")
	ErrNotParticipant    = Forbidden("not a participant of this match")
	ErrMessageNotFound   = NotFound("message not found")
	ErrNotRecipient      = Forbidden("notification belongs to another user")
	ErrUnknownType       = InvalidRequest("unknown notification type")
	ErrEmptyMessage      = InvalidRequest("message content is required")
	ErrMessageTooLong    = InvalidRequest("message content exceeds 4000 characters")
	ErrNotConnected      = Unavailable("connection is not authenticated")
	ErrAttachmentsOff    = Unavailable("attachments are not configured")
	ErrInvalidAttachment = InvalidRequest("attachment key does not belong to this match")
)

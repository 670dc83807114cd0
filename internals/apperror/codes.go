package apperror

// Machine-readable error codes shared with API clients.
const (
	CodeInternal = "INTERNAL_SERVER_ERROR"

	CodeEventNotFound           = "EVENT_NOT_FOUND"
	CodeEventNotPublic          = "EVENT_NOT_PUBLIC"
	CodeEventNotOpen            = "EVENT_NOT_OPEN_FOR_REGISTRATION"
	CodeEventNotAcceptingMember = "EVENT_NOT_ACCEPTING_MEMBERS"
	CodeEventNotEditable        = "EVENT_NOT_EDITABLE"
	CodeEventNotActive          = "EVENT_NOT_ACTIVE"
	CodeCapacityBelowAttendance = "CAPACITY_BELOW_CURRENT_ATTENDANCE"
	CodeEventFull               = "EVENT_FULL"
	CodeOwnerCannotJoin         = "EVENT_OWNER_CANNOT_JOIN_AS_ATTENDEE"

	CodeUserNotFound         = "USER_NOT_FOUND"
	CodeUserAlreadyAttendee  = "USER_ALREADY_ATTENDEE"
	CodeUserAlreadyMember    = "USER_ALREADY_MEMBER"
	CodeUserAlreadyInvited   = "USER_ALREADY_INVITED"
	CodeUserNotMember        = "USER_NOT_MEMBER_OF_EVENT"
	CodeUserCannotInviteSelf = "USER_CANNOT_INVITE_SELF"
	CodeNoPermission         = "NO_PERMISSION"

	CodeInviteNotFound    = "INVITE_NOT_FOUND"
	CodeInviteNotPending  = "INVITE_NOT_PENDING"
	CodeInviteNotDeclined = "INVITE_NOT_DECLINED"

	CodeInvalidAttendanceCode = "INVALID_ATTENDANCE_CODE"
	CodeAlreadyVerified       = "USER_ALREADY_VERIFIED"
	CodeVerificationClosed    = "VERIFICATION_WINDOW_CLOSED"

	CodeInvalidData = "INVALID_DATA"

	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeEmailTaken         = "EMAIL_ALREADY_REGISTERED"
	CodeUsernameTaken      = "USERNAME_ALREADY_REGISTERED"

	CodeTokenAlreadyRegistered = "DEVICE_TOKEN_ALREADY_REGISTERED"
	CodeNotificationNotFound   = "NOTIFICATION_NOT_FOUND"
)

package invitation

import "errors"

var (
	ErrInvitationNotFound    = errors.New("invitation not found")
	ErrInvitationExists      = errors.New("an active invitation already exists for this email")
	ErrInvitationAlreadyUsed = errors.New("invitation has already been used")
	ErrInvitationInactive    = errors.New("invitation is no longer valid")
	ErrInvitationExpired     = errors.New("invitation has expired")
	ErrCannotResendAccepted  = errors.New("cannot resend an accepted invitation")
	ErrInvitationNotUsable   = errors.New("invitation is not usable")
	ErrTooManyAttempts       = errors.New("too many attempts, please try again later")
)

var reasonMessages = map[error]string{
	ErrInvitationAlreadyUsed: "This invitation has already been used.",
	ErrInvitationInactive:    "This invitation is no longer valid.",
	ErrInvitationExpired:     "This invitation has expired.",
	ErrInvitationNotFound:    "This invitation could not be found.",
}

// ReasonMessage is the sentence shown to an invitee who followed an unusable link.
func ReasonMessage(err error) string {
	for target, msg := range reasonMessages {
		if errors.Is(err, target) {
			return msg
		}
	}
	return "This invitation cannot be used."
}

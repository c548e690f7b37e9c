package activity

import "time"

// Actions recorded by the invitation lifecycle.
const (
	ActionInvitationCreated     = "invitation.created"
	ActionInvitationResent      = "invitation.resent"
	ActionInvitationExtended    = "invitation.extended"
	ActionInvitationDeactivated = "invitation.deactivated"
	ActionInvitationDeleted     = "invitation.deleted"
	ActionInvitationAccepted    = "invitation.accepted"
	ActionInvitationCleanup     = "invitation.cleanup"
)

const ActionInvoicePaid = "invoice.paid"

// Entry is one row of the audit trail.
type Entry struct {
	ID          string
	CompanyID   string
	ActorKind   string
	ActorID     *string
	Action      string
	SubjectType string
	SubjectID   *string
	Properties  map[string]interface{}
	IPAddress   *string
	CreatedAt   time.Time
}

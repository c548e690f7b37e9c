package vehicle

import (
	"context"

	"github.com/haulpoint/haulpoint-backend-go/internal/domain/auth"
)

type VehicleService interface {
	Assignments(ctx context.Context, p auth.Principal) ([]AssignmentResponse, error)
}

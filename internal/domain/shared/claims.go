package shared

import (
	"context"
	"fmt"

	"github.com/go-chi/jwtauth/v5"
)

// ClaimsFromContext extracts organization_id and user_id from the verified JWT.
func ClaimsFromContext(ctx context.Context) (organizationID, userID string, err error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", "", fmt.Errorf("%w: failed to extract claims from context: %v", ErrUnauthorized, err)
	}

	organizationID, ok := claims["organization_id"].(string)
	if !ok || organizationID == "" {
		return "", "", fmt.Errorf("%w: organization_id claim is missing or invalid", ErrUnauthorized)
	}

	userID, _ = claims["user_id"].(string)

	return organizationID, userID, nil
}

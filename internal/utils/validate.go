package utils

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ParseObjectID parses a hex object id, failing with a validation error
// that names the field, e.g. "Invalid video id".
func ParseObjectID(raw string, field string) (primitive.ObjectID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return primitive.NilObjectID, NewValidationError("Invalid " + field + " id")
	}
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, NewValidationError("Invalid " + field + " id")
	}
	return id, nil
}

// RequireActor checks that a request carries an authenticated user.
func RequireActor(id primitive.ObjectID) error {
	if id.IsZero() {
		return NewValidationError("Invalid user id")
	}
	return nil
}

// RequireText trims value and fails when nothing is left.
func RequireText(value string, field string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", NewValidationError(field+" is required", field+" must not be empty")
	}
	return trimmed, nil
}

// RequireOwner fails with a forbidden error when actor is not owner.
func RequireOwner(owner, actor primitive.ObjectID, action string) error {
	if owner != actor {
		return NewForbiddenError("You are not allowed to " + action)
	}
	return nil
}

// RequireID rejects the zero id, e.g. an unset target on an internal message.
func RequireID(id primitive.ObjectID, field string) error {
	if id.IsZero() {
		return NewValidationError("Invalid " + field + " id")
	}
	return nil
}

package database

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"

	"parcel-track-api-server/internal/apperr"
)

// TranslateError maps a mongo-driver error onto the closed error taxonomy
// so callers never branch on driver types.
func TranslateError(err error, message string) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return apperr.Wrap(apperr.KindNotFound, message, err)
	case mongo.IsDuplicateKeyError(err):
		return apperr.Wrap(apperr.KindPersistence, message, err)
	case errors.Is(err, context.DeadlineExceeded),
		mongo.IsTimeout(err),
		mongo.IsNetworkError(err):
		return apperr.Wrap(apperr.KindNetwork, message, err)
	default:
		return apperr.Wrap(apperr.KindPersistence, message, err)
	}
}

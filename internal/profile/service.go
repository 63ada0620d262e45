// Package profile implements profile reads/updates and the sensitive
// account operations that require re-authentication.
package profile

import (
	"context"
	"io"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"parcel-track-api-server/internal/apperr"
	"parcel-track-api-server/internal/database"
	"parcel-track-api-server/internal/identity"
	"parcel-track-api-server/internal/models"
	"parcel-track-api-server/internal/storage"
)

type Service struct {
	users    *mongo.Collection
	identity *identity.Provider
	uploader *storage.Uploader
	log      *zap.Logger
}

func NewService(db *mongo.Database, provider *identity.Provider, uploader *storage.Uploader, log *zap.Logger) *Service {
	return &Service{
		users:    db.Collection(database.UsersCollection),
		identity: provider,
		uploader: uploader,
		log:      log,
	}
}

func (s *Service) Get(ctx context.Context, uid string) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := s.users.FindOne(ctx, bson.M{"uid": uid}).Decode(&profile)
	if err != nil {
		return nil, database.TranslateError(err, "profile not found")
	}
	return &profile, nil
}

// UpdateInput carries partial profile updates; nil fields are untouched.
// There is no email field: the profile document and the credential share a
// record, so email changes go through UpdateEmail, which re-authenticates.
type UpdateInput struct {
	Name             *string `json:"name"`
	Phone            *string `json:"phone"`
	ProfilePicture   *string `json:"profilePicture"`
	TwoFactorEnabled *bool   `json:"twoFactorEnabled"`
}

func (s *Service) Update(ctx context.Context, uid string, in UpdateInput) (*models.UserProfile, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if in.Name != nil {
		if *in.Name == "" {
			return nil, apperr.Validation("name cannot be empty", "name")
		}
		set["name"] = *in.Name
	}
	if in.Phone != nil {
		set["phone"] = *in.Phone
	}
	if in.ProfilePicture != nil {
		set["profilePicture"] = *in.ProfilePicture
	}
	if in.TwoFactorEnabled != nil {
		set["twoFactorEnabled"] = *in.TwoFactorEnabled
	}

	result, err := s.users.UpdateOne(ctx, bson.M{"uid": uid}, bson.M{"$set": set})
	if err != nil {
		return nil, database.TranslateError(err, "failed to update profile")
	}
	if result.MatchedCount == 0 {
		return nil, apperr.New(apperr.KindNotFound, "profile not found")
	}
	return s.Get(ctx, uid)
}

// UpdateEmail re-authenticates, then changes the login email. The identity
// record and the profile document share a collection, so both stay in sync
// in the provider's single write.
func (s *Service) UpdateEmail(ctx context.Context, uid, newEmail, currentPassword string) error {
	if err := s.identity.Reauthenticate(ctx, uid, currentPassword); err != nil {
		return err
	}
	return s.identity.UpdateEmail(ctx, uid, newEmail)
}

// UpdatePassword re-authenticates with the current password before the new
// one is accepted.
func (s *Service) UpdatePassword(ctx context.Context, uid, currentPassword, newPassword string) error {
	if err := s.identity.Reauthenticate(ctx, uid, currentPassword); err != nil {
		return err
	}
	return s.identity.UpdatePassword(ctx, uid, newPassword)
}

// UploadPicture stores the image and points the profile at its URL.
func (s *Service) UploadPicture(ctx context.Context, uid string, file io.Reader, contentType string) (string, error) {
	url, err := s.uploader.UploadFile(ctx, file, storage.ProfilePictureKey(uid), contentType)
	if err != nil {
		return "", apperr.Wrap(apperr.KindPersistence, "failed to upload profile picture", err)
	}

	_, err = s.Update(ctx, uid, UpdateInput{ProfilePicture: &url})
	if err != nil {
		return "", err
	}
	return url, nil
}

// DeleteAccount re-authenticates, then removes the profile picture blob
// (best effort) before the irreversible identity deletion, so a failure
// leaves recoverable state rather than an orphaned blob with no owner.
func (s *Service) DeleteAccount(ctx context.Context, uid, currentPassword string) error {
	if err := s.identity.Reauthenticate(ctx, uid, currentPassword); err != nil {
		return err
	}

	if err := s.uploader.DeleteFile(ctx, storage.ProfilePictureKey(uid)); err != nil {
		// Cleanup, not critical path: the picture may never have existed.
		s.log.Warn("profile picture not found or already deleted",
			zap.String("uid", uid),
			zap.Error(err))
	}

	return s.identity.Delete(ctx, uid)
}

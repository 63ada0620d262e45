// Package identity is the boundary with the credential store. It owns
// sign-up/sign-in, re-authentication and the destructive account
// operations, and translates every failure into the closed error taxonomy.
package identity

import (
	"context"
	"regexp"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"parcel-track-api-server/internal/apperr"
	"parcel-track-api-server/internal/auth"
	"parcel-track-api-server/internal/database"
	"parcel-track-api-server/internal/models"
)

// minPasswordLen mirrors the provider rule the mobile client relied on.
const minPasswordLen = 6

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

type Provider struct {
	users    *mongo.Collection
	secret   []byte
	tokenTTL time.Duration
}

func NewProvider(db *mongo.Database, secret []byte, tokenTTL time.Duration) *Provider {
	return &Provider{
		users:    db.Collection(database.UsersCollection),
		secret:   secret,
		tokenTTL: tokenTTL,
	}
}

// SignUp creates the credential and the profile document in one record.
func (p *Provider) SignUp(ctx context.Context, email, password, name string) (*models.UserProfile, error) {
	if !emailPattern.MatchString(email) {
		return nil, apperr.New(apperr.KindInvalidEmail, "email address is not valid")
	}
	if len(password) < minPasswordLen {
		return nil, apperr.New(apperr.KindWeakPassword, "password must be at least 6 characters")
	}
	if name == "" {
		return nil, apperr.Validation("name is required", "name")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindConfig, "failed to hash password", err)
	}

	now := time.Now().UTC()
	profile := models.UserProfile{
		UID:          uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err = p.users.InsertOne(ctx, profile)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, apperr.Wrap(apperr.KindEmailInUse, "email is already in use", err)
		}
		return nil, database.TranslateError(err, "failed to create account")
	}
	return &profile, nil
}

// SignIn verifies the credential. A missing account and a wrong password
// are indistinguishable to the caller on purpose.
func (p *Provider) SignIn(ctx context.Context, email, password string) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := p.users.FindOne(ctx, bson.M{"email": email}).Decode(&profile)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.New(apperr.KindInvalidCredentials, "invalid email or password")
		}
		return nil, database.TranslateError(err, "failed to look up account")
	}
	if !auth.CheckPasswordHash(password, profile.PasswordHash) {
		return nil, apperr.New(apperr.KindInvalidCredentials, "invalid email or password")
	}
	return &profile, nil
}

// FindByEmail resolves an account for audit purposes; NotFound when absent.
func (p *Provider) FindByEmail(ctx context.Context, email string) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := p.users.FindOne(ctx, bson.M{"email": email}).Decode(&profile)
	if err != nil {
		return nil, database.TranslateError(err, "account not found")
	}
	return &profile, nil
}

// Reauthenticate re-checks the current password before a sensitive
// operation. Failure surfaces as WrongPassword, not InvalidCredentials.
func (p *Provider) Reauthenticate(ctx context.Context, uid, password string) error {
	var profile models.UserProfile
	err := p.users.FindOne(ctx, bson.M{"uid": uid}).Decode(&profile)
	if err != nil {
		return database.TranslateError(err, "account not found")
	}
	if !auth.CheckPasswordHash(password, profile.PasswordHash) {
		return apperr.New(apperr.KindWrongPassword, "current password is incorrect")
	}
	return nil
}

// UpdateEmail changes the account email. The profile document and the
// credential share a record here, so the two stay in sync in one write.
func (p *Provider) UpdateEmail(ctx context.Context, uid, newEmail string) error {
	if !emailPattern.MatchString(newEmail) {
		return apperr.New(apperr.KindInvalidEmail, "email address is not valid")
	}

	count, err := p.users.CountDocuments(ctx, bson.M{"email": newEmail, "uid": bson.M{"$ne": uid}})
	if err != nil {
		return database.TranslateError(err, "failed to check email")
	}
	if count > 0 {
		return apperr.New(apperr.KindEmailInUse, "email is already in use")
	}

	result, err := p.users.UpdateOne(ctx, bson.M{"uid": uid}, bson.M{"$set": bson.M{
		"email":     newEmail,
		"updatedAt": time.Now().UTC(),
	}})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperr.Wrap(apperr.KindEmailInUse, "email is already in use", err)
		}
		return database.TranslateError(err, "failed to update email")
	}
	if result.MatchedCount == 0 {
		return apperr.New(apperr.KindNotFound, "account not found")
	}
	return nil
}

// UpdatePassword replaces the credential hash.
func (p *Provider) UpdatePassword(ctx context.Context, uid, newPassword string) error {
	if len(newPassword) < minPasswordLen {
		return apperr.New(apperr.KindWeakPassword, "password must be at least 6 characters")
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return apperr.Wrap(apperr.KindConfig, "failed to hash password", err)
	}

	result, err := p.users.UpdateOne(ctx, bson.M{"uid": uid}, bson.M{"$set": bson.M{
		"password":  hash,
		"updatedAt": time.Now().UTC(),
	}})
	if err != nil {
		return database.TranslateError(err, "failed to update password")
	}
	if result.MatchedCount == 0 {
		return apperr.New(apperr.KindNotFound, "account not found")
	}
	return nil
}

// Delete removes the account record. Irreversible; callers run their
// cleanup (profile data, blobs) before calling this.
func (p *Provider) Delete(ctx context.Context, uid string) error {
	result, err := p.users.DeleteOne(ctx, bson.M{"uid": uid})
	if err != nil {
		return database.TranslateError(err, "failed to delete account")
	}
	if result.DeletedCount == 0 {
		return apperr.New(apperr.KindNotFound, "account not found")
	}
	return nil
}

// Token signs a JWT for the given profile.
func (p *Provider) Token(profile *models.UserProfile) (string, error) {
	token, err := auth.GenerateJWT(p.secret, profile.UID, profile.Email, p.tokenTTL)
	if err != nil {
		return "", apperr.Wrap(apperr.KindConfig, "failed to sign token", err)
	}
	return token, nil
}

// Package security implements the login audit trail, per-user security
// settings and the suspicious-activity reporting built on top of them.
package security

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"parcel-track-api-server/internal/apperr"
	"parcel-track-api-server/internal/database"
	"parcel-track-api-server/internal/models"
)

const (
	defaultHistoryLimit = 20
	reportHistoryLimit  = 100
)

type Service struct {
	sessions *mongo.Collection
	users    *mongo.Collection
	log      *zap.Logger
}

func NewService(db *mongo.Database, log *zap.Logger) *Service {
	return &Service{
		sessions: db.Collection(database.LoginSessionsCollection),
		users:    db.Collection(database.UsersCollection),
		log:      log,
	}
}

// LogAttempt appends one audit record. Audit failures are logged and
// swallowed: a broken audit trail must never block a login.
func (s *Service) LogAttempt(ctx context.Context, userID string, success bool, failureReason, ipAddress, userAgent string) {
	if ipAddress == "" {
		ipAddress = "unknown"
	}
	if userAgent == "" {
		userAgent = "unknown"
	}
	session := models.LoginSession{
		UserID:        userID,
		Timestamp:     time.Now().UTC(),
		IPAddress:     ipAddress,
		UserAgent:     userAgent,
		Location:      LocationFromIP(ipAddress),
		DeviceType:    DeviceTypeFromUserAgent(userAgent),
		Success:       success,
		FailureReason: failureReason,
	}

	if _, err := s.sessions.InsertOne(ctx, session); err != nil {
		s.log.Warn("failed to record login attempt",
			zap.String("userId", userID),
			zap.Error(err))
	}
}

// LoginHistory returns the newest audit records first, up to limit
// (default 20).
func (s *Service) LoginHistory(ctx context.Context, userID string, limit int) ([]models.LoginSession, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(int64(limit))
	cursor, err := s.sessions.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, database.TranslateError(err, "failed to query login history")
	}
	defer cursor.Close(ctx)

	var history []models.LoginSession
	if err = cursor.All(ctx, &history); err != nil {
		return nil, database.TranslateError(err, "failed to decode login history")
	}
	if history == nil {
		history = []models.LoginSession{}
	}
	return history, nil
}

// Settings reads the user's security settings, materializing the defaults
// when none were ever saved.
func (s *Service) Settings(ctx context.Context, uid string) (models.SecuritySettings, error) {
	var profile models.UserProfile
	err := s.users.FindOne(ctx, bson.M{"uid": uid}).Decode(&profile)
	if err != nil {
		return models.SecuritySettings{}, database.TranslateError(err, "account not found")
	}
	if profile.SecuritySettings == nil {
		return models.DefaultSecuritySettings(), nil
	}
	settings := *profile.SecuritySettings
	if settings.AllowedDevices == nil {
		settings.AllowedDevices = []string{}
	}
	return settings, nil
}

// UpdateSettings replaces the settings subdocument wholesale.
func (s *Service) UpdateSettings(ctx context.Context, uid string, settings models.SecuritySettings) error {
	if settings.SessionTimeout <= 0 {
		return apperr.Validation("session timeout must be positive", "sessionTimeout")
	}
	if settings.AllowedDevices == nil {
		settings.AllowedDevices = []string{}
	}

	result, err := s.users.UpdateOne(ctx, bson.M{"uid": uid}, bson.M{"$set": bson.M{
		"securitySettings": settings,
		"updatedAt":        time.Now().UTC(),
	}})
	if err != nil {
		return database.TranslateError(err, "failed to update security settings")
	}
	if result.MatchedCount == 0 {
		return apperr.New(apperr.KindNotFound, "account not found")
	}
	return nil
}

// CheckSuspicious runs the heuristic over the newest sessions.
func (s *Service) CheckSuspicious(ctx context.Context, userID string) (Assessment, error) {
	recent, err := s.LoginHistory(ctx, userID, recentWindow)
	if err != nil {
		return Assessment{}, err
	}
	return Evaluate(recent), nil
}

// GenerateReport aggregates up to the last 100 audit records.
func (s *Service) GenerateReport(ctx context.Context, userID string) (Report, error) {
	history, err := s.LoginHistory(ctx, userID, reportHistoryLimit)
	if err != nil {
		return Report{}, err
	}
	return BuildReport(history), nil
}

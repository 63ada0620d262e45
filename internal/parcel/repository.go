// Package parcel implements the parcel repository: creation, owner queries
// and status updates against the "parcels" collection.
package parcel

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"parcel-track-api-server/internal/apperr"
	"parcel-track-api-server/internal/lifecycle"
	"parcel-track-api-server/internal/models"
)

// initialHistoryLocation seeds the history of every new parcel.
const initialHistoryLocation = "Package received at origin"

type Repository struct {
	store  store
	policy *lifecycle.Policy
}

func NewRepository(db *mongo.Database, policy *lifecycle.Policy) *Repository {
	return &Repository{
		store:  newMongoStore(db),
		policy: policy,
	}
}

// CreateInput carries the caller-supplied parcel attributes. Everything
// else (tracking number, status, history, timestamps) is derived here.
type CreateInput struct {
	Title            string             `json:"title"`
	Description      string             `json:"description"`
	Sender           string             `json:"sender"`
	Recipient        string             `json:"recipient"`
	RecipientAddress string             `json:"recipientAddress"`
	Weight           string             `json:"weight"`
	Dimensions       string             `json:"dimensions"`
	Photos           []string           `json:"photos"`
	PaymentInfo      models.PaymentInfo `json:"paymentInfo"`
}

// GenerateTrackingNumber produces "TRK" plus the first 8 characters of a
// fresh UUID, uppercased. Uniqueness is by construction; existing records
// are never consulted.
func GenerateTrackingNumber() string {
	return "TRK" + strings.ToUpper(uuid.New().String()[:8])
}

// ValidateCreateInput checks the required fields and the payment amount,
// collecting every offending field instead of stopping at the first.
func ValidateCreateInput(in CreateInput) error {
	var fields []string
	if strings.TrimSpace(in.Title) == "" {
		fields = append(fields, "title")
	}
	if strings.TrimSpace(in.Sender) == "" {
		fields = append(fields, "sender")
	}
	if strings.TrimSpace(in.Recipient) == "" {
		fields = append(fields, "recipient")
	}
	if strings.TrimSpace(in.RecipientAddress) == "" {
		fields = append(fields, "recipientAddress")
	}
	if in.PaymentInfo.Amount != "" {
		if _, err := strconv.ParseFloat(in.PaymentInfo.Amount, 64); err != nil {
			fields = append(fields, "paymentInfo.amount")
		}
	}
	if in.PaymentInfo.Method != "" &&
		in.PaymentInfo.Method != "Cash" && in.PaymentInfo.Method != "Card" {
		fields = append(fields, "paymentInfo.method")
	}
	if len(fields) > 0 {
		return apperr.Validation("required fields missing or invalid", fields...)
	}
	return nil
}

// Create validates the input, stamps the derived fields and persists the
// parcel. The returned parcel carries the generated tracking number for
// user display.
func (r *Repository) Create(ctx context.Context, userID string, in CreateInput) (*models.Parcel, error) {
	if err := ValidateCreateInput(in); err != nil {
		return nil, err
	}

	payment := in.PaymentInfo
	if payment.Amount == "" {
		payment.Amount = "0"
	}
	if payment.Method == "" {
		payment.Method = "Cash"
	}
	if payment.Status == "" {
		payment.Status = "pending"
	}

	photos := in.Photos
	if photos == nil {
		photos = []string{}
	}

	now := time.Now().UTC()
	p := models.Parcel{
		TrackingNumber:   GenerateTrackingNumber(),
		Title:            in.Title,
		Description:      in.Description,
		Status:           models.StatusPending,
		Sender:           in.Sender,
		Recipient:        in.Recipient,
		RecipientAddress: in.RecipientAddress,
		Weight:           in.Weight,
		Dimensions:       in.Dimensions,
		Photos:           photos,
		PaymentInfo:      payment,
		CreatedAt:        now,
		UpdatedAt:        now,
		UserID:           userID,
		StatusHistory: []models.StatusEntry{{
			Status:    models.StatusPending,
			Timestamp: now,
			Location:  initialHistoryLocation,
		}},
	}

	oid, err := r.store.insert(ctx, p)
	if err != nil {
		return nil, err
	}
	p.ID = oid
	return &p, nil
}

// ListForUser fetches all parcels owned by userID and sorts them newest
// first. Sorting client-side keeps the query a single equality filter, so
// no composite index is required.
func (r *Repository) ListForUser(ctx context.Context, userID string) ([]models.Parcel, error) {
	parcels, err := r.store.findByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	if parcels == nil {
		parcels = []models.Parcel{}
	}

	SortByCreatedAtDesc(parcels)
	return parcels, nil
}

// SortByCreatedAtDesc orders parcels newest first, in place.
func SortByCreatedAtDesc(parcels []models.Parcel) {
	sort.SliceStable(parcels, func(i, j int) bool {
		return parcels[i].CreatedAt.After(parcels[j].CreatedAt)
	})
}

// GetByID fetches a single parcel owned by userID.
func (r *Repository) GetByID(ctx context.Context, parcelID, userID string) (*models.Parcel, error) {
	oid, err := primitive.ObjectIDFromHex(parcelID)
	if err != nil {
		return nil, apperr.Validation("invalid parcel id", "id")
	}
	return r.store.findOne(ctx, oid, userID)
}

// UpdateStatus transitions a parcel to newStatus, appending one history
// entry and refreshing updatedAt in a single document update, so the
// top-level status and the history entry land together or not at all.
// Setting the current status again is a no-op: the parcel is returned
// unchanged and changed is false.
func (r *Repository) UpdateStatus(ctx context.Context, parcelID, userID, newStatus, location string) (p *models.Parcel, changed bool, err error) {
	current, err := r.GetByID(ctx, parcelID, userID)
	if err != nil {
		return nil, false, err
	}

	noop, err := r.policy.Check(current.Status, newStatus)
	if err != nil {
		return nil, false, err
	}
	if noop {
		return current, false, nil
	}

	now := time.Now().UTC()
	entry := models.StatusEntry{Status: newStatus, Timestamp: now, Location: location}

	matched, err := r.store.applyStatus(ctx, current.ID, entry, now)
	if err != nil {
		return nil, false, err
	}
	if !matched {
		// Either the parcel vanished or another writer beat us to the same
		// status. Re-read to tell the two apart.
		fresh, ferr := r.GetByID(ctx, parcelID, userID)
		if ferr != nil {
			return nil, false, ferr
		}
		return fresh, false, nil
	}

	current.Status = newStatus
	current.UpdatedAt = now
	current.StatusHistory = append(current.StatusHistory, entry)
	return current, true, nil
}

// AddPhoto appends an uploaded photo URL to the parcel's photo list.
func (r *Repository) AddPhoto(ctx context.Context, parcelID, userID, url string) error {
	oid, err := primitive.ObjectIDFromHex(parcelID)
	if err != nil {
		return apperr.Validation("invalid parcel id", "id")
	}

	matched, err := r.store.pushPhoto(ctx, oid, userID, url, time.Now().UTC())
	if err != nil {
		return err
	}
	if !matched {
		return apperr.New(apperr.KindNotFound, "parcel not found")
	}
	return nil
}

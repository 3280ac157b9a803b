package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"path"
	"strings"
	"time"

	"alcyxob/fitcoach/internal/domain"
	"alcyxob/fitcoach/internal/logger"
	"alcyxob/fitcoach/internal/repository"
	"alcyxob/fitcoach/internal/storage"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrMeasurementNotFound      = errors.New("measurement not found")
	ErrInvalidMeasurement       = errors.New("invalid measurement")
	ErrNoMeasurements           = errors.New("client has no measurements yet")
	ErrInvalidPhoto             = errors.New("invalid progress photo")
	ErrPhotoNotUploaded         = errors.New("photo was not found in storage")
	ErrUploadURLError           = errors.New("failed to generate upload URL")
	ErrUploadConfirmationFailed = errors.New("failed to confirm upload")
)

const maxPhotoSize = 15 << 20

var photoExtensions = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
	"image/heic": "heic",
	"image/heif": "heif",
	"image/gif":  "gif",
}

// MeasurementInput is a body check-in. Optional circumferences are cm.
type MeasurementInput struct {
	Weight            float64
	BodyFatPercentage *float64
	Chest             *float64
	Waist             *float64
	Hips              *float64
	LeftArm           *float64
	RightArm          *float64
	LeftThigh         *float64
	RightThigh        *float64
	LeftCalf          *float64
	RightCalf         *float64
	Notes             string
	MeasuredAt        *time.Time // defaults to now
}

// ProgressSummary compares the first and latest check-ins.
type ProgressSummary struct {
	MeasurementCount    int       `json:"measurementCount"`
	FirstMeasuredAt     time.Time `json:"firstMeasuredAt"`
	LatestMeasuredAt    time.Time `json:"latestMeasuredAt"`
	StartWeight         float64   `json:"startWeight"`
	CurrentWeight       float64   `json:"currentWeight"`
	WeightChange        float64   `json:"weightChange"`
	WeightChangePercent float64   `json:"weightChangePercent"`
	BodyFatChange       *float64  `json:"bodyFatChange,omitempty"`
	GoalWeight          *float64  `json:"goalWeight,omitempty"`
	RemainingToGoal     *float64  `json:"remainingToGoal,omitempty"`
}

// UploadURLResponse structure for returning URL and object key
type UploadURLResponse struct {
	UploadURL string `json:"uploadUrl"`
	ObjectKey string `json:"objectKey"` // sent back on confirm
}

// PhotoUpload describes an object the client says it has PUT to storage.
type PhotoUpload struct {
	ObjectKey   string
	FileName    string
	ContentType string
	Size        int64
}

// PhotoWithURL is photo metadata plus a short-lived download link.
type PhotoWithURL struct {
	domain.ProgressPhoto
	URL string `json:"url"`
}

type MeasurementService interface {
	AddMeasurement(ctx context.Context, clientID primitive.ObjectID, in MeasurementInput) (*domain.Measurement, error)
	ListMeasurements(ctx context.Context, clientID primitive.ObjectID) ([]domain.Measurement, error)
	Progress(ctx context.Context, clientID primitive.ObjectID, goalWeight *float64) (*ProgressSummary, error)

	RequestPhotoUploadURL(ctx context.Context, clientID, measurementID primitive.ObjectID, contentType string) (*UploadURLResponse, error)
	ConfirmPhotoUpload(ctx context.Context, clientID, measurementID primitive.ObjectID, in PhotoUpload) (*domain.ProgressPhoto, error)
	ListPhotos(ctx context.Context, clientID, measurementID primitive.ObjectID) ([]PhotoWithURL, error)
}

type measurementService struct {
	clientRepo      repository.ClientRepository
	measurementRepo repository.MeasurementRepository
	photoRepo       repository.ProgressPhotoRepository
	fileStorage     storage.FileStorage
	log             *logger.Logger
}

func NewMeasurementService(
	clientRepo repository.ClientRepository,
	measurementRepo repository.MeasurementRepository,
	photoRepo repository.ProgressPhotoRepository,
	fileStorage storage.FileStorage,
	log *logger.Logger,
) MeasurementService {
	return &measurementService{
		clientRepo:      clientRepo,
		measurementRepo: measurementRepo,
		photoRepo:       photoRepo,
		fileStorage:     fileStorage,
		log:             log.With("service", "MeasurementService"),
	}
}

// === Measurements ===

func validateMeasurement(in MeasurementInput) error {
	if !(in.Weight > 0) || math.IsInf(in.Weight, 0) {
		return fmt.Errorf("%w: weight must be positive", ErrInvalidMeasurement)
	}
	if bf := in.BodyFatPercentage; bf != nil && (*bf < 0 || *bf > 100) {
		return fmt.Errorf("%w: body fat must be between 0 and 100", ErrInvalidMeasurement)
	}
	circumferences := map[string]*float64{
		"chest": in.Chest, "waist": in.Waist, "hips": in.Hips,
		"leftArm": in.LeftArm, "rightArm": in.RightArm,
		"leftThigh": in.LeftThigh, "rightThigh": in.RightThigh,
		"leftCalf": in.LeftCalf, "rightCalf": in.RightCalf,
	}
	for name, v := range circumferences {
		if v != nil && !(*v > 0) {
			return fmt.Errorf("%w: %s must be positive", ErrInvalidMeasurement, name)
		}
	}
	return nil
}

func (s *measurementService) AddMeasurement(ctx context.Context, clientID primitive.ObjectID, in MeasurementInput) (*domain.Measurement, error) {
	if clientID.IsZero() {
		return nil, errors.New("client ID is required")
	}
	if err := validateMeasurement(in); err != nil {
		return nil, err
	}

	m := &domain.Measurement{
		ClientID:          clientID,
		Weight:            in.Weight,
		BodyFatPercentage: in.BodyFatPercentage,
		Chest:             in.Chest,
		Waist:             in.Waist,
		Hips:              in.Hips,
		LeftArm:           in.LeftArm,
		RightArm:          in.RightArm,
		LeftThigh:         in.LeftThigh,
		RightThigh:        in.RightThigh,
		LeftCalf:          in.LeftCalf,
		RightCalf:         in.RightCalf,
		Notes:             strings.TrimSpace(in.Notes),
	}
	if in.MeasuredAt != nil {
		m.MeasuredAt = in.MeasuredAt.UTC()
	}

	id, err := s.measurementRepo.Create(ctx, m)
	if err != nil {
		return nil, err
	}
	m.ID = id
	return m, nil
}

// ListMeasurements returns the history oldest first, the order charts plot it in.
func (s *measurementService) ListMeasurements(ctx context.Context, clientID primitive.ObjectID) ([]domain.Measurement, error) {
	return s.measurementRepo.ListByClient(ctx, clientID)
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}

func (s *measurementService) Progress(ctx context.Context, clientID primitive.ObjectID, goalWeight *float64) (*ProgressSummary, error) {
	history, err := s.measurementRepo.ListByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if len(history) == 0 {
		return nil, ErrNoMeasurements
	}
	return summarize(history, goalWeight), nil
}

// summarize expects history sorted oldest first.
func summarize(history []domain.Measurement, goalWeight *float64) *ProgressSummary {
	first, latest := history[0], history[len(history)-1]
	sum := &ProgressSummary{
		MeasurementCount: len(history),
		FirstMeasuredAt:  first.MeasuredAt,
		LatestMeasuredAt: latest.MeasuredAt,
		StartWeight:      first.Weight,
		CurrentWeight:    latest.Weight,
		WeightChange:     round1(latest.Weight - first.Weight),
		GoalWeight:       goalWeight,
	}
	if first.Weight > 0 {
		sum.WeightChangePercent = round1((latest.Weight - first.Weight) / first.Weight * 100)
	}
	if first.BodyFatPercentage != nil && latest.BodyFatPercentage != nil {
		d := round1(*latest.BodyFatPercentage - *first.BodyFatPercentage)
		sum.BodyFatChange = &d
	}
	if goalWeight != nil {
		r := round1(math.Abs(latest.Weight - *goalWeight))
		sum.RemainingToGoal = &r
	}
	return sum
}

// === Progress photos ===

func (s *measurementService) ownedMeasurement(ctx context.Context, clientID, measurementID primitive.ObjectID) (*domain.Measurement, error) {
	m, err := s.measurementRepo.GetByID(ctx, measurementID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMeasurementNotFound
		}
		return nil, err
	}
	// Someone else's measurement looks the same as a missing one.
	if m.ClientID != clientID {
		return nil, ErrMeasurementNotFound
	}
	return m, nil
}

func photoKeyPrefix(clientID, measurementID primitive.ObjectID) string {
	return path.Join("progress", clientID.Hex(), measurementID.Hex()) + "/"
}

// RequestPhotoUploadURL presigns a PUT for a new photo of the measurement.
func (s *measurementService) RequestPhotoUploadURL(ctx context.Context, clientID, measurementID primitive.ObjectID, contentType string) (*UploadURLResponse, error) {
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	ext, ok := photoExtensions[contentType]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported content type %q", ErrInvalidPhoto, contentType)
	}
	if _, err := s.ownedMeasurement(ctx, clientID, measurementID); err != nil {
		return nil, err
	}

	objectKey := photoKeyPrefix(clientID, measurementID) + uuid.NewString() + "." + ext
	uploadURL, err := s.fileStorage.GeneratePresignedUploadURL(ctx, objectKey, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, ErrUploadURLError
	}
	return &UploadURLResponse{UploadURL: uploadURL, ObjectKey: objectKey}, nil
}

// ConfirmPhotoUpload records a photo after the browser finished the PUT. The
// object must exist under this client's and measurement's prefix.
func (s *measurementService) ConfirmPhotoUpload(ctx context.Context, clientID, measurementID primitive.ObjectID, in PhotoUpload) (*domain.ProgressPhoto, error) {
	if in.ObjectKey == "" || !strings.HasPrefix(in.ObjectKey, photoKeyPrefix(clientID, measurementID)) || strings.Contains(in.ObjectKey, "..") {
		return nil, fmt.Errorf("%w: object key does not belong to this measurement", ErrInvalidPhoto)
	}
	if _, err := s.ownedMeasurement(ctx, clientID, measurementID); err != nil {
		return nil, err
	}
	client, err := s.clientRepo.GetByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}

	info, err := s.fileStorage.StatObject(ctx, in.ObjectKey)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, ErrPhotoNotUploaded
		}
		return nil, err
	}
	if info.Size > maxPhotoSize {
		if delErr := s.fileStorage.DeleteObject(ctx, in.ObjectKey); delErr != nil {
			s.log.Error("Failed to delete oversized photo", "key", in.ObjectKey, "error", delErr)
		}
		return nil, fmt.Errorf("%w: photo exceeds %d MB", ErrInvalidPhoto, maxPhotoSize>>20)
	}

	contentType := info.ContentType
	if contentType == "" {
		contentType = in.ContentType
	}
	photo := &domain.ProgressPhoto{
		MeasurementID: measurementID,
		ClientID:      clientID,
		TrainerID:     client.TrainerID,
		S3ObjectKey:   in.ObjectKey,
		FileName:      path.Base(strings.TrimSpace(in.FileName)),
		ContentType:   contentType,
		Size:          info.Size,
	}
	id, err := s.photoRepo.Create(ctx, photo)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("%w: photo already confirmed", ErrInvalidPhoto)
		}
		s.log.Error("Failed to save photo metadata", "key", in.ObjectKey, "error", err)
		return nil, ErrUploadConfirmationFailed
	}
	photo.ID = id
	return photo, nil
}

func (s *measurementService) ListPhotos(ctx context.Context, clientID, measurementID primitive.ObjectID) ([]PhotoWithURL, error) {
	if _, err := s.ownedMeasurement(ctx, clientID, measurementID); err != nil {
		return nil, err
	}
	photos, err := s.photoRepo.ListByMeasurement(ctx, measurementID)
	if err != nil {
		return nil, err
	}

	out := make([]PhotoWithURL, 0, len(photos))
	for _, p := range photos {
		url, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, p.S3ObjectKey, storage.DefaultPresignedURLExpiry)
		if err != nil {
			return nil, fmt.Errorf("presign %s: %w", p.ID.Hex(), err)
		}
		out = append(out, PhotoWithURL{ProgressPhoto: p, URL: url})
	}
	return out, nil
}

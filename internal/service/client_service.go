package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"alcyxob/fitcoach/internal/domain"
	"alcyxob/fitcoach/internal/logger"
	"alcyxob/fitcoach/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"
)

// --- Error Definitions ---
var (
	ErrClientNotFound       = errors.New("client not found")
	ErrClientNotManaged     = errors.New("client is not managed by this trainer")
	ErrInvalidClientProfile = errors.New("invalid client profile")
)

// NewClientInput is what a trainer fills in when adding a client. The
// email/password pair becomes the client's own login.
type NewClientInput struct {
	FullName            string
	Email               string
	Password            string
	DateOfBirth         *time.Time
	Gender              domain.Gender
	Height              float64
	CurrentWeight       float64
	GoalWeight          *float64
	FitnessGoal         domain.FitnessGoal
	ActivityLevel       domain.ActivityLevel
	MedicalConditions   string
	DietaryRestrictions string
}

// ClientDetails is everything the trainer's client page shows at once.
type ClientDetails struct {
	Client       domain.Client
	Workout      *WorkoutWithExercises
	MealPlan     *MealPlanWithMeals
	Measurements []domain.Measurement
}

type ClientService interface {
	AddClient(ctx context.Context, trainerID primitive.ObjectID, in NewClientInput) (*domain.Client, error)
	ListClients(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Client, error)
	GetClient(ctx context.Context, trainerID, clientID primitive.ObjectID) (*domain.Client, error)
	GetClientDetails(ctx context.Context, trainerID, clientID primitive.ObjectID) (*ClientDetails, error)

	// Client dashboard, keyed by the logged-in user.
	GetClientForUser(ctx context.Context, userID primitive.ObjectID) (*domain.Client, error)
	GetMyWorkout(ctx context.Context, userID primitive.ObjectID) (*WorkoutWithExercises, error)
	GetMyMealPlan(ctx context.Context, userID primitive.ObjectID) (*MealPlanWithMeals, error)
}

type clientService struct {
	authService     AuthService
	clientRepo      repository.ClientRepository
	measurementRepo repository.MeasurementRepository
	mealPlanRepo    repository.MealPlanRepository
	mealRepo        repository.MealRepository
	workoutRepo     repository.WorkoutRepository
	exerciseRepo    repository.ExerciseRepository
	log             *logger.Logger
}

func NewClientService(
	authService AuthService,
	clientRepo repository.ClientRepository,
	measurementRepo repository.MeasurementRepository,
	mealPlanRepo repository.MealPlanRepository,
	mealRepo repository.MealRepository,
	workoutRepo repository.WorkoutRepository,
	exerciseRepo repository.ExerciseRepository,
	log *logger.Logger,
) ClientService {
	return &clientService{
		authService:     authService,
		clientRepo:      clientRepo,
		measurementRepo: measurementRepo,
		mealPlanRepo:    mealPlanRepo,
		mealRepo:        mealRepo,
		workoutRepo:     workoutRepo,
		exerciseRepo:    exerciseRepo,
		log:             log.With("service", "ClientService"),
	}
}

func validateNewClient(in NewClientInput) error {
	switch {
	case strings.TrimSpace(in.FullName) == "":
		return fmt.Errorf("%w: full name is required", ErrInvalidClientProfile)
	case !(in.Height > 0):
		return fmt.Errorf("%w: height must be positive", ErrInvalidClientProfile)
	case !(in.CurrentWeight > 0):
		return fmt.Errorf("%w: current weight must be positive", ErrInvalidClientProfile)
	case in.GoalWeight != nil && !(*in.GoalWeight > 0):
		return fmt.Errorf("%w: goal weight must be positive", ErrInvalidClientProfile)
	case !in.FitnessGoal.Valid():
		return fmt.Errorf("%w: unknown fitness goal %q", ErrInvalidClientProfile, in.FitnessGoal)
	case !in.ActivityLevel.Valid():
		return fmt.Errorf("%w: unknown activity level %q", ErrInvalidClientProfile, in.ActivityLevel)
	case in.Gender != "" && !in.Gender.Valid():
		return fmt.Errorf("%w: unknown gender %q", ErrInvalidClientProfile, in.Gender)
	}
	return nil
}

// AddClient creates the client's login and then their profile. If the profile
// cannot be stored the login is deleted again so the email can be reused.
func (s *clientService) AddClient(ctx context.Context, trainerID primitive.ObjectID, in NewClientInput) (*domain.Client, error) {
	if trainerID.IsZero() {
		return nil, errors.New("trainer ID is required")
	}
	if err := validateNewClient(in); err != nil {
		return nil, err
	}

	user, err := s.authService.Register(ctx, in.FullName, in.Email, in.Password, domain.RoleClient)
	if err != nil {
		return nil, err
	}

	client := &domain.Client{
		UserID:              &user.ID,
		TrainerID:           trainerID,
		FullName:            user.FullName,
		Email:               user.Email,
		DateOfBirth:         in.DateOfBirth,
		Gender:              in.Gender,
		Height:              in.Height,
		CurrentWeight:       in.CurrentWeight,
		GoalWeight:          in.GoalWeight,
		FitnessGoal:         in.FitnessGoal,
		ActivityLevel:       in.ActivityLevel,
		MedicalConditions:   in.MedicalConditions,
		DietaryRestrictions: in.DietaryRestrictions,
	}
	clientID, err := s.clientRepo.Create(ctx, client)
	if err != nil {
		cleanupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cleanupTimeout)
		defer cancel()
		if delErr := s.authService.DeleteUser(cleanupCtx, user.ID); delErr != nil {
			s.log.Error("Failed to remove login after client profile insert failed", "user_id", user.ID.Hex(), "error", delErr)
		} else {
			s.log.Warn("Removed login after client profile insert failed", "user_id", user.ID.Hex())
		}
		return nil, fmt.Errorf("create client profile: %w", err)
	}
	client.ID = clientID

	s.log.Info("Client added", "trainer_id", trainerID.Hex(), "client_id", clientID.Hex())
	return client, nil
}

// ListClients returns the trainer's clients, newest first.
func (s *clientService) ListClients(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Client, error) {
	if trainerID.IsZero() {
		return nil, errors.New("trainer ID is required")
	}
	return s.clientRepo.ListByTrainer(ctx, trainerID)
}

func (s *clientService) GetClient(ctx context.Context, trainerID, clientID primitive.ObjectID) (*domain.Client, error) {
	return managedClient(ctx, s.clientRepo, trainerID, clientID)
}

// GetClientDetails loads the active plans and the measurement history in parallel.
func (s *clientService) GetClientDetails(ctx context.Context, trainerID, clientID primitive.ObjectID) (*ClientDetails, error) {
	client, err := managedClient(ctx, s.clientRepo, trainerID, clientID)
	if err != nil {
		return nil, err
	}

	details := &ClientDetails{Client: *client}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		w, err := activeWorkout(gctx, s.workoutRepo, s.exerciseRepo, clientID)
		details.Workout = w
		return err
	})
	g.Go(func() error {
		p, err := activeMealPlan(gctx, s.mealPlanRepo, s.mealRepo, clientID)
		details.MealPlan = p
		return err
	})
	g.Go(func() error {
		m, err := s.measurementRepo.ListByClient(gctx, clientID)
		details.Measurements = m
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return details, nil
}

func (s *clientService) GetClientForUser(ctx context.Context, userID primitive.ObjectID) (*domain.Client, error) {
	client, err := s.clientRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	return client, nil
}

func (s *clientService) GetMyWorkout(ctx context.Context, userID primitive.ObjectID) (*WorkoutWithExercises, error) {
	client, err := s.GetClientForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return activeWorkout(ctx, s.workoutRepo, s.exerciseRepo, client.ID)
}

func (s *clientService) GetMyMealPlan(ctx context.Context, userID primitive.ObjectID) (*MealPlanWithMeals, error) {
	client, err := s.GetClientForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return activeMealPlan(ctx, s.mealPlanRepo, s.mealRepo, client.ID)
}

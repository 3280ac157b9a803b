package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"alcyxob/fitcoach/internal/domain"
	"alcyxob/fitcoach/internal/lock"
	"alcyxob/fitcoach/internal/logger"
	"alcyxob/fitcoach/internal/repository"
	"alcyxob/fitcoach/internal/storage"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var errInjected = errors.New("injected failure")

// memDB backs every fake repository so cascades and cross-collection checks
// behave like the Mongo implementation. fail maps "collection.Method" to the
// error that call should return.
type memDB struct {
	mu           sync.Mutex
	users        map[primitive.ObjectID]domain.User
	clients      map[primitive.ObjectID]domain.Client
	measurements map[primitive.ObjectID]domain.Measurement
	photos       map[primitive.ObjectID]domain.ProgressPhoto
	plans        map[primitive.ObjectID]domain.MealPlan
	meals        map[primitive.ObjectID]domain.Meal
	workouts     map[primitive.ObjectID]domain.Workout
	exercises    map[primitive.ObjectID]domain.Exercise
	fail         map[string]error
}

func newMemDB() *memDB {
	return &memDB{
		users:        map[primitive.ObjectID]domain.User{},
		clients:      map[primitive.ObjectID]domain.Client{},
		measurements: map[primitive.ObjectID]domain.Measurement{},
		photos:       map[primitive.ObjectID]domain.ProgressPhoto{},
		plans:        map[primitive.ObjectID]domain.MealPlan{},
		meals:        map[primitive.ObjectID]domain.Meal{},
		workouts:     map[primitive.ObjectID]domain.Workout{},
		exercises:    map[primitive.ObjectID]domain.Exercise{},
		fail:         map[string]error{},
	}
}

func (db *memDB) failOn(op string, err error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.fail[op] = err
}

// check must be called with mu held.
func (db *memDB) check(op string) error {
	return db.fail[op]
}

func (db *memDB) addClient(trainerID primitive.ObjectID) domain.Client {
	db.mu.Lock()
	defer db.mu.Unlock()
	c := domain.Client{
		ID:            primitive.NewObjectID(),
		TrainerID:     trainerID,
		FullName:      "Ana Souza",
		Email:         "ana@example.com",
		Gender:        domain.GenderFemale,
		Height:        165,
		CurrentWeight: 70,
		FitnessGoal:   domain.GoalLoseWeight,
		ActivityLevel: domain.ActivityModerate,
	}
	db.clients[c.ID] = c
	return c
}

func (db *memDB) activePlans(clientID primitive.ObjectID) []domain.MealPlan {
	db.mu.Lock()
	defer db.mu.Unlock()
	var out []domain.MealPlan
	for _, p := range db.plans {
		if p.ClientID == clientID && p.IsActive {
			out = append(out, p)
		}
	}
	return out
}

func (db *memDB) activeWorkouts(clientID primitive.ObjectID) []domain.Workout {
	db.mu.Lock()
	defer db.mu.Unlock()
	var out []domain.Workout
	for _, w := range db.workouts {
		if w.ClientID == clientID && w.IsActive {
			out = append(out, w)
		}
	}
	return out
}

func (db *memDB) counts() (plans, meals, workouts, exercises int) {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.plans), len(db.meals), len(db.workouts), len(db.exercises)
}

// --- users ---

type memUsers struct{ db *memDB }

func (r memUsers) Create(_ context.Context, u *domain.User) (primitive.ObjectID, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if err := r.db.check("users.Create"); err != nil {
		return primitive.NilObjectID, err
	}
	for _, existing := range r.db.users {
		if existing.Email == u.Email {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	u.ID = primitive.NewObjectID()
	u.CreatedAt = time.Now().UTC()
	r.db.users[u.ID] = *u
	return u.ID, nil
}

func (r memUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, u := range r.db.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r memUsers) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	u, ok := r.db.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r memUsers) Delete(_ context.Context, id primitive.ObjectID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.db.users, id)
	return nil
}

// --- clients ---

type memClients struct{ db *memDB }

func (r memClients) Create(_ context.Context, c *domain.Client) (primitive.ObjectID, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if err := r.db.check("clients.Create"); err != nil {
		return primitive.NilObjectID, err
	}
	c.ID = primitive.NewObjectID()
	c.CreatedAt = time.Now().UTC()
	r.db.clients[c.ID] = *c
	return c.ID, nil
}

func (r memClients) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Client, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c, ok := r.db.clients[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (r memClients) GetByUserID(_ context.Context, userID primitive.ObjectID) (*domain.Client, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, c := range r.db.clients {
		if c.UserID != nil && *c.UserID == userID {
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r memClients) ListByTrainer(_ context.Context, trainerID primitive.ObjectID) ([]domain.Client, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []domain.Client{}
	for _, c := range r.db.clients {
		if c.TrainerID == trainerID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// --- measurements & photos ---

type memMeasurements struct{ db *memDB }

func (r memMeasurements) Create(_ context.Context, m *domain.Measurement) (primitive.ObjectID, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	m.ID = primitive.NewObjectID()
	m.CreatedAt = time.Now().UTC()
	if m.MeasuredAt.IsZero() {
		m.MeasuredAt = m.CreatedAt
	}
	r.db.measurements[m.ID] = *m
	return m.ID, nil
}

func (r memMeasurements) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Measurement, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	m, ok := r.db.measurements[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &m, nil
}

func (r memMeasurements) ListByClient(_ context.Context, clientID primitive.ObjectID) ([]domain.Measurement, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []domain.Measurement{}
	for _, m := range r.db.measurements {
		if m.ClientID == clientID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MeasuredAt.Before(out[j].MeasuredAt) })
	return out, nil
}

type memPhotos struct{ db *memDB }

func (r memPhotos) Create(_ context.Context, p *domain.ProgressPhoto) (primitive.ObjectID, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, existing := range r.db.photos {
		if existing.S3ObjectKey == p.S3ObjectKey {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	p.ID = primitive.NewObjectID()
	p.UploadedAt = time.Now().UTC()
	r.db.photos[p.ID] = *p
	return p.ID, nil
}

func (r memPhotos) ListByMeasurement(_ context.Context, measurementID primitive.ObjectID) ([]domain.ProgressPhoto, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []domain.ProgressPhoto{}
	for _, p := range r.db.photos {
		if p.MeasurementID == measurementID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UploadedAt.Before(out[j].UploadedAt) })
	return out, nil
}

// --- meal plans & meals ---

type memMealPlans struct{ db *memDB }

func (r memMealPlans) Create(_ context.Context, p *domain.MealPlan) (primitive.ObjectID, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if err := r.db.check("plans.Create"); err != nil {
		return primitive.NilObjectID, err
	}
	p.ID = primitive.NewObjectID()
	p.CreatedAt = time.Now().UTC()
	p.UpdatedAt = p.CreatedAt
	r.db.plans[p.ID] = *p
	return p.ID, nil
}

func (r memMealPlans) GetByID(_ context.Context, id primitive.ObjectID) (*domain.MealPlan, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p, ok := r.db.plans[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (r memMealPlans) FindActiveForClient(_ context.Context, clientID primitive.ObjectID) (*domain.MealPlan, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, p := range r.db.plans {
		if p.ClientID == clientID && p.IsActive {
			return &p, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r memMealPlans) ActivateExclusive(_ context.Context, clientID, planID primitive.ObjectID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if err := r.db.check("plans.ActivateExclusive"); err != nil {
		return err
	}
	target, ok := r.db.plans[planID]
	if !ok || target.ClientID != clientID {
		return repository.ErrNotFound
	}
	for id, p := range r.db.plans {
		if p.ClientID == clientID && p.IsActive && id != planID {
			p.IsActive = false
			r.db.plans[id] = p
		}
	}
	target.IsActive = true
	r.db.plans[planID] = target
	return nil
}

func (r memMealPlans) Update(_ context.Context, p *domain.MealPlan) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if err := r.db.check("plans.Update"); err != nil {
		return err
	}
	stored, ok := r.db.plans[p.ID]
	if !ok {
		return repository.ErrNotFound
	}
	stored.Name, stored.Description = p.Name, p.Description
	stored.DailyCalories, stored.ProteinGrams, stored.CarbsGrams, stored.FatsGrams =
		p.DailyCalories, p.ProteinGrams, p.CarbsGrams, p.FatsGrams
	stored.UpdatedAt = time.Now().UTC()
	r.db.plans[p.ID] = stored
	return nil
}

func (r memMealPlans) Delete(_ context.Context, id primitive.ObjectID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for mid, m := range r.db.meals {
		if m.MealPlanID == id {
			delete(r.db.meals, mid)
		}
	}
	if _, ok := r.db.plans[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.db.plans, id)
	return nil
}

type memMeals struct{ db *memDB }

func (r memMeals) CreateMany(_ context.Context, meals []domain.Meal) ([]primitive.ObjectID, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if err := r.db.check("meals.CreateMany"); err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, len(meals))
	for i := range meals {
		meals[i].ID = primitive.NewObjectID()
		r.db.meals[meals[i].ID] = meals[i]
		ids[i] = meals[i].ID
	}
	return ids, nil
}

func (r memMeals) Create(_ context.Context, m *domain.Meal) (primitive.ObjectID, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if err := r.db.check("meals.Create"); err != nil {
		return primitive.NilObjectID, err
	}
	m.ID = primitive.NewObjectID()
	r.db.meals[m.ID] = *m
	return m.ID, nil
}

func (r memMeals) Update(_ context.Context, m *domain.Meal) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	stored, ok := r.db.meals[m.ID]
	if !ok || stored.MealPlanID != m.MealPlanID {
		return repository.ErrNotFound
	}
	m.CreatedAt = stored.CreatedAt
	r.db.meals[m.ID] = *m
	return nil
}

func (r memMeals) DeleteMany(_ context.Context, planID primitive.ObjectID, ids []primitive.ObjectID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	deleted := 0
	for _, id := range ids {
		if m, ok := r.db.meals[id]; ok && m.MealPlanID == planID {
			delete(r.db.meals, id)
			deleted++
		}
	}
	if deleted != len(ids) {
		return repository.ErrDeleteFailed
	}
	return nil
}

func (r memMeals) GetByPlanID(_ context.Context, planID primitive.ObjectID) ([]domain.Meal, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []domain.Meal{}
	for _, m := range r.db.meals {
		if m.MealPlanID == planID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderIndex < out[j].OrderIndex })
	return out, nil
}

// --- workouts & exercises ---

type memWorkouts struct{ db *memDB }

func (r memWorkouts) Create(_ context.Context, w *domain.Workout) (primitive.ObjectID, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	w.ID = primitive.NewObjectID()
	w.CreatedAt = time.Now().UTC()
	w.UpdatedAt = w.CreatedAt
	r.db.workouts[w.ID] = *w
	return w.ID, nil
}

func (r memWorkouts) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Workout, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	w, ok := r.db.workouts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &w, nil
}

func (r memWorkouts) FindActiveForClient(_ context.Context, clientID primitive.ObjectID) (*domain.Workout, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, w := range r.db.workouts {
		if w.ClientID == clientID && w.IsActive {
			return &w, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r memWorkouts) ActivateExclusive(_ context.Context, clientID, workoutID primitive.ObjectID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	target, ok := r.db.workouts[workoutID]
	if !ok || target.ClientID != clientID {
		return repository.ErrNotFound
	}
	for id, w := range r.db.workouts {
		if w.ClientID == clientID && w.IsActive && id != workoutID {
			w.IsActive = false
			r.db.workouts[id] = w
		}
	}
	target.IsActive = true
	r.db.workouts[workoutID] = target
	return nil
}

func (r memWorkouts) Update(_ context.Context, w *domain.Workout) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	stored, ok := r.db.workouts[w.ID]
	if !ok {
		return repository.ErrNotFound
	}
	stored.Name, stored.Description, stored.Goal, stored.DurationWeeks = w.Name, w.Description, w.Goal, w.DurationWeeks
	stored.UpdatedAt = time.Now().UTC()
	r.db.workouts[w.ID] = stored
	return nil
}

func (r memWorkouts) Delete(_ context.Context, id primitive.ObjectID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for eid, e := range r.db.exercises {
		if e.WorkoutID == id {
			delete(r.db.exercises, eid)
		}
	}
	if _, ok := r.db.workouts[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.db.workouts, id)
	return nil
}

type memExercises struct{ db *memDB }

func (r memExercises) CreateMany(_ context.Context, exercises []domain.Exercise) ([]primitive.ObjectID, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if err := r.db.check("exercises.CreateMany"); err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, len(exercises))
	for i := range exercises {
		exercises[i].ID = primitive.NewObjectID()
		r.db.exercises[exercises[i].ID] = exercises[i]
		ids[i] = exercises[i].ID
	}
	return ids, nil
}

func (r memExercises) Create(_ context.Context, e *domain.Exercise) (primitive.ObjectID, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	e.ID = primitive.NewObjectID()
	r.db.exercises[e.ID] = *e
	return e.ID, nil
}

func (r memExercises) Update(_ context.Context, e *domain.Exercise) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	stored, ok := r.db.exercises[e.ID]
	if !ok || stored.WorkoutID != e.WorkoutID {
		return repository.ErrNotFound
	}
	r.db.exercises[e.ID] = *e
	return nil
}

func (r memExercises) DeleteMany(_ context.Context, workoutID primitive.ObjectID, ids []primitive.ObjectID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	deleted := 0
	for _, id := range ids {
		if e, ok := r.db.exercises[id]; ok && e.WorkoutID == workoutID {
			delete(r.db.exercises, id)
			deleted++
		}
	}
	if deleted != len(ids) {
		return repository.ErrDeleteFailed
	}
	return nil
}

func (r memExercises) GetByWorkoutID(_ context.Context, workoutID primitive.ObjectID) ([]domain.Exercise, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []domain.Exercise{}
	for _, e := range r.db.exercises {
		if e.WorkoutID == workoutID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DayOfWeek != out[j].DayOfWeek {
			return out[i].DayOfWeek < out[j].DayOfWeek
		}
		return out[i].OrderIndex < out[j].OrderIndex
	})
	return out, nil
}

// passthroughTx has no rollback, so services must clean up after themselves.
type passthroughTx struct{}

func (passthroughTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// --- object storage ---

type memStorage struct {
	mu      sync.Mutex
	objects map[string]storage.ObjectInfo
	deleted []string
}

func newMemStorage() *memStorage {
	return &memStorage{objects: map[string]storage.ObjectInfo{}}
}

func (s *memStorage) put(key string, size int64, contentType string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = storage.ObjectInfo{Size: size, ContentType: contentType}
}

func (s *memStorage) GeneratePresignedUploadURL(_ context.Context, key, contentType string, _ time.Duration) (string, error) {
	return "https://bucket.test/" + key + "?op=put&ct=" + strings.ReplaceAll(contentType, "/", "%2F"), nil
}

func (s *memStorage) GeneratePresignedDownloadURL(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://bucket.test/" + key + "?op=get", nil
}

func (s *memStorage) StatObject(_ context.Context, key string) (*storage.ObjectInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	info, ok := s.objects[key]
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	return &info, nil
}

func (s *memStorage) DeleteObject(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	s.deleted = append(s.deleted, key)
	return nil
}

// --- wiring ---

type testServices struct {
	db          *memDB
	files       *memStorage
	auth        AuthService
	clients     ClientService
	generation  GenerationService
	editor      EditorService
	measurement MeasurementService
}

func newTestServices() *testServices {
	db := newMemDB()
	files := newMemStorage()
	log := logger.Nop()

	users := memUsers{db}
	clients := memClients{db}
	plans := memMealPlans{db}
	meals := memMeals{db}
	workouts := memWorkouts{db}
	exercises := memExercises{db}
	measurements := memMeasurements{db}

	auth := NewAuthService(users, "test-secret", time.Hour)
	return &testServices{
		db:          db,
		files:       files,
		auth:        auth,
		clients:     NewClientService(auth, clients, measurements, plans, meals, workouts, exercises, log),
		generation:  NewGenerationService(clients, plans, meals, workouts, exercises, passthroughTx{}, lock.NewLocalLocker(), log),
		editor:      NewEditorService(clients, plans, meals, workouts, exercises, passthroughTx{}, log),
		measurement: NewMeasurementService(clients, measurements, memPhotos{db}, files, log),
	}
}

// internal/repository/mongo/meal_plan_repo.go
package mongo

import (
	"context"
	"errors"
	"time"

	"alcyxob/fitcoach/internal/domain"
	"alcyxob/fitcoach/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const mealPlanCollectionName = "meal_plans"

// mongoMealPlanRepository implements repository.MealPlanRepository
type mongoMealPlanRepository struct {
	collection *mongo.Collection
	meals      *mongo.Collection
}

// NewMongoMealPlanRepository creates a new MealPlan repository.
func NewMongoMealPlanRepository(db *mongo.Database) repository.MealPlanRepository {
	return &mongoMealPlanRepository{
		collection: db.Collection(mealPlanCollectionName),
		meals:      db.Collection(mealCollectionName),
	}
}

// Create inserts a new meal plan.
func (r *mongoMealPlanRepository) Create(ctx context.Context, plan *domain.MealPlan) (primitive.ObjectID, error) {
	if plan.ClientID == primitive.NilObjectID || plan.TrainerID == primitive.NilObjectID || plan.Name == "" {
		return primitive.NilObjectID, errors.New("plan requires clientId, trainerId, and name")
	}
	plan.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	plan.CreatedAt = now
	plan.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, plan)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
		return primitive.NilObjectID, err
	}
	return insertedObjectID(result)
}

// GetByID retrieves a single meal plan by its ID.
func (r *mongoMealPlanRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.MealPlan, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// FindActiveForClient returns ErrNotFound when the client has no active plan.
func (r *mongoMealPlanRepository) FindActiveForClient(ctx context.Context, clientID primitive.ObjectID) (*domain.MealPlan, error) {
	return r.findOne(ctx, bson.M{"clientId": clientID, "isActive": true})
}

func (r *mongoMealPlanRepository) findOne(ctx context.Context, filter bson.M) (*domain.MealPlan, error) {
	var plan domain.MealPlan
	if err := r.collection.FindOne(ctx, filter).Decode(&plan); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &plan, nil
}

func (r *mongoMealPlanRepository) ActivateExclusive(ctx context.Context, clientID, planID primitive.ObjectID) error {
	return activateExclusive(ctx, r.collection, clientID, planID)
}

// Update writes the editable scalar fields. Ownership, activity and
// creation time are not touched here.
func (r *mongoMealPlanRepository) Update(ctx context.Context, plan *domain.MealPlan) error {
	if plan.ID == primitive.NilObjectID {
		return errors.New("meal plan ID is required for update")
	}

	plan.UpdatedAt = time.Now().UTC()
	updateDoc := bson.M{
		"$set": bson.M{
			"name":          plan.Name,
			"description":   plan.Description,
			"dailyCalories": plan.DailyCalories,
			"proteinGrams":  plan.ProteinGrams,
			"carbsGrams":    plan.CarbsGrams,
			"fatsGrams":     plan.FatsGrams,
			"updatedAt":     plan.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": plan.ID}, updateDoc)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes the plan together with its meals.
func (r *mongoMealPlanRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, err := r.meals.DeleteMany(ctx, bson.M{"mealPlanId": id}); err != nil {
		return err
	}
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureMealPlanIndexes creates necessary indexes. Call during startup.
func EnsureMealPlanIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		singleActiveIndex(),
		{
			Keys:    bson.D{{Key: "trainerId", Value: 1}, {Key: "clientId", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}

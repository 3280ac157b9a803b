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

const mealCollectionName = "meals"

type mongoMealRepository struct {
	collection *mongo.Collection
}

func NewMongoMealRepository(db *mongo.Database) repository.MealRepository {
	return &mongoMealRepository{
		collection: db.Collection(mealCollectionName),
	}
}

// CreateMany inserts a plan's meals in one round trip and fills in their IDs.
func (r *mongoMealRepository) CreateMany(ctx context.Context, meals []domain.Meal) ([]primitive.ObjectID, error) {
	if len(meals) == 0 {
		return nil, nil
	}
	now := time.Now().UTC()
	docs := make([]interface{}, len(meals))
	ids := make([]primitive.ObjectID, len(meals))
	for i := range meals {
		if meals[i].MealPlanID == primitive.NilObjectID {
			return nil, errors.New("meal requires mealPlanId")
		}
		meals[i].ID = primitive.NewObjectID()
		meals[i].CreatedAt = now
		docs[i] = meals[i]
		ids[i] = meals[i].ID
	}
	if _, err := r.collection.InsertMany(ctx, docs); err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *mongoMealRepository) Create(ctx context.Context, meal *domain.Meal) (primitive.ObjectID, error) {
	if meal.MealPlanID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("meal requires mealPlanId")
	}
	meal.ID = primitive.NewObjectID()
	meal.CreatedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, meal)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return insertedObjectID(result)
}

func (r *mongoMealRepository) Update(ctx context.Context, meal *domain.Meal) error {
	filter := bson.M{"_id": meal.ID, "mealPlanId": meal.MealPlanID}
	update := bson.M{
		"$set": bson.M{
			"mealType":     meal.MealType,
			"name":         meal.Name,
			"description":  meal.Description,
			"calories":     meal.Calories,
			"proteinGrams": meal.ProteinGrams,
			"carbsGrams":   meal.CarbsGrams,
			"fatsGrams":    meal.FatsGrams,
			"ingredients":  meal.Ingredients,
			"instructions": meal.Instructions,
			"orderIndex":   meal.OrderIndex,
		},
	}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// DeleteMany removes the listed meals of one plan. Fewer deletions than ids is ErrDeleteFailed.
func (r *mongoMealRepository) DeleteMany(ctx context.Context, planID primitive.ObjectID, ids []primitive.ObjectID) error {
	if len(ids) == 0 {
		return nil
	}
	result, err := r.collection.DeleteMany(ctx, bson.M{"mealPlanId": planID, "_id": bson.M{"$in": ids}})
	if err != nil {
		return err
	}
	if result.DeletedCount != int64(len(ids)) {
		return repository.ErrDeleteFailed
	}
	return nil
}

func (r *mongoMealRepository) GetByPlanID(ctx context.Context, planID primitive.ObjectID) ([]domain.Meal, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "orderIndex", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"mealPlanId": planID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	meals := []domain.Meal{}
	if err = cursor.All(ctx, &meals); err != nil {
		return nil, err
	}
	return meals, nil
}

// EnsureMealIndexes creates necessary indexes for the meals collection.
// orderIndex is not unique at the store: an edit that swaps two meals
// passes through a state where both share an index.
func EnsureMealIndexes(ctx context.Context, collection *mongo.Collection) error {
	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "mealPlanId", Value: 1}, {Key: "orderIndex", Value: 1}},
	})
	return err
}

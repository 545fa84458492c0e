package services

import (
	"context"
	"fmt"
	"log"
	"math"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"infinityHealthAPI/internal/exercise"
	"infinityHealthAPI/internal/mission"
)

// SeedService loads the static catalogs (levels, missions, exercises).
// All loaders are idempotent: rows that already exist are left alone, so
// re-running a seed after a deploy is safe.
type SeedService struct {
	db *pgxpool.Pool
}

func NewSeedService(db *pgxpool.Pool) *SeedService {
	return &SeedService{db: db}
}

type levelTier struct {
	minLevel int
	maxLevel int
	title    string
	color    string
	hexCode  string
}

var levelTiers = []levelTier{
	{1, 10, "Beginner", "Spring Green", "#00FF7F"},
	{11, 20, "Novice", "Cornflower Blue", "#6495ED"},
	{21, 30, "Intermediate", "Light Slate Blue", "#8470FF"},
	{31, 40, "Skilled", "Orange", "#FFA500"},
	{41, 50, "Advanced", "Cyan", "#00FFFF"},
	{51, 60, "Expert", "Violet", "#EE82EE"},
	{61, 70, "Master", "Dark Violet", "#9400D3"},
	{71, 80, "Grand Master", "Magenta", "#FF00FF"},
	{81, 90, "Elite", "Red", "#FF0000"},
	{91, 100, "Legendary", "Gold", "#FFD700"},
}

// SeedLevels generates the 100-row display table. Required exp climbs with
// the tier and the position inside it, rounded to tens; min/max bands are
// the running cumulative totals.
func (s *SeedService) SeedLevels(ctx context.Context) (int, error) {
	inserted := 0
	cumulativeExp := 0

	for i := 1; i <= 100; i++ {
		var tier levelTier
		for _, t := range levelTiers {
			if i >= t.minLevel && i <= t.maxLevel {
				tier = t
				break
			}
		}

		multiplier := (i-1)/10 + 1
		requiredExp := 100.0 * float64(multiplier) * (1 + float64(i%10)*0.1)
		roundedExp := int(math.Round(requiredExp/10)) * 10

		minExp := cumulativeExp
		cumulativeExp += roundedExp
		maxExp := cumulativeExp

		tag, err := s.db.Exec(ctx, `
		INSERT INTO levels (id, level_id, name, title, color, hex_code, min_exp, max_exp, required_exp)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (level_id) DO NOTHING`,
			uuid.New(), i, fmt.Sprintf("Level %d", i), tier.title, tier.color, tier.hexCode,
			minExp, maxExp, roundedExp,
		)
		if err != nil {
			return inserted, fmt.Errorf("failed to seed level %d: %w", i, err)
		}
		inserted += int(tag.RowsAffected())
	}

	log.Printf("level seed: %d inserted", inserted)
	return inserted, nil
}

type missionSeed struct {
	title        string
	kind         mission.Kind
	rewardExp    int
	rewardPoints int
	startTime    string
	endTime      string
	description  string
	targetValue  float64
	targetUnit   string
	minLevel     int
}

var missionCatalog = []missionSeed{
	// Daily missions reset every epoch day.
	{"Drink Water", mission.KindDaily, 30, 5, "00:00", "23:59", "Drink 2,000 ml of water", 2000, "ml", 1},
	{"Step Count", mission.KindDaily, 50, 10, "00:00", "23:59", "Walk 5,000 steps", 5000, "steps", 1},
	{"Morning Walk", mission.KindDaily, 40, 8, "06:00", "09:00", "Take a 15 minute walk in the morning", 15, "minutes", 1},
	{"Healthy Meal", mission.KindDaily, 30, 6, "00:00", "23:59", "Eat one healthy meal", 1, "meal", 1},
	{"Sleep Early", mission.KindDaily, 40, 10, "21:00", "23:59", "Go to bed before 10pm", 1, "time", 1},
	{"Stretch Break", mission.KindDaily, 25, 5, "00:00", "23:59", "Stretch for 10 minutes", 10, "minutes", 1},
	{"No Sugary Drinks", mission.KindDaily, 35, 8, "00:00", "23:59", "Avoid sugary drinks for a day", 1, "day", 1},
	{"Avoid Fried Food", mission.KindDaily, 35, 8, "00:00", "23:59", "Avoid fried food for a day", 1, "day", 1},

	// Challenge missions unlock every 10 levels.
	{"First Step", mission.KindChallenge, 100, 25, "00:00", "23:59", "Complete your first workout", 1, "time", 1},
	{"Balanced Diet", mission.KindChallenge, 150, 30, "00:00", "23:59", "Eat from all five food groups 3 days in a row", 3, "days", 1},
	{"Sugar Cutback", mission.KindChallenge, 200, 50, "00:00", "23:59", "Cut sugar from one meal a day for 7 days", 7, "days", 11},
	{"Hydration Hero", mission.KindChallenge, 180, 40, "00:00", "23:59", "Hit the water goal 7 days straight", 7, "days", 11},
	{"No Soda", mission.KindChallenge, 280, 70, "00:00", "23:59", "Skip soft drinks for 14 days straight", 14, "days", 21},
	{"Step Master", mission.KindChallenge, 300, 80, "00:00", "23:59", "Walk 10,000 steps in a single day", 10000, "steps", 21},
	{"Cardio Commitment", mission.KindChallenge, 400, 100, "00:00", "23:59", "30 minutes of cardio, 3 days a week for 2 weeks", 6, "times", 31},
	{"Workout Warrior", mission.KindChallenge, 450, 120, "00:00", "23:59", "Exercise 14 days in a row", 14, "days", 31},
	{"Weight Training", mission.KindChallenge, 550, 140, "00:00", "23:59", "Weight training 3 days a week for 3 weeks", 9, "times", 41},
	{"Health Master", mission.KindChallenge, 600, 150, "00:00", "23:59", "Complete every daily mission for 14 days", 14, "days", 41},
	{"Veggies Every Day", mission.KindChallenge, 700, 180, "00:00", "23:59", "Eat fruit and vegetables daily for 3 weeks", 15, "days", 51},
	{"Marathon Walker", mission.KindChallenge, 750, 200, "00:00", "23:59", "Walk 100,000 steps in a week", 100000, "steps", 51},
	{"No Processed Food", mission.KindChallenge, 900, 250, "00:00", "23:59", "Avoid processed food for a week", 7, "days", 61},
	{"Perfect Week", mission.KindChallenge, 1000, 300, "00:00", "23:59", "Complete every daily mission for 21 days", 21, "days", 61},
	{"Sugar Free Fortnight", mission.KindChallenge, 1200, 350, "00:00", "23:59", "No sweets for 2 weeks", 14, "days", 71},
	{"Body Transformation", mission.KindChallenge, 1500, 400, "00:00", "23:59", "Lose 3 kg in a month", 3, "kg", 71},
	{"Quality Sleep", mission.KindChallenge, 1800, 500, "00:00", "23:59", "Sleep 8 hours a night for 15 days", 15, "days", 81},
	{"Ultimate Fitness", mission.KindChallenge, 2000, 600, "00:00", "23:59", "Exercise 60 minutes a day, 21 days straight", 21, "days", 81},
	{"Sustainable Health", mission.KindChallenge, 3000, 800, "00:00", "23:59", "Keep every healthy habit going for a full month", 30, "days", 91},
	{"Health Legend", mission.KindChallenge, 5000, 1000, "00:00", "23:59", "Complete all missions and exercise daily for 30 days", 30, "days", 91},
}

// SeedMissions loads the mission catalog, keyed by title.
func (s *SeedService) SeedMissions(ctx context.Context) (int, error) {
	inserted := 0

	for _, m := range missionCatalog {
		tag, err := s.db.Exec(ctx, `
		INSERT INTO missions (id, title, description, type, reward_exp, reward_points, start_time, end_time, min_level, target_value, target_unit)
		SELECT $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
		WHERE NOT EXISTS (SELECT 1 FROM missions WHERE title = $2)`,
			uuid.New(), m.title, m.description, m.kind, m.rewardExp, m.rewardPoints,
			m.startTime, m.endTime, m.minLevel, m.targetValue, m.targetUnit,
		)
		if err != nil {
			return inserted, fmt.Errorf("failed to seed mission %q: %w", m.title, err)
		}
		inserted += int(tag.RowsAffected())
	}

	log.Printf("mission seed: %d inserted", inserted)
	return inserted, nil
}

type exerciseSeed struct {
	typ        exercise.Type
	difficulty exercise.Difficulty
	title      string
}

var exerciseCatalog = []exerciseSeed{
	{exercise.TypeCardio, exercise.DifficultyEasy, "Walking"},
	{exercise.TypeCardio, exercise.DifficultyEasy, "Jumping Jacks"},
	{exercise.TypeCardio, exercise.DifficultyEasy, "March in Place"},
	{exercise.TypeCardio, exercise.DifficultyEasy, "Step Touch"},
	{exercise.TypeCardio, exercise.DifficultyMedium, "Jogging"},
	{exercise.TypeCardio, exercise.DifficultyMedium, "High Knees"},
	{exercise.TypeCardio, exercise.DifficultyMedium, "Butt Kicks"},
	{exercise.TypeCardio, exercise.DifficultyMedium, "Mountain Climbers"},
	{exercise.TypeCardio, exercise.DifficultyMedium, "Jump Rope"},
	{exercise.TypeCardio, exercise.DifficultyHard, "Burpees"},
	{exercise.TypeCardio, exercise.DifficultyHard, "Sprint Intervals"},
	{exercise.TypeCardio, exercise.DifficultyHard, "Box Jumps"},
	{exercise.TypeCardio, exercise.DifficultyHard, "Tuck Jumps"},
	{exercise.TypeWeight, exercise.DifficultyEasy, "Wall Push-ups"},
	{exercise.TypeWeight, exercise.DifficultyEasy, "Bodyweight Squats"},
	{exercise.TypeWeight, exercise.DifficultyEasy, "Glute Bridges"},
	{exercise.TypeWeight, exercise.DifficultyEasy, "Knee Push-ups"},
	{exercise.TypeWeight, exercise.DifficultyEasy, "Standing Calf Raises"},
	{exercise.TypeWeight, exercise.DifficultyMedium, "Push-ups"},
	{exercise.TypeWeight, exercise.DifficultyMedium, "Lunges"},
	{exercise.TypeWeight, exercise.DifficultyMedium, "Plank"},
	{exercise.TypeWeight, exercise.DifficultyMedium, "Dumbbell Rows"},
	{exercise.TypeWeight, exercise.DifficultyMedium, "Dumbbell Shoulder Press"},
	{exercise.TypeWeight, exercise.DifficultyMedium, "Bicep Curls"},
	{exercise.TypeWeight, exercise.DifficultyMedium, "Tricep Dips"},
	{exercise.TypeWeight, exercise.DifficultyHard, "Diamond Push-ups"},
	{exercise.TypeWeight, exercise.DifficultyHard, "Pistol Squats"},
	{exercise.TypeWeight, exercise.DifficultyHard, "Pull-ups"},
	{exercise.TypeWeight, exercise.DifficultyHard, "Deadlifts"},
	{exercise.TypeWeight, exercise.DifficultyHard, "Weighted Squats"},
	{exercise.TypeWeight, exercise.DifficultyHard, "Muscle-ups"},
}

// SeedExercises loads the exercise catalog, keyed by title.
func (s *SeedService) SeedExercises(ctx context.Context) (int, error) {
	inserted := 0

	for _, e := range exerciseCatalog {
		tag, err := s.db.Exec(ctx, `
		INSERT INTO exercises (id, type, difficulty, title)
		SELECT $1, $2, $3, $4
		WHERE NOT EXISTS (SELECT 1 FROM exercises WHERE title = $4)`,
			uuid.New(), e.typ, e.difficulty, e.title,
		)
		if err != nil {
			return inserted, fmt.Errorf("failed to seed exercise %q: %w", e.title, err)
		}
		inserted += int(tag.RowsAffected())
	}

	log.Printf("exercise seed: %d inserted", inserted)
	return inserted, nil
}

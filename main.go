package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	gorilllaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"infinityHealthAPI/handlers"
	"infinityHealthAPI/internal/notification"
	"infinityHealthAPI/middleware"
	"infinityHealthAPI/services"

	_ "net/http/pprof"
)

var (
	dbPool              *pgxpool.Pool
	userService         *services.UserService
	profileService      *services.ProfileService
	missionService      *services.MissionService
	levelService        *services.LevelService
	exerciseService     *services.ExerciseService
	routineService      *services.RoutineService
	dailyGoalService    *services.DailyGoalService
	healthTrackService  *services.HealthTrackService
	notificationService *services.NotificationService
	seedService         *services.SeedService
	fcmService          *notification.FCMService
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	if os.Getenv("JWT_SECRET") == "" {
		log.Fatal("JWT_SECRET environment variable is not set")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	poolConfig, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		log.Fatal("Failed to parse database URL:", err)
	}

	poolConfig.MaxConns = 25
	poolConfig.MinConns = 5
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	dbPool, err = pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		log.Fatal("Failed to create connection pool:", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Fatal("Failed to ping database:", err)
	}

	log.Println("Successfully connected to Postgres")

	notificationService = services.NewNotificationService(dbPool)
	userService = services.NewUserService(dbPool)
	profileService = services.NewProfileService(dbPool)
	missionService = services.NewMissionService(dbPool, notificationService)
	levelService = services.NewLevelService(dbPool)
	exerciseService = services.NewExerciseService(dbPool)
	routineService = services.NewRoutineService(dbPool)
	dailyGoalService = services.NewDailyGoalService(dbPool)
	healthTrackService = services.NewHealthTrackService(dbPool)
	seedService = services.NewSeedService(dbPool)

	fcmService, err = notification.NewFCMService("./serviceAccountKey.json")
	if err != nil {
		log.Printf("Warning: Could not initialize FCM: %v", err)
	} else {
		notificationService.SetPushProvider(fcmService)
		log.Println("FCM Push Provider initialized successfully")
	}

	middleware.InitPrometheus()
}

func main() {
	defer func() {
		log.Println("Closing database connection pool...")
		dbPool.Close()
	}()

	authHandler := handlers.NewAuthHandler(userService)
	profileHandler := handlers.NewProfileHandler(profileService)
	missionHandler := handlers.NewMissionHandler(missionService, seedService)
	levelHandler := handlers.NewLevelHandler(levelService, seedService)
	exerciseHandler := handlers.NewExerciseHandler(exerciseService, seedService)
	routineHandler := handlers.NewRoutineHandler(routineService)
	dailyGoalHandler := handlers.NewDailyGoalHandler(dailyGoalService)
	healthTrackHandler := handlers.NewHealthTrackHandler(healthTrackService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)

	r := mux.NewRouter()

	go middleware.CleanupVisitors()

	r.Use(middleware.RateLimitMiddleware)
	r.Use(middleware.MonitorMiddleware)

	r.Handle("/metrics", middleware.BasicAuthMiddleware(promhttp.Handler()))
	r.PathPrefix("/debug/pprof/").Handler(middleware.PprofSecurityMiddleware(http.DefaultServeMux))

	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"service": "infinityHealth-api", "status": "running"}`))
	}).Methods("GET")

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := dbPool.Ping(ctx); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status": "unhealthy", "error": "database connection failed"}`))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy", "service": "infinityHealth-api"}`))
	}).Methods("GET")

	// -------------------------------------------------------------------------
	// PUBLIC ROUTES
	// -------------------------------------------------------------------------
	r.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")
	r.HandleFunc("/auth/logout", authHandler.Logout).Methods("POST")

	// -------------------------------------------------------------------------
	// PROTECTED ROUTES (REQUIRE AUTH HEADER)
	// -------------------------------------------------------------------------
	protected := r.PathPrefix("").Subrouter()
	protected.Use(middleware.JWTAuthMiddleware)

	protected.HandleFunc("/mission", missionHandler.GetMissions).Methods("GET")
	protected.HandleFunc("/mission", missionHandler.CreateMission).Methods("POST")
	protected.HandleFunc("/mission/seed", missionHandler.SeedMissions).Methods("POST")
	protected.HandleFunc("/mission/type/{type}", missionHandler.GetMissionsByType).Methods("GET")
	protected.HandleFunc("/mission/user/{userId}", missionHandler.GetUserMissions).Methods("GET")
	protected.HandleFunc("/mission/user/{userId}/start/{missionId}", missionHandler.StartMission).Methods("POST")
	protected.HandleFunc("/mission/user/{userId}/progress/{missionId}", missionHandler.UpdateProgress).Methods("PATCH")
	protected.HandleFunc("/mission/user/{userId}/complete/{missionId}", missionHandler.CompleteMission).Methods("PATCH")
	protected.HandleFunc("/mission/user/{userId}/fail/{missionId}", missionHandler.FailMission).Methods("PATCH")
	protected.HandleFunc("/mission/{missionId}", missionHandler.GetMission).Methods("GET")
	protected.HandleFunc("/mission/{missionId}", missionHandler.UpdateMission).Methods("PUT")
	protected.HandleFunc("/mission/{missionId}", missionHandler.DeleteMission).Methods("DELETE")

	protected.HandleFunc("/profile/{userId}", profileHandler.GetProfile).Methods("GET")
	protected.HandleFunc("/profile/{userId}", profileHandler.UpdateProfile).Methods("PUT")
	protected.HandleFunc("/profile/{userId}/add-exp", profileHandler.AddExp).Methods("POST")
	protected.HandleFunc("/profile/{userId}/add-points", profileHandler.AddPoints).Methods("POST")

	protected.HandleFunc("/level", levelHandler.GetLevels).Methods("GET")
	protected.HandleFunc("/level", levelHandler.CreateLevel).Methods("POST")
	protected.HandleFunc("/level/seed", levelHandler.SeedLevels).Methods("POST")
	protected.HandleFunc("/level/exp/{exp}", levelHandler.GetLevelByExp).Methods("GET")
	protected.HandleFunc("/level/{levelId}", levelHandler.GetLevel).Methods("GET")
	protected.HandleFunc("/level/{levelId}", levelHandler.UpdateLevel).Methods("PUT")
	protected.HandleFunc("/level/{levelId}", levelHandler.DeleteLevel).Methods("DELETE")

	protected.HandleFunc("/exercise", exerciseHandler.GetExercises).Methods("GET")
	protected.HandleFunc("/exercise", exerciseHandler.CreateExercise).Methods("POST")
	protected.HandleFunc("/exercise/seed", exerciseHandler.SeedExercises).Methods("POST")
	protected.HandleFunc("/exercise/{exerciseId}", exerciseHandler.GetExercise).Methods("GET")
	protected.HandleFunc("/exercise/{exerciseId}", exerciseHandler.UpdateExercise).Methods("PUT")
	protected.HandleFunc("/exercise/{exerciseId}", exerciseHandler.DeleteExercise).Methods("DELETE")

	protected.HandleFunc("/routine", routineHandler.CreateRoutine).Methods("POST")
	protected.HandleFunc("/routine/user/{userId}", routineHandler.GetRoutines).Methods("GET")
	protected.HandleFunc("/routine/user/{userId}/upcoming", routineHandler.GetUpcomingRoutines).Methods("GET")
	protected.HandleFunc("/routine/user/{userId}/date/{date}", routineHandler.GetRoutinesByDate).Methods("GET")
	protected.HandleFunc("/routine/{routineId}", routineHandler.GetRoutine).Methods("GET")
	protected.HandleFunc("/routine/{routineId}", routineHandler.UpdateRoutine).Methods("PUT")
	protected.HandleFunc("/routine/{routineId}", routineHandler.DeleteRoutine).Methods("DELETE")
	protected.HandleFunc("/routine/{routineId}/complete", routineHandler.CompleteRoutine).Methods("PATCH")

	protected.HandleFunc("/daily-goal", dailyGoalHandler.CreateDailyGoal).Methods("POST")
	protected.HandleFunc("/daily-goal/user/{userId}", dailyGoalHandler.GetDailyGoals).Methods("GET")
	protected.HandleFunc("/daily-goal/user/{userId}/today", dailyGoalHandler.GetTodayGoals).Methods("GET")
	protected.HandleFunc("/daily-goal/user/{userId}/date/{date}", dailyGoalHandler.GetGoalsByDate).Methods("GET")
	protected.HandleFunc("/daily-goal/user/{userId}/incomplete", dailyGoalHandler.GetIncompleteGoals).Methods("GET")
	protected.HandleFunc("/daily-goal/{goalId}", dailyGoalHandler.UpdateDailyGoal).Methods("PUT")
	protected.HandleFunc("/daily-goal/{goalId}", dailyGoalHandler.DeleteDailyGoal).Methods("DELETE")
	protected.HandleFunc("/daily-goal/{goalId}/complete", dailyGoalHandler.CompleteDailyGoal).Methods("PATCH")

	protected.HandleFunc("/health-track/user/{userId}", healthTrackHandler.UpsertHealthTrack).Methods("POST")
	protected.HandleFunc("/health-track/user/{userId}/today", healthTrackHandler.GetToday).Methods("GET")
	protected.HandleFunc("/health-track/user/{userId}/date/{date}", healthTrackHandler.GetByDate).Methods("GET")
	protected.HandleFunc("/health-track/user/{userId}/date/{date}", healthTrackHandler.DeleteByDate).Methods("DELETE")
	protected.HandleFunc("/health-track/user/{userId}/range", healthTrackHandler.GetRange).Methods("GET")
	protected.HandleFunc("/health-track/user/{userId}/add-water", healthTrackHandler.AddWater).Methods("PATCH")
	protected.HandleFunc("/health-track/{trackId}", healthTrackHandler.GetHealthTrack).Methods("GET")

	protected.HandleFunc("/notification", notificationHandler.CreateNotification).Methods("POST")
	protected.HandleFunc("/notification/register-device", notificationHandler.RegisterDevice).Methods("POST")
	protected.HandleFunc("/notification/user/{userId}", notificationHandler.GetNotifications).Methods("GET")
	protected.HandleFunc("/notification/user/{userId}/unread", notificationHandler.GetUnreadNotifications).Methods("GET")
	protected.HandleFunc("/notification/user/{userId}/read-all", notificationHandler.MarkAllRead).Methods("PATCH")
	protected.HandleFunc("/notification/user/{userId}/all", notificationHandler.DeleteAllNotifications).Methods("DELETE")
	protected.HandleFunc("/notification/{notificationId}", notificationHandler.GetNotification).Methods("GET")
	protected.HandleFunc("/notification/{notificationId}", notificationHandler.DeleteNotification).Methods("DELETE")
	protected.HandleFunc("/notification/{notificationId}/read", notificationHandler.MarkRead).Methods("PATCH")

	// CORS configuration
	corsHandler := gorilllaHandlers.CORS(
		gorilllaHandlers.AllowedOrigins([]string{"*"}),
		gorilllaHandlers.AllowedMethods([]string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}),
		gorilllaHandlers.AllowedHeaders([]string{"Content-Type", "Authorization", "X-Pprof-Secret"}),
		gorilllaHandlers.ExposedHeaders([]string{"Content-Length"}),
		gorilllaHandlers.AllowCredentials(),
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}
	port = ":" + port

	server := http.Server{
		Addr:         port,
		Handler:      corsHandler(r),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Starting server on port %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Error starting server:", err)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)

	sig := <-sigChan
	log.Println("Got signal:", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server shutdown complete")
}

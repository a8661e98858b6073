package main

import (
	"context"
	"log"
	"os"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"

	"github.com/example/task-api/middleware/ratelimit"
	"github.com/example/task-api/modules/api"
	"github.com/example/task-api/modules/task"
)

const shutdownTimeout = 30 * time.Second

func main() {
	log.Println("=== Task API ===")

	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(shutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	// Rate limiting is optional infrastructure: enabled only when a
	// Redis address is configured. Middleware must be registered before
	// regular modules to intercept their service registrations.
	if redisAddr := os.Getenv("REDIS_ADDR"); redisAddr != "" {
		rateLimiter, err := ratelimit.New(
			ratelimit.WithRedisAddr(redisAddr),
			ratelimit.WithRedisPassword(os.Getenv("REDIS_PASSWORD")),
			ratelimit.WithDefaultLimit(100, time.Minute),
			// Create is not idempotent and must not be retried, so it
			// gets a tighter budget than the read paths.
			ratelimit.WithServiceLimit(task.ServiceCreate, 30, time.Minute),
			ratelimit.WithServiceLimit(task.ServiceList, 200, time.Minute),
		)
		if err != nil {
			log.Fatalf("Failed to create rate limiting middleware: %v", err)
		}
		app.Register(rateLimiter)
	}

	// Order: independent modules first, then dependent modules.
	app.Register(task.NewModule())
	app.Register(api.NewModule())

	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	printStartupInfo()

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}

func printStartupInfo() {
	log.Println("")
	log.Println("Application started successfully!")
	log.Println("")
	log.Println("REST API Endpoints (http://localhost:3000):")
	log.Println("")
	log.Println("  Public Endpoints:")
	log.Println("  GET    /                                   - Liveness message")
	log.Println("  GET    /health                             - Health check")
	log.Println("")
	log.Println("  Protected Endpoints (require Bearer token; :ownerID must match the token subject):")
	log.Println("  POST   /api/:ownerID/tasks                 - Create a task")
	log.Println("  GET    /api/:ownerID/tasks?status=all      - List tasks (all|pending|completed)")
	log.Println("  GET    /api/:ownerID/tasks/:id             - Get a task")
	log.Println("  PUT    /api/:ownerID/tasks/:id             - Update title/description")
	log.Println("  PATCH  /api/:ownerID/tasks/:id/complete    - Toggle completion")
	log.Println("  DELETE /api/:ownerID/tasks/:id             - Delete a task")
	log.Println("")
	log.Println("Press Ctrl+C to shutdown gracefully")
}

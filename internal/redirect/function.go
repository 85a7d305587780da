package redirect

import (
	"context"
	"log"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/jackc/pgx/v5/pgxpool"

	"authorsite/internal/catalog"
	"authorsite/internal/config"
)

// StartFunction runs the resolver for ns as a serverless function. The
// connection pool is opened once per cold start and shared by invocations.
func StartFunction(ns Namespace) {
	config.LoadEnvFiles()

	timeout, err := time.ParseDuration(config.GetEnv("DB_TIMEOUT", "3s"))
	if err != nil {
		log.Fatalf("DB_TIMEOUT: %v", err)
	}

	pool, err := pgxpool.New(context.Background(), config.DatabaseDSNFromEnv())
	if err != nil {
		log.Fatalf("cannot create db pool: %v", err)
	}
	defer pool.Close()

	resolver := NewResolver(catalog.NewService(catalog.NewPostgresRepo(pool, timeout)), ns)
	log.Printf("redirect function ready: namespace=%s", ns)
	lambda.Start(resolver.HandleProxy)
}

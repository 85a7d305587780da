package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"authorsite/internal/config"
	"authorsite/internal/slug"
	"authorsite/internal/upcoming"
)

func main() {
	count := flag.Int("books", 200, "Number of catalog books to generate")
	previews := flag.Int("upcoming", 6, "Number of upcoming books to generate")
	flag.Parse()

	config.LoadEnvFiles()
	ctx := context.Background()

	pool, err := pgxpool.New(ctx, config.DatabaseDSNFromEnv())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	log.Printf("Generating %d books...", *count)
	rows := make([][]any, 0, *count)
	now := time.Now()
	for i := 0; i < *count; i++ {
		title := fmt.Sprintf("The %s %s %d", getRandomWord(), getRandomCreature(), i+1)
		published := time.Date(2010+rand.Intn(16), time.Month(1+rand.Intn(12)), 1+rand.Intn(28), 0, 0, 0, 0, time.UTC)
		desc := fmt.Sprintf("A picture book about a %s %s who learns to share.", getRandomWord(), getRandomCreature())
		rows = append(rows, []any{title, slug.Generate(title), "Jane Doe", desc, published, now})
	}

	// COPY is much faster than individual inserts.
	n, err := pool.CopyFrom(ctx,
		pgx.Identifier{"books"},
		[]string{"title", "slug", "author", "description", "published_date", "created_at"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		log.Fatalf("Failed to insert books: %v", err)
	}
	log.Printf("Successfully inserted %d books!", n)

	svc := upcoming.NewService(upcoming.NewPostgresStore(pool, 5*time.Second))
	for i := 0; i < *previews; i++ {
		release := now.AddDate(0, 1+rand.Intn(18), 0)
		form := upcoming.FormData{
			Title:               fmt.Sprintf("The %s %s", getRandomWord(), getRandomCreature()),
			Author:              "Jane Doe",
			Description:         "Coming soon to a bookshelf near you.",
			ExpectedReleaseDate: upcoming.DateOf(release).String(),
		}
		if i%2 == 0 {
			form.PreorderURL = "https://shop.example.com/preorder/" + slug.Generate(form.Title)
		}
		if _, err := svc.Create(ctx, form); err != nil {
			log.Fatalf("Failed to insert upcoming book: %v", err)
		}
	}
	log.Printf("Successfully inserted %d upcoming books!", *previews)

	var total int
	if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM books").Scan(&total); err != nil {
		log.Fatalf("Failed to count books: %v", err)
	}
	log.Printf("Total books in database: %d", total)
}

func getRandomWord() string {
	words := []string{"Magic", "Sleepy", "Brave", "Hidden", "Whispering", "Tiny", "Golden", "Curious", "Moonlit", "Muddy"}
	return words[rand.Intn(len(words))]
}

func getRandomCreature() string {
	creatures := []string{"Forest", "Owl", "Otter", "Dragon", "Garden", "Fox", "Lighthouse", "Hedgehog", "River", "Bear"}
	return creatures[rand.Intn(len(creatures))]
}

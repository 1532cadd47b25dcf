package main

import (
	"context"
	"fmt"
	"log"
	"math/rand/v2"
	"time"

	"github.com/gamassss/slinkr/internal/config"
	"github.com/gamassss/slinkr/internal/repository/postgres"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"
)

const (
	HOT_COUNT  = 100
	WARM_COUNT = 10000
	COLD_COUNT = 490000

	HOT_CLICKS  = 500
	WARM_CLICKS = 5

	BATCH_SIZE  = 5000
	NUM_WORKERS = 4
)

var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 14_2) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.2 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64; rv:121.0) Gecko/20100101 Firefox/121.0",
	"Mozilla/5.0 (iPhone; CPU iPhone OS 17_2 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.2 Mobile/15E148 Safari/604.1",
	"Mozilla/5.0 (Linux; Android 14; Pixel 8) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Mobile Safari/537.36",
	"Mozilla/5.0 (iPad; CPU OS 17_2 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.2 Mobile/15E148 Safari/604.1",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36 Edg/120.0.0.0",
	"curl/8.4.0",
}

var referers = []string{
	"",
	"https://www.google.com/",
	"https://t.co/",
	"https://news.ycombinator.com/",
	"https://www.reddit.com/r/golang/",
}

type DataGenerator struct {
	pool *pgxpool.Pool
	now  time.Time
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	if err := postgres.RunMigrations(cfg.Database.URL); err != nil {
		log.Fatalf("Failed to run migrations: %v\n", err)
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, postgres.PoolConfig{
		URL:      cfg.Database.URL,
		MaxConns: NUM_WORKERS + 2,
	})
	if err != nil {
		log.Fatalf("Unable to connect to database: %v\n", err)
	}
	defer pool.Close()

	gen := &DataGenerator{pool: pool, now: time.Now().UTC()}

	if err := gen.clearData(ctx); err != nil {
		log.Fatalf("Failed to clear data: %v\n", err)
	}

	if err := gen.insertLinks(ctx, "hot", 1, HOT_COUNT, HOT_CLICKS, time.Minute); err != nil {
		log.Fatalf("Failed to insert hot links: %v\n", err)
	}

	if err := gen.insertLinks(ctx, "warm", 1, WARM_COUNT, WARM_CLICKS, time.Hour); err != nil {
		log.Fatalf("Failed to insert warm links: %v\n", err)
	}

	if err := gen.insertColdLinksParallel(ctx); err != nil {
		log.Fatalf("Failed to insert cold links: %v\n", err)
	}

	if _, err := pool.Exec(ctx, "ANALYZE links; ANALYZE clicks"); err != nil {
		log.Printf("Warning: analyze failed: %v\n", err)
	}

	if err := gen.verifyData(ctx); err != nil {
		log.Printf("Warning: Data verification failed: %v\n", err)
	}
}

func (g *DataGenerator) clearData(ctx context.Context) error {
	_, err := g.pool.Exec(ctx, "TRUNCATE clicks, links")
	return err
}

// insertLinks writes links prefix_000start..prefix_000end, each with
// clicksPerLink clicks. Clicks are inserted before the count is set so
// click_count matches the clicks table.
func (g *DataGenerator) insertLinks(ctx context.Context, prefix string, start, end, clicksPerLink int, age time.Duration) error {
	for from := start; from <= end; from += BATCH_SIZE {
		to := from + BATCH_SIZE - 1
		if to > end {
			to = end
		}

		batch := &pgx.Batch{}
		for i := from; i <= to; i++ {
			id := uuid.NewString()
			createdAt := g.now.Add(-time.Duration(i) * age)

			batch.Queue(
				"INSERT INTO links (id, slug, url, title, click_count, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $6)",
				id, fmt.Sprintf("%s_%07d", prefix, i), fmt.Sprintf("https://example.com/%s/%07d", prefix, i),
				fmt.Sprintf("%s link %d", prefix, i), clicksPerLink, createdAt,
			)

			for c := 0; c < clicksPerLink; c++ {
				batch.Queue(
					"INSERT INTO clicks (id, link_id, timestamp, user_agent, referer, ip) VALUES ($1, $2, $3, $4, $5, $6)",
					uuid.NewString(), id, createdAt.Add(time.Duration(rand.IntN(int(age/time.Second)+1))*time.Second),
					userAgents[rand.IntN(len(userAgents))], referers[rand.IntN(len(referers))], randomIP(),
				)
			}
		}

		if err := g.sendBatch(ctx, batch); err != nil {
			return err
		}
	}

	return nil
}

func (g *DataGenerator) insertColdLinksParallel(ctx context.Context) error {
	eg, ctx := errgroup.WithContext(ctx)

	rowsPerWorker := COLD_COUNT / NUM_WORKERS

	for workerID := 0; workerID < NUM_WORKERS; workerID++ {
		start := workerID*rowsPerWorker + 1
		end := start + rowsPerWorker - 1
		if workerID == NUM_WORKERS-1 {
			end = COLD_COUNT
		}

		id := workerID
		eg.Go(func() error {
			if err := g.insertLinks(ctx, "cold", start, end, 0, time.Second); err != nil {
				return fmt.Errorf("worker %d failed: %w", id, err)
			}
			return nil
		})
	}

	return eg.Wait()
}

func (g *DataGenerator) sendBatch(ctx context.Context, batch *pgx.Batch) error {
	br := g.pool.SendBatch(ctx, batch)
	defer br.Close()

	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("batch exec failed: %w", err)
		}
	}

	return nil
}

func (g *DataGenerator) verifyData(ctx context.Context) error {
	var links, clicks, counted int64
	err := g.pool.QueryRow(ctx,
		"SELECT (SELECT COUNT(*) FROM links), (SELECT COUNT(*) FROM clicks), (SELECT COALESCE(SUM(click_count), 0) FROM links)",
	).Scan(&links, &clicks, &counted)
	if err != nil {
		return err
	}

	expectedLinks := int64(HOT_COUNT + WARM_COUNT + COLD_COUNT)
	if links != expectedLinks {
		return fmt.Errorf("expected %d links but got %d", expectedLinks, links)
	}
	if clicks != counted {
		return fmt.Errorf("click_count sum %d does not match %d click rows", counted, clicks)
	}

	log.Printf("Seeded %d links and %d clicks\n", links, clicks)
	return nil
}

func randomIP() string {
	return fmt.Sprintf("198.51.100.%d", rand.IntN(254)+1)
}

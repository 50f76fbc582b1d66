package test

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"os/exec"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"assetflow/auth"
	"assetflow/record"
	"assetflow/test/actors"
	"assetflow/test/infra"
)

var (
	flDuration    = flag.Duration("duration", 90*time.Second, "how long to run stress")
	flConcurrency = flag.Int("concurrency", 8, "number of concurrent actors")
	flSeed        = flag.Int64("seed", time.Now().UnixNano(), "random seed")
	flDSN         = flag.String("dsn", "", "existing Postgres DSN to reuse (avoids Docker)")
)

// memorySender records the latest code per email so the authenticator actors
// can close the loop without a mail server.
type memorySender struct {
	mu    sync.Mutex
	codes map[string]string
}

func (s *memorySender) SendOTP(_ context.Context, email, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[email] = code
	return nil
}

func (s *memorySender) code(email string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.codes[email]
}

func TestRecordStoreConcurrency(t *testing.T) {
	flag.Parse()
	seed := *flSeed
	rand.Seed(seed)

	var (
		pgC        *infra.PGContainer
		dsn        string
		err        error
		usedShared bool
	)
	ctx, cancel := context.WithTimeout(context.Background(), *flDuration+60*time.Second)
	defer cancel()

	switch {
	case *flDSN != "":
		dsn = *flDSN
		usedShared = true
		pgC = &infra.PGContainer{}
	case os.Getenv("ASSETFLOW_STRESS_PG_DSN") != "":
		dsn = os.Getenv("ASSETFLOW_STRESS_PG_DSN")
		usedShared = true
		pgC = &infra.PGContainer{}
	default:
		if dockerAvailable(ctx) {
			pgC, dsn, err = infra.StartPostgres16(ctx, "")
			if err != nil {
				t.Fatalf("start postgres: %v", err)
			}
		} else {
			dsn, err = infra.InitLocalDatabase(ctx)
			if err != nil {
				t.Fatalf("init local database: %v", err)
			}
			pgC = &infra.PGContainer{}
		}
	}
	defer pgC.Terminate(context.Background())

	pool, teardown, err := infra.ApplyMigrations(ctx, dsn, usedShared)
	if err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	defer pool.Close()
	defer func() {
		if err := teardown(context.Background()); err != nil {
			t.Logf("teardown warning: %v", err)
		}
	}()

	store := record.NewPGStore(pool)
	sender := &memorySender{codes: map[string]string{}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	authSvc := auth.NewService(store, sender, "stress-secret", logger)

	creators := mustSeed(t, ctx, store)

	g, ctx2 := errgroup.WithContext(ctx)
	stop := make(chan struct{})

	// creators, updaters, and deleters battling over the same collection
	for i := 0; i < *flConcurrency; i++ {
		createdBy := creators[i%len(creators)]
		g.Go(func() error {
			return actors.Creator(ctx2, store, record.CollectionAssets, createdBy, stop)
		})
		g.Go(func() error { return actors.Updater(ctx2, store, record.CollectionAssets, stop) })
	}
	g.Go(func() error { return actors.Deleter(ctx2, store, record.CollectionAssets, stop) })
	g.Go(func() error { return actors.Lister(ctx2, store, record.CollectionAssets, stop) })

	// authenticators churn the session and code maps for shared emails
	for i := 0; i < *flConcurrency; i++ {
		email := fmt.Sprintf("stress%d@example.com", i%3)
		g.Go(func() error { return actors.Authenticator(ctx2, authSvc, sender.code, email, stop) })
	}

	deadline := time.Now().Add(*flDuration)
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	var failed bool
loop:
	for time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			break loop
		case <-ticker.C:
			name, row, err := runOracles(ctx2, pool)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					break loop
				}
				t.Fatalf("oracle error: %v", err)
			}
			if name != "" {
				failed = true
				dumpRecent(t, ctx2, pool)
				t.Fatalf("Oracle %s failed. First row: %s (seed=%d)", name, row, seed)
			}
		}
	}

	close(stop)
	if err := g.Wait(); err != nil && !failed {
		if !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
			t.Fatalf("actors errored: %v", err)
		}
	}
}

func dockerAvailable(ctx context.Context) bool {
	if _, err := exec.LookPath("docker"); err != nil {
		return false
	}
	c := exec.CommandContext(ctx, "docker", "info")
	c.Stdout = io.Discard
	c.Stderr = io.Discard
	return c.Run() == nil
}

// mustSeed creates a handful of users and returns their emails for use as
// created_by values.
func mustSeed(t *testing.T, ctx context.Context, store record.Store) []string {
	t.Helper()
	emails := make([]string, 0, 3)
	for i := 0; i < 3; i++ {
		email := fmt.Sprintf("stress%d@example.com", i)
		if _, err := store.Insert(ctx, record.CollectionUsers, record.Document{
			"email": email, "role": "user", "full_name": fmt.Sprintf("Stress User %d", i),
		}); err != nil {
			t.Fatalf("seed user: %v", err)
		}
		emails = append(emails, email)
	}
	return emails
}

type oracle struct {
	name string
	sql  string
}

// runOracles checks structural invariants of the records table and returns
// the first violation found.
func runOracles(ctx context.Context, pool *pgxpool.Pool) (string, string, error) {
	oracles := []oracle{
		{
			name: "O1_document_id_matches_row",
			sql:  `SELECT id FROM records WHERE document->>'id' IS DISTINCT FROM id LIMIT 1`,
		},
		{
			name: "O2_created_date_present",
			sql:  `SELECT id FROM records WHERE document->>'created_date' IS NULL LIMIT 1`,
		},
		{
			name: "O3_modified_not_before_created",
			sql: `SELECT id FROM records
                  WHERE document ? 'modified_date'
                  AND (document->>'modified_date')::timestamptz < (document->>'created_date')::timestamptz
                  LIMIT 1`,
		},
	}

	for _, o := range oracles {
		var id string
		err := pool.QueryRow(ctx, o.sql).Scan(&id)
		switch {
		case err == nil:
			return o.name, id, nil
		case errors.Is(err, pgx.ErrNoRows):
			continue
		default:
			return "", "", fmt.Errorf("oracle %s: %w", o.name, err)
		}
	}
	return "", "", nil
}

func dumpRecent(t *testing.T, ctx context.Context, pool *pgxpool.Pool) {
	t.Helper()
	rows, err := pool.Query(ctx, `SELECT collection, id, document FROM records ORDER BY document->>'created_date' DESC LIMIT 50`)
	if err != nil {
		t.Logf("dump records error: %v", err)
		return
	}
	defer rows.Close()

	t.Logf("-- records --")
	for rows.Next() {
		var collection, id string
		var doc []byte
		if err := rows.Scan(&collection, &id, &doc); err != nil {
			t.Logf("dump scan error: %v", err)
			return
		}
		t.Logf("%s/%s %s", collection, id, doc)
	}
}

// Package actors holds the concurrent workloads driven by the stress test.
// Each actor loops until the stop channel closes, hammering one slice of the
// system through the same code paths the HTTP handlers use.
package actors

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"assetflow/auth"
	"assetflow/record"
)

// Creator inserts documents into the collection at a steady rate.
func Creator(ctx context.Context, store record.Store, collection, createdBy string, stop <-chan struct{}) error {
	statuses := []string{"available", "assigned", "maintenance", "retired"}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stop:
			return nil
		default:
		}
		doc := record.Document{
			"name":       fmt.Sprintf("stress-%d", rand.Int63()),
			"status":     statuses[rand.Intn(len(statuses))],
			"created_by": createdBy,
		}
		if _, err := store.Insert(ctx, collection, doc); err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return fmt.Errorf("creator insert: %w", err)
		}
		time.Sleep(time.Duration(10+rand.Intn(20)) * time.Millisecond)
	}
}

// Updater picks a random document from the collection and merges a partial
// into it. Concurrent updates to the same record are last-writer-wins, so a
// miss between list and update is expected and ignored.
func Updater(ctx context.Context, store record.Store, collection string, stop <-chan struct{}) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stop:
			return nil
		default:
		}
		docs, err := store.List(ctx, collection)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return fmt.Errorf("updater list: %w", err)
		}
		if len(docs) > 0 {
			target := docs[rand.Intn(len(docs))]
			partial := record.Document{"notes": fmt.Sprintf("touched-%d", rand.Int63())}
			if _, err := store.Update(ctx, collection, target.String(record.KeyID), partial); err != nil {
				if !errors.Is(err, record.ErrNotFound) && !errors.Is(err, context.Canceled) {
					return fmt.Errorf("updater update: %w", err)
				}
			}
		}
		time.Sleep(time.Duration(20+rand.Intn(40)) * time.Millisecond)
	}
}

// Deleter removes a random document now and then, racing the updaters.
func Deleter(ctx context.Context, store record.Store, collection string, stop <-chan struct{}) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stop:
			return nil
		default:
		}
		docs, err := store.List(ctx, collection)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return fmt.Errorf("deleter list: %w", err)
		}
		if len(docs) > 1 {
			target := docs[rand.Intn(len(docs))]
			if err := store.Delete(ctx, collection, target.String(record.KeyID)); err != nil {
				if !errors.Is(err, context.Canceled) {
					return fmt.Errorf("deleter delete: %w", err)
				}
			}
		}
		time.Sleep(time.Duration(100+rand.Intn(100)) * time.Millisecond)
	}
}

// Lister reads the collection continuously, exercising the sort path against
// documents written mid-flight.
func Lister(ctx context.Context, store record.Store, collection string, stop <-chan struct{}) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stop:
			return nil
		default:
		}
		if _, err := store.List(ctx, collection); err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return fmt.Errorf("lister list: %w", err)
		}
		time.Sleep(time.Duration(15+rand.Intn(35)) * time.Millisecond)
	}
}

// Authenticator cycles the full one-time-code flow for one email, keeping the
// session and code maps under concurrent churn from many goroutines.
func Authenticator(ctx context.Context, svc *auth.Service, codes func(email string) string, email string, stop <-chan struct{}) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stop:
			return nil
		default:
		}
		if err := svc.RequestCode(ctx, email); err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return fmt.Errorf("authenticator request: %w", err)
		}
		if _, err := svc.VerifyCode(ctx, email, codes(email)); err != nil {
			// A concurrent reissue for the same email can invalidate the code
			// between request and verify.
			if !errors.Is(err, auth.ErrInvalidOrExpiredCode) && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("authenticator verify: %w", err)
			}
		}
		if rand.Intn(3) == 0 {
			svc.Logout(email)
		}
		time.Sleep(time.Duration(30+rand.Intn(50)) * time.Millisecond)
	}
}

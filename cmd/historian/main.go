// cmd/historian/main.go is an asynchronous historian service that pops room
// action records from a Redis queue and persists them to a PostgreSQL database.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/joho/godotenv/autoload"
	"github.com/redis/go-redis/v9"

	"github.com/mfigueroa/uno/internal/cache"
	"github.com/mfigueroa/uno/internal/database"
)

// HistorianService encapsulates the Redis + DB logic for capturing room
// actions and marking rooms abandoned after a period of inactivity.
type HistorianService struct {
	redisClient  *redis.Client
	batchSize    int
	flushDelay   time.Duration
	inactivity   time.Duration // duration until a room is marked "abandoned"
	lastActivity sync.Map      // map[string]time.Time keyed by room code

	batchMu  sync.Mutex
	batch    []cache.RoomActionRecord
	ctx      context.Context
	cancelFn context.CancelFunc

	// persistFn writes a drained batch; it defaults to a single database
	// transaction per batch.
	persistFn func(batch []cache.RoomActionRecord) error
}

// NewHistorianService constructs a HistorianService from environment
// variables or defaults.
func NewHistorianService() *HistorianService {
	batchSize := getEnvInt("HISTORIAN_BATCH_SIZE", 20)
	flushMs := getEnvInt("HISTORIAN_FLUSH_MS", 500)
	inactivitySec := getEnvInt("ROOM_INACTIVITY_TIMEOUT_SEC", 600) // default 10 min

	redisAddr := getEnv("REDIS_ADDR", "localhost:6379")
	rdb := redis.NewClient(&redis.Options{
		Addr: redisAddr,
	})

	ctx, cancel := context.WithCancel(context.Background())
	hs := &HistorianService{
		redisClient: rdb,
		batchSize:   batchSize,
		flushDelay:  time.Duration(flushMs) * time.Millisecond,
		inactivity:  time.Duration(inactivitySec) * time.Second,
		batch:       make([]cache.RoomActionRecord, 0, batchSize),
		ctx:         ctx,
		cancelFn:    cancel,
	}
	hs.persistFn = hs.persistBatch
	return hs
}

// Run starts the two main loops:
//  1. A loop that reads from the Redis queue, accumulates records in a batch, and flushes them to the DB.
//  2. A periodic check for inactivity to mark stale rooms as abandoned.
func (hs *HistorianService) Run() {
	database.ConnectDB()

	go hs.readRedisLoop()
	go hs.inactivityLoop()

	log.Println("uno-historian service started.")
	<-hs.ctx.Done()
	log.Println("uno-historian shutting down.")
}

// readRedisLoop continuously uses BLPop to retrieve records from the Redis queue.
func (hs *HistorianService) readRedisLoop() {
	ticker := time.NewTicker(hs.flushDelay)
	defer ticker.Stop()

	queueName := getEnv("JOURNAL_QUEUE_NAME", cache.DefaultQueueName)

	for {
		select {
		case <-hs.ctx.Done():
			return

		case <-ticker.C:
			hs.flushBatchToDB()

		default:
			// Use BLPop with a 3-second timeout so that context cancellation is handled.
			res, err := hs.redisClient.BLPop(hs.ctx, 3*time.Second, queueName).Result()
			if err != nil && !errors.Is(err, redis.Nil) {
				log.Printf("[ERROR] BLPop: %v\n", err)
				continue
			}
			if len(res) < 2 {
				// No record popped.
				continue
			}

			// res[0] is the queue name and res[1] the payload.
			payload := res[1]
			var record cache.RoomActionRecord
			if err := json.Unmarshal([]byte(payload), &record); err != nil {
				log.Printf("invalid action record: %v\n", err)
				continue
			}

			hs.lastActivity.Store(record.RoomCode, time.Now())

			hs.appendToBatch(record)
		}
	}
}

// appendToBatch adds a record to the in-memory batch and flushes if the threshold is reached.
func (hs *HistorianService) appendToBatch(record cache.RoomActionRecord) {
	hs.batchMu.Lock()
	defer hs.batchMu.Unlock()

	hs.batch = append(hs.batch, record)
	if len(hs.batch) >= hs.batchSize {
		hs.flushLocked()
	}
}

// flushBatchToDB flushes the current batch. Entry point for the ticker.
func (hs *HistorianService) flushBatchToDB() {
	hs.batchMu.Lock()
	defer hs.batchMu.Unlock()
	hs.flushLocked()
}

// flushLocked drains the batch and hands it to the persist function.
// Assumes batchMu is held.
func (hs *HistorianService) flushLocked() {
	if len(hs.batch) == 0 {
		return
	}
	batchCopy := make([]cache.RoomActionRecord, len(hs.batch))
	copy(batchCopy, hs.batch)
	hs.batch = hs.batch[:0]

	if err := hs.persistFn(batchCopy); err != nil {
		log.Printf("[ERROR] flush batch: %v\n", err)
	} else {
		log.Printf("Flushed %d actions to DB.\n", len(batchCopy))
	}
}

// persistBatch writes a batch to the database in a single transaction.
func (hs *HistorianService) persistBatch(batch []cache.RoomActionRecord) error {
	ctx := context.Background()
	return beginTxFunc(ctx, database.DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		for _, rec := range batch {
			if err := insertRoomActionTx(ctx, tx, rec); err != nil {
				return fmt.Errorf("insertRoomActionTx: %w", err)
			}
		}
		return nil
	})
}

// inactivityLoop periodically checks if any room has been inactive beyond the
// configured threshold, and marks such rooms as abandoned.
func (hs *HistorianService) inactivityLoop() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-hs.ctx.Done():
			return

		case <-ticker.C:
			now := time.Now()
			hs.lastActivity.Range(func(key, val interface{}) bool {
				code, ok1 := key.(string)
				last, ok2 := val.(time.Time)
				if ok1 && ok2 && now.Sub(last) > hs.inactivity {
					hs.markRoomAbandoned(code)
					hs.lastActivity.Delete(code)
				}
				return true
			})
		}
	}
}

// markRoomAbandoned marks a room as 'abandoned' in the database if it was still 'in_progress'.
func (hs *HistorianService) markRoomAbandoned(code string) {
	ctx := context.Background()
	err := beginTxFunc(ctx, database.DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		q := `
			UPDATE rooms
			SET status = 'abandoned', end_time = NOW()
			WHERE code = $1 AND status = 'in_progress'
		`
		_, e := tx.Exec(ctx, q, code)
		return e
	})
	if err != nil {
		log.Printf("failed to mark room %s abandoned: %v", code, err)
	} else {
		log.Printf("Marked room %s as 'abandoned' due to inactivity.", code)
	}
}

// insertRoomActionTx inserts a single action record into the room_actions
// table and upserts the room row if necessary. A leave_room action that
// empties the room arrives like any other action; the inactivity sweep is
// what finalizes rooms, since the server keeps no end-of-room record.
func insertRoomActionTx(ctx context.Context, tx pgx.Tx, rec cache.RoomActionRecord) error {
	upsertRoomQ := `
		INSERT INTO rooms (code, status, start_time)
		VALUES ($1, 'in_progress', NOW())
		ON CONFLICT (code)
		DO UPDATE SET status = 'in_progress'
	`
	_, err := tx.Exec(ctx, upsertRoomQ, rec.RoomCode)
	if err != nil {
		return err
	}

	actionInsertQ := `
		INSERT INTO room_actions (
			room_code, action_index, actor_id, action_type, action_payload
		) VALUES ($1, $2, $3, $4, $5)
	`
	jsonPayload, err := json.Marshal(rec.ActionPayload)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, actionInsertQ,
		rec.RoomCode, rec.ActionIndex, rec.ActorID, rec.ActionType, jsonPayload,
	)
	return err
}

// beginTxFunc is a helper that starts a transaction using the provided pool,
// calls f with the transaction, and commits or rolls back as needed.
func beginTxFunc(ctx context.Context, pool *pgxpool.Pool, txOptions pgx.TxOptions, f func(tx pgx.Tx) error) error {
	tx, err := pool.BeginTx(ctx, txOptions)
	if err != nil {
		return err
	}
	if err := f(tx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("tx rollback error: %v; original error: %w", rbErr, err)
		}
		return err
	}
	return tx.Commit(ctx)
}

// Stop gracefully stops the historian service.
func (hs *HistorianService) Stop() {
	hs.cancelFn()
}

func main() {
	hs := NewHistorianService()
	go hs.Run()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	hs.Stop()
	log.Println("Historian shutdown complete.")
}

// getEnv retrieves an environment variable's value or returns a default.
func getEnv(key, defVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defVal
}

// getEnvInt retrieves an integer value from an environment variable or returns a default value.
func getEnvInt(key string, defVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defVal
	}
	return i
}

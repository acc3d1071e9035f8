// Seeds room inventory from a JSON fixture. Rooms are administered out of
// band; booking flow never creates them.
package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"sync"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"hotel_booking/internal/adapters/observability"
	"hotel_booking/internal/domain"
	"hotel_booking/internal/shared"
	mysqlrepo "hotel_booking/internal/storage/mysql"
)

type roomFixture struct {
	Category     string `json:"category"`
	RoomNumber   int    `json:"room_number"`
	RatePerDay   string `json:"rate_per_day"` // decimal string, e.g. "150.00"
	IsHourlyRate bool   `json:"is_hourly_rate"`
}

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv)

	log.Info().
		Str("file", cfg.SeedFile).
		Int("workers", cfg.SeedWorkers).
		Msg("seeder starting")

	raw, err := os.ReadFile(cfg.SeedFile)
	if err != nil {
		log.Fatal().Err(err).Msg("read seed file failed")
	}
	var fixtures []roomFixture
	if err := json.Unmarshal(raw, &fixtures); err != nil {
		log.Fatal().Err(err).Msg("parse seed file failed")
	}

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	repo := mysqlrepo.New(db)
	sem := semaphore.NewWeighted(int64(cfg.SeedWorkers))
	var wg sync.WaitGroup

	for _, f := range fixtures {
		f := f

		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(f roomFixture) {
			defer wg.Done()
			defer sem.Release(1)

			cents, err := shared.ParseCents(f.RatePerDay)
			if err != nil || cents < 0 {
				log.Warn().Int("room", f.RoomNumber).Str("rate", f.RatePerDay).Msg("bad rate, skipping")
				return
			}
			room := domain.Room{
				Category:     f.Category,
				RoomNumber:   f.RoomNumber,
				RateCents:    cents,
				IsHourlyRate: f.IsHourlyRate,
			}
			if err := repo.UpsertRoom(ctx, room); err != nil {
				log.Warn().Int("room", f.RoomNumber).Err(err).Msg("seed failed")
				return
			}
			log.Info().Int("room", f.RoomNumber).Str("category", f.Category).Msg("seed ok")
		}(f)
	}

	wg.Wait()
	log.Info().Msg("seeding completed")
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ridetape/server/go/internal/dbconfig"
)

// RideFile mirrors the JSON export format
type RideFile struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	DurationSec float64 `json:"duration_sec"`
	Points      []struct {
		Seq        int     `json:"seq"`
		ElapsedSec float64 `json:"elapsed_sec"`
		Lat        float64 `json:"lat"`
		Lon        float64 `json:"lon"`
		ElevationM float64 `json:"elevation_m"`
		SpeedKmh   float64 `json:"speed_kmh"`
	} `json:"points"`
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: seed_rides <rides.json>")
		os.Exit(1)
	}

	// 1) Load the JSON export
	data, err := os.ReadFile(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "read JSON: %v\n", err)
		os.Exit(1)
	}
	var rides []RideFile
	if err := json.Unmarshal(data, &rides); err != nil {
		fmt.Fprintf(os.Stderr, "unmarshal JSON: %v\n", err)
		os.Exit(1)
	}

	// 2) Connect using shared dbconfig
	cfg := dbconfig.NewConfigFromEnv()
	pool, err := pgxpool.New(context.Background(), cfg.DSN())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	// 3) Insert rides and their track points
	var (
		inserted int
		skipped  int
		errs     int
	)

	for _, r := range rides {
		id := r.ID
		if id == "" {
			id = uuid.New().String()
		}

		cmdTag, err := pool.Exec(context.Background(), `
            INSERT INTO rides (id, name, description, duration_sec, created_at)
            VALUES ($1, $2, NULLIF($3, ''), $4, NOW())
            ON CONFLICT (id) DO NOTHING
        `,
			id, r.Name, r.Description, r.DurationSec,
		)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error inserting ride %s: %v\n", r.Name, err)
			errs++
			continue
		}
		if cmdTag.RowsAffected() == 0 {
			skipped++
			continue
		}

		for _, p := range r.Points {
			if _, err := pool.Exec(context.Background(), `
                INSERT INTO track_points (ride_id, seq, elapsed_sec, lat, lon, elevation_m, speed_kmh)
                VALUES ($1, $2, $3, $4, $5, $6, $7)
                ON CONFLICT (ride_id, seq) DO NOTHING
            `,
				id, p.Seq, p.ElapsedSec, p.Lat, p.Lon, p.ElevationM, p.SpeedKmh,
			); err != nil {
				fmt.Fprintf(os.Stderr, "error inserting point %d of ride %s: %v\n", p.Seq, r.Name, err)
				errs++
			}
		}
		inserted++
	}

	fmt.Printf("done: %d inserted, %d skipped, %d errors\n", inserted, skipped, errs)
	if errs > 0 {
		os.Exit(1)
	}
}

// Command export dumps appointments as CSV for hand-off to spreadsheets.
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"log"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/webvantage/chatbot-platform/internal/appointments"
)

func main() {
	_ = godotenv.Load()

	var (
		status = flag.String("status", "", "only export appointments with this status")
		limit  = flag.Int("limit", 0, "maximum rows to export (0 = all)")
	)
	flag.Parse()

	databaseURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		log.Fatalf("create pool: %v", err)
	}
	defer pool.Close()

	repo := appointments.NewPostgresRepository(pool)
	appts, err := repo.List(ctx, appointments.ListFilter{Status: *status, Limit: *limit})
	if err != nil {
		log.Fatalf("list appointments: %v", err)
	}

	w := csv.NewWriter(os.Stdout)
	header := []string{
		"id", "name", "email", "phone", "business_type", "services",
		"requested_date", "requested_time", "status", "notes",
		"user_timezone", "user_local_time", "created_at", "updated_at",
	}
	if err := w.Write(header); err != nil {
		log.Fatalf("write header: %v", err)
	}
	for _, a := range appts {
		row := []string{
			a.ID, a.Name, a.Email, a.Phone, a.BusinessType,
			strings.Join(a.Services, "; "),
			a.RequestedDate, a.RequestedTime, a.Status, a.Notes,
			a.UserTimezone, a.UserLocalTime,
			a.CreatedAt.Format(time.RFC3339), a.UpdatedAt.Format(time.RFC3339),
		}
		if err := w.Write(row); err != nil {
			log.Fatalf("write row: %v", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		log.Fatalf("flush: %v", err)
	}
}

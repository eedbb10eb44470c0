// Command seed loads idempotent development data: one account per role tier,
// an upcoming event, and two training sessions (one AHA, one free).
//
// Never run against production; the accounts use a fixed password.
package main

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"squad-portal/backend/internal/config"
	"squad-portal/backend/internal/db"
	eventdomain "squad-portal/backend/internal/event/domain"
	eventrepo "squad-portal/backend/internal/event/repository"
	memberdomain "squad-portal/backend/internal/member/domain"
	memberrepo "squad-portal/backend/internal/member/repository"
	"squad-portal/backend/internal/security"
	trainingdomain "squad-portal/backend/internal/training/domain"
	trainingrepo "squad-portal/backend/internal/training/repository"
)

const seedPassword = "portal-dev-password"

// Fixed ids keep re-runs from duplicating rows.
var (
	seedEventID        = uuid.MustParse("6d2c2a70-0d6a-4b41-9f30-1d2f40fd0001").String()
	seedAHATrainingID  = uuid.MustParse("6d2c2a70-0d6a-4b41-9f30-1d2f40fd0002").String()
	seedCPRRefresherID = uuid.MustParse("6d2c2a70-0d6a-4b41-9f30-1d2f40fd0003").String()
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	database, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer database.Close()

	ctx := context.Background()
	members := memberrepo.NewPostgresRepository(database)
	events := eventrepo.NewPostgresRepository(database)
	trainings := trainingrepo.NewPostgresRepository(database)
	hasher := security.NewHasher(cfg.BcryptCost)

	hash, err := hasher.Hash([]byte(seedPassword))
	if err != nil {
		log.Fatalf("hash seed password: %v", err)
	}

	accounts := []struct {
		email    string
		name     string
		position int
		duesPaid bool
		active   bool
	}{
		{"admin@squad.local", "Seed Admin", memberdomain.PositionAdmin, true, true},
		{"board@squad.local", "Seed Board", memberdomain.PositionBoard, true, true},
		{"supervisor@squad.local", "Seed Supervisor", memberdomain.PositionSupervisor, true, true},
		{"member@squad.local", "Seed Member", memberdomain.PositionMember, true, true},
		{"pending@squad.local", "Seed Pending", memberdomain.PositionMember, false, false},
	}
	var adminID string
	for _, a := range accounts {
		existing, err := members.GetByEmail(ctx, a.email)
		if err != nil {
			log.Fatalf("get member %s: %v", a.email, err)
		}
		if existing != nil {
			if a.position == memberdomain.PositionAdmin {
				adminID = existing.ID
			}
			continue
		}
		status := memberdomain.StatusPending
		if a.active {
			status = memberdomain.StatusActive
		}
		now := time.Now().UTC()
		m := &memberdomain.Member{
			ID:            uuid.New().String(),
			Email:         a.email,
			Name:          a.name,
			PasswordHash:  hash,
			AccountStatus: status,
			PositionWeb:   a.position,
			DuesPaid:      a.duesPaid,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := members.Create(ctx, m); err != nil {
			log.Fatalf("create member %s: %v", a.email, err)
		}
		if a.position == memberdomain.PositionAdmin {
			adminID = m.ID
		}
		log.Printf("seeded member %s", a.email)
	}

	existingEvent, err := events.GetEventByID(ctx, seedEventID)
	if err != nil {
		log.Fatalf("get event: %v", err)
	}
	if existingEvent == nil {
		start := time.Now().UTC().AddDate(0, 0, 14).Truncate(time.Hour)
		e := &eventdomain.Event{
			ID:        seedEventID,
			Title:     "Stadium first-aid coverage",
			Location:  "North gate, city stadium",
			StartsAt:  start,
			EndsAt:    start.Add(6 * time.Hour),
			CreatedBy: adminID,
			CreatedAt: time.Now().UTC(),
		}
		if err := events.CreateEvent(ctx, e); err != nil {
			log.Fatalf("create event: %v", err)
		}
		log.Printf("seeded event %s", e.Title)
	}

	maxParticipants := 12
	costMember := 45.0
	costNonMember := 65.0
	costRecert := 30.0
	sessions := []*trainingdomain.Session{
		{
			ID:              seedAHATrainingID,
			Name:            "AHA BLS Provider",
			Description:     "Certification course with skills check",
			Location:        "Training room A",
			Date:            time.Now().UTC().AddDate(0, 0, 21).Truncate(24 * time.Hour),
			StartTime:       "09:00",
			EndTime:         "15:00",
			MaxParticipants: &maxParticipants,
			IsAHATraining:   true,
			CostMember:      &costMember,
			CostNonMember:   &costNonMember,
			CostRecert:      &costRecert,
			Contact:         "training@squad.local",
		},
		{
			ID:        seedCPRRefresherID,
			Name:      "CPR refresher",
			Location:  "Training room B",
			Date:      time.Now().UTC().AddDate(0, 0, 28).Truncate(24 * time.Hour),
			StartTime: "18:30",
			EndTime:   "20:30",
			Contact:   "training@squad.local",
		},
	}
	for _, s := range sessions {
		existing, err := trainings.GetSessionByID(ctx, s.ID)
		if err != nil {
			log.Fatalf("get training: %v", err)
		}
		if existing != nil {
			continue
		}
		s.CreatedBy = adminID
		s.CreatedAt = time.Now().UTC()
		if err := trainings.CreateSession(ctx, s); err != nil {
			log.Fatalf("create training: %v", err)
		}
		log.Printf("seeded training %s", s.Name)
	}

	log.Println("seed: done")
}

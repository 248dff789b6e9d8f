package main

import (
	"context"
	"flag"
	"log"
	"os"
	"strings"

	"github.com/rr-restro/pos/internal/config"
	"github.com/rr-restro/pos/internal/enum"
	"github.com/rr-restro/pos/internal/model"
	"github.com/rr-restro/pos/internal/service"
	"github.com/rr-restro/pos/internal/store"
)

func main() {
	// CLI flags
	username := flag.String("username", "", "Super admin username")
	password := flag.String("password", "", "Super admin password")
	name := flag.String("name", "", "Super admin full name")
	flag.Parse()

	// Fall back to environment variables
	if *username == "" {
		*username = os.Getenv("SEED_USERNAME")
	}
	if *password == "" {
		*password = os.Getenv("SEED_PASSWORD")
	}
	if *name == "" {
		*name = os.Getenv("SEED_NAME")
	}

	// Fall back to defaults
	if *username == "" {
		*username = "owner"
	}
	if *password == "" {
		*password = "password123"
		log.Println("WARNING: Using default password 'password123'. Change immediately in production!")
	}
	if *name == "" {
		*name = "RR Restro Owner"
	}

	cfg := config.Load()
	ctx := context.Background()

	var st store.Store
	if cfg.DatabaseURL != "" {
		pool, err := store.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Unable to connect to database: %v", err)
		}
		defer pool.Close()
		pg := store.NewPostgres(pool)
		if err := pg.Migrate(ctx); err != nil {
			log.Fatalf("Failed to migrate: %v", err)
		}
		st = pg
		log.Println("Connected to database")
	} else {
		fs, err := store.NewFile(cfg.DataDir)
		if err != nil {
			log.Fatalf("Unable to open data directory: %v", err)
		}
		st = fs
		log.Printf("Using data directory %s", cfg.DataDir)
	}

	svc := service.New(st, service.WithLocation(cfg.Location()))
	if err := svc.Load(ctx); err != nil {
		log.Fatalf("Failed to load state: %v", err)
	}

	// Write every slice so the store holds the defaults explicitly.
	if err := svc.Import(ctx, svc.Export(ctx), true); err != nil {
		log.Fatalf("Failed to write defaults: %v", err)
	}

	userID, err := seedOwner(ctx, svc, *username, *password, *name)
	if err != nil {
		log.Fatalf("Failed to seed owner: %v", err)
	}

	log.Println("Seed completed successfully")
	log.Printf("Owner ID: %s", userID)
}

// seedOwner creates a super admin assigned to every branch unless the
// username is already taken.
func seedOwner(ctx context.Context, svc *service.Service, username, password, fullName string) (string, error) {
	for _, u := range svc.Staff(ctx) {
		if strings.EqualFold(u.Username, username) {
			log.Printf("User '%s' already exists (ID: %s), skipping", username, u.ID)
			return u.ID, nil
		}
	}

	var branchIDs []string
	for _, b := range svc.Branches(ctx) {
		branchIDs = append(branchIDs, b.ID)
	}
	u, err := svc.SaveUser(ctx, model.User{
		Name:              fullName,
		Role:              enum.UserRoleSuperAdmin,
		Username:          username,
		Password:          password,
		AssignedBranchIDs: branchIDs,
	})
	if err != nil {
		return "", err
	}

	log.Printf("Created owner user '%s' (ID: %s)", username, u.ID)
	return u.ID, nil
}

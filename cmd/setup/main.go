package main

import (
	"context"
	"flag"
	"log"

	"promohub/internal/config"
	"promohub/internal/domain/model"
	"promohub/internal/infra/db/postgres"
	"promohub/internal/infra/redis"

	"github.com/jackc/pgx/v4/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

// This command bootstraps the schema and resets the environment to a clean,
// predictable state for manual end-to-end testing.
func main() {
	ctx := context.Background()

	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	seed := flag.Bool("seed", false, "insert demo accounts and promos after the reset")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, false)
	if err != nil {
		log.Fatalf("config load: %v", err)
	}

	pool, err := postgres.NewPgxPool(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("postgres connection failed: %v", err)
	}
	defer pool.Close()

	redisClient, err := redis.NewClient(ctx, &cfg.Redis)
	if err != nil {
		log.Fatalf("redis connection failed: %v", err)
	}
	defer redisClient.Close()

	log.Println("--- Starting Environment Setup ---")

	log.Println("[1/4] Creating schema...")
	if _, err := pool.Exec(ctx, schema); err != nil {
		log.Fatalf("failed to create schema: %v", err)
	}

	log.Println("[2/4] Wiping Redis state...")
	if err := redisClient.FlushDB(ctx); err != nil {
		log.Fatalf("failed to flush redis: %v", err)
	}

	log.Println("[3/4] Wiping existing database data...")
	if _, err := pool.Exec(ctx, `TRUNCATE companies, users, promos RESTART IDENTITY CASCADE;`); err != nil {
		log.Fatalf("failed to truncate tables: %v", err)
	}

	if *seed {
		log.Println("[4/4] Seeding demo data...")
		seedDemoData(ctx, pool)
	} else {
		log.Println("[4/4] Skipping demo data (pass -seed to enable)")
	}

	log.Println("--- Environment Setup Complete ---")
}

const schema = `
CREATE TABLE IF NOT EXISTS companies (
  company_id    UUID PRIMARY KEY,
  name          TEXT NOT NULL,
  email         TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS users (
  user_id       UUID PRIMARY KEY,
  name          TEXT NOT NULL,
  surname       TEXT NOT NULL,
  email         TEXT NOT NULL UNIQUE,
  avatar_url    TEXT,
  age           INT NOT NULL,
  country       TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS promos (
  promo_id        UUID PRIMARY KEY,
  company_id      UUID NOT NULL REFERENCES companies(company_id),
  company_name    TEXT NOT NULL,
  description     TEXT NOT NULL,
  image_url       TEXT,
  target          JSONB NOT NULL DEFAULT '{}',
  mode            TEXT NOT NULL,
  common_code     TEXT,
  unique_codes    JSONB NOT NULL DEFAULT '[]',
  max_count       INT NOT NULL,
  active_from     TIMESTAMPTZ,
  active_until    TIMESTAMPTZ,
  active          BOOLEAN NOT NULL DEFAULT TRUE,
  activated_users JSONB NOT NULL DEFAULT '[]',
  likes           JSONB NOT NULL DEFAULT '[]',
  comments        JSONB NOT NULL DEFAULT '[]',
  countries       JSONB NOT NULL DEFAULT '[]',
  created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_promos_company_id ON promos(company_id);
CREATE INDEX IF NOT EXISTS idx_promos_created_at ON promos(created_at DESC);
`

// seedDemoData inserts one company, one user and a promo of each mode so the
// API is explorable right after setup.
func seedDemoData(ctx context.Context, pool *pgxpool.Pool) {
	companyRepo := postgres.NewCompanyRepo(pool)
	userRepo := postgres.NewUserRepo(pool)
	promoRepo := postgres.NewPromoRepo(pool)

	hash, _ := bcrypt.GenerateFromPassword([]byte("DemoPass1"), bcrypt.DefaultCost)

	company, err := model.NewCompany("", "Demo Coffee", "demo@coffee.example.com", string(hash))
	if err != nil {
		log.Fatalf("demo company: %v", err)
	}
	if err := companyRepo.Save(ctx, nil, company); err != nil {
		log.Printf("failed to save demo company: %v", err)
	}

	user, err := model.NewUser("", "Dana", "Doe", "dana@example.com", nil,
		model.UserTargeting{Age: 28, Country: "nl"}, string(hash))
	if err != nil {
		log.Fatalf("demo user: %v", err)
	}
	if err := userRepo.Save(ctx, nil, user); err != nil {
		log.Printf("failed to save demo user: %v", err)
	}

	common := "WELCOME10"
	commonPromo, err := model.NewPromo(company.ID, company.Name, &model.CreatePromo{
		Description: "Ten percent off any drink for everyone",
		Target:      model.Target{},
		MaxCount:    100,
		Mode:        model.ModeCommon,
		CommonCode:  &common,
	})
	if err != nil {
		log.Fatalf("demo common promo: %v", err)
	}
	if err := promoRepo.Create(ctx, nil, commonPromo); err != nil {
		log.Printf("failed to save common promo: %v", err)
	}

	uniquePromo, err := model.NewPromo(company.ID, company.Name, &model.CreatePromo{
		Description: "Free pastry for the first three redeemers",
		Target:      model.Target{},
		MaxCount:    3,
		Mode:        model.ModeUnique,
		UniqueCodes: []string{"PASTRY-A1", "PASTRY-B2", "PASTRY-C3"},
	})
	if err != nil {
		log.Fatalf("demo unique promo: %v", err)
	}
	if err := promoRepo.Create(ctx, nil, uniquePromo); err != nil {
		log.Printf("failed to save unique promo: %v", err)
	}
}

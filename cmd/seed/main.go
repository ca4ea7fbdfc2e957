// Command seed imports a JSON fixture of vendors and admin users into the
// configured stores. Reruns are safe: both imports upsert on their natural
// keys (vendor slug, user uid).
package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"vendorhub/internal/audit"
	"vendorhub/internal/directory/models"
	"vendorhub/internal/directory/store/settings"
	"vendorhub/internal/directory/store/vendors"
	"vendorhub/internal/identity"
	identitystore "vendorhub/internal/identity/store"
	"vendorhub/internal/platform/config"
	"vendorhub/internal/platform/logger"
)

type fixture struct {
	Vendors  []vendorFixture            `json:"vendors"`
	Admins   []adminFixture             `json:"admins"`
	Settings map[string]json.RawMessage `json:"settings"`
}

type vendorFixture struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	City     string `json:"city"`
	Verified bool   `json:"verified"`
}

type adminFixture struct {
	UID             string `json:"uid"`
	Email           string `json:"email"`
	DisplayName     string `json:"displayName"`
	BootstrapSecret string `json:"bootstrapSecret"`
}

func main() {
	fixturePath := flag.String("fixture", "seed.json", "path to the JSON fixture")
	dryRun := flag.Bool("dry-run", false, "parse and report without writing")
	flag.Parse()

	log := logger.New()

	raw, err := os.ReadFile(*fixturePath)
	if err != nil {
		log.Error("failed to read fixture", "path", *fixturePath, "error", err)
		os.Exit(1)
	}
	var fx fixture
	if err := json.Unmarshal(raw, &fx); err != nil {
		log.Error("failed to parse fixture", "path", *fixturePath, "error", err)
		os.Exit(1)
	}

	log.Info("fixture loaded",
		"vendors", len(fx.Vendors),
		"admins", len(fx.Admins),
		"settings", len(fx.Settings),
	)
	if *dryRun {
		for _, v := range fx.Vendors {
			fmt.Printf("vendor\t%s\t%s\n", models.Slugify(v.Name), v.Name)
		}
		for _, a := range fx.Admins {
			fmt.Printf("admin\t%s\t%s\n", a.UID, a.Email)
		}
		for key := range fx.Settings {
			fmt.Printf("setting\t%s\n", key)
		}
		return
	}

	cfg := config.FromEnv()
	if cfg.PostgresDSN == "" {
		log.Error("POSTGRES_DSN is required for seeding")
		os.Exit(1)
	}
	db, err := sql.Open("postgres", cfg.PostgresDSN)
	if err != nil {
		log.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Error("failed to reach database", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	vendorStore := vendors.NewPostgres(db)
	userStore := identitystore.NewPostgresUserStore(db)
	settingsStore := settings.NewPostgres(db)
	auditor := audit.NewPublisher(audit.NewPostgres(db))

	for _, v := range fx.Vendors {
		vendor := &models.Vendor{
			Name:     v.Name,
			Slug:     models.Slugify(v.Name),
			Category: v.Category,
			City:     v.City,
			Verified: v.Verified,
		}
		if err := vendorStore.Upsert(ctx, vendor); err != nil {
			log.Error("failed to upsert vendor", "slug", vendor.Slug, "error", err)
			os.Exit(1)
		}
		log.Info("vendor upserted", "slug", vendor.Slug)
	}

	for _, a := range fx.Admins {
		user, err := buildAdmin(a)
		if err != nil {
			log.Error("failed to build admin record", "uid", a.UID, "error", err)
			os.Exit(1)
		}
		if err := userStore.Upsert(ctx, user); err != nil {
			log.Error("failed to upsert admin", "uid", user.UID, "error", err)
			os.Exit(1)
		}
		if err := auditor.Emit(ctx, audit.Entry{
			AdminUID:    user.UID,
			AdminEmail:  user.Email,
			Action:      audit.ActionUserSeeded,
			Description: "admin record imported by seed tool",
		}); err != nil {
			log.Error("failed to record seed audit entry", "uid", user.UID, "error", err)
			os.Exit(1)
		}
		log.Info("admin upserted", "uid", user.UID)
	}

	if len(fx.Settings) > 0 {
		// Merge semantics: fixture keys are upserted, keys absent from the
		// fixture are left alone.
		if err := settingsStore.Merge(ctx, fx.Settings); err != nil {
			log.Error("failed to merge settings", "error", err)
			os.Exit(1)
		}
		if err := auditor.Emit(ctx, audit.Entry{
			Action:            audit.ActionSettingsChanged,
			Description:       "settings imported by seed tool",
			RelatedCollection: "admin_settings",
		}); err != nil {
			log.Error("failed to record settings audit entry", "error", err)
			os.Exit(1)
		}
		log.Info("settings merged", "keys", len(fx.Settings))
	}

	log.Info("seeding complete",
		"vendors", len(fx.Vendors),
		"admins", len(fx.Admins),
	)
}

func buildAdmin(a adminFixture) (*identity.User, error) {
	if a.UID == "" {
		return nil, fmt.Errorf("admin fixture missing uid")
	}
	user := &identity.User{
		UID:         a.UID,
		Email:       a.Email,
		DisplayName: a.DisplayName,
		Role:        identity.RoleAdmin,
		Active:      true,
	}
	if a.BootstrapSecret != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(a.BootstrapSecret), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash bootstrap secret: %w", err)
		}
		user.BootstrapHash = string(hash)
	}
	return user, nil
}

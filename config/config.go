package config

import (
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/common"
)

// Config holds every environment-driven setting, populated once at process
// start and passed explicitly to the handlers that need it.
type Config struct {
	Port string

	// Public base URL of the mini-app deployment
	PublicURL string

	// Farcaster account association
	FarcasterHeader    string
	FarcasterPayload   string
	FarcasterSignature string

	// Base builder owner address (hex)
	OwnerAddress string

	// Mini-app presentation
	AppName               string
	AppSubtitle           string
	AppDescription        string
	AppIcon               string
	AppSplashImage        string
	SplashBackgroundColor string
	PrimaryCategory       string
	HeroImage             string
	Tagline               string
	OGTitle               string
	OGDescription         string
	OGImage               string
	Tags                  []string
}

// Load assembles the configuration from environment variables.
func Load() *Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	return &Config{
		Port:                  port,
		PublicURL:             os.Getenv("PUBLIC_URL"),
		FarcasterHeader:       os.Getenv("FARCASTER_HEADER"),
		FarcasterPayload:      os.Getenv("FARCASTER_PAYLOAD"),
		FarcasterSignature:    os.Getenv("FARCASTER_SIGNATURE"),
		OwnerAddress:          os.Getenv("OWNER_ADDRESS"),
		AppName:               os.Getenv("APP_NAME"),
		AppSubtitle:           os.Getenv("APP_SUBTITLE"),
		AppDescription:        os.Getenv("APP_DESCRIPTION"),
		AppIcon:               os.Getenv("APP_ICON"),
		AppSplashImage:        os.Getenv("APP_SPLASH_IMAGE"),
		SplashBackgroundColor: os.Getenv("SPLASH_BACKGROUND_COLOR"),
		PrimaryCategory:       os.Getenv("APP_PRIMARY_CATEGORY"),
		HeroImage:             os.Getenv("APP_HERO_IMAGE"),
		Tagline:               os.Getenv("APP_TAGLINE"),
		OGTitle:               os.Getenv("APP_OG_TITLE"),
		OGDescription:         os.Getenv("APP_OG_DESCRIPTION"),
		OGImage:               os.Getenv("APP_OG_IMAGE"),
		Tags:                  []string{"echo", "racfathers", "bitcoin", "prediction", "insights"},
	}
}

// Validate checks the fields that would break the manifest if malformed.
// Missing optional presentation fields are fine; the manifest filters them.
func (c *Config) Validate() error {
	if c.OwnerAddress != "" && !common.IsHexAddress(c.OwnerAddress) {
		return fmt.Errorf("OWNER_ADDRESS is not a valid hex address: %s", c.OwnerAddress)
	}
	return nil
}

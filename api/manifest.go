package api

import (
	"net/http"

	"echoGameServer/config"
)

// HandleManifest returns the handler for GET /.well-known/farcaster.json
// The manifest is pure data assembly from the validated config; empty values
// are filtered out rather than serialized as blanks.
func HandleManifest(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			sendError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}

		webhookURL := ""
		if cfg.PublicURL != "" {
			webhookURL = cfg.PublicURL + "/api/webhook"
		}

		frame := withValidProperties(map[string]interface{}{
			"version":               "1",
			"name":                  cfg.AppName,
			"subtitle":              cfg.AppSubtitle,
			"description":           cfg.AppDescription,
			"screenshotUrls":        []string{},
			"iconUrl":               cfg.AppIcon,
			"splashImageUrl":        cfg.AppSplashImage,
			"splashBackgroundColor": cfg.SplashBackgroundColor,
			"homeUrl":               cfg.PublicURL,
			"webhookUrl":            webhookURL,
			"primaryCategory":       cfg.PrimaryCategory,
			"tags":                  cfg.Tags,
			"heroImageUrl":          cfg.HeroImage,
			"tagline":               cfg.Tagline,
			"ogTitle":               cfg.OGTitle,
			"ogDescription":         cfg.OGDescription,
			"ogImageUrl":            cfg.OGImage,
		})

		manifest := map[string]interface{}{
			"accountAssociation": map[string]string{
				"header":    cfg.FarcasterHeader,
				"payload":   cfg.FarcasterPayload,
				"signature": cfg.FarcasterSignature,
			},
			"baseBuilder": map[string]string{
				"ownerAddress": cfg.OwnerAddress,
			},
			// The frame and miniapp blocks carry the same fields; hosts read
			// whichever key their SDK version expects
			"frame":   frame,
			"miniapp": frame,
		}

		writeJSON(w, http.StatusOK, manifest)
	}
}

// withValidProperties drops empty strings and empty arrays from a property
// map so optional config fields vanish from the manifest.
func withValidProperties(properties map[string]interface{}) map[string]interface{} {
	filtered := make(map[string]interface{}, len(properties))
	for key, value := range properties {
		switch v := value.(type) {
		case string:
			if v != "" {
				filtered[key] = v
			}
		case []string:
			if len(v) > 0 {
				filtered[key] = v
			}
		default:
			filtered[key] = value
		}
	}
	return filtered
}

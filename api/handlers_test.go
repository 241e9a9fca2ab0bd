package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"echoGameServer/config"
)

func TestParseTimeParam(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want int64
		ok   bool
	}{
		{"epoch millis", "1700000000000", 1700000000000, true},
		{"rfc3339", "2023-11-14T22:13:20Z", 1700000000000, true},
		{"empty", "", 0, false},
		{"garbage", "tomorrow", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseTimeParam(tt.raw)
			if ok != tt.ok || got != tt.want {
				t.Errorf("parseTimeParam(%q) = %d, %v; expected %d, %v",
					tt.raw, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestWriteJSONNoCacheHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	writeJSON(rec, http.StatusOK, map[string]string{"hello": "world"})

	if got := rec.Header().Get("Content-Type"); got != "application/json" {
		t.Errorf("Content-Type = %s", got)
	}
	if got := rec.Header().Get("Cache-Control"); got != "no-store, no-cache, must-revalidate, proxy-revalidate, max-age=0" {
		t.Errorf("Cache-Control = %s", got)
	}
	if got := rec.Header().Get("Pragma"); got != "no-cache" {
		t.Errorf("Pragma = %s", got)
	}
	if got := rec.Header().Get("Expires"); got != "0" {
		t.Errorf("Expires = %s", got)
	}
}

func TestHandleGetPredictionEmptyStore(t *testing.T) {
	// No pool configured: the store reads as empty, which is a 404 rather
	// than a mock prediction
	req := httptest.NewRequest(http.MethodGet, "/api/game/prediction", nil)
	rec := httptest.NewRecorder()

	HandleGetPrediction(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, expected 404", rec.Code)
	}

	var body ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode error body: %v", err)
	}
	if body.Error != "No predictions found" {
		t.Errorf("error = %q", body.Error)
	}
}

func TestHandleGetPredictionMethodNotAllowed(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/game/prediction", nil)
	rec := httptest.NewRecorder()

	HandleGetPrediction(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, expected 405", rec.Code)
	}
}

func TestHandleGetActualMovementMissingStartTime(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{"absent", "/api/game/actual-movement"},
		{"unparseable", "/api/game/actual-movement?startTime=soon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			rec := httptest.NewRecorder()

			HandleGetActualMovement(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, expected 400", rec.Code)
			}

			var body ErrorResponse
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("failed to decode error body: %v", err)
			}
			if body.Error != "startTime parameter is required" {
				t.Errorf("error = %q", body.Error)
			}
		})
	}
}

func TestHandleManifest(t *testing.T) {
	cfg := &config.Config{
		PublicURL:          "https://echo.example.com",
		FarcasterHeader:    "hdr",
		FarcasterPayload:   "pld",
		FarcasterSignature: "sig",
		OwnerAddress:       "0x52908400098527886E0F7030069857D2E4169EE7",
		AppName:            "Echo",
		AppDescription:     "Guess BTC moves against Echo",
		Tags:               []string{"bitcoin", "prediction"},
		// Subtitle, icon, and the rest left empty on purpose
	}

	req := httptest.NewRequest(http.MethodGet, "/.well-known/farcaster.json", nil)
	rec := httptest.NewRecorder()

	HandleManifest(cfg)(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var manifest map[string]interface{}
	if err := json.NewDecoder(rec.Body).Decode(&manifest); err != nil {
		t.Fatalf("failed to decode manifest: %v", err)
	}

	account, ok := manifest["accountAssociation"].(map[string]interface{})
	if !ok {
		t.Fatal("accountAssociation missing")
	}
	if account["header"] != "hdr" || account["signature"] != "sig" {
		t.Errorf("accountAssociation = %v", account)
	}

	builder, ok := manifest["baseBuilder"].(map[string]interface{})
	if !ok || builder["ownerAddress"] != cfg.OwnerAddress {
		t.Errorf("baseBuilder = %v", manifest["baseBuilder"])
	}

	frame, ok := manifest["frame"].(map[string]interface{})
	if !ok {
		t.Fatal("frame missing")
	}
	if frame["name"] != "Echo" {
		t.Errorf("frame name = %v", frame["name"])
	}
	if frame["webhookUrl"] != "https://echo.example.com/api/webhook" {
		t.Errorf("webhookUrl = %v", frame["webhookUrl"])
	}

	// Empty config fields must be filtered, not serialized as blanks
	if _, present := frame["subtitle"]; present {
		t.Error("empty subtitle should have been filtered")
	}
	if _, present := frame["iconUrl"]; present {
		t.Error("empty iconUrl should have been filtered")
	}
	if _, present := frame["screenshotUrls"]; present {
		t.Error("empty screenshotUrls should have been filtered")
	}

	// Both frame keys carry the same payload
	miniapp, ok := manifest["miniapp"].(map[string]interface{})
	if !ok || miniapp["name"] != frame["name"] {
		t.Errorf("miniapp = %v", manifest["miniapp"])
	}
}

func TestHandleManifestWithoutPublicURL(t *testing.T) {
	cfg := &config.Config{AppName: "Echo"}

	req := httptest.NewRequest(http.MethodGet, "/.well-known/farcaster.json", nil)
	rec := httptest.NewRecorder()

	HandleManifest(cfg)(rec, req)

	var manifest map[string]interface{}
	if err := json.NewDecoder(rec.Body).Decode(&manifest); err != nil {
		t.Fatalf("failed to decode manifest: %v", err)
	}

	frame := manifest["frame"].(map[string]interface{})
	if _, present := frame["webhookUrl"]; present {
		t.Error("webhookUrl should be absent without a public URL")
	}
	if _, present := frame["homeUrl"]; present {
		t.Error("homeUrl should be absent without a public URL")
	}
}

func TestHandleHealthCheck(t *testing.T) {
	// Neither store is initialized in tests; the endpoint still answers 200
	// and reports per-dependency status
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()

	HandleHealthCheck(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, expected 200 even with stores down", rec.Code)
	}

	var body map[string]interface{}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode health body: %v", err)
	}
	if body["success"] != true {
		t.Errorf("success = %v", body["success"])
	}
	if body["redis"] == "ok" || body["postgres"] == "ok" {
		t.Errorf("uninitialized stores reported ok: %v", body)
	}
}

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"

	"github.com/ppiankov/claimcheck/internal/calendar"
	"github.com/ppiankov/claimcheck/internal/journey"
	"github.com/ppiankov/claimcheck/internal/model"
)

func newTestViper(t *testing.T) *viper.Viper {
	t.Helper()
	v := viper.New()
	if err := setDefaults(v, model.DefaultConfig()); err != nil {
		t.Fatalf("set defaults: %v", err)
	}
	v.SetEnvPrefix("CLAIMCHECK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func TestDecodeConfigDefaults(t *testing.T) {
	cfg, err := decodeConfig(newTestViper(t))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	want := model.DefaultConfig()
	if cfg.Rules.SpacingMonths != want.Rules.SpacingMonths {
		t.Errorf("expected spacing %d, got %d", want.Rules.SpacingMonths, cfg.Rules.SpacingMonths)
	}
	if cfg.Backend.Timeout != want.Backend.Timeout {
		t.Errorf("expected timeout %v, got %v", want.Backend.Timeout, cfg.Backend.Timeout)
	}
	if !cfg.Features.MultiHerds.ReleaseDate.Equal(want.Features.MultiHerds.ReleaseDate) {
		t.Errorf("expected multi-herds release %s, got %s", want.Features.MultiHerds.ReleaseDate, cfg.Features.MultiHerds.ReleaseDate)
	}
	if cfg.RateLimiting.RequestsPerSecond != want.RateLimiting.RequestsPerSecond {
		t.Errorf("expected %v requests per second, got %v", want.RateLimiting.RequestsPerSecond, cfg.RateLimiting.RequestsPerSecond)
	}
}

func TestDecodeConfigFromEnvironment(t *testing.T) {
	t.Setenv("CLAIMCHECK_BACKEND_CLAIMS_URL", "http://claims.farm.test")
	t.Setenv("CLAIMCHECK_RULES_SPACING_MONTHS", "12")
	t.Setenv("CLAIMCHECK_SESSION_TTL", "30m")
	t.Setenv("CLAIMCHECK_FEATURES_MULTI_HERDS_RELEASE_DATE", "2025-06-01")
	t.Setenv("CLAIMCHECK_BACKEND_HTTPS_PROXY", "http://proxy.farm.test:3128")

	cfg, err := decodeConfig(newTestViper(t))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if cfg.Backend.ClaimsURL != "http://claims.farm.test" {
		t.Errorf("expected claims url from env, got %q", cfg.Backend.ClaimsURL)
	}
	if cfg.Rules.SpacingMonths != 12 {
		t.Errorf("expected spacing 12, got %d", cfg.Rules.SpacingMonths)
	}
	if cfg.Session.TTL != 30*time.Minute {
		t.Errorf("expected session ttl 30m, got %v", cfg.Session.TTL)
	}
	if got := cfg.Features.MultiHerds.ReleaseDate.String(); got != "2025-06-01" {
		t.Errorf("expected release 2025-06-01, got %s", got)
	}
	if cfg.Backend.HTTPSProxy != "http://proxy.farm.test:3128" {
		t.Errorf("expected https proxy from env, got %q", cfg.Backend.HTTPSProxy)
	}
}

func TestDecodeConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `features:
  dairy_follow_up:
    enabled: false
    release_date: 2025-03-01
rules:
  spacing_months: 11
cache:
  enabled: false
logging:
  format: json
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	v := newTestViper(t)
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		t.Fatalf("read config: %v", err)
	}

	cfg, err := decodeConfig(v)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if cfg.Features.DairyFollowUp.Enabled {
		t.Error("expected dairy follow-up disabled")
	}
	if got := cfg.Features.DairyFollowUp.ReleaseDate.String(); got != "2025-03-01" {
		t.Errorf("expected release 2025-03-01, got %s", got)
	}
	if !cfg.Features.MultiSpecies.Enabled {
		t.Error("expected untouched gates to keep their defaults")
	}
	if cfg.Rules.SpacingMonths != 11 {
		t.Errorf("expected spacing 11, got %d", cfg.Rules.SpacingMonths)
	}
	if cfg.Cache.Enabled {
		t.Error("expected cache disabled")
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("expected json logging, got %q", cfg.Logging.Format)
	}
}

func reflectDateType() reflect.Type {
	return reflect.TypeOf(calendar.Date{})
}

func TestTimeToDateHook(t *testing.T) {
	hook := timeToDateHook()

	day := time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC)
	out, err := hook(nil, reflectDateType(), day)
	if err != nil {
		t.Fatalf("hook: %v", err)
	}
	d, ok := out.(calendar.Date)
	if !ok {
		t.Fatalf("expected calendar.Date, got %T", out)
	}
	if d.String() != "2025-05-01" {
		t.Errorf("expected 2025-05-01, got %s", d)
	}

	// Other values pass through
	out, err = hook(nil, reflectDateType(), "2025-05-01")
	if err != nil {
		t.Fatalf("hook: %v", err)
	}
	if out != "2025-05-01" {
		t.Errorf("expected string to pass through, got %v", out)
	}
}

func TestWriteDefaultConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	if err := writeDefaultConfig(path); err != nil {
		t.Fatalf("write default config: %v", err)
	}
	if err := writeDefaultConfig(path); err == nil {
		t.Error("expected an existing config file to be kept")
	}

	v := newTestViper(t)
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		t.Fatalf("read config: %v", err)
	}
	cfg, err := decodeConfig(v)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	want := model.DefaultConfig()
	if !cfg.Features.MultiSpecies.ReleaseDate.Equal(want.Features.MultiSpecies.ReleaseDate) {
		t.Errorf("expected release %s, got %s", want.Features.MultiSpecies.ReleaseDate, cfg.Features.MultiSpecies.ReleaseDate)
	}
	if cfg.Cache.DiskTTL != want.Cache.DiskTTL {
		t.Errorf("expected disk ttl %v, got %v", want.Cache.DiskTTL, cfg.Cache.DiskTTL)
	}
}

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		level string
		debug bool
		warn  bool
	}{
		{"debug", true, true},
		{"info", false, true},
		{"", false, true},
		{"error", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logger := newLogger(model.LoggingConfig{Level: tt.level})
			ctx := context.Background()
			if got := logger.Enabled(ctx, slog.LevelDebug); got != tt.debug {
				t.Errorf("expected debug enabled %v, got %v", tt.debug, got)
			}
			if got := logger.Enabled(ctx, slog.LevelWarn); got != tt.warn {
				t.Errorf("expected warn enabled %v, got %v", tt.warn, got)
			}
		})
	}
}

func TestNewLoggerFormat(t *testing.T) {
	if _, ok := newLogger(model.LoggingConfig{Format: "json"}).Handler().(*slog.JSONHandler); !ok {
		t.Error("expected a JSON handler")
	}
	if _, ok := newLogger(model.LoggingConfig{Format: "text"}).Handler().(*slog.TextHandler); !ok {
		t.Error("expected a text handler")
	}
}

func TestRender(t *testing.T) {
	d := journey.Decision{Outcome: journey.OutcomeContinue, Page: journey.PageWhichSpecies, NextPage: journey.PageWhichTypeOfReview}

	var out bytes.Buffer
	if err := render(&out, d, false); err != nil {
		t.Fatalf("render yaml: %v", err)
	}
	if !strings.Contains(out.String(), "nextPage: which-type-of-review") {
		t.Errorf("expected yaml next page, got:\n%s", out.String())
	}

	out.Reset()
	if err := render(&out, d, true); err != nil {
		t.Fatalf("render json: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(out.Bytes(), &decoded); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if decoded["nextPage"] != "which-type-of-review" {
		t.Errorf("expected json next page, got %v", decoded["nextPage"])
	}
}

func TestNewPipelineAgainstBackend(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/api/applications/latest":
			_ = json.NewEncoder(w).Encode([]model.Application{{
				Reference: "IAHW-AAAA-0001",
				Type:      model.ApplicationEndemics,
				Status:    model.StatusAgreed,
				CreatedAt: time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
			}})
		case strings.HasPrefix(r.URL.Path, "/api/claim/get-by-application-reference/"):
			_, _ = w.Write([]byte("[]"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	cfg := model.DefaultConfig()
	cfg.Backend.ApplicationsURL = server.URL
	cfg.Backend.ClaimsURL = server.URL
	cfg.Cache.Enabled = false

	p, err := newPipeline(cfg, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
	if err != nil {
		t.Fatalf("new pipeline: %v", err)
	}

	key, cc, err := p.StartClaim(context.Background(), model.Organisation{SBI: "106705779"})
	if err != nil {
		t.Fatalf("start claim: %v", err)
	}
	if cc.LatestEndemicsApplication == nil || cc.LatestEndemicsApplication.Reference != "IAHW-AAAA-0001" {
		t.Errorf("expected agreement IAHW-AAAA-0001, got %+v", cc.LatestEndemicsApplication)
	}

	res, err := p.Submit(context.Background(), key, journey.Request{
		Page: journey.PageWhichSpecies,
		Form: map[string]string{journey.FieldTypeOfLivestock: "sheep"},
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if res.Outcome != journey.OutcomeContinue {
		t.Errorf("expected CONTINUE, got %s", res.Outcome)
	}
}

func TestNewLimiterClaimsQuota(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.Backend.ApplicationsURL = "http://applications.farm.test"
	cfg.Backend.ClaimsURL = "http://claims.farm.test"
	cfg.RateLimiting = model.RateLimitingConfig{BurstSize: 2, ClaimsRequestsPerSecond: 0.001}

	limiter, err := newLimiter(cfg)
	if err != nil {
		t.Fatalf("new limiter: %v", err)
	}

	claims := "http://claims.farm.test/api/claim"
	for i := 0; i < 2; i++ {
		if !limiter.Allow(claims) {
			t.Fatalf("expected request %d within the claims burst", i+1)
		}
	}
	if limiter.Allow(claims) {
		t.Error("expected the claims quota to be exhausted")
	}
	for i := 0; i < 5; i++ {
		if !limiter.Allow("http://applications.farm.test/api/applications/latest") {
			t.Fatalf("expected applications request %d to be unlimited", i+1)
		}
	}
}

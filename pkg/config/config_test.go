package config

import (
	"testing"
	"time"
)

func TestRefreshTTL(t *testing.T) {
	tests := []struct {
		name    string
		factors string
		want    time.Duration
		wantErr bool
	}{
		{"single factor", "90", 90 * time.Minute, false},
		{"one week", "60*24*7", 7 * 24 * time.Hour, false},
		{"spaces tolerated", "60 * 24", 24 * time.Hour, false},
		{"empty", "", 0, true},
		{"not a number", "60*abc", 0, true},
		{"zero factor", "60*0", 0, true},
		{"negative factor", "60*-1", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &AuthConfig{RefreshTTLFactors: tt.factors}
			got, err := cfg.RefreshTTL()
			if (err != nil) != tt.wantErr {
				t.Fatalf("RefreshTTL() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("RefreshTTL() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Database: DatabaseConfig{URL: "postgresql://test@localhost/test"},
			Auth: AuthConfig{
				AccessSecret:      "access-secret",
				RefreshSecret:     "refresh-secret",
				AccessTTLMinutes:  30,
				RefreshTTLFactors: "60*24*7",
				BcryptCost:        12,
			},
			Moderation: ModerationConfig{
				URL:     "http://localhost:9000/v1/chat/completions",
				Timeout: 10 * time.Second,
			},
		}
	}

	if err := valid().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing database url", func(c *Config) { c.Database.URL = "" }},
		{"missing access secret", func(c *Config) { c.Auth.AccessSecret = "" }},
		{"missing refresh secret", func(c *Config) { c.Auth.RefreshSecret = "" }},
		{"zero access ttl", func(c *Config) { c.Auth.AccessTTLMinutes = 0 }},
		{"bad refresh factors", func(c *Config) { c.Auth.RefreshTTLFactors = "a*b" }},
		{"bcrypt cost too low", func(c *Config) { c.Auth.BcryptCost = 2 }},
		{"missing moderation url", func(c *Config) { c.Moderation.URL = "" }},
		{"zero moderation timeout", func(c *Config) { c.Moderation.Timeout = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Errorf("Validate() accepted invalid config")
			}
		})
	}
}

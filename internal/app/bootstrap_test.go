package app

import (
	"context"
	"errors"
	"testing"

	"talent-match/internal/config"
)

func TestListenAddr(t *testing.T) {
	cases := map[string]string{"8080": ":8080", " :9090 ": ":9090"}
	for in, want := range cases {
		got, err := ListenAddr(in)
		if err != nil || got != want {
			t.Fatalf("ListenAddr(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ListenAddr("  "); err == nil {
		t.Fatalf("expected error for empty port")
	}
}

func TestBootstrapRejectsInvalidConfig(t *testing.T) {
	cfg := config.Config{App: config.AppConfig{Environment: "production"}}
	_, _, err := Bootstrap(context.Background(), cfg, nil)
	if !errors.Is(err, config.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestContainerCloseNil(t *testing.T) {
	var c *Container
	if err := c.Close(); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	if err := (&Container{}).Close(); err != nil {
		t.Fatalf("expected nil for empty container, got %v", err)
	}
}

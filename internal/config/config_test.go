package config

import (
	"bytes"
	"errors"
	"flag"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"
)

func envMap(values map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(nil, nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := Default()
	want.BasePath = "/"
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_ProductionModeSetsBasePath(t *testing.T) {
	cfg, err := Load([]string{"-mode", "production"}, nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.BasePath != "/vuex-form-gen/" {
		t.Fatalf("base path: %q", cfg.BasePath)
	}
}

func TestLoad_FlagsOverrideEnv(t *testing.T) {
	env := envMap(map[string]string{
		EnvMode:         "production",
		EnvAddr:         ":9000",
		EnvBasePath:     "demo",
		EnvThemeVariant: "dark",
		EnvLogLevel:     "debug",
	})

	cfg, err := Load([]string{"-addr", ":7000", "-grace", "1s"}, env)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := Config{
		Mode:          ModeProduction,
		Addr:          ":7000",
		BasePath:      "/demo/",
		Theme:         "genform",
		ThemeVariant:  "dark",
		LogLevel:      "debug",
		ShutdownGrace: time.Second,
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := Load([]string{"-mode", "staging"}, nil); err == nil {
		t.Fatalf("expected mode error")
	}
	if _, err := Load(nil, envMap(map[string]string{EnvLogLevel: "loud"})); err == nil {
		t.Fatalf("expected log level error")
	}
	if _, err := Load([]string{"-unknown"}, nil); err == nil {
		t.Fatalf("expected flag error")
	}
	if _, err := Load([]string{"-h"}, nil); !errors.Is(err, flag.ErrHelp) {
		t.Fatalf("expected ErrHelp, got %v", err)
	}
}

func TestNormalizeBasePath(t *testing.T) {
	cases := map[string]string{
		"":                "/",
		"/":               "/",
		"vuex-form-gen":   "/vuex-form-gen/",
		"/vuex-form-gen/": "/vuex-form-gen/",
		" /a/b ":          "/a/b/",
	}
	for in, want := range cases {
		if got := NormalizeBasePath(in); got != want {
			t.Errorf("NormalizeBasePath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := Default()
	cfg.Mode = ModeProduction
	cfg.LogLevel = "warn"

	logger, err := cfg.NewLogger(&buf)
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	if logger.GetLevel() != logrus.WarnLevel {
		t.Fatalf("level: %v", logger.GetLevel())
	}
	logger.Info("hidden")
	logger.Warn("shown")
	if !bytes.Contains(buf.Bytes(), []byte(`"msg":"shown"`)) || bytes.Contains(buf.Bytes(), []byte("hidden")) {
		t.Fatalf("unexpected log output %s", buf.String())
	}
}

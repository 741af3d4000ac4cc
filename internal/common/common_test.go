package common

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"strings"
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, k := range []string{"UPD_LOG_LEVEL", "UPD_HEADER_BAND_HEIGHT", "UPD_HEADER_BAND_RATIO", "UPD_SNAP_TOLERANCE", "UPD_ROW_TOLERANCE", "UPD_OUTPUT_DIR"} {
		t.Setenv(k, "")
	}
	c := LoadConfig()
	if c.LogLevel != "info" || c.Header.BandHeight != 140 || c.Header.BandRatio != 0.25 ||
		c.Layout.SnapTolerance != 5 || c.Layout.RowTolerance != 2 || c.Output.Dir != "./out" {
		t.Fatalf("defaults = %+v", c)
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("UPD_HEADER_BAND_HEIGHT", "160.5")
	t.Setenv("UPD_SNAP_TOLERANCE", "not-a-number")
	t.Setenv("UPD_LOG_LEVEL", "debug")
	c := LoadConfig()
	if c.Header.BandHeight != 160.5 {
		t.Errorf("band height = %v", c.Header.BandHeight)
	}
	if c.Layout.SnapTolerance != 5 {
		t.Errorf("bad value must fall back to default, got %v", c.Layout.SnapTolerance)
	}
	if c.SlogLevel() != slog.LevelDebug {
		t.Errorf("level = %v", c.SlogLevel())
	}
}

func TestConfigValidate(t *testing.T) {
	c := LoadConfig()
	c.Header.BandRatio = 1.5
	c.Layout.RowTolerance = 0
	c.LogLevel = "verbose"
	err := c.Validate()
	var appErr *AppError
	if !errors.As(err, &appErr) || appErr.Code != CodeConfig {
		t.Fatalf("err = %v, want CONFIG_ERROR", err)
	}
	for _, field := range []string{"header.band_ratio", "layout.row_tolerance", "log_level"} {
		if !strings.Contains(appErr.Message, field) {
			t.Errorf("message %q does not name %s", appErr.Message, field)
		}
	}
}

func TestUnreadableSourceError(t *testing.T) {
	err := error(UnreadableSourceError("a.pdf", fs.ErrNotExist))
	if !IsUnreadableSource(err) || !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("err = %v does not match both sentinels", err)
	}
	var appErr *AppError
	if !errors.As(err, &appErr) || appErr.Code != CodeUnreadableSource {
		t.Fatalf("err = %v", err)
	}
	if IsUnreadableSource(ExportError("write", errors.New("disk full"))) {
		t.Fatal("export errors are not unreadable sources")
	}
}

func TestRunIDContext(t *testing.T) {
	ctx := WithRunID(context.Background(), "r-1")
	if got := RunIDFromContext(ctx); got != "r-1" {
		t.Fatalf("run id = %q", got)
	}
	if RunIDFromContext(context.Background()) != "" {
		t.Fatal("empty context has no run id")
	}
	fallback := slog.Default()
	if LoggerFromContext(ctx, fallback) != fallback {
		t.Fatal("expected fallback logger")
	}
}

func TestLoggerContext(t *testing.T) {
	scoped := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := WithLogger(context.Background(), scoped)
	if LoggerFromContext(ctx, slog.Default()) != scoped {
		t.Fatal("expected the context logger")
	}
}

func TestRequiredRule(t *testing.T) {
	blank := "  "
	tests := []struct {
		name    string
		value   any
		wantErr bool
	}{
		{"nil", nil, true},
		{"blank string", " \t", true},
		{"blank pointer", &blank, true},
		{"value", "dir", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAndReturnError(NewValidator().Field("root", tt.value, Required))
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v", err)
			}
			if err != nil && !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("err %v should match ErrInvalidInput", err)
			}
		})
	}
}

func TestWrapError(t *testing.T) {
	if WrapError(nil, "walk") != nil {
		t.Fatal("nil stays nil")
	}
	err := WrapError(fs.ErrNotExist, "walk")
	if !errors.Is(err, fs.ErrNotExist) || err.Error() != "walk: file does not exist" {
		t.Fatalf("err = %v", err)
	}
}

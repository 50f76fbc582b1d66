package config

import "testing"

func TestNew_Defaults(t *testing.T) {
	cfg := New()

	if cfg.Server.Addr != DefaultServerAddr {
		t.Fatalf("addr = %q", cfg.Server.Addr)
	}
	if cfg.Database.URL != DefaultDatabaseURL {
		t.Fatalf("database url = %q", cfg.Database.URL)
	}
	if cfg.Upload.Driver != DefaultUploadDriver {
		t.Fatalf("upload driver = %q", cfg.Upload.Driver)
	}
	if cfg.SMTP.Port != DefaultSMTPPort {
		t.Fatalf("smtp port = %d", cfg.SMTP.Port)
	}
	if !cfg.SeedDemoData {
		t.Fatal("demo data seeding should default on")
	}
}

func TestNew_Environment(t *testing.T) {
	t.Setenv("SERVER_ADDR", ":9999")
	t.Setenv("DATABASE_URL", "postgres://test")
	t.Setenv("SESSION_TOKEN_SECRET", "s3cret")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_PORT", "2525")
	t.Setenv("SMTP_USER", "mailer@example.com")
	t.Setenv("UPLOAD_DRIVER", "s3")
	t.Setenv("UPLOAD_S3_BUCKET", "assets")
	t.Setenv("UPLOAD_S3_PATH_STYLE", "true")
	t.Setenv("SEED_DEMO_DATA", "false")

	cfg := New()

	if cfg.Server.Addr != ":9999" {
		t.Fatalf("addr = %q", cfg.Server.Addr)
	}
	if cfg.Database.URL != "postgres://test" {
		t.Fatalf("database url = %q", cfg.Database.URL)
	}
	if cfg.Auth.TokenSecret != "s3cret" {
		t.Fatalf("token secret = %q", cfg.Auth.TokenSecret)
	}
	if cfg.SMTP.Host != "smtp.example.com" || cfg.SMTP.Port != 2525 {
		t.Fatalf("smtp = %+v", cfg.SMTP)
	}
	if cfg.SMTP.From != "mailer@example.com" {
		t.Fatalf("from should fall back to SMTP_USER, got %q", cfg.SMTP.From)
	}
	if cfg.Upload.Driver != "s3" || cfg.Upload.S3Bucket != "assets" || !cfg.Upload.S3PathStyle {
		t.Fatalf("upload = %+v", cfg.Upload)
	}
	if cfg.SeedDemoData {
		t.Fatal("seeding should be off")
	}
}

func TestNew_BadIntFallsBack(t *testing.T) {
	t.Setenv("SMTP_PORT", "not-a-number")

	if cfg := New(); cfg.SMTP.Port != DefaultSMTPPort {
		t.Fatalf("smtp port = %d", cfg.SMTP.Port)
	}
}

package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "")
	t.Setenv("NOTIFICATION_SINK", "")

	cfg := Load("does-not-exist.env")

	if cfg.HTTPPort != "8080" {
		t.Errorf("HTTPPort = %q", cfg.HTTPPort)
	}
	if cfg.NotificationSink != SinkDirect {
		t.Errorf("NotificationSink = %q", cfg.NotificationSink)
	}
	if cfg.ExpiryWarningDays != 7 {
		t.Errorf("ExpiryWarningDays = %d", cfg.ExpiryWarningDays)
	}
	if cfg.ReportCacheTTL != 5*time.Minute {
		t.Errorf("ReportCacheTTL = %v", cfg.ReportCacheTTL)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("NOTIFICATION_SINK", SinkKafka)
	t.Setenv("JWT_TTL", "90m")
	t.Setenv("DB_MAX_OPEN_CONNS", "4")
	t.Setenv("TRACING_ENABLED", "true")

	cfg := Load("does-not-exist.env")

	if len(cfg.KafkaBrokers) != 2 || cfg.KafkaBrokers[1] != "k2:9092" {
		t.Errorf("KafkaBrokers = %v", cfg.KafkaBrokers)
	}
	if cfg.NotificationSink != SinkKafka {
		t.Errorf("NotificationSink = %q", cfg.NotificationSink)
	}
	if cfg.JWTTTL != 90*time.Minute {
		t.Errorf("JWTTTL = %v", cfg.JWTTTL)
	}
	if cfg.Database.MaxOpenConns != 4 || !cfg.Database.EnableTracing {
		t.Errorf("Database = %+v", cfg.Database)
	}
}

func TestKafkaSinkFallsBackWithoutBrokers(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "")
	t.Setenv("NOTIFICATION_SINK", SinkKafka)

	if got := Load("does-not-exist.env").NotificationSink; got != SinkDirect {
		t.Fatalf("NotificationSink = %q, want direct", got)
	}
}

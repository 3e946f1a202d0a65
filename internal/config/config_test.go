package config

import (
	"os"
	"testing"

	"github.com/kailas-cloud/adaptrank/internal/domain"
	"github.com/kailas-cloud/adaptrank/internal/domain/rank"
)

func validConfig() Config {
	return Config{
		HTTP: HTTPConfig{Port: 8080},
		Database: DatabaseConfig{
			Addrs: []string{"localhost:6379"},
		},
		Ranking: RankingConfig{DefaultStrategy: "log"},
	}
}

func TestValidate_MissingPort(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.Port = 0

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing port")
	}
}

func TestValidate_MissingAddrs(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Addrs = nil

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for empty database.addrs")
	}
}

func TestValidate_Strategies(t *testing.T) {
	for _, strategy := range []string{"log", "linear", "sigmoid"} {
		t.Run("strategy="+strategy, func(t *testing.T) {
			cfg := validConfig()
			cfg.Ranking.DefaultStrategy = strategy

			if err := cfg.Validate(); err != nil {
				t.Fatalf("unexpected error for %q: %v", strategy, err)
			}
		})
	}

	cfg := validConfig()
	cfg.Ranking.DefaultStrategy = "quadratic"
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for unknown strategy")
	}
	expected := `ranking.default_strategy must be log, linear or sigmoid, got "quadratic"`
	if err.Error() != expected {
		t.Errorf("unexpected error message:\ngot:  %q\nwant: %q", err.Error(), expected)
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := validConfig()
	cfg.Ranking = RankingConfig{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected read timeout 10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.Embedding.Model != domain.DefaultVectorConfig().Model {
		t.Errorf("unexpected default model: %s", cfg.Embedding.Model)
	}
	if cfg.Embedding.Dimensions != domain.DefaultVectorConfig().Dimensions {
		t.Errorf("unexpected default dimensions: %d", cfg.Embedding.Dimensions)
	}
	if cfg.Ranking.DefaultStrategy != "log" {
		t.Errorf("expected default strategy log, got %s", cfg.Ranking.DefaultStrategy)
	}
	if cfg.RankParams() != rank.DefaultParams() {
		t.Errorf("expected default rank params, got %+v", cfg.RankParams())
	}
	if cfg.Ranking.OversampleFloor != 50 || cfg.Ranking.OversampleFactor != 2 {
		t.Errorf("unexpected oversampling defaults: %+v", cfg.Ranking)
	}
	if cfg.Index.DefaultPageSize != 20 || cfg.Index.MaxPageSize != 100 {
		t.Errorf("unexpected pagination defaults: %+v", cfg.Index)
	}
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := validConfig()
	cfg.Ranking.Alpha = 0.2
	cfg.Embedding.Dimensions = 768
	cfg.ApplyDefaults()

	if cfg.Ranking.Alpha != 0.2 {
		t.Errorf("explicit alpha overwritten: %f", cfg.Ranking.Alpha)
	}
	if cfg.Embedding.Dimensions != 768 {
		t.Errorf("explicit dimensions overwritten: %d", cfg.Embedding.Dimensions)
	}
}

func TestExpandEnvVars(t *testing.T) {
	os.Setenv("ADAPTRANK_TEST_KEY", "sk-test")
	defer os.Unsetenv("ADAPTRANK_TEST_KEY")

	in := []byte("api_key: ${ADAPTRANK_TEST_KEY}\nmodel: ${ADAPTRANK_TEST_MODEL:-text-embedding-3-small}\n")
	out := string(expandEnvVars(in))

	expected := "api_key: sk-test\nmodel: text-embedding-3-small\n"
	if out != expected {
		t.Errorf("unexpected expansion:\ngot:  %q\nwant: %q", out, expected)
	}
}

func TestGetEnv(t *testing.T) {
	os.Unsetenv("ENV")
	if env := GetEnv(); env != "local" {
		t.Errorf("expected local, got %s", env)
	}

	os.Setenv("ENV", "prod")
	defer os.Unsetenv("ENV")
	if env := GetEnv(); env != "prod" {
		t.Errorf("expected prod, got %s", env)
	}
}

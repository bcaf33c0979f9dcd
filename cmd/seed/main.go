package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/isep-jornadas/checkin/internal/config"
	"github.com/isep-jornadas/checkin/internal/logger"
	"github.com/isep-jornadas/checkin/internal/repository/postgres"
	"github.com/isep-jornadas/checkin/internal/service"
	"gopkg.in/yaml.v3"
)

// seedFile is the layout of the companies YAML file
type seedFile struct {
	Companies []service.ProvisionInput `yaml:"companies"`
}

func main() {
	file := flag.String("file", "configs/companies.yaml", "YAML file listing the companies to create")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	logger.Configure(logger.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty})

	inputs, err := readSeedFile(*file)
	if err != nil {
		logger.Fatal().Err(err).Str("file", *file).Msg("failed to read seed file")
	}

	db, err := postgres.NewConnection(cfg.DatabaseURL, false)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}

	services := service.NewServices(postgres.NewRepositories(db), cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	result, err := services.Company.Seed(ctx, inputs)
	if err != nil {
		logger.Fatal().Err(err).Msg("seed failed")
	}

	for _, c := range result.Created {
		logger.Info().Str("name", c.Name).Str("email", c.Email).Msg("company created")
	}
	for _, email := range result.Skipped {
		logger.Info().Str("email", email).Msg("company already exists, skipped")
	}
	logger.Info().
		Int("created", len(result.Created)).
		Int("skipped", len(result.Skipped)).
		Msg("seed complete")
}

func readSeedFile(path string) ([]service.ProvisionInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return f.Companies, nil
}

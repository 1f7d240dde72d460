package app

import (
	"fmt"

	"github.com/shrimpsizemoose/testmiddle/internal/backend"
)

type Service struct {
	Config  *Config
	Backend backend.Backend
}

func NewService(configPath string) (*Service, error) {
	config, err := LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	client, err := backend.NewClient(config.Backend.Endpoints, config.Backend.Timeout())
	if err != nil {
		return nil, fmt.Errorf("failed to init backend client: %w", err)
	}

	return &Service{
		Config:  config,
		Backend: client,
	}, nil
}

func (s *Service) Close() error {
	if closer, ok := s.Backend.(interface{ Close() }); ok {
		closer.Close()
	}
	return nil
}

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/studyhall/studyhall-api/internal/config"
)

func TestRunMigrationsRejectsUnknownCommand(t *testing.T) {
	cfg := &config.Config{
		Database: config.DatabaseConfig{URL: "postgres://localhost:5432/studyhall"},
	}

	// sql.Open is lazy, so an unknown command fails before any connection
	// is attempted.
	err := runMigrations(cfg, "sideways")
	assert.ErrorContains(t, err, "unknown migration command")
}

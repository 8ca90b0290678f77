//go:build mage

package main

import (
	"fmt"
	"os"
	"os/exec"
)

const migrationsDir = "internal/migrations/sql"

// MigrateUp runs all pending migrations
func MigrateUp() error {
	return run("go", "run", "./cmd", "migrate", "up")
}

// MigrateDown rolls back the last migration
func MigrateDown() error {
	return run("go", "run", "./cmd", "migrate", "down")
}

// MigrateCreate creates new migration files
func MigrateCreate(name string) error {
	if name == "" {
		return fmt.Errorf("migration name is required")
	}
	return run("migrate", "create", "-ext", "sql", "-dir", migrationsDir, "-seq", name)
}

// Test runs the unit tests
func Test() error {
	return run("go", "test", "./...")
}

// Serve starts the HTTP API
func Serve() error {
	return run("go", "run", "./cmd", "serve")
}

// Worker starts the comparison worker
func Worker() error {
	return run("go", "run", "./cmd", "worker")
}

func run(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

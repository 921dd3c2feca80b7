// Package main runs the gymlog MCP server over stdio, so an LLM client
// (Claude Desktop, Cursor) can read the program and the training log directly.
package main

import (
	"context"
	"flag"
	"log"

	"github.com/vstrand/gymlog/internal/config"
	"github.com/vstrand/gymlog/internal/db"
	"github.com/vstrand/gymlog/internal/exercises"
	"github.com/vstrand/gymlog/internal/gymlogmcp"
	"github.com/vstrand/gymlog/internal/program"
	"github.com/vstrand/gymlog/internal/workouts"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path to TOML config file")
	flag.Parse()

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx := context.Background()
	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         cfg.PostgresHost,
		DBPort:         cfg.PostgresPort,
		DBName:         cfg.PostgresDBName,
		TracingEnabled: false,
	})
	if err != nil {
		log.Fatalf("db pool: %v", err)
	}
	defer dbPool.Close()

	exercisesRepo := exercises.NewCachedRepo(exercises.NewRepo(dbPool))
	programRepo := program.NewRepo(dbPool)
	workoutsRepo := workouts.NewRepo(dbPool)
	server := gymlogmcp.NewServer(dbPool, exercisesRepo, programRepo, workoutsRepo)

	if err := server.Run(context.Background(), &mcp.StdioTransport{}); err != nil {
		log.Fatal(err)
	}
}

package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/intelliking/skillhub/internal/client"
)

func main() {
	_ = godotenv.Load()

	server := flag.String("server", envOr("SKILLHUB_SERVER", "http://localhost:3210"), "skillhub server URL")
	user := flag.String("user", envOr("SKILLHUB_USER", "default"), "user to edit settings for")
	flag.Parse()

	c := client.New(*server, *user)
	m := newModel(c, client.NewSkillsQuery(c, 0))

	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "skillctl: %v\n", err)
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

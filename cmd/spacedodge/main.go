package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"spacedodge/game"
	"spacedodge/scoreclient"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	server := getEnv("SPACEDODGE_SERVER", "http://localhost:8080")
	client := scoreclient.NewClient(server, nil)

	signIn(client, os.Getenv("SPACEDODGE_USER"), os.Getenv("SPACEDODGE_PASSWORD"))

	app := newApp(client)
	if err := app.Start(); err != nil {
		log.Fatal("Failed to start game loop:", err)
	}
	defer app.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go app.watchLeaderboard(ctx)

	ebiten.SetWindowSize(int(game.SurfaceWidth)*2, int(game.SurfaceHeight)*2)
	ebiten.SetWindowTitle("Space Dodge")
	if err := ebiten.RunGame(app); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}

// signIn attaches a token to client. A fresh login wins over a stored token;
// an unknown user is registered. Without a username the game runs
// anonymously and scores are not saved.
func signIn(client *scoreclient.Client, username, password string) {
	if username == "" {
		log.Printf("SPACEDODGE_USER not set, playing without saving scores")
		return
	}

	tokens := scoreclient.NewTokenStore("spacedodge", tokenFallbackPath())
	ctx := context.Background()

	if password == "" {
		token, err := tokens.Load(username)
		if err != nil {
			log.Printf("No stored session for %s: %v", username, err)
			return
		}
		client.SetToken(token)
		log.Printf("Using stored session for %s", username)
		return
	}

	err := client.Login(ctx, username, password)
	var apiErr *scoreclient.APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
		err = client.Register(ctx, username, password)
	}
	if err != nil {
		log.Printf("Sign-in failed for %s: %v", username, err)
		return
	}

	if err := tokens.Save(username, client.Token()); err != nil {
		log.Printf("Session for %s not stored: %v", username, err)
	}
	log.Printf("Signed in as %s", username)
}

func tokenFallbackPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "spacedodge", "tokens.json")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

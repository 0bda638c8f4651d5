package firebase

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"

	"collabuu-backend/logging"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// sanitizeFilename removes special characters from filenames and limits length.
func sanitizeFilename(filename string) string {
	sanitized := unsafeFilenameChars.ReplaceAllString(filename, "_")

	if len(sanitized) > 100 {
		sanitized = sanitized[:100]
	}

	if sanitized == "" || sanitized == "." || sanitized == ".." {
		sanitized = "file"
	}

	return sanitized
}

// Init creates the Firebase app from GOOGLE_APPLICATION_CREDENTIALS, which may
// hold either inline JSON or a file path. Without it the default credentials
// chain is used.
func Init(ctx context.Context) (*firebase.App, error) {
	log := logging.For("firebase")
	credJSON := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")

	var opts []option.ClientOption
	if credJSON != "" {
		if strings.HasPrefix(credJSON, "{") {
			log.Info().Msg("using Firebase credentials from environment variable")
			opts = append(opts, option.WithCredentialsJSON([]byte(credJSON)))
		} else {
			log.Info().Str("file", credJSON).Msg("using Firebase credentials from file")
			opts = append(opts, option.WithCredentialsFile(credJSON))
		}
	} else {
		log.Warn().Msg("GOOGLE_APPLICATION_CREDENTIALS not set, using default credentials")
	}

	var cfg *firebase.Config
	if project := os.Getenv("FIREBASE_PROJECT_ID"); project != "" {
		cfg = &firebase.Config{ProjectID: project}
	}

	app, err := firebase.NewApp(ctx, cfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase init failed: %w", err)
	}

	log.Info().Msg("Firebase initialized successfully")
	return app, nil
}

// AuthClient returns the ID token verifier used by the identity gate.
func AuthClient(ctx context.Context, app *firebase.App) (*auth.Client, error) {
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create auth client: %w", err)
	}
	return client, nil
}

package utils

import (
	"context"
	"os"

	firebase "firebase.google.com/go"
	"firebase.google.com/go/messaging"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

var fcmClient *messaging.Client

// InitFCM initializes the Firebase messaging client. Pushes are best-effort:
// if no credentials file is configured the app runs without them.
func InitFCM() {
	credPath := os.Getenv("FIREBASE_CREDENTIALS_FILE")
	if credPath == "" {
		log.Warn().Msg("FIREBASE_CREDENTIALS_FILE not set, push notifications disabled")
		return
	}

	opt := option.WithCredentialsFile(credPath)
	app, err := firebase.NewApp(context.Background(), nil, opt)
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize firebase app")
		return
	}

	client, err := app.Messaging(context.Background())
	if err != nil {
		log.Error().Err(err).Msg("failed to get messaging client")
		return
	}

	fcmClient = client
	log.Info().Msg("firebase cloud messaging ready")
}

// SendNotification pushes a message to a single device token. No-op when FCM
// is not configured or the user never registered a token.
func SendNotification(token, title, body string, data map[string]string) error {
	if fcmClient == nil || token == "" {
		return nil
	}

	message := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	}

	_, err := fcmClient.Send(context.Background(), message)
	if err != nil {
		log.Error().Err(err).Msg("failed to send push notification")
	}
	return err
}

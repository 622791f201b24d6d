// Package push sends notifications through Firebase Cloud Messaging,
// either to a single device token or to the broadcast topic.
package push

import (
	"context"
	"errors"
	"os"

	firebase "firebase.google.com/go"
	"firebase.google.com/go/messaging"
	"google.golang.org/api/option"
)

// BroadcastTopic is the topic every app install subscribes to.
const BroadcastTopic = "allUsers"

type Client struct {
	messaging *messaging.Client
}

// NewClientFromEnv initializes Firebase from the credentials JSON blob
// in FIREBASE_CREDENTIALS_JSON.
func NewClientFromEnv(ctx context.Context) (*Client, error) {
	credsJSON := os.Getenv("FIREBASE_CREDENTIALS_JSON")
	if credsJSON == "" {
		return nil, errors.New("FIREBASE_CREDENTIALS_JSON must be set")
	}

	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsJSON([]byte(credsJSON)))
	if err != nil {
		return nil, err
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, err
	}

	return &Client{messaging: client}, nil
}

// SendToToken pushes a notification to one device.
func (c *Client) SendToToken(ctx context.Context, token, title, body string) error {
	_, err := c.messaging.Send(ctx, &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
	})
	return err
}

// SendToTopic pushes a notification to every subscriber of a topic.
func (c *Client) SendToTopic(ctx context.Context, topic, title, body string) error {
	_, err := c.messaging.Send(ctx, &messaging.Message{
		Topic: topic,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
	})
	return err
}

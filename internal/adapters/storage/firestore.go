package storage

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Firestore collection names, shared with the original browser client.
const (
	CollectionEvents     = "events"
	CollectionMembers    = "members"
	CollectionAttendance = "attendance"
	CollectionMemos      = "memos"
)

// OpenFirestore connects to the project's default database.
// credentialsFile may be empty to use application default credentials;
// FIRESTORE_EMULATOR_HOST is honoured by the client library.
// PRE: projectID is non-empty
// POST: Returns a client the caller must Close
func OpenFirestore(ctx context.Context, projectID, credentialsFile string) (*firestore.Client, error) {
	if projectID == "" {
		return nil, errors.New("firestore project id is required")
	}
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore client: %w", err)
	}
	return client, nil
}

// TranslateFirestoreError maps gRPC status codes onto the shared store errors.
func TranslateFirestoreError(err error) error {
	if err == nil {
		return nil
	}
	switch status.Code(err) {
	case codes.NotFound:
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	case codes.AlreadyExists:
		return fmt.Errorf("%w: %v", ErrAlreadyExists, err)
	}
	return err
}

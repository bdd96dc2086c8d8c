package database

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"
	"go.mongodb.org/mongo-driver/x/mongo/driver/topology"

	"github.com/mbolis/tichi-survey/log"
	"github.com/mbolis/tichi-survey/model"
)

const (
	DefaultMongoDB = "tichi"

	pingTimeout = 2 * time.Second

	migrateBackoff    = time.Second
	migrateMaxBackoff = time.Minute
	// MongoDB's DocumentValidationFailure
	codeDocumentValidation = 121
)

type mongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection

	done      chan struct{}
	closeOnce sync.Once
}

type submissionDoc struct {
	ID          primitive.ObjectID     `bson:"_id"`
	UserInfo    model.UserInfo         `bson:"userInfo"`
	Responses   []model.SurveyResponse `bson:"responses"`
	SubmittedAt time.Time              `bson:"submittedAt"`
}

func openMongo(ctx context.Context, uri, dbName string) (Store, error) {
	if dbName == "" {
		if cs, err := connstring.ParseAndValidate(uri); err == nil {
			dbName = cs.Database
		}
	}
	if dbName == "" {
		dbName = DefaultMongoDB
	}

	opts := options.Client().
		ApplyURI(uri).
		SetAppName("tichi-survey").
		SetServerSelectionTimeout(5 * time.Second)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	s := &mongoStore{
		client: client,
		coll:   client.Database(dbName).Collection(Collection),
		done:   make(chan struct{}),
	}

	// the server may not be reachable yet: submissions report "not ready"
	// until it is, and indexes are retried until they exist or the store closes
	go func() {
		start := time.Now()
		ok := retry(s.done, migrateBackoff, migrateMaxBackoff, "db.mongo.migrate", func() error {
			return migrateMongo(client, dbName)
		})
		if !ok {
			return
		}
		log.WithFields(log.Fields{
			"db":       dbName,
			"duration": time.Since(start).Round(time.Millisecond),
		}).Info("Connected to MongoDB, indexes ready")
	}()

	return s, nil
}

// retry calls fn until it succeeds, doubling the wait between attempts up
// to maxBackoff. It gives up and returns false once done is closed.
func retry(done <-chan struct{}, backoff, maxBackoff time.Duration, code string, fn func() error) bool {
	for attempt := 1; ; attempt++ {
		err := fn()
		if err == nil {
			return true
		}
		log.WithError(err).WithFields(log.Fields{
			"attempt":  attempt,
			"retry_in": backoff,
		}).Warn(code)

		select {
		case <-done:
			return false
		default:
		}
		timer := time.NewTimer(backoff)
		select {
		case <-done:
			timer.Stop()
			return false
		case <-timer.C:
		}

		backoff *= 2
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
	}
}

func (s *mongoStore) Ready(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("%w: %s", ErrUnavailable, err)
	}
	return nil
}

func (s *mongoStore) Insert(ctx context.Context, sub *model.Submission) error {
	doc := submissionDoc{
		ID:          primitive.NewObjectID(),
		UserInfo:    sub.UserInfo,
		Responses:   sub.Responses,
		SubmittedAt: sub.SubmittedAt,
	}
	if doc.Responses == nil {
		doc.Responses = []model.SurveyResponse{}
	}

	_, err := s.coll.InsertOne(ctx, doc)
	if err != nil {
		return mongoError(err)
	}

	sub.ID = doc.ID.Hex()
	return nil
}

func (s *mongoStore) Close() error {
	s.closeOnce.Do(func() { close(s.done) })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func mongoError(err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: %s", ErrDuplicate, err)
	}

	var we mongo.WriteException
	if errors.As(err, &we) {
		var violations []error
		for _, e := range we.WriteErrors {
			if e.Code == codeDocumentValidation {
				violations = append(violations, errors.New(e.Message))
			}
		}
		if len(violations) > 0 {
			return model.NewValidationError(violations...)
		}
	}

	var sse topology.ServerSelectionError
	if errors.As(err, &sse) ||
		errors.Is(err, mongo.ErrClientDisconnected) ||
		mongo.IsNetworkError(err) ||
		mongo.IsTimeout(err) {
		return fmt.Errorf("%w: %s", ErrUnavailable, err)
	}

	return err
}

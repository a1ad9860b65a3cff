package syncstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5"

	"github.com/saydemoon/internship-portal/internal/common"
	"github.com/saydemoon/internship-portal/internal/logging"
	"github.com/saydemoon/internship-portal/internal/server/models"
)

// channelName must match the channel the submissions trigger notifies on.
const channelName = "submissions_changes"

// PGListenFeed streams submission change events over Postgres LISTEN/NOTIFY
// on a dedicated connection. The trigger serializes each row change to JSON
// at commit time, so events arrive in commit order.
type PGListenFeed struct {
	conn   *pgx.Conn
	log    logging.Logger
	events chan models.ChangeEvent
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// NewPGListenFeed opens a listening connection and starts receiving events.
// The feed runs until Close is called or the connection drops.
func NewPGListenFeed(ctx context.Context, dsn string, log logging.Logger) (*PGListenFeed, error) {
	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorSubscription, err)
	}
	if _, err := conn.Exec(ctx, "listen "+channelName); err != nil {
		conn.Close(ctx)
		return nil, fmt.Errorf("%w: %v", common.ErrorSubscription, err)
	}

	runCtx, cancel := context.WithCancel(context.Background())
	f := &PGListenFeed{
		conn:   conn,
		log:    log,
		events: make(chan models.ChangeEvent, 64),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go f.run(runCtx)
	return f, nil
}

func (f *PGListenFeed) run(ctx context.Context) {
	defer close(f.done)
	defer close(f.events)

	for {
		n, err := f.conn.WaitForNotification(ctx)
		if err != nil {
			if ctx.Err() == nil {
				f.log.Error(ctx, "change feed connection lost", "error", err)
			}
			return
		}

		var ev models.ChangeEvent
		if err := json.Unmarshal([]byte(n.Payload), &ev); err != nil {
			f.log.Warn(ctx, "dropping malformed change payload", "error", err, "payload", n.Payload)
			continue
		}

		select {
		case f.events <- ev:
		case <-ctx.Done():
			return
		}
	}
}

// Events returns the event channel. It closes when the feed ends.
func (f *PGListenFeed) Events() <-chan models.ChangeEvent {
	return f.events
}

// Close stops the feed and closes the listening connection. Safe to call
// more than once.
func (f *PGListenFeed) Close() error {
	var err error
	f.once.Do(func() {
		f.cancel()
		<-f.done
		err = f.conn.Close(context.Background())
	})
	return err
}

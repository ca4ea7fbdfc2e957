package audit

import "context"

// Worker consumes audit entries from a channel and persists them. Callers
// that don't need the gateway's synchronous write-then-log ordering (the
// seed tool, background jobs) can emit through the inbox instead.
type Worker struct {
	store Store
	inbox <-chan Entry
}

func NewWorker(store Store, inbox <-chan Entry) *Worker {
	return &Worker{store: store, inbox: inbox}
}

func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case entry := <-w.inbox:
			if err := w.store.Append(ctx, entry); err != nil {
				return err
			}
		}
	}
}

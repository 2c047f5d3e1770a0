package jobs

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/Ananth-NQI/medeasy-backend/internal/models"
)

// messageInserter is the storage call the job needs
type messageInserter interface {
	InsertMessage(ctx context.Context, msg *models.Message) error
}

// MessageLogJob writes conversation log entries in the background.
// Record never blocks a turn and a failed insert is only logged.
type MessageLogJob struct {
	store   messageInserter
	queue   chan *models.Message
	timeout time.Duration

	mu        sync.RWMutex
	isRunning bool
	closed    bool
	done      chan struct{}
}

// NewMessageLogJob creates the job with a queue of the given size
func NewMessageLogJob(store messageInserter, buffer int) *MessageLogJob {
	if buffer <= 0 {
		buffer = 256
	}
	return &MessageLogJob{
		store:   store,
		queue:   make(chan *models.Message, buffer),
		timeout: 5 * time.Second,
		done:    make(chan struct{}),
	}
}

// Start launches the writer goroutine
func (j *MessageLogJob) Start() {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.isRunning || j.closed {
		log.Println("Message log job already running")
		return
	}
	j.isRunning = true
	go j.run()
	log.Println("📝 Message log job started")
}

// Record queues one entry; when the queue is full the entry is dropped
func (j *MessageLogJob) Record(sessionKey string, sender models.Sender, text string) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	if j.closed {
		return
	}

	msg := &models.Message{
		SessionKey: sessionKey,
		Sender:     sender,
		Text:       text,
		CreatedAt:  time.Now(),
	}
	select {
	case j.queue <- msg:
	default:
		log.Printf("⚠️ Message log queue full, dropping %s message for %s", sender, sessionKey)
	}
}

// Stop closes the queue and waits for queued entries to be written
func (j *MessageLogJob) Stop(ctx context.Context) error {
	j.mu.Lock()
	if j.closed {
		j.mu.Unlock()
		return nil
	}
	j.closed = true
	running := j.isRunning
	close(j.queue)
	j.mu.Unlock()

	if !running {
		return nil
	}

	log.Println("Stopping message log job...")
	select {
	case <-j.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (j *MessageLogJob) run() {
	defer close(j.done)
	for msg := range j.queue {
		j.write(msg)
	}
}

func (j *MessageLogJob) write(msg *models.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	if err := j.store.InsertMessage(ctx, msg); err != nil {
		log.Printf("⚠️ Failed to log %s message for %s: %v", msg.Sender, msg.SessionKey, err)
	}
}

package activity

import (
	"context"
	"log"
	"sync"
	"time"

	"connectApp/internal/models"
	"connectApp/internal/repository"
)

// Logger пишет события в журнал активности в фоне. Log никогда не
// блокирует вызывающего и никогда не возвращает ошибку: журнал
// вторичен по отношению к основной операции.
type Logger interface {
	Log(userID, action, details string)
}

type AsyncLogger struct {
	repo    repository.ActivityRepository
	queue   chan models.ActivityLog
	wg      sync.WaitGroup
	timeout time.Duration
}

func NewAsyncLogger(repo repository.ActivityRepository, queueSize int) *AsyncLogger {
	if queueSize < 1 {
		queueSize = 1
	}

	l := &AsyncLogger{
		repo:    repo,
		queue:   make(chan models.ActivityLog, queueSize),
		timeout: 5 * time.Second,
	}

	l.wg.Add(1)
	go l.consume()

	return l
}

func (l *AsyncLogger) Log(userID, action, details string) {
	entry := models.ActivityLog{
		UserID:    userID,
		Action:    action,
		Details:   details,
		Timestamp: time.Now().UTC(),
	}

	select {
	case l.queue <- entry:
	default:
		// очередь переполнена, событие теряется
		log.Printf("Журнал активности переполнен, событие %s отброшено", action)
	}
}

func (l *AsyncLogger) consume() {
	defer l.wg.Done()

	for entry := range l.queue {
		ctx, cancel := context.WithTimeout(context.Background(), l.timeout)
		if err := l.repo.Insert(ctx, entry); err != nil {
			log.Printf("Не удалось записать событие %s: %v", entry.Action, err)
		}
		cancel()
	}
}

// Close дописывает накопленные события и останавливает consumer
func (l *AsyncLogger) Close() {
	close(l.queue)
	l.wg.Wait()
}

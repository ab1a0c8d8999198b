package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/d60-Lab/dodam/internal/model"
	"github.com/d60-Lab/dodam/internal/repository"
	"github.com/d60-Lab/dodam/pkg/logger"
)

type notifyJob struct {
	userID  string
	content string
	enqAt   time.Time
}

// Dispatcher 通知异步落库 + 尝试实时推送的本地执行器
type Dispatcher struct {
	repo      repository.NotificationRepository
	notifier  *NotificationService
	ch        chan notifyJob
	metricsCh chan time.Duration
}

func NewDispatcher(repo repository.NotificationRepository, notifier *NotificationService, queueSize int) *Dispatcher {
	if queueSize <= 0 {
		queueSize = 10000
	}
	return &Dispatcher{
		repo:      repo,
		notifier:  notifier,
		ch:        make(chan notifyJob, queueSize),
		metricsCh: make(chan time.Duration, 65536),
	}
}

func (d *Dispatcher) Start(workers int) func(context.Context) error {
	if workers <= 0 {
		workers = 4
	}
	stopCh := make(chan struct{})
	for i := 0; i < workers; i++ {
		go func() {
			for {
				select {
				case job := <-d.ch:
					ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					d.process(ctx, job)
					cancel()
					if !job.enqAt.IsZero() {
						select {
						case d.metricsCh <- time.Since(job.enqAt):
						default:
						}
					}
				case <-stopCh:
					return
				}
			}
		}()
	}
	return func(ctx context.Context) error {
		close(stopCh)
		// 等待队列自然排空一小段时间
		timeout := time.After(2 * time.Second)
		for {
			select {
			case <-timeout:
				return nil
			default:
				if len(d.ch) == 0 {
					return nil
				}
				time.Sleep(50 * time.Millisecond)
			}
		}
	}
}

// process 先落库再尝试在线推送；离线不算失败，推送失败只记日志不重试
func (d *Dispatcher) process(ctx context.Context, job notifyJob) {
	n := &model.Notification{
		ID:      uuid.New().String(),
		UserID:  job.userID,
		Content: job.content,
	}
	if err := d.repo.Create(ctx, n); err != nil {
		logger.Error("store notification", zap.String("user", job.userID), zap.Error(err))
		return
	}
	if _, err := d.notifier.Push(job.userID, n); err != nil {
		logger.Warn("push notification", zap.String("user", job.userID), zap.Error(err))
	}
}

func (d *Dispatcher) Enqueue(userID, content string) {
	select {
	case d.ch <- notifyJob{userID: userID, content: content, enqAt: time.Now()}:
	default:
		logger.Warn("dispatcher queue full, drop notification", zap.String("user", userID))
	}
}

// Metrics 返回投递耗时的只读通道（每处理一条发送一次 duration）。
func (d *Dispatcher) Metrics() <-chan time.Duration { return d.metricsCh }

// QueueLen 返回当前队列长度（采样值）。
func (d *Dispatcher) QueueLen() int { return len(d.ch) }

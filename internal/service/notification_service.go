package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/d60-Lab/dodam/internal/model"
	"github.com/d60-Lab/dodam/internal/repository"
	"github.com/d60-Lab/dodam/pkg/response"
)

// DefaultStreamTimeout 订阅流空闲超时
const DefaultStreamTimeout = time.Hour

// ErrStreamClosed 推送时流已关闭或缓冲写不进去，对调用方即投递失败
var ErrStreamClosed = errors.New("notification stream closed")

// Event 单条 SSE 事件
type Event struct {
	ID   string
	Name string
	Data string
}

// Stream 单用户出站事件流
type Stream struct {
	ch        chan Event
	done      chan struct{}
	closeOnce sync.Once
}

func newStream(buffer int) *Stream {
	return &Stream{ch: make(chan Event, buffer), done: make(chan struct{})}
}

// Events 供 handler 消费
func (s *Stream) Events() <-chan Event { return s.ch }

// Done 流结束信号
func (s *Stream) Done() <-chan struct{} { return s.done }

// Close 幂等关闭
func (s *Stream) Close() { s.closeOnce.Do(func() { close(s.done) }) }

// send 不阻塞；缓冲满或流已关闭直接报投递失败，不重试不缓存
func (s *Stream) send(e Event) error {
	select {
	case <-s.done:
		return ErrStreamClosed
	default:
	}
	select {
	case s.ch <- e:
		return nil
	case <-s.done:
		return ErrStreamClosed
	default:
		return ErrStreamClosed
	}
}

type NotificationResponse struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	IsRead    bool      `json:"isRead"`
	CreatedAt time.Time `json:"createdAt"`
}

// NotificationService 进程内订阅登记 + 在库通知回放与实时推送
type NotificationService struct {
	repo     repository.NotificationRepository
	userRepo repository.UserRepository

	mu      sync.Mutex
	streams map[string]*Stream // userID -> 在线流，至多一条
	buffer  int
}

func NewNotificationService(repo repository.NotificationRepository, userRepo repository.UserRepository) *NotificationService {
	return &NotificationService{repo: repo, userRepo: userRepo, streams: make(map[string]*Stream), buffer: 64}
}

// Subscribe 建立新流并顶替该用户的旧登记；旧连接不主动关闭，等它自己超时。
// 先按存储顺序回放在库通知，再进入实时推送。缓冲按回放集大小扩容，
// 在库通知再多也不会把订阅本身挤失败。
func (s *NotificationService) Subscribe(ctx context.Context, userID string) (*Stream, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, response.ErrUserNotFound
	}

	stored, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	stream := newStream(len(stored) + s.buffer)
	s.mu.Lock()
	s.streams[userID] = stream
	s.mu.Unlock()

	for _, n := range stored {
		if err := s.sendTo(stream, userID, n); err != nil {
			s.Unsubscribe(userID, stream)
			return nil, err
		}
	}
	return stream, nil
}

// Unsubscribe 摘除登记并关闭流；仅当登记的还是这条流时才摘除，
// 避免误删后来者（新订阅已顶替的情况）
func (s *NotificationService) Unsubscribe(userID string, stream *Stream) {
	s.mu.Lock()
	if s.streams[userID] == stream {
		delete(s.streams, userID)
	}
	s.mu.Unlock()
	stream.Close()
}

// Push 在线则实时投递；无订阅流是正常情况，返回 delivered=false 而非错误。
// 投递失败直接拆流并摘除登记，错误上抛给生产方。
func (s *NotificationService) Push(userID string, n *model.Notification) (delivered bool, err error) {
	s.mu.Lock()
	stream, ok := s.streams[userID]
	s.mu.Unlock()
	if !ok {
		return false, nil
	}

	if err := s.sendTo(stream, userID, n); err != nil {
		s.Unsubscribe(userID, stream)
		return false, err
	}
	return true, nil
}

func (s *NotificationService) sendTo(stream *Stream, userID string, n *model.Notification) error {
	payload, err := json.Marshal(NotificationResponse{
		ID:        n.ID,
		Content:   n.Content,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	})
	if err != nil {
		return err
	}
	return stream.send(Event{ID: userID, Name: "message", Data: string(payload)})
}

// ChangeIsRead 翻转已读标记
func (s *NotificationService) ChangeIsRead(ctx context.Context, notificationID string) (bool, error) {
	isRead, err := s.repo.MarkRead(ctx, notificationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, response.ErrNotificationNotFound
		}
		return false, err
	}
	return isRead, nil
}

// SubscriberCount 当前在线流数量（观测用）
func (s *NotificationService) SubscriberCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.streams)
}

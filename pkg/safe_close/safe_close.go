// Package safe_close coordinates the shutdown of long running components.
// 协调各个长期运行组件的关闭
package safe_close

import (
	"sync"
)

// SafeClose fans a single close signal out to every attached worker and waits
// for all of them to finish.
type SafeClose struct {
	closeSignal chan struct{}
	once        sync.Once
	wg          sync.WaitGroup

	mu  sync.Mutex
	err error
}

// NewSafeClose 创建 SafeClose
func NewSafeClose() *SafeClose {
	return &SafeClose{closeSignal: make(chan struct{})}
}

// Attach runs fn in its own goroutine. fn must call done when it returns and
// should stop once closeSignal is closed.
// Attach 注册一个关闭处理函数
func (s *SafeClose) Attach(fn func(done func(), closeSignal <-chan struct{})) {
	s.wg.Add(1)
	go fn(s.wg.Done, s.closeSignal)
}

// SendCloseSignal closes the signal channel. Only the first call has an
// effect; its error, if any, is returned by WaitClosed.
// SendCloseSignal 发送关闭信号
func (s *SafeClose) SendCloseSignal(err error) {
	s.once.Do(func() {
		s.mu.Lock()
		s.err = err
		s.mu.Unlock()
		close(s.closeSignal)
	})
}

// WaitClosed blocks until every attached function has returned.
// WaitClosed 等待所有处理函数退出
func (s *SafeClose) WaitClosed() error {
	s.wg.Wait()
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

package safe_close

import (
	"sync/atomic"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestSafeCloseWaitsForAttached(t *testing.T) {
	sc := NewSafeClose()
	var stopped atomic.Int32

	for i := 0; i < 3; i++ {
		sc.Attach(func(done func(), closeSignal <-chan struct{}) {
			defer done()
			<-closeSignal
			stopped.Add(1)
		})
	}

	boom := errors.New("boom")
	sc.SendCloseSignal(boom)
	sc.SendCloseSignal(errors.New("ignored"))

	assert.Equal(t, boom, sc.WaitClosed())
	assert.Equal(t, int32(3), stopped.Load())
}

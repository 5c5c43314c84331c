package kafka

import (
	"testing"
	"time"

	"github.com/ariefcatur/go-store-api/internal/logx"
	"github.com/stretchr/testify/assert"
)

func TestProducer_PublishAfterCloseIsDropped(t *testing.T) {
	p := NewProducer([]string{"127.0.0.1:1"}, "order.placed", 1, logx.Discard())

	p.Close()
	p.Close()

	done := make(chan struct{})
	go func() {
		p.Publish([]byte("k"), []byte("v"))
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked after Close")
	}
	assert.Empty(t, p.inbox)
}

func TestProducer_WaitClosedReturnsOnEmptyInbox(t *testing.T) {
	p := NewProducer([]string{"127.0.0.1:1"}, "order.placed", 1, logx.Discard())
	p.Start()
	p.Close()

	done := make(chan struct{})
	go func() {
		p.WaitClosed()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("WaitClosed did not return")
	}
}

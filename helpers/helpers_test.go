package helpers

import (
	"sync"
	"testing"
	"time"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/temoto/alive/v2"
)

func TestFoldErrors(t *testing.T) {
	t.Parallel()
	assert.NoError(t, FoldErrors(nil))
	assert.NoError(t, FoldErrors([]error{nil, nil}))
	err := FoldErrors([]error{errors.New("strategy"), nil, errors.New("word size")})
	assert.EqualError(t, err, "strategy\nword size")
}

func TestWithLock(t *testing.T) {
	t.Parallel()
	var mu sync.Mutex
	n := 0
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			WithLock(&mu, func() { n++ })
		}()
	}
	wg.Wait()
	assert.Equal(t, 8, n)
}

func TestAliveSub(t *testing.T) {
	t.Parallel()
	root, leaf := alive.NewAlive(), alive.NewAlive()
	done := make(chan struct{})
	go func() { AliveSub(root, leaf); close(done) }()
	root.Stop()
	select {
	case <-leaf.StopChan():
	case <-time.After(5 * time.Second):
		t.Fatal("leaf not stopped")
	}
	<-done

	// leaf stopping alone leaves root running
	root, leaf = alive.NewAlive(), alive.NewAlive()
	leaf.Stop()
	AliveSub(root, leaf)
	assert.True(t, root.IsRunning())
}

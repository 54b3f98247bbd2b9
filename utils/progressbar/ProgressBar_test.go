package progressbar

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgressBar(t *testing.T) {
	var out bytes.Buffer
	p := NewProgressBar(&out, 10, 4)

	p.Increment()
	p.Display()
	assert.Equal(t, 0.25, p.Progress())
	assert.Contains(t, out.String(), "[25.00%")
	assert.Equal(t, 3, strings.Count(out.String(), "█"))

	for i := 0; i < 10; i++ {
		p.Increment()
	}
	assert.Equal(t, 1.0, p.Progress())
}

func TestProgressBarConcurrent(t *testing.T) {
	p := NewProgressBar(&bytes.Buffer{}, 10, 1000)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				p.Increment()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 0.5, p.Progress())
}

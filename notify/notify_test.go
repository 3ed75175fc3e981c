package notify_test

import (
	"bytes"
	"sync"
	"testing"

	"github.com/jrsteele09/go-admin-console/notify"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestPrinterPlain(t *testing.T) {
	var buf bytes.Buffer
	p := notify.NewPrinter(&buf, false)
	notify.Success(p, "Category created successfully")

	assert.Equal(t, " success  Category created successfully\n", buf.String())
}

func TestPrinterColour(t *testing.T) {
	var buf bytes.Buffer
	notify.Error(notify.NewPrinter(&buf, true), "Server error. Please try again later.")
	assert.Contains(t, buf.String(), "\033[7;31m")
}

func TestLogNotifierUsesLevels(t *testing.T) {
	var buf bytes.Buffer
	n := notify.LogNotifier{Logger: zerolog.New(&buf)}
	n.Notify(notify.Notification{Level: notify.LevelError, Message: "boom"})

	assert.Contains(t, buf.String(), `"level":"error"`)
	assert.Contains(t, buf.String(), `"message":"boom"`)
}

func TestRecorderConcurrent(t *testing.T) {
	rec := &notify.Recorder{}
	multi := notify.Multi{rec, notify.Nop{}}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			notify.Error(multi, "same")
		}()
	}
	wg.Wait()

	assert.Equal(t, 20, rec.Count("same"))
	assert.Len(t, rec.Messages(), 20)
	rec.Reset()
	assert.Empty(t, rec.All())
}

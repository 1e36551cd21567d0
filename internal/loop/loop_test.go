package loop

import (
	"bufio"
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/archers/internal/game"
)

func TestRunQuitsOnKey(t *testing.T) {
	var out bytes.Buffer
	done := make(chan error, 1)
	go func() {
		done <- Run(bufio.NewReader(strings.NewReader("q")), &out, Options{
			Username:     "local",
			Sound:        game.NopSound{},
			Seed:         7,
			StartLevel:   3,
			TermSizeFunc: func() (int, int, error) { return 120, 40, nil },
		})
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("run did not return")
	}
	assert.NotEmpty(t, out.String())
}

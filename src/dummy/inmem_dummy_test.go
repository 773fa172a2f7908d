package dummy

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/mosaicnetworks/peerchat/src/common"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInmemDummyAppSide(t *testing.T) {
	logger := common.NewTestEntry(t, logrus.DebugLevel)

	dummy := NewInmemDummyClient(&bytes.Buffer{}, logger)

	submitted := make(chan []string, 1)
	go func() {
		res := []string{}
		for {
			select {
			case text := <-dummy.SubmitCh():
				res = append(res, text)
			case <-time.After(200 * time.Millisecond):
				submitted <- res
				return
			}
		}
	}()

	err := dummy.ReadInput(strings.NewReader("hello\n\n   \nhow are you?  \n"))
	require.NoError(t, err)

	assert.Equal(t, []string{"hello", "how are you?"}, <-submitted)
}

func TestInmemDummyServerSide(t *testing.T) {
	logger := common.NewTestEntry(t, logrus.DebugLevel)

	out := &bytes.Buffer{}
	dummy := NewInmemDummyClient(out, logger)
	dummy.SetOrigin("alice")

	require.NoError(t, dummy.Deliver("hi", "alice"))
	require.NoError(t, dummy.Deliver("hello alice", "bob"))

	assert.Equal(t, "[me]: hi\n[bob]: hello alice\n", out.String())
	assert.Equal(t, []Line{{"hi", "alice"}, {"hello alice", "bob"}}, dummy.GetTranscript())
}

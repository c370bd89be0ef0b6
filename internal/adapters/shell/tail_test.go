package shell

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTail_KeepsLastLines(t *testing.T) {
	var tl tail
	for i := range tailLines + 5 {
		_, _ = fmt.Fprintf(&tl, "line %d\n", i)
	}
	_, _ = tl.Write([]byte("frag"))
	_, _ = tl.Write([]byte("ment"))

	lines := strings.Split(tl.String(), "\n")
	assert.Len(t, lines, tailLines+1)
	assert.Equal(t, "line 5", lines[0])
	assert.Equal(t, "fragment", lines[len(lines)-1])
}

func TestLookPath(t *testing.T) {
	_, err := lookPath("sh", "")
	assert.Error(t, err)

	path, err := lookPath("sh", "/nonexistent:/bin:/usr/bin")
	assert.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "/sh"))
}

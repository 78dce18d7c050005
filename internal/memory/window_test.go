package memory

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nexithium/nexithium/internal/schema"
)

func TestWindow_FIFOEviction(t *testing.T) {
	w := NewWindow(3)
	for i := 0; i < 7; i++ {
		w.Append(schema.NewUserTurn(fmt.Sprint(i)))
		assert.LessOrEqual(t, w.Len(), 3)
	}

	assert.Equal(t, []schema.Turn{
		schema.NewUserTurn("4"),
		schema.NewUserTurn("5"),
		schema.NewUserTurn("6"),
	}, w.Turns())
}

func TestWindow_ResetTrims(t *testing.T) {
	w := NewWindow(2)
	w.Reset([]schema.Turn{schema.NewUserTurn("a"), schema.NewAssistantTurn("b"), schema.NewUserTurn("c")})
	assert.Equal(t, []schema.Turn{schema.NewAssistantTurn("b"), schema.NewUserTurn("c")}, w.Turns())

	w.Reset(nil)
	assert.Equal(t, 0, w.Len())
	assert.NotNil(t, w.Turns())
}

func TestWindow_TurnsIsACopy(t *testing.T) {
	w := NewWindow(2)
	w.Append(schema.NewUserTurn("a"))

	got := w.Turns()
	got[0].Content = "changed"
	assert.Equal(t, "a", w.Turns()[0].Content)
}

func TestWindow_MinimumBound(t *testing.T) {
	assert.Equal(t, 1, NewWindow(0).Bound())
}
